// Package loader resolves assertion suite identifiers to suite
// factories. An identifier is either the name of a statically
// registered builtin variant or a path to a declarative suite file.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/programme-lv/grader/internal/suite"
	"github.com/puzpuzpuz/xsync/v3"
)

// NotFoundError reports an identifier that matched no resolution
// strategy.
type NotFoundError struct {
	Identifier string
	Tried      []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("suite %q not found (tried: %s)", e.Identifier, strings.Join(e.Tried, ", "))
}

// pathEntry is the per-path cache slot. The once gives concurrent
// loads of the same path a single parse.
type pathEntry struct {
	once    sync.Once
	factory suite.Factory
	err     error
}

// Loader maps suite identifiers to factories. The path cache is
// process-wide and safe for concurrent use; builtin registration is
// wiring-time only.
type Loader struct {
	builtins map[string]suite.Factory
	paths    *xsync.MapOf[string, *pathEntry]
}

// New returns a loader with the standard builtin variants registered.
func New() *Loader {
	l := &Loader{
		builtins: map[string]suite.Factory{},
		paths:    xsync.NewMapOf[string, *pathEntry](),
	}
	l.RegisterBuiltin("builtin:output-equals", suite.OutputEquals)
	l.RegisterBuiltin("builtin:output-contains", suite.OutputContains)
	l.RegisterBuiltin("builtin:non-empty", suite.NonEmpty)
	return l
}

// RegisterBuiltin adds a statically known suite variant. Registering
// the same identifier twice is a wiring bug and panics.
func (l *Loader) RegisterBuiltin(identifier string, f suite.Factory) {
	if _, ok := l.builtins[identifier]; ok {
		panic(fmt.Sprintf("suite %q registered twice", identifier))
	}
	l.builtins[identifier] = f
}

// Load resolves an identifier to a suite factory. Builtin names win;
// everything else must be a declarative suite file on disk, parsed
// once per unique path no matter how many activities reference it.
func (l *Loader) Load(identifier string) (suite.Factory, error) {
	if f, ok := l.builtins[identifier]; ok {
		return f, nil
	}

	if _, err := os.Stat(identifier); err != nil {
		return nil, &NotFoundError{
			Identifier: identifier,
			Tried:      []string{"registered builtin", "suite file on disk"},
		}
	}

	key := identifier
	if abs, err := filepath.Abs(identifier); err == nil {
		key = abs
	}

	entry, _ := l.paths.LoadOrCompute(key, func() *pathEntry {
		return &pathEntry{}
	})
	entry.once.Do(func() {
		src, err := os.ReadFile(key)
		if err != nil {
			entry.err = err
			return
		}
		entry.factory, entry.err = suite.Parse(src, key)
	})
	if entry.err != nil {
		return nil, fmt.Errorf("load suite %s: %w", identifier, entry.err)
	}
	return entry.factory, nil
}

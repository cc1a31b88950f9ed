// Package activity defines the exercise instance the grader works on:
// skeleton files, entry point, learner input overrides, context
// variables, and the assertion suite. Setters enforce referential
// integrity between these parts at assignment time.
package activity

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grader/internal/suite"
)

// SuiteResolver turns a suite identifier into a factory. The grading
// pipeline backs it with the loader; tests stub it.
type SuiteResolver func(identifier string) (suite.Factory, error)

// Activity is one exercise instance. It is created per grading
// request, owned by that request alone, and discarded afterwards; its
// lazy caches are not safe for concurrent mutation.
type Activity struct {
	skeletonFiles map[string]string
	entryPoint    string
	inputFiles    map[string]string
	question      string
	workerName    string

	hasContext bool
	context    cell[map[string]any]

	hasSuite     bool
	suite        cell[suite.Suite]
	resolveSuite SuiteResolver
}

// New returns an empty activity whose suite identifiers resolve
// through the given resolver.
func New(resolver SuiteResolver) *Activity {
	return &Activity{resolveSuite: resolver}
}

// SetSkeletonFiles assigns the exercise's baseline files as a mapping
// from logical name to absolute path. The mapping must be non-empty
// and is immutable once set.
func (a *Activity) SetSkeletonFiles(files map[string]string) error {
	if a.skeletonFiles != nil {
		return &InvariantError{Reason: "skeleton files are immutable once set"}
	}
	if len(files) == 0 {
		return &InvariantError{Reason: "skeleton files must not be empty"}
	}
	a.skeletonFiles = maps.Clone(files)
	return nil
}

// SetEntryPoint designates which skeleton file is executed. The
// skeleton must already be set and must contain the name.
func (a *Activity) SetEntryPoint(name string) error {
	if a.skeletonFiles == nil {
		return &InvariantError{Reason: "entry point set before skeleton files"}
	}
	if _, ok := a.skeletonFiles[name]; !ok {
		return &InvariantError{Reason: fmt.Sprintf(
			"entry point %q is not a skeleton file (have %v)",
			name, sortedKeys(a.skeletonFiles))}
	}
	a.entryPoint = name
	return nil
}

// SetInputFiles assigns the learner's overrides, keyed by logical
// name. The key set must equal the skeleton's key set exactly; an
// empty value means "no override" and falls back to the skeleton
// content when files are merged.
func (a *Activity) SetInputFiles(inputs map[string]string) error {
	if a.skeletonFiles == nil {
		return &InvariantError{Reason: "input files set before skeleton files"}
	}
	want := mapset.NewSet[string]()
	for name := range a.skeletonFiles {
		want.Add(name)
	}
	got := mapset.NewSet[string]()
	for name := range inputs {
		got.Add(name)
	}
	if !want.Equal(got) {
		missing := mapset.Sorted(want.Difference(got))
		extra := mapset.Sorted(got.Difference(want))
		return &InvariantError{Reason: fmt.Sprintf(
			"input files must cover the skeleton exactly: missing %v, extra %v",
			missing, extra)}
	}
	a.inputFiles = maps.Clone(inputs)
	return nil
}

// SetContextPath points the activity at a TOML file of variables. The
// file is read lazily on first Context call; reassigning the path
// discards the cached value.
func (a *Activity) SetContextPath(path string) error {
	if path == "" {
		return &InvariantError{Reason: "context path must not be empty"}
	}
	a.context.set(path)
	a.hasContext = true
	return nil
}

// HasContext reports whether a context path has been assigned.
func (a *Activity) HasContext() bool { return a.hasContext }

// Context resolves and caches the context mapping. The TOML file must
// decode to a table of values.
func (a *Activity) Context() (map[string]any, error) {
	if !a.hasContext {
		return nil, &InvariantError{Reason: "context accessed before a context path was set"}
	}
	return a.context.get(loadContext)
}

func loadContext(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	var vals map[string]any
	if err := toml.Unmarshal(b, &vals); err != nil {
		return nil, fmt.Errorf("parse context %s: %w", path, err)
	}
	return vals, nil
}

// SetSuiteSource assigns the assertion suite identifier (builtin name
// or suite file path). The suite is instantiated lazily on first
// Suite call; reassigning the source discards the cached instance.
func (a *Activity) SetSuiteSource(identifier string) error {
	if identifier == "" {
		return &InvariantError{Reason: "suite source must not be empty"}
	}
	a.suite.set(identifier)
	a.hasSuite = true
	return nil
}

// SuiteSource returns the assigned suite identifier.
func (a *Activity) SuiteSource() string { return a.suite.source }

// Suite resolves, instantiates, and caches the assertion suite. The
// activity's context values are passed to the suite's factory as
// constructor parameters.
func (a *Activity) Suite() (suite.Suite, error) {
	if !a.hasSuite {
		return nil, &InvariantError{Reason: "suite accessed before a suite source was set"}
	}
	return a.suite.get(func(identifier string) (suite.Suite, error) {
		if a.resolveSuite == nil {
			return nil, &InvariantError{Reason: "activity has no suite resolver"}
		}
		factory, err := a.resolveSuite(identifier)
		if err != nil {
			return nil, err
		}
		params := map[string]any{}
		if a.hasContext {
			params, err = a.Context()
			if err != nil {
				return nil, err
			}
		}
		return factory(params)
	})
}

// SetQuestion stores the free-form prompt text. Opaque to the engine.
func (a *Activity) SetQuestion(q string) { a.question = q }

// Question returns the prompt text.
func (a *Activity) Question() string { return a.question }

// SetWorkerName stores the logical name used to look the worker up in
// the registry.
func (a *Activity) SetWorkerName(name string) { a.workerName = name }

// WorkerName returns the assigned worker name.
func (a *Activity) WorkerName() string { return a.workerName }

// EntryPoint returns the logical name of the executed file.
func (a *Activity) EntryPoint() string { return a.entryPoint }

// SkeletonFiles returns a copy of the skeleton mapping.
func (a *Activity) SkeletonFiles() map[string]string {
	return maps.Clone(a.skeletonFiles)
}

// EffectiveFiles merges learner overrides onto the skeleton: for each
// logical name the override wins when present and non-empty, otherwise
// the skeleton file's on-disk content is used. Every concrete worker
// executes against this one merge.
func (a *Activity) EffectiveFiles() (map[string]string, error) {
	if a.skeletonFiles == nil {
		return nil, &InvariantError{Reason: "effective files requested before skeleton files"}
	}
	eff := make(map[string]string, len(a.skeletonFiles))
	for name, path := range a.skeletonFiles {
		if override, ok := a.inputFiles[name]; ok && override != "" {
			eff[name] = override
			continue
		}
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &NotFoundError{Path: path}
			}
			return nil, fmt.Errorf("read skeleton %s: %w", name, err)
		}
		eff[name] = string(b)
	}
	return eff, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

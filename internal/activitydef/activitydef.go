// Package activitydef reads TOML activity definition files for the
// local grading path. A definition names the exercise's skeleton
// files, entry point, optional context file, assertion suite, and
// worker; Parse validates the shape and resolves paths before any of
// it reaches the activity factory.
package activitydef

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grader/internal/activity"
)

// def mirrors the TOML shape of a definition file.
type def struct {
	Question   string `toml:"question"`
	Worker     string `toml:"worker"`
	EntryPoint string `toml:"entry_point"`

	// Either scan a whole directory or list files explicitly, not both.
	SkeletonDir string            `toml:"skeleton_dir"`
	Skeleton    map[string]string `toml:"skeleton"`

	Context string `toml:"context"`
	Suite   string `toml:"suite"`
}

// Parse reads a definition file and converts it to a factory-ready
// activity definition. Relative paths are resolved against the
// definition file's directory; a "builtin:" suite identifier is kept
// verbatim.
func Parse(path string) (activity.Definition, error) {
	var out activity.Definition

	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("failed to read definition file: %w", err)
	}
	var d def
	if err := toml.Unmarshal(data, &d); err != nil {
		return out, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if d.EntryPoint == "" {
		return out, fmt.Errorf("%s: entry_point is required", path)
	}
	if d.Suite == "" {
		return out, fmt.Errorf("%s: suite is required", path)
	}
	if d.SkeletonDir == "" && len(d.Skeleton) == 0 {
		return out, fmt.Errorf("%s: either skeleton_dir or a skeleton table is required", path)
	}
	if d.SkeletonDir != "" && len(d.Skeleton) > 0 {
		return out, fmt.Errorf("%s: skeleton_dir and a skeleton table are mutually exclusive", path)
	}

	dir := filepath.Dir(path)

	skeleton := make(map[string]string, len(d.Skeleton))
	if d.SkeletonDir != "" {
		skeleton, err = scanSkeletonDir(resolve(dir, d.SkeletonDir))
		if err != nil {
			return out, err
		}
	} else {
		for name, p := range d.Skeleton {
			skeleton[name] = resolve(dir, p)
		}
	}
	if _, ok := skeleton[d.EntryPoint]; !ok {
		return out, fmt.Errorf("%s: entry_point %q is not a skeleton file", path, d.EntryPoint)
	}

	worker := d.Worker
	if worker == "" {
		worker = "auto"
	}

	suite := d.Suite
	if !strings.HasPrefix(suite, "builtin:") {
		suite = resolve(dir, suite)
	}

	out = activity.Definition{
		SkeletonFiles: skeleton,
		EntryPoint:    d.EntryPoint,
		SuiteSource:   suite,
		WorkerName:    worker,
		Question:      d.Question,
	}
	if d.Context != "" {
		out.ContextPath = resolve(dir, d.Context)
	}
	return out, nil
}

// ReadInputs reads a learner's override directory into an input
// mapping covering the skeleton key set exactly: present files are
// read, absent ones map to "" meaning no override. A file that matches
// no skeleton name is an error rather than silently ignored.
func ReadInputs(dir string, skeleton map[string]string) (map[string]string, error) {
	inputs := make(map[string]string, len(skeleton))
	for name := range skeleton {
		inputs[name] = ""
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if _, ok := inputs[name]; !ok {
			return fmt.Errorf("input file %q matches no skeleton file", name)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		inputs[name] = string(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// scanSkeletonDir walks a skeleton directory; the logical name of each
// file is its slash-separated path relative to the directory.
func scanSkeletonDir(dir string) (map[string]string, error) {
	skeleton := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		skeleton[filepath.ToSlash(rel)] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan skeleton dir %s: %w", dir, err)
	}
	if len(skeleton) == 0 {
		return nil, fmt.Errorf("skeleton dir %s contains no files", dir)
	}
	return skeleton, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

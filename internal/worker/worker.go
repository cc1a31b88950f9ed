// Package worker defines the execution strategies that turn an
// activity's entry point into an output value, the registry they are
// looked up in, and the chained fallback composite. Workers hold no
// per-activity state and are shared across concurrent gradings.
package worker

import (
	"context"

	"github.com/programme-lv/grader/internal/activity"
)

// Worker is one execution strategy. Supports is a pure predicate over
// the activity's entry point; it must not execute anything. Run
// executes the entry point's effective content and returns the value
// it produced. Callers must not invoke Run on an activity the worker
// does not support.
type Worker interface {
	Supports(act *activity.Activity) bool
	Run(ctx context.Context, act *activity.Activity, files map[string]string) (any, error)
}

// Evaluator executes expression entry points. Implemented by hcleval;
// the seam keeps execution pluggable (embedded, subprocess, ...).
type Evaluator interface {
	Evaluate(ctx context.Context, entry string, files map[string]string, vars map[string]any) (any, error)
}

// Renderer renders template entry points against variables and the
// other effective files.
type Renderer interface {
	Render(ctx context.Context, entry string, files map[string]string, vars map[string]any) (string, error)
}

// contextVars resolves the activity's context mapping, or an empty one
// when no context path was assigned.
func contextVars(act *activity.Activity) (map[string]any, error) {
	if !act.HasContext() {
		return map[string]any{}, nil
	}
	return act.Context()
}

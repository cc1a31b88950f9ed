package worker

import (
	"context"
	"strings"

	"github.com/programme-lv/grader/internal/activity"
)

// EvalWorker executes .hcl entry points as expressions: the effective
// entry content is evaluated with the activity's context values bound
// as variables and the other effective files reachable through
// include(name). The produced value is the program's observable
// result.
type EvalWorker struct {
	eval Evaluator
}

func NewEvalWorker(eval Evaluator) *EvalWorker {
	return &EvalWorker{eval: eval}
}

func (w *EvalWorker) Supports(act *activity.Activity) bool {
	return strings.HasSuffix(act.EntryPoint(), ".hcl")
}

func (w *EvalWorker) Run(ctx context.Context, act *activity.Activity, files map[string]string) (any, error) {
	if !w.Supports(act) {
		return nil, &UnsupportedError{WorkerName: "eval", EntryPoint: act.EntryPoint()}
	}
	vars, err := contextVars(act)
	if err != nil {
		return nil, err
	}
	return w.eval.Evaluate(ctx, act.EntryPoint(), files, vars)
}

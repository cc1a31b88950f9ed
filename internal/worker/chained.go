package worker

import (
	"context"

	"github.com/programme-lv/grader/internal/activity"
)

type candidate struct {
	name   string
	worker Worker
}

// Chained is a composite worker trying an ordered list of candidates.
// The first candidate whose Supports accepts the activity handles it;
// candidates added earlier take precedence even when several would
// accept the same entry point, so register the stricter strategy
// before the permissive one.
type Chained struct {
	candidates []candidate
}

func NewChained() *Chained {
	return &Chained{}
}

// Add appends a candidate to the end of the chain and returns the
// chain for call chaining.
func (c *Chained) Add(name string, w Worker) *Chained {
	c.candidates = append(c.candidates, candidate{name: name, worker: w})
	return c
}

// Supports reports whether at least one candidate supports the
// activity.
func (c *Chained) Supports(act *activity.Activity) bool {
	for _, cand := range c.candidates {
		if cand.worker.Supports(act) {
			return true
		}
	}
	return false
}

// Run delegates to the first supporting candidate in order.
func (c *Chained) Run(ctx context.Context, act *activity.Activity, files map[string]string) (any, error) {
	for _, cand := range c.candidates {
		if cand.worker.Supports(act) {
			return cand.worker.Run(ctx, act, files)
		}
	}
	names := make([]string, 0, len(c.candidates))
	for _, cand := range c.candidates {
		names = append(names, cand.name)
	}
	return nil, &NoSupportingWorkerError{EntryPoint: act.EntryPoint(), Candidates: names}
}

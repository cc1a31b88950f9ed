// Package asserter runs an assertion suite's checks against an
// execution output and aggregates the verdicts. A failure inside one
// check is captured as an errored entry for that check alone; the
// remaining checks still run.
package asserter

import (
	"context"
	"fmt"
	"time"

	"github.com/programme-lv/grader/internal/suite"
)

// Verdict classifies one check's outcome. Errored means the check
// itself broke, as opposed to the check intentionally failing.
type Verdict string

const (
	VerdictPass    Verdict = "pass"
	VerdictFail    Verdict = "fail"
	VerdictErrored Verdict = "error"
)

// CheckResult is the recorded outcome of one check.
type CheckResult struct {
	Name       string
	Verdict    Verdict
	Message    string
	DurationMs int64
}

// Summary aggregates verdict counts for one evaluation.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int

	// Failing names the checks that did not pass, in declaration order.
	Failing []string
}

// Result is the aggregated outcome of evaluating a suite.
type Result struct {
	SuiteName string

	// Passed is true iff every check passed. A suite with zero checks
	// passes trivially.
	Passed bool

	Checks  []CheckResult
	Summary Summary
}

// Observer receives per-check progress callbacks, used by gatherers to
// stream results as they appear. Implementations must not block.
type Observer interface {
	ReachCheck(name string)
	FinishCheck(result CheckResult)
}

type nopObserver struct{}

func (nopObserver) ReachCheck(string)       {}
func (nopObserver) FinishCheck(CheckResult) {}

// Evaluate runs every check of the suite in declaration order against
// the given input. obs may be nil. Checks run even after earlier ones
// fail or break; a canceled context marks the remaining checks errored
// instead of dropping them from the result.
func Evaluate(ctx context.Context, s suite.Suite, in suite.Input, obs Observer) Result {
	if obs == nil {
		obs = nopObserver{}
	}

	checks := s.Checks()
	res := Result{
		SuiteName: s.Name(),
		Checks:    make([]CheckResult, 0, len(checks)),
	}

	for _, check := range checks {
		obs.ReachCheck(check.Name)

		entry := CheckResult{Name: check.Name}
		if err := ctx.Err(); err != nil {
			entry.Verdict = VerdictErrored
			entry.Message = fmt.Sprintf("check skipped: %v", err)
		} else {
			start := time.Now()
			verdict, err := runCheck(check, in)
			entry.DurationMs = time.Since(start).Milliseconds()
			switch {
			case err != nil:
				entry.Verdict = VerdictErrored
				entry.Message = err.Error()
			case verdict.Pass:
				entry.Verdict = VerdictPass
			default:
				entry.Verdict = VerdictFail
				entry.Message = verdict.Message
			}
		}

		obs.FinishCheck(entry)
		res.Checks = append(res.Checks, entry)

		res.Summary.Total++
		switch entry.Verdict {
		case VerdictPass:
			res.Summary.Passed++
		case VerdictFail:
			res.Summary.Failed++
			res.Summary.Failing = append(res.Summary.Failing, entry.Name)
		default:
			res.Summary.Errored++
			res.Summary.Failing = append(res.Summary.Failing, entry.Name)
		}
	}

	res.Passed = res.Summary.Passed == res.Summary.Total
	return res
}

// runCheck invokes one check, converting a panic into an error so a
// broken check cannot take the batch down with it.
func runCheck(check suite.Check, in suite.Input) (verdict suite.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return check.Eval(in)
}

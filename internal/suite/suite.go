// Package suite defines assertion suites: named sets of checks
// evaluated against an activity's execution output.
package suite

// Input is what a check examines: the value the entry point produced
// and the activity's context values.
type Input struct {
	Output  any
	Context map[string]any
}

// Verdict is a check's intentional outcome. A failing check explains
// itself through Message.
type Verdict struct {
	Pass    bool
	Message string
}

// Check is one independently named assertion. Eval returns an error
// only for failures inside the check itself, which callers report
// separately from a fail verdict.
type Check struct {
	Name string
	Eval func(in Input) (Verdict, error)
}

// Suite exposes zero or more checks in declaration order. A suite with
// zero checks is valid and trivially passes.
type Suite interface {
	Name() string
	Checks() []Check
}

// Factory instantiates a fresh suite for one activity. Params carry
// exercise-specific values, taken from the activity's context. Suites
// are owned by the activity that loaded them and are never shared.
type Factory func(params map[string]any) (Suite, error)

type checkList struct {
	name   string
	checks []Check
}

// New builds a suite from a fixed list of checks.
func New(name string, checks ...Check) Suite {
	return &checkList{name: name, checks: checks}
}

func (s *checkList) Name() string { return s.name }

func (s *checkList) Checks() []Check { return s.checks }

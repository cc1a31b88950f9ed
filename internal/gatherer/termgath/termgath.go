// Package termgath renders grading progress to the terminal: one line
// per event as the job runs, then a summary table of all checks.
package termgath

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/grader/api"
)

type TerminalGatherer struct {
	StartedAt time.Time

	checks  []api.CheckResult
	passed  bool
	errored bool
}

func New() *TerminalGatherer { return &TerminalGatherer{StartedAt: time.Now()} }

func (t *TerminalGatherer) StartJob(systemInfo string) {
	fmt.Println("== Grading started ==")
	if systemInfo != "" {
		fmt.Println(systemInfo)
	}
}

func (t *TerminalGatherer) StartEval() {
	fmt.Println("-- Evaluation started --")
}

func (t *TerminalGatherer) FinishEval(output *api.OutputData) {
	fmt.Println("-- Evaluation finished --")
	if output != nil {
		fmt.Printf("output=%s took=%dms\n", output.Preview, output.EvalMs)
	}
}

func (t *TerminalGatherer) ReachCheck(name string) {
	fmt.Printf("-> %s\n", name)
}

func (t *TerminalGatherer) FinishCheck(result api.CheckResult) {
	t.checks = append(t.checks, result)

	verdict := color.HiGreenString("PASS")
	switch result.Verdict {
	case api.VerdictFail:
		verdict = color.HiRedString("FAIL")
	case api.VerdictError:
		verdict = color.HiYellowString("ERROR")
	}
	fmt.Printf("<- %s %s", verdict, result.Name)
	if result.Message != nil {
		fmt.Printf(": %s", *result.Message)
	}
	fmt.Println()
}

func (t *TerminalGatherer) ExecError(msg string) {
	t.errored = true
	fmt.Printf("== Execution error: %s ==\n", msg)
}

func (t *TerminalGatherer) InternalError(msg string) {
	t.errored = true
	fmt.Printf("== Internal error: %s ==\n", msg)
}

func (t *TerminalGatherer) FinishNoError(passed bool) {
	t.passed = passed
	t.outputSummary()

	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	if passed {
		fmt.Printf("== Grading %s in %s ==\n", color.HiGreenString("PASSED"), dur)
	} else {
		fmt.Printf("== Grading %s in %s ==\n", color.HiRedString("FAILED"), dur)
	}
}

// Passed reports whether the job finished cleanly with every check passing.
func (t *TerminalGatherer) Passed() bool {
	return t.passed && !t.errored
}

func (t *TerminalGatherer) outputSummary() {
	w := pretty_table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.AppendHeader(pretty_table.Row{"Check", "Verdict", "Message", "Time"})
	for _, c := range t.checks {
		verdictCode := ""
		switch c.Verdict {
		case api.VerdictPass:
			verdictCode = "PASS"
		case api.VerdictFail:
			verdictCode = "FAIL"
		case api.VerdictError:
			verdictCode = "ERROR"
		}

		message := ""
		if c.Message != nil {
			message = *c.Message
		}

		w.AppendRow(
			pretty_table.Row{
				c.Name,
				verdictCode,
				message,
				fmt.Sprintf("%dms", c.DurationMs),
			})
	}
	w.SetStyle(pretty_table.StyleColoredDark)
	textColor := text.Transformer(func(s interface{}) string {
		switch s.(string) {
		case "PASS":
			return text.FgHiGreen.Sprint(s)
		case "FAIL":
			return text.FgHiRed.Sprint(s)
		case "ERROR":
			return text.FgHiYellow.Sprint(s)
		}
		return ""
	})

	w.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:        "Verdict",
			Transformer: textColor,
			Align:       text.AlignCenter,
		},
	})
	w.Render()
}

package respbuilder

import (
	"time"

	"github.com/programme-lv/grader/api"
)

// Builder gathers grading events and builds a complete api.GradeResponse.
type Builder struct {
	gradeUuid  string
	systemInfo string

	started  time.Time
	finished *time.Time

	// evaluation
	output *api.OutputData

	// checks
	checks []api.CheckResult

	// job status
	status       api.ExecStatus
	passed       bool
	errorMessage *string
}

func New(gradeUuid string) *Builder {
	return &Builder{
		gradeUuid: gradeUuid,
		started:   time.Now(),
		status:    api.Success,
	}
}

// StartJob implements ResultGatherer.
func (b *Builder) StartJob(systemInfo string) {
	b.systemInfo = systemInfo
}

// StartEval implements ResultGatherer.
func (b *Builder) StartEval() {}

// FinishEval implements ResultGatherer.
func (b *Builder) FinishEval(output *api.OutputData) {
	b.output = output
}

// ReachCheck implements ResultGatherer.
func (b *Builder) ReachCheck(name string) {}

// FinishCheck implements ResultGatherer.
func (b *Builder) FinishCheck(result api.CheckResult) {
	b.checks = append(b.checks, result)
}

// ExecError implements ResultGatherer.
func (b *Builder) ExecError(msg string) {
	b.status = api.ExecError
	b.errorMessage = &msg
	b.finish()
}

// InternalError implements ResultGatherer.
func (b *Builder) InternalError(msg string) {
	b.status = api.InternalError
	b.errorMessage = &msg
	b.finish()
}

// FinishNoError implements ResultGatherer.
func (b *Builder) FinishNoError(passed bool) {
	b.passed = passed
	b.finish()
}

func (b *Builder) finish() {
	now := time.Now()
	b.finished = &now
}

// Passed reports whether the job finished cleanly with every check passing.
func (b *Builder) Passed() bool {
	return b.status == api.Success && b.passed
}

// Response builds the api.GradeResponse from gathered data.
func (b *Builder) Response() api.GradeResponse {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}

	summary := api.ChecksSummary{Total: len(b.checks)}
	for _, c := range b.checks {
		switch c.Verdict {
		case api.VerdictPass:
			summary.Passed++
		case api.VerdictFail:
			summary.Failed++
			summary.Failing = append(summary.Failing, c.Name)
		default:
			summary.Errored++
			summary.Failing = append(summary.Failing, c.Name)
		}
	}

	return api.GradeResponse{
		GradeUuid: b.gradeUuid,
		Status:    b.status,
		Passed:    b.Passed(),
		Output:    b.output,
		Checks:    b.checks,
		Summary:   summary,
		ErrorMessage: func() *string {
			if b.errorMessage == nil {
				return nil
			}
			v := *b.errorMessage
			return &v
		}(),
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
		SystemInfo: func() *string {
			if b.systemInfo == "" {
				return nil
			}
			v := b.systemInfo
			return &v
		}(),
	}
}

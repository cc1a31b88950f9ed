package api

// Simple, non-streaming response types for grading results

// Verdict is the outcome of a single assertion check.
type Verdict string

const (
	VerdictPass  Verdict = "pass"
	VerdictFail  Verdict = "fail"
	VerdictError Verdict = "error"
)

// CheckResult represents the result of a single assertion check
type CheckResult struct {
	Name    string  `json:"name"`
	Verdict Verdict `json:"verdict"`

	// Message explains a fail or error verdict
	Message *string `json:"message,omitempty"`

	DurationMs int64 `json:"duration_ms"`
}

// ChecksSummary aggregates check verdicts for one grading job
type ChecksSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`

	// Failing lists the names of checks that did not pass
	Failing []string `json:"failing,omitempty"`
}

// OutputData describes the value the executed entry point produced
type OutputData struct {
	// Value is the produced value, JSON-shaped (bool, number, string,
	// list, or map). Nil when execution failed.
	Value any `json:"value"`

	// Preview is a textual rendering of Value, truncated by gatherers
	Preview string `json:"preview"`

	EvalMs int64 `json:"eval_ms"`
}

type ExecStatus string

const (
	Success       ExecStatus = "success"
	ExecError     ExecStatus = "exec_error"
	InternalError ExecStatus = "internal_error"
)

// GradeResponse is a simple, complete response for one grading job
type GradeResponse struct {
	GradeUuid string `json:"grade_uuid"`

	// Overall grading status
	Status ExecStatus `json:"status"`

	// Passed is true iff execution succeeded and every check passed
	Passed bool `json:"passed"`

	// Output of the executed entry point (nil if execution failed)
	Output *OutputData `json:"output,omitempty"`

	// Check results in suite declaration order (empty if execution failed)
	Checks  []CheckResult `json:"checks"`
	Summary ChecksSummary `json:"summary"`

	// Overall error message (for exec and internal errors)
	ErrorMessage *string `json:"error_message,omitempty"`

	// Grading metadata
	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`

	// System information
	SystemInfo *string `json:"system_info,omitempty"`
}

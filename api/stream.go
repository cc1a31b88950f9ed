package api

import "time"

// MsgType is a message type for streaming responses
type MsgType string

// Streaming message type constants
const (
	StartJobMsg    MsgType = "job_start"
	StartEvalMsg   MsgType = "eval_start"
	FinishEvalMsg  MsgType = "eval_finish"
	ReachCheckMsg  MsgType = "check_reach"
	FinishCheckMsg MsgType = "check_finish"
	FinishJobMsg   MsgType = "job_finish"
)

// Output size constraints for streaming
const (
	MaxOutputHeight = 40
	MaxOutputWidth  = 80
)

// Header is the common header for all streaming response messages
type Header struct {
	GradeUuid string  `json:"grade_uuid"`
	MsgType   MsgType `json:"msg_type"`
}

// StartJob message sent when grading begins
type StartJob struct {
	Header
	SystemInfo  string `json:"system_info"`
	StartedTime string `json:"started_time"`
}

// StartEval message sent when entry point execution begins
type StartEval struct {
	Header
}

// FinishEval message sent when entry point execution completes
type FinishEval struct {
	Header
	Output *OutputData `json:"output"`
}

// ReachCheck message sent when an assertion check is reached
type ReachCheck struct {
	Header
	CheckName string `json:"check_name"`
}

// FinishCheck message sent when an assertion check completes
type FinishCheck struct {
	Header
	Check CheckResult `json:"check"`
}

// FinishJob message sent when grading completes
type FinishJob struct {
	Header
	Passed        bool    `json:"passed"`
	ErrorMessage  *string `json:"error_message"`
	ExecError     bool    `json:"exec_error"`
	InternalError bool    `json:"internal_error"`
}

// Helper function to create a header
func NewHeader(gradeUuid string, msgType MsgType) Header {
	return Header{
		GradeUuid: gradeUuid,
		MsgType:   msgType,
	}
}

// Helper functions to create specific streaming message types
func NewStartJob(gradeUuid, systemInfo string) StartJob {
	return StartJob{
		Header:      NewHeader(gradeUuid, StartJobMsg),
		SystemInfo:  systemInfo,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartEval(gradeUuid string) StartEval {
	return StartEval{
		Header: NewHeader(gradeUuid, StartEvalMsg),
	}
}

func NewFinishEval(gradeUuid string, output *OutputData) FinishEval {
	return FinishEval{
		Header: NewHeader(gradeUuid, FinishEvalMsg),
		Output: output,
	}
}

func NewReachCheck(gradeUuid string, checkName string) ReachCheck {
	return ReachCheck{
		Header:    NewHeader(gradeUuid, ReachCheckMsg),
		CheckName: checkName,
	}
}

func NewFinishCheck(gradeUuid string, check CheckResult) FinishCheck {
	return FinishCheck{
		Header: NewHeader(gradeUuid, FinishCheckMsg),
		Check:  check,
	}
}

func NewFinishJob(gradeUuid string, passed bool, errorMessage *string, execError, internalError bool) FinishJob {
	return FinishJob{
		Header:        NewHeader(gradeUuid, FinishJobMsg),
		Passed:        passed,
		ErrorMessage:  errorMessage,
		ExecError:     execError,
		InternalError: internalError,
	}
}

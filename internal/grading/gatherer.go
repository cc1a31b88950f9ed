package grading

import "github.com/programme-lv/grader/api"

// ResultGatherer receives grading progress for one job. The service
// calls it strictly in this order: StartJob, then StartEval/FinishEval,
// then ReachCheck/FinishCheck per check, then exactly one of ExecError,
// InternalError, or FinishNoError. Implementations stream the calls
// onward (SQS, NATS, terminal) or accumulate them into one response.
type ResultGatherer interface {
	StartJob(systemInfo string)

	StartEval()
	FinishEval(output *api.OutputData)

	ReachCheck(name string)
	FinishCheck(result api.CheckResult)

	ExecError(msg string)
	InternalError(msg string)
	FinishNoError(passed bool)
}

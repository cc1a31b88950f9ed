package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/grader/api"
)

type sqsGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
	gradeUuid string
}

func (s *sqsGatherer) StartJob(systemInfo string) {
	s.send(api.NewStartJob(s.gradeUuid, systemInfo))
}

func (s *sqsGatherer) StartEval() {
	s.send(api.NewStartEval(s.gradeUuid))
}

func (s *sqsGatherer) FinishEval(output *api.OutputData) {
	msg := api.NewFinishEval(
		s.gradeUuid,
		trimOutputData(output, api.MaxOutputHeight*2, api.MaxOutputWidth*2),
	)
	s.send(msg)
}

func (s *sqsGatherer) ReachCheck(name string) {
	s.send(api.NewReachCheck(s.gradeUuid, name))
}

func (s *sqsGatherer) FinishCheck(result api.CheckResult) {
	s.send(api.NewFinishCheck(s.gradeUuid, trimCheckResult(result)))
}

func (s *sqsGatherer) ExecError(msg string) {
	s.send(api.NewFinishJob(s.gradeUuid, false, &msg, true, false))
}

func (s *sqsGatherer) InternalError(msg string) {
	s.send(api.NewFinishJob(s.gradeUuid, false, &msg, false, true))
}

func (s *sqsGatherer) FinishNoError(passed bool) {
	s.send(api.NewFinishJob(s.gradeUuid, passed, nil, false, false))
}

func trimOutputData(output *api.OutputData, maxHeight int, maxWidth int) *api.OutputData {
	if output == nil {
		return nil
	}
	return &api.OutputData{
		Value:   output.Value,
		Preview: trimStrToRect(output.Preview, maxHeight, maxWidth),
		EvalMs:  output.EvalMs,
	}
}

func trimCheckResult(result api.CheckResult) api.CheckResult {
	if result.Message == nil {
		return result
	}
	trimmed := trimStrToRect(*result.Message, api.MaxOutputHeight, api.MaxOutputWidth)
	result.Message = &trimmed
	return result
}

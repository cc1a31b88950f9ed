package natsgath

import (
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/grader/api"
)

type natsGatherer struct {
	nc        *nats.Conn
	inbox     string
	gradeUuid string
}

func (s *natsGatherer) StartJob(systemInfo string) {
	s.send(api.NewStartJob(s.gradeUuid, systemInfo))
}

func (s *natsGatherer) StartEval() {
	s.send(api.NewStartEval(s.gradeUuid))
}

func (s *natsGatherer) FinishEval(output *api.OutputData) {
	msg := api.NewFinishEval(
		s.gradeUuid,
		trimOutputData(output, api.MaxOutputHeight*2, api.MaxOutputWidth*2),
	)
	s.send(msg)
}

func (s *natsGatherer) ReachCheck(name string) {
	s.send(api.NewReachCheck(s.gradeUuid, name))
}

func (s *natsGatherer) FinishCheck(result api.CheckResult) {
	s.send(api.NewFinishCheck(s.gradeUuid, trimCheckResult(result)))
}

func (s *natsGatherer) ExecError(msg string) {
	s.send(api.NewFinishJob(s.gradeUuid, false, &msg, true, false))
}

func (s *natsGatherer) InternalError(msg string) {
	s.send(api.NewFinishJob(s.gradeUuid, false, &msg, false, true))
}

func (s *natsGatherer) FinishNoError(passed bool) {
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

package grading_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/grader"
	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/activity"
	"github.com/programme-lv/grader/internal/fetch"
	"github.com/programme-lv/grader/internal/grading"
	"github.com/programme-lv/grader/internal/grading/mocks"
	"github.com/programme-lv/grader/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const arithmeticSuite = `
suite "arithmetic" {
  check "result is five" {
    expect  = output == 5
    message = "expected 5, got ${output}"
  }
}
`

const impossibleSuite = `
suite "arithmetic" {
  check "result is ten" {
    expect  = output == 10
    message = "expected 10, got ${output}"
  }
}
`

func newService(t *testing.T) *grading.Service {
	t.Helper()
	store, err := fetch.New(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return grading.New(logger, store)
}

func ptr(s string) *string { return &s }

func passingReq() grader.GradeReq {
	return grader.GradeReq{
		GradeUuid: "e0f4b0e6-0000-0000-0000-000000000001",
		Activity: grader.ReqActivity{
			EntryPoint: "main.hcl",
			Skeleton: []grader.ReqFile{
				{Fname: "main.hcl", Content: ptr("x + 1")},
			},
			Context:   &grader.ReqFile{Fname: "context.toml", Content: ptr("x = 4\n")},
			SuiteFile: &grader.ReqFile{Fname: "suite.hcl", Content: ptr(arithmeticSuite)},
			Worker:    "eval",
			Question:  "increment x",
		},
	}
}

func TestGradePassingSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	var evalOut *api.OutputData
	var checkRes api.CheckResult
	gomock.InOrder(
		gath.EXPECT().StartJob(gomock.Any()),
		gath.EXPECT().StartEval(),
		gath.EXPECT().FinishEval(gomock.Any()).Do(func(out *api.OutputData) {
			evalOut = out
		}),
		gath.EXPECT().ReachCheck("result is five"),
		gath.EXPECT().FinishCheck(gomock.Any()).Do(func(r api.CheckResult) {
			checkRes = r
		}),
		gath.EXPECT().FinishNoError(true),
	)

	svc := newService(t)
	err := svc.Grade(context.Background(), passingReq(), gath)
	require.NoError(t, err)

	require.NotNil(t, evalOut)
	assert.Equal(t, float64(5), evalOut.Value)
	assert.Equal(t, "5", evalOut.Preview)
	assert.Equal(t, api.VerdictPass, checkRes.Verdict)
	assert.Nil(t, checkRes.Message)
}

func TestGradeFailingCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	var checkRes api.CheckResult
	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().StartEval()
	gath.EXPECT().FinishEval(gomock.Any())
	gath.EXPECT().ReachCheck("result is ten")
	gath.EXPECT().FinishCheck(gomock.Any()).Do(func(r api.CheckResult) {
		checkRes = r
	})
	gath.EXPECT().FinishNoError(false)

	req := passingReq()
	req.Activity.SuiteFile.Content = ptr(impossibleSuite)

	svc := newService(t)
	require.NoError(t, svc.Grade(context.Background(), req, gath))

	assert.Equal(t, api.VerdictFail, checkRes.Verdict)
	require.NotNil(t, checkRes.Message)
	assert.Equal(t, "expected 10, got 5", *checkRes.Message)
}

func TestGradeBuiltinSuite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().StartEval()
	gath.EXPECT().FinishEval(gomock.Any())
	gath.EXPECT().ReachCheck(gomock.Any())
	gath.EXPECT().FinishCheck(gomock.Any())
	gath.EXPECT().FinishNoError(true)

	req := passingReq()
	req.Activity.SuiteFile = nil
	req.Activity.Suite = "builtin:output-equals"
	req.Activity.Context.Content = ptr("x = 4\nexpected = 5\n")

	svc := newService(t)
	require.NoError(t, svc.Grade(context.Background(), req, gath))
}

func TestGradeInputOverrideWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	var evalOut *api.OutputData
	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().StartEval()
	gath.EXPECT().FinishEval(gomock.Any()).Do(func(out *api.OutputData) {
		evalOut = out
	})
	gath.EXPECT().ReachCheck(gomock.Any())
	gath.EXPECT().FinishCheck(gomock.Any())
	gath.EXPECT().FinishNoError(true)

	req := passingReq()
	req.Activity.Suite = ""
	req.Activity.SuiteFile.Content = ptr(`
suite "arithmetic" {
  check "doubled" {
    expect = output == 8
  }
}
`)
	req.Inputs = map[string]string{"main.hcl": "x * 2"}

	svc := newService(t)
	require.NoError(t, svc.Grade(context.Background(), req, gath))
	assert.Equal(t, float64(8), evalOut.Value)
}

func TestGradeExecErrorIsGradedOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().StartEval()
	gath.EXPECT().ExecError(gomock.Any())

	req := passingReq()
	req.Inputs = map[string]string{"main.hcl": "x +"} // malformed

	svc := newService(t)
	// evaluation failure is a graded outcome, not an engine fault
	require.NoError(t, svc.Grade(context.Background(), req, gath))
}

func TestGradeUnknownWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().InternalError(gomock.Any())

	req := passingReq()
	req.Activity.Worker = "php"

	svc := newService(t)
	err := svc.Grade(context.Background(), req, gath)
	var nr *worker.NotRegisteredError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "php", nr.Name)
}

func TestGradeUnsupportedEntryPoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().InternalError(gomock.Any())

	req := passingReq()
	req.Activity.EntryPoint = "main.txt"
	req.Activity.Skeleton[0].Fname = "main.txt"

	svc := newService(t)
	err := svc.Grade(context.Background(), req, gath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support")
}

func TestGradeMissingFileSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().InternalError(gomock.Any())

	req := passingReq()
	req.Activity.Skeleton[0] = grader.ReqFile{Fname: "main.hcl"}

	svc := newService(t)
	require.Error(t, svc.Grade(context.Background(), req, gath))
}

func TestGradeDefinitionLocalFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	gath := mocks.NewMockResultGatherer(ctrl)

	gath.EXPECT().StartJob(gomock.Any())
	gath.EXPECT().StartEval()
	gath.EXPECT().FinishEval(gomock.Any())
	gath.EXPECT().ReachCheck(gomock.Any())
	gath.EXPECT().FinishCheck(gomock.Any())
	gath.EXPECT().FinishNoError(true)

	dir := t.TempDir()
	entry := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(entry, []byte("x + 1"), 0644))
	ctxPath := filepath.Join(dir, "context.toml")
	require.NoError(t, os.WriteFile(ctxPath, []byte("x = 4\n"), 0644))
	suitePath := filepath.Join(dir, "suite.hcl")
	require.NoError(t, os.WriteFile(suitePath, []byte(arithmeticSuite), 0644))

	def := activity.Definition{
		SkeletonFiles: map[string]string{"main.hcl": entry},
		EntryPoint:    "main.hcl",
		ContextPath:   ctxPath,
		SuiteSource:   suitePath,
		WorkerName:    "auto",
	}

	svc := newService(t)
	require.NoError(t, svc.GradeDefinition(context.Background(), "local-job", def, gath))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(entry, []byte("x + 1"), 0644))
	suitePath := filepath.Join(dir, "suite.hcl")
	require.NoError(t, os.WriteFile(suitePath, []byte(arithmeticSuite), 0644))

	def := activity.Definition{
		SkeletonFiles: map[string]string{"main.hcl": entry},
		EntryPoint:    "main.hcl",
		SuiteSource:   suitePath,
		WorkerName:    "eval",
	}

	svc := newService(t)
	require.NoError(t, svc.Validate(def))

	bad := def
	bad.WorkerName = "php"
	var nr *worker.NotRegisteredError
	require.ErrorAs(t, svc.Validate(bad), &nr)

	bad = def
	bad.SuiteSource = "builtin:no-such-suite"
	require.Error(t, svc.Validate(bad))
}

// Package grading orchestrates one grading job: it materializes the
// request's files into the local store, builds the activity, dispatches
// the named worker, runs the assertion suite against the produced
// output, and streams progress through a ResultGatherer.
package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/programme-lv/grader"
	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/activity"
	"github.com/programme-lv/grader/internal/asserter"
	"github.com/programme-lv/grader/internal/fetch"
	"github.com/programme-lv/grader/internal/hcleval"
	"github.com/programme-lv/grader/internal/loader"
	"github.com/programme-lv/grader/internal/suite"
	"github.com/programme-lv/grader/internal/worker"
)

// Service is the grading pipeline. It is stateless per job and safe
// for concurrent Grade calls; each job gets its own Activity and
// gatherer.
type Service struct {
	logger     *slog.Logger
	registry   *worker.Registry
	factory    *activity.Factory
	loader     *loader.Loader
	store      *fetch.Store
	systemInfo string
}

// New builds a service with the standard wiring: an HCL evaluator
// behind the "eval" and "template" workers, plus an "auto" worker
// chaining eval before template. The store may be nil when only local
// definitions are graded.
func New(logger *slog.Logger, store *fetch.Store) *Service {
	ev := hcleval.New()

	registry := worker.NewRegistry()
	registry.Register("eval", worker.NewEvalWorker(ev))
	registry.Register("template", worker.NewTemplateWorker(ev))

	// eval before template: the stricter strategy wins when both
	// would accept an entry point.
	auto, err := registry.Pipeline("eval", "template")
	if err != nil {
		panic(err)
	}
	registry.Register("auto", auto)

	ld := loader.New()
	factory := activity.NewFactory(func(identifier string) (suite.Factory, error) {
		return ld.Load(identifier)
	})

	return &Service{
		logger:     logger,
		registry:   registry,
		factory:    factory,
		loader:     ld,
		store:      store,
		systemInfo: getSystemInfo(),
	}
}

// Grade runs one wire-format grading job end to end. The returned
// error reports engine faults only; a learner submission that fails
// evaluation or assertions is a graded outcome, reported through the
// gatherer, not an error.
func (s *Service) Grade(ctx context.Context, req grader.GradeReq, gath ResultGatherer) error {
	log := s.logger.With("grade_uuid", req.GradeUuid)
	log.Info("grading started", "entry_point", req.Activity.EntryPoint, "worker", req.Activity.Worker)

	def, err := s.materialize(ctx, req)
	if err != nil {
		log.Error("failed to materialize request", "error", err)
		gath.StartJob(s.systemInfo)
		gath.InternalError(err.Error())
		return err
	}

	return s.GradeDefinition(ctx, req.GradeUuid, def, gath)
}

// GradeDefinition grades an already-local activity definition, used
// directly by the CLI and by Grade after materialization.
func (s *Service) GradeDefinition(ctx context.Context, gradeUuid string, def activity.Definition, gath ResultGatherer) error {
	log := s.logger.With("grade_uuid", gradeUuid)
	gath.StartJob(s.systemInfo)

	act, err := s.factory.Build(def)
	if err != nil {
		log.Error("failed to build activity", "error", err)
		gath.InternalError(err.Error())
		return err
	}

	w, err := s.registry.Get(act.WorkerName())
	if err != nil {
		log.Error("worker lookup failed", "error", err)
		gath.InternalError(err.Error())
		return err
	}
	if !w.Supports(act) {
		err := fmt.Errorf("worker %q does not support entry point %q",
			act.WorkerName(), act.EntryPoint())
		log.Error("dispatch failed", "error", err)
		gath.InternalError(err.Error())
		return err
	}

	files, err := act.EffectiveFiles()
	if err != nil {
		log.Error("failed to merge files", "error", err)
		gath.InternalError(err.Error())
		return err
	}

	log.Debug("evaluating entry point", "entry_point", act.EntryPoint())
	gath.StartEval()
	started := time.Now()
	output, err := w.Run(ctx, act, files)
	if err != nil {
		if isExecFailure(err) {
			// the submission's fault, not ours
			log.Info("evaluation failed", "error", err)
			gath.ExecError(err.Error())
			return nil
		}
		log.Error("worker failed", "error", err)
		gath.InternalError(err.Error())
		return err
	}
	gath.FinishEval(&api.OutputData{
		Value:   output,
		Preview: renderPreview(output),
		EvalMs:  time.Since(started).Milliseconds(),
	})

	st, err := act.Suite()
	if err != nil {
		log.Error("failed to load suite", "error", err)
		gath.InternalError(err.Error())
		return err
	}

	vars := map[string]any{}
	if act.HasContext() {
		// already resolved and cached during suite instantiation
		vars, err = act.Context()
		if err != nil {
			gath.InternalError(err.Error())
			return err
		}
	}

	res := asserter.Evaluate(ctx, st, suite.Input{Output: output, Context: vars}, gatherObserver{gath})
	log.Info("grading finished", "passed", res.Passed,
		"checks", res.Summary.Total, "failed", res.Summary.Failed, "errored", res.Summary.Errored)
	gath.FinishNoError(res.Passed)
	return nil
}

// Validate builds the activity and resolves its collaborators without
// executing anything: the suite is instantiated, the worker looked up,
// and its capability checked.
func (s *Service) Validate(def activity.Definition) error {
	act, err := s.factory.Build(def)
	if err != nil {
		return err
	}
	if _, err := act.Suite(); err != nil {
		return err
	}
	w, err := s.registry.Get(act.WorkerName())
	if err != nil {
		return err
	}
	if !w.Supports(act) {
		return fmt.Errorf("worker %q does not support entry point %q",
			act.WorkerName(), act.EntryPoint())
	}
	return nil
}

// gatherObserver forwards per-check progress from the asserter to the
// job's gatherer.
type gatherObserver struct {
	gath ResultGatherer
}

func (o gatherObserver) ReachCheck(name string) {
	o.gath.ReachCheck(name)
}

func (o gatherObserver) FinishCheck(r asserter.CheckResult) {
	res := api.CheckResult{
		Name:       r.Name,
		Verdict:    api.Verdict(r.Verdict),
		DurationMs: r.DurationMs,
	}
	if r.Message != "" {
		msg := r.Message
		res.Message = &msg
	}
	o.gath.FinishCheck(res)
}

// isExecFailure reports whether the worker error was produced by the
// executed content itself rather than by the engine.
func isExecFailure(err error) bool {
	var evalErr *hcleval.EvalError
	var tmplErr *hcleval.TemplateError
	return errors.As(err, &evalErr) || errors.As(err, &tmplErr)
}

// renderPreview turns an output value into display text. Gatherers
// clamp it to their own size limits.
func renderPreview(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func getSystemInfo() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s %s/%s %s cpus=%d",
		host, runtime.GOOS, runtime.GOARCH, runtime.Version(), runtime.NumCPU())
}

package worker_test

import (
	"context"
	"os"
	"testing"

	"github.com/programme-lv/grader/internal/activity"
	"github.com/programme-lv/grader/internal/hcleval"
	"github.com/programme-lv/grader/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// stubWorker records its invocations so tests can observe dispatch
// order.
type stubWorker struct {
	name     string
	supports bool
	log      *[]string
}

func (s *stubWorker) Supports(*activity.Activity) bool { return s.supports }

func (s *stubWorker) Run(context.Context, *activity.Activity, map[string]string) (any, error) {
	*s.log = append(*s.log, s.name)
	return s.name, nil
}

func newActivity(t *testing.T, entry string) *activity.Activity {
	t.Helper()
	act := activity.New(nil)
	require.NoError(t, act.SetSkeletonFiles(map[string]string{entry: "/tmp/" + entry}))
	require.NoError(t, act.SetEntryPoint(entry))
	return act
}

func TestRegistryLookup(t *testing.T) {
	log := []string{}
	reg := worker.NewRegistry()
	reg.Register("eval", &stubWorker{name: "eval", log: &log})

	w, err := reg.Get("eval")
	require.NoError(t, err)
	assert.NotNil(t, w)

	_, err = reg.Get("php")
	var nr *worker.NotRegisteredError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, "php", nr.Name)
	assert.Equal(t, []string{"eval"}, nr.Registered)
}

func TestRegistryRegisterTwicePanics(t *testing.T) {
	log := []string{}
	reg := worker.NewRegistry()
	reg.Register("eval", &stubWorker{log: &log})
	assert.Panics(t, func() {
		reg.Register("eval", &stubWorker{log: &log})
	})
}

func TestRegistryNamesKeepRegistrationOrder(t *testing.T) {
	log := []string{}
	reg := worker.NewRegistry()
	reg.Register("c", &stubWorker{log: &log})
	reg.Register("a", &stubWorker{log: &log})
	reg.Register("b", &stubWorker{log: &log})

	assert.Equal(t, []string{"c", "a", "b"}, reg.Names())
}

// Two candidates both support the entry point; the one registered
// first must be the one invoked.
func TestChainedFirstMatchWins(t *testing.T) {
	log := []string{}
	first := &stubWorker{name: "first", supports: true, log: &log}
	second := &stubWorker{name: "second", supports: true, log: &log}

	chain := worker.NewChained().Add("first", first).Add("second", second)
	act := newActivity(t, "x.hcl")

	require.True(t, chain.Supports(act))
	out, err := chain.Run(context.Background(), act, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out)
	assert.Equal(t, []string{"first"}, log)
}

func TestChainedSkipsNonSupporting(t *testing.T) {
	log := []string{}
	first := &stubWorker{name: "first", supports: false, log: &log}
	second := &stubWorker{name: "second", supports: true, log: &log}

	chain := worker.NewChained().Add("first", first).Add("second", second)
	act := newActivity(t, "x.hcl")

	out, err := chain.Run(context.Background(), act, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)
	assert.Equal(t, []string{"second"}, log)
}

func TestChainedNoSupportingWorker(t *testing.T) {
	log := []string{}
	chain := worker.NewChained().
		Add("eval", &stubWorker{log: &log}).
		Add("template", &stubWorker{log: &log})
	act := newActivity(t, "x.bin")

	assert.False(t, chain.Supports(act))

	_, err := chain.Run(context.Background(), act, nil)
	var nsw *worker.NoSupportingWorkerError
	require.ErrorAs(t, err, &nsw)
	assert.Equal(t, "x.bin", nsw.EntryPoint)
	assert.Equal(t, []string{"eval", "template"}, nsw.Candidates)
	assert.Empty(t, log)
}

func TestPipelineAssemblesInGivenOrder(t *testing.T) {
	log := []string{}
	reg := worker.NewRegistry()
	reg.Register("a", &stubWorker{name: "a", supports: true, log: &log})
	reg.Register("b", &stubWorker{name: "b", supports: true, log: &log})

	chain, err := reg.Pipeline("b", "a")
	require.NoError(t, err)

	act := newActivity(t, "x.hcl")
	out, err := chain.Run(context.Background(), act, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestPipelineUnknownName(t *testing.T) {
	reg := worker.NewRegistry()
	_, err := reg.Pipeline("ghost")
	var nr *worker.NotRegisteredError
	require.ErrorAs(t, err, &nr)
}

func TestEvalWorkerRunsExpression(t *testing.T) {
	w := worker.NewEvalWorker(hcleval.New())
	act := newActivity(t, "main.hcl")

	require.True(t, w.Supports(act))

	out, err := w.Run(context.Background(), act,
		map[string]string{"main.hcl": "2 + 3"})
	require.NoError(t, err)
	assert.Equal(t, float64(5), out)
}

func TestEvalWorkerBindsContext(t *testing.T) {
	dir := t.TempDir()
	ctxPath := dir + "/ctx.toml"
	require.NoError(t, writeFile(ctxPath, "x = 4\n"))

	act := newActivity(t, "main.hcl")
	require.NoError(t, act.SetContextPath(ctxPath))

	w := worker.NewEvalWorker(hcleval.New())
	out, err := w.Run(context.Background(), act,
		map[string]string{"main.hcl": "x + 1"})
	require.NoError(t, err)
	assert.Equal(t, float64(5), out)
}

func TestEvalWorkerRejectsUnsupportedEntry(t *testing.T) {
	w := worker.NewEvalWorker(hcleval.New())
	act := newActivity(t, "page.tpl")

	require.False(t, w.Supports(act))

	_, err := w.Run(context.Background(), act,
		map[string]string{"page.tpl": "hi"})
	var unsup *worker.UnsupportedError
	require.ErrorAs(t, err, &unsup)
	assert.Equal(t, "page.tpl", unsup.EntryPoint)
}

func TestTemplateWorkerRenders(t *testing.T) {
	dir := t.TempDir()
	ctxPath := dir + "/ctx.toml"
	require.NoError(t, writeFile(ctxPath, `name = "world"`+"\n"))

	act := newActivity(t, "page.tpl")
	require.NoError(t, act.SetContextPath(ctxPath))

	w := worker.NewTemplateWorker(hcleval.New())
	require.True(t, w.Supports(act))

	out, err := w.Run(context.Background(), act,
		map[string]string{"page.tpl": "hello ${name}"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestTemplateWorkerRejectsExpressionEntry(t *testing.T) {
	w := worker.NewTemplateWorker(hcleval.New())
	act := newActivity(t, "main.hcl")

	assert.False(t, w.Supports(act))
	_, err := w.Run(context.Background(), act, map[string]string{"main.hcl": "1"})
	var unsup *worker.UnsupportedError
	require.ErrorAs(t, err, &unsup)
}

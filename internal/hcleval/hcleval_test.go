package hcleval_test

import (
	"context"
	"testing"

	"github.com/programme-lv/grader/internal/hcleval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateArithmetic(t *testing.T) {
	ev := hcleval.New()

	out, err := ev.Evaluate(context.Background(), "main.hcl",
		map[string]string{"main.hcl": "x + 1"},
		map[string]any{"x": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, float64(5), out)
}

func TestEvaluateCollections(t *testing.T) {
	ev := hcleval.New()

	out, err := ev.Evaluate(context.Background(), "main.hcl",
		map[string]string{"main.hcl": `{ sum = a + b, parts = [a, b] }`},
		map[string]any{"a": int64(2), "b": int64(3)})
	require.NoError(t, err)

	want := map[string]any{
		"sum":   float64(5),
		"parts": []any{float64(2), float64(3)},
	}
	assert.Equal(t, want, out)
}

func TestEvaluateSyntaxError(t *testing.T) {
	ev := hcleval.New()

	_, err := ev.Evaluate(context.Background(), "main.hcl",
		map[string]string{"main.hcl": "x +"},
		map[string]any{"x": int64(4)})
	require.Error(t, err)

	var evalErr *hcleval.EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "main.hcl", evalErr.Fname)
}

func TestEvaluateUnknownVariable(t *testing.T) {
	ev := hcleval.New()

	_, err := ev.Evaluate(context.Background(), "main.hcl",
		map[string]string{"main.hcl": "y + 1"},
		map[string]any{"x": int64(4)})

	var evalErr *hcleval.EvalError
	require.ErrorAs(t, err, &evalErr)
}

func TestIncludeExpression(t *testing.T) {
	ev := hcleval.New()

	files := map[string]string{
		"main.hcl": `include("lib.hcl") * 2`,
		"lib.hcl":  "x + 1",
	}
	out, err := ev.Evaluate(context.Background(), "main.hcl", files,
		map[string]any{"x": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, float64(10), out)
}

func TestIncludeTemplate(t *testing.T) {
	ev := hcleval.New()

	files := map[string]string{
		"main.hcl":  `include("greet.tpl")`,
		"greet.tpl": "hi ${name}",
	}
	out, err := ev.Evaluate(context.Background(), "main.hcl", files,
		map[string]any{"name": "zoe"})
	require.NoError(t, err)
	assert.Equal(t, "hi zoe", out)
}

func TestIncludeUnknownFile(t *testing.T) {
	ev := hcleval.New()

	_, err := ev.Evaluate(context.Background(), "main.hcl",
		map[string]string{"main.hcl": `include("nope.hcl")`}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.hcl")
}

func TestIncludeCycle(t *testing.T) {
	ev := hcleval.New()

	files := map[string]string{
		"a.hcl": `include("b.hcl")`,
		"b.hcl": `include("a.hcl")`,
	}
	_, err := ev.Evaluate(context.Background(), "a.hcl", files, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestRenderTemplate(t *testing.T) {
	ev := hcleval.New()

	out, err := ev.Render(context.Background(), "page.tpl",
		map[string]string{"page.tpl": "Hello, ${name}! You scored ${score}."},
		map[string]any{"name": "world", "score": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world! You scored 7.", out)
}

func TestRenderWithInclude(t *testing.T) {
	ev := hcleval.New()

	files := map[string]string{
		"page.tpl":   `${include("header.tpl")} body`,
		"header.tpl": "== ${title} ==",
	}
	out, err := ev.Render(context.Background(), "page.tpl", files,
		map[string]any{"title": "report"})
	require.NoError(t, err)
	assert.Equal(t, "== report == body", out)
}

func TestRenderMalformedTemplate(t *testing.T) {
	ev := hcleval.New()

	_, err := ev.Render(context.Background(), "page.tpl",
		map[string]string{"page.tpl": "broken ${"}, nil)
	require.Error(t, err)

	var tmplErr *hcleval.TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Equal(t, "page.tpl", tmplErr.Fname)
}

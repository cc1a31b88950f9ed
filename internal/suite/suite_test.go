package suite_test

import (
	"testing"

	"github.com/programme-lv/grader/internal/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputEquals(t *testing.T) {
	s, err := suite.OutputEquals(map[string]any{"expected": int64(5)})
	require.NoError(t, err)
	require.Len(t, s.Checks(), 1)

	check := s.Checks()[0]

	// evaluation results come back as floats, the comparison must not care
	v, err := check.Eval(suite.Input{Output: float64(5)})
	require.NoError(t, err)
	assert.True(t, v.Pass)

	v, err = check.Eval(suite.Input{Output: float64(6)})
	require.NoError(t, err)
	assert.False(t, v.Pass)
	assert.Contains(t, v.Message, "expected 5")
}

func TestOutputEqualsNeedsParam(t *testing.T) {
	_, err := suite.OutputEquals(map[string]any{})
	require.Error(t, err)
}

func TestOutputContains(t *testing.T) {
	s, err := suite.OutputContains(map[string]any{"needle": "world"})
	require.NoError(t, err)
	check := s.Checks()[0]

	v, err := check.Eval(suite.Input{Output: "hello world"})
	require.NoError(t, err)
	assert.True(t, v.Pass)

	v, err = check.Eval(suite.Input{Output: float64(42)})
	require.NoError(t, err)
	assert.False(t, v.Pass)
	assert.Contains(t, v.Message, "not text")
}

func TestNonEmpty(t *testing.T) {
	s, err := suite.NonEmpty(nil)
	require.NoError(t, err)
	check := s.Checks()[0]

	v, err := check.Eval(suite.Input{Output: "  \n"})
	require.NoError(t, err)
	assert.False(t, v.Pass)

	v, err = check.Eval(suite.Input{Output: []any{float64(1)}})
	require.NoError(t, err)
	assert.True(t, v.Pass)
}

const arithmeticSuite = `
suite "arithmetic" {
  check "result is five" {
    expect  = output == 5
    message = "expected 5, got ${output}"
  }
  check "result is a teen" {
    expect = output >= 13 && output <= 19
  }
}
`

func TestParseDeclarativeSuite(t *testing.T) {
	factory, err := suite.Parse([]byte(arithmeticSuite), "arithmetic.hcl")
	require.NoError(t, err)

	s, err := factory(nil)
	require.NoError(t, err)
	assert.Equal(t, "arithmetic", s.Name())
	require.Len(t, s.Checks(), 2)
	assert.Equal(t, "result is five", s.Checks()[0].Name)

	v, err := s.Checks()[0].Eval(suite.Input{Output: float64(5)})
	require.NoError(t, err)
	assert.True(t, v.Pass)

	v, err = s.Checks()[0].Eval(suite.Input{Output: float64(7)})
	require.NoError(t, err)
	assert.False(t, v.Pass)
	assert.Equal(t, "expected 5, got 7", v.Message)

	v, err = s.Checks()[1].Eval(suite.Input{Output: float64(7)})
	require.NoError(t, err)
	assert.False(t, v.Pass)
	assert.Contains(t, v.Message, "evaluated to false")
}

func TestDeclarativeCheckSeesContext(t *testing.T) {
	src := `
suite "ctx" {
  check "matches context" {
    expect = output == context.expected
  }
}
`
	factory, err := suite.Parse([]byte(src), "ctx.hcl")
	require.NoError(t, err)
	s, err := factory(nil)
	require.NoError(t, err)

	v, err := s.Checks()[0].Eval(suite.Input{
		Output:  float64(9),
		Context: map[string]any{"expected": int64(9)},
	})
	require.NoError(t, err)
	assert.True(t, v.Pass)
}

func TestDeclarativeNonBoolExpect(t *testing.T) {
	src := `
suite "bad" {
  check "not a predicate" {
    expect = output + 1
  }
}
`
	factory, err := suite.Parse([]byte(src), "bad.hcl")
	require.NoError(t, err)
	s, err := factory(nil)
	require.NoError(t, err)

	_, err = s.Checks()[0].Eval(suite.Input{Output: float64(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestParseRejectsDuplicateChecks(t *testing.T) {
	src := `
suite "dup" {
  check "same" { expect = true }
  check "same" { expect = false }
}
`
	_, err := suite.Parse([]byte(src), "dup.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate check")
}

func TestParseRejectsUnknownAttributes(t *testing.T) {
	src := `
suite "bad" {
  check "c" {
    expect  = true
    timeout = 5
  }
}
`
	_, err := suite.Parse([]byte(src), "bad.hcl")
	require.Error(t, err)
}

func TestParseEmptySuite(t *testing.T) {
	factory, err := suite.Parse([]byte(`suite "empty" {}`), "empty.hcl")
	require.NoError(t, err)
	s, err := factory(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Checks())
}

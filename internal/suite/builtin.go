package suite

import (
	"fmt"
	"reflect"
	"strings"
)

// Statically known suite variants, registered with the loader under
// "builtin:" identifiers.

// OutputEquals builds a single-check suite asserting that the output
// equals the "expected" context value.
func OutputEquals(params map[string]any) (Suite, error) {
	expected, ok := params["expected"]
	if !ok {
		return nil, fmt.Errorf(`output-equals suite needs an "expected" context value`)
	}
	return New("output-equals", Check{
		Name: "output equals expected",
		Eval: func(in Input) (Verdict, error) {
			if valuesEqual(in.Output, expected) {
				return Verdict{Pass: true}, nil
			}
			return Verdict{
				Message: fmt.Sprintf("expected %v, got %v", expected, in.Output),
			}, nil
		},
	}), nil
}

// OutputContains builds a single-check suite asserting that the output
// is text containing the "needle" context value.
func OutputContains(params map[string]any) (Suite, error) {
	needle, ok := params["needle"].(string)
	if !ok {
		return nil, fmt.Errorf(`output-contains suite needs a "needle" context string`)
	}
	return New("output-contains", Check{
		Name: "output contains needle",
		Eval: func(in Input) (Verdict, error) {
			text, ok := in.Output.(string)
			if !ok {
				return Verdict{
					Message: fmt.Sprintf("output is %T, not text", in.Output),
				}, nil
			}
			if strings.Contains(text, needle) {
				return Verdict{Pass: true}, nil
			}
			return Verdict{
				Message: fmt.Sprintf("output does not contain %q", needle),
			}, nil
		},
	}), nil
}

// NonEmpty builds a single-check suite asserting that the output is
// present and not blank.
func NonEmpty(params map[string]any) (Suite, error) {
	return New("non-empty", Check{
		Name: "output is not empty",
		Eval: func(in Input) (Verdict, error) {
			switch v := in.Output.(type) {
			case nil:
				return Verdict{Message: "output is empty"}, nil
			case string:
				if strings.TrimSpace(v) == "" {
					return Verdict{Message: "output is blank text"}, nil
				}
			case []any:
				if len(v) == 0 {
					return Verdict{Message: "output is an empty list"}, nil
				}
			case map[string]any:
				if len(v) == 0 {
					return Verdict{Message: "output is an empty mapping"}, nil
				}
			}
			return Verdict{Pass: true}, nil
		},
	}), nil
}

// valuesEqual compares two values with numbers normalized, so an
// integer context value matches a float evaluation result.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

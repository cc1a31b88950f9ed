// Package hcleval executes activity entry points as HCL expressions
// and string templates. It is the only place learner-supplied content
// is interpreted; the evaluation context exposes the activity's
// variables and files and nothing else, so evaluated code cannot reach
// the file system, network, or process state.
package hcleval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// EvalError reports a failure while evaluating an expression entry
// point, carrying the underlying cause.
type EvalError struct {
	Fname string
	Err   error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Fname, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// TemplateError reports a malformed template or a failure while
// rendering one.
type TemplateError struct {
	Fname string
	Err   error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Fname, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Evaluator runs entry point programs. The zero value is not usable;
// construct with New. An Evaluator holds no per-call state and is safe
// for concurrent use.
type Evaluator struct {
	maxIncludeDepth int
}

func New() *Evaluator {
	return &Evaluator{maxIncludeDepth: 32}
}

// Evaluate parses the entry file's content as a single HCL expression
// and evaluates it. The vars mapping is bound as top-level variables
// and the other files are reachable through include(name). The
// returned value is JSON-shaped (bool, float64, string, []any,
// map[string]any, or nil).
func (e *Evaluator) Evaluate(ctx context.Context, entry string, files map[string]string, vars map[string]any) (any, error) {
	content, ok := files[entry]
	if !ok {
		return nil, &EvalError{Fname: entry, Err: errors.New("entry point content missing")}
	}
	ctyVars, err := VarsToCty(vars)
	if err != nil {
		return nil, &EvalError{Fname: entry, Err: err}
	}
	st := &evalState{
		evaluator: e,
		ctx:       ctx,
		files:     files,
		vars:      ctyVars,
		visiting:  map[string]bool{entry: true},
	}
	val, err := st.evalExpression(content, entry)
	if err != nil {
		return nil, &EvalError{Fname: entry, Err: err}
	}
	out, err := FromCty(val)
	if err != nil {
		return nil, &EvalError{Fname: entry, Err: err}
	}
	return out, nil
}

// Render parses the entry file's content as an HCL string template
// ("${...}" interpolation) and renders it with the same variables and
// include function Evaluate provides.
func (e *Evaluator) Render(ctx context.Context, entry string, files map[string]string, vars map[string]any) (string, error) {
	content, ok := files[entry]
	if !ok {
		return "", &TemplateError{Fname: entry, Err: errors.New("entry point content missing")}
	}
	ctyVars, err := VarsToCty(vars)
	if err != nil {
		return "", &TemplateError{Fname: entry, Err: err}
	}
	st := &evalState{
		evaluator: e,
		ctx:       ctx,
		files:     files,
		vars:      ctyVars,
		visiting:  map[string]bool{entry: true},
	}
	out, err := st.renderTemplate(content, entry)
	if err != nil {
		return "", &TemplateError{Fname: entry, Err: err}
	}
	return out, nil
}

// evalState tracks one Evaluate/Render call. The visiting set guards
// against include cycles; it is never shared between calls.
type evalState struct {
	evaluator *Evaluator
	ctx       context.Context
	files     map[string]string
	vars      map[string]cty.Value
	visiting  map[string]bool
	depth     int
}

func (st *evalState) evalExpression(src, fname string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), fname, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, errors.New(diags.Error())
	}
	val, diags := expr.Value(st.evalContext())
	if diags.HasErrors() {
		return cty.NilVal, errors.New(diags.Error())
	}
	return val, nil
}

func (st *evalState) renderTemplate(src, fname string) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(src), fname, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", errors.New(diags.Error())
	}
	val, diags := expr.Value(st.evalContext())
	if diags.HasErrors() {
		return "", errors.New(diags.Error())
	}
	strVal, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("template result is not text: %w", err)
	}
	if strVal.IsNull() {
		return "", nil
	}
	return strVal.AsString(), nil
}

func (st *evalState) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: st.vars,
		Functions: map[string]function.Function{
			"include": st.includeFunc(),
		},
	}
}

// includeFunc resolves another effective file by logical name.
// Expression files evaluate to their produced value, template files to
// their rendered text.
func (st *evalState) includeFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "fname", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return st.include(args[0].AsString())
		},
	})
}

func (st *evalState) include(fname string) (cty.Value, error) {
	if err := st.ctx.Err(); err != nil {
		return cty.NilVal, err
	}
	content, ok := st.files[fname]
	if !ok {
		return cty.NilVal, fmt.Errorf("include of unknown file %q", fname)
	}
	if st.visiting[fname] {
		return cty.NilVal, fmt.Errorf("include cycle through %q", fname)
	}
	if st.depth >= st.evaluator.maxIncludeDepth {
		return cty.NilVal, fmt.Errorf("include depth limit reached at %q", fname)
	}

	st.visiting[fname] = true
	st.depth++
	defer func() {
		delete(st.visiting, fname)
		st.depth--
	}()

	if IsTemplateName(fname) {
		out, err := st.renderTemplate(content, fname)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(out), nil
	}
	return st.evalExpression(content, fname)
}

// IsTemplateName reports whether a logical file name designates a
// string template rather than an expression.
func IsTemplateName(fname string) bool {
	return strings.HasSuffix(fname, ".tpl") || strings.HasSuffix(fname, ".tmpl")
}

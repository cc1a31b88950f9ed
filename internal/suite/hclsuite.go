package suite

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/programme-lv/grader/internal/hcleval"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Declarative suites are HCL files of the form
//
//	suite "arithmetic" {
//	  check "result is five" {
//	    expect  = output == 5
//	    message = "expected 5, got ${output}"
//	  }
//	}
//
// Check expressions are parsed at load time and evaluated lazily, once
// an output value exists. They see two variables: output, the value
// the entry point produced, and context, the activity's context
// mapping. The message attribute is optional and is itself evaluated
// only when the check fails.

var suiteFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "suite", LabelNames: []string{"name"}}},
}

var suiteBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "check", LabelNames: []string{"name"}}},
}

var checkBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "expect", Required: true},
		{Name: "message", Required: false},
	},
}

type parsedCheck struct {
	name     string
	expect   hcl.Expression
	message  hcl.Expression
	exprText string
}

// Parse reads a declarative suite definition. The returned factory
// builds a fresh Suite per activity; parsing happens only once.
func Parse(src []byte, filename string) (Factory, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}

	content, diags := file.Body.Content(suiteFileSchema)
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}
	if len(content.Blocks) != 1 {
		return nil, fmt.Errorf("suite file must declare exactly one suite block, found %d", len(content.Blocks))
	}

	block := content.Blocks[0]
	suiteName := block.Labels[0]

	suiteContent, diags := block.Body.Content(suiteBodySchema)
	if diags.HasErrors() {
		return nil, errors.New(diags.Error())
	}

	seen := map[string]bool{}
	parsed := make([]*parsedCheck, 0, len(suiteContent.Blocks))
	for _, cb := range suiteContent.Blocks {
		name := cb.Labels[0]
		if seen[name] {
			return nil, fmt.Errorf("duplicate check %q in suite %q", name, suiteName)
		}
		seen[name] = true

		checkContent, diags := cb.Body.Content(checkBodySchema)
		if diags.HasErrors() {
			return nil, errors.New(diags.Error())
		}

		pc := &parsedCheck{name: name}
		expect := checkContent.Attributes["expect"]
		pc.expect = expect.Expr
		pc.exprText = string(expect.Expr.Range().SliceBytes(src))
		if msg, ok := checkContent.Attributes["message"]; ok {
			pc.message = msg.Expr
		}
		parsed = append(parsed, pc)
	}

	return func(params map[string]any) (Suite, error) {
		checks := make([]Check, 0, len(parsed))
		for _, pc := range parsed {
			checks = append(checks, Check{Name: pc.name, Eval: pc.eval})
		}
		return New(suiteName, checks...), nil
	}, nil
}

func (c *parsedCheck) eval(in Input) (Verdict, error) {
	outVal, err := hcleval.ToCty(in.Output)
	if err != nil {
		return Verdict{}, fmt.Errorf("convert output: %w", err)
	}
	ctxMap := in.Context
	if ctxMap == nil {
		ctxMap = map[string]any{}
	}
	ctxVal, err := hcleval.ToCty(ctxMap)
	if err != nil {
		return Verdict{}, fmt.Errorf("convert context: %w", err)
	}
	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{
		"output":  outVal,
		"context": ctxVal,
	}}

	val, diags := c.expect.Value(evalCtx)
	if diags.HasErrors() {
		return Verdict{}, errors.New(diags.Error())
	}
	if !val.IsKnown() || val.IsNull() || val.Type() != cty.Bool {
		return Verdict{}, fmt.Errorf("expect evaluated to %s, want bool", val.Type().FriendlyName())
	}
	if val.True() {
		return Verdict{Pass: true}, nil
	}

	msg := fmt.Sprintf("expect %s evaluated to false", c.exprText)
	if c.message != nil {
		if mv, diags := c.message.Value(evalCtx); !diags.HasErrors() {
			if s, err := convert.Convert(mv, cty.String); err == nil && !s.IsNull() {
				msg = s.AsString()
			}
		}
	}
	return Verdict{Message: msg}, nil
}

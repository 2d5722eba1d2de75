// Package conditions evaluates the boolean guards attached to configuration
// patches.
//
// Conditions are HCL native expressions evaluated against the environment
// facts, which are exposed as variables:
//
//	platform == "darwin"
//	platform == "linux" && hostname != "build-box"
//	!(arch == "arm64")
//
// No functions are available and nothing outside the facts can be reached,
// so a condition can only compare and combine values. True and False are
// predefined alongside the HCL literals true and false.
package conditions

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Evaluator decides whether a condition holds for a set of facts
type Evaluator interface {
	Evaluate(condition interface{}, facts types.Facts) (bool, error)
}

// HCLEvaluator evaluates conditions as restricted HCL expressions. Parsed
// expressions are cached by source text.
type HCLEvaluator struct {
	mu    sync.Mutex
	cache map[string]hcl.Expression
}

// New creates an evaluator
func New() *HCLEvaluator {
	return &HCLEvaluator{cache: make(map[string]hcl.Expression)}
}

// Evaluate reports whether condition holds. A nil condition holds, a bool
// is taken as is, and a string is parsed and evaluated.
func (e *HCLEvaluator) Evaluate(condition interface{}, facts types.Facts) (bool, error) {
	switch c := condition.(type) {
	case nil:
		return true, nil
	case bool:
		return c, nil
	case string:
		return e.evaluateString(c, facts)
	default:
		return false, errors.Newf(errors.ErrConfigValid,
			"condition must be a string or a boolean, got %T", condition).
			WithDetail("condition", condition)
	}
}

func (e *HCLEvaluator) evaluateString(source string, facts types.Facts) (bool, error) {
	expr, err := e.parse(source)
	if err != nil {
		return false, err
	}

	value, diags := expr.Value(evalContext(facts))
	if diags.HasErrors() {
		return false, errors.Wrapf(diags, errors.ErrConfigValid, "cannot evaluate condition %q", source).
			WithDetail("condition", source)
	}

	if value.IsNull() || !value.IsKnown() || !value.Type().Equals(cty.Bool) {
		return false, errors.Newf(errors.ErrConfigValid,
			"condition %q does not evaluate to a boolean", source).
			WithDetail("condition", source)
	}

	return value.True(), nil
}

func (e *HCLEvaluator) parse(source string) (hcl.Expression, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if expr, ok := e.cache[source]; ok {
		return expr, nil
	}

	expr, diags := hclsyntax.ParseExpression([]byte(source), "condition", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, errors.ErrConfigValid, "cannot parse condition %q", source).
			WithDetail("condition", source)
	}

	e.cache[source] = expr
	return expr, nil
}

// evalContext exposes facts as variables. Facts whose names are not valid
// identifiers or whose values cannot be represented are left out.
func evalContext(facts types.Facts) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"True":  cty.True,
		"False": cty.False,
	}

	for name, value := range facts {
		if !hclsyntax.ValidIdentifier(name) {
			continue
		}
		converted, err := toCty(value)
		if err != nil {
			continue
		}
		vars[name] = converted
	}

	// Functions stays nil: any function call is an evaluation error.
	return &hcl.EvalContext{Variables: vars}
}

func toCty(value interface{}) (cty.Value, error) {
	switch v := value.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	}

	ty, err := gocty.ImpliedType(value)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unsupported fact value %T: %w", value, err)
	}
	return gocty.ToCtyValue(value, ty)
}

package basis

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// Rule evaluates an ad hoc basis function at x with its parameter vector.
// A Rule must be pure. It receives its own copy of params on every call.
type Rule func(x float64, params []float64) float64

// Custom wraps a Rule and its parameters as a Function.
type Custom struct {
	name   string
	rule   Rule
	params []float64
}

// NewCustom returns a basis function evaluating rule(x, params). The params
// slice is copied. An empty name is replaced by "custom".
func NewCustom(name string, rule Rule, params ...float64) (*Custom, error) {
	if rule == nil {
		return nil, errors.NewValidationError("rule", "must not be nil", nil)
	}
	if name == "" {
		name = "custom"
	}
	return &Custom{
		name:   name,
		rule:   rule,
		params: append([]float64(nil), params...),
	}, nil
}

// Params returns a copy of the parameter vector.
func (c *Custom) Params() []float64 {
	return append([]float64(nil), c.params...)
}

// Name returns the label given at construction.
func (c *Custom) Name() string { return c.name }

// Kind implements Function.
func (c *Custom) Kind() Kind { return KindCustom }

// Evaluate implements Function. A panicking rule is reported as *errors.PanicError.
func (c *Custom) Evaluate(x float64) (y float64, err error) {
	if err := checkArgument(c, x); err != nil {
		return 0, err
	}
	err = errors.SafeExecute("basis."+c.name, func() error {
		y = c.rule(x, c.Params())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return checkResult(c, x, y, "")
}

func (c *Custom) String() string {
	if len(c.params) == 0 {
		return c.name
	}
	parts := make([]string, len(c.params))
	for i, p := range c.params {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return c.name + "[" + strings.Join(parts, ",") + "]"
}

// PowerRule is x^params[0].
func PowerRule(x float64, params []float64) float64 {
	if len(params) == 0 {
		return math.NaN()
	}
	return math.Pow(x, params[0])
}

// ExpRule is e^(x·params[0]).
func ExpRule(x float64, params []float64) float64 {
	if len(params) == 0 {
		return math.NaN()
	}
	return math.Exp(x * params[0])
}

// LogRule is ln(x·params[0]). Non-positive arguments yield NaN or -Inf,
// which Custom.Evaluate reports as a domain error.
func LogRule(x float64, params []float64) float64 {
	if len(params) == 0 {
		return math.NaN()
	}
	return math.Log(x * params[0])
}

// Package basis provides scalar basis functions of one variable.
//
// A basis function is one term of a fitted model: the fit solves for the
// coefficients of a linear combination of basis functions. The package
// offers three fixed families (Polynomial, Exponential, Logarithm) and an
// open Custom variant that wraps a caller-supplied rule with a parameter
// vector, so one function space can mix families freely.
//
// All variants are immutable after construction and side-effect free.
// Evaluate never returns NaN or ±Inf: a result outside the finite range is
// reported as a *errors.DomainError.
package basis

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

// Kind identifies the family of a basis function.
type Kind int

const (
	// KindPolynomial is x^p.
	KindPolynomial Kind = iota
	// KindExponential is e^(r·x).
	KindExponential
	// KindLogarithm is ln(m·x).
	KindLogarithm
	// KindCustom is rule(x, params).
	KindCustom
)

// String returns the lowercase family name.
func (k Kind) String() string {
	switch k {
	case KindPolynomial:
		return "polynomial"
	case KindExponential:
		return "exponential"
	case KindLogarithm:
		return "logarithm"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Function is a single evaluable scalar function of one variable.
type Function interface {
	// Kind returns the family of the function.
	Kind() Kind
	// Evaluate returns f(x), or a *errors.DomainError if x lies outside the
	// domain of f or the result is not finite.
	Evaluate(x float64) (float64, error)
	// String returns a short label such as "x^2" or "ln(1*x)".
	String() string
}

// checkResult turns a non-finite result into a DomainError.
func checkResult(f Function, x, y float64, reason string) (float64, error) {
	if errors.IsFinite(y) {
		return y, nil
	}
	if reason == "" {
		if math.IsNaN(y) {
			reason = "result is NaN"
		} else {
			reason = "result overflows float64"
		}
	}
	return 0, errors.NewDomainError(f.String(), x, reason)
}

func checkArgument(f Function, x float64) error {
	if !errors.IsFinite(x) {
		return errors.NewDomainError(f.String(), x, "argument is not finite")
	}
	return nil
}

// Polynomial is the power function x^p.
type Polynomial struct {
	exponent float64
}

// NewPolynomial returns x^exponent. Exponent 0 is the constant function 1.
func NewPolynomial(exponent float64) Polynomial {
	return Polynomial{exponent: exponent}
}

// Exponent returns p.
func (p Polynomial) Exponent() float64 { return p.exponent }

// Kind implements Function.
func (p Polynomial) Kind() Kind { return KindPolynomial }

// Evaluate implements Function.
func (p Polynomial) Evaluate(x float64) (float64, error) {
	if err := checkArgument(p, x); err != nil {
		return 0, err
	}
	if p.exponent == 0 {
		return 1, nil
	}

	var reason string
	switch {
	case x == 0 && p.exponent < 0:
		reason = "zero raised to a negative power"
	case x < 0 && p.exponent != math.Trunc(p.exponent):
		reason = "negative base with non-integer exponent"
	}
	return checkResult(p, x, math.Pow(x, p.exponent), reason)
}

func (p Polynomial) String() string {
	return fmt.Sprintf("x^%g", p.exponent)
}

// DefaultRate is the rate of NewExponentialDefault.
const DefaultRate = 1.0

// Exponential is e^(r·x).
type Exponential struct {
	rate float64
}

// NewExponential returns e^(rate·x).
func NewExponential(rate float64) Exponential {
	return Exponential{rate: rate}
}

// NewExponentialDefault returns e^x.
func NewExponentialDefault() Exponential {
	return Exponential{rate: DefaultRate}
}

// Rate returns r.
func (e Exponential) Rate() float64 { return e.rate }

// Kind implements Function.
func (e Exponential) Kind() Kind { return KindExponential }

// Evaluate implements Function.
func (e Exponential) Evaluate(x float64) (float64, error) {
	if err := checkArgument(e, x); err != nil {
		return 0, err
	}
	return checkResult(e, x, math.Exp(e.rate*x), "")
}

func (e Exponential) String() string {
	return fmt.Sprintf("exp(%g*x)", e.rate)
}

// Logarithm is the natural logarithm ln(m·x), defined for m·x > 0.
type Logarithm struct {
	multiplier float64
}

// NewLogarithm returns ln(multiplier·x).
func NewLogarithm(multiplier float64) Logarithm {
	return Logarithm{multiplier: multiplier}
}

// Multiplier returns m.
func (l Logarithm) Multiplier() float64 { return l.multiplier }

// Kind implements Function.
func (l Logarithm) Kind() Kind { return KindLogarithm }

// Evaluate implements Function.
func (l Logarithm) Evaluate(x float64) (float64, error) {
	if err := checkArgument(l, x); err != nil {
		return 0, err
	}
	arg := l.multiplier * x
	if arg <= 0 {
		return 0, errors.NewDomainError(l.String(), x, fmt.Sprintf("argument %g must be positive", arg))
	}
	return checkResult(l, x, math.Log(arg), "")
}

func (l Logarithm) String() string {
	return fmt.Sprintf("ln(%g*x)", l.multiplier)
}

// PolynomialBasis returns the monomials x^0, x^1, ..., x^order.
func PolynomialBasis(order int) ([]Function, error) {
	if order < 0 {
		return nil, errors.NewValidationError("order", "must be non-negative", order)
	}
	fs := make([]Function, order+1)
	for k := range fs {
		fs[k] = NewPolynomial(float64(k))
	}
	return fs, nil
}

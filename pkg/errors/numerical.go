package errors

import (
	"math"
	"slices"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckNumericalStability returns a NumericalInstabilityError carrying values
// when any of them is NaN or Inf.
func CheckNumericalStability(operation string, values []float64) error {
	if slices.ContainsFunc(values, func(v float64) bool { return !IsFinite(v) }) {
		return NewNumericalInstabilityError(operation, values)
	}
	return nil
}

// CheckFiniteInput returns an InvalidInputError naming the first non-finite
// element of values. Observed data must never carry NaN or Inf into a fit.
func CheckFiniteInput(op string, values []float64) error {
	for i, v := range values {
		if !IsFinite(v) {
			return NewInvalidInputError(op, "non-finite value", i, nil)
		}
	}
	return nil
}

// CheckMatrix scans rows in order and reports the non-finite entries of the
// first row that has any.
func CheckMatrix(operation string, m interface{ At(int, int) float64 }, rows, cols int) error {
	for i := 0; i < rows; i++ {
		var bad []float64
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); !IsFinite(v) {
				bad = append(bad, v)
			}
		}
		if len(bad) > 0 {
			return NewNumericalInstabilityError(operation, bad)
		}
	}
	return nil
}

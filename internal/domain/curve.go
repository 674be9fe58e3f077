package domain

import (
	"fmt"

	"ratecalc/internal/fixed"
)

// Curve projects a rate at target onto the utilization curve:
//
//	coeff = 1 - 1/k   when err < 0
//	coeff = k - 1     otherwise
//	rate  = (coeff*err + 1) * rateAtTarget
//
// The result is not clamped to the configured rate bounds.
func Curve(rateAtTarget, utilizationError, curveSteepness fixed.Fixed) (fixed.Fixed, error) {
	var calc fixed.Calc
	var coeff fixed.Fixed
	if utilizationError.Sign() < 0 {
		coeff = calc.Sub(fixed.One, calc.Div(fixed.One, curveSteepness))
	} else {
		coeff = calc.Sub(curveSteepness, fixed.One)
	}
	rate := calc.Mul(calc.Add(calc.Mul(coeff, utilizationError), fixed.One), rateAtTarget)
	if calc.Err() != nil {
		return fixed.Zero, fmt.Errorf("curve: %w", calc.Err())
	}
	return rate, nil
}

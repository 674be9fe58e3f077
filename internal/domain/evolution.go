package domain

import (
	"fmt"
	"math"

	"ratecalc/internal/fixed"
)

// maxExponent bounds the adaptation exponent. e^50 ≈ 5.2e21 still fits the
// 80 integer bits; rates cap at max_rate well before that matters.
const maxExponent = 50.0

var (
	two  = fixed.FromInt64(2)
	four = fixed.FromInt64(4)
)

// Evolution is the outcome of adapting the rate at target over one interval.
type Evolution struct {
	// UtilizationError is the normalized deviation from target in [-1, 1].
	UtilizationError fixed.Fixed
	AvgRateAtTarget  fixed.Fixed
	EndRateAtTarget  fixed.Fixed
}

// UtilizationError = (u - target) / norm, where norm is 1 - target above
// target and target otherwise.
func UtilizationError(utilization fixed.Fixed, p Params) (fixed.Fixed, error) {
	var calc fixed.Calc
	norm := p.TargetUtilization
	if utilization.GreaterThan(p.TargetUtilization) {
		norm = calc.Sub(fixed.One, p.TargetUtilization)
	}
	deviation := calc.Div(calc.Sub(utilization, p.TargetUtilization), norm)
	if calc.Err() != nil {
		return fixed.Zero, fmt.Errorf("utilization error: %w", calc.Err())
	}
	return deviation, nil
}

// EvolveRateAtTarget adapts start exponentially for elapsedSeconds at the
// speed implied by the utilization error. The average is the 1:2:1 weighting
// of the start, midpoint and end rates.
//
// A zero start rate is an uninitialized market and yields zero for both rates.
// Any other start must lie within [MinRate, MaxRate].
func EvolveRateAtTarget(start fixed.Fixed, elapsedSeconds int64, utilization fixed.Fixed, p Params) (Evolution, error) {
	if elapsedSeconds < 0 {
		return Evolution{}, fmt.Errorf("elapsed time %d is negative: %w", elapsedSeconds, ErrInvalidConfiguration)
	}

	uerr, err := UtilizationError(utilization, p)
	if err != nil {
		return Evolution{}, err
	}
	if start.IsZero() {
		return Evolution{UtilizationError: uerr}, nil
	}
	if start.LessThan(p.MinRate) || start.GreaterThan(p.MaxRate) {
		return Evolution{}, fmt.Errorf("start rate %s outside [%s, %s]: %w", start, p.MinRate, p.MaxRate, ErrInvalidConfiguration)
	}

	var calc fixed.Calc
	speed := calc.Mul(p.AdjustmentSpeed, uerr)
	linearAdaptation := calc.Mul(speed, fixed.FromInt64(elapsedSeconds))
	halfAdaptation := calc.Div(linearAdaptation, two)
	if calc.Err() != nil {
		return Evolution{}, fmt.Errorf("linear adaptation: %w", calc.Err())
	}

	end, err := newRateAtTarget(start, linearAdaptation, p.MinRate, p.MaxRate)
	if err != nil {
		return Evolution{}, fmt.Errorf("end rate at target: %w", err)
	}
	mid, err := newRateAtTarget(start, halfAdaptation, p.MinRate, p.MaxRate)
	if err != nil {
		return Evolution{}, fmt.Errorf("mid rate at target: %w", err)
	}

	avg := calc.Div(calc.Add(calc.Add(start, end), calc.Mul(two, mid)), four)
	if calc.Err() != nil {
		return Evolution{}, fmt.Errorf("avg rate at target: %w", calc.Err())
	}

	return Evolution{
		UtilizationError: uerr,
		AvgRateAtTarget:  avg,
		EndRateAtTarget:  end,
	}, nil
}

// newRateAtTarget = clamp(start * e^x, min, max) with x saturated to
// [-maxExponent, maxExponent]. The exponential goes through float64.
func newRateAtTarget(start, linearAdaptation, minRate, maxRate fixed.Fixed) (fixed.Fixed, error) {
	x := math.Max(-maxExponent, math.Min(maxExponent, linearAdaptation.Float64()))
	w, err := fixed.FromFloat64(math.Exp(x))
	if err != nil {
		return fixed.Zero, err
	}
	rate, err := start.Mul(w)
	if err != nil {
		return fixed.Zero, err
	}
	return rate.Clamp(minRate, maxRate), nil
}

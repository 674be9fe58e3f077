package domain

import (
	"fmt"

	"ratecalc/internal/fixed"

	"github.com/shopspring/decimal"
)

// Request carries the user-facing inputs of one calculation. Percentages are
// given as 0-100, rates as percent per year.
type Request struct {
	CurrentUtilization decimal.Decimal // %
	ElapsedTimeSeconds int64
	CurveSteepness     decimal.Decimal
	InitialRate        decimal.Decimal // %/yr
	AdjustmentSpeed    decimal.Decimal // 1/yr
	TargetUtilization  decimal.Decimal // %
	MinRate            decimal.Decimal // %/yr
	MaxRate            decimal.Decimal // %/yr
}

// DefaultRequest returns the reference configuration: steepness 4, 4%/yr
// initial rate, adjustment speed 50 per year, 90% target, rates bounded to
// [0.1%, 200%] per year. Utilization and elapsed time are left zero.
func DefaultRequest() Request {
	return Request{
		CurveSteepness:    decimal.NewFromInt(4),
		InitialRate:       decimal.NewFromInt(4),
		AdjustmentSpeed:   decimal.NewFromInt(50),
		TargetUtilization: decimal.NewFromInt(90),
		MinRate:           decimal.RequireFromString("0.1"),
		MaxRate:           decimal.NewFromInt(200),
	}
}

// Params is the immutable rate model configuration. Rates and speeds are per
// second, utilization is a ratio.
type Params struct {
	CurveSteepness    fixed.Fixed
	AdjustmentSpeed   fixed.Fixed
	TargetUtilization fixed.Fixed
	MinRate           fixed.Fixed
	MaxRate           fixed.Fixed
}

// RateState is the rate at target carried into an evolution step. Nothing is
// persisted between calls, so it is always the configured initial rate.
type RateState struct {
	StartRateAtTarget fixed.Fixed
}

// NewParams converts a Request into per-second fixed-point parameters and the
// starting rate at target.
func NewParams(c Constants, req Request) (Params, RateState, error) {
	if req.ElapsedTimeSeconds < 0 {
		return Params{}, RateState{}, fmt.Errorf("elapsed time %d is negative: %w", req.ElapsedTimeSeconds, ErrInvalidConfiguration)
	}

	steepness, err := fixed.FromDecimal(req.CurveSteepness)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("curve steepness: %w", err)
	}
	if steepness.IsZero() {
		return Params{}, RateState{}, fmt.Errorf("curve steepness is zero: %w", ErrInvalidConfiguration)
	}

	target, err := percentToRatio(req.TargetUtilization)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("target utilization: %w", err)
	}
	if target.Sign() <= 0 || !target.LessThan(fixed.One) {
		return Params{}, RateState{}, fmt.Errorf("target utilization %s%% must be inside (0, 100): %w", req.TargetUtilization, ErrInvalidConfiguration)
	}

	start, err := annualPercentToPerSecond(c, req.InitialRate)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("initial rate: %w", err)
	}
	speed, err := annualToPerSecond(c, req.AdjustmentSpeed)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("adjustment speed: %w", err)
	}
	minRate, err := annualPercentToPerSecond(c, req.MinRate)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("min rate: %w", err)
	}
	maxRate, err := annualPercentToPerSecond(c, req.MaxRate)
	if err != nil {
		return Params{}, RateState{}, fmt.Errorf("max rate: %w", err)
	}
	if minRate.Sign() < 0 {
		return Params{}, RateState{}, fmt.Errorf("min rate %s%% is negative: %w", req.MinRate, ErrInvalidConfiguration)
	}
	if maxRate.LessThan(minRate) {
		return Params{}, RateState{}, fmt.Errorf("max rate %s%% below min rate %s%%: %w", req.MaxRate, req.MinRate, ErrInvalidConfiguration)
	}
	// zero is the uninitialized market and stays allowed
	if !start.IsZero() && (start.LessThan(minRate) || start.GreaterThan(maxRate)) {
		return Params{}, RateState{}, fmt.Errorf("initial rate %s%% outside [%s%%, %s%%]: %w", req.InitialRate, req.MinRate, req.MaxRate, ErrInvalidConfiguration)
	}

	p := Params{
		CurveSteepness:    steepness,
		AdjustmentSpeed:   speed,
		TargetUtilization: target,
		MinRate:           minRate,
		MaxRate:           maxRate,
	}
	return p, RateState{StartRateAtTarget: start}, nil
}

func percentToRatio(pct decimal.Decimal) (fixed.Fixed, error) {
	return fixed.FromDecimal(pct.Shift(-2))
}

func annualPercentToPerSecond(c Constants, pct decimal.Decimal) (fixed.Fixed, error) {
	return annualToPerSecond(c, pct.Shift(-2))
}

func annualToPerSecond(c Constants, perYear decimal.Decimal) (fixed.Fixed, error) {
	v, err := fixed.FromDecimal(perYear)
	if err != nil {
		return fixed.Zero, err
	}
	return c.PerSecond(v)
}

package domain

import (
	"fmt"

	"ratecalc/internal/fixed"

	"github.com/shopspring/decimal"
)

// Calculator runs one stateless pass of the adaptive rate model. A Calculator
// value is safe for concurrent use.
type Calculator struct {
	Constants Constants
}

func NewCalculator(c Constants) Calculator {
	return Calculator{Constants: c}
}

// Result holds per-second rates and their annualized percentages.
type Result struct {
	UtilizationError  fixed.Fixed
	AvgRateAtTarget   fixed.Fixed
	EndRateAtTarget   fixed.Fixed
	AvgRateAfterCurve fixed.Fixed

	AvgRateBeforeCurveAPY fixed.Fixed
	AvgRateAfterCurveAPY  fixed.Fixed
	EndRateAtTargetAPY    fixed.Fixed
}

// Response is the presentation pair, rounded to two decimal places.
type Response struct {
	AvgRateBeforeCurveAPY decimal.Decimal
	AvgRateAfterCurveAPY  decimal.Decimal
}

func (r Result) Response() Response {
	return Response{
		AvgRateBeforeCurveAPY: r.AvgRateBeforeCurveAPY.Decimal().Round(2),
		AvgRateAfterCurveAPY:  r.AvgRateAfterCurveAPY.Decimal().Round(2),
	}
}

// Calculate builds the parameters, evolves the rate at target from the
// initial rate and projects the average onto the curve.
func (c Calculator) Calculate(req Request) (Result, error) {
	params, state, err := NewParams(c.Constants, req)
	if err != nil {
		return Result{}, err
	}
	utilization, err := percentToRatio(req.CurrentUtilization)
	if err != nil {
		return Result{}, fmt.Errorf("current utilization: %w", err)
	}

	evo, err := EvolveRateAtTarget(state.StartRateAtTarget, req.ElapsedTimeSeconds, utilization, params)
	if err != nil {
		return Result{}, err
	}
	applied, err := Curve(evo.AvgRateAtTarget, evo.UtilizationError, params.CurveSteepness)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		UtilizationError:  evo.UtilizationError,
		AvgRateAtTarget:   evo.AvgRateAtTarget,
		EndRateAtTarget:   evo.EndRateAtTarget,
		AvgRateAfterCurve: applied,
	}
	if res.AvgRateBeforeCurveAPY, err = c.Constants.APY(evo.AvgRateAtTarget); err != nil {
		return Result{}, fmt.Errorf("avg rate before curve apy: %w", err)
	}
	if res.AvgRateAfterCurveAPY, err = c.Constants.APY(applied); err != nil {
		return Result{}, fmt.Errorf("avg rate after curve apy: %w", err)
	}
	if res.EndRateAtTargetAPY, err = c.Constants.APY(evo.EndRateAtTarget); err != nil {
		return Result{}, fmt.Errorf("end rate at target apy: %w", err)
	}
	return res, nil
}

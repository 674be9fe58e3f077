package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"ratecalc/internal/domain"
	"ratecalc/internal/fixed"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var errBadInput = errors.New("bad input")

// rateInput is what the form and the JSON API accept. Nil model fields fall
// back to the configured defaults.
type rateInput struct {
	CurrentUtilization *decimal.Decimal `json:"current_utilization" validate:"omitempty,gte=0,lte=100"`
	TotalSupplyAssets  *decimal.Decimal `json:"total_supply_assets" validate:"omitempty,gte=0"`
	TotalBorrowAssets  *decimal.Decimal `json:"total_borrow_assets" validate:"omitempty,gte=0"`
	ElapsedTimeSeconds *int64           `json:"elapsed_time_seconds"`
	CurveSteepness     *decimal.Decimal `json:"curve_steepness"`
	InitialRate        *decimal.Decimal `json:"initial_rate" validate:"omitempty,gte=0"`
	AdjustmentSpeed    *decimal.Decimal `json:"adjustment_speed"`
	TargetUtilization  *decimal.Decimal `json:"target_utilization" validate:"omitempty,gte=0,lte=100"`
	MinRate            *decimal.Decimal `json:"min_rate" validate:"omitempty,gte=0"`
	MaxRate            *decimal.Decimal `json:"max_rate" validate:"omitempty,gte=0"`
}

// newValidator lets range tags apply to decimal fields. The float only feeds
// the bound checks; values reach the model as decimals.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func parseRateForm(r *http.Request) (rateInput, error) {
	var in rateInput
	var err error
	decimals := []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"current_utilization", &in.CurrentUtilization},
		{"total_supply_assets", &in.TotalSupplyAssets},
		{"total_borrow_assets", &in.TotalBorrowAssets},
		{"curve_steepness", &in.CurveSteepness},
		{"initial_rate", &in.InitialRate},
		{"adjustment_speed", &in.AdjustmentSpeed},
		{"target_utilization", &in.TargetUtilization},
		{"min_rate", &in.MinRate},
		{"max_rate", &in.MaxRate},
	}
	for _, f := range decimals {
		if *f.dst, err = formDecimal(r, f.name); err != nil {
			return rateInput{}, err
		}
	}

	if v := strings.TrimSpace(r.FormValue("elapsed_time_seconds")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return rateInput{}, fmt.Errorf("invalid elapsed_time_seconds: %w", errBadInput)
		}
		in.ElapsedTimeSeconds = &n
	}
	return in, nil
}

func formDecimal(r *http.Request, name string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, errBadInput)
	}
	return &d, nil
}

// request merges the input over defaults. Asset totals, when both are given,
// replace current_utilization.
func (in rateInput) request(defaults domain.Request) (domain.Request, error) {
	if in.ElapsedTimeSeconds == nil {
		return domain.Request{}, fmt.Errorf("missing elapsed_time_seconds: %w", errBadInput)
	}
	req := defaults
	req.ElapsedTimeSeconds = *in.ElapsedTimeSeconds

	hasTotals := in.TotalSupplyAssets != nil || in.TotalBorrowAssets != nil
	switch {
	case hasTotals && in.CurrentUtilization != nil:
		return domain.Request{}, fmt.Errorf("send either current_utilization or asset totals: %w", errBadInput)
	case hasTotals:
		if in.TotalSupplyAssets == nil || in.TotalBorrowAssets == nil {
			return domain.Request{}, fmt.Errorf("total_supply_assets and total_borrow_assets go together: %w", errBadInput)
		}
		u, err := marketUtilization(*in.TotalSupplyAssets, *in.TotalBorrowAssets)
		if err != nil {
			return domain.Request{}, err
		}
		req.CurrentUtilization = u
	case in.CurrentUtilization != nil:
		req.CurrentUtilization = *in.CurrentUtilization
	default:
		return domain.Request{}, fmt.Errorf("missing current_utilization: %w", errBadInput)
	}

	override(&req.CurveSteepness, in.CurveSteepness)
	override(&req.InitialRate, in.InitialRate)
	override(&req.AdjustmentSpeed, in.AdjustmentSpeed)
	override(&req.TargetUtilization, in.TargetUtilization)
	override(&req.MinRate, in.MinRate)
	override(&req.MaxRate, in.MaxRate)
	return req, nil
}

func override(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

// marketUtilization returns borrowed/supplied as a percentage.
func marketUtilization(supply, borrow decimal.Decimal) (decimal.Decimal, error) {
	supplied, err := fixed.FromDecimal(supply)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total_supply_assets: %w", err)
	}
	borrowed, err := fixed.FromDecimal(borrow)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total_borrow_assets: %w", err)
	}
	u, err := domain.Market{TotalSupplyAssets: supplied, TotalBorrowAssets: borrowed}.Utilization()
	if err != nil {
		return decimal.Zero, fmt.Errorf("utilization: %w", err)
	}
	return u.Decimal().Shift(2), nil
}

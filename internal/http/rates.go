package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ratecalc/internal/domain"
	"ratecalc/internal/fixed"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phuslu/log"
)

type RatesHandler struct {
	Calc     domain.Calculator
	Defaults domain.Request
	Log      *log.Logger
	Metrics  *Metrics

	validate *validator.Validate
}

func NewRatesHandler(calc domain.Calculator, defaults domain.Request, logger *log.Logger, metrics *Metrics) *RatesHandler {
	return &RatesHandler{
		Calc:     calc,
		Defaults: defaults,
		Log:      logger,
		Metrics:  metrics,
		validate: newValidator(),
	}
}

// Page serves the calculator form prefilled with the configured defaults.
func (h *RatesHandler) Page(w http.ResponseWriter, r *http.Request) {
	d := h.Defaults
	writeHTML(w, http.StatusOK, pageTmpl, pageData{
		CurveSteepness:    d.CurveSteepness.String(),
		InitialRate:       d.InitialRate.String(),
		AdjustmentSpeed:   d.AdjustmentSpeed.String(),
		TargetUtilization: d.TargetUtilization.String(),
		MinRate:           d.MinRate.String(),
		MaxRate:           d.MaxRate.String(),
	})
}

// CalculateForm handles the page's form post and answers with an HTML
// fragment.
func (h *RatesHandler) CalculateForm(w http.ResponseWriter, r *http.Request) {
	in, err := parseRateForm(r)
	if err != nil {
		writeHTML(w, statusFor(err), errorTmpl, err.Error())
		return
	}

	id, res, err := h.calculate(in)
	if err != nil {
		writeHTML(w, statusFor(err), errorTmpl, err.Error())
		return
	}

	resp := res.Response()
	writeHTML(w, http.StatusOK, resultTmpl, resultData{
		ID:     id.String(),
		Before: resp.AvgRateBeforeCurveAPY.StringFixed(2),
		After:  resp.AvgRateAfterCurveAPY.StringFixed(2),
	})
}

func (h *RatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in rateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	id, res, err := h.calculate(in)
	if err != nil {
		WriteError(w, statusFor(err), err.Error())
		return
	}

	resp := res.Response()
	WriteJSON(w, http.StatusOK, map[string]any{
		"id":                        id.String(),
		"utilization_error":         res.UtilizationError.StringFixed(6),
		"avg_rate_before_curve_apy": resp.AvgRateBeforeCurveAPY.StringFixed(2),
		"avg_rate_after_curve_apy":  resp.AvgRateAfterCurveAPY.StringFixed(2),
		"end_rate_at_target_apy":    res.EndRateAtTargetAPY.StringFixed(2),
	})
}

func (h *RatesHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	d := h.Defaults
	WriteJSON(w, http.StatusOK, map[string]any{
		"seconds_per_year":   h.Calc.Constants.SecondsPerYear.String(),
		"curve_steepness":    d.CurveSteepness.String(),
		"initial_rate":       d.InitialRate.String(),
		"adjustment_speed":   d.AdjustmentSpeed.String(),
		"target_utilization": d.TargetUtilization.String(),
		"min_rate":           d.MinRate.String(),
		"max_rate":           d.MaxRate.String(),
	})
}

func (h *RatesHandler) calculate(in rateInput) (uuid.UUID, domain.Result, error) {
	id := uuid.New()
	start := time.Now()

	res, err := h.run(in)
	h.Metrics.Observe(outcomeFor(err), time.Since(start))
	if err != nil {
		h.Log.Warn().Str("calculation_id", id.String()).Err(err).Msg("rate calculation rejected")
		return id, domain.Result{}, err
	}

	h.Log.Info().
		Str("calculation_id", id.String()).
		Str("utilization_error", res.UtilizationError.StringFixed(6)).
		Str("avg_rate_before_curve_apy", res.AvgRateBeforeCurveAPY.StringFixed(4)).
		Str("avg_rate_after_curve_apy", res.AvgRateAfterCurveAPY.StringFixed(4)).
		Msg("rate calculated")
	return id, res, nil
}

func (h *RatesHandler) run(in rateInput) (domain.Result, error) {
	if err := h.validate.Struct(in); err != nil {
		return domain.Result{}, fmt.Errorf("%v: %w", err, errBadInput)
	}
	req, err := in.request(h.Defaults)
	if err != nil {
		return domain.Result{}, err
	}
	return h.Calc.Calculate(req)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadInput), errors.Is(err, domain.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, fixed.ErrOverflow), errors.Is(err, fixed.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func outcomeFor(err error) string {
	if err == nil {
		return outcomeOK
	}
	switch statusFor(err) {
	case http.StatusBadRequest:
		return outcomeInvalid
	case http.StatusUnprocessableEntity:
		return outcomeArithmetic
	default:
		return outcomeError
	}
}

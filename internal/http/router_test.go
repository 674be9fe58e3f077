package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ratecalc/internal/domain"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
	return NewRouter(domain.NewCalculator(domain.DefaultConstants()), domain.DefaultRequest(), logger)
}

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/rates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testRouter(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPage(t *testing.T) {
	rec := get(t, testRouter(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Interest Rate Calculator")
	assert.Contains(t, body, `name="curve_steepness" value="4"`)
	assert.Contains(t, body, `name="min_rate" value="0.1"`)
	assert.Contains(t, body, `name="max_rate" value="200"`)
}

func TestCalculateForm(t *testing.T) {
	h := testRouter(t)

	t.Run("util=100% 1h => 4.01% / 16.05%", func(t *testing.T) {
		rec := postForm(t, h, url.Values{
			"current_utilization":  {"100"},
			"elapsed_time_seconds": {"3600"},
			"curve_steepness":      {"4"},
			"initial_rate":         {"4"},
			"adjustment_speed":     {"50"},
			"target_utilization":   {"90"},
			"min_rate":             {"0.1"},
			"max_rate":             {"200"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Average Rate before Applying Curve (APY):</strong> 4.01%")
		assert.Contains(t, rec.Body.String(), "Average Rate after Applying Curve (APY):</strong> 16.05%")
	})

	t.Run("blank model fields use defaults", func(t *testing.T) {
		rec := postForm(t, h, url.Values{
			"current_utilization":  {"90"},
			"elapsed_time_seconds": {"3600"},
			"curve_steepness":      {""},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "4.00%")
	})

	t.Run("missing elapsed time => 400", func(t *testing.T) {
		rec := postForm(t, h, url.Values{"current_utilization": {"90"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing elapsed_time_seconds")
	})

	t.Run("not a number => 400", func(t *testing.T) {
		rec := postForm(t, h, url.Values{"current_utilization": {"abc"}, "elapsed_time_seconds": {"1"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid current_utilization")
	})

	t.Run("NaN => 400", func(t *testing.T) {
		rec := postForm(t, h, url.Values{"current_utilization": {"50"}, "elapsed_time_seconds": {"1"}, "curve_steepness": {"NaN"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("target=100% => 400", func(t *testing.T) {
		rec := postForm(t, h, url.Values{
			"current_utilization":  {"50"},
			"elapsed_time_seconds": {"1"},
			"target_utilization":   {"100"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid configuration")
	})

	t.Run("negative elapsed => 400", func(t *testing.T) {
		rec := postForm(t, h, url.Values{"current_utilization": {"50"}, "elapsed_time_seconds": {"-5"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRate(t *testing.T) {
	h := testRouter(t)

	t.Run("at target => both 4.00", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"current_utilization": 90, "elapsed_time_seconds": 3600}`)
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := uuid.Parse(out["id"])
		assert.NoError(t, err)
		assert.Equal(t, "0.000000", out["utilization_error"])
		assert.Equal(t, "4.00", out["avg_rate_before_curve_apy"])
		assert.Equal(t, "4.00", out["avg_rate_after_curve_apy"])
		assert.Equal(t, "4.00", out["end_rate_at_target_apy"])
	})

	t.Run("asset totals => utilization 100%", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"total_supply_assets": 1000, "total_borrow_assets": 1000, "elapsed_time_seconds": 3600}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "1.000000", out["utilization_error"])
		assert.Equal(t, "16.05", out["avg_rate_after_curve_apy"])
	})

	t.Run("empty market => utilization 0%", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"total_supply_assets": 0, "total_borrow_assets": 0, "elapsed_time_seconds": 0}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "-1.000000", out["utilization_error"])
		assert.Equal(t, "1.00", out["avg_rate_after_curve_apy"])
	})

	t.Run("utilization and totals together => 400", func(t *testing.T) {
		rec, _ := postJSON(t, h, `{"current_utilization": 50, "total_supply_assets": 10, "total_borrow_assets": 5, "elapsed_time_seconds": 1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("only one total => 400", func(t *testing.T) {
		rec, _ := postJSON(t, h, `{"total_supply_assets": 10, "elapsed_time_seconds": 1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("utilization above 100% => 400", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"current_utilization": 150, "elapsed_time_seconds": 1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, out["error"], "CurrentUtilization")
	})

	t.Run("initial rate above max => 400", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"current_utilization": 50, "elapsed_time_seconds": 1, "initial_rate": 300}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, out["error"], "initial rate")
	})

	t.Run("steepness out of fixed-point range => 422", func(t *testing.T) {
		rec, _ := postJSON(t, h, `{"current_utilization": 50, "elapsed_time_seconds": 1, "curve_steepness": 1e30}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid json => 400", func(t *testing.T) {
		rec, out := postJSON(t, h, `{"current_utilization":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid json", out["error"])
	})
}

func TestGetDefaults(t *testing.T) {
	rec := get(t, testRouter(t), "/v1/defaults")
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "31557600", out["seconds_per_year"])
	assert.Equal(t, "4", out["curve_steepness"])
	assert.Equal(t, "90", out["target_utilization"])
}

func TestMetricsCountOutcomes(t *testing.T) {
	h := testRouter(t)
	postJSON(t, h, `{"current_utilization": 90, "elapsed_time_seconds": 60}`)
	postJSON(t, h, `{"current_utilization": 90, "elapsed_time_seconds": -1}`)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ratecalc_calculations_total{outcome="ok"} 1`)
	assert.Contains(t, body, `ratecalc_calculations_total{outcome="invalid"} 1`)
	assert.Contains(t, body, "ratecalc_calculation_duration_seconds_count 2")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"ratecalc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRateModel(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rate_model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RATE_MODEL_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(domain.DefaultSecondsPerYear), cfg.RateModel.SecondsPerYear)

	d := cfg.Defaults()
	want := domain.DefaultRequest()
	assert.True(t, d.CurveSteepness.Equal(want.CurveSteepness))
	assert.True(t, d.InitialRate.Equal(want.InitialRate))
	assert.True(t, d.AdjustmentSpeed.Equal(want.AdjustmentSpeed))
	assert.True(t, d.TargetUtilization.Equal(want.TargetUtilization))
	assert.True(t, d.MinRate.Equal(want.MinRate), "min rate %s", d.MinRate)
	assert.True(t, d.MaxRate.Equal(want.MaxRate))
}

func TestLoadRateModelFile(t *testing.T) {
	path := writeRateModel(t, `
seconds_per_year: 31536000
defaults:
  curve_steepness: 2
  target_utilization: 80
`)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RATE_MODEL_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, int64(31_536_000), cfg.RateModel.SecondsPerYear)
	assert.Equal(t, "2", cfg.RateModel.Defaults.CurveSteepness.String())
	assert.Equal(t, "80", cfg.RateModel.Defaults.TargetUtilization.String())
	// untouched keys keep built-in defaults
	assert.Equal(t, "50", cfg.RateModel.Defaults.AdjustmentSpeed.String())
	assert.Equal(t, "200", cfg.RateModel.Defaults.MaxRate.String())

	c, err := cfg.Constants()
	require.NoError(t, err)
	assert.Equal(t, "31536000", c.SecondsPerYear.String())
}

func TestLoadRateModelKeepsDecimals(t *testing.T) {
	model, err := LoadRateModel(writeRateModel(t, `
defaults:
  min_rate: 0.3
  initial_rate: "4.123456789012345678"
`))
	require.NoError(t, err)
	assert.Equal(t, "0.3", model.Defaults.MinRate.String())
	assert.Equal(t, "4.123456789012345678", model.Defaults.InitialRate.String())
}

func TestLoadRateModelRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero seconds per year": "seconds_per_year: 0\n",
		"target at 100%":        "defaults:\n  target_utilization: 100\n",
		"zero steepness":        "defaults:\n  curve_steepness: 0\n",
		"max below min":         "defaults:\n  min_rate: 5\n  max_rate: 1\n",
		"initial above max":     "defaults:\n  initial_rate: 300\n",
		"not a number":          "defaults:\n  max_rate: lots\n",
		"not yaml":              "defaults: [",
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRateModel(writeRateModel(t, contents))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingRateModel(t *testing.T) {
	t.Setenv("RATE_MODEL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

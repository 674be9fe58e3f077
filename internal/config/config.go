package config

import (
	"fmt"
	"os"
	"strings"

	"ratecalc/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var hundred = decimal.NewFromInt(100)

type Config struct {
	HTTPPort      string
	LogLevel      string
	RateModelPath string
	RateModel     RateModel
}

// RateModel is the optional YAML file describing the calendar constant and the
// defaults offered by the calculator form.
type RateModel struct {
	SecondsPerYear int64         `yaml:"seconds_per_year"`
	Defaults       ModelDefaults `yaml:"defaults"`
}

// ModelDefaults are in the same units as the form: percentages, percent per
// year, and adjustment speed per year.
type ModelDefaults struct {
	CurveSteepness    decimal.Decimal `yaml:"curve_steepness"`
	InitialRate       decimal.Decimal `yaml:"initial_rate"`
	AdjustmentSpeed   decimal.Decimal `yaml:"adjustment_speed"`
	TargetUtilization decimal.Decimal `yaml:"target_utilization"`
	MinRate           decimal.Decimal `yaml:"min_rate"`
	MaxRate           decimal.Decimal `yaml:"max_rate"`
}

func DefaultRateModel() RateModel {
	d := domain.DefaultRequest()
	return RateModel{
		SecondsPerYear: domain.DefaultSecondsPerYear,
		Defaults: ModelDefaults{
			CurveSteepness:    d.CurveSteepness,
			InitialRate:       d.InitialRate,
			AdjustmentSpeed:   d.AdjustmentSpeed,
			TargetUtilization: d.TargetUtilization,
			MinRate:           d.MinRate,
			MaxRate:           d.MaxRate,
		},
	}
}

func Load() (*Config, error) {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8000" // sensible default for local dev
	}
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	cfg := &Config{
		HTTPPort:      port,
		LogLevel:      level,
		RateModelPath: strings.TrimSpace(os.Getenv("RATE_MODEL_CONFIG")),
		RateModel:     DefaultRateModel(),
	}
	if cfg.RateModelPath != "" {
		model, err := LoadRateModel(cfg.RateModelPath)
		if err != nil {
			return nil, err
		}
		cfg.RateModel = model
	}
	return cfg, nil
}

// LoadRateModel reads the YAML rate model file. Keys left out keep their
// built-in defaults.
func LoadRateModel(path string) (RateModel, error) {
	model := DefaultRateModel()

	file, err := os.Open(path)
	if err != nil {
		return RateModel{}, fmt.Errorf("open rate model: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&model); err != nil {
		return RateModel{}, fmt.Errorf("decode rate model: %w", err)
	}
	if err := model.validate(); err != nil {
		return RateModel{}, fmt.Errorf("rate model %s: %w", path, err)
	}
	return model, nil
}

func (m RateModel) validate() error {
	if m.SecondsPerYear <= 0 {
		return fmt.Errorf("seconds_per_year must be > 0")
	}
	d := m.Defaults
	if d.CurveSteepness.IsZero() {
		return fmt.Errorf("defaults.curve_steepness must not be 0")
	}
	if !d.TargetUtilization.IsPositive() || d.TargetUtilization.GreaterThanOrEqual(hundred) {
		return fmt.Errorf("defaults.target_utilization must be inside (0, 100)")
	}
	if d.MinRate.IsNegative() || d.MaxRate.LessThan(d.MinRate) {
		return fmt.Errorf("defaults.min_rate/max_rate must satisfy 0 <= min <= max")
	}
	if !d.InitialRate.IsZero() && (d.InitialRate.LessThan(d.MinRate) || d.InitialRate.GreaterThan(d.MaxRate)) {
		return fmt.Errorf("defaults.initial_rate must be 0 or inside [min_rate, max_rate]")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func (c *Config) Constants() (domain.Constants, error) {
	return domain.NewConstants(c.RateModel.SecondsPerYear)
}

// Defaults returns the model defaults as a request template with zero
// utilization and elapsed time.
func (c *Config) Defaults() domain.Request {
	d := c.RateModel.Defaults
	return domain.Request{
		CurveSteepness:    d.CurveSteepness,
		InitialRate:       d.InitialRate,
		AdjustmentSpeed:   d.AdjustmentSpeed,
		TargetUtilization: d.TargetUtilization,
		MinRate:           d.MinRate,
		MaxRate:           d.MaxRate,
	}
}

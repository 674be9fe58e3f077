package domain

import (
	"fmt"

	"ratecalc/internal/fixed"
)

// DefaultSecondsPerYear is the length of a 365.25-day year in seconds.
const DefaultSecondsPerYear = 31_557_600

var hundred = fixed.FromInt64(100)

// Constants holds the calendar assumptions used to move between annual and
// per-second rates. Pass it explicitly; there is no package-level instance.
type Constants struct {
	SecondsPerYear fixed.Fixed
}

func DefaultConstants() Constants {
	return Constants{SecondsPerYear: fixed.FromInt64(DefaultSecondsPerYear)}
}

func NewConstants(secondsPerYear int64) (Constants, error) {
	if secondsPerYear <= 0 {
		return Constants{}, fmt.Errorf("seconds per year must be > 0, got %d: %w", secondsPerYear, ErrInvalidConfiguration)
	}
	return Constants{SecondsPerYear: fixed.FromInt64(secondsPerYear)}, nil
}

// PerSecond converts an annual rate (0.04 = 4%/yr) into a per-second rate.
func (c Constants) PerSecond(perYear fixed.Fixed) (fixed.Fixed, error) {
	if c.SecondsPerYear.Sign() <= 0 {
		return fixed.Zero, fmt.Errorf("seconds per year not set: %w", ErrInvalidConfiguration)
	}
	return perYear.Div(c.SecondsPerYear)
}

// PerYear converts a per-second rate into an annual rate.
func (c Constants) PerYear(perSecond fixed.Fixed) (fixed.Fixed, error) {
	return perSecond.Mul(c.SecondsPerYear)
}

// APY = rate_per_second * seconds_per_year * 100
func (c Constants) APY(perSecond fixed.Fixed) (fixed.Fixed, error) {
	var calc fixed.Calc
	apy := calc.Mul(calc.Mul(perSecond, c.SecondsPerYear), hundred)
	return apy, calc.Err()
}

package domain

import "errors"

// ErrInvalidConfiguration rejects inputs the rate model cannot run with, such
// as a target utilization of 0 or 1 which would be used as a divisor.
var ErrInvalidConfiguration = errors.New("invalid configuration")

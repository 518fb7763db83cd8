package ode

import "errors"

// Domain errors for solver operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the integration became numerically unstable.
	ErrUnstable = errors.New("ode: integration unstable (state diverged)")

	// ErrStepTooSmall indicates the adaptive timestep fell below the minimum.
	ErrStepTooSmall = errors.New("ode: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch between state and system")
)

// IntegrationError wraps an error with solver context.
type IntegrationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return e.Wrapped.Error()
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}

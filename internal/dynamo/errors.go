package dynamo

import "errors"

// Domain errors for configuration and headless runs.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name a system does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownIntegrator indicates an integrator name missing from the registry.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimulationError wraps an error with the frame it was raised on.
type SimulationError struct {
	Frame   int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

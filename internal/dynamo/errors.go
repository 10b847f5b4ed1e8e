package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidConfig indicates a run configuration rejected before computation.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNonFinite indicates a map step produced NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite value produced (NaN or Inf)")

	// ErrUnknownKind indicates a map family name that is not registered.
	ErrUnknownKind = errors.New("dynamo: unknown map kind")

	// ErrUnknownParam indicates a parameter name the map kind does not use.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrCanceled indicates the computation was interrupted.
	ErrCanceled = errors.New("dynamo: computation canceled by context")

	// ErrDelivery indicates a computed frame could not be handed to the consumer.
	ErrDelivery = errors.New("dynamo: frame could not be delivered")
)

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// ComputeError wraps a failure with the position in the run where it happened.
type ComputeError struct {
	Frame     int
	Iteration int
	Seed      int
	X, Y      float64
	Wrapped   error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("frame %d, iteration %d, seed %d (x=%g, y=%g): %v",
		e.Frame, e.Iteration, e.Seed, e.X, e.Y, e.Wrapped)
}

func (e *ComputeError) Unwrap() error {
	return e.Wrapped
}

// DeliveryError reports a frame the sink could not accept.
type DeliveryError struct {
	Frame int
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("dynamo: deliver frame %d: %v", e.Frame, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{ErrDelivery, e.Err}
}

// Canceled wraps a context error so callers can match ErrCanceled as well as
// context.Canceled / context.DeadlineExceeded.
func Canceled(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCanceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}

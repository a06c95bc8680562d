package relativity

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is to classify a failure returned by this package.
var (
	// ErrDomain indicates an input outside the physical domain
	// (mass <= 0 or |v| >= c). Nothing was computed.
	ErrDomain = errors.New("relativity: input outside physical domain")

	// ErrConvergence indicates the elastic root solver did not meet
	// tolerance within its iteration budget. The inputs were valid.
	ErrConvergence = errors.New("relativity: elastic solver did not converge")

	// ErrInvariant indicates an internal invariant was violated.
	ErrInvariant = errors.New("relativity: invariant violated")

	// ErrPrecision indicates a valid result that float64 cannot hold,
	// such as an outgoing speed that rounds to c.
	ErrPrecision = errors.New("relativity: result beyond float64 precision")
)

// DomainError names the input that was rejected.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("relativity: invalid %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// ConvergenceError reports the state of the solver when it gave up.
type ConvergenceError struct {
	Seed       string
	Iterations int
	Residual   float64
	Wrapped    error
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("relativity: elastic solver (seed %s) stopped after %d iterations, residual %.3e",
		e.Seed, e.Iterations, e.Residual)
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

func (e *ConvergenceError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrConvergence}
	}
	return []error{ErrConvergence, e.Wrapped}
}

// InvariantError describes a failed internal check.
type InvariantError struct {
	Check string
	Got   float64
	Want  float64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("relativity: %s: got %.12g, want %.12g", e.Check, e.Got, e.Want)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// PrecisionError reports an outgoing β that rounded to ±1. The collision
// itself is physical; only its velocity is not representable.
type PrecisionError struct {
	Field    string
	Beta     float64
	Rapidity float64
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("relativity: outgoing β for %s rounds to %g in float64 (rapidity %.6g): too close to light speed to represent",
		e.Field, e.Beta, e.Rapidity)
}

func (e *PrecisionError) Unwrap() error { return ErrPrecision }

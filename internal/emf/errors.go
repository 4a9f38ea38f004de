package emf

import (
	"errors"
	"fmt"
)

// Domain errors for rig configuration and series handling.
var (
	// ErrMagnetTooLarge indicates a magnet diameter larger than the disk radius.
	ErrMagnetTooLarge = errors.New("emf: magnet diameter exceeds disk radius")

	// ErrMagnetOverlapsCenter indicates the magnet ring would cover the disk center.
	ErrMagnetOverlapsCenter = errors.New("emf: magnet placement overlaps disk center")

	// ErrTooManyMagnets indicates more magnets than fit on the ring without touching.
	ErrTooManyMagnets = errors.New("emf: magnet count exceeds ring capacity")

	// ErrUnknownKernel indicates a flux kernel name with no registered builder.
	ErrUnknownKernel = errors.New("emf: unknown flux kernel")

	// ErrEmptySeries indicates an operation on a series with no samples.
	ErrEmptySeries = errors.New("emf: series has no samples")

	// ErrCanceled indicates a run interrupted by its context.
	ErrCanceled = errors.New("emf: run canceled by context")
)

// RigError wraps a sentinel with the offending rig field and value.
type RigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *RigError) Error() string {
	return fmt.Sprintf("%s (%s=%g)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *RigError) Unwrap() error {
	return e.Wrapped
}

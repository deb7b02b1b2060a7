package model

import (
	"errors"
	"fmt"
)

// Range errors returned by setters. These are caller mistakes that the
// controls driving the model are expected to prevent.
var (
	ErrNonPositiveMass     = errors.New("model: mass must be positive")
	ErrNonPositiveLength   = errors.New("model: natural length must be positive")
	ErrNonPositiveConstant = errors.New("model: spring constant must be positive")
	ErrNegativeDamping     = errors.New("model: damping coefficient must be non-negative")
	ErrNegativeGravity     = errors.New("model: gravity must be non-negative")
	ErrNotFinite           = errors.New("model: value is NaN or Inf")
)

// InvariantError reports an attempt to break a physical constraint that the
// rest of the program assumes always holds. It is raised with panic, never
// returned.
type InvariantError struct {
	Property string
	Want     any
	Got      any
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("model: invariant violated: %s is fixed at %v, attempted %v", e.Property, e.Want, e.Got)
}

// rangeError ties a sentinel to the offending value.
type rangeError struct {
	name  string
	value float64
	err   error
}

func (e *rangeError) Error() string {
	return fmt.Sprintf("%v (%s=%g)", e.err, e.name, e.value)
}

func (e *rangeError) Unwrap() error { return e.err }

package model

import (
	"github.com/san-kum/springlab/internal/property"
	"gonum.org/v1/gonum/spatial/r2"
)

// SystemState is either at rest as constructed or perturbed.
type SystemState uint8

const (
	SystemInitialized SystemState = iota
	SystemPerturbed
)

func (s SystemState) String() string {
	if s == SystemPerturbed {
		return "perturbed"
	}
	return "initialized"
}

// SingleSpringSystem is one spring pulled by an applied force. The fixed
// endpoint and the equilibrium x never move after construction; attempts to
// move them panic with *InvariantError and leave all state unchanged.
type SingleSpringSystem struct {
	Spring       *Spring
	AppliedForce *property.Property[float64]
	EquilibriumX *property.Property[float64]

	fixed     r2.Vec
	perturbed bool
	resetting bool
}

func NewSingleSpringSystem(opts SpringOptions) *SingleSpringSystem {
	spring := NewSpring(opts)
	fixed := spring.Position.Get()

	sys := &SingleSpringSystem{
		Spring: spring,
		AppliedForce: property.New(0.0,
			property.WithName[float64]("applied_force"),
			property.WithValidator(finite("applied_force"))),
		EquilibriumX: property.New(fixed.X,
			property.WithName[float64]("equilibrium_x"),
			property.WithInvariant(func(x float64) error {
				if x != fixed.X {
					return &InvariantError{Property: "equilibrium_x", Want: fixed.X, Got: x}
				}
				return nil
			})),
		fixed: fixed,
	}

	// The free end sits at n + F/k below the anchor and may not pass it,
	// whichever of the three changes.
	sys.AppliedForce.AddValidator(func(f float64) error {
		return collapses(spring.NaturalRestingLength.Get(), f, spring.SpringConstant.Get())
	})
	spring.SpringConstant.AddValidator(func(k float64) error {
		return collapses(spring.NaturalRestingLength.Get(), sys.AppliedForce.Get(), k)
	})
	spring.NaturalRestingLength.AddValidator(func(n float64) error {
		return collapses(n, sys.AppliedForce.Get(), spring.SpringConstant.Get())
	})

	// Hooke's law: F = kd.
	sys.AppliedForce.LazyLink(func(f, _ float64) {
		spring.Displacement.Set(f / spring.SpringConstant.Get())
	})
	spring.SpringConstant.LazyLink(func(k, _ float64) {
		spring.Displacement.Set(sys.AppliedForce.Get() / k)
	})
	spring.Displacement.LazyLink(func(float64, float64) {
		if !sys.resetting {
			sys.perturbed = true
		}
	})

	return sys
}

func collapses(n, f, k float64) error {
	if k <= 0 {
		// the constant's own validator reports this
		return nil
	}
	if l := n + f/k; l <= 0 {
		return &rangeError{name: "length", value: l, err: ErrNonPositiveLength}
	}
	return nil
}

func (s *SingleSpringSystem) FixedEndpoint() r2.Vec { return s.fixed }

// SetFixedEndpoint exists for symmetry with the other setters; any value
// other than the construction-time endpoint panics.
func (s *SingleSpringSystem) SetFixedEndpoint(p r2.Vec) { s.Spring.Position.Set(p) }

func (s *SingleSpringSystem) SetEquilibriumX(x float64) { s.EquilibriumX.Set(x) }

// SetAppliedForce pulls the free end; displacement follows as F/k.
func (s *SingleSpringSystem) SetAppliedForce(f float64) error {
	return s.AppliedForce.TrySet(f)
}

func (s *SingleSpringSystem) State() SystemState {
	if s.perturbed {
		return SystemPerturbed
	}
	return SystemInitialized
}

func (s *SingleSpringSystem) Reset() {
	s.resetting = true
	s.AppliedForce.Reset()
	s.Spring.Reset()
	s.resetting = false
	s.perturbed = false
}

package model

import (
	"math"

	"github.com/san-kum/springlab/internal/property"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultNaturalLength = 0.5
	DefaultConstant      = 10.0
	DefaultDamping       = 0.0
	DefaultGravity       = 9.8

	// followEpsilon absorbs round-off between the spring's bottom and the
	// attached mass so the two do not chase each other.
	followEpsilon = 1e-9
)

type SpringOptions struct {
	ID            string
	Position      r2.Vec
	NaturalLength float64
	Constant      float64
	Damping       float64
	Gravity       float64
}

func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		ID:            "spring",
		Position:      r2.Vec{X: 0, Y: 2.1},
		NaturalLength: DefaultNaturalLength,
		Constant:      DefaultConstant,
		Damping:       DefaultDamping,
		Gravity:       DefaultGravity,
	}
}

// Spring hangs down from Position. Displacement is the stretch beyond the
// natural length, positive when extended. Position is the fixed endpoint:
// setting it to anything else panics with *InvariantError.
type Spring struct {
	ID string

	Position             *property.Property[r2.Vec]
	NaturalRestingLength *property.Property[float64]
	SpringConstant       *property.Property[float64]
	DampingCoefficient   *property.Property[float64]
	Gravity              *property.Property[float64]
	Displacement         *property.Property[float64]
	MassAttached         *property.Property[*Mass]

	Length               *property.Derived[float64]
	BottomPosition       *property.Derived[r2.Vec]
	EquilibriumYPosition *property.Derived[float64]
	SpringForce          *property.Derived[float64]

	attachedMassValue *property.Property[float64]
	massLinks         []func()
}

func NewSpring(opts SpringOptions) *Spring {
	s := &Spring{
		ID: opts.ID,
		Position: property.New(opts.Position,
			property.WithName[r2.Vec]("position"),
			property.WithInvariant(fixedAt(opts.Position))),
		NaturalRestingLength: property.New(opts.NaturalLength,
			property.WithName[float64]("natural_length"),
			property.WithValidator(positive("natural_length", ErrNonPositiveLength))),
		SpringConstant: property.New(opts.Constant,
			property.WithName[float64]("spring_constant"),
			property.WithValidator(positive("spring_constant", ErrNonPositiveConstant))),
		DampingCoefficient: property.New(opts.Damping,
			property.WithName[float64]("damping"),
			property.WithValidator(nonNegative("damping", ErrNegativeDamping))),
		Gravity: property.New(opts.Gravity,
			property.WithName[float64]("gravity"),
			property.WithValidator(nonNegative("gravity", ErrNegativeGravity))),
		Displacement: property.New(0.0,
			property.WithName[float64]("displacement"),
			property.WithValidator(finite("displacement"))),
		MassAttached:      property.New[*Mass](nil),
		attachedMassValue: property.New(0.0),
	}

	// Must run before Length recomputes: an attached mass stays where it is
	// and the stretch absorbs the change in natural length.
	s.NaturalRestingLength.LazyLink(func(float64, float64) {
		if m := s.MassAttached.Get(); m != nil {
			s.syncDisplacement(m.Position.Get())
		}
	})

	s.Length = property.NewDerived(func() float64 {
		return s.NaturalRestingLength.Get() + s.Displacement.Get()
	}, s.NaturalRestingLength, s.Displacement)

	s.BottomPosition = property.NewDerived(func() r2.Vec {
		p := s.Position.Get()
		return r2.Vec{X: p.X, Y: p.Y - s.Length.Get()}
	}, s.Position, s.Length)

	s.EquilibriumYPosition = property.NewDerived(func() float64 {
		y := s.Position.Get().Y - s.NaturalRestingLength.Get()
		if s.MassAttached.Get() != nil {
			y -= s.attachedMassValue.Get() * s.Gravity.Get() / s.SpringConstant.Get()
		}
		return y
	}, s.Position, s.NaturalRestingLength, s.MassAttached, s.attachedMassValue, s.Gravity, s.SpringConstant)

	s.SpringForce = property.NewDerived(func() float64 {
		return -s.SpringConstant.Get() * s.Displacement.Get()
	}, s.SpringConstant, s.Displacement)

	s.BottomPosition.LazyLink(func(r2.Vec, r2.Vec) { s.followBottom() })

	return s
}

func fixedAt(anchor r2.Vec) func(r2.Vec) error {
	return func(p r2.Vec) error {
		if p != anchor {
			return &InvariantError{Property: "fixed_endpoint", Want: anchor, Got: p}
		}
		return nil
	}
}

func (s *Spring) SetNaturalLength(v float64) error  { return s.NaturalRestingLength.TrySet(v) }
func (s *Spring) SetSpringConstant(v float64) error { return s.SpringConstant.TrySet(v) }
func (s *Spring) SetDampingCoefficient(v float64) error {
	return s.DampingCoefficient.TrySet(v)
}

// SetDisplacement stretches the spring directly. The length must stay positive.
func (s *Spring) SetDisplacement(d float64) error {
	if err := s.Displacement.Validate(d); err != nil {
		return err
	}
	if n := s.NaturalRestingLength.Get(); n+d <= 0 {
		return &rangeError{name: "length", value: n + d, err: ErrNonPositiveLength}
	}
	return s.Displacement.TrySet(d)
}

// AddMass hangs m from the spring's bottom, detaching it from any other spring.
func (s *Spring) AddMass(m *Mass) {
	if cur := s.MassAttached.Get(); cur == m {
		return
	} else if cur != nil {
		s.RemoveMass()
	}
	if other := m.Spring.Get(); other != nil {
		other.RemoveMass()
	}

	m.Position.Set(s.BottomPosition.Get())
	m.Velocity.Set(0)

	posID := m.Position.LazyLink(func(p, _ r2.Vec) { s.syncDisplacement(p) })
	massID := m.Mass.Link(func(v, _ float64) { s.attachedMassValue.Set(v) })
	s.massLinks = []func(){
		func() { m.Position.Unlink(posID) },
		func() { m.Mass.Unlink(massID) },
	}

	s.MassAttached.Set(m)
	m.Spring.Set(s)
}

// RemoveMass detaches the hanging mass, if any, and relaxes the spring.
func (s *Spring) RemoveMass() {
	m := s.MassAttached.Get()
	if m == nil {
		return
	}
	for _, unlink := range s.massLinks {
		unlink()
	}
	s.massLinks = nil
	s.MassAttached.Set(nil)
	s.attachedMassValue.Set(0)
	m.Spring.Set(nil)
	s.Displacement.Set(0)
}

// Reset detaches any mass and restores the construction-time natural length,
// constant, damping and displacement. Position and gravity are untouched.
func (s *Spring) Reset() {
	s.RemoveMass()
	s.NaturalRestingLength.Reset()
	s.SpringConstant.Reset()
	s.DampingCoefficient.Reset()
	s.Displacement.Reset()
}

// ElasticPotentialEnergy is ½kd².
func (s *Spring) ElasticPotentialEnergy() float64 {
	d := s.Displacement.Get()
	return 0.5 * s.SpringConstant.Get() * d * d
}

// Period of the attached mass, or 0 with nothing attached.
func (s *Spring) Period() float64 {
	if s.MassAttached.Get() == nil {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(s.attachedMassValue.Get()/s.SpringConstant.Get())
}

func (s *Spring) syncDisplacement(massPos r2.Vec) {
	length := s.Position.Get().Y - massPos.Y
	d := length - s.NaturalRestingLength.Get()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	s.Displacement.Set(d)
}

func (s *Spring) followBottom() {
	m := s.MassAttached.Get()
	if m == nil || m.UserControlled.Get() {
		return
	}
	b := s.BottomPosition.Get()
	p := m.Position.Get()
	if math.Abs(b.X-p.X) <= followEpsilon && math.Abs(b.Y-p.Y) <= followEpsilon {
		return
	}
	m.Position.Set(b)
}

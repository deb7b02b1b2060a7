package model

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/springlab/internal/property"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultMass    = 0.25
	DefaultDensity = 80.0
	HeightRatio    = 2.5
	HookHeight     = 0.03
)

type MassOptions struct {
	Label      string
	Mass       float64
	Color      string
	Position   r2.Vec
	Adjustable bool
	Density    float64
}

// Mass is a cylinder hanging from a hook. Position is the tip of the hook;
// the body extends below it.
type Mass struct {
	Label      string
	Adjustable bool

	Mass           *property.Property[float64]
	Color          *property.Property[string]
	Position       *property.Property[r2.Vec]
	Velocity       *property.Property[float64]
	UserControlled *property.Property[bool]
	Spring         *property.Property[*Spring]

	Radius         *property.Derived[float64]
	CylinderHeight *property.Derived[float64]
}

// NewMass fails fast on a non-positive mass rather than building a body with
// undefined geometry.
func NewMass(opts MassOptions) (*Mass, error) {
	if err := positive("mass", ErrNonPositiveMass)(opts.Mass); err != nil {
		return nil, err
	}
	density := opts.Density
	if density <= 0 {
		density = DefaultDensity
	}

	m := &Mass{
		Label:      opts.Label,
		Adjustable: opts.Adjustable,
		Mass: property.New(opts.Mass,
			property.WithName[float64]("mass"),
			property.WithValidator(positive("mass", ErrNonPositiveMass))),
		Color: property.New(opts.Color, property.WithName[string]("color")),
		Position: property.New(opts.Position,
			property.WithName[r2.Vec]("position"),
			property.WithValidator(finiteVec("position"))),
		Velocity: property.New(0.0,
			property.WithName[float64]("velocity"),
			property.WithValidator(finite("velocity"))),
		UserControlled: property.New(false),
		Spring:         property.New[*Spring](nil),
	}

	m.Radius = property.NewDerived(func() float64 {
		return radiusFor(m.Mass.Get(), density)
	}, m.Mass)
	m.CylinderHeight = property.NewDerived(func() float64 {
		return m.Radius.Get() * HeightRatio
	}, m.Radius)

	return m, nil
}

func radiusFor(mass, density float64) float64 {
	return math.Cbrt(mass / (density * math.Pi * HeightRatio))
}

// RestingHeight is how high above the floor the hook of a resting mass sits.
func RestingHeight(mass, density float64) float64 {
	if density <= 0 {
		density = DefaultDensity
	}
	return HookHeight + radiusFor(mass, density)*HeightRatio
}

func (m *Mass) SetMass(v float64) error        { return m.Mass.TrySet(v) }
func (m *Mass) SetPosition(p r2.Vec) error     { return m.Position.TrySet(p) }
func (m *Mass) SetUserControlled(b bool)       { m.UserControlled.Set(b) }
func (m *Mass) Attached() bool                 { return m.Spring.Get() != nil }
func (m *Mass) Bottom() float64                { return m.Position.Get().Y - m.TotalHeight() }
func (m *Mass) TotalHeight() float64           { return HookHeight + m.CylinderHeight.Get() }
func (m *Mass) Weight(gravity float64) float64 { return m.Mass.Get() * gravity }

// Step advances the mass by dt. Nothing happens while the user holds it.
// Attached masses follow the analytic damped oscillation about the spring's
// equilibrium; free masses fall to floorY.
func (m *Mass) Step(gravity, floorY, dt float64) {
	if dt <= 0 || m.UserControlled.Get() {
		return
	}
	if s := m.Spring.Get(); s != nil {
		m.oscillate(s, dt)
		return
	}
	m.fall(gravity, floorY, dt)
}

func (m *Mass) oscillate(s *Spring, dt float64) {
	k := s.SpringConstant.Get()
	mass := m.Mass.Get()
	omega := math.Sqrt(k / mass)
	zeta := s.DampingCoefficient.Get() / (2 * math.Sqrt(k*mass))

	eq := s.EquilibriumYPosition.Get()
	y := m.Position.Get().Y - eq

	spring := harmonica.NewSpring(dt, omega, zeta)
	y, v := spring.Update(y, m.Velocity.Get(), 0)

	// keep the spring from inverting past its anchor
	minY := s.Position.Get().Y - s.NaturalRestingLength.Get()*0.05
	if eq+y > minY {
		y = minY - eq
		v = 0
	}

	m.Velocity.Set(v)
	m.Position.Set(r2.Vec{X: s.Position.Get().X, Y: eq + y})
}

func (m *Mass) fall(gravity, floorY, dt float64) {
	p := m.Position.Get()
	v := m.Velocity.Get()
	h := m.TotalHeight()
	rest := floorY + h

	if p.Y <= rest && v <= 0 {
		if p.Y != rest {
			m.Position.Set(r2.Vec{X: p.X, Y: rest})
		}
		m.Velocity.Set(0)
		return
	}

	y := p.Y + v*dt - 0.5*gravity*dt*dt
	v -= gravity * dt
	if y < rest {
		y, v = rest, 0
	}
	m.Velocity.Set(v)
	m.Position.Set(r2.Vec{X: p.X, Y: y})
}

// Reset detaches the mass and restores its construction-time state.
func (m *Mass) Reset() {
	if s := m.Spring.Get(); s != nil {
		s.RemoveMass()
	}
	m.UserControlled.Reset()
	m.Mass.Reset()
	m.Color.Reset()
	m.Velocity.Reset()
	m.Position.Reset()
}

// Energy breaks down the mechanical energy of a mass. Gravitational energy
// is measured from referenceY.
type Energy struct {
	Kinetic       float64
	Gravitational float64
	Elastic       float64
}

func (e Energy) Total() float64 { return e.Kinetic + e.Gravitational + e.Elastic }

func (m *Mass) Energy(gravity, referenceY float64) Energy {
	v := m.Velocity.Get()
	e := Energy{
		Kinetic:       0.5 * m.Mass.Get() * v * v,
		Gravitational: m.Mass.Get() * gravity * (m.Position.Get().Y - referenceY),
	}
	if s := m.Spring.Get(); s != nil {
		e.Elastic = s.ElasticPotentialEnergy()
	}
	return e
}

// NetForce on the mass, positive up.
func (m *Mass) NetForce(gravity float64) float64 {
	f := -m.Weight(gravity)
	if s := m.Spring.Get(); s != nil {
		// SpringForce is measured along the extension, which points down.
		f += -s.SpringForce.Get() - s.DampingCoefficient.Get()*m.Velocity.Get()
	}
	return f
}

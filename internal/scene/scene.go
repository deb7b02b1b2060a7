package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/property"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// FrameDt is the step used by StepForward while paused.
	FrameDt = 1.0 / 60
	// SnapRadius is how close a released hook must be to a free spring's
	// bottom to attach.
	SnapRadius = 0.1
	// MaxDt bounds a single step so a stalled host loop cannot launch a mass.
	MaxDt = 0.1
)

var (
	ErrNotHeld       = errors.New("scene: mass is not being dragged")
	ErrUnknownMass   = errors.New("scene: mass does not belong to this scene")
	ErrSpringIndex   = errors.New("scene: spring index out of range")
	ErrUnknownSpring = errors.New("scene: spring does not belong to this scene")
	ErrLengthLocked  = errors.New("scene: natural length is fixed in this scene mode")
)

// Bounds is the draggable region in model coordinates.
type Bounds struct {
	MinX, MaxX, MaxY float64
}

// Scene is the model of one simulation variant.
type Scene struct {
	Kind    model.Screen
	Springs []*model.Spring
	Masses  []*model.Mass

	Body         *property.Property[model.Body]
	Gravity      *property.Property[float64]
	Playing      *property.Property[bool]
	Speed        *property.Property[model.SimSpeed]
	SceneMode    *property.Property[model.SceneMode]
	ConstantMode *property.Property[model.ConstantMode]
	ForceMode    *property.Property[model.ForceMode]
	Time         *property.Property[float64]

	Stopwatch *Stopwatch
	Ruler     *Ruler
	FloorY    float64
	Bounds    Bounds

	logger  *slog.Logger
	thermal map[*model.Mass]float64
	hangs   []hang
}

type hang struct {
	mass   *model.Mass
	spring *model.Spring
	pull   float64
}

type Options struct {
	Kind         model.Screen
	Body         model.Body
	Gravity      float64
	Speed        model.SimSpeed
	SceneMode    model.SceneMode
	ConstantMode model.ConstantMode
	ForceMode    model.ForceMode
	FloorY       float64
	Logger       *slog.Logger
}

func New(opts Options) *Scene {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	gravity := opts.Gravity
	if g, ok := opts.Body.Gravity(); ok {
		gravity = g
	}

	s := &Scene{
		Kind:         opts.Kind,
		Body:         property.New(opts.Body),
		Gravity:      property.New(gravity, property.WithName[float64]("gravity")),
		Playing:      property.New(true),
		Speed:        property.New(opts.Speed),
		SceneMode:    property.New(opts.SceneMode),
		ConstantMode: property.New(opts.ConstantMode),
		ForceMode:    property.New(opts.ForceMode),
		Time:         property.New(0.0),
		Stopwatch:    NewStopwatch(),
		Ruler:        NewRuler(r2.Vec{X: 0.05, Y: 2.1}),
		FloorY:       opts.FloorY,
		Bounds:       Bounds{MinX: 0, MaxX: 1.6, MaxY: 2.1},
		logger:       logger,
		thermal:      make(map[*model.Mass]float64),
	}

	s.Gravity.AddValidator(func(g float64) error {
		if g < 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("%w (gravity=%g)", model.ErrNegativeGravity, g)
		}
		return nil
	})

	// A preset body dictates gravity; gravity that departs from the preset
	// selects the custom body.
	s.Body.LazyLink(func(b, _ model.Body) {
		if g, ok := b.Gravity(); ok {
			s.Gravity.Set(g)
		}
	})
	s.Gravity.LazyLink(func(g, _ float64) {
		if preset, ok := s.Body.Get().Gravity(); ok && preset != g {
			s.Body.Set(model.BodyCustom)
		}
		for _, sp := range s.Springs {
			sp.Gravity.Set(g)
		}
	})

	return s
}

// AddSpring takes ownership of sp and keeps its gravity in sync.
func (s *Scene) AddSpring(sp *model.Spring) {
	sp.Gravity.Set(s.Gravity.Get())
	s.Springs = append(s.Springs, sp)
}

func (s *Scene) AddMass(m *model.Mass) {
	s.Masses = append(s.Masses, m)
}

// Hang attaches m to sp and pulls it pull metres below the spring's bottom.
// The arrangement is restored by Reset.
func (s *Scene) Hang(m *model.Mass, sp *model.Spring, pull float64) error {
	if !s.owns(m) {
		return ErrUnknownMass
	}
	if !s.ownsSpring(sp) {
		return ErrUnknownSpring
	}
	if err := s.hang(m, sp, pull); err != nil {
		return err
	}
	s.hangs = append(s.hangs, hang{mass: m, spring: sp, pull: pull})
	return nil
}

func (s *Scene) hang(m *model.Mass, sp *model.Spring, pull float64) error {
	sp.AddMass(m)
	if pull == 0 {
		return nil
	}
	p := m.Position.Get()
	return m.SetPosition(r2.Vec{X: p.X, Y: p.Y - pull})
}

func (s *Scene) SpringByID(id string) *model.Spring {
	for _, sp := range s.Springs {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (s *Scene) ownsSpring(sp *model.Spring) bool {
	for _, own := range s.Springs {
		if own == sp {
			return sp != nil
		}
	}
	return false
}

func (s *Scene) owns(m *model.Mass) bool {
	for _, own := range s.Masses {
		if own == m {
			return true
		}
	}
	return false
}

// SelectBody switches the gravity source.
func (s *Scene) SelectBody(b model.Body) { s.Body.Set(b) }

// SetGravity sets a custom gravity.
func (s *Scene) SetGravity(g float64) error { return s.Gravity.TrySet(g) }

// SetSpringConstant adjusts one spring, or all of them when the constant
// mode says they are the same.
func (s *Scene) SetSpringConstant(i int, k float64) error {
	if i < 0 || i >= len(s.Springs) {
		return ErrSpringIndex
	}
	if s.ConstantMode.Get() == model.ConstantSame {
		for _, sp := range s.Springs {
			if err := sp.SpringConstant.Validate(k); err != nil {
				return err
			}
		}
		for _, sp := range s.Springs {
			sp.SpringConstant.Set(k)
		}
		return nil
	}
	return s.Springs[i].SetSpringConstant(k)
}

// SetNaturalLength is only allowed in the adjustable-length scene.
func (s *Scene) SetNaturalLength(i int, l float64) error {
	if i < 0 || i >= len(s.Springs) {
		return ErrSpringIndex
	}
	if s.SceneMode.Get() != model.SceneAdjustableLength {
		return ErrLengthLocked
	}
	return s.Springs[i].SetNaturalLength(l)
}

func (s *Scene) SetDamping(i int, b float64) error {
	if i < 0 || i >= len(s.Springs) {
		return ErrSpringIndex
	}
	return s.Springs[i].SetDampingCoefficient(b)
}

// Grab starts a drag. A mass hanging on a spring comes off it.
func (s *Scene) Grab(m *model.Mass) error {
	if !s.owns(m) {
		return ErrUnknownMass
	}
	if sp := m.Spring.Get(); sp != nil {
		sp.RemoveMass()
	}
	m.Velocity.Set(0)
	m.SetUserControlled(true)
	return nil
}

// DragBy moves a held mass by a model-space delta, clamped to the bounds
// and the floor.
func (s *Scene) DragBy(m *model.Mass, delta r2.Vec) error {
	return s.DragTo(m, r2.Add(m.Position.Get(), delta))
}

func (s *Scene) DragTo(m *model.Mass, p r2.Vec) error {
	if !s.owns(m) {
		return ErrUnknownMass
	}
	if !m.UserControlled.Get() {
		return ErrNotHeld
	}
	p.X = clamp(p.X, s.Bounds.MinX, s.Bounds.MaxX)
	p.Y = clamp(p.Y, s.FloorY+m.TotalHeight(), s.Bounds.MaxY)
	return m.SetPosition(p)
}

// Release ends a drag and hooks the mass onto the nearest free spring within
// SnapRadius. It returns the spring attached to, if any.
func (s *Scene) Release(m *model.Mass) (*model.Spring, error) {
	if !s.owns(m) {
		return nil, ErrUnknownMass
	}
	if !m.UserControlled.Get() {
		return nil, ErrNotHeld
	}
	m.SetUserControlled(false)

	var best *model.Spring
	bestDist := SnapRadius
	for _, sp := range s.Springs {
		if sp.MassAttached.Get() != nil {
			continue
		}
		d := r2.Norm(r2.Sub(sp.BottomPosition.Get(), m.Position.Get()))
		if d <= bestDist {
			best, bestDist = sp, d
		}
	}
	if best != nil {
		best.AddMass(m)
		s.thermal[m] = 0
	}
	return best, nil
}

// Step advances the scene by dt of wall time, scaled by the sim speed.
// Nothing moves while paused.
func (s *Scene) Step(dt float64) {
	if !s.Playing.Get() {
		return
	}
	s.advance(math.Min(dt, MaxDt) * s.Speed.Get().Factor())
}

// StepForward advances one frame while paused.
func (s *Scene) StepForward() {
	if s.Playing.Get() {
		return
	}
	s.advance(FrameDt * s.Speed.Get().Factor())
}

func (s *Scene) advance(dt float64) {
	g := s.Gravity.Get()
	for _, m := range s.Masses {
		before := m.Energy(g, s.FloorY)
		m.Step(g, s.FloorY, dt)
		if sp := m.Spring.Get(); sp != nil && sp.DampingCoefficient.Get() > 0 {
			after := m.Energy(g, s.FloorY)
			if lost := before.Total() - after.Total(); lost > 0 {
				s.thermal[m] += lost
			}
		}
	}
	s.Stopwatch.Step(dt)
	s.Time.Set(s.Time.Get() + dt)
}

// EnergyBreakdown adds the energy dissipated by damping to a mass's
// mechanical energy.
type EnergyBreakdown struct {
	model.Energy
	Thermal float64
}

func (e EnergyBreakdown) Total() float64 { return e.Energy.Total() + e.Thermal }

func (s *Scene) Energy(m *model.Mass) EnergyBreakdown {
	return EnergyBreakdown{
		Energy:  m.Energy(s.Gravity.Get(), s.FloorY),
		Thermal: s.thermal[m],
	}
}

// Reset restores every model object and tool, then rehangs the masses that
// started on springs.
func (s *Scene) Reset() {
	for _, sp := range s.Springs {
		sp.Reset()
	}
	for _, m := range s.Masses {
		m.Reset()
		delete(s.thermal, m)
	}
	s.Body.Reset()
	s.Gravity.Reset()
	s.Playing.Reset()
	s.Speed.Reset()
	s.SceneMode.Reset()
	s.ConstantMode.Reset()
	s.ForceMode.Reset()
	s.Time.Reset()
	s.Stopwatch.Reset()
	s.Ruler.Reset()
	for _, h := range s.hangs {
		if err := s.hang(h.mass, h.spring, h.pull); err != nil {
			s.logger.Warn("rehang failed", "mass", h.mass.Label, "spring", h.spring.ID, "err", err)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package model_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/springlab/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Mass", func() {
	It("refuses a non-positive mass", func() {
		_, err := model.NewMass(model.MassOptions{Mass: 0})
		Expect(errors.Is(err, model.ErrNonPositiveMass)).To(BeTrue())

		m := newMass(1)
		Expect(errors.Is(m.SetMass(-1), model.ErrNonPositiveMass)).To(BeTrue())
		Expect(m.Mass.Get()).To(Equal(1.0))
	})

	It("derives geometry from the mass value", func() {
		m := newMass(0.25)
		r := m.Radius.Get()
		Expect(r).To(BeNumerically("~", math.Cbrt(0.25/(model.DefaultDensity*math.Pi*model.HeightRatio)), 1e-12))
		Expect(m.CylinderHeight.Get()).To(BeNumerically("~", r*model.HeightRatio, 1e-12))

		Expect(m.SetMass(2)).To(Succeed())
		Expect(m.Radius.Get()).To(BeNumerically(">", r))
	})

	It("falls to the floor and stops", func() {
		m := newMass(0.25)
		for i := 0; i < 200; i++ {
			m.Step(9.8, 0, 1.0/60)
		}
		Expect(m.Bottom()).To(BeNumerically("~", 0, 1e-12))
		Expect(m.Velocity.Get()).To(Equal(0.0))
	})

	It("does not fall without gravity", func() {
		m := newMass(0.25)
		m.Step(0, 0, 1)
		Expect(m.Position.Get()).To(Equal(r2.Vec{X: 1, Y: 0.5}))
	})

	Context("attached to a spring", func() {
		var (
			s *model.Spring
			m *model.Mass
		)

		BeforeEach(func() {
			s = model.NewSpring(model.DefaultSpringOptions())
			m = newMass(0.25)
			s.AddMass(m)
		})

		It("oscillates about the equilibrium", func() {
			eq := s.EquilibriumYPosition.Get()
			start := m.Position.Get().Y
			Expect(start).To(BeNumerically(">", eq))

			minY := start
			for i := 0; i < 120; i++ {
				m.Step(9.8, 0, 1.0/60)
				minY = math.Min(minY, m.Position.Get().Y)
			}
			Expect(minY).To(BeNumerically("~", eq-(start-eq), 1e-3))
		})

		It("settles with damping", func() {
			Expect(s.SetDampingCoefficient(1)).To(Succeed())
			for i := 0; i < 60*30; i++ {
				m.Step(9.8, 0, 1.0/60)
			}
			Expect(m.Position.Get().Y).To(BeNumerically("~", s.EquilibriumYPosition.Get(), 1e-4))
			Expect(s.Displacement.Get()).To(BeNumerically("~", 0.25*9.8/model.DefaultConstant, 1e-4))
		})

		It("ignores physics while user-controlled and resumes afterwards", func() {
			rng := rand.New(rand.NewSource(3))
			m.SetUserControlled(true)
			for i := 0; i < 50; i++ {
				p := r2.Vec{X: m.Position.Get().X, Y: 0.8 + rng.Float64()}
				Expect(m.SetPosition(p)).To(Succeed())
				m.Step(9.8, 0, 1.0/60)
				Expect(m.Position.Get()).To(Equal(p))
			}

			held := m.Position.Get()
			m.SetUserControlled(false)
			m.Step(9.8, 0, 1.0/60)
			Expect(m.Position.Get()).NotTo(Equal(held))
		})

		It("reports energy with the spring's elastic term", func() {
			Expect(m.SetPosition(r2.Vec{X: 0, Y: 1.4})).To(Succeed())
			e := m.Energy(9.8, 0)
			Expect(e.Elastic).To(BeNumerically("~", 0.5*10*0.2*0.2, 1e-12))
			Expect(e.Gravitational).To(BeNumerically("~", 0.25*9.8*1.4, 1e-12))
			Expect(e.Kinetic).To(Equal(0.0))
		})

		It("has zero net force at equilibrium", func() {
			Expect(m.SetPosition(r2.Vec{X: 0, Y: s.EquilibriumYPosition.Get()})).To(Succeed())
			Expect(m.NetForce(9.8)).To(BeNumerically("~", 0, 1e-9))
		})

		It("restores position and attachment on reset", func() {
			Expect(m.SetMass(1)).To(Succeed())
			m.Reset()
			Expect(m.Spring.Get()).To(BeNil())
			Expect(s.MassAttached.Get()).To(BeNil())
			Expect(m.Position.Get()).To(Equal(r2.Vec{X: 1, Y: 0.5}))
			Expect(m.Mass.Get()).To(Equal(0.25))
			Expect(m.UserControlled.Get()).To(BeFalse())
		})
	})
})

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

func newMass(kg float64) *model.Mass {
	m, err := model.NewMass(model.MassOptions{Label: "m", Mass: kg, Color: "red", Position: r2.Vec{X: 1, Y: 0.5}})
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Spring", func() {
	var s *model.Spring

	BeforeEach(func() {
		opts := model.DefaultSpringOptions()
		opts.ID = "spring1"
		opts.Position = r2.Vec{X: 0.1, Y: 2.0}
		s = model.NewSpring(opts)
	})

	It("derives length from natural length and displacement", func() {
		Expect(s.SetDisplacement(0.1)).To(Succeed())
		Expect(s.Length.Get()).To(BeNumerically("~", 0.6, 1e-12))
	})

	It("exposes the new length to displacement listeners in the same call", func() {
		var seen float64
		s.Displacement.LazyLink(func(float64, float64) { seen = s.Length.Get() })
		Expect(s.SetDisplacement(0.1)).To(Succeed())
		Expect(seen).To(BeNumerically("~", 0.6, 1e-12))
	})

	It("places the bottom below the anchor", func() {
		Expect(s.SetDisplacement(0.2)).To(Succeed())
		b := s.BottomPosition.Get()
		Expect(b.X).To(Equal(0.1))
		Expect(b.Y).To(BeNumerically("~", 2.0-0.7, 1e-12))
	})

	It("panics when its anchor moves", func() {
		Expect(func() { s.Position.Set(r2.Vec{X: 0.7, Y: 1}) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(func() { _ = s.Position.TrySet(r2.Vec{X: 0.1, Y: 2.5}) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(s.Position.Get()).To(Equal(r2.Vec{X: 0.1, Y: 2.0}))
		Expect(s.Position.TrySet(r2.Vec{X: 0.1, Y: 2.0})).To(Succeed())
	})

	It("rejects out of range values without mutating", func() {
		Expect(errors.Is(s.SetNaturalLength(0), model.ErrNonPositiveLength)).To(BeTrue())
		Expect(errors.Is(s.SetSpringConstant(-3), model.ErrNonPositiveConstant)).To(BeTrue())
		Expect(errors.Is(s.SetDampingCoefficient(-0.1), model.ErrNegativeDamping)).To(BeTrue())
		Expect(errors.Is(s.SetDisplacement(-0.5), model.ErrNonPositiveLength)).To(BeTrue())
		Expect(errors.Is(s.SetDisplacement(math.NaN()), model.ErrNotFinite)).To(BeTrue())

		Expect(s.NaturalRestingLength.Get()).To(Equal(model.DefaultNaturalLength))
		Expect(s.SpringConstant.Get()).To(Equal(model.DefaultConstant))
		Expect(s.Displacement.Get()).To(Equal(0.0))
	})

	It("computes equilibrium from the attached weight", func() {
		Expect(s.EquilibriumYPosition.Get()).To(BeNumerically("~", 1.5, 1e-12))

		m := newMass(1.0)
		s.AddMass(m)
		Expect(s.EquilibriumYPosition.Get()).To(BeNumerically("~", 2.0-0.5-9.8/10, 1e-12))

		Expect(m.SetMass(2.0)).To(Succeed())
		Expect(s.EquilibriumYPosition.Get()).To(BeNumerically("~", 2.0-0.5-2*9.8/10, 1e-12))

		s.Gravity.Set(0)
		Expect(s.EquilibriumYPosition.Get()).To(BeNumerically("~", 1.5, 1e-12))
	})

	It("hangs an added mass at its bottom and tracks its position", func() {
		m := newMass(0.5)
		s.AddMass(m)
		Expect(m.Position.Get()).To(Equal(s.BottomPosition.Get()))
		Expect(m.Spring.Get()).To(Equal(s))

		Expect(m.SetPosition(r2.Vec{X: 0.1, Y: 1.2})).To(Succeed())
		Expect(s.Displacement.Get()).To(BeNumerically("~", 0.3, 1e-12))
		Expect(s.Length.Get()).To(BeNumerically("~", 0.8, 1e-12))
	})

	It("keeps an attached mass still when the natural length changes", func() {
		m := newMass(0.5)
		s.AddMass(m)
		Expect(m.SetPosition(r2.Vec{X: 0.1, Y: 1.2})).To(Succeed())

		Expect(s.SetNaturalLength(0.6)).To(Succeed())
		Expect(m.Position.Get().Y).To(BeNumerically("~", 1.2, 1e-12))
		Expect(s.Displacement.Get()).To(BeNumerically("~", 0.2, 1e-12))
		Expect(s.Length.Get()).To(BeNumerically("~", 0.8, 1e-12))
	})

	It("moves an attached mass when stretched directly", func() {
		m := newMass(0.5)
		s.AddMass(m)
		Expect(s.SetDisplacement(0.25)).To(Succeed())
		Expect(m.Position.Get().Y).To(BeNumerically("~", 2.0-0.75, 1e-9))
	})

	It("relaxes when the mass is removed", func() {
		m := newMass(0.5)
		s.AddMass(m)
		Expect(m.SetPosition(r2.Vec{X: 0.1, Y: 1.2})).To(Succeed())
		s.RemoveMass()
		Expect(s.MassAttached.Get()).To(BeNil())
		Expect(m.Spring.Get()).To(BeNil())
		Expect(s.Displacement.Get()).To(Equal(0.0))

		Expect(m.SetPosition(r2.Vec{X: 0.1, Y: 0.4})).To(Succeed())
		Expect(s.Displacement.Get()).To(Equal(0.0))
	})

	It("moves a mass from one spring to another", func() {
		other := model.NewSpring(model.DefaultSpringOptions())
		m := newMass(0.5)
		s.AddMass(m)
		other.AddMass(m)
		Expect(s.MassAttached.Get()).To(BeNil())
		Expect(other.MassAttached.Get()).To(Equal(m))
		Expect(m.Spring.Get()).To(Equal(other))
	})

	It("restores construction values on reset and leaves the anchor alone", func() {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 50; i++ {
			Expect(s.SetNaturalLength(0.1 + rng.Float64())).To(Succeed())
			Expect(s.SetSpringConstant(1 + 20*rng.Float64())).To(Succeed())
			Expect(s.SetDampingCoefficient(rng.Float64())).To(Succeed())
			Expect(s.SetDisplacement(rng.Float64() * 0.1)).To(Succeed())
			s.AddMass(newMass(0.1 + rng.Float64()))

			s.Reset()

			Expect(s.NaturalRestingLength.Get()).To(Equal(model.DefaultNaturalLength))
			Expect(s.SpringConstant.Get()).To(Equal(model.DefaultConstant))
			Expect(s.DampingCoefficient.Get()).To(Equal(model.DefaultDamping))
			Expect(s.Displacement.Get()).To(Equal(0.0))
			Expect(s.MassAttached.Get()).To(BeNil())
			Expect(s.Position.Get()).To(Equal(r2.Vec{X: 0.1, Y: 2.0}))
		}
	})

	It("notifies three listeners strictly in subscription order", func() {
		rng := rand.New(rand.NewSource(99))
		for seq := 0; seq < 100; seq++ {
			var order []string
			ids := []string{"A", "B", "C"}
			for _, id := range ids {
				id := id
				s.Displacement.LazyLink(func(float64, float64) { order = append(order, id) })
			}
			for i := 0; i < 1+rng.Intn(10); i++ {
				Expect(s.SetDisplacement(rng.Float64()*0.2 + 0.001)).To(Succeed())
			}
			Expect(len(order) % 3).To(Equal(0))
			for i := 0; i < len(order); i += 3 {
				Expect(order[i : i+3]).To(Equal(ids))
			}
			s = model.NewSpring(model.DefaultSpringOptions())
		}
	})
})

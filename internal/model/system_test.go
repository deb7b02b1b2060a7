package model_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/springlab/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("SingleSpringSystem", func() {
	var sys *model.SingleSpringSystem

	BeforeEach(func() {
		opts := model.DefaultSpringOptions()
		opts.Position = r2.Vec{X: 0, Y: 1}
		sys = model.NewSingleSpringSystem(opts)
	})

	It("starts initialized", func() {
		Expect(sys.State()).To(Equal(model.SystemInitialized))
		Expect(sys.FixedEndpoint()).To(Equal(r2.Vec{X: 0, Y: 1}))
		Expect(sys.EquilibriumX.Get()).To(Equal(0.0))
	})

	It("applies Hooke's law", func() {
		Expect(sys.SetAppliedForce(2)).To(Succeed())
		Expect(sys.Spring.Displacement.Get()).To(BeNumerically("~", 0.2, 1e-12))
		Expect(sys.State()).To(Equal(model.SystemPerturbed))

		Expect(sys.Spring.SetSpringConstant(20)).To(Succeed())
		Expect(sys.Spring.Displacement.Get()).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("rejects a force that would collapse the spring", func() {
		Expect(sys.SetAppliedForce(-10)).NotTo(Succeed())
		Expect(sys.AppliedForce.Get()).To(Equal(0.0))
	})

	It("rejects a softer constant that would collapse the spring", func() {
		Expect(sys.SetAppliedForce(-4)).To(Succeed())
		Expect(sys.Spring.Displacement.Get()).To(BeNumerically("~", -0.4, 1e-12))

		err := sys.Spring.SetSpringConstant(5)
		Expect(errors.Is(err, model.ErrNonPositiveLength)).To(BeTrue())
		Expect(sys.Spring.SpringConstant.Get()).To(Equal(model.DefaultConstant))
		Expect(sys.Spring.Length.Get()).To(BeNumerically("~", 0.1, 1e-12))

		err = sys.Spring.SetNaturalLength(0.3)
		Expect(errors.Is(err, model.ErrNonPositiveLength)).To(BeTrue())
		Expect(sys.Spring.NaturalRestingLength.Get()).To(Equal(model.DefaultNaturalLength))
	})

	It("panics from TrySet on the fixed endpoint and equilibrium x", func() {
		Expect(func() { _ = sys.Spring.Position.TrySet(r2.Vec{X: 3, Y: 3}) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(func() { _ = sys.EquilibriumX.TrySet(0.3) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(sys.Spring.Position.Get()).To(Equal(r2.Vec{X: 0, Y: 1}))
		Expect(sys.EquilibriumX.Get()).To(Equal(0.0))
	})

	It("panics when the fixed endpoint moves and keeps every other value", func() {
		Expect(sys.SetAppliedForce(1)).To(Succeed())
		before := sys.Spring.Displacement.Get()

		Expect(func() { sys.SetFixedEndpoint(r2.Vec{X: 0.5, Y: 1}) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(func() { sys.Spring.Position.Set(r2.Vec{X: 0, Y: 2}) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))

		Expect(sys.Spring.Position.Get()).To(Equal(r2.Vec{X: 0, Y: 1}))
		Expect(sys.Spring.BottomPosition.Get().X).To(Equal(0.0))
		Expect(sys.Spring.Displacement.Get()).To(Equal(before))
		Expect(sys.AppliedForce.Get()).To(Equal(1.0))
	})

	It("panics when equilibrium x changes", func() {
		Expect(func() { sys.SetEquilibriumX(0.3) }).
			To(PanicWith(BeAssignableToTypeOf(&model.InvariantError{})))
		Expect(sys.EquilibriumX.Get()).To(Equal(0.0))
	})

	It("accepts the same endpoint", func() {
		Expect(func() { sys.SetFixedEndpoint(r2.Vec{X: 0, Y: 1}) }).NotTo(Panic())
	})

	It("returns to initialized on reset", func() {
		Expect(sys.SetAppliedForce(3)).To(Succeed())
		Expect(sys.Spring.SetNaturalLength(0.8)).To(Succeed())
		sys.Reset()
		Expect(sys.State()).To(Equal(model.SystemInitialized))
		Expect(sys.AppliedForce.Get()).To(Equal(0.0))
		Expect(sys.Spring.Displacement.Get()).To(Equal(0.0))
		Expect(sys.Spring.NaturalRestingLength.Get()).To(Equal(model.DefaultNaturalLength))
		Expect(sys.FixedEndpoint()).To(Equal(r2.Vec{X: 0, Y: 1}))
	})
})

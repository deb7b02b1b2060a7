package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"github.com/san-kum/springlab/internal/sim"
)

// Energy is the mean total energy of one mass, thermal included.
type Energy struct {
	name        string
	mass        *model.Mass
	samples     int
	totalEnergy float64
}

func NewEnergy(m *model.Mass) *Energy {
	return &Energy{
		name: "energy",
		mass: m,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(sc *scene.Scene, t float64) {
	e.totalEnergy += sc.Energy(e.mass).Total()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure of the scene's total
// energy from its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sc *scene.Scene, t float64) {
	energy := sim.TotalEnergy(sc)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

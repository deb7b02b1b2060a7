package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/springlab/internal/scene"
)

// State is a flat sample of a scene: each mass's height and vertical
// velocity, followed by each spring's displacement.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Capture samples sc in the order given by Columns.
func Capture(sc *scene.Scene) State {
	x := make(State, 0, 2*len(sc.Masses)+len(sc.Springs))
	for _, m := range sc.Masses {
		x = append(x, m.Position.Get().Y, m.Velocity.Get())
	}
	for _, sp := range sc.Springs {
		x = append(x, sp.Displacement.Get())
	}
	return x
}

func Columns(sc *scene.Scene) []string {
	cols := make([]string, 0, 2*len(sc.Masses)+len(sc.Springs))
	for i, m := range sc.Masses {
		name := m.Label
		if name == "" {
			name = fmt.Sprintf("mass%d", i)
		}
		cols = append(cols, name+".y", name+".vy")
	}
	for _, sp := range sc.Springs {
		cols = append(cols, sp.ID+".displacement")
	}
	return cols
}

type Metric interface {
	Name() string
	Observe(sc *scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sc *scene.Scene, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Columns     []string
	States      []State
	Times       []float64
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

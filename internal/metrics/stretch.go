package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/scene"
)

// MaxStretch is the largest absolute displacement seen on any spring.
type MaxStretch struct {
	name string
	max  float64
}

func NewMaxStretch() *MaxStretch {
	return &MaxStretch{name: "max_stretch"}
}

func (m *MaxStretch) Name() string { return m.name }

func (m *MaxStretch) Observe(sc *scene.Scene, t float64) {
	for _, sp := range sc.Springs {
		m.max = math.Max(m.max, math.Abs(sp.Displacement.Get()))
	}
}

func (m *MaxStretch) Value() float64 { return m.max }
func (m *MaxStretch) Reset()         { m.max = 0 }

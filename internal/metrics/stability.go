package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/scene"
)

// Stability is the fraction of samples at which every mass moves slower
// than threshold. A damped scene tends towards 1.
type Stability struct {
	name      string
	threshold float64
	moving    int
	samples   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sc *scene.Scene, t float64) {
	s.samples++
	for _, m := range sc.Masses {
		if math.Abs(m.Velocity.Get()) > s.threshold {
			s.moving++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.moving)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.moving = 0
	s.samples = 0
}

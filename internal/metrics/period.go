package metrics

import (
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
)

// Period measures a mass's oscillation period from the times it passes the
// bottom of its swing, where the vertical velocity turns from negative to
// positive.
type Period struct {
	name    string
	mass    *model.Mass
	lastVy  float64
	first   float64
	last    float64
	turns   int
	samples int
}

func NewPeriod(m *model.Mass) *Period {
	return &Period{name: "period", mass: m}
}

func (p *Period) Name() string { return p.name }

func (p *Period) Observe(sc *scene.Scene, t float64) {
	vy := p.mass.Velocity.Get()
	if p.samples > 0 && p.lastVy < 0 && vy >= 0 {
		if p.turns == 0 {
			p.first = t
		}
		p.last = t
		p.turns++
	}
	p.lastVy = vy
	p.samples++
}

// Value is the mean interval between turning points, or 0 before two have
// been seen.
func (p *Period) Value() float64 {
	if p.turns < 2 {
		return 0
	}
	return (p.last - p.first) / float64(p.turns-1)
}

func (p *Period) Reset() {
	p.lastVy = 0
	p.first = 0
	p.last = 0
	p.turns = 0
	p.samples = 0
}

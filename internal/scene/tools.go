package scene

import (
	"github.com/san-kum/springlab/internal/property"
	"gonum.org/v1/gonum/spatial/r2"
)

// Stopwatch measures simulated time, so it slows down with the sim speed.
type Stopwatch struct {
	Running *property.Property[bool]
	Elapsed *property.Property[float64]
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{
		Running: property.New(false),
		Elapsed: property.New(0.0),
	}
}

func (w *Stopwatch) Step(dt float64) {
	if w.Running.Get() {
		w.Elapsed.Set(w.Elapsed.Get() + dt)
	}
}

func (w *Stopwatch) Toggle() { w.Running.Set(!w.Running.Get()) }

func (w *Stopwatch) Reset() {
	w.Running.Reset()
	w.Elapsed.Reset()
}

// Ruler is a vertical measuring stick anchored at its top.
type Ruler struct {
	Position *property.Property[r2.Vec]
	Visible  *property.Property[bool]
	Length   float64
}

func NewRuler(p r2.Vec) *Ruler {
	return &Ruler{
		Position: property.New(p),
		Visible:  property.New(false),
		Length:   1.0,
	}
}

// Reading is the distance below the ruler's top, in metres, or false when y
// is off the ruler.
func (r *Ruler) Reading(y float64) (float64, bool) {
	d := r.Position.Get().Y - y
	if d < 0 || d > r.Length {
		return 0, false
	}
	return d, true
}

func (r *Ruler) Reset() {
	r.Position.Reset()
	r.Visible.Reset()
}

package viz

import (
	"math"

	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	coils       = 8
	coilWidth   = 0.03 // metres either side of the axis
	newtonScale = 0.04 // metres of arrow per newton
	rulerTick   = 0.1
)

// Renderer rasterises a scene onto a Braille canvas. It only reads the
// scene.
type Renderer struct {
	canvas *Canvas
}

func NewRenderer(w, h int) *Renderer {
	return &Renderer{canvas: NewCanvas(w, h)}
}

func (r *Renderer) Resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	r.canvas = NewCanvas(w, h)
}

func (r *Renderer) Size() (int, int) { return r.canvas.Width, r.canvas.Height }

// Transform maps the scene into canvas pixels.
func (r *Renderer) Transform(sc *scene.Scene) scene.Transform {
	w, h := r.canvas.PixelSize()
	return scene.FitTransform(sc.Bounds, sc.FloorY, float64(w-1), float64(h-1))
}

func (r *Renderer) Render(sc *scene.Scene) string {
	r.canvas.Clear()
	t := r.Transform(sc)

	r.drawFrame(sc, t)
	for _, sp := range sc.Springs {
		r.drawSpring(sp, t)
	}
	for _, m := range sc.Masses {
		r.drawMass(m, t)
	}
	if sc.Ruler.Visible.Get() {
		r.drawRuler(sc.Ruler, t)
	}

	switch sc.Kind {
	case model.ScreenVectors:
		for _, m := range sc.Masses {
			if m.Attached() {
				r.drawForces(sc, m, t)
			}
		}
	case model.ScreenEnergy, model.ScreenLab:
		for _, sp := range sc.Springs {
			if sp.MassAttached.Get() != nil {
				r.drawEquilibrium(sp, t)
			}
		}
	}

	return r.canvas.String()
}

func (r *Renderer) line(t scene.Transform, a, b r2.Vec) {
	pa, pb := t.ModelToView(a), t.ModelToView(b)
	r.canvas.DrawLine(px(pa.X), px(pa.Y), px(pb.X), px(pb.Y))
}

func (r *Renderer) drawFrame(sc *scene.Scene, t scene.Transform) {
	b := sc.Bounds
	r.line(t, r2.Vec{X: b.MinX, Y: sc.FloorY}, r2.Vec{X: b.MaxX, Y: sc.FloorY})
	if len(sc.Springs) == 0 {
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	top := math.Inf(-1)
	for _, sp := range sc.Springs {
		p := sp.Position.Get()
		lo, hi, top = math.Min(lo, p.X), math.Max(hi, p.X), math.Max(top, p.Y)
	}
	r.line(t, r2.Vec{X: lo - 0.1, Y: top}, r2.Vec{X: hi + 0.1, Y: top})
}

func (r *Renderer) drawSpring(sp *model.Spring, t scene.Transform) {
	top := t.ModelToView(sp.Position.Get())
	bottom := t.ModelToView(sp.BottomPosition.Get())
	amp := int(math.Max(1, coilWidth*t.Scale))
	r.canvas.Zigzag(px(top.X), px(top.Y), px(bottom.X), px(bottom.Y), coils, amp)
}

func (r *Renderer) drawMass(m *model.Mass, t scene.Transform) {
	p := m.Position.Get()
	bodyTop := p.Y - model.HookHeight
	r.line(t, p, r2.Vec{X: p.X, Y: bodyTop})

	rad := m.Radius.Get()
	a := t.ModelToView(r2.Vec{X: p.X - rad, Y: bodyTop})
	b := t.ModelToView(r2.Vec{X: p.X + rad, Y: bodyTop - m.CylinderHeight.Get()})
	r.canvas.FillRect(px(a.X), px(a.Y), px(b.X), px(b.Y))
}

func (r *Renderer) drawRuler(ru *scene.Ruler, t scene.Transform) {
	p := ru.Position.Get()
	r.line(t, p, r2.Vec{X: p.X, Y: p.Y - ru.Length})
	for d := 0.0; d <= ru.Length+1e-9; d += rulerTick {
		r.line(t, r2.Vec{X: p.X, Y: p.Y - d}, r2.Vec{X: p.X + 0.02, Y: p.Y - d})
	}
}

// drawForces draws vertical arrows from the centre of the mass body.
func (r *Renderer) drawForces(sc *scene.Scene, m *model.Mass, t scene.Transform) {
	g := sc.Gravity.Get()
	p := m.Position.Get()
	centre := r2.Vec{X: p.X, Y: p.Y - model.HookHeight - m.CylinderHeight.Get()/2}

	if sc.ForceMode.Get() == model.ForcesNet {
		r.arrow(t, centre, m.NetForce(g))
		return
	}

	sp := m.Spring.Get()
	left := r2.Add(centre, r2.Vec{X: -m.Radius.Get() - 0.02})
	right := r2.Add(centre, r2.Vec{X: m.Radius.Get() + 0.02})
	r.arrow(t, left, -m.Weight(g))
	r.arrow(t, right, -sp.SpringForce.Get())
}

// arrow draws a vertical force of f newtons, positive up.
func (r *Renderer) arrow(t scene.Transform, from r2.Vec, f float64) {
	if f == 0 {
		return
	}
	to := r2.Add(from, r2.Vec{Y: f * newtonScale})
	r.line(t, from, to)

	head := 0.02
	if f > 0 {
		head = -head
	}
	r.line(t, to, r2.Add(to, r2.Vec{X: -0.015, Y: head}))
	r.line(t, to, r2.Add(to, r2.Vec{X: 0.015, Y: head}))
}

func (r *Renderer) drawEquilibrium(sp *model.Spring, t scene.Transform) {
	x := sp.Position.Get().X
	y := sp.EquilibriumYPosition.Get()
	a := t.ModelToView(r2.Vec{X: x - 0.12, Y: y})
	b := t.ModelToView(r2.Vec{X: x + 0.12, Y: y})
	r.canvas.DashedLine(px(a.X), px(b.X), px(a.Y), 2)
}

func px(v float64) int { return int(math.Round(v)) }

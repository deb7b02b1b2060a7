package scene

import "gonum.org/v1/gonum/spatial/r2"

// Transform maps model metres (y up) to view units (y down).
type Transform struct {
	Scale  float64 // view units per metre
	Origin r2.Vec  // view position of the model origin
}

// FitTransform fits the model bounds and floor into a view of w by h units.
func FitTransform(b Bounds, floorY float64, w, h float64) Transform {
	sx := w / (b.MaxX - b.MinX)
	sy := h / (b.MaxY - floorY)
	scale := sx
	if sy < scale {
		scale = sy
	}
	return Transform{
		Scale:  scale,
		Origin: r2.Vec{X: -b.MinX * scale, Y: h + floorY*scale},
	}
}

func (t Transform) ModelToView(p r2.Vec) r2.Vec {
	return r2.Vec{X: t.Origin.X + p.X*t.Scale, Y: t.Origin.Y - p.Y*t.Scale}
}

func (t Transform) ViewToModel(p r2.Vec) r2.Vec {
	return r2.Vec{X: (p.X - t.Origin.X) / t.Scale, Y: (t.Origin.Y - p.Y) / t.Scale}
}

// ViewToModelDelta converts a drag delta; translation does not apply.
func (t Transform) ViewToModelDelta(d r2.Vec) r2.Vec {
	return r2.Vec{X: d.X / t.Scale, Y: -d.Y / t.Scale}
}

func (t Transform) ModelToViewDelta(d r2.Vec) r2.Vec {
	return r2.Scale(t.Scale, r2.Vec{X: d.X, Y: -d.Y})
}

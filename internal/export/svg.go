package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	background = "#0a0a0a"
	foreground = "#cccccc"
	coils      = 8
	coilWidth  = 0.03
)

var massFill = map[string]string{
	"red":   "#ff4444",
	"blue":  "#3399ff",
	"green": "#33cc33",
	"gray":  "#999999",
}

// SVGRenderer draws a scene as a standalone SVG document.
type SVGRenderer struct {
	Width, Height int
}

func NewSVGRenderer(w, h int) *SVGRenderer {
	return &SVGRenderer{Width: w, Height: h}
}

func (r *SVGRenderer) Render(sc *scene.Scene) string {
	t := scene.FitTransform(sc.Bounds, sc.FloorY, float64(r.Width), float64(r.Height))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, r.Width, r.Height, r.Width, r.Height, background))

	a := t.ModelToView(r2.Vec{X: sc.Bounds.MinX, Y: sc.FloorY})
	b := t.ModelToView(r2.Vec{X: sc.Bounds.MaxX, Y: sc.FloorY})
	line(&sb, a, b, foreground, 2)

	for _, sp := range sc.Springs {
		springPath(&sb, sp, t)
	}
	for _, m := range sc.Masses {
		massRect(&sb, m, t)
	}

	if sc.Kind == model.ScreenEnergy || sc.Kind == model.ScreenLab {
		for _, sp := range sc.Springs {
			if sp.MassAttached.Get() == nil {
				continue
			}
			x, y := sp.Position.Get().X, sp.EquilibriumYPosition.Get()
			a := t.ModelToView(r2.Vec{X: x - 0.12, Y: y})
			b := t.ModelToView(r2.Vec{X: x + 0.12, Y: y})
			sb.WriteString(fmt.Sprintf(`<line class="equilibrium" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ffcc00" stroke-dasharray="4 4"/>
`, a.X, a.Y, b.X, b.Y))
		}
	}

	if ru := sc.Ruler; ru.Visible.Get() {
		p := ru.Position.Get()
		line(&sb, t.ModelToView(p), t.ModelToView(r2.Vec{X: p.X, Y: p.Y - ru.Length}), "#ffcc00", 3)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func line(sb *strings.Builder, a, b r2.Vec, stroke string, width float64) {
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, a.X, a.Y, b.X, b.Y, stroke, width))
}

func springPath(sb *strings.Builder, sp *model.Spring, t scene.Transform) {
	top := sp.Position.Get()
	bottom := sp.BottomPosition.Get()
	segments := coils * 2

	sb.WriteString(fmt.Sprintf(`<polyline class="spring" id="%s" fill="none" stroke="%s" stroke-width="1.5" points="`, sp.ID, foreground))
	for i := 0; i <= segments; i++ {
		p := r2.Add(top, r2.Scale(float64(i)/float64(segments), r2.Sub(bottom, top)))
		if i > 0 && i < segments {
			side := coilWidth
			if i%2 == 0 {
				side = -side
			}
			p.X += side
		}
		v := t.ModelToView(p)
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", v.X, v.Y))
	}
	sb.WriteString("\"/>\n")
}

func massRect(sb *strings.Builder, m *model.Mass, t scene.Transform) {
	p := m.Position.Get()
	bodyTop := p.Y - model.HookHeight
	line(sb, t.ModelToView(p), t.ModelToView(r2.Vec{X: p.X, Y: bodyTop}), foreground, 1)

	rad := m.Radius.Get()
	corner := t.ModelToView(r2.Vec{X: p.X - rad, Y: bodyTop})
	size := t.ModelToViewDelta(r2.Vec{X: 2 * rad, Y: -m.CylinderHeight.Get()})

	fill, ok := massFill[m.Color.Get()]
	if !ok {
		fill = foreground
	}
	sb.WriteString(fmt.Sprintf(`<rect class="mass" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%s</title></rect>
`, corner.X, corner.Y, math.Abs(size.X), math.Abs(size.Y), fill, m.Label))
}

type Point struct{ X, Y float64 }

// TrajectoryToSVG creates an SVG line plot of points, padded by a tenth of
// their range.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// Series pairs sample times with one recorded column.
func Series(times, values []float64) []Point {
	n := min(len(times), len(values))
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{X: times[i], Y: values[i]}
	}
	return pts
}

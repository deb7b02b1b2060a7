package export

import (
	"strings"
	"testing"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/scene"
)

func TestSVGRendererDrawsEveryObject(t *testing.T) {
	sc, err := scene.Build(config.GetPreset("energy", "default"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	sc.Ruler.Visible.Set(true)

	svg := NewSVGRenderer(400, 500).Render(sc)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("expected a complete svg document, got %q", svg)
	}
	if n := strings.Count(svg, `class="spring"`); n != len(sc.Springs) {
		t.Errorf("expected %d springs, got %d", len(sc.Springs), n)
	}
	if n := strings.Count(svg, `class="mass"`); n != len(sc.Masses) {
		t.Errorf("expected %d masses, got %d", len(sc.Masses), n)
	}
	if !strings.Contains(svg, `class="equilibrium"`) {
		t.Error("expected an equilibrium marker on the energy screen")
	}
	if !strings.Contains(svg, "#3399ff") {
		t.Error("expected the blue mass fill")
	}
	if !strings.Contains(svg, "<title>adjustable</title>") {
		t.Error("expected the mass label")
	}
}

func TestSVGRendererIsAScreenView(t *testing.T) {
	sc, err := scene.Build(config.GetPreset("intro", "default"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	screen := scene.NewScreen(sc, NewSVGRenderer(200, 200))
	if strings.Contains(screen.Frame(), "equilibrium") {
		t.Error("intro screen should not mark equilibrium")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]Point{{0, 0}}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}

	pts := Series([]float64{0, 1, 2}, []float64{1, 0, 1, 5})
	if len(pts) != 3 {
		t.Fatalf("expected series trimmed to 3 points, got %d", len(pts))
	}

	svg := TrajectoryToSVG(pts, 100, 50, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("expected stroke color")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(svg, " L"))
	}
}

package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
)

const hangScenario = `
name: hang and bounce
description: drag the heaviest mass onto the first spring and let it go
screen: intro
preset: default
actions:
  - do: grab
    mass: 250g
  - do: drag_to
    mass: 250g
    x: 0.65
    y: 1.6
  - do: release
    mass: 250g
  - do: wait
    duration: 1
  - do: body
    name: moon
  - do: wait
    duration: 0.5
`

func TestParseScenarioDefaults(t *testing.T) {
	scn, err := ParseScenario([]byte("name: empty\n"))
	if err != nil {
		t.Fatal(err)
	}
	if scn.Screen != "intro" || scn.Preset != "default" {
		t.Errorf("expected intro/default, got %s/%s", scn.Screen, scn.Preset)
	}
	if scn.Dt != scene.FrameDt {
		t.Errorf("expected frame dt, got %f", scn.Dt)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(hangScenario), 0644); err != nil {
		t.Fatal(err)
	}
	scn, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if scn.Name != "hang and bounce" || len(scn.Actions) != 6 {
		t.Errorf("unexpected scenario: %+v", scn)
	}
	if scn.Actions[1].X != 0.65 || scn.Actions[1].Y != 1.6 {
		t.Errorf("unexpected drag target: %+v", scn.Actions[1])
	}
}

func TestRunScenario(t *testing.T) {
	scn, err := ParseScenario([]byte(hangScenario))
	if err != nil {
		t.Fatal(err)
	}

	sc, res, err := RunScenario(context.Background(), scn, logging.Discard())
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}

	m := sc.Masses[0]
	if m.Spring.Get() != sc.Springs[0] {
		t.Fatal("expected 250g to hang from spring1")
	}
	if sc.Body.Get() != model.BodyMoon || sc.Gravity.Get() != 1.62 {
		t.Errorf("expected moon gravity, got %s %f", sc.Body.Get(), sc.Gravity.Get())
	}
	if len(res.States) != 91 || len(res.Times) != 91 {
		t.Errorf("expected 91 samples, got %d states and %d times", len(res.States), len(res.Times))
	}
	if res.StepsTaken != 90 {
		t.Errorf("expected 90 steps, got %d", res.StepsTaken)
	}
	if last := res.Times[len(res.Times)-1]; math.Abs(last-1.5) > 1e-9 {
		t.Errorf("expected final time 1.5, got %f", last)
	}
}

func TestRunPauseAndStep(t *testing.T) {
	sc, err := scene.Build(config.GetPreset("intro", "hanging"), logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(sc, logging.Discard())

	scn := &Scenario{Dt: scene.FrameDt, Actions: []Action{
		{Do: "pause"},
		{Do: "wait", Duration: 0.5},
		{Do: "step"},
	}}
	start := sc.Masses[0].Position.Get()
	res, err := r.Run(context.Background(), scn)
	if err != nil {
		t.Fatal(err)
	}

	if res.States[len(res.States)-1][0] != start.Y {
		t.Error("expected paused wait to leave the mass still")
	}
	if sc.Masses[0].Position.Get() == start {
		t.Error("expected step to advance one frame")
	}
	if math.Abs(sc.Time.Get()-scene.FrameDt) > 1e-12 {
		t.Errorf("expected time %f, got %f", scene.FrameDt, sc.Time.Get())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		target error
	}{
		{"unknown action", Action{Do: "fly"}, ErrUnknownAction},
		{"unknown mass", Action{Do: "grab", Mass: "ghost"}, scene.ErrUnknownMass},
		{"unknown spring", Action{Do: "constant", Spring: "nope", Value: 5}, scene.ErrSpringIndex},
		{"drag without grab", Action{Do: "drag", Mass: "250g", X: 0.1}, scene.ErrNotHeld},
		{"locked length", Action{Do: "length", Spring: "spring1", Value: 0.3}, scene.ErrLengthLocked},
		{"bad constant", Action{Do: "constant", Spring: "spring1", Value: -1}, model.ErrNonPositiveConstant},
		{"bad gravity", Action{Do: "gravity", Value: -1}, model.ErrNegativeGravity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := scene.Build(config.GetPreset("intro", "default"), logging.Discard())
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewRunner(sc, logging.Discard()).Run(context.Background(), &Scenario{
				Dt:      scene.FrameDt,
				Actions: []Action{tt.action},
			})
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Config:   config.GetPreset("intro", "hanging"),
		Param:    "constant",
		Min:      5,
		Max:      20,
		NumSteps: 4,
		Duration: 5,
		Dt:       scene.FrameDt,
	}

	results, err := RunSweep(context.Background(), sweep, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	for i, r := range results {
		want := 2 * math.Pi * math.Sqrt(0.25/r.ParamValue)
		if math.Abs(r.Period-want) > 0.03 {
			t.Errorf("k=%.1f: expected period %.3f, got %.3f", r.ParamValue, want, r.Period)
		}
		if i > 0 && r.Period >= results[i-1].Period {
			t.Errorf("expected period to fall as the spring stiffens")
		}
	}
}

func TestRunSweepValidation(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{NumSteps: 1}, logging.Discard()); err == nil {
		t.Error("expected error for a single-step sweep")
	}

	sweep := &ParameterSweep{
		Config:   config.GetPreset("intro", "default"),
		Param:    "constant",
		Min:      5,
		Max:      10,
		NumSteps: 2,
		Duration: 1,
		Dt:       scene.FrameDt,
	}
	if _, err := RunSweep(context.Background(), sweep, logging.Discard()); err == nil {
		t.Error("expected error when no mass hangs")
	}
}

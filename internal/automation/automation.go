package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"github.com/san-kum/springlab/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownAction = errors.New("unknown action")

// Scenario is a scripted sequence of user actions against one preset.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Screen      string   `yaml:"screen"`
	Preset      string   `yaml:"preset"`
	Dt          float64  `yaml:"dt"`
	Actions     []Action `yaml:"actions"`
}

// Action is one scripted input. Do selects the action; the other fields
// are read as that action needs them.
//
//	grab, release          mass
//	drag                   mass, x, y (relative)
//	drag_to                mass, x, y
//	hang                   mass, spring, value (pull)
//	wait                   duration
//	step                   (one frame while paused)
//	play, pause, reset
//	constant, length, damping   spring, value
//	gravity                value
//	body, speed            name
type Action struct {
	Do       string  `yaml:"do"`
	Mass     string  `yaml:"mass"`
	Spring   string  `yaml:"spring"`
	Name     string  `yaml:"name"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Value    float64 `yaml:"value"`
	Duration float64 `yaml:"duration"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Screen == "" {
		scenario.Screen = config.DefaultScreen
	}
	if scenario.Preset == "" {
		scenario.Preset = "default"
	}
	if scenario.Dt == 0 {
		scenario.Dt = scene.FrameDt
	}
	return &scenario, nil
}

// Runner plays a scenario against a scene and records every wait.
type Runner struct {
	scene  *scene.Scene
	sim    *sim.Simulator
	logger *slog.Logger
}

func NewRunner(sc *scene.Scene, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{scene: sc, sim: sim.New(sc, logger), logger: logger}
}

func (r *Runner) Simulator() *sim.Simulator { return r.sim }

// Run executes the actions in order. Samples from each wait are appended
// to one result.
func (r *Runner) Run(ctx context.Context, scn *Scenario) (*sim.Result, error) {
	out := &sim.Result{
		Columns: sim.Columns(r.scene),
		Metrics: make(map[string]float64),
	}

	for i, a := range scn.Actions {
		r.logger.Debug("scenario action", "index", i, "do", a.Do, "mass", a.Mass, "spring", a.Spring)

		if a.Do == "wait" {
			res, err := r.sim.Run(ctx, sim.Config{Dt: scn.Dt, Duration: a.Duration})
			if err != nil {
				return out, fmt.Errorf("action %d (wait): %w", i+1, err)
			}
			appendResult(out, res)
			continue
		}

		if err := r.apply(a); err != nil {
			return out, fmt.Errorf("action %d (%s): %w", i+1, a.Do, err)
		}
	}

	return out, nil
}

func (r *Runner) apply(a Action) error {
	sc := r.scene
	switch a.Do {
	case "grab":
		m, err := r.mass(a.Mass)
		if err != nil {
			return err
		}
		return sc.Grab(m)
	case "drag":
		m, err := r.mass(a.Mass)
		if err != nil {
			return err
		}
		return sc.DragBy(m, r2.Vec{X: a.X, Y: a.Y})
	case "drag_to":
		m, err := r.mass(a.Mass)
		if err != nil {
			return err
		}
		return sc.DragTo(m, r2.Vec{X: a.X, Y: a.Y})
	case "release":
		m, err := r.mass(a.Mass)
		if err != nil {
			return err
		}
		sp, err := sc.Release(m)
		if err == nil && sp != nil {
			r.logger.Debug("mass attached", "mass", m.Label, "spring", sp.ID)
		}
		return err
	case "hang":
		m, err := r.mass(a.Mass)
		if err != nil {
			return err
		}
		sp, err := r.spring(a.Spring)
		if err != nil {
			return err
		}
		return sc.Hang(m, sp, a.Value)
	case "step":
		sc.StepForward()
	case "play":
		sc.Playing.Set(true)
	case "pause":
		sc.Playing.Set(false)
	case "reset":
		sc.Reset()
	case "constant":
		i, err := r.springIndex(a.Spring)
		if err != nil {
			return err
		}
		return sc.SetSpringConstant(i, a.Value)
	case "length":
		i, err := r.springIndex(a.Spring)
		if err != nil {
			return err
		}
		return sc.SetNaturalLength(i, a.Value)
	case "damping":
		i, err := r.springIndex(a.Spring)
		if err != nil {
			return err
		}
		return sc.SetDamping(i, a.Value)
	case "gravity":
		return sc.SetGravity(a.Value)
	case "body":
		b, err := model.ParseBody(a.Name)
		if err != nil {
			return err
		}
		sc.SelectBody(b)
	case "speed":
		s, err := model.ParseSimSpeed(a.Name)
		if err != nil {
			return err
		}
		sc.Speed.Set(s)
	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, a.Do)
	}
	return nil
}

func (r *Runner) mass(label string) (*model.Mass, error) {
	for _, m := range r.scene.Masses {
		if m.Label == label {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrUnknownMass, label)
}

func (r *Runner) spring(id string) (*model.Spring, error) {
	if sp := r.scene.SpringByID(id); sp != nil {
		return sp, nil
	}
	return nil, fmt.Errorf("%w: %q", scene.ErrSpringIndex, id)
}

func (r *Runner) springIndex(id string) (int, error) {
	for i, sp := range r.scene.Springs {
		if sp.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", scene.ErrSpringIndex, id)
}

func appendResult(dst, src *sim.Result) {
	start := 0
	// each run re-records the state it starts from
	if len(dst.Times) > 0 && len(src.Times) > 0 && dst.Times[len(dst.Times)-1] == src.Times[0] {
		start = 1
	}
	dst.States = append(dst.States, src.States[start:]...)
	dst.Times = append(dst.Times, src.Times[start:]...)
	dst.StepsTaken += src.StepsTaken
	dst.Errors = append(dst.Errors, src.Errors...)
}

// RunScenario builds the scenario's preset and plays it.
func RunScenario(ctx context.Context, scn *Scenario, logger *slog.Logger) (*scene.Scene, *sim.Result, error) {
	cfg := config.GetPreset(scn.Screen, scn.Preset)
	if cfg == nil {
		return nil, nil, fmt.Errorf("unknown preset %s/%s", scn.Screen, scn.Preset)
	}
	sc, err := scene.Build(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	res, err := NewRunner(sc, logger).Run(ctx, scn)
	return sc, res, err
}

// ParameterSweep varies one parameter of the first hung mass's spring
// system across a range and measures the resulting oscillation.
type ParameterSweep struct {
	Config   *config.Config
	Param    string // constant, mass, damping or gravity
	Min      float64
	Max      float64
	NumSteps int
	Duration float64
	Dt       float64
}

type SweepResult struct {
	ParamValue float64
	Period     float64
	MaxStretch float64
	Stability  float64
}

// RunSweep runs every sweep point concurrently on its own scene.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	sims := make([]*sim.Simulator, 0, sweep.NumSteps)
	values := make([]float64, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep
		sc, err := scene.Build(sweep.Config, logger)
		if err != nil {
			return nil, err
		}
		m, sp := firstHung(sc)
		if m == nil {
			return nil, errors.New("sweep needs a mass hanging from a spring")
		}
		if err := applyParam(sc, m, sp, sweep.Param, paramVal); err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, paramVal, err)
		}

		s := sim.New(sc, logger)
		s.AddMetric(metrics.NewPeriod(m))
		s.AddMetric(metrics.NewMaxStretch())
		s.AddMetric(metrics.NewStability(1e-3))
		sims = append(sims, s)
		values = append(values, paramVal)
	}

	runs, err := sim.RunAll(ctx, sims, sim.Config{Dt: sweep.Dt, Duration: sweep.Duration})
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			ParamValue: values[i],
			Period:     r.Metrics["period"],
			MaxStretch: r.Metrics["max_stretch"],
			Stability:  r.Metrics["stability"],
		}
		logger.Debug("sweep point", "param", sweep.Param, "value", values[i], "period", results[i].Period)
	}

	return results, nil
}

func firstHung(sc *scene.Scene) (*model.Mass, *model.Spring) {
	for _, m := range sc.Masses {
		if sp := m.Spring.Get(); sp != nil {
			return m, sp
		}
	}
	return nil, nil
}

func applyParam(sc *scene.Scene, m *model.Mass, sp *model.Spring, param string, v float64) error {
	switch param {
	case "constant":
		return sp.SetSpringConstant(v)
	case "mass":
		return m.SetMass(v)
	case "damping":
		return sp.SetDampingCoefficient(v)
	case "gravity":
		return sc.SetGravity(v)
	default:
		return fmt.Errorf("unknown sweep parameter %q", param)
	}
}

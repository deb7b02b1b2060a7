package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/scene"
)

// Simulator drives a scene headlessly at a fixed step and records a sample
// after every step.
type Simulator struct {
	scene     *scene.Scene
	logger    *slog.Logger
	metrics   []Metric
	observers []Observer
}

func New(sc *scene.Scene, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Simulator{
		scene:     sc,
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) Scene() *scene.Scene { return s.scene }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the scene for cfg.Duration of wall time. Sample times are taken
// from the scene, so a slow sim speed covers a quarter of the model time and
// a paused scene records a still frame.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Columns: Columns(s.scene),
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := Capture(s.scene)
	result.States = append(result.States, x)
	result.Times = append(result.Times, s.scene.Time.Get())

	initialEnergy := TotalEnergy(s.scene)
	s.logger.Debug("run started", "steps", steps, "dt", cfg.Dt, "energy", initialEnergy)

	aborted := false
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := s.scene.Time.Get()
		s.observe(t)

		s.scene.Step(cfg.Dt)
		x = Capture(s.scene)
		if !x.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.logger.Warn("run aborted", "err", err)
			aborted = true
			break
		}

		result.StepsTaken++
		result.States = append(result.States, x)
		result.Times = append(result.Times, s.scene.Time.Get())
	}

	// the last recorded sample has not been observed yet
	if !aborted {
		s.observe(s.scene.Time.Get())
	}

	finalEnergy := TotalEnergy(s.scene)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.logger.Debug("run finished", "steps", result.StepsTaken, "drift", result.EnergyDrift)

	return result, nil
}

func (s *Simulator) observe(t float64) {
	for _, m := range s.metrics {
		m.Observe(s.scene, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(s.scene, t)
	}
}

// RunWithCallback steps until the duration is covered or callback returns
// false. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*scene.Scene, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.scene, s.scene.Time.Get()) {
			return nil
		}
		s.scene.Step(cfg.Dt)
	}

	return nil
}

// TotalEnergy sums every mass's mechanical and thermal energy.
func TotalEnergy(sc *scene.Scene) float64 {
	total := 0.0
	for _, m := range sc.Masses {
		total += sc.Energy(m).Total()
	}
	return total
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Dt > scene.MaxDt {
		return fmt.Errorf("dt must not exceed %g, got %f", scene.MaxDt, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

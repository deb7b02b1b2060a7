package scene

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// Build constructs a scene from a validated config. With cfg.Debug set,
// spring constant and length changes are logged at debug level.
func Build(cfg *config.Config, logger *slog.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	kind, err := model.ParseScreen(cfg.Screen)
	if err != nil {
		return nil, err
	}
	body, err := model.ParseBody(cfg.Body)
	if err != nil {
		return nil, err
	}
	speed, err := model.ParseSimSpeed(cfg.Speed)
	if err != nil {
		return nil, err
	}
	sceneMode, err := model.ParseSceneMode(cfg.SceneMode)
	if err != nil {
		return nil, err
	}
	constantMode, err := model.ParseConstantMode(cfg.ConstantMode)
	if err != nil {
		return nil, err
	}
	forceMode, err := model.ParseForceMode(cfg.ForceMode)
	if err != nil {
		return nil, err
	}

	s := New(Options{
		Kind:         kind,
		Body:         body,
		Gravity:      cfg.Gravity,
		Speed:        speed,
		SceneMode:    sceneMode,
		ConstantMode: constantMode,
		ForceMode:    forceMode,
		FloorY:       cfg.FloorY,
		Logger:       logger,
	})

	for _, sc := range cfg.Springs {
		sp := model.NewSpring(model.SpringOptions{
			ID:            sc.ID,
			Position:      r2.Vec{X: sc.X, Y: sc.Y},
			NaturalLength: sc.NaturalLength,
			Constant:      sc.Constant,
			Damping:       sc.Damping,
			Gravity:       s.Gravity.Get(),
		})
		s.AddSpring(sp)
		if cfg.Debug {
			traceSpring(logger, sp)
		}
	}

	for i, mc := range cfg.Masses {
		y := mc.Y
		if y <= cfg.FloorY {
			y = cfg.FloorY + model.RestingHeight(mc.Mass, 0)
		}
		m, err := model.NewMass(model.MassOptions{
			Label:      mc.Label,
			Mass:       mc.Mass,
			Color:      mc.Color,
			Position:   r2.Vec{X: mc.X, Y: y},
			Adjustable: mc.Adjustable,
		})
		if err != nil {
			return nil, fmt.Errorf("mass %d (%s): %w", i, mc.Label, err)
		}
		s.AddMass(m)

		if mc.AttachTo == "" {
			continue
		}
		if err := s.Hang(m, s.SpringByID(mc.AttachTo), mc.Pull); err != nil {
			return nil, fmt.Errorf("mass %d (%s): %w", i, mc.Label, err)
		}
	}

	logger.Debug("scene built", "screen", kind, "body", body, "springs", len(s.Springs), "masses", len(s.Masses))
	return s, nil
}

func traceSpring(logger *slog.Logger, sp *model.Spring) {
	sp.SpringConstant.Link(func(k, _ float64) {
		logger.Debug("spring constant", "spring", sp.ID, "k", k)
	})
	sp.Length.Link(func(l, _ float64) {
		logger.Debug("spring length", "spring", sp.ID, "length", l)
	})
}

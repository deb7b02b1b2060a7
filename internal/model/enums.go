package model

import "fmt"

// Body is a gravity source. The set is closed.
type Body uint8

const (
	BodyMoon Body = iota
	BodyEarth
	BodyJupiter
	BodyPlanetX
	BodyZeroGravity
	BodyCustom
)

var bodyInfo = [...]struct {
	name    string
	gravity float64
}{
	BodyMoon:        {"moon", 1.62},
	BodyEarth:       {"earth", 9.8},
	BodyJupiter:     {"jupiter", 24.79},
	BodyPlanetX:     {"planet_x", 14.2},
	BodyZeroGravity: {"zero_gravity", 0},
	BodyCustom:      {"custom", 0},
}

// Bodies lists every body in display order.
func Bodies() []Body {
	return []Body{BodyMoon, BodyEarth, BodyJupiter, BodyPlanetX, BodyZeroGravity, BodyCustom}
}

func (b Body) Name() string {
	if int(b) >= len(bodyInfo) {
		return fmt.Sprintf("body(%d)", uint8(b))
	}
	return bodyInfo[b].name
}

func (b Body) String() string { return b.Name() }

// Gravity returns the preset acceleration. Custom has none.
func (b Body) Gravity() (float64, bool) {
	if b == BodyCustom || int(b) >= len(bodyInfo) {
		return 0, false
	}
	return bodyInfo[b].gravity, true
}

// ParseBody accepts names as printed by Name.
func ParseBody(s string) (Body, error) {
	for _, b := range Bodies() {
		if b.Name() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown body: %s", s)
}

// SceneMode selects whether springs share a natural length.
type SceneMode uint8

const (
	SceneSameLength SceneMode = iota
	SceneAdjustableLength
)

func SceneModes() []SceneMode { return []SceneMode{SceneSameLength, SceneAdjustableLength} }

func (m SceneMode) String() string {
	switch m {
	case SceneSameLength:
		return "same_length"
	case SceneAdjustableLength:
		return "adjustable_length"
	}
	return fmt.Sprintf("scene_mode(%d)", uint8(m))
}

func ParseSceneMode(s string) (SceneMode, error) {
	for _, m := range SceneModes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown scene mode: %s", s)
}

// ConstantMode selects whether the lab springs share a spring constant.
type ConstantMode uint8

const (
	ConstantSame ConstantMode = iota
	ConstantDifferent
)

func ConstantModes() []ConstantMode { return []ConstantMode{ConstantSame, ConstantDifferent} }

func (m ConstantMode) String() string {
	switch m {
	case ConstantSame:
		return "same"
	case ConstantDifferent:
		return "different"
	}
	return fmt.Sprintf("constant_mode(%d)", uint8(m))
}

func ParseConstantMode(s string) (ConstantMode, error) {
	for _, m := range ConstantModes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown constant mode: %s", s)
}

// ForceMode selects how force vectors are displayed.
type ForceMode uint8

const (
	ForcesIndividual ForceMode = iota
	ForcesNet
)

func ForceModes() []ForceMode { return []ForceMode{ForcesIndividual, ForcesNet} }

func (m ForceMode) String() string {
	switch m {
	case ForcesIndividual:
		return "forces"
	case ForcesNet:
		return "net"
	}
	return fmt.Sprintf("force_mode(%d)", uint8(m))
}

func ParseForceMode(s string) (ForceMode, error) {
	for _, m := range ForceModes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown force mode: %s", s)
}

// SimSpeed scales the host loop's time step.
type SimSpeed uint8

const (
	SpeedNormal SimSpeed = iota
	SpeedSlow
)

func SimSpeeds() []SimSpeed { return []SimSpeed{SpeedNormal, SpeedSlow} }

func (s SimSpeed) String() string {
	switch s {
	case SpeedNormal:
		return "normal"
	case SpeedSlow:
		return "slow"
	}
	return fmt.Sprintf("speed(%d)", uint8(s))
}

func (s SimSpeed) Factor() float64 {
	if s == SpeedSlow {
		return 0.25
	}
	return 1
}

func ParseSimSpeed(s string) (SimSpeed, error) {
	for _, v := range SimSpeeds() {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown sim speed: %s", s)
}

// Screen identifies a simulation variant.
type Screen uint8

const (
	ScreenIntro Screen = iota
	ScreenVectors
	ScreenEnergy
	ScreenLab
)

func Screens() []Screen { return []Screen{ScreenIntro, ScreenVectors, ScreenEnergy, ScreenLab} }

func (s Screen) String() string {
	switch s {
	case ScreenIntro:
		return "intro"
	case ScreenVectors:
		return "vectors"
	case ScreenEnergy:
		return "energy"
	case ScreenLab:
		return "lab"
	}
	return fmt.Sprintf("screen(%d)", uint8(s))
}

func ParseScreen(s string) (Screen, error) {
	for _, v := range Screens() {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown screen: %s", s)
}

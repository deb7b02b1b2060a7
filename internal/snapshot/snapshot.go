// Package snapshot encodes model objects into the read-only state schemas
// consumed by recording and instrumentation tools. There is no decode path.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrUnsupportedType = errors.New("snapshot: unsupported type")
	ErrInvalidValue    = errors.New("snapshot: invalid value")
)

// ValueError identifies the offending field and value.
type ValueError struct {
	Field string
	Value any
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v: %s=%v", e.Err, e.Field, e.Value)
}

func (e *ValueError) Unwrap() error { return e.Err }

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Mass struct {
	Mass  float64 `json:"mass"`
	Color string  `json:"color"`
}

type Spring struct {
	Position Vector `json:"position"`
	ID       string `json:"id"`
}

type Scene struct {
	Screen  string   `json:"screen"`
	Body    string   `json:"body"`
	Gravity float64  `json:"gravity"`
	Time    float64  `json:"time"`
	Springs []Spring `json:"springs"`
	Masses  []Mass   `json:"masses"`
}

func EncodeMass(m *model.Mass) (Mass, error) {
	if m == nil {
		return Mass{}, &ValueError{Field: "mass", Value: nil, Err: ErrInvalidValue}
	}
	v := m.Mass.Get()
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Mass{}, &ValueError{Field: "mass", Value: v, Err: ErrInvalidValue}
	}
	c := m.Color.Get()
	if c == "" {
		return Mass{}, &ValueError{Field: "color", Value: c, Err: ErrInvalidValue}
	}
	return Mass{Mass: v, Color: c}, nil
}

func EncodeSpring(s *model.Spring) (Spring, error) {
	if s == nil {
		return Spring{}, &ValueError{Field: "spring", Value: nil, Err: ErrInvalidValue}
	}
	if s.ID == "" {
		return Spring{}, &ValueError{Field: "id", Value: s.ID, Err: ErrInvalidValue}
	}
	p, err := encodeVector("position", s.Position.Get())
	if err != nil {
		return Spring{}, err
	}
	return Spring{Position: p, ID: s.ID}, nil
}

func EncodeScene(s *scene.Scene) (Scene, error) {
	if s == nil {
		return Scene{}, &ValueError{Field: "scene", Value: nil, Err: ErrInvalidValue}
	}
	out := Scene{
		Screen:  s.Kind.String(),
		Body:    s.Body.Get().Name(),
		Gravity: s.Gravity.Get(),
		Time:    s.Time.Get(),
		Springs: make([]Spring, 0, len(s.Springs)),
		Masses:  make([]Mass, 0, len(s.Masses)),
	}
	for _, sp := range s.Springs {
		enc, err := EncodeSpring(sp)
		if err != nil {
			return Scene{}, err
		}
		out.Springs = append(out.Springs, enc)
	}
	for _, m := range s.Masses {
		enc, err := EncodeMass(m)
		if err != nil {
			return Scene{}, err
		}
		out.Masses = append(out.Masses, enc)
	}
	return out, nil
}

// Encode dispatches on the value's kind. Anything that is not a mass, spring
// or scene is rejected with ErrUnsupportedType.
func Encode(v any) (any, error) {
	switch x := v.(type) {
	case *model.Mass:
		return EncodeMass(x)
	case *model.Spring:
		return EncodeSpring(x)
	case *scene.Scene:
		return EncodeScene(x)
	default:
		return nil, &ValueError{Field: "value", Value: fmt.Sprintf("%T", v), Err: ErrUnsupportedType}
	}
}

// Marshal is Encode followed by JSON encoding.
func Marshal(v any) ([]byte, error) {
	enc, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

func encodeVector(field string, p r2.Vec) (Vector, error) {
	for _, c := range []float64{p.X, p.Y} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Vector{}, &ValueError{Field: field, Value: p, Err: ErrInvalidValue}
		}
	}
	return Vector{X: p.X, Y: p.Y}, nil
}

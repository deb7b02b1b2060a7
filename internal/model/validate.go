package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func finite(name string) func(float64) error {
	return func(v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &rangeError{name: name, value: v, err: ErrNotFinite}
		}
		return nil
	}
}

func positive(name string, sentinel error) func(float64) error {
	return func(v float64) error {
		if err := finite(name)(v); err != nil {
			return err
		}
		if v <= 0 {
			return &rangeError{name: name, value: v, err: sentinel}
		}
		return nil
	}
}

func nonNegative(name string, sentinel error) func(float64) error {
	return func(v float64) error {
		if err := finite(name)(v); err != nil {
			return err
		}
		if v < 0 {
			return &rangeError{name: name, value: v, err: sentinel}
		}
		return nil
	}
}

func finiteVec(name string) func(r2.Vec) error {
	return func(v r2.Vec) error {
		if err := finite(name + ".x")(v.X); err != nil {
			return err
		}
		return finite(name + ".y")(v.Y)
	}
}

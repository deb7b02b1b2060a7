package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

var (
	ErrTooShort = errors.New("series too short for a spectrum")
	ErrNoSignal = errors.New("series has no oscillation")
)

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled series.
type Spectrum struct {
	Freqs      []float64
	Amplitudes []float64
}

// PowerSpectrum removes the mean of data and transforms it. Freqs are in Hz
// for a sample spacing of dt seconds.
func PowerSpectrum(data []float64, dt float64) (*Spectrum, error) {
	n := len(data)
	if n < 4 {
		return nil, ErrTooShort
	}
	if dt <= 0 {
		return nil, errors.New("dt must be positive")
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centered)

	s := &Spectrum{
		Freqs:      make([]float64, len(coeffs)),
		Amplitudes: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Amplitudes[i] = cmplx.Abs(c)
	}
	return s, nil
}

// Peak returns the frequency of the strongest non-zero bin, refined by a
// parabola through its neighbours.
func (s *Spectrum) Peak() (float64, error) {
	best := 0
	for i := 1; i < len(s.Amplitudes); i++ {
		if s.Amplitudes[i] > s.Amplitudes[best] || best == 0 {
			best = i
		}
	}
	if best == 0 || s.Amplitudes[best] < 1e-12 {
		return 0, ErrNoSignal
	}

	f := s.Freqs[best]
	if best+1 < len(s.Amplitudes) && best > 1 {
		a, b, c := s.Amplitudes[best-1], s.Amplitudes[best], s.Amplitudes[best+1]
		if den := a - 2*b + c; den != 0 {
			shift := 0.5 * (a - c) / den
			f += shift * (s.Freqs[1] - s.Freqs[0])
		}
	}
	return f, nil
}

func DominantFrequency(data []float64, dt float64) (float64, error) {
	s, err := PowerSpectrum(data, dt)
	if err != nil {
		return 0, err
	}
	return s.Peak()
}

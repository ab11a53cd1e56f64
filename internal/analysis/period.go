package analysis

import (
	"errors"
	"math"
)

// ErrTooShort is returned when a signal has too few samples to analyze.
var ErrTooShort = errors.New("analysis: signal too short")

// ErrFlat is returned when a signal has no non-constant component.
var ErrFlat = errors.New("analysis: signal has no oscillation")

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 1.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// DominantPeriod estimates the period of the strongest oscillation in data
// sampled every dt. The mean is removed and the signal zero-padded to a
// power of two before transforming, so the resolution is limited by the
// padded length.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooShort
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := NextPow2(len(data))
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	ps := PowerSpectrum(padded)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-12*math.Sqrt(float64(n)) {
		return 0, ErrFlat
	}

	freq := float64(maxIdx) / (float64(n) * dt)
	return 1 / freq, nil
}

// Package analysis provides spectral tools for sampled trajectories.
//
//   - [FFT]: real-input Fourier transform (gonum dsp/fourier)
//   - [PowerSpectrum]: magnitude spectrum of a real signal
//   - [DominantPeriod]: period of the strongest non-constant component
//
// # Orbital periods
//
// The x coordinate of a body on a closed orbit is periodic, so its dominant
// period estimates the orbital period:
//
//	xs := make([]float64, len(samples))
//	for i, s := range samples {
//	    xs[i] = s.Bodies[k].Position.X
//	}
//	period, err := analysis.DominantPeriod(xs, sampleDt)
package analysis

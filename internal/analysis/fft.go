package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT returns the non-negative frequency half of the discrete Fourier
// transform of a real signal: len(data)/2+1 coefficients, where bin k is k
// cycles per len(data) samples. Any length is accepted.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fourier.NewFFT(len(data)).Coefficients(nil, data)
}

// PowerSpectrum returns |X[k]| for every bin FFT returns.
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(data)
	ps := make([]float64, len(spectrum))

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

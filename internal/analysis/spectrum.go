// Package analysis provides frequency-domain views of recorded run
// variables, for spotting oscillation in the velocity control loop.
package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the magnitude of the real FFT of data, one bin
// per frequency from DC up to Nyquist. The input is zero-padded to a
// power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency of data in
// hz, given the sample period in seconds. Returns 0 for inputs too
// short to analyze.
func DominantFrequency(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	maxIdx := 0
	maxMag := 0.0
	for i := 1; i < len(coeffs); i++ {
		if m := cmplx.Abs(coeffs[i]); m > maxMag {
			maxMag = m
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}
	return fft.Freq(maxIdx) / dt
}

// Package analysis provides frequency-domain diagnostics for evaluated
// waveforms.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data using a recursive
// radix-2 decimation. The length must be a power of two.
func FFT(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, data)
		return out
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = feven[k] + w*fodd[k]
		out[k+n/2] = feven[k] - w*fodd[k]
	}
	return out
}

// Spectrum holds the one-sided power spectrum of a strain series.
type Spectrum struct {
	Freq  []float64 // cycles per unit of the input time grid
	Power []float64
}

// StrainSpectrum computes the power spectrum of the complex strain
// h = h+ + i*hx sampled on a uniform grid t. The series is zero-padded
// to the next power of two.
func StrainSpectrum(t, hplus, hcross []float64) (*Spectrum, error) {
	n := len(t)
	if n < 2 || len(hplus) != n || len(hcross) != n {
		return nil, fmt.Errorf("strain series needs matching lengths >= 2, got %d/%d/%d",
			len(t), len(hplus), len(hcross))
	}
	dt := t[1] - t[0]
	for i := 1; i < n; i++ {
		if !closeAbs(t[i]-t[i-1], dt, 1e-9*math.Abs(dt)) {
			return nil, fmt.Errorf("spectrum requires a uniform time grid (step %d differs)", i)
		}
	}

	padded := make([]complex128, nextPow2(n))
	for i := 0; i < n; i++ {
		padded[i] = complex(hplus[i], hcross[i])
	}

	coeffs := FFT(padded)
	half := len(coeffs) / 2
	sp := &Spectrum{
		Freq:  make([]float64, half),
		Power: make([]float64, half),
	}
	df := 1 / (dt * float64(len(coeffs)))
	for k := 0; k < half; k++ {
		sp.Freq[k] = float64(k) * df
		sp.Power[k] = cmplx.Abs(coeffs[k])
	}
	return sp, nil
}

// PeakFrequency returns the frequency bin with the largest power.
func (s *Spectrum) PeakFrequency() float64 {
	best := 0
	for k := range s.Power {
		if s.Power[k] > s.Power[best] {
			best = k
		}
	}
	return s.Freq[best]
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

func closeAbs(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

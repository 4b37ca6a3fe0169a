// Package wave has the shared numeric helpers for complex gravitational
// waveforms: amplitude/phase decomposition, phase rotation and alignment,
// and instantaneous frequency estimation.
package wave

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Unwrap removes 2*pi jumps from a phase series, returning a new slice.
// The first sample is kept as-is.
func Unwrap(phase []float64) []float64 {
	out := make([]float64, len(phase))
	if len(phase) == 0 {
		return out
	}
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		if d > math.Pi {
			offset -= 2 * math.Pi
		} else if d < -math.Pi {
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// AmpPhase decomposes h = A*exp(i*phi) into amplitude and unwrapped phase.
func AmpPhase(h []complex128) (amp, phase []float64) {
	amp = make([]float64, len(h))
	raw := make([]float64, len(h))
	for i, v := range h {
		amp[i] = cmplx.Abs(v)
		raw[i] = cmplx.Phase(v)
	}
	return amp, Unwrap(raw)
}

// ModifyPhase rotates a waveform by a constant phase, h -> h*exp(i*dphi).
func ModifyPhase(h []complex128, dphi float64) []complex128 {
	rot := cmplx.Exp(complex(0, dphi))
	out := make([]complex128, len(h))
	for i, v := range h {
		out[i] = v * rot
	}
	return out
}

// PhiMerger is the phase of the mode at the discrete peak of its
// amplitude, conventionally the merger for the dominant mode.
func PhiMerger(h []complex128) float64 {
	amp, phase := AmpPhase(h)
	return phase[floats.MaxIdx(amp)]
}

// AdjustMergerPhase applies a constant rotation so the phase at the
// amplitude peak equals phiRef.
func AdjustMergerPhase(h []complex128, phiRef float64) []complex128 {
	return ModifyPhase(h, phiRef-PhiMerger(h))
}

// InstantFreq estimates the instantaneous frequency at the first time
// sample of h = hp + i*hc, assuming slowly varying amplitude. Returned in
// cycles per unit of t.
func InstantFreq(hp, hc, t []float64) float64 {
	if len(hp) < 2 || len(t) < 2 {
		return 0
	}
	h := make([]complex128, len(hp))
	for i := range hp {
		h[i] = complex(hp[i], hc[i])
	}
	_, phase := AmpPhase(h)
	dt := t[1] - t[0]
	if dt == 0 {
		return 0
	}
	return math.Abs(phase[1]-phase[0]) / (2 * math.Pi * dt)
}

// Package harmonics evaluates spin-weighted spherical harmonics, the
// angular weights projecting a waveform mode onto a sky location.
package harmonics

import (
	"fmt"
	"math"
)

// SpinWeightedYlm returns sYlm(theta, phi) for spin weight s and mode
// indices (l, m), computed with the Goldberg et al. factorial-sum
// formula. Gravitational radiation uses s = -2.
func SpinWeightedYlm(s, l, m int, theta, phi float64) (complex128, error) {
	if l < 0 || abs(m) > l || abs(s) > l {
		return 0, fmt.Errorf("invalid harmonic indices s=%d l=%d m=%d", s, l, m)
	}

	pre := math.Sqrt(fact(l+m) * fact(l-m) * float64(2*l+1) /
		(4 * math.Pi * fact(l+s) * fact(l-s)))
	if m%2 != 0 {
		pre = -pre
	}

	c := math.Cos(theta / 2)
	sn := math.Sin(theta / 2)

	sum := 0.0
	for r := 0; r <= l-s; r++ {
		k := r + s - m
		if k < 0 || k > l+s {
			continue
		}
		term := binom(l-s, r) * binom(l+s, k) *
			math.Pow(c, float64(2*r+s-m)) * math.Pow(sn, float64(2*l-2*r-s+m))
		if (l-r-s)%2 != 0 {
			term = -term
		}
		sum += term
	}

	d := pre * sum
	return complex(d*math.Cos(float64(m)*phi), d*math.Sin(float64(m)*phi)), nil
}

func fact(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func binom(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	return fact(n) / (fact(k) * fact(n-k))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package fits

import "math"

// Polyval evaluates a polynomial with coefficients ordered from the
// highest degree down, matching the layout of trained coefficient tables.
func Polyval(coeffs []float64, x float64) float64 {
	y := 0.0
	for _, c := range coeffs {
		y = y*x + c
	}
	return y
}

// Chebyshev evaluates a Chebyshev series sum c_k T_k(x) by the
// three-term recurrence. x is expected in the mapped fit coordinate.
func Chebyshev(coeffs []float64, x float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	y := coeffs[0]
	tPrev, t := 1.0, x
	for i := 1; i < len(coeffs); i++ {
		y += t * coeffs[i]
		tPrev, t = t, 2*x*t-tPrev
	}
	return y
}

// Constant ignores x and returns the single trained coefficient.
func Constant(coeffs []float64, x float64) float64 {
	if len(coeffs) == 0 {
		return 1
	}
	return coeffs[0]
}

// Rational evaluates a polynomial ratio p(x)/q(x). The coefficient slice
// holds p followed by q, split at the midpoint; an odd-length slice gives
// the extra coefficient to p.
func Rational(coeffs []float64, x float64) float64 {
	split := (len(coeffs) + 1) / 2
	p := Polyval(coeffs[:split], x)
	q := Polyval(coeffs[split:], x)
	if q == 0 {
		return math.Inf(sign(p))
	}
	return p / q
}

// AmpScaled is the leading-order amplitude scaling used by norm fits:
// nu(x) * polyval(coeffs, x) where nu is the symmetric mass ratio of a
// binary with mass ratio x.
func AmpScaled(coeffs []float64, x float64) float64 {
	nu := x / ((1 + x) * (1 + x))
	return nu * Polyval(coeffs, x)
}

// PhaseScaled scales a polynomial phase fit by the inverse symmetric
// mass ratio, the leading post-Newtonian behavior of the phasing.
func PhaseScaled(coeffs []float64, x float64) float64 {
	nu := x / ((1 + x) * (1 + x))
	if nu == 0 {
		return 0
	}
	return Polyval(coeffs, x) / nu
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

package store

import (
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"gwsurr/internal/surrogate"
)

// WriteDemo writes a small analytic surrogate bundle under root: two
// amplitude/phase modes (l2_m2 with a norm fit, l3_m3) and one
// waveform-basis mode (l2_m1), all on a shared grid. Handy for trying
// the CLI without trained model data.
func WriteDemo(root string) error {
	times := linspace(-100, 10, 221)

	amp := make([]float64, len(times))
	phase := make([]float64, len(times))
	for i, t := range times {
		amp[i] = math.Exp(-t * t / 4000)
		phase[i] = 0.5*t + 0.002*t*t
	}

	l22 := &surrogate.Data{
		Times:          times,
		AffineMap:      surrogate.AffineMinusOneToOne,
		FitInterval:    [2]float64{1, 10},
		ModeType:       surrogate.AmpPhaseBasis,
		AmpFitType:     "polyval",
		PhaseFitType:   "polyval",
		FitparamsAmp:   mat.NewDense(1, 2, []float64{0.2, 1.0}),
		FitparamsPhase: mat.NewDense(1, 2, []float64{0.4, 1.0}),
		BAmp:           columnMatrix(amp),
		BPhase:         columnMatrix(phase),
		NormFitType:    "amp_scaled",
		FitparamsNorm:  []float64{4.0},
	}
	if err := SaveMode(filepath.Join(root, "l2_m2"), l22); err != nil {
		return err
	}

	amp3 := make([]float64, len(times))
	phase3 := make([]float64, len(times))
	for i, t := range times {
		amp3[i] = 0.3 * math.Exp(-t*t/3000)
		phase3[i] = 0.75*t + 0.003*t*t
	}
	l33 := &surrogate.Data{
		Times:          times,
		AffineMap:      surrogate.AffineMinusOneToOne,
		FitInterval:    [2]float64{1, 10},
		ModeType:       surrogate.AmpPhaseBasis,
		AmpFitType:     "polyval",
		PhaseFitType:   "polyval",
		FitparamsAmp:   mat.NewDense(1, 2, []float64{0.35, 0.8}),
		FitparamsPhase: mat.NewDense(1, 2, []float64{0.6, 1.0}),
		BAmp:           columnMatrix(amp3),
		BPhase:         columnMatrix(phase3),
	}
	if err := SaveMode(filepath.Join(root, "l3_m3"), l33); err != nil {
		return err
	}

	// Waveform-basis mode built from two analytic oscillations.
	n := len(times)
	bre := mat.NewDense(n, 2, nil)
	bim := mat.NewDense(n, 2, nil)
	for i, t := range times {
		a := math.Exp(-t * t / 5000)
		bre.Set(i, 0, a*math.Cos(0.4*t))
		bim.Set(i, 0, a*math.Sin(0.4*t))
		bre.Set(i, 1, 0.5*a*math.Cos(0.9*t))
		bim.Set(i, 1, 0.5*a*math.Sin(0.9*t))
	}
	l21 := &surrogate.Data{
		Times:          times,
		AffineMap:      surrogate.AffineZeroToOne,
		FitInterval:    [2]float64{1, 10},
		ModeType:       surrogate.WaveformBasis,
		AmpFitType:     "polyval",
		PhaseFitType:   "polyval",
		FitparamsAmp:   mat.NewDense(2, 2, []float64{0.1, 0.9, -0.05, 0.4}),
		FitparamsPhase: mat.NewDense(2, 2, []float64{0.3, 0.0, 0.2, 0.5}),
		BRe:            bre,
		BIm:            bim,
	}
	return SaveMode(filepath.Join(root, "l2_m1"), l21)
}

func columnMatrix(col []float64) *mat.Dense {
	m := mat.NewDense(len(col), 1, nil)
	m.SetCol(0, col)
	return m
}

func linspace(start, stop float64, num int) []float64 {
	out := make([]float64, num)
	step := (stop - start) / float64(num-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[num-1] = stop
	return out
}

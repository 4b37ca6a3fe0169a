package surrogate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"gwsurr/internal/fits"
	"gwsurr/internal/mks"
	"gwsurr/internal/wave"
)

// Opts are the optional evaluation controls for a single mode.
type Opts struct {
	// TotalMass (solar masses) and Distance (megaparsecs) switch the
	// output to physical units when both are positive; otherwise the
	// waveform stays in geometric units with time in units of total mass.
	TotalMass float64
	Distance  float64

	// PhiRef, when set, rotates the mode so its phase at peak amplitude
	// equals this value.
	PhiRef *float64

	// FLow, when positive, requests an advisory check that the
	// surrogate's instantaneous starting frequency does not exceed it.
	FLow float64

	// Samples evaluates the mode on a caller-supplied time grid via the
	// precomputed basis splines instead of the native grid. Units of
	// total mass, like the native grid.
	Samples []float64
}

// Waveform is one evaluation result. Warnings carry the advisory
// conditions of the evaluation; they never indicate failure.
type Waveform struct {
	T      []float64
	HPlus  []float64
	HCross []float64

	Warnings []string
}

// SingleMode evaluates one stored waveform mode. It is immutable after
// construction; concurrent Evaluate calls are safe.
type SingleMode struct {
	data *Data

	ampFit   fits.Func
	phaseFit fits.Func
	normFit  fits.Func

	// Cubic spline interpolants of the basis columns over the native
	// grid, built once. Real and imaginary (or amplitude and phase)
	// columns are fit independently.
	spl1 []interp.NotAKnotCubic
	spl2 []interp.NotAKnotCubic
}

// NewSingleMode validates the data bundle, resolves its fit functions
// and precomputes the basis spline interpolants.
func NewSingleMode(data *Data, reg *fits.Registry) (*SingleMode, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	s := &SingleMode{data: data}

	var err error
	if s.ampFit, err = reg.Lookup(data.AmpFitType); err != nil {
		return nil, ConfigError{Field: "fit_type_amp", Message: err.Error()}
	}
	if s.phaseFit, err = reg.Lookup(data.PhaseFitType); err != nil {
		return nil, ConfigError{Field: "fit_type_phase", Message: err.Error()}
	}
	if data.NormFitType != "" {
		if s.normFit, err = reg.Lookup(data.NormFitType); err != nil {
			return nil, ConfigError{Field: "fit_type_norm", Message: err.Error()}
		}
	}

	switch data.ModeType {
	case WaveformBasis:
		if s.spl1, err = fitColumns(data.Times, data.BRe); err != nil {
			return nil, err
		}
		if s.spl2, err = fitColumns(data.Times, data.BIm); err != nil {
			return nil, err
		}
	case AmpPhaseBasis:
		if s.spl1, err = fitColumns(data.Times, data.BAmp); err != nil {
			return nil, err
		}
		if s.spl2, err = fitColumns(data.Times, data.BPhase); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func fitColumns(times []float64, b *mat.Dense) ([]interp.NotAKnotCubic, error) {
	_, cols := b.Dims()
	splines := make([]interp.NotAKnotCubic, cols)
	col := make([]float64, len(times))
	for j := 0; j < cols; j++ {
		mat.Col(col, j, b)
		if err := splines[j].Fit(times, col); err != nil {
			return nil, ConfigError{Field: "B", Message: fmt.Sprintf("spline fit of column %d: %v", j, err)}
		}
	}
	return splines, nil
}

// Times is the native training grid in units of total mass.
func (s *SingleMode) Times() []float64 { return s.data.Times }

// FitInterval is the trained parameter domain.
func (s *SingleMode) FitInterval() [2]float64 { return s.data.FitInterval }

// Evaluate reconstructs the mode at mass ratio q. Parameter values
// outside the trained interval extrapolate and record an advisory
// warning rather than failing.
func (s *SingleMode) Evaluate(q float64, opts Opts) (*Waveform, error) {
	wf := &Waveform{}

	x0 := s.mapParam(q, wf)

	ampEval := evalFitTable(s.ampFit, s.data.FitparamsAmp, x0)
	phaseEval := evalFitTable(s.phaseFit, s.data.FitparamsPhase, x0)
	nrm := 1.0
	if s.normFit != nil {
		nrm = s.normFit(s.data.FitparamsNorm, x0)
	}

	h := s.reconstruct(ampEval, phaseEval, opts.Samples)
	for i := range h {
		h[i] *= complex(nrm, 0)
	}

	if opts.PhiRef != nil {
		h = wave.AdjustMergerPhase(h, *opts.PhiRef)
	}

	amp0, tScale := 1.0, 1.0
	if opts.TotalMass > 0 && opts.Distance > 0 {
		amp0 = (opts.TotalMass * mks.Msun / (opts.Distance * mks.MpcInM)) * (mks.G / (mks.C * mks.C))
		tScale = mks.MsunInSec * opts.TotalMass
	}

	wf.HPlus = make([]float64, len(h))
	wf.HCross = make([]float64, len(h))
	for i, v := range h {
		wf.HPlus[i] = amp0 * real(v)
		wf.HCross[i] = amp0 * imag(v)
	}

	src := s.data.Times
	if opts.Samples != nil {
		src = opts.Samples
	}
	wf.T = make([]float64, len(src))
	for i, v := range src {
		wf.T[i] = tScale * v
	}

	if opts.FLow > 0 {
		if f := wave.InstantFreq(wf.HPlus, wf.HCross, wf.T); f > opts.FLow {
			wf.Warnings = append(wf.Warnings,
				fmt.Sprintf("surrogate starting frequency %g exceeds requested floor %g", f, opts.FLow))
		}
	}

	return wf, nil
}

func (s *SingleMode) mapParam(x float64, wf *Waveform) float64 {
	xmin, xmax := s.data.FitInterval[0], s.data.FitInterval[1]
	if x < xmin || x > xmax {
		wf.Warnings = append(wf.Warnings,
			fmt.Sprintf("surrogate not trained at parameter value %g (interval [%g, %g])", x, xmin, xmax))
	}
	return s.data.AffineMap.Map(x, xmin, xmax)
}

// reconstruct projects the fit evaluations through the basis, resampled
// when a custom grid is requested.
func (s *SingleMode) reconstruct(ampEval, phaseEval, samples []float64) []complex128 {
	switch s.data.ModeType {
	case WaveformBasis:
		// Empirical-interpolation vector over the basis degrees of
		// freedom.
		er := make([]float64, len(ampEval))
		ei := make([]float64, len(ampEval))
		for j := range ampEval {
			er[j] = ampEval[j] * math.Cos(phaseEval[j])
			ei[j] = ampEval[j] * math.Sin(phaseEval[j])
		}
		bre, bim := s.data.BRe, s.data.BIm
		if samples != nil {
			bre = resampleDense(s.spl1, samples)
			bim = resampleDense(s.spl2, samples)
		}
		rr := mulVec(bre, er)
		ri := mulVec(bim, ei)
		ir := mulVec(bre, ei)
		ii := mulVec(bim, er)
		h := make([]complex128, len(rr))
		for i := range h {
			h[i] = complex(rr[i]-ri[i], ir[i]+ii[i])
		}
		return h

	default: // AmpPhaseBasis
		ba, bp := s.data.BAmp, s.data.BPhase
		if samples != nil {
			ba = resampleDense(s.spl1, samples)
			bp = resampleDense(s.spl2, samples)
		}
		a := mulVec(ba, ampEval)
		p := mulVec(bp, phaseEval)
		h := make([]complex128, len(a))
		for i := range h {
			h[i] = complex(a[i]*math.Cos(p[i]), a[i]*math.Sin(p[i]))
		}
		return h
	}
}

// ResampleBasis evaluates the complex basis spline interpolants on a
// custom grid, returning the real and imaginary parts. Only meaningful
// for waveform-basis surrogates.
func (s *SingleMode) ResampleBasis(samples []float64) (re, im *mat.Dense, err error) {
	if s.data.ModeType != WaveformBasis {
		return nil, nil, ConfigError{Field: "B", Message: "resample requires a waveform basis"}
	}
	return resampleDense(s.spl1, samples), resampleDense(s.spl2, samples), nil
}

// Basis returns the ith basis vector in one of three flavors: "cardinal"
// (the empirical interpolant column), "orthogonal" (B*V) or "waveform"
// (B*V*R). The latter two need the optional orthogonalization matrices.
func (s *SingleMode) Basis(i int, flavor string) ([]complex128, error) {
	if s.data.ModeType != WaveformBasis {
		return nil, ConfigError{Field: "B", Message: "basis reconstruction requires a waveform basis"}
	}
	_, cols := s.data.BRe.Dims()

	re, im := s.data.BRe, s.data.BIm
	switch flavor {
	case "cardinal":
	case "orthogonal", "waveform":
		if s.data.V == nil {
			return nil, ConfigError{Field: "V", Message: "orthogonalization matrix not loaded"}
		}
		var eRe, eIm mat.Dense
		eRe.Mul(s.data.BRe, s.data.V)
		eIm.Mul(s.data.BIm, s.data.V)
		re, im = &eRe, &eIm
		if flavor == "waveform" {
			if s.data.R == nil {
				return nil, ConfigError{Field: "R", Message: "orthogonalization matrix not loaded"}
			}
			var wRe, wIm mat.Dense
			wRe.Mul(&eRe, s.data.R)
			wIm.Mul(&eIm, s.data.R)
			re, im = &wRe, &wIm
		}
		_, cols = re.Dims()
	default:
		return nil, ConfigError{Field: "basis", Message: "not a valid basis flavor: " + flavor}
	}

	if i < 0 || i >= cols {
		return nil, ConfigError{Field: "basis", Message: fmt.Sprintf("basis index %d out of range [0, %d)", i, cols)}
	}

	out := make([]complex128, len(s.data.Times))
	for t := range out {
		out[t] = complex(re.At(t, i), im.At(t, i))
	}
	return out, nil
}

func evalFitTable(fn fits.Func, table *mat.Dense, x0 float64) []float64 {
	rows, _ := table.Dims()
	out := make([]float64, rows)
	for j := 0; j < rows; j++ {
		out[j] = fn(table.RawRowView(j), x0)
	}
	return out
}

func resampleDense(splines []interp.NotAKnotCubic, samples []float64) *mat.Dense {
	out := mat.NewDense(len(samples), len(splines), nil)
	for j := range splines {
		for i, x := range samples {
			out.Set(i, j, splines[j].Predict(x))
		}
	}
	return out
}

func mulVec(a *mat.Dense, v []float64) []float64 {
	rows, _ := a.Dims()
	out := mat.NewVecDense(rows, nil)
	out.MulVec(a, mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}

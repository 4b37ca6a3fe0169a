// Package surrogate evaluates precomputed reduced-order models of
// gravitational waveforms at arbitrary parameter values.
package surrogate

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// AffineMap rescales the physical parameter into the coordinate the fits
// were trained in.
type AffineMap int

const (
	AffineNone AffineMap = iota
	AffineZeroToOne
	AffineMinusOneToOne
)

func ParseAffineMap(s string) (AffineMap, error) {
	switch s {
	case "none":
		return AffineNone, nil
	case "zero_to_1":
		return AffineZeroToOne, nil
	case "minus1_to_1":
		return AffineMinusOneToOne, nil
	}
	return 0, ConfigError{Field: "affine_map", Message: "unknown affine map: " + s}
}

func (a AffineMap) String() string {
	switch a {
	case AffineZeroToOne:
		return "zero_to_1"
	case AffineMinusOneToOne:
		return "minus1_to_1"
	default:
		return "none"
	}
}

// Map sends x into the fit coordinate for the trained interval
// [xmin, xmax].
func (a AffineMap) Map(x, xmin, xmax float64) float64 {
	switch a {
	case AffineZeroToOne:
		return (x - xmin) / (xmax - xmin)
	case AffineMinusOneToOne:
		return 2*(x-xmin)/(xmax-xmin) - 1
	default:
		return x
	}
}

// ModeType selects the reconstruction formula and which basis fields of a
// Data bundle are populated.
type ModeType int

const (
	// WaveformBasis reconstructs through a single complex basis, with
	// amplitude and phase fits combined into one empirical-interpolation
	// vector.
	WaveformBasis ModeType = iota

	// AmpPhaseBasis reconstructs amplitude and phase through separate
	// real bases and recombines as A*exp(i*P).
	AmpPhaseBasis
)

func ParseModeType(s string) (ModeType, error) {
	switch s {
	case "waveform_basis":
		return WaveformBasis, nil
	case "amp_phase_basis":
		return AmpPhaseBasis, nil
	}
	return 0, ConfigError{Field: "surrogate_mode_type", Message: "unknown surrogate type: " + s}
}

func (m ModeType) String() string {
	if m == AmpPhaseBasis {
		return "amp_phase_basis"
	}
	return "waveform_basis"
}

// ConfigError is a fatal contract violation: broken model data or a
// caller request the model cannot satisfy. It must not be caught and
// retried internally.
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("surrogate config (%s): %s", e.Field, e.Message)
}

// Mode identifies a spin-weighted spherical-harmonic multipole. Stored
// surrogate data only carries M >= 0; negative-m modes come from
// conjugation symmetry at evaluation time.
type Mode struct {
	L, M int
}

// Key is the storage name of a mode, e.g. "l2_m2".
func (m Mode) Key() string {
	return fmt.Sprintf("l%d_m%d", m.L, m.M)
}

func ParseModeKey(key string) (Mode, error) {
	var m Mode
	if _, err := fmt.Sscanf(strings.TrimSpace(key), "l%d_m%d", &m.L, &m.M); err != nil {
		return Mode{}, ConfigError{Field: "mode", Message: "bad mode key: " + key}
	}
	return m, nil
}

// Data is the immutable per-mode surrogate bundle produced by the
// storage layer. Which basis fields are populated depends on ModeType.
type Data struct {
	Times       []float64
	AffineMap   AffineMap
	FitInterval [2]float64
	ModeType    ModeType

	AmpFitType     string
	PhaseFitType   string
	FitparamsAmp   *mat.Dense // one row per basis degree of freedom
	FitparamsPhase *mat.Dense

	// WaveformBasis: complex basis stored as a real/imag pair, plus the
	// optional orthogonalization matrices used only for diagnostics.
	BRe, BIm *mat.Dense
	V, R     *mat.Dense

	// AmpPhaseBasis: independent real bases for amplitude and phase.
	BAmp, BPhase *mat.Dense

	// Optional overall norm fit; empty NormFitType means norm == 1.
	NormFitType   string
	FitparamsNorm []float64
}

// Validate enforces the construction contract. All violations are fatal.
func (d *Data) Validate() error {
	nt := len(d.Times)
	if nt < 2 {
		return ConfigError{Field: "times", Message: fmt.Sprintf("need at least 2 time samples, got %d", nt)}
	}
	for i := 1; i < nt; i++ {
		if d.Times[i] <= d.Times[i-1] {
			return ConfigError{Field: "times", Message: fmt.Sprintf("not strictly increasing at index %d", i)}
		}
	}
	if d.FitInterval[0] >= d.FitInterval[1] {
		return ConfigError{Field: "fit_interval", Message: fmt.Sprintf("degenerate interval [%g, %g]", d.FitInterval[0], d.FitInterval[1])}
	}

	switch d.ModeType {
	case WaveformBasis:
		if d.BRe == nil || d.BIm == nil {
			return ConfigError{Field: "B", Message: "waveform basis missing"}
		}
		rRe, cRe := d.BRe.Dims()
		rIm, cIm := d.BIm.Dims()
		if rRe != rIm || cRe != cIm {
			return ConfigError{Field: "B", Message: "real and imaginary parts have different shapes"}
		}
		if rRe != nt {
			return ConfigError{Field: "B", Message: fmt.Sprintf("%d rows but %d time samples", rRe, nt)}
		}
		if err := d.checkFitRows(cRe, cRe); err != nil {
			return err
		}
	case AmpPhaseBasis:
		if d.BAmp == nil || d.BPhase == nil {
			return ConfigError{Field: "B_amp/B_phase", Message: "amplitude/phase bases missing"}
		}
		rA, cA := d.BAmp.Dims()
		rP, cP := d.BPhase.Dims()
		if rA != nt || rP != nt {
			return ConfigError{Field: "B_amp/B_phase", Message: fmt.Sprintf("%d/%d rows but %d time samples", rA, rP, nt)}
		}
		if err := d.checkFitRows(cA, cP); err != nil {
			return err
		}
	default:
		return ConfigError{Field: "surrogate_mode_type", Message: "unknown surrogate type"}
	}

	if d.NormFitType != "" && len(d.FitparamsNorm) == 0 {
		return ConfigError{Field: "norm_fit", Message: "norm fit named but no coefficients given"}
	}
	return nil
}

func (d *Data) checkFitRows(ampCols, phaseCols int) error {
	if d.FitparamsAmp == nil || d.FitparamsPhase == nil {
		return ConfigError{Field: "fitparams", Message: "fit coefficient tables missing"}
	}
	ra, _ := d.FitparamsAmp.Dims()
	rp, _ := d.FitparamsPhase.Dims()
	if ra != ampCols {
		return ConfigError{Field: "fitparams_amp", Message: fmt.Sprintf("%d rows but basis has %d columns", ra, ampCols)}
	}
	if rp != phaseCols {
		return ConfigError{Field: "fitparams_phase", Message: fmt.Sprintf("%d rows but basis has %d columns", rp, phaseCols)}
	}
	return nil
}

package surrogate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"gwsurr/internal/fits"
	"gwsurr/internal/harmonics"
)

// MultiOpts extends the single-mode options with sky location and mode
// selection.
type MultiOpts struct {
	Opts

	// Theta and Phi place the observer on the sphere; both must be set
	// for spin-weighted harmonic projection, neither for raw modes.
	Theta *float64
	Phi   *float64

	// Modes selects the (l, m) pairs to evaluate; empty means every
	// stored mode. Negative m resolves to the stored non-negative-m data
	// through conjugation symmetry.
	Modes []Mode

	// Stack returns one column per requested mode instead of summing the
	// contributions.
	Stack bool
}

// MultiWaveform is a multi-mode evaluation result. Summed output fills
// HPlus/HCross; stacked output fills HPlusModes/HCrossModes with one
// column per entry of Modes.
type MultiWaveform struct {
	T      []float64
	HPlus  []float64
	HCross []float64

	Modes       []Mode
	HPlusModes  *mat.Dense
	HCrossModes *mat.Dense

	Warnings []string
}

// MultiMode composes stored single-mode surrogates into a waveform at a
// sky location. Read-only after construction.
type MultiMode struct {
	modes map[Mode]*SingleMode
	keys  []Mode
}

// NewMultiMode builds one evaluator per stored mode. Storage convention
// requires non-negative m. All modes must share an identical time grid;
// a mismatch is a fatal configuration error, not something to discover
// mid-sum.
func NewMultiMode(data map[Mode]*Data, reg *fits.Registry) (*MultiMode, error) {
	if len(data) == 0 {
		return nil, ConfigError{Field: "modes", Message: "no modes given"}
	}

	m := &MultiMode{modes: make(map[Mode]*SingleMode, len(data))}
	for key, d := range data {
		if key.M < 0 {
			return nil, ConfigError{Field: "modes", Message: "stored modes must have m >= 0, got " + key.Key()}
		}
		sm, err := NewSingleMode(d, reg)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", key.Key(), err)
		}
		m.modes[key] = sm
		m.keys = append(m.keys, key)
	}

	sort.Slice(m.keys, func(i, j int) bool {
		if m.keys[i].L != m.keys[j].L {
			return m.keys[i].L < m.keys[j].L
		}
		return m.keys[i].M < m.keys[j].M
	})

	ref := m.modes[m.keys[0]].Times()
	for _, key := range m.keys[1:] {
		if err := sameGrid(ref, m.modes[key].Times()); err != nil {
			return nil, ConfigError{Field: "times", Message: fmt.Sprintf("mode %s: %v", key.Key(), err)}
		}
	}

	return m, nil
}

func sameGrid(a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("time grid length %d != %d", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("time grids differ at index %d", i)
		}
	}
	return nil
}

// Modes lists the stored mode identifiers in (l, m) order.
func (m *MultiMode) Modes() []Mode {
	out := make([]Mode, len(m.keys))
	copy(out, m.keys)
	return out
}

// Times is the common native grid of all stored modes.
func (m *MultiMode) Times() []float64 { return m.modes[m.keys[0]].Times() }

// FitInterval is the trained parameter domain of the stored modes.
func (m *MultiMode) FitInterval() [2]float64 { return m.modes[m.keys[0]].FitInterval() }

// Evaluate composes the requested modes at mass ratio q. A requested
// mode whose |m| counterpart is not stored is a fatal lookup error.
func (m *MultiMode) Evaluate(q float64, opts MultiOpts) (*MultiWaveform, error) {
	if (opts.Theta == nil) != (opts.Phi == nil) {
		return nil, ConfigError{Field: "sky", Message: "theta and phi must be given together"}
	}

	requested := opts.Modes
	if len(requested) == 0 {
		requested = m.keys
	}

	out := &MultiWaveform{Modes: make([]Mode, len(requested))}
	copy(out.Modes, requested)

	n := len(m.Times())
	if opts.Samples != nil {
		n = len(opts.Samples)
	}
	if opts.Stack {
		out.HPlusModes = mat.NewDense(n, len(requested), nil)
		out.HCrossModes = mat.NewDense(n, len(requested), nil)
	} else {
		out.HPlus = make([]float64, n)
		out.HCross = make([]float64, n)
	}

	for col, mode := range requested {
		key := Mode{L: mode.L, M: mode.M}
		if key.M < 0 {
			key.M = -key.M
		}
		sm, ok := m.modes[key]
		if !ok {
			return nil, ConfigError{Field: "modes", Message: "mode not loaded: " + key.Key()}
		}

		wf, err := sm.Evaluate(q, opts.Opts)
		if err != nil {
			return nil, err
		}
		out.Warnings = append(out.Warnings, wf.Warnings...)

		hp, hc := wf.HPlus, wf.HCross
		if mode.M < 0 {
			// h(l,-m) = (-1)^l conj(h(l,m))
			sign := 1.0
			if mode.L%2 != 0 {
				sign = -1
			}
			for i := range hp {
				hp[i] = sign * hp[i]
				hc[i] = -sign * hc[i]
			}
		}

		if opts.Theta != nil {
			ylm, err := harmonics.SpinWeightedYlm(-2, mode.L, mode.M, *opts.Theta, *opts.Phi)
			if err != nil {
				return nil, ConfigError{Field: "modes", Message: err.Error()}
			}
			for i := range hp {
				w := ylm * complex(hp[i], hc[i])
				hp[i] = real(w)
				hc[i] = imag(w)
			}
		}

		if opts.Stack {
			out.HPlusModes.SetCol(col, hp)
			out.HCrossModes.SetCol(col, hc)
		} else {
			for i := range hp {
				out.HPlus[i] += hp[i]
				out.HCross[i] += hc[i]
			}
		}
		out.T = wf.T
	}

	return out, nil
}

// Package fits is the catalog of parametric fit functions a surrogate's
// coefficient tables refer to by name.
package fits

import "fmt"

// Func maps trained fit coefficients and a (mapped) parameter value to a
// scalar. Implementations must be deterministic and side-effect free.
type Func func(coeffs []float64, x float64) float64

type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.funcs["polyval"] = Polyval
	r.funcs["chebyshev"] = Chebyshev
	r.funcs["constant"] = Constant
	r.funcs["rational"] = Rational
	r.funcs["amp_scaled"] = AmpScaled
	r.funcs["phase_scaled"] = PhaseScaled

	return r
}

// Register adds or replaces a named fit function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup resolves a fit-type name. An unknown name is a configuration
// error: the surrogate data refers to a function this build cannot
// evaluate.
func (r *Registry) Lookup(name string) (Func, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("unknown fit type: %s", name)
	}
	return fn, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}

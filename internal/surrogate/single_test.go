package surrogate

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"gwsurr/internal/fits"
	"gwsurr/internal/mks"
)

func newTestMode(t *testing.T, d *Data) *SingleMode {
	t.Helper()
	sm, err := NewSingleMode(d, fits.NewRegistry())
	if err != nil {
		t.Fatalf("NewSingleMode: %v", err)
	}
	return sm
}

func TestEvaluateGeometricUnits(t *testing.T) {
	for _, d := range []*Data{waveformBasisData(), ampPhaseData()} {
		sm := newTestMode(t, d)

		wf, err := sm.Evaluate(0.5, Opts{})
		if err != nil {
			t.Fatal(err)
		}
		if len(wf.HPlus) != len(d.Times) || len(wf.HCross) != len(d.Times) {
			t.Errorf("polarization length %d, want %d", len(wf.HPlus), len(d.Times))
		}
		if !reflect.DeepEqual(wf.T, d.Times) {
			t.Error("geometric time grid differs from native grid")
		}
		if len(wf.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", wf.Warnings)
		}
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	sm := newTestMode(t, waveformBasisData())

	a, err := sm.Evaluate(0.37, Opts{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := sm.Evaluate(0.37, Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated evaluation is not bit-identical")
	}
}

func TestResamplingConsistency(t *testing.T) {
	for _, d := range []*Data{waveformBasisData(), ampPhaseData()} {
		sm := newTestMode(t, d)

		native, err := sm.Evaluate(0.5, Opts{})
		if err != nil {
			t.Fatal(err)
		}
		samples := make([]float64, len(d.Times))
		copy(samples, d.Times)
		resampled, err := sm.Evaluate(0.5, Opts{Samples: samples})
		if err != nil {
			t.Fatal(err)
		}

		for i := range native.HPlus {
			if !closeRel(native.HPlus[i], resampled.HPlus[i], 1e-10) ||
				!closeRel(native.HCross[i], resampled.HCross[i], 1e-10) {
				t.Fatalf("%s: resampled waveform differs at %d: (%g, %g) vs (%g, %g)",
					d.ModeType, i, native.HPlus[i], native.HCross[i], resampled.HPlus[i], resampled.HCross[i])
			}
		}
	}
}

func TestPhysicalScaling(t *testing.T) {
	sm := newTestMode(t, ampPhaseData())

	geo, err := sm.Evaluate(0.5, Opts{})
	if err != nil {
		t.Fatal(err)
	}

	M, dist := 60.0, 410.0
	phys, err := sm.Evaluate(0.5, Opts{TotalMass: M, Distance: dist})
	if err != nil {
		t.Fatal(err)
	}

	amp0 := (M * mks.Msun / (dist * mks.MpcInM)) * (mks.G / (mks.C * mks.C))
	tScale := M * mks.MsunInSec
	for i := range geo.HPlus {
		if !closeRel(phys.HPlus[i], amp0*geo.HPlus[i], 1e-12) {
			t.Fatalf("h+ scaling off at %d: %g vs %g", i, phys.HPlus[i], amp0*geo.HPlus[i])
		}
		if !closeRel(phys.T[i], tScale*geo.T[i], 1e-12) {
			t.Fatalf("time scaling off at %d", i)
		}
	}
}

func TestPhaseAlignment(t *testing.T) {
	sm := newTestMode(t, ampPhaseData())

	phiRef := 1.3
	wf, err := sm.Evaluate(0.5, Opts{PhiRef: &phiRef})
	if err != nil {
		t.Fatal(err)
	}

	amp := make([]float64, len(wf.HPlus))
	for i := range amp {
		amp[i] = math.Hypot(wf.HPlus[i], wf.HCross[i])
	}
	peak := floats.MaxIdx(amp)
	got := math.Atan2(wf.HCross[peak], wf.HPlus[peak])

	diff := math.Mod(got-phiRef, 2*math.Pi)
	if math.Abs(diff) > 1e-10 && math.Abs(math.Abs(diff)-2*math.Pi) > 1e-10 {
		t.Errorf("phase at peak = %g, want %g mod 2pi", got, phiRef)
	}
}

func TestOutsideIntervalWarning(t *testing.T) {
	sm := newTestMode(t, ampPhaseData())

	wf, err := sm.Evaluate(1.5, Opts{})
	if err != nil {
		t.Fatalf("extrapolation must not fail: %v", err)
	}
	if len(wf.Warnings) != 1 {
		t.Errorf("want 1 warning, got %v", wf.Warnings)
	}
}

func TestFrequencyFloorWarning(t *testing.T) {
	sm := newTestMode(t, ampPhaseData())

	// The chirp starts around 1.5/(2pi) cycles per M; a tiny floor must
	// trigger the advisory, a huge one must not.
	low, err := sm.Evaluate(0.5, Opts{FLow: 1e-6})
	if err != nil {
		t.Fatal(err)
	}
	if len(low.Warnings) != 1 {
		t.Errorf("want starting-frequency warning, got %v", low.Warnings)
	}

	high, err := sm.Evaluate(0.5, Opts{FLow: 1e6})
	if err != nil {
		t.Fatal(err)
	}
	if len(high.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", high.Warnings)
	}
}

func TestNormFitScalesWaveform(t *testing.T) {
	plain := newTestMode(t, ampPhaseData())

	d := ampPhaseData()
	d.NormFitType = "constant"
	d.FitparamsNorm = []float64{2.0}
	normed := newTestMode(t, d)

	a, err := plain.Evaluate(0.5, Opts{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := normed.Evaluate(0.5, Opts{})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.HPlus {
		if !closeRel(b.HPlus[i], 2*a.HPlus[i], 1e-13) {
			t.Fatalf("norm fit not applied at %d", i)
		}
	}
}

func TestUnknownFitType(t *testing.T) {
	d := waveformBasisData()
	d.PhaseFitType = "spline9"
	if _, err := NewSingleMode(d, fits.NewRegistry()); err == nil {
		t.Error("expected configuration error for unknown fit type")
	}
}

func TestBasisFlavors(t *testing.T) {
	d := waveformBasisData()
	// Identity orthogonalization: all flavors coincide.
	d.V = identity(2)
	d.R = identity(2)
	sm := newTestMode(t, d)

	cardinal, err := sm.Basis(1, "cardinal")
	if err != nil {
		t.Fatal(err)
	}
	waveform, err := sm.Basis(1, "waveform")
	if err != nil {
		t.Fatal(err)
	}
	for i := range cardinal {
		if cardinal[i] != waveform[i] {
			t.Fatalf("flavors differ at %d under identity V, R", i)
		}
	}

	if _, err := sm.Basis(0, "spectral"); err == nil {
		t.Error("expected error for invalid flavor")
	}
	if _, err := sm.Basis(7, "cardinal"); err == nil {
		t.Error("expected error for out-of-range index")
	}

	bare := newTestMode(t, waveformBasisData())
	if _, err := bare.Basis(0, "orthogonal"); err == nil {
		t.Error("expected error without V")
	}
}

func TestConcurrentEvaluate(t *testing.T) {
	sm := newTestMode(t, waveformBasisData())

	done := make(chan *Waveform, 8)
	for i := 0; i < 8; i++ {
		go func() {
			wf, _ := sm.Evaluate(0.42, Opts{})
			done <- wf
		}()
	}
	first := <-done
	for i := 1; i < 8; i++ {
		if !reflect.DeepEqual(first, <-done) {
			t.Fatal("concurrent evaluations disagree")
		}
	}
}

func closeRel(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1e-300 {
		return true
	}
	return math.Abs(a-b) <= tol*scale
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"gwsurr/internal/fits"
	"gwsurr/internal/surrogate"
)

func demoData() *surrogate.Data {
	times := linspace(-10, 2, 25)
	n := len(times)
	bAmp := mat.NewDense(n, 1, nil)
	bPhase := mat.NewDense(n, 1, nil)
	for i, t := range times {
		bAmp.Set(i, 0, math.Exp(-t*t/30))
		bPhase.Set(i, 0, 1.2*t)
	}
	return &surrogate.Data{
		Times:          times,
		AffineMap:      surrogate.AffineMinusOneToOne,
		FitInterval:    [2]float64{1, 4},
		ModeType:       surrogate.AmpPhaseBasis,
		AmpFitType:     "polyval",
		PhaseFitType:   "polyval",
		FitparamsAmp:   mat.NewDense(1, 2, []float64{0.5, 1}),
		FitparamsPhase: mat.NewDense(1, 2, []float64{0.25, 1}),
		BAmp:           bAmp,
		BPhase:         bPhase,
		NormFitType:    "constant",
		FitparamsNorm:  []float64{1.5},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "l2_m2")
	orig := demoData()

	require.NoError(t, SaveMode(dir, orig))

	loaded, err := LoadMode(dir)
	require.NoError(t, err)

	assert.Equal(t, orig.ModeType, loaded.ModeType)
	assert.Equal(t, orig.AffineMap, loaded.AffineMap)
	assert.Equal(t, orig.FitInterval, loaded.FitInterval)
	assert.Equal(t, orig.Times, loaded.Times)
	assert.Equal(t, orig.NormFitType, loaded.NormFitType)
	assert.Equal(t, orig.FitparamsNorm, loaded.FitparamsNorm)
	assert.True(t, mat.Equal(orig.BAmp, loaded.BAmp))
	assert.True(t, mat.Equal(orig.BPhase, loaded.BPhase))
	assert.True(t, mat.Equal(orig.FitparamsAmp, loaded.FitparamsAmp))
	assert.True(t, mat.Equal(orig.FitparamsPhase, loaded.FitparamsPhase))
}

func TestLoadModeMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadMode(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.yaml"),
		[]byte("surrogate_mode_type: amp_phase_basis\naffine_map: none\nfit_interval: [1, 2]\nfit_type_amp: polyval\nfit_type_phase: polyval\n"), 0644))
	_, err = LoadMode(dir)
	assert.Error(t, err, "matrix files absent")
}

func TestLoadModeBadMetadata(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.yaml"),
		[]byte("surrogate_mode_type: fourier_basis\naffine_map: none\n"), 0644))
	_, err := LoadMode(dir)
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, SaveMode(filepath.Join(root, "l2_m2"), demoData()))
	require.NoError(t, SaveMode(filepath.Join(root, "l3_m1"), demoData()))
	// Distractors the scan must skip.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("x"), 0644))

	modes, err := Discover(root)
	require.NoError(t, err)
	assert.Len(t, modes, 2)
	assert.Contains(t, modes, surrogate.Mode{L: 2, M: 2})
	assert.Contains(t, modes, surrogate.Mode{L: 3, M: 1})
}

func TestDiscoverEmpty(t *testing.T) {
	_, err := Discover(t.TempDir())
	assert.Error(t, err)
}

func TestWriteDemoLoadsAndEvaluates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteDemo(root))

	modes, err := Discover(root)
	require.NoError(t, err)
	assert.Len(t, modes, 3)

	mm, err := surrogate.NewMultiMode(modes, fits.NewRegistry())
	require.NoError(t, err)

	wf, err := mm.Evaluate(4.0, surrogate.MultiOpts{})
	require.NoError(t, err)
	assert.Len(t, wf.HPlus, 221)
	assert.Empty(t, wf.Warnings)
}

func TestWriteWaveform(t *testing.T) {
	wf := &surrogate.Waveform{
		T:      []float64{0, 1, 2},
		HPlus:  []float64{0.5, -0.25, 0.125},
		HCross: []float64{1, 2, 3},
	}

	dir := t.TempDir()
	for _, format := range []string{"txt", "csv", "json"} {
		path := filepath.Join(dir, "wf."+format)
		require.NoError(t, WriteWaveform(path, format, wf))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, WriteWaveform(filepath.Join(dir, "wf.bin"), "bin", wf))
}

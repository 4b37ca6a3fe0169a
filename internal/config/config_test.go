package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwsurr/internal/surrogate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultQ, cfg.Q)
	assert.True(t, cfg.Sum)
	assert.Equal(t, "txt", cfg.Format)
	assert.Nil(t, cfg.Theta)
	assert.Nil(t, cfg.PhiRef)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	theta := 1.2
	cfg := DefaultConfig()
	cfg.Surrogate = "/data/sur"
	cfg.Q = 3.5
	cfg.TotalMass = 60
	cfg.Distance = 410
	cfg.Theta = &theta
	cfg.Modes = []string{"l2_m2", "l2_m-2"}
	cfg.Grid = SampleGridCfg{Start: -100, Stop: 10, Num: 500}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, Save(path, &Config{Surrogate: "/data/sur"}))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/sur", loaded.Surrogate)
}

func TestSamples(t *testing.T) {
	cfg := DefaultConfig()

	samples, err := cfg.Samples()
	require.NoError(t, err)
	assert.Nil(t, samples, "no grid spec keeps the native grid")

	cfg.Grid = SampleGridCfg{Start: 0, Stop: 1, Num: 5}
	samples, err = cfg.Samples()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, samples)

	cfg.Grid = SampleGridCfg{Start: 2, Stop: 1, Num: 5}
	_, err = cfg.Samples()
	assert.Error(t, err)
}

func TestModeList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Modes = []string{"l2_m2", "l3_m-3"}

	modes, err := cfg.ModeList()
	require.NoError(t, err)
	assert.Equal(t, []surrogate.Mode{{L: 2, M: 2}, {L: 3, M: -3}}, modes)

	cfg.Modes = []string{"22"}
	_, err = cfg.ModeList()
	assert.Error(t, err)
}

// Package store reads and writes the text container format for surrogate
// data: one directory per mode holding an info.yaml plus whitespace-
// delimited matrix files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"gwsurr/internal/surrogate"
)

type modeInfo struct {
	ModeType    string     `yaml:"surrogate_mode_type"`
	AffineMap   string     `yaml:"affine_map"`
	FitInterval [2]float64 `yaml:"fit_interval"`

	FitTypeAmp   string `yaml:"fit_type_amp"`
	FitTypePhase string `yaml:"fit_type_phase"`
	FitTypeNorm  string `yaml:"fit_type_norm,omitempty"`
}

// LoadMode reads one mode directory into a validated Data bundle.
func LoadMode(dir string) (*surrogate.Data, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "info.yaml"))
	if err != nil {
		return nil, err
	}
	var info modeInfo
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	d := &surrogate.Data{
		FitInterval:  info.FitInterval,
		AmpFitType:   info.FitTypeAmp,
		PhaseFitType: info.FitTypePhase,
		NormFitType:  info.FitTypeNorm,
	}
	if d.ModeType, err = surrogate.ParseModeType(info.ModeType); err != nil {
		return nil, err
	}
	if d.AffineMap, err = surrogate.ParseAffineMap(info.AffineMap); err != nil {
		return nil, err
	}

	if d.Times, err = readVector(filepath.Join(dir, "times.txt")); err != nil {
		return nil, err
	}
	if d.FitparamsAmp, err = readMatrix(filepath.Join(dir, "fitparams_amp.txt")); err != nil {
		return nil, err
	}
	if d.FitparamsPhase, err = readMatrix(filepath.Join(dir, "fitparams_phase.txt")); err != nil {
		return nil, err
	}

	switch d.ModeType {
	case surrogate.WaveformBasis:
		if d.BRe, err = readMatrix(filepath.Join(dir, "B_real.txt")); err != nil {
			return nil, err
		}
		if d.BIm, err = readMatrix(filepath.Join(dir, "B_imag.txt")); err != nil {
			return nil, err
		}
		d.V, _ = readOptionalMatrix(filepath.Join(dir, "V.txt"))
		d.R, _ = readOptionalMatrix(filepath.Join(dir, "R.txt"))
	case surrogate.AmpPhaseBasis:
		if d.BAmp, err = readMatrix(filepath.Join(dir, "B_amp.txt")); err != nil {
			return nil, err
		}
		if d.BPhase, err = readMatrix(filepath.Join(dir, "B_phase.txt")); err != nil {
			return nil, err
		}
	}

	if info.FitTypeNorm != "" {
		if d.FitparamsNorm, err = readVector(filepath.Join(dir, "fitparams_norm.txt")); err != nil {
			return nil, err
		}
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return d, nil
}

// SaveMode writes a Data bundle into dir in the text container layout.
func SaveMode(dir string, d *surrogate.Data) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	info := modeInfo{
		ModeType:     d.ModeType.String(),
		AffineMap:    d.AffineMap.String(),
		FitInterval:  d.FitInterval,
		FitTypeAmp:   d.AmpFitType,
		FitTypePhase: d.PhaseFitType,
		FitTypeNorm:  d.NormFitType,
	}
	raw, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "info.yaml"), raw, 0644); err != nil {
		return err
	}

	if err := writeVector(filepath.Join(dir, "times.txt"), d.Times); err != nil {
		return err
	}
	if err := writeMatrix(filepath.Join(dir, "fitparams_amp.txt"), d.FitparamsAmp); err != nil {
		return err
	}
	if err := writeMatrix(filepath.Join(dir, "fitparams_phase.txt"), d.FitparamsPhase); err != nil {
		return err
	}

	switch d.ModeType {
	case surrogate.WaveformBasis:
		if err := writeMatrix(filepath.Join(dir, "B_real.txt"), d.BRe); err != nil {
			return err
		}
		if err := writeMatrix(filepath.Join(dir, "B_imag.txt"), d.BIm); err != nil {
			return err
		}
		if d.V != nil {
			if err := writeMatrix(filepath.Join(dir, "V.txt"), d.V); err != nil {
				return err
			}
		}
		if d.R != nil {
			if err := writeMatrix(filepath.Join(dir, "R.txt"), d.R); err != nil {
				return err
			}
		}
	case surrogate.AmpPhaseBasis:
		if err := writeMatrix(filepath.Join(dir, "B_amp.txt"), d.BAmp); err != nil {
			return err
		}
		if err := writeMatrix(filepath.Join(dir, "B_phase.txt"), d.BPhase); err != nil {
			return err
		}
	}

	if d.NormFitType != "" {
		if err := writeVector(filepath.Join(dir, "fitparams_norm.txt"), d.FitparamsNorm); err != nil {
			return err
		}
	}
	return nil
}

func readMatrix(path string) (*mat.Dense, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]float64
	cols := -1
	for ln, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if cols == -1 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%s: ragged row at line %d", path, ln+1)
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			if row[i], err = strconv.ParseFloat(f, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, ln+1, err)
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty matrix", path)
	}
	m := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}
	return m, nil
}

func readOptionalMatrix(path string) (*mat.Dense, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return readMatrix(path)
}

func readVector(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []float64
	for ln, f := range strings.Fields(string(raw)) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", path, ln, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeMatrix(path string, m *mat.Dense) error {
	var b strings.Builder
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func writeVector(path string, v []float64) error {
	var b strings.Builder
	for _, x := range v {
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gwsurr/internal/surrogate"
)

// WriteWaveform saves an evaluated waveform as plain text (three
// columns), csv or json.
func WriteWaveform(path, format string, wf *surrogate.Waveform) error {
	switch format {
	case "txt":
		var b strings.Builder
		for i := range wf.T {
			fmt.Fprintf(&b, "%s %s %s\n",
				strconv.FormatFloat(wf.T[i], 'g', -1, 64),
				strconv.FormatFloat(wf.HPlus[i], 'g', -1, 64),
				strconv.FormatFloat(wf.HCross[i], 'g', -1, 64))
		}
		return os.WriteFile(path, []byte(b.String()), 0644)

	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		w := csv.NewWriter(f)
		defer w.Flush()
		if err := w.Write([]string{"time", "h_plus", "h_cross"}); err != nil {
			return err
		}
		for i := range wf.T {
			row := []string{
				strconv.FormatFloat(wf.T[i], 'g', -1, 64),
				strconv.FormatFloat(wf.HPlus[i], 'g', -1, 64),
				strconv.FormatFloat(wf.HCross[i], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil

	case "json":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			T      []float64 `json:"t"`
			HPlus  []float64 `json:"h_plus"`
			HCross []float64 `json:"h_cross"`
		}{wf.T, wf.HPlus, wf.HCross})

	default:
		return fmt.Errorf("not a valid output format: %s", format)
	}
}

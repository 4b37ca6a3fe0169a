package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gwsurr/internal/surrogate"
)

var modeDirPattern = regexp.MustCompile(`^l\d+_m\d+$`)

// Discover loads every mode directory (l<ell>_m<m>) under root.
func Discover(root string) (map[surrogate.Mode]*surrogate.Data, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	modes := make(map[surrogate.Mode]*surrogate.Data)
	for _, entry := range entries {
		if !entry.IsDir() || !modeDirPattern.MatchString(entry.Name()) {
			continue
		}
		key, err := surrogate.ParseModeKey(entry.Name())
		if err != nil {
			return nil, err
		}
		d, err := LoadMode(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		modes[key] = d
	}

	if len(modes) == 0 {
		return nil, fmt.Errorf("no surrogate modes found under %s", root)
	}
	return modes, nil
}

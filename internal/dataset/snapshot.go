package dataset

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoSnapshots is returned when a precinct directory has no
// timestamped run folders.
var ErrNoSnapshots = errors.New("no timestamped snapshot folders found")

// LatestSnapshot returns the name of the latest run folder inside a
// precinct directory. Folder names are timestamp-formatted
// ("2006-01-02_150405"), so the lexicographically greatest name is the
// chronologically latest.
func LatestSnapshot(precinctDir string) (string, error) {
	entries, err := os.ReadDir(precinctDir)
	if err != nil {
		return "", fmt.Errorf("failed to read precinct directory: %w", err)
	}

	latest := ""
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() > latest {
			latest = e.Name()
		}
	}
	if latest == "" {
		return "", ErrNoSnapshots
	}
	return latest, nil
}

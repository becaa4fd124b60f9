// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RhizfileNames are the file names searched for, in order of preference.
var RhizfileNames = []string{"Rhizfile", "rhizfile"}

// ErrNotFound is returned when no Rhizfile exists in the start directory or
// any of its parents.
var ErrNotFound = errors.New("no Rhizfile found")

// FindRhizfile looks for a Rhizfile in startDir and then in each parent
// directory up to the filesystem root. It returns the absolute path of the
// first match.
func FindRhizfile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		for _, name := range RhizfileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
		}
		dir = parent
	}
}

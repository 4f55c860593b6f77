package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/srec/pkg/adapters/fs"
)

// ErrRootNotFound is returned when no archive marker exists above a directory.
var ErrRootNotFound = errors.New("archive root not found")

// FindRoot walks up from startDir to the first directory holding a gains
// log or an index directory, and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, fs.GainsLogName) || hasFile(dir, fs.DefaultSystemDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrRootNotFound
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

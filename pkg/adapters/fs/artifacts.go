package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// stagePrefix marks temp and backup files created next to archive artifacts.
// Neither form ends in Extension, so watchers and listings skip them.
const stagePrefix = ".srec-stage-"

// rename is swapped in tests to simulate a failing filesystem.
var rename = os.Rename

// artifact is one file produced by a save: the recap, its companion or the
// index.
type artifact struct {
	path string
	data []byte
}

// placement tracks an artifact between staging and its final rename.
type placement struct {
	artifact
	temp   string
	backup string // previous file moved aside, if any
	placed bool
}

// writeArtifacts puts every artifact in place or none of them. All contents
// are first written to temp files beside their targets; only then are they
// renamed over the targets in order. If a rename fails, the artifacts
// already placed are taken back and any files they replaced are restored.
func writeArtifacts(items ...artifact) error {
	batch := make([]*placement, 0, len(items))
	defer func() {
		for _, p := range batch {
			if p.temp != "" {
				os.Remove(p.temp)
			}
		}
	}()

	for _, it := range items {
		temp, err := stage(it)
		if err != nil {
			return err
		}
		batch = append(batch, &placement{artifact: it, temp: temp})
	}

	for _, p := range batch {
		if err := place(p); err != nil {
			return errors.Join(err, rollback(batch))
		}
	}

	for _, p := range batch {
		if p.backup != "" {
			os.Remove(p.backup)
		}
	}
	return nil
}

// stage writes an artifact to a synced temp file in its target directory.
func stage(it artifact) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(it.path), stagePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", filepath.Base(it.path), err)
	}
	name := f.Name()

	_, werr := f.Write(it.data)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(name, 0644)
	}
	if werr != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to stage %s: %w", filepath.Base(it.path), werr)
	}
	return name, nil
}

func place(p *placement) error {
	if info, err := os.Stat(p.path); err == nil && info.Mode().IsRegular() {
		backup := filepath.Join(filepath.Dir(p.path), stagePrefix+filepath.Base(p.path)+".bak")
		if err := rename(p.path, backup); err != nil {
			return fmt.Errorf("failed to set aside %s: %w", p.path, err)
		}
		p.backup = backup
	}
	if err := rename(p.temp, p.path); err != nil {
		return fmt.Errorf("failed to place %s: %w", p.path, err)
	}
	p.temp = ""
	p.placed = true
	return nil
}

// rollback undoes placements in reverse order.
func rollback(batch []*placement) error {
	var errs []error
	for i := len(batch) - 1; i >= 0; i-- {
		p := batch[i]
		if p.placed {
			if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
				errs = append(errs, err)
			}
		}
		if p.backup != "" {
			if err := os.Rename(p.backup, p.path); err != nil {
				errs = append(errs, fmt.Errorf("failed to restore %s: %w", p.path, err))
			}
		}
	}
	return errors.Join(errs...)
}

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/srec/pkg/adapters/fs"
	"github.com/aretw0/srec/pkg/core"
)

// Init prepares the archive at base and returns its repository.
func Init(base string, opts ...Option) (core.Repository, error) {
	o := parseOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	if o.baseDir != "" {
		base = o.baseDir
	}
	if base == "" {
		return nil, fmt.Errorf("archive path is empty")
	}

	repo := initFS(base, o)
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS maps options onto the filesystem archive configuration.
func initFS(path string, o *options) *fs.Repository {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	systemDir := o.systemDir
	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	gitless := detectGitless(path, o)
	if gitless {
		logger.Debug("archive is not versioned", "path", path)
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		AutoInit:     o.autoInit,
		Gitless:      gitless,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       logger,
		SystemDir:    systemDir,
		Now:          o.now,
		ErrorHandler: o.errorHandler,
	})
}

// detectGitless honours WithVersioning, otherwise versions only archives
// that already sit in a Git work tree root.
func detectGitless(path string, o *options) bool {
	if o.gitless != nil {
		return *o.gitless
	}
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		return !fs.IsGitInstalled()
	}
	return true
}

package srec

import (
	"log/slog"
	"time"

	"github.com/aretw0/srec/internal/platform"
	"github.com/aretw0/srec/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Request describes a recap to generate.
type Request = core.Request

// Recap is a generated session continuity file.
type Recap = core.Recap

// Loaded is a recap read back from the archive.
type Loaded = core.Loaded

// --- Configuration ---

// Option defines a functional option for configuring srec.
type Option = platform.Option

// WithBaseDir overrides the archive root.
func WithBaseDir(dir string) Option {
	return platform.WithBaseDir(dir)
}

// WithAutoInit creates the archive (and Git repository when versioned) if missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables Git commits per recap.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist ensures the archive directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly refuses writes to the archive.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir names the hidden index directory (default ".srec").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the size of the event broker buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatchPattern sets the default watch pattern.
func WithWatchPattern(pattern string) Option {
	return platform.WithWatchPattern(pattern)
}

// WithWatcherErrorHandler receives runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a recap service over the archive at base.
func New(base string, opts ...Option) (*core.Service, error) {
	return platform.New(base, opts...)
}

// Init initializes an archive explicitly.
func Init(base string, opts ...Option) (core.Repository, error) {
	return platform.Init(base, opts...)
}

// FindRoot looks upwards from dir for an archive root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// Bootstrap renders the prompt that resumes a loaded recap.
func Bootstrap(l Loaded) string {
	return core.Bootstrap(l)
}

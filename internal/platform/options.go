package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/srec/pkg/core"
)

// options holds the internal configuration for the srec service.
type options struct {
	baseDir      string
	repository   core.Repository
	logger       *slog.Logger
	now          func() time.Time
	autoInit     bool
	gitless      *bool
	mustExist    bool
	readOnly     bool
	systemDir    string
	eventBuffer  int
	watchPattern string
	errorHandler func(error)
}

// Option defines a functional option for configuring srec.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		autoInit: true,
	}
}

func parseOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBaseDir overrides the archive root passed to New or Init.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithAutoInit controls whether the archive directory and Git repository
// are created when missing. Defaults to true.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithVersioning enables or disables Git commits for each recap.
// When not set, an archive is versioned only if it already holds a .git
// directory.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		gitless := !enabled
		o.gitless = &gitless
	}
}

// WithMustExist requires the archive directory to already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithLogger sets the logger for the service and the archive.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for dates, filenames and log
// rows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRepository injects a storage adapter. The filesystem archive is
// skipped when one is provided.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithSystemDir names the hidden index directory. Defaults to ".srec".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithEventBuffer sets the size of the watch broker buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithWatchPattern sets the default doublestar pattern for Watch.
func WithWatchPattern(pattern string) Option {
	return func(o *options) {
		o.watchPattern = pattern
	}
}

// WithWatcherErrorHandler receives runtime watcher failures, which are
// otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save and Delete return ErrReadOnly.
// 2. Directory creation and Git init are skipped.
// 3. Index cache updates are not persisted.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

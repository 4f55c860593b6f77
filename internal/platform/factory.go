package platform

import (
	"github.com/aretw0/srec/pkg/core"
)

// New opens the archive at base and wires the recap service.
//
//	svc, err := platform.New("./examples", platform.WithVersioning(false))
func New(base string, opts ...Option) (*core.Service, error) {
	repo, err := Init(base, opts...)
	if err != nil {
		return nil, err
	}

	o := parseOptions(opts)
	return core.NewService(repo,
		core.WithServiceLogger(o.logger),
		core.WithClock(o.now),
		core.WithEventBuffer(o.eventBuffer),
		core.WithWatchPattern(o.watchPattern),
	), nil
}

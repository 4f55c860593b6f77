// Package lifecycle exposes archive change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/srec/pkg/core"
)

// Filter decides whether an archive event is forwarded.
type Filter func(core.Event) bool

// SkipDeletes forwards creations and modifications only.
func SkipDeletes(e core.Event) bool {
	return e.Type != core.EventDelete
}

type archiveSource struct {
	events <-chan core.Event
	keep   Filter
	out    chan lifecycle.Event
}

// NewSource wraps a core event channel. A nil filter forwards everything.
func NewSource(events <-chan core.Event, keep Filter) lifecycle.Source {
	if keep == nil {
		keep = func(core.Event) bool { return true }
	}
	return &archiveSource{
		events: events,
		keep:   keep,
		out:    make(chan lifecycle.Event),
	}
}

func (s *archiveSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx ends or the upstream channel closes.
func (s *archiveSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.keep(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

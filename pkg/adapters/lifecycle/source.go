// Package lifecycle bridges generator progress events to the generic
// lifecycle event runtime, so host applications can supervise a generation
// run alongside their other event sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/sppack/sppack/pkg/core"
)

type progressSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	accept map[core.EventType]struct{}
}

// Option configures the bridge.
type Option func(*progressSource)

// WithTypes restricts the stream to the given event types. Runs with many
// items are chatty; a supervisor that only cares about run boundaries can
// drop the per-item traffic at the bridge instead of in its own loop.
func WithTypes(types ...core.EventType) Option {
	return func(s *progressSource) {
		s.accept = make(map[core.EventType]struct{}, len(types))
		for _, t := range types {
			s.accept[t] = struct{}{}
		}
	}
}

// WithBuffer sets the output channel's buffer so a briefly slow consumer
// does not stall the bridge. Zero means unbuffered.
func WithBuffer(n int) Option {
	return func(s *progressSource) {
		s.out = make(chan lifecycle.Event, n)
	}
}

// NewSource creates a lifecycle.Source that emits generator progress events.
// Close the input channel to end the stream.
func NewSource(events <-chan core.Event, opts ...Option) lifecycle.Source {
	s := &progressSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *progressSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *progressSource) Start(ctx context.Context) error {
	// The bridge goroutine is tracked by the lifecycle runtime itself.
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
				if !s.wants(e.Type) {
					continue
				}
				// core.Event implements lifecycle.Event (has String())
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

func (s *progressSource) wants(t core.EventType) bool {
	if s.accept == nil {
		return true
	}
	_, ok := s.accept[t]
	return ok
}

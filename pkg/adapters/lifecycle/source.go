// Package lifecycle exposes profile-manager events as a lifecycle.Source so a
// host application can route them through its own event loop.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/cadence/pkg/core"
)

// Watcher is the part of core.Manager the source needs.
type Watcher interface {
	Watch(ctx context.Context, buffer int) <-chan core.Event
}

type profileSource struct {
	watcher Watcher
	buffer  int
	events  <-chan core.Event
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source forwarding an existing event channel.
// The source's channel is closed once events is closed or the context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &profileSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

// NewManagerSource creates a lifecycle.Source that subscribes to w when
// started, so the subscription lives exactly as long as the Start context.
func NewManagerSource(w Watcher, buffer int) lifecycle.Source {
	return &profileSource{
		watcher: w,
		buffer:  buffer,
		out:     make(chan lifecycle.Event),
	}
}

func (s *profileSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *profileSource) Start(ctx context.Context) error {
	events := s.events
	if s.watcher != nil {
		events = s.watcher.Watch(ctx, s.buffer)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
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

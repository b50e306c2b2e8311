// SPDX-License-Identifier: MIT

package edm

import (
	"context"
	"fmt"
)

// Source supplies whole events by index. Implementations decode the
// on-disk container; the graph engine only ever sees the returned *Event,
// which must not be mutated afterwards.
type Source interface {
	// Len reports the number of events available.
	Len() int

	// Event loads event index. It returns ErrEventNotFound (wrapped) when
	// index is outside [0, Len()).
	Event(ctx context.Context, index int) (*Event, error)
}

// MemorySource serves events held in memory.
type MemorySource struct {
	events []*Event
}

// NewMemorySource returns a Source over events. Each event's Index is
// rewritten to its position in the slice.
func NewMemorySource(events ...*Event) (*MemorySource, error) {
	for i, ev := range events {
		if ev == nil {
			return nil, fmt.Errorf("edm: NewMemorySource: event %d: %w", i, ErrNilEvent)
		}
		ev.Index = i
	}
	return &MemorySource{events: events}, nil
}

// Len implements Source.
func (s *MemorySource) Len() int { return len(s.events) }

// Event implements Source. The same *Event is returned on every call.
func (s *MemorySource) Event(ctx context.Context, index int) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.events) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrEventNotFound, index, len(s.events))
	}
	return s.events[index], nil
}

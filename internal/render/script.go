package render

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned by Script.Next once every event is used.
var ErrScriptExhausted = errors.New("script exhausted")

// Script is a deterministic Input that replays canned events in order.
type Script struct {
	mu     sync.Mutex
	events []Event
	served int
}

// NewScript creates a Script over events.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

func (s *Script) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.served >= len(s.events) {
		return Event{}, ErrScriptExhausted
	}
	ev := s.events[s.served]
	s.served++
	return ev, nil
}

// Push appends events.
func (s *Script) Push(events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// Remaining returns the number of events not yet served.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events) - s.served
}

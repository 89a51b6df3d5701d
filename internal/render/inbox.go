package render

import (
	"context"
	"sync"
)

// Inbox is the Input fed by an interactive front end. Events are only
// accepted while the flow is waiting in Next; anything posted while the
// flow is busy is dropped, so at most one submission is ever in flight.
type Inbox struct {
	mu      sync.Mutex
	waiting bool
	ch      chan Event
}

// NewInbox creates an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{ch: make(chan Event, 1)}
}

// Post delivers ev if the flow is waiting. It reports whether the event
// was accepted.
func (in *Inbox) Post(ev Event) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.waiting {
		return false
	}
	in.waiting = false
	in.ch <- ev
	return true
}

// Waiting reports whether the flow is blocked on user input.
func (in *Inbox) Waiting() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.waiting
}

func (in *Inbox) Next(ctx context.Context) (Event, error) {
	in.mu.Lock()
	in.waiting = true
	in.mu.Unlock()

	select {
	case ev := <-in.ch:
		return ev, nil
	case <-ctx.Done():
		in.mu.Lock()
		in.waiting = false
		select {
		case <-in.ch:
		default:
		}
		in.mu.Unlock()
		return Event{}, ctx.Err()
	}
}

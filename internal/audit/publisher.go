package audit

import (
	"context"
	"time"
)

// Publisher is the interface services emit through. Implementations must not
// block request handling: delivery is asynchronous.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// ChannelPublisher hands events to an in-process worker through a buffered
// channel. When the buffer is full the event is dropped rather than stalling
// a request; audit here is best-effort operational history, not a ledger.
type ChannelPublisher struct {
	inbox chan Event
}

func NewChannelPublisher(buffer int) *ChannelPublisher {
	return &ChannelPublisher{inbox: make(chan Event, buffer)}
}

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
	}
	return nil
}

// Inbox exposes the channel for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.inbox
}

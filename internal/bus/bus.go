package bus

import (
	"context"
	"fmt"

	"github.com/hmeyer/daypeak/internal/domain/models"
	"github.com/hmeyer/daypeak/internal/logger"
)

// Handler receives state-change events for the entity ids its subscription
// covers. Handlers run on the bus's single dispatch goroutine, one event at a
// time, so they never execute concurrently with each other.
type Handler func(models.StateChangeEvent)

type subscription struct {
	entityIDs map[string]struct{}
	handler   Handler
}

// Bus is an in-process state-change event bus with serialized delivery.
//
// Publish enqueues events from any goroutine; a single dispatch goroutine
// started by Run drains the queue and invokes matching subscribers in
// subscription order. Subscriptions must all be registered before Run is
// called.
type Bus struct {
	events chan models.StateChangeEvent
	subs   []subscription
}

// New creates a Bus with the given queue capacity.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{events: make(chan models.StateChangeEvent, buffer)}
}

// Subscribe registers a handler for the given entity ids. Events for other
// entities are not delivered to it. Not safe to call once Run has started.
func (b *Bus) Subscribe(entityIDs []string, h Handler) {
	ids := make(map[string]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		ids[id] = struct{}{}
	}
	b.subs = append(b.subs, subscription{entityIDs: ids, handler: h})
}

// Publish enqueues a state-change event for dispatch.
//
// Returns an error when the queue is full, so callers at the ingress edge
// can surface backpressure instead of blocking.
func (b *Bus) Publish(ev models.StateChangeEvent) error {
	select {
	case b.events <- ev:
		return nil
	default:
		return fmt.Errorf("event queue full (capacity %d)", cap(b.events))
	}
}

// Run dispatches queued events until the context is cancelled. Events still
// queued at cancellation are dropped.
func (b *Bus) Run(ctx context.Context) error {
	logger.L().Info().Int("subscriptions", len(b.subs)).Msg("event bus started")
	for {
		select {
		case <-ctx.Done():
			logger.L().Info().Msg("event bus stopped")
			return nil
		case ev := <-b.events:
			b.dispatch(ev)
		}
	}
}

func (b *Bus) dispatch(ev models.StateChangeEvent) {
	for _, sub := range b.subs {
		if _, ok := sub.entityIDs[ev.EntityID]; ok {
			sub.handler(ev)
		}
	}
}

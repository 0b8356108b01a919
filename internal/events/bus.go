package events

import (
	"context"
	"sync"
)

// Event is implemented by every domain event published on the bus.
type Event interface {
	Type() string
}

// Handler reacts to a published event. Handlers run synchronously in
// publish order; they must not assume any other synchronization.
type Handler func(ctx context.Context, e Event)

// Bus is a small in-process publish/subscribe boundary. The settlement
// engine publishes here instead of constructing its collaborators,
// which keeps the service graph acyclic.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	hs := b.handlers[e.Type()]
	b.mu.RUnlock()
	for _, h := range hs {
		h(ctx, e)
	}
}

package pubsub

import (
	"context"
	"sync"
)

// subBufferSize is the buffer size of the channel for each subscription.
const subBufferSize = 256

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

type (
	// EventType identifies the type of event.
	EventType string

	// Event is a single published payload together with its type.
	Event[T any] struct {
		Type    EventType
		Payload T
	}
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Broker allows clients to publish events and subscribe to events.
type Broker[T any] struct {
	subs map[chan Event[T]]struct{}
	mu   sync.Mutex // sync access to subs

	logger Logger
}

func NewBroker[T any](logger Logger) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[chan Event[T]]struct{}),
		logger: logger,
	}
}

// Subscribe subscribes the caller to a stream of events. The subscription is
// closed when the context is canceled.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan Event[T], subBufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		<-ctx.Done()
		b.unsubscribe(sub)
	}()

	return sub
}

// Publish an event to subscribers. A subscriber whose buffer is full is
// forceably unsubscribed rather than allowed to block publishers.
func (b *Broker[T]) Publish(t EventType, payload T) {
	var full []chan Event[T]

	b.mu.Lock()
	for sub := range b.subs {
		select {
		case sub <- Event[T]{Type: t, Payload: payload}:
		default:
			full = append(full, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range full {
		b.logger.Error("unsubscribing full subscriber", "queue_length", subBufferSize)
		b.unsubscribe(sub)
	}
}

func (b *Broker[T]) unsubscribe(sub chan Event[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; !ok {
		// already unsubscribed
		return
	}
	close(sub)
	delete(b.subs, sub)
}

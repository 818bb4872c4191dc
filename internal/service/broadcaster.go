package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taskboard/internal/realtime"
)

const broadcastTimeout = 5 * time.Second

// Errors returned by EventQueue.Broadcast.
var (
	ErrEventQueueFull   = errors.New("event queue full")
	ErrEventQueueClosed = errors.New("event queue closed")
)

// Broadcaster fans an event out to connected subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev realtime.Event) error
}

// EventQueue hands events to the next Broadcaster from a single goroutine,
// in the order they were queued. Broadcast never waits: when the queue is
// full the event is dropped.
type EventQueue struct {
	next   Broadcaster
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	events chan realtime.Event
	done   chan struct{}
}

// NewEventQueue starts a queue holding up to size pending events.
func NewEventQueue(next Broadcaster, logger *slog.Logger, size int) *EventQueue {
	q := &EventQueue{
		next:   next,
		logger: logger.With("component", "event_queue"),
		events: make(chan realtime.Event, size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

// Broadcast queues ev for delivery.
func (q *EventQueue) Broadcast(_ context.Context, ev realtime.Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrEventQueueClosed
	}
	select {
	case q.events <- ev:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s", ErrEventQueueFull, ev.Name)
	}
}

// Close stops accepting events and waits until the queued ones are handed
// on.
func (q *EventQueue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()
	<-q.done
}

func (q *EventQueue) run() {
	defer close(q.done)
	for ev := range q.events {
		ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		if err := q.next.Broadcast(ctx, ev); err != nil {
			q.logger.Warn("broadcast failed", "event", ev.Name, "error", err)
		}
		cancel()
	}
}

package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrBufferFull is returned when the async buffer cannot take another event.
var ErrBufferFull = errors.New("audit buffer full")

// Buffered hands events to a background goroutine so request handling never
// waits on the sink. Close drains what is already queued.
type Buffered struct {
	next   Publisher
	events chan Event
	logger *slog.Logger
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewBuffered(next Publisher, size int, logger *slog.Logger) *Buffered {
	if size < 1 {
		size = 1
	}
	b := &Buffered{
		next:   next,
		events: make(chan Event, size),
		logger: logger,
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *Buffered) run() {
	defer b.wg.Done()
	for e := range b.events {
		if err := b.next.Publish(context.Background(), e); err != nil {
			b.logger.Error("failed to publish audit event",
				"error", err,
				"action", string(e.Action),
				"event_id", e.ID.String(),
			)
		}
	}
}

// Publish enqueues e without blocking.
func (b *Buffered) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errors.New("audit publisher closed")
	}

	select {
	case b.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		b.logger.WarnContext(ctx, "audit buffer full, event dropped", "action", string(e.Action))
		return ErrBufferFull
	}
}

// Close stops accepting events and waits for the queue to drain.
func (b *Buffered) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	b.wg.Wait()
}

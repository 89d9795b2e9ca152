// Package event is the in-process notification bus the engine publishes to
// after every committed mutation. Publishing never blocks: a subscriber that
// falls behind misses events rather than stalling the writer.
package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type Type string

const (
	HistoryChanged Type = "history_changed"
	ConfigWarning  Type = "config_warning"
	CopyFailed     Type = "copy_failed"
)

// Event is one notification.
type Event struct {
	Type   Type
	Reason string
	Count  int
	ItemID string
	Err    error
	At     time.Time
}

const defaultBuffer = 16

type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Event
	next    uint64
	closed  bool
	done    chan struct{}
	watch   sync.WaitGroup
	dropped atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan Event), done: make(chan struct{})}
}

// Subscribe returns a channel of events that is closed when ctx is done or
// the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, defaultBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.next
	b.next++
	b.subs[id] = ch
	b.watch.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.watch.Done()
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-b.done:
		}
	}()
	return ch
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers e to every subscriber with room in its buffer.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close closes every subscriber channel and waits for the per-subscriber
// watchers to exit. Later publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()

	b.watch.Wait()
}

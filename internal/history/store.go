// Package history holds the in-memory clipboard history: a most-recent-first
// sequence bounded by a runtime capacity, deduplicated on raw text.
//
// Every mutation takes the store's write lock, so inserts from the poller,
// user actions and pressure eviction are serialized. Readers get value copies
// taken under the read lock and never observe a half-applied mutation.
package history

import (
	"sync"

	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/event"
	"github.com/its-jojoo/otterclip/internal/logging"
	"github.com/its-jojoo/otterclip/internal/metrics"
)

const (
	DefaultCapacity = 200

	// WarningKeepLoaded is how many of the most recent entries keep their
	// image payloads on a warning-level pressure signal.
	WarningKeepLoaded = 10

	// CriticalCapacity caps the capacity on a critical pressure signal.
	CriticalCapacity = 50
)

// Persister receives snapshots after committed mutations. Both calls must
// return without waiting for I/O.
type Persister interface {
	Save(items []core.Item)
	Erase()
}

type Option func(*Store)

func WithPersister(p Persister) Option { return func(s *Store) { s.persist = p } }

func WithBus(b *event.Bus) Option { return func(s *Store) { s.bus = b } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = logging.OrNop(l).Named("history") } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Store) { s.metrics = m } }

type Store struct {
	mu       sync.RWMutex
	items    []*core.Item
	texts    map[string]struct{}
	capacity int

	persist Persister
	bus     *event.Bus
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New returns an empty store. A non-positive capacity selects DefaultCapacity.
func New(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		texts:    make(map[string]struct{}),
		capacity: capacity,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetHistory(0, capacity)
	return s
}

// Insert prepends it unless it is text already present in history, in which
// case the existing entry stays where it is and Insert reports false.
func (s *Store) Insert(it *core.Item) bool {
	if it == nil {
		return false
	}
	if err := it.Validate(); err != nil {
		s.log.Error("rejecting invalid item", zap.String(logging.KeyItemID, it.ID), zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if it.Kind == core.KindText {
		if _, dup := s.texts[it.OriginalText]; dup {
			s.metrics.Insert(false)
			return false
		}
		s.texts[it.OriginalText] = struct{}{}
	}

	s.items = append(s.items, nil)
	copy(s.items[1:], s.items)
	s.items[0] = it
	s.truncateLocked()

	s.metrics.Insert(true)
	s.commitLocked("insert", true)
	return true
}

// Clear empties the store and erases durable state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.texts = make(map[string]struct{})
	if s.persist != nil {
		s.persist.Erase()
	}
	s.commitLocked("clear", false)
}

// SetCapacity changes the bound and trims the oldest entries if needed.
// Non-positive values are ignored and reported as false.
func (s *Store) SetCapacity(n int) bool {
	if n <= 0 {
		s.log.Warn("ignoring non-positive capacity", zap.Int(logging.KeyCapacity, n))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.capacity = n
	if s.truncateLocked() > 0 {
		s.commitLocked("capacity", true)
	} else {
		s.metrics.SetHistory(len(s.items), s.capacity)
	}
	return true
}

// Restore loads items read from durable storage, oldest last, into an empty
// store. Dedup and capacity apply; nothing is persisted back.
func (s *Store) Restore(items []*core.Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		if err := it.Validate(); err != nil {
			s.log.Warn("skipping invalid stored item", zap.String(logging.KeyItemID, it.ID), zap.Error(err))
			continue
		}
		if it.Kind == core.KindText {
			if _, dup := s.texts[it.OriginalText]; dup {
				continue
			}
			s.texts[it.OriginalText] = struct{}{}
		}
		s.items = append(s.items, it)
		restored++
	}
	s.truncateLocked()
	s.commitLocked("restore", false)
	return restored
}

// Snapshot returns a copy of the current sequence, most recent first.
func (s *Store) Snapshot() []core.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// View returns a snapshot together with the capacity it was taken under.
func (s *Store) View() ([]core.Item, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.capacity
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id string) (core.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return *it, true
		}
	}
	return core.Item{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capacity
}

func (s *Store) snapshotLocked() []core.Item {
	out := make([]core.Item, len(s.items))
	for i, it := range s.items {
		out[i] = *it
	}
	return out
}

// truncateLocked drops entries beyond capacity and returns how many went.
func (s *Store) truncateLocked() int {
	if len(s.items) <= s.capacity {
		return 0
	}
	dropped := len(s.items) - s.capacity
	for i := s.capacity; i < len(s.items); i++ {
		if s.items[i].Kind == core.KindText {
			delete(s.texts, s.items[i].OriginalText)
		}
		s.items[i] = nil
	}
	s.items = s.items[:s.capacity]
	return dropped
}

// commitLocked runs after a structural change, still under the write lock,
// so snapshots reach the persister in mutation order.
func (s *Store) commitLocked(reason string, persist bool) {
	s.metrics.SetHistory(len(s.items), s.capacity)
	if persist && s.persist != nil {
		s.persist.Save(s.snapshotLocked())
	}
	if s.bus != nil {
		s.bus.Publish(event.Event{Type: event.HistoryChanged, Reason: reason, Count: len(s.items)})
	}
}

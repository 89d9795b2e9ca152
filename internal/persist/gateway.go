// Package persist moves history snapshots to durable storage off the
// mutation path. At most one operation is pending at a time: a newer
// snapshot replaces an older one that has not been written yet.
package persist

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/adapter/storage"
	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/logging"
	"github.com/its-jojoo/otterclip/internal/metrics"
)

const DefaultOpTimeout = 10 * time.Second

type opKind int

const (
	opSave opKind = iota
	opErase
)

func (k opKind) String() string {
	if k == opErase {
		return "erase"
	}
	return "save"
}

type op struct {
	kind  opKind
	items []core.Item
}

type Gateway struct {
	store     storage.Store
	log       *zap.Logger
	metrics   *metrics.Metrics
	opTimeout time.Duration

	drainMu sync.Mutex

	mu       sync.Mutex
	pending  *op
	busy     bool
	started  bool
	closed   bool
	waiters  []chan struct{}
	coalesce int

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func New(store storage.Store, log *zap.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		store:     store,
		log:       logging.OrNop(log).Named("persist"),
		metrics:   m,
		opTimeout: DefaultOpTimeout,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the background writer. Operations queued before Start are
// written once it runs.
func (g *Gateway) Start() {
	g.mu.Lock()
	if g.started || g.closed {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.mu.Unlock()

	go g.loop()
	g.signal()
}

// Save queues items for writing and returns immediately.
func (g *Gateway) Save(items []core.Item) {
	g.enqueue(&op{kind: opSave, items: items})
}

// Erase queues removal of durable state and returns immediately.
func (g *Gateway) Erase() {
	g.enqueue(&op{kind: opErase})
}

func (g *Gateway) enqueue(o *op) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.log.Debug("dropping persistence op after close", zap.Stringer("op", o.kind))
		return
	}
	superseded := g.pending != nil
	if superseded {
		g.coalesce++
	}
	g.pending = o
	g.mu.Unlock()
	if superseded {
		g.metrics.Coalesced()
	}
	g.signal()
}

func (g *Gateway) signal() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// coalesced reports how many queued operations were superseded before
// being written.
func (g *Gateway) coalesced() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coalesce
}

// Load reads durable history. Failures are logged and yield no items.
func (g *Gateway) Load(ctx context.Context) []*core.Item {
	items, err := g.store.Load(ctx)
	if err != nil {
		g.log.Warn("failed to load history, starting empty", zap.Error(err))
		g.metrics.Persist("load", err)
		return nil
	}
	g.metrics.Persist("load", nil)

	out := make([]*core.Item, 0, len(items))
	for i := range items {
		it := items[i]
		out = append(out, &it)
	}
	g.log.Debug("history loaded", zap.Int(logging.KeyCount, len(out)))
	return out
}

// flush waits until every queued operation has been written.
func (g *Gateway) flush(ctx context.Context) error {
	g.mu.Lock()
	if g.pending == nil && !g.busy {
		g.mu.Unlock()
		return nil
	}
	if !g.started {
		g.mu.Unlock()
		g.drain()
		return nil
	}
	ch := make(chan struct{})
	g.waiters = append(g.waiters, ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes whatever is pending and stops the writer. Later Save and
// Erase calls are dropped.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	started := g.started
	g.mu.Unlock()

	if !started {
		g.drain()
		return nil
	}

	close(g.stop)
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) loop() {
	defer close(g.done)
	for {
		select {
		case <-g.wake:
			g.drain()
		case <-g.stop:
			g.drain()
			return
		}
	}
}

func (g *Gateway) drain() {
	g.drainMu.Lock()
	defer g.drainMu.Unlock()
	for {
		g.mu.Lock()
		o := g.pending
		g.pending = nil
		if o == nil {
			g.busy = false
			for _, ch := range g.waiters {
				close(ch)
			}
			g.waiters = nil
			g.mu.Unlock()
			return
		}
		g.busy = true
		g.mu.Unlock()

		g.run(o)
	}
}

func (g *Gateway) run(o *op) {
	ctx, cancel := context.WithTimeout(context.Background(), g.opTimeout)
	defer cancel()

	var err error
	switch o.kind {
	case opSave:
		err = g.store.Save(ctx, o.items)
	case opErase:
		err = g.store.Erase(ctx)
	}
	g.metrics.Persist(o.kind.String(), err)
	if err != nil {
		g.log.Warn("persistence failed", zap.Stringer("op", o.kind), zap.Error(err))
		return
	}
	g.log.Debug("persisted", zap.Stringer("op", o.kind), zap.Int(logging.KeyCount, len(o.items)))
}

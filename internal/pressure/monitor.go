// Package pressure turns resource-pressure readings into warning/critical
// signals and applies the matching eviction tier to history.
package pressure

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/history"
	"github.com/its-jojoo/otterclip/internal/logging"
)

const signalBuffer = 4

// Signal is one classified pressure notification.
type Signal struct {
	Level  core.PressureLevel
	Source string
	Value  float64
}

// Evictor is the history mutation a signal triggers.
type Evictor interface {
	EvictTier(level core.PressureLevel) history.EvictResult
}

// Source produces signals until ctx is done.
type Source interface {
	Name() string
	Run(ctx context.Context, emit func(Signal))
}

// Monitor runs its sources and applies signals on its own goroutine, so
// eviction never runs on the clipboard poller's timeline.
type Monitor struct {
	evictor Evictor
	sources []Source
	log     *zap.Logger
	signals chan Signal

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	handled func(Signal, history.EvictResult)
}

func NewMonitor(ev Evictor, log *zap.Logger, sources ...Source) *Monitor {
	return &Monitor{
		evictor: ev,
		sources: sources,
		log:     logging.OrNop(log).Named("pressure"),
		signals: make(chan Signal, signalBuffer),
	}
}

// onHandled registers a callback invoked after each eviction. Call before Start.
func (m *Monitor) onHandled(fn func(Signal, history.EvictResult)) {
	m.handled = fn
}

func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.loop(ctx)

	for _, src := range m.sources {
		m.wg.Add(1)
		go func(src Source) {
			defer m.wg.Done()
			m.log.Debug("pressure source started", zap.String("source", src.Name()))
			src.Run(ctx, func(s Signal) {
				if s.Source == "" {
					s.Source = src.Name()
				}
				m.Signal(s)
			})
		}(src)
	}
}

// Stop cancels the sources and waits for the loop to exit. Safe to call
// more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Signal queues s without blocking. It reports false when the queue is full
// and the signal was dropped.
func (m *Monitor) Signal(s Signal) bool {
	select {
	case m.signals <- s:
		return true
	default:
		m.log.Warn("pressure signal dropped, queue full",
			zap.String(logging.KeyLevel, s.Level.String()), zap.String("source", s.Source))
		return false
	}
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-m.signals:
			m.log.Info("pressure signal",
				zap.String(logging.KeyLevel, s.Level.String()),
				zap.String("source", s.Source),
				zap.Float64("value", s.Value))
			res := m.evictor.EvictTier(s.Level)
			if m.handled != nil {
				m.handled(s, res)
			}
		}
	}
}

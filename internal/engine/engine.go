// Package engine is the clipboard history engine: it owns the history store
// and wires the poller, sanitizer, persistence and pressure monitor around
// it. Everything outside this package talks to OtterClip through Engine.
package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/adapter/storage"
	"github.com/its-jojoo/otterclip/internal/config"
	"github.com/its-jojoo/otterclip/internal/core"
	cliperrors "github.com/its-jojoo/otterclip/internal/errors"
	"github.com/its-jojoo/otterclip/internal/event"
	"github.com/its-jojoo/otterclip/internal/history"
	"github.com/its-jojoo/otterclip/internal/logging"
	"github.com/its-jojoo/otterclip/internal/metrics"
	"github.com/its-jojoo/otterclip/internal/persist"
	"github.com/its-jojoo/otterclip/internal/pressure"
	"github.com/its-jojoo/otterclip/internal/usecase/capture"
	"github.com/its-jojoo/otterclip/internal/usecase/search"
)

// Deps are the collaborators an engine runs against.
type Deps struct {
	Pasteboard clipboard.Pasteboard
	Storage    storage.Store
	Logger     *zap.Logger
	Metrics    *metrics.Metrics

	// Sources feed the pressure monitor. Manual signals work without any.
	Sources []pressure.Source
}

type Engine struct {
	id  string
	log *zap.Logger

	pb      clipboard.Pasteboard
	storage storage.Store
	metrics *metrics.Metrics

	bus       *event.Bus
	history   *history.Store
	gateway   *persist.Gateway
	poller    *capture.Poller
	monitor   *pressure.Monitor
	search    *search.Service
	sanitizer atomic.Pointer[core.Sanitizer]

	life   context.Context
	cancel context.CancelFunc

	// Last applied config values; reloads act only on what changed.
	cfgMu      sync.Mutex
	rules      []core.Rule
	capacity   int
	monitoring bool

	closeOnce sync.Once
}

// New restores history from storage and starts background persistence and
// the pressure monitor. Clipboard polling starts when cfg enables it.
func New(ctx context.Context, cfg *config.Config, deps Deps) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Pasteboard == nil {
		return nil, cliperrors.NewClipboardUnavailable(clipboard.ErrUnsupported)
	}
	if deps.Storage == nil {
		return nil, cliperrors.NewInternal(fmt.Errorf("engine: storage is required"))
	}

	log := logging.OrNop(deps.Logger)
	e := &Engine{
		id:      uuid.NewString(),
		pb:      deps.Pasteboard,
		storage: deps.Storage,
		metrics: deps.Metrics,
		bus:     event.NewBus(),
	}
	e.log = log.Named("engine").With(zap.String("engine", e.id))
	e.life, e.cancel = context.WithCancel(context.Background())

	e.gateway = persist.New(deps.Storage, log, deps.Metrics)
	e.history = history.New(cfg.MaxHistoryItems,
		history.WithPersister(e.gateway),
		history.WithBus(e.bus),
		history.WithLogger(log),
		history.WithMetrics(deps.Metrics),
	)
	e.search = search.New(e.history)

	restored := e.gateway.Load(ctx)
	for _, it := range restored {
		it.Attach(e.id)
	}
	n := e.history.Restore(restored)
	e.gateway.Start()

	e.SetRules(cfg.Rules)
	e.capacity = cfg.MaxHistoryItems
	e.monitoring = cfg.MonitoringEnabled

	e.poller = capture.New(deps.Pasteboard, e.history,
		capture.WithInterval(cfg.PollInterval),
		capture.WithLogger(log),
		capture.WithOwner(e.id),
		capture.WithSanitizer(e.sanitizer.Load),
	)

	e.monitor = pressure.NewMonitor(e.history, log, deps.Sources...)
	e.monitor.Start(e.life)

	core.RegisterOwner(e.id, e)

	if cfg.MonitoringEnabled {
		e.StartMonitoring(ctx)
	}
	e.log.Info("engine ready",
		zap.Int(logging.KeyCount, n),
		zap.Int(logging.KeyCapacity, e.history.Capacity()))
	return e, nil
}

// ID is the engine's owner handle.
func (e *Engine) ID() string { return e.id }

// StartMonitoring begins clipboard polling. Content already on the
// clipboard is not captured. Polling runs until StopMonitoring, Close, or
// until ctx is done, whichever comes first.
func (e *Engine) StartMonitoring(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	run, cancel := context.WithCancel(e.life)
	context.AfterFunc(ctx, cancel)
	e.poller.Start(run)
}

// StopMonitoring stops polling; no capture happens after it returns.
func (e *Engine) StopMonitoring() {
	e.poller.Stop()
}

func (e *Engine) IsMonitoring() bool {
	return e.poller.Running()
}

// Poll runs one capture pass immediately, whether or not monitoring is on.
func (e *Engine) Poll(ctx context.Context) (bool, error) {
	return e.poller.Tick(ctx)
}

// GetHistory summarizes history, most recent first.
func (e *Engine) GetHistory() []Summary {
	return summarize(e.history.Snapshot())
}

// Search returns text entries matching query, best first.
func (e *Engine) Search(query string, limit int) []Summary {
	return summarize(e.search.Query(query, search.Options{Limit: limit}))
}

func (e *Engine) Len() int      { return e.history.Len() }
func (e *Engine) Capacity() int { return e.history.Capacity() }

// ClearHistory empties history and erases durable state.
func (e *Engine) ClearHistory() {
	e.history.Clear()
	e.log.Info("history cleared")
}

// SetMaxHistoryItems changes capacity. Non-positive values are ignored and
// reported as false.
func (e *Engine) SetMaxHistoryItems(n int) bool {
	return e.history.SetCapacity(n)
}

// SetRules swaps the sanitization rule set. Rules that cannot be used are
// skipped; each is logged and published as a configuration warning, and
// returned. Items already captured keep their sanitized text.
func (e *Engine) SetRules(rules []core.Rule) []error {
	s, problems := core.NewSanitizer(rules)
	e.sanitizer.Store(s)

	e.cfgMu.Lock()
	e.rules = slices.Clone(rules)
	e.cfgMu.Unlock()

	var errs []error
	for _, p := range problems {
		err := cliperrors.NewInvalidRule(p)
		errs = append(errs, err)
		e.log.Warn("sanitization rule skipped", zap.Error(p))
		e.bus.Publish(event.Event{Type: event.ConfigWarning, Reason: "rule", Err: err, At: time.Now()})
	}
	e.log.Info("sanitization rules applied", zap.Int("active", s.Len()), zap.Int("skipped", len(problems)))
	return errs
}

// ApplyConfig applies a reloaded configuration. Each setting is compared
// with the value last applied, not with live state, so a reload that leaves
// a setting alone keeps pressure-reduced capacity and a user pause intact.
func (e *Engine) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	e.cfgMu.Lock()
	rulesChanged := !slices.Equal(e.rules, cfg.Rules)
	capChanged := cfg.MaxHistoryItems != e.capacity
	monChanged := cfg.MonitoringEnabled != e.monitoring
	e.capacity = cfg.MaxHistoryItems
	e.monitoring = cfg.MonitoringEnabled
	e.cfgMu.Unlock()

	if rulesChanged {
		e.SetRules(cfg.Rules)
	}
	if capChanged {
		e.SetMaxHistoryItems(cfg.MaxHistoryItems)
	}
	if monChanged {
		if cfg.MonitoringEnabled {
			e.StartMonitoring(e.life)
		} else {
			e.StopMonitoring()
		}
	}
	e.log.Info("configuration applied",
		zap.Bool("rules", rulesChanged),
		zap.Bool("capacity", capChanged),
		zap.Bool("monitoring", monChanged))
}

// SignalPressure injects a pressure signal. It reports false when the
// signal queue is full.
func (e *Engine) SignalPressure(level core.PressureLevel) bool {
	return e.monitor.Signal(pressure.Signal{Level: level, Source: "manual"})
}

// Subscribe streams engine events until ctx is done or the engine closes.
func (e *Engine) Subscribe(ctx context.Context) <-chan event.Event {
	return e.bus.Subscribe(ctx)
}

// CopyToClipboard writes an item back to the system clipboard: the
// sanitized text for text items, the payload for loaded images. The write
// is not captured as a new history entry.
func (e *Engine) CopyToClipboard(ctx context.Context, id string) error {
	it, ok := e.history.Get(id)
	if !ok {
		return e.copyFailed(id, cliperrors.NewNotFound(id))
	}

	var write func(ctx context.Context) error
	switch it.Kind {
	case core.KindText:
		text := it.Text()
		write = func(ctx context.Context) error { return e.pb.WriteText(ctx, text) }
	case core.KindImage:
		if !it.ImageLoaded() {
			return e.copyFailed(id, cliperrors.NewContentUnavailable(id))
		}
		img := it.Image
		write = func(ctx context.Context) error { return e.pb.WriteImage(ctx, img) }
	default:
		return e.copyFailed(id, cliperrors.NewNotCopyable(id, string(it.Kind)))
	}

	if err := e.poller.Exclusive(ctx, write); err != nil {
		return e.copyFailed(id, cliperrors.NewClipboardUnavailable(err))
	}
	e.metrics.Copy("ok")
	e.log.Debug("copied to clipboard", zap.String(logging.KeyItemID, id))
	return nil
}

func (e *Engine) copyFailed(id string, err *cliperrors.ClipError) error {
	e.metrics.Copy(string(err.Code))
	e.log.Warn("copy failed", zap.String(logging.KeyItemID, id), zap.Error(err))
	e.bus.Publish(event.Event{Type: event.CopyFailed, ItemID: id, Err: err, At: time.Now()})
	return err
}

// Close stops polling and the pressure monitor, flushes pending writes and
// releases storage. The engine cannot be used afterwards.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	e.closeOnce.Do(func() {
		e.poller.Stop()
		e.monitor.Stop()
		e.cancel()

		if ferr := e.gateway.Close(ctx); ferr != nil {
			err = cliperrors.NewStorage("flush", ferr)
		}
		if cerr := e.storage.Close(); cerr != nil && err == nil {
			err = cliperrors.NewStorage("close", cerr)
		}
		core.ReleaseOwner(e.id)
		e.bus.Close()
		e.log.Info("engine closed")
	})
	return err
}

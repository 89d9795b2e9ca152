// Package capture turns pasteboard changes into history items.
package capture

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/logging"
)

const DefaultInterval = 500 * time.Millisecond

// Inserter receives captured items.
type Inserter interface {
	Insert(it *core.Item) bool
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) { p.log = logging.OrNop(l).Named("poller") }
}

// WithSanitizer sets the provider consulted on every text capture, so rule
// changes take effect on the next tick.
func WithSanitizer(fn func() *core.Sanitizer) Option {
	return func(p *Poller) { p.sanitizer = fn }
}

// WithOwner attaches captured items to the given owner handle.
func WithOwner(owner string) Option {
	return func(p *Poller) { p.owner = owner }
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// Poller samples the pasteboard change counter on a fixed cadence.
type Poller struct {
	pb        clipboard.Pasteboard
	sink      Inserter
	interval  time.Duration
	log       *zap.Logger
	sanitizer func() *core.Sanitizer
	owner     string
	now       func() time.Time

	// tickMu serializes ticks with Exclusive sections.
	tickMu    sync.Mutex
	lastCount int64
	primed    bool

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(pb clipboard.Pasteboard, sink Inserter, opts ...Option) *Poller {
	p := &Poller{
		pb:       pb,
		sink:     sink,
		interval: DefaultInterval,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start primes the change counter and begins polling until Stop or until
// ctx is done. Calling Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.alive() {
		return
	}
	if p.running {
		p.cancel()
	}

	p.prime(ctx)

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.loop(ctx, p.done)
	p.log.Info("clipboard monitoring started", zap.Duration("interval", p.interval))
}

// Stop halts polling and returns once the loop has exited; no tick runs
// after it returns.
func (p *Poller) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if !p.running {
		return
	}
	p.cancel()
	<-p.done
	p.running = false
	p.log.Info("clipboard monitoring stopped")
}

func (p *Poller) Running() bool {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	return p.alive()
}

func (p *Poller) alive() bool {
	if !p.running {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if _, err := p.Tick(ctx); err != nil {
				p.log.Debug("tick skipped", zap.Error(err))
			}
		}
	}
}

// Tick checks the change counter once and records the new payload if it
// moved. It reports whether an item was inserted. On a read error the
// counter is left untouched so the change is retried.
func (p *Poller) Tick(ctx context.Context) (bool, error) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	count, err := p.pb.ChangeCount(ctx)
	if err != nil {
		return false, err
	}
	if p.primed && count == p.lastCount {
		return false, nil
	}

	c, ok, err := Extract(ctx, p.pb)
	if err != nil {
		return false, err
	}
	p.lastCount = count
	p.primed = true
	if !ok {
		return false, nil
	}

	it := p.build(c)
	it.Attach(p.owner)
	inserted := p.sink.Insert(it)
	if inserted {
		p.log.Debug("captured",
			zap.String(logging.KeyItemID, it.ID),
			zap.String(logging.KeyKind, string(it.Kind)))
	}
	return inserted, nil
}

// Exclusive runs fn with ticks held off and then re-primes the counter, so
// a write made by fn is not captured as a new clipboard event.
func (p *Poller) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}
	if count, err := p.pb.ChangeCount(ctx); err == nil {
		p.lastCount = count
		p.primed = true
	}
	return nil
}

func (p *Poller) prime(ctx context.Context) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	count, err := p.pb.ChangeCount(ctx)
	if err != nil {
		p.log.Debug("could not prime change counter", zap.Error(err))
		p.primed = false
		return
	}
	p.lastCount = count
	p.primed = true
}

func (p *Poller) build(c Content) *core.Item {
	at := p.now()
	switch c.Kind {
	case core.KindText:
		var sanitized *string
		if p.sanitizer != nil {
			if s := p.sanitizer(); s != nil && s.Len() > 0 {
				out := s.Sanitize(c.Text)
				if out != c.Text {
					sanitized = &out
				}
			}
		}
		return core.NewTextItem(c.Text, sanitized, at)
	case core.KindImage:
		return core.NewImageItem(c.Image, at)
	default:
		return core.NewUnknownItem(at)
	}
}

package pressure

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/logging"
)

const DefaultInterval = 5 * time.Second

// Sampler returns the current reading for a source.
type Sampler func(ctx context.Context) (float64, error)

// PollingSource samples on an interval and emits edge-triggered signals.
type PollingSource struct {
	name       string
	interval   time.Duration
	thresholds Thresholds
	sample     Sampler
	log        *zap.Logger

	// giveUp stops the source after the first failed sample.
	giveUp bool
}

// NewMemorySource watches system memory usage percent.
func NewMemorySource(interval time.Duration, t Thresholds, log *zap.Logger) *PollingSource {
	return newPollingSource("memory", interval, t, MemoryUsedPercent, log, false)
}

// NewThermalSource watches the hottest temperature sensor, in Celsius.
// Platforms without readable sensors disable the source on first sample.
func NewThermalSource(interval time.Duration, t Thresholds, log *zap.Logger) *PollingSource {
	return newPollingSource("thermal", interval, t, MaxTemperature, log, true)
}

// NewSamplerSource builds a source from any sampler.
func NewSamplerSource(name string, interval time.Duration, t Thresholds, s Sampler, log *zap.Logger) *PollingSource {
	return newPollingSource(name, interval, t, s, log, false)
}

func newPollingSource(name string, interval time.Duration, t Thresholds, s Sampler, log *zap.Logger, giveUp bool) *PollingSource {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PollingSource{
		name:       name,
		interval:   interval,
		thresholds: t,
		sample:     s,
		log:        logging.OrNop(log).Named("pressure." + name),
		giveUp:     giveUp,
	}
}

func (p *PollingSource) Name() string { return p.name }

func (p *PollingSource) Run(ctx context.Context, emit func(Signal)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var e edge
	for {
		v, err := p.sample(ctx)
		if err != nil {
			if p.giveUp {
				p.log.Debug("source unavailable, disabling", zap.Error(err))
				return
			}
			p.log.Debug("sample failed", zap.Error(err))
		} else if level, ok := e.observe(p.thresholds.Classify(v)); ok {
			emit(Signal{Level: level, Source: p.name, Value: v})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// MemoryUsedPercent reads virtual memory usage via gopsutil.
func MemoryUsedPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// MaxTemperature returns the hottest sensor reading via gopsutil. Partial
// sensor failures are tolerated as long as one reading came back.
func MaxTemperature(ctx context.Context) (float64, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if len(temps) == 0 {
		if err == nil {
			err = errNoSensors
		}
		return 0, err
	}
	max := temps[0].Temperature
	for _, t := range temps[1:] {
		if t.Temperature > max {
			max = t.Temperature
		}
	}
	return max, nil
}

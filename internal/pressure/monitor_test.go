package pressure

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/history"
)

type recordingEvictor struct {
	mu     sync.Mutex
	levels []core.PressureLevel
	seen   chan core.PressureLevel
}

func newRecordingEvictor() *recordingEvictor {
	return &recordingEvictor{seen: make(chan core.PressureLevel, 16)}
}

func (r *recordingEvictor) EvictTier(level core.PressureLevel) history.EvictResult {
	r.mu.Lock()
	r.levels = append(r.levels, level)
	r.mu.Unlock()
	r.seen <- level
	return history.EvictResult{Level: level}
}

func waitLevel(t *testing.T, ch <-chan core.PressureLevel) core.PressureLevel {
	t.Helper()
	select {
	case l := <-ch:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for eviction")
		return 0
	}
}

func TestMonitor_SignalAppliesEviction(t *testing.T) {
	ev := newRecordingEvictor()
	m := NewMonitor(ev, nil)
	m.Start(context.Background())
	t.Cleanup(m.Stop)

	require.True(t, m.Signal(Signal{Level: core.PressureWarning, Source: "manual"}))
	assert.Equal(t, core.PressureWarning, waitLevel(t, ev.seen))

	require.True(t, m.Signal(Signal{Level: core.PressureCritical, Source: "manual"}))
	assert.Equal(t, core.PressureCritical, waitLevel(t, ev.seen))
}

func TestMonitor_SignalDropsWhenQueueFull(t *testing.T) {
	m := NewMonitor(newRecordingEvictor(), nil)
	for i := 0; i < signalBuffer; i++ {
		require.True(t, m.Signal(Signal{Level: core.PressureWarning}))
	}
	assert.False(t, m.Signal(Signal{Level: core.PressureWarning}))
}

func TestMonitor_QueuedSignalsRunAfterStart(t *testing.T) {
	ev := newRecordingEvictor()
	m := NewMonitor(ev, nil)
	require.True(t, m.Signal(Signal{Level: core.PressureCritical}))

	m.Start(context.Background())
	t.Cleanup(m.Stop)
	assert.Equal(t, core.PressureCritical, waitLevel(t, ev.seen))
}

func TestMonitor_StopIsIdempotent(t *testing.T) {
	m := NewMonitor(newRecordingEvictor(), nil)
	m.Stop()
	m.Start(context.Background())
	m.Start(context.Background())
	m.Stop()
	m.Stop()
}

func TestMonitor_HandledCallback(t *testing.T) {
	ev := newRecordingEvictor()
	m := NewMonitor(ev, nil)
	got := make(chan Signal, 1)
	m.onHandled(func(s Signal, _ history.EvictResult) { got <- s })
	m.Start(context.Background())
	t.Cleanup(m.Stop)

	m.Signal(Signal{Level: core.PressureWarning, Source: "manual"})
	select {
	case s := <-got:
		assert.Equal(t, "manual", s.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestMonitor_SourceSignalsReachEvictor(t *testing.T) {
	var mu sync.Mutex
	readings := []float64{10, 90, 91, 99, 50, 90}
	sample := func(context.Context) (float64, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(readings) == 0 {
			return 0, nil
		}
		v := readings[0]
		readings = readings[1:]
		return v, nil
	}
	src := NewSamplerSource("fake", time.Millisecond, Thresholds{Warning: 85, Critical: 95}, sample, nil)

	ev := newRecordingEvictor()
	m := NewMonitor(ev, nil, src)
	m.Start(context.Background())
	t.Cleanup(m.Stop)

	assert.Equal(t, core.PressureWarning, waitLevel(t, ev.seen))
	assert.Equal(t, core.PressureCritical, waitLevel(t, ev.seen))
	assert.Equal(t, core.PressureWarning, waitLevel(t, ev.seen))

	select {
	case l := <-ev.seen:
		t.Fatalf("unexpected extra eviction %v", l)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPollingSource_GivesUpWhenConfigured(t *testing.T) {
	calls := 0
	src := newPollingSource("thermal", time.Millisecond, Thresholds{Warning: 1},
		func(context.Context) (float64, error) {
			calls++
			return 0, errors.New("no sensors")
		}, nil, true)

	done := make(chan struct{})
	go func() {
		src.Run(context.Background(), func(Signal) { t.Error("unexpected signal") })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
	assert.Equal(t, 1, calls)
}

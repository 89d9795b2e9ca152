package pressure

import "github.com/its-jojoo/otterclip/internal/core"

// Thresholds classifies a reading: at or above Critical is critical, at or
// above Warning is a warning. A zero threshold is disabled.
type Thresholds struct {
	Warning  float64
	Critical float64
}

func (t Thresholds) Classify(v float64) (core.PressureLevel, bool) {
	switch {
	case t.Critical > 0 && v >= t.Critical:
		return core.PressureCritical, true
	case t.Warning > 0 && v >= t.Warning:
		return core.PressureWarning, true
	}
	return 0, false
}

// edge reports a level only when it rises above the last reported one, so a
// sustained condition yields one signal rather than one per sample.
type edge struct {
	last core.PressureLevel
}

func (e *edge) observe(level core.PressureLevel, ok bool) (core.PressureLevel, bool) {
	if !ok {
		e.last = 0
		return 0, false
	}
	if level <= e.last {
		e.last = level
		return 0, false
	}
	e.last = level
	return level, true
}

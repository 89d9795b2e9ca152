package engine

import (
	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/config"
	"github.com/its-jojoo/otterclip/internal/pressure"
)

// PressureSources builds the system pressure sources for cfg. It returns
// nil when pressure sampling is disabled.
func PressureSources(cfg config.PressureConfig, log *zap.Logger) []pressure.Source {
	if !cfg.Enabled {
		return nil
	}
	return []pressure.Source{
		pressure.NewMemorySource(cfg.Interval, pressure.Thresholds{
			Warning:  cfg.MemoryWarningPercent,
			Critical: cfg.MemoryCriticalPercent,
		}, log),
		pressure.NewThermalSource(cfg.Interval, pressure.Thresholds{
			Warning:  cfg.ThermalWarningCelsius,
			Critical: cfg.ThermalCriticalCelsius,
		}, log),
	}
}

package history

import (
	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/logging"
)

// EvictResult describes what a pressure tier reclaimed.
type EvictResult struct {
	Level    core.PressureLevel
	Unloaded int
	Trimmed  int
	Capacity int
}

// EvictTier reclaims memory for a pressure level.
//
// Warning unloads image payloads of every entry past the first
// WarningKeepLoaded positions. Critical unloads all image payloads and caps
// capacity at CriticalCapacity. Items keep their position and metadata.
func (s *Store) EvictTier(level core.PressureLevel) EvictResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := EvictResult{Level: level}
	switch level {
	case core.PressureWarning:
		for i := WarningKeepLoaded; i < len(s.items); i++ {
			if s.items[i].Unload() {
				res.Unloaded++
			}
		}
	case core.PressureCritical:
		for _, it := range s.items {
			if it.Unload() {
				res.Unloaded++
			}
		}
		if s.capacity > CriticalCapacity {
			s.capacity = CriticalCapacity
		}
		res.Trimmed = s.truncateLocked()
	default:
		s.log.Warn("ignoring unknown pressure level", zap.Int(logging.KeyLevel, int(level)))
		res.Capacity = s.capacity
		return res
	}
	res.Capacity = s.capacity

	s.metrics.Pressure(level.String(), res.Unloaded)
	if res.Unloaded > 0 || res.Trimmed > 0 {
		s.commitLocked("pressure-"+level.String(), true)
	} else {
		s.metrics.SetHistory(len(s.items), s.capacity)
	}
	s.log.Info("pressure eviction",
		zap.String(logging.KeyLevel, level.String()),
		zap.Int("unloaded", res.Unloaded),
		zap.Int("trimmed", res.Trimmed),
		zap.Int(logging.KeyCapacity, res.Capacity))
	return res
}

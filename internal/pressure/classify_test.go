package pressure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/its-jojoo/otterclip/internal/core"
)

func TestThresholds_Classify(t *testing.T) {
	th := Thresholds{Warning: 85, Critical: 95}

	_, ok := th.Classify(50)
	assert.False(t, ok)

	l, ok := th.Classify(85)
	assert.True(t, ok)
	assert.Equal(t, core.PressureWarning, l)

	l, ok = th.Classify(97)
	assert.True(t, ok)
	assert.Equal(t, core.PressureCritical, l)

	_, ok = Thresholds{}.Classify(100)
	assert.False(t, ok)
}

func TestEdge_ReportsRisesOnly(t *testing.T) {
	var e edge
	steps := []struct {
		level core.PressureLevel
		ok    bool
		want  bool
	}{
		{core.PressureWarning, true, true},
		{core.PressureWarning, true, false},
		{core.PressureCritical, true, true},
		{core.PressureWarning, true, false},
		{core.PressureCritical, true, true},
		{0, false, false},
		{core.PressureWarning, true, true},
	}
	for i, s := range steps {
		_, got := e.observe(s.level, s.ok)
		assert.Equal(t, s.want, got, "step %d", i)
	}
}

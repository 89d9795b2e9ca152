package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/otterclip/internal/core"
)

const sample = `
max_history_items: 50
poll_interval: 250ms
storage:
  driver: file
rules:
  - name: passwords
    pattern: "password=.*"
    action: mask
    enabled: true
    order: 2
  - pattern: "token"
    action: replace
    replacement: "[t]"
    enabled: true
    order: 1
pressure:
  memory_warning_percent: 70
log:
  level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "otterclip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.True(t, cfg.MonitoringEnabled)
	assert.Equal(t, 50, cfg.MaxHistoryItems)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 70.0, cfg.Pressure.MemoryWarningPercent)
	assert.Equal(t, 95.0, cfg.Pressure.MemoryCriticalPercent)
	assert.Equal(t, 5*time.Second, cfg.Pressure.Interval)

	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "passwords", cfg.Rules[0].Name)
	assert.Equal(t, core.ActionMask, cfg.Rules[0].Action)
	assert.Equal(t, 2, cfg.Rules[0].Order)
	assert.Equal(t, "[t]", cfg.Rules[1].Replacement)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, sample)
	t.Setenv("OTTERCLIP_MAX_HISTORY_ITEMS", "7")
	t.Setenv("OTTERCLIP_STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxHistoryItems)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoad_MissingFileInSearchPathUsesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	src, err := Open("")
	require.NoError(t, err)
	assert.Empty(t, src.File())

	cfg, err := src.Config()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.MaxHistoryItems)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.False(t, src.Watch(func(*Config, error) {}))
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: postgres\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestWatch_DeliversReload(t *testing.T) {
	path := writeConfig(t, "max_history_items: 10\n")
	src, err := Open(path)
	require.NoError(t, err)

	got := make(chan *Config, 8)
	require.True(t, src.Watch(func(c *Config, err error) {
		if err == nil {
			got <- c
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("max_history_items: 33\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-got:
			if c.MaxHistoryItems == 33 {
				return
			}
		case <-deadline:
			t.Fatal("reload not delivered")
		}
	}
}

// chdirTemp changes into a fresh temp dir for the test and restores the
// previous working directory on cleanup (t.Chdir requires Go 1.24).
func chdirTemp(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

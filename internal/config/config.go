// Package config loads OtterClip preferences from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/its-jojoo/otterclip/internal/core"
)

const (
	FileName  = "otterclip"
	EnvPrefix = "OTTERCLIP"
)

// Config holds all engine preferences.
type Config struct {
	MonitoringEnabled bool          `mapstructure:"monitoring_enabled"`
	MaxHistoryItems   int           `mapstructure:"max_history_items"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	DataDir           string        `mapstructure:"data_dir"`

	Storage  StorageConfig  `mapstructure:"storage"`
	Rules    []core.Rule    `mapstructure:"rules"`
	Pressure PressureConfig `mapstructure:"pressure"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type PressureConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	Interval               time.Duration `mapstructure:"interval"`
	MemoryWarningPercent   float64       `mapstructure:"memory_warning_percent"`
	MemoryCriticalPercent  float64       `mapstructure:"memory_critical_percent"`
	ThermalWarningCelsius  float64       `mapstructure:"thermal_warning_celsius"`
	ThermalCriticalCelsius float64       `mapstructure:"thermal_critical_celsius"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		MonitoringEnabled: true,
		MaxHistoryItems:   200,
		PollInterval:      500 * time.Millisecond,
		DataDir:           DefaultDataDir(),
		Storage:           StorageConfig{Driver: "sqlite"},
		Pressure: PressureConfig{
			Enabled:                true,
			Interval:               5 * time.Second,
			MemoryWarningPercent:   85,
			MemoryCriticalPercent:  95,
			ThermalWarningCelsius:  85,
			ThermalCriticalCelsius: 95,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultDataDir is the per-user directory for history and config.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "otterclip")
	}
	return ".otterclip"
}

// Validate rejects values the engine cannot run with. Capacity is not
// checked here; the engine ignores non-positive capacities itself.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	return errors.Join(errs...)
}

// Source is a loaded viper instance that can be re-read and watched.
type Source struct {
	mu sync.Mutex
	v  *viper.Viper
}

// Open reads configuration from path, or when path is empty from
// otterclip.yaml in the default data dir or the working directory. A
// missing file in the search path is not an error.
func Open(path string) (*Source, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDataDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return &Source{v: v}, nil
}

// Load is Open followed by Config.
func Load(path string) (*Config, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return src.Config()
}

// Config decodes the current values.
func (s *Source) Config() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()
	if err := s.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// File returns the config file in use, or "" when running on defaults.
func (s *Source) File() string {
	return s.v.ConfigFileUsed()
}

// Watch calls fn with the reloaded config whenever the file changes. It
// reports false when there is no file to watch.
func (s *Source) Watch(fn func(*Config, error)) bool {
	if s.File() == "" {
		return false
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(s.Config())
	})
	s.v.WatchConfig()
	return true
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("monitoring_enabled", d.MonitoringEnabled)
	v.SetDefault("max_history_items", d.MaxHistoryItems)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("pressure.enabled", d.Pressure.Enabled)
	v.SetDefault("pressure.interval", d.Pressure.Interval)
	v.SetDefault("pressure.memory_warning_percent", d.Pressure.MemoryWarningPercent)
	v.SetDefault("pressure.memory_critical_percent", d.Pressure.MemoryCriticalPercent)
	v.SetDefault("pressure.thermal_warning_celsius", d.Pressure.ThermalWarningCelsius)
	v.SetDefault("pressure.thermal_critical_celsius", d.Pressure.ThermalCriticalCelsius)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.addr", "")
}

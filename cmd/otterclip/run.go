package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/adapter/storage"
	"github.com/its-jojoo/otterclip/internal/config"
	"github.com/its-jojoo/otterclip/internal/engine"
	"github.com/its-jojoo/otterclip/internal/logging"
	"github.com/its-jojoo/otterclip/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

type runOptions struct {
	configPath      string
	console         bool
	memoryClipboard bool
}

func run(parent context.Context, opts runOptions) error {
	if parent == nil {
		parent = context.Background()
	}

	src, err := config.Open(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := src.Config()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var (
		pb  clipboard.Pasteboard
		mem *clipboard.Memory
	)
	if !opts.memoryClipboard {
		pb, err = clipboard.System()
		if errors.Is(err, clipboard.ErrUnsupported) {
			log.Warn("system clipboard unavailable, falling back to in-process clipboard", zap.Error(err))
			pb, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("failed to open clipboard: %w", err)
		}
	}
	if pb == nil {
		mem = clipboard.NewMemory()
		pb = mem
	}

	st, err := storage.Open(cfg.Storage.Driver, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New()
	var ms *metrics.Server
	if cfg.Metrics.Addr != "" {
		ms = metrics.NewServer(cfg.Metrics.Addr, m, log)
		if err := ms.Start(); err != nil {
			log.Warn("metrics server not started", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := engine.New(ctx, cfg, engine.Deps{
		Pasteboard: pb,
		Storage:    st,
		Logger:     log,
		Metrics:    m,
		Sources:    engine.PressureSources(cfg.Pressure, log),
	})
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to start engine: %w", err)
	}

	if src.Watch(func(c *config.Config, err error) {
		if err != nil {
			log.Warn("ignoring invalid config reload", zap.Error(err))
			return
		}
		eng.ApplyConfig(c)
	}) {
		log.Info("watching config", zap.String("file", src.File()))
	}

	log.Info("otterclip running",
		zap.String("version", version),
		zap.String("dataDir", cfg.DataDir),
		zap.String("storage", cfg.Storage.Driver))

	if opts.console {
		c := newConsole(eng, mem, os.Stdin, os.Stdout)
		go func() {
			if err := c.Run(ctx); err != nil {
				log.Warn("console stopped", zap.Error(err))
			}
			stop()
		}()
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if ms != nil {
		_ = ms.Stop(shutdownCtx)
	}
	if err := eng.Close(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
		return err
	}
	log.Info("otterclip stopped")
	return nil
}

// scatterbox is an interactive sandbox for the scatter brushes: a ground
// plane in an SDL window with every tool bound to its keymap shortcut.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/brush"
	"github.com/Faultbox/scatterbrush/internal/brushes"
	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/host/headless"
	"github.com/Faultbox/scatterbrush/internal/host/sdlhost"
	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
)

const (
	groundUUID = 1
	groundSize = 20
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Scatterbox ===")

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scatterbox stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	presets, err := brushes.LoadPresets(cfg)
	if err != nil {
		return fmt.Errorf("presets: %w", err)
	}

	km, warnings, err := keymap.Load(cfg.Keymap.Path)
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	for _, w := range warnings {
		logger.Warn("keymap", zap.String("warning", w))
	}

	h, err := sdlhost.New(cfg, headless.PlaneSurface(groundUUID, groundSize, mgl64.Ident4()))
	if err != nil {
		return err
	}
	defer h.Close()

	h.Core.Scene.SetPresets(presets)
	h.Core.Simulator.Instances = []headless.Instance{
		{Name: "cube", HalfExtent: mgl64.Vec3{0.25, 0.25, 0.25}},
		{Name: "slab", HalfExtent: mgl64.Vec3{0.5, 0.3, 0.1}},
	}

	rt := brush.NewRuntime(h.Bind(), brushes.NewRegistry(), km, cfg)
	if id := cfg.Brushes.DefaultTool; id != "" {
		if _, err := rt.Activate(id); err != nil {
			logger.Warn("default tool not started", logger.Tool(id), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var updates <-chan *keymap.Keymap
	if cfg.Keymap.Path != "" && cfg.Keymap.Watch {
		w, err := sdlhost.WatchKeymap(ctx, cfg.Keymap.Path)
		if err != nil {
			logger.Warn("keymap hot reload disabled", zap.Error(err))
		} else {
			updates = w.Updates
		}
	}

	logger.Info("running",
		zap.Int("width", h.Viewport.V.Width),
		zap.Int("height", h.Viewport.V.Height),
		zap.String("keymap", cfg.Keymap.Path),
	)
	return h.Run(ctx, rt, updates)
}

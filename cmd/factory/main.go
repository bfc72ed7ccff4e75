package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/factory/internal/config"
	"github.com/l1jgo/factory/internal/core/event"
	"github.com/l1jgo/factory/internal/data"
	"github.com/l1jgo/factory/internal/scripting"
	"github.com/l1jgo/factory/internal/sim"
	"github.com/l1jgo/factory/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              factory  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m    miners · belts · factories on a grid   \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	var (
		ticks = flag.Int("ticks", 0, "run this many ticks as fast as possible and exit (0 = real-time loop)")
		dump  = flag.Bool("dump", false, "print the spatial index tree on exit")
	)
	flag.Parse()

	// 1. Load config
	cfgPath := "config/factory.toml"
	if p := os.Getenv("FACTORY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Build the engine
	engine := sim.New(sim.Options{
		World:          cfg.World(),
		Extent:         cfg.Spatial.RootExtent,
		ReportInterval: cfg.Report.IntervalTicks,
		TickRate:       cfg.Sim.TickRate,
	}, log)
	subscribeEvents(engine.Bus(), log)

	// 4. Starting layout
	printSection("World")
	printStat("Capacity per column", cfg.Sim.MaxEntities)
	printStat("Factory size", cfg.Sim.FactorySize)
	if cfg.Layout.Path != "" {
		layout, err := data.LoadLayout(cfg.Layout.Path)
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
		if _, err := layout.Apply(engine, log); err != nil {
			return fmt.Errorf("apply layout: %w", err)
		}
		printStat("Layout buildings", layout.Count())
	}

	// 5. Scripts
	if cfg.Scripting.Enabled {
		printSection("Scripting")
		lua, err := scripting.NewEngine(cfg.Scripting.Dir, engine, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		if lua.HasTickHook() {
			engine.Register(system.NewScriptSystem(engine.Generations(), lua))
			printOK("on_tick hook registered")
		}
		printOK(fmt.Sprintf("Scripts loaded from %s", cfg.Scripting.Dir))
	}
	printStat("Buildings", engine.State().BuildingCount())
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *ticks > 0 {
		err = runFixed(ctx, engine, *ticks)
	} else {
		err = runLoop(ctx, engine, cfg.Sim.TickRate, log)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	t := engine.Totals()
	log.Info("simulation stopped",
		zap.Uint64("tick", engine.Tick()),
		zap.Int("mined", t.Mined),
		zap.Int("produced", t.Produced),
		zap.Int("handoffs", t.Handoffs))

	if *dump {
		if idx := engine.Index(); idx.Dirty() {
			idx.Rebuild(engine.State())
		}
		if err := engine.Index().Tree().Dump(os.Stdout); err != nil {
			return fmt.Errorf("dump tree: %w", err)
		}
	}
	return nil
}

// runFixed advances n ticks back to back. It stops early if ctx is done.
func runFixed(ctx context.Context, engine *sim.Engine, n int) error {
	printSection("Headless run")
	printReady(fmt.Sprintf("Running %d ticks", n))
	fmt.Println()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		engine.Advance()
	}
	return nil
}

// runLoop advances one tick per rate until ctx is done.
func runLoop(ctx context.Context, engine *sim.Engine, rate time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	printSection("Simulation ready")
	printReady(fmt.Sprintf("Tick loop started (tick: %s)", rate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			engine.Advance()
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return ctx.Err()
		}
	}
}

func subscribeEvents(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.BuildingSpawned) {
		log.Debug("building spawned",
			zap.Uint32("id", uint32(e.ID)),
			zap.Stringer("kind", e.Kind),
			zap.Int32("x", e.X),
			zap.Int32("y", e.Y))
	})
	event.Subscribe(bus, func(e event.BuildingDeleted) {
		log.Debug("building deleted", zap.Uint32("id", uint32(e.ID)), zap.Stringer("kind", e.Kind))
	})
	event.Subscribe(bus, func(e event.ConnectRejected) {
		log.Info("connection rejected", zap.Uint32("source", uint32(e.Source)), zap.Uint32("target", uint32(e.Target)))
	})
	event.Subscribe(bus, func(e event.GenerationCompacted) {
		log.Debug("generation compacted",
			zap.Uint64("tick", e.Tick),
			zap.Int("buildings", e.Buildings),
			zap.Int("miners", e.Miners),
			zap.Int("factories", e.Factories),
			zap.Int("belts", e.Belts))
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slugs/config"
	"github.com/pthm-cable/slugs/game"
	"github.com/pthm-cable/slugs/script"
	"github.com/pthm-cable/slugs/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = derived from frame_dt)")
	scriptPath := flag.String("script", "", "Order script to replay against the selection")
	serveAddr := flag.String("serve", "", "Address for the spectator WebSocket stream (empty = off)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	var runner *script.Runner
	if *scriptPath != "" {
		cmds, err := script.Load(*scriptPath)
		if err != nil {
			slog.Error("failed to load script", "error", err)
			os.Exit(1)
		}
		runner = script.NewRunner(cmds)
		slog.Info("script loaded", "path", *scriptPath, "commands", len(cmds))
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	steps := *stepsPerUpdate
	if steps <= 0 {
		steps = cfg.Derived.StepsPerFrame
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: steps,
		Populate:       true,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hub *stream.Hub
	if *serveAddr != "" {
		hub = stream.NewHub(cfg.Stream.ClientQueue)
		go func() {
			if err := stream.Serve(ctx, *serveAddr, cfg.Stream.Path, hub); err != nil {
				slog.Error("stream stopped", "error", err)
			}
		}()
	}

	// frame runs the per-update side channels shared by both modes.
	frame := func(g *game.Game) {
		if runner != nil {
			runner.Apply(g, g.Clock())
		}
		if hub != nil {
			if err := hub.Broadcast(g.Snapshot()); err != nil {
				slog.Warn("broadcast failed", "error", err)
			}
		}
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := game.NewGameWithOptions(opts)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", g.Seed(),
			"stats_window", statsWindowSec,
			"max_ticks", *maxTicks,
			"steps_per_update", g.StepsPerUpdate(),
		)

		for ctx.Err() == nil {
			frame(g)
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
		slog.Info("interrupted", "tick", g.Tick())
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Slugs")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		frame(g)
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

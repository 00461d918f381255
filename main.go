package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/game"
	"github.com/pthm-cable/bounce/observability"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (empty = disabled)")
	overlays := flag.String("overlay", "", "Comma-separated overlays to enable at start (quadtree,velocities,energy,perf,stats)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var metrics *observability.SimCollector
	if *metricsAddr != "" {
		var err error
		metrics, err = observability.NewSimCollector(prometheus.DefaultRegisterer)
		if err != nil {
			slog.Error("failed to register metrics", "error", err)
			os.Exit(1)
		}
		srv := serveMetrics(*metricsAddr, metrics)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Overlays:       *overlays,
		Metrics:        metrics,
	}

	var err error
	if *headless {
		err = runHeadless(opts, *maxTicks)
	} else {
		err = runWindowed(cfg, opts, *maxTicks)
	}
	if err != nil {
		slog.Error("simulation stopped", "error", err)
		os.Exit(1)
	}
}

// runHeadless runs the simulation without raylib until maxTicks (or forever).
func runHeadless(opts game.Options, maxTicks int) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		if err := g.UpdateHeadless(); err != nil {
			return err
		}
		if maxTicks > 0 && g.Tick() >= int64(maxTicks) {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
	}
}

// runWindowed opens a resizable window and runs until it is closed.
func runWindowed(cfg *config.Config, opts game.Options, maxTicks int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape clears the inspector selection instead of quitting.
	rl.SetExitKey(rl.KeyNull)

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			return err
		}
		g.Draw()

		if maxTicks > 0 && g.Tick() >= int64(maxTicks) {
			break
		}
	}
	return nil
}

func serveMetrics(addr string, collector *observability.SimCollector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics server exited", "error", err)
		}
	}()

	slog.Info("serving Prometheus metrics", "addr", addr)
	return srv
}

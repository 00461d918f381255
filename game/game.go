// Package game drives the simulation: input, the tick loop, telemetry and
// drawing. Headless runs use the same Game without touching raylib.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/camera"
	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/inspector"
	"github.com/pthm-cable/bounce/observability"
	"github.com/pthm-cable/bounce/renderer"
	"github.com/pthm-cable/bounce/sim"
	"github.com/pthm-cable/bounce/telemetry"
	"github.com/pthm-cable/bounce/ui"
)

// maxFrameDT caps the measured frame time so a stalled window does not launch
// particles through the walls on the next frame.
const maxFrameDT = 0.05

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Overlays       string // comma-separated overlay IDs enabled at start

	// Metrics, if set, receives per-tick counters and world gauges.
	Metrics *observability.SimCollector

	// StatsCallback, if set, is called with every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete game state.
type Game struct {
	world   *sim.World
	spawner *sim.Spawner

	// Pending input for the next tick
	spawns []sim.SpawnRequest
	resize *sim.WallBoundsChanged

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	metrics       *observability.SimCollector
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	lastWindow    telemetry.WindowStats
	lastTick      sim.TickStats
	speeds        []float64

	// Rendering, nil when headless
	camera      *camera.Camera
	particles   *renderer.ParticleRenderer
	treeOverlay *renderer.QuadtreeOverlay
	overlays    *ui.OverlayRegistry
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	statsPanel  *ui.StatsPanel
	controls    *ui.ControlsPanel
	inspector   *inspector.Inspector
	energyPanel *inspector.EnergyPanel

	// State
	title          string
	headless       bool
	followWindow   bool // arena tracks the window size
	controlsState  ui.SimControls
	stepsPerUpdate int
	nominalDT      float32
	fixedDT        bool
	windowSec      float64

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the global configuration.
// config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	simOpts, err := sim.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	simOpts.Perf = perf

	world, err := sim.New(simOpts)
	if err != nil {
		return nil, err
	}

	nominalDT := cfg.Derived.DT32
	fixedDT := nominalDT > 0
	if !fixedDT {
		fps := cfg.Screen.TargetFPS
		if fps <= 0 {
			fps = 60
		}
		nominalDT = 1 / float32(fps)
	}
	// Headless runs have no frame clock.
	if opts.Headless {
		fixedDT = true
	}

	windowSec := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		windowSec = opts.StatsWindowSec
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &Game{
		world:          world,
		spawner:        sim.NewSpawner(rng, cfg.Derived.Radius32, cfg.Derived.MaxSpeed),
		perf:           perf,
		collector:      telemetry.NewCollector(windowSec, nominalDT),
		bookmarks:      telemetry.NewBookmarkDetector(12),
		metrics:        opts.Metrics,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		title:          cfg.Screen.Title,
		headless:       opts.Headless,
		followWindow:   cfg.Arena.Width == 0 && cfg.Arena.Height == 0,
		stepsPerUpdate: steps,
		nominalDT:      nominalDT,
		fixedDT:        fixedDT,
		windowSec:      windowSec,
		screenWidth:    float32(cfg.Screen.Width),
		screenHeight:   float32(cfg.Screen.Height),
		controlsState: ui.SimControls{
			SpawnPerTick:  float32(cfg.Spawn.PerTick),
			Radius:        cfg.Derived.Radius32,
			MaxSpeed:      cfg.Derived.MaxSpeed,
			StepsPerFrame: float32(steps),
		},
	}
	g.controlsState.Clamp()

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !opts.Headless {
		if err := g.initRendering(opts.Overlays); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if cfg.Spawn.Initial > 0 {
		b := world.Bounds()
		g.spawns = g.spawner.Scatter(g.spawns, cfg.Spawn.Initial, b.Width, b.Height)
	}

	slog.Info("world created",
		"arena_w", world.Bounds().Width,
		"arena_h", world.Bounds().Height,
		"capacity", world.Store().Capacity(),
		"layout", world.Store().Layout().String(),
		"policy", world.Collision().Policy.String(),
		"dt", nominalDT,
		"fixed_dt", fixedDT,
	)

	return g, nil
}

// initRendering creates the renderers and panels. Requires a raylib window.
func (g *Game) initRendering(overlayList string) error {
	b := g.world.Bounds()
	g.camera = camera.New(g.screenWidth, g.screenHeight, b.Width, b.Height)
	g.particles = renderer.NewParticleRenderer()
	g.treeOverlay = renderer.NewQuadtreeOverlay()
	g.overlays = ui.NewOverlayRegistry()
	if err := g.overlays.EnableList(overlayList); err != nil {
		return fmt.Errorf("overlays: %w", err)
	}
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 125)
	g.statsPanel = ui.NewStatsPanel(10, 125)
	g.controls = ui.NewControlsPanel(10, 125, 240)
	g.inspector = inspector.NewInspector(int32(g.screenWidth))
	g.energyPanel = inspector.NewEnergyPanel(int32(g.screenWidth), int32(g.screenHeight))
	return nil
}

// World exposes the simulation for read access.
func (g *Game) World() *sim.World { return g.world }

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int64 { return g.world.Ticks() }

// LastWindow returns the most recently flushed telemetry window.
func (g *Game) LastWindow() telemetry.WindowStats { return g.lastWindow }

// Perf returns the performance collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Spawn queues n particles at (x, y) for the next tick, using the current
// spawn radius and speed.
func (g *Game) Spawn(n int, x, y float32) {
	g.spawner.Configure(g.controlsState.Radius, g.controlsState.MaxSpeed)
	g.spawns = g.spawner.Burst(g.spawns, n, x, y)
}

// Scatter queues n particles at random positions across the arena.
func (g *Game) Scatter(n int) {
	b := g.world.Bounds()
	g.spawner.Configure(g.controlsState.Radius, g.controlsState.MaxSpeed)
	g.spawns = g.spawner.Scatter(g.spawns, n, b.Width, b.Height)
}

// ResizeArena queues a wall move for the next tick.
func (g *Game) ResizeArena(width, height float32) {
	g.resize = &sim.WallBoundsChanged{Width: width, Height: height}
}

// Update handles input and runs the configured number of ticks.
// A headless game falls through to UpdateHeadless.
func (g *Game) Update() error {
	if g.headless {
		return g.UpdateHeadless()
	}
	g.perf.RecordFrame()
	g.handleInput()

	if g.controlsState.Paused && !g.controlsState.StepOnce {
		return nil
	}

	dt := g.nominalDT
	if !g.fixedDT {
		dt = min(rl.GetFrameTime(), maxFrameDT)
	}

	steps := int(g.controlsState.StepsPerFrame)
	if g.controlsState.StepOnce {
		steps = 1
		g.controlsState.StepOnce = false
	}
	for i := 0; i < steps; i++ {
		if err := g.step(dt); err != nil {
			return err
		}
	}
	return nil
}

// UpdateHeadless runs StepsPerUpdate ticks at the fixed dt.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.step(g.nominalDT); err != nil {
			return err
		}
	}
	return nil
}

// step runs one tick with the pending input, then feeds telemetry.
func (g *Game) step(dt float32) error {
	in := sim.Input{Spawns: g.spawns, Resize: g.resize}

	start := time.Now()
	g.perf.StartTick()
	stats, err := g.world.Tick(dt, in)
	elapsed := time.Since(start)
	g.spawns = g.spawns[:0]
	g.resize = nil
	if err != nil {
		g.perf.EndTick()
		return fmt.Errorf("tick %d: %w", stats.Tick, err)
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.lastTick = stats
	g.collector.RecordSpawns(stats.Spawned, stats.Rejected)
	g.collector.RecordGrows(stats.Grows)
	g.collector.RecordBounces(stats.Bounces)
	g.collector.RecordDropped(stats.Dropped)
	g.collector.RecordCollisions(stats.Collisions)
	g.metrics.ObserveTick(stats, elapsed)

	if stats.Dropped > 0 {
		slog.Debug("particles outside arena", "tick", stats.Tick, "dropped", stats.Dropped)
	}

	g.flushTelemetry()
	g.perf.EndTick()
	return nil
}

// Unload frees resources and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}

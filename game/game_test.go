package game

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/observability"
	"github.com/pthm-cable/bounce/telemetry"
)

const testConfig = `
store:
  initial_capacity: 64
physics:
  dt: 0.01
spawn:
  initial: 100
  radius: 5
telemetry:
  stats_window: 0.1
`

func initTestConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	config.MustInit(path)
}

func newHeadless(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessRun(t *testing.T) {
	initTestConfig(t)

	dir := t.TempDir()
	metrics, err := observability.NewSimCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.WindowStats
	g := newHeadless(t, Options{
		Seed:           1,
		OutputDir:      dir,
		StepsPerUpdate: 5,
		Metrics:        metrics,
		StatsCallback:  func(ws telemetry.WindowStats) { windows = append(windows, ws) },
	})

	for i := 0; i < 6; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatalf("UpdateHeadless: %v", err)
		}
	}

	if g.Tick() != 30 {
		t.Errorf("Tick() = %d, want 30", g.Tick())
	}
	if g.World().Count() != 100 {
		t.Errorf("Count() = %d, want 100", g.World().Count())
	}
	if g.World().Grows() == 0 {
		t.Error("expected the store to grow past its initial capacity")
	}
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[0].Spawned != 100 || windows[0].Grows == 0 {
		t.Errorf("first window = spawned %d grows %d", windows[0].Spawned, windows[0].Grows)
	}
	if got := g.LastWindow().WindowEndTick; got != 30 {
		t.Errorf("last window end = %d, want 30", got)
	}

	if got := testutil.ToFloat64(metrics.Events.WithLabelValues("spawned")); got != 100 {
		t.Errorf("spawned counter = %v, want 100", got)
	}
	if got := testutil.ToFloat64(metrics.Particles); got != 100 {
		t.Errorf("particles gauge = %v, want 100", got)
	}

	g.Unload()
	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("telemetry.csv: %v", err)
	}
	if lines := bytes.Count(data, []byte("\n")); lines != 4 {
		t.Errorf("telemetry.csv has %d lines, want header + 3", lines)
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestSpawnAndResize(t *testing.T) {
	initTestConfig(t)
	g := newHeadless(t, Options{Seed: 2})

	if err := g.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}
	before := g.World().Count()

	g.Spawn(7, 50, 50)
	g.ResizeArena(400, 300)
	if err := g.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}

	if got := g.World().Count(); got != before+7 {
		t.Errorf("Count() = %d, want %d", got, before+7)
	}
	b := g.World().Bounds()
	if b.Width != 400 || b.Height != 300 {
		t.Errorf("Bounds() = %vx%v, want 400x300", b.Width, b.Height)
	}

	// Pending input is consumed by one tick only.
	if err := g.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}
	if got := g.World().Count(); got != before+7 {
		t.Errorf("Count() after idle tick = %d, want %d", got, before+7)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	initTestConfig(t)

	run := func() (float64, float64) {
		g := newHeadless(t, Options{Seed: 42, StepsPerUpdate: 20})
		if err := g.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
		ke, px, _ := g.World().Energy()
		return ke, px
	}

	ke1, px1 := run()
	ke2, px2 := run()
	if ke1 != ke2 || px1 != px2 {
		t.Errorf("runs diverged: (%v, %v) vs (%v, %v)", ke1, px1, ke2, px2)
	}
}

func TestHeadlessSkipsRendering(t *testing.T) {
	initTestConfig(t)
	g := newHeadless(t, Options{Seed: 3, Overlays: "no-such-overlay"})
	if g.overlays != nil || g.camera != nil || g.particles != nil {
		t.Error("headless game created rendering state")
	}
}

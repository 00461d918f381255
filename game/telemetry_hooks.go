package game

import (
	"log/slog"

	"github.com/pthm-cable/bounce/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := int32(g.world.Ticks())
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.snapshot())
	perfStats := g.perf.Stats()
	g.lastWindow = stats

	g.metrics.SetWorld(g.world)
	if g.energyPanel != nil {
		g.energyPanel.Update(stats, g.windowSec)
	}

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// snapshot samples the end-of-window world state.
func (g *Game) snapshot() telemetry.Snapshot {
	ke, px, py := g.world.Energy()
	g.speeds = g.world.Speeds(g.speeds[:0])
	tree := g.world.Tree()
	return telemetry.Snapshot{
		Particles:     g.world.Count(),
		Capacity:      g.world.Store().Capacity(),
		TreeNodes:     tree.NodeCount(),
		TreeDepth:     tree.Depth(),
		KineticEnergy: ke,
		MomentumX:     px,
		MomentumY:     py,
		Speeds:        g.speeds,
	}
}

// Package telemetry provides per-window simulation statistics, performance
// timing, bookmarks and CSV output.
package telemetry

import "github.com/pthm-cable/bounce/systems"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawned    int
	rejected   int
	grows      int
	bounces    int
	dropped    int
	collisions systems.CollisionStats
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec/float64(dt) + 0.5)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSpawns records accepted and rejected spawn requests.
func (c *Collector) RecordSpawns(spawned, rejected int) {
	c.spawned += spawned
	c.rejected += rejected
}

// RecordGrows records store growths.
func (c *Collector) RecordGrows(n int) {
	c.grows += n
}

// RecordBounces records wall reflections.
func (c *Collector) RecordBounces(n int) {
	c.bounces += n
}

// RecordDropped records particles the broad phase dropped as out of bounds.
func (c *Collector) RecordDropped(n int) {
	c.dropped += n
}

// RecordCollisions adds one tick of narrow-phase counters.
func (c *Collector) RecordCollisions(s systems.CollisionStats) {
	c.collisions.Candidates += s.Candidates
	c.collisions.Contacts += s.Contacts
	c.collisions.Resolved += s.Resolved
	c.collisions.Degenerate += s.Degenerate
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot holds the end-of-window state the caller samples from the world.
type Snapshot struct {
	Particles     int
	Capacity      int
	TreeNodes     int
	TreeDepth     int
	KineticEnergy float64
	MomentumX     float64
	MomentumY     float64
	Speeds        []float64 // sorted in place by Flush
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	mean, p10, p50, p90 := ComputeDistribution(snap.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Particles: snap.Particles,
		Capacity:  snap.Capacity,

		Spawned:    c.spawned,
		Rejected:   c.rejected,
		Grows:      c.grows,
		Bounces:    c.bounces,
		Dropped:    c.dropped,
		Candidates: c.collisions.Candidates,
		Contacts:   c.collisions.Contacts,
		Resolved:   c.collisions.Resolved,
		Degenerate: c.collisions.Degenerate,

		TreeNodes: snap.TreeNodes,
		TreeDepth: snap.TreeDepth,

		KineticEnergy: snap.KineticEnergy,
		MomentumX:     snap.MomentumX,
		MomentumY:     snap.MomentumY,

		SpeedMean: mean,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawned = 0
	c.rejected = 0
	c.grows = 0
	c.bounces = 0
	c.dropped = 0
	c.collisions = systems.CollisionStats{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Store state at window end
	Particles int `csv:"particles"`
	Capacity  int `csv:"capacity"`

	// Events during window
	Spawned    int `csv:"spawned"`
	Rejected   int `csv:"rejected"`
	Grows      int `csv:"grows"`
	Bounces    int `csv:"bounces"`
	Dropped    int `csv:"dropped"`
	Candidates int `csv:"candidates"`
	Contacts   int `csv:"contacts"`
	Resolved   int `csv:"resolved"`
	Degenerate int `csv:"degenerate"`

	// Broad phase at window end
	TreeNodes int `csv:"tree_nodes"`
	TreeDepth int `csv:"tree_depth"`

	// Conservation (sampled at window end)
	KineticEnergy float64 `csv:"kinetic_energy"`
	MomentumX     float64 `csv:"momentum_x"`
	MomentumY     float64 `csv:"momentum_y"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles. values is sorted in place.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sort.Float64s(values)

	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("capacity", s.Capacity),
		slog.Int("spawned", s.Spawned),
		slog.Int("rejected", s.Rejected),
		slog.Int("grows", s.Grows),
		slog.Int("bounces", s.Bounces),
		slog.Int("dropped", s.Dropped),
		slog.Int("candidates", s.Candidates),
		slog.Int("contacts", s.Contacts),
		slog.Int("resolved", s.Resolved),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("tree_nodes", s.TreeNodes),
		slog.Int("tree_depth", s.TreeDepth),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("momentum_x", s.MomentumX),
		slog.Float64("momentum_y", s.MomentumY),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"capacity", s.Capacity,
		"spawned", s.Spawned,
		"grows", s.Grows,
		"bounces", s.Bounces,
		"dropped", s.Dropped,
		"contacts", s.Contacts,
		"resolved", s.Resolved,
		"degenerate", s.Degenerate,
		"tree_nodes", s.TreeNodes,
		"tree_depth", s.TreeDepth,
		"kinetic_energy", s.KineticEnergy,
		"momentum_x", s.MomentumX,
		"momentum_y", s.MomentumY,
		"speed_p50", s.SpeedP50,
	)
}

package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase names for the simulation step, in pipeline order.
const (
	PhaseSpawn     = "spawn"
	PhaseIntegrate = "integrate"
	PhaseIndex     = "index"
	PhaseCollide   = "collide"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{PhaseSpawn, PhaseIntegrate, PhaseIndex, PhaseCollide, PhaseTelemetry}

// PerfSample holds timing data for a single tick. The Phases map belongs to
// the collector's ring slot and is reused when the slot is overwritten.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps the last windowSize tick samples in a ring.
type PerfCollector struct {
	ring  []PerfSample
	next  int
	count int

	cur        *PerfSample
	tickStart  time.Time
	phase      string
	phaseStart time.Time

	lastFrame     time.Time
	frameDuration time.Duration

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// A windowSize below 1 falls back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	ring := make([]PerfSample, windowSize)
	for i := range ring {
		ring[i].Phases = make(map[string]time.Duration, len(Phases))
	}
	return &PerfCollector{ring: ring, scratch: make([]float64, 0, windowSize)}
}

// StartTick claims the next ring slot and starts the tick clock.
func (p *PerfCollector) StartTick() {
	p.cur = &p.ring[p.next]
	clear(p.cur.Phases)
	p.cur.TickDuration = 0
	p.phase = ""
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" && p.cur != nil {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phase = ""
}

// EndTick closes the running phase and commits the slot.
func (p *PerfCollector) EndTick() {
	if p.cur == nil {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.cur.TickDuration = now.Sub(p.tickStart)
	p.cur = nil

	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame measures the time since the previous call. Windowed mode calls
// it once per rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average time per phase and its share of the average tick, in percent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	ticks := p.scratch[:0]
	for _, sample := range p.ring[:p.count] {
		d := sample.TickDuration
		total += d
		ticks = append(ticks, float64(d))
		for phase, pd := range sample.Phases {
			s.PhaseAvg[phase] += pd
		}
	}
	p.scratch = ticks

	slices.Sort(ticks)
	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P95TickDuration = time.Duration(Percentile(ticks, 0.95))

	for phase, sum := range s.PhaseAvg {
		avg := sum / n
		s.PhaseAvg[phase] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[phase] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SpawnPct     float64 `csv:"spawn_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	IndexPct     float64 `csv:"index_pct"`
	CollidePct   float64 `csv:"collide_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SpawnPct:     s.PhasePct[PhaseSpawn],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		IndexPct:     s.PhasePct[PhaseIndex],
		CollidePct:   s.PhasePct[PhaseCollide],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}

package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/bounce/systems"
)

func TestPhasesMatchRegistry(t *testing.T) {
	ids := systems.NewSystemRegistry().IDs()
	if len(ids) != len(Phases) {
		t.Fatalf("registry has %d stages, Phases has %d", len(ids), len(Phases))
	}
	for i, phase := range Phases {
		if ids[i] != phase {
			t.Errorf("stage %d: registry %q, Phases %q", i, ids[i], phase)
		}
	}
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIndex)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseCollide)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseIndex]; !ok {
		t.Error("expected index phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseCollide]; !ok {
		t.Error("expected collide phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIndex)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct: map[string]float64{
			PhaseSpawn:   5,
			PhaseIndex:   30,
			PhaseCollide: 60,
		},
	}
	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.SpawnPct != 5 || row.IndexPct != 30 || row.CollidePct != 60 || row.IntegratePct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}

func TestPerfCollector_Percentile(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 0; i < 20; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCollide)
		if i == 19 {
			time.Sleep(5 * time.Millisecond)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.P95TickDuration < stats.MinTickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95TickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.MaxTickDuration < 5*time.Millisecond {
		t.Errorf("max tick = %v, want the slow tick", stats.MaxTickDuration)
	}
	if row := stats.ToCSV(20); row.P95TickUS != stats.P95TickDuration.Microseconds() {
		t.Errorf("p95 column = %d", row.P95TickUS)
	}
}

func TestPerfCollector_SlotReuse(t *testing.T) {
	pc := NewPerfCollector(2)
	for i := 0; i < 4; i++ {
		pc.StartTick()
		if i < 2 {
			pc.StartPhase("old")
		} else {
			pc.StartPhase(PhaseIndex)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["old"]; ok {
		t.Error("phase from overwritten samples still reported")
	}
	if _, ok := stats.PhaseAvg[PhaseIndex]; !ok {
		t.Error("expected index phase in window")
	}
}

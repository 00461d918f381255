package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/bounce/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{0.5, 0.1, 0.9, 0.3, 0.7, 0.2, 1.0, 0.4, 0.8, 0.6}
	mean, p10, p50, p90 := ComputeDistribution(values)

	// Mean should be 0.55
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// P10 should be around 0.19
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}

	// P50 should be around 0.55
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}

	// P90 should be around 0.91
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeDistribution([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}

	for tick := int32(1); tick <= 10; tick++ {
		c.RecordSpawns(3, 1)
		c.RecordBounces(2)
		c.RecordCollisions(systems.CollisionStats{Candidates: 4, Contacts: 2, Resolved: 1})
		if tick == 5 {
			c.RecordGrows(1)
			c.RecordDropped(2)
		}
		if tick < 10 && c.ShouldFlush(tick) {
			t.Fatalf("ShouldFlush true at tick %d", tick)
		}
	}
	if !c.ShouldFlush(10) {
		t.Fatal("ShouldFlush false at window end")
	}

	stats := c.Flush(10, Snapshot{
		Particles:     30,
		Capacity:      32,
		KineticEnergy: 123,
		Speeds:        []float64{3, 1, 2},
	})
	if stats.Spawned != 30 || stats.Rejected != 10 || stats.Bounces != 20 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.Grows != 1 || stats.Dropped != 2 || stats.Resolved != 10 || stats.Candidates != 40 {
		t.Errorf("window totals = %+v", stats)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-6 || stats.SpeedP50 != 2 || stats.SpeedMean != 2 {
		t.Errorf("sim_time=%v speed p50=%v mean=%v", stats.SimTimeSec, stats.SpeedP50, stats.SpeedMean)
	}

	next := c.Flush(20, Snapshot{})
	if next.WindowStartTick != 10 || next.Spawned != 0 || next.Resolved != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

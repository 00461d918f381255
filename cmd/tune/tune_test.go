package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/bounce/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector(nil)
	raw := []float64{16, 10}
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("param %d: got %v, want %v", i, back[i], raw[i])
		}
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector(nil)
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"inside", []float64{31.6, 9.2}, []float64{32, 9}},
		{"below", []float64{-5, 0}, []float64{2, 4}},
		{"above", []float64{1000, 99}, []float64{128, 24}},
		{"nan", []float64{math.NaN(), 12}, []float64{32, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pv.Clamp(tt.in)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestParamVectorConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector(cfg)
	if got := pv.DefaultVector(); got[0] != float64(cfg.Quadtree.NodeCapacity) || got[1] != float64(cfg.Quadtree.MaxDepth) {
		t.Errorf("DefaultVector() = %v, want config values", got)
	}

	pv.ApplyToConfig(cfg, []float64{7.4, 5.6})
	if cfg.Quadtree.NodeCapacity != 7 || cfg.Quadtree.MaxDepth != 6 {
		t.Errorf("ApplyToConfig: quadtree = %+v", cfg.Quadtree)
	}
}

func TestEvaluateSmallRun(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Store.InitialCapacity = 16

	pv := NewParamVector(cfg)
	fe, err := NewFitnessEvaluator(pv, cfg, []int64{1, 2}, 300, 2, 5)
	if err != nil {
		t.Fatalf("NewFitnessEvaluator: %v", err)
	}

	for _, x := range [][]float64{pv.DefaultVector(), {4, 6}, {128, 24}} {
		fitness := fe.Evaluate(x)
		res := fe.LastResult()
		if res.Unsound != 0 {
			t.Errorf("Evaluate(%v): %d unsound seeds", x, res.Unsound)
		}
		if fitness <= 0 || fitness >= unsoundPenalty {
			t.Errorf("Evaluate(%v) = %v, want a tick time in seconds", x, fitness)
		}
		if res.AvgTick <= 0 || res.AvgTick > time.Second {
			t.Errorf("Evaluate(%v): avg tick %v", x, res.AvgTick)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute + 7*time.Second, "2h05m07s"},
		{400 * time.Millisecond, "0m00s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

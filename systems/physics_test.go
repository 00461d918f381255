package systems

import (
	"math"
	"testing"
)

func TestIntegrationWallReflection(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	tests := []struct {
		name           string
		b              body
		dt             float32
		wantX, wantY   float32
		wantVX, wantVY float32
		wantBounces    int
	}{
		{
			name:  "left wall",
			b:     body{x: 2, y: 300, r: 10, vx: -50},
			dt:    1.0 / 60.0,
			wantX: 10, wantY: 300, wantVX: 50, wantVY: 0,
			wantBounces: 1,
		},
		{
			name:  "right wall",
			b:     body{x: 795, y: 300, r: 10, vx: 50},
			dt:    1.0 / 60.0,
			wantX: 790, wantY: 300, wantVX: -50, wantVY: 0,
			wantBounces: 1,
		},
		{
			name:  "touching right wall counts",
			b:     body{x: 790, y: 300, r: 10},
			dt:    1.0 / 60.0,
			wantX: 790, wantY: 300, wantVX: 0, wantVY: 0,
			wantBounces: 1,
		},
		{
			name:  "top wall",
			b:     body{x: 400, y: 3, r: 5, vy: -10},
			dt:    0.1,
			wantX: 400, wantY: 5, wantVX: 0, wantVY: 10,
			wantBounces: 1,
		},
		{
			name:  "bottom corner",
			b:     body{x: 798, y: 598, r: 4, vx: 10, vy: 10},
			dt:    0.1,
			wantX: 796, wantY: 596, wantVX: -10, wantVY: -10,
			wantBounces: 2,
		},
		{
			name:  "free flight",
			b:     body{x: 400, y: 300, r: 10, vx: 30, vy: -20},
			dt:    0.5,
			wantX: 415, wantY: 290, wantVX: 30, wantVY: -20,
			wantBounces: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.b)
			sys := NewIntegrationSystem(f.world)

			bounces, err := sys.Update(f.store, bounds, tt.dt)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if bounces != tt.wantBounces {
				t.Errorf("bounces = %d, want %d", bounces, tt.wantBounces)
			}

			x, y := f.position(t, 0)
			if math.Abs(float64(x-tt.wantX)) > 1e-4 || math.Abs(float64(y-tt.wantY)) > 1e-4 {
				t.Errorf("position = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
			vel := f.velocity(0)
			if vel.X != tt.wantVX || vel.Y != tt.wantVY {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", vel.X, vel.Y, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestIntegrationKeepsRadius(t *testing.T) {
	f := newFixture(t, body{x: 5, y: 5, r: 10, vx: -100, vy: -100})
	sys := NewIntegrationSystem(f.world)
	for i := 0; i < 5; i++ {
		if _, err := sys.Update(f.store, Bounds{Width: 200, Height: 200}, 0.1); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if r, _ := f.store.Radius(0); r != 10 {
		t.Errorf("radius changed to %v", r)
	}
}

package systems

import (
	"testing"
)

func rebuild(t *testing.T, f *fixture, bounds Bounds) *SpatialIndex {
	t.Helper()
	idx := NewSpatialIndex(f.world, bounds, 4, 8)
	if dropped := idx.Rebuild(f.store, bounds); dropped != 0 {
		t.Fatalf("Rebuild dropped %d particles", dropped)
	}
	return idx
}

func TestCollisionHeadOn(t *testing.T) {
	bounds := Bounds{Width: 800, Height: 600}
	for _, policy := range []PairPolicy{PairOnce, Symmetric} {
		t.Run(policy.String(), func(t *testing.T) {
			f := newFixture(t,
				body{x: 100, y: 300, r: 10, vx: 30},
				body{x: 120, y: 300, r: 10, vx: -30},
			)
			idx := rebuild(t, f, bounds)
			sys := NewCollisionSystem(f.world, CollisionOptions{Policy: policy, SkipSeparating: true})

			stats := sys.Update(f.store, idx.Tree())
			if stats.Resolved != 1 {
				t.Errorf("Resolved = %d, want 1 (%+v)", stats.Resolved, stats)
			}
			if v := f.velocity(0); v.X != -30 || v.Y != 0 {
				t.Errorf("v1 = %+v, want (-30, 0)", v)
			}
			if v := f.velocity(1); v.X != 30 || v.Y != 0 {
				t.Errorf("v2 = %+v, want (30, 0)", v)
			}
		})
	}
}

func TestCollisionSymmetricWithoutSkipAppliesTwice(t *testing.T) {
	f := newFixture(t,
		body{x: 100, y: 300, r: 10, vx: 30},
		body{x: 120, y: 300, r: 10, vx: -30},
	)
	idx := rebuild(t, f, Bounds{Width: 800, Height: 600})
	sys := NewCollisionSystem(f.world, CollisionOptions{Policy: Symmetric})

	stats := sys.Update(f.store, idx.Tree())
	if stats.Resolved != 2 || stats.Contacts != 2 {
		t.Errorf("stats = %+v, want 2 contacts resolved", stats)
	}
	// Two swaps of equal masses restore the original velocities.
	if v := f.velocity(0); v.X != 30 {
		t.Errorf("v1 = %+v, want (30, 0)", v)
	}
	if v := f.velocity(1); v.X != -30 {
		t.Errorf("v2 = %+v, want (-30, 0)", v)
	}
}

func TestCollisionSkipsSeparatingPair(t *testing.T) {
	f := newFixture(t,
		body{x: 100, y: 300, r: 10, vx: -30},
		body{x: 115, y: 300, r: 10, vx: 30},
	)
	idx := rebuild(t, f, Bounds{Width: 800, Height: 600})
	sys := NewCollisionSystem(f.world, CollisionOptions{SkipSeparating: true})

	stats := sys.Update(f.store, idx.Tree())
	if stats.Contacts != 1 || stats.Resolved != 0 {
		t.Errorf("stats = %+v, want one contact and no response", stats)
	}
	if v := f.velocity(0); v.X != -30 {
		t.Errorf("separating particle velocity changed to %+v", v)
	}
}

func TestCollisionDegenerateSkipped(t *testing.T) {
	f := newFixture(t,
		body{x: 200, y: 200, r: 10, vx: 5},
		body{x: 200, y: 200, r: 10, vx: -5},
	)
	idx := rebuild(t, f, Bounds{Width: 400, Height: 400})
	sys := NewCollisionSystem(f.world, CollisionOptions{SkipSeparating: true})

	stats := sys.Update(f.store, idx.Tree())
	if stats.Degenerate != 1 || stats.Resolved != 0 {
		t.Errorf("stats = %+v, want one degenerate pair", stats)
	}
	if v := f.velocity(0); v.X != 5 {
		t.Errorf("degenerate pair changed velocity to %+v", v)
	}
}

func TestCollisionIgnoresDistantParticles(t *testing.T) {
	f := newFixture(t,
		body{x: 50, y: 50, r: 10, vx: 30},
		body{x: 70.5, y: 50, r: 10, vx: -30},
		body{x: 300, y: 300, r: 10},
	)
	idx := rebuild(t, f, Bounds{Width: 400, Height: 400})
	sys := NewCollisionSystem(f.world, CollisionOptions{SkipSeparating: true})

	stats := sys.Update(f.store, idx.Tree())
	if stats.Candidates != 0 || stats.Resolved != 0 {
		t.Errorf("stats = %+v, want no candidates", stats)
	}
}

func TestParsePairPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PairPolicy
		wantErr bool
	}{
		{"", PairOnce, false},
		{"once", PairOnce, false},
		{"symmetric", Symmetric, false},
		{"twice", PairOnce, true},
	}
	for _, tt := range tests {
		got, err := ParsePairPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePairPolicy(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestSpatialIndexDropsOutside(t *testing.T) {
	f := newFixture(t,
		body{x: 50, y: 50, r: 10},
		body{x: 150, y: 50, r: 10},
	)
	idx := NewSpatialIndex(f.world, Bounds{Width: 200, Height: 200}, 4, 8)
	if dropped := idx.Rebuild(f.store, Bounds{Width: 100, Height: 100}); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if idx.Tree().Len() != 1 {
		t.Errorf("Len = %d, want 1", idx.Tree().Len())
	}
	if b := idx.Tree().Bounds(); b.Width != 100 || b.Height != 100 {
		t.Errorf("tree bounds %v not reset to the new arena", b)
	}
}

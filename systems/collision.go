package systems

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/quadtree"
	"github.com/pthm-cable/bounce/store"
)

// PairPolicy decides how often an unordered colliding pair is resolved per tick.
type PairPolicy uint8

const (
	// PairOnce resolves each pair once, from the particle with the lower store index.
	PairOnce PairPolicy = iota
	// Symmetric resolves a pair from both sides. With SkipSeparating the second
	// pass sees the pair moving apart and leaves it alone.
	Symmetric
)

// ParsePairPolicy maps a config value to a PairPolicy. The empty string is PairOnce.
func ParsePairPolicy(s string) (PairPolicy, error) {
	switch s {
	case "", "once":
		return PairOnce, nil
	case "symmetric":
		return Symmetric, nil
	}
	return PairOnce, fmt.Errorf("unknown collision policy %q", s)
}

func (p PairPolicy) String() string {
	if p == Symmetric {
		return "symmetric"
	}
	return "once"
}

// CollisionOptions configures the narrow phase and response.
type CollisionOptions struct {
	Policy         PairPolicy
	MassDefect     bool // use (m1+m1) in the second velocity update
	SkipSeparating bool // leave overlapping pairs that already move apart
}

// CollisionStats counts narrow-phase work for one tick.
type CollisionStats struct {
	Candidates int // broad-phase hits, excluding self
	Contacts   int // confirmed overlaps considered for response
	Resolved   int // pairs whose velocities were updated
	Degenerate int // pairs skipped for coincident centers
}

func (c CollisionStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("candidates", c.Candidates),
		slog.Int("contacts", c.Contacts),
		slog.Int("resolved", c.Resolved),
		slog.Int("degenerate", c.Degenerate),
	)
}

// CollisionSystem queries the broad phase around every particle and applies the
// elastic response to overlapping pairs.
type CollisionSystem struct {
	filter ecs.Filter3[components.Slot, components.Velocity, components.Mass]
	bodies *ecs.Map3[components.Slot, components.Velocity, components.Mass]
	opts   CollisionOptions

	candidates []ecs.Entity
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem(w *ecs.World, opts CollisionOptions) *CollisionSystem {
	return &CollisionSystem{
		filter:     *ecs.NewFilter3[components.Slot, components.Velocity, components.Mass](w),
		bodies:     ecs.NewMap3[components.Slot, components.Velocity, components.Mass](w),
		opts:       opts,
		candidates: make([]ecs.Entity, 0, 64),
	}
}

// Options returns the active options.
func (s *CollisionSystem) Options() CollisionOptions { return s.opts }

// Update resolves collisions against tree, which must have been rebuilt from
// the positions currently in st. Only velocities change.
func (s *CollisionSystem) Update(st *store.Store, tree *quadtree.Tree[ecs.Entity]) CollisionStats {
	var stats CollisionStats

	query := s.filter.Query()
	for query.Next() {
		self := query.Entity()
		slot1, vel1, mass1 := query.Get()

		rec1, err := st.Record(slot1.Index)
		if err != nil {
			continue
		}
		c1 := quadtree.Point{X: rec1.X, Y: rec1.Y}

		s.candidates = tree.QueryCircleInto(s.candidates[:0], c1, rec1.Radius)
		for _, other := range s.candidates {
			if other == self {
				continue
			}
			stats.Candidates++

			slot2, vel2, mass2 := s.bodies.Get(other)
			if s.opts.Policy == PairOnce && slot2.Index < slot1.Index {
				continue
			}

			x2, y2, err := st.Position(slot2.Index)
			if err != nil {
				continue
			}
			rad2, _ := st.Radius(slot2.Index)
			if !quadtree.CirclesIntersect(c1, rec1.Radius, quadtree.Point{X: x2, Y: y2}, rad2) {
				continue
			}
			stats.Contacts++

			p1, p2 := vec(rec1.X, rec1.Y), vec(x2, y2)
			u1, u2 := vec(vel1.X, vel1.Y), vec(vel2.X, vel2.Y)
			v1, v2, err := ElasticResponse(p1, p2, u1, u2, float64(mass1.Value), float64(mass2.Value), s.opts.MassDefect)
			if errors.Is(err, ErrDegenerateCollision) {
				stats.Degenerate++
				continue
			}
			if s.opts.SkipSeparating && !Approaching(p1, p2, u1, u2) {
				continue
			}

			vel1.X, vel1.Y = float32(v1.X), float32(v1.Y)
			vel2.X, vel2.Y = float32(v2.X), float32(v2.Y)
			stats.Resolved++
		}
	}
	return stats
}

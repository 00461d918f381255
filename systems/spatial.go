package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bounce/components"
	"github.com/pthm-cable/bounce/quadtree"
	"github.com/pthm-cable/bounce/store"
)

// SpatialIndex is the broad phase: a quadtree of entities keyed by the
// current store positions. It has no update operation and is rebuilt from
// scratch every tick.
type SpatialIndex struct {
	filter ecs.Filter1[components.Slot]
	tree   *quadtree.Tree[ecs.Entity]
}

// NewSpatialIndex creates an index over the given arena.
func NewSpatialIndex(w *ecs.World, bounds Bounds, nodeCapacity, maxDepth int) *SpatialIndex {
	tree := quadtree.New[ecs.Entity](arenaRect(bounds), nodeCapacity)
	tree.SetMaxDepth(maxDepth)
	return &SpatialIndex{
		filter: *ecs.NewFilter1[components.Slot](w),
		tree:   tree,
	}
}

// Rebuild clears the tree and inserts every particle at its current position.
// Returns the number of particles that fell outside the arena and were dropped.
func (s *SpatialIndex) Rebuild(st *store.Store, bounds Bounds) int {
	s.tree.Reset(arenaRect(bounds))

	query := s.filter.Query()
	for query.Next() {
		slot := query.Get()
		x, y, err := st.Position(slot.Index)
		if err != nil {
			continue
		}
		r, _ := st.Radius(slot.Index)
		s.tree.Insert(quadtree.Point{X: x, Y: y}, r, query.Entity())
	}
	return s.tree.Dropped()
}

// Tree returns the tree built by the last Rebuild.
func (s *SpatialIndex) Tree() *quadtree.Tree[ecs.Entity] {
	return s.tree
}

func arenaRect(b Bounds) quadtree.Rect {
	return quadtree.Rect{Left: 0, Top: 0, Width: b.Width, Height: b.Height}
}

// Package quadtree provides a capacity-bounded quadtree over circles for
// broad-phase neighbor queries.
//
// Nodes live in a flat arena and refer to their four children by index, so a
// deep tree is neither a deep chain of owned pointers nor expensive to tear
// down: Reset truncates the arena and keeps its memory for the next rebuild.
//
// The tree has no update or remove operation. Callers rebuild it from current
// positions every tick, which costs O(N) inserts.
package quadtree

// DefaultMaxDepth bounds subdivision. A node at this depth keeps accepting
// entries past its capacity, so a pile of coincident points cannot drive the
// tree down to float underflow.
const DefaultMaxDepth = 16

type entry[T any] struct {
	pos     Point
	radius  float32
	payload T
}

type node[T any] struct {
	bounds    Rect
	depth     int
	child     int     // index of the first of four contiguous children; 0 = leaf
	maxRadius float32 // largest entry radius in this subtree
	entries   []entry[T]
}

// Tree is a quadtree storing (position, radius, payload) entries.
// It is not safe for concurrent use.
type Tree[T any] struct {
	nodes    []node[T]
	capacity int
	maxDepth int
	size     int
	dropped  int
}

// New creates an empty tree covering boundary. Each node holds up to
// nodeCapacity entries directly before it subdivides.
func New[T any](boundary Rect, nodeCapacity int) *Tree[T] {
	if nodeCapacity < 1 {
		nodeCapacity = 1
	}
	t := &Tree[T]{
		capacity: nodeCapacity,
		maxDepth: DefaultMaxDepth,
	}
	t.Reset(boundary)
	return t
}

// SetMaxDepth changes the subdivision limit. Zero or negative disables it.
func (t *Tree[T]) SetMaxDepth(depth int) {
	t.maxDepth = depth
}

// Reset discards every entry and sets a new root boundary. Node storage is
// retained for reuse.
func (t *Tree[T]) Reset(boundary Rect) {
	t.nodes = t.nodes[:0]
	t.allocNode(boundary, 0)
	t.size = 0
	t.dropped = 0
}

// Bounds returns the root boundary.
func (t *Tree[T]) Bounds() Rect { return t.nodes[0].bounds }

// Capacity returns the per-node entry capacity.
func (t *Tree[T]) Capacity() int { return t.capacity }

// Len returns the number of stored entries.
func (t *Tree[T]) Len() int { return t.size }

// NodeCount returns the number of nodes, including the root.
func (t *Tree[T]) NodeCount() int { return len(t.nodes) }

// Dropped returns how many inserts since the last Reset fell outside the tree.
func (t *Tree[T]) Dropped() int { return t.dropped }

// Insert stores payload at the first node along pos's path that has room.
// A full node subdivides once and passes the insert to the child containing
// pos; entries already held by a node are never pushed down. Points outside
// the root boundary are dropped and Insert returns false.
func (t *Tree[T]) Insert(pos Point, radius float32, payload T) bool {
	n := 0
	if !t.nodes[n].bounds.Contains(pos) {
		t.dropped++
		return false
	}

	for {
		nd := &t.nodes[n]
		if radius > nd.maxRadius {
			nd.maxRadius = radius
		}
		if len(nd.entries) < t.capacity || (t.maxDepth > 0 && nd.depth >= t.maxDepth) {
			nd.entries = append(nd.entries, entry[T]{pos: pos, radius: radius, payload: payload})
			t.size++
			return true
		}

		if nd.child == 0 {
			t.subdivide(n)
			nd = &t.nodes[n]
		}

		next := -1
		for k := 0; k < 4; k++ {
			c := nd.child + k
			if t.nodes[c].bounds.Contains(pos) {
				next = c
				break
			}
		}
		if next < 0 {
			// Only reachable when halving a tiny node loses precision.
			t.dropped++
			return false
		}
		n = next
	}
}

// QueryCircle returns the payloads whose circles intersect the query circle.
func (t *Tree[T]) QueryCircle(center Point, radius float32) []T {
	return t.QueryCircleInto(nil, center, radius)
}

// QueryCircleInto appends matching payloads to dst and returns it.
// Reuse dst across calls to avoid allocations.
func (t *Tree[T]) QueryCircleInto(dst []T, center Point, radius float32) []T {
	return t.query(0, dst, center, radius)
}

// query prunes a node when no circle stored below it can reach the query
// circle: the closest point of the node must lie within radius plus the
// subtree's largest entry radius. Entry centers sit inside their node, so this
// never skips a match, including tangent contacts on a node edge.
func (t *Tree[T]) query(n int, dst []T, center Point, radius float32) []T {
	nd := &t.nodes[n]
	reach := radius + nd.maxRadius
	if nd.bounds.DistanceSq(center) > reach*reach {
		return dst
	}

	for i := range nd.entries {
		e := &nd.entries[i]
		if CirclesIntersect(e.pos, e.radius, center, radius) {
			dst = append(dst, e.payload)
		}
	}

	if nd.child != 0 {
		for k := 0; k < 4; k++ {
			dst = t.query(nd.child+k, dst, center, radius)
		}
	}
	return dst
}

// Walk visits every node in depth-first order.
func (t *Tree[T]) Walk(fn func(bounds Rect, depth, entries int)) {
	t.walk(0, fn)
}

func (t *Tree[T]) walk(n int, fn func(bounds Rect, depth, entries int)) {
	nd := &t.nodes[n]
	fn(nd.bounds, nd.depth, len(nd.entries))
	if nd.child != 0 {
		for k := 0; k < 4; k++ {
			t.walk(nd.child+k, fn)
		}
	}
}

// Depth returns the deepest node level; the root is level 0.
func (t *Tree[T]) Depth() int {
	deepest := 0
	for i := range t.nodes {
		if t.nodes[i].depth > deepest {
			deepest = t.nodes[i].depth
		}
	}
	return deepest
}

func (t *Tree[T]) subdivide(n int) {
	quads := t.nodes[n].bounds.Quadrants()
	depth := t.nodes[n].depth + 1
	first := len(t.nodes)
	for _, q := range quads {
		t.allocNode(q, depth)
	}
	t.nodes[n].child = first
}

// allocNode appends a node, reusing a slot (and its entry buffer) left over
// from a previous build when one is available.
func (t *Tree[T]) allocNode(bounds Rect, depth int) {
	if len(t.nodes) < cap(t.nodes) {
		t.nodes = t.nodes[:len(t.nodes)+1]
		nd := &t.nodes[len(t.nodes)-1]
		nd.bounds = bounds
		nd.depth = depth
		nd.child = 0
		nd.maxRadius = 0
		nd.entries = nd.entries[:0]
		return
	}
	t.nodes = append(t.nodes, node[T]{
		bounds:  bounds,
		depth:   depth,
		entries: make([]entry[T], 0, t.capacity),
	})
}

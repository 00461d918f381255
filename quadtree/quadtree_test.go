package quadtree

import (
	"math/rand"
	"sort"
	"testing"
)

var arena = Rect{Left: 0, Top: 0, Width: 800, Height: 800}

func TestRectContainsHalfOpen(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Width: 100, Height: 50}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"top-left corner", Point{10, 20}, true},
		{"interior", Point{60, 45}, true},
		{"right edge excluded", Point{110, 45}, false},
		{"bottom edge excluded", Point{60, 70}, false},
		{"left of rect", Point{9.99, 45}, false},
		{"above rect", Point{60, 19.99}, false},
		{"just inside far corner", Point{109.99, 69.99}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestQuadrantsPartitionParent(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Width: 800, Height: 600}
	q := r.Quadrants()
	want := [4]Rect{
		{0, 0, 400, 300},
		{400, 0, 400, 300},
		{0, 300, 400, 300},
		{400, 300, 400, 300},
	}
	if q != want {
		t.Fatalf("Quadrants = %v, want %v", q, want)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		p := Point{rng.Float32() * 800, rng.Float32() * 600}
		hits := 0
		for _, c := range q {
			if c.Contains(p) {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("point %v contained by %d quadrants, want 1", p, hits)
		}
	}
}

func TestCirclesIntersectInclusive(t *testing.T) {
	tests := []struct {
		name string
		c1   Point
		r1   float32
		c2   Point
		r2   float32
		want bool
	}{
		{"overlapping", Point{0, 0}, 10, Point{15, 0}, 10, true},
		{"tangent", Point{0, 0}, 10, Point{20, 0}, 10, true},
		{"tangent diagonal", Point{0, 0}, 2, Point{3, 4}, 3, true},
		{"separated", Point{0, 0}, 10, Point{20.5, 0}, 10, false},
		{"coincident", Point{5, 5}, 1, Point{5, 5}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CirclesIntersect(tt.c1, tt.r1, tt.c2, tt.r2); got != tt.want {
				t.Errorf("CirclesIntersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsertOutsideRootIsDropped(t *testing.T) {
	tree := New[int](arena, 4)
	outside := []Point{{-1, 10}, {10, -0.5}, {800, 10}, {10, 800}, {900, 900}}
	for i, p := range outside {
		if tree.Insert(p, 5, i) {
			t.Errorf("Insert(%v) accepted a point outside the root", p)
		}
	}
	if tree.Len() != 0 {
		t.Errorf("Len = %d, want 0", tree.Len())
	}
	if tree.Dropped() != len(outside) {
		t.Errorf("Dropped = %d, want %d", tree.Dropped(), len(outside))
	}
	if got := tree.QueryCircle(Point{400, 400}, 2000); len(got) != 0 {
		t.Errorf("query found dropped payloads: %v", got)
	}
}

func TestEntriesStayAtFirstNode(t *testing.T) {
	tree := New[int](arena, 2)
	tree.Insert(Point{100, 100}, 1, 0)
	tree.Insert(Point{700, 700}, 1, 1)
	if tree.NodeCount() != 1 {
		t.Fatalf("tree subdivided before exceeding capacity: %d nodes", tree.NodeCount())
	}

	tree.Insert(Point{120, 100}, 1, 2)
	if tree.NodeCount() != 5 {
		t.Fatalf("NodeCount = %d after overflow, want 5", tree.NodeCount())
	}

	root := tree.nodes[0]
	if len(root.entries) != 2 || root.entries[0].payload != 0 || root.entries[1].payload != 1 {
		t.Errorf("root entries were moved: %+v", root.entries)
	}
	topLeft := tree.nodes[root.child]
	if len(topLeft.entries) != 1 || topLeft.entries[0].payload != 2 {
		t.Errorf("overflow insert not routed to top-left child: %+v", topLeft.entries)
	}
	for k := 1; k < 4; k++ {
		if n := len(tree.nodes[root.child+k].entries); n != 0 {
			t.Errorf("child %d holds %d entries, want 0", k, n)
		}
	}
}

// pathTo returns the node indices from the root to the node holding payload.
func pathTo(tree *Tree[int], payload int) []int {
	var search func(n int, path []int) []int
	search = func(n int, path []int) []int {
		path = append(path, n)
		nd := tree.nodes[n]
		for _, e := range nd.entries {
			if e.payload == payload {
				return path
			}
		}
		if nd.child == 0 {
			return nil
		}
		for k := 0; k < 4; k++ {
			if p := search(nd.child+k, append([]int(nil), path...)); p != nil {
				return p
			}
		}
		return nil
	}
	return search(0, nil)
}

func TestContainmentAlongPath(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tree := New[int](arena, 3)
	positions := make([]Point, 500)
	for i := range positions {
		positions[i] = Point{rng.Float32() * 800, rng.Float32() * 800}
		if !tree.Insert(positions[i], 2, i) {
			t.Fatalf("insert %d rejected", i)
		}
	}

	for i, p := range positions {
		path := pathTo(tree, i)
		if path == nil {
			t.Fatalf("payload %d not found in tree", i)
		}
		for _, n := range path {
			if !tree.nodes[n].bounds.Contains(p) {
				t.Fatalf("payload %d at %v stored below node %v that does not contain it", i, p, tree.nodes[n].bounds)
			}
		}
	}
}

type circle struct {
	p Point
	r float32
}

func bruteForce(circles []circle, c Point, r float32) []int {
	var out []int
	for i, e := range circles {
		if CirclesIntersect(e.p, e.r, c, r) {
			out = append(out, i)
		}
	}
	return out
}

func sameSet(t *testing.T, got, want []int) {
	t.Helper()
	g := append([]int(nil), got...)
	w := append([]int(nil), want...)
	sort.Ints(g)
	sort.Ints(w)
	if len(g) != len(w) {
		t.Fatalf("got %d payloads %v, want %d %v", len(g), g, len(w), w)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("got %v, want %v", g, w)
		}
	}
}

func TestQuerySoundnessRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, capacity := range []int{1, 4, 32} {
		tree := New[int](arena, capacity)
		circles := make([]circle, 800)
		for i := range circles {
			circles[i] = circle{
				p: Point{rng.Float32() * 800, rng.Float32() * 800},
				r: 1 + rng.Float32()*40,
			}
			tree.Insert(circles[i].p, circles[i].r, i)
		}

		for q := 0; q < 200; q++ {
			c := Point{rng.Float32()*900 - 50, rng.Float32()*900 - 50}
			r := rng.Float32() * 60
			sameSet(t, tree.QueryCircle(c, r), bruteForce(circles, c, r))
		}
	}
}

func TestQueryFindsLargeNeighborInAdjacentNode(t *testing.T) {
	tree := New[int](arena, 1)
	tree.Insert(Point{100, 100}, 1, 0)  // root
	tree.Insert(Point{390, 100}, 1, 1)  // top-left child
	tree.Insert(Point{450, 100}, 75, 2) // top-right child

	// The query circle ends at x=380, short of the top-right quadrant, but
	// the stored circle reaches back to x=375.
	sameSet(t, tree.QueryCircle(Point{370, 100}, 10), []int{2})
}

func TestQueryEdgeTouching(t *testing.T) {
	tree := New[int](arena, 1)
	circles := []circle{
		{Point{100, 100}, 10},
		{Point{150, 100}, 10},
		{Point{400, 400}, 10}, // bottom-right child
		{Point{390, 400}, 5},  // bottom-left child
	}
	for i, c := range circles {
		tree.Insert(c.p, c.r, i)
	}

	tests := []struct {
		name   string
		center Point
		radius float32
		want   []int
	}{
		{"tangent at root", Point{80, 100}, 10, []int{0}},
		{"between two, one in reach", Point{119.5, 100}, 10, []int{0}},
		{"tangent to both neighbors", Point{125, 100}, 15, []int{0, 1}},
		{"tangent across node edge", Point{375, 400}, 10, []int{3}},
		{"diagonal 6-8-10 tangent", Point{406, 408}, 0, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.QueryCircle(tt.center, tt.radius)
			sameSet(t, got, tt.want)
			sameSet(t, got, bruteForce(circles, tt.center, tt.radius))
		})
	}
}

func TestQueryNoDuplicates(t *testing.T) {
	tree := New[int](arena, 2)
	for i := 0; i < 200; i++ {
		// Coincident points pile up and exercise deep subdivision.
		tree.Insert(Point{400, 400}, 10, i)
	}
	got := tree.QueryCircle(Point{400, 400}, 1)
	if len(got) != 200 {
		t.Fatalf("query returned %d payloads, want 200", len(got))
	}
	seen := make(map[int]bool, len(got))
	for _, g := range got {
		if seen[g] {
			t.Fatalf("payload %d returned twice", g)
		}
		seen[g] = true
	}
}

func TestMaxDepthBoundsCoincidentPoints(t *testing.T) {
	tree := New[int](arena, 4)
	tree.SetMaxDepth(5)
	for i := 0; i < 100; i++ {
		if !tree.Insert(Point{123, 456}, 10, i) {
			t.Fatalf("coincident insert %d dropped", i)
		}
	}
	if d := tree.Depth(); d != 5 {
		t.Errorf("Depth = %d, want 5", d)
	}
	if tree.Len() != 100 {
		t.Errorf("Len = %d, want 100", tree.Len())
	}
}

func TestResetReusesNodes(t *testing.T) {
	tree := New[int](arena, 1)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tree.Insert(Point{rng.Float32() * 800, rng.Float32() * 800}, 1, i)
	}
	grown := cap(tree.nodes)

	resized := Rect{Left: 0, Top: 0, Width: 400, Height: 300}
	tree.Reset(resized)
	if tree.Len() != 0 || tree.NodeCount() != 1 || tree.Dropped() != 0 {
		t.Fatalf("Reset left len=%d nodes=%d dropped=%d", tree.Len(), tree.NodeCount(), tree.Dropped())
	}
	if tree.Bounds() != resized {
		t.Errorf("Bounds = %v, want %v", tree.Bounds(), resized)
	}
	if got := tree.QueryCircle(Point{200, 150}, 1000); len(got) != 0 {
		t.Errorf("stale payloads after Reset: %v", got)
	}

	tree.Insert(Point{500, 100}, 1, 0) // outside the resized root
	tree.Insert(Point{100, 100}, 1, 1)
	if tree.Dropped() != 1 || tree.Len() != 1 {
		t.Errorf("after reset inserts: dropped=%d len=%d", tree.Dropped(), tree.Len())
	}
	if cap(tree.nodes) != grown {
		t.Errorf("node arena reallocated on Reset: cap %d -> %d", grown, cap(tree.nodes))
	}
}

func TestWalkVisitsAllNodes(t *testing.T) {
	tree := New[int](arena, 1)
	for i := 0; i < 20; i++ {
		tree.Insert(Point{float32(i*37%800) + 0.5, float32(i*91%800) + 0.5}, 1, i)
	}
	var nodes, entries int
	tree.Walk(func(b Rect, depth, n int) {
		nodes++
		entries += n
		if depth < 0 || depth > tree.Depth() {
			t.Errorf("node %v reported depth %d", b, depth)
		}
	})
	if nodes != tree.NodeCount() {
		t.Errorf("Walk visited %d nodes, NodeCount = %d", nodes, tree.NodeCount())
	}
	if entries != tree.Len() {
		t.Errorf("Walk counted %d entries, Len = %d", entries, tree.Len())
	}
}

func BenchmarkRebuildAndQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(9))
	pts := make([]Point, 10_000)
	for i := range pts {
		pts[i] = Point{rng.Float32() * 800, rng.Float32() * 800}
	}
	tree := New[int](arena, 32)
	var dst []int

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tree.Reset(arena)
		for i, p := range pts {
			tree.Insert(p, 10, i)
		}
		for _, p := range pts {
			dst = tree.QueryCircleInto(dst[:0], p, 10)
		}
	}
}

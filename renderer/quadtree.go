package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/quadtree"
)

// QuadtreeOverlay outlines every node of a quadtree, shading deeper nodes
// more strongly.
type QuadtreeOverlay struct {
	Base      rl.Color
	Thickness float32
}

// NewQuadtreeOverlay creates an overlay with the default green outline.
func NewQuadtreeOverlay() *QuadtreeOverlay {
	return &QuadtreeOverlay{
		Base:      rl.Color{R: 80, G: 200, B: 120, A: 255},
		Thickness: 1,
	}
}

// NodeWalker is the read side of a quadtree needed for drawing.
type NodeWalker interface {
	Walk(fn func(bounds quadtree.Rect, depth, entries int))
	Depth() int
}

// Draw outlines the nodes of t in arena coordinates.
func (o *QuadtreeOverlay) Draw(t NodeWalker) {
	maxDepth := t.Depth()
	t.Walk(func(b quadtree.Rect, depth, entries int) {
		color := DepthColor(o.Base, depth, maxDepth)
		rect := rl.Rectangle{X: b.Left, Y: b.Top, Width: b.Width, Height: b.Height}
		rl.DrawRectangleLinesEx(rect, o.Thickness, color)
		if entries > 0 {
			fill := color
			fill.A /= 8
			rl.DrawRectangleRec(rect, fill)
		}
	})
}

// DepthColor fades base from 40 alpha at the root to full alpha at maxDepth.
func DepthColor(base rl.Color, depth, maxDepth int) rl.Color {
	if maxDepth <= 0 {
		base.A = 40
		return base
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	base.A = uint8(40 + 215*depth/maxDepth)
	return base
}

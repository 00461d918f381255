// Package camera provides a 2D camera for viewing an arena larger or smaller
// than the window.
package camera

// Camera controls the viewport into the arena. The arena has hard walls, so
// the camera never wraps; it clamps instead.
type Camera struct {
	// Position is the camera center in arena coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Arena dimensions
	ArenaW, ArenaH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the arena with 1:1 zoom.
func New(viewportW, viewportH, arenaW, arenaH float32) *Camera {
	c := &Camera{
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ArenaW:    arenaW,
		ArenaH:    arenaH,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	if c.MinZoom > 1 {
		c.MinZoom = 1
	}
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole arena just fits the viewport.
func (c *Camera) fitZoom() float32 {
	zx := c.ViewportW / c.ArenaW
	zy := c.ViewportH / c.ArenaH
	if zy < zx {
		return zy
	}
	return zx
}

// WorldToScreen converts arena coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to arena coordinates. The result
// may lie outside the arena.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
}

// SetArena changes the arena extent, for example after the walls moved.
func (c *Camera) SetArena(arenaW, arenaH float32) {
	if arenaW <= 0 || arenaH <= 0 {
		return
	}
	c.ArenaW = arenaW
	c.ArenaH = arenaH
	c.updateMinZoom()
}

func (c *Camera) updateMinZoom() {
	c.MinZoom = c.fitZoom()
	if c.MinZoom > 1 {
		c.MinZoom = 1
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.ArenaW / 2
	c.Y = c.ArenaH / 2
	c.Zoom = clamp(1.0, c.MinZoom, c.MaxZoom)
}

// clampCenter keeps the view inside the arena on each axis where the view is
// smaller than the arena, and centers the arena on axes where it is not.
func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.ArenaW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.ArenaH)
}

func clampAxis(center, half, extent float32) float32 {
	if 2*half >= extent {
		return extent / 2
	}
	return clamp(center, half, extent-half)
}

// VisibleWorldBounds returns the arena-coordinate bounds of the visible area.
// Returns (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Package camera maps between world and screen coordinates for a bounded
// world viewed through a pannable, zoomable viewport.
package camera

// Camera controls the viewport into the simulation world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom is screen pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World extents; the world spans [0, WorldW] x [0, WorldH]
	WorldW, WorldH float32

	// Zoom constraints. MinZoom fits the whole world in the viewport.
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole world.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
	}
	c.MinZoom = c.fitZoom()
	c.MaxZoom = c.MinZoom * 8
	c.Reset()
	return c
}

// fitZoom is the largest zoom at which the whole world is visible.
func (c *Camera) fitZoom() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates. Points
// outside the world are not clamped.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wy+radius >= minY && wy-radius <= maxY
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.MaxZoom = c.MinZoom * 8
	c.SetZoom(c.Zoom)
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

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset shows the whole world again.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// clampCenter keeps the view over the world. On an axis where the view is
// wider than the world, the world is centered instead.
func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*c.Zoom), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Package interact handles pan and zoom of the grid view.
package interact

import (
	"math"

	"gioui.org/io/pointer"
	"gioui.org/layout"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

// TileSize is the edge of one grid cell in world units.
const TileSize = 32

const (
	minZoom = 0.1
	maxZoom = 10
)

// Camera maps world units (TileSize per cell) to screen pixels.
type Camera struct {
	OffsetX float32 // Pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // 1.0 = one world unit per pixel

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera with the default view.
func NewCamera() *Camera {
	c := &Camera{}
	c.Reset()
	return c
}

// Reset restores the default view.
func (c *Camera) Reset() {
	c.OffsetX = 20
	c.OffsetY = 20
	c.Zoom = 1.0
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// CellOrigin returns the screen position of a cell's top-left corner.
func (c *Camera) CellOrigin(p core.Pose) (float32, float32) {
	return c.WorldToScreen(float64(p.X*TileSize), float64(p.Y*TileSize))
}

// CellCenter returns the screen position of a cell's centre.
func (c *Camera) CellCenter(p core.Pose) (float32, float32) {
	return c.WorldToScreen(float64(p.X*TileSize)+TileSize/2, float64(p.Y*TileSize)+TileSize/2)
}

// CellSize returns the on-screen edge of one cell.
func (c *Camera) CellSize() float32 { return TileSize * c.Zoom }

// ScreenToCell returns the cell under a screen point. The result may be
// outside the grid.
func (c *Camera) ScreenToCell(screenX, screenY float32) core.Pose {
	wx, wy := c.ScreenToWorld(screenX, screenY)
	return core.Pose{
		X: int(math.Floor(wx / TileSize)),
		Y: int(math.Floor(wy / TileSize)),
	}
}

// HandleEvent pans on secondary-button drag and zooms on scroll.
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.Pan(ev.Position.X-c.lastX, ev.Position.Y-c.lastY)
		}
		c.lastX = ev.Position.X
		c.lastY = ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		switch {
		case ev.Scroll.Y > 0:
			c.ZoomBy(1/1.1, ev.Position.X, ev.Position.Y)
		case ev.Scroll.Y < 0:
			c.ZoomBy(1.1, ev.Position.X, ev.Position.Y)
		}
	}
}

// Pan pans the camera by the given screen delta.
func (c *Camera) Pan(dx, dy float32) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// ZoomBy zooms by a factor, keeping the world point under the given screen
// point fixed.
func (c *Camera) ZoomBy(factor float32, centerX, centerY float32) {
	worldX, worldY := c.ScreenToWorld(centerX, centerY)
	c.Zoom = clampZoom(c.Zoom * factor)

	newScreenX, newScreenY := c.WorldToScreen(worldX, worldY)
	c.OffsetX += centerX - newScreenX
	c.OffsetY += centerY - newScreenY
}

// FitGrid zooms and centres so a rows x cols grid fills the screen minus
// margin on every side.
func (c *Camera) FitGrid(rows, cols int, screenWidth, screenHeight, margin float32) {
	worldW := float32(cols * TileSize)
	worldH := float32(rows * TileSize)
	if worldW <= 0 || worldH <= 0 {
		return
	}

	zoomX := (screenWidth - 2*margin) / worldW
	zoomY := (screenHeight - 2*margin) / worldH
	c.Zoom = clampZoom(min(zoomX, zoomY))

	c.OffsetX = screenWidth/2 - worldW/2*c.Zoom
	c.OffsetY = screenHeight/2 - worldH/2*c.Zoom
}

func clampZoom(z float32) float32 {
	return min(max(z, minZoom), maxZoom)
}

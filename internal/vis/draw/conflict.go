package draw

import (
	"image/color"
	"math"
	"time"

	"gioui.org/layout"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
)

// Event colours.
var (
	ColorConflict   = color.NRGBA{R: 255, G: 80, B: 80, A: 220}
	ColorCollision  = color.NRGBA{R: 255, G: 150, B: 80, A: 220}
	ColorVisibility = color.NRGBA{R: 80, G: 160, B: 255, A: 50}
)

// DrawConflict rings a cell shared by two agents. The ring pulses while the
// window redraws.
func DrawConflict(gtx layout.Context, c algo.Conflict, camera *interact.Camera) {
	cx, cy := camera.CellCenter(c.Pose)
	pulse := float32(math.Sin(float64(time.Now().UnixMilli())/200.0)*0.15 + 0.85)
	r := camera.CellSize() * 0.5 * pulse
	DrawCircleOutline(gtx, cx, cy, r, ColorConflict, 3*camera.Zoom)
}

// DrawCollision crosses the obstacle cell an agent bumped into and joins it
// to the agent.
func DrawCollision(gtx layout.Context, from, attempted core.Pose, camera *interact.Camera) {
	x1, y1 := camera.CellCenter(from)
	x2, y2 := camera.CellCenter(attempted)
	w := 2 * camera.Zoom
	drawLine(gtx, x1, y1, x2, y2, w, ColorCollision)

	l := camera.CellSize() * 0.3
	drawLine(gtx, x2-l, y2-l, x2+l, y2+l, w, ColorCollision)
	drawLine(gtx, x2-l, y2+l, x2+l, y2-l, w, ColorCollision)
}

// DrawVisibility shades an observation window of w x h cells starting at
// origin.
func DrawVisibility(gtx layout.Context, origin core.Pose, w, h int, camera *interact.Camera) {
	x0, y0 := camera.CellOrigin(origin)
	x1, y1 := camera.CellOrigin(origin.Add(w, h))
	fillRect(gtx, x0, y0, x1, y1, ColorVisibility)
}

package draw

import (
	"image/color"

	"gioui.org/layout"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
)

// DrawPath draws a polyline through the cell centres of path.
func DrawPath(gtx layout.Context, path []core.Pose, camera *interact.Camera, col color.NRGBA, width float32) {
	if len(path) < 2 {
		return
	}
	w := width * camera.Zoom
	for i := 0; i < len(path)-1; i++ {
		x1, y1 := camera.CellCenter(path[i])
		x2, y2 := camera.CellCenter(path[i+1])
		drawLine(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawPathTrail draws a pose history that fades toward its oldest end.
func DrawPathTrail(gtx layout.Context, history []core.Pose, camera *interact.Camera, base color.NRGBA, maxWidth float32) {
	n := len(history)
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		col := base
		col.A = uint8(50 + float64(i)/float64(n)*150)
		w := maxWidth * camera.Zoom * (0.3 + 0.7*float32(i)/float32(n))

		x1, y1 := camera.CellCenter(history[i])
		x2, y2 := camera.CellCenter(history[i+1])
		drawLine(gtx, x1, y1, x2, y2, w, col)
	}
}

// DrawFuturePath draws a robot's remaining path dimmed, with a dot on its
// goal.
func DrawFuturePath(gtx layout.Context, future core.Path, camera *interact.Camera) {
	if len(future) < 2 {
		return
	}
	col := ColorRobot
	col.A = 90
	DrawPath(gtx, future, camera, col, 2)

	gx, gy := camera.CellCenter(future.Last())
	drawFilledCircle(gtx, gx, gy, camera.CellSize()*0.12, col)
}

package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
)

// Entity colours.
var (
	ColorRobot         = color.NRGBA{R: 210, G: 60, B: 60, A: 255}
	ColorAgentSelected = color.NRGBA{R: 255, G: 230, B: 80, A: 255}

	agentPalette = []color.NRGBA{
		{R: 255, G: 150, B: 40, A: 255}, // orange
		{R: 60, G: 120, B: 230, A: 255}, // blue
		{R: 60, G: 170, B: 80, A: 255},  // green
		{R: 170, G: 90, B: 210, A: 255}, // purple
		{R: 40, G: 180, B: 190, A: 255}, // teal
	}
)

// AgentColor returns the colour of agent i.
func AgentColor(i int) color.NRGBA {
	return agentPalette[i%len(agentPalette)]
}

// DrawRobot draws a robot as a square inset in its cell.
func DrawRobot(gtx layout.Context, p core.Pose, camera *interact.Camera) {
	cx, cy := camera.CellCenter(p)
	drawSquare(gtx, cx, cy, camera.CellSize()*0.6, ColorRobot)
}

// DrawRobots draws every robot pose.
func DrawRobots(gtx layout.Context, poses []core.Pose, camera *interact.Camera) {
	for _, p := range poses {
		DrawRobot(gtx, p, camera)
	}
}

// DrawAgent draws agent i as a disc, ringed when selected.
func DrawAgent(gtx layout.Context, p core.Pose, i int, camera *interact.Camera, selected bool) {
	cx, cy := camera.CellCenter(p)
	r := camera.CellSize() * 0.35
	drawFilledCircle(gtx, cx, cy, r, AgentColor(i))
	if selected {
		DrawCircleOutline(gtx, cx, cy, r+3*camera.Zoom, ColorAgentSelected, 2*camera.Zoom)
	}
}

// DrawAgentGoal marks agent i's goal with a small diamond in its colour.
func DrawAgentGoal(gtx layout.Context, p core.Pose, i int, camera *interact.Camera) {
	cx, cy := camera.CellCenter(p)
	h := camera.CellSize() * 0.2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx, cy-h))
	path.LineTo(f32.Pt(cx+h, cy))
	path.LineTo(f32.Pt(cx, cy+h))
	path.LineTo(f32.Pt(cx-h, cy))
	path.Close()
	paint.FillShape(gtx.Ops, AgentColor(i), clip.Outline{Path: path.End()}.Op())
}

func drawSquare(gtx layout.Context, cx, cy, size float32, col color.NRGBA) {
	half := size / 2
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(cx-half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy-half))
	path.LineTo(f32.Pt(cx+half, cy+half))
	path.LineTo(f32.Pt(cx-half, cy+half))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	circle(&path, cx, cy, radius, 16)
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

// Package draw paints grid world entities with Gio.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
)

// Tile colours by cell type.
var (
	ColorFree     = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	ColorObstacle = color.NRGBA{R: 40, G: 40, B: 45, A: 255}
	ColorGoal     = color.NRGBA{R: 120, G: 200, B: 120, A: 255}
	ColorUnseen   = color.NRGBA{R: 90, G: 90, B: 95, A: 255}
	ColorGridLine = color.NRGBA{R: 180, G: 180, B: 185, A: 255}
)

// TileColor returns the background colour of a cell. Agent and robot cells
// are drawn as free; their sprites go on top.
func TileColor(c core.CellType) color.NRGBA {
	switch c {
	case core.CellObstacle:
		return ColorObstacle
	case core.CellGoal:
		return ColorGoal
	case core.CellUnseen:
		return ColorUnseen
	default:
		return ColorFree
	}
}

// DrawTiles fills every cell of grid with its tile colour.
func DrawTiles(gtx layout.Context, grid core.CellReader, camera *interact.Camera) {
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			p := core.Pose{X: x, Y: y}
			FillCell(gtx, p, camera, TileColor(grid.At(p)))
		}
	}
}

// FillCell fills one cell.
func FillCell(gtx layout.Context, p core.Pose, camera *interact.Camera, col color.NRGBA) {
	x, y := camera.CellOrigin(p)
	s := camera.CellSize()
	fillRect(gtx, x, y, x+s, y+s, col)
}

// DrawGridLines draws cell borders over a rows x cols grid.
func DrawGridLines(gtx layout.Context, rows, cols int, camera *interact.Camera, col color.NRGBA) {
	x0, y0 := camera.CellOrigin(core.Pose{})
	x1, y1 := camera.CellOrigin(core.Pose{X: cols, Y: rows})
	s := camera.CellSize()

	for i := 0; i <= cols; i++ {
		x := x0 + float32(i)*s
		fillRect(gtx, x, y0, x+1, y1, col)
	}
	for j := 0; j <= rows; j++ {
		y := y0 + float32(j)*s
		fillRect(gtx, x0, y, x1, y+1, col)
	}
}

func fillRect(gtx layout.Context, x0, y0, x1, y1 float32, col color.NRGBA) {
	r := image.Rect(int(x0), int(y0), int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))))
	paint.FillShape(gtx.Ops, col, clip.Rect(r).Op())
}

// DrawCircleOutline draws a ring.
func DrawCircleOutline(gtx layout.Context, centerX, centerY float32, radius float32, col color.NRGBA, strokeWidth float32) {
	var p clip.Path
	p.Begin(gtx.Ops)
	circle(&p, centerX, centerY, radius, 24)
	circle(&p, centerX, centerY, max(radius-strokeWidth, 0), 24)
	paint.FillShape(gtx.Ops, col, clip.Outline{Path: p.End()}.Op())
}

func circle(p *clip.Path, cx, cy, r float32, segments int) {
	p.MoveTo(f32.Pt(cx+r, cy))
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		p.LineTo(f32.Pt(cx+r*float32(math.Cos(angle)), cy+r*float32(math.Sin(angle))))
	}
	p.Close()
}

// Package widgets provides Gio UI widgets for the visualizer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/draw"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/state"
)

// Workspace draws the grid world and handles pan, zoom and agent
// selection.
type Workspace struct {
	sim    *sim.Simulator
	camera *interact.Camera
	view   *state.View
	fitted bool
}

// NewWorkspace creates the grid view.
func NewWorkspace(s *sim.Simulator, camera *interact.Camera, view *state.View) *Workspace {
	return &Workspace{
		sim:    s,
		camera: camera,
		view:   view,
	}
}

// Refit fits the grid to the widget on the next frame.
func (w *Workspace) Refit() { w.fitted = false }

// Layout renders the workspace. last may be nil before the first tick.
func (w *Workspace) Layout(gtx layout.Context, last *sim.StepResult) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	bg := w.sim.Background()
	if !w.fitted && bounds.X > 0 && bounds.Y > 0 {
		w.camera.FitGrid(bg.Rows(), bg.Cols(), float32(bounds.X), float32(bounds.Y), 20)
		w.fitted = true
	}

	w.handlePointerEvents(gtx)

	draw.DrawTiles(gtx, bg, w.camera)
	draw.DrawGridLines(gtx, bg.Rows(), bg.Cols(), w.camera, draw.ColorGridLine)

	agents := w.sim.Agents()
	for i, a := range agents {
		draw.DrawAgentGoal(gtx, a.Goal, i, w.camera)
	}

	if w.view.ShowVisibility && last != nil {
		for _, o := range last.Observations {
			if w.view.Selected >= 0 && o.Agent != w.view.Selected {
				continue
			}
			draw.DrawVisibility(gtx, o.Origin, o.Window.Cols(), o.Window.Rows(), w.camera)
		}
	}

	if w.view.ShowFuture {
		for _, fp := range w.sim.RobotFuturePaths() {
			draw.DrawFuturePath(gtx, fp, w.camera)
		}
	}

	if w.view.ShowTrajectory {
		for i, tr := range w.sim.Trajectories() {
			draw.DrawPathTrail(gtx, tr, w.camera, draw.AgentColor(i), 4)
		}
	}

	draw.DrawRobots(gtx, w.sim.RobotPoses(), w.camera)
	for i, a := range agents {
		draw.DrawAgent(gtx, a.Pose, i, w.camera, i == w.view.Selected)
	}

	if last != nil {
		for _, c := range last.Collisions {
			draw.DrawCollision(gtx, c.Pose, c.Attempted, w.camera)
		}
		for _, c := range last.Conflicts {
			draw.DrawConflict(gtx, c, w.camera)
		}
	}

	return layout.Dimensions{Size: bounds}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  w,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		w.camera.HandleEvent(gtx, pe)
		if pe.Kind == pointer.Press && pe.Buttons.Contain(pointer.ButtonPrimary) {
			cell := w.camera.ScreenToCell(pe.Position.X, pe.Position.Y)
			w.view.Select(cell, w.sim.Agents())
		}
	}
}

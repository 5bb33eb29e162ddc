package widgets

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/state"
)

// Commands are the actions the toolbar can trigger.
type Commands struct {
	Step       func()
	TogglePlay func()
	Faster     func()
	Slower     func()
	ResetView  func()
}

// Toolbar shows run controls, display toggles and tick counters.
type Toolbar struct {
	sim      *sim.Simulator
	view     *state.View
	playback *state.Playback
	cmds     Commands

	stepBtn   widget.Clickable
	playBtn   widget.Clickable
	slowerBtn widget.Clickable
	fasterBtn widget.Clickable
	resetBtn  widget.Clickable

	trajBtn   widget.Clickable
	futureBtn widget.Clickable
	visBtn    widget.Clickable
}

// NewToolbar creates a toolbar bound to the simulator and view state.
func NewToolbar(s *sim.Simulator, view *state.View, playback *state.Playback, cmds Commands) *Toolbar {
	return &Toolbar{
		sim:      s,
		view:     view,
		playback: playback,
		cmds:     cmds,
	}
}

// Layout renders the toolbar. last may be nil before the first tick.
func (t *Toolbar) Layout(gtx layout.Context, th *material.Theme, last *sim.StepResult) layout.Dimensions {
	height := gtx.Dp(unit.Dp(44))
	rect := image.Rect(0, 0, gtx.Constraints.Max.X, height)
	paint.FillShape(gtx.Ops, color.NRGBA{R: 40, G: 43, B: 48, A: 255}, clip.Rect(rect).Op())

	t.handleClicks(gtx)

	return layout.Inset{Left: unit.Dp(10), Right: unit.Dp(10), Top: unit.Dp(8), Bottom: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.stepBtn, ">|", false)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if t.playback.Playing {
					return t.button(gtx, th, &t.playBtn, "||", true)
				}
				return t.button(gtx, th, &t.playBtn, ">", false)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.slowerBtn, "-", false)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.fasterBtn, "+", false)
			}),
			layout.Rigid(t.separator),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.trajBtn, "T", t.view.ShowTrajectory)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(2)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.futureBtn, "F", t.view.ShowFuture)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(2)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.visBtn, "V", t.view.ShowVisibility)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(2)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return t.button(gtx, th, &t.resetBtn, "[]", false)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				label := material.Label(th, 13, t.status(last))
				label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
				return label.Layout(gtx)
			}),
		)
	})
}

func (t *Toolbar) status(last *sim.StepResult) string {
	s := fmt.Sprintf("tick %d   agents %d   robots %d", t.sim.TickCount(), len(t.sim.Agents()), len(t.sim.RobotPoses()))
	if last != nil {
		s += fmt.Sprintf("   collisions %d   conflicts %d", len(last.Collisions), len(last.Conflicts))
	}
	if i := t.view.Selected; i >= 0 {
		a := t.sim.Agents()[i]
		s += fmt.Sprintf("   [%s %v -> %v]", a.Name, a.Pose, a.Goal)
	}
	return s
}

func (t *Toolbar) separator(gtx layout.Context) layout.Dimensions {
	return layout.Inset{Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		rect := image.Rect(0, 0, 1, 24)
		paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 65, B: 70, A: 255}, clip.Rect(rect).Op())
		return layout.Dimensions{Size: image.Point{X: 1, Y: 24}}
	})
}

func (t *Toolbar) button(gtx layout.Context, th *material.Theme, btn *widget.Clickable, text string, active bool) layout.Dimensions {
	bg := color.NRGBA{R: 55, G: 58, B: 65, A: 255}
	if active {
		bg = color.NRGBA{R: 80, G: 130, B: 180, A: 255}
	}
	if btn.Hovered() {
		bg.R = min(bg.R+15, 255)
		bg.G = min(bg.G+15, 255)
		bg.B = min(bg.B+15, 255)
	}

	return btn.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Background{}.Layout(gtx,
			func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min = image.Point{X: 32, Y: 28}
				rect := image.Rect(0, 0, gtx.Constraints.Min.X, gtx.Constraints.Min.Y)
				paint.FillShape(gtx.Ops, bg, clip.Rect(rect).Op())
				return layout.Dimensions{Size: gtx.Constraints.Min}
			},
			func(gtx layout.Context) layout.Dimensions {
				return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					label := material.Label(th, 12, text)
					label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
					return label.Layout(gtx)
				})
			},
		)
	})
}

func (t *Toolbar) handleClicks(gtx layout.Context) {
	for t.stepBtn.Clicked(gtx) {
		t.cmds.Step()
	}
	for t.playBtn.Clicked(gtx) {
		t.cmds.TogglePlay()
	}
	for t.fasterBtn.Clicked(gtx) {
		t.cmds.Faster()
	}
	for t.slowerBtn.Clicked(gtx) {
		t.cmds.Slower()
	}
	for t.resetBtn.Clicked(gtx) {
		t.cmds.ResetView()
	}
	for t.trajBtn.Clicked(gtx) {
		t.view.ShowTrajectory = !t.view.ShowTrajectory
	}
	for t.futureBtn.Clicked(gtx) {
		t.view.ShowFuture = !t.view.ShowFuture
	}
	for t.visBtn.Clicked(gtx) {
		t.view.ShowVisibility = !t.view.ShowVisibility
	}
}

// Package vis implements a Gio window for stepping a grid world simulation.
package vis

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/interact"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/state"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis/widgets"
)

// App drives a simulator from keyboard and toolbar input.
//
// Right arrow runs one tick, space toggles automatic ticking, Escape closes
// the window. The window also closes once maxSteps ticks have run.
type App struct {
	sim      *sim.Simulator
	src      sim.ActionSource
	maxSteps int
	logger   *slog.Logger

	theme     *material.Theme
	camera    *interact.Camera
	view      *state.View
	playback  *state.Playback
	workspace *widgets.Workspace
	toolbar   *widgets.Toolbar

	last    *sim.StepResult
	closing bool
}

// NewApp creates the visualizer for s. Actions come from src.
func NewApp(s *sim.Simulator, src sim.ActionSource, maxSteps int, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		sim:      s,
		src:      src,
		maxSteps: maxSteps,
		logger:   logger,
		theme:    material.NewTheme(),
		camera:   interact.NewCamera(),
		view:     state.NewView(),
		playback: state.NewPlayback(200 * time.Millisecond),
	}
	a.workspace = widgets.NewWorkspace(s, a.camera, a.view)
	a.toolbar = widgets.NewToolbar(s, a.view, a.playback, widgets.Commands{
		Step:       a.step,
		TogglePlay: func() { a.playback.Toggle(time.Now()) },
		Faster:     a.playback.Faster,
		Slower:     a.playback.Slower,
		ResetView:  a.workspace.Refit,
	})
	return a
}

var keyFilters = []event.Filter{
	key.Filter{Name: key.NameRightArrow},
	key.Filter{Name: key.NameEscape},
	key.Filter{Name: key.NameSpace},
	key.Filter{Name: "R"},
	key.Filter{Name: "T"},
	key.Filter{Name: "F"},
	key.Filter{Name: "V"},
	key.Filter{Name: "+"},
	key.Filter{Name: "-"},
}

// Run processes window events until the window is closed.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(keyFilters...)
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}

			now := time.Now()
			if a.playback.Due(now) {
				a.step()
			}

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.closing {
				w.Perform(system.ActionClose)
				continue
			}
			if a.playback.Playing {
				gtx.Execute(op.InvalidateCmd{At: now.Add(a.playback.Wait(now))})
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case key.NameRightArrow:
		a.playback.Pause()
		a.step()
	case key.NameEscape:
		a.closing = true
	case key.NameSpace:
		a.playback.Toggle(time.Now())
	case "R":
		a.workspace.Refit()
	case "T":
		a.view.ShowTrajectory = !a.view.ShowTrajectory
	case "F":
		a.view.ShowFuture = !a.view.ShowFuture
	case "V":
		a.view.ShowVisibility = !a.view.ShowVisibility
	case "+":
		a.playback.Faster()
	case "-":
		a.playback.Slower()
	}
}

// step runs one tick. Errors stop automatic ticking and are logged; the
// window stays open so the last state can be inspected.
func (a *App) step() {
	if a.sim.TickCount() >= a.maxSteps {
		a.logger.Info("done", "ticks", a.sim.TickCount())
		a.closing = true
		return
	}

	actions, err := a.src.Actions(a.sim.TickCount()+1, a.sim.Poses())
	if err != nil {
		a.logger.Error("no actions for tick", "tick", a.sim.TickCount()+1, "error", err)
		a.playback.Pause()
		return
	}
	res, err := a.sim.Step(context.Background(), actions)
	if err != nil {
		a.logger.Error("tick failed", "tick", a.sim.TickCount()+1, "error", err)
		a.playback.Pause()
		return
	}
	a.last = res
	if a.sim.AllAtGoal() && a.playback.Playing {
		a.logger.Info("all agents at goal", "tick", res.Tick)
		a.playback.Pause()
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 30, G: 30, B: 35, A: 255})

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return a.toolbar.Layout(gtx, a.theme, a.last)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return a.workspace.Layout(gtx, a.last)
		}),
	)
}

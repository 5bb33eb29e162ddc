package state

import "github.com/elektrokombinacija/gridworld-sim/internal/core"

// View holds display toggles and the selected agent.
type View struct {
	ShowTrajectory bool
	ShowFuture     bool
	ShowVisibility bool
	Selected       int // Agent index, -1 for none
}

// NewView returns the default view: robot paths and observation windows on,
// nothing selected.
func NewView() *View {
	return &View{
		ShowFuture:     true,
		ShowVisibility: true,
		Selected:       -1,
	}
}

// Select toggles selection of the agent standing on p. Clicking an empty
// cell clears the selection.
func (v *View) Select(p core.Pose, agents []*core.Agent) {
	for i, a := range agents {
		if a.Pose == p {
			if v.Selected == i {
				v.Selected = -1
			} else {
				v.Selected = i
			}
			return
		}
	}
	v.Selected = -1
}

package sim

import "github.com/elektrokombinacija/gridworld-sim/internal/core"

// Observation is an agent's local view of the working snapshot.
//
// Window is clipped to the grid bounds, so near an edge it is smaller than
// 2*radius+1 in that direction. Origin is the world pose of Window's (0,0).
type Observation struct {
	Agent  int
	Origin core.Pose
	Window *core.Grid
}

// WorldPose converts a window-local pose to world coordinates.
func (o Observation) WorldPose(local core.Pose) core.Pose {
	return core.Pose{X: o.Origin.X + local.X, Y: o.Origin.Y + local.Y}
}

func (s *Simulator) observe(current *core.Snapshot) []Observation {
	out := make([]Observation, len(s.agents))
	for i, a := range s.agents {
		w, origin := current.Window(a.Pose, s.radius)
		out[i] = Observation{Agent: i, Origin: origin, Window: w}
	}
	return out
}

// PaddedObservation returns a fixed (2r+1)x(2r+1) view around agent i in
// the last working snapshot, with cells outside the grid marked Unseen.
func (s *Simulator) PaddedObservation(i int) *core.Grid {
	return s.current.PaddedWindow(s.agents[i].Pose, s.radius)
}

// Package fleet manages the autonomous robots that act as dynamic
// obstacles.
package fleet

import (
	"errors"
	"math/rand"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

var (
	// ErrNoFreeCell is returned when free-space sampling finds no Free cell.
	ErrNoFreeCell = errors.New("no free cell to sample")
	// ErrNeedsGoal is returned by Advance when the path is used up.
	ErrNeedsGoal = errors.New("robot needs a new goal")
)

// RobotID is the index of a robot in its manager.
type RobotID int

// State is the robot's replanning state.
type State int

const (
	NeedsGoal State = iota // Path consumed, waiting for a new goal
	Moving                 // Steps remain on the current path
)

func (s State) String() string {
	return [...]string{"NeedsGoal", "Moving"}[s]
}

// Robot wanders between randomly sampled goals.
type Robot struct {
	ID RobotID

	pose      core.Pose
	goal      core.Pose
	path      core.Path // Planned path, inclusive of start and goal
	remaining int       // Path elements not yet consumed
	future    core.Path // Suffix of path from the last consumed pose
	planner   *algo.Planner
}

// NewRobot creates a robot at pose with no path.
func NewRobot(id RobotID, pose core.Pose, planner *algo.Planner) *Robot {
	return &Robot{
		ID:      id,
		pose:    pose,
		goal:    pose,
		planner: planner,
	}
}

// SampleFreeSpace picks a Free cell uniformly at random.
func SampleFreeSpace(grid core.CellReader, rng *rand.Rand) (core.Pose, error) {
	var free []core.Pose
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			p := core.Pose{X: x, Y: y}
			if grid.At(p) == core.CellFree {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return core.Pose{}, ErrNoFreeCell
	}
	return free[rng.Intn(len(free))], nil
}

// Pose returns the current pose.
func (r *Robot) Pose() core.Pose { return r.pose }

// Goal returns the goal of the current or last path.
func (r *Robot) Goal() core.Pose { return r.goal }

// Path returns the whole planned path.
func (r *Robot) Path() core.Path { return r.path.Clone() }

// FuturePath returns the not yet traversed suffix of the path.
func (r *Robot) FuturePath() core.Path { return r.future.Clone() }

// Remaining returns the number of path elements left to consume.
func (r *Robot) Remaining() int { return r.remaining }

// State reports whether the robot is Moving or NeedsGoal.
func (r *Robot) State() State {
	if r.remaining > 0 {
		return Moving
	}
	return NeedsGoal
}

// Plan searches a path from the current pose to goal over grid. On failure
// the robot is left unchanged and the planner error is returned.
func (r *Robot) Plan(goal core.Pose, grid core.CellReader) error {
	path, err := r.planner.Plan(r.pose, goal, grid)
	if err != nil {
		return err
	}
	r.goal = goal
	r.path = path
	r.remaining = len(path)
	r.future = path.Clone()
	return nil
}

// Advance consumes the next path element and moves onto it. The first call
// after Plan consumes the start pose, so the robot holds still for one tick.
func (r *Robot) Advance() (core.Pose, error) {
	if r.remaining <= 0 {
		return r.pose, ErrNeedsGoal
	}
	idx := len(r.path) - r.remaining
	r.remaining--
	r.pose = r.path[idx]
	r.future = r.path[idx:].Clone()
	return r.pose, nil
}

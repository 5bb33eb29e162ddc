package fleet

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

// RobotState is a robot's pose and remaining path after a tick.
type RobotState struct {
	ID     RobotID
	Pose   core.Pose
	Future core.Path
	State  State
}

// Manager owns the robot pool and advances it tick by tick.
//
// Robots are processed in index order. A robot that needs a goal samples
// one and replans during the tick, and holds its pose until the next tick.
// If the new goal cannot be reached it stays NeedsGoal and tries a different
// goal on the following tick.
type Manager struct {
	robots []*Robot
	costs  core.CostTable
	rng    *rand.Rand
	logger *slog.Logger
}

// NewManager creates an empty manager. rng drives all goal sampling.
func NewManager(costs core.CostTable, rng *rand.Rand, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		costs:  costs,
		rng:    rng,
		logger: logger,
	}
}

// Initialize spawns count robots on distinct Free cells of background.
//
// Starts and goals are sampled on a private snapshot in which every chosen
// start is marked occupied, so no two robots share a start cell. The
// snapshot is not updated with planned paths and is dropped afterwards.
func (m *Manager) Initialize(background *core.StaticLayer, count int) error {
	local := background.Snapshot()
	m.robots = make([]*Robot, 0, count)

	for i := 0; i < count; i++ {
		start, err := SampleFreeSpace(local, m.rng)
		if err != nil {
			return fmt.Errorf("robot %d start: %w", i, err)
		}
		local.Set(start, core.CellDynamicObstacle)

		goal, err := SampleFreeSpace(local, m.rng)
		if err != nil {
			return fmt.Errorf("robot %d goal: %w", i, err)
		}

		r := NewRobot(RobotID(i), start, algo.NewPlanner(m.costs))
		if err := r.Plan(goal, local); err != nil {
			m.logger.Warn("initial robot plan failed",
				"robot", i, "start", start, "goal", goal, "error", err)
			observeReplan(err)
		} else {
			observeReplan(nil)
		}
		m.robots = append(m.robots, r)
	}

	m.logger.Debug("robots initialized", "count", count)
	return nil
}

// Tick moves or replans every robot in index order and stamps each new
// pose into current as DynamicObstacle, so later robots in the same tick
// see earlier ones. Paths already planned are not invalidated.
func (m *Manager) Tick(current *core.Snapshot) ([]RobotState, error) {
	states := make([]RobotState, len(m.robots))

	for i, r := range m.robots {
		if r.State() == NeedsGoal {
			if err := m.replan(r, current); err != nil {
				return nil, err
			}
		} else if _, err := r.Advance(); err != nil {
			return nil, fmt.Errorf("robot %d: %w", r.ID, err)
		}

		current.Set(r.Pose(), core.CellDynamicObstacle)
		states[i] = RobotState{
			ID:     r.ID,
			Pose:   r.Pose(),
			Future: r.FuturePath(),
			State:  r.State(),
		}
	}
	return states, nil
}

// replan samples a goal from current and plans toward it. Only an empty
// free-space pool is returned as an error.
func (m *Manager) replan(r *Robot, current *core.Snapshot) error {
	goal, err := SampleFreeSpace(current, m.rng)
	if err != nil {
		return fmt.Errorf("robot %d goal: %w", r.ID, err)
	}

	err = r.Plan(goal, current)
	observeReplan(err)
	switch {
	case err == nil:
		m.logger.Debug("robot replanned", "robot", r.ID, "goal", goal, "steps", r.Remaining())
	case errors.Is(err, algo.ErrNoPath), errors.Is(err, algo.ErrInvalidGoal):
		m.logger.Info("robot goal unreachable, retrying next tick",
			"robot", r.ID, "pose", r.Pose(), "goal", goal, "error", err)
	default:
		return fmt.Errorf("robot %d plan: %w", r.ID, err)
	}
	return nil
}

// Len returns the number of robots.
func (m *Manager) Len() int { return len(m.robots) }

// Poses returns every robot pose in index order.
func (m *Manager) Poses() []core.Pose {
	out := make([]core.Pose, len(m.robots))
	for i, r := range m.robots {
		out[i] = r.Pose()
	}
	return out
}

// FuturePaths returns every robot's remaining path in index order.
func (m *Manager) FuturePaths() []core.Path {
	out := make([]core.Path, len(m.robots))
	for i, r := range m.robots {
		out[i] = r.FuturePath()
	}
	return out
}

package core

import (
	"errors"
	"fmt"
)

// ErrInvalidScenario is wrapped by every Validate failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// AgentSpec describes one controlled agent at construction time.
type AgentSpec struct {
	Name  string
	Start Pose
	Goal  Pose
}

// Scenario holds everything needed to build a simulation.
type Scenario struct {
	Rows, Cols       int
	Obstacles        []Pose
	Agents           []AgentSpec
	RobotCount       int   // Dynamic obstacles to spawn
	Seed             int64 // PRNG seed for robot sampling
	VisibilityRadius int   // Observation window radius
	Costs            CostTable
}

// NewScenario creates an empty scenario with default costs.
func NewScenario(rows, cols int) *Scenario {
	return &Scenario{
		Rows:             rows,
		Cols:             cols,
		VisibilityRadius: 2,
		Costs:            DefaultCostTable(),
	}
}

// Validate checks scenario consistency.
func (sc *Scenario) Validate() error {
	if sc.Rows <= 0 || sc.Cols <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidScenario, sc.Rows, sc.Cols)
	}
	if sc.RobotCount < 0 {
		return fmt.Errorf("%w: negative robot count %d", ErrInvalidScenario, sc.RobotCount)
	}
	if sc.VisibilityRadius < 0 {
		return fmt.Errorf("%w: negative visibility radius %d", ErrInvalidScenario, sc.VisibilityRadius)
	}
	for _, c := range sc.Costs {
		if c < 0 {
			return fmt.Errorf("%w: negative traversal cost", ErrInvalidScenario)
		}
	}

	inBounds := func(p Pose) bool {
		return p.X >= 0 && p.X < sc.Cols && p.Y >= 0 && p.Y < sc.Rows
	}

	blocked := make(map[Pose]bool, len(sc.Obstacles))
	for _, o := range sc.Obstacles {
		if !inBounds(o) {
			return fmt.Errorf("%w: obstacle %v out of bounds", ErrInvalidScenario, o)
		}
		blocked[o] = true
	}

	names := make(map[string]bool, len(sc.Agents))
	for _, a := range sc.Agents {
		if a.Name == "" {
			return fmt.Errorf("%w: agent without name", ErrInvalidScenario)
		}
		if names[a.Name] {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidScenario, a.Name)
		}
		names[a.Name] = true
		if !inBounds(a.Start) || !inBounds(a.Goal) {
			return fmt.Errorf("%w: agent %q start %v or goal %v out of bounds",
				ErrInvalidScenario, a.Name, a.Start, a.Goal)
		}
		if blocked[a.Start] {
			return fmt.Errorf("%w: agent %q starts on an obstacle", ErrInvalidScenario, a.Name)
		}
		if blocked[a.Goal] {
			return fmt.Errorf("%w: agent %q goal is an obstacle", ErrInvalidScenario, a.Name)
		}
	}
	return nil
}

// Goals returns the goal pose of every agent in order.
func (sc *Scenario) Goals() []Pose {
	goals := make([]Pose, len(sc.Agents))
	for i, a := range sc.Agents {
		goals[i] = a.Goal
	}
	return goals
}

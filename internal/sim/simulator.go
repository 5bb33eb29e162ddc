// Package sim runs the tick-by-tick grid world simulation.
//
// One tick moves every robot, then every agent, then checks agent-agent
// conflicts and extracts local observations:
//   - the static layer is copied into a working snapshot
//   - robots advance or replan, stamping DynamicObstacle cells
//   - agents apply their actions against the static layer only
//   - agents sharing a cell are reported, never rolled back
//
// A Simulator is single-threaded and not safe for concurrent use.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/fleet"
)

// ErrActionCount is returned when Step receives one action per agent too
// few or too many. The tick is not applied.
var ErrActionCount = errors.New("action count does not match agent count")

// Collision is an agent move rejected by a static obstacle.
type Collision struct {
	Agent     int
	Name      string
	Pose      core.Pose // Where the agent stays
	Attempted core.Pose // The obstacle cell it tried to enter
}

// StepResult is everything one tick produced.
type StepResult struct {
	Tick         int
	Poses        []core.Pose        // Agent poses, index order
	Observations []Observation      // One per agent, index order
	Background   *core.StaticLayer  // Static layer, never mutated
	Collisions   []Collision        // Rejected agent moves
	Conflicts    []algo.Conflict    // Agent pairs sharing a cell
	Swaps        []algo.Swap        // Agent pairs that traded cells
	Robots       []fleet.RobotState // Robot poses and future paths
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithVisibilityRadius overrides the scenario's observation radius. New
// rejects a negative radius.
func WithVisibilityRadius(r int) Option {
	return func(s *Simulator) { s.radius = r }
}

// Simulator owns the world state across ticks.
type Simulator struct {
	runID      string
	background *core.StaticLayer
	agents     []*core.Agent
	robots     *fleet.Manager
	radius     int
	tick       int
	current    *core.Snapshot // Working snapshot of the last tick
	logger     *slog.Logger
}

// New builds a simulator from a validated scenario and spawns its robots.
func New(sc *core.Scenario, opts ...Option) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	bg, err := core.NewStaticLayer(sc.Rows, sc.Cols, sc.Obstacles, sc.Goals())
	if err != nil {
		return nil, fmt.Errorf("build static layer: %w", err)
	}

	s := &Simulator{
		runID:      uuid.NewString(),
		background: bg,
		radius:     sc.VisibilityRadius,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.radius < 0 {
		return nil, fmt.Errorf("%w: negative visibility radius %d", core.ErrInvalidScenario, s.radius)
	}
	s.logger = s.logger.With("run", s.runID)

	s.agents = make([]*core.Agent, len(sc.Agents))
	for i, a := range sc.Agents {
		s.agents[i] = core.NewAgent(core.AgentID(i), a.Name, a.Start, a.Goal)
	}

	rng := rand.New(rand.NewSource(sc.Seed))
	s.robots = fleet.NewManager(sc.Costs, rng, s.logger)
	if err := s.robots.Initialize(bg, sc.RobotCount); err != nil {
		return nil, fmt.Errorf("initialize robots: %w", err)
	}

	s.current = s.snapshotWithEntities()
	s.logger.Info("simulation created",
		"rows", sc.Rows, "cols", sc.Cols,
		"agents", len(s.agents), "robots", sc.RobotCount, "seed", sc.Seed)
	return s, nil
}

// Step advances the world by one tick. actions must hold exactly one entry
// per agent.
func (s *Simulator) Step(ctx context.Context, actions []core.Action) (*StepResult, error) {
	if len(actions) != len(s.agents) {
		stepErrors.WithLabelValues("action_count").Inc()
		return nil, fmt.Errorf("%w: got %d, want %d", ErrActionCount, len(actions), len(s.agents))
	}

	_, span := tracer().Start(ctx, "sim.Step", trace.WithAttributes(
		attribute.String("run.id", s.runID),
		attribute.Int("tick", s.tick+1),
		attribute.Int("agents", len(s.agents)),
		attribute.Int("robots", s.robots.Len()),
	))
	defer span.End()
	began := time.Now()

	current := s.background.Snapshot()

	robots, err := s.robots.Tick(current)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "robot tick failed")
		stepErrors.WithLabelValues("robots").Inc()
		return nil, fmt.Errorf("tick %d: %w", s.tick+1, err)
	}

	prev := s.Poses()
	collisions := s.moveAgents(actions, current)
	poses := s.Poses()

	conflicts := algo.FindConflicts(poses)
	for _, c := range conflicts {
		s.logger.Warn("agent conflict",
			"tick", s.tick+1,
			"agent_a", s.agents[c.A].Name, "agent_b", s.agents[c.B].Name, "pose", c.Pose)
	}
	swaps := algo.FindSwaps(prev, poses)
	for _, sw := range swaps {
		s.logger.Debug("agents swapped cells",
			"tick", s.tick+1,
			"agent_a", s.agents[sw.A].Name, "agent_b", s.agents[sw.B].Name)
	}

	for _, a := range s.agents {
		a.Record(a.Pose)
	}

	s.tick++
	s.current = current
	observations := s.observe(current)

	ticksTotal.Inc()
	collisionsTotal.Add(float64(len(collisions)))
	conflictsTotal.Add(float64(len(conflicts)))
	stepDuration.Observe(time.Since(began).Seconds())
	span.SetAttributes(
		attribute.Int("collisions", len(collisions)),
		attribute.Int("conflicts", len(conflicts)),
	)

	return &StepResult{
		Tick:         s.tick,
		Poses:        poses,
		Observations: observations,
		Background:   s.background,
		Collisions:   collisions,
		Conflicts:    conflicts,
		Swaps:        swaps,
		Robots:       robots,
	}, nil
}

// moveAgents applies actions in index order. Moves are checked against the
// static layer only; robots and other agents do not block. Each agent's
// resulting pose is stamped Agent into current.
func (s *Simulator) moveAgents(actions []core.Action, current *core.Snapshot) []Collision {
	var collisions []Collision
	for i, a := range s.agents {
		dx, dy := actions[i].Delta()
		next := s.clamp(a.Pose.Add(dx, dy))

		if s.background.At(next) == core.CellObstacle {
			s.logger.Info("agent collided with obstacle",
				"tick", s.tick+1, "agent", a.Name, "pose", a.Pose, "attempted", next)
			collisions = append(collisions, Collision{
				Agent:     i,
				Name:      a.Name,
				Pose:      a.Pose,
				Attempted: next,
			})
		} else {
			a.Pose = next
		}
		current.Set(a.Pose, core.CellAgent)
	}
	return collisions
}

func (s *Simulator) clamp(p core.Pose) core.Pose {
	return core.Pose{
		X: min(max(p.X, 0), s.background.Cols()-1),
		Y: min(max(p.Y, 0), s.background.Rows()-1),
	}
}

// snapshotWithEntities stamps robots and agents on a fresh snapshot. It is
// used for the pre-tick view before the first Step.
func (s *Simulator) snapshotWithEntities() *core.Snapshot {
	snap := s.background.Snapshot()
	for _, p := range s.robots.Poses() {
		snap.Set(p, core.CellDynamicObstacle)
	}
	for _, a := range s.agents {
		snap.Set(a.Pose, core.CellAgent)
	}
	return snap
}

// RunID returns the unique id of this simulation run.
func (s *Simulator) RunID() string { return s.runID }

// TickCount returns the number of completed ticks.
func (s *Simulator) TickCount() int { return s.tick }

// Background returns the immutable static layer.
func (s *Simulator) Background() *core.StaticLayer { return s.background }

// Current returns a copy of the last tick's working snapshot.
func (s *Simulator) Current() *core.Snapshot { return s.current.Clone() }

// Agents returns the agents in index order.
func (s *Simulator) Agents() []*core.Agent { return s.agents }

// Poses returns the agent poses in index order.
func (s *Simulator) Poses() []core.Pose {
	out := make([]core.Pose, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.Pose
	}
	return out
}

// Trajectories returns every agent's pose history in index order.
func (s *Simulator) Trajectories() [][]core.Pose {
	out := make([][]core.Pose, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.Trajectory()
	}
	return out
}

// RobotPoses returns the robot poses in index order.
func (s *Simulator) RobotPoses() []core.Pose { return s.robots.Poses() }

// RobotFuturePaths returns each robot's remaining path in index order.
func (s *Simulator) RobotFuturePaths() []core.Path { return s.robots.FuturePaths() }

// AllAtGoal reports whether every agent stands on its goal.
func (s *Simulator) AllAtGoal() bool {
	for _, a := range s.agents {
		if !a.AtGoal() {
			return false
		}
	}
	return len(s.agents) > 0
}

package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

// ActionSource supplies one action per agent for the tick about to run.
// tick counts from 1; poses are the agent poses before the tick.
type ActionSource interface {
	Actions(tick int, poses []core.Pose) ([]core.Action, error)
}

// ActionSourceFunc adapts a function to ActionSource.
type ActionSourceFunc func(tick int, poses []core.Pose) ([]core.Action, error)

func (f ActionSourceFunc) Actions(tick int, poses []core.Pose) ([]core.Action, error) {
	return f(tick, poses)
}

// FixedActions drives every agent with the same action each tick.
func FixedActions(a core.Action) ActionSource {
	return ActionSourceFunc(func(_ int, poses []core.Pose) ([]core.Action, error) {
		out := make([]core.Action, len(poses))
		for i := range out {
			out[i] = a
		}
		return out, nil
	})
}

// RunSummary aggregates the counters of a Run.
type RunSummary struct {
	RunID        string
	Ticks        int
	Collisions   int
	Conflicts    int
	AgentsAtGoal int
	Duration     time.Duration
}

// Run steps the simulation up to maxSteps times, pulling actions from src.
// Cancellation is checked between ticks. onStep, if set, sees every result.
// The summary is returned even when Run stops on an error.
func (s *Simulator) Run(ctx context.Context, src ActionSource, maxSteps int, onStep func(*StepResult)) (*RunSummary, error) {
	began := time.Now()
	sum := &RunSummary{RunID: s.runID}
	defer func() {
		sum.Duration = time.Since(began)
		for _, a := range s.agents {
			if a.AtGoal() {
				sum.AgentsAtGoal++
			}
		}
	}()

	for i := 0; i < maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		actions, err := src.Actions(s.tick+1, s.Poses())
		if err != nil {
			return sum, fmt.Errorf("actions for tick %d: %w", s.tick+1, err)
		}

		res, err := s.Step(ctx, actions)
		if err != nil {
			return sum, err
		}
		sum.Ticks++
		sum.Collisions += len(res.Collisions)
		sum.Conflicts += len(res.Conflicts)

		if onStep != nil {
			onStep(res)
		}
	}

	s.logger.Info("run finished",
		"ticks", sum.Ticks, "collisions", sum.Collisions, "conflicts", sum.Conflicts)
	return sum, nil
}

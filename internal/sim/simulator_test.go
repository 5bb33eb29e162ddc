package sim

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

func pose(x, y int) core.Pose { return core.Pose{X: x, Y: y} }

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func newSim(t *testing.T, sc *core.Scenario, opts ...Option) *Simulator {
	t.Helper()
	s, err := New(sc, opts...)
	require.NoError(t, err)
	return s
}

func TestAgentBlockedByObstacle(t *testing.T) {
	sc := core.NewScenario(5, 5)
	sc.Obstacles = []core.Pose{pose(3, 2)}
	sc.Agents = []core.AgentSpec{{Name: "agent0", Start: pose(2, 2), Goal: pose(0, 0)}}
	logger, buf := bufferLogger()
	s := newSim(t, sc, WithLogger(logger))

	res, err := s.Step(context.Background(), []core.Action{core.ActionRight})
	require.NoError(t, err)

	assert.Equal(t, []core.Pose{pose(2, 2)}, res.Poses)
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, Collision{Agent: 0, Name: "agent0", Pose: pose(2, 2), Attempted: pose(3, 2)}, res.Collisions[0])
	assert.Contains(t, buf.String(), "agent collided with obstacle")

	// Rejected agents are still visible in the working snapshot.
	assert.Equal(t, core.CellAgent, s.Current().At(pose(2, 2)))
	assert.Equal(t, core.CellObstacle, res.Background.At(pose(3, 2)))
}

func TestAgentsEnteringSameCellConflict(t *testing.T) {
	sc := core.NewScenario(4, 4)
	sc.Agents = []core.AgentSpec{
		{Name: "a", Start: pose(0, 1), Goal: pose(3, 3)},
		{Name: "b", Start: pose(1, 0), Goal: pose(3, 0)},
	}
	logger, buf := bufferLogger()
	s := newSim(t, sc, WithLogger(logger))
	before := testutil.ToFloat64(conflictsTotal)

	res, err := s.Step(context.Background(), []core.Action{core.ActionRight, core.ActionDown})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(conflictsTotal))

	assert.Equal(t, []core.Pose{pose(1, 1), pose(1, 1)}, res.Poses)
	assert.Empty(t, res.Collisions)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, algo.Conflict{A: 0, B: 1, Pose: pose(1, 1)}, res.Conflicts[0])
	assert.Contains(t, buf.String(), "agent conflict")
}

func TestMovesClampAtBorder(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(0, 0), Goal: pose(2, 2)}}
	s := newSim(t, sc)

	for _, act := range []core.Action{core.ActionUp, core.ActionLeft} {
		res, err := s.Step(context.Background(), []core.Action{act})
		require.NoError(t, err)
		assert.Equal(t, pose(0, 0), res.Poses[0])
		assert.Empty(t, res.Collisions)
	}
}

func TestActionCountMismatch(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Agents = []core.AgentSpec{
		{Name: "a", Start: pose(0, 0), Goal: pose(2, 2)},
		{Name: "b", Start: pose(2, 0), Goal: pose(0, 2)},
	}
	s := newSim(t, sc)

	tests := []struct {
		name    string
		actions []core.Action
	}{
		{"too few", []core.Action{core.ActionDown}},
		{"too many", []core.Action{core.ActionDown, core.ActionDown, core.ActionDown}},
		{"none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Step(context.Background(), tt.actions)
			assert.ErrorIs(t, err, ErrActionCount)
			assert.Equal(t, 0, s.TickCount())
			assert.Equal(t, []core.Pose{pose(0, 0), pose(2, 0)}, s.Poses())
			for _, tr := range s.Trajectories() {
				assert.Len(t, tr, 1)
			}
		})
	}
}

func TestTrajectoryGrowsByOnePerTick(t *testing.T) {
	sc := core.NewScenario(6, 6)
	sc.Obstacles = []core.Pose{pose(2, 2), pose(3, 3)}
	sc.Agents = []core.AgentSpec{
		{Name: "a", Start: pose(0, 0), Goal: pose(5, 5)},
		{Name: "b", Start: pose(5, 0), Goal: pose(0, 5)},
	}
	sc.RobotCount = 3
	sc.Seed = 7
	s := newSim(t, sc)

	actions := []core.Action{core.ActionDown, core.ActionLeft}
	for i := 1; i <= 8; i++ {
		res, err := s.Step(context.Background(), actions)
		require.NoError(t, err)
		assert.Equal(t, i, res.Tick)
		for _, tr := range s.Trajectories() {
			assert.Len(t, tr, i+1)
		}
	}
	tr := s.Trajectories()
	assert.Equal(t, pose(0, 0), tr[0][0])
	assert.Equal(t, pose(0, 5), tr[0][len(tr[0])-1])
	assert.Equal(t, pose(0, 0), tr[1][len(tr[1])-1])
}

func TestObservationWindows(t *testing.T) {
	sc := core.NewScenario(5, 5)
	sc.Agents = []core.AgentSpec{
		{Name: "corner", Start: pose(0, 0), Goal: pose(4, 4)},
		{Name: "centre", Start: pose(2, 2), Goal: pose(4, 0)},
	}
	s := newSim(t, sc)

	res, err := s.Step(context.Background(), []core.Action{core.ActionStay, core.ActionStay})
	require.NoError(t, err)
	require.Len(t, res.Observations, 2)

	corner := res.Observations[0]
	assert.Equal(t, 3, corner.Window.Rows())
	assert.Equal(t, 3, corner.Window.Cols())
	assert.Equal(t, pose(0, 0), corner.Origin)
	assert.Equal(t, core.CellAgent, corner.Window.At(pose(0, 0)))
	assert.Equal(t, core.CellAgent, corner.Window.At(pose(2, 2)))

	centre := res.Observations[1]
	assert.Equal(t, 5, centre.Window.Rows())
	assert.Equal(t, 5, centre.Window.Cols())
	assert.Equal(t, pose(2, 2), centre.WorldPose(pose(2, 2)))
	assert.Equal(t, core.CellGoal, centre.Window.At(pose(4, 4)))

	padded := s.PaddedObservation(0)
	assert.Equal(t, 5, padded.Rows())
	assert.Equal(t, core.CellUnseen, padded.At(pose(0, 0)))
	assert.Equal(t, core.CellAgent, padded.At(pose(2, 2)))
}

func TestVisibilityRadiusOption(t *testing.T) {
	sc := core.NewScenario(7, 7)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(3, 3), Goal: pose(0, 0)}}
	s := newSim(t, sc, WithVisibilityRadius(1))

	res, err := s.Step(context.Background(), []core.Action{core.ActionStay})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Observations[0].Window.Rows())
	assert.Equal(t, pose(2, 2), res.Observations[0].Origin)
}

func TestNegativeVisibilityRadiusRejected(t *testing.T) {
	sc := core.NewScenario(7, 7)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(3, 3), Goal: pose(0, 0)}}

	s, err := New(sc, WithVisibilityRadius(-3))
	assert.ErrorIs(t, err, core.ErrInvalidScenario)
	assert.Nil(t, s)

	s, err = New(sc, WithVisibilityRadius(0))
	require.NoError(t, err)
	res, err := s.Step(context.Background(), []core.Action{core.ActionStay})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Observations[0].Window.Rows())
	assert.Equal(t, 1, s.PaddedObservation(0).Cols())
}

func TestRobotsStampedOnSnapshotOnly(t *testing.T) {
	sc := core.NewScenario(6, 6)
	sc.Obstacles = []core.Pose{pose(1, 1)}
	sc.RobotCount = 4
	sc.Seed = 3
	s := newSim(t, sc)

	for i := 0; i < 10; i++ {
		res, err := s.Step(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, res.Robots, 4)

		cur := s.Current()
		for _, r := range res.Robots {
			assert.Equal(t, core.CellDynamicObstacle, cur.At(r.Pose))
		}
		assert.Empty(t, res.Background.Cells(core.CellDynamicObstacle))
		assert.Same(t, s.Background(), res.Background)
	}
}

func TestAgentGoalsMarkedInBackground(t *testing.T) {
	sc := core.NewScenario(4, 4)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(0, 0), Goal: pose(3, 2)}}
	s := newSim(t, sc)
	assert.Equal(t, core.CellGoal, s.Background().At(pose(3, 2)))
}

func TestInvalidScenarioRejected(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Obstacles = []core.Pose{pose(1, 1)}
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(1, 1), Goal: pose(0, 0)}}
	_, err := New(sc)
	assert.ErrorIs(t, err, core.ErrInvalidScenario)
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	run := func() [][]core.Pose {
		sc := core.NewScenario(8, 8)
		sc.Obstacles = []core.Pose{pose(4, 4), pose(4, 5), pose(5, 4)}
		sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(0, 0), Goal: pose(7, 7)}}
		sc.RobotCount = 5
		sc.Seed = 1234
		s := newSim(t, sc)

		var history [][]core.Pose
		_, err := s.Run(context.Background(), FixedActions(core.ActionDown), 25, func(*StepResult) {
			history = append(history, append(s.RobotPoses(), s.Poses()...))
		})
		require.NoError(t, err)
		return history
	}

	assert.Equal(t, run(), run())
}

func TestRunSummary(t *testing.T) {
	sc := core.NewScenario(5, 5)
	sc.Obstacles = []core.Pose{pose(1, 3)}
	sc.Agents = []core.AgentSpec{
		{Name: "a", Start: pose(0, 0), Goal: pose(0, 4)},
		{Name: "b", Start: pose(1, 0), Goal: pose(4, 4)},
	}
	s := newSim(t, sc)

	var seen []int
	sum, err := s.Run(context.Background(), FixedActions(core.ActionDown), 4, func(r *StepResult) {
		seen = append(seen, r.Tick)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, 4, sum.Ticks)
	assert.Equal(t, s.RunID(), sum.RunID)
	// b stops at (1,2) above the obstacle and bumps it twice.
	assert.Equal(t, 2, sum.Collisions)
	assert.Equal(t, 1, sum.AgentsAtGoal)
	assert.False(t, s.AllAtGoal())
	assert.Equal(t, []core.Pose{pose(0, 4), pose(1, 2)}, s.Poses())
}

func TestRunStopsOnCancel(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(0, 0), Goal: pose(2, 2)}}
	s := newSim(t, sc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := s.Run(ctx, FixedActions(core.ActionRight), 10, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Ticks)
	assert.Equal(t, 0, s.TickCount())
}

func TestRunPropagatesSourceError(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: pose(0, 0), Goal: pose(2, 2)}}
	s := newSim(t, sc)

	boom := errors.New("boom")
	src := ActionSourceFunc(func(tick int, _ []core.Pose) ([]core.Action, error) {
		if tick == 3 {
			return nil, boom
		}
		return []core.Action{core.ActionStay}, nil
	})
	sum, err := s.Run(context.Background(), src, 10, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, sum.Ticks)
}

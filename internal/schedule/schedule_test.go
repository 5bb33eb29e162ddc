package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

var _ sim.ActionSource = (*Follower)(nil)

func TestStateAt(t *testing.T) {
	wps := []Waypoint{{T: 0, X: 0, Y: 0}, {T: 2, X: 1, Y: 0}, {T: 5, X: 1, Y: 3}}

	tests := []struct {
		t    int
		want core.Pose
	}{
		{-1, core.Pose{X: 0, Y: 0}},
		{0, core.Pose{X: 0, Y: 0}},
		{1, core.Pose{X: 1, Y: 0}},
		{2, core.Pose{X: 1, Y: 0}},
		{3, core.Pose{X: 1, Y: 3}},
		{5, core.Pose{X: 1, Y: 3}},
		{99, core.Pose{X: 1, Y: 3}},
	}
	for _, tt := range tests {
		if got := StateAt(tt.t, wps); got != tt.want {
			t.Errorf("StateAt(%d) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Schedule{"a": {{T: 0}, {T: 1}, {T: 1}}}.Validate())
	assert.ErrorIs(t, Schedule{"a": nil}.Validate(), ErrEmptyPlan)
	assert.ErrorIs(t, Schedule{"a": {{T: 2}, {T: 1}}}.Validate(), ErrUnordered)
}

func TestMaxTime(t *testing.T) {
	s := Schedule{
		"a": {{T: 0}, {T: 4}},
		"b": {{T: 0}, {T: 7}},
	}
	assert.Equal(t, 7, s.MaxTime())
	assert.Equal(t, 0, Schedule{}.MaxTime())
}

func TestFollowerActions(t *testing.T) {
	s := Schedule{
		"agent0": {{T: 0, X: 0, Y: 0}, {T: 1, X: 1, Y: 0}, {T: 2, X: 1, Y: 1}, {T: 3, X: 1, Y: 1}},
		"agent1": {{T: 0, X: 2, Y: 2}, {T: 1, X: 2, Y: 1}, {T: 2, X: 0, Y: 1}},
	}
	f, err := NewFollower(s, []string{"agent0", "agent1", "ghost"}, nil)
	require.NoError(t, err)

	poses := []core.Pose{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	tests := []struct {
		tick int
		want []core.Action
	}{
		{1, []core.Action{core.ActionRight, core.ActionUp, core.ActionStay}},
		// agent1 jumps two cells and stays.
		{2, []core.Action{core.ActionDown, core.ActionStay, core.ActionStay}},
		{3, []core.Action{core.ActionStay, core.ActionStay, core.ActionStay}},
		{10, []core.Action{core.ActionStay, core.ActionStay, core.ActionStay}},
	}
	for _, tt := range tests {
		got, err := f.Actions(tt.tick, poses)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "tick %d", tt.tick)
	}

	_, err = f.Actions(1, poses[:1])
	assert.Error(t, err)
}

func TestFollowerDrivesSimulation(t *testing.T) {
	sc := core.NewScenario(3, 3)
	sc.Agents = []core.AgentSpec{{Name: "agent0", Start: core.Pose{X: 0, Y: 0}, Goal: core.Pose{X: 2, Y: 2}}}
	s, err := sim.New(sc)
	require.NoError(t, err)

	plan := Schedule{"agent0": {
		{T: 0, X: 0, Y: 0}, {T: 1, X: 1, Y: 0}, {T: 2, X: 2, Y: 0},
		{T: 3, X: 2, Y: 1}, {T: 4, X: 2, Y: 2},
	}}
	f, err := NewFollower(plan, []string{"agent0"}, nil)
	require.NoError(t, err)

	require.False(t, s.AllAtGoal())
	sum, err := s.Run(context.Background(), f, plan.MaxTime(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Ticks)
	assert.Equal(t, 1, sum.AgentsAtGoal)
	assert.True(t, s.AllAtGoal())

	want := []core.Pose{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	assert.Equal(t, want, s.Trajectories()[0])
}

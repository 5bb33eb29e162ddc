package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

func newSim(t *testing.T) *sim.Simulator {
	t.Helper()
	sc := core.NewScenario(3, 4)
	sc.Obstacles = []core.Pose{{X: 2, Y: 1}}
	sc.Agents = []core.AgentSpec{
		{Name: "a", Start: core.Pose{X: 0, Y: 0}, Goal: core.Pose{X: 3, Y: 2}},
		{Name: "b", Start: core.Pose{X: 3, Y: 0}, Goal: core.Pose{X: 0, Y: 2}},
	}
	s, err := sim.New(sc)
	require.NoError(t, err)
	return s
}

func TestPlainFrame(t *testing.T) {
	s := newSim(t)
	r := New(Options{Plain: true})

	want := "0..1\n" +
		"..#.\n" +
		"G..G\n" +
		"tick 0  agents 2  robots 0\n"
	assert.Equal(t, want, r.Frame(s, nil))

	res, err := s.Step(context.Background(), []core.Action{core.ActionDown, core.ActionLeft})
	require.NoError(t, err)

	want = "..1.\n" +
		"0.#.\n" +
		"G..G\n" +
		"tick 1  agents 2  robots 0  collisions 0  conflicts 0\n"
	assert.Equal(t, want, r.Frame(s, res))
}

func TestTrajectoryOverlay(t *testing.T) {
	s := newSim(t)
	_, err := s.Step(context.Background(), []core.Action{core.ActionRight, core.ActionDown})
	require.NoError(t, err)

	r := New(Options{Plain: true, ShowTrajectory: true})
	lines := strings.Split(r.Frame(s, nil), "\n")
	assert.Equal(t, "+0.+", lines[0])
	assert.Equal(t, "..#1", lines[1])
}

func TestRobotFutureOverlay(t *testing.T) {
	sc := core.NewScenario(5, 5)
	sc.Agents = []core.AgentSpec{{Name: "a", Start: core.Pose{X: 0, Y: 0}, Goal: core.Pose{X: 4, Y: 4}}}
	sc.RobotCount = 2
	sc.Seed = 8
	s, err := sim.New(sc)
	require.NoError(t, err)

	frame := New(Options{Plain: true, ShowFuture: true}).Frame(s, nil)
	lines := strings.Split(frame, "\n")

	onPath := make(map[core.Pose]bool)
	for _, fp := range s.RobotFuturePaths() {
		for _, p := range fp {
			onPath[p] = true
		}
	}
	cur := s.Current()
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			p := core.Pose{X: x, Y: y}
			if lines[y][x] == '*' {
				assert.True(t, onPath[p], "stray path mark at %v", p)
			}
			if onPath[p] && cur.At(p) == core.CellFree {
				assert.Equal(t, byte('*'), lines[y][x], "missing path mark at %v", p)
			}
		}
	}
	assert.Equal(t, byte('0'), lines[0][0])
}

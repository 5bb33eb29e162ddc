package algo

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

// createGrid creates a rows x cols working snapshot with the given obstacles.
func createGrid(t *testing.T, rows, cols int, obstacles ...core.Pose) *core.Snapshot {
	t.Helper()
	bg, err := core.NewStaticLayer(rows, cols, obstacles, nil)
	require.NoError(t, err)
	return bg.Snapshot()
}

func pose(x, y int) core.Pose { return core.Pose{X: x, Y: y} }

func TestPlanEmptyGridCorners(t *testing.T) {
	grid := createGrid(t, 5, 5)
	p := NewPlanner(core.DefaultCostTable())

	path, err := p.Plan(pose(0, 0), pose(4, 4), grid)
	require.NoError(t, err)

	assert.Len(t, path, 9)
	assert.Equal(t, pose(0, 0), path[0])
	assert.Equal(t, pose(4, 4), path.Last())
	assert.True(t, path.Contiguous())
	for _, q := range path {
		assert.Equal(t, core.CellFree, grid.At(q))
	}
}

func TestPlanStartIsGoal(t *testing.T) {
	grid := createGrid(t, 3, 3)
	p := NewPlanner(core.DefaultCostTable())

	path, err := p.Plan(pose(1, 1), pose(1, 1), grid)
	require.NoError(t, err)
	assert.Equal(t, core.Path{pose(1, 1)}, path)
}

func TestPlanRejectsInvalidGoals(t *testing.T) {
	grid := createGrid(t, 4, 4, pose(3, 3))
	grid.Set(pose(2, 0), core.CellAgent)
	grid.Set(pose(0, 2), core.CellDynamicObstacle)
	before := grid.String()

	p := NewPlanner(core.DefaultCostTable())
	tests := []struct {
		name string
		goal core.Pose
		want error
	}{
		{"obstacle", pose(3, 3), ErrGoalOccupied},
		{"agent", pose(2, 0), ErrGoalOccupied},
		{"dynamic obstacle", pose(0, 2), ErrGoalOccupied},
		{"out of bounds x", pose(4, 0), ErrGoalOutOfBounds},
		{"out of bounds y", pose(0, -1), ErrGoalOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := p.Plan(pose(0, 0), tt.goal, grid)
			assert.Nil(t, path)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, ErrInvalidGoal))
			assert.Equal(t, before, grid.String(), "grid must not be mutated")
		})
	}
}

func TestPlanAcceptsGoalCell(t *testing.T) {
	bg, err := core.NewStaticLayer(3, 3, nil, []core.Pose{pose(2, 2)})
	require.NoError(t, err)

	path, err := NewPlanner(core.DefaultCostTable()).Plan(pose(0, 0), pose(2, 2), bg)
	require.NoError(t, err)
	assert.Equal(t, pose(2, 2), path.Last())
}

func TestPlanUnreachableThenReusable(t *testing.T) {
	// Goal (4,4) is walled in.
	grid := createGrid(t, 5, 5, pose(3, 4), pose(4, 3), pose(3, 3))
	p := NewPlanner(core.DefaultCostTable())

	path, err := p.Plan(pose(0, 0), pose(4, 4), grid)
	assert.Nil(t, path)
	assert.ErrorIs(t, err, ErrNoPath)
	assert.Greater(t, p.Stats().Expanded, 0)

	path, err = p.Plan(pose(0, 0), pose(2, 2), grid)
	require.NoError(t, err)
	assert.Len(t, path, 5)
}

func TestPlanStartOutOfBounds(t *testing.T) {
	grid := createGrid(t, 3, 3)
	_, err := NewPlanner(core.DefaultCostTable()).Plan(pose(-1, 0), pose(2, 2), grid)
	assert.ErrorIs(t, err, ErrStartOutOfBounds)
}

func TestPlanRoutesThroughGap(t *testing.T) {
	// Vertical wall at x=2 with a gap at y=4.
	grid := createGrid(t, 5, 5, pose(2, 0), pose(2, 1), pose(2, 2), pose(2, 3))
	p := NewPlanner(core.DefaultCostTable())

	path, err := p.Plan(pose(0, 0), pose(4, 0), grid)
	require.NoError(t, err)
	assert.True(t, path.Contiguous())
	assert.Contains(t, path, pose(2, 4))
	for _, q := range path {
		assert.False(t, grid.At(q).Blocking(), "path crosses %v", q)
	}
}

func TestPlanTreatsAgentsAndRobotsAsWalls(t *testing.T) {
	grid := createGrid(t, 3, 3)
	grid.Set(pose(1, 0), core.CellAgent)
	grid.Set(pose(1, 1), core.CellDynamicObstacle)

	path, err := NewPlanner(core.DefaultCostTable()).Plan(pose(0, 0), pose(2, 0), grid)
	require.NoError(t, err)
	assert.Contains(t, path, pose(1, 2))
	assert.NotContains(t, path, pose(1, 0))
	assert.NotContains(t, path, pose(1, 1))
}

func TestPlanCostTableShapesPath(t *testing.T) {
	// Middle row between start and goal is Unseen.
	grid := createGrid(t, 3, 5)
	for x := 1; x <= 3; x++ {
		grid.Set(pose(x, 1), core.CellUnseen)
	}

	path, err := NewPlanner(core.DefaultCostTable()).Plan(pose(0, 1), pose(4, 1), grid)
	require.NoError(t, err)
	assert.True(t, path.Contiguous())
	for _, q := range path {
		assert.NotEqual(t, core.CellUnseen, grid.At(q), "costly cell %v used", q)
	}

	var flat core.CostTable
	path, err = NewPlanner(flat).Plan(pose(0, 1), pose(4, 1), grid)
	require.NoError(t, err)
	assert.Len(t, path, 5)
}

func pathCost(path core.Path, grid core.CellReader, costs core.CostTable) float64 {
	var total float64
	for _, q := range path[1:] {
		total += DefaultStepCost + costs.Cost(grid.At(q))
	}
	return total
}

func TestPlanClosesCellsAtGeneration(t *testing.T) {
	// Row 0 crosses two Unseen cells, row 1 is a free detour. (1,1) is
	// generated from (1,0) before the detour reaches it and is never
	// reopened, so the cheaper detour is not found.
	grid := createGrid(t, 2, 4)
	grid.Set(pose(1, 0), core.CellUnseen)
	grid.Set(pose(2, 0), core.CellUnseen)
	costs := core.DefaultCostTable()
	costs[core.CellUnseen] = 2

	p := NewPlanner(costs)
	path, err := p.Plan(pose(0, 0), pose(3, 0), grid)
	require.NoError(t, err)
	assert.Equal(t, core.Path{pose(0, 0), pose(1, 0), pose(2, 0), pose(3, 0)}, path)
	assert.Equal(t, 7.0, pathCost(path, grid, costs))
	assert.Equal(t, Stats{Expanded: 6, Generated: 7}, p.Stats())

	detour := core.Path{pose(0, 0), pose(0, 1), pose(1, 1), pose(2, 1), pose(3, 1), pose(3, 0)}
	require.True(t, detour.Contiguous())
	assert.Equal(t, 5.0, pathCost(detour, grid, costs))
}

func TestPlanRandomGridsProduceValidPaths(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPlanner(core.DefaultCostTable())

	for trial := 0; trial < 50; trial++ {
		var obstacles []core.Pose
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				if rng.Float64() < 0.25 {
					obstacles = append(obstacles, pose(x, y))
				}
			}
		}
		grid := createGrid(t, 10, 10, obstacles...)
		free := grid.Cells(core.CellFree)
		if len(free) < 2 {
			continue
		}
		start := free[rng.Intn(len(free))]
		goal := free[rng.Intn(len(free))]

		path, err := p.Plan(start, goal, grid)
		if err != nil {
			require.ErrorIs(t, err, ErrNoPath)
			continue
		}
		assert.Equal(t, start, path[0])
		assert.Equal(t, goal, path.Last())
		assert.True(t, path.Contiguous())
		for _, q := range path {
			assert.False(t, grid.At(q).Blocking())
		}
	}
}

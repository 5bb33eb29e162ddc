// Package algo implements grid search and conflict detection.
package algo

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

var (
	// ErrNoPath is returned when the frontier is exhausted before the goal.
	ErrNoPath = errors.New("no path found")
	// ErrInvalidGoal is wrapped by the goal validation failures below.
	ErrInvalidGoal = errors.New("invalid goal")

	ErrGoalOutOfBounds = fmt.Errorf("%w: out of map", ErrInvalidGoal)
	ErrGoalOccupied    = fmt.Errorf("%w: occupied", ErrInvalidGoal)

	// ErrStartOutOfBounds is returned when the search origin is off the grid.
	ErrStartOutOfBounds = errors.New("start out of map")
)

// DefaultStepCost is the uniform cost of one move.
const DefaultStepCost = 1.0

// searchNode lives in the planner's arena. parent is an arena index, -1 for
// the start node.
type searchNode struct {
	pose   core.Pose
	g      float64 // Cost so far
	h      float64 // Manhattan estimate to goal
	f      float64 // g + h
	parent int32
}

// frontier is a min-heap of arena indices ordered by f.
type frontier struct {
	idx   []int32
	arena *[]searchNode
}

func (h frontier) Len() int { return len(h.idx) }
func (h frontier) Less(i, j int) bool {
	a, b := (*h.arena)[h.idx[i]], (*h.arena)[h.idx[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	return h.idx[i] < h.idx[j]
}
func (h frontier) Swap(i, j int) { h.idx[i], h.idx[j] = h.idx[j], h.idx[i] }
func (h *frontier) Push(x any)   { h.idx = append(h.idx, x.(int32)) }
func (h *frontier) Pop() any {
	old := h.idx
	n := len(old)
	x := old[n-1]
	h.idx = old[:n-1]
	return x
}

// Stats describes the last search.
type Stats struct {
	Expanded  int // Nodes popped from the frontier
	Generated int // Nodes pushed, including the start
}

// Planner is a weighted 4-connected grid A*.
//
// Cells are closed the moment they are generated and never reopened, so a
// cheaper route to an already generated cell is ignored. Combined with a
// heuristic that ignores the extra cell costs, returned paths are not
// guaranteed to be cost-optimal.
//
// A Planner reuses its buffers between calls and is not safe for concurrent
// use.
type Planner struct {
	costs    core.CostTable
	stepCost float64

	nodes  []searchNode
	open   frontier
	closed []bool
	cols   int
	stats  Stats
}

// NewPlanner creates a planner with the given cost table and unit step cost.
func NewPlanner(costs core.CostTable) *Planner {
	p := &Planner{
		costs:    costs,
		stepCost: DefaultStepCost,
	}
	p.open.arena = &p.nodes
	return p
}

// Stats returns counters from the most recent Plan call.
func (p *Planner) Stats() Stats { return p.stats }

// reset clears the arena and reseeds the closed set from grid: every
// Obstacle, Agent and DynamicObstacle cell starts closed.
func (p *Planner) reset(grid core.CellReader) {
	p.nodes = p.nodes[:0]
	p.open.idx = p.open.idx[:0]
	p.cols = grid.Cols()

	n := grid.Rows() * grid.Cols()
	if cap(p.closed) < n {
		p.closed = make([]bool, n)
	} else {
		p.closed = p.closed[:n]
	}
	for y := 0; y < grid.Rows(); y++ {
		for x := 0; x < grid.Cols(); x++ {
			p.closed[y*p.cols+x] = grid.At(core.Pose{X: x, Y: y}).Blocking()
		}
	}
}

// validGoal rejects goals outside the grid or on anything but Free or Goal.
func validGoal(goal core.Pose, grid core.CellReader) error {
	if !grid.InBounds(goal) {
		return ErrGoalOutOfBounds
	}
	if c := grid.At(goal); c != core.CellFree && c != core.CellGoal {
		return fmt.Errorf("%w by %s", ErrGoalOccupied, c)
	}
	return nil
}

// Plan searches from start to goal over grid. The grid is only read.
// On success the returned path includes both start and goal.
func (p *Planner) Plan(start, goal core.Pose, grid core.CellReader) (core.Path, error) {
	p.stats = Stats{}
	if err := validGoal(goal, grid); err != nil {
		slog.Debug("astar: rejected goal", "start", start, "goal", goal, "error", err)
		observePlan(resultInvalidGoal, p.stats)
		return nil, err
	}

	if !grid.InBounds(start) {
		observePlan(resultInvalidGoal, p.stats)
		return nil, ErrStartOutOfBounds
	}

	p.reset(grid)
	defer p.release()

	p.push(start, 0, goal, -1)
	for p.open.Len() > 0 {
		cur := heap.Pop(&p.open).(int32)
		p.stats.Expanded++
		node := p.nodes[cur]

		if node.pose == goal {
			path := p.reconstruct(cur)
			observePlan(resultFound, p.stats)
			return path, nil
		}

		p.expand(cur, goal, grid)
	}

	slog.Debug("astar: can not find a path", "start", start, "goal", goal, "expanded", p.stats.Expanded)
	observePlan(resultNoPath, p.stats)
	return nil, ErrNoPath
}

var neighbourOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// expand generates the open, unclosed 4-neighbours of node cur and closes
// them immediately.
func (p *Planner) expand(cur int32, goal core.Pose, grid core.CellReader) {
	from := p.nodes[cur]
	p.closed[from.pose.Y*p.cols+from.pose.X] = true

	for _, d := range neighbourOffsets {
		next := from.pose.Add(d[0], d[1])
		if !grid.InBounds(next) {
			continue
		}
		k := next.Y*p.cols + next.X
		if p.closed[k] {
			continue
		}
		g := from.g + p.stepCost + p.costs.Cost(grid.At(next))
		p.push(next, g, goal, cur)
		p.closed[k] = true
	}
}

func (p *Planner) push(pose core.Pose, g float64, goal core.Pose, parent int32) {
	h := float64(pose.Manhattan(goal))
	p.nodes = append(p.nodes, searchNode{
		pose:   pose,
		g:      g,
		h:      h,
		f:      g + h,
		parent: parent,
	})
	heap.Push(&p.open, int32(len(p.nodes)-1))
	p.stats.Generated++
}

func (p *Planner) reconstruct(i int32) core.Path {
	var path core.Path
	for ; i >= 0; i = p.nodes[i].parent {
		path = append(path, p.nodes[i].pose)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// release drops per-search state so the next call starts clean.
func (p *Planner) release() {
	p.nodes = p.nodes[:0]
	p.open.idx = p.open.idx[:0]
	for i := range p.closed {
		p.closed[i] = false
	}
}

// Package core defines domain models for the grid world simulation.
package core

import (
	"fmt"
	"strings"
)

// Pose is an integer grid coordinate. X is the column, Y the row.
type Pose struct {
	X, Y int
}

// Add returns the pose shifted by (dx, dy).
func (p Pose) Add(dx, dy int) Pose {
	return Pose{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns the L1 distance between two poses.
func (p Pose) Manhattan(o Pose) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Adjacent reports whether o is exactly one 4-connected step away.
func (p Pose) Adjacent(o Pose) bool {
	return p.Manhattan(o) == 1
}

func (p Pose) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// CellType classifies the occupant of a grid cell.
type CellType uint8

const (
	CellFree            CellType = iota // Traversable, unoccupied
	CellObstacle                        // Static wall
	CellAgent                           // Controlled agent
	CellDynamicObstacle                 // Wandering robot
	CellUnseen                          // Outside the observable area
	CellGoal                            // Agent goal marker

	numCellTypes
)

var cellTypeNames = [numCellTypes]string{
	CellFree:            "free",
	CellObstacle:        "obstacle",
	CellAgent:           "agent",
	CellDynamicObstacle: "dynamic obstacle",
	CellUnseen:          "unseen",
	CellGoal:            "goal",
}

func (c CellType) String() string {
	if c >= numCellTypes {
		return fmt.Sprintf("CellType(%d)", uint8(c))
	}
	return cellTypeNames[c]
}

// ParseCellType resolves a display name back to its CellType.
func ParseCellType(name string) (CellType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", " ")
	for i, s := range cellTypeNames {
		if s == n {
			return CellType(i), nil
		}
	}
	return CellFree, fmt.Errorf("unknown cell type %q", name)
}

// AllCellTypes returns every cell type in declaration order.
func AllCellTypes() []CellType {
	out := make([]CellType, numCellTypes)
	for i := range out {
		out[i] = CellType(i)
	}
	return out
}

// Blocking reports whether the search treats the cell as impassable
// regardless of its cost.
func (c CellType) Blocking() bool {
	return c == CellObstacle || c == CellAgent || c == CellDynamicObstacle
}

// CostTable holds the extra traversal cost per cell type, added on top of
// the uniform step cost.
//
// Entries for blocking types are never consulted by the planner because
// those cells are closed before the search starts. They are kept so a
// softer blocking policy can be introduced without changing the table.
type CostTable [numCellTypes]float64

// DefaultCostTable returns the stock cost ordering.
func DefaultCostTable() CostTable {
	var t CostTable
	t[CellFree] = 0
	t[CellObstacle] = 10
	t[CellAgent] = 15
	t[CellDynamicObstacle] = 20
	t[CellUnseen] = 10
	t[CellGoal] = 0
	return t
}

// Cost returns the extra cost of entering a cell of type c.
func (t CostTable) Cost(c CellType) float64 {
	if c >= numCellTypes {
		return 0
	}
	return t[c]
}

// CostTableFromNames overrides entries of base by cell type name.
func CostTableFromNames(base CostTable, overrides map[string]float64) (CostTable, error) {
	t := base
	for name, v := range overrides {
		ct, err := ParseCellType(name)
		if err != nil {
			return base, err
		}
		if v < 0 {
			return base, fmt.Errorf("negative cost %v for %s", v, ct)
		}
		t[ct] = v
	}
	return t, nil
}

// Action is a discrete agent move.
type Action int

const (
	ActionStay Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
)

var (
	actionNames  = [...]string{"stay", "up", "down", "left", "right"}
	actionGlyphs = [...]string{".", "^", "v", "<", ">"}
)

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Glyph returns the single-character form used in schedule and log output.
// Unknown actions render as "?".
func (a Action) Glyph() string {
	if a < 0 || int(a) >= len(actionGlyphs) {
		return "?"
	}
	return actionGlyphs[a]
}

// Delta returns the pose offset of the action. Up decreases Y.
func (a Action) Delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// ActionFromDelta maps a unit offset back to its action.
func ActionFromDelta(dx, dy int) (Action, bool) {
	switch {
	case dx == 0 && dy == 0:
		return ActionStay, true
	case dx == 0 && dy == -1:
		return ActionUp, true
	case dx == 0 && dy == 1:
		return ActionDown, true
	case dx == -1 && dy == 0:
		return ActionLeft, true
	case dx == 1 && dy == 0:
		return ActionRight, true
	}
	return ActionStay, false
}

// ParseAction accepts either a glyph (". ^ v < >") or a word.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ".", "stay", "wait":
		return ActionStay, nil
	case "^", "up":
		return ActionUp, nil
	case "v", "down":
		return ActionDown, nil
	case "<", "left":
		return ActionLeft, nil
	case ">", "right":
		return ActionRight, nil
	}
	return ActionStay, fmt.Errorf("unknown action %q", s)
}

// Path is an ordered sequence of poses, inclusive of both endpoints.
type Path []Pose

// Len returns the number of poses.
func (p Path) Len() int { return len(p) }

// Last returns the final pose. It panics on an empty path.
func (p Path) Last() Pose { return p[len(p)-1] }

// Contiguous reports whether every consecutive pair is 4-adjacent.
func (p Path) Contiguous() bool {
	for i := 1; i < len(p); i++ {
		if !p[i-1].Adjacent(p[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

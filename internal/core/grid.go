package core

import (
	"fmt"
	"strings"
)

// CellReader is a read-only view of a grid.
type CellReader interface {
	Rows() int
	Cols() int
	InBounds(p Pose) bool
	At(p Pose) CellType
}

// Grid is a rows x cols array of cell types stored row-major.
type Grid struct {
	rows, cols int
	cells      []CellType
}

// NewGrid creates a grid with every cell Free.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]CellType, rows*cols),
	}
}

// NewFilledGrid creates a grid with every cell set to c.
func NewFilledGrid(rows, cols int, c CellType) *Grid {
	g := NewGrid(rows, cols)
	for i := range g.cells {
		g.cells[i] = c
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds checks whether p lies inside the grid.
func (g *Grid) InBounds(p Pose) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

// At returns the cell type at p. Out-of-bounds poses read as Unseen.
func (g *Grid) At(p Pose) CellType {
	if !g.InBounds(p) {
		return CellUnseen
	}
	return g.cells[p.Y*g.cols+p.X]
}

func (g *Grid) set(p Pose, c CellType) {
	if g.InBounds(p) {
		g.cells[p.Y*g.cols+p.X] = c
	}
}

// Clone returns an independent copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]CellType, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Cells returns the poses of every cell of type c, scanning row by row.
func (g *Grid) Cells(c CellType) []Pose {
	var out []Pose
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if g.cells[y*g.cols+x] == c {
				out = append(out, Pose{X: x, Y: y})
			}
		}
	}
	return out
}

// Count returns the number of cells of type c.
func (g *Grid) Count(c CellType) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Window extracts the sub-grid centred on center with the given radius,
// clipped to the grid bounds. Near edges the result is smaller than
// 2*radius+1 in that dimension. The second return value is the pose of the
// window's top-left cell in grid coordinates.
func (g *Grid) Window(center Pose, radius int) (*Grid, Pose) {
	x0 := max(center.X-radius, 0)
	y0 := max(center.Y-radius, 0)
	x1 := min(center.X+radius, g.cols-1)
	y1 := min(center.Y+radius, g.rows-1)
	if x1 < x0 || y1 < y0 {
		return NewGrid(0, 0), Pose{X: x0, Y: y0}
	}

	w := NewGrid(y1-y0+1, x1-x0+1)
	for y := y0; y <= y1; y++ {
		copy(w.cells[(y-y0)*w.cols:(y-y0+1)*w.cols], g.cells[y*g.cols+x0:y*g.cols+x1+1])
	}
	return w, Pose{X: x0, Y: y0}
}

// PaddedWindow is Window without clipping: cells outside the grid are
// reported as Unseen, so the result is always (2r+1) x (2r+1).
func (g *Grid) PaddedWindow(center Pose, radius int) *Grid {
	size := 2*radius + 1
	w := NewFilledGrid(size, size, CellUnseen)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := center.Add(dx, dy)
			if g.InBounds(p) {
				w.cells[(dy+radius)*size+dx+radius] = g.At(p)
			}
		}
	}
	return w
}

// String renders one character per cell, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			sb.WriteByte(cellGlyph(g.cells[y*g.cols+x]))
		}
		if y < g.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellGlyph(c CellType) byte {
	if c >= numCellTypes {
		return '!'
	}
	return [...]byte{'.', '#', 'A', 'R', '?', 'G'}[c]
}

// StaticLayer is the immutable background of the world: static obstacles
// and goal markers. It is built once and never mutated.
type StaticLayer struct {
	grid *Grid
}

// NewStaticLayer marks obstacles and goals on an empty rows x cols grid.
func NewStaticLayer(rows, cols int, obstacles, goals []Pose) (*StaticLayer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", rows, cols)
	}
	g := NewGrid(rows, cols)
	for _, o := range obstacles {
		if !g.InBounds(o) {
			return nil, fmt.Errorf("obstacle %v out of bounds", o)
		}
		g.set(o, CellObstacle)
	}
	for _, p := range goals {
		if !g.InBounds(p) {
			return nil, fmt.Errorf("goal %v out of bounds", p)
		}
		if g.At(p) == CellObstacle {
			return nil, fmt.Errorf("goal %v lies on an obstacle", p)
		}
		g.set(p, CellGoal)
	}
	return &StaticLayer{grid: g}, nil
}

func (s *StaticLayer) Rows() int               { return s.grid.rows }
func (s *StaticLayer) Cols() int               { return s.grid.cols }
func (s *StaticLayer) InBounds(p Pose) bool    { return s.grid.InBounds(p) }
func (s *StaticLayer) At(p Pose) CellType      { return s.grid.At(p) }
func (s *StaticLayer) Cells(c CellType) []Pose { return s.grid.Cells(c) }
func (s *StaticLayer) String() string          { return s.grid.String() }

// Grid returns a copy of the background grid.
func (s *StaticLayer) Grid() *Grid { return s.grid.Clone() }

// Snapshot returns a fresh working copy for one tick.
func (s *StaticLayer) Snapshot() *Snapshot {
	return &Snapshot{grid: s.grid.Clone()}
}

// Snapshot is the per-tick working grid. Entities stamp themselves into it
// as they move; it is discarded at the end of the tick.
type Snapshot struct {
	grid *Grid
}

func (s *Snapshot) Rows() int            { return s.grid.rows }
func (s *Snapshot) Cols() int            { return s.grid.cols }
func (s *Snapshot) InBounds(p Pose) bool { return s.grid.InBounds(p) }
func (s *Snapshot) At(p Pose) CellType   { return s.grid.At(p) }

// Set stamps c at p. Out-of-bounds poses are ignored.
func (s *Snapshot) Set(p Pose, c CellType) { s.grid.set(p, c) }

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot { return &Snapshot{grid: s.grid.Clone()} }

// Cells returns the poses of every cell of type c.
func (s *Snapshot) Cells(c CellType) []Pose { return s.grid.Cells(c) }

// Window extracts a clipped observation window. See Grid.Window.
func (s *Snapshot) Window(center Pose, radius int) (*Grid, Pose) {
	return s.grid.Window(center, radius)
}

// PaddedWindow extracts a fixed-size window padded with Unseen.
func (s *Snapshot) PaddedWindow(center Pose, radius int) *Grid {
	return s.grid.PaddedWindow(center, radius)
}

// Grid returns a copy of the snapshot's cells.
func (s *Snapshot) Grid() *Grid { return s.grid.Clone() }

func (s *Snapshot) String() string { return s.grid.String() }

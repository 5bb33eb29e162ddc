// Package render draws simulation frames for a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

// Options selects what a frame shows.
type Options struct {
	Plain          bool // No colour, for logs and tests
	ShowFuture     bool // Robot remaining paths
	ShowTrajectory bool // Agent pose history
}

type layer int

const (
	layerCell layer = iota
	layerTrajectory
	layerFuture
	layerAgent
)

// Renderer turns simulator state into text frames.
type Renderer struct {
	opts   Options
	cells  map[core.CellType]lipgloss.Style
	agent  lipgloss.Style
	future lipgloss.Style
	trail  lipgloss.Style
	status lipgloss.Style
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		cells: map[core.CellType]lipgloss.Style{
			core.CellFree:            lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			core.CellObstacle:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
			core.CellDynamicObstacle: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			core.CellGoal:            lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
			core.CellUnseen:          lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
			core.CellAgent:           lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		},
		agent:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		future: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		trail:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

type mark struct {
	glyph byte
	layer layer
}

// Frame draws the simulator's last working snapshot. res may be nil before
// the first tick.
func (r *Renderer) Frame(s *sim.Simulator, res *sim.StepResult) string {
	cur := s.Current()
	marks := make(map[core.Pose]mark)
	put := func(p core.Pose, m mark) {
		if old, ok := marks[p]; !ok || m.layer >= old.layer {
			marks[p] = m
		}
	}

	if r.opts.ShowTrajectory {
		for _, tr := range s.Trajectories() {
			for _, p := range tr {
				put(p, mark{'+', layerTrajectory})
			}
		}
	}
	if r.opts.ShowFuture {
		for _, fp := range s.RobotFuturePaths() {
			for _, p := range fp {
				if cur.At(p) == core.CellFree {
					put(p, mark{'*', layerFuture})
				}
			}
		}
	}
	for i, a := range s.Agents() {
		put(a.Pose, mark{byte('0' + i%10), layerAgent})
	}

	var sb strings.Builder
	for y := 0; y < cur.Rows(); y++ {
		for x := 0; x < cur.Cols(); x++ {
			p := core.Pose{X: x, Y: y}
			m, ok := marks[p]
			if !ok || (m.layer == layerTrajectory && cur.At(p) != core.CellFree) {
				sb.WriteString(r.cell(cur.At(p)))
				continue
			}
			sb.WriteString(r.overlay(m))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(r.statusLine(s, res))
	return sb.String()
}

func (r *Renderer) cell(c core.CellType) string {
	g := string(glyphs[c])
	if r.opts.Plain {
		return g
	}
	return r.cells[c].Render(g)
}

func (r *Renderer) overlay(m mark) string {
	g := string(m.glyph)
	if r.opts.Plain {
		return g
	}
	switch m.layer {
	case layerAgent:
		return r.agent.Render(g)
	case layerFuture:
		return r.future.Render(g)
	default:
		return r.trail.Render(g)
	}
}

func (r *Renderer) statusLine(s *sim.Simulator, res *sim.StepResult) string {
	line := fmt.Sprintf("tick %d  agents %d  robots %d", s.TickCount(), len(s.Agents()), len(s.RobotPoses()))
	if res != nil {
		line += fmt.Sprintf("  collisions %d  conflicts %d", len(res.Collisions), len(res.Conflicts))
	}
	if r.opts.Plain {
		return line + "\n"
	}
	return r.status.Render(line) + "\n"
}

var glyphs = map[core.CellType]byte{
	core.CellFree:            '.',
	core.CellObstacle:        '#',
	core.CellAgent:           'A',
	core.CellDynamicObstacle: 'R',
	core.CellUnseen:          '?',
	core.CellGoal:            'G',
}

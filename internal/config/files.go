// Package config loads map, agent, schedule and settings files and turns
// them into a core.Scenario.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/schedule"
)

// ErrNoAgents is returned when neither the map nor the agents file lists
// any agent.
var ErrNoAgents = errors.New("no agents defined")

var validate = validator.New()

// Cell is an [x, y] pair. Tags on the sequence (as written by Python
// dumpers, e.g. !!python/tuple) are ignored.
type Cell struct {
	X, Y int
}

func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return fmt.Errorf("line %d: cell must be a two element sequence", n.Line)
	}
	var xy [2]int
	for i, item := range n.Content {
		if err := item.Decode(&xy[i]); err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}

func (c Cell) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{c.X, c.Y} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return n, nil
}

// Pose converts the cell to a grid pose.
func (c Cell) Pose() core.Pose { return core.Pose{X: c.X, Y: c.Y} }

// CellOf converts a grid pose to a cell.
func CellOf(p core.Pose) Cell { return Cell{X: p.X, Y: p.Y} }

// MapSection is the map block of a map file. Dimensions are [cols, rows].
type MapSection struct {
	Dimensions []int  `yaml:"dimensions" validate:"len=2,dive,gt=0"`
	Obstacles  []Cell `yaml:"obstacles"`
}

// Rows returns the grid height.
func (m MapSection) Rows() int { return m.Dimensions[1] }

// Cols returns the grid width.
func (m MapSection) Cols() int { return m.Dimensions[0] }

// AgentEntry is one agent in a map or agents file.
type AgentEntry struct {
	Name  string `yaml:"name" validate:"required"`
	Start Cell   `yaml:"start"`
	Goal  Cell   `yaml:"goal"`
}

// MapFile is the static world description, optionally carrying agents.
type MapFile struct {
	Map    MapSection   `yaml:"map"`
	Agents []AgentEntry `yaml:"agents,omitempty" validate:"dive"`
}

// AgentsFile lists agents separately from the map.
type AgentsFile struct {
	Agents []AgentEntry `yaml:"agents" validate:"dive"`
}

// ScheduleFile holds precomputed per-agent waypoints.
type ScheduleFile struct {
	Schedule schedule.Schedule `yaml:"schedule"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

// LoadMap reads a map file.
func LoadMap(path string) (*MapFile, error) {
	var m MapFile
	if err := readYAML(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadAgents reads an agents file.
func LoadAgents(path string) (*AgentsFile, error) {
	var a AgentsFile
	if err := readYAML(path, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadSchedule reads a schedule file and checks waypoint ordering.
func LoadSchedule(path string) (schedule.Schedule, error) {
	var s ScheduleFile
	if err := readYAML(path, &s); err != nil {
		return nil, err
	}
	if err := s.Schedule.Validate(); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return s.Schedule, nil
}

// WriteYAML marshals v to path.
func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// BuildScenario combines a map, agents and settings into a validated
// scenario. Agents from agentsFile replace those embedded in the map; pass
// nil to use the map's own.
func BuildScenario(m *MapFile, agentsFile *AgentsFile, st Settings) (*core.Scenario, error) {
	agents := m.Agents
	if agentsFile != nil {
		agents = agentsFile.Agents
	}
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}

	costs, err := core.CostTableFromNames(core.DefaultCostTable(), st.Costs)
	if err != nil {
		return nil, fmt.Errorf("costs: %w", err)
	}

	sc := core.NewScenario(m.Map.Rows(), m.Map.Cols())
	sc.RobotCount = st.Robots
	sc.Seed = st.Seed
	sc.VisibilityRadius = st.VisibilityRadius
	sc.Costs = costs
	for _, o := range m.Map.Obstacles {
		sc.Obstacles = append(sc.Obstacles, o.Pose())
	}
	for _, a := range agents {
		sc.Agents = append(sc.Agents, core.AgentSpec{
			Name:  a.Name,
			Start: a.Start.Pose(),
			Goal:  a.Goal.Pose(),
		})
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// LoadScenario reads the map and, if agentsPath is non-empty, the agents
// file, then builds the scenario.
func LoadScenario(mapPath, agentsPath string, st Settings) (*core.Scenario, error) {
	m, err := LoadMap(mapPath)
	if err != nil {
		return nil, err
	}
	var af *AgentsFile
	if agentsPath != "" {
		if af, err = LoadAgents(agentsPath); err != nil {
			return nil, err
		}
	}
	return BuildScenario(m, af, st)
}

package config

import (
	"fmt"
	"math/rand"
	"path/filepath"
)

// GenParams controls random instance generation.
type GenParams struct {
	Seed      int64 `validate:"-"`
	Cols      int   `validate:"gt=0"`
	Rows      int   `validate:"gt=0"`
	Obstacles int   `validate:"gte=0"`
	Agents    int   `validate:"gt=0"`
}

// Generate builds a random map and agents file. The same params always
// give the same instance. Obstacles, starts and goals occupy distinct
// cells; reachability is not checked.
func Generate(p GenParams) (*MapFile, *AgentsFile, error) {
	if err := validate.Struct(p); err != nil {
		return nil, nil, fmt.Errorf("invalid generator params: %w", err)
	}
	cells := p.Cols * p.Rows
	if need := p.Obstacles + 2*p.Agents; need > cells {
		return nil, nil, fmt.Errorf("%dx%d grid has %d cells, need %d", p.Cols, p.Rows, cells, need)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	order := rng.Perm(cells)
	cellAt := func(i int) Cell {
		return Cell{X: order[i] % p.Cols, Y: order[i] / p.Cols}
	}

	m := &MapFile{Map: MapSection{Dimensions: []int{p.Cols, p.Rows}}}
	for i := 0; i < p.Obstacles; i++ {
		m.Map.Obstacles = append(m.Map.Obstacles, cellAt(i))
	}

	af := &AgentsFile{}
	for i := 0; i < p.Agents; i++ {
		af.Agents = append(af.Agents, AgentEntry{
			Name:  fmt.Sprintf("agent%d", i),
			Start: cellAt(p.Obstacles + i),
			Goal:  cellAt(p.Obstacles + p.Agents + i),
		})
	}
	return m, af, nil
}

// InstanceName is the file stem used for generated instances.
func InstanceName(p GenParams) string {
	return fmt.Sprintf("grid_%dx%d_o%d_a%d_s%d", p.Cols, p.Rows, p.Obstacles, p.Agents, p.Seed)
}

// WriteInstance generates an instance and writes <name>_map.yaml and
// <name>_agents.yaml into dir. It returns both paths.
func WriteInstance(dir string, p GenParams) (mapPath, agentsPath string, err error) {
	m, af, err := Generate(p)
	if err != nil {
		return "", "", err
	}
	name := InstanceName(p)
	mapPath = filepath.Join(dir, name+"_map.yaml")
	agentsPath = filepath.Join(dir, name+"_agents.yaml")
	if err := WriteYAML(mapPath, m); err != nil {
		return "", "", err
	}
	if err := WriteYAML(agentsPath, af); err != nil {
		return "", "", err
	}
	return mapPath, agentsPath, nil
}

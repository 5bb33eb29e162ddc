package config

import (
	"log/slog"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
	"github.com/elektrokombinacija/gridworld-sim/internal/schedule"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

// Paths names the input files of a run. Only Map is required.
type Paths struct {
	Map      string
	Agents   string
	Schedule string
	Settings string
}

// Bundle is everything loaded for one run.
type Bundle struct {
	Settings Settings
	Scenario *core.Scenario
	Schedule schedule.Schedule // nil without a schedule file
}

// Load reads every file named in p.
func Load(p Paths) (*Bundle, error) {
	st, err := LoadSettings(p.Settings)
	if err != nil {
		return nil, err
	}
	sc, err := LoadScenario(p.Map, p.Agents, st)
	if err != nil {
		return nil, err
	}
	b := &Bundle{Settings: st, Scenario: sc}
	if p.Schedule != "" {
		if b.Schedule, err = LoadSchedule(p.Schedule); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ActionSource returns a schedule follower when a schedule was loaded, and
// otherwise drives every agent down each tick.
func (b *Bundle) ActionSource(logger *slog.Logger) (sim.ActionSource, error) {
	if b.Schedule == nil {
		return sim.FixedActions(core.ActionDown), nil
	}
	names := make([]string, len(b.Scenario.Agents))
	for i, a := range b.Scenario.Agents {
		names[i] = a.Name
	}
	return schedule.NewFollower(b.Schedule, names, logger)
}

// Steps returns override when positive. Otherwise a loaded schedule runs
// until its last waypoint and a run without one uses the configured
// maximum. max_steps caps the schedule length.
func (b *Bundle) Steps(override int) int {
	if override > 0 {
		return override
	}
	if b.Schedule != nil {
		return min(b.Schedule.MaxTime(), b.Settings.MaxSteps)
	}
	return b.Settings.MaxSteps
}

// Package schedule replays precomputed multi-agent plans as per-tick
// actions.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

var (
	// ErrEmptyPlan is returned for an agent with no waypoints.
	ErrEmptyPlan = errors.New("agent plan has no waypoints")
	// ErrUnordered is returned when waypoint times decrease.
	ErrUnordered = errors.New("waypoint times are not ordered")
)

// Waypoint is an agent's planned cell at time T.
type Waypoint struct {
	T int `yaml:"t"`
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Pose returns the waypoint's cell.
func (w Waypoint) Pose() core.Pose { return core.Pose{X: w.X, Y: w.Y} }

// Schedule maps agent names to waypoints ordered by time.
type Schedule map[string][]Waypoint

// Validate checks that every plan is non-empty and ordered by T.
func (s Schedule) Validate() error {
	for _, name := range s.Names() {
		wps := s[name]
		if len(wps) == 0 {
			return fmt.Errorf("%s: %w", name, ErrEmptyPlan)
		}
		for i := 1; i < len(wps); i++ {
			if wps[i].T < wps[i-1].T {
				return fmt.Errorf("%s at index %d: %w", name, i, ErrUnordered)
			}
		}
	}
	return nil
}

// Names returns the scheduled agent names in sorted order.
func (s Schedule) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxTime returns the latest waypoint time over all agents.
func (s Schedule) MaxTime() int {
	maxT := 0
	for _, wps := range s {
		if len(wps) > 0 {
			maxT = max(maxT, wps[len(wps)-1].T)
		}
	}
	return maxT
}

// StateAt returns the pose of the first waypoint with T >= t. Times before
// the first waypoint map to it and times after the last map to the last.
// wps must be non-empty and ordered.
func StateAt(t int, wps []Waypoint) core.Pose {
	idx := sort.Search(len(wps), func(i int) bool { return wps[i].T >= t })
	if idx == len(wps) {
		idx--
	}
	return wps[idx].Pose()
}

// Follower turns a Schedule into actions for a fixed agent order.
type Follower struct {
	sched  Schedule
	names  []string // Agent name per simulation index
	logger *slog.Logger
}

// NewFollower binds sched to the simulation's agent names. Agents without
// a plan always stay.
func NewFollower(sched Schedule, names []string, logger *slog.Logger) (*Follower, error) {
	if err := sched.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Follower{
		sched:  sched,
		names:  names,
		logger: logger,
	}, nil
}

// Actions emits, for each agent, the move from its scheduled pose at
// tick-1 to the one at tick. A jump that is not a single grid step becomes
// Stay.
func (f *Follower) Actions(tick int, poses []core.Pose) ([]core.Action, error) {
	if len(poses) != len(f.names) {
		return nil, fmt.Errorf("follower knows %d agents, got %d poses", len(f.names), len(poses))
	}

	out := make([]core.Action, len(f.names))
	for i, name := range f.names {
		wps, ok := f.sched[name]
		if !ok {
			continue
		}
		prev, next := StateAt(tick-1, wps), StateAt(tick, wps)
		a, ok := core.ActionFromDelta(next.X-prev.X, next.Y-prev.Y)
		if !ok {
			f.logger.Warn("schedule jump is not a single step",
				"agent", name, "tick", tick, "from", prev, "to", next)
			continue
		}
		if a != core.ActionStay && poses[i] != prev {
			f.logger.Debug("agent off schedule",
				"agent", name, "tick", tick, "pose", poses[i], "planned", prev)
		}
		out[i] = a
	}
	return out, nil
}

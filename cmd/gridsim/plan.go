package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/algo"
	"github.com/elektrokombinacija/gridworld-sim/internal/config"
	"github.com/elektrokombinacija/gridworld-sim/internal/core"
)

type planOptions struct {
	mapPath  string
	settings string
	from     string
	to       string
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print an A* path over a map's static obstacles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.mapPath, "map", "", "map YAML file")
	f.StringVar(&opts.settings, "settings", "", "settings YAML file (for costs)")
	f.StringVar(&opts.from, "from", "", "start cell as x,y")
	f.StringVar(&opts.to, "to", "", "goal cell as x,y")
	_ = cmd.MarkFlagRequired("map")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	st, err := config.LoadSettings(opts.settings)
	if err != nil {
		return err
	}
	root.setupLogging(st.LogLevel)

	m, err := config.LoadMap(opts.mapPath)
	if err != nil {
		return err
	}
	from, err := parsePose(opts.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parsePose(opts.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	costs, err := core.CostTableFromNames(core.DefaultCostTable(), st.Costs)
	if err != nil {
		return fmt.Errorf("costs: %w", err)
	}

	obstacles := make([]core.Pose, len(m.Map.Obstacles))
	for i, o := range m.Map.Obstacles {
		obstacles[i] = o.Pose()
	}
	bg, err := core.NewStaticLayer(m.Map.Rows(), m.Map.Cols(), obstacles, nil)
	if err != nil {
		return err
	}

	planner := algo.NewPlanner(costs)
	path, err := planner.Plan(from, to, bg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats := planner.Stats()
	fmt.Fprintf(out, "path %v -> %v: %d poses, %d expanded, %d generated\n",
		from, to, path.Len(), stats.Expanded, stats.Generated)
	fmt.Fprint(out, drawPath(bg, path))
	return nil
}

// drawPath renders the static layer with '*' on the path and S/E at its
// ends.
func drawPath(bg *core.StaticLayer, path core.Path) string {
	rows := strings.Split(strings.TrimRight(bg.String(), "\n"), "\n")
	cells := make([][]byte, len(rows))
	for i, r := range rows {
		cells[i] = []byte(r)
	}
	for i, p := range path {
		g := byte('*')
		switch i {
		case 0:
			g = 'S'
		case len(path) - 1:
			g = 'E'
		}
		cells[p.Y][p.X] = g
	}

	var sb strings.Builder
	for _, r := range cells {
		sb.Write(r)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func parsePose(s string) (core.Pose, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return core.Pose{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return core.Pose{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return core.Pose{}, fmt.Errorf("y: %w", err)
	}
	return core.Pose{X: x, Y: y}, nil
}

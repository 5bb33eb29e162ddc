package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/config"
	"github.com/elektrokombinacija/gridworld-sim/internal/render"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

type runOptions struct {
	paths       config.Paths
	steps       int
	render      string
	trajectory  bool
	metricsAddr string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation to completion",
		Long: `Run loads a map, its agents and optional schedule and settings, then
steps the simulation. Without a schedule every agent moves down each tick.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.paths.Map, "map", "", "map YAML file")
	f.StringVar(&opts.paths.Agents, "agents", "", "agents YAML file (default: agents in the map file)")
	f.StringVar(&opts.paths.Schedule, "schedule", "", "schedule YAML file")
	f.StringVar(&opts.paths.Settings, "settings", "", "settings YAML file")
	f.IntVar(&opts.steps, "steps", 0, "ticks to run (default: max_steps from settings)")
	f.StringVar(&opts.render, "render", "none", "frame output: none, plain or color")
	f.BoolVar(&opts.trajectory, "trajectory", false, "draw agent trajectories in frames")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("map")
	return cmd
}

func runSimulation(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	bundle, err := config.Load(opts.paths)
	if err != nil {
		return err
	}
	logger := root.setupLogging(bundle.Settings.LogLevel)

	var renderer *render.Renderer
	switch opts.render {
	case "none":
	case "plain", "color":
		renderer = render.New(render.Options{
			Plain:          opts.render == "plain",
			ShowFuture:     true,
			ShowTrajectory: opts.trajectory,
		})
	default:
		return fmt.Errorf("unknown --render %q", opts.render)
	}

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "addr", opts.metricsAddr, "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", opts.metricsAddr)
	}

	s, err := sim.New(bundle.Scenario, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	src, err := bundle.ActionSource(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	var onStep func(*sim.StepResult)
	if renderer != nil {
		fmt.Fprint(out, renderer.Frame(s, nil))
		onStep = func(res *sim.StepResult) {
			fmt.Fprintln(out)
			fmt.Fprint(out, renderer.Frame(s, res))
		}
	}

	sum, err := s.Run(ctx, src, bundle.Steps(opts.steps), onStep)
	if s.AllAtGoal() {
		logger.Info("all agents at goal", "tick", s.TickCount())
	}
	printSummary(cmd, sum)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printSummary(cmd *cobra.Command, sum *sim.RunSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", sum.RunID)
	fmt.Fprintf(out, "  ticks:          %d\n", sum.Ticks)
	fmt.Fprintf(out, "  collisions:     %d\n", sum.Collisions)
	fmt.Fprintf(out, "  conflicts:      %d\n", sum.Conflicts)
	fmt.Fprintf(out, "  agents at goal: %d\n", sum.AgentsAtGoal)
	fmt.Fprintf(out, "  elapsed:        %v\n", sum.Duration.Round(time.Millisecond))
}

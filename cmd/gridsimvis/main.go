// Command gridsimvis opens a window that steps a grid world simulation one
// tick per right-arrow press.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/unit"
	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/config"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
	"github.com/elektrokombinacija/gridworld-sim/internal/vis"
)

func main() {
	var (
		paths config.Paths
		steps int
	)
	cmd := &cobra.Command{
		Use:          "gridsimvis",
		Short:        "Step a grid world simulation in a window",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := config.Load(paths)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: bundle.Settings.SlogLevel(),
			}))
			slog.SetDefault(logger)

			s, err := sim.New(bundle.Scenario, sim.WithLogger(logger))
			if err != nil {
				return err
			}
			src, err := bundle.ActionSource(logger)
			if err != nil {
				return err
			}

			go func() {
				window := new(app.Window)
				window.Option(
					app.Title("Grid World"),
					app.Size(unit.Dp(1200), unit.Dp(900)),
				)

				application := vis.NewApp(s, src, bundle.Steps(steps), logger)
				if err := application.Run(window); err != nil {
					logger.Error("window closed with error", "error", err)
					os.Exit(1)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&paths.Map, "map", "", "map YAML file")
	f.StringVar(&paths.Agents, "agents", "", "agents YAML file (default: agents in the map file)")
	f.StringVar(&paths.Schedule, "schedule", "", "schedule YAML file")
	f.StringVar(&paths.Settings, "settings", "", "settings YAML file")
	f.IntVar(&steps, "steps", 0, "close after this many ticks (default: max_steps from settings)")
	_ = cmd.MarkFlagRequired("map")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Command gridsim runs grid world simulations from the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "gridsim",
		Short:         "Simulate agents and wandering robots on a 2D grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"debug, info, warn or error (default from settings, else info)")

	root.AddCommand(
		newRunCmd(opts),
		newPlanCmd(opts),
		newGenCmd(opts),
		newBenchCmd(opts),
	)
	return root
}

// setupLogging installs a text handler on stderr. The flag wins over
// fallback.
func (o *rootOptions) setupLogging(fallback string) *slog.Logger {
	level := o.logLevel
	if level == "" {
		level = fallback
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

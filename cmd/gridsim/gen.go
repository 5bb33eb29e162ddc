package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/config"
)

func newGenCmd(root *rootOptions) *cobra.Command {
	var (
		outDir string
		params config.GenParams
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random map and agents file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root.setupLogging("info")
			mapPath, agentsPath, err := config.WriteInstance(outDir, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mapPath)
			fmt.Fprintln(cmd.OutOrStdout(), agentsPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&outDir, "out-dir", ".", "directory for the generated files")
	f.Int64Var(&params.Seed, "seed", 1, "random seed")
	f.IntVar(&params.Cols, "cols", 16, "grid width")
	f.IntVar(&params.Rows, "rows", 16, "grid height")
	f.IntVar(&params.Obstacles, "obstacles", 40, "number of obstacle cells")
	f.IntVar(&params.Agents, "agents", 3, "number of agents")
	return cmd
}

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elektrokombinacija/gridworld-sim/internal/config"
	"github.com/elektrokombinacija/gridworld-sim/internal/sim"
)

const mapSuffix = "_map.yaml"

// benchResult is one simulation run of an instance at one robot count.
type benchResult struct {
	Timestamp  string
	GoVersion  string
	OS         string
	Arch       string
	Instance   string
	Grid       string
	Agents     int
	Robots     int
	Ticks      int
	Collisions int
	Conflicts  int
	AtGoal     int
	RuntimeMs  float64
	Success    bool
	Error      string
}

type benchOptions struct {
	input    string
	output   string
	settings string
	robots   []int
	steps    int
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run every generated instance at several robot counts",
		Long: `Bench runs each <name>_map.yaml in the input directory, with its
<name>_agents.yaml when present, once per robot count. Agents move down
each tick. Results go to a CSV file and a summary table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.input, "input", ".", "directory holding generated instances")
	f.StringVar(&opts.output, "output", "", "CSV file for per-run results")
	f.StringVar(&opts.settings, "settings", "", "settings YAML file")
	f.IntSliceVar(&opts.robots, "robots", []int{0, 10, 50}, "robot counts to sweep")
	f.IntVar(&opts.steps, "steps", 200, "ticks per run")
	return cmd
}

func runBench(cmd *cobra.Command, root *rootOptions, opts *benchOptions) error {
	maps, err := filepath.Glob(filepath.Join(opts.input, "*"+mapSuffix))
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		return fmt.Errorf("no *%s files in %s, run gen first", mapSuffix, opts.input)
	}
	sort.Strings(maps)

	var results []*benchResult
	for _, mapPath := range maps {
		paths := config.Paths{Map: mapPath, Settings: opts.settings}
		if agents := strings.TrimSuffix(mapPath, mapSuffix) + "_agents.yaml"; fileExists(agents) {
			paths.Agents = agents
		}
		bundle, err := config.Load(paths)
		if err != nil {
			return fmt.Errorf("%s: %w", mapPath, err)
		}
		logger := root.setupLogging(bundle.Settings.LogLevel)
		name := strings.TrimSuffix(filepath.Base(mapPath), mapSuffix)

		for _, n := range opts.robots {
			sc := *bundle.Scenario
			sc.RobotCount = n
			res := &benchResult{
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				GoVersion: runtime.Version(),
				OS:        runtime.GOOS,
				Arch:      runtime.GOARCH,
				Instance:  name,
				Grid:      fmt.Sprintf("%dx%d", sc.Cols, sc.Rows),
				Agents:    len(sc.Agents),
				Robots:    n,
			}
			results = append(results, res)

			began := time.Now()
			s, err := sim.New(&sc, sim.WithLogger(logger))
			if err != nil {
				res.Error = err.Error()
				logger.Warn("bench run skipped", "instance", name, "robots", n, "error", err)
				continue
			}
			src, err := bundle.ActionSource(logger)
			if err != nil {
				return err
			}
			sum, err := s.Run(cmd.Context(), src, opts.steps, nil)
			res.RuntimeMs = float64(time.Since(began).Microseconds()) / 1000.0
			res.Ticks = sum.Ticks
			res.Collisions = sum.Collisions
			res.Conflicts = sum.Conflicts
			res.AtGoal = sum.AgentsAtGoal
			res.Success = err == nil
			if err != nil {
				res.Error = err.Error()
			}
		}
	}

	if opts.output != "" {
		if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
			return err
		}
		if err := writeBenchCSV(opts.output, results); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
	}
	printBenchSummary(cmd.OutOrStdout(), results)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeBenchCSV(path string, results []*benchResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{
		"timestamp", "go_version", "os", "arch",
		"instance", "grid_size", "num_agents", "num_robots",
		"ticks", "collisions", "conflicts", "agents_at_goal",
		"runtime_ms", "success", "error",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Timestamp, r.GoVersion, r.OS, r.Arch,
			r.Instance, r.Grid, strconv.Itoa(r.Agents), strconv.Itoa(r.Robots),
			strconv.Itoa(r.Ticks), strconv.Itoa(r.Collisions), strconv.Itoa(r.Conflicts), strconv.Itoa(r.AtGoal),
			fmt.Sprintf("%.3f", r.RuntimeMs), strconv.FormatBool(r.Success), r.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// printBenchSummary aggregates successful runs by robot count.
func printBenchSummary(out io.Writer, results []*benchResult) {
	type agg struct {
		runs, ok           int
		ms                 float64
		collisions, atGoal int
	}
	byRobots := make(map[int]*agg)
	for _, r := range results {
		a, ok := byRobots[r.Robots]
		if !ok {
			a = &agg{}
			byRobots[r.Robots] = a
		}
		a.runs++
		if r.Success {
			a.ok++
			a.ms += r.RuntimeMs
			a.collisions += r.Collisions
			a.atGoal += r.AtGoal
		}
	}
	counts := make([]int, 0, len(byRobots))
	for n := range byRobots {
		counts = append(counts, n)
	}
	sort.Ints(counts)

	fmt.Fprintf(out, "%-8s %6s %8s %12s %14s %8s\n",
		"Robots", "Runs", "Success", "Avg Time(ms)", "AvgCollisions", "AtGoal")
	fmt.Fprintln(out, strings.Repeat("-", 61))
	for _, n := range counts {
		a := byRobots[n]
		var avgMs, avgCol float64
		if a.ok > 0 {
			avgMs = a.ms / float64(a.ok)
			avgCol = float64(a.collisions) / float64(a.ok)
		}
		fmt.Fprintf(out, "%-8d %6d %8d %12.2f %14.2f %8d\n", n, a.runs, a.ok, avgMs, avgCol, a.atGoal)
	}
}

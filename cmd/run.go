package cmd

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/graph"
	"github.com/papapumpkin/pulsar/internal/history"
	"github.com/papapumpkin/pulsar/internal/rank"
	"github.com/papapumpkin/pulsar/internal/report"
	"github.com/papapumpkin/pulsar/internal/telemetry"
	"github.com/papapumpkin/pulsar/internal/ui"
)

// addRankFlags registers the flags shared by surf and mix.
func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("damping", 0.9, "probability of following a link vs teleporting")
	cmd.Flags().Int("start", 0, "starting node")
	cmd.Flags().String("dangling", "reject", "zero-out-degree policy: reject, uniform, selfloop")
	cmd.Flags().Bool("pretty", false, "render a styled rank table instead of the plain line")
	cmd.Flags().String("out", "", "write a TOML result report to this path")
	cmd.Flags().Bool("record", false, "record the run in the history database")
}

// parseDangling maps a policy flag value to a rank.DanglingPolicy.
func parseDangling(s string) (rank.DanglingPolicy, error) {
	switch s {
	case "reject":
		return rank.DanglingReject, nil
	case "uniform":
		return rank.DanglingUniform, nil
	case "selfloop":
		return rank.DanglingSelfLoop, nil
	default:
		return 0, fmt.Errorf("unknown dangling policy %q (want reject, uniform, or selfloop)", s)
	}
}

// parseSteps parses the steps argument, rejecting non-integers with a
// usage-style error.
func parseSteps(arg string) (int, error) {
	steps, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("steps must be an integer, got %q", arg)
	}
	return steps, nil
}

// loadRankConfig merges file and environment configuration with the
// command's flag overrides and resolves the dangling policy. Flags win
// over config values when explicitly set; the persistent --verbose flag
// can only turn verbosity on, never off.
func loadRankConfig(cmd *cobra.Command) (config.Config, rank.DanglingPolicy, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, 0, err
	}
	if cmd.Flags().Changed("damping") {
		cfg.Damping, _ = cmd.Flags().GetFloat64("damping")
	}
	if cmd.Flags().Changed("start") {
		cfg.StartNode, _ = cmd.Flags().GetInt("start")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}

	danglingFlag, _ := cmd.Flags().GetString("dangling")
	dangling, err := parseDangling(danglingFlag)
	if err != nil {
		return config.Config{}, 0, err
	}
	return cfg, dangling, nil
}

// runRank is the shared pipeline behind surf and mix: load config and
// graph, build the transition matrix, run the requested algorithm, then
// print, export, and record the result as requested.
func runRank(cmd *cobra.Command, args []string, method string) error {
	graphPath := args[0]
	steps, err := parseSteps(args[1])
	if err != nil {
		return err
	}

	cfg, dangling, err := loadRankConfig(cmd)
	if err != nil {
		return err
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	g, err := graph.Load(graphPath)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.Verbose("loaded %s: %d nodes, %d links", graphPath, g.NumNodes(), g.NumLinks())
	}

	t, err := rank.Transition(g, rank.TransitionOptions{
		Damping:  cfg.Damping,
		Dangling: dangling,
	})
	if err != nil {
		return err
	}

	var em *telemetry.Emitter // nil emitter is a no-op
	if cfg.TelemetryPath != "" {
		em, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer em.Close()
	}

	runID := uuid.NewString()
	started := time.Now()
	if err := em.Emit(telemetry.Event{
		Timestamp: started,
		Kind:      telemetry.KindRunStart,
		RunID:     runID,
		Graph:     graphPath,
		Data:      map[string]any{"method": method, "steps": steps, "damping": cfg.Damping},
	}); err != nil {
		printer.Verbose("telemetry: %v", err)
	}

	var scores []float64
	switch method {
	case history.MethodSurf:
		var rng *rand.Rand
		if cfg.Seed != 0 {
			rng = rand.New(rand.NewSource(cfg.Seed))
		}
		scores, err = rank.Surf(t, steps, rank.SurfOptions{Start: cfg.StartNode, Rand: rng})
	case history.MethodMix:
		scores, err = rank.Mix(t, steps, rank.MixOptions{Start: cfg.StartNode})
	default:
		err = fmt.Errorf("unknown method %q", method)
	}
	if err != nil {
		return err
	}

	if err := em.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      telemetry.KindRunDone,
		RunID:     runID,
		Graph:     graphPath,
		Data:      map[string]any{"duration_ms": time.Since(started).Milliseconds()},
	}); err != nil {
		printer.Verbose("telemetry: %v", err)
	}

	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		printer.Table(scores)
	} else {
		printer.Ranks(scores)
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := report.Save(outPath, report.New(graphPath, method, steps, cfg.Damping, scores)); err != nil {
			return err
		}
		if cfg.Verbose {
			printer.Verbose("report written to %s", outPath)
		}
	}

	if record, _ := cmd.Flags().GetBool("record"); record {
		store, err := history.Open(cmd.Context(), cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Record(cmd.Context(), history.Run{
			ID:        runID,
			Method:    method,
			GraphPath: graphPath,
			Nodes:     g.NumNodes(),
			Steps:     steps,
			Damping:   cfg.Damping,
			Seed:      cfg.Seed,
			Scores:    scores,
		}); err != nil {
			return err
		}
		if cfg.Verbose {
			printer.Verbose("recorded run %s", runID)
		}
	}

	return nil
}

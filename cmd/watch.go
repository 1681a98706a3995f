package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/graph"
	"github.com/papapumpkin/pulsar/internal/history"
	"github.com/papapumpkin/pulsar/internal/rank"
	"github.com/papapumpkin/pulsar/internal/telemetry"
	"github.com/papapumpkin/pulsar/internal/ui"
	"github.com/papapumpkin/pulsar/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <graph-file> <steps>",
	Short: "Re-rank the graph whenever its file changes",
	Long: `Watch ranks the graph once, then monitors the graph file and reprints
updated ranks after every save. A save that leaves the file malformed is
reported without stopping the watch. Interrupt to exit.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("method", "mix", "ranking method: surf or mix")
	watchCmd.Flags().Float64("damping", 0.9, "probability of following a link vs teleporting")
	watchCmd.Flags().Int("start", 0, "starting node")
	watchCmd.Flags().String("dangling", "reject", "zero-out-degree policy: reject, uniform, selfloop")
	watchCmd.Flags().Bool("pretty", false, "render a styled rank table instead of the plain line")
	watchCmd.Flags().Int64("seed", 0, "random seed for surf (0 = time-seeded)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	graphPath := args[0]
	steps, err := parseSteps(args[1])
	if err != nil {
		return err
	}

	cfg, dangling, err := loadRankConfig(cmd)
	if err != nil {
		return err
	}

	method, _ := cmd.Flags().GetString("method")
	if method != history.MethodSurf && method != history.MethodMix {
		return fmt.Errorf("unknown method %q (want surf or mix)", method)
	}
	pretty, _ := cmd.Flags().GetBool("pretty")

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	var em *telemetry.Emitter // nil emitter is a no-op
	if cfg.TelemetryPath != "" {
		em, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer em.Close()
	}

	compute := func() error {
		g, err := graph.Load(graphPath)
		if err != nil {
			return err
		}
		t, err := rank.Transition(g, rank.TransitionOptions{
			Damping:  cfg.Damping,
			Dangling: dangling,
		})
		if err != nil {
			return err
		}

		var scores []float64
		if method == history.MethodSurf {
			var rng *rand.Rand
			if cfg.Seed != 0 {
				rng = rand.New(rand.NewSource(cfg.Seed))
			}
			scores, err = rank.Surf(t, steps, rank.SurfOptions{Start: cfg.StartNode, Rand: rng})
		} else {
			scores, err = rank.Mix(t, steps, rank.MixOptions{Start: cfg.StartNode})
		}
		if err != nil {
			return err
		}

		if pretty {
			printer.Table(scores)
		} else {
			printer.Ranks(scores)
		}
		return nil
	}

	// The initial ranking must succeed; later failures only warn, since a
	// half-saved file is usually fixed by the next save.
	if err := compute(); err != nil {
		return err
	}

	w, err := watch.New(graphPath)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if cfg.Verbose {
				printer.Verbose("graph changed at %s, reranking", changed.Format("15:04:05"))
			}
			if err := em.Emit(telemetry.Event{
				Timestamp: time.Now(),
				Kind:      telemetry.KindWatchTriggered,
				Graph:     graphPath,
				Data:      map[string]any{"changed_at": changed},
			}); err != nil {
				printer.Verbose("telemetry: %v", err)
			}
			if err := compute(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
			}
		}
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/config"
	"github.com/papapumpkin/pulsar/internal/history"
	"github.com/papapumpkin/pulsar/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and replay recorded ranking runs",
	Long: `The history command group reads the run database written by surf and
mix when --record is set. Runs keep their full score vectors, so past
results can be reprinted exactly.`,
}

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE:  runHistoryList,
	}
	listCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Reprint the ranks of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
	showCmd.Flags().Bool("pretty", false, "render a styled rank table instead of the plain line")

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(cmd.Context(), cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded runs")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-4s  %s  nodes=%d steps=%d damping=%.2f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Method, r.GraphPath,
			r.Nodes, r.Steps, r.Damping)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := history.Open(cmd.Context(), cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		printer.Table(run.Scores)
	} else {
		printer.Ranks(run.Scores)
	}
	return nil
}

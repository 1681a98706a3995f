package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/graph"
	"github.com/papapumpkin/pulsar/internal/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <graph-file>",
	Short: "Summarize a graph file without ranking it",
	Long: `Inspect loads a graph file and prints its node and link totals plus the
out-degree of every node. Dangling nodes (out-degree zero) are flagged:
they make the default transition model undefined, so ranking such a
graph requires an explicit --dangling policy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := graph.Load(args[0])
		if err != nil {
			return err
		}
		ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Summary(args[0], g)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

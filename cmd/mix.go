package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/history"
)

var mixCmd = &cobra.Command{
	Use:   "mix <graph-file> <steps>",
	Short: "Compute node ranks exactly by Markov mixing",
	Long: `Mix computes node ranks by power iteration: a probability distribution
starting entirely on the start node is multiplied by the transition
matrix once per step. The result is deterministic and converges to the
graph's stationary distribution as steps grow.

With 0 steps the initial distribution is printed unchanged.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(cmd, args, history.MethodMix)
	},
}

func init() {
	addRankFlags(mixCmd)
	rootCmd.AddCommand(mixCmd)
}

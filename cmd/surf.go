package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pulsar/internal/history"
)

var surfCmd = &cobra.Command{
	Use:   "surf <graph-file> <steps>",
	Short: "Estimate node ranks by simulating a random surfer",
	Long: `Surf simulates a single random surfer walking the graph for the given
number of steps: with probability --damping the surfer follows an
outbound link chosen proportionally to its multiplicity, otherwise it
teleports to a uniformly random node. Each node's rank is the fraction
of steps the surfer spent on it.

Results vary run to run unless --seed is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(cmd, args, history.MethodSurf)
	},
}

func init() {
	addRankFlags(surfCmd)
	surfCmd.Flags().Int64("seed", 0, "random seed (0 = time-seeded)")
	rootCmd.AddCommand(surfCmd)
}

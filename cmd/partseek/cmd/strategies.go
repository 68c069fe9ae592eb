package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/partseek/partseek/internal/search"
)

var strategyBlurbs = map[string]string{
	search.StrategyAll:          "score every possible grouping (Bell-number many; small runs only)",
	search.StrategyUser:         "score exactly the schemes listed in the config",
	search.StrategyGreedy:       "merge the best-scoring pair per step until no merge improves",
	search.StrategyHCluster:     "merge the most similar pair per step, k-1 steps",
	search.StrategyRCluster:     "score only the top cluster_percent of ranked pair merges per step",
	search.StrategyKMeans:       "split subsets along per-column statistics while it improves",
	search.StrategyKMeansWSS:    "kmeans with an initial whole-scheme split pass",
	search.StrategyKMeansGreedy: "kmeans splitting followed by a greedy merge pass",
}

// newStrategiesCmd creates the strategies command.
func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the available search strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range search.StrategyNames() {
				fmt.Fprintf(w, "%s\t%s\n", name, strategyBlurbs[name])
			}
			return w.Flush()
		},
	}
}

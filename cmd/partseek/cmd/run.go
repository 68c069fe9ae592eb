package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/partseek/partseek/internal/analysis"
	"github.com/partseek/partseek/internal/config"
)

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	var (
		configPath string
		strategy   string
		criterion  string
		outputDir  string
		quiet      bool
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured scheme search",
		Long: `Run the scheme search described by the config file and write the
best scheme report into the output directory. Flags override the
corresponding config settings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Search.Strategy = strategy
			}
			if criterion != "" {
				cfg.Search.Criterion = criterion
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if quiet {
				cfg.Output.Quiet = true
			}
			if workers > 0 {
				cfg.Performance.Workers = workers
			}

			a, err := analysis.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			best, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Best scheme: %s\n", best.Scheme.Name)
			fmt.Fprintf(out, "Score (%s): %.4f\n", strings.ToUpper(string(best.Criterion)), best.Score)
			fmt.Fprintf(out, "Subsets: %d\n", best.Scheme.SubsetCount())
			fmt.Fprintf(out, "Report: %s\n", filepath.Join(cfg.Output.Dir, "best_scheme.txt"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "partseek.yaml", "Path to the config file")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Override the search strategy")
	cmd.Flags().StringVar(&criterion, "criterion", "", "Override the model-selection criterion")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Override the output directory")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the progress bar")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the evaluation worker count")

	return cmd
}

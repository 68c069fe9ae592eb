package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partseek/partseek/internal/config"
	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/search"
)

// newCheckCmd creates the check command: validate a configuration and
// describe the run it would produce, without scoring anything.
func newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config file without running a search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if _, err := search.ForName(cfg.Search.Strategy); err != nil {
				return err
			}
			if _, err := oracle.ParseCriterion(cfg.Search.Criterion); err != nil {
				return err
			}
			ps, err := cfg.PartitionSet()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK: %s\n", configPath)
			fmt.Fprintf(out, "Partitions: %d (%d columns)\n", ps.Len(), ps.ColumnCount())
			fmt.Fprintf(out, "Strategy: %s\n", cfg.Search.Strategy)
			fmt.Fprintf(out, "Criterion: %s\n", cfg.Search.Criterion)
			if cfg.Oracle.Program != "" {
				fmt.Fprintf(out, "Oracle: %s\n", cfg.Oracle.Program)
			} else {
				fmt.Fprintln(out, "Oracle: built-in likelihood model")
			}
			fmt.Fprintf(out, "Output: %s\n", cfg.Output.Dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "partseek.yaml", "Path to the config file")
	return cmd
}

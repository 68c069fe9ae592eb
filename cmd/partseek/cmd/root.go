// Package cmd provides the CLI commands for partseek.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/partseek/partseek/internal/logging"
	"github.com/partseek/partseek/internal/profiling"
	"github.com/partseek/partseek/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()

	profileCPU   string
	profileMem   string
	profileTrace string
	profSession  *profiling.Session
)

// NewRootCmd creates the root command for the partseek CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partseek",
		Short: "Search for the best partitioning scheme of columnar data",
		Long: `Partseek searches the space of groupings of predefined data
partitions for the grouping with the best model-selection score
(AIC, AICc or BIC). Merge-based strategies agglomerate partitions,
the kmeans family splits them along per-column statistics.

Define partitions in partseek.yaml and start with 'partseek run'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("partseek version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.partseek/logs/")
	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startDiagnostics
	cmd.PersistentPostRunE = stopDiagnostics

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newStrategiesCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startDiagnostics enables debug logging and profiling if requested.
func startDiagnostics(_ *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}

	s, err := profiling.Start(profileCPU, profileTrace, profileMem)
	if err != nil {
		return err
	}
	profSession = s
	return nil
}

// stopDiagnostics finishes profiling and flushes the log.
func stopDiagnostics(_ *cobra.Command, _ []string) error {
	if err := profSession.Stop(); err != nil {
		return err
	}
	profSession = nil

	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

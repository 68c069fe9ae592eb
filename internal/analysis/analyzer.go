// Package analysis wires one full search run together: the scheme model,
// the scoring oracle, the persistent score store, output-directory
// locking, strategy dispatch and reporting.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/partseek/partseek/internal/config"
	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/report"
	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/search"
	"github.com/partseek/partseek/internal/stats"
	"github.com/partseek/partseek/internal/store"
)

const (
	lockFileName  = ".partseek.lock"
	storeFileName = "scores.db"
)

// Analyzer owns the moving parts of one search run. Construct with New,
// run once with Run, release resources with Close.
type Analyzer struct {
	cfg      *config.Config
	lock     *flock.Flock
	store    *store.Store
	runner   *search.Runner
	strategy search.Strategy
	reporter *report.Reporter
}

// New prepares a run from a validated configuration: builds the scheme
// model, loads site statistics, chooses the oracle, opens the score
// store and takes the output-directory lock. A directory already locked
// by another run is refused, not waited on.
func New(cfg *config.Config) (*Analyzer, error) {
	strategy, err := search.ForName(cfg.Search.Strategy)
	if err != nil {
		return nil, err
	}
	criterion, err := oracle.ParseCriterion(cfg.Search.Criterion)
	if err != nil {
		return nil, err
	}

	ps, err := cfg.PartitionSet()
	if err != nil {
		return nil, err
	}

	var sites *stats.SiteStats
	if cfg.SiteStats != "" {
		sites, err = stats.LoadCSV(cfg.SiteStats)
		if err != nil {
			return nil, err
		}
	}

	var scorer oracle.SubsetScorer
	if cfg.Oracle.Program != "" {
		if sites == nil {
			return nil, errors.ConfigError(
				"oracle program configured without site_stats; the scorer input file needs per-column statistics", nil)
		}
		scorer = oracle.NewProcessOracle(cfg.Oracle.Program, cfg.Oracle.Args, sites, cfg.Output.Dir)
	} else {
		if sites == nil {
			return nil, errors.ConfigError(
				"no oracle program configured and no site_stats to score with; set one of them", nil)
		}
		scorer = oracle.NewLikelihoodOracle(sites)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, errors.New(errors.ErrCodeReportWrite,
			fmt.Sprintf("cannot create output directory %s", cfg.Output.Dir), err)
	}

	lock := flock.New(filepath.Join(cfg.Output.Dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.New(errors.ErrCodeOutputLocked,
			fmt.Sprintf("cannot lock output directory %s", cfg.Output.Dir), err)
	}
	if !locked {
		return nil, errors.New(errors.ErrCodeOutputLocked,
			fmt.Sprintf("output directory %s is in use by another run", cfg.Output.Dir), nil).
			WithSuggestion("wait for the other run to finish or use a different output directory")
	}

	st, err := store.Open(filepath.Join(cfg.Output.Dir, storeFileName))
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	var progress report.Progress = report.NewBarProgress()
	if cfg.Output.Quiet {
		progress = report.NopProgress{}
	}

	userSchemes := make([]search.UserScheme, len(cfg.Schemes))
	for i, sc := range cfg.Schemes {
		userSchemes[i] = search.UserScheme{Name: sc.Name, Groups: sc.Subsets}
	}

	reporter := report.NewReporter(cfg.Output.Dir)
	runner := &search.Runner{
		Set:            scheme.NewSchemeSet(ps),
		Eval:           oracle.NewEvaluator(scorer, criterion, st),
		Results:        search.NewResults(),
		Reporter:       reporter,
		Progress:       progress,
		Sites:          sites,
		Weights:        cfg.Search.ClusterWeights,
		ClusterPercent: cfg.Search.ClusterPercent,
		UserSchemes:    userSchemes,
		Workers:        cfg.Performance.Workers,
	}

	return &Analyzer{
		cfg:      cfg,
		lock:     lock,
		store:    st,
		runner:   runner,
		strategy: strategy,
		reporter: reporter,
	}, nil
}

// Run executes the configured strategy to completion and writes the
// best-scheme report. It returns the winning result.
func (a *Analyzer) Run(ctx context.Context) (*oracle.Result, error) {
	slog.Info("search started",
		slog.String("strategy", a.strategy.Name()),
		slog.String("criterion", string(a.runner.Eval.Criterion())),
		slog.Int("partitions", a.runner.Set.Partitions().Len()),
		slog.Int("workers", a.runner.Workers))

	if err := a.strategy.Search(ctx, a.runner); err != nil {
		return nil, err
	}

	best := a.runner.Results.Best()
	if best == nil {
		return nil, errors.New(errors.ErrCodeOracleFailed,
			"every candidate scheme hit degenerate data; nothing to report", nil)
	}

	if err := a.reporter.WriteBestScheme(best); err != nil {
		return nil, err
	}

	slog.Info("search finished",
		slog.String("best_scheme", best.Scheme.Name),
		slog.Float64("score", best.Score),
		slog.Int("subsets", best.Scheme.SubsetCount()),
		slog.Int("schemes_tried", a.runner.Set.SchemeCount()))

	return best, nil
}

// Close releases the score store and the output-directory lock.
func (a *Analyzer) Close() error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = err
		}
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

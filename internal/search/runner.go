// Package search implements the partitioning-scheme search strategies:
// exhaustive enumeration, user-supplied schemes, greedy agglomeration,
// strict and relaxed similarity clustering, and the k-means splitting
// family. Strategies walk the scheme model toward a better-scoring
// grouping, one step at a time, funnelling every candidate through the
// registry's validation and the shared evaluator.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/report"
	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/stats"
)

// SummaryWriter receives step-significant scheme summaries and the final
// best scheme. Implemented by report.Reporter.
type SummaryWriter interface {
	WriteSchemeSummary(sch *scheme.Scheme, res *oracle.Result) error
	WriteBestScheme(res *oracle.Result) error
}

// UserScheme is one externally supplied scheme definition for the user
// strategy.
type UserScheme struct {
	Name   string
	Groups [][]string
}

// Runner is the per-run context every strategy operates on: the scheme
// registry, the evaluator, the best-result tracker and the reporting
// sinks. It is constructed once per run and passed by reference; there is
// no ambient global state.
type Runner struct {
	Set      *scheme.SchemeSet
	Eval     *oracle.Evaluator
	Results  *Results
	Reporter SummaryWriter
	Progress report.Progress

	// Sites feeds the k-means splitter.
	Sites *stats.SiteStats
	// Weights ranks candidate merges for the clustering strategies.
	Weights stats.Weights
	// ClusterPercent is the rcluster exploration breadth.
	ClusterPercent float64
	// UserSchemes feeds the user strategy.
	UserSchemes []UserScheme
	// Workers bounds concurrent candidate evaluations within one step.
	// Values below 1 mean sequential evaluation.
	Workers int

	nameMu      sync.Mutex
	nameCounter int
}

// nextName allocates a unique scheme name with the given prefix. Scheme
// names must be unique within a run, and strategies create candidates
// concurrently.
func (r *Runner) nextName(prefix string) string {
	r.nameMu.Lock()
	defer r.nameMu.Unlock()
	r.nameCounter++
	return fmt.Sprintf("%s_%d", prefix, r.nameCounter)
}

// startScheme builds and registers the fully-split scheme: every
// partition in its own subset.
func (r *Runner) startScheme() (*scheme.Scheme, error) {
	names := r.Set.Partitions().Names()
	groups := make([][]string, len(names))
	for i, n := range names {
		groups[i] = []string{n}
	}
	return r.Set.CreateScheme("start_scheme", groups)
}

// analyseScheme evaluates one scheme, feeds the progress reporter and the
// best-result tracker, and returns the result. Degeneracy errors pass
// through untouched for the caller to classify.
func (r *Runner) analyseScheme(ctx context.Context, sch *scheme.Scheme) (*oracle.Result, error) {
	res, err := r.Eval.Evaluate(ctx, sch)
	if err != nil {
		return nil, err
	}
	r.Progress.Update()
	r.Results.Consider(res)
	return res, nil
}

// evalBatch evaluates one step's candidate schemes. Candidates within a
// step are mutually independent, so they may be dispatched to a bounded
// worker pool; the step never advances until every candidate has
// reported. Results come back in candidate order, with nil entries for
// candidates that hit a recoverable degeneracy, and are fed to the
// tracker sequentially in that order so tie-breaks stay deterministic.
func (r *Runner) evalBatch(ctx context.Context, candidates []*scheme.Scheme) ([]*oracle.Result, error) {
	results := make([]*oracle.Result, len(candidates))

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			res, err := r.Eval.Evaluate(gctx, cand)
			if err != nil {
				if oracle.IsDegenerate(err) {
					slog.Warn("candidate skipped: degenerate subset data",
						slog.String("scheme", cand.Name),
						slog.String("error", err.Error()))
					return nil
				}
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sequential bookkeeping in enumeration order: the first candidate
	// with the step's best score wins ties, matching sequential runs.
	for _, res := range results {
		if res == nil {
			continue
		}
		r.Progress.Update()
		r.Results.Consider(res)
	}

	return results, nil
}

// bestOfBatch returns the index of the first strictly-best result in the
// batch, or -1 when every candidate was degenerate.
func bestOfBatch(results []*oracle.Result) int {
	best := -1
	bestScore := math.Inf(1)
	for i, res := range results {
		if res != nil && res.Score < bestScore {
			best = i
			bestScore = res.Score
		}
	}
	return best
}

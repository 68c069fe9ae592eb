package search

import (
	"context"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/scheme"
)

// splitMaxIter bounds the k-means refinement when splitting a subset's
// columns in two.
const splitMaxIter = 100

// kmeansStrategy is the divisive family: walk a cursor over the current
// subset list, try to split the cursor subset's columns in two, and keep
// the split only when it improves the scheme score. Variants layer an
// initial whole-scheme split pass (kmeans_wss) or a trailing greedy
// agglomeration pass (kmeans_greedy) around the same loop.
type kmeansStrategy struct {
	name             string
	initialSplitPass bool
	chainGreedy      bool
}

func (s *kmeansStrategy) Name() string { return s.name }

func (s *kmeansStrategy) Search(ctx context.Context, r *Runner) error {
	if r.Sites == nil {
		return errors.ConfigError(
			"kmeans strategies need per-column site statistics (set site_stats in the configuration)", nil)
	}

	start, err := r.startScheme()
	if err != nil {
		return err
	}

	// The number of accepted splits is data-dependent, so the progress
	// reporter gets no scheme estimate.
	r.Progress.Begin(0, len(start.Subsets))
	defer r.Progress.End()

	cur, err := r.analyseScheme(ctx, start)
	if err != nil {
		return err
	}
	if err := r.Reporter.WriteSchemeSummary(start, cur); err != nil {
		return err
	}
	current := append([]*scheme.Subset(nil), start.Subsets...)

	if s.initialSplitPass {
		current, cur, err = s.splitEverySubset(ctx, r, current, cur)
		if err != nil {
			return err
		}
	}

	current, cur, err = s.splitLoop(ctx, r, current, cur)
	if err != nil {
		return err
	}

	if s.chainGreedy {
		if _, _, err := greedyFrom(ctx, r, current, cur, s.name); err != nil {
			return err
		}
	}
	return nil
}

// splitLoop is the core divisive pass. The cursor only advances past a
// subset once no acceptable split of it remains: single-column subsets
// are skipped without invoking the splitter, infeasible splits and
// splits that would leave a piece under two columns are discarded, a
// degenerate candidate is logged by the evaluator and skipped, and an
// improving split replaces the list with the cursor held so the new
// left piece is tried next.
func (s *kmeansStrategy) splitLoop(ctx context.Context, r *Runner, current []*scheme.Subset, cur *oracle.Result) ([]*scheme.Subset, *oracle.Result, error) {
	cursor := 0
	for cursor < len(current) {
		sub := current[cursor]
		if len(sub.Columns()) < 2 {
			cursor++
			continue
		}

		left, right, ok := r.Sites.SplitColumns(sub.Columns(), splitMaxIter)
		if !ok || len(left) < 2 || len(right) < 2 {
			cursor++
			continue
		}

		cand, err := s.splitCandidate(r, current, cursor, left, right, s.name)
		if err != nil {
			return nil, nil, err
		}
		results, err := r.evalBatch(ctx, []*scheme.Scheme{cand})
		if err != nil {
			return nil, nil, err
		}
		if results[0] == nil || results[0].Score >= cur.Score {
			cursor++
			continue
		}

		cur = results[0]
		current = cand.Subsets
		if err := r.Reporter.WriteSchemeSummary(cand, cur); err != nil {
			return nil, nil, err
		}
	}
	return current, cur, nil
}

// splitEverySubset is the kmeans_wss opening move: split every splittable
// starting subset once and adopt the resulting scheme as the new working
// baseline before the cursor loop begins.
func (s *kmeansStrategy) splitEverySubset(ctx context.Context, r *Runner, current []*scheme.Subset, cur *oracle.Result) ([]*scheme.Subset, *oracle.Result, error) {
	split := make([]*scheme.Subset, 0, 2*len(current))
	changed := false
	for _, sub := range current {
		cols := sub.Columns()
		if len(cols) < 2 {
			split = append(split, sub)
			continue
		}
		left, right, ok := r.Sites.SplitColumns(cols, splitMaxIter)
		if !ok || len(left) < 2 || len(right) < 2 {
			split = append(split, sub)
			continue
		}
		lsub, err := r.Set.ColumnSubset(left)
		if err != nil {
			return nil, nil, err
		}
		rsub, err := r.Set.ColumnSubset(right)
		if err != nil {
			return nil, nil, err
		}
		split = append(split, lsub, rsub)
		changed = true
	}
	if !changed {
		return current, cur, nil
	}

	cand, err := r.Set.CreateSchemeFromSubsets(r.nextName("split_scheme"), split)
	if err != nil {
		return nil, nil, err
	}
	results, err := r.evalBatch(ctx, []*scheme.Scheme{cand})
	if err != nil {
		return nil, nil, err
	}
	if results[0] == nil {
		return current, cur, nil
	}
	if err := r.Reporter.WriteSchemeSummary(cand, results[0]); err != nil {
		return nil, nil, err
	}
	// The split scheme becomes the working baseline even when it scores
	// worse than the start: the cursor loop restarts from a fully split
	// state, and the results tracker still reports the best scheme seen.
	return cand.Subsets, results[0], nil
}

// splitCandidate builds the scheme with the cursor subset replaced by
// its two column halves, left half in place.
func (s *kmeansStrategy) splitCandidate(r *Runner, current []*scheme.Subset, cursor int, left, right []int, prefix string) (*scheme.Scheme, error) {
	lsub, err := r.Set.ColumnSubset(left)
	if err != nil {
		return nil, err
	}
	rsub, err := r.Set.ColumnSubset(right)
	if err != nil {
		return nil, err
	}

	subs := make([]*scheme.Subset, 0, len(current)+1)
	subs = append(subs, current[:cursor]...)
	subs = append(subs, lsub, rsub)
	subs = append(subs, current[cursor+1:]...)
	return r.Set.CreateSchemeFromSubsets(r.nextName(prefix), subs)
}

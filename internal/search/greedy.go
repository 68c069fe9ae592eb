package search

import (
	"context"

	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/scheme"
)

// greedyStrategy starts from the fully-split scheme and repeatedly adopts
// the best-scoring pair merge, stopping when no merge improves the score
// or a single subset remains.
type greedyStrategy struct{}

func (greedyStrategy) Name() string { return StrategyGreedy }

func (greedyStrategy) Search(ctx context.Context, r *Runner) error {
	start, err := r.startScheme()
	if err != nil {
		return err
	}

	r.Progress.Begin(countGreedySchemes(len(start.Subsets)), len(start.Subsets))
	defer r.Progress.End()

	cur, err := r.analyseScheme(ctx, start)
	if err != nil {
		return err
	}
	if err := r.Reporter.WriteSchemeSummary(start, cur); err != nil {
		return err
	}

	_, _, err = greedyFrom(ctx, r, start.Subsets, cur, "greedy")
	return err
}

// greedyFrom runs greedy agglomeration from the given subsets, whose
// scheme has already been evaluated to cur. It returns the converged
// subset list and result. Shared with the kmeans_greedy hybrid.
func greedyFrom(ctx context.Context, r *Runner, subs []*scheme.Subset, cur *oracle.Result, prefix string) ([]*scheme.Subset, *oracle.Result, error) {
	current := append([]*scheme.Subset(nil), subs...)

	for len(current) > 1 {
		candidates, err := mergeCandidates(r, current, allPairs(len(current)), prefix)
		if err != nil {
			return nil, nil, err
		}
		results, err := r.evalBatch(ctx, candidates)
		if err != nil {
			return nil, nil, err
		}
		best := bestOfBatch(results)
		if best < 0 || results[best].Score >= cur.Score {
			break
		}
		cur = results[best]
		current = candidates[best].Subsets
		if err := r.Reporter.WriteSchemeSummary(candidates[best], cur); err != nil {
			return nil, nil, err
		}
	}
	return current, cur, nil
}

// mergePair identifies one candidate merge of the current subset list,
// optionally carrying its similarity distance for the clustering
// strategies.
type mergePair struct {
	i, j int
	dist float64
}

// allPairs enumerates every unordered pair of n subsets, in index order.
func allPairs(n int) []mergePair {
	pairs := make([]mergePair, 0, choose2(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, mergePair{i: i, j: j})
		}
	}
	return pairs
}

// mergeCandidates builds one candidate scheme per pair: the current
// subsets with the pair replaced by its merge.
func mergeCandidates(r *Runner, current []*scheme.Subset, pairs []mergePair, prefix string) ([]*scheme.Scheme, error) {
	candidates := make([]*scheme.Scheme, 0, len(pairs))
	for _, p := range pairs {
		merged, err := r.Set.Merged(current[p.i], current[p.j])
		if err != nil {
			return nil, err
		}
		cand, err := r.Set.CreateSchemeFromSubsets(r.nextName(prefix), replacePair(current, p.i, p.j, merged))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

// replacePair returns subs with element i replaced by merged and element
// j removed, keeping the remaining order stable.
func replacePair(subs []*scheme.Subset, i, j int, merged *scheme.Subset) []*scheme.Subset {
	out := make([]*scheme.Subset, 0, len(subs)-1)
	for k, s := range subs {
		switch k {
		case i:
			out = append(out, merged)
		case j:
		default:
			out = append(out, s)
		}
	}
	return out
}

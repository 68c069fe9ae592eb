package search

import (
	"context"
	"sort"

	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/stats"
)

// strictClusterStrategy merges exactly the most similar pair of subsets
// at every step, walking the full agglomeration ladder in k-1 steps. The
// best scheme seen anywhere on the ladder is the answer; individual
// steps may worsen the score.
type strictClusterStrategy struct{}

func (strictClusterStrategy) Name() string { return StrategyHCluster }

func (strictClusterStrategy) Search(ctx context.Context, r *Runner) error {
	start, err := r.startScheme()
	if err != nil {
		return err
	}
	k := len(start.Subsets)

	r.Progress.Begin(k, k)
	defer r.Progress.End()

	res, err := r.analyseScheme(ctx, start)
	if err != nil {
		return err
	}
	if err := r.Reporter.WriteSchemeSummary(start, res); err != nil {
		return err
	}

	current := start.Subsets
	for len(current) > 1 {
		merged := false
		// If the top-ranked pair's merge hits degenerate data, fall
		// through to the next-ranked pair rather than stopping.
		for _, p := range rankedPairs(current, r.Weights) {
			candidates, err := mergeCandidates(r, current, []mergePair{p}, "hcluster")
			if err != nil {
				return err
			}
			results, err := r.evalBatch(ctx, candidates)
			if err != nil {
				return err
			}
			if results[0] == nil {
				continue
			}
			current = candidates[0].Subsets
			if err := r.Reporter.WriteSchemeSummary(candidates[0], results[0]); err != nil {
				return err
			}
			merged = true
			break
		}
		if !merged {
			break
		}
	}
	return nil
}

// relaxedClusterStrategy ranks all pair merges by similarity but only
// scores the top slice of them per step, adopting the best scorer when
// it improves and converging otherwise.
type relaxedClusterStrategy struct{}

func (relaxedClusterStrategy) Name() string { return StrategyRCluster }

func (relaxedClusterStrategy) Search(ctx context.Context, r *Runner) error {
	start, err := r.startScheme()
	if err != nil {
		return err
	}
	k := len(start.Subsets)

	r.Progress.Begin(countClusterSchemes(k, r.ClusterPercent), k)
	defer r.Progress.End()

	cur, err := r.analyseScheme(ctx, start)
	if err != nil {
		return err
	}
	if err := r.Reporter.WriteSchemeSummary(start, cur); err != nil {
		return err
	}

	current := start.Subsets
	for len(current) > 1 {
		pairs := rankedPairs(current, r.Weights)
		pairs = pairs[:clusterTake(len(pairs), r.ClusterPercent)]

		candidates, err := mergeCandidates(r, current, pairs, "rcluster")
		if err != nil {
			return err
		}
		results, err := r.evalBatch(ctx, candidates)
		if err != nil {
			return err
		}
		best := bestOfBatch(results)
		if best < 0 || results[best].Score >= cur.Score {
			break
		}
		cur = results[best]
		current = candidates[best].Subsets
		if err := r.Reporter.WriteSchemeSummary(candidates[best], cur); err != nil {
			return err
		}
	}
	return nil
}

// rankedPairs orders every pair of subsets by fitted-parameter distance,
// most similar first. Ties keep enumeration order so runs stay
// deterministic. Subsets come out of an evaluated scheme, so each
// carries a cached result.
func rankedPairs(subs []*scheme.Subset, w stats.Weights) []mergePair {
	points := make([]stats.ParamPoint, len(subs))
	for i, sub := range subs {
		points[i] = paramPoint(sub)
	}
	pairs := allPairs(len(subs))
	for i := range pairs {
		pairs[i].dist = stats.Distance(points[pairs[i].i], points[pairs[i].j], w)
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].dist < pairs[b].dist })
	return pairs
}

// paramPoint projects a subset's fitted parameters into the similarity
// space. A subset that was somehow never scored sits at the origin.
func paramPoint(sub *scheme.Subset) stats.ParamPoint {
	res, ok := sub.Result()
	if !ok {
		return stats.ParamPoint{}
	}
	return stats.ParamPoint{
		Rate:   res.Rate,
		Alpha:  res.Alpha,
		Freqs:  res.Freqs,
		Params: float64(res.ParamCount),
	}
}

package search

import (
	"context"

	"github.com/partseek/partseek/internal/scheme"
)

// allBatchSize caps how many enumerated schemes are in flight at once.
// The exhaustive strategy can emit Bell-number many schemes, so they are
// generated lazily and evaluated in bounded batches.
const allBatchSize = 64

// allStrategy scores every possible grouping of the partitions. The set
// partitions of the partition names are enumerated as restricted-growth
// strings, so each grouping appears exactly once.
type allStrategy struct{}

func (allStrategy) Name() string { return StrategyAll }

func (allStrategy) Search(ctx context.Context, r *Runner) error {
	names := r.Set.Partitions().Names()
	n := len(names)

	r.Progress.Begin(bellNumber(n), n)
	defer r.Progress.End()

	rgs := make([]int, n)
	var pending []*scheme.Scheme
	for {
		groups := groupsFromRGS(rgs, names)
		sch, err := r.Set.CreateScheme(r.nextName("all"), groups)
		if err != nil {
			return err
		}
		pending = append(pending, sch)
		if len(pending) >= allBatchSize {
			if err := flushBatch(ctx, r, pending); err != nil {
				return err
			}
			pending = pending[:0]
		}
		if !nextSetPartition(rgs) {
			break
		}
	}
	return flushBatch(ctx, r, pending)
}

// flushBatch evaluates accumulated schemes through the worker pool and
// writes a summary per scored scheme.
func flushBatch(ctx context.Context, r *Runner, schemes []*scheme.Scheme) error {
	if len(schemes) == 0 {
		return nil
	}
	results, err := r.evalBatch(ctx, schemes)
	if err != nil {
		return err
	}
	for i, res := range results {
		if res == nil {
			continue
		}
		if err := r.Reporter.WriteSchemeSummary(schemes[i], res); err != nil {
			return err
		}
	}
	return nil
}

// nextSetPartition advances a restricted-growth string to its successor
// in lexicographic order, returning false after the last one. A valid
// string satisfies a[0]=0 and a[i] <= 1+max(a[0..i-1]).
func nextSetPartition(a []int) bool {
	for i := len(a) - 1; i > 0; i-- {
		prefixMax := 0
		for j := 0; j < i; j++ {
			if a[j] > prefixMax {
				prefixMax = a[j]
			}
		}
		if a[i] <= prefixMax {
			a[i]++
			for j := i + 1; j < len(a); j++ {
				a[j] = 0
			}
			return true
		}
	}
	return false
}

// groupsFromRGS converts a restricted-growth string into named groups:
// names sharing a block index share a group.
func groupsFromRGS(rgs []int, names []string) [][]string {
	blocks := 0
	for _, b := range rgs {
		if b+1 > blocks {
			blocks = b + 1
		}
	}
	groups := make([][]string, blocks)
	for i, b := range rgs {
		groups[b] = append(groups[b], names[i])
	}
	return groups
}

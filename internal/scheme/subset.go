package scheme

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SubsetResult holds the fitted model parameters and score for one subset.
// It is attached to the interned Subset the first time the subset is
// evaluated and reused for every scheme that contains the same grouping.
type SubsetResult struct {
	// LogLikelihood of the fitted model over the subset's columns.
	LogLikelihood float64
	// ParamCount is the number of free parameters in the fitted model.
	ParamCount int
	// SiteCount is the number of columns the subset covers.
	SiteCount int

	// Fitted parameters used by the clustering similarity ranking.
	Rate  float64
	Alpha float64
	Freqs []float64

	// Score is the model-selection criterion value for this subset
	// (lower is better). Scheme scores are sums of subset scores.
	Score float64
}

// Subset is an interned grouping treated as a unit for scoring. A subset
// is defined either by a set of partition names (merge-based strategies)
// or directly by a set of columns (k-means splitting). Identity is
// structural: the canonical ID below.
type Subset struct {
	id      string
	names   []string // sorted partition names; empty for column-defined subsets
	columns []int    // sorted union of covered columns

	mu     sync.Mutex
	result *SubsetResult
}

// subsetID returns the canonical cache key for a partition-defined subset.
func subsetID(sortedNames []string) string {
	return "p:" + strings.Join(sortedNames, "|")
}

// columnSubsetID returns the canonical cache key for a column-defined
// subset. Hashing the sorted column list keeps keys short and
// deterministic regardless of how the grouping was produced.
func columnSubsetID(sortedColumns []int) string {
	h := sha256.New()
	for _, c := range sortedColumns {
		fmt.Fprintf(h, "%d,", c)
	}
	return "c:" + hex.EncodeToString(h.Sum(nil))[:16]
}

// ID returns the canonical structural identity of the subset.
func (s *Subset) ID() string { return s.id }

// Partitions returns the sorted partition names defining this subset.
// Empty for column-defined subsets.
func (s *Subset) Partitions() []string { return s.names }

// Columns returns the sorted columns this subset covers.
func (s *Subset) Columns() []int { return s.columns }

// Name returns a short human-readable label for report output.
func (s *Subset) Name() string {
	if len(s.names) > 0 {
		return strings.Join(s.names, ", ")
	}
	return fmt.Sprintf("%d sites [%s]", len(s.columns), s.id)
}

// Result returns the cached evaluation result, if any.
func (s *Subset) Result() (*SubsetResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.result != nil
}

// SetResult attaches an evaluation result. The first result wins; interned
// subsets are never re-scored, so a second attach for the same subset is
// dropped.
func (s *Subset) SetResult(r *SubsetResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		s.result = r
	}
}

// sortedUnion merges two sorted int slices, assuming disjoint inputs.
func sortedUnion(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Ints(out)
	return out
}

package scheme

import (
	"fmt"
	"sort"
	"sync"

	"github.com/partseek/partseek/internal/errors"
)

// SchemeSet owns the subset cache and the collection of named schemes for
// a run. It guarantees at most one live Subset per distinct grouping
// (interning) and unique scheme names. All strategies funnel scheme
// construction through one SchemeSet, constructed once per run.
//
// Interning and registration are safe for concurrent use so that step
// candidates can be built and scored in parallel.
type SchemeSet struct {
	parts *PartitionSet

	mu      sync.Mutex
	subsets map[string]*Subset
	schemes map[string]*Scheme
}

// NewSchemeSet creates an empty registry over the given partition universe.
func NewSchemeSet(parts *PartitionSet) *SchemeSet {
	return &SchemeSet{
		parts:   parts,
		subsets: make(map[string]*Subset),
		schemes: make(map[string]*Scheme),
	}
}

// Partitions returns the partition universe this registry was built over.
func (ss *SchemeSet) Partitions() *PartitionSet { return ss.parts }

// SubsetCount returns the number of distinct interned subsets.
func (ss *SchemeSet) SubsetCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.subsets)
}

// SchemeCount returns the number of registered schemes.
func (ss *SchemeSet) SchemeCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.schemes)
}

// Subset returns the interned subset for the given partition names,
// creating it on first request. Unknown partition names are a structural
// error.
func (ss *SchemeSet) Subset(names []string) (*Subset, error) {
	if len(names) == 0 {
		return nil, errors.SchemeError(errors.ErrCodeEmptySubset, "subset has no partitions")
	}

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	var columns []int
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			return nil, errors.SchemeError(errors.ErrCodeOverlappingScheme,
				fmt.Sprintf("partition '%s' appears twice in one subset", name))
		}
		p := ss.parts.Get(name)
		if p == nil {
			return nil, errors.SchemeError(errors.ErrCodeUnknownPartition,
				fmt.Sprintf("'%s' is not a defined partition", name))
		}
		columns = sortedUnion(columns, p.Columns)
	}

	return ss.intern(&Subset{id: subsetID(sorted), names: sorted, columns: columns}), nil
}

// ColumnSubset returns the interned subset covering exactly the given
// columns. Used by the k-means splitter, which groups sites below
// partition granularity. Columns must belong to the universe.
func (ss *SchemeSet) ColumnSubset(columns []int) (*Subset, error) {
	if len(columns) == 0 {
		return nil, errors.SchemeError(errors.ErrCodeEmptySubset, "subset has no columns")
	}

	sorted := make([]int, len(columns))
	copy(sorted, columns)
	sort.Ints(sorted)
	for i, c := range sorted {
		if i > 0 && sorted[i-1] == c {
			return nil, errors.SchemeError(errors.ErrCodeOverlappingScheme,
				fmt.Sprintf("column %d appears twice in one subset", c))
		}
		if !ss.parts.HasColumn(c) {
			return nil, errors.SchemeError(errors.ErrCodeUnknownPartition,
				fmt.Sprintf("column %d is not in the column universe", c))
		}
	}

	return ss.intern(&Subset{id: columnSubsetID(sorted), columns: sorted}), nil
}

// Merged returns the interned subset covering the union of two subsets.
// The result is partition-defined only when both inputs are.
func (ss *SchemeSet) Merged(a, b *Subset) (*Subset, error) {
	if len(a.names) > 0 && len(b.names) > 0 {
		return ss.Subset(append(append([]string{}, a.names...), b.names...))
	}
	return ss.ColumnSubset(sortedUnion(a.columns, b.columns))
}

// intern returns the existing subset with the candidate's ID, or registers
// the candidate. At-most-one-create-per-key under the registry lock.
func (ss *SchemeSet) intern(candidate *Subset) *Subset {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if existing, ok := ss.subsets[candidate.id]; ok {
		return existing
	}
	ss.subsets[candidate.id] = candidate
	return candidate
}

// CreateScheme builds, validates and registers a scheme from groups of
// partition names. It fails with a structural error when a group names an
// unknown partition, when the subsets do not cover the column universe
// exactly once, or when the scheme name is already taken.
func (ss *SchemeSet) CreateScheme(name string, groups [][]string) (*Scheme, error) {
	subs := make([]*Subset, 0, len(groups))
	for _, g := range groups {
		sub, err := ss.Subset(g)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return ss.CreateSchemeFromSubsets(name, subs)
}

// CreateSchemeFromSubsets validates and registers a scheme assembled from
// already-interned subsets. This is the single validation path every
// strategy goes through; merge and split candidates never bypass it.
func (ss *SchemeSet) CreateSchemeFromSubsets(name string, subs []*Subset) (*Scheme, error) {
	seen := make(map[int]struct{})
	for _, sub := range subs {
		for _, c := range sub.Columns() {
			if _, dup := seen[c]; dup {
				return nil, errors.SchemeError(errors.ErrCodeOverlappingScheme,
					fmt.Sprintf("scheme '%s': column %d is covered twice", name, c))
			}
			seen[c] = struct{}{}
		}
	}
	if len(seen) != ss.parts.ColumnCount() {
		return nil, errors.SchemeError(errors.ErrCodeIncompleteScheme,
			fmt.Sprintf("scheme '%s' covers %d of %d columns", name, len(seen), ss.parts.ColumnCount()))
	}

	sch := &Scheme{Name: name, Subsets: subs}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, dup := ss.schemes[name]; dup {
		return nil, errors.SchemeError(errors.ErrCodeDuplicateScheme,
			fmt.Sprintf("cannot add two schemes with the same name: '%s'", name))
	}
	ss.schemes[name] = sch
	return sch, nil
}

// Scheme returns the registered scheme with the given name, or nil.
func (ss *SchemeSet) Scheme(name string) *Scheme {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.schemes[name]
}

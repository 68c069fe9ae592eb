// Package scheme implements the partition/subset/scheme data model and the
// registry that interns subsets and tracks named schemes for a run.
package scheme

import (
	"fmt"
	"sort"

	"github.com/partseek/partseek/internal/errors"
)

// Partition is an atomic, immutable unit of data columns. Partitions are
// defined once from configuration and are the finest granularity the
// search operates over.
type Partition struct {
	Name    string
	Columns []int
}

// PartitionSet is the ordered universe of partitions for a run. Columns
// across partitions are disjoint and together form the full column
// universe.
type PartitionSet struct {
	parts    []*Partition
	byName   map[string]*Partition
	universe map[int]struct{}
}

// NewPartitionSet builds the partition universe, checking that partition
// names are unique and column sets are disjoint and non-empty.
func NewPartitionSet(parts []Partition) (*PartitionSet, error) {
	if len(parts) == 0 {
		return nil, errors.ConfigError("no partitions defined", nil)
	}

	ps := &PartitionSet{
		byName:   make(map[string]*Partition, len(parts)),
		universe: make(map[int]struct{}),
	}
	for i := range parts {
		p := parts[i]
		if p.Name == "" {
			return nil, errors.ConfigError(fmt.Sprintf("partition %d has no name", i), nil)
		}
		if len(p.Columns) == 0 {
			return nil, errors.ConfigError(fmt.Sprintf("partition '%s' covers no columns", p.Name), nil)
		}
		if _, dup := ps.byName[p.Name]; dup {
			return nil, errors.ConfigError(fmt.Sprintf("duplicate partition name '%s'", p.Name), nil)
		}

		cols := make([]int, len(p.Columns))
		copy(cols, p.Columns)
		sort.Ints(cols)
		for _, c := range cols {
			if _, seen := ps.universe[c]; seen {
				return nil, errors.ConfigError(
					fmt.Sprintf("column %d appears in more than one partition", c), nil)
			}
			ps.universe[c] = struct{}{}
		}

		part := &Partition{Name: p.Name, Columns: cols}
		ps.parts = append(ps.parts, part)
		ps.byName[p.Name] = part
	}

	return ps, nil
}

// Len returns the number of partitions.
func (ps *PartitionSet) Len() int { return len(ps.parts) }

// Names returns partition names in definition order.
func (ps *PartitionSet) Names() []string {
	names := make([]string, len(ps.parts))
	for i, p := range ps.parts {
		names[i] = p.Name
	}
	return names
}

// Get returns the named partition, or nil if it is not defined.
func (ps *PartitionSet) Get(name string) *Partition {
	return ps.byName[name]
}

// ColumnCount returns the size of the full column universe.
func (ps *PartitionSet) ColumnCount() int { return len(ps.universe) }

// HasColumn reports whether the column belongs to the universe.
func (ps *PartitionSet) HasColumn(c int) bool {
	_, ok := ps.universe[c]
	return ok
}

package scheme

import (
	"fmt"
	"strings"
)

// Scheme is a complete, non-overlapping grouping of all partitions into
// subsets: a candidate solution. Schemes are validated against the column
// universe at construction and registered in the owning SchemeSet.
type Scheme struct {
	Name    string
	Subsets []*Subset
}

// ColumnCount returns the total number of columns the scheme covers.
func (s *Scheme) ColumnCount() int {
	n := 0
	for _, sub := range s.Subsets {
		n += len(sub.Columns())
	}
	return n
}

// SubsetCount returns the number of distinct subsets in the scheme.
func (s *Scheme) SubsetCount() int {
	seen := make(map[string]struct{}, len(s.Subsets))
	for _, sub := range s.Subsets {
		seen[sub.ID()] = struct{}{}
	}
	return len(seen)
}

// Description renders the grouping for logs and reports,
// e.g. "(gene1, gene2) (gene3)".
func (s *Scheme) Description() string {
	var b strings.Builder
	for i, sub := range s.Subsets {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%s)", sub.Name())
	}
	return b.String()
}

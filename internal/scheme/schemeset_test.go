package scheme

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseek/partseek/internal/errors"
)

// fourPartitions builds a universe of 4 partitions over 12 columns.
func fourPartitions(t *testing.T) *PartitionSet {
	t.Helper()
	ps, err := NewPartitionSet([]Partition{
		{Name: "a", Columns: []int{0, 1, 2}},
		{Name: "b", Columns: []int{3, 4, 5}},
		{Name: "c", Columns: []int{6, 7, 8}},
		{Name: "d", Columns: []int{9, 10, 11}},
	})
	require.NoError(t, err)
	return ps
}

func TestNewPartitionSet_Validation(t *testing.T) {
	tests := []struct {
		name  string
		parts []Partition
	}{
		{
			name:  "empty universe",
			parts: nil,
		},
		{
			name: "duplicate name",
			parts: []Partition{
				{Name: "a", Columns: []int{0}},
				{Name: "a", Columns: []int{1}},
			},
		},
		{
			name: "overlapping columns",
			parts: []Partition{
				{Name: "a", Columns: []int{0, 1}},
				{Name: "b", Columns: []int{1, 2}},
			},
		},
		{
			name: "partition without columns",
			parts: []Partition{
				{Name: "a", Columns: nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPartitionSet(tt.parts)
			assert.Error(t, err)
		})
	}
}

func TestSubset_InterningReturnsIdenticalInstance(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	// Same grouping requested in different orders
	s1, err := ss.Subset([]string{"b", "a"})
	require.NoError(t, err)
	s2, err := ss.Subset([]string{"a", "b"})
	require.NoError(t, err)

	// Then: identical instance, not just equal
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, ss.SubsetCount())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, s1.Columns())
}

func TestSubset_CachedResultSurvivesReintern(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	s1, err := ss.Subset([]string{"a"})
	require.NoError(t, err)
	s1.SetResult(&SubsetResult{Score: 42.0, SiteCount: 3})

	s2, err := ss.Subset([]string{"a"})
	require.NoError(t, err)
	res, ok := s2.Result()
	require.True(t, ok)
	assert.Equal(t, 42.0, res.Score)

	// First result wins; later attaches are dropped
	s2.SetResult(&SubsetResult{Score: 1.0})
	res, _ = s2.Result()
	assert.Equal(t, 42.0, res.Score)
}

func TestSubset_ConcurrentInterningCreatesOne(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	const workers = 16
	results := make([]*Subset, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub, err := ss.Subset([]string{"c", "d"})
			require.NoError(t, err)
			results[i] = sub
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, ss.SubsetCount())
}

func TestCreateScheme_ValidCoverage(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	sch, err := ss.CreateScheme("by_pairs", [][]string{{"a", "b"}, {"c", "d"}})
	require.NoError(t, err)
	assert.Equal(t, 2, sch.SubsetCount())
	assert.Equal(t, 12, sch.ColumnCount())
	assert.Same(t, sch, ss.Scheme("by_pairs"))
}

func TestCreateScheme_StructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		groups   [][]string
		wantCode string
	}{
		{
			name:     "unknown partition",
			groups:   [][]string{{"a", "b"}, {"c", "nope"}},
			wantCode: errors.ErrCodeUnknownPartition,
		},
		{
			name:     "incomplete coverage",
			groups:   [][]string{{"a", "b"}, {"c"}},
			wantCode: errors.ErrCodeIncompleteScheme,
		},
		{
			name:     "overlapping coverage",
			groups:   [][]string{{"a", "b"}, {"b", "c", "d"}},
			wantCode: errors.ErrCodeOverlappingScheme,
		},
		{
			name:     "empty group",
			groups:   [][]string{{}, {"a", "b", "c", "d"}},
			wantCode: errors.ErrCodeEmptySubset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := NewSchemeSet(fourPartitions(t))
			_, err := ss.CreateScheme("bad", tt.groups)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestCreateScheme_DuplicateNameRejected(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	_, err := ss.CreateScheme("s", [][]string{{"a", "b", "c", "d"}})
	require.NoError(t, err)

	_, err = ss.CreateScheme("s", [][]string{{"a"}, {"b"}, {"c"}, {"d"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDuplicateScheme, errors.GetCode(err))
}

func TestColumnSubset_InterningAndValidation(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	s1, err := ss.ColumnSubset([]int{2, 0, 1})
	require.NoError(t, err)
	s2, err := ss.ColumnSubset([]int{0, 1, 2})
	require.NoError(t, err)
	assert.Same(t, s1, s2)

	// Column-defined and partition-defined subsets intern separately even
	// when they cover the same columns: their identities differ.
	sp, err := ss.Subset([]string{"a"})
	require.NoError(t, err)
	assert.NotSame(t, s1, sp)

	_, err = ss.ColumnSubset([]int{99})
	assert.Equal(t, errors.ErrCodeUnknownPartition, errors.GetCode(err))

	_, err = ss.ColumnSubset(nil)
	assert.Equal(t, errors.ErrCodeEmptySubset, errors.GetCode(err))
}

func TestMerged_PartitionAndColumnSubsets(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))

	a, err := ss.Subset([]string{"a"})
	require.NoError(t, err)
	b, err := ss.Subset([]string{"b"})
	require.NoError(t, err)

	m, err := ss.Merged(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Partitions())

	// Merging with a column-defined subset degrades to a column subset
	cd, err := ss.ColumnSubset([]int{6, 7})
	require.NoError(t, err)
	mc, err := ss.Merged(m, cd)
	require.NoError(t, err)
	assert.Empty(t, mc.Partitions())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, mc.Columns())
}

func TestScheme_Description(t *testing.T) {
	ss := NewSchemeSet(fourPartitions(t))
	sch, err := ss.CreateScheme("desc", [][]string{{"a", "b"}, {"c"}, {"d"}})
	require.NoError(t, err)
	assert.Equal(t, "(a, b) (c) (d)", sch.Description())
}

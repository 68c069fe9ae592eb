package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobStats builds columns 0-3 near the origin and 4-7 near (10,10).
func twoBlobStats(t *testing.T) *SiteStats {
	t.Helper()
	features := map[int][]float64{
		0: {0.0, 0.1},
		1: {0.1, 0.0},
		2: {0.2, 0.1},
		3: {0.1, 0.2},
		4: {10.0, 10.1},
		5: {10.1, 10.0},
		6: {10.2, 10.1},
		7: {10.1, 10.2},
	}
	s, err := NewSiteStats(features)
	require.NoError(t, err)
	return s
}

func TestNewSiteStats_DimensionMismatch(t *testing.T) {
	_, err := NewSiteStats(map[int][]float64{
		0: {1, 2},
		1: {1},
	})
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.csv")
	content := "# col,rate,gc\n0,0.5,0.4\n1,0.7,0.6\n\n2,0.9,0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Dim())

	v, ok := s.Vector(1)
	require.True(t, ok)
	assert.Equal(t, []float64{0.7, 0.6}, v)
}

func TestLoadCSV_BadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing features", "0\n"},
		{"bad column", "x,0.5\n"},
		{"bad feature", "0,abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sites.csv")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadCSV(path)
			assert.Error(t, err)
		})
	}
}

func TestSplitColumns_SeparatesBlobs(t *testing.T) {
	s := twoBlobStats(t)
	cols := []int{0, 1, 2, 3, 4, 5, 6, 7}

	left, right, ok := s.SplitColumns(cols, 0)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, left)
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, right)
}

func TestSplitColumns_Deterministic(t *testing.T) {
	s := twoBlobStats(t)
	cols := []int{3, 0, 5, 6, 1, 7, 2, 4}

	l1, r1, ok := s.SplitColumns(cols, 0)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		l2, r2, ok2 := s.SplitColumns(cols, 0)
		require.True(t, ok2)
		assert.Equal(t, l1, l2)
		assert.Equal(t, r1, r2)
	}
}

func TestSplitColumns_Infeasible(t *testing.T) {
	identical, err := NewSiteStats(map[int][]float64{
		0: {1, 1},
		1: {1, 1},
		2: {1, 1},
	})
	require.NoError(t, err)

	// All columns identical: no two-way split exists
	_, _, ok := identical.SplitColumns([]int{0, 1, 2}, 0)
	assert.False(t, ok)

	// Fewer than two columns can never split
	s := twoBlobStats(t)
	_, _, ok = s.SplitColumns([]int{0}, 0)
	assert.False(t, ok)
}

func TestSumSquaredDeviation(t *testing.T) {
	s := twoBlobStats(t)

	// Tight blob has much lower deviation than the mixed set
	tight := s.SumSquaredDeviation([]int{0, 1, 2, 3})
	mixed := s.SumSquaredDeviation([]int{0, 1, 4, 5})
	assert.Less(t, tight, mixed)

	// Identical single column deviates by zero
	assert.Equal(t, 0.0, s.SumSquaredDeviation([]int{0}))
}

func TestDistance_WeightsSelectParameterFamilies(t *testing.T) {
	a := ParamPoint{Rate: 1.0, Alpha: 0.5, Freqs: []float64{0.25, 0.75}}
	b := ParamPoint{Rate: 2.0, Alpha: 0.5, Freqs: []float64{0.75, 0.25}}

	// Rate-only weighting sees only the rate gap
	dRate := Distance(a, b, Weights{Rate: 1})
	assert.InDelta(t, 1.0, dRate, 1e-9)

	// Alpha-only weighting sees no difference
	dAlpha := Distance(a, b, Weights{Alpha: 1})
	assert.InDelta(t, 0.0, dAlpha, 1e-9)

	// Zero weights fall back to rate-only
	dZero := Distance(a, b, Weights{})
	assert.InDelta(t, dRate, dZero, 1e-9)

	// Mixed weights normalize to sum 1
	dMixed := Distance(a, b, Weights{Rate: 1, Freqs: 1})
	assert.InDelta(t, 0.5*1.0+0.5*0.5, dMixed, 1e-9)
}

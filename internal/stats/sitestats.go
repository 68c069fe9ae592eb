// Package stats provides the per-site statistics and the numeric routines
// the search strategies rely on: feature vectors per column, k-means
// splitting of a column set, and the similarity distance that ranks
// candidate subset merges.
package stats

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SiteStats maps each column of the universe to its feature vector
// (e.g. site rate, entropy, base frequencies). All vectors have the same
// dimension.
type SiteStats struct {
	features map[int][]float64
	dim      int
}

// NewSiteStats builds site statistics from a column -> feature-vector map.
func NewSiteStats(features map[int][]float64) (*SiteStats, error) {
	s := &SiteStats{features: make(map[int][]float64, len(features))}
	for col, vec := range features {
		if len(vec) == 0 {
			return nil, fmt.Errorf("column %d has an empty feature vector", col)
		}
		if s.dim == 0 {
			s.dim = len(vec)
		} else if len(vec) != s.dim {
			return nil, fmt.Errorf("column %d has %d features, want %d", col, len(vec), s.dim)
		}
		s.features[col] = vec
	}
	return s, nil
}

// LoadCSV reads per-site statistics from a CSV file with rows of the form
//
//	column,feature1,feature2,...
//
// Lines starting with '#' are skipped.
func LoadCSV(path string) (*SiteStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	features := make(map[int][]float64)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want column plus at least one feature", lineNo)
		}
		col, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad column index: %w", lineNo, err)
		}
		vec := make([]float64, 0, len(fields)-1)
		for _, fv := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(fv), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad feature value: %w", lineNo, err)
			}
			vec = append(vec, v)
		}
		features[col] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewSiteStats(features)
}

// Dim returns the feature-vector dimension.
func (s *SiteStats) Dim() int { return s.dim }

// Len returns the number of columns with statistics.
func (s *SiteStats) Len() int { return len(s.features) }

// Vector returns the feature vector for a column.
func (s *SiteStats) Vector(col int) ([]float64, bool) {
	v, ok := s.features[col]
	return v, ok
}

// Vectors collects the feature vectors for the given columns, in order.
// Columns without statistics get a zero vector, so degenerate data is
// visible to the oracle rather than dropped silently.
func (s *SiteStats) Vectors(columns []int) [][]float64 {
	out := make([][]float64, len(columns))
	for i, c := range columns {
		if v, ok := s.features[c]; ok {
			out[i] = v
		} else {
			out[i] = make([]float64, s.dim)
		}
	}
	return out
}

// Mean returns the per-feature mean over the given columns.
func (s *SiteStats) Mean(columns []int) []float64 {
	mean := make([]float64, s.dim)
	if len(columns) == 0 {
		return mean
	}
	for _, c := range columns {
		if v, ok := s.features[c]; ok {
			for j, x := range v {
				mean[j] += x
			}
		}
	}
	for j := range mean {
		mean[j] /= float64(len(columns))
	}
	return mean
}

// SumSquaredDeviation returns the sum over the given columns of squared
// distance from their per-feature mean. Zero for identical columns.
func (s *SiteStats) SumSquaredDeviation(columns []int) float64 {
	mean := s.Mean(columns)
	total := 0.0
	for _, c := range columns {
		if v, ok := s.features[c]; ok {
			total += euclidSquared(v, mean)
		} else {
			total += euclidSquared(make([]float64, s.dim), mean)
		}
	}
	return total
}

// euclidSquared returns the squared Euclidean distance between two
// equal-length vectors.
func euclidSquared(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

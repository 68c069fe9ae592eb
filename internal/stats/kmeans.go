package stats

import (
	"math"
)

// DefaultKMeansIterations bounds the assign/update loop of a split.
const DefaultKMeansIterations = 100

// SplitColumns clusters the given columns into exactly two groups by
// k-means over their feature vectors. The returned groups preserve the
// input column order.
//
// Initialization is deterministic so the same subset always splits the
// same way: the first centroid is the first column's vector and the
// second is the vector farthest from it. ok is false when the clustering
// collapses (all columns identical) and no two-way split exists.
func (s *SiteStats) SplitColumns(columns []int, maxIter int) (left, right []int, ok bool) {
	if len(columns) < 2 {
		return nil, nil, false
	}
	if maxIter <= 0 {
		maxIter = DefaultKMeansIterations
	}

	vectors := s.Vectors(columns)
	n := len(vectors)

	// Deterministic init: first column, then the farthest column from it.
	centroids := make([][]float64, 2)
	centroids[0] = append([]float64{}, vectors[0]...)
	farIdx, farDist := 0, -1.0
	for i := 1; i < n; i++ {
		d := euclidSquared(vectors[i], centroids[0])
		if d > farDist {
			farDist = d
			farIdx = i
		}
	}
	if farDist == 0 {
		// Every column equals the first: nothing to split.
		return nil, nil, false
	}
	centroids[1] = append([]float64{}, vectors[farIdx]...)

	assign := make([]int, n)
	for it := 0; it < maxIter; it++ {
		changed := false

		// Assignment step. Ties go to the lower cluster index.
		for i, v := range vectors {
			best, bestDist := 0, math.MaxFloat64
			for k := 0; k < 2; k++ {
				if d := euclidSquared(v, centroids[k]); d < bestDist {
					bestDist = d
					best = k
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		// Update step.
		sums := [2][]float64{make([]float64, s.dim), make([]float64, s.dim)}
		counts := [2]int{}
		for i, v := range vectors {
			k := assign[i]
			counts[k]++
			for j, x := range v {
				sums[k][j] += x
			}
		}
		for k := 0; k < 2; k++ {
			if counts[k] == 0 {
				continue
			}
			for j := range sums[k] {
				centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed {
			break
		}
	}

	for i, c := range columns {
		if assign[i] == 0 {
			left = append(left, c)
		} else {
			right = append(right, c)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nil, nil, false
	}
	return left, right, true
}

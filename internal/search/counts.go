package search

import "math"

// bellNumber returns the number of set partitions of n elements, via the
// Bell triangle. Only sensible for the small n the exhaustive strategy
// can afford.
func bellNumber(n int) int {
	if n <= 0 {
		return 1
	}
	row := []int{1}
	for i := 1; i < n; i++ {
		next := make([]int, 0, len(row)+1)
		next = append(next, row[len(row)-1])
		for _, v := range row {
			next = append(next, next[len(next)-1]+v)
		}
		row = next
	}
	return row[len(row)-1]
}

func choose2(n int) int { return n * (n - 1) / 2 }

// countGreedySchemes upper-bounds the schemes a greedy run evaluates:
// the start scheme plus every pair merge on the way down to one subset.
func countGreedySchemes(k int) int {
	total := 1
	for i := k; i >= 2; i-- {
		total += choose2(i)
	}
	return total
}

// countClusterSchemes upper-bounds relaxed clustering's evaluations at
// the given exploration percentage.
func countClusterSchemes(k int, percent float64) int {
	total := 1
	for i := k; i >= 2; i-- {
		total += clusterTake(choose2(i), percent)
	}
	return total
}

// clusterTake is the number of top-ranked candidates relaxed clustering
// evaluates out of n pairs. Always at least one while pairs remain.
func clusterTake(n int, percent float64) int {
	if n == 0 {
		return 0
	}
	take := int(math.Ceil(float64(n) * percent / 100))
	if take < 1 {
		take = 1
	}
	if take > n {
		take = n
	}
	return take
}

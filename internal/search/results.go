package search

import (
	"math"
	"sync"

	"github.com/partseek/partseek/internal/oracle"
)

// Results is the best-result tracker: process-scoped state recording the
// best score, scheme and result seen so far. It only ever improves;
// strategies never need to undo an adopted best. Safe for concurrent use,
// though strategies feed it sequentially per step to keep tie-breaks
// deterministic.
type Results struct {
	mu   sync.Mutex
	best *oracle.Result
}

// NewResults creates an empty tracker.
func NewResults() *Results {
	return &Results{}
}

// Consider adopts the result iff its score strictly improves on the
// current best (or this is the first evaluation). Returns whether the
// result was adopted.
func (r *Results) Consider(res *oracle.Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best == nil || res.Score < r.best.Score {
		r.best = res
		return true
	}
	return false
}

// Best returns the best result seen so far, or nil before the first
// evaluation.
func (r *Results) Best() *oracle.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.best
}

// BestScore returns the best score seen so far, or +Inf before the first
// evaluation.
func (r *Results) BestScore() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best == nil {
		return math.Inf(1)
	}
	return r.best.Score
}

// Package oracle turns candidate schemes into comparable scores. The
// scheme-level evaluator composes per-subset scores: interned subsets are
// scored at most once per run, and an optional persistent store lets
// repeated runs reuse scores.
package oracle

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/scheme"
)

// Criterion is the model-selection criterion used to compare schemes.
// Lower scores are better for every criterion.
type Criterion string

const (
	AIC  Criterion = "aic"
	AICc Criterion = "aicc"
	BIC  Criterion = "bic"
)

// ParseCriterion validates a criterion name from configuration.
func ParseCriterion(s string) (Criterion, error) {
	switch Criterion(strings.ToLower(s)) {
	case AIC:
		return AIC, nil
	case AICc:
		return AICc, nil
	case BIC:
		return BIC, nil
	default:
		return "", errors.New(errors.ErrCodeUnknownCriterion,
			fmt.Sprintf("unknown model-selection criterion '%s' (use aic, aicc or bic)", s), nil)
	}
}

// Score computes the criterion value from a fitted model's log-likelihood,
// free parameter count and site count.
func (c Criterion) Score(lnL float64, params, sites int) float64 {
	k := float64(params)
	n := float64(sites)
	switch c {
	case AICc:
		if n-k-1 <= 0 {
			// Too few sites to correct; the candidate is effectively
			// unusable and must never win.
			return math.Inf(1)
		}
		return 2*k - 2*lnL + (2*k*(k+1))/(n-k-1)
	case BIC:
		return k*math.Log(n) - 2*lnL
	default:
		return 2*k - 2*lnL
	}
}

// Result is the evaluation outcome for one scheme, associated with the
// scheme at evaluation time.
type Result struct {
	Scheme        *scheme.Scheme
	Criterion     Criterion
	Score         float64
	LogLikelihood float64
	ParamCount    int
	SiteCount     int
}

// SubsetScorer fits the external statistical model to one subset and
// returns its parameters. Implementations must return a *DegeneracyError
// for the known recoverable data conditions; any other error is fatal for
// the run.
type SubsetScorer interface {
	ScoreSubset(ctx context.Context, sub *scheme.Subset) (*scheme.SubsetResult, error)
}

// SubsetStore persists subset results across runs. Implemented by the
// sqlite store; nil disables persistence.
type SubsetStore interface {
	Get(ctx context.Context, id string, criterion string) (*scheme.SubsetResult, bool, error)
	Put(ctx context.Context, id string, criterion string, res *scheme.SubsetResult) error
}

// Evaluator scores schemes under a fixed criterion. Safe for concurrent
// use when the underlying scorer is.
type Evaluator struct {
	scorer    SubsetScorer
	store     SubsetStore
	criterion Criterion
	flight    singleflight.Group
}

// NewEvaluator creates a scheme evaluator. store may be nil.
func NewEvaluator(scorer SubsetScorer, criterion Criterion, store SubsetStore) *Evaluator {
	return &Evaluator{scorer: scorer, store: store, criterion: criterion}
}

// Criterion returns the criterion this evaluator scores under.
func (e *Evaluator) Criterion() Criterion { return e.criterion }

// Evaluate scores a scheme as the sum of its subsets' criterion scores.
// Subsets carrying a cached result are not re-scored; fresh results are
// attached to the interned subset and written through to the store.
func (e *Evaluator) Evaluate(ctx context.Context, sch *scheme.Scheme) (*Result, error) {
	out := &Result{Scheme: sch, Criterion: e.criterion}

	for _, sub := range sch.Subsets {
		res, err := e.subsetResult(ctx, sub)
		if err != nil {
			return nil, err
		}
		out.Score += res.Score
		out.LogLikelihood += res.LogLikelihood
		out.ParamCount += res.ParamCount
		out.SiteCount += res.SiteCount
	}

	return out, nil
}

// subsetResult returns the subset's result, in cache-preference order:
// in-memory (interned subset), persistent store, then the scorer.
// Candidates evaluated in parallel can share an unscored subset; the
// miss path is single-flighted per subset so the scorer runs once.
func (e *Evaluator) subsetResult(ctx context.Context, sub *scheme.Subset) (*scheme.SubsetResult, error) {
	if res, ok := sub.Result(); ok {
		return res, nil
	}

	v, err, _ := e.flight.Do(sub.ID(), func() (any, error) {
		return e.scoreSubset(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	return v.(*scheme.SubsetResult), nil
}

func (e *Evaluator) scoreSubset(ctx context.Context, sub *scheme.Subset) (*scheme.SubsetResult, error) {
	// A concurrent evaluation may have attached a result while this
	// caller was waiting on the flight group.
	if res, ok := sub.Result(); ok {
		return res, nil
	}

	if e.store != nil {
		res, ok, err := e.store.Get(ctx, sub.ID(), string(e.criterion))
		if err != nil {
			return nil, err
		}
		if ok {
			sub.SetResult(res)
			return res, nil
		}
	}

	res, err := e.scorer.ScoreSubset(ctx, sub)
	if err != nil {
		return nil, err
	}
	res.Score = e.criterion.Score(res.LogLikelihood, res.ParamCount, res.SiteCount)
	sub.SetResult(res)

	if e.store != nil {
		if err := e.store.Put(ctx, sub.ID(), string(e.criterion), res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

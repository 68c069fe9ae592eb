package oracle

import (
	"context"
	"math"

	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/stats"
)

// LikelihoodOracle scores subsets in-process from per-site statistics:
// each subset is modelled as a Gaussian profile around the mean feature
// vector of its columns, so tight subsets fit well and heterogeneous ones
// pay for their spread. It is the default scorer when no external program
// is configured and the deterministic engine for tests.
type LikelihoodOracle struct {
	sites *stats.SiteStats
}

// NewLikelihoodOracle creates an in-process scorer over site statistics.
func NewLikelihoodOracle(sites *stats.SiteStats) *LikelihoodOracle {
	return &LikelihoodOracle{sites: sites}
}

var _ SubsetScorer = (*LikelihoodOracle)(nil)

// ScoreSubset fits the profile model to the subset's columns. It reports
// the same recoverable degeneracies an external scorer would: an
// entirely-undetermined subset (all-zero feature vectors), a single data
// pattern (all columns identical), and a zero empirical frequency.
func (o *LikelihoodOracle) ScoreSubset(_ context.Context, sub *scheme.Subset) (*scheme.SubsetResult, error) {
	cols := sub.Columns()
	n := len(cols)
	dim := o.sites.Dim()

	vectors := o.sites.Vectors(cols)
	allZero := true
	allSame := true
	for _, v := range vectors {
		for j, x := range v {
			if x != 0 {
				allZero = false
			}
			if x != vectors[0][j] {
				allSame = false
			}
		}
	}
	if allZero {
		return nil, &DegeneracyError{Kind: DegeneracyUndetermined, Diagnostic: diagUndetermined}
	}
	if allSame && n > 1 {
		return nil, &DegeneracyError{Kind: DegeneracySinglePattern, Diagnostic: diagSinglePattern}
	}

	mean := o.sites.Mean(cols)
	for _, m := range mean {
		if m == 0 {
			return nil, &DegeneracyError{Kind: DegeneracyZeroFreq, Diagnostic: diagZeroFreq}
		}
	}

	// Gaussian profile with unit variance: lnL trades off against the
	// within-subset spread, parameters are the mean vector plus one rate.
	rss := o.sites.SumSquaredDeviation(cols)
	lnL := -0.5*rss - 0.5*float64(n)*float64(dim)*math.Log(2*math.Pi)

	return &scheme.SubsetResult{
		LogLikelihood: lnL,
		ParamCount:    dim + 1,
		SiteCount:     n,
		Rate:          mean[0],
		Alpha:         rss / float64(n),
		Freqs:         normalize(mean),
	}, nil
}

// normalize scales a vector to sum to 1; zero-sum vectors pass through.
func normalize(v []float64) []float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	if total == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / total
	}
	return out
}

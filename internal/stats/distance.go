package stats

// Weights controls how much each fitted-parameter family contributes to
// the similarity distance between two subsets. All-zero weights degrade
// to rate-only ranking.
type Weights struct {
	Rate   float64 `yaml:"rate"`
	Freqs  float64 `yaml:"freqs"`
	Alpha  float64 `yaml:"alpha"`
	Params float64 `yaml:"params"`
}

// DefaultWeights matches the historical rate-only ranking.
func DefaultWeights() Weights {
	return Weights{Rate: 1}
}

// normalized returns the weights scaled to sum to 1, falling back to
// rate-only when every weight is zero.
func (w Weights) normalized() Weights {
	total := w.Rate + w.Freqs + w.Alpha + w.Params
	if total == 0 {
		return DefaultWeights()
	}
	return Weights{
		Rate:   w.Rate / total,
		Freqs:  w.Freqs / total,
		Alpha:  w.Alpha / total,
		Params: w.Params / total,
	}
}

// ParamPoint is the fitted-parameter summary of a subset used for
// similarity ranking between candidate merges.
type ParamPoint struct {
	Rate   float64
	Alpha  float64
	Freqs  []float64
	Params float64
}

// Distance returns the weighted distance between two subsets' fitted
// parameters. Lower means more similar, so the pair is a better merge
// candidate.
func Distance(a, b ParamPoint, w Weights) float64 {
	w = w.normalized()

	d := 0.0
	d += w.Rate * sq(a.Rate-b.Rate)
	d += w.Alpha * sq(a.Alpha-b.Alpha)
	d += w.Params * sq(a.Params-b.Params)
	if len(a.Freqs) == len(b.Freqs) && len(a.Freqs) > 0 {
		d += w.Freqs * euclidSquared(a.Freqs, b.Freqs)
	}
	return d
}

func sq(x float64) float64 { return x * x }

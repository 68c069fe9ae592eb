// Package report presents search progress and writes scheme summaries and
// the final best-scheme report. It is purely observational: nothing here
// affects the search outcome.
package report

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// Progress observes the evaluation loop. Begin is called once with the
// strategy's scheme/subset estimates, Update once per evaluated scheme,
// End once at run end.
type Progress interface {
	Begin(schemeCount, subsetCount int)
	Update()
	End()
}

// BarProgress renders a terminal progress bar.
type BarProgress struct {
	bar *progressbar.ProgressBar
}

// NewBarProgress creates a terminal progress reporter.
func NewBarProgress() *BarProgress {
	return &BarProgress{}
}

// Begin starts the bar with the expected scheme count. Strategies that
// cannot predict their scheme count pass 0 and get a spinner.
func (p *BarProgress) Begin(schemeCount, subsetCount int) {
	max := int64(schemeCount)
	if max == 0 {
		max = -1
	}
	p.bar = progressbar.NewOptions64(max,
		progressbar.OptionSetDescription(
			fmt.Sprintf("scoring (%d subsets)", subsetCount)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// Update advances the bar by one evaluated scheme.
func (p *BarProgress) Update() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// End finishes and clears the bar.
func (p *BarProgress) End() {
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

// NopProgress discards all progress updates. Used in quiet mode and tests.
type NopProgress struct{}

func (NopProgress) Begin(int, int) {}
func (NopProgress) Update()        {}
func (NopProgress) End()           {}

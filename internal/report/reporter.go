package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/oracle"
	"github.com/partseek/partseek/internal/scheme"
)

// Reporter writes plain-text scheme summaries into the run's output
// directory: one file per step-significant scheme under schemes/, and the
// final winner in best_scheme.txt.
type Reporter struct {
	dir string
}

// NewReporter creates a reporter rooted at the run output directory.
func NewReporter(dir string) *Reporter {
	return &Reporter{dir: dir}
}

// WriteSchemeSummary writes the summary file for one evaluated scheme.
func (r *Reporter) WriteSchemeSummary(sch *scheme.Scheme, res *oracle.Result) error {
	dir := filepath.Join(r.dir, "schemes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeReportWrite, err)
	}

	path := filepath.Join(dir, sanitizeName(sch.Name)+".txt")
	if err := os.WriteFile(path, []byte(renderScheme(sch, res)), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeReportWrite, err)
	}
	return nil
}

// WriteBestScheme writes the final winner report.
func (r *Reporter) WriteBestScheme(res *oracle.Result) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeReportWrite, err)
	}

	var b strings.Builder
	b.WriteString("Best scheme found\n")
	b.WriteString("=================\n\n")
	b.WriteString(renderScheme(res.Scheme, res))

	path := filepath.Join(r.dir, "best_scheme.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeReportWrite, err)
	}
	return nil
}

// renderScheme produces the shared summary block.
func renderScheme(sch *scheme.Scheme, res *oracle.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scheme:        %s\n", sch.Name)
	fmt.Fprintf(&b, "Criterion:     %s\n", strings.ToUpper(string(res.Criterion)))
	fmt.Fprintf(&b, "Score:         %.4f\n", res.Score)
	fmt.Fprintf(&b, "lnL:           %.4f\n", res.LogLikelihood)
	fmt.Fprintf(&b, "Parameters:    %d\n", res.ParamCount)
	fmt.Fprintf(&b, "Sites:         %d\n", res.SiteCount)
	fmt.Fprintf(&b, "Subsets:       %d\n", sch.SubsetCount())
	fmt.Fprintf(&b, "Grouping:      %s\n", sch.Description())
	b.WriteString("\nSubset detail:\n")
	for i, sub := range sch.Subsets {
		line := fmt.Sprintf("  %d. %s (%d sites)", i+1, sub.Name(), len(sub.Columns()))
		if sr, ok := sub.Result(); ok {
			line += fmt.Sprintf(" score=%.4f rate=%.4f", sr.Score, sr.Rate)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// sanitizeName makes a scheme name safe as a file name.
func sanitizeName(name string) string {
	r := strings.NewReplacer("/", "_", " ", "_", ":", "_")
	return r.Replace(name)
}

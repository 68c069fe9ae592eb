package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/stats"
)

// DefaultOutputCacheSize bounds the raw-output cache. Subset interning
// already prevents re-scoring within one evaluator; this cache covers
// repeated subsets across evaluators when no persistent store is open.
const DefaultOutputCacheSize = 4096

// ProcessOracle scores subsets by invoking an external model-fitting
// program once per unscored subset. The program receives a file with the
// subset's columns and site statistics, and must print a line of the form
//
//	lnL=<float> params=<int> rate=<float> alpha=<float>
//
// Non-zero exits are classified against the known recoverable diagnostics
// before being treated as fatal.
type ProcessOracle struct {
	program string
	args    []string
	sites   *stats.SiteStats
	workDir string

	cache *lru.Cache[string, *scheme.SubsetResult]
}

// NewProcessOracle creates an external-program scorer. workDir holds the
// per-subset input files; it is created on demand.
func NewProcessOracle(program string, args []string, sites *stats.SiteStats, workDir string) *ProcessOracle {
	cache, _ := lru.New[string, *scheme.SubsetResult](DefaultOutputCacheSize)
	return &ProcessOracle{
		program: program,
		args:    args,
		sites:   sites,
		workDir: workDir,
		cache:   cache,
	}
}

var _ SubsetScorer = (*ProcessOracle)(nil)

// ScoreSubset writes the subset input file, runs the scorer under the
// caller's context and parses its output. The input file is removed on
// every exit path, including the recoverable-failure path.
func (o *ProcessOracle) ScoreSubset(ctx context.Context, sub *scheme.Subset) (*scheme.SubsetResult, error) {
	if res, ok := o.cache.Get(sub.ID()); ok {
		return cloneResult(res), nil
	}

	if o.sites == nil {
		return nil, errors.New(errors.ErrCodeOracleExec,
			"external scorer has no site statistics to build its input from", nil)
	}

	if err := os.MkdirAll(o.workDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOracleExec, err)
	}

	inputPath := filepath.Join(o.workDir, sanitizeID(sub.ID())+".sites")
	if err := o.writeInput(inputPath, sub); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOracleExec, err)
	}
	defer func() { _ = os.Remove(inputPath) }()

	args := append(append([]string{}, o.args...), inputPath)
	cmd := exec.CommandContext(ctx, o.program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if kind, ok := ClassifyOutput(stdout.String(), stderr.String()); ok {
			return nil, &DegeneracyError{Kind: kind, Diagnostic: firstDiagnosticLine(stdout.String(), stderr.String())}
		}
		return nil, errors.New(errors.ErrCodeOracleFailed,
			fmt.Sprintf("scorer '%s' failed: %v", o.program, err), err).
			WithDetail("stderr", stderr.String())
	}

	res, err := parseScorerOutput(stdout.String(), len(sub.Columns()))
	if err != nil {
		return nil, errors.New(errors.ErrCodeOracleFailed,
			fmt.Sprintf("cannot parse scorer output: %v", err), err).
			WithDetail("stdout", stdout.String())
	}

	o.cache.Add(sub.ID(), cloneResult(res))
	return res, nil
}

// writeInput writes one line per column: the column index followed by its
// feature vector.
func (o *ProcessOracle) writeInput(path string, sub *scheme.Subset) error {
	var b strings.Builder
	for _, c := range sub.Columns() {
		fmt.Fprintf(&b, "%d", c)
		if v, ok := o.sites.Vector(c); ok {
			for _, x := range v {
				fmt.Fprintf(&b, "\t%g", x)
			}
		}
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// parseScorerOutput extracts the fitted parameters from program output.
func parseScorerOutput(stdout string, siteCount int) (*scheme.SubsetResult, error) {
	res := &scheme.SubsetResult{SiteCount: siteCount}
	found := false

	for _, line := range strings.Split(stdout, "\n") {
		fields := strings.Fields(line)
		for _, f := range fields {
			key, val, ok := strings.Cut(f, "=")
			if !ok {
				continue
			}
			switch key {
			case "lnL":
				x, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("bad lnL value '%s'", val)
				}
				res.LogLikelihood = x
				found = true
			case "params":
				x, err := strconv.Atoi(val)
				if err != nil {
					return nil, fmt.Errorf("bad params value '%s'", val)
				}
				res.ParamCount = x
			case "rate":
				x, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("bad rate value '%s'", val)
				}
				res.Rate = x
			case "alpha":
				x, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return nil, fmt.Errorf("bad alpha value '%s'", val)
				}
				res.Alpha = x
			case "freqs":
				for _, fv := range strings.Split(val, ",") {
					x, err := strconv.ParseFloat(fv, 64)
					if err != nil {
						return nil, fmt.Errorf("bad freqs value '%s'", val)
					}
					res.Freqs = append(res.Freqs, x)
				}
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("no lnL= field in scorer output")
	}
	return res, nil
}

// firstDiagnosticLine returns the first non-empty output line for the
// degeneracy record.
func firstDiagnosticLine(stdout, stderr string) string {
	for _, out := range []string{stdout, stderr} {
		for _, line := range strings.Split(out, "\n") {
			if t := strings.TrimSpace(line); t != "" {
				return t
			}
		}
	}
	return ""
}

// sanitizeID makes a subset ID safe as a file name.
func sanitizeID(id string) string {
	r := strings.NewReplacer("|", "_", ":", "_", "/", "_")
	return r.Replace(id)
}

// cloneResult copies a result so cache entries stay immutable even if a
// caller mutates the returned value.
func cloneResult(r *scheme.SubsetResult) *scheme.SubsetResult {
	out := *r
	out.Freqs = append([]float64{}, r.Freqs...)
	return &out
}

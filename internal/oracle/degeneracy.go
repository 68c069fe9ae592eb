package oracle

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/partseek/partseek/internal/errors"
)

// DegeneracyKind classifies the known recoverable data conditions a
// scoring run can hit. Strategies skip the offending candidate and
// continue; anything else aborts the run.
type DegeneracyKind string

const (
	// DegeneracyZeroFreq: an empirical base frequency of zero in the
	// subset's data.
	DegeneracyZeroFreq DegeneracyKind = "zero_base_frequency"
	// DegeneracySinglePattern: too few usable data patterns to fit.
	DegeneracySinglePattern DegeneracyKind = "single_pattern"
	// DegeneracyUndetermined: the subset's data is entirely undetermined.
	DegeneracyUndetermined DegeneracyKind = "undetermined_subset"
)

// DegeneracyError reports a recoverable data-degeneracy condition for one
// candidate. It carries the raw diagnostic text from the scorer.
type DegeneracyError struct {
	Kind       DegeneracyKind
	Diagnostic string
}

// Error implements the error interface.
func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("degenerate subset data (%s): %s", e.Kind, e.Diagnostic)
}

// IsDegenerate reports whether the error is a recoverable candidate-level
// degeneracy, either as a structured DegeneracyError or as a RunError
// carrying the degeneracy code.
func IsDegenerate(err error) bool {
	var de *DegeneracyError
	if stderrors.As(err, &de) {
		return true
	}
	return errors.IsRecoverable(err)
}

// Diagnostic patterns emitted by the external scoring programs. Matching
// raw output text is a compatibility shim for scorers that cannot report
// structured failure kinds.
const (
	diagZeroFreq      = "Empirical base frequency for state number 0 is equal to zero"
	diagSinglePattern = "1 patterns found"
	diagUndetermined  = "consists entirely of undetermined values"
)

// ClassifyOutput inspects a scorer's raw stdout/stderr for the known
// recoverable conditions. ok is false when the output matches none of
// them, in which case the failure is fatal.
func ClassifyOutput(stdout, stderr string) (DegeneracyKind, bool) {
	switch {
	case strings.Contains(stdout, diagZeroFreq):
		return DegeneracyZeroFreq, true
	case strings.Contains(stderr, diagSinglePattern):
		return DegeneracySinglePattern, true
	case strings.Contains(stdout, diagUndetermined):
		return DegeneracyUndetermined, true
	default:
		return "", false
	}
}

package patch

import (
	"fmt"

	"plcsync/core/diffset"
)

// Outcome is the per-entry result of an apply pass.
type Outcome string

const (
	// OutcomeApplied means the entry was merged into the working set.
	OutcomeApplied Outcome = "applied"
	// OutcomeConflict means the target diverged from the diff's assumed
	// base; the existing unit was kept.
	OutcomeConflict Outcome = "conflict"
)

// ConflictError describes why one entry could not be applied. It is
// recorded in the report, never propagated past the apply pass.
type ConflictError struct {
	QualifiedName string
	Reason        string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.QualifiedName, e.Reason)
}

// Result is the outcome for one diff entry.
type Result struct {
	QualifiedName  string
	Classification diffset.Classification
	Outcome        Outcome

	// Detail explains a conflict; empty for applied entries.
	Detail string
}

// ApplyReport collects the outcome of every entry in the pass.
type ApplyReport struct {
	Results   []Result
	Applied   int
	Conflicts int
}

// Clean reports whether every entry applied without conflict.
func (r *ApplyReport) Clean() bool {
	return r.Conflicts == 0
}

// ConflictNames returns the qualified names of conflicting entries, in
// pass order.
func (r *ApplyReport) ConflictNames() []string {
	var names []string
	for _, res := range r.Results {
		if res.Outcome == OutcomeConflict {
			names = append(names, res.QualifiedName)
		}
	}
	return names
}

func (r *ApplyReport) record(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeApplied:
		r.Applied++
	case OutcomeConflict:
		r.Conflicts++
	}
}

package reconcile

import (
	"time"

	"plcsync/core/entity"
)

// OpType is the kind of mutation a plan operation performs.
type OpType string

const (
	// OpCreate introduces a unit absent from the current state.
	OpCreate OpType = "create"
	// OpUpdate replaces the body of an existing unit with the desired one.
	OpUpdate OpType = "update"
	// OpDelete removes a unit not present in the desired state.
	OpDelete OpType = "delete"
)

// PlanOp is one planned mutation against the target.
type PlanOp struct {
	// Type specifies the mutation to perform.
	Type OpType `json:"type"`

	// QualifiedName identifies the unit.
	QualifiedName string `json:"qualified_name"`

	// Kind is the unit's artifact kind.
	Kind entity.Kind `json:"kind"`

	// NewBody is the full desired body for creates and updates; empty for
	// deletes. Updates are whole-body replacements, never partial merges.
	NewBody string `json:"-"`

	// LostVars lists variables present only in the current GVL body that a
	// full-replacement update will drop. Populated for GVL updates only.
	LostVars []string `json:"lost_vars,omitempty"`
}

// Plan is an ordered sequence of operations plus aggregate counts.
type Plan struct {
	Ops     []PlanOp    `json:"ops"`
	Summary PlanSummary `json:"summary"`
}

// Empty reports whether the current state already matches the desired one.
func (p *Plan) Empty() bool {
	return len(p.Ops) == 0
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Creates counts planned create operations.
	Creates int `json:"creates"`

	// Updates counts planned update operations.
	Updates int `json:"updates"`

	// Deletes counts planned delete operations.
	Deletes int `json:"deletes"`

	// DataLossRisks counts GVL updates that drop current-only variables.
	DataLossRisks int `json:"data_loss_risks"`
}

// Options controls plan execution behavior.
type Options struct {
	// DryRun prevents execution of any mutation if true.
	DryRun bool

	// Confirmed indicates the user has confirmed destructive operations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool

	// OpTimeout bounds each submitted operation. Zero means no per-op
	// timeout beyond the run context.
	OpTimeout time.Duration
}

// OpOutcome is the per-operation execution result.
type OpOutcome string

const (
	// OutcomeApplied means the executor accepted the operation.
	OutcomeApplied OpOutcome = "applied"
	// OutcomeFailed means the executor rejected the operation; the run
	// continues with the next one.
	OutcomeFailed OpOutcome = "failed"
	// OutcomeSkipped means the operation was never attempted, either
	// because the run was canceled or because execution was not confirmed.
	OutcomeSkipped OpOutcome = "skipped"
)

// OpResult records the outcome of one operation.
type OpResult struct {
	Op      PlanOp        `json:"op"`
	Outcome OpOutcome     `json:"outcome"`
	Detail  string        `json:"detail,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// ExecutionReport collects the outcome of every operation in a run.
type ExecutionReport struct {
	// RunID uniquely identifies this execution run in logs and output.
	RunID string `json:"run_id"`

	Results []OpResult `json:"results"`

	Applied int `json:"applied"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Clean reports whether every operation applied.
func (r *ExecutionReport) Clean() bool {
	return r.Failed == 0 && r.Skipped == 0
}

func (r *ExecutionReport) record(res OpResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeApplied:
		r.Applied++
	case OutcomeFailed:
		r.Failed++
	case OutcomeSkipped:
		r.Skipped++
	}
}

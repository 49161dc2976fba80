package reconcile

import (
	"context"
	"fmt"
)

// Executor applies a single planned operation to the target system. The
// engine calls Submit with exactly one operation in flight at a time; the
// context carries the per-op timeout and run cancellation.
type Executor interface {
	Submit(ctx context.Context, op PlanOp) error
}

// ExecutionFailure is a target-side rejection of one operation, for example
// a syntax error surfaced by the controller. It is isolated to its
// operation and recorded in the report, never propagated as a run error.
type ExecutionFailure struct {
	QualifiedName string
	Detail        string
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("executor rejected %s: %s", e.QualifiedName, e.Detail)
}

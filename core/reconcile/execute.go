package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Execute drives a plan through the executor, one operation in flight at a
// time. A rejected operation is recorded as failed and the run continues;
// there are no retries. Context cancellation is honored at operation
// boundaries: the in-flight operation sees its context canceled, and every
// remaining operation is recorded as skipped.
//
// If opts.DryRun is set or opts.Confirmed is not, nothing is submitted and
// every operation comes back skipped.
func Execute(ctx context.Context, plan *Plan, exec Executor, opts Options, log *zap.Logger) *ExecutionReport {
	report := &ExecutionReport{RunID: uuid.NewString()}

	if opts.DryRun || !opts.Confirmed {
		detail := "dry-run"
		if !opts.DryRun {
			detail = "not confirmed"
		}
		for _, op := range plan.Ops {
			report.record(OpResult{Op: op, Outcome: OutcomeSkipped, Detail: detail})
		}
		return report
	}

	log.Info("executing reconciliation plan",
		zap.String("run_id", report.RunID),
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("deletes", plan.Summary.Deletes))

	canceled := false
	for _, op := range plan.Ops {
		if canceled || ctx.Err() != nil {
			canceled = true
			report.record(OpResult{Op: op, Outcome: OutcomeSkipped, Detail: "run canceled"})
			continue
		}

		opCtx := ctx
		cancel := context.CancelFunc(func() {})
		if opts.OpTimeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, opts.OpTimeout)
		}

		start := time.Now()
		err := exec.Submit(opCtx, op)
		cancel()
		elapsed := time.Since(start)

		if err != nil {
			report.record(OpResult{Op: op, Outcome: OutcomeFailed, Detail: err.Error(), Elapsed: elapsed})
			log.Warn("operation failed",
				zap.String("run_id", report.RunID),
				zap.String("op", string(op.Type)),
				zap.String("qualified_name", op.QualifiedName),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
		} else {
			report.record(OpResult{Op: op, Outcome: OutcomeApplied, Elapsed: elapsed})
			log.Info("operation applied",
				zap.String("run_id", report.RunID),
				zap.String("op", string(op.Type)),
				zap.String("qualified_name", op.QualifiedName),
				zap.Duration("elapsed", elapsed))
		}
	}

	log.Info("reconciliation run finished",
		zap.String("run_id", report.RunID),
		zap.Int("applied", report.Applied),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped))

	return report
}

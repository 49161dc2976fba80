// Package reconcile turns a desired snapshot and a current snapshot into an
// ordered mutation plan and drives it through an Executor.
//
// The desired snapshot is authoritative: anything present only in the
// current state is deleted by omission. Plans order creates and updates
// before deletes, with declaration-carrying kinds (GVLs, UDTs) ahead of
// their consumers and methods after their owning POUs; deletes run in the
// reverse order. A GVL update is always a full body replacement, so the
// plan surfaces any variables that exist only in the current GVL as a
// data-loss risk.
//
// Execution is sequential with a single in-flight operation, a per-op
// timeout, and no retries. A failed operation is isolated; cancellation is
// honored at operation boundaries and marks the remaining operations as
// skipped. Dry-run shares the planning code path and never mutates.
package reconcile

// Package sync exposes the snapshot, diff, and plan-preview operations over
// HTTP.
//
// The feature is read-only: it extracts snapshots, computes diffs, and
// renders reconciliation plans, but never executes a plan. Execution stays
// on the CLI where destructive operations go through explicit confirmation.
// Snapshots are served through a TTL cache so repeated previews of the same
// source do not re-extract it.
package sync

// Package patch applies a DiffSet onto a target snapshot, producing a
// merged snapshot and a per-entry report.
//
// Every entry is applied independently: a conflict on one entry never
// blocks the rest, and the pass always completes with a full report. An
// Added entry colliding with an existing unit, or a Modified entry whose
// context lines no longer match the target body, is reported as a conflict
// and the existing unit is retained untouched. Removing an already-absent
// unit is a no-op that still counts as applied.
package patch

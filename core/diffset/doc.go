// Package diffset compares two snapshots and represents the result as an
// ordered, classified set of entries.
//
// Diff is a pure function over two EntitySets: every qualified name in the
// union of both is classified exactly once as Added, Removed, or Modified,
// with unchanged names producing no entry. Modified entries carry a unified
// diff of the normalized bodies keyed by qualified name, so the patch is
// self-describing and independent of filesystem layout. Entries are sorted
// by qualified name and the output is byte-identical across runs.
//
// WriteDir and ReadDir persist a DiffSet as per-entry artifact files plus a
// diff_summary.txt manifest, the on-disk interchange format between the
// diff and apply commands.
package diffset

package diffset

import (
	"fmt"
	"sort"

	"plcsync/core/entity"
)

// Classification labels what happened to one qualified name between the base
// and target snapshots.
type Classification string

const (
	// Added means the name exists only in the target snapshot.
	Added Classification = "added"
	// Removed means the name exists only in the base snapshot.
	Removed Classification = "removed"
	// Modified means the name exists in both with differing bodies.
	Modified Classification = "modified"
)

// symbol is the one-character marker used in summary lines.
func (c Classification) symbol() string {
	switch c {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return "~"
	}
}

// Entry is one classified difference.
type Entry struct {
	QualifiedName  string
	Kind           entity.Kind
	Classification Classification

	// Patch is the unified diff of base vs target body. Modified only.
	Patch string

	// NewBody is the full target body. Added only.
	NewBody string
}

// Summary counts entries per classification.
type Summary struct {
	Added    int
	Removed  int
	Modified int
}

// String renders the trailing totals line of diff_summary.txt.
func (s Summary) String() string {
	return fmt.Sprintf("modified=%d added=%d removed=%d", s.Modified, s.Added, s.Removed)
}

// DiffSet is an ordered sequence of entries plus summary counts. Entries are
// sorted by qualified name; a kind change produces a Removed entry followed
// by an Added one for the same name.
type DiffSet struct {
	Entries []Entry
	Summary Summary
}

// Empty reports whether the two snapshots were identical.
func (ds *DiffSet) Empty() bool {
	return len(ds.Entries) == 0
}

// Diff compares a base snapshot against a target snapshot. Entities present
// only in target are Added, only in base are Removed, and present in both
// with differing bodies are Modified. A name whose kind changed between the
// snapshots is not patchable in place and comes back as Removed plus Added.
func Diff(base, target *entity.EntitySet) (*DiffSet, error) {
	names := make(map[string]struct{}, base.Len()+target.Len())
	for _, n := range base.Names() {
		names[n] = struct{}{}
	}
	for _, n := range target.Names() {
		names[n] = struct{}{}
	}

	ordered := make([]string, 0, len(names))
	for n := range names {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	ds := &DiffSet{}
	for _, name := range ordered {
		baseUnit, inBase := base.Get(name)
		targetUnit, inTarget := target.Get(name)

		switch {
		case !inBase:
			ds.add(Entry{
				QualifiedName:  name,
				Kind:           targetUnit.Kind,
				Classification: Added,
				NewBody:        targetUnit.Body,
			})
		case !inTarget:
			ds.add(Entry{
				QualifiedName:  name,
				Kind:           baseUnit.Kind,
				Classification: Removed,
			})
		case baseUnit.Kind != targetUnit.Kind:
			ds.add(Entry{
				QualifiedName:  name,
				Kind:           baseUnit.Kind,
				Classification: Removed,
			})
			ds.add(Entry{
				QualifiedName:  name,
				Kind:           targetUnit.Kind,
				Classification: Added,
				NewBody:        targetUnit.Body,
			})
		case baseUnit.Body != targetUnit.Body:
			patch, err := Unified(name, baseUnit.Body, targetUnit.Body)
			if err != nil {
				return nil, fmt.Errorf("diff %s: %w", name, err)
			}
			ds.add(Entry{
				QualifiedName:  name,
				Kind:           targetUnit.Kind,
				Classification: Modified,
				Patch:          patch,
			})
		}
	}

	return ds, nil
}

func (ds *DiffSet) add(e Entry) {
	ds.Entries = append(ds.Entries, e)
	switch e.Classification {
	case Added:
		ds.Summary.Added++
	case Removed:
		ds.Summary.Removed++
	case Modified:
		ds.Summary.Modified++
	}
}

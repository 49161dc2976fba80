package patch

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"plcsync/core/diffset"
	"plcsync/core/entity"
)

// Apply merges a DiffSet into a target snapshot. The returned set reflects
// every entry that applied cleanly; conflicting entries leave the target's
// unit untouched and are reported. The pass always completes, whatever the
// mix of outcomes.
func Apply(ds *diffset.DiffSet, target *entity.EntitySet) (*entity.EntitySet, *ApplyReport, error) {
	working := make(map[string]entity.CodeUnit, target.Len())
	for _, name := range target.Names() {
		unit, _ := target.Get(name)
		working[name] = unit
	}

	report := &ApplyReport{}
	for _, e := range ds.Entries {
		res := Result{QualifiedName: e.QualifiedName, Classification: e.Classification}

		// The working set, not the original target, is the collision
		// reference: a kind change arrives as a remove followed by an add
		// of the same name, and the add must land on the post-remove state.
		switch e.Classification {
		case diffset.Added:
			if existing, exists := working[e.QualifiedName]; exists {
				res.Outcome = OutcomeConflict
				res.Detail = (&ConflictError{
					QualifiedName: e.QualifiedName,
					Reason:        fmt.Sprintf("add collides with existing %s unit", existing.Kind),
				}).Error()
				break
			}
			working[e.QualifiedName] = entity.CodeUnit{
				QualifiedName: e.QualifiedName,
				Kind:          e.Kind,
				Body:          entity.Normalize(e.NewBody),
			}
			res.Outcome = OutcomeApplied

		case diffset.Removed:
			// Removing an absent unit is idempotent.
			delete(working, e.QualifiedName)
			res.Outcome = OutcomeApplied

		case diffset.Modified:
			existing, exists := working[e.QualifiedName]
			if !exists {
				res.Outcome = OutcomeConflict
				res.Detail = (&ConflictError{
					QualifiedName: e.QualifiedName,
					Reason:        "unit absent from target",
				}).Error()
				break
			}
			patched, err := applyUnified(existing.Body, e.Patch)
			if err != nil {
				res.Outcome = OutcomeConflict
				res.Detail = (&ConflictError{QualifiedName: e.QualifiedName, Reason: err.Error()}).Error()
				break
			}
			existing.Body = patched
			working[e.QualifiedName] = existing
			res.Outcome = OutcomeApplied

		default:
			return nil, nil, fmt.Errorf("unknown classification %q for %s", e.Classification, e.QualifiedName)
		}

		report.record(res)
	}

	units := make([]entity.CodeUnit, 0, len(working))
	for _, unit := range working {
		units = append(units, unit)
	}
	merged, err := entity.FromUnits(units)
	if err != nil {
		return nil, nil, err
	}
	return merged, report, nil
}

// applyUnified applies a unified-diff patch to a normalized body with strict
// context checking: every context and removed line must match the body
// exactly, or the patch is rejected.
func applyUnified(body, patch string) (string, error) {
	fd, err := diff.ParseFileDiff([]byte(patch))
	if err != nil {
		return "", fmt.Errorf("malformed patch: %w", err)
	}

	orig := entity.Lines(body)
	var out []string
	cursor := 0

	for _, hunk := range fd.Hunks {
		start := int(hunk.OrigStartLine) - 1
		if hunk.OrigLines == 0 {
			// A pure insertion anchors after the named line.
			start = int(hunk.OrigStartLine)
		}
		if start < cursor || start > len(orig) {
			return "", fmt.Errorf("hunk start %d out of range", hunk.OrigStartLine)
		}
		out = append(out, orig[cursor:start]...)
		cursor = start

		for _, line := range strings.Split(strings.TrimSuffix(string(hunk.Body), "\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				out = append(out, line[1:])
			case strings.HasPrefix(line, "-"):
				if cursor >= len(orig) || orig[cursor] != line[1:] {
					return "", contextMismatch(orig, cursor, line[1:])
				}
				cursor++
			case strings.HasPrefix(line, " "):
				if cursor >= len(orig) || orig[cursor] != line[1:] {
					return "", contextMismatch(orig, cursor, line[1:])
				}
				out = append(out, orig[cursor])
				cursor++
			case line == "":
				// Some printers strip the space from blank context lines.
				if cursor >= len(orig) || orig[cursor] != "" {
					return "", contextMismatch(orig, cursor, "")
				}
				out = append(out, "")
				cursor++
			default:
				return "", fmt.Errorf("malformed patch line %q", line)
			}
		}
	}

	out = append(out, orig[cursor:]...)
	if len(out) == 0 {
		return "\n", nil
	}
	return strings.Join(out, "\n") + "\n", nil
}

func contextMismatch(orig []string, cursor int, want string) error {
	got := "<end of body>"
	if cursor < len(orig) {
		got = orig[cursor]
	}
	return fmt.Errorf("context mismatch at line %d: patch expects %q, body has %q", cursor+1, want, got)
}

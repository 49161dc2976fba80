package diffset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"plcsync/core/entity"
)

// SummaryFilename is the manifest written alongside per-entry artifacts.
const SummaryFilename = "diff_summary.txt"

var knownKinds = map[entity.Kind]bool{
	entity.KindProgram:            true,
	entity.KindFunctionBlock:      true,
	entity.KindFunction:           true,
	entity.KindGlobalVariableList: true,
	entity.KindMethod:             true,
	entity.KindAddOnInstruction:   true,
	entity.KindUserDefinedType:    true,
}

// summaryLine matches "<symbol> qualifiedName (kind)".
var summaryLine = regexp.MustCompile(`^([+~-]) (.+) \(([a-z_]+)\)$`)

// WriteDir persists a DiffSet as per-entry artifacts plus the summary
// manifest. Modified entries get a .diff file, Added a .added file with the
// full new body, Removed a presence-only .removed marker.
func WriteDir(ds *DiffSet, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create diff directory %s: %w", dir, err)
	}

	var summary strings.Builder
	for _, e := range ds.Entries {
		base := entity.FileBase(e.QualifiedName)
		var path, content string
		switch e.Classification {
		case Modified:
			path = filepath.Join(dir, base+".diff")
			content = e.Patch
		case Added:
			path = filepath.Join(dir, base+".added")
			content = e.NewBody
		case Removed:
			path = filepath.Join(dir, base+".removed")
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(&summary, "%s %s (%s)\n", e.Classification.symbol(), e.QualifiedName, e.Kind)
	}
	summary.WriteString(ds.Summary.String() + "\n")

	summaryPath := filepath.Join(dir, SummaryFilename)
	if err := os.WriteFile(summaryPath, []byte(summary.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", summaryPath, err)
	}
	return nil
}

// ReadDir loads a DiffSet previously written by WriteDir. The summary
// manifest is authoritative for entry order, classification, and kind; the
// per-entry files supply patch and body content.
func ReadDir(dir string) (*DiffSet, error) {
	summaryPath := filepath.Join(dir, SummaryFilename)
	raw, err := os.ReadFile(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", summaryPath, err)
	}

	ds := &DiffSet{}
	for _, line := range entity.Lines(entity.Normalize(string(raw))) {
		if line == "" || strings.HasPrefix(line, "modified=") {
			continue
		}
		m := summaryLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%s: malformed summary line %q", summaryPath, line)
		}

		kind := entity.Kind(m[3])
		if !knownKinds[kind] {
			return nil, fmt.Errorf("%s: unknown kind %q", summaryPath, m[3])
		}

		e := Entry{QualifiedName: m[2], Kind: kind}
		base := entity.FileBase(e.QualifiedName)
		switch m[1] {
		case "~":
			e.Classification = Modified
			patch, err := os.ReadFile(filepath.Join(dir, base+".diff"))
			if err != nil {
				return nil, fmt.Errorf("read patch for %s: %w", e.QualifiedName, err)
			}
			e.Patch = string(patch)
		case "+":
			e.Classification = Added
			body, err := os.ReadFile(filepath.Join(dir, base+".added"))
			if err != nil {
				return nil, fmt.Errorf("read added body for %s: %w", e.QualifiedName, err)
			}
			e.NewBody = entity.Normalize(string(body))
		case "-":
			e.Classification = Removed
			// Marker file content is ignored; only its listing matters.
		}
		ds.add(e)
	}

	return ds, nil
}

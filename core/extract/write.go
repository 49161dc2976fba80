package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plcsync/core/entity"
)

// metadataOrder fixes the emission order of informational headers so the
// written tree is deterministic.
var metadataOrder = []struct {
	key   string
	label string
}{
	{"revision", "Revision"},
	{"vendor", "Vendor"},
	{"description", "Description"},
}

// WriteDir materializes a snapshot as a per-artifact file tree under dir,
// the inverse of FromDir. Existing files for the same artifacts are
// overwritten; unrelated files in dir are left alone.
func WriteDir(set *entity.EntitySet, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	for _, name := range set.Names() {
		unit, _ := set.Get(name)
		path := filepath.Join(dir, ArtifactFilename(unit))
		if err := os.WriteFile(path, []byte(RenderArtifact(unit)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// ArtifactFilename returns the export filename for a unit, flattening
// method names back to {Owner}_{Method}.
func ArtifactFilename(unit entity.CodeUnit) string {
	return entity.FileBase(unit.QualifiedName) + unit.Kind.Suffix()
}

// RenderArtifact produces the full file content for a unit: identity
// headers, informational metadata headers, a blank line, then the body.
func RenderArtifact(unit entity.CodeUnit) string {
	var b strings.Builder

	switch unit.Kind {
	case entity.KindProgram:
		fmt.Fprintf(&b, "(* POU: %s *)\n(* Type: program *)\n", unit.QualifiedName)
	case entity.KindFunctionBlock:
		fmt.Fprintf(&b, "(* POU: %s *)\n(* Type: functionBlock *)\n", unit.QualifiedName)
	case entity.KindFunction:
		fmt.Fprintf(&b, "(* POU: %s *)\n(* Type: function *)\n", unit.QualifiedName)
	case entity.KindGlobalVariableList:
		fmt.Fprintf(&b, "(* GVL: %s *)\n", unit.QualifiedName)
	case entity.KindMethod:
		owner, local := entity.SplitQualified(unit.QualifiedName)
		fmt.Fprintf(&b, "(* Method: %s in POU: %s *)\n", local, owner)
	case entity.KindAddOnInstruction:
		fmt.Fprintf(&b, "(* AOI: %s *)\n", unit.QualifiedName)
	case entity.KindUserDefinedType:
		fmt.Fprintf(&b, "(* UDT: %s *)\n", unit.QualifiedName)
	}

	for _, meta := range metadataOrder {
		if v, ok := unit.Metadata[meta.key]; ok && v != "" {
			fmt.Fprintf(&b, "(* %s: %s *)\n", meta.label, v)
		}
	}

	b.WriteString("\n")
	b.WriteString(unit.Body)
	return b.String()
}

package entity

import (
	"sort"
	"strings"
)

// Kind identifies the artifact type of a CodeUnit.
type Kind string

const (
	// KindProgram is a PLC program POU.
	KindProgram Kind = "program"
	// KindFunctionBlock is a function block POU.
	KindFunctionBlock Kind = "function_block"
	// KindFunction is a function POU.
	KindFunction Kind = "function"
	// KindGlobalVariableList is a named block of global variable declarations.
	KindGlobalVariableList Kind = "gvl"
	// KindMethod is a method owned by a POU.
	KindMethod Kind = "method"
	// KindAddOnInstruction is an instruction definition (Rockwell AOI).
	KindAddOnInstruction Kind = "aoi"
	// KindUserDefinedType is a structured type definition (Rockwell UDT).
	KindUserDefinedType Kind = "udt"
)

// Suffix returns the on-disk filename suffix for the kind, including the
// leading dot (e.g. ".prg.st").
func (k Kind) Suffix() string {
	switch k {
	case KindProgram:
		return ".prg.st"
	case KindFunctionBlock:
		return ".fb.st"
	case KindFunction:
		return ".fun.st"
	case KindGlobalVariableList:
		return ".gvl.st"
	case KindMethod:
		return ".meth.st"
	case KindAddOnInstruction:
		return ".aoi.sc"
	case KindUserDefinedType:
		return ".udt.sc"
	}
	return ".st"
}

// String returns the short human-readable name of the kind.
func (k Kind) String() string {
	return string(k)
}

// kindSuffixes maps filename suffixes back to kinds. Order matters when
// matching: longer suffixes are checked before shorter ones.
var kindSuffixes = []struct {
	suffix string
	kind   Kind
}{
	{".meth.st", KindMethod},
	{".prg.st", KindProgram},
	{".gvl.st", KindGlobalVariableList},
	{".fun.st", KindFunction},
	{".fb.st", KindFunctionBlock},
	{".aoi.sc", KindAddOnInstruction},
	{".udt.sc", KindUserDefinedType},
}

// KindFromFilename determines the artifact kind and base name from an export
// filename (e.g. "Motor.fb.st" -> "Motor", KindFunctionBlock). The second
// return value is false if the filename carries no recognized suffix.
func KindFromFilename(filename string) (base string, kind Kind, ok bool) {
	for _, ks := range kindSuffixes {
		if strings.HasSuffix(filename, ks.suffix) {
			return strings.TrimSuffix(filename, ks.suffix), ks.kind, true
		}
	}
	return "", "", false
}

// MethodQualifiedName builds the qualified name "Owner/Method" from the
// method file base name "{Owner}_{Method}". The owner may itself contain
// underscores, so the split is on the last one.
func MethodQualifiedName(fileBase string) (string, bool) {
	idx := strings.LastIndex(fileBase, "_")
	if idx <= 0 || idx == len(fileBase)-1 {
		return "", false
	}
	return fileBase[:idx] + "/" + fileBase[idx+1:], true
}

// SplitQualified splits a qualified name into owner and local name. For
// top-level artifacts owner is empty and local is the full name.
func SplitQualified(qualifiedName string) (owner, local string) {
	if idx := strings.Index(qualifiedName, "/"); idx >= 0 {
		return qualifiedName[:idx], qualifiedName[idx+1:]
	}
	return "", qualifiedName
}

// FileBase returns the on-disk base name (without suffix) for a qualified
// name: methods flatten "Owner/Method" back to "Owner_Method".
func FileBase(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, "/", "_")
}

// CodeUnit is one named code artifact within a snapshot.
type CodeUnit struct {
	// QualifiedName uniquely identifies the unit within its EntitySet.
	QualifiedName string

	// Kind is the artifact type.
	Kind Kind

	// Metadata carries informational header values (revision, vendor,
	// description). It is never part of the diffed body.
	Metadata map[string]string

	// Body is the normalized artifact text. For POUs it is the declaration
	// and implementation sections concatenated with their section markers;
	// for a GVL it is the full variable declaration block.
	Body string
}

// EntitySet is an immutable snapshot of one project state: qualified name to
// CodeUnit, unique keys. Build one with a Builder or FromUnits.
type EntitySet struct {
	units map[string]CodeUnit
}

// Get returns the unit for a qualified name.
func (s *EntitySet) Get(qualifiedName string) (CodeUnit, bool) {
	u, ok := s.units[qualifiedName]
	return u, ok
}

// Has reports whether a qualified name exists in the snapshot.
func (s *EntitySet) Has(qualifiedName string) bool {
	_, ok := s.units[qualifiedName]
	return ok
}

// Names returns all qualified names in sorted order. Iterating over Names
// keeps every consumer deterministic regardless of extraction order.
func (s *EntitySet) Names() []string {
	names := make([]string, 0, len(s.units))
	for name := range s.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of units in the snapshot.
func (s *EntitySet) Len() int {
	return len(s.units)
}

// Builder accumulates units for a new EntitySet, rejecting duplicates.
// A snapshot must not contain two artifacts claiming the same identity.
type Builder struct {
	units map[string]CodeUnit
}

// NewBuilder creates an empty snapshot builder.
func NewBuilder() *Builder {
	return &Builder{units: make(map[string]CodeUnit)}
}

// Add normalizes the unit body and inserts it. It returns a
// *DuplicateKeyError if the qualified name is already present.
func (b *Builder) Add(unit CodeUnit) error {
	if _, exists := b.units[unit.QualifiedName]; exists {
		return &DuplicateKeyError{QualifiedName: unit.QualifiedName}
	}
	unit.Body = Normalize(unit.Body)
	b.units[unit.QualifiedName] = unit
	return nil
}

// Build finalizes the snapshot. The builder must not be reused afterwards.
func (b *Builder) Build() *EntitySet {
	set := &EntitySet{units: b.units}
	b.units = nil
	return set
}

// FromUnits builds an EntitySet directly from a list of units. It is the
// short form used by the patcher (which derives sets from existing ones) and
// by tests; duplicate names surface as a *DuplicateKeyError.
func FromUnits(units []CodeUnit) (*EntitySet, error) {
	b := NewBuilder()
	for _, u := range units {
		if err := b.Add(u); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

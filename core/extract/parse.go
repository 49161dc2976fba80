package extract

import (
	"regexp"
	"strings"

	"plcsync/core/entity"
)

// headerPattern matches metadata header comments like (* Revision: 1.2 *).
var headerPattern = regexp.MustCompile(`^\(\*\s*([A-Za-z_]+):\s*(.*?)\s*\*\)$`)

// identityKeys are header keys that restate what the filename already
// encodes; they are stripped but not kept as metadata.
var identityKeys = map[string]bool{
	"pou":    true,
	"type":   true,
	"gvl":    true,
	"method": true,
	"aoi":    true,
	"udt":    true,
}

// parseArtifact builds a CodeUnit from the raw content of one artifact file.
// The leading run of (* Key: Value *) header comments and blank lines is
// consumed into metadata; everything after it is the body.
func parseArtifact(qualifiedName string, kind entity.Kind, content string) entity.CodeUnit {
	normalized := entity.Normalize(content)
	lines := entity.Lines(normalized)

	var metadata map[string]string
	bodyStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			bodyStart = i + 1
			continue
		}
		m := headerPattern.FindStringSubmatch(trimmed)
		if m == nil {
			break
		}
		key := strings.ToLower(m[1])
		if !identityKeys[key] {
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[key] = m[2]
		}
		bodyStart = i + 1
	}

	body := strings.Join(lines[bodyStart:], "\n")
	return entity.CodeUnit{
		QualifiedName: qualifiedName,
		Kind:          kind,
		Metadata:      metadata,
		Body:          body,
	}
}

// unitFromFile maps an export filename plus its content to a CodeUnit.
// Unrecognized filenames return ok=false and are skipped by the callers;
// a method filename that cannot be split into owner and method is a
// ParseError.
func unitFromFile(filename, content string) (entity.CodeUnit, bool, error) {
	base, kind, ok := entity.KindFromFilename(filename)
	if !ok {
		return entity.CodeUnit{}, false, nil
	}

	qualifiedName := base
	if kind == entity.KindMethod {
		qn, ok := entity.MethodQualifiedName(base)
		if !ok {
			return entity.CodeUnit{}, false, &entity.ParseError{
				Source:  filename,
				Message: "method filename must be {Owner}_{Method}.meth.st",
			}
		}
		qualifiedName = qn
	}

	return parseArtifact(qualifiedName, kind, content), true, nil
}

// composePOUBody assembles declaration and implementation sections into the
// canonical body form the exporter writes.
func composePOUBody(decl, impl string) string {
	var b strings.Builder
	if decl != "" {
		b.WriteString("(* DECLARATION *)\n")
		b.WriteString(decl)
		b.WriteString("\n\n")
	}
	if impl != "" {
		b.WriteString("(* IMPLEMENTATION *)\n")
		b.WriteString(impl)
		b.WriteString("\n")
	}
	return b.String()
}

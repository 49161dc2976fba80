package entity

import (
	"regexp"
	"strings"
)

var gvlDeclPattern = regexp.MustCompile(`^\s*(\w+)\s*(?:AT\s+%\S+\s*)?:\s*[^;]+;`)

// GVLVariableNames extracts the declared variable names from a GVL body
// (the text between VAR_GLOBAL and END_VAR). It is a shallow parse: one
// declaration per line, attribute pragmas and comments skipped. The
// reconciler uses it to surface variables that a full-replacement update
// would drop.
func GVLVariableNames(body string) []string {
	var names []string
	inBlock := false
	for _, line := range Lines(body) {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "VAR_GLOBAL"):
			inBlock = true
			continue
		case strings.HasPrefix(upper, "END_VAR"):
			inBlock = false
			continue
		}
		if !inBlock {
			continue
		}
		if m := gvlDeclPattern.FindStringSubmatch(trimmed); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

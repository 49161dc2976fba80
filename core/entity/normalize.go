package entity

import "strings"

// Normalize applies the canonical text rules to an artifact body: CRLF and
// lone CR collapse to \n, trailing whitespace is stripped from every line,
// and exactly one trailing newline is enforced. Normalize is idempotent.
func Normalize(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n")
	return out + "\n"
}

// Lines splits a normalized body into its lines without the trailing empty
// element produced by the final newline.
func Lines(body string) []string {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

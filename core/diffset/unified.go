package diffset

import (
	"bytes"

	"github.com/sourcegraph/go-diff/diff"

	"plcsync/core/entity"
)

// contextLines is the fixed context window around changed lines.
const contextLines = 3

// Unified produces a unified diff of two normalized bodies, with the
// qualified name as the synthetic path in the headers. Identical bodies
// yield an empty string.
func Unified(qualifiedName, oldBody, newBody string) (string, error) {
	ops := diffOps(entity.Lines(oldBody), entity.Lines(newBody))
	hunks := buildHunks(ops)
	if len(hunks) == 0 {
		return "", nil
	}

	out, err := diff.PrintFileDiff(&diff.FileDiff{
		OrigName: "a/" + qualifiedName,
		NewName:  "b/" + qualifiedName,
		Hunks:    hunks,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// lineOp is one line of an edit script: ' ' kept, '-' removed, '+' added.
type lineOp struct {
	kind byte
	text string
}

// diffOps computes a line-level edit script via longest common subsequence.
// Ties break toward removal first, which keeps the script deterministic.
func diffOps(a, b []string) []lineOp {
	m, n := len(a), len(b)
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	ops := make([]lineOp, 0, m+n)
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			ops = append(ops, lineOp{' ', a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, lineOp{'-', a[i]})
			i++
		default:
			ops = append(ops, lineOp{'+', b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, lineOp{'-', a[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, lineOp{'+', b[j]})
	}
	return ops
}

// buildHunks groups an edit script into hunks with contextLines of context,
// merging changes whose context windows would overlap.
func buildHunks(ops []lineOp) []*diff.Hunk {
	var changed []int
	for i, op := range ops {
		if op.kind != ' ' {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	type span struct{ start, end int }
	var spans []span
	cur := span{changed[0], changed[0]}
	for _, idx := range changed[1:] {
		if idx-cur.end-1 <= 2*contextLines {
			cur.end = idx
		} else {
			spans = append(spans, cur)
			cur = span{idx, idx}
		}
	}
	spans = append(spans, cur)

	// origAt[i]/newAt[i] are the line counts consumed before op i.
	origAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	o, n := 0, 0
	for i, op := range ops {
		origAt[i], newAt[i] = o, n
		switch op.kind {
		case ' ':
			o++
			n++
		case '-':
			o++
		case '+':
			n++
		}
	}
	origAt[len(ops)], newAt[len(ops)] = o, n

	hunks := make([]*diff.Hunk, 0, len(spans))
	for _, s := range spans {
		start := s.start - contextLines
		if start < 0 {
			start = 0
		}
		end := s.end + contextLines
		if end > len(ops)-1 {
			end = len(ops) - 1
		}

		var body bytes.Buffer
		for _, op := range ops[start : end+1] {
			body.WriteByte(op.kind)
			body.WriteString(op.text)
			body.WriteByte('\n')
		}

		origLines := origAt[end+1] - origAt[start]
		newLines := newAt[end+1] - newAt[start]
		origStart := origAt[start] + 1
		newStart := newAt[start] + 1
		// Empty-side hunks anchor on the preceding line, per the format.
		if origLines == 0 {
			origStart = origAt[start]
		}
		if newLines == 0 {
			newStart = newAt[start]
		}

		hunks = append(hunks, &diff.Hunk{
			OrigStartLine: int32(origStart),
			OrigLines:     int32(origLines),
			NewStartLine:  int32(newStart),
			NewLines:      int32(newLines),
			Body:          body.Bytes(),
		})
	}
	return hunks
}

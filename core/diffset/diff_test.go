package diffset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plcsync/core/entity"
)

func mustSet(t *testing.T, units ...entity.CodeUnit) *entity.EntitySet {
	t.Helper()
	set, err := entity.FromUnits(units)
	require.NoError(t, err)
	return set
}

func TestDiff(t *testing.T) {
	t.Run("identical snapshots produce an empty set", func(t *testing.T) {
		a := mustSet(t, entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 1;\n"})
		b := mustSet(t, entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 1;\n"})

		ds, err := Diff(a, b)
		require.NoError(t, err)
		assert.True(t, ds.Empty())
		assert.Equal(t, Summary{}, ds.Summary)
	})

	t.Run("classifies added removed and modified", func(t *testing.T) {
		base := mustSet(t,
			entity.CodeUnit{QualifiedName: "Gone", Kind: entity.KindFunction, Body: "x := 1;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 1;\n"},
			entity.CodeUnit{QualifiedName: "Same", Kind: entity.KindFunctionBlock, Body: "y := 2;\n"},
		)
		target := mustSet(t,
			entity.CodeUnit{QualifiedName: "Fresh", Kind: entity.KindFunctionBlock, Body: "z := 3;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := 2;\n"},
			entity.CodeUnit{QualifiedName: "Same", Kind: entity.KindFunctionBlock, Body: "y := 2;\n"},
		)

		ds, err := Diff(base, target)
		require.NoError(t, err)

		require.Len(t, ds.Entries, 3)
		assert.Equal(t, "Fresh", ds.Entries[0].QualifiedName)
		assert.Equal(t, Added, ds.Entries[0].Classification)
		assert.Equal(t, "z := 3;\n", ds.Entries[0].NewBody)
		assert.Equal(t, "Gone", ds.Entries[1].QualifiedName)
		assert.Equal(t, Removed, ds.Entries[1].Classification)
		assert.Equal(t, "PLC_PRG", ds.Entries[2].QualifiedName)
		assert.Equal(t, Modified, ds.Entries[2].Classification)
		assert.Equal(t, Summary{Added: 1, Removed: 1, Modified: 1}, ds.Summary)
	})

	t.Run("kind change splits into removed plus added", func(t *testing.T) {
		base := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindFunctionBlock, Body: "a;\n"})
		target := mustSet(t, entity.CodeUnit{QualifiedName: "Motor", Kind: entity.KindProgram, Body: "a;\n"})

		ds, err := Diff(base, target)
		require.NoError(t, err)

		require.Len(t, ds.Entries, 2)
		assert.Equal(t, Removed, ds.Entries[0].Classification)
		assert.Equal(t, entity.KindFunctionBlock, ds.Entries[0].Kind)
		assert.Equal(t, Added, ds.Entries[1].Classification)
		assert.Equal(t, entity.KindProgram, ds.Entries[1].Kind)
	})

	t.Run("one line change yields a single modified entry", func(t *testing.T) {
		base := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "SEVEN: INT;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := i + 1;\n"},
		)
		target := mustSet(t,
			entity.CodeUnit{QualifiedName: "GVL", Kind: entity.KindGlobalVariableList, Body: "SEVEN: INT;\n"},
			entity.CodeUnit{QualifiedName: "PLC_PRG", Kind: entity.KindProgram, Body: "i := i + 2;\n"},
		)

		ds, err := Diff(base, target)
		require.NoError(t, err)

		require.Len(t, ds.Entries, 1)
		e := ds.Entries[0]
		assert.Equal(t, "PLC_PRG", e.QualifiedName)
		assert.Equal(t, Modified, e.Classification)
		assert.Contains(t, e.Patch, "--- a/PLC_PRG")
		assert.Contains(t, e.Patch, "+++ b/PLC_PRG")
		assert.Contains(t, e.Patch, "-i := i + 1;")
		assert.Contains(t, e.Patch, "+i := i + 2;")
	})

	t.Run("output is deterministic", func(t *testing.T) {
		base := mustSet(t,
			entity.CodeUnit{QualifiedName: "A", Kind: entity.KindProgram, Body: "one;\ntwo;\n"},
			entity.CodeUnit{QualifiedName: "B", Kind: entity.KindFunction, Body: "x;\n"},
		)
		target := mustSet(t,
			entity.CodeUnit{QualifiedName: "A", Kind: entity.KindProgram, Body: "one;\nthree;\n"},
			entity.CodeUnit{QualifiedName: "C", Kind: entity.KindFunction, Body: "y;\n"},
		)

		first, err := Diff(base, target)
		require.NoError(t, err)
		second, err := Diff(base, target)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestUnified(t *testing.T) {
	t.Run("identical bodies produce no patch", func(t *testing.T) {
		patch, err := Unified("PLC_PRG", "i := 1;\n", "i := 1;\n")
		require.NoError(t, err)
		assert.Empty(t, patch)
	})

	t.Run("changes carry three context lines", func(t *testing.T) {
		oldBody := "l1;\nl2;\nl3;\nl4;\nl5;\nl6;\nl7;\nl8;\nl9;\n"
		newBody := "l1;\nl2;\nl3;\nl4;\nCHANGED;\nl6;\nl7;\nl8;\nl9;\n"

		patch, err := Unified("Motor", oldBody, newBody)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(patch, "\n"), "\n")
		// header(2) + hunk header(1) + 3 context + del + add + 3 context
		require.Len(t, lines, 11)
		assert.Equal(t, " l2;", lines[3])
		assert.Equal(t, "-l5;", lines[6])
		assert.Equal(t, "+CHANGED;", lines[7])
		assert.Equal(t, " l8;", lines[10])
	})

	t.Run("distant changes split into separate hunks", func(t *testing.T) {
		var oldLines, newLines []string
		for i := 0; i < 30; i++ {
			line := "line;"
			oldLines = append(oldLines, line)
			newLines = append(newLines, line)
		}
		oldLines[0] = "first-old;"
		newLines[0] = "first-new;"
		oldLines[29] = "last-old;"
		newLines[29] = "last-new;"

		patch, err := Unified("Motor", strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(patch, "@@ -"))
	})
}

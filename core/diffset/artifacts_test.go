package diffset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plcsync/core/entity"
)

func TestArtifactsRoundTrip(t *testing.T) {
	base := mustSet(t,
		entity.CodeUnit{QualifiedName: "Gone", Kind: entity.KindFunction, Body: "x := 1;\n"},
		entity.CodeUnit{QualifiedName: "Motor/Start", Kind: entity.KindMethod, Body: "speed := 0;\n"},
	)
	target := mustSet(t,
		entity.CodeUnit{QualifiedName: "Fresh", Kind: entity.KindFunctionBlock, Body: "z := 3;\n"},
		entity.CodeUnit{QualifiedName: "Motor/Start", Kind: entity.KindMethod, Body: "speed := 1;\n"},
	)

	ds, err := Diff(base, target)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteDir(ds, dir))

	t.Run("per-entry files and summary exist", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(dir, "Fresh.added"))
		assert.FileExists(t, filepath.Join(dir, "Gone.removed"))
		assert.FileExists(t, filepath.Join(dir, "Motor_Start.diff"))

		summary, err := os.ReadFile(filepath.Join(dir, SummaryFilename))
		require.NoError(t, err)
		assert.Equal(t,
			"+ Fresh (function_block)\n- Gone (function)\n~ Motor/Start (method)\nmodified=1 added=1 removed=1\n",
			string(summary))
	})

	t.Run("read restores the diff set", func(t *testing.T) {
		loaded, err := ReadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, ds, loaded)
	})
}

func TestReadDirErrors(t *testing.T) {
	t.Run("missing summary", func(t *testing.T) {
		_, err := ReadDir(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed summary line", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SummaryFilename), []byte("garbage\n"), 0o644))
		_, err := ReadDir(dir)
		assert.ErrorContains(t, err, "malformed summary line")
	})

	t.Run("unknown kind", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, SummaryFilename), []byte("+ X (mystery)\n"), 0o644))
		_, err := ReadDir(dir)
		assert.ErrorContains(t, err, "unknown kind")
	})
}

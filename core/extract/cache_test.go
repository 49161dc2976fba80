package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PLC_PRG.prg.st")
	require.NoError(t, os.WriteFile(path, []byte("i := 1;\n"), 0o644))

	cache := NewSnapshotCache(time.Minute)
	ctx := context.Background()

	first, err := cache.Get(ctx, nil, dir)
	require.NoError(t, err)

	// A change on disk is invisible until the entry is invalidated.
	require.NoError(t, os.WriteFile(path, []byte("i := 2;\n"), 0o644))

	cached, err := cache.Get(ctx, nil, dir)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	cache.Invalidate(dir)
	fresh, err := cache.Get(ctx, nil, dir)
	require.NoError(t, err)
	unit, _ := fresh.Get("PLC_PRG")
	assert.Equal(t, "i := 2;\n", unit.Body)
}

func TestSnapshotCacheDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PLC_PRG.prg.st")
	require.NoError(t, os.WriteFile(path, []byte("i := 1;\n"), 0o644))

	cache := NewSnapshotCache(0)
	ctx := context.Background()

	_, err := cache.Get(ctx, nil, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("i := 2;\n"), 0o644))
	fresh, err := cache.Get(ctx, nil, dir)
	require.NoError(t, err)
	unit, _ := fresh.Get("PLC_PRG")
	assert.Equal(t, "i := 2;\n", unit.Body)
}

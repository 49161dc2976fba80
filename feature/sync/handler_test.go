package sync

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plcsync/core/extract"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc := NewService(nil, extract.NewSnapshotCache(time.Minute), nil, "default", zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func writeSnapshot(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestHandleSnapshot(t *testing.T) {
	app := setupTestApp(t)
	dir := writeSnapshot(t, map[string]string{
		"PLC_PRG.prg.st": "i := 1;\n",
		"GVL.gvl.st":     "VAR_GLOBAL\n\tSEVEN: INT;\nEND_VAR\n",
	})

	req := httptest.NewRequest("GET", "/sync/snapshot?source="+dir, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(2), body["count"])

	units := body["units"].([]any)
	first := units[0].(map[string]any)
	assert.Equal(t, "GVL", first["qualified_name"])
}

func TestHandleSnapshotMissingSource(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/snapshot", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleDiff(t *testing.T) {
	app := setupTestApp(t)
	base := writeSnapshot(t, map[string]string{"PLC_PRG.prg.st": "i := i + 1;\n"})
	target := writeSnapshot(t, map[string]string{"PLC_PRG.prg.st": "i := i + 2;\n"})

	payload, _ := json.Marshal(map[string]string{"base": base, "target": target})
	req := httptest.NewRequest("POST", "/sync/diff", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["modified"])

	entries := body["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "PLC_PRG", entry["qualified_name"])
	assert.Contains(t, entry["patch"], "+i := i + 2;")
}

func TestHandleDiffBadRequest(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest("POST", "/sync/diff", strings.NewReader(`{"base": ""}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandlePlan(t *testing.T) {
	app := setupTestApp(t)
	desired := writeSnapshot(t, map[string]string{
		"PLC_PRG.prg.st": "i := i + 2;\n",
		"GVL.gvl.st":     "VAR_GLOBAL\n\tSEVEN: INT;\nEND_VAR\n",
	})
	target := writeSnapshot(t, map[string]string{
		"PLC_PRG.prg.st": "i := i + 1;\n",
		"GVL.gvl.st":     "VAR_GLOBAL\n\tSEVEN: INT;\nEND_VAR\n",
		"OldFB.fb.st":    "x;\n",
	})

	payload, _ := json.Marshal(map[string]string{"desired": desired, "target": target})
	req := httptest.NewRequest("POST", "/sync/plan", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	plan := body["plan"].(map[string]any)
	summary := plan["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["updates"])
	assert.Equal(t, float64(1), summary["deletes"])

	rendered := body["rendered"].(string)
	assert.Contains(t, rendered, "~ update PLC_PRG")
	assert.Contains(t, rendered, "- delete OldFB")
}

func TestHandlePlanUnreadableSource(t *testing.T) {
	app := setupTestApp(t)
	target := writeSnapshot(t, nil)

	payload, _ := json.Marshal(map[string]string{"desired": "/does/not/exist", "target": target})
	req := httptest.NewRequest("POST", "/sync/plan", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestDbRefWithoutDatabase(t *testing.T) {
	svc := NewService(nil, extract.NewSnapshotCache(0), nil, "default", zap.NewNop())
	_, err := svc.Snapshot(context.Background(), "db://line-a")
	assert.ErrorIs(t, err, errNoDatabase)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/mindmap/internal/api"
	"github.com/gyaneshwarpardhi/mindmap/internal/config"
	"github.com/gyaneshwarpardhi/mindmap/internal/engine"
	"github.com/gyaneshwarpardhi/mindmap/internal/game"
	"github.com/gyaneshwarpardhi/mindmap/internal/oracle"
)

const testCatalog = `
version: v1
engine:
  oracle: allow_all
puzzles:
  - id: puzzle_ocean
    start_word: Ocean
    theme: Water
    time_limit_seconds: 60
`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "puzzles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	loader, err := config.NewLoader(path, config.Validate)
	require.NoError(t, err)

	reg := oracle.NewRegistry()
	reg.Register(oracle.NewAllowAll())
	reg.Register(oracle.NewHeuristic())

	eng := engine.New(context.Background(), loader, reg, loader.Config().Engine)
	t.Cleanup(eng.Shutdown)

	return api.New(eng, loader)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func decodeReason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.NotEmpty(t, envelope.Error)
	return envelope.Reason
}

func TestListPuzzles(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/v1/puzzles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Version string          `json:"version"`
		Puzzles []config.Puzzle `json:"puzzles"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "v1", resp.Version)
	require.Len(t, resp.Puzzles, 1)
	assert.Equal(t, "puzzle_ocean", resp.Puzzles[0].ID)
}

func TestGetPuzzle(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/v1/puzzles/puzzle_ocean", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/puzzles/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "puzzle_not_found", decodeReason(t, rec))
}

func TestStartSession(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/puzzles/puzzle_ocean/start", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	snap := decodeSnapshot(t, rec)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, "Ocean", snap.StartWord)
	assert.True(t, snap.Active)
	require.Len(t, snap.Nodes, 1)
	assert.False(t, snap.Nodes[0].X == 0 && snap.Nodes[0].Y == 0, "root is laid out before the snapshot leaves")

	rec = do(t, h, http.MethodPost, "/v1/puzzles/missing/start", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProposeConnection(t *testing.T) {
	h := newTestHandler(t)

	snap := decodeSnapshot(t, do(t, h, http.MethodPost, "/v1/puzzles/puzzle_ocean/start", nil))
	base := fmt.Sprintf("/v1/sessions/%s/connections", snap.SessionID)

	// Accepted.
	rec := do(t, h, http.MethodPost, base, map[string]string{
		"parent_node_id": "ocean", "new_word": "wave",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeSnapshot(t, rec)
	assert.Equal(t, 1, updated.MoveCount)
	assert.Len(t, updated.Nodes, 2)

	// Duplicate (case variant) → 409.
	rec = do(t, h, http.MethodPost, base, map[string]string{
		"parent_node_id": "ocean", "new_word": "Wave",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_word", decodeReason(t, rec))

	// Unknown parent → 422.
	rec = do(t, h, http.MethodPost, base, map[string]string{
		"parent_node_id": "nope", "new_word": "tide",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unknown_parent", decodeReason(t, rec))

	// Empty word → 422.
	rec = do(t, h, http.MethodPost, base, map[string]string{
		"parent_node_id": "ocean", "new_word": "  ",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "empty_word", decodeReason(t, rec))

	// Malformed body → 400.
	req := httptest.NewRequest(http.MethodPost, base, bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession(t *testing.T) {
	h := newTestHandler(t)

	snap := decodeSnapshot(t, do(t, h, http.MethodPost, "/v1/puzzles/puzzle_ocean/start", nil))

	rec := do(t, h, http.MethodGet, "/v1/sessions/"+snap.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSnapshot(t, rec)
	assert.Equal(t, snap.SessionID, got.SessionID)

	rec = do(t, h, http.MethodGet, "/v1/sessions/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", decodeReason(t, rec))
}

func TestSessionReplacedOnNewStart(t *testing.T) {
	h := newTestHandler(t)

	first := decodeSnapshot(t, do(t, h, http.MethodPost, "/v1/puzzles/puzzle_ocean/start", nil))
	_ = decodeSnapshot(t, do(t, h, http.MethodPost, "/v1/puzzles/puzzle_ocean/start", nil))

	rec := do(t, h, http.MethodPost, fmt.Sprintf("/v1/sessions/%s/connections", first.SessionID),
		map[string]string{"parent_node_id": "ocean", "new_word": "wave"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", decodeReason(t, rec))
}

func TestReloadPuzzles(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/v1/puzzles/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reloaded     bool `json:"reloaded"`
		PuzzlesCount int  `json:"puzzles_count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Reloaded)
	assert.Equal(t, 1, resp.PuzzlesCount)
}

func TestReloadPuzzles_InvalidCatalogRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	loader, err := config.NewLoader(path, config.Validate)
	require.NoError(t, err)
	reg := oracle.NewRegistry()
	reg.Register(oracle.NewAllowAll())
	reg.Register(oracle.NewHeuristic())
	eng := engine.New(context.Background(), loader, reg, loader.Config().Engine)
	t.Cleanup(eng.Shutdown)
	h := api.New(eng, loader)

	broken := `
version: v1
puzzles:
  - id: puzzle_broken
    start_word: "   "
    time_limit_seconds: 0
`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o644))

	rec := do(t, h, http.MethodPost, "/v1/puzzles/reload", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The old catalog keeps serving.
	rec = do(t, h, http.MethodGet, "/v1/puzzles/puzzle_ocean", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/v1/puzzles/puzzle_broken", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

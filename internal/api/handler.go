package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/mindmap/internal/config"
	"github.com/gyaneshwarpardhi/mindmap/internal/engine"
	"github.com/gyaneshwarpardhi/mindmap/internal/game"
	"github.com/gyaneshwarpardhi/mindmap/internal/metrics"
)

// connectionRequest is the propose-connection body. Field names follow the
// public API contract.
type connectionRequest struct {
	ParentNodeID string `json:"parent_node_id"`
	NewWord      string `json:"new_word"`
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/puzzles", h.listPuzzles)
	h.mux.HandleFunc("GET /v1/puzzles/{id}", h.getPuzzle)
	h.mux.HandleFunc("POST /v1/puzzles/{id}/start", h.startSession)
	h.mux.HandleFunc("POST /v1/puzzles/reload", h.reloadPuzzles)
	h.mux.HandleFunc("GET /v1/sessions/{id}", h.getSession)
	h.mux.HandleFunc("POST /v1/sessions/{id}/connections", h.proposeConnection)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /v1/puzzles — list the puzzle catalog.
func (h *Handler) listPuzzles(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": cfg.Version,
		"puzzles": cfg.Puzzles,
	})
}

// GET /v1/puzzles/{id} — fetch one puzzle's data.
func (h *Handler) getPuzzle(w http.ResponseWriter, r *http.Request) {
	p := h.loader.Config().PuzzleByID(r.PathValue("id"))
	if p == nil {
		writeRejection(w, game.Reject(game.ReasonPuzzleNotFound, "puzzle %q not found", r.PathValue("id")))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /v1/puzzles/{id}/start — start a session, replacing any current one.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.eng.StartSession(r.PathValue("id"))
	if err != nil {
		var rej *game.Rejection
		if errors.As(err, &rej) {
			writeRejection(w, rej)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// GET /v1/sessions/{id} — current session snapshot (expiry applied).
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.eng.Snapshot(r.PathValue("id"))
	if err != nil {
		h.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /v1/sessions/{id}/connections — propose a new word connection.
func (h *Handler) proposeConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	snap, err := h.eng.Propose(r.Context(), r.PathValue("id"), req.ParentNodeID, req.NewWord)
	if err != nil {
		h.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /v1/puzzles/reload — hot-reload the puzzle catalog from disk. An
// invalid catalog is rejected by the loader and the old one keeps serving.
func (h *Handler) reloadPuzzles(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":      true,
		"puzzles_count": len(cfg.Puzzles),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the oracle lookup queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.OracleQueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func (h *Handler) writeGameError(w http.ResponseWriter, err error) {
	var rej *game.Rejection
	if errors.As(err, &rej) {
		writeRejection(w, rej)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gyaneshwarpardhi/mindmap/internal/game"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope. Reason carries the game's
// rejection code when the error is an expected game outcome.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRejection maps a game rejection to its HTTP status and envelope.
func writeRejection(w http.ResponseWriter, rej *game.Rejection) {
	writeJSON(w, statusFor(rej.Reason), errorResponse{Error: rej.Message, Reason: string(rej.Reason)})
}

func statusFor(reason game.RejectReason) int {
	switch reason {
	case game.ReasonSessionNotFound, game.ReasonPuzzleNotFound:
		return http.StatusNotFound
	case game.ReasonDuplicateWord, game.ReasonSessionInactive:
		return http.StatusConflict
	case game.ReasonUnknownParent, game.ReasonEmptyWord, game.ReasonNotRelated:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

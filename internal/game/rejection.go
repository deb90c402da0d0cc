package game

import "fmt"

// RejectReason identifies why a proposed connection (or session lookup) was
// turned down. All reasons are expected, recoverable, user-facing outcomes.
type RejectReason string

const (
	ReasonUnknownParent   RejectReason = "unknown_parent"
	ReasonDuplicateWord   RejectReason = "duplicate_word"
	ReasonEmptyWord       RejectReason = "empty_word"
	ReasonNotRelated      RejectReason = "not_related"
	ReasonSessionInactive RejectReason = "session_inactive"
	ReasonSessionNotFound RejectReason = "session_not_found"
	ReasonPuzzleNotFound  RejectReason = "puzzle_not_found"
)

// Rejection is the typed outcome for invalid input. It implements error so it
// can travel through ordinary return paths, but it is never a process fault.
type Rejection struct {
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

// Reject builds a Rejection with a formatted message.
func Reject(reason RejectReason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

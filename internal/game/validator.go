package game

import "time"

// Validate decides whether (parentID, word) may become a new connection in s.
// It is a pure decision function: it never mutates the session, which keeps
// it independently testable. Checks run in a fixed order and short-circuit on
// the first failure. The semantic relatedness gate is not part of this
// pipeline; the engine consults the oracle separately so that no lock is held
// while waiting on it.
func Validate(s *Session, now time.Time, parentID, word string) *Rejection {
	if !s.ActiveAt(now) {
		return Reject(ReasonSessionInactive, "time is up, the session is no longer active")
	}
	if _, ok := s.Nodes[parentID]; !ok {
		return Reject(ReasonUnknownParent, "parent node %q not found in the map", parentID)
	}
	w := Normalize(word)
	if w == "" {
		return Reject(ReasonEmptyWord, "word must not be empty")
	}
	// Connecting a word to itself is caught here too: the parent is a node,
	// so its normalized word is already present.
	if _, exists := s.Nodes[w]; exists {
		return Reject(ReasonDuplicateWord, "word %q already exists in the map", w)
	}
	return nil
}

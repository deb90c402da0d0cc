package game

import (
	"time"
	"unicode/utf8"
)

// MovePoints returns the score increment for one accepted word: a base award
// per letter plus a bonus for every second still on the clock. The increment
// is always positive, so the score never decreases across accepted moves.
func MovePoints(word string, remaining time.Duration) int {
	base := 10 * utf8.RuneCountInString(Normalize(word))
	bonus := int(remaining.Seconds())
	if bonus < 0 {
		bonus = 0
	}
	return base + bonus
}

// ApplyMove records one accepted connection: the move counter advances by
// exactly one and the score is updated. Rejected attempts and expiry never
// touch either value.
func (s *Session) ApplyMove(n *Node, now time.Time) {
	s.MoveCount++
	s.Score += MovePoints(n.Word, Remaining(s, now))
}

package game

import "time"

// The session clock is a pure function of wall-clock time: expiry can be
// re-evaluated at any point without drift, and no background timer exists in
// the core. The only transition it drives is Active → Inactive, one-way.

// Remaining returns how much play time is left at now, floored at zero.
func Remaining(s *Session, now time.Time) time.Duration {
	rem := s.TimeLimit - now.Sub(s.StartedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// Expired reports whether the time limit has elapsed at now.
func Expired(s *Session, now time.Time) bool {
	return now.Sub(s.StartedAt) >= s.TimeLimit
}

// ActiveAt reports whether the session accepts mutation at now. A session
// that has already flipped inactive never comes back.
func (s *Session) ActiveAt(now time.Time) bool {
	return s.Active && !Expired(s, now)
}

// ExpireIfDue applies the Active → Inactive transition if the limit has
// elapsed. It is idempotent: the transition fires at most once, and the
// return value reports whether this call fired it.
func (s *Session) ExpireIfDue(now time.Time) bool {
	if s.Active && Expired(s, now) {
		s.Active = false
		return true
	}
	return false
}

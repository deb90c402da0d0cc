// Package engine owns the session lifecycle: it starts sessions, routes
// connection proposals through validation, the relatedness oracle, and the
// graph store, and keeps layout positions current. At most one session is
// live at a time; starting a new one atomically discards the previous.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/mindmap/internal/config"
	"github.com/gyaneshwarpardhi/mindmap/internal/game"
	"github.com/gyaneshwarpardhi/mindmap/internal/layout"
	"github.com/gyaneshwarpardhi/mindmap/internal/metrics"
	"github.com/gyaneshwarpardhi/mindmap/internal/oracle"
)

// liveSession pairs the session state with its resolved oracle and the mutex
// that serializes mutation. The pointer itself doubles as the session's
// identity: a proposal whose liveSession is no longer current resolves to
// SessionNotFound even if its oracle verdict arrives late.
type liveSession struct {
	mu  sync.Mutex
	s   *game.Session
	orc oracle.Oracle
}

type lookupWork struct {
	orc        oracle.Oracle
	parentWord string
	word       string
	theme      string
	resultC    chan lookupResult
}

type lookupResult struct {
	related bool
	err     error
}

// Engine processes game operations against the single current session.
type Engine struct {
	current atomic.Pointer[liveSession]
	loader  *config.Loader
	oracles *oracle.Registry
	pool    *workerPool[*lookupWork]
	conf    config.EngineConf
	now     func() time.Time
}

// New creates an Engine using conf and starts the oracle worker pool.
func New(ctx context.Context, loader *config.Loader, reg *oracle.Registry, conf config.EngineConf) *Engine {
	e := &Engine{
		loader:  loader,
		oracles: reg,
		conf:    conf,
		now:     time.Now,
	}
	timeout := time.Duration(conf.OracleTimeoutMs) * time.Millisecond
	e.pool = newWorkerPool(ctx, conf.OracleWorkers, conf.OracleWorkers*10, func(ctx context.Context, w *lookupWork) {
		start := time.Now()
		lctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		related, err := w.orc.Related(lctx, w.parentWord, w.word, w.theme)
		metrics.OracleLookupDuration.Observe(float64(time.Since(start).Milliseconds()))
		w.resultC <- lookupResult{related: related, err: err}
	})
	return e
}

// SetClock overrides the engine's time source. Intended for tests.
func (e *Engine) SetClock(fn func() time.Time) {
	e.now = fn
}

// StartSession creates a fresh session for puzzleID and atomically replaces
// any previous one. In-flight proposals against the old session become moot.
func (e *Engine) StartSession(puzzleID string) (*game.Snapshot, error) {
	cfg := e.loader.Config()
	p := cfg.PuzzleByID(puzzleID)
	if p == nil {
		return nil, game.Reject(game.ReasonPuzzleNotFound, "puzzle %q not found", puzzleID)
	}
	name := p.Oracle
	if name == "" {
		name = cfg.Engine.Oracle
	}
	orc, err := e.oracles.Get(name)
	if err != nil {
		return nil, fmt.Errorf("puzzle %s: %w", puzzleID, err)
	}

	now := e.now()
	s := game.NewSession(p.ID, p.StartWord, p.Theme, time.Duration(p.TimeLimitSeconds)*time.Second, now)
	s.ApplyPositions(layout.Compute(s.NodesBySeq(), nil))

	e.current.Store(&liveSession{s: s, orc: orc})
	metrics.SessionsStarted.Inc()
	slog.Info("session started",
		"session_id", s.ID, "puzzle_id", p.ID, "start_word", s.StartWord,
		"time_limit_s", p.TimeLimitSeconds, "oracle", name)
	return s.Snapshot(now), nil
}

// Snapshot returns the current state of the session, applying expiry first.
func (e *Engine) Snapshot(sessionID string) (*game.Snapshot, error) {
	ls, rej := e.lookupSession(sessionID)
	if rej != nil {
		return nil, rej
	}
	now := e.now()
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.s.ExpireIfDue(now) {
		metrics.SessionsExpired.Inc()
		slog.Info("session expired", "session_id", ls.s.ID, "score", ls.s.Score, "moves", ls.s.MoveCount)
	}
	return ls.s.Snapshot(now), nil
}

// Propose submits (parentID, word) as a new connection. On acceptance the
// updated snapshot is returned; otherwise the error is a *game.Rejection
// carrying the reason code and no state changes.
//
// The oracle is consulted between two validation passes, with no lock held
// while waiting on it. The second pass re-checks session identity, expiry,
// and uniqueness under the mutex, so a proposal racing expiry or a session
// swap deterministically resolves to a rejection.
func (e *Engine) Propose(ctx context.Context, sessionID, parentID, word string) (*game.Snapshot, error) {
	ls, rej := e.lookupSession(sessionID)
	if rej != nil {
		return nil, e.rejected(rej)
	}

	now := e.now()
	ls.mu.Lock()
	if ls.s.ExpireIfDue(now) {
		metrics.SessionsExpired.Inc()
		slog.Info("session expired", "session_id", ls.s.ID, "score", ls.s.Score, "moves", ls.s.MoveCount)
	}
	if rej := game.Validate(ls.s, now, parentID, word); rej != nil {
		ls.mu.Unlock()
		return nil, e.rejected(rej)
	}
	parentWord := ls.s.Nodes[parentID].Word
	theme := ls.s.Theme
	ls.mu.Unlock()

	if !e.lookupRelated(ctx, ls.orc, parentWord, word, theme) {
		return nil, e.rejected(game.Reject(game.ReasonNotRelated,
			"connection between %q and %q is not considered valid", parentWord, word))
	}

	now = e.now()
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if e.current.Load() != ls {
		// The session was replaced while we waited on the oracle; the
		// verdict must not be applied to the new session.
		return nil, e.rejected(game.Reject(game.ReasonSessionNotFound, "session %q is no longer current", sessionID))
	}
	if ls.s.ExpireIfDue(now) {
		metrics.SessionsExpired.Inc()
	}
	if rej := game.Validate(ls.s, now, parentID, word); rej != nil {
		return nil, e.rejected(rej)
	}

	n, rej := ls.s.AddNode(parentID, word)
	if rej != nil {
		return nil, e.rejected(rej)
	}
	ls.s.ApplyMove(n, now)
	ls.s.ApplyPositions(layout.Compute(ls.s.NodesBySeq(), ls.s.Positions()))

	metrics.ConnectionsAccepted.Inc()
	slog.Info("connection accepted",
		"session_id", ls.s.ID, "parent", parentID, "word", n.ID,
		"score", ls.s.Score, "moves", ls.s.MoveCount)
	return ls.s.Snapshot(now), nil
}

// QueueUtilization returns oracle queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the oracle pool gracefully.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

func (e *Engine) lookupSession(sessionID string) (*liveSession, *game.Rejection) {
	ls := e.current.Load()
	if ls == nil || ls.s.ID != sessionID {
		return nil, game.Reject(game.ReasonSessionNotFound, "session %q not found", sessionID)
	}
	return ls, nil
}

// lookupRelated runs the oracle off the mutation path and applies the
// fail-open policy on queue overflow, timeout, or oracle error.
func (e *Engine) lookupRelated(ctx context.Context, orc oracle.Oracle, parentWord, word, theme string) bool {
	resultC := make(chan lookupResult, 1)
	w := &lookupWork{orc: orc, parentWord: parentWord, word: word, theme: theme, resultC: resultC}
	if !e.pool.Submit(w) {
		slog.Warn("oracle queue full", "oracle", orc.Name())
		return e.conf.FailOpen
	}

	timeout := time.Duration(e.conf.OracleTimeoutMs) * time.Millisecond
	select {
	case res := <-resultC:
		if res.err != nil {
			slog.Warn("oracle lookup failed", "oracle", orc.Name(), "err", res.err)
			return e.conf.FailOpen
		}
		return res.related
	case <-time.After(timeout):
		slog.Warn("oracle lookup timeout", "oracle", orc.Name(), "timeout", timeout)
		return e.conf.FailOpen
	case <-ctx.Done():
		return e.conf.FailOpen
	}
}

func (e *Engine) rejected(rej *game.Rejection) *game.Rejection {
	metrics.ConnectionsRejected.WithLabelValues(string(rej.Reason)).Inc()
	return rej
}

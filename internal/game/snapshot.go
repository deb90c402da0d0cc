package game

import "time"

// NodeView is a node as exposed across the boundary. X and Y are always
// present, finite numbers: layout runs to completion before any snapshot
// leaves the engine.
type NodeView struct {
	ID       string  `json:"id"`
	Word     string  `json:"word"`
	ParentID string  `json:"parent_id,omitempty"` // omitted for the root
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Edge is a derived (parent, child) pair for rendering. Edges carry no
// independent identity; they are implied by each non-root node's parent.
type Edge struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
}

// Snapshot is the read-only view of a session handed back across the
// boundary. Nodes and edges are ordered by creation sequence.
type Snapshot struct {
	SessionID        string     `json:"session_id"`
	PuzzleID         string     `json:"puzzle_id"`
	StartWord        string     `json:"start_word"`
	Theme            string     `json:"theme"`
	TimeLimitSeconds int        `json:"time_limit_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Score            int        `json:"score"`
	MoveCount        int        `json:"move_count"`
	Active           bool       `json:"is_active"`
	Nodes            []NodeView `json:"nodes"`
	Edges            []Edge     `json:"edges"`
}

// Snapshot renders the session state at now.
func (s *Session) Snapshot(now time.Time) *Snapshot {
	ordered := s.NodesBySeq()
	nodes := make([]NodeView, 0, len(ordered))
	edges := make([]Edge, 0, len(ordered)-1)
	for _, n := range ordered {
		nodes = append(nodes, NodeView{
			ID:       n.ID,
			Word:     n.Word,
			ParentID: n.ParentID,
			X:        n.X,
			Y:        n.Y,
		})
		if n.ParentID != "" {
			edges = append(edges, Edge{ParentID: n.ParentID, ChildID: n.ID})
		}
	}
	return &Snapshot{
		SessionID:        s.ID,
		PuzzleID:         s.PuzzleID,
		StartWord:        s.StartWord,
		Theme:            s.Theme,
		TimeLimitSeconds: int(s.TimeLimit.Seconds()),
		StartedAt:        s.StartedAt,
		RemainingSeconds: int(Remaining(s, now).Seconds()),
		Score:            s.Score,
		MoveCount:        s.MoveCount,
		Active:           s.Active && !Expired(s, now),
		Nodes:            nodes,
		Edges:            edges,
	}
}

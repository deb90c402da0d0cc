package game

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is one word placed in the mind map. Its ID is the normalized word, so
// word identity is case-insensitive within a session. Seq records creation
// order and fixes the child ordering the layout fans out on.
type Node struct {
	ID       string
	Word     string // original casing as submitted
	ParentID string // empty for the root
	Seq      int
	X, Y     float64

	placed bool
}

// Point is a 2D node coordinate.
type Point struct {
	X, Y float64
}

// Session is the authoritative state of one in-progress game. The node set
// always forms a single rooted tree: every insert requires an existing parent
// and assigns exactly one, so cycles and second roots cannot arise.
type Session struct {
	ID        string
	PuzzleID  string
	StartWord string
	Theme     string
	TimeLimit time.Duration
	StartedAt time.Time
	Nodes     map[string]*Node
	Score     int
	MoveCount int
	Active    bool

	nextSeq int
}

// Normalize returns the canonical identity form of a word: trimmed and
// lower-cased.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// NewSession creates an active session rooted at startWord. The root node has
// no parent and no position yet; layout assigns one before any snapshot.
func NewSession(puzzleID, startWord, theme string, limit time.Duration, now time.Time) *Session {
	root := &Node{
		ID:   Normalize(startWord),
		Word: strings.TrimSpace(startWord),
		Seq:  0,
	}
	return &Session{
		ID:        uuid.New().String(),
		PuzzleID:  puzzleID,
		StartWord: root.Word,
		Theme:     theme,
		TimeLimit: limit,
		StartedAt: now,
		Nodes:     map[string]*Node{root.ID: root},
		Active:    true,
		nextSeq:   1,
	}
}

// AddNode inserts word as a child of parentID. It enforces the store-level
// invariants only: the parent must exist and the normalized word must not
// already be in the map. Scoring and the relatedness gate are separate
// concerns owned by the caller.
func (s *Session) AddNode(parentID, word string) (*Node, *Rejection) {
	if _, ok := s.Nodes[parentID]; !ok {
		return nil, Reject(ReasonUnknownParent, "parent node %q not found in the map", parentID)
	}
	id := Normalize(word)
	if id == "" {
		return nil, Reject(ReasonEmptyWord, "word must not be empty")
	}
	if _, exists := s.Nodes[id]; exists {
		return nil, Reject(ReasonDuplicateWord, "word %q already exists in the map", id)
	}
	n := &Node{
		ID:       id,
		Word:     strings.TrimSpace(word),
		ParentID: parentID,
		Seq:      s.nextSeq,
	}
	s.nextSeq++
	s.Nodes[id] = n
	return n, nil
}

// GetNode returns a node by ID.
func (s *Session) GetNode(id string) (*Node, bool) {
	n, ok := s.Nodes[id]
	return n, ok
}

// NodesBySeq returns copies of all nodes in creation order.
func (s *Session) NodesBySeq() []Node {
	out := make([]Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Positions returns the coordinates of every node that has been placed by a
// previous layout pass. Newly inserted nodes are absent until placed.
func (s *Session) Positions() map[string]Point {
	out := make(map[string]Point, len(s.Nodes))
	for id, n := range s.Nodes {
		if n.placed {
			out[id] = Point{X: n.X, Y: n.Y}
		}
	}
	return out
}

// ApplyPositions writes layout output back onto the nodes.
func (s *Session) ApplyPositions(pos map[string]Point) {
	for id, p := range pos {
		if n, ok := s.Nodes[id]; ok {
			n.X, n.Y = p.X, p.Y
			n.placed = true
		}
	}
}

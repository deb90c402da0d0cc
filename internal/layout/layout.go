// Package layout converts an unordered node set into stable 2D positions.
// The algorithm is deterministic: children are visited in creation order, so
// the same tree always produces the same coordinates.
package layout

import (
	"math"
	"sort"

	"github.com/gyaneshwarpardhi/mindmap/internal/game"
)

const (
	// The root is pinned at a fixed anchor.
	anchorX = 400.0
	anchorY = 80.0

	// Horizontal fan width per depth level and vertical step per generation.
	spreadX = 140.0
	spreadY = 120.0

	// Dampens the horizontal growth so deep trees do not explode sideways.
	depthScale = 0.8

	// Fallback row for nodes with a broken parent chain, one step above the
	// root where the tree never grows (children always fan out downward).
	// Layout must never fail the overall operation, so orphans are parked
	// here instead.
	fallbackY = anchorY - spreadY
)

// Compute assigns a position to every node. Nodes already present in
// existing keep their coordinates verbatim; only newly introduced nodes get
// fresh ones. This holds even though the traversal recomputes from scratch
// each call, so incremental updates never move nodes the player has seen.
func Compute(nodes []game.Node, existing map[string]game.Point) map[string]game.Point {
	pos := make(map[string]game.Point, len(nodes))

	byParent := make(map[string][]game.Node)
	var root *game.Node
	for i, n := range nodes {
		if n.ParentID == "" {
			if root == nil {
				root = &nodes[i]
			}
			continue
		}
		byParent[n.ParentID] = append(byParent[n.ParentID], n)
	}
	for _, children := range byParent {
		sort.Slice(children, func(i, j int) bool { return children[i].Seq < children[j].Seq })
	}

	type item struct {
		id    string
		depth int
	}
	var queue []item

	if root != nil {
		pos[root.ID] = keepOr(existing, root.ID, game.Point{X: anchorX, Y: anchorY})
		queue = append(queue, item{id: root.ID, depth: 0})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		parent := pos[cur.id]
		children := byParent[cur.id]
		n := len(children)
		for k, child := range children {
			p := fanOut(parent, k, n, cur.depth)
			pos[child.ID] = keepOr(existing, child.ID, p)
			queue = append(queue, item{id: child.ID, depth: cur.depth + 1})
		}
	}

	// Nodes unreachable from the root should not occur given the store's
	// invariants, but a malformed node must not corrupt the rest of the map.
	orphanCol := 0
	for _, n := range nodes {
		if _, placed := pos[n.ID]; placed {
			continue
		}
		p := game.Point{X: anchorX + float64(orphanCol)*spreadX, Y: fallbackY}
		pos[n.ID] = keepOr(existing, n.ID, p)
		orphanCol++
	}

	return pos
}

// fanOut places child k of n in a half-turn arc beneath its parent at depth
// d. The angle π/(n+1)·(k+1) spreads siblings across (0, π), so every child
// lands below the parent rather than stacking vertically; the horizontal
// reach grows with depth to reduce overlap between subtrees.
func fanOut(parent game.Point, k, n, d int) game.Point {
	theta := math.Pi / float64(n+1) * float64(k+1)
	return game.Point{
		X: parent.X + math.Cos(theta)*spreadX*float64(d+1)*depthScale,
		Y: parent.Y + math.Sin(theta)*spreadY,
	}
}

func keepOr(existing map[string]game.Point, id string, fresh game.Point) game.Point {
	if p, ok := existing[id]; ok {
		return p
	}
	return fresh
}

package movement

import (
	"container/heap"

	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// maxSearchNodes bounds the A* frontier. The world changes every tick, so a
// long exact path is worth less than answering quickly.
const maxSearchNodes = 600

// Passability answers whether a tile is currently free. The occupancy grid
// satisfies this.
type Passability interface {
	IsFree(p world.Position) bool
}

type pathNode struct {
	pos   world.Position
	f     int
	g     int
	index int
	prev  *pathNode
}

type pathQueue []*pathNode

func (q pathQueue) Len() int            { return len(q) }
func (q pathQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q pathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *pathQueue) Push(x interface{}) { n := x.(*pathNode); n.index = len(*q); *q = append(*q, n) }
func (q *pathQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

// FindPath runs A* over known terrain from start toward goal and returns the
// tile sequence including both endpoints. Cost is 1 for plain, 5 for swamp;
// walls and unknown chunks are impassable. The search succeeds once it
// reaches a tile adjacent to the goal, so a blocked goal tile (a source, a
// structure, an enemy) can still be approached. Returns nil when no path is
// found within the node budget.
func FindPath(terrain *world.TerrainMap, occ Passability, start, goal world.Position) []world.Position {
	if start.Dist(goal) <= 1 {
		return []world.Position{start}
	}

	open := &pathQueue{}
	heap.Init(open)
	startNode := &pathNode{pos: start, g: 0, f: start.Dist(goal)}
	heap.Push(open, startNode)

	gScores := map[world.Position]int{start: 0}
	closed := make(map[world.Position]bool)

	for open.Len() > 0 && len(closed) < maxSearchNodes {
		current := heap.Pop(open).(*pathNode)
		if closed[current.pos] {
			continue
		}
		closed[current.pos] = true

		if current.pos.Dist(goal) <= 1 {
			return reconstruct(current)
		}

		for _, nb := range current.pos.Neighbors() {
			if closed[nb.Pos] {
				continue
			}
			cost, passable := terrain.MoveCost(nb.Pos)
			if !passable {
				continue
			}
			// The goal tile itself may be occupied; everywhere else
			// must be free right now.
			if nb.Pos != goal && !occ.IsFree(nb.Pos) {
				continue
			}
			g := current.g + cost
			if prev, seen := gScores[nb.Pos]; seen && g >= prev {
				continue
			}
			gScores[nb.Pos] = g
			heap.Push(open, &pathNode{
				pos:  nb.Pos,
				g:    g,
				f:    g + nb.Pos.Dist(goal),
				prev: current,
			})
		}
	}

	return nil
}

func reconstruct(n *pathNode) []world.Position {
	var rev []world.Position
	for cur := n; cur != nil; cur = cur.prev {
		rev = append(rev, cur.pos)
	}
	out := make([]world.Position, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

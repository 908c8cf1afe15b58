// Package movement turns "get unit U near position P" requests into single
// validated move steps. Only the first step of any path is ever committed,
// since the world may change before the next snapshot arrives.
package movement

import (
	"github.com/aedjoel/discordia-go/internal/domain/grid"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Move is a committed, reservation-backed single step
type Move struct {
	Dir  world.Direction
	Dest world.Position
}

// Planner produces collision-safe moves for the current tick. Every commit
// reserves the destination tile in the occupancy grid before the move is
// returned, so later decisions in the same tick cannot target it.
type Planner struct {
	terrain *world.TerrainMap
	occ     *grid.Occupancy
}

// NewPlanner wires the planner to this tick's terrain and occupancy grid
func NewPlanner(terrain *world.TerrainMap, occ *grid.Occupancy) *Planner {
	return &Planner{terrain: terrain, occ: occ}
}

// Step commits the next move from `from` toward `goal`. It prefers the
// shortest-path first step; if that tile is taken it falls back to any free
// neighbor that reduces or at least maintains distance to the goal. Returns
// ok=false when the unit cannot make progress this tick, which is not an
// error: the unit idles.
func (p *Planner) Step(from, goal world.Position) (Move, bool) {
	if from == goal {
		return Move{}, false
	}

	if path := FindPath(p.terrain, p.occ, from, goal); len(path) > 1 {
		next := path[1]
		if dir, ok := from.DirectionTo(next); ok && p.occ.Reserve(next) {
			return Move{Dir: dir, Dest: next}, true
		}
	}

	return p.fallbackStep(from, goal)
}

// fallbackStep scans the eight neighbors for a free tile that does not move
// the unit farther from its goal, preferring the closest
func (p *Planner) fallbackStep(from, goal world.Position) (Move, bool) {
	cur := from.Dist(goal)
	best := Move{}
	bestDist := cur + 1
	for _, nb := range from.Neighbors() {
		if !p.occ.IsFree(nb.Pos) {
			continue
		}
		d := nb.Pos.Dist(goal)
		if d > cur || d >= bestDist {
			continue
		}
		best = Move{Dir: nb.Dir, Dest: nb.Pos}
		bestDist = d
	}
	if bestDist > cur {
		return Move{}, false
	}
	if !p.occ.Reserve(best.Dest) {
		return Move{}, false
	}
	return best, true
}

// StepAway commits a move that strictly increases distance from `anchor`,
// used for retreating out of a spawn's doorway. Any free direction that
// increases distance qualifies; the farthest is preferred.
func (p *Planner) StepAway(from, anchor world.Position) (Move, bool) {
	cur := from.Dist(anchor)
	best := Move{}
	bestDist := cur
	for _, nb := range from.Neighbors() {
		if !p.occ.IsFree(nb.Pos) {
			continue
		}
		if d := nb.Pos.Dist(anchor); d > bestDist {
			best = Move{Dir: nb.Dir, Dest: nb.Pos}
			bestDist = d
		}
	}
	if bestDist == cur {
		return Move{}, false
	}
	if !p.occ.Reserve(best.Dest) {
		return Move{}, false
	}
	return best, true
}

// StepToCardinal routes a unit to a tile cardinally adjacent to target.
// Build and repair require cardinal (not diagonal) adjacency: a diagonally
// adjacent unit is first moved onto one of the two cardinal tiles it shares
// with the target; a distant unit simply steps toward the target.
// ok=false with a zero Move means the unit is already cardinally adjacent.
func (p *Planner) StepToCardinal(from, target world.Position) (Move, bool, bool) {
	if from.IsCardinalAdjacent(target) {
		return Move{}, false, true
	}
	if from.IsAdjacent(target) {
		// Diagonal offset: the shared cardinal tiles differ from the
		// unit's position in exactly one axis.
		candidates := []world.Position{
			{X: from.X, Y: target.Y},
			{X: target.X, Y: from.Y},
		}
		for _, c := range candidates {
			if !p.occ.IsFree(c) {
				continue
			}
			if dir, ok := from.DirectionTo(c); ok && p.occ.Reserve(c) {
				return Move{Dir: dir, Dest: c}, true, false
			}
		}
		return Move{}, false, false
	}
	m, ok := p.Step(from, target)
	return m, ok, false
}

// Package grid holds the tick-scoped occupancy and reservation grid, the
// single authority answering whether a tile is free for this tick. It is
// rebuilt from the world model at the start of every tick, mutated only by
// committed move decisions, and discarded at tick end.
package grid

import (
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// CellStatus classifies why a tile is or is not available
type CellStatus int

const (
	CellFree CellStatus = iota
	CellBlockedTerrain
	CellBlockedUnit
	CellBlockedStructure
	CellReserved
)

// Occupancy is built once per tick by seeding every terrain wall, every
// current unit position (own and foreign), and every structure footprint as
// blocked. Reservations accumulate as moves are committed; first committer
// wins.
type Occupancy struct {
	terrain    *world.TerrainMap
	units      map[world.Position]bool
	structures map[world.Position]bool
	reserved   map[world.Position]bool
}

// New seeds the grid from the current world model
func New(m *world.Model) *Occupancy {
	o := &Occupancy{
		terrain:    m.Terrain,
		units:      make(map[world.Position]bool, len(m.Units)),
		structures: make(map[world.Position]bool, len(m.Structures)+len(m.Sites)),
		reserved:   make(map[world.Position]bool),
	}
	for _, u := range m.Units {
		o.units[u.Pos] = true
	}
	for _, s := range m.Structures {
		o.structures[s.Pos] = true
	}
	for _, s := range m.Sites {
		o.structures[s.Pos] = true
	}
	return o
}

// Status reports why a tile is unavailable, or CellFree. Reservations are
// checked last so tests can distinguish a contested tile from a blocked one.
func (o *Occupancy) Status(p world.Position) CellStatus {
	if !o.terrain.Passable(p) {
		return CellBlockedTerrain
	}
	if o.units[p] {
		return CellBlockedUnit
	}
	if o.structures[p] {
		return CellBlockedStructure
	}
	if o.reserved[p] {
		return CellReserved
	}
	return CellFree
}

// IsFree is a pure query: true when the tile is neither blocked nor already
// reserved this tick
func (o *Occupancy) IsFree(p world.Position) bool {
	return o.Status(p) == CellFree
}

// Reserve claims the tile for a committed move. It fails when the tile is
// blocked or was reserved by an earlier decision in the same tick.
func (o *Occupancy) Reserve(p world.Position) bool {
	if !o.IsFree(p) {
		return false
	}
	o.reserved[p] = true
	return true
}

// Reserved reports whether the tile carries a same-tick move reservation
func (o *Occupancy) Reserved(p world.Position) bool {
	return o.reserved[p]
}

// FreeNeighborCount counts free tiles in the 8-neighborhood of a position,
// used to rank deposit and spawn targets
func (o *Occupancy) FreeNeighborCount(p world.Position) int {
	n := 0
	for _, nb := range p.Neighbors() {
		if o.IsFree(nb.Pos) {
			n++
		}
	}
	return n
}

package world

// TerrainKind classifies a tile within a visible chunk
type TerrainKind int

const (
	// TerrainUnknown marks tiles in chunks outside current visibility.
	// Unknown terrain is treated as impassable until a unit establishes
	// visibility there.
	TerrainUnknown TerrainKind = iota
	TerrainPlain
	TerrainSwamp
	TerrainWall
)

// Movement costs used by the path search. Wall and unknown tiles are
// impassable and have no cost.
const (
	PlainCost = 1
	SwampCost = 5
)

// ParseTerrainKind maps the wire representation to a TerrainKind.
// Unrecognized values fall back to plain rather than blocking the tile.
func ParseTerrainKind(s string) TerrainKind {
	switch s {
	case "wall":
		return TerrainWall
	case "swamp":
		return TerrainSwamp
	default:
		return TerrainPlain
	}
}

// TerrainMap is a chunk-indexed terrain lookup assembled once per tick.
// Only non-plain tiles are stored explicitly; any tile inside a visible
// chunk that has no entry is plain.
type TerrainMap struct {
	visible map[ChunkCoord]bool
	cells   map[Position]TerrainKind
}

// NewTerrainMap creates an empty terrain lookup
func NewTerrainMap() *TerrainMap {
	return &TerrainMap{
		visible: make(map[ChunkCoord]bool),
		cells:   make(map[Position]TerrainKind),
	}
}

// AddChunk records a visible chunk and its 25x25 terrain grid.
// The grid is indexed rows-first: grid[localY][localX].
func (t *TerrainMap) AddChunk(coord ChunkCoord, grid [][]string) {
	t.visible[coord] = true
	origin := coord.Origin()
	for ly, row := range grid {
		if ly >= ChunkSize {
			break
		}
		for lx, cell := range row {
			if lx >= ChunkSize {
				break
			}
			kind := ParseTerrainKind(cell)
			if kind == TerrainPlain {
				continue
			}
			t.cells[Position{X: origin.X + lx, Y: origin.Y + ly}] = kind
		}
	}
}

// Visible reports whether the chunk appears in the current snapshot
func (t *TerrainMap) Visible(coord ChunkCoord) bool {
	return t.visible[coord]
}

// VisibleChunks returns the set of chunk coordinates in the current snapshot
func (t *TerrainMap) VisibleChunks() map[ChunkCoord]bool {
	return t.visible
}

// Kind returns the terrain at a position. Positions in unknown chunks
// report TerrainUnknown.
func (t *TerrainMap) Kind(p Position) TerrainKind {
	if !t.visible[p.Chunk()] {
		return TerrainUnknown
	}
	if kind, ok := t.cells[p]; ok {
		return kind
	}
	return TerrainPlain
}

// Passable reports whether terrain alone permits standing on the tile.
// Walls and unknown chunks are conservatively blocked.
func (t *TerrainMap) Passable(p Position) bool {
	switch t.Kind(p) {
	case TerrainPlain, TerrainSwamp:
		return true
	default:
		return false
	}
}

// MoveCost returns the terrain step cost for a passable tile, and ok=false
// for walls and unknown terrain.
func (t *TerrainMap) MoveCost(p Position) (int, bool) {
	switch t.Kind(p) {
	case TerrainPlain:
		return PlainCost, true
	case TerrainSwamp:
		return SwampCost, true
	default:
		return 0, false
	}
}

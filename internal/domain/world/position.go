package world

import "fmt"

// ChunkSize is the fixed side length of a fog-of-war chunk.
const ChunkSize = 25

// Position is an integer coordinate pair in the unbounded global grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChunkCoord identifies a 25x25 chunk
type ChunkCoord struct {
	X int
	Y int
}

// Direction names one of the eight compass moves accepted by the server
type Direction string

const (
	North     Direction = "north"
	NorthEast Direction = "northeast"
	East      Direction = "east"
	SouthEast Direction = "southeast"
	South     Direction = "south"
	SouthWest Direction = "southwest"
	West      Direction = "west"
	NorthWest Direction = "northwest"
)

// directionOffsets maps each direction to its coordinate delta.
// Y grows southward, matching the server's terrain row order.
var directionOffsets = map[Direction][2]int{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

// AllDirections lists the eight move directions in a fixed scan order
var AllDirections = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

// CardinalDirections lists the four cardinal directions in a fixed scan order
var CardinalDirections = []Direction{North, East, South, West}

// IsCardinal reports whether the direction is one of the four cardinal moves
func (d Direction) IsCardinal() bool {
	off := directionOffsets[d]
	return off[0] == 0 || off[1] == 0
}

// Step returns the position one tile away in the given direction
func (p Position) Step(d Direction) Position {
	off := directionOffsets[d]
	return Position{X: p.X + off[0], Y: p.Y + off[1]}
}

// Dist returns the Chebyshev distance to another position. Diagonal and
// cardinal steps both count as one, matching server movement rules.
func (p Position) Dist(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent reports whether the other position is within one step in any
// of the eight directions
func (p Position) IsAdjacent(other Position) bool {
	return p != other && p.Dist(other) <= 1
}

// IsCardinalAdjacent reports whether the other position is exactly one
// cardinal (non-diagonal) step away
func (p Position) IsCardinalAdjacent(other Position) bool {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	return dx+dy == 1
}

// Neighbors returns the eight adjacent positions paired with their directions
func (p Position) Neighbors() []Neighbor {
	out := make([]Neighbor, 0, len(AllDirections))
	for _, d := range AllDirections {
		out = append(out, Neighbor{Pos: p.Step(d), Dir: d})
	}
	return out
}

// CardinalNeighbors returns the four cardinally adjacent positions paired
// with their directions
func (p Position) CardinalNeighbors() []Neighbor {
	out := make([]Neighbor, 0, len(CardinalDirections))
	for _, d := range CardinalDirections {
		out = append(out, Neighbor{Pos: p.Step(d), Dir: d})
	}
	return out
}

// Neighbor pairs an adjacent position with the direction that reaches it
type Neighbor struct {
	Pos Position
	Dir Direction
}

// DirectionTo returns the direction of the single step from p to an adjacent
// position. ok is false when the target is not adjacent.
func (p Position) DirectionTo(other Position) (Direction, bool) {
	for _, d := range AllDirections {
		if p.Step(d) == other {
			return d, true
		}
	}
	return "", false
}

// Chunk returns the coordinate of the chunk containing this position.
// Uses floor division so negative coordinates map to the correct chunk.
func (p Position) Chunk() ChunkCoord {
	return ChunkCoord{X: floorDiv(p.X, ChunkSize), Y: floorDiv(p.Y, ChunkSize)}
}

// Local returns the position's offset within its chunk, always in [0,24]
func (p Position) Local() (int, int) {
	return mod(p.X, ChunkSize), mod(p.Y, ChunkSize)
}

// Origin returns the global position of the chunk's top-left tile
func (c ChunkCoord) Origin() Position {
	return Position{X: c.X * ChunkSize, Y: c.Y * ChunkSize}
}

// Center returns the global position of the chunk's middle tile
func (c ChunkCoord) Center() Position {
	return Position{X: c.X*ChunkSize + ChunkSize/2, Y: c.Y*ChunkSize + ChunkSize/2}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

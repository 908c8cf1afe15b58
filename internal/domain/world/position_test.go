package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/domain/world"
)

func TestPosition_DistIsChebyshev(t *testing.T) {
	// Arrange
	a := world.Position{X: 10, Y: 10}

	// Act & Assert
	assert.Equal(t, 0, a.Dist(world.Position{X: 10, Y: 10}))
	assert.Equal(t, 1, a.Dist(world.Position{X: 11, Y: 11})) // diagonal counts once
	assert.Equal(t, 5, a.Dist(world.Position{X: 15, Y: 10}))
	assert.Equal(t, 5, a.Dist(world.Position{X: 12, Y: 5}))
}

func TestPosition_AdjacencyClasses(t *testing.T) {
	// Arrange
	center := world.Position{X: 5, Y: 5}

	// Act & Assert - diagonal neighbors are adjacent but not cardinally
	diagonal := world.Position{X: 6, Y: 6}
	assert.True(t, center.IsAdjacent(diagonal))
	assert.False(t, center.IsCardinalAdjacent(diagonal))

	cardinal := world.Position{X: 5, Y: 6}
	assert.True(t, center.IsAdjacent(cardinal))
	assert.True(t, center.IsCardinalAdjacent(cardinal))

	// Self is neither
	assert.False(t, center.IsAdjacent(center))
	assert.False(t, center.IsCardinalAdjacent(center))
}

func TestPosition_StepAndDirectionToRoundTrip(t *testing.T) {
	// Arrange
	from := world.Position{X: 0, Y: 0}

	for _, dir := range world.AllDirections {
		// Act
		stepped := from.Step(dir)
		back, ok := from.DirectionTo(stepped)

		// Assert
		require.True(t, ok, "direction %s", dir)
		assert.Equal(t, dir, back)
		assert.Equal(t, 1, from.Dist(stepped))
	}
}

func TestPosition_NeighborCounts(t *testing.T) {
	p := world.Position{X: 3, Y: 3}

	assert.Len(t, p.Neighbors(), 8)
	assert.Len(t, p.CardinalNeighbors(), 4)
}

func TestPosition_ChunkFloorDivision(t *testing.T) {
	// Positions in the positive quadrant
	assert.Equal(t, world.ChunkCoord{X: 0, Y: 0}, world.Position{X: 0, Y: 0}.Chunk())
	assert.Equal(t, world.ChunkCoord{X: 0, Y: 0}, world.Position{X: 24, Y: 24}.Chunk())
	assert.Equal(t, world.ChunkCoord{X: 1, Y: 0}, world.Position{X: 25, Y: 24}.Chunk())

	// Negative coordinates floor toward negative infinity, not zero
	assert.Equal(t, world.ChunkCoord{X: -1, Y: -1}, world.Position{X: -1, Y: -1}.Chunk())
	assert.Equal(t, world.ChunkCoord{X: -1, Y: 0}, world.Position{X: -25, Y: 0}.Chunk())
	assert.Equal(t, world.ChunkCoord{X: -2, Y: 0}, world.Position{X: -26, Y: 0}.Chunk())
}

func TestChunkCoord_OriginAndLocal(t *testing.T) {
	// Arrange
	p := world.Position{X: 27, Y: -3}

	// Act
	coord := p.Chunk()
	lx, ly := p.Local()

	// Assert
	assert.Equal(t, world.ChunkCoord{X: 1, Y: -1}, coord)
	assert.Equal(t, world.Position{X: 25, Y: -25}, coord.Origin())
	assert.Equal(t, 2, lx)
	assert.Equal(t, 22, ly)
}

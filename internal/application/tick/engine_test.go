package tick_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

func intPtr(n int) *int { return &n }

// worldBuilder assembles snapshots for engine tests
type worldBuilder struct {
	snap *world.Snapshot
}

func newWorld() *worldBuilder {
	terrain := make([][]string, world.ChunkSize)
	for y := range terrain {
		row := make([]string, world.ChunkSize)
		for x := range row {
			row[x] = "plain"
		}
		terrain[y] = row
	}
	return &worldBuilder{snap: &world.Snapshot{
		Tick:   1,
		Agent:  world.Agent{ID: "agent-1", Level: 7},
		Chunks: []world.SnapshotChunk{{ChunkX: 0, ChunkY: 0, Terrain: terrain}},
	}}
}

func (b *worldBuilder) agentLevel(l int) *worldBuilder {
	b.snap.Agent.Level = l
	return b
}

func (b *worldBuilder) unit(id, owner, unitType string, x, y, energy, level int) *worldBuilder {
	b.snap.Units = append(b.snap.Units, world.SnapshotUnit{
		ID: id, OwnerID: owner, OwnerLevel: level, Type: unitType,
		X: intPtr(x), Y: intPtr(y), Energy: energy, Capacity: 100, Hits: 100, HitsMax: 100,
	})
	return b
}

func (b *worldBuilder) enemy(id string, x, y, level int) *worldBuilder {
	b.snap.Chunks[0].Units = append(b.snap.Chunks[0].Units, world.SnapshotUnit{
		ID: id, OwnerID: "rival", OwnerLevel: level, Type: "soldier",
		X: intPtr(x), Y: intPtr(y), Hits: 100, HitsMax: 100,
	})
	return b
}

func (b *worldBuilder) structure(id, structType string, x, y, energy int) *worldBuilder {
	b.snap.Structures = append(b.snap.Structures, world.SnapshotStructure{
		ID: id, OwnerID: "agent-1", Type: structType, X: intPtr(x), Y: intPtr(y), Energy: energy,
	})
	return b
}

func (b *worldBuilder) source(id string, x, y, energy int) *worldBuilder {
	b.snap.Chunks[0].Sources = append(b.snap.Chunks[0].Sources, world.SnapshotSource{
		ID: id, X: intPtr(x), Y: intPtr(y), Energy: energy,
	})
	return b
}

func (b *worldBuilder) run(t *testing.T, s economy.Strategy) (*world.Model, *action.Batch) {
	t.Helper()
	m, warnings := world.BuildModel(b.snap)
	require.Empty(t, warnings)
	return m, tick.NewEngine(m, s, nil).Run()
}

func actionsOfType(b *action.Batch, at action.Type) []action.Action {
	var out []action.Action
	for _, a := range b.Actions {
		if a.Type == at {
			out = append(out, a)
		}
	}
	return out
}

func TestEngine_WorkerHarvestsAdjacentSource(t *testing.T) {
	// Arrange
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 5, 5, 0, 0).
		source("src1", 6, 5, 500).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	harvests := actionsOfType(batch, action.Harvest)
	require.Len(t, harvests, 1)
	assert.Equal(t, "w1", harvests[0].UnitID)
	assert.Equal(t, "src1", harvests[0].TargetID)
}

func TestEngine_WorkerMovesTowardDistantSource(t *testing.T) {
	// Arrange
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 2, 2, 0, 0).
		source("src1", 20, 20, 500).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	moves := actionsOfType(batch, action.Move)
	require.Len(t, moves, 1)
	assert.Equal(t, "w1", moves[0].UnitID)
}

func TestEngine_DepositTargetsMostAccessible(t *testing.T) {
	// Arrange - two storages in range: (12,10) with crowded neighbors,
	// (15,10) wide open. The loaded worker's goal is the open one.
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 10, 10, 90, 0).
		structure("storage-crowded", "storage", 12, 10, 0).
		structure("storage-open", "storage", 15, 10, 0).
		enemy("b1", 11, 9, 8).
		enemy("b2", 12, 9, 8).
		enemy("b3", 13, 9, 8).
		enemy("b4", 12, 11, 8).
		enemy("b5", 13, 11, 8).
		run(t, economy.DefaultStrategy())

	// Act & Assert - worker steps toward (15,10), east of it
	moves := findUnitActions(batch, "w1")
	require.Len(t, moves, 1)
	require.Equal(t, action.Move, moves[0].Type)
	dest := world.Position{X: 10, Y: 10}.Step(moves[0].Direction)
	assert.Greater(t, dest.X, 10, "should move east toward the open storage")
}

func TestEngine_LoadedWorkerRedirectsToAdjacentTarget(t *testing.T) {
	// Arrange - worker already diagonal to a spawn; it unloads there even
	// though a better-ranked storage exists farther away
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 9, 9, 85, 0).
		structure("spawn-1", "spawn", 10, 10, 0).
		structure("storage-open", "storage", 20, 10, 0).
		enemy("b1", 9, 10, 8).
		enemy("b2", 11, 10, 8).
		enemy("b3", 10, 9, 8).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	transfers := actionsOfType(batch, action.Transfer)
	require.Len(t, transfers, 1)
	assert.Equal(t, "spawn-1", transfers[0].TargetID)
}

func TestEngine_SoldiersCommitBeforeWorkers(t *testing.T) {
	// Arrange - both roles have goals this tick
	_, batch := newWorld().
		unit("s1", "agent-1", "soldier", 5, 5, 0, 0).
		unit("w1", "agent-1", "worker", 18, 18, 0, 0).
		enemy("e1", 6, 5, 8).
		source("src1", 19, 18, 500).
		run(t, economy.DefaultStrategy())

	// Act - locate each unit's action in emission order
	soldierIdx, workerIdx := -1, -1
	for i, a := range batch.Actions {
		switch a.UnitID {
		case "s1":
			soldierIdx = i
		case "w1":
			workerIdx = i
		}
	}

	// Assert
	require.NotEqual(t, -1, soldierIdx)
	require.NotEqual(t, -1, workerIdx)
	assert.Less(t, soldierIdx, workerIdx)
}

func TestEngine_SoldierAttacksAdjacentEnemy(t *testing.T) {
	// Arrange
	_, batch := newWorld().
		unit("s1", "agent-1", "soldier", 5, 5, 0, 0).
		enemy("e1", 6, 6, 8).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	attacks := actionsOfType(batch, action.Attack)
	require.Len(t, attacks, 1)
	assert.Equal(t, "e1", attacks[0].TargetID)
}

func TestEngine_NoAttackOnProtectedTarget(t *testing.T) {
	// Arrange - enemy owner below the protection level
	_, batch := newWorld().
		unit("s1", "agent-1", "soldier", 5, 5, 0, 0).
		enemy("e1", 6, 5, 4).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	assert.Empty(t, actionsOfType(batch, action.Attack))
}

func TestEngine_NoAttackWhileAgentProtected(t *testing.T) {
	// Arrange - the acting agent itself sits in the protected band
	_, batch := newWorld().
		agentLevel(4).
		unit("s1", "agent-1", "soldier", 5, 5, 0, 0).
		enemy("e1", 6, 5, 9).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	assert.Empty(t, actionsOfType(batch, action.Attack))
}

func TestEngine_UnknownOwnerLevelTreatedAsProtected(t *testing.T) {
	// Arrange - the server omitted the enemy's owner level
	_, batch := newWorld().
		unit("s1", "agent-1", "soldier", 5, 5, 0, 0).
		enemy("e1", 6, 5, 0).
		run(t, economy.DefaultStrategy())

	// Act & Assert - no attack a rejected batch could not retry
	assert.Empty(t, actionsOfType(batch, action.Attack))
}

func TestEngine_SoldierRetreatsFromSpawnDoorway(t *testing.T) {
	// Arrange - soldier camping one tile from its own spawn
	_, batch := newWorld().
		unit("s1", "agent-1", "soldier", 11, 10, 0, 0).
		structure("spawn-1", "spawn", 10, 10, 500).
		run(t, economy.DefaultStrategy())

	// Act & Assert - the move increases distance from the spawn
	moves := findUnitActions(batch, "s1")
	require.Len(t, moves, 1)
	require.Equal(t, action.Move, moves[0].Type)
	dest := world.Position{X: 11, Y: 10}.Step(moves[0].Direction)
	assert.Greater(t, dest.Dist(world.Position{X: 10, Y: 10}), 1)
}

func TestEngine_DiagonalBuilderRoutesToCardinalTile(t *testing.T) {
	// Arrange - worker with energy diagonally adjacent to the only open
	// fill site; it must not emit a transfer from a diagonal
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 4, 4, 60, 0).
		siteAt("site-1", "tower", 5, 5, 100).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	assert.Empty(t, actionsOfType(batch, action.Transfer))
	moves := findUnitActions(batch, "w1")
	require.Len(t, moves, 1)
	require.Equal(t, action.Move, moves[0].Type)
	dest := world.Position{X: 4, Y: 4}.Step(moves[0].Direction)
	assert.True(t, dest.IsCardinalAdjacent(world.Position{X: 5, Y: 5}))
}

func TestEngine_CardinalBuilderFillsSite(t *testing.T) {
	// Arrange
	_, batch := newWorld().
		unit("w1", "agent-1", "worker", 5, 4, 60, 0).
		siteAt("site-1", "tower", 5, 5, 100).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	transfers := actionsOfType(batch, action.Transfer)
	require.Len(t, transfers, 1)
	assert.Equal(t, "site-1", transfers[0].TargetID)
}

func TestEngine_NoCollidingMoves(t *testing.T) {
	// Arrange - a crowd of workers all drawn to the same source
	b := newWorld().source("src1", 12, 12, 900)
	for i := 0; i < 6; i++ {
		b.unit(fmt.Sprintf("w%d", i), "agent-1", "worker", 5+i, 5, 0, 0)
	}
	m, batch := b.run(t, economy.DefaultStrategy())

	// Act - compute every move destination
	occupied := make(map[world.Position]bool)
	for _, u := range m.Units {
		occupied[u.Pos] = true
	}
	seen := make(map[world.Position]bool)
	for _, a := range actionsOfType(batch, action.Move) {
		u, ok := m.UnitByID(a.UnitID)
		require.True(t, ok)
		dest := u.Pos.Step(a.Direction)

		// Assert - never onto a start-of-tick occupant, never twice
		assert.False(t, occupied[dest], "move onto occupied tile %v", dest)
		assert.False(t, seen[dest], "two moves onto %v", dest)
		seen[dest] = true
	}
}

func TestEngine_SpawnDecisionAppended(t *testing.T) {
	// Arrange
	_, batch := newWorld().
		structure("spawn-1", "spawn", 10, 10, 200).
		run(t, economy.DefaultStrategy())

	// Act & Assert
	spawns := actionsOfType(batch, action.Spawn)
	require.Len(t, spawns, 1)
	assert.Equal(t, "spawn-1", spawns[0].StructureID)
	assert.Equal(t, string(world.UnitWorker), spawns[0].UnitType)
}

func TestEngine_IdleUnitEmitsNothing(t *testing.T) {
	// Arrange - lone worker, nothing visible to do, whole map explored is
	// impossible so it scouts; box it in with walls instead
	b := newWorld()
	for _, nb := range (world.Position{X: 5, Y: 5}).Neighbors() {
		b.snap.Chunks[0].Terrain[nb.Pos.Y][nb.Pos.X] = "wall"
	}
	_, batch := b.
		unit("w1", "agent-1", "worker", 5, 5, 0, 0).
		run(t, economy.DefaultStrategy())

	// Act & Assert - no goal is not an error
	assert.Empty(t, findUnitActions(batch, "w1"))
}

func TestEngine_HealerHealsMostDamagedAlly(t *testing.T) {
	// Arrange
	b := newWorld().
		unit("h1", "agent-1", "healer", 5, 5, 0, 0).
		unit("s1", "agent-1", "soldier", 6, 5, 0, 0)
	b.snap.Units[1].Hits = 40 // soldier hurt
	_, batch := b.run(t, economy.DefaultStrategy())

	// Act & Assert
	heals := actionsOfType(batch, action.Heal)
	require.Len(t, heals, 1)
	assert.Equal(t, "h1", heals[0].UnitID)
	assert.Equal(t, "s1", heals[0].TargetID)
}

// siteAt adds an own construction site to the snapshot
func (b *worldBuilder) siteAt(id, target string, x, y, energy int) *worldBuilder {
	b.snap.Structures = append(b.snap.Structures, world.SnapshotStructure{
		ID: id, OwnerID: "agent-1", Type: "construction_site", TargetType: target,
		X: intPtr(x), Y: intPtr(y), Energy: energy,
	})
	return b
}

func findUnitActions(b *action.Batch, unitID string) []action.Action {
	var out []action.Action
	for _, a := range b.Actions {
		if a.UnitID == unitID {
			out = append(out, a)
		}
	}
	return out
}

func TestEngine_ScoutTargetStableAcrossRuns(t *testing.T) {
	// Arrange - idle worker dead center of the only visible chunk, so all
	// four bordering unseen chunks are equidistant. The engine must pick
	// the same one every run.
	build := func() *action.Batch {
		_, batch := newWorld().
			unit("w1", "agent-1", "worker", 12, 12, 0, 0).
			run(t, economy.DefaultStrategy())
		return batch
	}

	// Act
	first := build()

	// Assert - coordinate-order tie break targets the westward chunk
	moves := actionsOfType(first, action.Move)
	require.Len(t, moves, 1)
	westward := map[world.Direction]bool{
		world.West: true, world.NorthWest: true, world.SouthWest: true,
	}
	assert.True(t, westward[moves[0].Direction],
		"expected a westward scout step, got %s", moves[0].Direction)

	for i := 0; i < 10; i++ {
		again := actionsOfType(build(), action.Move)
		require.Len(t, again, 1)
		assert.Equal(t, moves[0].Direction, again[0].Direction)
	}
}

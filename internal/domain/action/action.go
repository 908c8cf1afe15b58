// Package action defines the write-only action records posted to the game
// server at the end of every tick. The core keeps no record of past actions
// beyond the current batch.
package action

import (
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Type enumerates the action variants accepted by POST /actions
type Type string

const (
	Move     Type = "move"
	Harvest  Type = "harvest"
	Transfer Type = "transfer"
	Build    Type = "build"
	Attack   Type = "attack"
	Heal     Type = "heal"
	Repair   Type = "repair"
	Spawn    Type = "spawn"
)

// Action is one tagged action record. Exactly one of UnitID or StructureID
// is set; the remaining fields depend on the variant.
type Action struct {
	UnitID        string          `json:"unitId,omitempty"`
	StructureID   string          `json:"structureId,omitempty"`
	Type          Type            `json:"type"`
	Direction     world.Direction `json:"direction,omitempty"`
	TargetID      string          `json:"targetId,omitempty"`
	StructureType string          `json:"structureType,omitempty"`
	UnitType      string          `json:"unitType,omitempty"`
}

// NewMove orders a unit one step in a direction
func NewMove(unitID string, dir world.Direction) Action {
	return Action{UnitID: unitID, Type: Move, Direction: dir}
}

// NewHarvest orders a unit to harvest an adjacent source
func NewHarvest(unitID, sourceID string) Action {
	return Action{UnitID: unitID, Type: Harvest, TargetID: sourceID}
}

// NewTransfer orders a unit to transfer carried energy to an adjacent
// structure or construction site
func NewTransfer(unitID, targetID string) Action {
	return Action{UnitID: unitID, Type: Transfer, TargetID: targetID}
}

// NewBuild orders a unit to place a construction site on the cardinally
// adjacent tile in the given direction
func NewBuild(unitID string, dir world.Direction, structureType world.StructureType) Action {
	return Action{UnitID: unitID, Type: Build, Direction: dir, StructureType: string(structureType)}
}

// NewAttack orders a unit to attack an adjacent foreign unit
func NewAttack(unitID, targetID string) Action {
	return Action{UnitID: unitID, Type: Attack, TargetID: targetID}
}

// NewHeal orders a healer to heal an adjacent own unit
func NewHeal(unitID, targetID string) Action {
	return Action{UnitID: unitID, Type: Heal, TargetID: targetID}
}

// NewRepair orders a worker to repair a cardinally adjacent own structure
func NewRepair(unitID, targetID string) Action {
	return Action{UnitID: unitID, Type: Repair, TargetID: targetID}
}

// NewSpawn orders a spawn structure to produce a new unit
func NewSpawn(structureID string, unitType world.UnitType) Action {
	return Action{StructureID: structureID, Type: Spawn, UnitType: string(unitType)}
}

// Batch is the ordered collection of actions emitted for one tick
type Batch struct {
	Tick    int
	Actions []Action
}

// NewBatch creates an empty batch for the tick
func NewBatch(tick int) *Batch {
	return &Batch{Tick: tick}
}

// Add appends an action preserving emission order
func (b *Batch) Add(a Action) {
	b.Actions = append(b.Actions, a)
}

// Len returns the number of actions in the batch
func (b *Batch) Len() int {
	return len(b.Actions)
}

// CountByType tallies actions per variant, used in tick summaries
func (b *Batch) CountByType() map[Type]int {
	out := make(map[Type]int)
	for _, a := range b.Actions {
		out[a.Type]++
	}
	return out
}

package tick

import (
	"time"

	"github.com/google/uuid"

	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Summary is the read-only outcome of one tick, handed to the configured
// sinks after the batch is submitted. It carries counts only, never entity
// references, so sinks cannot retain tick-scoped state.
type Summary struct {
	BatchID       string              `json:"batch_id"`
	Tick          int                 `json:"tick"`
	AgentLevel    int                 `json:"agent_level"`
	Workers       int                 `json:"workers"`
	Soldiers      int                 `json:"soldiers"`
	Healers       int                 `json:"healers"`
	Enemies       int                 `json:"enemies"`
	Structures    int                 `json:"structures"`
	Sites         int                 `json:"sites"`
	SpawnEnergy   int                 `json:"spawn_energy"`
	VisibleChunks int                 `json:"visible_chunks"`
	Actions       int                 `json:"actions"`
	ActionCounts  map[action.Type]int `json:"action_counts"`
	Warnings      int                 `json:"warnings"`
	RecordedAt    time.Time           `json:"recorded_at"`
}

// Summarize condenses a tick's model and emitted batch into a Summary
func Summarize(m *world.Model, b *action.Batch, warnings int, at time.Time) *Summary {
	spawnEnergy := 0
	for _, sp := range m.Spawns() {
		spawnEnergy += sp.Energy
	}
	structures := 0
	for _, s := range m.Structures {
		if s.OwnerID == m.Agent.ID {
			structures++
		}
	}
	return &Summary{
		BatchID:       uuid.New().String(),
		Tick:          m.Tick,
		AgentLevel:    m.Agent.Level,
		Workers:       len(m.OwnUnits(world.UnitWorker)),
		Soldiers:      len(m.OwnUnits(world.UnitSoldier)),
		Healers:       len(m.OwnUnits(world.UnitHealer)),
		Enemies:       len(m.Enemies()),
		Structures:    structures,
		Sites:         len(m.OwnSites()),
		SpawnEnergy:   spawnEnergy,
		VisibleChunks: len(m.Terrain.VisibleChunks()),
		Actions:       b.Len(),
		ActionCounts:  b.CountByType(),
		Warnings:      warnings,
		RecordedAt:    at,
	}
}

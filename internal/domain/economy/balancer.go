// Package economy ranks deposit/spawn targets and decides what to spawn
// next under the configured caps and priority mode. It never moves units;
// its outputs are consumed by the task allocation engine and the spawn
// emission at the end of the tick.
package economy

import (
	"sort"

	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/grid"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Minimum spawn energy needed before producing each unit type
const (
	workerSpawnCost  = 100
	soldierSpawnCost = 150
)

// Balancer holds the per-tick inputs for economy decisions
type Balancer struct {
	model    *world.Model
	occ      *grid.Occupancy
	strategy Strategy
}

// NewBalancer builds a balancer over this tick's model and occupancy grid
func NewBalancer(m *world.Model, occ *grid.Occupancy, s Strategy) *Balancer {
	return &Balancer{model: m, occ: occ, strategy: s}
}

// RankDepositTargets returns own spawns and storages ordered by free
// 8-neighborhood slots, most accessible first. Targets with no free
// adjacent tile are excluded: a worker could never reach them this tick.
// Spawns camped by foreign units rank low naturally, since campers occupy
// neighbor tiles.
func (b *Balancer) RankDepositTargets() []*world.Structure {
	targets := b.model.DepositTargets()
	type ranked struct {
		s    *world.Structure
		free int
	}
	var rs []ranked
	for _, t := range targets {
		free := b.occ.FreeNeighborCount(t.Pos)
		if free == 0 {
			continue
		}
		rs = append(rs, ranked{s: t, free: free})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].free != rs[j].free {
			return rs[i].free > rs[j].free
		}
		return rs[i].s.ID < rs[j].s.ID
	})
	out := make([]*world.Structure, len(rs))
	for i, r := range rs {
		out[i] = r.s
	}
	return out
}

// PrimarySpawn returns the most accessible own spawn, if any
func (b *Balancer) PrimarySpawn() (*world.Structure, bool) {
	var best *world.Structure
	bestFree := -1
	for _, s := range b.model.Spawns() {
		if free := b.occ.FreeNeighborCount(s.Pos); free > bestFree {
			best = s
			bestFree = free
		}
	}
	return best, best != nil
}

// SpawnDecisions returns the spawn actions for this tick: at most one new
// unit per spawn structure, suppressed once the configured caps are
// reached. Spawns with no free adjacent tile are skipped, since the new
// unit would have nowhere to stand.
func (b *Balancer) SpawnDecisions() []action.Action {
	workers := len(b.model.OwnUnits(world.UnitWorker))
	soldiers := len(b.model.OwnUnits(world.UnitSoldier))
	reserve := b.strategy.SpawnEnergyReserve

	var out []action.Action
	for _, sp := range b.model.Spawns() {
		if b.occ.FreeNeighborCount(sp.Pos) == 0 {
			continue
		}
		unitType, ok := b.pickSpawnType(sp.Energy, workers, soldiers, reserve)
		if !ok {
			continue
		}
		out = append(out, action.NewSpawn(sp.ID, unitType))
		switch unitType {
		case world.UnitWorker:
			workers++
		case world.UnitSoldier:
			soldiers++
		}
	}
	return out
}

// pickSpawnType applies the priority mode. Economy floods workers and keeps
// soldiers at half cap; military is the mirror image; defense holds the
// energy reserve before spawning anything; balanced favors workers until
// the reserve is exceeded.
func (b *Balancer) pickSpawnType(energy, workers, soldiers, reserve int) (world.UnitType, bool) {
	s := b.strategy
	switch s.PriorityMode {
	case ModeEconomy:
		if workers < s.WorkerCap && energy >= workerSpawnCost {
			return world.UnitWorker, true
		}
		if soldiers < s.SoldierCap/2 && energy >= reserve {
			return world.UnitSoldier, true
		}
	case ModeMilitary:
		if soldiers < s.SoldierCap && energy >= soldierSpawnCost {
			return world.UnitSoldier, true
		}
		if workers < s.WorkerCap/2 && energy >= reserve {
			return world.UnitWorker, true
		}
	case ModeDefense:
		if soldiers < s.SoldierCap && energy >= reserve+soldierSpawnCost {
			return world.UnitSoldier, true
		}
		if workers < s.WorkerCap && energy >= reserve+workerSpawnCost {
			return world.UnitWorker, true
		}
	default: // balanced
		if workers < s.WorkerCap && energy >= workerSpawnCost {
			return world.UnitWorker, true
		}
		if soldiers < s.SoldierCap && energy >= reserve {
			return world.UnitSoldier, true
		}
	}
	return "", false
}

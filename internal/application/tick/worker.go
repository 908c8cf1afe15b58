package tick

import (
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/construction"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// defaultWorkerCapacity covers snapshots that omit a unit's energy capacity
const defaultWorkerCapacity = 100

// workerPlans allocates goals for all owned workers. Per-worker priority:
// construction (fill an under-funded site, then claim an open tower slot),
// opportunistic repair, deposit once carried energy crosses the harvest
// threshold, harvest, and finally scouting toward unseen chunks. A worker
// with no applicable goal idles, which is not an error.
func (e *Engine) workerPlans() []plan {
	fillGoals := e.coordinator.FillGoals()
	placeGoals := e.coordinator.PlaceGoals()

	var plans []plan
	for _, u := range e.model.OwnUnits(world.UnitWorker) {
		u := u
		capacity := u.Capacity
		if capacity == 0 {
			capacity = defaultWorkerCapacity
		}

		if u.Energy >= e.coordinator.MinBuilderEnergy() {
			if p, ok := e.fillPlan(u, fillGoals); ok {
				plans = append(plans, p)
				continue
			}
			if p, ok := e.placePlan(u, placeGoals); ok {
				plans = append(plans, p)
				continue
			}
		}

		if p, ok := e.repairPlan(u); ok {
			plans = append(plans, p)
			continue
		}

		threshold := int(e.strategy.WorkerHarvestThreshold * float64(capacity))
		if u.Energy >= threshold && u.Energy > 0 {
			if p, ok := e.depositPlan(u); ok {
				plans = append(plans, p)
				continue
			}
		}

		if p, ok := e.harvestPlan(u); ok {
			plans = append(plans, p)
			continue
		}

		if p, ok := e.scoutPlan(u); ok {
			plans = append(plans, p)
		}
	}
	return plans
}

// fillPlan routes a worker to the nearest under-funded site. Transfers into
// a site require cardinal adjacency; a diagonally adjacent worker is first
// shifted onto a shared cardinal tile.
func (e *Engine) fillPlan(u *world.Unit, goals []construction.FillGoal) (plan, bool) {
	site, ok := nearestSite(u.Pos, goals)
	if !ok {
		return plan{}, false
	}
	return plan{unit: u, dist: u.Pos.Dist(site.Pos), commit: func() {
		if u.Pos.IsCardinalAdjacent(site.Pos) {
			e.batch.Add(action.NewTransfer(u.ID, site.ID))
			return
		}
		if m, moved, _ := e.planner.StepToCardinal(u.Pos, site.Pos); moved {
			e.batch.Add(action.NewMove(u.ID, m.Dir))
		}
	}}, true
}

// placePlan claims the nearest unclaimed tower-ring slot for this worker.
// Slots are claimed at plan time so two builders never walk to the same
// tile in one tick.
func (e *Engine) placePlan(u *world.Unit, goals []construction.PlaceGoal) (plan, bool) {
	var goal construction.PlaceGoal
	found := false
	for _, g := range goals {
		if e.claimedSlots[g.Pos] {
			continue
		}
		if !found || u.Pos.Dist(g.Pos) < u.Pos.Dist(goal.Pos) {
			goal = g
			found = true
		}
	}
	if !found {
		return plan{}, false
	}
	e.claimedSlots[goal.Pos] = true
	return plan{unit: u, dist: u.Pos.Dist(goal.Pos), commit: func() {
		if dir, ok := e.coordinator.CanPlace(u.Pos, goal.Pos); ok {
			e.batch.Add(action.NewBuild(u.ID, dir, goal.Target))
			return
		}
		if m, moved, _ := e.planner.StepToCardinal(u.Pos, goal.Pos); moved {
			e.batch.Add(action.NewMove(u.ID, m.Dir))
		}
	}}, true
}

// repairPlan is opportunistic: only a structure the worker already stands
// cardinally adjacent to, and only once it has lost half its hit points.
// Workers never path across the map to repair.
func (e *Engine) repairPlan(u *world.Unit) (plan, bool) {
	if u.Energy == 0 {
		return plan{}, false
	}
	for _, nb := range u.Pos.CardinalNeighbors() {
		s, ok := e.model.StructureAt(nb.Pos)
		if !ok || s.OwnerID != e.model.Agent.ID {
			continue
		}
		if s.HitsMax > 0 && s.Hits < s.HitsMax/2 {
			s := s
			return plan{unit: u, dist: 0, commit: func() {
				e.batch.Add(action.NewRepair(u.ID, s.ID))
			}}, true
		}
	}
	return plan{}, false
}

// depositPlan sends a loaded worker toward the most accessible deposit
// target, ranked by free adjacent tiles. The transfer itself is
// opportunistic: the worker unloads into whichever valid target it happens
// to be adjacent to when it commits, not necessarily the one it was
// walking toward.
func (e *Engine) depositPlan(u *world.Unit) (plan, bool) {
	ranked := e.balancer.RankDepositTargets()
	adjacent := e.adjacentDepositTarget(u)

	if adjacent == nil && len(ranked) == 0 {
		return plan{}, false
	}

	dist := 0
	if adjacent == nil {
		dist = u.Pos.Dist(ranked[0].Pos)
	}
	return plan{unit: u, dist: dist, commit: func() {
		if t := e.adjacentDepositTarget(u); t != nil {
			e.batch.Add(action.NewTransfer(u.ID, t.ID))
			return
		}
		if best := e.balancer.RankDepositTargets(); len(best) > 0 {
			e.moveToward(u, best[0].Pos)
		}
	}}, true
}

// adjacentDepositTarget returns any own spawn or storage within one step,
// diagonals included
func (e *Engine) adjacentDepositTarget(u *world.Unit) *world.Structure {
	for _, t := range e.model.DepositTargets() {
		if u.Pos.IsAdjacent(t.Pos) {
			return t
		}
	}
	return nil
}

// harvestPlan routes a worker to the nearest non-depleted source, emitting
// harvest once within one step of it
func (e *Engine) harvestPlan(u *world.Unit) (plan, bool) {
	var best *world.Source
	for _, s := range e.model.ActiveSources() {
		if best == nil || u.Pos.Dist(s.Pos) < u.Pos.Dist(best.Pos) {
			best = s
		}
	}
	if best == nil {
		return plan{}, false
	}
	target := best
	return plan{unit: u, dist: u.Pos.Dist(target.Pos), commit: func() {
		if u.Pos.IsAdjacent(target.Pos) {
			e.batch.Add(action.NewHarvest(u.ID, target.ID))
			return
		}
		e.moveToward(u, target.Pos)
	}}, true
}

// scoutPlan sends an idle worker toward the nearest chunk bordering the
// visible area, to push back the fog of war. Equidistant candidates tie
// break on coordinate order so the target does not depend on map iteration.
func (e *Engine) scoutPlan(u *world.Unit) (plan, bool) {
	var goal world.Position
	found := false
	for coord := range e.model.Terrain.VisibleChunks() {
		for _, nc := range []world.ChunkCoord{
			{X: coord.X + 1, Y: coord.Y},
			{X: coord.X - 1, Y: coord.Y},
			{X: coord.X, Y: coord.Y + 1},
			{X: coord.X, Y: coord.Y - 1},
		} {
			if e.model.Terrain.Visible(nc) {
				continue
			}
			center := nc.Center()
			d := u.Pos.Dist(center)
			if !found || d < u.Pos.Dist(goal) ||
				(d == u.Pos.Dist(goal) && posBefore(center, goal)) {
				goal = center
				found = true
			}
		}
	}
	if !found {
		return plan{}, false
	}
	dest := goal
	return plan{unit: u, dist: u.Pos.Dist(dest), commit: func() {
		e.moveToward(u, dest)
	}}, true
}

func posBefore(a, b world.Position) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func nearestSite(from world.Position, goals []construction.FillGoal) (*world.ConstructionSite, bool) {
	var best *world.ConstructionSite
	for _, g := range goals {
		if best == nil || from.Dist(g.Site.Pos) < from.Dist(best.Pos) {
			best = g.Site
		}
	}
	return best, best != nil
}

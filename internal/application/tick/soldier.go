package tick

import (
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// retreatRadius is the spawn doorway zone soldiers must clear so workers
// can reach the spawn; patrolInner is the inner edge of the patrol band.
const (
	retreatRadius = 2
	patrolInner   = 3
)

// soldierPlans allocates goals for all owned soldiers. Priority per
// soldier: clear the spawn doorway, attack an adjacent enemy, close on a
// reachable enemy, otherwise hold the patrol band around the nearest spawn.
func (e *Engine) soldierPlans() []plan {
	var plans []plan
	for _, u := range e.model.OwnUnits(world.UnitSoldier) {
		u := u
		spawn, hasSpawn := e.model.NearestSpawn(u.Pos)

		if hasSpawn && u.Pos.Dist(spawn.Pos) <= retreatRadius {
			// Retreat commits early (dist 0) so the doorway
			// tiles free up before anything else claims them.
			plans = append(plans, plan{unit: u, dist: 0, commit: func() {
				e.commitRetreat(u, spawn.Pos)
			}})
			continue
		}

		if target, ok := e.adjacentAttackable(u); ok {
			plans = append(plans, plan{unit: u, dist: 0, commit: func() {
				e.batch.Add(action.NewAttack(u.ID, target.ID))
			}})
			continue
		}

		if target, ok := e.nearestAttackable(u, e.strategy.SoldierPatrolDistance); ok {
			plans = append(plans, plan{unit: u, dist: u.Pos.Dist(target.Pos), commit: func() {
				e.moveToward(u, target.Pos)
			}})
			continue
		}

		if hasSpawn {
			plans = append(plans, plan{unit: u, dist: u.Pos.Dist(spawn.Pos), commit: func() {
				e.commitPatrol(u, spawn.Pos)
			}})
		}
	}
	return plans
}

// commitRetreat moves a soldier out of the spawn doorway toward the
// [patrolInner, patrol distance] band. Any free step increasing distance
// from the spawn qualifies; if none exists it takes any free step at all
// rather than corking the doorway.
func (e *Engine) commitRetreat(u *world.Unit, spawn world.Position) {
	if m, ok := e.planner.StepAway(u.Pos, spawn); ok {
		e.batch.Add(action.NewMove(u.ID, m.Dir))
		return
	}
	for _, nb := range u.Pos.Neighbors() {
		if e.occ.Reserve(nb.Pos) {
			e.batch.Add(action.NewMove(u.ID, nb.Dir))
			return
		}
	}
}

// commitPatrol keeps a soldier inside the configured distance band from
// its spawn: step inward when beyond the band, outward when inside the
// doorway margin, hold otherwise.
func (e *Engine) commitPatrol(u *world.Unit, spawn world.Position) {
	d := u.Pos.Dist(spawn)
	switch {
	case d > e.strategy.SoldierPatrolDistance:
		e.moveToward(u, spawn)
	case d < patrolInner:
		if m, ok := e.planner.StepAway(u.Pos, spawn); ok {
			e.batch.Add(action.NewMove(u.ID, m.Dir))
		}
	}
	// Inside the band: hold position.
}

// adjacentAttackable returns an attackable foreign unit within one step
func (e *Engine) adjacentAttackable(u *world.Unit) (*world.Unit, bool) {
	for _, enemy := range e.model.Enemies() {
		if u.Pos.Dist(enemy.Pos) <= 1 && e.attackAllowed(enemy) {
			return enemy, true
		}
	}
	return nil, false
}

// nearestAttackable returns the closest attackable foreign unit within the
// given range
func (e *Engine) nearestAttackable(u *world.Unit, within int) (*world.Unit, bool) {
	var best *world.Unit
	bestDist := within + 1
	for _, enemy := range e.model.Enemies() {
		if !e.attackAllowed(enemy) {
			continue
		}
		if d := u.Pos.Dist(enemy.Pos); d < bestDist {
			best = enemy
			bestDist = d
		}
	}
	return best, best != nil
}

// attackAllowed enforces the protection band: no attack is generated when
// either the acting agent or the target's owner sits below the protection
// level. An unreported owner level counts as protected, since a rejected
// batch cannot be retried.
func (e *Engine) attackAllowed(target *world.Unit) bool {
	if e.model.Agent.Protected() {
		return false
	}
	return target.OwnerLevel >= world.ProtectionLevel
}

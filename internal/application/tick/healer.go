package tick

import (
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// followDistance is how far a healer will trail behind the soldier line
// before closing the gap.
const followDistance = 3

// healerPlans allocates goals for owned healers: patch the most damaged
// friendly unit, otherwise shadow the nearest soldier.
func (e *Engine) healerPlans() []plan {
	var plans []plan
	for _, u := range e.model.OwnUnits(world.UnitHealer) {
		u := u

		if target, ok := e.mostDamagedAlly(u); ok {
			if u.Pos.Dist(target.Pos) <= 1 {
				plans = append(plans, plan{unit: u, dist: 0, commit: func() {
					e.batch.Add(action.NewHeal(u.ID, target.ID))
				}})
			} else {
				plans = append(plans, plan{unit: u, dist: u.Pos.Dist(target.Pos), commit: func() {
					e.moveToward(u, target.Pos)
				}})
			}
			continue
		}

		if escort, ok := e.nearestSoldier(u); ok && u.Pos.Dist(escort.Pos) > followDistance {
			plans = append(plans, plan{unit: u, dist: u.Pos.Dist(escort.Pos), commit: func() {
				e.moveToward(u, escort.Pos)
			}})
		}
		// Healthy army and nothing to follow: hold.
	}
	return plans
}

// mostDamagedAlly picks the friendly unit missing the most hit points,
// preferring the nearer one on a tie.
func (e *Engine) mostDamagedAlly(h *world.Unit) (*world.Unit, bool) {
	var best *world.Unit
	bestMissing := 0
	for _, t := range world.AllUnitTypes {
		for _, u := range e.model.OwnUnits(t) {
			if u.ID == h.ID || !u.Damaged() {
				continue
			}
			missing := u.HitsMax - u.Hits
			if missing > bestMissing ||
				(missing == bestMissing && best != nil && h.Pos.Dist(u.Pos) < h.Pos.Dist(best.Pos)) {
				best = u
				bestMissing = missing
			}
		}
	}
	return best, best != nil
}

func (e *Engine) nearestSoldier(h *world.Unit) (*world.Unit, bool) {
	var best *world.Unit
	for _, u := range e.model.OwnUnits(world.UnitSoldier) {
		if best == nil || h.Pos.Dist(u.Pos) < h.Pos.Dist(best.Pos) {
			best = u
		}
	}
	return best, best != nil
}

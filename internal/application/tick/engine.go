// Package tick contains the per-tick decision pipeline: world model in,
// validated action batch out. Processing order is fixed and significant:
// soldiers commit before healers, healers before workers, and inside each
// role the unit closest to its goal commits first. That order is how
// tile-reservation races are resolved deterministically.
package tick

import (
	"sort"

	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/construction"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/grid"
	"github.com/aedjoel/discordia-go/internal/domain/movement"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Engine allocates a goal to every owned unit for one tick. All of its
// state is tick-scoped and discarded after Run.
type Engine struct {
	model       *world.Model
	occ         *grid.Occupancy
	planner     *movement.Planner
	strategy    economy.Strategy
	balancer    *economy.Balancer
	coordinator *construction.Coordinator
	batch       *action.Batch
	log         *zap.Logger

	// claimedSlots prevents two builders from walking to the same open
	// tower-ring position in one tick
	claimedSlots map[world.Position]bool
}

// NewEngine seeds the occupancy grid from the model and wires the planner,
// balancer, and construction coordinator for one tick
func NewEngine(m *world.Model, strategy economy.Strategy, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	occ := grid.New(m)
	return &Engine{
		model:        m,
		occ:          occ,
		planner:      movement.NewPlanner(m.Terrain, occ),
		strategy:     strategy,
		balancer:     economy.NewBalancer(m, occ, strategy),
		coordinator:  construction.NewCoordinator(m, strategy),
		batch:        action.NewBatch(m.Tick),
		log:          log,
		claimedSlots: make(map[world.Position]bool),
	}
}

// Occupancy exposes the engine's grid for assertions in tests
func (e *Engine) Occupancy() *grid.Occupancy {
	return e.occ
}

// Run executes the fixed allocation order and returns the action batch for
// this tick. Soldiers are fully processed before workers so soldiers
// camping a spawn's doorway vacate it before deposit paths are planned.
func (e *Engine) Run() *action.Batch {
	e.runRole(e.soldierPlans())
	e.runRole(e.healerPlans())
	e.runRole(e.workerPlans())
	for _, a := range e.balancer.SpawnDecisions() {
		e.batch.Add(a)
	}
	return e.batch
}

// plan is one unit's allocated goal for the tick. dist orders commits
// inside a role: short, easily satisfied moves reserve their tiles before
// longer, more flexible ones.
type plan struct {
	unit   *world.Unit
	dist   int
	commit func()
}

func (e *Engine) runRole(plans []plan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].dist != plans[j].dist {
			return plans[i].dist < plans[j].dist
		}
		return plans[i].unit.ID < plans[j].unit.ID
	})
	for _, p := range plans {
		p.commit()
	}
}

// moveToward commits a planner step and emits the move action. A unit that
// cannot make progress idles; that is not an error.
func (e *Engine) moveToward(u *world.Unit, goal world.Position) {
	if m, ok := e.planner.Step(u.Pos, goal); ok {
		e.batch.Add(action.NewMove(u.ID, m.Dir))
	}
}

// Package construction tracks the two-phase site lifecycle (place, then
// fill) and derives open construction goals for the task allocation engine.
// A site's completion happens server-side the moment accumulated energy
// reaches the build cost; the coordinator only has to stop offering goals
// for finished or fully funded work.
package construction

import (
	"sort"

	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

// Tower ring geometry: the 8 compass points around each spawn, placed at
// the inner radius and falling back to the outer one when the inner slot
// is unusable.
const (
	ringInnerRadius = 3
	ringOuterRadius = 4
)

// minBuilderEnergy is the carried energy a worker needs before it is worth
// sending to place or fill a site. It must sit below the deposit threshold
// so construction outranks deposit for a worker mid-harvest.
const minBuilderEnergy = 50

// minEconomyWorkers gates tower construction until the harvest economy can
// spare hands
const minEconomyWorkers = 10

// PlaceGoal asks a worker to stand cardinally adjacent to Pos and emit a
// build action for Target
type PlaceGoal struct {
	Pos    world.Position
	Target world.StructureType
}

// FillGoal asks workers to carry energy to an existing under-funded site
type FillGoal struct {
	Site *world.ConstructionSite
}

// Coordinator derives this tick's construction goals from the world model
type Coordinator struct {
	model    *world.Model
	strategy economy.Strategy
}

// NewCoordinator builds a coordinator over the current tick's model
func NewCoordinator(m *world.Model, s economy.Strategy) *Coordinator {
	return &Coordinator{model: m, strategy: s}
}

// FillGoals returns own sites still needing energy, most nearly complete
// first so energy already sunk into a site is not stranded
func (c *Coordinator) FillGoals() []FillGoal {
	var out []FillGoal
	for _, site := range c.model.OwnSites() {
		if site.Complete() {
			continue
		}
		out = append(out, FillGoal{Site: site})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Site.Remaining(), out[j].Site.Remaining()
		if ri != rj {
			return ri < rj
		}
		return out[i].Site.ID < out[j].Site.ID
	})
	return out
}

// PlaceGoals returns open tower-ring slots as placement goals. The ring is
// the 8 compass points at distance 3-4 from each owned spawn; a slot is
// open when no structure or site occupies it and the tile is empty, known
// terrain. Goals are withheld until the minimum economy threshold is met
// and suppressed entirely once the tower cap is reached.
func (c *Coordinator) PlaceGoals() []PlaceGoal {
	if !c.economyReady() {
		return nil
	}
	towerCount := len(c.model.OwnStructures(world.StructureTower)) + c.pendingTowerSites()
	budget := c.strategy.TowerCap - towerCount
	if budget <= 0 {
		return nil
	}

	var out []PlaceGoal
	for _, spawn := range c.model.Spawns() {
		for _, slot := range RingSlots(spawn.Pos) {
			if len(out) >= budget {
				return out
			}
			if pos, ok := c.openSlot(slot); ok {
				out = append(out, PlaceGoal{Pos: pos, Target: world.StructureTower})
			}
		}
	}
	return out
}

// CanPlace validates a placement attempt: the builder must be cardinally
// (not diagonally) adjacent to an empty, known tile. Returns the build
// direction on success.
func (c *Coordinator) CanPlace(builder world.Position, site world.Position) (world.Direction, bool) {
	if !builder.IsCardinalAdjacent(site) {
		return "", false
	}
	if !c.model.IsEmpty(site) {
		return "", false
	}
	dir, ok := builder.DirectionTo(site)
	return dir, ok
}

// MinBuilderEnergy returns the carried-energy floor for construction work
func (c *Coordinator) MinBuilderEnergy() int {
	return minBuilderEnergy
}

// RingSlot holds the candidate positions for one compass slot around a
// spawn: the inner-radius point and its outer fallback.
type RingSlot struct {
	Inner world.Position
	Outer world.Position
}

// RingSlots computes the 8 compass slots around a spawn position
func RingSlots(spawn world.Position) []RingSlot {
	dirs := [][2]int{
		{0, -1}, {1, -1}, {1, 0}, {1, 1},
		{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	}
	out := make([]RingSlot, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, RingSlot{
			Inner: world.Position{X: spawn.X + d[0]*ringInnerRadius, Y: spawn.Y + d[1]*ringInnerRadius},
			Outer: world.Position{X: spawn.X + d[0]*ringOuterRadius, Y: spawn.Y + d[1]*ringOuterRadius},
		})
	}
	return out
}

// openSlot picks the usable position for a ring slot, inner radius first
func (c *Coordinator) openSlot(slot RingSlot) (world.Position, bool) {
	for _, pos := range []world.Position{slot.Inner, slot.Outer} {
		if c.slotTaken(pos) {
			return world.Position{}, false
		}
		if c.model.IsEmpty(pos) {
			return pos, true
		}
	}
	return world.Position{}, false
}

// slotTaken reports whether the slot already hosts a tower or a site, in
// which case it is satisfied rather than blocked
func (c *Coordinator) slotTaken(pos world.Position) bool {
	if s, ok := c.model.StructureAt(pos); ok && s.Type == world.StructureTower {
		return true
	}
	if _, ok := c.model.SiteAt(pos); ok {
		return true
	}
	return false
}

func (c *Coordinator) pendingTowerSites() int {
	n := 0
	for _, site := range c.model.OwnSites() {
		if site.Target == world.StructureTower {
			n++
		}
	}
	return n
}

// economyReady gates construction on worker count and banked spawn energy,
// so towers never starve the unit economy
func (c *Coordinator) economyReady() bool {
	if len(c.model.OwnUnits(world.UnitWorker)) < minEconomyWorkers {
		return false
	}
	total := 0
	for _, sp := range c.model.Spawns() {
		total += sp.Energy
	}
	return total >= c.strategy.SpawnEnergyReserve
}

package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

type engineContext struct {
	agentLevel int
	snapshot   *world.Snapshot
	batch      *action.Batch
}

func (ec *engineContext) reset() {
	ec.agentLevel = 7
	ec.snapshot = &world.Snapshot{
		Tick:  1,
		Agent: world.Agent{ID: "me", Name: "bdd-agent", Level: 7},
		Chunks: []world.SnapshotChunk{
			{ChunkX: 0, ChunkY: 0},
		},
	}
	ec.batch = nil
}

func coords(x, y int) (*int, *int) {
	return &x, &y
}

func (ec *engineContext) theAgentIsAtLevel(level int) error {
	ec.agentLevel = level
	ec.snapshot.Agent.Level = level
	return nil
}

func (ec *engineContext) aUnitAt(unitType, id string, x, y int) error {
	px, py := coords(x, y)
	ec.snapshot.Units = append(ec.snapshot.Units, world.SnapshotUnit{
		ID:      id,
		OwnerID: "me",
		Type:    unitType,
		X:       px,
		Y:       py,
		Energy:  0,
		Hits:    100,
		HitsMax: 100,
	})
	return nil
}

func (ec *engineContext) aWorkerAtWithEnergy(id string, x, y, energy int) error {
	px, py := coords(x, y)
	ec.snapshot.Units = append(ec.snapshot.Units, world.SnapshotUnit{
		ID:       id,
		OwnerID:  "me",
		Type:     "worker",
		X:        px,
		Y:        py,
		Energy:   energy,
		Capacity: 100,
		Hits:     100,
		HitsMax:  100,
	})
	return nil
}

func (ec *engineContext) anEnemyUnitAtOwnedByLevel(unitType, id string, x, y, level int) error {
	px, py := coords(x, y)
	ec.snapshot.Chunks[0].Units = append(ec.snapshot.Chunks[0].Units, world.SnapshotUnit{
		ID:         id,
		OwnerID:    "other",
		OwnerLevel: level,
		Type:       unitType,
		X:          px,
		Y:          py,
		Hits:       100,
		HitsMax:    100,
	})
	return nil
}

func (ec *engineContext) aSourceAtWithEnergy(id string, x, y, energy int) error {
	px, py := coords(x, y)
	ec.snapshot.Chunks[0].Sources = append(ec.snapshot.Chunks[0].Sources, world.SnapshotSource{
		ID:     id,
		X:      px,
		Y:      py,
		Energy: energy,
	})
	return nil
}

func (ec *engineContext) anOwnSpawnAtWithEnergy(id string, x, y, energy int) error {
	px, py := coords(x, y)
	ec.snapshot.Structures = append(ec.snapshot.Structures, world.SnapshotStructure{
		ID:      id,
		OwnerID: "me",
		Type:    "spawn",
		X:       px,
		Y:       py,
		Energy:  energy,
		Hits:    1000,
		HitsMax: 1000,
	})
	return nil
}

func (ec *engineContext) theTickEngineRuns() error {
	model, warnings := world.BuildModel(ec.snapshot)
	if len(warnings) > 0 {
		return fmt.Errorf("snapshot produced warnings: %v", warnings)
	}
	ec.batch = tick.NewEngine(model, economy.DefaultStrategy(), zap.NewNop()).Run()
	return nil
}

func (ec *engineContext) findAction(unitID string) (action.Action, bool) {
	for _, a := range ec.batch.Actions {
		if a.UnitID == unitID {
			return a, true
		}
	}
	return action.Action{}, false
}

func (ec *engineContext) unitShouldTarget(unitID, verb, targetID string) error {
	a, ok := ec.findAction(unitID)
	if !ok {
		return fmt.Errorf("no action issued for unit %q", unitID)
	}
	if verb == "transfer to" {
		verb = "transfer"
	}
	if string(a.Type) != verb {
		return fmt.Errorf("expected unit %q to %s, got %q", unitID, verb, a.Type)
	}
	if a.TargetID != targetID {
		return fmt.Errorf("expected unit %q to %s %q, got target %q", unitID, verb, targetID, a.TargetID)
	}
	return nil
}

func (ec *engineContext) unitShouldMove(unitID string) error {
	a, ok := ec.findAction(unitID)
	if !ok {
		return fmt.Errorf("no action issued for unit %q", unitID)
	}
	if a.Type != action.Move {
		return fmt.Errorf("expected unit %q to move, got %q", unitID, a.Type)
	}
	return nil
}

func (ec *engineContext) unitShouldNotAttack(unitID string) error {
	a, ok := ec.findAction(unitID)
	if !ok {
		return nil
	}
	if a.Type == action.Attack {
		return fmt.Errorf("unit %q attacked %q but must not", unitID, a.TargetID)
	}
	return nil
}

func (ec *engineContext) unitActsBefore(firstID, secondID string) error {
	first, second := -1, -1
	for i, a := range ec.batch.Actions {
		if a.UnitID == firstID {
			first = i
		}
		if a.UnitID == secondID {
			second = i
		}
	}
	if first < 0 || second < 0 {
		return fmt.Errorf("missing actions: %q at %d, %q at %d", firstID, first, secondID, second)
	}
	if first >= second {
		return fmt.Errorf("expected %q (index %d) to act before %q (index %d)", firstID, first, secondID, second)
	}
	return nil
}

// InitializeEngineScenario registers tick engine step definitions
func InitializeEngineScenario(sc *godog.ScenarioContext) {
	ctx := &engineContext{}

	sc.Before(func(c context.Context, scenario *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^the agent is at level (\d+)$`, ctx.theAgentIsAtLevel)
	sc.Step(`^an own (worker|soldier|healer) "([^"]*)" at \((\d+), (\d+)\)$`, ctx.aUnitAt)
	sc.Step(`^an own worker "([^"]*)" at \((\d+), (\d+)\) carrying (\d+) energy$`, ctx.aWorkerAtWithEnergy)
	sc.Step(`^an enemy (worker|soldier|healer) "([^"]*)" at \((\d+), (\d+)\) owned by a level (\d+) agent$`, ctx.anEnemyUnitAtOwnedByLevel)
	sc.Step(`^a source "([^"]*)" at \((\d+), (\d+)\) with (\d+) energy$`, ctx.aSourceAtWithEnergy)
	sc.Step(`^an own spawn "([^"]*)" at \((\d+), (\d+)\) with (\d+) energy$`, ctx.anOwnSpawnAtWithEnergy)
	sc.Step(`^the tick engine runs$`, ctx.theTickEngineRuns)
	sc.Step(`^unit "([^"]*)" should (harvest|attack|heal|transfer to) "([^"]*)"$`, ctx.unitShouldTarget)
	sc.Step(`^unit "([^"]*)" should move$`, ctx.unitShouldMove)
	sc.Step(`^unit "([^"]*)" should not attack$`, ctx.unitShouldNotAttack)
	sc.Step(`^unit "([^"]*)" should act before unit "([^"]*)"$`, ctx.unitActsBefore)
}

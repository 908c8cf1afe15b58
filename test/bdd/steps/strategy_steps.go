package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
)

type strategyContext struct {
	strategy economy.Strategy
	patch    economy.StrategyPatch
	err      error
}

func (sc *strategyContext) reset() {
	sc.strategy = economy.Strategy{}
	sc.patch = economy.StrategyPatch{}
	sc.err = nil
}

func (sc *strategyContext) theDefaultStrategy() error {
	sc.strategy = economy.DefaultStrategy()
	return nil
}

func (sc *strategyContext) aPatchSettingTo(field, value string) error {
	switch field {
	case "worker_cap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		sc.patch.WorkerCap = &n
	case "soldier_cap":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		sc.patch.SoldierCap = &n
	case "worker_harvest_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		sc.patch.WorkerHarvestThreshold = &f
	case "priority_mode":
		mode := economy.PriorityMode(value)
		sc.patch.PriorityMode = &mode
	default:
		return fmt.Errorf("unknown strategy field %q", field)
	}
	return nil
}

func (sc *strategyContext) iApplyThePatch() error {
	sc.strategy = sc.patch.Apply(sc.strategy)
	return nil
}

func (sc *strategyContext) iValidateTheStrategy() error {
	sc.err = config.NewValidator().Validate(sc.strategy)
	return nil
}

func (sc *strategyContext) theFieldShouldBe(field, expected string) error {
	var got string
	switch field {
	case "worker_cap":
		got = strconv.Itoa(sc.strategy.WorkerCap)
	case "soldier_cap":
		got = strconv.Itoa(sc.strategy.SoldierCap)
	case "tower_cap":
		got = strconv.Itoa(sc.strategy.TowerCap)
	case "worker_harvest_threshold":
		got = strconv.FormatFloat(sc.strategy.WorkerHarvestThreshold, 'g', -1, 64)
	case "soldier_patrol_distance":
		got = strconv.Itoa(sc.strategy.SoldierPatrolDistance)
	case "spawn_energy_reserve":
		got = strconv.Itoa(sc.strategy.SpawnEnergyReserve)
	case "priority_mode":
		got = string(sc.strategy.PriorityMode)
	default:
		return fmt.Errorf("unknown strategy field %q", field)
	}
	if got != expected {
		return fmt.Errorf("expected %s to be %s, got %s", field, expected, got)
	}
	return nil
}

func (sc *strategyContext) validationShouldSucceed() error {
	if sc.err != nil {
		return fmt.Errorf("expected validation to succeed, got: %v", sc.err)
	}
	return nil
}

func (sc *strategyContext) validationShouldFail() error {
	if sc.err == nil {
		return fmt.Errorf("expected validation to fail, but it succeeded")
	}
	return nil
}

// InitializeStrategyScenario registers strategy posture step definitions
func InitializeStrategyScenario(sc *godog.ScenarioContext) {
	ctx := &strategyContext{}

	sc.Before(func(c context.Context, scenario *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^the default strategy$`, ctx.theDefaultStrategy)
	sc.Step(`^a patch setting "([^"]*)" to "([^"]*)"$`, ctx.aPatchSettingTo)
	sc.Step(`^I apply the patch$`, ctx.iApplyThePatch)
	sc.Step(`^I validate the strategy$`, ctx.iValidateTheStrategy)
	sc.Step(`^the strategy field "([^"]*)" should be "([^"]*)"$`, ctx.theFieldShouldBe)
	sc.Step(`^strategy validation should succeed$`, ctx.validationShouldSucceed)
	sc.Step(`^strategy validation should fail$`, ctx.validationShouldFail)
}

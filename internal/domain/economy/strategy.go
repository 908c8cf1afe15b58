package economy

// PriorityMode shapes spawn-type selection and cap usage
type PriorityMode string

const (
	ModeBalanced PriorityMode = "balanced"
	ModeEconomy  PriorityMode = "economy"
	ModeMilitary PriorityMode = "military"
	ModeDefense  PriorityMode = "defense"
)

// Strategy is the numeric posture the advisory collaborator tunes between
// ticks. It is constructed once at startup, replaced wholesale when the
// advisor publishes an update, and read-only during a tick.
type Strategy struct {
	WorkerCap              int          `json:"worker_cap" mapstructure:"worker_cap" validate:"min=0,max=1000"`
	SoldierCap             int          `json:"soldier_cap" mapstructure:"soldier_cap" validate:"min=0,max=1000"`
	TowerCap               int          `json:"tower_cap" mapstructure:"tower_cap" validate:"min=0,max=500"`
	WorkerHarvestThreshold float64      `json:"worker_harvest_threshold" mapstructure:"worker_harvest_threshold" validate:"gt=0,lte=1"`
	SoldierPatrolDistance  int          `json:"soldier_patrol_distance" mapstructure:"soldier_patrol_distance" validate:"min=3,max=50"`
	SpawnEnergyReserve     int          `json:"spawn_energy_reserve" mapstructure:"spawn_energy_reserve" validate:"min=0,max=5000"`
	PriorityMode           PriorityMode `json:"priority_mode" mapstructure:"priority_mode" validate:"oneof=balanced economy military defense"`
}

// DefaultStrategy returns the baseline posture used until the advisor
// publishes its first update
func DefaultStrategy() Strategy {
	return Strategy{
		WorkerCap:              120,
		SoldierCap:             100,
		TowerCap:               30,
		WorkerHarvestThreshold: 0.8,
		SoldierPatrolDistance:  10,
		SpawnEnergyReserve:     300,
		PriorityMode:           ModeBalanced,
	}
}

// StrategyPatch is a partial update from the advisory surface; nil fields
// leave the current value unchanged
type StrategyPatch struct {
	WorkerCap              *int          `json:"worker_cap"`
	SoldierCap             *int          `json:"soldier_cap"`
	TowerCap               *int          `json:"tower_cap"`
	WorkerHarvestThreshold *float64      `json:"worker_harvest_threshold"`
	SoldierPatrolDistance  *int          `json:"soldier_patrol_distance"`
	SpawnEnergyReserve     *int          `json:"spawn_energy_reserve"`
	PriorityMode           *PriorityMode `json:"priority_mode"`
}

// Apply returns a copy of s with the patch's non-nil fields overwritten
func (p StrategyPatch) Apply(s Strategy) Strategy {
	if p.WorkerCap != nil {
		s.WorkerCap = *p.WorkerCap
	}
	if p.SoldierCap != nil {
		s.SoldierCap = *p.SoldierCap
	}
	if p.TowerCap != nil {
		s.TowerCap = *p.TowerCap
	}
	if p.WorkerHarvestThreshold != nil {
		s.WorkerHarvestThreshold = *p.WorkerHarvestThreshold
	}
	if p.SoldierPatrolDistance != nil {
		s.SoldierPatrolDistance = *p.SoldierPatrolDistance
	}
	if p.SpawnEnergyReserve != nil {
		s.SpawnEnergyReserve = *p.SpawnEnergyReserve
	}
	if p.PriorityMode != nil {
		s.PriorityMode = *p.PriorityMode
	}
	return s
}

package world

// ProtectionLevel is the agent level below which PvP is disabled. Agents
// under this level can neither attack nor be attacked.
const ProtectionLevel = 6

// UnitType enumerates the controllable unit roles
type UnitType string

const (
	UnitWorker  UnitType = "worker"
	UnitSoldier UnitType = "soldier"
	UnitHealer  UnitType = "healer"
)

// AllUnitTypes lists every controllable role in spawn-priority order
var AllUnitTypes = []UnitType{UnitSoldier, UnitHealer, UnitWorker}

// StructureType enumerates the buildable structure kinds
type StructureType string

const (
	StructureSpawn   StructureType = "spawn"
	StructureStorage StructureType = "storage"
	StructureTower   StructureType = "tower"
	StructureWall    StructureType = "wall"
)

// BuildCost returns the energy required to complete a construction site of
// the given type. Unknown types cost the tower price.
func BuildCost(t StructureType) int {
	switch t {
	case StructureSpawn:
		return 2000
	case StructureTower, StructureStorage:
		return 500
	default:
		return 500
	}
}

// Agent holds the acting player's identity for the current tick
type Agent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Protected reports whether the agent sits inside the no-PvP level band
func (a Agent) Protected() bool {
	return a.Level < ProtectionLevel
}

// Unit is a single controllable or foreign unit as of this tick. Entities
// are rebuilt from scratch every snapshot; only IDs persist across ticks.
type Unit struct {
	ID         string
	OwnerID    string
	OwnerLevel int // 0 when the server did not report the owner's level
	Type       UnitType
	Pos        Position
	Energy     int
	Capacity   int
	Hits       int
	HitsMax    int
}

// Damaged reports whether the unit has lost hit points
func (u *Unit) Damaged() bool {
	return u.HitsMax > 0 && u.Hits < u.HitsMax
}

// Structure is a completed structure (own or foreign) as of this tick
type Structure struct {
	ID      string
	OwnerID string
	Type    StructureType
	Pos     Position
	Energy  int
	Hits    int
	HitsMax int
}

// Damaged reports whether the structure has lost hit points
func (s *Structure) Damaged() bool {
	return s.HitsMax > 0 && s.Hits < s.HitsMax
}

// IsDepositTarget reports whether workers may transfer carried energy here
func (s *Structure) IsDepositTarget() bool {
	return s.Type == StructureSpawn || s.Type == StructureStorage
}

// ConstructionSite is an in-progress structure accumulating energy toward
// its build cost. It exists only between placement and completion.
type ConstructionSite struct {
	ID      string
	OwnerID string
	Pos     Position
	Target  StructureType
	Energy  int
	Cost    int
}

// Remaining returns the energy still needed to complete the site
func (c *ConstructionSite) Remaining() int {
	r := c.Cost - c.Energy
	if r < 0 {
		return 0
	}
	return r
}

// Complete reports whether accumulated energy has reached the build cost
func (c *ConstructionSite) Complete() bool {
	return c.Energy >= c.Cost
}

// Source is an energy source visible inside the fog-of-war radius
type Source struct {
	ID     string
	Pos    Position
	Energy int
}

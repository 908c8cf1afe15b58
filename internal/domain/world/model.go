package world

import (
	"fmt"
	"sort"
)

// Model is the per-tick world model: flattened entity tables (own plus
// foreign, tagged by owner), a chunk-indexed terrain lookup, and the set of
// visible chunks. Nothing in a Model outlives the tick that built it.
type Model struct {
	Tick    int
	Agent   Agent
	Terrain *TerrainMap

	Units      []*Unit
	Structures []*Structure
	Sites      []*ConstructionSite
	Sources    []*Source

	unitsByID   map[string]*Unit
	unitsAt     map[Position]*Unit
	structsAt   map[Position]*Structure
	sitesAt     map[Position]*ConstructionSite
	structsByID map[string]*Structure
	sitesByID   map[string]*ConstructionSite
}

// BuildModel assembles the Model from a raw snapshot. Pure transformation:
// the snapshot is never mutated. Malformed entries (missing id or
// coordinates) are dropped and reported as warnings rather than failing the
// tick.
func BuildModel(snap *Snapshot) (*Model, []string) {
	m := &Model{
		Tick:        snap.Tick,
		Agent:       snap.Agent,
		Terrain:     NewTerrainMap(),
		unitsByID:   make(map[string]*Unit),
		unitsAt:     make(map[Position]*Unit),
		structsAt:   make(map[Position]*Structure),
		sitesAt:     make(map[Position]*ConstructionSite),
		structsByID: make(map[string]*Structure),
		sitesByID:   make(map[string]*ConstructionSite),
	}
	var warnings []string

	for _, c := range snap.Chunks {
		m.Terrain.AddChunk(ChunkCoord{X: c.ChunkX, Y: c.ChunkY}, c.Terrain)
	}

	for _, su := range snap.Units {
		if err := m.addUnit(su, snap.Agent.ID); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	for _, ss := range snap.Structures {
		if err := m.addStructure(ss, snap.Agent.ID); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	for _, c := range snap.Chunks {
		for _, su := range c.Units {
			if su.OwnerID == snap.Agent.ID {
				continue // already present in the owned-unit table
			}
			if err := m.addUnit(su, snap.Agent.ID); err != nil {
				warnings = append(warnings, err.Error())
			}
		}
		for _, ss := range c.Structures {
			if ss.OwnerID == snap.Agent.ID {
				continue
			}
			if err := m.addStructure(ss, snap.Agent.ID); err != nil {
				warnings = append(warnings, err.Error())
			}
		}
		for _, src := range c.Sources {
			if src.ID == "" || src.X == nil || src.Y == nil {
				warnings = append(warnings, fmt.Sprintf("dropped malformed source entry (id=%q)", src.ID))
				continue
			}
			m.Sources = append(m.Sources, &Source{
				ID:     src.ID,
				Pos:    Position{X: *src.X, Y: *src.Y},
				Energy: src.Energy,
			})
		}
	}

	return m, warnings
}

func (m *Model) addUnit(su SnapshotUnit, ownID string) error {
	if su.ID == "" || su.X == nil || su.Y == nil {
		return fmt.Errorf("dropped malformed unit entry (id=%q)", su.ID)
	}
	if _, ok := m.unitsByID[su.ID]; ok {
		return nil // duplicate across overlapping chunk reports
	}
	u := &Unit{
		ID:         su.ID,
		OwnerID:    su.OwnerID,
		OwnerLevel: su.OwnerLevel,
		Type:       UnitType(su.Type),
		Pos:        Position{X: *su.X, Y: *su.Y},
		Energy:     su.Energy,
		Capacity:   su.Capacity,
		Hits:       su.Hits,
		HitsMax:    su.HitsMax,
	}
	if u.OwnerID == ownID && u.OwnerLevel == 0 {
		u.OwnerLevel = m.Agent.Level
	}
	m.Units = append(m.Units, u)
	m.unitsByID[u.ID] = u
	m.unitsAt[u.Pos] = u
	return nil
}

func (m *Model) addStructure(ss SnapshotStructure, ownID string) error {
	if ss.ID == "" || ss.X == nil || ss.Y == nil {
		return fmt.Errorf("dropped malformed structure entry (id=%q)", ss.ID)
	}
	pos := Position{X: *ss.X, Y: *ss.Y}
	if ss.Type == wireConstructionSite {
		if _, ok := m.sitesByID[ss.ID]; ok {
			return nil
		}
		target := StructureType(ss.TargetType)
		cost := ss.Cost
		if cost == 0 {
			cost = BuildCost(target)
		}
		site := &ConstructionSite{
			ID:      ss.ID,
			OwnerID: ss.OwnerID,
			Pos:     pos,
			Target:  target,
			Energy:  ss.Energy,
			Cost:    cost,
		}
		m.Sites = append(m.Sites, site)
		m.sitesByID[site.ID] = site
		m.sitesAt[pos] = site
		return nil
	}
	if _, ok := m.structsByID[ss.ID]; ok {
		return nil
	}
	s := &Structure{
		ID:      ss.ID,
		OwnerID: ss.OwnerID,
		Type:    StructureType(ss.Type),
		Pos:     pos,
		Energy:  ss.Energy,
		Hits:    ss.Hits,
		HitsMax: ss.HitsMax,
	}
	m.Structures = append(m.Structures, s)
	m.structsByID[s.ID] = s
	m.structsAt[pos] = s
	return nil
}

// Lookup helpers. All resolve by value, never by long-lived reference:
// identifiers are the only thing correlated across ticks.

// UnitByID resolves a unit id within this tick's model
func (m *Model) UnitByID(id string) (*Unit, bool) {
	u, ok := m.unitsByID[id]
	return u, ok
}

// UnitAt returns the unit standing on the position, if any
func (m *Model) UnitAt(p Position) (*Unit, bool) {
	u, ok := m.unitsAt[p]
	return u, ok
}

// StructureAt returns the structure occupying the position, if any
func (m *Model) StructureAt(p Position) (*Structure, bool) {
	s, ok := m.structsAt[p]
	return s, ok
}

// SiteAt returns the construction site at the position, if any
func (m *Model) SiteAt(p Position) (*ConstructionSite, bool) {
	s, ok := m.sitesAt[p]
	return s, ok
}

// OwnUnits returns the acting agent's units of the given type, in a stable
// order
func (m *Model) OwnUnits(t UnitType) []*Unit {
	var out []*Unit
	for _, u := range m.Units {
		if u.OwnerID == m.Agent.ID && u.Type == t {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enemies returns all visible foreign units
func (m *Model) Enemies() []*Unit {
	var out []*Unit
	for _, u := range m.Units {
		if u.OwnerID != m.Agent.ID {
			out = append(out, u)
		}
	}
	return out
}

// OwnStructures returns the acting agent's structures of the given type
func (m *Model) OwnStructures(t StructureType) []*Structure {
	var out []*Structure
	for _, s := range m.Structures {
		if s.OwnerID == m.Agent.ID && s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Spawns returns the acting agent's spawn structures
func (m *Model) Spawns() []*Structure {
	return m.OwnStructures(StructureSpawn)
}

// DepositTargets returns own spawns and storages, the structures workers
// may transfer energy into
func (m *Model) DepositTargets() []*Structure {
	var out []*Structure
	for _, s := range m.Structures {
		if s.OwnerID == m.Agent.ID && s.IsDepositTarget() {
			out = append(out, s)
		}
	}
	return out
}

// OwnSites returns the acting agent's construction sites
func (m *Model) OwnSites() []*ConstructionSite {
	var out []*ConstructionSite
	for _, s := range m.Sites {
		if s.OwnerID == m.Agent.ID {
			out = append(out, s)
		}
	}
	return out
}

// ActiveSources returns visible sources that still hold energy
func (m *Model) ActiveSources() []*Source {
	var out []*Source
	for _, s := range m.Sources {
		if s.Energy > 0 {
			out = append(out, s)
		}
	}
	return out
}

// IsEmpty reports whether a tile can be built on: known passable terrain with
// no unit, structure, or construction site of any owner.
func (m *Model) IsEmpty(p Position) bool {
	if !m.Terrain.Passable(p) {
		return false
	}
	if _, ok := m.unitsAt[p]; ok {
		return false
	}
	if _, ok := m.structsAt[p]; ok {
		return false
	}
	if _, ok := m.sitesAt[p]; ok {
		return false
	}
	return true
}

// NearestSpawn returns the own spawn closest to the position
func (m *Model) NearestSpawn(p Position) (*Structure, bool) {
	var best *Structure
	bestDist := 0
	for _, s := range m.Spawns() {
		d := p.Dist(s.Pos)
		if best == nil || d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, best != nil
}

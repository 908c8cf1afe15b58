package world

// Snapshot mirrors wire format of the GET /game/state response: the agent's
// own entities plus a list of visible chunks, each carrying terrain and the
// foreign entities inside it. The snapshot is a read-only input; BuildModel
// turns it into the per-tick Model without mutating it.
type Snapshot struct {
	Tick       int                 `json:"tick"`
	Agent      Agent               `json:"agent"`
	Units      []SnapshotUnit      `json:"myUnits"`
	Structures []SnapshotStructure `json:"myStructures"`
	Chunks     []SnapshotChunk     `json:"visibleChunks"`
}

// SnapshotUnit is a unit entry as received on the wire
type SnapshotUnit struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	OwnerLevel int    `json:"ownerLevel"`
	Type       string `json:"type"`
	X          *int   `json:"x"`
	Y          *int   `json:"y"`
	Energy     int    `json:"energy"`
	Capacity   int    `json:"energyCapacity"`
	Hits       int    `json:"hits"`
	HitsMax    int    `json:"hitsMax"`
}

// SnapshotStructure is a structure or construction-site entry as received
// on the wire. Construction sites arrive as type "construction_site" with
// a target type and a build cost.
type SnapshotStructure struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Type       string `json:"type"`
	TargetType string `json:"targetType"`
	X          *int   `json:"x"`
	Y          *int   `json:"y"`
	Energy     int    `json:"energy"`
	Cost       int    `json:"cost"`
	Hits       int    `json:"hits"`
	HitsMax    int    `json:"hitsMax"`
}

// SnapshotSource is a source entry inside a visible chunk
type SnapshotSource struct {
	ID     string `json:"id"`
	X      *int   `json:"x"`
	Y      *int   `json:"y"`
	Energy int    `json:"energy"`
}

// SnapshotChunk is one visible 25x25 region with its terrain grid and the
// entities currently inside it
type SnapshotChunk struct {
	ChunkX     int                 `json:"chunkX"`
	ChunkY     int                 `json:"chunkY"`
	Terrain    [][]string          `json:"terrain"`
	Sources    []SnapshotSource    `json:"sources"`
	Units      []SnapshotUnit      `json:"units"`
	Structures []SnapshotStructure `json:"structures"`
}

// wireConstructionSite is the structure type value used for in-progress sites
const wireConstructionSite = "construction_site"

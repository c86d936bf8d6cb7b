package model

// TickState is the full colony snapshot the host sends once per tick.
type TickState struct {
	Tick              int                `json:"tick"`
	Room              Room               `json:"room"`
	Creeps            []Creep            `json:"creeps"`
	Sources           []Source           `json:"sources"`
	Structures        []Structure        `json:"structures"`
	ConstructionSites []ConstructionSite `json:"constructionSites"`
}

type Room struct {
	Name                    string      `json:"name"`
	EnergyAvailable         int         `json:"energyAvailable"`
	EnergyCapacityAvailable int         `json:"energyCapacityAvailable"`
	Controller              *Controller `json:"controller,omitempty"`
}

// Store is an energy container: a creep's carry parts or a structure's buffer.
type Store struct {
	Used     int `json:"used"`
	Capacity int `json:"capacity"`
}

func (s Store) Free() int {
	if s.Capacity <= s.Used {
		return 0
	}
	return s.Capacity - s.Used
}

type Creep struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Pos      Pos      `json:"pos"`
	Store    Store    `json:"store"`
	Body     []string `json:"body,omitempty"`
	Spawning bool     `json:"spawning,omitempty"`
	// Role is optional; hosts that keep their own memory report it so
	// records lost on the core side can be adopted.
	Role string `json:"role,omitempty"`
}

type Source struct {
	ID             string `json:"id"`
	Pos            Pos    `json:"pos"`
	Energy         int    `json:"energy"`
	EnergyCapacity int    `json:"energyCapacity"`
}

// Active reports whether the source still has energy this regeneration cycle.
func (s Source) Active() bool { return s.Energy > 0 }

type Structure struct {
	ID      string `json:"id"`
	Type    string `json:"structureType"`
	Pos     Pos    `json:"pos"`
	Hits    int    `json:"hits"`
	HitsMax int    `json:"hitsMax"`
	Store   *Store `json:"store,omitempty"`

	// Spawn-only fields.
	Name     string `json:"name,omitempty"`
	Spawning bool   `json:"spawning,omitempty"`
}

// Damaged reports whether the structure has lost any hits.
func (s Structure) Damaged() bool { return s.Hits < s.HitsMax }

// FreeEnergy returns the remaining energy capacity, 0 for structures without a store.
func (s Structure) FreeEnergy() int {
	if s.Store == nil {
		return 0
	}
	return s.Store.Free()
}

type ConstructionSite struct {
	ID            string `json:"id"`
	Type          string `json:"structureType"`
	Pos           Pos    `json:"pos"`
	Progress      int    `json:"progress"`
	ProgressTotal int    `json:"progressTotal"`
}

type Controller struct {
	ID               string `json:"id"`
	Pos              Pos    `json:"pos"`
	Level            int    `json:"level"`
	Progress         int    `json:"progress"`
	ProgressTotal    int    `json:"progressTotal"`
	TicksToDowngrade int    `json:"ticksToDowngrade"`
}

// ProgressRatio returns progress toward the next level in [0, 1].
// Max-level controllers report a zero total and yield 0.
func (c Controller) ProgressRatio() float64 {
	if c.ProgressTotal <= 0 {
		return 0
	}
	return float64(c.Progress) / float64(c.ProgressTotal)
}

// Structure type constants.
const (
	StructureSpawn     = "spawn"
	StructureExtension = "extension"
	StructureTower     = "tower"
	StructureWall      = "constructedWall"
	StructureRampart   = "rampart"
	StructureRoad      = "road"
	StructureContainer = "container"
	StructureStorage   = "storage"
)

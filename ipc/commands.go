package ipc

// Command type constants. These must stay in sync with the host's command executor.
const (
	TypeHarvest           = "harvest"
	TypeTransfer          = "transfer"
	TypeBuild             = "build"
	TypeRepair            = "repair"
	TypeUpgradeController = "upgrade_controller"
	TypeMove              = "move"
	TypeSay               = "say"
	TypeSpawnCreep        = "spawn_creep"
)

type HarvestCommand struct {
	Creep    string `json:"creep"`
	SourceID string `json:"source_id"`
}

type TransferCommand struct {
	Creep    string `json:"creep"`
	TargetID string `json:"target_id"`
	Resource string `json:"resource"`
}

type BuildCommand struct {
	Creep  string `json:"creep"`
	SiteID string `json:"site_id"`
}

type RepairCommand struct {
	Creep       string `json:"creep"`
	StructureID string `json:"structure_id"`
}

type UpgradeControllerCommand struct {
	Creep        string `json:"creep"`
	ControllerID string `json:"controller_id"`
}

// MoveCommand asks the host to path toward a tile. ReusePath and Range are
// hints for the host's pathfinder; Stroke colors the path visual.
type MoveCommand struct {
	Creep     string `json:"creep"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	ReusePath int    `json:"reuse_path,omitempty"`
	Range     int    `json:"range,omitempty"`
	Stroke    string `json:"stroke,omitempty"`
}

type SayCommand struct {
	Creep   string `json:"creep"`
	Message string `json:"message"`
}

type SpawnCreepCommand struct {
	Spawn string   `json:"spawn"`
	Name  string   `json:"name"`
	Body  []string `json:"body"`
	Role  string   `json:"role"`
}

// Package world is the colony's query surface and command sink for one tick.
//
// A Snapshot answers read-only queries over the host's tick message and
// accepts commands. Each command is checked against the snapshot (range,
// capacity, spawn availability) to produce the synchronous result code the
// controllers branch on, then recorded for the host to execute.
package world

import (
	"log/slog"

	"github.com/nstehr/burrow/burrow-core/ipc"
	"github.com/nstehr/burrow/burrow-core/model"
)

// Interaction ranges enforced by the host.
const (
	HarvestRange  = 1
	TransferRange = 1
	BuildRange    = 3
	RepairRange   = 3
	UpgradeRange  = 3
)

// MoveOpts are pathing hints forwarded with a move command.
type MoveOpts struct {
	ReusePath int
	Range     int
	Stroke    string
}

// World is everything the controllers and the planner need from the host.
type World interface {
	Tick() int
	Room() model.Room
	Creeps() []model.Creep

	Sources() []model.Source
	ActiveSources() []model.Source
	Source(id string) (model.Source, bool)
	Structures(filter func(model.Structure) bool) []model.Structure
	Structure(id string) (model.Structure, bool)
	ConstructionSites() []model.ConstructionSite
	ConstructionSite(id string) (model.ConstructionSite, bool)
	Spawn(name string) (model.Structure, bool)

	CreepsInRange(pos model.Pos, r int) int
	ClosestConstructionSite(from model.Pos) (model.ConstructionSite, bool)
	ClosestStructure(from model.Pos, filter func(model.Structure) bool) (model.Structure, bool)

	Harvest(c model.Creep, sourceID string) model.Result
	Transfer(c model.Creep, targetID string) model.Result
	Build(c model.Creep, siteID string) model.Result
	Repair(c model.Creep, structureID string) model.Result
	UpgradeController(c model.Creep) model.Result
	MoveTo(c model.Creep, to model.Pos, opts MoveOpts)
	Say(c model.Creep, msg string)
	SpawnCreep(spawnName string, body model.Body, name string, role model.Role) model.Result
}

// Snapshot implements World over one tick message.
type Snapshot struct {
	state model.TickState

	sources    map[string]int
	structures map[string]int
	sites      map[string]int
	names      map[string]bool

	// spawned tracks spawn ids that accepted an order this tick.
	spawned  map[string]bool
	commands []ipc.Envelope
}

var _ World = (*Snapshot)(nil)

func NewSnapshot(ts model.TickState) *Snapshot {
	s := &Snapshot{
		state:      ts,
		sources:    make(map[string]int, len(ts.Sources)),
		structures: make(map[string]int, len(ts.Structures)),
		sites:      make(map[string]int, len(ts.ConstructionSites)),
		names:      make(map[string]bool, len(ts.Creeps)),
		spawned:    make(map[string]bool),
	}
	for i, src := range ts.Sources {
		s.sources[src.ID] = i
	}
	for i, st := range ts.Structures {
		s.structures[st.ID] = i
	}
	for i, cs := range ts.ConstructionSites {
		s.sites[cs.ID] = i
	}
	for _, c := range ts.Creeps {
		s.names[c.Name] = true
	}
	return s
}

func (s *Snapshot) Tick() int               { return s.state.Tick }
func (s *Snapshot) Room() model.Room        { return s.state.Room }
func (s *Snapshot) Creeps() []model.Creep   { return s.state.Creeps }
func (s *Snapshot) Sources() []model.Source { return s.state.Sources }

// Commands returns every command recorded so far, in issue order.
func (s *Snapshot) Commands() []ipc.Envelope { return s.commands }

func (s *Snapshot) record(msgType string, data any) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		// Command structs are plain data; this only fires on programmer error.
		slog.Error("failed to encode command", "type", msgType, "error", err)
		return
	}
	s.commands = append(s.commands, env)
}

package world

import (
	"github.com/nstehr/burrow/burrow-core/ipc"
	"github.com/nstehr/burrow/burrow-core/model"
)

// hasPart reports whether the creep carries the part. Hosts that omit the
// body are trusted to have sent a capable creep.
func hasPart(c model.Creep, part model.BodyPart) bool {
	if len(c.Body) == 0 {
		return true
	}
	for _, p := range c.Body {
		if model.BodyPart(p) == part {
			return true
		}
	}
	return false
}

func (s *Snapshot) Harvest(c model.Creep, sourceID string) model.Result {
	if c.Spawning {
		return model.ErrBusy
	}
	src, ok := s.Source(sourceID)
	if !ok {
		return model.ErrInvalidTarget
	}
	if !hasPart(c, model.Work) {
		return model.ErrNoBodypart
	}
	if !src.Active() {
		return model.ErrNotEnoughEnergy
	}
	if !model.InRange(c.Pos, src.Pos, HarvestRange) {
		return model.ErrNotInRange
	}
	s.record(ipc.TypeHarvest, ipc.HarvestCommand{Creep: c.Name, SourceID: sourceID})
	return model.OK
}

func (s *Snapshot) Transfer(c model.Creep, targetID string) model.Result {
	if c.Spawning {
		return model.ErrBusy
	}
	target, ok := s.Structure(targetID)
	if !ok || target.Store == nil {
		return model.ErrInvalidTarget
	}
	if c.Store.Used == 0 {
		return model.ErrNotEnoughEnergy
	}
	if target.FreeEnergy() == 0 {
		return model.ErrFull
	}
	if !model.InRange(c.Pos, target.Pos, TransferRange) {
		return model.ErrNotInRange
	}
	s.record(ipc.TypeTransfer, ipc.TransferCommand{Creep: c.Name, TargetID: targetID, Resource: "energy"})
	return model.OK
}

func (s *Snapshot) Build(c model.Creep, siteID string) model.Result {
	if c.Spawning {
		return model.ErrBusy
	}
	site, ok := s.ConstructionSite(siteID)
	if !ok {
		return model.ErrInvalidTarget
	}
	if !hasPart(c, model.Work) {
		return model.ErrNoBodypart
	}
	if c.Store.Used == 0 {
		return model.ErrNotEnoughEnergy
	}
	if !model.InRange(c.Pos, site.Pos, BuildRange) {
		return model.ErrNotInRange
	}
	s.record(ipc.TypeBuild, ipc.BuildCommand{Creep: c.Name, SiteID: siteID})
	return model.OK
}

func (s *Snapshot) Repair(c model.Creep, structureID string) model.Result {
	if c.Spawning {
		return model.ErrBusy
	}
	target, ok := s.Structure(structureID)
	if !ok {
		return model.ErrInvalidTarget
	}
	if !hasPart(c, model.Work) {
		return model.ErrNoBodypart
	}
	if c.Store.Used == 0 {
		return model.ErrNotEnoughEnergy
	}
	if !model.InRange(c.Pos, target.Pos, RepairRange) {
		return model.ErrNotInRange
	}
	s.record(ipc.TypeRepair, ipc.RepairCommand{Creep: c.Name, StructureID: structureID})
	return model.OK
}

func (s *Snapshot) UpgradeController(c model.Creep) model.Result {
	if c.Spawning {
		return model.ErrBusy
	}
	ctrl := s.state.Room.Controller
	if ctrl == nil {
		return model.ErrInvalidTarget
	}
	if !hasPart(c, model.Work) {
		return model.ErrNoBodypart
	}
	if c.Store.Used == 0 {
		return model.ErrNotEnoughEnergy
	}
	if !model.InRange(c.Pos, ctrl.Pos, UpgradeRange) {
		return model.ErrNotInRange
	}
	s.record(ipc.TypeUpgradeController, ipc.UpgradeControllerCommand{Creep: c.Name, ControllerID: ctrl.ID})
	return model.OK
}

// MoveTo is fire-and-forget; the host owns pathing.
func (s *Snapshot) MoveTo(c model.Creep, to model.Pos, opts MoveOpts) {
	s.record(ipc.TypeMove, ipc.MoveCommand{
		Creep:     c.Name,
		X:         to.X,
		Y:         to.Y,
		ReusePath: opts.ReusePath,
		Range:     opts.Range,
		Stroke:    opts.Stroke,
	})
}

func (s *Snapshot) Say(c model.Creep, msg string) {
	s.record(ipc.TypeSay, ipc.SayCommand{Creep: c.Name, Message: msg})
}

// SpawnCreep validates and records a spawn order. On success the room's
// available energy is debited and the spawn is marked busy, so a second
// order in the same tick is rejected the way the host would.
func (s *Snapshot) SpawnCreep(spawnName string, body model.Body, name string, role model.Role) model.Result {
	sp, ok := s.Spawn(spawnName)
	if !ok {
		return model.ErrInvalidTarget
	}
	if sp.Spawning || s.spawned[sp.ID] {
		return model.ErrBusy
	}
	if s.names[name] {
		return model.ErrNameExists
	}
	if len(body) == 0 || len(body) > model.MaxBodyParts {
		return model.ErrInvalidArgs
	}
	cost := body.Cost()
	if cost > s.state.Room.EnergyAvailable {
		return model.ErrNotEnoughEnergy
	}

	parts := make([]string, len(body))
	for i, p := range body {
		parts[i] = string(p)
	}
	s.record(ipc.TypeSpawnCreep, ipc.SpawnCreepCommand{
		Spawn: sp.Name,
		Name:  name,
		Body:  parts,
		Role:  string(role),
	})
	s.spawned[sp.ID] = true
	s.names[name] = true
	s.state.Room.EnergyAvailable -= cost
	return model.OK
}

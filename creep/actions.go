package creep

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/world"
)

// Path stroke colors, one per activity.
const (
	strokeHarvest  = "#ffaa00"
	strokeTransfer = "#ffffff"
	strokeUpgrade  = "#00ff00"
	strokeBuild    = "#a0a0ff"
)

func (ctl *Controller) gather(w world.World, c model.Creep, mem *memory.Creep) {
	src, ok := ValidSource(w, mem)
	if !ok {
		src, ok = BestSource(w, c, ctl.tuning.SourceCrowdRadius)
		if !ok {
			return
		}
		mem.SourceID = src.ID
	}

	switch res := w.Harvest(c, src.ID); res {
	case model.OK:
	case model.ErrNotInRange:
		w.MoveTo(c, src.Pos, world.MoveOpts{ReusePath: ctl.tuning.GatherReusePath, Range: 1, Stroke: strokeHarvest})
	default:
		slog.Debug("harvest rejected", "creep", c.Name, "source", src.ID, "result", res)
		mem.SourceID = ""
	}
}

func (ctl *Controller) transfer(w world.World, c model.Creep, mem *memory.Creep) {
	target, ok := ValidTransferTarget(w, mem)
	if !ok {
		target, ok = BestTransferTarget(w, c, ctl.tuning.TransferPriorities)
		if !ok {
			ctl.upgrade(w, c, mem)
			return
		}
		mem.TargetID = target.ID
	}

	switch res := w.Transfer(c, target.ID); res {
	case model.OK:
	case model.ErrNotInRange:
		w.MoveTo(c, target.Pos, world.MoveOpts{ReusePath: ctl.tuning.TransferReusePath, Range: 1, Stroke: strokeTransfer})
	default:
		slog.Debug("transfer rejected", "creep", c.Name, "target", target.ID, "result", res)
		mem.TargetID = ""
	}
}

func (ctl *Controller) upgrade(w world.World, c model.Creep, _ *memory.Creep) {
	ctrl := w.Room().Controller
	if ctrl == nil {
		return
	}

	switch res := w.UpgradeController(c); res {
	case model.OK:
	case model.ErrNotInRange:
		w.MoveTo(c, ctrl.Pos, world.MoveOpts{ReusePath: ctl.tuning.UpgradeReusePath, Range: ctl.tuning.UpgradeRange, Stroke: strokeUpgrade})
	default:
		slog.Debug("upgrade rejected", "creep", c.Name, "result", res)
	}
}

// buildOrRepair works the cached construction site, else the nearest site,
// else the nearest repairable structure. Only sites are cached: the repair
// fallback is picked fresh each tick.
func (ctl *Controller) buildOrRepair(w world.World, c model.Creep, mem *memory.Creep) {
	var (
		site       model.ConstructionSite
		haveSite   bool
		repair     model.Structure
		haveRepair bool
	)

	if mem.WorkTargetID != "" {
		site, haveSite = w.ConstructionSite(mem.WorkTargetID)
		if !haveSite {
			mem.WorkTargetID = ""
		}
	}
	if !haveSite {
		site, haveSite = w.ClosestConstructionSite(c.Pos)
		if haveSite {
			mem.WorkTargetID = site.ID
		} else {
			repair, haveRepair = w.ClosestStructure(c.Pos, Repairable)
		}
	}

	var (
		res      model.Result
		pos      model.Pos
		progress string
	)
	switch {
	case haveSite:
		res, pos = w.Build(c, site.ID), site.Pos
		progress = fmt.Sprintf("🔨%d%%", percent(site.Progress, site.ProgressTotal))
	case haveRepair:
		res, pos = w.Repair(c, repair.ID), repair.Pos
		progress = fmt.Sprintf("🔧%d%%", percent(repair.Hits, repair.HitsMax))
	default:
		ctl.upgrade(w, c, mem)
		return
	}

	switch res {
	case model.OK:
		w.Say(c, progress)
	case model.ErrNotInRange:
		w.MoveTo(c, pos, world.MoveOpts{ReusePath: ctl.tuning.BuildReusePath, Range: 1, Stroke: strokeBuild})
	default:
		slog.Debug("build/repair rejected", "creep", c.Name, "result", res)
		mem.WorkTargetID = ""
	}
}

// percent is floor(part/total*100), 0 when total is not positive.
func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part) / float64(total) * 100))
}

package creep

import (
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/world"
)

// otherPriority ranks fill targets whose type has no configured priority.
const otherPriority = 999

// fillTypes are the structures gatherers deliver energy to.
var fillTypes = map[string]bool{
	model.StructureSpawn:     true,
	model.StructureExtension: true,
	model.StructureTower:     true,
}

// ValidSource resolves the cached source. An unknown or exhausted source is
// dropped from the record.
func ValidSource(w world.World, mem *memory.Creep) (model.Source, bool) {
	if mem.SourceID == "" {
		return model.Source{}, false
	}
	src, ok := w.Source(mem.SourceID)
	if !ok || !src.Active() {
		mem.SourceID = ""
		return model.Source{}, false
	}
	return src, true
}

// BestSource picks the active source with the fewest own creeps within
// radius, then the closest to c. Ties keep the earlier source.
func BestSource(w world.World, c model.Creep, radius int) (model.Source, bool) {
	var (
		best      model.Source
		bestCrowd int
		bestRange int
		found     bool
	)
	for _, src := range w.ActiveSources() {
		crowd := w.CreepsInRange(src.Pos, radius)
		r := model.Range(c.Pos, src.Pos)
		if !found || crowd < bestCrowd || (crowd == bestCrowd && r < bestRange) {
			best, bestCrowd, bestRange, found = src, crowd, r, true
		}
	}
	return best, found
}

// ValidTransferTarget resolves the cached fill target. A missing or full
// structure is dropped from the record.
func ValidTransferTarget(w world.World, mem *memory.Creep) (model.Structure, bool) {
	if mem.TargetID == "" {
		return model.Structure{}, false
	}
	target, ok := w.Structure(mem.TargetID)
	if !ok || target.FreeEnergy() == 0 {
		mem.TargetID = ""
		return model.Structure{}, false
	}
	return target, true
}

// BestTransferTarget picks the fill structure with free capacity ranked
// lowest in priorities, then closest to c. Ties keep the earlier structure.
func BestTransferTarget(w world.World, c model.Creep, priorities map[string]int) (model.Structure, bool) {
	candidates := w.Structures(func(s model.Structure) bool {
		return fillTypes[s.Type] && s.FreeEnergy() > 0
	})

	var (
		best         model.Structure
		bestPriority int
		bestRange    int
		found        bool
	)
	for _, s := range candidates {
		p, ok := priorities[s.Type]
		if !ok {
			p = otherPriority
		}
		r := model.Range(c.Pos, s.Pos)
		if !found || p < bestPriority || (p == bestPriority && r < bestRange) {
			best, bestPriority, bestRange, found = s, p, r, true
		}
	}
	return best, found
}

// Repairable reports whether builders should repair s. Walls and ramparts
// have huge hit pools and are left alone.
func Repairable(s model.Structure) bool {
	return s.Damaged() && s.Type != model.StructureWall && s.Type != model.StructureRampart
}

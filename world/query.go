package world

import "github.com/nstehr/burrow/burrow-core/model"

func (s *Snapshot) ActiveSources() []model.Source {
	var out []model.Source
	for _, src := range s.state.Sources {
		if src.Active() {
			out = append(out, src)
		}
	}
	return out
}

func (s *Snapshot) Source(id string) (model.Source, bool) {
	i, ok := s.sources[id]
	if !ok {
		return model.Source{}, false
	}
	return s.state.Sources[i], true
}

// Structures returns structures matching filter, in snapshot order.
// A nil filter matches everything.
func (s *Snapshot) Structures(filter func(model.Structure) bool) []model.Structure {
	var out []model.Structure
	for _, st := range s.state.Structures {
		if filter == nil || filter(st) {
			out = append(out, st)
		}
	}
	return out
}

func (s *Snapshot) Structure(id string) (model.Structure, bool) {
	i, ok := s.structures[id]
	if !ok {
		return model.Structure{}, false
	}
	return s.state.Structures[i], true
}

func (s *Snapshot) ConstructionSites() []model.ConstructionSite {
	return s.state.ConstructionSites
}

func (s *Snapshot) ConstructionSite(id string) (model.ConstructionSite, bool) {
	i, ok := s.sites[id]
	if !ok {
		return model.ConstructionSite{}, false
	}
	return s.state.ConstructionSites[i], true
}

// Spawn finds a spawn by name; an empty name selects the first spawn.
func (s *Snapshot) Spawn(name string) (model.Structure, bool) {
	for _, st := range s.state.Structures {
		if st.Type != model.StructureSpawn {
			continue
		}
		if name == "" || st.Name == name {
			return st, true
		}
	}
	return model.Structure{}, false
}

// CreepsInRange counts own creeps within r tiles of pos, spawning ones included.
func (s *Snapshot) CreepsInRange(pos model.Pos, r int) int {
	n := 0
	for _, c := range s.state.Creeps {
		if model.InRange(pos, c.Pos, r) {
			n++
		}
	}
	return n
}

func (s *Snapshot) ClosestConstructionSite(from model.Pos) (model.ConstructionSite, bool) {
	return closest(s.state.ConstructionSites, from, func(cs model.ConstructionSite) model.Pos { return cs.Pos })
}

func (s *Snapshot) ClosestStructure(from model.Pos, filter func(model.Structure) bool) (model.Structure, bool) {
	return closest(s.Structures(filter), from, func(st model.Structure) model.Pos { return st.Pos })
}

// closest returns the item nearest to from; ties keep the earlier item.
func closest[T any](items []T, from model.Pos, pos func(T) model.Pos) (T, bool) {
	var best T
	bestRange := -1
	for _, item := range items {
		r := model.Range(from, pos(item))
		if bestRange < 0 || r < bestRange {
			best = item
			bestRange = r
		}
	}
	return best, bestRange >= 0
}

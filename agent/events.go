package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/burrow/burrow-core/model"
)

// EventKind identifies a colony-level change worth surfacing to operators.
type EventKind string

const (
	EventGatherersLost     EventKind = "gatherers_lost"
	EventDowngradeRisk     EventKind = "controller_downgrade_risk"
	EventControllerLevelUp EventKind = "controller_level_up"
	EventSpawnLost         EventKind = "spawn_lost"
)

// Event is a change detected by diffing consecutive ticks.
type Event struct {
	Kind   EventKind
	Tick   int
	Detail string
}

// colonySnapshot captures the diffable fields of one tick.
type colonySnapshot struct {
	gatherers        int
	hasController    bool
	level            int
	ticksToDowngrade int
	spawnIDs         map[string]string // id → name
}

func takeSnapshot(ts model.TickState, counts map[model.Role]int) colonySnapshot {
	snap := colonySnapshot{
		gatherers: counts[model.RoleGatherer],
		spawnIDs:  make(map[string]string),
	}
	if ctrl := ts.Room.Controller; ctrl != nil {
		snap.hasController = true
		snap.level = ctrl.Level
		snap.ticksToDowngrade = ctrl.TicksToDowngrade
	}
	for _, s := range ts.Structures {
		if s.Type == model.StructureSpawn {
			snap.spawnIDs[s.ID] = s.Name
		}
	}
	return snap
}

// detectEvents compares cur against the previous tick. Each event fires once
// per crossing. Returns nil if prev is nil (first tick).
func detectEvents(tick int, cur colonySnapshot, prev *colonySnapshot, downgradeRisk int) []Event {
	if prev == nil {
		return nil
	}

	var events []Event

	if prev.gatherers > 0 && cur.gatherers == 0 {
		events = append(events, Event{
			Kind:   EventGatherersLost,
			Tick:   tick,
			Detail: fmt.Sprintf("all %d gatherers lost", prev.gatherers),
		})
	}

	if prev.hasController && cur.hasController {
		if prev.ticksToDowngrade >= downgradeRisk && cur.ticksToDowngrade < downgradeRisk {
			events = append(events, Event{
				Kind:   EventDowngradeRisk,
				Tick:   tick,
				Detail: fmt.Sprintf("controller downgrades in %d ticks", cur.ticksToDowngrade),
			})
		}
		if cur.level > prev.level {
			events = append(events, Event{
				Kind:   EventControllerLevelUp,
				Tick:   tick,
				Detail: fmt.Sprintf("controller level %d → %d", prev.level, cur.level),
			})
		}
	}

	for id, name := range prev.spawnIDs {
		if _, ok := cur.spawnIDs[id]; !ok {
			events = append(events, Event{
				Kind:   EventSpawnLost,
				Tick:   tick,
				Detail: fmt.Sprintf("lost spawn %s (id %s)", name, id),
			})
			break // one is enough
		}
	}

	return events
}

func logEvents(session string, events []Event) {
	for _, e := range events {
		if e.Kind == EventControllerLevelUp {
			slog.Info("colony event", "session", session, "kind", e.Kind, "tick", e.Tick, "detail", e.Detail)
			continue
		}
		slog.Warn("colony event", "session", session, "kind", e.Kind, "tick", e.Tick, "detail", e.Detail)
	}
}

func eventKinds(events []Event) []string {
	if len(events) == 0 {
		return nil
	}
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = string(e.Kind)
	}
	return kinds
}

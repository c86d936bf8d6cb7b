package agent

import (
	"testing"

	"github.com/nstehr/burrow/burrow-core/model"
)

// baseTickState returns a minimal colony for testing.
func baseTickState(tick int) model.TickState {
	return model.TickState{
		Tick: tick,
		Room: model.Room{
			Name:                    "W1N1",
			EnergyAvailable:         300,
			EnergyCapacityAvailable: 300,
			Controller:              &model.Controller{ID: "ctrl", Level: 2, Progress: 100, ProgressTotal: 45000, TicksToDowngrade: 5000},
		},
		Structures: []model.Structure{
			{ID: "s1", Type: model.StructureSpawn, Name: "Spawn1", Hits: 5000, HitsMax: 5000},
		},
	}
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestDetectEvents_NoEvents(t *testing.T) {
	counts := map[model.Role]int{model.RoleGatherer: 2}
	prev := takeSnapshot(baseTickState(100), counts)

	// Same state next tick, no events
	cur := takeSnapshot(baseTickState(101), counts)
	events := detectEvents(101, cur, &prev, 2000)
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d: %+v", len(events), events)
	}
}

func TestDetectEvents_NilPrev(t *testing.T) {
	cur := takeSnapshot(baseTickState(100), nil)
	if events := detectEvents(100, cur, nil, 2000); events != nil {
		t.Errorf("expected nil events for nil prev, got %+v", events)
	}
}

func TestDetectEvents_GatherersLost(t *testing.T) {
	prev := takeSnapshot(baseTickState(100), map[model.Role]int{model.RoleGatherer: 3})
	cur := takeSnapshot(baseTickState(101), map[model.Role]int{model.RoleBuilder: 1})

	events := detectEvents(101, cur, &prev, 2000)
	if !hasEvent(events, EventGatherersLost) {
		t.Errorf("expected gatherers_lost event, got %+v", events)
	}

	// Still zero next tick, no repeat.
	next := takeSnapshot(baseTickState(102), nil)
	if hasEvent(detectEvents(102, next, &cur, 2000), EventGatherersLost) {
		t.Error("gatherers_lost fired twice")
	}
}

func TestDetectEvents_DowngradeRisk(t *testing.T) {
	gs := baseTickState(100)
	gs.Room.Controller.TicksToDowngrade = 2000
	prev := takeSnapshot(gs, nil)

	gs = baseTickState(101)
	gs.Room.Controller.TicksToDowngrade = 1999
	cur := takeSnapshot(gs, nil)

	if !hasEvent(detectEvents(101, cur, &prev, 2000), EventDowngradeRisk) {
		t.Error("expected controller_downgrade_risk when crossing the threshold")
	}

	gs.Room.Controller.TicksToDowngrade = 1998
	next := takeSnapshot(gs, nil)
	if hasEvent(detectEvents(102, next, &cur, 2000), EventDowngradeRisk) {
		t.Error("controller_downgrade_risk fired twice")
	}
}

func TestDetectEvents_LevelUp(t *testing.T) {
	prev := takeSnapshot(baseTickState(100), nil)
	gs := baseTickState(101)
	gs.Room.Controller.Level = 3
	cur := takeSnapshot(gs, nil)

	events := detectEvents(101, cur, &prev, 2000)
	if !hasEvent(events, EventControllerLevelUp) {
		t.Errorf("expected controller_level_up, got %+v", events)
	}
}

func TestDetectEvents_SpawnLost(t *testing.T) {
	prev := takeSnapshot(baseTickState(100), nil)
	gs := baseTickState(101)
	gs.Structures = nil
	cur := takeSnapshot(gs, nil)

	events := detectEvents(101, cur, &prev, 2000)
	if !hasEvent(events, EventSpawnLost) {
		t.Errorf("expected spawn_lost, got %+v", events)
	}
}

func TestDetectEvents_ControllerAppears(t *testing.T) {
	gs := baseTickState(100)
	gs.Room.Controller = nil
	prev := takeSnapshot(gs, nil)
	cur := takeSnapshot(baseTickState(101), nil)

	events := detectEvents(101, cur, &prev, 2000)
	if len(events) != 0 {
		t.Errorf("claiming a controller should not fire events, got %+v", events)
	}
}

func TestEventKinds(t *testing.T) {
	if eventKinds(nil) != nil {
		t.Error("expected nil for no events")
	}
	got := eventKinds([]Event{{Kind: EventSpawnLost}, {Kind: EventGatherersLost}})
	if len(got) != 2 || got[0] != "spawn_lost" || got[1] != "gatherers_lost" {
		t.Errorf("unexpected kinds %v", got)
	}
}

// Package creep runs a single creep for one tick: it updates the creep's
// gathering/working state from its carried energy and executes the one
// action its role calls for in that state.
package creep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/world"
)

var (
	// ErrNoRole marks creeps without a role record. The orchestrator skips them.
	ErrNoRole = errors.New("creep has no role")
	// ErrUnknownRole marks records whose role tag is not recognised.
	ErrUnknownRole = errors.New("unknown role")
)

// action performs one behavior for a creep, mutating its record in place.
type action func(ctl *Controller, w world.World, c model.Creep, mem *memory.Creep)

// behavior is a role's action for each state.
type behavior struct {
	gathering action
	working   action
}

// behaviors is the role × state dispatch table.
var behaviors = map[model.Role]behavior{
	model.RoleGatherer: {gathering: (*Controller).gather, working: (*Controller).transfer},
	model.RoleUpgrader: {gathering: (*Controller).gather, working: (*Controller).upgrade},
	model.RoleBuilder:  {gathering: (*Controller).gather, working: (*Controller).buildOrRepair},
}

// Controller runs creeps against a world using records from store.
type Controller struct {
	store  memory.Store
	tuning config.Tuning
}

func NewController(store memory.Store, tuning config.Tuning) *Controller {
	return &Controller{store: store, tuning: tuning}
}

// Run executes one tick for c. The creep's record is loaded, transitioned,
// acted on, and written back when it changed.
func (ctl *Controller) Run(ctx context.Context, w world.World, c model.Creep) error {
	rec, ok, err := ctl.store.Get(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("load memory: %w", err)
	}
	if !ok || rec.Role == "" {
		return ErrNoRole
	}
	role, err := model.ParseRole(rec.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownRole, err)
	}
	b, ok := behaviors[role]
	if !ok {
		return fmt.Errorf("%w: no behavior for %s", ErrUnknownRole, role)
	}

	before := rec
	// Unset or foreign states (older scripts wrote "harvesting") start over
	// as gathering.
	if rec.State != model.StateWorking {
		rec.State = model.StateGathering
	}

	if Transition(&rec, c) {
		slog.Debug("creep state changed", "creep", c.Name, "role", role, "state", rec.State)
		if rec.State == model.StateWorking {
			w.Say(c, "⚡ go work")
		} else {
			w.Say(c, "🔄 need energy")
		}
	}

	if rec.State == model.StateWorking {
		b.working(ctl, w, c, &rec)
	} else {
		b.gathering(ctl, w, c, &rec)
	}

	if rec == before {
		return nil
	}
	if err := ctl.store.Put(ctx, c.Name, rec); err != nil {
		return fmt.Errorf("save memory: %w", err)
	}
	return nil
}

// Transition moves a gathering creep with no free capacity to working, and a
// working creep with nothing carried back to gathering. Every transition
// clears the cached targets. Reports whether the state changed.
func Transition(rec *memory.Creep, c model.Creep) bool {
	switch {
	case rec.State != model.StateWorking && c.Store.Free() == 0:
		rec.State = model.StateWorking
	case rec.State == model.StateWorking && c.Store.Used == 0:
		rec.State = model.StateGathering
	default:
		return false
	}
	rec.ClearTargets()
	return true
}

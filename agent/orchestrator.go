package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/nstehr/burrow/burrow-core/creep"
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/spawn"
	"github.com/nstehr/burrow/burrow-core/world"
)

// Report summarises one orchestrated tick.
type Report struct {
	Tick       int
	RoleCounts map[model.Role]int
	Deleted    []string
	Adopted    []string
	Spawn      spawn.Result
	CreepsRun  int
	Failures   int
	// Aborted is set when a fault outside any single creep ended the tick.
	Aborted bool
}

// Orchestrator runs one colony tick: memory cleanup, production, then every
// creep in snapshot order.
type Orchestrator struct {
	store      memory.Store
	planner    *spawn.Planner
	controller *creep.Controller
}

func NewOrchestrator(store memory.Store, planner *spawn.Planner, controller *creep.Controller) *Orchestrator {
	return &Orchestrator{store: store, planner: planner, controller: controller}
}

// Tick never returns an error: creep faults are contained per creep and any
// other fault ends the tick early with Report.Aborted set.
func (o *Orchestrator) Tick(ctx context.Context, w world.World) (rep Report) {
	rep.Tick = w.Tick()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tick aborted", "tick", rep.Tick, "panic", r, "stack", string(debug.Stack()))
			rep.Aborted = true
		}
	}()

	if err := o.cleanup(ctx, w, &rep); err != nil {
		slog.Error("memory cleanup failed", "tick", rep.Tick, "error", err)
	}

	res, err := o.produce(ctx, w)
	rep.Spawn = res
	if err != nil {
		slog.Error("production failed", "tick", rep.Tick, "error", err)
	}

	for _, c := range w.Creeps() {
		if c.Spawning {
			continue
		}
		err := o.runCreep(ctx, w, c)
		switch {
		case err == nil:
			rep.CreepsRun++
		case errors.Is(err, creep.ErrNoRole):
			slog.Debug("creep has no role, skipping", "creep", c.Name)
		case errors.Is(err, creep.ErrUnknownRole):
			slog.Warn("creep has unknown role", "creep", c.Name, "error", err)
			rep.Failures++
		default:
			slog.Error("creep failed", "creep", c.Name, "error", err)
			rep.Failures++
		}
	}
	return rep
}

// cleanup deletes records of creeps that no longer exist and adopts live
// creeps the host reports a role for but that have no record yet. It also
// fills rep.RoleCounts from the surviving records.
func (o *Orchestrator) cleanup(ctx context.Context, w world.World, rep *Report) error {
	live := make(map[string]bool, len(w.Creeps()))
	for _, c := range w.Creeps() {
		live[c.Name] = true
	}

	names, err := o.store.Names(ctx)
	if err != nil {
		return fmt.Errorf("list memory: %w", err)
	}
	for _, name := range names {
		if live[name] {
			continue
		}
		if err := o.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
		slog.Info("clearing memory of dead creep", "creep", name)
		rep.Deleted = append(rep.Deleted, name)
	}

	rep.RoleCounts = make(map[model.Role]int, len(model.Roles))
	for _, c := range w.Creeps() {
		rec, ok, err := o.store.Get(ctx, c.Name)
		if err != nil {
			return fmt.Errorf("load %s: %w", c.Name, err)
		}
		if !ok && c.Role != "" {
			role, err := model.ParseRole(c.Role)
			if err != nil {
				slog.Warn("not adopting creep with unknown role", "creep", c.Name, "role", c.Role)
				continue
			}
			rec = memory.Creep{Role: string(role)}
			if err := o.store.Put(ctx, c.Name, rec); err != nil {
				return fmt.Errorf("adopt %s: %w", c.Name, err)
			}
			slog.Info("adopted creep", "creep", c.Name, "role", rec.Role)
			rep.Adopted = append(rep.Adopted, c.Name)
			ok = true
		}
		if !ok {
			continue
		}
		if role, err := model.ParseRole(rec.Role); err == nil {
			rep.RoleCounts[role]++
		}
	}
	return nil
}

func (o *Orchestrator) produce(ctx context.Context, w world.World) (res spawn.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("planner panic: %v", r)
		}
	}()
	return o.planner.Run(ctx, w)
}

func (o *Orchestrator) runCreep(ctx context.Context, w world.World, c model.Creep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return o.controller.Run(ctx, w, c)
}

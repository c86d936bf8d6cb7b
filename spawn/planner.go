// Package spawn decides, once per tick, whether the primary spawn should
// produce a creep and with which role and body.
package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/memory"
	"github.com/nstehr/burrow/burrow-core/model"
	"github.com/nstehr/burrow/burrow-core/rules"
	"github.com/nstehr/burrow/burrow-core/world"
)

// Result describes the planner's decision for one tick. Attempted is false
// when no spawn command was issued.
type Result struct {
	Attempted bool
	Role      model.Role
	Name      string
	Body      model.Body
	Code      model.Result
}

// Spawned reports whether the spawn accepted the order.
func (r Result) Spawned() bool { return r.Attempted && r.Code == model.OK }

// Planner issues at most one spawn command per tick.
type Planner struct {
	store     memory.Store
	engine    *rules.Engine
	prod      config.Production
	spawnName string
}

func NewPlanner(store memory.Store, engine *rules.Engine, prod config.Production, spawnName string) *Planner {
	return &Planner{store: store, engine: engine, prod: prod, spawnName: spawnName}
}

// UseSpawn adopts the spawn name announced by the host when none was
// configured.
func (p *Planner) UseSpawn(name string) {
	if p.spawnName == "" {
		p.spawnName = name
	}
}

// Run evaluates role needs against the colony and spawns the most urgent
// under-staffed role the room can afford. Only store failures are returned
// as errors; a rejected spawn is reported in the Result.
func (p *Planner) Run(ctx context.Context, w world.World) (Result, error) {
	sp, ok := w.Spawn(p.spawnName)
	if !ok {
		slog.Debug("no spawn available", "spawn", p.spawnName)
		return Result{}, nil
	}
	if sp.Spawning {
		return Result{}, nil
	}

	counts, err := p.roleCounts(ctx, w)
	if err != nil {
		return Result{}, err
	}

	room := w.Room()
	env := rules.ColonyEnv{
		Room:         room,
		RoleCounts:   counts,
		SourceCount:  len(w.Sources()),
		SiteCount:    len(w.ConstructionSites()),
		DamagedCount: len(w.Structures(p.needsRepair)),
	}

	need, ok := selectNeed(p.engine.Evaluate(env), counts)
	if !ok {
		return Result{}, nil
	}

	budget := min(room.EnergyAvailable, room.EnergyCapacityAvailable)
	if budget < p.prod.MinSpawnEnergy {
		slog.Debug("spawn deferred, low energy", "role", need.Role, "energy", budget, "needed", p.prod.MinSpawnEnergy)
		return Result{}, nil
	}

	res := Result{
		Attempted: true,
		Role:      need.Role,
		Name:      fmt.Sprintf("%s-%d", need.Role, w.Tick()),
		Body:      OptimalBody(need.Role, budget),
	}
	res.Code = w.SpawnCreep(sp.Name, res.Body, res.Name, need.Role)
	if res.Code != model.OK {
		slog.Warn("spawn failed", "role", need.Role, "name", res.Name, "result", res.Code)
		return res, nil
	}

	slog.Info("spawning creep", "role", need.Role, "name", res.Name, "body", res.Body.Signature(), "cost", res.Body.Cost(), "rule", need.Rule)
	rec := memory.Creep{Role: string(need.Role), State: model.StateGathering}
	if err := p.store.Put(ctx, res.Name, rec); err != nil {
		return res, fmt.Errorf("record spawned creep %s: %w", res.Name, err)
	}
	return res, nil
}

// roleCounts tallies live creeps by the role in their memory record. Creeps
// without a readable role are not counted.
func (p *Planner) roleCounts(ctx context.Context, w world.World) (map[model.Role]int, error) {
	counts := make(map[model.Role]int, len(model.Roles))
	for _, c := range w.Creeps() {
		rec, ok, err := p.store.Get(ctx, c.Name)
		if err != nil {
			return nil, fmt.Errorf("load memory for %s: %w", c.Name, err)
		}
		if !ok {
			continue
		}
		role, err := model.ParseRole(rec.Role)
		if err != nil {
			continue
		}
		counts[role]++
	}
	return counts, nil
}

// needsRepair counts structures below the damage ratio toward builder work.
func (p *Planner) needsRepair(s model.Structure) bool {
	if s.Type == model.StructureWall || s.Type == model.StructureRampart {
		return false
	}
	return float64(s.Hits) < p.prod.BuilderDamageRatio*float64(s.HitsMax)
}

// selectNeed returns the highest-priority need whose role is below its
// minimum. Equal priorities keep need order.
func selectNeed(needs []rules.Need, counts map[model.Role]int) (rules.Need, bool) {
	var candidates []rules.Need
	for _, n := range needs {
		if counts[n.Role] < n.Minimum {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return rules.Need{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates[0], true
}

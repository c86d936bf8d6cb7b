package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/model"
)

func TestDefaultRulesCompile(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine(DefaultRules()) failed: %v", err)
	}
	if len(engine.rules) != 8 {
		t.Errorf("expected 8 rules, got %d", len(engine.rules))
	}
	for _, r := range engine.rules {
		if _, err := expr.Compile(r.ConditionSrc, expr.Env(ColonyEnv{}), expr.AsBool()); err != nil {
			t.Errorf("rule %q condition failed to compile: %v\ncondition: %s", r.Name, err, r.ConditionSrc)
		}
	}
}

func TestCompileNeedsInterpolatesThresholds(t *testing.T) {
	p := config.Default().Production
	p.GathererLowEnergy = 650
	p.UpgraderNearLevelUp = 0.75

	var low, steady *NeedRule
	for _, r := range CompileNeeds(p) {
		switch r.Name {
		case "gatherer-low-energy":
			low = r
		case "upgrader-steady":
			steady = r
		}
	}
	if low == nil || !strings.Contains(low.ConditionSrc, "650") {
		t.Errorf("gatherer-low-energy missing threshold: %+v", low)
	}
	if steady == nil || !strings.Contains(steady.PrioritySrc, "0.75") {
		t.Errorf("upgrader-steady missing ratio: %+v", steady)
	}
}

func TestNewEngineRejectsBadExpr(t *testing.T) {
	_, err := NewEngine([]*NeedRule{{
		Name:         "broken",
		Role:         model.RoleBuilder,
		ConditionSrc: `Sites() >`,
		PrioritySrc:  `1`,
		MinimumSrc:   `1`,
	}})
	if err == nil {
		t.Fatal("expected compile error")
	}
	_, err = NewEngine([]*NeedRule{{
		Name:         "not-int",
		Role:         model.RoleBuilder,
		ConditionSrc: `true`,
		PrioritySrc:  `"high"`,
		MinimumSrc:   `1`,
	}})
	if err == nil {
		t.Fatal("expected type error for string priority")
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func controller(level, progress, total, downgrade int) *model.Controller {
	return &model.Controller{ID: "ctrl", Level: level, Progress: progress, ProgressTotal: total, TicksToDowngrade: downgrade}
}

func needFor(needs []Need, role model.Role) Need {
	for _, n := range needs {
		if n.Role == role {
			return n
		}
	}
	return Need{}
}

func TestEvaluateOrder(t *testing.T) {
	needs := testEngine(t).Evaluate(ColonyEnv{Room: model.Room{Controller: controller(1, 0, 200, 20000)}})
	if len(needs) != 3 {
		t.Fatalf("expected 3 needs, got %d", len(needs))
	}
	for i, role := range model.Roles {
		if needs[i].Role != role {
			t.Errorf("needs[%d].Role = %q, want %q", i, needs[i].Role, role)
		}
	}
}

func TestGathererNeed(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name     string
		env      ColonyEnv
		priority int
		minimum  int
	}{
		{
			name:     "bootstrap",
			env:      ColonyEnv{Room: model.Room{EnergyAvailable: 300}, SourceCount: 2},
			priority: 100, minimum: 1,
		},
		{
			name:     "low energy with one gatherer",
			env:      ColonyEnv{Room: model.Room{EnergyAvailable: 499}, RoleCounts: map[model.Role]int{model.RoleGatherer: 1}, SourceCount: 2},
			priority: 80, minimum: 2,
		},
		{
			name:     "shortage with deficit",
			env:      ColonyEnv{Room: model.Room{EnergyAvailable: 600}, RoleCounts: map[model.Role]int{model.RoleGatherer: 2}, SourceCount: 1},
			priority: 70, minimum: 3,
		},
		{
			name:     "target capped at six",
			env:      ColonyEnv{Room: model.Room{EnergyAvailable: 1200}, RoleCounts: map[model.Role]int{model.RoleGatherer: 4}, SourceCount: 3},
			priority: 50, minimum: 6,
		},
		{
			name:     "no deficit",
			env:      ColonyEnv{Room: model.Room{EnergyAvailable: 800}, RoleCounts: map[model.Role]int{model.RoleGatherer: 3}, SourceCount: 1},
			priority: 70, minimum: 0,
		},
	}
	for _, tc := range tests {
		got := needFor(e.Evaluate(tc.env), model.RoleGatherer)
		if got.Priority != tc.priority || got.Minimum != tc.minimum {
			t.Errorf("%s: got {%d, %d} via %s, want {%d, %d}", tc.name, got.Priority, got.Minimum, got.Rule, tc.priority, tc.minimum)
		}
	}
}

func TestBuilderNeed(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name     string
		env      ColonyEnv
		priority int
		minimum  int
	}{
		{"backlog without builders", ColonyEnv{SiteCount: 6}, 90, 1},
		{"backlog with a builder", ColonyEnv{SiteCount: 6, RoleCounts: map[model.Role]int{model.RoleBuilder: 1}}, 65, 3},
		{"light work", ColonyEnv{SiteCount: 1, DamagedCount: 2}, 40, 2},
		{"busy", ColonyEnv{SiteCount: 2, DamagedCount: 2}, 65, 2},
		{"single repair", ColonyEnv{DamagedCount: 1}, 40, 1},
		{"idle", ColonyEnv{}, 40, 0},
	}
	for _, tc := range tests {
		got := needFor(e.Evaluate(tc.env), model.RoleBuilder)
		if got.Priority != tc.priority || got.Minimum != tc.minimum {
			t.Errorf("%s: got {%d, %d} via %s, want {%d, %d}", tc.name, got.Priority, got.Minimum, got.Rule, tc.priority, tc.minimum)
		}
	}
}

func TestUpgraderNeed(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		name     string
		env      ColonyEnv
		priority int
		minimum  int
	}{
		{"downgrade risk ignores progress", ColonyEnv{Room: model.Room{Controller: controller(3, 990, 1000, 1500)}, RoleCounts: map[model.Role]int{model.RoleUpgrader: 5}}, 95, 2},
		{"near level up", ColonyEnv{Room: model.Room{Controller: controller(2, 900, 1000, 10000)}}, 60, 2},
		{"slow progress", ColonyEnv{Room: model.Room{Controller: controller(6, 100, 1000, 10000)}, RoleCounts: map[model.Role]int{model.RoleUpgrader: 1}}, 30, 4},
		{"staffed", ColonyEnv{Room: model.Room{Controller: controller(2, 100, 1000, 10000)}, RoleCounts: map[model.Role]int{model.RoleUpgrader: 2}}, 30, 0},
		{"no controller", ColonyEnv{}, 0, 0},
	}
	for _, tc := range tests {
		got := needFor(e.Evaluate(tc.env), model.RoleUpgrader)
		if got.Priority != tc.priority || got.Minimum != tc.minimum {
			t.Errorf("%s: got {%d, %d} via %s, want {%d, %d}", tc.name, got.Priority, got.Minimum, got.Rule, tc.priority, tc.minimum)
		}
	}
}

func TestSwapKeepsOldRulesOnError(t *testing.T) {
	e := testEngine(t)
	err := e.Swap([]*NeedRule{{Name: "bad", Role: model.RoleGatherer, ConditionSrc: `(`, PrioritySrc: `1`, MinimumSrc: `1`}})
	if err == nil {
		t.Fatal("expected swap error")
	}
	if len(e.rules) != 8 {
		t.Errorf("rules replaced despite error: %d", len(e.rules))
	}
}

func TestCeilDiv(t *testing.T) {
	env := ColonyEnv{}
	cases := [][3]int{{0, 2, 0}, {1, 2, 1}, {4, 2, 2}, {5, 2, 3}, {3, 0, 0}}
	for _, c := range cases {
		if got := env.CeilDiv(c[0], c[1]); got != c[2] {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", c[0], c[1], got, c[2])
		}
	}
}

func TestReloadFromConfigFile(t *testing.T) {
	e := testEngine(t)
	env := ColonyEnv{
		Room:        model.Room{EnergyAvailable: 300},
		RoleCounts:  map[model.Role]int{model.RoleGatherer: 1},
		SourceCount: 1,
	}
	if got := needFor(e.Evaluate(env), model.RoleGatherer); got.Priority != 80 {
		t.Fatalf("before reload: got %+v", got)
	}

	path := filepath.Join(t.TempDir(), "burrow.yaml")
	if err := os.WriteFile(path, []byte("production:\n  gatherer_low_energy: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := e.ReloadFrom(path); err != nil {
		t.Fatalf("ReloadFrom: %v", err)
	}

	got := needFor(e.Evaluate(env), model.RoleGatherer)
	if got.Priority != 70 || got.Minimum != 3 || got.Rule != "gatherer-steady" {
		t.Errorf("after reload: got %+v, want gatherer-steady {70, 3}", got)
	}
}

func TestReloadFromMissingFileKeepsRules(t *testing.T) {
	e := testEngine(t)
	if err := e.ReloadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(e.rules) != 8 {
		t.Errorf("rules changed after failed reload: %d", len(e.rules))
	}
}

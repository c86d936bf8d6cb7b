package rules

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/model"
)

// Engine evaluates compiled need rules against the colony each tick.
type Engine struct {
	mu    sync.RWMutex
	rules []*NeedRule
}

// NewEngine compiles every rule's expressions into expr bytecode.
func NewEngine(rules []*NeedRule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate returns one need per role, in model.Roles order. A role with no
// matching tier gets a zero need. Rules that fail at runtime are skipped.
func (e *Engine) Evaluate(env ColonyEnv) []Need {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	needs := make([]Need, 0, len(model.Roles))
	for _, role := range model.Roles {
		need := Need{Role: role}
		for _, r := range rules {
			if r.Role != role {
				continue
			}
			n, matched, err := r.eval(env)
			if err != nil {
				slog.Warn("need rule error", "rule", r.Name, "error", err)
				continue
			}
			if matched {
				need = n
				break
			}
		}
		slog.Debug("need evaluated", "role", role, "priority", need.Priority, "minimum", need.Minimum, "rule", need.Rule)
		needs = append(needs, need)
	}
	return needs
}

// Swap replaces the rule set, e.g. after a config reload. Compiles first; if
// compilation fails the old rules remain active.
func (e *Engine) Swap(newRules []*NeedRule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("need rules swapped", "count", len(compiled))
	return nil
}

// ReloadFrom re-reads the config file at path and swaps in need rules built
// from its production thresholds. Only the need tiers change; the rest of
// the file takes effect on restart.
func (e *Engine) ReloadFrom(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	return e.Swap(CompileNeeds(cfg.Production))
}

func (r *NeedRule) eval(env ColonyEnv) (Need, bool, error) {
	out, err := vm.Run(r.condition, env)
	if err != nil {
		return Need{}, false, fmt.Errorf("condition: %w", err)
	}
	if match, ok := out.(bool); !ok || !match {
		return Need{}, false, nil
	}

	priority, err := runInt(r.priority, env)
	if err != nil {
		return Need{}, false, fmt.Errorf("priority: %w", err)
	}
	minimum, err := runInt(r.minimum, env)
	if err != nil {
		return Need{}, false, fmt.Errorf("minimum: %w", err)
	}
	return Need{Role: r.Role, Priority: priority, Minimum: max(minimum, 0), Rule: r.Name}, true, nil
}

func runInt(p *vm.Program, env ColonyEnv) (int, error) {
	out, err := vm.Run(p, env)
	if err != nil {
		return 0, err
	}
	v, ok := out.(int)
	if !ok {
		return 0, fmt.Errorf("expected int, got %T", out)
	}
	return v, nil
}

func compileRules(rules []*NeedRule) ([]*NeedRule, error) {
	for _, r := range rules {
		cond, err := expr.Compile(r.ConditionSrc, expr.Env(ColonyEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q condition: %w", r.Name, err)
		}
		prio, err := expr.Compile(r.PrioritySrc, expr.Env(ColonyEnv{}), expr.AsInt())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q priority: %w", r.Name, err)
		}
		minimum, err := expr.Compile(r.MinimumSrc, expr.Env(ColonyEnv{}), expr.AsInt())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q minimum: %w", r.Name, err)
		}
		r.condition, r.priority, r.minimum = cond, prio, minimum
	}
	return rules, nil
}

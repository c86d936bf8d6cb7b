package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/burrow/burrow-core/model"
)

// NeedRule is one tier of a role's need. Tiers of a role are tried in
// declaration order; the first whose condition holds sets the role's
// priority and minimum headcount for the tick.
type NeedRule struct {
	Name         string     // human-readable identifier
	Role         model.Role // role whose need this tier describes
	ConditionSrc string     // expr source, must yield bool
	PrioritySrc  string     // expr source, must yield int
	MinimumSrc   string     // expr source, must yield int

	condition *vm.Program
	priority  *vm.Program
	minimum   *vm.Program
}

// Need is a role's production demand for one tick.
type Need struct {
	Role     model.Role
	Priority int
	Minimum  int
	Rule     string // tier that produced it, empty when none matched
}

package rules

import (
	"fmt"

	"github.com/nstehr/burrow/burrow-core/config"
	"github.com/nstehr/burrow/burrow-core/model"
)

// CompileNeeds generates the need rule set from the production thresholds.
// Expressions are built via fmt.Sprintf with interpolated numbers only, so
// the compiler never generates invalid expr.
func CompileNeeds(p config.Production) []*NeedRule {
	var rules []*NeedRule

	// --- Gatherers: the colony's only income ---

	rules = append(rules, &NeedRule{
		Name:         "gatherer-bootstrap",
		Role:         model.RoleGatherer,
		ConditionSrc: `Count("gatherer") == 0`,
		PrioritySrc:  `100`,
		MinimumSrc:   `1`,
	})

	rules = append(rules, &NeedRule{
		Name:         "gatherer-low-energy",
		Role:         model.RoleGatherer,
		ConditionSrc: fmt.Sprintf(`Energy() < %d && Count("gatherer") < 2`, p.GathererLowEnergy),
		PrioritySrc:  `80`,
		MinimumSrc:   `2`,
	})

	gatherTarget := fmt.Sprintf(`Min(Sources() * %d, %d)`, p.GathererPerSource, p.GathererMax)
	rules = append(rules, &NeedRule{
		Name:         "gatherer-steady",
		Role:         model.RoleGatherer,
		ConditionSrc: `true`,
		PrioritySrc:  fmt.Sprintf(`Energy() < %d ? 70 : 50`, p.GathererShortage),
		MinimumSrc:   fmt.Sprintf(`Count("gatherer") < %s ? %s : 0`, gatherTarget, gatherTarget),
	})

	// --- Builders: construction backlog plus repairs ---

	rules = append(rules, &NeedRule{
		Name:         "builder-backlog",
		Role:         model.RoleBuilder,
		ConditionSrc: fmt.Sprintf(`Sites() > %d && Count("builder") == 0`, p.BuilderBacklogSites),
		PrioritySrc:  `90`,
		MinimumSrc:   `1`,
	})

	rules = append(rules, &NeedRule{
		Name:         "builder-steady",
		Role:         model.RoleBuilder,
		ConditionSrc: `true`,
		PrioritySrc:  fmt.Sprintf(`Sites() + Damaged() > %d ? 65 : 40`, p.BuilderBusyWork),
		MinimumSrc:   fmt.Sprintf(`Min(%d, CeilDiv(Sites() + Damaged(), 2))`, p.BuilderMax),
	})

	// --- Upgraders: keep the controller alive, then push levels ---

	rules = append(rules, &NeedRule{
		Name:         "upgrader-no-controller",
		Role:         model.RoleUpgrader,
		ConditionSrc: `!HasController()`,
		PrioritySrc:  `0`,
		MinimumSrc:   `0`,
	})

	rules = append(rules, &NeedRule{
		Name:         "upgrader-downgrade",
		Role:         model.RoleUpgrader,
		ConditionSrc: fmt.Sprintf(`TicksToDowngrade() < %d`, p.UpgraderDowngradeRisk),
		PrioritySrc:  `95`,
		MinimumSrc:   `2`,
	})

	upgradeTarget := fmt.Sprintf(`Min(Level(), %d)`, p.UpgraderMax)
	rules = append(rules, &NeedRule{
		Name:         "upgrader-steady",
		Role:         model.RoleUpgrader,
		ConditionSrc: `true`,
		PrioritySrc:  fmt.Sprintf(`ProgressRatio() > %g ? 60 : 30`, p.UpgraderNearLevelUp),
		MinimumSrc:   fmt.Sprintf(`Count("upgrader") < %s ? %s : 0`, upgradeTarget, upgradeTarget),
	})

	return rules
}

// DefaultRules returns the need rules for the default production thresholds.
func DefaultRules() []*NeedRule {
	return CompileNeeds(config.Default().Production)
}

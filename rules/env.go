package rules

import "github.com/nstehr/burrow/burrow-core/model"

// ColonyEnv is the per-tick colony aggregate need rules are evaluated
// against. Its methods are callable from expr expressions.
type ColonyEnv struct {
	Room         model.Room
	RoleCounts   map[model.Role]int
	SourceCount  int
	SiteCount    int
	DamagedCount int
}

// Count returns the number of live creeps with the given role tag.
func (e ColonyEnv) Count(role string) int {
	r, err := model.ParseRole(role)
	if err != nil {
		return 0
	}
	return e.RoleCounts[r]
}

func (e ColonyEnv) Energy() int   { return e.Room.EnergyAvailable }
func (e ColonyEnv) Capacity() int { return e.Room.EnergyCapacityAvailable }
func (e ColonyEnv) Sources() int  { return e.SourceCount }
func (e ColonyEnv) Sites() int    { return e.SiteCount }
func (e ColonyEnv) Damaged() int  { return e.DamagedCount }

func (e ColonyEnv) HasController() bool { return e.Room.Controller != nil }

// TicksToDowngrade returns the controller's downgrade timer. Rooms without a
// controller never downgrade.
func (e ColonyEnv) TicksToDowngrade() int {
	if e.Room.Controller == nil {
		return int(^uint(0) >> 1)
	}
	return e.Room.Controller.TicksToDowngrade
}

func (e ColonyEnv) Level() int {
	if e.Room.Controller == nil {
		return 0
	}
	return e.Room.Controller.Level
}

func (e ColonyEnv) ProgressRatio() float64 {
	if e.Room.Controller == nil {
		return 0
	}
	return e.Room.Controller.ProgressRatio()
}

func (e ColonyEnv) Min(a, b int) int { return min(a, b) }

// CeilDiv returns a/b rounded up; 0 for non-positive a or b.
func (e ColonyEnv) CeilDiv(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

package model

import (
	"fmt"
	"strings"
)

// Role is the fixed behavioral category assigned to a creep at spawn time.
type Role string

const (
	RoleGatherer Role = "gatherer"
	RoleBuilder  Role = "builder"
	RoleUpgrader Role = "upgrader"
)

// Roles lists every role in need-evaluation order. Production ties resolve
// to the earlier entry.
var Roles = []Role{RoleGatherer, RoleBuilder, RoleUpgrader}

// roleAliases maps legacy tags written by older colony scripts.
var roleAliases = map[string]Role{
	"harvester": RoleGatherer,
}

// ParseRole resolves a role tag (case-insensitive, legacy aliases allowed).
func ParseRole(s string) (Role, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles {
		if string(r) == tag {
			return r, nil
		}
	}
	if r, ok := roleAliases[tag]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// State is the short-term behavioral phase of a creep.
type State string

const (
	StateGathering State = "gathering"
	StateWorking   State = "working"
)

// BodyPart is a creep body part type.
type BodyPart string

const (
	Work  BodyPart = "work"
	Carry BodyPart = "carry"
	Move  BodyPart = "move"
)

// partCosts are the energy costs charged by the spawn per part.
var partCosts = map[BodyPart]int{
	Work:  100,
	Carry: 50,
	Move:  50,
}

func (p BodyPart) Cost() int { return partCosts[p] }

// MaxBodyParts is the host's hard limit on creep size.
const MaxBodyParts = 50

// Body is an ordered list of parts.
type Body []BodyPart

func (b Body) Cost() int {
	total := 0
	for _, p := range b {
		total += p.Cost()
	}
	return total
}

func (b Body) Count(part BodyPart) int {
	n := 0
	for _, p := range b {
		if p == part {
			n++
		}
	}
	return n
}

// Signature renders the body compactly, one letter per part ("wcmw").
func (b Body) Signature() string {
	var sb strings.Builder
	for _, p := range b {
		if p == "" {
			continue
		}
		sb.WriteByte(p[0])
	}
	return sb.String()
}

// Result is a command outcome code as reported by the host.
type Result int

const (
	OK                 Result = 0
	ErrNotOwner        Result = -1
	ErrNameExists      Result = -3
	ErrBusy            Result = -4
	ErrNotFound        Result = -5
	ErrNotEnoughEnergy Result = -6
	ErrInvalidTarget   Result = -7
	ErrFull            Result = -8
	ErrNotInRange      Result = -9
	ErrInvalidArgs     Result = -10
	ErrNoBodypart      Result = -12
)

var resultNames = map[Result]string{
	OK:                 "OK",
	ErrNotOwner:        "ERR_NOT_OWNER",
	ErrNameExists:      "ERR_NAME_EXISTS",
	ErrBusy:            "ERR_BUSY",
	ErrNotFound:        "ERR_NOT_FOUND",
	ErrNotEnoughEnergy: "ERR_NOT_ENOUGH_ENERGY",
	ErrInvalidTarget:   "ERR_INVALID_TARGET",
	ErrFull:            "ERR_FULL",
	ErrNotInRange:      "ERR_NOT_IN_RANGE",
	ErrInvalidArgs:     "ERR_INVALID_ARGS",
	ErrNoBodypart:      "ERR_NO_BODYPART",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

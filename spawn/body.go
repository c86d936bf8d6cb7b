package spawn

import "github.com/nstehr/burrow/burrow-core/model"

// baseUnit is the repeating core every role body is built from.
var baseUnit = model.Body{model.Work, model.Carry, model.Move}

// extraPart is the part a role spends leftover energy on after the repeats.
var extraPart = map[model.Role]model.BodyPart{
	model.RoleGatherer: model.Work,
	model.RoleUpgrader: model.Work,
	model.RoleBuilder:  model.Carry,
}

// OptimalBody builds the largest body for role that fits in energy.
//
// The body repeats {work, carry, move} while affordable, spends the rest on
// the role's extra part, then adds moves until there is one move per two
// non-move parts (work counts double). Movement is left short rather than
// going over budget. The result never exceeds model.MaxBodyParts.
func OptimalBody(role model.Role, energy int) model.Body {
	var body model.Body
	remaining := energy

	fits := func(p model.BodyPart) bool {
		return remaining >= p.Cost() && len(body) < model.MaxBodyParts
	}
	add := func(p model.BodyPart) {
		body = append(body, p)
		remaining -= p.Cost()
	}

	for remaining >= baseUnit.Cost() && len(body)+len(baseUnit) <= model.MaxBodyParts {
		for _, p := range baseUnit {
			add(p)
		}
	}

	if extra, ok := extraPart[role]; ok {
		for fits(extra) {
			add(extra)
		}
	}

	required := (2*body.Count(model.Work) + body.Count(model.Carry) + 1) / 2
	for body.Count(model.Move) < required && fits(model.Move) {
		add(model.Move)
	}
	return body
}

package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Strategy is a discrete choice made by one side of a predator/prey encounter.
type Strategy uint8

const (
	Hunt Strategy = iota
	Rest
	Hide
	Graze
)

// String returns the display name for a strategy.
func (s Strategy) String() string {
	switch s {
	case Hunt:
		return "hunt"
	case Rest:
		return "rest"
	case Hide:
		return "hide"
	case Graze:
		return "graze"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// ErrNoAssignment is returned when no joint assignment satisfies every constraint.
var ErrNoAssignment = errors.New("no consistent assignment")

// Constraint reports whether assigning value to variable is consistent with a partial assignment.
type Constraint func(variable string, value Strategy, assignment map[string]Strategy) bool

// CSP is a small constraint satisfaction problem solved by backtracking with forward checking.
// Variables and domain values are tried in declaration order.
type CSP struct {
	variables   []string
	domains     map[string][]Strategy
	constraints []Constraint
}

// NewCSP creates a problem. Domains are copied; the caller's slices are not modified.
func NewCSP(variables []string, domains map[string][]Strategy, constraints ...Constraint) *CSP {
	d := make(map[string][]Strategy, len(domains))
	for k, v := range domains {
		d[k] = slices.Clone(v)
	}
	return &CSP{
		variables:   slices.Clone(variables),
		domains:     d,
		constraints: constraints,
	}
}

// Solve returns the first complete consistent assignment.
func (c *CSP) Solve() (map[string]Strategy, error) {
	assignment := make(map[string]Strategy, len(c.variables))
	if c.backtrack(assignment, c.domains) {
		return assignment, nil
	}
	return nil, ErrNoAssignment
}

func (c *CSP) consistent(variable string, value Strategy, assignment map[string]Strategy) bool {
	for _, con := range c.constraints {
		if !con(variable, value, assignment) {
			return false
		}
	}
	return true
}

func (c *CSP) backtrack(assignment map[string]Strategy, domains map[string][]Strategy) bool {
	if len(assignment) == len(c.variables) {
		return true
	}

	var variable string
	for _, v := range c.variables {
		if _, ok := assignment[v]; !ok {
			variable = v
			break
		}
	}

	for _, value := range domains[variable] {
		if !c.consistent(variable, value, assignment) {
			continue
		}
		assignment[variable] = value
		if pruned, ok := c.forwardCheck(variable, assignment, domains); ok {
			if c.backtrack(assignment, pruned) {
				return true
			}
		}
		delete(assignment, variable)
	}
	return false
}

// forwardCheck prunes unassigned domains against the current assignment.
// Returns false if any domain empties.
func (c *CSP) forwardCheck(assigned string, assignment map[string]Strategy, domains map[string][]Strategy) (map[string][]Strategy, bool) {
	pruned := make(map[string][]Strategy, len(domains))
	for k, v := range domains {
		pruned[k] = v
	}
	for _, other := range c.variables {
		if other == assigned {
			continue
		}
		if _, ok := assignment[other]; ok {
			continue
		}
		var keep []Strategy
		for _, value := range domains[other] {
			if c.consistent(other, value, assignment) {
				keep = append(keep, value)
			}
		}
		if len(keep) == 0 {
			return nil, false
		}
		pruned[other] = keep
	}
	return pruned, true
}

const (
	predatorVar = "predator"
	preyVar     = "prey"
)

// predatorPreyCSP declares {Hunt, Rest} x {Hide, Graze} with Hunt and Hide mutually exclusive.
func predatorPreyCSP() *CSP {
	noHuntOnHide := func(variable string, value Strategy, a map[string]Strategy) bool {
		if prey, ok := a[preyVar]; variable == predatorVar && ok {
			return !(value == Hunt && prey == Hide)
		}
		return true
	}
	noHideFromHunt := func(variable string, value Strategy, a map[string]Strategy) bool {
		if pred, ok := a[predatorVar]; variable == preyVar && ok {
			return !(value == Hide && pred == Hunt)
		}
		return true
	}
	return NewCSP(
		[]string{predatorVar, preyVar},
		map[string][]Strategy{
			predatorVar: {Hunt, Rest},
			preyVar:     {Hide, Graze},
		},
		noHuntOnHide, noHideFromHunt,
	)
}

// ResolveStrategies picks the joint predator and prey strategy for one encounter.
// Population counts are accepted for logging; they do not constrain the choice.
func ResolveStrategies(predators, prey int) (Strategy, Strategy, error) {
	solution, err := predatorPreyCSP().Solve()
	if err != nil {
		return 0, 0, fmt.Errorf("resolving strategies for %d predators, %d prey: %w", predators, prey, err)
	}
	slog.Debug("strategy resolved",
		"predators", predators,
		"prey", prey,
		"predator_strategy", solution[predatorVar].String(),
		"prey_strategy", solution[preyVar].String(),
	)
	return solution[predatorVar], solution[preyVar], nil
}

// MustResolveStrategies is like ResolveStrategies but panics when no assignment exists.
func MustResolveStrategies(predators, prey int) (Strategy, Strategy) {
	predStrategy, preyStrategy, err := ResolveStrategies(predators, prey)
	if err != nil {
		panic(fmt.Sprintf("systems: %v", err))
	}
	return predStrategy, preyStrategy
}

package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/traits"
)

// OutcomeKind is the result of one agent tick.
type OutcomeKind uint8

const (
	Alive      OutcomeKind = iota
	Dead                   // remove the agent
	Reproduced             // spawn Child at SpawnAt
	Missing                // ref was not live; nothing happened
)

// String returns the display name for an outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	case Reproduced:
		return "reproduced"
	case Missing:
		return "missing"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(k))
	}
}

// DeathCause records why an agent died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	Starved
	Dehydrated
	OldAge
	Eaten
)

// DeathCauseCount is the number of death causes including CauseNone.
const DeathCauseCount = 5

// String returns the display name for a death cause.
func (c DeathCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case Starved:
		return "starved"
	case Dehydrated:
		return "dehydrated"
	case OldAge:
		return "old_age"
	case Eaten:
		return "eaten"
	default:
		return fmt.Sprintf("cause(%d)", uint8(c))
	}
}

// Outcome is what the world must do after an agent tick.
type Outcome struct {
	Kind    OutcomeKind
	Cause   DeathCause          // Dead only
	Killer  components.AgentRef // Dead by Eaten only
	Child   traits.Genome       // Reproduced only
	SpawnAt components.Position // Reproduced only
	Partner components.AgentRef // Reproduced only
}

// Behavior advances individual agents. It owns no agents; the population does.
type Behavior struct {
	cfg      *config.Config
	grid     *Grid
	pop      *Population
	rng      *rand.Rand
	mutation traits.Mutation
}

// NewBehavior creates the agent state machine over a grid and population.
func NewBehavior(cfg *config.Config, grid *Grid, pop *Population, rng *rand.Rand) *Behavior {
	return &Behavior{
		cfg:      cfg,
		grid:     grid,
		pop:      pop,
		rng:      rng,
		mutation: traits.MutationFromConfig(cfg.Mutation),
	}
}

// Tick advances one agent by one step.
// Hunger and thirst rates are expected to be season-scaled by the caller already;
// mods.Breeding scales how fast the mating cooldown runs down.
func (b *Behavior) Tick(ref components.AgentRef, mods Modifiers) Outcome {
	a, ok := b.pop.Get(ref)
	if !ok {
		return Outcome{Kind: Missing}
	}

	out := b.step(a, mods)
	if out.Kind != Dead && ref.Species == traits.Omnivore && a.Org.HuntCooldown > 0 {
		a.Org.HuntCooldown--
	}
	return out
}

func (b *Behavior) step(a Agent, mods Modifiers) Outcome {
	if a.Ref.Species.IsPrey() {
		if out, eaten := b.preyCoupling(a); eaten {
			return out
		}
	}

	a.Org.Age++

	if a.Org.Satiation > 0 {
		a.Org.Satiation--
		return b.settle(a)
	}

	if a.Org.Cooldown > 0 {
		if a.Org.Cooldown >= b.cfg.Mating.CooldownLimit {
			a.Org.Cooldown = 0
		} else {
			breeding := mods.Breeding
			if breeding <= 0 {
				breeding = 1
			}
			a.Org.Cooldown += 1 / breeding
		}
	}

	b.move(a)

	needs := b.cfg.Needs
	switch {
	case a.Nav.FoodFound && *a.Pos == a.Nav.FoodTarget:
		a.Nav.ClearFood()
		a.Needs.Hunger -= b.meal(a.Needs.HungerRate)
		a.Org.Satiation = needs.SatiationTicks
	case a.Nav.WaterFound && *a.Pos == a.Nav.WaterTarget:
		a.Nav.ClearWater()
		a.Needs.Thirst -= b.meal(a.Needs.ThirstRate)
		a.Org.Satiation = needs.SatiationTicks
	}

	if out, mated := b.rendezvous(a); mated {
		return out
	}

	a.Needs.Hunger += a.Needs.HungerRate
	a.Needs.Thirst += a.Needs.ThirstRate

	if len(a.Nav.Path) == 0 {
		b.resolveNeeds(a)
	}

	return b.settle(a)
}

// settle applies the death predicate and cleans up references on death.
func (b *Behavior) settle(a Agent) Outcome {
	cause := b.deathCause(a)
	if cause == CauseNone {
		return Outcome{Kind: Alive}
	}
	b.cleanupOnDeath(a)
	return Outcome{Kind: Dead, Cause: cause}
}

func (b *Behavior) deathCause(a Agent) DeathCause {
	needs := b.cfg.Needs
	switch {
	case a.Needs.Hunger >= needs.HungerCap:
		return Starved
	case a.Needs.Thirst >= needs.ThirstCap:
		return Dehydrated
	case float64(a.Org.Age) >= a.Org.MaxAge:
		return OldAge
	default:
		return CauseNone
	}
}

// meal returns how much one meal or drink relieves a need accruing at rate.
func (b *Behavior) meal(rate float64) float64 {
	return b.cfg.Needs.MealBase * (b.cfg.Needs.MealOffset - rate)
}

// preyCoupling feeds a claimed prey's position to its hunter and resolves the kill.
func (b *Behavior) preyCoupling(a Agent) (Outcome, bool) {
	if !a.Bonds.HuntedBy.Valid() {
		return Outcome{}, false
	}
	hunter, ok := b.pop.Get(a.Bonds.HuntedBy)
	if !ok || hunter.Bonds.Prey != a.Ref {
		a.Bonds.HuntedBy = components.NoAgent
		return Outcome{}, false
	}

	hunter.Nav.Path = append(hunter.Nav.Path, *a.Pos)
	hunter.Nav.FoodTarget = *a.Pos
	hunter.Nav.FoodFound = true

	if *hunter.Pos != *a.Pos {
		return Outcome{}, false
	}

	hunter.Needs.Hunger -= b.meal(hunter.Needs.HungerRate)
	b.cleanupOnDeath(a)
	return Outcome{Kind: Dead, Cause: Eaten, Killer: hunter.Ref}, true
}

// rendezvous runs the mate meeting protocol.
// The passive partner (no rendezvous of its own) leads the initiator to its tile;
// the initiator reproduces on reaching the rendezvous.
func (b *Behavior) rendezvous(a Agent) (Outcome, bool) {
	if !a.Bonds.Mate.Valid() {
		return Outcome{}, false
	}
	mate, ok := b.pop.Get(a.Bonds.Mate)
	if !ok || mate.Bonds.Mate != a.Ref {
		a.Bonds.Mate = components.NoAgent
		a.Bonds.ClearRendezvous()
		return Outcome{}, false
	}

	if !a.Bonds.HasRendezvous {
		mate.Nav.Path = append(mate.Nav.Path, *a.Pos)
		mate.Bonds.Rendezvous = *a.Pos
		mate.Bonds.HasRendezvous = true
		return Outcome{}, false
	}
	if a.Bonds.Rendezvous != *a.Pos {
		return Outcome{}, false
	}

	child := b.mutation.Combine(b.rng, a.Org.Genome, mate.Org.Genome)
	a.Org.Cooldown = 1
	mate.Org.Cooldown = 1
	a.Bonds.Mate = components.NoAgent
	mate.Bonds.Mate = components.NoAgent
	a.Bonds.ClearRendezvous()
	a.Nav.ClearPath()
	a.Org.Satiation = b.cfg.Needs.SatiationTicks

	return Outcome{Kind: Reproduced, Child: child, SpawnAt: *a.Pos, Partner: mate.Ref}, true
}

// cleanupOnDeath clears every reference other agents hold to a.
func (b *Behavior) cleanupOnDeath(a Agent) {
	if mate, ok := b.pop.Get(a.Bonds.Mate); ok && mate.Bonds.Mate == a.Ref {
		mate.Bonds.Mate = components.NoAgent
		mate.Bonds.ClearRendezvous()
		mate.Nav.ClearPath()
	}
	if hunter, ok := b.pop.Get(a.Bonds.HuntedBy); ok && hunter.Bonds.Prey == a.Ref {
		hunter.Bonds.Prey = components.NoAgent
		hunter.Nav.ClearFood()
		hunter.Nav.ClearPath()
	}
	if a.Ref.Species.Hunts() {
		b.releasePrey(a)
	}

	a.Bonds.Mate = components.NoAgent
	a.Bonds.HuntedBy = components.NoAgent
	a.Bonds.Prey = components.NoAgent
	a.Bonds.ClearRendezvous()
}

// move takes one step along the queued path, or a random step without one.
func (b *Behavior) move(a Agent) {
	if len(a.Nav.Path) == 0 {
		b.randomStep(a)
		return
	}

	if n := a.Nav.PathLen; n > b.cfg.Movement.RepathMinLength && float64(len(a.Nav.Path)) <= float64(n)/2 {
		goal := a.Nav.Path[len(a.Nav.Path)-1]
		a.Nav.SetPath(FindPath(b.grid, *a.Pos, goal))
		if len(a.Nav.Path) == 0 {
			b.randomStep(a)
			return
		}
	}

	next := a.Nav.Path[0]
	a.Nav.Path = a.Nav.Path[1:]
	b.pop.MoveTo(a, next)
}

// randomStep tries one of the four directions and stays put if it is not walkable.
func (b *Behavior) randomStep(a Agent) {
	next := a.Pos.Add(components.Directions[b.rng.Intn(len(components.Directions))])
	if b.grid.Walkable(next) {
		b.pop.MoveTo(a, next)
	}
}

// resolveNeeds picks a new goal by priority: water, food, then a mate.
func (b *Behavior) resolveNeeds(a Agent) {
	// The path ran out without arriving; drop targets nothing will lead to anymore.
	if a.Nav.WaterFound {
		a.Nav.ClearWater()
	}
	if a.Nav.FoodFound && !b.pop.Alive(a.Bonds.Prey) {
		a.Nav.ClearFood()
	}

	needs := b.cfg.Needs
	switch {
	case a.Needs.Thirst > needs.ThirstThreshold && !a.Nav.WaterFound:
		b.findWater(a)
	case a.Needs.Hunger > needs.HungerThreshold && !a.Nav.FoodFound:
		b.findFood(a)
	case !a.Bonds.Mate.Valid() && a.Org.Age > b.cfg.Mating.MinAge && a.Org.Cooldown == 0:
		b.findMate(a)
	}
}

// findFood applies the species food rule.
func (b *Behavior) findFood(a Agent) {
	switch a.Ref.Species {
	case traits.Herbivore:
		predators := 0
		if b.pop.Alive(a.Bonds.HuntedBy) {
			predators = b.pop.Count(a.Bonds.HuntedBy.Species)
		}
		_, preyStrategy := MustResolveStrategies(predators, b.pop.Count(traits.Herbivore))
		if preyStrategy == Hide {
			b.randomStep(a)
			return
		}
		b.findBerry(a)

	case traits.Carnivore:
		predStrategy, _ := MustResolveStrategies(b.pop.Count(traits.Carnivore), b.pop.Count(traits.Herbivore))
		if predStrategy == Hunt {
			b.findPrey(a)
			return
		}
		a.Needs.Hunger -= b.cfg.Needs.RestRecovery

	case traits.Omnivore:
		omni := b.cfg.Omnivore
		if a.Org.BerryPreference > 0 && b.findBerry(a) {
			a.Org.BerryPreference--
			return
		}
		if a.Needs.Hunger > omni.HuntHunger && a.Org.HuntCooldown <= 0 && b.findPrey(a) {
			a.Org.BerryPreference = omni.BerryPreference
			a.Org.HuntCooldown = omni.HuntCooldown
			return
		}
		if !a.Nav.FoodFound {
			b.findBerry(a)
		}

	default:
		a.Ref.Species.MustValid()
	}
}

// findWater paths to the nearest drinkable water tile.
func (b *Behavior) findWater(a Agent) bool {
	target, ok := Locate(b.grid.Size(), *a.Pos, b.cfg.Search.WaterRings, func(p components.Position) bool {
		return IsDrinkable(b.grid, p)
	})
	if !ok {
		return false
	}
	path := FindPath(b.grid, *a.Pos, target)
	if len(path) == 0 {
		return false
	}
	a.Nav.Path = path
	a.Nav.PathLen = 0
	a.Nav.WaterTarget = target
	a.Nav.WaterFound = true
	return true
}

// findBerry paths to the nearest berry tile.
func (b *Behavior) findBerry(a Agent) bool {
	if !a.Ref.Species.Grazes() {
		return false
	}
	target, ok := Locate(b.grid.Size(), *a.Pos, b.cfg.Search.BerryRings, func(p components.Position) bool {
		return b.grid.Get(p) == Berry
	})
	if !ok {
		return false
	}
	path := FindPath(b.grid, *a.Pos, target)
	if len(path) == 0 {
		return false
	}
	a.Nav.Path = path
	a.Nav.PathLen = 0
	a.Nav.FoodTarget = target
	a.Nav.FoodFound = true
	return true
}

// findPrey claims the nearest unclaimed prey and starts pursuit.
func (b *Behavior) findPrey(a Agent) bool {
	if !a.Ref.Species.Hunts() {
		return false
	}
	b.releasePrey(a)

	ref, target, ok := b.pop.Occupancy().LocateAgent(b.grid.Size(), *a.Pos, b.cfg.Search.PreyRings, func(r components.AgentRef) bool {
		if !r.Species.IsPrey() {
			return false
		}
		prey, ok := b.pop.Get(r)
		return ok && !b.pop.Alive(prey.Bonds.HuntedBy)
	})
	if !ok {
		return false
	}
	path := FindPath(b.grid, *a.Pos, target)
	if len(path) == 0 {
		return false
	}

	prey := b.pop.MustGet(ref)
	prey.Bonds.HuntedBy = a.Ref
	a.Bonds.Prey = ref
	a.Nav.SetPath(path)
	a.Nav.FoodTarget = target
	a.Nav.FoodFound = true
	return true
}

// releasePrey drops an existing claim so the prey can be hunted by others.
func (b *Behavior) releasePrey(a Agent) {
	if prey, ok := b.pop.Get(a.Bonds.Prey); ok && prey.Bonds.HuntedBy == a.Ref {
		prey.Bonds.HuntedBy = components.NoAgent
	}
	a.Bonds.Prey = components.NoAgent
}

// findMate pairs with the nearest unbonded agent of the same species and heads for it.
func (b *Behavior) findMate(a Agent) bool {
	ref, target, ok := b.pop.Occupancy().LocateAgent(b.grid.Size(), *a.Pos, b.cfg.Search.MateRings, func(r components.AgentRef) bool {
		if r.Species != a.Ref.Species || r == a.Ref {
			return false
		}
		m, ok := b.pop.Get(r)
		return ok && !b.pop.Alive(m.Bonds.Mate)
	})
	if !ok {
		return false
	}
	path := FindPath(b.grid, *a.Pos, target)
	if len(path) == 0 {
		return false
	}

	mate := b.pop.MustGet(ref)
	mate.Bonds.Mate = a.Ref
	mate.Bonds.ClearRendezvous()
	a.Bonds.Mate = ref
	a.Bonds.Rendezvous = target
	a.Bonds.HasRendezvous = true
	a.Nav.SetPath(path)
	return true
}

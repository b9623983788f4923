package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/traits"
)

// flatConfig returns defaults with every season multiplier set to 1.
func flatConfig() *config.Config {
	cfg := config.Default()
	for i := range cfg.Seasons {
		cfg.Seasons[i].Hunger = 1
		cfg.Seasons[i].Thirst = 1
		cfg.Seasons[i].Breeding = 1
		cfg.Seasons[i].Berry = 1
	}
	return cfg
}

func testGenome(s traits.Species, maxAge, hungerRate, thirstRate float64) traits.Genome {
	return traits.Genome{
		Species:    s,
		MaxAge:     traits.AllelePair{Dominant: maxAge, Recessive: maxAge},
		HungerRate: traits.AllelePair{Dominant: hungerRate, Recessive: hungerRate},
		ThirstRate: traits.AllelePair{Dominant: thirstRate, Recessive: thirstRate},
	}
}

type fixture struct {
	cfg  *config.Config
	grid *Grid
	pop  *Population
	beh  *Behavior
}

func newFixture(grid *Grid) *fixture {
	cfg := flatConfig()
	pop := NewPopulation()
	return &fixture{
		cfg:  cfg,
		grid: grid,
		pop:  pop,
		beh:  NewBehavior(cfg, grid, pop, rand.New(rand.NewSource(1))),
	}
}

func (f *fixture) spawn(s traits.Species, at components.Position, hungerRate, thirstRate float64) components.AgentRef {
	return f.pop.Spawn(testGenome(s, 10000, hungerRate, thirstRate), at, 0)
}

// get resolves a ref after all spawns, since spawning may move component storage.
func (f *fixture) get(ref components.AgentRef) Agent {
	return f.pop.MustGet(ref)
}

func TestTickDeathPredicate(t *testing.T) {
	tests := []struct {
		name  string
		setup func(a Agent)
		want  DeathCause
	}{
		{"hunger reaches cap", func(a Agent) { a.Needs.Hunger = 999 }, Starved},
		{"thirst reaches cap", func(a Agent) { a.Needs.Thirst = 999 }, Dehydrated},
		{"max age reached", func(a Agent) { a.Org.Age = 9; a.Org.MaxAge = 10 }, OldAge},
		{"satiated still starves", func(a Agent) { a.Org.Satiation = 5; a.Needs.Hunger = 1000 }, Starved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(NewGrid(5))
			aRef := f.spawn(traits.Herbivore, pos(2, 2), 1, 1)
			a := f.get(aRef)
			tt.setup(a)

			out := f.beh.Tick(a.Ref, NoModifiers)
			if out.Kind != Dead {
				t.Fatalf("Tick kind = %v, want dead", out.Kind)
			}
			if out.Cause != tt.want {
				t.Errorf("Tick cause = %v, want %v", out.Cause, tt.want)
			}
		})
	}
}

func TestTickSatiationSkipsNeeds(t *testing.T) {
	f := newFixture(NewGrid(5))
	aRef := f.spawn(traits.Herbivore, pos(2, 2), 3, 3)
	a := f.get(aRef)
	a.Org.Satiation = 2

	f.beh.Tick(a.Ref, NoModifiers)
	if a.Org.Satiation != 1 {
		t.Errorf("satiation = %d, want 1", a.Org.Satiation)
	}
	if a.Needs.Hunger != 0 || a.Needs.Thirst != 0 {
		t.Errorf("needs advanced while satiated: %+v", *a.Needs)
	}
	if *a.Pos != pos(2, 2) {
		t.Errorf("moved while satiated to %v", *a.Pos)
	}
	if a.Org.Age != 1 {
		t.Errorf("age = %d, want 1", a.Org.Age)
	}
}

func TestTickArrivalAtBerry(t *testing.T) {
	grid := NewGrid(5)
	grid.Set(pos(3, 2), Berry)
	f := newFixture(grid)
	aRef := f.spawn(traits.Herbivore, pos(2, 2), 5, 0)
	a := f.get(aRef)
	a.Needs.Hunger = 5000
	a.Nav.Path = []components.Position{pos(3, 2)}
	a.Nav.FoodTarget = pos(3, 2)
	a.Nav.FoodFound = true

	f.beh.Tick(a.Ref, NoModifiers)

	meal := f.cfg.Needs.MealBase * (f.cfg.Needs.MealOffset - 5)
	if want := 5000 - meal + 5; a.Needs.Hunger != want {
		t.Errorf("hunger = %v, want %v", a.Needs.Hunger, want)
	}
	if a.Nav.FoodFound {
		t.Error("food target should be cleared on arrival")
	}
	if a.Org.Satiation != f.cfg.Needs.SatiationTicks {
		t.Errorf("satiation = %d, want %d", a.Org.Satiation, f.cfg.Needs.SatiationTicks)
	}
}

func TestTickCooldown(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		breeding float64
		want     float64
	}{
		{"normal season", 1, 1, 2},
		{"fast breeding season", 1, 0.5, 3},
		{"clears at limit", 100, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(NewGrid(5))
			aRef := f.spawn(traits.Herbivore, pos(2, 2), 0, 0)
			a := f.get(aRef)
			a.Org.Cooldown = tt.start

			mods := NoModifiers
			mods.Breeding = tt.breeding
			f.beh.Tick(a.Ref, mods)
			if a.Org.Cooldown != tt.want {
				t.Errorf("cooldown = %v, want %v", a.Org.Cooldown, tt.want)
			}
		})
	}
}

// TestRandomStepAvoidsWater verifies an agent on an island never enters water.
func TestRandomStepAvoidsWater(t *testing.T) {
	grid := gridFromRows(
		"~~~",
		"~.~",
		"~~~",
	)
	f := newFixture(grid)
	aRef := f.spawn(traits.Herbivore, pos(1, 1), 0, 0)
	a := f.get(aRef)

	for i := 0; i < 50; i++ {
		if out := f.beh.Tick(a.Ref, NoModifiers); out.Kind != Alive {
			t.Fatalf("tick %d: kind = %v", i, out.Kind)
		}
		if *a.Pos != pos(1, 1) {
			t.Fatalf("tick %d: moved to %v", i, *a.Pos)
		}
	}
}

func TestPreyKilledWhenHunterOnTile(t *testing.T) {
	f := newFixture(NewGrid(5))
	preyRef := f.spawn(traits.Herbivore, pos(2, 2), 1, 1)
	hunterRef := f.spawn(traits.Carnivore, pos(2, 2), 10, 1)
	prey, hunter := f.get(preyRef), f.get(hunterRef)

	prey.Bonds.HuntedBy = hunter.Ref
	hunter.Bonds.Prey = prey.Ref
	hunter.Needs.Hunger = 5000
	hunter.Nav.FoodTarget = pos(2, 2)
	hunter.Nav.FoodFound = true

	out := f.beh.Tick(prey.Ref, NoModifiers)
	if out.Kind != Dead || out.Cause != Eaten {
		t.Fatalf("prey outcome = %v/%v, want dead/eaten", out.Kind, out.Cause)
	}
	if out.Killer != hunter.Ref {
		t.Errorf("killer = %v, want %v", out.Killer, hunter.Ref)
	}

	meal := f.cfg.Needs.MealBase * (f.cfg.Needs.MealOffset - 10)
	if hunter.Needs.Hunger != 5000-meal {
		t.Errorf("hunter hunger = %v, want %v", hunter.Needs.Hunger, 5000-meal)
	}
	if hunter.Bonds.Prey.Valid() || hunter.Nav.FoodFound || len(hunter.Nav.Path) != 0 {
		t.Errorf("hunter state not cleared: prey=%v food=%v path=%v",
			hunter.Bonds.Prey, hunter.Nav.FoodFound, hunter.Nav.Path)
	}
	if prey.Bonds.HuntedBy.Valid() {
		t.Error("prey huntedBy not cleared")
	}
}

func TestPreyLeadsHunter(t *testing.T) {
	f := newFixture(NewGrid(6))
	preyRef := f.spawn(traits.Herbivore, pos(4, 4), 0, 0)
	hunterRef := f.spawn(traits.Carnivore, pos(0, 0), 0, 0)
	prey, hunter := f.get(preyRef), f.get(hunterRef)
	prey.Bonds.HuntedBy = hunter.Ref
	hunter.Bonds.Prey = prey.Ref

	if out := f.beh.Tick(prey.Ref, NoModifiers); out.Kind != Alive {
		t.Fatalf("prey outcome = %v, want alive", out.Kind)
	}
	if len(hunter.Nav.Path) != 1 || hunter.Nav.Path[0] != pos(4, 4) {
		t.Errorf("hunter path = %v, want [(4, 4)]", hunter.Nav.Path)
	}
	if !hunter.Nav.FoodFound || hunter.Nav.FoodTarget != pos(4, 4) {
		t.Errorf("hunter food target = %v (%v), want (4, 4)", hunter.Nav.FoodTarget, hunter.Nav.FoodFound)
	}
}

func TestStaleHunterRefCleared(t *testing.T) {
	f := newFixture(NewGrid(5))
	preyRef := f.spawn(traits.Herbivore, pos(2, 2), 0, 0)
	prey := f.get(preyRef)
	prey.Bonds.HuntedBy = components.AgentRef{Species: traits.Carnivore, ID: 99}

	f.beh.Tick(prey.Ref, NoModifiers)
	if prey.Bonds.HuntedBy.Valid() {
		t.Errorf("huntedBy = %v, want none", prey.Bonds.HuntedBy)
	}
}

func TestHunterDeathReleasesPrey(t *testing.T) {
	f := newFixture(NewGrid(5))
	preyRef := f.spawn(traits.Herbivore, pos(4, 4), 0, 0)
	hunterRef := f.spawn(traits.Carnivore, pos(0, 0), 0, 0)
	prey, hunter := f.get(preyRef), f.get(hunterRef)
	prey.Bonds.HuntedBy = hunter.Ref
	hunter.Bonds.Prey = prey.Ref
	hunter.Needs.Hunger = 2000

	if out := f.beh.Tick(hunter.Ref, NoModifiers); out.Kind != Dead {
		t.Fatalf("hunter outcome = %v, want dead", out.Kind)
	}
	if prey.Bonds.HuntedBy.Valid() {
		t.Error("prey still claimed by a dead hunter")
	}
}

func TestHunterClaimsPrey(t *testing.T) {
	f := newFixture(NewGrid(8))
	preyRef := f.spawn(traits.Herbivore, pos(5, 0), 0, 0)
	hunterRef := f.spawn(traits.Carnivore, pos(0, 0), 0, 0)
	prey, hunter := f.get(preyRef), f.get(hunterRef)
	hunter.Needs.Hunger = 400

	f.beh.Tick(hunter.Ref, NoModifiers)

	if prey.Bonds.HuntedBy != hunter.Ref {
		t.Errorf("prey huntedBy = %v, want %v", prey.Bonds.HuntedBy, hunter.Ref)
	}
	if hunter.Bonds.Prey != prey.Ref {
		t.Errorf("hunter prey = %v, want %v", hunter.Bonds.Prey, prey.Ref)
	}
	goal, ok := hunter.Nav.Goal()
	if !ok || goal != pos(5, 0) {
		t.Errorf("hunter goal = %v (%v), want (5, 0)", goal, ok)
	}
	if hunter.Nav.PathLen != len(hunter.Nav.Path) {
		t.Errorf("pursuit path length not tracked: %d vs %d", hunter.Nav.PathLen, len(hunter.Nav.Path))
	}
}

func TestOmnivoreHuntSetsMemory(t *testing.T) {
	f := newFixture(NewGrid(8))
	f.spawn(traits.Herbivore, pos(6, 0), 0, 0)
	omniRef := f.spawn(traits.Omnivore, pos(0, 0), 0, 0)
	omni := f.get(omniRef)
	omni.Needs.Hunger = 600

	f.beh.Tick(omni.Ref, NoModifiers)

	if !omni.Bonds.Prey.Valid() {
		t.Fatal("omnivore did not claim prey")
	}
	if omni.Org.BerryPreference != f.cfg.Omnivore.BerryPreference {
		t.Errorf("berry preference = %d, want %d", omni.Org.BerryPreference, f.cfg.Omnivore.BerryPreference)
	}
	// Hunt cooldown already ran down once for the surviving tick.
	if want := f.cfg.Omnivore.HuntCooldown - 1; omni.Org.HuntCooldown != want {
		t.Errorf("hunt cooldown = %d, want %d", omni.Org.HuntCooldown, want)
	}
}

func TestOmnivorePrefersBerriesAfterHunt(t *testing.T) {
	grid := NewGrid(8)
	grid.Set(pos(0, 7), Berry)
	f := newFixture(grid)
	f.spawn(traits.Herbivore, pos(2, 0), 0, 0)
	omniRef := f.spawn(traits.Omnivore, pos(0, 0), 0, 0)
	omni := f.get(omniRef)
	omni.Needs.Hunger = 600
	omni.Org.BerryPreference = 2

	f.beh.Tick(omni.Ref, NoModifiers)

	if omni.Bonds.Prey.Valid() {
		t.Error("omnivore hunted while preferring berries")
	}
	if omni.Org.BerryPreference != 1 {
		t.Errorf("berry preference = %d, want 1", omni.Org.BerryPreference)
	}
	if !omni.Nav.FoodFound || omni.Nav.FoodTarget != pos(0, 7) {
		t.Errorf("food target = %v (%v), want (0, 7)", omni.Nav.FoodTarget, omni.Nav.FoodFound)
	}
}

func TestPassiveMateLeadsInitiator(t *testing.T) {
	f := newFixture(NewGrid(6))
	initiatorRef := f.spawn(traits.Herbivore, pos(0, 0), 0, 0)
	passiveRef := f.spawn(traits.Herbivore, pos(4, 4), 0, 0)
	initiator, passive := f.get(initiatorRef), f.get(passiveRef)
	initiator.Bonds.Mate = passive.Ref
	initiator.Bonds.Rendezvous = pos(4, 4)
	initiator.Bonds.HasRendezvous = true
	passive.Bonds.Mate = initiator.Ref

	f.beh.Tick(passive.Ref, NoModifiers)

	goal, ok := initiator.Nav.Goal()
	if !ok || goal != *passive.Pos {
		t.Errorf("initiator goal = %v (%v), want passive position %v", goal, ok, *passive.Pos)
	}
	if initiator.Bonds.Rendezvous != *passive.Pos {
		t.Errorf("rendezvous = %v, want %v", initiator.Bonds.Rendezvous, *passive.Pos)
	}
}

func TestInitiatorReproducesAtRendezvous(t *testing.T) {
	f := newFixture(NewGrid(5))
	initiatorRef := f.spawn(traits.Herbivore, pos(1, 1), 0, 0)
	passiveRef := f.spawn(traits.Herbivore, pos(2, 1), 0, 0)
	initiator, passive := f.get(initiatorRef), f.get(passiveRef)
	initiator.Bonds.Mate = passive.Ref
	initiator.Bonds.Rendezvous = pos(2, 1)
	initiator.Bonds.HasRendezvous = true
	initiator.Nav.SetPath([]components.Position{pos(2, 1)})
	passive.Bonds.Mate = initiator.Ref

	out := f.beh.Tick(initiator.Ref, NoModifiers)
	if out.Kind != Reproduced {
		t.Fatalf("outcome = %v, want reproduced", out.Kind)
	}
	if out.SpawnAt != pos(2, 1) || out.Child.Species != traits.Herbivore || out.Partner != passive.Ref {
		t.Errorf("outcome = %+v", out)
	}
	if initiator.Bonds.Mate.Valid() || passive.Bonds.Mate.Valid() {
		t.Error("mate refs not cleared")
	}
	if initiator.Org.Cooldown != 1 || passive.Org.Cooldown != 1 {
		t.Errorf("cooldowns = %v, %v; want 1, 1", initiator.Org.Cooldown, passive.Org.Cooldown)
	}
	if initiator.Bonds.HasRendezvous || len(initiator.Nav.Path) != 0 {
		t.Error("initiator rendezvous or path not cleared")
	}
}

func TestMateDeathClearsPartner(t *testing.T) {
	f := newFixture(NewGrid(5))
	aRef := f.spawn(traits.Carnivore, pos(0, 0), 0, 0)
	bRef := f.spawn(traits.Carnivore, pos(4, 4), 0, 0)
	a, b := f.get(aRef), f.get(bRef)
	a.Bonds.Mate = b.Ref
	b.Bonds.Mate = a.Ref
	b.Bonds.Rendezvous = pos(0, 0)
	b.Bonds.HasRendezvous = true
	b.Nav.SetPath(FindPath(f.grid, pos(4, 4), pos(0, 0)))
	a.Needs.Thirst = 5000

	if out := f.beh.Tick(a.Ref, NoModifiers); out.Kind != Dead || out.Cause != Dehydrated {
		t.Fatalf("outcome = %v/%v, want dead/dehydrated", out.Kind, out.Cause)
	}
	if b.Bonds.Mate.Valid() || b.Bonds.HasRendezvous || len(b.Nav.Path) != 0 {
		t.Errorf("partner not cleared: %+v path=%v", *b.Bonds, b.Nav.Path)
	}
}

func TestMissingAgent(t *testing.T) {
	f := newFixture(NewGrid(5))
	out := f.beh.Tick(components.AgentRef{Species: traits.Herbivore, ID: 3}, NoModifiers)
	if out.Kind != Missing {
		t.Errorf("outcome = %v, want missing", out.Kind)
	}
}

func TestFoodSearchFollowsDiet(t *testing.T) {
	grid := NewGrid(5)
	grid.Set(pos(3, 2), Berry)
	f := newFixture(grid)
	herb := f.spawn(traits.Herbivore, pos(2, 2), 1, 1)
	other := f.spawn(traits.Herbivore, pos(1, 2), 1, 1)
	carn := f.spawn(traits.Carnivore, pos(0, 0), 1, 1)

	if f.beh.findPrey(f.get(herb)) {
		t.Error("herbivore claimed prey")
	}
	if f.get(other).Bonds.HuntedBy.Valid() {
		t.Errorf("prey claimed by %v", f.get(other).Bonds.HuntedBy)
	}

	c := f.get(carn)
	if f.beh.findBerry(c) {
		t.Error("carnivore found berries")
	}
	if c.Nav.FoodFound || len(c.Nav.Path) != 0 {
		t.Errorf("carnivore nav = %+v, want untouched", *c.Nav)
	}

	h := f.get(herb)
	if !f.beh.findBerry(h) || h.Nav.FoodTarget != pos(3, 2) {
		t.Errorf("herbivore berry target = %v (found %v), want (3, 2)", h.Nav.FoodTarget, h.Nav.FoodFound)
	}
}

package traits

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/warren/config"
)

// AllelePair holds the two inherited values of one trait.
// The dominant value is the one an organism expresses.
type AllelePair struct {
	Dominant  float64
	Recessive float64
}

// Genome is the heritable description of an organism.
type Genome struct {
	Species    Species
	MaxAge     AllelePair
	HungerRate AllelePair
	ThirstRate AllelePair
}

// pairs returns pointers to the trait pairs in a fixed order.
func (g *Genome) pairs() [3]*AllelePair {
	return [3]*AllelePair{&g.MaxAge, &g.HungerRate, &g.ThirstRate}
}

// LogValue implements slog.LogValuer for structured logging.
func (g Genome) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("species", g.Species.String()),
		slog.Float64("max_age", g.MaxAge.Dominant),
		slog.Float64("hunger_rate", g.HungerRate.Dominant),
		slog.Float64("thirst_rate", g.ThirstRate.Dominant),
	)
}

// Mutation controls how often and how far offspring genomes drift.
type Mutation struct {
	Odds    int     // One mutation pass in Odds births
	Divisor float64 // Delta is a uniform draw between the alleles divided by this
}

// DefaultMutation is one pass in twenty births with a quarter-span delta.
var DefaultMutation = Mutation{Odds: 20, Divisor: 4}

// MutationFromConfig builds mutation parameters from configuration.
func MutationFromConfig(cfg config.MutationConfig) Mutation {
	m := Mutation{Odds: cfg.Odds, Divisor: cfg.Divisor}
	if m.Odds < 1 {
		m.Odds = DefaultMutation.Odds
	}
	if m.Divisor == 0 {
		m.Divisor = DefaultMutation.Divisor
	}
	return m
}

// Combine produces a child genome from two parents using DefaultMutation.
// The child belongs to b's species.
func Combine(rng *rand.Rand, a, b Genome) Genome {
	return DefaultMutation.Combine(rng, a, b)
}

// CombineWith is Combine with the mutation pass forced on or off.
func CombineWith(rng *rand.Rand, a, b Genome, mutate bool) Genome {
	return DefaultMutation.CombineWith(rng, a, b, mutate)
}

// Combine produces a child genome, mutating it with probability 1/Odds.
func (m Mutation) Combine(rng *rand.Rand, a, b Genome) Genome {
	child := m.CombineWith(rng, a, b, false)
	if rng.Intn(m.Odds) == 0 {
		m.mutate(rng, &child)
	}
	return child
}

// CombineWith recombines every trait pair of a and b, then mutates if asked.
//
// For each pair one parent is drawn to supply its dominant allele and the other
// supplies its recessive allele. A second draw decides whether the supplied
// dominant allele keeps the dominant slot or swaps into the recessive one.
func (m Mutation) CombineWith(rng *rand.Rand, a, b Genome, mutate bool) Genome {
	child := Genome{Species: b.Species}

	pa, pb := a.pairs(), b.pairs()
	pc := child.pairs()
	for i := range pc {
		first, second := pa[i], pb[i]
		if rng.Intn(2) == 1 {
			first, second = second, first
		}
		if rng.Intn(2) == 0 {
			pc[i].Dominant = first.Dominant
			pc[i].Recessive = second.Recessive
		} else {
			pc[i].Dominant = second.Recessive
			pc[i].Recessive = first.Dominant
		}
	}

	if mutate {
		m.mutate(rng, &child)
	}
	return child
}

// mutate shifts both alleles of each pair by the same signed delta.
func (m Mutation) mutate(rng *rand.Rand, g *Genome) {
	for _, p := range g.pairs() {
		lo, hi := p.Dominant, p.Recessive
		if lo > hi {
			lo, hi = hi, lo
		}
		delta := Round2((lo + rng.Float64()*(hi-lo)) / m.Divisor)
		if rng.Intn(2) == 1 {
			delta = -delta
		}
		p.Dominant += delta
		p.Recessive += delta
	}
}

// NewFounder draws a random genome for an initial organism.
// Both alleles of every pair are drawn independently from the configured ranges.
func NewFounder(rng *rand.Rand, species Species, fc config.FounderConfig) Genome {
	species.MustValid()
	return Genome{
		Species: species,
		MaxAge: AllelePair{
			Dominant:  float64(randInt(rng, fc.MaxAge[0], fc.MaxAge[1])),
			Recessive: float64(randInt(rng, fc.MaxAge[0], fc.MaxAge[1])),
		},
		HungerRate: AllelePair{
			Dominant:  Round2(uniform(rng, fc.HungerRate[0], fc.HungerRate[1])),
			Recessive: Round2(uniform(rng, fc.HungerRate[0], fc.HungerRate[1])),
		},
		ThirstRate: AllelePair{
			Dominant:  Round2(uniform(rng, fc.ThirstRate[0], fc.ThirstRate[1])),
			Recessive: Round2(uniform(rng, fc.ThirstRate[0], fc.ThirstRate[1])),
		},
	}
}

// FounderConfigFor returns the founder ranges for a species.
func FounderConfigFor(table config.SpeciesTable, species Species) config.FounderConfig {
	switch species {
	case Herbivore:
		return table.Herbivore
	case Carnivore:
		return table.Carnivore
	case Omnivore:
		return table.Omnivore
	}
	species.MustValid()
	return config.FounderConfig{}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

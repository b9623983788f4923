package telemetry

import (
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/traits"
)

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births [traits.SpeciesCount]int
	deaths [traits.SpeciesCount]int
	causes [systems.DeathCauseCount]int
	kills  [traits.SpeciesCount]int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: windowTicks}
}

// Record counts one event.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventBirth:
		c.RecordBirth(e.Ref.Species)
	case EventDeath:
		c.RecordDeath(e.Ref.Species, e.Cause)
	case EventKill:
		c.RecordKill(e.Ref.Species)
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(s traits.Species) {
	s.MustValid()
	c.births[s]++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(s traits.Species, cause systems.DeathCause) {
	s.MustValid()
	c.deaths[s]++
	if int(cause) < len(c.causes) {
		c.causes[cause]++
	}
}

// RecordKill records a kill credited to the hunter's species.
func (c *Collector) RecordKill(hunter traits.Species) {
	hunter.MustValid()
	c.kills[hunter]++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the world state the caller provides at flush time.
type Sample struct {
	Tick    int32
	Season  string
	Counts  [traits.SpeciesCount]int
	Berries int
	Genomes [traits.SpeciesCount][]traits.Genome
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s Sample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   s.Tick,
		Season:          s.Season,

		Herbivores: s.Counts[traits.Herbivore],
		Carnivores: s.Counts[traits.Carnivore],
		Omnivores:  s.Counts[traits.Omnivore],
		Berries:    s.Berries,

		HerbivoreBirths: c.births[traits.Herbivore],
		CarnivoreBirths: c.births[traits.Carnivore],
		OmnivoreBirths:  c.births[traits.Omnivore],
		HerbivoreDeaths: c.deaths[traits.Herbivore],
		CarnivoreDeaths: c.deaths[traits.Carnivore],
		OmnivoreDeaths:  c.deaths[traits.Omnivore],

		Starved:    c.causes[systems.Starved],
		Dehydrated: c.causes[systems.Dehydrated],
		OldAge:     c.causes[systems.OldAge],
		Eaten:      c.causes[systems.Eaten],

		CarnivoreKills: c.kills[traits.Carnivore],
		OmnivoreKills:  c.kills[traits.Omnivore],
	}

	var sums [traits.SpeciesCount]TraitSummary
	for _, sp := range traits.AllSpecies {
		sums[sp] = SummarizeGenomes(s.Genomes[sp])
	}
	stats.setTraits(sums)

	// Reset for next window
	c.windowStartTick = s.Tick
	c.births = [traits.SpeciesCount]int{}
	c.deaths = [traits.SpeciesCount]int{}
	c.causes = [systems.DeathCauseCount]int{}
	c.kills = [traits.SpeciesCount]int{}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

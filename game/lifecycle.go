package game

import (
	"log/slog"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/traits"
)

// founderCounts returns how many founders of each species the config asks for.
func (w *World) founderCounts() [traits.SpeciesCount]int {
	land := float64(w.grid.LandTiles())
	pc := w.cfg.Population

	var n [traits.SpeciesCount]int
	n[traits.Herbivore] = int(land * pc.HerbivorePercent)
	n[traits.Carnivore] = int(land * pc.CarnivorePercent)
	n[traits.Omnivore] = int(land * pc.OmnivorePercent)
	return n
}

// spawnInitialPopulation places founders on random unoccupied Land tiles.
// Species are placed in tick order; placement stops early if free land runs out.
func (w *World) spawnInitialPopulation() {
	free := w.grid.Positions(systems.Land)
	w.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	counts := w.founderCounts()
	next := 0
	for _, s := range traits.AllSpecies {
		placed := 0
		for ; placed < counts[s] && next < len(free); next++ {
			if len(w.pop.Occupancy().At(free[next])) > 0 {
				continue
			}
			w.spawnFounder(s, free[next])
			placed++
		}
		if placed < counts[s] {
			slog.Warn("not enough free land for founders",
				"species", s.String(),
				"wanted", counts[s],
				"placed", placed,
			)
		}
	}

	slog.Debug("founders placed",
		"herbivores", w.Count(traits.Herbivore),
		"carnivores", w.Count(traits.Carnivore),
		"omnivores", w.Count(traits.Omnivore),
	)
}

// spawnFounder creates an agent with a random genome from the species' founder ranges.
func (w *World) spawnFounder(s traits.Species, at components.Position) components.AgentRef {
	genome := traits.NewFounder(w.rng, s, traits.FounderConfigFor(w.cfg.Species, s))
	return w.pop.Spawn(genome, at, w.tick)
}

// SpawnAgent adds an agent with a given genome, as if it had been born this tick.
func (w *World) SpawnAgent(genome traits.Genome, at components.Position) components.AgentRef {
	ref := w.pop.Spawn(genome, at, w.tick)
	w.emit([]telemetry.Event{telemetry.NewBirthEvent(w.tick, ref, components.NoAgent)})
	return ref
}

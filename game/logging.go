package game

import (
	"log/slog"

	"github.com/pthm-cable/warren/traits"
)

// logWorldState logs population and terrain totals.
func (g *Game) logWorldState() {
	w := g.world
	c := w.Counts()
	slog.Info("world state",
		"tick", w.TickCount(),
		"season", w.Season(),
		"season_tick", w.SeasonTick(),
		"herbivores", c[traits.Herbivore],
		"carnivores", c[traits.Carnivore],
		"omnivores", c[traits.Omnivore],
		"berries", w.Berries(),
		"land", w.Grid().LandTiles(),
		"tracked", g.lifetimeTracker.Count(),
		"max_generation", g.lifetimeTracker.MaxGeneration(),
	)
}

// LogPerfStats logs the current perf window, phase by phase.
func (g *Game) LogPerfStats() {
	stats := g.perfCollector.Stats()
	slog.Info("perf summary", "tick", g.world.TickCount(), "stats", stats)
}

// Package game runs the world tick loop and wires telemetry around it.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/traits"
)

// World owns the grid, the population and the season clock, and advances them one tick at a time.
// A World is not safe for concurrent use.
type World struct {
	cfg      *config.Config
	rng      *rand.Rand
	grid     *systems.Grid
	pop      *systems.Population
	behavior *systems.Behavior
	season   *systems.Season

	tick int32

	// Optional observers
	onEvent   func(telemetry.Event)
	afterTick func()
	perf      *telemetry.PerfCollector
}

// newWorld builds an empty world over grid.
func newWorld(cfg *config.Config, grid *systems.Grid, rng *rand.Rand) *World {
	pop := systems.NewPopulation()
	return &World{
		cfg:      cfg,
		rng:      rng,
		grid:     grid,
		pop:      pop,
		behavior: systems.NewBehavior(cfg, grid, pop, rng),
		season:   systems.NewSeason(cfg.Seasons, cfg.World.SeasonLength),
	}
}

// New creates a world over grid and places the founder population on random free land.
func New(cfg *config.Config, grid *systems.Grid, rng *rand.Rand) *World {
	w := newWorld(cfg, grid, rng)
	w.spawnInitialPopulation()
	return w
}

// NewDefault generates terrain from seed and creates a world over it.
func NewDefault(cfg *config.Config, seed int64) (*World, error) {
	rng := rand.New(rand.NewSource(seed))
	grid, err := systems.GenerateTerrain(cfg.World, rng)
	if err != nil {
		return nil, err
	}
	return New(cfg, grid, rng), nil
}

// FromCodes creates a world from a numeric map. Founders are placed on the map's
// spawn markers instead of at random.
func FromCodes(cfg *config.Config, codes [][]int, seed int64) (*World, error) {
	grid, spawns, err := systems.FromCodes(codes)
	if err != nil {
		return nil, fmt.Errorf("importing map: %w", err)
	}

	w := newWorld(cfg, grid, rand.New(rand.NewSource(seed)))
	for _, s := range spawns {
		w.spawnFounder(s.Species, s.Pos)
	}
	return w, nil
}

// OnEvent registers a callback for births, deaths and kills.
func (w *World) OnEvent(fn func(telemetry.Event)) {
	w.onEvent = fn
}

// AfterTick registers a callback run at the end of every tick, after the tick counter
// has advanced. Its time is recorded as the telemetry phase.
func (w *World) AfterTick(fn func()) {
	w.afterTick = fn
}

// SetPerfCollector enables per-phase tick timing.
func (w *World) SetPerfCollector(p *telemetry.PerfCollector) {
	w.perf = p
}

func (w *World) startPhase(phase string) {
	if w.perf != nil {
		w.perf.StartPhase(phase)
	}
}

func (w *World) emit(events []telemetry.Event) {
	if w.onEvent == nil {
		return
	}
	for _, e := range events {
		w.onEvent(e)
	}
}

// Tick advances the world by one step.
//
// The season clock moves first; when a season ends the berries regrow for the new one.
// Agents then act in a fixed order (herbivores, carnivores, omnivores; ascending id),
// each seeing the effects of the agents before it. Agents born during the pass first act
// on the next tick.
func (w *World) Tick() {
	if w.perf != nil {
		w.perf.StartTick()
		defer w.perf.EndTick()
	}

	w.startPhase(systems.PhaseSeason)
	if w.season.Advance() {
		w.startPhase(systems.PhaseRegrowth)
		mods := w.season.Modifiers()
		berries := systems.Regrow(w.grid, w.rng, w.cfg.World.BerryPercent, mods.Berry)
		slog.Debug("season changed", "tick", w.tick, "season", w.season.Name(), "berries", berries)
	}
	mods := w.season.Modifiers()

	w.startPhase(systems.PhaseSnapshot)
	refs := w.pop.Refs()

	w.startPhase(systems.PhaseBehavior)
	for _, ref := range refs {
		a, ok := w.pop.Get(ref)
		if !ok {
			continue // removed earlier in this pass
		}

		// Seasonal rates apply for this step only.
		hungerRate, thirstRate := a.Needs.HungerRate, a.Needs.ThirstRate
		a.Needs.HungerRate = hungerRate * mods.Hunger
		a.Needs.ThirstRate = thirstRate * mods.Thirst

		out := w.behavior.Tick(ref, mods)

		a.Needs.HungerRate, a.Needs.ThirstRate = hungerRate, thirstRate

		w.react(ref, out)
	}

	w.tick++

	if w.afterTick != nil {
		w.startPhase(systems.PhaseTelemetry)
		w.afterTick()
	}
}

// react applies an agent outcome to the population.
func (w *World) react(ref components.AgentRef, out systems.Outcome) {
	switch out.Kind {
	case systems.Dead:
		w.startPhase(systems.PhaseCleanup)
		w.pop.Remove(ref)
		w.emit(telemetry.EventsFor(w.tick, ref, out, components.NoAgent))
		w.startPhase(systems.PhaseBehavior)

	case systems.Reproduced:
		w.startPhase(systems.PhaseSpawn)
		child := w.pop.Spawn(out.Child, out.SpawnAt, w.tick)
		w.emit(telemetry.EventsFor(w.tick, ref, out, child))
		w.startPhase(systems.PhaseBehavior)

	case systems.Missing:
		slog.Debug("agent not live at its turn", "tick", w.tick, "agent", ref)
	}
}

// Counts returns live agents per species, indexed by species.
func (w *World) Counts() [traits.SpeciesCount]int {
	return w.pop.Counts()
}

// Count returns the number of live agents of one species.
func (w *World) Count(s traits.Species) int {
	return w.pop.Count(s)
}

// Total returns the number of live agents.
func (w *World) Total() int {
	return w.pop.Total()
}

// Season returns the current season's name.
func (w *World) Season() string {
	return w.season.Name()
}

// SeasonIndex returns the current season's position in the season table.
func (w *World) SeasonIndex() int {
	return w.season.Index()
}

// SeasonTick returns the tick within the current season.
func (w *World) SeasonTick() int {
	return w.season.Tick()
}

// SetSeason moves the season clock to the start of season index.
func (w *World) SetSeason(index int) {
	w.season.SetIndex(index)
}

// SetSeasonTick moves the season clock within the current season.
func (w *World) SetSeasonTick(tick int) {
	w.season.SetTick(tick)
}

// TickCount returns the number of completed ticks.
func (w *World) TickCount() int32 {
	return w.tick
}

// Agents returns every live agent's species and position in tick order.
func (w *World) Agents() []systems.AgentView {
	return w.pop.Views()
}

// Grid returns the world's grid. Callers must not modify it.
func (w *World) Grid() *systems.Grid {
	return w.grid
}

// Berries returns the number of berry tiles.
func (w *World) Berries() int {
	return w.grid.Count(systems.Berry)
}

// Genomes returns the genomes of live agents grouped by species.
func (w *World) Genomes() [traits.SpeciesCount][]traits.Genome {
	var out [traits.SpeciesCount][]traits.Genome
	for _, ref := range w.pop.Refs() {
		a := w.pop.MustGet(ref)
		out[ref.Species] = append(out[ref.Species], a.Org.Genome)
	}
	return out
}

// Config returns the configuration the world was built with.
func (w *World) Config() *config.Config {
	return w.cfg
}

// Population returns the agent store.
func (w *World) Population() *systems.Population {
	return w.pop
}

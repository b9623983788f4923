package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/stream"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/traits"
)

// Game runs a World headlessly and feeds telemetry from its events.
type Game struct {
	world *World
	seed  int64

	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	hub              *stream.Hub

	logStats      bool
	snapshots     bool
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions builds a world and its telemetry pipeline.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	var (
		w   *World
		err error
	)
	if opts.Codes != nil {
		w, err = FromCodes(cfg, opts.Codes, opts.Seed)
	} else {
		w, err = NewDefault(cfg, opts.Seed)
	}
	if err != nil {
		return nil, err
	}

	window := opts.StatsWindow
	if window <= 0 {
		window = int32(cfg.Telemetry.StatsWindow)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	g := &Game{
		world:            w,
		seed:             opts.Seed,
		collector:        telemetry.NewCollector(window),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:    om,
		logStats:         opts.LogStats,
		snapshots:        opts.Snapshots && om != nil,
		statsCallback:    opts.StatsCallback,
	}

	// Founders are generation 0 and do not count as births.
	for _, a := range w.Agents() {
		g.lifetimeTracker.Register(a.Ref, 0, components.NoAgent)
	}

	w.OnEvent(g.handleEvent)
	w.AfterTick(func() {
		g.publish()
		g.flushTelemetry()
	})
	w.SetPerfCollector(g.perfCollector)

	g.logWorldState()
	return g, nil
}

// SetHub attaches a population feed. Samples are published after every tick.
func (g *Game) SetHub(h *stream.Hub) {
	g.hub = h
}

// World returns the simulated world.
func (g *Game) World() *World {
	return g.world
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.world.TickCount()
}

// Lifetimes returns the per-agent lifetime tracker.
func (g *Game) Lifetimes() *telemetry.LifetimeTracker {
	return g.lifetimeTracker
}

func (g *Game) handleEvent(e telemetry.Event) {
	g.collector.Record(e)
	g.lifetimeTracker.Record(e)
}

// Step advances the world one tick and flushes telemetry when a window closes.
func (g *Game) Step() {
	g.world.Tick()
}

// Run steps until maxTicks ticks have completed (0 = unlimited), every agent is dead,
// or ctx is cancelled.
func (g *Game) Run(ctx context.Context, maxTicks int32) error {
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation interrupted", "tick", g.Tick())
			return err
		}
		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return nil
		}
		if g.world.Total() == 0 {
			slog.Info("all agents dead", "tick", g.Tick())
			return nil
		}
		g.Step()
	}
}

func (g *Game) publish() {
	if g.hub == nil {
		return
	}
	c := g.world.Counts()
	g.hub.Publish(stream.Sample{
		Tick:       g.world.TickCount(),
		Season:     g.world.Season(),
		Herbivores: c[traits.Herbivore],
		Carnivores: c[traits.Carnivore],
		Omnivores:  c[traits.Omnivore],
		Berries:    g.world.Berries(),
	})
}

// Close flushes and closes output files.
func (g *Game) Close() error {
	g.logWorldState()
	return g.outputManager.Close()
}

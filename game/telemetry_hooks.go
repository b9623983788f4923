package game

import (
	"log/slog"

	"github.com/pthm-cable/warren/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.world.TickCount()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(telemetry.Sample{
		Tick:    tick,
		Season:  g.world.Season(),
		Counts:  g.world.Counts(),
		Berries: g.world.Berries(),
		Genomes: g.world.Genomes(),
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshots {
			g.saveSnapshot(&bm)
		}
	}

	g.pruneLifetimes()
}

// pruneLifetimes drops lifetime records of dead agents, logging the notable ones.
func (g *Game) pruneLifetimes() {
	for _, ref := range g.lifetimeTracker.Dead() {
		ls := g.lifetimeTracker.Remove(ref)
		if ls.Children > 0 || ls.Kills > 0 {
			slog.Debug("lineage ended",
				"agent", ref,
				"generation", ls.Generation,
				"children", ls.Children,
				"kills", ls.Kills,
				"lifespan", ls.Lifespan(ls.DeathTick),
				"cause", ls.Cause.String(),
			)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := g.outputManager.WriteSnapshot(g.createSnapshot(bookmark))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.world.TickCount())
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	w := g.world
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Seed:     g.seed,
		MapSize:  w.Grid().Size(),
		Tick:     w.TickCount(),
		Season:   w.Season(),
		Berries:  w.Berries(),
		Map:      w.Grid().Codes(),
		Bookmark: bookmark,
	}

	pop := w.Population()
	for _, ref := range pop.Refs() {
		a := pop.MustGet(ref)
		snapshot.Agents = append(snapshot.Agents, telemetry.AgentState{
			Species:  ref.Species,
			ID:       ref.ID,
			X:        a.Pos.X,
			Y:        a.Pos.Y,
			Age:      a.Org.Age,
			Hunger:   a.Needs.Hunger,
			Thirst:   a.Needs.Thirst,
			Genome:   a.Org.Genome,
			Lifetime: g.lifetimeTracker.Get(ref).ToJSON(),
		})
	}

	return snapshot
}

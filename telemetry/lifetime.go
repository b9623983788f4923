package telemetry

import (
	"sort"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
)

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	DeathTick  int32
	Parent     components.AgentRef // zero for founders
	Generation int

	Children int
	Kills    int
	Cause    systems.DeathCause
}

// Lifespan returns ticks lived, up to now for a live agent.
func (ls *LifetimeStats) Lifespan(now int32) int32 {
	end := now
	if ls.DeathTick > 0 {
		end = ls.DeathTick
	}
	return end - ls.BirthTick
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[components.AgentRef]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[components.AgentRef]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new agent.
// A child is one generation past its parent; founders are generation 0.
func (lt *LifetimeTracker) Register(ref components.AgentRef, birthTick int32, parent components.AgentRef) {
	gen := 0
	if p := lt.stats[parent]; p != nil {
		gen = p.Generation + 1
	}
	lt.stats[ref] = &LifetimeStats{
		BirthTick:  birthTick,
		Parent:     parent,
		Generation: gen,
	}
}

// Record applies one event. Deaths are left in place until Remove.
func (lt *LifetimeTracker) Record(e Event) {
	switch e.Type {
	case EventBirth:
		lt.Register(e.Ref, e.Tick, e.Other)
		if p := lt.stats[e.Other]; p != nil {
			p.Children++
		}
	case EventKill:
		if s := lt.stats[e.Ref]; s != nil {
			s.Kills++
		}
	case EventDeath:
		if s := lt.stats[e.Ref]; s != nil {
			s.DeathTick = e.Tick
			s.Cause = e.Cause
		}
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(ref components.AgentRef) *LifetimeStats {
	return lt.stats[ref]
}

// Remove removes an agent's stats and returns them (for logging).
func (lt *LifetimeTracker) Remove(ref components.AgentRef) *LifetimeStats {
	stats := lt.stats[ref]
	delete(lt.stats, ref)
	return stats
}

// Dead returns the refs of tracked agents that have died, in species then id order.
func (lt *LifetimeTracker) Dead() []components.AgentRef {
	var refs []components.AgentRef
	for ref, s := range lt.stats {
		if s.Cause != systems.CauseNone {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Species != refs[j].Species {
			return refs[i].Species < refs[j].Species
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// MaxGeneration returns the deepest generation among tracked agents.
func (lt *LifetimeTracker) MaxGeneration() int {
	max := 0
	for _, s := range lt.stats {
		if s.Generation > max {
			max = s.Generation
		}
	}
	return max
}

// Package telemetry provides population tracking, bookmarking, and CSV output.
package telemetry

import (
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventKill
)

// Event represents a single telemetry event.
type Event struct {
	Type EventType
	Tick int32
	Ref  components.AgentRef

	// Optional fields depending on event type
	Other components.AgentRef // parent for births, prey for kills
	Cause systems.DeathCause  // deaths only
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int32, child, parent components.AgentRef) Event {
	return Event{Type: EventBirth, Tick: tick, Ref: child, Other: parent}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, ref components.AgentRef, cause systems.DeathCause) Event {
	return Event{Type: EventDeath, Tick: tick, Ref: ref, Cause: cause}
}

// NewKillEvent creates a kill event credited to the hunter.
func NewKillEvent(tick int32, hunter, prey components.AgentRef) Event {
	return Event{Type: EventKill, Tick: tick, Ref: hunter, Other: prey}
}

// EventsFor translates one agent outcome into telemetry events.
func EventsFor(tick int32, ref components.AgentRef, out systems.Outcome, child components.AgentRef) []Event {
	switch out.Kind {
	case systems.Dead:
		events := []Event{NewDeathEvent(tick, ref, out.Cause)}
		if out.Cause == systems.Eaten && out.Killer.Valid() {
			events = append(events, NewKillEvent(tick, out.Killer, ref))
		}
		return events
	case systems.Reproduced:
		if child.Valid() {
			return []Event{NewBirthEvent(tick, child, ref)}
		}
	}
	return nil
}

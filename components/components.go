// Package components defines ECS components for the simulation.
package components

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/warren/traits"
)

// AgentRef names an agent by species and per-species id.
// Refs are resolved through the population at use time; the zero value is "none".
type AgentRef struct {
	Species traits.Species
	ID      uint32
}

// NoAgent is the empty reference.
var NoAgent = AgentRef{}

// Valid reports whether the ref names an agent. Ids start at 1.
func (r AgentRef) Valid() bool {
	return r.ID != 0
}

// String returns a compact "species#id" form.
func (r AgentRef) String() string {
	if !r.Valid() {
		return "none"
	}
	return fmt.Sprintf("%s#%d", r.Species, r.ID)
}

// LogValue implements slog.LogValuer for structured logging.
func (r AgentRef) LogValue() slog.Value {
	return slog.StringValue(r.String())
}

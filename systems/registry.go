package systems

// Tick phase identifiers, shared by the world loop and the perf tracker.
const (
	PhaseSeason    = "season"
	PhaseRegrowth  = "regrowth"
	PhaseSnapshot  = "snapshot"
	PhaseBehavior  = "behavior"
	PhaseSpawn     = "spawn"
	PhaseCleanup   = "cleanup"
	PhaseTelemetry = "telemetry"
)

// SystemInfo describes one phase of the world tick.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this phase does
	Category    string // Grouping (e.g., "environment", "agents")
}

// SystemRegistry holds metadata about all tick phases.
// This centralizes phase naming so logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known phases in tick order.
// Update this when adding new phases.
func (r *SystemRegistry) registerDefaults() {
	// Environment
	r.Register(SystemInfo{ID: PhaseSeason, Name: "Season", Description: "Advances the season clock", Category: "environment"})
	r.Register(SystemInfo{ID: PhaseRegrowth, Name: "Regrowth", Description: "Reseeds berries when a season ends", Category: "environment"})

	// Agents
	r.Register(SystemInfo{ID: PhaseSnapshot, Name: "Snapshot", Description: "Orders live agents for the pass", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseBehavior, Name: "Behavior", Description: "Runs each agent's state machine", Category: "agents"})
	r.Register(SystemInfo{ID: PhaseSpawn, Name: "Spawn", Description: "Adds newborns from reproduction", Category: "lifecycle"})
	r.Register(SystemInfo{ID: PhaseCleanup, Name: "Cleanup", Description: "Removes dead agents", Category: "lifecycle"})

	// Data collection (internal)
	r.Register(SystemInfo{ID: PhaseTelemetry, Name: "Telemetry", Description: "Flushes window stats and bookmarks", Category: "internal"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered phases.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// ByCategory returns phases filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}

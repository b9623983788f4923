package game

import "github.com/pthm-cable/warren/telemetry"

// Options holds run settings that are not part of the simulation config.
type Options struct {
	Seed        int64
	LogStats    bool  // Log window and perf stats via slog
	StatsWindow int32 // Ticks per stats window (0 = use config)
	OutputDir   string
	Snapshots   bool // Save a snapshot into OutputDir for each bookmark

	// Codes is an optional numeric map; nil generates terrain from Seed.
	Codes [][]int

	// StatsCallback is called with every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

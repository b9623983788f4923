package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.World.MapSize != 50 || cfg.World.BerryPercent != 0.04 {
		t.Errorf("world = %+v", cfg.World)
	}
	if len(cfg.Seasons) != 4 {
		t.Fatalf("seasons = %d, want 4", len(cfg.Seasons))
	}
	if cfg.Telemetry.StatsWindow != 100 || cfg.Stream.Path != "/ws" {
		t.Errorf("telemetry %+v stream %+v", cfg.Telemetry, cfg.Stream)
	}
	for i, s := range cfg.Seasons {
		got, err := cfg.SeasonByName(s.Name)
		if err != nil || got != i {
			t.Errorf("SeasonByName(%q) = %d, %v; want %d", s.Name, got, err, i)
		}
	}
	if _, err := cfg.SeasonByName("Monsoon"); err == nil {
		t.Error("SeasonByName accepted an unknown season")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "world:\n  map_size: 20\nmutation:\n  odds: 5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.MapSize != 20 || cfg.Mutation.Odds != 5 {
		t.Errorf("overrides not applied: map_size %d odds %d", cfg.World.MapSize, cfg.Mutation.Odds)
	}
	// Untouched keys keep their defaults.
	if cfg.World.SeasonLength != 100 || cfg.Needs.HungerCap != 1000 {
		t.Errorf("defaults lost: season_length %d hunger_cap %v", cfg.World.SeasonLength, cfg.Needs.HungerCap)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "reading config file"},
		{"bad yaml", write("bad.yaml", "world: [\n"), "parsing config file"},
		{"zero map", write("zero.yaml", "world:\n  map_size: 0\n"), "map_size"},
		{"zero breeding", write("breed.yaml", "seasons:\n  - name: Only\n    hunger: 1\n    thirst: 1\n    breeding: 0\n    berry: 1\n"), "breeding"},
		{"no mutation odds", write("odds.yaml", "mutation:\n  odds: 0\n"), "mutation.odds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestStatsWindowDefaultsToSeasonLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("world:\n  season_length: 40\ntelemetry:\n  stats_window: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telemetry.StatsWindow != 40 {
		t.Errorf("stats_window = %d, want 40", cfg.Telemetry.StatsWindow)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.BerryPercent = 0.07
	cfg.Seasons[2].Thirst = 2.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.World.BerryPercent != 0.07 || back.Seasons[2].Thirst != 2.5 {
		t.Errorf("round trip lost values: %+v %+v", back.World, back.Seasons[2])
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg before Init did not panic")
		}
	}()
	Cfg()
}

func TestMustInit(t *testing.T) {
	saved := global
	defer func() { global = saved }()

	MustInit("")
	if Cfg().World.MapSize != 50 {
		t.Errorf("MustInit(\"\") map_size = %d", Cfg().World.MapSize)
	}
}

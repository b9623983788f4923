// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Needs      NeedsConfig      `yaml:"needs"`
	Mating     MatingConfig     `yaml:"mating"`
	Search     SearchConfig     `yaml:"search"`
	Movement   MovementConfig   `yaml:"movement"`
	Omnivore   OmnivoreConfig   `yaml:"omnivore"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Seasons    []SeasonConfig   `yaml:"seasons"`
	Species    SpeciesTable     `yaml:"species"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds grid and season clock settings.
type WorldConfig struct {
	MapSize        int     `yaml:"map_size"`        // Tiles per side of the square grid
	BerryPercent   float64 `yaml:"berry_percent"`   // Fraction of land tiles carrying berries
	SeasonLength   int     `yaml:"season_length"`   // Ticks per season
	MinLandRatio   float64 `yaml:"min_land_ratio"`  // Generator retries until this much of the map is land
	NoiseOctaves   int     `yaml:"noise_octaves"`   // FBM octaves for the default generator
	LandNoiseLow   float64 `yaml:"land_noise_low"`  // Noise band (exclusive) classified as land
	LandNoiseHigh  float64 `yaml:"land_noise_high"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"` // Scales raw simplex output before banding
	MaxAttempts    int     `yaml:"max_attempts"`    // Generator gives up after this many maps
}

// PopulationConfig holds founder population sizes as fractions of land tiles.
type PopulationConfig struct {
	HerbivorePercent float64 `yaml:"herbivore_percent"`
	CarnivorePercent float64 `yaml:"carnivore_percent"`
	OmnivorePercent  float64 `yaml:"omnivore_percent"`
}

// NeedsConfig holds hunger/thirst thresholds and meal effects.
type NeedsConfig struct {
	HungerCap       float64 `yaml:"hunger_cap"`       // Death at or above
	ThirstCap       float64 `yaml:"thirst_cap"`       // Death at or above
	HungerThreshold float64 `yaml:"hunger_threshold"` // Start looking for food above
	ThirstThreshold float64 `yaml:"thirst_threshold"` // Start looking for water above
	MealBase        float64 `yaml:"meal_base"`        // Meal relief = base * (offset - rate)
	MealOffset      float64 `yaml:"meal_offset"`
	SatiationTicks  int     `yaml:"satiation_ticks"` // Ticks of rest after eating, drinking or mating
	RestRecovery    float64 `yaml:"rest_recovery"`   // Hunger relief when a predator rests
}

// MatingConfig holds reproduction gating parameters.
type MatingConfig struct {
	MinAge        int     `yaml:"min_age"`        // Must be strictly older to look for a mate
	CooldownLimit float64 `yaml:"cooldown_limit"` // Cooldown clears once it reaches this
}

// SearchConfig holds expanding-window iteration caps.
type SearchConfig struct {
	PreyRings  int `yaml:"prey_rings"`
	BerryRings int `yaml:"berry_rings"`
	WaterRings int `yaml:"water_rings"`
	MateRings  int `yaml:"mate_rings"`
}

// MovementConfig holds pursuit re-path parameters.
type MovementConfig struct {
	RepathMinLength int `yaml:"repath_min_length"` // Only paths longer than this are re-targeted
}

// OmnivoreConfig holds omnivore diet switching parameters.
type OmnivoreConfig struct {
	HuntHunger      float64 `yaml:"hunt_hunger"`      // Hunt only when hungrier than this
	BerryPreference int     `yaml:"berry_preference"` // Berry searches preferred after a hunt
	HuntCooldown    int     `yaml:"hunt_cooldown"`    // Ticks before hunting again
}

// MutationConfig holds genome mutation parameters.
type MutationConfig struct {
	Odds    int     `yaml:"odds"`    // One mutation pass in this many births
	Divisor float64 `yaml:"divisor"` // Delta = uniform(d, r) / divisor
}

// SeasonConfig holds the multiplier row for one season.
type SeasonConfig struct {
	Name     string  `yaml:"name"`
	Hunger   float64 `yaml:"hunger"`
	Thirst   float64 `yaml:"thirst"`
	Breeding float64 `yaml:"breeding"`
	Berry    float64 `yaml:"berry"`
}

// SpeciesTable holds founder genome ranges per species.
type SpeciesTable struct {
	Herbivore FounderConfig `yaml:"herbivore"`
	Carnivore FounderConfig `yaml:"carnivore"`
	Omnivore  FounderConfig `yaml:"omnivore"`
}

// FounderConfig holds uniform sampling ranges for a founder genome.
type FounderConfig struct {
	MaxAge     [2]int     `yaml:"max_age"`
	HungerRate [2]float64 `yaml:"hunger_rate"`
	ThirstRate [2]float64 `yaml:"thirst_rate"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// StreamConfig holds the population feed settings.
type StreamConfig struct {
	Path       string `yaml:"path"`
	BufferSize int    `yaml:"buffer_size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SeasonIndex map[string]int // season name -> index
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Default returns a fresh copy of the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.World.MapSize < 1 {
		return fmt.Errorf("world.map_size must be positive, got %d", c.World.MapSize)
	}
	if c.World.SeasonLength < 1 {
		return fmt.Errorf("world.season_length must be positive, got %d", c.World.SeasonLength)
	}
	if len(c.Seasons) == 0 {
		return fmt.Errorf("at least one season is required")
	}
	for _, s := range c.Seasons {
		if s.Breeding <= 0 || s.Hunger <= 0 || s.Thirst <= 0 {
			return fmt.Errorf("season %q: hunger, thirst and breeding multipliers must be positive", s.Name)
		}
	}
	if c.Mutation.Odds < 1 {
		return fmt.Errorf("mutation.odds must be at least 1, got %d", c.Mutation.Odds)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.SeasonIndex = make(map[string]int, len(c.Seasons))
	for i, s := range c.Seasons {
		c.Derived.SeasonIndex[s.Name] = i
	}

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = c.World.SeasonLength
	}
	if c.Stream.Path == "" {
		c.Stream.Path = "/ws"
	}
}

// SeasonByName returns the index of a season in the season table.
func (c *Config) SeasonByName(name string) (int, error) {
	i, ok := c.Derived.SeasonIndex[name]
	if !ok {
		return 0, fmt.Errorf("unknown season %q", name)
	}
	return i, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/traits"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32  `csv:"-"`
	WindowEndTick   int32  `csv:"window_end"`
	Season          string `csv:"season"`

	// Population counts at window end
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`
	Omnivores  int `csv:"omnivores"`
	Berries    int `csv:"berries"`

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	CarnivoreBirths int `csv:"carnivore_births"`
	OmnivoreBirths  int `csv:"omnivore_births"`
	HerbivoreDeaths int `csv:"herbivore_deaths"`
	CarnivoreDeaths int `csv:"carnivore_deaths"`
	OmnivoreDeaths  int `csv:"omnivore_deaths"`

	// Deaths by cause, all species
	Starved    int `csv:"starved"`
	Dehydrated int `csv:"dehydrated"`
	OldAge     int `csv:"old_age"`
	Eaten      int `csv:"eaten"`

	// Hunting
	CarnivoreKills int `csv:"carnivore_kills"`
	OmnivoreKills  int `csv:"omnivore_kills"`

	// Expressed genome traits (sampled at window end)
	HerbivoreMaxAge     float64 `csv:"herbivore_max_age"`
	HerbivoreHungerRate float64 `csv:"herbivore_hunger_rate"`
	HerbivoreThirstRate float64 `csv:"herbivore_thirst_rate"`
	CarnivoreMaxAge     float64 `csv:"carnivore_max_age"`
	CarnivoreHungerRate float64 `csv:"carnivore_hunger_rate"`
	CarnivoreThirstRate float64 `csv:"carnivore_thirst_rate"`
	OmnivoreMaxAge      float64 `csv:"omnivore_max_age"`
	OmnivoreHungerRate  float64 `csv:"omnivore_hunger_rate"`
	OmnivoreThirstRate  float64 `csv:"omnivore_thirst_rate"`

	// Herbivore hunger rate spread, the trait under the most selection pressure
	HerbivoreHungerStd float64 `csv:"herbivore_hunger_std"`
	HerbivoreHungerP10 float64 `csv:"herbivore_hunger_p10"`
	HerbivoreHungerP90 float64 `csv:"herbivore_hunger_p90"`
}

// Count returns the population count at window end for a species.
func (s WindowStats) Count(sp traits.Species) int {
	switch sp {
	case traits.Herbivore:
		return s.Herbivores
	case traits.Carnivore:
		return s.Carnivores
	case traits.Omnivore:
		return s.Omnivores
	default:
		sp.MustValid()
		return 0
	}
}

// Total returns the number of live agents at window end.
func (s WindowStats) Total() int {
	return s.Herbivores + s.Carnivores + s.Omnivores
}

// Distribution summarizes a sample of one trait.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, sample standard deviation and percentiles.
// An empty sample yields zeros; a single value has zero spread.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n > 1 {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	} else {
		d.Mean = sorted[0]
	}
	d.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	return d
}

// TraitSummary holds the expressed trait distributions for one species.
type TraitSummary struct {
	MaxAge     Distribution
	HungerRate Distribution
	ThirstRate Distribution
}

// SummarizeGenomes computes trait distributions from expressed (dominant) alleles.
func SummarizeGenomes(genomes []traits.Genome) TraitSummary {
	maxAge := make([]float64, len(genomes))
	hunger := make([]float64, len(genomes))
	thirst := make([]float64, len(genomes))
	for i, g := range genomes {
		maxAge[i] = g.MaxAge.Dominant
		hunger[i] = g.HungerRate.Dominant
		thirst[i] = g.ThirstRate.Dominant
	}
	return TraitSummary{
		MaxAge:     Summarize(maxAge),
		HungerRate: Summarize(hunger),
		ThirstRate: Summarize(thirst),
	}
}

// setTraits copies per-species trait means into the flat CSV fields.
func (s *WindowStats) setTraits(sums [traits.SpeciesCount]TraitSummary) {
	h, c, o := sums[traits.Herbivore], sums[traits.Carnivore], sums[traits.Omnivore]

	s.HerbivoreMaxAge = h.MaxAge.Mean
	s.HerbivoreHungerRate = h.HungerRate.Mean
	s.HerbivoreThirstRate = h.ThirstRate.Mean
	s.CarnivoreMaxAge = c.MaxAge.Mean
	s.CarnivoreHungerRate = c.HungerRate.Mean
	s.CarnivoreThirstRate = c.ThirstRate.Mean
	s.OmnivoreMaxAge = o.MaxAge.Mean
	s.OmnivoreHungerRate = o.HungerRate.Mean
	s.OmnivoreThirstRate = o.ThirstRate.Mean

	s.HerbivoreHungerStd = h.HungerRate.Std
	s.HerbivoreHungerP10 = h.HungerRate.P10
	s.HerbivoreHungerP90 = h.HungerRate.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.String("season", s.Season),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("omnivores", s.Omnivores),
		slog.Int("berries", s.Berries),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("carnivore_births", s.CarnivoreBirths),
		slog.Int("omnivore_births", s.OmnivoreBirths),
		slog.Int("herbivore_deaths", s.HerbivoreDeaths),
		slog.Int("carnivore_deaths", s.CarnivoreDeaths),
		slog.Int("omnivore_deaths", s.OmnivoreDeaths),
		slog.Int("starved", s.Starved),
		slog.Int("dehydrated", s.Dehydrated),
		slog.Int("old_age", s.OldAge),
		slog.Int("eaten", s.Eaten),
		slog.Int("carnivore_kills", s.CarnivoreKills),
		slog.Int("omnivore_kills", s.OmnivoreKills),
		slog.Float64("herbivore_hunger_rate", s.HerbivoreHungerRate),
		slog.Float64("carnivore_hunger_rate", s.CarnivoreHungerRate),
		slog.Float64("omnivore_hunger_rate", s.OmnivoreHungerRate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"season", s.Season,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"omnivores", s.Omnivores,
		"berries", s.Berries,
		"births", s.HerbivoreBirths+s.CarnivoreBirths+s.OmnivoreBirths,
		"deaths", s.HerbivoreDeaths+s.CarnivoreDeaths+s.OmnivoreDeaths,
		"starved", s.Starved,
		"dehydrated", s.Dehydrated,
		"old_age", s.OldAge,
		"eaten", s.Eaten,
		"herbivore_max_age", s.HerbivoreMaxAge,
		"herbivore_hunger_rate", s.HerbivoreHungerRate,
		"carnivore_hunger_rate", s.CarnivoreHungerRate,
		"omnivore_hunger_rate", s.OmnivoreHungerRate,
	)
}

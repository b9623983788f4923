package main

import (
	"math"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/traits"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int32

	mu           sync.Mutex
	lastQuality  float64 // quality from most recent Evaluate call
	lastSurvival float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: int32(baseCfg.World.SeasonLength),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvival returns the mean survival ticks from the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvival
}

// Minimum viable population: if herbivores or carnivores stay below this for
// extinctionGraceTicks consecutive ticks, the run counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 200
	warmupTicks          = 100
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	survival float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Seeds run in parallel; each owns its World.
	results := make([]seedResult, len(fe.seeds))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, seed := range fe.seeds {
		g.Go(func() error {
			result, err := fe.runSimulation(cfg, seed)
			if err != nil {
				return err
			}
			quality := computeQuality(result.windowStats)
			results[i] = seedResult{
				fitness:  computeFitness(result.survivalTicks, quality),
				quality:  quality,
				survival: float64(result.survivalTicks),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Terrain generation failed for these parameters; rank them last.
		return 0
	}

	var totalFitness, totalQuality, totalSurvival float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalSurvival += r.survival
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvival = totalSurvival / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (*runResult, error) {
	result := &runResult{}

	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:        seed,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	var below [2]int32 // consecutive ticks under minViablePop: herbivores, carnivores
	for g.Tick() < fe.maxTicks {
		g.Step()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		counts := g.World().Counts()
		for i, s := range []traits.Species{traits.Herbivore, traits.Carnivore} {
			n := counts[s]
			// Hard extinction: either side of the food chain completely gone
			if n == 0 {
				result.survivalTicks = tick
				return result, nil
			}
			if n < minViablePop {
				below[i]++
			} else {
				below[i] = 0
			}
			if below[i] >= extinctionGraceTicks {
				result.survivalTicks = tick
				return result, nil
			}
		}
	}

	// Survived the full run
	result.survivalTicks = fe.maxTicks
	return result, nil
}

// copyConfig returns a copy of the base config that can be modified independently.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Seasons = slices.Clone(fe.baseConfig.Seasons)
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio       = 0.35
	qualityWeightStability   = 0.35
	qualityWeightCoexistence = 0.30

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where herbivores or carnivores < this
	qualityTargetRatio   = 2.5
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum float64
	var coexisting int
	herbivores := make([]float64, 0, len(valid))
	carnivores := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Herbivores < qualityMinPop || w.Carnivores < qualityMinPop {
			continue
		}
		herbivores = append(herbivores, float64(w.Herbivores))
		carnivores = append(carnivores, float64(w.Carnivores))

		// Log-gaussian around the target prey:predator ratio
		logErr := math.Log(float64(w.Herbivores) / float64(w.Carnivores) / qualityTargetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		if w.Omnivores > 0 {
			coexisting++
		}
	}

	if len(herbivores) == 0 {
		return 0
	}
	n := float64(len(herbivores))

	stability := 0.0
	if len(herbivores) >= 2 {
		cvH, cvC := cv(herbivores), cv(carnivores)
		stability = math.Exp(-(cvH*cvH + cvC*cvC))
	}

	quality := qualityWeightRatio*ratioSum/n +
		qualityWeightStability*stability +
		qualityWeightCoexistence*float64(coexisting)/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/telemetry"
)

func TestParamVectorDefaultsMatchConfig(t *testing.T) {
	cfg := config.Default()
	pv := NewParamVector(cfg)

	if want := 6 + 4*len(cfg.Seasons); pv.Dim() != want {
		t.Fatalf("Dim = %d, want %d", pv.Dim(), want)
	}

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: extracted %v, default %v", spec.Name, got[i], spec.Default)
		}
	}
}

func TestParamVectorNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector(config.Default())
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	base := config.Default()
	pv := NewParamVector(base)

	values := pv.DefaultVector()
	values[0] = 10 // berry_percent far above Max

	cfg := config.Default()
	pv.ApplyToConfig(cfg, values)

	if cfg.World.BerryPercent != pv.Specs[0].Max {
		t.Errorf("berry_percent = %v, want clamped to %v", cfg.World.BerryPercent, pv.Specs[0].Max)
	}
	if cfg.Seasons[1].Berry != base.Seasons[1].Berry {
		t.Errorf("spring berry = %v, want unchanged %v", cfg.Seasons[1].Berry, base.Seasons[1].Berry)
	}
}

func TestCopyConfigIsolatesSeasons(t *testing.T) {
	base := config.Default()
	fe := NewFitnessEvaluator(NewParamVector(base), 10, []int64{1}, base)

	cfg := fe.copyConfig()
	cfg.Seasons[0].Berry = 99
	if base.Seasons[0].Berry == 99 {
		t.Error("copyConfig shares the season table with the base config")
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 6)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Herbivores: 50, Carnivores: 20, Omnivores: 5}
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"too few windows", steady[:2], 0},
		// Ratio 2.5 exactly, zero variance, omnivores present.
		{"ideal steady state", steady, 1},
		{"predators gone", []telemetry.WindowStats{{}, {}, {Herbivores: 40}, {Herbivores: 40}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeQuality = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitnessPrefersSurvival(t *testing.T) {
	long := computeFitness(1000, 0)
	short := computeFitness(500, 1)
	if long >= short {
		t.Errorf("fitness(1000 ticks, q=0) = %v should beat fitness(500 ticks, q=1) = %v", long, short)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	base := config.Default()
	pv := NewParamVector(base)
	fe := NewFitnessEvaluator(pv, 50, []int64{1, 2}, base)

	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness > 0 {
		t.Errorf("fitness = %v, want <= 0", fitness)
	}
	if s := fe.LastSurvival(); s <= 0 || s > 50 {
		t.Errorf("mean survival = %v, want in (0, 50]", s)
	}
}

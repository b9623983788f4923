// Package main provides CMA-ES optimization for warren ecosystem parameters.
package main

import (
	"fmt"

	"github.com/pthm-cable/warren/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// seasonParam builds a spec for one multiplier column of one season row.
func seasonParam(index int, column string, min, max float64, base *config.Config) ParamSpec {
	field := func(cfg *config.Config) *float64 {
		row := &cfg.Seasons[index]
		switch column {
		case "hunger":
			return &row.Hunger
		case "thirst":
			return &row.Thirst
		case "breeding":
			return &row.Breeding
		case "berry":
			return &row.Berry
		}
		panic(fmt.Sprintf("unknown season column %q", column))
	}
	name := base.Seasons[index].Name
	return ParamSpec{
		Name:    fmt.Sprintf("%s_%s", name, column),
		Path:    fmt.Sprintf("seasons[%d].%s", index, column),
		Min:     min,
		Max:     max,
		Default: *field(base),
		get:     func(cfg *config.Config) float64 { return *field(cfg) },
		set:     func(cfg *config.Config, v float64) { *field(cfg) = v },
	}
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults are taken from base, so a tuned config can be refined further.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// World
			{
				Name: "berry_percent", Path: "world.berry_percent", Min: 0.01, Max: 0.15,
				get: func(c *config.Config) float64 { return c.World.BerryPercent },
				set: func(c *config.Config, v float64) { c.World.BerryPercent = v },
			},
			// Founders
			{
				Name: "herbivore_percent", Path: "population.herbivore_percent", Min: 0.01, Max: 0.10,
				get: func(c *config.Config) float64 { return c.Population.HerbivorePercent },
				set: func(c *config.Config, v float64) { c.Population.HerbivorePercent = v },
			},
			{
				Name: "carnivore_percent", Path: "population.carnivore_percent", Min: 0.005, Max: 0.05,
				get: func(c *config.Config) float64 { return c.Population.CarnivorePercent },
				set: func(c *config.Config, v float64) { c.Population.CarnivorePercent = v },
			},
			{
				Name: "omnivore_percent", Path: "population.omnivore_percent", Min: 0.0, Max: 0.03,
				get: func(c *config.Config) float64 { return c.Population.OmnivorePercent },
				set: func(c *config.Config, v float64) { c.Population.OmnivorePercent = v },
			},
			// Omnivore diet
			{
				Name: "omnivore_hunt_hunger", Path: "omnivore.hunt_hunger", Min: 350, Max: 900,
				get: func(c *config.Config) float64 { return c.Omnivore.HuntHunger },
				set: func(c *config.Config, v float64) { c.Omnivore.HuntHunger = v },
			},
			{
				Name: "omnivore_hunt_cooldown", Path: "omnivore.hunt_cooldown", Min: 10, Max: 200,
				get: func(c *config.Config) float64 { return float64(c.Omnivore.HuntCooldown) },
				set: func(c *config.Config, v float64) { c.Omnivore.HuntCooldown = int(v) },
			},
		},
	}

	// Season table: berry and breeding are free, hunger and thirst stay near 1.
	for i := range base.Seasons {
		pv.Specs = append(pv.Specs,
			seasonParam(i, "berry", 0.3, 3.0, base),
			seasonParam(i, "breeding", 0.2, 2.0, base),
			seasonParam(i, "hunger", 0.7, 1.8, base),
			seasonParam(i, "thirst", 0.7, 2.0, base),
		)
	}

	for i := range pv.Specs {
		if pv.Specs[i].get != nil && pv.Specs[i].Default == 0 {
			pv.Specs[i].Default = pv.Specs[i].get(base)
		}
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.get(cfg)
	}
	return out
}

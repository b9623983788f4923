package traits

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/warren/config"
)

func parents() (Genome, Genome) {
	a := Genome{
		Species:    Carnivore,
		MaxAge:     AllelePair{Dominant: 700, Recessive: 710},
		HungerRate: AllelePair{Dominant: 8, Recessive: 9},
		ThirstRate: AllelePair{Dominant: 10, Recessive: 11},
	}
	b := Genome{
		Species:    Herbivore,
		MaxAge:     AllelePair{Dominant: 500, Recessive: 510},
		HungerRate: AllelePair{Dominant: 5, Recessive: 6},
		ThirstRate: AllelePair{Dominant: 7, Recessive: 7.5},
	}
	return a, b
}

// TestCombineDrawsFromParents verifies every allele comes from a parent when mutation is off.
func TestCombineDrawsFromParents(t *testing.T) {
	a, b := parents()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		child := CombineWith(rng, a, b, false)
		if child.Species != b.Species {
			t.Fatalf("child species = %v, want %v", child.Species, b.Species)
		}

		pa, pb, pc := a.pairs(), b.pairs(), child.pairs()
		for j := range pc {
			allowed := map[float64]bool{
				pa[j].Dominant: true, pa[j].Recessive: true,
				pb[j].Dominant: true, pb[j].Recessive: true,
			}
			if !allowed[pc[j].Dominant] || !allowed[pc[j].Recessive] {
				t.Fatalf("pair %d = %+v, not drawn from parents", j, *pc[j])
			}
		}
	}
}

// TestCombineSourceDistribution checks the four (parent, retain/flip) outcomes are uniform.
func TestCombineSourceDistribution(t *testing.T) {
	a, b := parents()
	rng := rand.New(rand.NewSource(7))

	const trials = 8000
	counts := make(map[AllelePair]int)
	for i := 0; i < trials; i++ {
		child := CombineWith(rng, a, b, false)
		counts[child.MaxAge]++
	}

	want := []AllelePair{
		{Dominant: a.MaxAge.Dominant, Recessive: b.MaxAge.Recessive}, // a retains
		{Dominant: b.MaxAge.Recessive, Recessive: a.MaxAge.Dominant}, // a flips
		{Dominant: b.MaxAge.Dominant, Recessive: a.MaxAge.Recessive}, // b retains
		{Dominant: a.MaxAge.Recessive, Recessive: b.MaxAge.Dominant}, // b flips
	}
	if len(counts) != len(want) {
		t.Fatalf("got %d distinct outcomes, want %d: %v", len(counts), len(want), counts)
	}
	for _, w := range want {
		share := float64(counts[w]) / trials
		if math.Abs(share-0.25) > 0.03 {
			t.Errorf("outcome %+v share = %.3f, want ~0.25", w, share)
		}
	}
}

// TestCombineMutationShiftsBothAlleles verifies the shared signed delta.
func TestCombineMutationShiftsBothAlleles(t *testing.T) {
	a, b := parents()
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 200; i++ {
		child := CombineWith(rng, a, b, true)
		pc := child.pairs()
		for j, p := range pc {
			offset := p.Dominant - p.Recessive
			var found bool
			pa, pb := a.pairs(), b.pairs()
			candidates := []float64{
				pa[j].Dominant - pb[j].Recessive,
				pb[j].Recessive - pa[j].Dominant,
				pb[j].Dominant - pa[j].Recessive,
				pa[j].Recessive - pb[j].Dominant,
			}
			for _, c := range candidates {
				if math.Abs(offset-c) < 1e-9 {
					found = true
				}
			}
			if !found {
				t.Fatalf("pair %d offset %v not preserved by mutation", j, offset)
			}
		}
	}
}

func TestMutationDeltaMagnitude(t *testing.T) {
	m := Mutation{Odds: 1, Divisor: 4}
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		g := Genome{MaxAge: AllelePair{Dominant: 400, Recessive: 800}}
		m.mutate(rng, &g)
		delta := math.Abs(g.MaxAge.Dominant - 400)
		if delta < 100-0.01 || delta > 200+0.01 {
			t.Fatalf("delta = %v, want within [100, 200]", delta)
		}
		if math.Abs((g.MaxAge.Recessive-800)-(g.MaxAge.Dominant-400)) > 1e-9 {
			t.Fatalf("alleles shifted by different deltas: %+v", g.MaxAge)
		}
	}
}

func TestNewFounderRanges(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(5))

	tests := []struct {
		species Species
		fc      config.FounderConfig
	}{
		{Herbivore, cfg.Species.Herbivore},
		{Carnivore, cfg.Species.Carnivore},
		{Omnivore, cfg.Species.Omnivore},
	}

	for _, tt := range tests {
		t.Run(tt.species.String(), func(t *testing.T) {
			for i := 0; i < 100; i++ {
				g := NewFounder(rng, tt.species, tt.fc)
				if g.Species != tt.species {
					t.Fatalf("species = %v, want %v", g.Species, tt.species)
				}
				if g.MaxAge.Dominant < float64(tt.fc.MaxAge[0]) || g.MaxAge.Dominant > float64(tt.fc.MaxAge[1]) {
					t.Errorf("max age %v outside %v", g.MaxAge.Dominant, tt.fc.MaxAge)
				}
				if g.MaxAge.Dominant != math.Trunc(g.MaxAge.Dominant) {
					t.Errorf("max age %v is not whole", g.MaxAge.Dominant)
				}
				if g.HungerRate.Dominant < tt.fc.HungerRate[0] || g.HungerRate.Dominant > tt.fc.HungerRate[1] {
					t.Errorf("hunger rate %v outside %v", g.HungerRate.Dominant, tt.fc.HungerRate)
				}
				if Round2(g.ThirstRate.Recessive) != g.ThirstRate.Recessive {
					t.Errorf("thirst rate %v not rounded to 2 decimals", g.ThirstRate.Recessive)
				}
			}
		})
	}
}

func TestSpeciesMapCodes(t *testing.T) {
	for _, s := range AllSpecies {
		got, ok := SpeciesFromMapCode(s.MapCode())
		if !ok || got != s {
			t.Errorf("SpeciesFromMapCode(%d) = %v, %v; want %v", s.MapCode(), got, ok, s)
		}
	}
	if _, ok := SpeciesFromMapCode(2); ok {
		t.Error("land code should not map to a species")
	}
}

func TestCombineMutationRate(t *testing.T) {
	a, b := parents()
	rng := rand.New(rand.NewSource(11))

	const trials = 20000
	mutated := 0
	for i := 0; i < trials; i++ {
		child := Combine(rng, a, b)
		pa, pb, pc := a.pairs(), b.pairs(), child.pairs()
		for j := range pc {
			allowed := map[float64]bool{
				pa[j].Dominant: true, pa[j].Recessive: true,
				pb[j].Dominant: true, pb[j].Recessive: true,
			}
			if !allowed[pc[j].Dominant] || !allowed[pc[j].Recessive] {
				mutated++
				break
			}
		}
	}

	// Expect trials/Odds = 1000; the binomial std dev is about 31.
	want := trials / DefaultMutation.Odds
	if mutated < want-150 || mutated > want+150 {
		t.Errorf("mutated %d of %d children, want about %d", mutated, trials, want)
	}
}

func TestSpeciesRoles(t *testing.T) {
	tests := []struct {
		s                   Species
		prey, hunts, grazes bool
	}{
		{Herbivore, true, false, true},
		{Carnivore, false, true, false},
		{Omnivore, false, true, true},
	}
	for _, tt := range tests {
		if tt.s.IsPrey() != tt.prey || tt.s.Hunts() != tt.hunts || tt.s.Grazes() != tt.grazes {
			t.Errorf("%v: prey %v hunts %v grazes %v; want %v %v %v",
				tt.s, tt.s.IsPrey(), tt.s.Hunts(), tt.s.Grazes(), tt.prey, tt.hunts, tt.grazes)
		}
	}
}

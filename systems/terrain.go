package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/traits"
)

// Spawn is an initial agent placement read from a map file.
type Spawn struct {
	Species traits.Species
	Pos     components.Position
}

// GenerateTerrain builds a land/water map from fractal simplex noise and seeds berries.
// Maps are regenerated until at least MinLandRatio of the tiles are land.
func GenerateTerrain(cfg config.WorldConfig, rng *rand.Rand) (*Grid, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		grid := generateLand(cfg, rng)
		ratio := float64(grid.LandTiles()) / float64(cfg.MapSize*cfg.MapSize)
		if ratio >= cfg.MinLandRatio {
			SeedBerries(grid, rng, int(float64(grid.LandTiles())*cfg.BerryPercent))
			return grid, nil
		}
	}
	return nil, fmt.Errorf("generating terrain: no map reached %.0f%% land in %d attempts",
		cfg.MinLandRatio*100, attempts)
}

// generateLand samples one noise field and bands it into land and water.
func generateLand(cfg config.WorldConfig, rng *rand.Rand) *Grid {
	size := cfg.MapSize
	field := make([]float64, size*size)

	octaves := cfg.NoiseOctaves
	if octaves < 1 {
		octaves = 1
	}
	amp := cfg.NoiseAmplitude
	if amp == 0 {
		amp = 1
	}

	// Each octave doubles frequency and halves weight; octave 0 spans one noise unit.
	for o := 0; o < octaves; o++ {
		noise := opensimplex.New(rng.Int63())
		freq := math.Pow(2, float64(o))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				nx := float64(x) / float64(size) * freq
				ny := float64(y) / float64(size) * freq
				field[y*size+x] += noise.Eval2(nx, ny) * amp / freq
			}
		}
	}

	grid := NewGrid(size)
	for i, v := range field {
		if v > cfg.LandNoiseLow && v < cfg.LandNoiseHigh {
			grid.cells[i] = Land
		} else {
			grid.cells[i] = Water
		}
	}
	return grid
}

// SeedBerries turns n randomly chosen Land tiles into Berry tiles.
// Returns the number actually converted, which is less than n when land runs out.
func SeedBerries(grid *Grid, rng *rand.Rand, n int) int {
	land := grid.Positions(Land)
	if n > len(land) {
		n = len(land)
	}
	rng.Shuffle(len(land), func(i, j int) { land[i], land[j] = land[j], land[i] })
	for _, p := range land[:n] {
		grid.Set(p, Berry)
	}
	return n
}

// Regrow resets every Berry tile to Land, then seeds berries on
// floor(land tiles * percent * multiplier) random Land tiles.
// Returns the number of berry tiles placed.
func Regrow(grid *Grid, rng *rand.Rand, percent, multiplier float64) int {
	for i, c := range grid.cells {
		if c == Berry {
			grid.cells[i] = Land
		}
	}
	target := int(float64(grid.Count(Land)) * percent * multiplier)
	return SeedBerries(grid, rng, target)
}

// FromCodes interprets a numeric map indexed [y][x]:
// 0 berry, 2 land, 5 water, 3 herbivore, 1 carnivore, 4 omnivore.
// Spawn markers stand on Land. Any other code is an error.
func FromCodes(codes [][]int) (*Grid, []Spawn, error) {
	size := len(codes)
	if size == 0 {
		return nil, nil, fmt.Errorf("empty map")
	}

	grid := NewGrid(size)
	var spawns []Spawn
	for y, row := range codes {
		if len(row) != size {
			return nil, nil, fmt.Errorf("map row %d has %d columns, want %d", y, len(row), size)
		}
		for x, code := range row {
			p := components.Position{X: x, Y: y}
			switch code {
			case 0:
				grid.Set(p, Berry)
			case 2:
				grid.Set(p, Land)
			case 5:
				grid.Set(p, Water)
			default:
				species, ok := traits.SpeciesFromMapCode(code)
				if !ok {
					return nil, nil, fmt.Errorf("tile %v: code %d: %w", p, code, ErrUnknownCell)
				}
				grid.Set(p, Land)
				spawns = append(spawns, Spawn{Species: species, Pos: p})
			}
		}
	}
	return grid, spawns, nil
}

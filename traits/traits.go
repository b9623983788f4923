// Package traits defines species and heritable characteristics.
package traits

import "fmt"

// Species identifies which food chain role an organism plays.
type Species uint8

const (
	Herbivore Species = iota // Grazes berries, hunted by carnivores and omnivores
	Carnivore                // Hunts herbivores
	Omnivore                 // Grazes and hunts
)

// SpeciesCount is the number of species.
const SpeciesCount = 3

// AllSpecies lists every species in tick order.
var AllSpecies = [SpeciesCount]Species{Herbivore, Carnivore, Omnivore}

// String returns the display name for a species.
func (s Species) String() string {
	switch s {
	case Herbivore:
		return "herbivore"
	case Carnivore:
		return "carnivore"
	case Omnivore:
		return "omnivore"
	default:
		return fmt.Sprintf("species(%d)", uint8(s))
	}
}

// Valid reports whether s is a known species.
func (s Species) Valid() bool {
	return s < SpeciesCount
}

// MustValid panics if s is not a known species.
func (s Species) MustValid() {
	if !s.Valid() {
		panic(fmt.Sprintf("traits: unknown species tag %d", uint8(s)))
	}
}

// CommonName returns the animal the species is drawn as.
func (s Species) CommonName() string {
	switch s {
	case Herbivore:
		return "rabbit"
	case Carnivore:
		return "fox"
	case Omnivore:
		return "pig"
	default:
		return ""
	}
}

// IsPrey reports whether other species hunt s.
func (s Species) IsPrey() bool {
	return s == Herbivore
}

// Hunts reports whether s can claim and kill prey.
func (s Species) Hunts() bool {
	return s == Carnivore || s == Omnivore
}

// Grazes reports whether s eats berries.
func (s Species) Grazes() bool {
	return s == Herbivore || s == Omnivore
}

// SpeciesFromMapCode maps a numeric map spawn marker to a species.
func SpeciesFromMapCode(code int) (Species, bool) {
	switch code {
	case 3:
		return Herbivore, true
	case 1:
		return Carnivore, true
	case 4:
		return Omnivore, true
	default:
		return 0, false
	}
}

// MapCode returns the numeric map spawn marker for a species.
func (s Species) MapCode() int {
	switch s {
	case Herbivore:
		return 3
	case Carnivore:
		return 1
	case Omnivore:
		return 4
	default:
		return -1
	}
}

// GetSpeciesColor returns RGB color used by plotting clients.
func GetSpeciesColor(s Species) (r, g, b uint8) {
	switch s {
	case Herbivore:
		return 80, 150, 200 // Blue
	case Carnivore:
		return 200, 80, 80 // Red
	case Omnivore:
		return 180, 100, 180 // Purple
	default:
		return 150, 150, 150 // Gray
	}
}

package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/warren/components"
)

// Cell is the terrain kind of one tile.
type Cell uint8

const (
	Land  Cell = iota // Walkable, no food
	Berry             // Walkable, grazing food
	Water             // Impassable except as a drink target
)

// String returns the display name for a cell.
func (c Cell) String() string {
	switch c {
	case Land:
		return "land"
	case Berry:
		return "berry"
	case Water:
		return "water"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// ErrUnknownCell is returned when a map contains a code no cell kind maps to.
var ErrUnknownCell = errors.New("unknown terrain code")

// Grid is a square matrix of terrain cells. Its size never changes.
type Grid struct {
	size  int
	cells []Cell // row-major, index y*size+x
}

// NewGrid creates a grid of the given size filled with Land.
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// Size returns the number of tiles per side.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p components.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.size && p.Y < g.size
}

// Get returns the cell at p. Out-of-bounds positions read as Water.
func (g *Grid) Get(p components.Position) Cell {
	if !g.InBounds(p) {
		return Water
	}
	return g.cells[p.Y*g.size+p.X]
}

// Set replaces the cell at p. Out-of-bounds writes are ignored.
func (g *Grid) Set(p components.Position, c Cell) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.Y*g.size+p.X] = c
}

// Walkable reports whether an agent may stand on p.
func (g *Grid) Walkable(p components.Position) bool {
	return g.InBounds(p) && g.cells[p.Y*g.size+p.X] != Water
}

// Count returns how many tiles hold c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Positions returns every tile holding c in row-major order.
func (g *Grid) Positions(c Cell) []components.Position {
	var out []components.Position
	for i, v := range g.cells {
		if v == c {
			out = append(out, components.Position{X: i % g.size, Y: i / g.size})
		}
	}
	return out
}

// LandTiles returns the number of non-water tiles.
func (g *Grid) LandTiles() int {
	return len(g.cells) - g.Count(Water)
}

// Codes returns the grid in the numeric map format (0 berry, 2 land, 5 water), indexed [y][x].
func (g *Grid) Codes() [][]int {
	out := make([][]int, g.size)
	for y := range out {
		out[y] = make([]int, g.size)
		for x := range out[y] {
			out[y][x] = cellCode(g.cells[y*g.size+x])
		}
	}
	return out
}

func cellCode(c Cell) int {
	switch c {
	case Berry:
		return 0
	case Water:
		return 5
	default:
		return 2
	}
}

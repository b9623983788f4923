package systems

import (
	"cmp"
	"slices"

	"github.com/pthm-cable/warren/components"
)

// Window is an inclusive axis-aligned tile rectangle.
type Window struct {
	Min, Max components.Position
}

// grow extends every edge by one tile, clamped to [0, size-1].
func (w Window) grow(size int) Window {
	if w.Min.X > 0 {
		w.Min.X--
	}
	if w.Min.Y > 0 {
		w.Min.Y--
	}
	if w.Max.X < size-1 {
		w.Max.X++
	}
	if w.Max.Y < size-1 {
		w.Max.Y++
	}
	return w
}

func (w Window) covers(size int) bool {
	return w.Min.X == 0 && w.Min.Y == 0 && w.Max.X == size-1 && w.Max.Y == size-1
}

// Locate searches an expanding window around origin for the first tile satisfying match.
//
// The origin tile is checked first, then the window grows by one tile on each
// edge up to rings times. Each pass scans the whole window row by row (y, then x)
// and stops at the first match.
func Locate(size int, origin components.Position, rings int, match func(components.Position) bool) (components.Position, bool) {
	w := Window{Min: origin, Max: origin}
	for i := 0; ; i++ {
		for y := w.Min.Y; y <= w.Max.Y; y++ {
			for x := w.Min.X; x <= w.Max.X; x++ {
				p := components.Position{X: x, Y: y}
				if match(p) {
					return p, true
				}
			}
		}
		if i >= rings || w.covers(size) {
			return components.Position{}, false
		}
		w = w.grow(size)
	}
}

// IsDrinkable reports whether p is a Water tile with at least one non-water
// cardinal neighbour. Tiles beyond the grid edge count as water.
func IsDrinkable(grid *Grid, p components.Position) bool {
	if grid.Get(p) != Water {
		return false
	}
	for _, d := range components.Directions {
		if grid.Get(p.Add(d)) != Water {
			return true
		}
	}
	return false
}

// Occupancy indexes live agents by tile for spatial queries.
type Occupancy struct {
	byPos map[components.Position][]components.AgentRef
}

// NewOccupancy creates an empty index.
func NewOccupancy() *Occupancy {
	return &Occupancy{byPos: make(map[components.Position][]components.AgentRef)}
}

// Add records ref at p.
func (o *Occupancy) Add(p components.Position, ref components.AgentRef) {
	refs := o.byPos[p]
	i, found := slices.BinarySearchFunc(refs, ref, compareRef)
	if found {
		return
	}
	o.byPos[p] = slices.Insert(refs, i, ref)
}

// Remove forgets ref at p.
func (o *Occupancy) Remove(p components.Position, ref components.AgentRef) {
	refs := o.byPos[p]
	if i, found := slices.BinarySearchFunc(refs, ref, compareRef); found {
		refs = slices.Delete(refs, i, i+1)
	}
	if len(refs) == 0 {
		delete(o.byPos, p)
		return
	}
	o.byPos[p] = refs
}

// Move relocates ref from one tile to another.
func (o *Occupancy) Move(from, to components.Position, ref components.AgentRef) {
	if from == to {
		return
	}
	o.Remove(from, ref)
	o.Add(to, ref)
}

// At returns the agents on p in ascending species then id order.
func (o *Occupancy) At(p components.Position) []components.AgentRef {
	return o.byPos[p]
}

// Len returns the number of occupied tiles.
func (o *Occupancy) Len() int {
	return len(o.byPos)
}

// LocateAgent searches like Locate and returns the first agent accepted by match.
func (o *Occupancy) LocateAgent(size int, origin components.Position, rings int, match func(components.AgentRef) bool) (components.AgentRef, components.Position, bool) {
	var found components.AgentRef
	pos, ok := Locate(size, origin, rings, func(p components.Position) bool {
		for _, ref := range o.byPos[p] {
			if match(ref) {
				found = ref
				return true
			}
		}
		return false
	})
	if !ok {
		return components.NoAgent, components.Position{}, false
	}
	return found, pos, true
}

// compareRef orders refs by species, then id.
func compareRef(a, b components.AgentRef) int {
	if c := cmp.Compare(a.Species, b.Species); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

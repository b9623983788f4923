package components

import "fmt"

// Position is a tile coordinate.
type Position struct {
	X, Y int
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the 4-connected distance between p and q.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// String formats the position as (x, y).
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Directions holds the 4-connected unit steps in expansion order: up, right, down, left.
var Directions = [4]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// Navigation holds an agent's queued path and pending resource targets.
type Navigation struct {
	Path    []Position // remaining steps, next step first
	PathLen int        // length when the path was planned; 0 if untracked

	FoodTarget  Position
	FoodFound   bool
	WaterTarget Position
	WaterFound  bool
}

// SetPath replaces the queued path and records its length.
func (n *Navigation) SetPath(path []Position) {
	n.Path = path
	n.PathLen = len(path)
}

// ClearPath drops the queued path.
func (n *Navigation) ClearPath() {
	n.Path = nil
	n.PathLen = 0
}

// Goal returns the final queued step.
func (n *Navigation) Goal() (Position, bool) {
	if len(n.Path) == 0 {
		return Position{}, false
	}
	return n.Path[len(n.Path)-1], true
}

// ClearFood drops a pending food target.
func (n *Navigation) ClearFood() {
	n.FoodTarget = Position{}
	n.FoodFound = false
}

// ClearWater drops a pending water target.
func (n *Navigation) ClearWater() {
	n.WaterTarget = Position{}
	n.WaterFound = false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

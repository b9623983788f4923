package systems

import (
	"container/heap"

	"github.com/pthm-cable/warren/components"
)

// astarNode is a node in the A* open set.
type astarNode struct {
	pos   components.Position
	f     int    // f = g + h (priority)
	seq   uint64 // insertion order, breaks f ties first-in-first-out
	index int    // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// FindPath computes a shortest 4-connected path from start to goal.
// The result excludes start and ends with goal; it is empty when goal is unreachable.
// Water is only entered as the goal itself.
func FindPath(grid *Grid, start, goal components.Position) []components.Position {
	if start == goal {
		return []components.Position{goal}
	}
	if !grid.InBounds(start) || !grid.InBounds(goal) {
		return nil
	}

	size := grid.Size()
	id := func(p components.Position) int { return p.Y*size + p.X }

	gScore := make(map[int]int, 256)
	cameFrom := make(map[int]components.Position, 256)
	inOpen := make(map[int]bool, 256)

	open := &nodeHeap{}
	var seq uint64
	gScore[id(start)] = 0
	heap.Push(open, &astarNode{pos: start, f: start.Manhattan(goal), seq: seq})
	inOpen[id(start)] = true

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)
		curID := id(current.pos)
		delete(inOpen, curID)

		if current.pos == goal {
			return reconstructPath(cameFrom, start, goal, size)
		}

		for _, d := range components.Directions {
			next := current.pos.Add(d)
			if !grid.InBounds(next) {
				continue
			}
			if grid.Get(next) == Water && next != goal {
				continue
			}

			nextID := id(next)
			tentativeG := gScore[curID] + 1
			if g, seen := gScore[nextID]; seen && tentativeG >= g {
				continue
			}

			cameFrom[nextID] = current.pos
			gScore[nextID] = tentativeG
			if !inOpen[nextID] {
				seq++
				heap.Push(open, &astarNode{pos: next, f: tentativeG + next.Manhattan(goal), seq: seq})
				inOpen[nextID] = true
			}
		}
	}

	// No path found
	return nil
}

// reconstructPath walks cameFrom back from goal and returns the steps after start.
func reconstructPath(cameFrom map[int]components.Position, start, goal components.Position, size int) []components.Position {
	var rev []components.Position
	for p := goal; p != start; {
		rev = append(rev, p)
		prev, ok := cameFrom[p.Y*size+p.X]
		if !ok {
			break
		}
		p = prev
	}

	path := make([]components.Position, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

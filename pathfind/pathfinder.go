package pathfind

// Pathfinder runs A*, Dijkstra and breadth-first searches over a
// PathMap. It owns all of its working state and clears it at the top
// of every search, so one Pathfinder can be reused across frames
// without reallocating. Each search invalidates the previous one's
// results; run two searches on two Pathfinders if both result sets
// are needed at once.
//
// Not safe for concurrent use; give each goroutine its own instance.
type Pathfinder struct {
	frontier *MinHeap[int]
	costs    map[Point]int
	parents  map[Point]Point
	path     []Point
	queue    []Point
	exitBuf  [8]Point
	origin   Point
	searched bool
}

// NewPathfinder creates a Pathfinder with empty working state.
func NewPathfinder() *Pathfinder {
	return &Pathfinder{
		frontier: NewMinHeap[int](),
		costs:    make(map[Point]int),
		parents:  make(map[Point]Point),
	}
}

// NewPathfinderCapacity creates a Pathfinder sized for a map of
// roughly n cells. The containers grow as needed either way; a
// reasonable hint just avoids rehashing during the first search.
func NewPathfinderCapacity(n int) *Pathfinder {
	return &Pathfinder{
		frontier: NewMinHeapCapacity[int](n / 4),
		costs:    make(map[Point]int, n/4),
		parents:  make(map[Point]Point, n/4),
		path:     make([]Point, 0, n/4),
	}
}

// Clear resets all working state, keeping backing storage.
func (pf *Pathfinder) Clear() {
	pf.frontier.Clear()
	clear(pf.costs)
	clear(pf.parents)
	pf.path = pf.path[:0]
	pf.queue = pf.queue[:0]
	pf.searched = false
}

// AStar finds a shortest path from start to goal and returns it,
// start and goal inclusive. Returns nil when no path exists (or when
// goal is unreachable behind obstacles); nil is the expected result
// for disconnected regions, not an error. The returned slice is owned
// by the Pathfinder and is valid until the next search.
func (pf *Pathfinder) AStar(m PathMap, start, goal Point) []Point {
	pf.Clear()
	pf.origin = start
	pf.searched = true

	pf.costs[start] = 0
	pf.frontier.Push(start, 0)

	for {
		curr, ok := pf.frontier.Pop()
		if !ok {
			break
		}
		if curr == goal {
			break
		}
		for _, next := range m.Exits(curr, pf.exitBuf[:0]) {
			newCost := pf.costs[curr] + m.Cost(curr, next)
			if old, seen := pf.costs[next]; !seen || newCost < old {
				pf.costs[next] = newCost
				pf.frontier.Push(next, newCost+m.Distance(next, goal))
				pf.parents[next] = curr
			}
		}
	}

	return pf.BuildPath(goal)
}

// Dijkstra runs a uniform-cost search from start to exhaustion,
// populating Costs and Parents for every reachable cell. Use
// BuildPath afterwards to extract a shortest path to any target.
func (pf *Pathfinder) Dijkstra(m PathMap, start Point) {
	pf.Clear()
	pf.origin = start
	pf.searched = true

	pf.costs[start] = 0
	pf.frontier.Push(start, 0)

	for {
		curr, ok := pf.frontier.Pop()
		if !ok {
			break
		}
		for _, next := range m.Exits(curr, pf.exitBuf[:0]) {
			newCost := pf.costs[curr] + m.Cost(curr, next)
			if old, seen := pf.costs[next]; !seen || newCost < old {
				pf.costs[next] = newCost
				pf.frontier.Push(next, newCost)
				pf.parents[next] = curr
			}
		}
	}
}

// BFS explores the whole region reachable from start in breadth-first
// (FIFO) order, ignoring move costs. Parents records the visit tree
// and Costs the hop count of every reached cell.
func (pf *Pathfinder) BFS(m PathMap, start Point) {
	pf.bfs(m, start, Point{}, false)
}

// BFSTo is BFS with an early exit: the search stops when goal is
// first reached and the hop-minimal path is returned, or nil if goal
// was never reached.
func (pf *Pathfinder) BFSTo(m PathMap, start, goal Point) []Point {
	pf.bfs(m, start, goal, true)
	return pf.BuildPath(goal)
}

func (pf *Pathfinder) bfs(m PathMap, start, goal Point, hasGoal bool) {
	pf.Clear()
	pf.origin = start
	pf.searched = true

	pf.costs[start] = 0
	pf.queue = append(pf.queue, start)

	for head := 0; head < len(pf.queue); head++ {
		curr := pf.queue[head]
		if hasGoal && curr == goal {
			break
		}
		for _, next := range m.Exits(curr, pf.exitBuf[:0]) {
			if _, seen := pf.costs[next]; seen {
				continue
			}
			pf.costs[next] = pf.costs[curr] + 1
			pf.parents[next] = curr
			pf.queue = append(pf.queue, next)
		}
	}
	pf.queue = pf.queue[:0]
}

// BuildPath reconstructs the path from the last search's origin to
// goal by walking the parent tree backward. Returns nil if goal was
// not reached (or no search has run). If goal equals the origin the
// path is the single-element sequence.
func (pf *Pathfinder) BuildPath(goal Point) []Point {
	pf.path = pf.path[:0]
	if !pf.searched {
		return nil
	}
	if goal == pf.origin {
		pf.path = append(pf.path, goal)
		return pf.path
	}
	if _, ok := pf.parents[goal]; !ok {
		return nil
	}

	for curr := goal; curr != pf.origin; {
		pf.path = append(pf.path, curr)
		curr = pf.parents[curr]
	}
	pf.path = append(pf.path, pf.origin)

	// Reverse into start-to-goal order
	for i, j := 0, len(pf.path)-1; i < j; i, j = i+1, j-1 {
		pf.path[i], pf.path[j] = pf.path[j], pf.path[i]
	}
	return pf.path
}

// Path returns the path built by the last AStar, BFSTo or BuildPath
// call. Empty until a search succeeds.
func (pf *Pathfinder) Path() []Point {
	return pf.path
}

// Costs returns the accumulated-cost map populated by the last search.
func (pf *Pathfinder) Costs() map[Point]int {
	return pf.costs
}

// Parents returns the predecessor map populated by the last search.
func (pf *Pathfinder) Parents() map[Point]Point {
	return pf.parents
}

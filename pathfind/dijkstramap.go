package pathfind

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Unreached is the sentinel value of cells no goal propagation has
// touched. It is finite so ApplyOperation cannot overflow it, yet far
// above any realistic accumulated path cost; raise it if a grid's
// traversal costs could plausibly approach it.
const Unreached = float64(math.MaxFloat32)

// ExitValue pairs a neighbor cell with its field value.
type ExitValue struct {
	Pos   Point
	Value float64
}

// DijkstraMap is a scalar potential field over a grid, computed from
// one or more weighted goal cells by uniform-cost propagation — the
// "Dijkstra map" of roguelike literature. Lower values are closer to
// (or more desirable than) the weighted goals; agents steer by
// stepping to their lowest-valued neighbor.
//
// Goal and map changes are not reflected until Recalculate runs.
// Recalculate is pure relaxation: it never raises a cell's value, so
// negating the field with ApplyOperation and recalculating smooths
// the inverted gradient into a usable flee map. Call ClearValues
// first when a recompute should ignore stale propagated values.
//
// Not safe for concurrent use; give each goroutine its own instance.
type DijkstraMap struct {
	width, height int
	values        []float64
	goals         mapset.Set[Point]
	unreached     bitGrid
	frontier      *MinHeap[float64]
	exitBuf       [8]Point
	evBuf         [8]ExitValue
}

// NewDijkstraMap creates a field of the given size with every cell at
// the Unreached sentinel and no goals.
func NewDijkstraMap(width, height int) *DijkstraMap {
	n := width * height
	d := &DijkstraMap{
		width:     width,
		height:    height,
		values:    make([]float64, n),
		goals:     mapset.New[Point](),
		unreached: newBitGrid(n),
		frontier:  NewMinHeapCapacity[float64](n / 4),
	}
	for i := range d.values {
		d.values[i] = Unreached
	}
	d.unreached.setAll(true)
	return d
}

// Width returns the field width in cells.
func (d *DijkstraMap) Width() int { return d.width }

// Height returns the field height in cells.
func (d *DijkstraMap) Height() int { return d.height }

func (d *DijkstraMap) index(p Point) int {
	return p.Y*d.width + p.X
}

func (d *DijkstraMap) inBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < d.width && p.Y < d.height
}

// Value returns the field value at p. Out-of-bounds points report the
// Unreached sentinel.
func (d *DijkstraMap) Value(p Point) float64 {
	if !d.inBounds(p) {
		return Unreached
	}
	return d.values[d.index(p)]
}

// Values returns the backing value array, indexed y*width+x.
func (d *DijkstraMap) Values() []float64 {
	return d.values
}

// Reached reports whether the last Recalculate touched p.
func (d *DijkstraMap) Reached(p Point) bool {
	return d.inBounds(p) && !d.unreached.get(d.index(p))
}

// AddGoal marks p as a goal seeded with value. Adding to an existing
// goal accumulates: the values add up. Lower values are more
// desirable; a strongly negative goal pulls agents from further away
// than a zero-valued one.
func (d *DijkstraMap) AddGoal(p Point, value float64) {
	if !d.inBounds(p) {
		return
	}
	if d.goals.Has(p) {
		d.values[d.index(p)] += value
		return
	}
	d.values[d.index(p)] = value
	d.goals.Put(p)
}

// SetGoal marks p as a goal seeded with value, overwriting any prior
// value.
func (d *DijkstraMap) SetGoal(p Point, value float64) {
	if !d.inBounds(p) {
		return
	}
	d.values[d.index(p)] = value
	d.goals.Put(p)
}

// RemoveGoal removes goal membership only; the cell keeps its current
// value until the next ClearValues or Recalculate overwrites it.
func (d *DijkstraMap) RemoveGoal(p Point) {
	d.goals.Remove(p)
}

// Goals calls fn for every goal with its current seeded value.
func (d *DijkstraMap) Goals(fn func(p Point, value float64)) {
	d.goals.Each(func(p Point) {
		fn(p, d.values[d.index(p)])
	})
}

// GoalCount returns the number of goals set.
func (d *DijkstraMap) GoalCount() int {
	return d.goals.Size()
}

// Recalculate propagates the goal values across the grid. Every goal
// is seeded at its current value; propagation pops the lowest-valued
// cell and relaxes each exit to min(current, popped + move cost),
// visiting the entire region connected to the goals. Cells are marked
// reached the first time propagation touches them; cells never
// reached keep the sentinel and are skipped by IterXY. Goal cells
// always retain exactly their seeded values.
//
// The PathMap is only read during this call; it is not retained.
func (d *DijkstraMap) Recalculate(m PathMap) {
	d.unreached.setAll(true)
	d.frontier.Clear()

	d.goals.Each(func(g Point) {
		d.frontier.Push(g, d.values[d.index(g)])
		d.unreached.clear(d.index(g))
	})

	for {
		curr, ok := d.frontier.Pop()
		if !ok {
			break
		}
		for _, next := range m.Exits(curr, d.exitBuf[:0]) {
			if !d.inBounds(next) {
				continue
			}
			i := d.index(next)
			first := d.unreached.get(i)
			d.unreached.clear(i)
			if d.goals.Has(next) {
				continue
			}
			candidate := d.values[d.index(curr)] + float64(m.Cost(curr, next))
			if candidate < d.values[i] {
				d.values[i] = candidate
				d.frontier.Push(next, candidate)
			} else if first {
				// No improvement, but the cell still joins the
				// traversal at its current value so the whole
				// connected region is visited and can relax its
				// own neighbors (a negated field settles this way).
				d.frontier.Push(next, d.values[i])
			}
		}
	}
}

// ClearValues resets every non-goal cell to the Unreached sentinel,
// leaving goal seeds intact. Use before a Recalculate that should
// ignore stale propagated values.
func (d *DijkstraMap) ClearValues() {
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			p := Point{x, y}
			if !d.goals.Has(p) {
				d.values[d.index(p)] = Unreached
			}
		}
	}
}

// ClearAll removes all goals and resets every cell to the Unreached
// sentinel.
func (d *DijkstraMap) ClearAll() {
	d.goals = mapset.New[Point]()
	for i := range d.values {
		d.values[i] = Unreached
	}
	d.unreached.setAll(true)
}

// ApplyOperation maps fn over every cell value in place. The
// documented use is sign-flipping an approach field into a flee field
// (negate, then Recalculate so propagation smooths the spikes the
// flip introduces).
func (d *DijkstraMap) ApplyOperation(fn func(v float64) float64) {
	for i, v := range d.values {
		d.values[i] = fn(v)
	}
}

// ExitValues returns p's reachable neighbors paired with their field
// values, lowest value first. Ties keep the grid's exit enumeration
// order. The returned slice is backed by an internal buffer valid
// until the next call.
func (d *DijkstraMap) ExitValues(m PathMap, p Point) []ExitValue {
	ev := d.evBuf[:0]
	for _, next := range m.Exits(p, d.exitBuf[:0]) {
		if !d.Reached(next) {
			continue
		}
		ev = append(ev, ExitValue{Pos: next, Value: d.values[d.index(next)]})
	}
	sort.SliceStable(ev, func(i, j int) bool {
		return ev[i].Value < ev[j].Value
	})
	return ev
}

// Exits returns p's reachable neighbors sorted lowest field value
// first. The returned slice shares ExitValues' buffer lifetime.
func (d *DijkstraMap) Exits(m PathMap, p Point, buf []Point) []Point {
	for _, ev := range d.ExitValues(m, p) {
		buf = append(buf, ev.Pos)
	}
	return buf
}

// NextLowest returns the neighbor of p with the strictly lowest field
// value, for agents descending toward the weighted goals. Ties are
// broken by exit enumeration order (first wins). The second return is
// false if no reachable neighbor exists.
func (d *DijkstraMap) NextLowest(m PathMap, p Point) (Point, bool) {
	best := Point{}
	bestValue := math.Inf(1)
	found := false
	for _, next := range m.Exits(p, d.exitBuf[:0]) {
		if !d.Reached(next) {
			continue
		}
		if v := d.values[d.index(next)]; v < bestValue {
			best, bestValue, found = next, v, true
		}
	}
	return best, found
}

// NextHighest is NextLowest's ascent counterpart.
func (d *DijkstraMap) NextHighest(m PathMap, p Point) (Point, bool) {
	best := Point{}
	bestValue := math.Inf(-1)
	found := false
	for _, next := range m.Exits(p, d.exitBuf[:0]) {
		if !d.Reached(next) {
			continue
		}
		if v := d.values[d.index(next)]; v > bestValue {
			best, bestValue, found = next, v, true
		}
	}
	return best, found
}

// IterXY calls fn for every reached cell with its value, row by row
// from y=0 upward. Cells the last Recalculate never touched are
// skipped without a value lookup.
func (d *DijkstraMap) IterXY(fn func(p Point, value float64)) {
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			i := y*d.width + x
			if d.unreached.get(i) {
				continue
			}
			fn(Point{x, y}, d.values[i])
		}
	}
}

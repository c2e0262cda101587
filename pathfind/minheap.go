package pathfind

// Cost constrains the numeric domains usable as heap priorities.
// Floating costs must be finite; NaN is a caller bug and is never
// checked for here.
type Cost interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

type heapCell[C Cost] struct {
	cost C
	pos  Point
}

// MinHeap is a binary heap of grid positions keyed by cost, popped in
// ascending cost order. Equal costs are broken by Y ascending then X
// ascending so pop order is deterministic for a given push sequence.
// Duplicate positions are permitted; callers filter stale entries by
// tracking the best known cost separately.
type MinHeap[C Cost] struct {
	cells []heapCell[C]
}

// NewMinHeap creates an empty heap.
func NewMinHeap[C Cost]() *MinHeap[C] {
	return &MinHeap[C]{}
}

// NewMinHeapCapacity creates an empty heap with preallocated backing storage.
func NewMinHeapCapacity[C Cost](n int) *MinHeap[C] {
	return &MinHeap[C]{cells: make([]heapCell[C], 0, n)}
}

func (h *MinHeap[C]) less(a, b heapCell[C]) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	return a.pos.X < b.pos.X
}

// Push inserts a position with the given cost. O(log n).
func (h *MinHeap[C]) Push(p Point, cost C) {
	h.cells = append(h.cells, heapCell[C]{cost: cost, pos: p})

	// Sift up
	i := len(h.cells) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(h.cells[i], h.cells[parent]) {
			break
		}
		h.cells[parent], h.cells[i] = h.cells[i], h.cells[parent]
		i = parent
	}
}

// Pop removes and returns the lowest-cost position. The second return
// is false if the heap is empty. O(log n).
func (h *MinHeap[C]) Pop() (Point, bool) {
	p, _, ok := h.PopCost()
	return p, ok
}

// PopCost is Pop but also returns the cost the position was pushed with.
func (h *MinHeap[C]) PopCost() (Point, C, bool) {
	if len(h.cells) == 0 {
		var zero C
		return Point{}, zero, false
	}
	top := h.cells[0]
	n := len(h.cells)
	h.cells[0] = h.cells[n-1]
	h.cells = h.cells[:n-1]

	// Sift down
	i := 0
	for {
		left := 2*i + 1
		if left >= len(h.cells) {
			break
		}
		smallest := left
		if right := left + 1; right < len(h.cells) && h.less(h.cells[right], h.cells[left]) {
			smallest = right
		}
		if !h.less(h.cells[smallest], h.cells[i]) {
			break
		}
		h.cells[i], h.cells[smallest] = h.cells[smallest], h.cells[i]
		i = smallest
	}
	return top.pos, top.cost, true
}

// Len returns the number of entries in the heap.
func (h *MinHeap[C]) Len() int {
	return len(h.cells)
}

// IsEmpty reports whether the heap has no entries.
func (h *MinHeap[C]) IsEmpty() bool {
	return len(h.cells) == 0
}

// Clear empties the heap without releasing its backing storage, so a
// heap reused across searches stops allocating once it has grown to
// the working-set size.
func (h *MinHeap[C]) Clear() {
	h.cells = h.cells[:0]
}

package pathfind

import (
	"errors"
	"strings"
)

// PathMap defines how the search algorithms navigate a grid. Implement
// it to path over alternate representations (hex grids, weighted
// terrain); PathMap2d is the built-in obstacle-bit implementation.
type PathMap interface {
	// Exits appends the in-bounds, non-obstacle neighbors of p to buf
	// and returns the extended slice. Callers pass a reusable buffer
	// (cap 8 is always enough) to keep enumeration allocation-free.
	// The order is fixed call-to-call: N, E, S, W, then NE, SE, SW, NW.
	Exits(p Point, buf []Point) []Point
	// Cost returns the cost of moving between two adjacent points.
	// Behavior for non-adjacent points is unspecified.
	Cost(a, b Point) int
	// Distance returns a heuristic distance between two points. It must
	// never exceed the true path cost or AStar loses optimality.
	Distance(a, b Point) int
}

// Adjacency selects the neighbor set of a PathMap2d.
type Adjacency uint8

const (
	// Octile allows all 8 neighbors with distinct cardinal and
	// diagonal move costs.
	Octile Adjacency = iota
	// Cardinal allows only the 4 orthogonal neighbors at unit cost.
	Cardinal
)

// Default octile move costs. (2*cardinal - diagonal) stays positive so
// the octile distance formula is integral and admissible.
const (
	DefaultCardinalCost = 2
	DefaultDiagonalCost = 3
)

// bitGrid packs one bit per cell into 64-bit words.
type bitGrid struct {
	bits []uint64
	n    int
}

func newBitGrid(n int) bitGrid {
	return bitGrid{bits: make([]uint64, (n+63)/64), n: n}
}

func (b *bitGrid) get(i int) bool {
	return b.bits[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b *bitGrid) set(i int) {
	b.bits[i>>6] |= 1 << (uint(i) & 63)
}

func (b *bitGrid) clear(i int) {
	b.bits[i>>6] &^= 1 << (uint(i) & 63)
}

func (b *bitGrid) setAll(v bool) {
	var word uint64
	if v {
		word = ^uint64(0)
	}
	for i := range b.bits {
		b.bits[i] = word
	}
}

// PathMap2d is a rectangular grid with an obstacle bit per cell.
// A set bit means the cell is impassable. The size is fixed at
// construction; obstacle bits are mutable at any time and observable
// by the next Exits or IsObstacle call.
//
// Out-of-bounds points are consistently treated as non-traversable:
// queries report them as obstacles and mutators ignore them.
type PathMap2d struct {
	width, height int
	obstacles     bitGrid
	adjacency     Adjacency
	cardinalCost  int
	diagonalCost  int
}

// NewPathMap creates an obstacle-free map with Octile adjacency and
// the default move costs.
func NewPathMap(width, height int) *PathMap2d {
	return &PathMap2d{
		width:        width,
		height:       height,
		obstacles:    newBitGrid(width * height),
		adjacency:    Octile,
		cardinalCost: DefaultCardinalCost,
		diagonalCost: DefaultDiagonalCost,
	}
}

// FromString parses a text-art map where each non-empty line is one
// row and any cell equal to obstacle is impassable. The first line of
// text becomes the highest Y row, so a printed map and the parsed grid
// line up visually. Returns an error for empty input or ragged rows,
// constructing nothing.
func FromString(text string, obstacle rune) (*PathMap2d, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, errors.New("pathfind: empty map text")
	}

	width := len([]rune(rows[0]))
	m := NewPathMap(width, len(rows))
	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, errors.New("pathfind: ragged map text")
		}
		y := len(rows) - 1 - i
		for x, r := range runes {
			if r == obstacle {
				m.obstacles.set(y*width + x)
			}
		}
	}
	return m, nil
}

// String renders the map as text art, obstacles as '#' and open cells
// as '.', top line = highest Y. FromString(m.String(), '#') rebuilds
// an equivalent map.
func (m *PathMap2d) String() string {
	var sb strings.Builder
	sb.Grow((m.width + 1) * m.height)
	for y := m.height - 1; y >= 0; y-- {
		for x := 0; x < m.width; x++ {
			if m.obstacles.get(y*m.width + x) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Width returns the map width in cells.
func (m *PathMap2d) Width() int { return m.width }

// Height returns the map height in cells.
func (m *PathMap2d) Height() int { return m.height }

// Size returns the width and height of the map.
func (m *PathMap2d) Size() (int, int) { return m.width, m.height }

// InBounds checks whether p is inside the map.
func (m *PathMap2d) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.width && p.Y < m.height
}

// SetAdjacency switches between Cardinal and Octile neighbor sets.
func (m *PathMap2d) SetAdjacency(adj Adjacency) {
	m.adjacency = adj
}

// Adjacency returns the current adjacency mode.
func (m *PathMap2d) Adjacency() Adjacency { return m.adjacency }

// SetMoveCosts overrides the Octile cardinal and diagonal move costs.
// Cardinal mode always moves at unit cost and is unaffected.
func (m *PathMap2d) SetMoveCosts(cardinal, diagonal int) {
	m.cardinalCost = cardinal
	m.diagonalCost = diagonal
}

// IsObstacle reports whether p is impassable. Out-of-bounds points
// report true.
func (m *PathMap2d) IsObstacle(p Point) bool {
	if !m.InBounds(p) {
		return true
	}
	return m.obstacles.get(p.Y*m.width + p.X)
}

// SetObstacle sets or clears the obstacle bit at p.
func (m *PathMap2d) SetObstacle(p Point, v bool) {
	if !m.InBounds(p) {
		return
	}
	if v {
		m.obstacles.set(p.Y*m.width + p.X)
	} else {
		m.obstacles.clear(p.Y*m.width + p.X)
	}
}

// AddObstacle marks p impassable.
func (m *PathMap2d) AddObstacle(p Point) {
	m.SetObstacle(p, true)
}

// RemoveObstacle marks p passable.
func (m *PathMap2d) RemoveObstacle(p Point) {
	m.SetObstacle(p, false)
}

// ToggleObstacle flips the obstacle bit at p.
func (m *PathMap2d) ToggleObstacle(p Point) {
	if !m.InBounds(p) {
		return
	}
	i := p.Y*m.width + p.X
	if m.obstacles.get(i) {
		m.obstacles.clear(i)
	} else {
		m.obstacles.set(i)
	}
}

// MoveObstacle clears the bit at old and sets the bit at new,
// unconditionally. Convenience for moving an agent that is itself an
// obstacle; neither cell's prior state is checked.
func (m *PathMap2d) MoveObstacle(old, new Point) {
	m.SetObstacle(old, false)
	m.SetObstacle(new, true)
}

// Exits implements PathMap. Neighbors are appended in compass order;
// Cardinal mode yields at most 4, Octile at most 8.
func (m *PathMap2d) Exits(p Point, buf []Point) []Point {
	n := 8
	if m.adjacency == Cardinal {
		n = 4
	}
	for _, d := range compassDirs[:n] {
		q := p.Add(d)
		if !m.IsObstacle(q) {
			buf = append(buf, q)
		}
	}
	return buf
}

// Cost implements PathMap. In Octile mode a move that keeps one
// coordinate fixed costs cardinalCost, any other costs diagonalCost;
// Cardinal mode always costs 1. Call only on adjacent points.
func (m *PathMap2d) Cost(a, b Point) int {
	if m.adjacency == Cardinal {
		return 1
	}
	if a.X == b.X || a.Y == b.Y {
		return m.cardinalCost
	}
	return m.diagonalCost
}

// Distance implements PathMap. Manhattan distance for Cardinal mode,
// the octile formula for Octile mode; both use the same move costs as
// Cost, so the heuristic never overestimates.
func (m *PathMap2d) Distance(a, b Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if m.adjacency == Cardinal {
		return dx + dy
	}
	return ((2*m.cardinalCost-m.diagonalCost)*abs(dx-dy) + m.diagonalCost*(dx+dy)) / 2
}

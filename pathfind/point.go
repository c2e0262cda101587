package pathfind

import "fmt"

// Point represents a 2D integer grid coordinate
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}
func Pt(x, y int) Point {
	return Point{x, y}
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbor offsets in compass order: N, E, S, W, then NE, SE, SW, NW.
// The grid is y-up (higher Y = further north). Cardinal mode uses the
// first four entries, Octile mode all eight. Exit enumeration follows
// this order call-to-call; DijkstraMap tie-breaking relies on it.
var compassDirs = [8]Point{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, -1}, {-1, 1},
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package pathfind

import "testing"

func TestFromStringEnclosedCenter(t *testing.T) {
	m, err := FromString("###\n#.#\n###", '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if w, h := m.Size(); w != 3 || h != 3 {
		t.Fatalf("size = %dx%d, want 3x3", w, h)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := !(x == 1 && y == 1)
			if got := m.IsObstacle(Pt(x, y)); got != want {
				t.Errorf("IsObstacle(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if exits := m.Exits(Pt(1, 1), nil); len(exits) != 0 {
		t.Errorf("exits from enclosed center = %v, want none", exits)
	}
}

func TestFromStringRowOrder(t *testing.T) {
	// Top text line is the highest y row.
	m, err := FromString("#..\n...\n..#", '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	if !m.IsObstacle(Pt(0, 2)) {
		t.Error("top-left '#' should land at (0,2)")
	}
	if !m.IsObstacle(Pt(2, 0)) {
		t.Error("bottom-right '#' should land at (2,0)")
	}
	if m.IsObstacle(Pt(1, 1)) {
		t.Error("center should be open")
	}
}

func TestFromStringMalformed(t *testing.T) {
	if _, err := FromString("", '#'); err == nil {
		t.Error("empty input should be rejected")
	}
	if _, err := FromString("\n\n", '#'); err == nil {
		t.Error("blank input should be rejected")
	}
	if _, err := FromString("###\n##\n###", '#'); err == nil {
		t.Error("ragged rows should be rejected")
	}
}

func TestStringRoundTrip(t *testing.T) {
	m := NewPathMap(4, 3)
	m.AddObstacle(Pt(0, 0))
	m.AddObstacle(Pt(3, 2))
	m.AddObstacle(Pt(2, 1))

	back, err := FromString(m.String(), '#')
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if back.IsObstacle(Pt(x, y)) != m.IsObstacle(Pt(x, y)) {
				t.Errorf("round trip mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestObstacleMutation(t *testing.T) {
	m := NewPathMap(8, 8)
	p := Pt(3, 4)

	m.AddObstacle(p)
	if !m.IsObstacle(p) {
		t.Error("AddObstacle did not set")
	}
	m.RemoveObstacle(p)
	if m.IsObstacle(p) {
		t.Error("RemoveObstacle did not clear")
	}
	m.ToggleObstacle(p)
	if !m.IsObstacle(p) {
		t.Error("ToggleObstacle did not set")
	}
	m.ToggleObstacle(p)
	if m.IsObstacle(p) {
		t.Error("ToggleObstacle did not clear")
	}

	// MoveObstacle is unconditional: it does not care about prior state.
	q := Pt(4, 4)
	m.MoveObstacle(p, q)
	if m.IsObstacle(p) {
		t.Error("MoveObstacle left the old cell set")
	}
	if !m.IsObstacle(q) {
		t.Error("MoveObstacle did not set the new cell")
	}
}

func TestOutOfBoundsIsObstacle(t *testing.T) {
	m := NewPathMap(4, 4)
	for _, p := range []Point{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {-5, -5}} {
		if !m.IsObstacle(p) {
			t.Errorf("out-of-bounds %v should report obstacle", p)
		}
	}
	// Mutators ignore out-of-bounds points rather than panicking.
	m.AddObstacle(Pt(-1, -1))
	m.ToggleObstacle(Pt(99, 99))
}

func TestExitsCompassOrder(t *testing.T) {
	m := NewPathMap(5, 5)
	c := Pt(2, 2)

	want := []Point{{2, 3}, {3, 2}, {2, 1}, {1, 2}, {3, 3}, {3, 1}, {1, 1}, {1, 3}}
	got := m.Exits(c, nil)
	if len(got) != len(want) {
		t.Fatalf("exit count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exit %d = %v, want %v", i, got[i], want[i])
		}
	}

	m.SetAdjacency(Cardinal)
	got = m.Exits(c, got[:0])
	if len(got) != 4 {
		t.Fatalf("cardinal exit count = %d, want 4", len(got))
	}
	for i := range want[:4] {
		if got[i] != want[i] {
			t.Errorf("cardinal exit %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExitsSkipObstaclesAndEdges(t *testing.T) {
	m := NewPathMap(3, 3)
	m.AddObstacle(Pt(1, 2))

	got := m.Exits(Pt(0, 2), nil)
	// Corner cell: N and W are out of bounds, E is an obstacle.
	want := []Point{{0, 1}, {1, 1}}
	if len(got) != len(want) {
		t.Fatalf("exits = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exit %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCost(t *testing.T) {
	m := NewPathMap(4, 4)
	if c := m.Cost(Pt(1, 1), Pt(2, 1)); c != DefaultCardinalCost {
		t.Errorf("horizontal cost = %d, want %d", c, DefaultCardinalCost)
	}
	if c := m.Cost(Pt(1, 1), Pt(1, 2)); c != DefaultCardinalCost {
		t.Errorf("vertical cost = %d, want %d", c, DefaultCardinalCost)
	}
	if c := m.Cost(Pt(1, 1), Pt(2, 2)); c != DefaultDiagonalCost {
		t.Errorf("diagonal cost = %d, want %d", c, DefaultDiagonalCost)
	}

	m.SetMoveCosts(5, 7)
	if c := m.Cost(Pt(1, 1), Pt(2, 1)); c != 5 {
		t.Errorf("custom cardinal cost = %d, want 5", c)
	}
	if c := m.Cost(Pt(1, 1), Pt(0, 0)); c != 7 {
		t.Errorf("custom diagonal cost = %d, want 7", c)
	}

	m.SetAdjacency(Cardinal)
	if c := m.Cost(Pt(1, 1), Pt(2, 1)); c != 1 {
		t.Errorf("cardinal-mode cost = %d, want 1", c)
	}
}

func TestDistance(t *testing.T) {
	m := NewPathMap(20, 20)

	// Straight line: 5 cardinal steps at cost 2.
	if d := m.Distance(Pt(0, 0), Pt(5, 0)); d != 10 {
		t.Errorf("octile straight distance = %d, want 10", d)
	}
	// Pure diagonal: 4 diagonal steps at cost 3.
	if d := m.Distance(Pt(0, 0), Pt(4, 4)); d != 12 {
		t.Errorf("octile diagonal distance = %d, want 12", d)
	}
	// Mixed: 3 diagonal + 2 cardinal.
	if d := m.Distance(Pt(0, 0), Pt(5, 3)); d != 13 {
		t.Errorf("octile mixed distance = %d, want 13", d)
	}

	m.SetAdjacency(Cardinal)
	if d := m.Distance(Pt(1, 2), Pt(4, 6)); d != 7 {
		t.Errorf("manhattan distance = %d, want 7", d)
	}
}

// Distance must never exceed the true shortest path cost on an open
// grid, or A* returns suboptimal paths.
func TestDistanceAdmissible(t *testing.T) {
	m := NewPathMap(12, 12)
	pf := NewPathfinder()
	start := Pt(0, 0)

	pf.Dijkstra(m, start)
	for p, trueCost := range pf.Costs() {
		if h := m.Distance(start, p); h > trueCost {
			t.Errorf("heuristic to %v = %d exceeds true cost %d", p, h, trueCost)
		}
	}
}

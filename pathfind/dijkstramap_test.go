package pathfind

import (
	"math"
	"testing"
)

func cardinalMap(w, h int) *PathMap2d {
	m := NewPathMap(w, h)
	m.SetAdjacency(Cardinal)
	return m
}

func TestRecalculateSingleGoal(t *testing.T) {
	m := cardinalMap(10, 10)
	d := NewDijkstraMap(10, 10)
	d.AddGoal(Pt(5, 5), 0.0)
	d.Recalculate(m)

	if v := d.Value(Pt(5, 5)); v != 0.0 {
		t.Errorf("goal value = %v, want 0", v)
	}
	if v := d.Value(Pt(5, 6)); v != 1.0 {
		t.Errorf("value one step north = %v, want 1", v)
	}
	if v := d.Value(Pt(0, 0)); v != 10.0 {
		t.Errorf("corner value = %v, want 10 (manhattan)", v)
	}
}

func TestRecalculateMatchesShortestCosts(t *testing.T) {
	text := `........
.######.
........
######..
........`
	m, err := FromString(text, '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	goal := Pt(6, 4)

	d := NewDijkstraMap(8, 5)
	d.AddGoal(goal, 0.0)
	d.Recalculate(m)

	// Every reachable cell's value must equal the exhaustive
	// shortest-path cost from the goal.
	pf := NewPathfinder()
	pf.Dijkstra(m, goal)
	for p, cost := range pf.Costs() {
		if v := d.Value(p); v != float64(cost) {
			t.Errorf("value at %v = %v, want %d", p, v, cost)
		}
	}
}

func TestRecalculateWeightedGoals(t *testing.T) {
	m := cardinalMap(11, 1)
	d := NewDijkstraMap(11, 1)
	// A strongly negative goal on the left outpulls the zero goal on
	// the right across most of the row.
	d.AddGoal(Pt(0, 0), -10.0)
	d.AddGoal(Pt(10, 0), 0.0)
	d.Recalculate(m)

	if v := d.Value(Pt(5, 0)); v != -5.0 {
		t.Errorf("midpoint value = %v, want -5 (seeded -10 + 5 steps)", v)
	}
	// Near the weaker goal its own distance wins.
	if v := d.Value(Pt(9, 0)); v != -1.0 {
		t.Errorf("value at (9,0) = %v, want -1", v)
	}
	// Goal cells keep exactly their seeds.
	if v := d.Value(Pt(10, 0)); v != 0.0 {
		t.Errorf("goal (10,0) value = %v, want seeded 0", v)
	}
	if v := d.Value(Pt(0, 0)); v != -10.0 {
		t.Errorf("goal (0,0) value = %v, want seeded -10", v)
	}
}

func TestRecalculateIdempotent(t *testing.T) {
	text := `.....
.###.
...#.
.#.#.
.....`
	m, err := FromString(text, '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	d := NewDijkstraMap(5, 5)
	d.AddGoal(Pt(0, 0), 0.0)
	d.Recalculate(m)

	first := make([]float64, len(d.Values()))
	copy(first, d.Values())

	d.Recalculate(m)
	for i, v := range d.Values() {
		if v != first[i] {
			t.Fatalf("value %d changed on idempotent recalculate: %v -> %v", i, first[i], v)
		}
	}
}

func TestUnreachableKeepSentinel(t *testing.T) {
	m, err := FromString("###\n#.#\n###", '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	d := NewDijkstraMap(3, 3)
	d.AddGoal(Pt(1, 1), 0.0)
	d.Recalculate(m)

	if v := d.Value(Pt(0, 0)); v != Unreached {
		t.Errorf("walled-off cell value = %v, want sentinel", v)
	}
	if d.Reached(Pt(0, 0)) {
		t.Error("walled-off cell reported reached")
	}
	if !d.Reached(Pt(1, 1)) {
		t.Error("goal cell should be reached")
	}

	// Iteration must skip the unreached cells.
	count := 0
	d.IterXY(func(p Point, v float64) {
		if p != Pt(1, 1) {
			t.Errorf("IterXY yielded unreached cell %v", p)
		}
		count++
	})
	if count != 1 {
		t.Errorf("IterXY yielded %d cells, want 1", count)
	}
}

func TestAddGoalAccumulates(t *testing.T) {
	d := NewDijkstraMap(4, 4)
	d.AddGoal(Pt(1, 1), 2.0)
	d.AddGoal(Pt(1, 1), 3.0)
	if v := d.Value(Pt(1, 1)); v != 5.0 {
		t.Errorf("accumulated goal value = %v, want 5", v)
	}
	d.SetGoal(Pt(1, 1), -1.0)
	if v := d.Value(Pt(1, 1)); v != -1.0 {
		t.Errorf("SetGoal value = %v, want -1", v)
	}
	if d.GoalCount() != 1 {
		t.Errorf("goal count = %d, want 1", d.GoalCount())
	}
}

func TestRemoveGoalKeepsValue(t *testing.T) {
	m := cardinalMap(4, 4)
	d := NewDijkstraMap(4, 4)
	d.AddGoal(Pt(0, 0), 0.0)
	d.AddGoal(Pt(3, 3), 4.0)
	d.Recalculate(m)

	d.RemoveGoal(Pt(3, 3))
	if d.GoalCount() != 1 {
		t.Errorf("goal count = %d, want 1", d.GoalCount())
	}
	// Baked-in value survives until ClearValues.
	if v := d.Value(Pt(3, 3)); v == Unreached {
		t.Error("removed goal's value should persist until cleared")
	}

	d.ClearValues()
	if v := d.Value(Pt(3, 3)); v != Unreached {
		t.Errorf("non-goal value after ClearValues = %v, want sentinel", v)
	}
	if v := d.Value(Pt(0, 0)); v != 0.0 {
		t.Errorf("goal seed after ClearValues = %v, want 0", v)
	}
}

func TestClearAll(t *testing.T) {
	m := cardinalMap(4, 4)
	d := NewDijkstraMap(4, 4)
	d.AddGoal(Pt(2, 2), 1.5)
	d.Recalculate(m)

	d.ClearAll()
	if d.GoalCount() != 0 {
		t.Errorf("goal count after ClearAll = %d", d.GoalCount())
	}
	for i, v := range d.Values() {
		if v != Unreached {
			t.Fatalf("value %d after ClearAll = %v, want sentinel", i, v)
		}
	}
	d.IterXY(func(p Point, v float64) {
		t.Errorf("IterXY yielded %v after ClearAll", p)
	})
}

func TestExitValuesSortedAscending(t *testing.T) {
	m := cardinalMap(5, 5)
	d := NewDijkstraMap(5, 5)
	d.AddGoal(Pt(0, 2), 0.0)
	d.Recalculate(m)

	ev := d.ExitValues(m, Pt(2, 2))
	if len(ev) != 4 {
		t.Fatalf("exit count = %d, want 4", len(ev))
	}
	for i := 1; i < len(ev); i++ {
		if ev[i].Value < ev[i-1].Value {
			t.Fatalf("exit values not ascending: %v", ev)
		}
	}
	// (1,2) is the unique closest neighbor to the goal.
	if ev[0].Pos != Pt(1, 2) {
		t.Errorf("lowest exit = %v, want (1,2)", ev[0].Pos)
	}
	// N, E and S are tied at value 3; the stable sort keeps compass
	// order among them.
	wantTied := []Point{{2, 3}, {3, 2}, {2, 1}}
	for i, w := range wantTied {
		if ev[i+1].Pos != w {
			t.Errorf("tied exit %d = %v, want %v", i+1, ev[i+1].Pos, w)
		}
	}
}

func TestNextLowestDescendsToGoal(t *testing.T) {
	text := `.....
.###.
.....`
	m, err := FromString(text, '#')
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	goal := Pt(4, 2)
	d := NewDijkstraMap(5, 3)
	d.AddGoal(goal, 0.0)
	d.Recalculate(m)

	// Descending from the far corner must reach the goal within the
	// grid's worst-case path length.
	pos := Pt(0, 0)
	for i := 0; i < 15 && pos != goal; i++ {
		next, ok := d.NextLowest(m, pos)
		if !ok {
			t.Fatalf("no descent step from %v", pos)
		}
		if d.Value(next) >= d.Value(pos) && pos != goal {
			t.Fatalf("descent stalled: %v (%v) -> %v (%v)", pos, d.Value(pos), next, d.Value(next))
		}
		pos = next
	}
	if pos != goal {
		t.Errorf("descent ended at %v, want %v", pos, goal)
	}
}

func TestFleeFieldAfterNegation(t *testing.T) {
	m := cardinalMap(9, 1)
	threat := Pt(4, 0)
	d := NewDijkstraMap(9, 1)
	d.ClearAll()
	d.AddGoal(threat, 0.0)
	d.Recalculate(m)
	d.ApplyOperation(func(v float64) float64 { return v * -1.2 })
	d.Recalculate(m)

	// After the flip the gradient points away from the threat: an
	// agent next to it must step further away, not into it.
	agent := Pt(5, 0)
	next, ok := d.NextLowest(m, agent)
	if !ok {
		t.Fatal("no flee step available")
	}
	if next != Pt(6, 0) {
		t.Errorf("flee step = %v, want (6,0) away from threat", next)
	}

	// Recalculate after negation must not raise any value back up.
	if d.Value(Pt(8, 0)) >= d.Value(Pt(5, 0)) {
		t.Error("field should still decrease away from the threat")
	}
}

func TestNextHighestAscends(t *testing.T) {
	m := cardinalMap(6, 1)
	d := NewDijkstraMap(6, 1)
	d.AddGoal(Pt(0, 0), 0.0)
	d.Recalculate(m)

	next, ok := d.NextHighest(m, Pt(2, 0))
	if !ok {
		t.Fatal("no ascent step available")
	}
	if next != Pt(3, 0) {
		t.Errorf("ascent step = %v, want (3,0)", next)
	}
}

func TestApplyOperationSentinelStaysFinite(t *testing.T) {
	d := NewDijkstraMap(2, 2)
	d.ApplyOperation(func(v float64) float64 { return v * -1.2 })
	for _, v := range d.Values() {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("operation on sentinel produced %v", v)
		}
	}
}

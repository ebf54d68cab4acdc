package graph

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

func conn(parent, child string) catalogue.Connection {
	return catalogue.Connection{Parent: parent, Child: child}
}

func quiet(string, ...any) {}

func TestHighlightPathAscends(t *testing.T) {
	g := New([]catalogue.Connection{
		conn("building_87", "unit_4"),
		conn("unit_4", "unit_24"),
		conn("unit_24", "unit_492"),
		conn("building_87", "unit_7"),
	}, WithLogf(quiet))

	path := g.HighlightPath("unit_492")
	if len(path) != 4 {
		t.Fatalf("got %d steps, want 4: %+v", len(path), path)
	}

	wantNodes := []string{"unit_492", "unit_24", "unit_4", "building_87"}
	if got := g.Ancestors("unit_492"); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("Ancestors = %v, want %v", got, wantNodes)
	}

	wantEdges := []string{"unit_24->unit_492", "unit_4->unit_24", "building_87->unit_4"}
	for i, id := range wantEdges {
		if path[i].Edge == nil || path[i].Edge.ID() != id {
			t.Errorf("step %d edge = %v, want %s", i, path[i].Edge, id)
		}
	}
	if path[3].Edge != nil {
		t.Errorf("root step should have no edge, got %v", path[3].Edge)
	}
}

func TestHighlightPathRootAndUnknown(t *testing.T) {
	g := New([]catalogue.Connection{conn("a", "b")}, WithLogf(quiet))

	for _, id := range []string{"a", "zzz"} {
		path := g.HighlightPath(id)
		if len(path) != 1 || path[0].Node != id || path[0].Edge != nil {
			t.Errorf("HighlightPath(%q) = %+v, want single root step", id, path)
		}
	}
}

func TestHighlightPathVisitsEachAncestorOnce(t *testing.T) {
	// A chain of 50 nodes: n0 <- n1 <- ... <- n49.
	var conns []catalogue.Connection
	for i := 1; i < 50; i++ {
		conns = append(conns, conn(fmt.Sprintf("n%d", i-1), fmt.Sprintf("n%d", i)))
	}
	g := New(conns, WithLogf(quiet))

	for i := 0; i < 50; i++ {
		path := g.HighlightPath(fmt.Sprintf("n%d", i))
		if len(path) != i+1 {
			t.Fatalf("n%d: got %d steps, want %d", i, len(path), i+1)
		}
		seen := make(map[string]bool)
		for _, s := range path {
			if seen[s.Node] {
				t.Fatalf("n%d: node %s visited twice", i, s.Node)
			}
			seen[s.Node] = true
		}
		if last := path[len(path)-1]; last.Node != "n0" || last.Edge != nil {
			t.Errorf("n%d: path ends at %+v, want root n0", i, last)
		}
	}
}

func TestHighlightPathCycleTerminates(t *testing.T) {
	g := New([]catalogue.Connection{
		conn("a", "b"),
		conn("b", "c"),
		conn("c", "a"),
	}, WithLogf(quiet))

	path := g.HighlightPath("c")
	if len(path) != 3 {
		t.Fatalf("got %d steps, want 3: %+v", len(path), path)
	}
}

func TestDuplicateChildLastWins(t *testing.T) {
	var logs []string
	g := New([]catalogue.Connection{
		conn("tech_1", "unit_9"),
		conn("building_12", "unit_9"),
		conn("building_12", "unit_9"),
	}, WithLogf(func(format string, args ...any) {
		logs = append(logs, fmt.Sprintf(format, args...))
	}))

	c, ok := g.Parent("unit_9")
	if !ok || c.Parent != "building_12" {
		t.Errorf("Parent(unit_9) = %v, %v; want building_12", c, ok)
	}

	dups := g.Duplicates()
	if len(dups) != 1 {
		t.Fatalf("got %d duplicates, want 1 (identical repeats are not reported)", len(dups))
	}
	if dups[0].Dropped.Parent != "tech_1" || dups[0].Replaced.Parent != "building_12" {
		t.Errorf("duplicate = %+v", dups[0])
	}
	if len(logs) != 1 {
		t.Errorf("expected one diagnostic, got %v", logs)
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}
}

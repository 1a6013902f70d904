package validate

import (
	"strings"
	"testing"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

func mustGraph(t *testing.T, nodes ...layout.MachineNode) *layout.Graph {
	t.Helper()
	g, err := layout.NewGraph(layout.ProductionGraph{Nodes: nodes})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func TestSolutionValid(t *testing.T) {
	g := mustGraph(t,
		layout.MachineNode{ID: "m1", Kind: layout.Refinery},
		layout.MachineNode{ID: "m2", Kind: layout.Refinery},
	)
	f, _ := layout.FootprintOf(layout.Refinery)

	sol := layout.LayoutSolution{
		Bounds: layout.Bounds{Width: f.Long*2 + 2, Height: f.Short + 2},
		Placements: []layout.PlacedBuilding{
			{NodeID: "m1", X: 0, Y: 0, W: f.Long, H: f.Short},
			{NodeID: "m2", X: f.Long + 2, Y: 0, W: f.Long, H: f.Short},
		},
	}

	result := Solution(g, sol)
	if !result.OK() {
		t.Errorf("expected a valid solution, got violations: %v", result.Violations)
	}
}

func TestSolutionDetectsOverlap(t *testing.T) {
	g := mustGraph(t,
		layout.MachineNode{ID: "m1", Kind: layout.Refinery},
		layout.MachineNode{ID: "m2", Kind: layout.Refinery},
	)
	f, _ := layout.FootprintOf(layout.Refinery)

	sol := layout.LayoutSolution{
		Bounds: layout.Bounds{Width: f.Long * 2, Height: f.Short * 2},
		Placements: []layout.PlacedBuilding{
			{NodeID: "m1", X: 0, Y: 0, W: f.Long, H: f.Short},
			{NodeID: "m2", X: 1, Y: 1, W: f.Long, H: f.Short},
		},
	}

	result := Solution(g, sol)
	if result.OK() {
		t.Fatal("expected overlap to be flagged")
	}
	if !anyContains(result.Violations, "overlap") {
		t.Errorf("expected an overlap violation, got: %v", result.Violations)
	}
}

func TestSolutionDetectsAdjacency(t *testing.T) {
	g := mustGraph(t,
		layout.MachineNode{ID: "m1", Kind: layout.Refinery},
		layout.MachineNode{ID: "m2", Kind: layout.Refinery},
	)
	f, _ := layout.FootprintOf(layout.Refinery)

	sol := layout.LayoutSolution{
		Bounds: layout.Bounds{Width: f.Long * 2, Height: f.Short},
		Placements: []layout.PlacedBuilding{
			{NodeID: "m1", X: 0, Y: 0, W: f.Long, H: f.Short},
			{NodeID: "m2", X: f.Long, Y: 0, W: f.Long, H: f.Short},
		},
	}

	result := Solution(g, sol)
	if result.OK() {
		t.Fatal("expected direct adjacency to be flagged")
	}
	if !anyContains(result.Violations, "adjacent") {
		t.Errorf("expected an adjacency violation, got: %v", result.Violations)
	}
}

func TestSolutionDetectsMissingPlacement(t *testing.T) {
	g := mustGraph(t,
		layout.MachineNode{ID: "m1", Kind: layout.Refinery},
		layout.MachineNode{ID: "m2", Kind: layout.Refinery},
	)
	f, _ := layout.FootprintOf(layout.Refinery)

	sol := layout.LayoutSolution{
		Bounds: layout.Bounds{Width: f.Long, Height: f.Short},
		Placements: []layout.PlacedBuilding{
			{NodeID: "m1", X: 0, Y: 0, W: f.Long, H: f.Short},
			// m2 is missing entirely.
		},
	}

	result := Solution(g, sol)
	if result.OK() {
		t.Fatal("expected a missing-placement violation")
	}
	if !anyContains(result.Violations, "no placement") {
		t.Errorf("expected a missing-placement violation, got: %v", result.Violations)
	}
}

func TestSolutionDetectsFootprintMismatch(t *testing.T) {
	g := mustGraph(t, layout.MachineNode{ID: "m1", Kind: layout.Refinery})
	f, _ := layout.FootprintOf(layout.Refinery)

	sol := layout.LayoutSolution{
		Bounds: layout.Bounds{Width: f.Long + 5, Height: f.Short + 5},
		Placements: []layout.PlacedBuilding{
			{NodeID: "m1", X: 0, Y: 0, W: f.Long + 1, H: f.Short},
		},
	}

	result := Solution(g, sol)
	if result.OK() {
		t.Fatal("expected a footprint-mismatch violation")
	}
	if !anyContains(result.Violations, "catalog") {
		t.Errorf("expected a catalog mismatch violation, got: %v", result.Violations)
	}
}

func anyContains(violations []string, substr string) bool {
	for _, v := range violations {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutput(path, []byte("hello")); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestLoadSolutionDecodesJSON(t *testing.T) {
	sol := layout.LayoutSolution{Bounds: layout.Bounds{Width: 4, Height: 3}}
	data, err := json.Marshal(sol)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "solution.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := loadSolution(path)
	if err != nil {
		t.Fatalf("loadSolution: %v", err)
	}
	if got.Bounds != sol.Bounds {
		t.Errorf("got bounds %+v, want %+v", got.Bounds, sol.Bounds)
	}
}

func TestLoadSolutionRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loadSolution(path); err == nil {
		t.Fatal("expected an error decoding malformed JSON")
	}
}

func TestGraphToRawPreservesNodes(t *testing.T) {
	g, err := layout.NewGraph(layout.ProductionGraph{
		Nodes: []layout.MachineNode{{ID: "m1", Kind: layout.Crusher}},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	raw := graphToRaw(g)
	if len(raw.Nodes) != 1 || raw.Nodes[0].ID != "m1" {
		t.Errorf("graphToRaw lost node data: %+v", raw.Nodes)
	}
}

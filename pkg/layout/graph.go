package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// MachineNode is a placeable machine. Kind must never be Conveyor: conveyors
// are synthesized internally by the encoder, never authored as graph nodes.
type MachineNode struct {
	ID    string       `json:"id" yaml:"id" msgpack:"id"`
	Label string       `json:"label" yaml:"label" msgpack:"label"`
	Kind  BuildingKind `json:"kind" yaml:"kind" msgpack:"kind"`
}

// MaterialEdge is a directed material flow between two distinct machines.
// Multiple edges between the same pair are permitted, distinguished by ID.
type MaterialEdge struct {
	ID     string `json:"id" yaml:"id" msgpack:"id"`
	FromID string `json:"fromId" yaml:"fromId" msgpack:"fromId"`
	ToID   string `json:"toId" yaml:"toId" msgpack:"toId"`
	Item   string `json:"item" yaml:"item" msgpack:"item"`
	Belts  int    `json:"belts" yaml:"belts" msgpack:"belts"`
}

// ProductionGraph is the solver's input: a set of machines and the material
// edges between them.
type ProductionGraph struct {
	ID            string         `json:"id" yaml:"id" msgpack:"id"`
	TargetProduct string         `json:"targetProduct" yaml:"targetProduct" msgpack:"targetProduct"`
	TargetBelts   int            `json:"targetBelts" yaml:"targetBelts" msgpack:"targetBelts"`
	Nodes         []MachineNode  `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Edges         []MaterialEdge `json:"edges" yaml:"edges" msgpack:"edges"`
}

// Graph is an immutable, validated view of a ProductionGraph: node/edge ID
// uniqueness and edge-endpoint referential integrity have already been
// checked, so downstream components (C3-C7) can assume it holds.
type Graph struct {
	raw       ProductionGraph
	nodeIndex map[string]int // node ID -> index into raw.Nodes
	edgeIndex map[string]int // edge ID -> index into raw.Edges
}

// NewGraph validates graph and returns an immutable view of it. A graph
// with an empty ID is assigned a random one, so Solve's log lines carry a
// graph identity even when the caller didn't set one. The ID is drawn
// fresh on every call: two loads of the same ID-less graph get different
// IDs, and so different cache keys.
func NewGraph(graph ProductionGraph) (*Graph, error) {
	if graph.ID == "" {
		graph.ID = uuid.NewString()
	}

	nodeIndex := make(map[string]int, len(graph.Nodes))
	for i, n := range graph.Nodes {
		if n.ID == "" {
			return nil, newError(KindInvalidInput, fmt.Sprintf("node at index %d has empty id", i), nil)
		}
		if _, dup := nodeIndex[n.ID]; dup {
			return nil, newError(KindInvalidInput, fmt.Sprintf("duplicate node id %q", n.ID), nil)
		}
		if n.Kind == Conveyor {
			return nil, newError(KindInvalidInput, fmt.Sprintf("node %q: conveyor is not a placeable kind", n.ID), nil)
		}
		if !IsKnownKind(n.Kind) {
			return nil, newError(KindInvalidInput, fmt.Sprintf("node %q: unknown building kind %q", n.ID, n.Kind), nil)
		}
		nodeIndex[n.ID] = i
	}

	edgeIndex := make(map[string]int, len(graph.Edges))
	for i, e := range graph.Edges {
		if e.ID == "" {
			return nil, newError(KindInvalidInput, fmt.Sprintf("edge at index %d has empty id", i), nil)
		}
		if _, dup := edgeIndex[e.ID]; dup {
			return nil, newError(KindInvalidInput, fmt.Sprintf("duplicate edge id %q", e.ID), nil)
		}
		if _, ok := nodeIndex[e.FromID]; !ok {
			return nil, newError(KindInvalidInput, fmt.Sprintf("edge %q: unknown fromId %q", e.ID, e.FromID), nil)
		}
		if _, ok := nodeIndex[e.ToID]; !ok {
			return nil, newError(KindInvalidInput, fmt.Sprintf("edge %q: unknown toId %q", e.ID, e.ToID), nil)
		}
		if e.FromID == e.ToID {
			return nil, newError(KindInvalidInput, fmt.Sprintf("edge %q: fromId equals toId (%q)", e.ID, e.FromID), nil)
		}
		if e.Belts <= 0 {
			return nil, newError(KindInvalidInput, fmt.Sprintf("edge %q: belts must be positive, got %d", e.ID, e.Belts), nil)
		}
		edgeIndex[e.ID] = i
	}

	return &Graph{raw: graph, nodeIndex: nodeIndex, edgeIndex: edgeIndex}, nil
}

// Raw returns the original ProductionGraph this Graph validated, for
// callers (loaders, caches, exporters) that need the full input again.
func (g *Graph) Raw() ProductionGraph { return g.raw }

// Nodes returns the validated node list.
func (g *Graph) Nodes() []MachineNode { return g.raw.Nodes }

// Edges returns the validated edge list.
func (g *Graph) Edges() []MaterialEdge { return g.raw.Edges }

// Node looks up a node by ID.
func (g *Graph) Node(id string) (MachineNode, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return MachineNode{}, false
	}
	return g.raw.Nodes[i], true
}

// NodeFootprint resolves a node's catalog footprint.
func (g *Graph) NodeFootprint(id string) (Footprint, error) {
	n, ok := g.Node(id)
	if !ok {
		return Footprint{}, fmt.Errorf("layout: unknown node %q", id)
	}
	return FootprintOf(n.Kind)
}

// TotalArea sums footprint areas across all nodes, used by the bounds
// schedule's initial estimate.
func (g *Graph) TotalArea() int {
	total := 0
	for _, n := range g.raw.Nodes {
		f, err := FootprintOf(n.Kind)
		if err != nil {
			continue
		}
		total += f.Area()
	}
	return total
}

// MaxLongShort returns the largest Long and Short extents across all nodes.
func (g *Graph) MaxLongShort() (maxLong, maxShort int) {
	for _, n := range g.raw.Nodes {
		f, err := FootprintOf(n.Kind)
		if err != nil {
			continue
		}
		if f.Long > maxLong {
			maxLong = f.Long
		}
		if f.Short > maxShort {
			maxShort = f.Short
		}
	}
	return maxLong, maxShort
}

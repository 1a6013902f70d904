// Package validate re-checks a solved layout against the same geometric
// invariants the encoder enforces (non-overlap, no-adjacency, board
// containment), using an R-tree index rather than the SAT model. It exists
// so the property tests and any downstream consumer can trust a solution
// without re-deriving it from CNF, and so a corrupted or hand-authored
// LayoutSolution can be rejected before it's rendered or shipped.
package validate

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

// placedRect adapts a PlacedBuilding to rtreego.Spatial.
type placedRect struct {
	nodeID string
	rect   rtreego.Rect
}

func (p placedRect) Bounds() rtreego.Rect { return p.rect }

func newPlacedRect(pb layout.PlacedBuilding) (placedRect, error) {
	rect, err := rtreego.NewRect(
		rtreego.Point{float64(pb.X), float64(pb.Y)},
		[]float64{float64(pb.W), float64(pb.H)},
	)
	if err != nil {
		return placedRect{}, fmt.Errorf("validate: node %s: %w", pb.NodeID, err)
	}
	return placedRect{nodeID: pb.NodeID, rect: rect}, nil
}

// Result reports every invariant violation found; a solution is valid iff
// len(Violations) == 0.
type Result struct {
	Violations []string
}

func (r Result) OK() bool { return len(r.Violations) == 0 }

// Solution re-validates sol against g's nodes and sol.Bounds: every node placed
// exactly once, footprints matching the catalog, containment within
// [0,W)x[0,H), and pairwise non-overlap (spec §8's universal invariants).
// Adjacency between distinct machine footprints, if any two share an edge,
// is also flagged, matching the encoder's no-adjacency constraint.
func Solution(g *layout.Graph, sol layout.LayoutSolution) Result {
	var result Result

	seen := make(map[string]bool, len(sol.Placements))
	tree := rtreego.NewTree(2, 4, 16)
	rects := make(map[string]placedRect, len(sol.Placements))

	for _, pb := range sol.Placements {
		if seen[pb.NodeID] {
			result.Violations = append(result.Violations, fmt.Sprintf("node %s placed more than once", pb.NodeID))
			continue
		}
		seen[pb.NodeID] = true

		want, err := g.NodeFootprint(pb.NodeID)
		if err != nil {
			result.Violations = append(result.Violations, fmt.Sprintf("node %s: %v", pb.NodeID, err))
			continue
		}
		if pb.W != want.Long || pb.H != want.Short {
			result.Violations = append(result.Violations, fmt.Sprintf("node %s: footprint %dx%d does not match catalog %dx%d", pb.NodeID, pb.W, pb.H, want.Long, want.Short))
		}
		if pb.X < 0 || pb.Y < 0 || pb.X+pb.W > sol.Bounds.Width || pb.Y+pb.H > sol.Bounds.Height {
			result.Violations = append(result.Violations, fmt.Sprintf("node %s: footprint escapes bounds %dx%d", pb.NodeID, sol.Bounds.Width, sol.Bounds.Height))
			continue
		}

		pr, err := newPlacedRect(pb)
		if err != nil {
			result.Violations = append(result.Violations, err.Error())
			continue
		}
		rects[pb.NodeID] = pr
		tree.Insert(pr)
	}

	for _, n := range g.Nodes() {
		if !seen[n.ID] {
			result.Violations = append(result.Violations, fmt.Sprintf("node %s has no placement", n.ID))
		}
	}

	for id, pr := range rects {
		hits := tree.SearchIntersect(pr.rect)
		for _, h := range hits {
			other := h.(placedRect)
			if other.nodeID == id {
				continue
			}
			result.Violations = append(result.Violations, fmt.Sprintf("nodes %s and %s overlap", id, other.nodeID))
		}
	}

	adjacencyViolations(sol.Placements, &result)

	return result
}

// adjacencyViolations flags any two distinct footprints that share a grid
// edge (touching, not overlapping), which the encoder's no-adjacency
// constraint forbids regardless of overlap.
func adjacencyViolations(placements []layout.PlacedBuilding, result *Result) {
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			if touches(a, b) {
				result.Violations = append(result.Violations, fmt.Sprintf("nodes %s and %s are directly adjacent", a.NodeID, b.NodeID))
			}
		}
	}
}

func touches(a, b layout.PlacedBuilding) bool {
	xOverlap := a.X < b.X+b.W && b.X < a.X+a.W
	yOverlap := a.Y < b.Y+b.H && b.Y < a.Y+a.H
	xAdjacent := a.X+a.W == b.X || b.X+b.W == a.X
	yAdjacent := a.Y+a.H == b.Y || b.Y+b.H == a.Y
	return (xAdjacent && yOverlap) || (yAdjacent && xOverlap)
}

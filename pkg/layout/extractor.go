package layout

// extract decodes a satisfying gini model into placements and belt
// segments (spec §4.6 "Solution extraction").
func (e *encoder) extract() ([]PlacedBuilding, []BeltSegment) {
	placements := make([]PlacedBuilding, 0, len(e.graph.Nodes()))
	for _, n := range e.graph.Nodes() {
		f, err := FootprintOf(n.Kind)
		if err != nil {
			continue
		}
		for _, coord := range e.anchorCoords[n.ID] {
			if e.c.g.Value(e.anchors[n.ID][coord[0]][coord[1]]) {
				placements = append(placements, PlacedBuilding{
					NodeID: n.ID,
					X:      coord[0],
					Y:      coord[1],
					W:      f.Long,
					H:      f.Short,
				})
				break
			}
		}
	}

	var segments []BeltSegment
	for x := 0; x < e.w; x++ {
		for y := 0; y < e.h; y++ {
			cl := e.cells[x][y]
			isConveyor := e.c.g.Value(cl.isConveyor)
			isBridge := e.c.g.Value(cl.isBridge)
			if !isConveyor && !isBridge {
				continue
			}
			seg := BeltSegment{X: x, Y: y, IsBridge: isBridge}
			for _, d := range Directions {
				if e.c.g.Value(cl.in[d]) {
					seg.InDir = d
				}
				if e.c.g.Value(cl.out[d]) {
					seg.OutDir = d
				}
			}
			seg.EdgeID = e.ownerEdgeID(x, y, isBridge)
			segments = append(segments, seg)
		}
	}
	return placements, segments
}

// ownerEdgeID finds which edge owns cell (x,y), if any. A bridge cell may
// be owned on both axes by two different edges; the first found (in edge
// declaration order) is reported, matching BeltSegment's single EdgeID
// field. TUI/export consumers that need both owners should recompute from
// the raw model; the streamed solution favors the common single-owner case.
func (e *encoder) ownerEdgeID(x, y int, isBridge bool) string {
	for _, u := range e.units {
		key := u.key()
		if !isBridge {
			if e.c.g.Value(e.ownConv[key][x][y]) {
				return u.edge.ID
			}
			continue
		}
		if e.c.g.Value(e.ownV[key][x][y]) || e.c.g.Value(e.ownH[key][x][y]) {
			return u.edge.ID
		}
	}
	return ""
}

// extractFallback wraps a fallbackCheck result into the same solution
// shape, with no routed segments (spec §4.4's fallback trades routing
// fidelity for solving speed).
func extractFallback(placements []PlacedBuilding) ([]PlacedBuilding, []BeltSegment) {
	return placements, nil
}

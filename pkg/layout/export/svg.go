// Package export renders a solved layout as SVG (the tile grid) or renders
// the input production graph as Graphviz DOT, for inspection and docs. Both
// are read-only presentation views over the core types; neither feeds back
// into solving.
package export

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/foundryflow/layoutengine/pkg/layout"
)

const cellPixels = 24

var machineFill = map[layout.BuildingKind]string{
	layout.Filler:   "#4C6EF5",
	layout.Grinder:  "#F76707",
	layout.Molder:   "#37B24D",
	layout.Refinery: "#AE3EC9",
	layout.Crusher:  "#E03131",
}

// SVG renders sol as an SVG tile grid: one rect per machine footprint,
// colored by BuildingKind, and a filled cell rect per routed belt segment
// (bridges in a separate color). g
// supplies each placement's BuildingKind for coloring.
func SVG(g *layout.Graph, sol layout.LayoutSolution) []byte {
	var buf bytes.Buffer
	width := sol.Bounds.Width * cellPixels
	height := sol.Bounds.Height * cellPixels

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff;stroke:none")

	for x := 0; x <= sol.Bounds.Width; x++ {
		px := x * cellPixels
		canvas.Line(px, 0, px, height, "stroke:#e9ecef;stroke-width:1")
	}
	for y := 0; y <= sol.Bounds.Height; y++ {
		py := y * cellPixels
		canvas.Line(0, py, width, py, "stroke:#e9ecef;stroke-width:1")
	}

	for _, seg := range sol.Segments {
		style := "fill:#ced4da;stroke:#adb5bd;stroke-width:1"
		if seg.IsBridge {
			style = "fill:#ffe066;stroke:#f08c00;stroke-width:1"
		}
		canvas.Rect(seg.X*cellPixels, seg.Y*cellPixels, cellPixels, cellPixels, style)
	}

	for _, pb := range sol.Placements {
		fill := "#868e96"
		if n, ok := g.Node(pb.NodeID); ok {
			if c, ok := machineFill[n.Kind]; ok {
				fill = c
			}
		}
		canvas.Rect(pb.X*cellPixels, pb.Y*cellPixels, pb.W*cellPixels, pb.H*cellPixels,
			fmt.Sprintf("fill:%s;stroke:#1a1a1a;stroke-width:2", fill))
		canvas.Text(pb.X*cellPixels+4, pb.Y*cellPixels+14, pb.NodeID, "font-size:10px;fill:#ffffff")
	}

	canvas.End()
	return buf.Bytes()
}

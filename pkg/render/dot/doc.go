// Package dot renders a reconciled adjacency topology as a Graphviz digraph.
//
// # Overview
//
// [ToDOT] emits one vertex per snapshot node, labelled with its name and
// effective level, and one edge per reconciled node pair. The edge points
// from the higher-level endpoint to the lower-level one; when the levels are
// equal or either is undefined the stored a/b order is kept.
//
//	dot, err := dot.ToDOT(topo, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, dot)
//
// # Edge styling
//
// Edges seen from both ends are drawn with dir=both, one-sided edges with
// dir=forward. Every edge carries a two-part color, one half per endpoint,
// taken from that endpoint's adjacency state:
//
//	OneWay                green
//	TwoWay                blue
//	ThreeWay              black
//	MultipleNeighborsWait orange
//	unknown               white
//
// Any other state is rejected with an UNKNOWN_STATE error.
//
// # Color modes
//
// [ColorAligned] (the default) puts each endpoint's color on the half of the
// edge drawn at that endpoint. [ColorRecorded] always writes the first
// reporter's color first, which reproduces older renderings but can swap the
// halves when the arrow points from b to a.
//
// # Dependencies
//
// SVG and PNG output use [github.com/goccy/go-graphviz] in-process; no
// Graphviz installation is required.
package dot

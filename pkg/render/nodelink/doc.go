// Package nodelink renders a commit graph as a Graphviz node-link diagram.
//
// # Overview
//
// Every commit becomes a node pinned to its lane and row, so the diagram
// shows the same arrangement as the terminal graph. Edges run from child to
// parent. It is a debugging and documentation aid next to the row images.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Params: render.DoubleParams()})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools (neato -n)
//
// Node positions are given in inches with the "!" suffix, which pins them
// under the neato engine.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is needed.
package nodelink

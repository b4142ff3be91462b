// Package render rasterizes graph rows into images.
//
// # Overview
//
// A row of the commit graph is drawn into an RGBA buffer one cell per lane:
// a filled disk for the commit and one glyph per [graph.Edge]. The glyphs
// are pixel masks computed once per [Params] and shared by every row, so a
// row render is just a sequence of stamps.
//
//	p := render.DoubleParams()
//	r := render.NewRenderer(p)
//	img := r.RenderRow(sig.Lane, g.CellCount(), sig.Edges, render.StyleRounded)
//	png := render.EncodePNG(img)
//
// # Geometry
//
// [Params] holds the cell size, line width, node radii and colors. Two
// presets exist: [DoubleParams] for two terminal columns per lane (50x50
// pixels) and [SingleParams] for one column per lane (25x50 pixels). Corner
// arcs in non-square cells are shifted so they still meet the cell's
// midlines; see [CornerArc].
//
// # Styles
//
// [StyleRounded] stamps every edge with its own mask, so a jog across lanes
// is a quarter arc joined by straight segments. [StyleAngular] draws each
// jog as one diagonal stroke from the commit to the lane it bends into.
//
// # Encoding
//
// [EncodePNG] and [DecodePNG] convert between buffers and PNG bytes. The
// round trip is lossless.
//
// [graph.Edge]: github.com/matzehuels/lanegraph/pkg/graph.Edge
package render

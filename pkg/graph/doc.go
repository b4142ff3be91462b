// Package graph computes the lane layout of a commit history.
//
// # Overview
//
// The layout places every commit of a [dag.DAG] on a grid: the row is the
// commit's index in display order and the lane is a column chosen so that a
// line of history keeps its lane for as long as possible. Between rows, the
// connections between commits are described by [Edge] values: one glyph per
// lane, drawn from the ten box-drawing shapes of [EdgeKind].
//
// Building a layout is two steps, both exposed for testing:
//
//  1. [AssignPositions] walks the commits top to bottom and assigns lanes.
//  2. [BuildEdges] emits the glyphs for first-parent lines (pass 1) and then
//     for merges (pass 2), detouring a merge line to the right when its own
//     lane is occupied on the way.
//
// [Build] runs both and returns an immutable [Graph].
//
// # Row Signatures
//
// Two rows render to the same image when they have the same node lane and the
// same edge list. [Graph.Signature] returns that pair as a [RowSignature],
// which the rasterizer and the image cache use as their key.
//
// # Serialization
//
// [MarshalLayout] and [WriteLayout] export the computed positions and edges
// as JSON for debugging and for external tools.
//
// [dag.DAG]: github.com/matzehuels/lanegraph/pkg/dag.DAG
package graph

package render

import (
	"image"

	"github.com/matzehuels/lanegraph/pkg/graph"
)

// DrawingPixels holds the masks of one geometry: the node disk, the node
// ring and one mask per edge kind. It is immutable and safe to share.
type DrawingPixels struct {
	Circle Pixels
	Ring   Pixels
	Edges  [graph.NumEdgeKinds]Pixels
}

// NewDrawingPixels computes every mask for p.
func NewDrawingPixels(p Params) *DrawingPixels {
	cx, cy := p.Width/2, p.Height/2
	hw := p.LineWidth / 2

	dp := &DrawingPixels{
		Circle: FilledCircle(cx, cy, p.InnerRadius),
	}
	dp.Ring = FilledCircle(cx, cy, p.OuterRadius).Without(dp.Circle)

	bar := func(x0, y0, x1, y1 int) Pixels {
		s := pixelSet{}
		s.rect(max(x0, 0), max(y0, 0), min(x1, p.Width-1), min(y1, p.Height-1))
		return s.pixels()
	}
	dp.Edges[graph.EdgeVertical] = bar(cx-hw, 0, cx+hw, p.Height-1)
	dp.Edges[graph.EdgeHorizontal] = bar(0, cy-hw, p.Width-1, cy+hw)
	dp.Edges[graph.EdgeUp] = bar(cx-hw, 0, cx+hw, cy-p.OuterRadius)
	dp.Edges[graph.EdgeDown] = bar(cx-hw, cy+p.OuterRadius, cx+hw, p.Height-1)
	dp.Edges[graph.EdgeLeft] = bar(0, cy-hw, cx-p.OuterRadius, cy+hw)
	dp.Edges[graph.EdgeRight] = bar(cx+p.OuterRadius, cy-hw, p.Width, cy+hw)
	for _, k := range []graph.EdgeKind{graph.EdgeRightTop, graph.EdgeRightBottom, graph.EdgeLeftTop, graph.EdgeLeftBottom} {
		dp.Edges[k] = CornerArc(p.Width, p.Height, p.LineWidth, k)
	}
	return dp
}

// Edge returns the mask of an edge kind.
func (dp *DrawingPixels) Edge(k graph.EdgeKind) Pixels { return dp.Edges[k] }

// CornerArc returns the quarter ring of a corner glyph in a width x height
// cell drawn with the given line width. corner must be one of
// EdgeRightTop, EdgeRightBottom, EdgeLeftTop or EdgeLeftBottom; other kinds
// yield nil.
//
// The arc has radius min(width, height)/2 around the cell corner the glyph
// bends away from. In a square cell it ends exactly on the midpoints of two
// sides. In other cells the center moves inward by the difference between
// the half side and the radius, and a straight bar covers the gap between
// the arc end and the cell side.
func CornerArc(width, height, lineWidth int, corner graph.EdgeKind) Pixels {
	var bx, by int
	switch corner {
	case graph.EdgeRightTop: // ╮ joins left and bottom
		bx, by = 0, height
	case graph.EdgeLeftTop: // ╭ joins right and bottom
		bx, by = width, height
	case graph.EdgeRightBottom: // ╯ joins left and top
		bx, by = 0, 0
	case graph.EdgeLeftBottom: // ╰ joins right and top
		bx, by = width, 0
	default:
		return nil
	}

	r := min(width, height) / 2
	hw := lineWidth / 2
	adjust := lineWidth % 2
	inner := r - hw - adjust
	outer := r + hw

	// Move the center toward the cell interior.
	dx, dy := width/2-r, height/2-r
	ccx, ccy := bx+dx, by+dy
	if bx != 0 {
		ccx = bx - dx
	}
	if by != 0 {
		ccy = by - dy
	}

	innerSet, outerSet := pixelSet{}, pixelSet{}
	fillCircle(innerSet, ccx, ccy, inner)
	fillCircle(outerSet, ccx, ccy, outer)

	inQuadrant := func(pt image.Point) bool {
		if bx == 0 && pt.X < ccx || bx != 0 && pt.X > ccx {
			return false
		}
		if by == 0 && pt.Y < ccy || by != 0 && pt.Y > ccy {
			return false
		}
		return pt.X >= 0 && pt.X < width && pt.Y >= 0 && pt.Y < height
	}

	s := pixelSet{}
	for pt := range outerSet {
		if _, ok := innerSet[pt]; ok || !inQuadrant(pt) {
			continue
		}
		s[pt] = struct{}{}
	}

	// Fillers between the shifted arc and the cell sides.
	if dy > 0 {
		cx := width / 2
		y0, y1 := min(ccy, by), max(ccy, by)
		s.rect(max(cx-hw, 0), max(y0, 0), min(cx+hw, width-1), min(y1, height-1))
	}
	if dx > 0 {
		cy := height / 2
		x0, x1 := min(ccx, bx), max(ccx, bx)
		s.rect(max(x0, 0), max(cy-hw, 0), min(x1, width-1), min(cy+hw, height-1))
	}
	return s.pixels()
}

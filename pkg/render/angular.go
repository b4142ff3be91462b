package render

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/matzehuels/lanegraph/pkg/graph"
)

// drawAngular stamps the vertical family as masks and replaces each
// sideways jog with a single diagonal stroke.
//
// Horizontal-family edges are grouped by associated lane. Within a group
// every corner is paired with the closest stub; the stub always sits in the
// row's commit lane, so the stroke runs from that node to the point where
// the corner's lane meets the top or bottom of the row. Groups without both
// a stub and a corner are stamped as masks.
func (r *Renderer) drawAngular(img *image.NRGBA, edges []graph.Edge) {
	var order []int
	groups := make(map[int][]graph.Edge)
	for _, e := range edges {
		if e.Kind.IsVerticalFamily() {
			r.stampEdge(img, e)
			continue
		}
		if _, ok := groups[e.AssociatedLane]; !ok {
			order = append(order, e.AssociatedLane)
		}
		groups[e.AssociatedLane] = append(groups[e.AssociatedLane], e)
	}

	for _, assoc := range order {
		group := groups[assoc]
		var stubs, corners []graph.Edge
		for _, e := range group {
			switch {
			case e.Kind == graph.EdgeLeft || e.Kind == graph.EdgeRight:
				stubs = append(stubs, e)
			case e.Kind.IsCorner():
				corners = append(corners, e)
			}
		}
		if len(stubs) == 0 || len(corners) == 0 {
			for _, e := range group {
				r.stampEdge(img, e)
			}
			continue
		}
		c := r.params.EdgeColor(assoc)
		for _, corner := range corners {
			r.diagonal(img, nearestStub(stubs, corner.Lane).Lane, corner, c)
		}
	}
}

func nearestStub(stubs []graph.Edge, lane int) graph.Edge {
	best := stubs[0]
	for _, s := range stubs[1:] {
		if abs(s.Lane-lane) < abs(best.Lane-lane) {
			best = s
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// diagonal draws a stroke of the line width from the node of stubLane to
// the corner lane's center line at the row edge the corner opens to, then
// fills the part of the corner lane's stub the stroke leaves uncovered.
func (r *Renderer) diagonal(img *image.NRGBA, stubLane int, corner graph.Edge, c color.NRGBA) {
	p := r.params
	w, h := float64(p.Width), float64(p.Height)

	edgeY := 0.0
	if corner.Kind.TouchesBottom() {
		edgeY = h
	}
	from := f64.Vec2{float64(stubLane)*w + w/2, h / 2}
	to := f64.Vec2{float64(corner.Lane)*w + w/2, edgeY}

	u := normalize(sub(to, from))
	n := scale(perpendicular(u), float64(p.LineWidth)/2)
	start := add(from, scale(u, float64(p.OuterRadius)))

	poly := []f64.Vec2{add(start, n), add(to, n), sub(to, n), sub(start, n)}
	box := boundingBox(poly).Intersect(img.Rect)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if insidePolygon(f64.Vec2{float64(x) + 0.5, float64(y) + 0.5}, poly) {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	// Stub filler: the corner lane's line from the row edge up to where
	// the stroke's outer side crosses it.
	if u[0] == 0 {
		return
	}
	sideY := func(base f64.Vec2, x float64) float64 { return base[1] + (x-base[0])*u[1]/u[0] }
	hw := p.LineWidth / 2
	cx := corner.Lane*p.Width + p.Width/2
	for x := max(cx-hw, 0); x <= min(cx+hw, img.Rect.Max.X-1); x++ {
		fx := float64(x) + 0.5
		ya, yb := sideY(add(to, n), fx), sideY(sub(to, n), fx)
		if corner.Kind.TouchesBottom() {
			cutoff := min(ya, yb)
			for y := p.Height - 1; y >= p.Height/2 && float64(y)+0.5 > cutoff; y-- {
				img.SetNRGBA(x, y, c)
			}
			continue
		}
		cutoff := max(ya, yb)
		for y := 0; y < p.Height/2 && float64(y)+0.5 < cutoff; y++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

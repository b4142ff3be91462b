package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/lanegraph/pkg/graph"
)

// RowImage is an encoded row together with the number of lanes it covers.
type RowImage struct {
	Bytes     []byte
	CellCount int
}

// Renderer draws rows for one geometry. Its masks are computed once, so a
// Renderer is cheap to share between goroutines.
type Renderer struct {
	params Params
	pixels *DrawingPixels
}

// NewRenderer precomputes the masks of p.
func NewRenderer(p Params) *Renderer {
	return &Renderer{params: p, pixels: NewDrawingPixels(p)}
}

// Params returns the geometry the renderer draws with.
func (r *Renderer) Params() Params { return r.params }

// Pixels returns the precomputed masks.
func (r *Renderer) Pixels() *DrawingPixels { return r.pixels }

// Render draws a row signature and encodes it as PNG.
func (r *Renderer) Render(sig graph.RowSignature, cellCount int, style Style) RowImage {
	img := r.RenderRow(sig.Lane, cellCount, sig.Edges, style)
	return RowImage{Bytes: EncodePNG(img), CellCount: cellCount}
}

// RenderRow draws the node of lane and the given edges into a new buffer of
// cellCount cells.
func (r *Renderer) RenderRow(lane, cellCount int, edges []graph.Edge, style Style) *image.NRGBA {
	p := r.params
	img := image.NewNRGBA(image.Rect(0, 0, cellCount*p.Width, p.Height))

	if p.Background.A != 0 {
		for y := 0; y < p.Height; y++ {
			for x := 0; x < img.Rect.Dx(); x++ {
				img.SetNRGBA(x, y, p.Background)
			}
		}
	}

	r.stamp(img, r.pixels.Circle, lane, p.EdgeColor(lane))
	if p.Outline.A != 0 {
		r.stamp(img, r.pixels.Ring, lane, p.Outline)
	}

	if style == StyleAngular {
		r.drawAngular(img, edges)
		return img
	}
	for _, e := range edges {
		r.stampEdge(img, e)
	}
	return img
}

func (r *Renderer) stampEdge(img *image.NRGBA, e graph.Edge) {
	r.stamp(img, r.pixels.Edge(e.Kind), e.Lane, r.params.EdgeColor(e.AssociatedLane))
}

// stamp paints a mask into the cell of lane, clipped to the image.
func (r *Renderer) stamp(img *image.NRGBA, px Pixels, lane int, c color.NRGBA) {
	off := lane * r.params.Width
	for _, pt := range px {
		x := pt.X + off
		if x < 0 || x >= img.Rect.Max.X || pt.Y < 0 || pt.Y >= img.Rect.Max.Y {
			continue
		}
		img.SetNRGBA(x, pt.Y, c)
	}
}

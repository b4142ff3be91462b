package graphimage

import (
	"context"
	"image"

	"golang.org/x/image/draw"

	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// Snapshot stacks the row images of every commit into one picture, top row
// first. Rows come from the row cache when present.
func (m *Manager) Snapshot(ctx context.Context) (*image.NRGBA, error) {
	p := m.opts.Params
	width := m.graph.CellCount() * p.Width
	dst := image.NewNRGBA(image.Rect(0, 0, width, m.graph.Len()*p.Height))

	decoded := make(map[string]*image.NRGBA)
	for row, c := range m.graph.Commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sig, _ := m.graph.Signature(c.Hash)
		src, ok := decoded[sig.Key()]
		if !ok {
			var err error
			src, err = render.DecodePNG(m.row(ctx, sig).Bytes)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode row %d", row)
			}
			decoded[sig.Key()] = src
		}
		r := image.Rect(0, row*p.Height, width, (row+1)*p.Height)
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
	}
	return dst, nil
}

// Scale resizes img to the given width, keeping its aspect ratio.
func Scale(img image.Image, width int) *image.NRGBA {
	b := img.Bounds()
	if width <= 0 || width == b.Dx() {
		out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
		return out
	}
	height := max(1, b.Dy()*width/b.Dx())
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

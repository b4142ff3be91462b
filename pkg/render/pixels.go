package render

import (
	"cmp"
	"image"
	"maps"
	"slices"
)

// Pixels is a set of pixel offsets relative to the top-left corner of a
// cell, sorted by row then column and free of duplicates.
type Pixels []image.Point

// pixelSet accumulates points before they are frozen into [Pixels].
type pixelSet map[image.Point]struct{}

func (s pixelSet) add(x, y int) { s[image.Pt(x, y)] = struct{}{} }

func (s pixelSet) rect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.add(x, y)
		}
	}
}

func (s pixelSet) pixels() Pixels {
	out := slices.Collect(maps.Keys(s))
	slices.SortFunc(out, comparePoints)
	return out
}

func comparePoints(a, b image.Point) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}

// Contains reports whether pt is in the set.
func (p Pixels) Contains(pt image.Point) bool {
	_, ok := slices.BinarySearchFunc(p, pt, comparePoints)
	return ok
}

// Bounds returns the smallest rectangle holding every pixel.
func (p Pixels) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p[0], Max: p[0].Add(image.Pt(1, 1))}
	for _, pt := range p[1:] {
		r = r.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
	}
	return r
}

// Without returns the pixels of p that are not in q.
func (p Pixels) Without(q Pixels) Pixels {
	out := make(Pixels, 0, len(p))
	for _, pt := range p {
		if !q.Contains(pt) {
			out = append(out, pt)
		}
	}
	return out
}

// FilledCircle returns the disk of radius r centered at (cx, cy), traced
// with the midpoint circle algorithm and filled by horizontal spans.
func FilledCircle(cx, cy, r int) Pixels {
	s := pixelSet{}
	fillCircle(s, cx, cy, r)
	return s.pixels()
}

func fillCircle(s pixelSet, cx, cy, r int) {
	x, y, p := r, 0, 1-r
	for x >= y {
		for dx := -x; dx <= x; dx++ {
			s.add(cx+dx, cy+y)
			s.add(cx+dx, cy-y)
		}
		for dx := -y; dx <= y; dx++ {
			s.add(cx+dx, cy+x)
			s.add(cx+dx, cy-x)
		}
		y++
		if p <= 0 {
			p += 2*y + 1
		} else {
			x--
			p += 2*y - 2*x + 1
		}
	}
}

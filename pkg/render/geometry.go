package render

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

func add(a, b f64.Vec2) f64.Vec2          { return f64.Vec2{a[0] + b[0], a[1] + b[1]} }
func sub(a, b f64.Vec2) f64.Vec2          { return f64.Vec2{a[0] - b[0], a[1] - b[1]} }
func scale(a f64.Vec2, k float64) f64.Vec2 { return f64.Vec2{a[0] * k, a[1] * k} }
func cross(a, b f64.Vec2) float64         { return a[0]*b[1] - a[1]*b[0] }
func perpendicular(a f64.Vec2) f64.Vec2   { return f64.Vec2{-a[1], a[0]} }

func normalize(a f64.Vec2) f64.Vec2 {
	l := math.Hypot(a[0], a[1])
	if l == 0 {
		return f64.Vec2{}
	}
	return scale(a, 1/l)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// insidePolygon reports whether pt lies in the convex polygon. A point on
// the first edge's line counts as inside.
func insidePolygon(pt f64.Vec2, vertices []f64.Vec2) bool {
	if len(vertices) < 3 {
		return false
	}
	first := 0.0
	for i, a := range vertices {
		b := vertices[(i+1)%len(vertices)]
		s := sign(cross(sub(b, a), sub(pt, a)))
		if i == 0 {
			if s == 0 {
				return true
			}
			first = s
			continue
		}
		if s != 0 && s != first {
			return false
		}
	}
	return true
}

// boundingBox returns the integer rectangle covering every vertex.
func boundingBox(vertices []f64.Vec2) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minY, maxY = min(minY, v[1]), max(maxY, v[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

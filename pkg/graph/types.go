package graph

import (
	"cmp"
	"fmt"
)

// EdgeKind is one of the ten glyph shapes a lane can hold in a row.
//
// The declaration order is significant: rows are sorted by
// (associated lane, lane, kind), and the numeric value is part of the image
// cache key.
type EdgeKind int

const (
	EdgeVertical    EdgeKind = iota // │
	EdgeHorizontal                  // ─
	EdgeUp                          // ╵
	EdgeDown                        // ╷
	EdgeLeft                        // ╴
	EdgeRight                       // ╶
	EdgeRightTop                    // ╮
	EdgeRightBottom                 // ╯
	EdgeLeftTop                     // ╭
	EdgeLeftBottom                  // ╰
)

// NumEdgeKinds is the number of edge kinds.
const NumEdgeKinds = int(EdgeLeftBottom) + 1

var edgeKindNames = [...]string{
	EdgeVertical:    "vertical",
	EdgeHorizontal:  "horizontal",
	EdgeUp:          "up",
	EdgeDown:        "down",
	EdgeLeft:        "left",
	EdgeRight:       "right",
	EdgeRightTop:    "right_top",
	EdgeRightBottom: "right_bottom",
	EdgeLeftTop:     "left_top",
	EdgeLeftBottom:  "left_bottom",
}

// EdgeKinds lists every kind in sort order.
var EdgeKinds = []EdgeKind{
	EdgeVertical, EdgeHorizontal, EdgeUp, EdgeDown, EdgeLeft,
	EdgeRight, EdgeRightTop, EdgeRightBottom, EdgeLeftTop, EdgeLeftBottom,
}

// String returns the snake_case name of the kind.
func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
	return edgeKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k EdgeKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return nil, fmt.Errorf("invalid edge kind %d", int(k))
	}
	return []byte(edgeKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EdgeKind) UnmarshalText(b []byte) error {
	for i, name := range edgeKindNames {
		if name == string(b) {
			*k = EdgeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown edge kind %q", b)
}

// Direction bits of the cell sides a glyph touches.
const (
	sideUp = 1 << iota
	sideDown
	sideLeft
	sideRight
)

var edgeSides = [...]int{
	EdgeVertical:    sideUp | sideDown,
	EdgeHorizontal:  sideLeft | sideRight,
	EdgeUp:          sideUp,
	EdgeDown:        sideDown,
	EdgeLeft:        sideLeft,
	EdgeRight:       sideRight,
	EdgeRightTop:    sideLeft | sideDown,
	EdgeRightBottom: sideLeft | sideUp,
	EdgeLeftTop:     sideRight | sideDown,
	EdgeLeftBottom:  sideRight | sideUp,
}

// IsCorner reports whether the kind is one of the four quarter arcs.
func (k EdgeKind) IsCorner() bool {
	return k >= EdgeRightTop && k <= EdgeLeftBottom
}

// IsVerticalFamily reports whether the kind only touches the top and bottom
// sides of the cell (│ ╵ ╷).
func (k EdgeKind) IsVerticalFamily() bool {
	return k == EdgeVertical || k == EdgeUp || k == EdgeDown
}

// TouchesTop reports whether the glyph reaches the top side of its cell.
func (k EdgeKind) TouchesTop() bool { return edgeSides[k]&sideUp != 0 }

// TouchesBottom reports whether the glyph reaches the bottom side of its cell.
func (k EdgeKind) TouchesBottom() bool { return edgeSides[k]&sideDown != 0 }

// Glyph returns the box-drawing character of the kind.
func (k EdgeKind) Glyph() rune { return sideGlyph(edgeSides[k]) }

func sideGlyph(sides int) rune {
	switch sides {
	case sideUp | sideDown:
		return '│'
	case sideLeft | sideRight:
		return '─'
	case sideUp:
		return '╵'
	case sideDown:
		return '╷'
	case sideLeft:
		return '╴'
	case sideRight:
		return '╶'
	case sideLeft | sideDown:
		return '╮'
	case sideLeft | sideUp:
		return '╯'
	case sideRight | sideDown:
		return '╭'
	case sideRight | sideUp:
		return '╰'
	case sideUp | sideDown | sideLeft:
		return '┤'
	case sideUp | sideDown | sideRight:
		return '├'
	case sideLeft | sideRight | sideDown:
		return '┬'
	case sideLeft | sideRight | sideUp:
		return '┴'
	case sideUp | sideDown | sideLeft | sideRight:
		return '┼'
	}
	return ' '
}

// Edge is one glyph of a row: a kind placed in a lane, colored after the
// lane of the line it belongs to.
type Edge struct {
	Kind           EdgeKind `json:"kind"`
	Lane           int      `json:"lane"`
	AssociatedLane int      `json:"associated_lane"`
}

// Compare orders edges by associated lane, then lane, then kind.
func (e Edge) Compare(o Edge) int {
	if c := cmp.Compare(e.AssociatedLane, o.AssociatedLane); c != 0 {
		return c
	}
	if c := cmp.Compare(e.Lane, o.Lane); c != 0 {
		return c
	}
	return cmp.Compare(e.Kind, o.Kind)
}

// String formats the edge for debugging, e.g. "right_top@2/0".
func (e Edge) String() string {
	return fmt.Sprintf("%s@%d/%d", e.Kind, e.Lane, e.AssociatedLane)
}

// Position is the grid cell of a commit.
type Position struct {
	Lane int `json:"lane"`
	Row  int `json:"row"`
}

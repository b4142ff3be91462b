package graph

import (
	"slices"

	"github.com/matzehuels/lanegraph/pkg/dag"
)

// ownedEdge remembers which commit emitted an edge. Merge routing treats
// vertical segments of other commits as obstacles.
type ownedEdge struct {
	Edge
	owner string
}

type edgeBuilder struct {
	d         *dag.DAG
	positions map[string]Position
	rowLane   []int
	rows      [][]ownedEdge
	maxLane   int
}

// BuildEdges computes the glyphs of every row from the commit positions and
// returns them with the highest lane used, including detour lanes.
//
// Pass 1 draws, for each commit, the lines to children in the same lane and
// to children that have it as first parent (branches). Pass 2 draws the lines
// to children that have it as a later parent (merges). A merge line normally
// leaves the commit upward in its own lane; if that lane is blocked between
// the two rows by another commit or by another commit's vertical line, the
// line detours through the first lane to the right that is clear.
//
// Each row is sorted by (associated lane, lane, kind) and deduplicated.
// Children without a position are skipped.
func BuildEdges(d *dag.DAG, positions map[string]Position) ([][]Edge, int) {
	commits := d.Commits()
	b := &edgeBuilder{
		d:         d,
		positions: positions,
		rowLane:   make([]int, len(commits)),
		rows:      make([][]ownedEdge, len(commits)),
	}
	for i, c := range commits {
		b.rowLane[i] = positions[c.Hash].Lane
	}

	for _, c := range commits {
		pos := positions[c.Hash]
		for _, child := range d.Children(c.Hash) {
			cp, ok := positions[child]
			if !ok {
				continue
			}
			switch {
			case pos.Lane == cp.Lane:
				b.straight(c.Hash, pos, cp)
			case b.isFirstParent(child, c.Hash):
				b.branch(c.Hash, pos, cp)
			}
		}
		b.maxLane = max(b.maxLane, pos.Lane)
	}

	for _, c := range commits {
		pos := positions[c.Hash]
		for _, child := range d.Children(c.Hash) {
			cp, ok := positions[child]
			if !ok || pos.Lane == cp.Lane || b.isFirstParent(child, c.Hash) {
				continue
			}
			b.merge(c.Hash, pos, cp)
		}
		b.maxLane = max(b.maxLane, pos.Lane)
	}

	out := make([][]Edge, len(b.rows))
	for i, row := range b.rows {
		es := make([]Edge, len(row))
		for j, e := range row {
			es[j] = e.Edge
		}
		slices.SortFunc(es, Edge.Compare)
		out[i] = slices.Compact(es)
	}
	return out, b.maxLane
}

func (b *edgeBuilder) isFirstParent(child, parent string) bool {
	parents := b.d.Parents(child)
	return len(parents) > 0 && parents[0] == parent
}

func (b *edgeBuilder) add(row int, kind EdgeKind, lane, assoc int, owner string) {
	b.rows[row] = append(b.rows[row], ownedEdge{
		Edge:  Edge{Kind: kind, Lane: lane, AssociatedLane: assoc},
		owner: owner,
	})
}

// vertical fills the rows strictly between the child and the parent.
func (b *edgeBuilder) vertical(owner string, lane, assoc, childRow, row int) {
	for y := row - 1; y > childRow; y-- {
		b.add(y, EdgeVertical, lane, assoc, owner)
	}
}

// horizontal fills the lanes strictly between from and to (from < to).
func (b *edgeBuilder) horizontal(owner string, row, from, to, assoc int) {
	for x := from + 1; x < to; x++ {
		b.add(row, EdgeHorizontal, x, assoc, owner)
	}
}

func (b *edgeBuilder) straight(owner string, pos, cp Position) {
	x := pos.Lane
	b.add(pos.Row, EdgeUp, x, x, owner)
	b.vertical(owner, x, x, cp.Row, pos.Row)
	b.add(cp.Row, EdgeDown, x, x, owner)
}

// branch draws a first-parent line from the commit into the child's lane:
// sideways at the commit's row, then up the child's lane.
func (b *edgeBuilder) branch(owner string, pos, cp Position) {
	x, xc := pos.Lane, cp.Lane
	if x < xc {
		b.add(pos.Row, EdgeRight, x, xc, owner)
		b.horizontal(owner, pos.Row, x, xc, xc)
		b.add(pos.Row, EdgeRightBottom, xc, xc, owner)
	} else {
		b.add(pos.Row, EdgeLeft, x, xc, owner)
		b.horizontal(owner, pos.Row, xc, x, xc)
		b.add(pos.Row, EdgeLeftBottom, xc, xc, owner)
	}
	b.vertical(owner, xc, xc, cp.Row, pos.Row)
	b.add(cp.Row, EdgeDown, xc, xc, owner)
}

// merge draws a later-parent line from the commit up to the merge child.
func (b *edgeBuilder) merge(owner string, pos, cp Position) {
	x, xc := pos.Lane, cp.Lane
	detour, overlap := b.detourLane(owner, pos, cp)

	if overlap {
		b.add(pos.Row, EdgeRight, x, x, owner)
		b.horizontal(owner, pos.Row, x, detour, x)
		b.add(pos.Row, EdgeRightBottom, detour, x, owner)
		b.vertical(owner, detour, x, cp.Row, pos.Row)
		b.add(cp.Row, EdgeRightTop, detour, x, owner)
		b.horizontal(owner, cp.Row, xc, detour, x)
		b.add(cp.Row, EdgeRight, xc, x, owner)
		b.maxLane = max(b.maxLane, detour)
		return
	}

	b.add(pos.Row, EdgeUp, x, x, owner)
	b.vertical(owner, x, x, cp.Row, pos.Row)
	if x < xc {
		b.add(cp.Row, EdgeLeftTop, x, x, owner)
		b.horizontal(owner, cp.Row, x, xc, x)
		b.add(cp.Row, EdgeLeft, xc, x, owner)
	} else {
		b.add(cp.Row, EdgeRightTop, x, x, owner)
		b.horizontal(owner, cp.Row, xc, x, x)
		b.add(cp.Row, EdgeRight, xc, x, owner)
	}
}

// detourLane decides whether the merge line from pos to cp must leave its
// own lane and, if so, which lane it takes.
//
// The full scan only runs when some row between the two commits holds a
// commit in the merge lane or another commit's vertical line in it. The scan
// then pushes the candidate lane right past every commit sitting in it and
// past every foreign vertical line at or beyond it.
func (b *edgeBuilder) detourLane(owner string, pos, cp Position) (int, bool) {
	x := pos.Lane
	if !b.blocked(owner, x, cp.Row, pos.Row) {
		return x, false
	}

	detour, overlap := x, false
	for y := cp.Row + 1; y < pos.Row; y++ {
		if lane := b.rowLane[y]; lane == detour {
			overlap = true
			detour = max(detour, lane+1)
		}
		for _, e := range b.rows[y] {
			if e.Lane >= detour && e.owner != owner && e.Kind == EdgeVertical {
				overlap = true
				detour = max(detour, e.Lane+1)
			}
		}
	}
	return detour, overlap
}

func (b *edgeBuilder) blocked(owner string, lane, childRow, row int) bool {
	for y := childRow + 1; y < row; y++ {
		if b.rowLane[y] == lane {
			return true
		}
		for _, e := range b.rows[y] {
			if e.Lane == lane && e.Kind == EdgeVertical && e.owner != owner {
				return true
			}
		}
	}
	return false
}

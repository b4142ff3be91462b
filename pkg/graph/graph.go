package graph

import (
	"strconv"
	"strings"

	"github.com/matzehuels/lanegraph/pkg/dag"
)

// Graph is the computed layout of a commit history.
//
// A Graph is immutable once built. A refresh of the history builds a new
// Graph rather than patching this one.
type Graph struct {
	// Commits in display order; row i belongs to Commits[i].
	Commits []*dag.Commit

	// Positions maps each commit hash to its grid cell.
	Positions map[string]Position

	// Edges holds the sorted, deduplicated glyphs of every row.
	Edges [][]Edge

	// MaxLane is the highest lane used by a commit or a detour.
	MaxLane int
}

// Build computes the layout of d.
func Build(d *dag.DAG) *Graph {
	positions, maxLane := AssignPositions(d)
	edges, edgeMax := BuildEdges(d, positions)
	return &Graph{
		Commits:   d.Commits(),
		Positions: positions,
		Edges:     edges,
		MaxLane:   max(maxLane, edgeMax),
	}
}

// CellCount returns the number of lanes an image row must cover.
func (g *Graph) CellCount() int { return g.MaxLane + 1 }

// Len returns the number of rows.
func (g *Graph) Len() int { return len(g.Commits) }

// Position returns the grid cell of a commit.
func (g *Graph) Position(hash string) (Position, bool) {
	p, ok := g.Positions[hash]
	return p, ok
}

// Row returns the edges of a row, or nil when the row is out of range.
func (g *Graph) Row(row int) []Edge {
	if row < 0 || row >= len(g.Edges) {
		return nil
	}
	return g.Edges[row]
}

// RowSignature is everything that determines the image of a row: the lane
// of the row's commit and the row's edges.
type RowSignature struct {
	Lane  int
	Edges []Edge
}

// Key returns a compact string that is equal for equal signatures. It is
// meant for in-memory maps; persistent keys are built by package cache.
func (s RowSignature) Key() string {
	var sb strings.Builder
	sb.Grow(4 + len(s.Edges)*8)
	sb.WriteString(strconv.Itoa(s.Lane))
	for _, e := range s.Edges {
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(int(e.Kind)))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(e.Lane))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(e.AssociatedLane))
	}
	return sb.String()
}

// Signature returns the row signature of a commit.
func (g *Graph) Signature(hash string) (RowSignature, bool) {
	p, ok := g.Positions[hash]
	if !ok {
		return RowSignature{}, false
	}
	return RowSignature{Lane: p.Lane, Edges: g.Row(p.Row)}, true
}

// Signatures returns the distinct row signatures in order of first
// appearance.
func (g *Graph) Signatures() []RowSignature {
	seen := make(map[string]bool, len(g.Commits))
	var out []RowSignature
	for _, c := range g.Commits {
		sig, _ := g.Signature(c.Hash)
		k := sig.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, sig)
	}
	return out
}

// RowText renders a row with box-drawing characters, one rune per lane.
// The commit's lane shows a dot (a ring for stash entries). Glyphs sharing
// a lane are merged, so a vertical line crossing a horizontal one shows ┼.
func (g *Graph) RowText(row int) string {
	if row < 0 || row >= len(g.Commits) {
		return ""
	}
	sides := make([]int, g.CellCount())
	for _, e := range g.Edges[row] {
		if e.Lane < len(sides) {
			sides[e.Lane] |= edgeSides[e.Kind]
		}
	}

	node := '●'
	if g.Commits[row].IsStash() {
		node = '○'
	}
	lane := g.Positions[g.Commits[row].Hash].Lane

	runes := make([]rune, len(sides))
	for i, s := range sides {
		if i == lane {
			runes[i] = node
		} else {
			runes[i] = sideGlyph(s)
		}
	}
	return strings.TrimRight(string(runes), " ")
}

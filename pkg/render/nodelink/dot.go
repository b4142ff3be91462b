package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// Spacing between lanes and rows, in inches.
const (
	laneSpacing = 0.9
	rowSpacing  = 0.6
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the subject to node labels.
	Detailed bool

	// Params supplies the lane colors.
	Params render.Params
}

// ToDOT converts a graph to Graphviz DOT format.
//
// Nodes are filled with their lane color. Stash entries are drawn dashed.
// A first-parent edge takes the child's lane color and any other parent
// edge the parent's, matching the row images.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=monospace, fontsize=10, margin=\"0.08,0.04\"];\n")
	buf.WriteString("  edge [arrowsize=0.6, penwidth=2];\n")
	buf.WriteString("\n")

	for _, c := range g.Commits {
		pos := g.Positions[c.Hash]
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Hash, strings.Join(fmtAttrs(c, pos, opts), ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Commits {
		child := g.Positions[c.Hash]
		for i, p := range c.Parents {
			parent, ok := g.Positions[p]
			if !ok {
				continue
			}
			lane := parent.Lane
			if i == 0 {
				lane = child.Lane
			}
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", c.Hash, p, render.FormatColor(opts.Params.EdgeColor(lane)))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c *dag.Commit, detailed bool) string {
	if !detailed || c.Subject == "" {
		return c.ShortHash()
	}
	subject := c.Subject
	if r := []rune(subject); len(r) > 40 {
		subject = string(r[:39]) + "…"
	}
	return c.ShortHash() + "\n" + subject
}

func fmtAttrs(c *dag.Commit, pos graph.Position, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(c, opts.Detailed)),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", float64(pos.Lane)*laneSpacing, -float64(pos.Row)*rowSpacing),
		fmt.Sprintf("fillcolor=%q", render.FormatColor(opts.Params.EdgeColor(pos.Lane))),
	}
	if c.IsStash() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func layout(ctx context.Context, dot string, fn func(*graphviz.Graphviz, *graphviz.Graph) error) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()
	return fn(gv, g)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	err := layout(ctx, dot, func(gv *graphviz.Graphviz, g *graphviz.Graph) error {
		if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to a PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var img image.Image
	err := layout(ctx, dot, func(gv *graphviz.Graphviz, g *graphviz.Graph) error {
		var err error
		if img, err = gv.RenderImage(ctx, g); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return render.EncodePNG(img), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

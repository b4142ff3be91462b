// Package terminal inspects the terminal the graph is drawn into: its size
// in characters, the pixel size of one character cell, and whether a graph
// of a given width fits.
package terminal

import (
	"math"

	"golang.org/x/term"

	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// margin is the number of columns kept free next to the graph column.
const margin = 2

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool { return term.IsTerminal(fd) }

// Size returns the terminal size in columns and rows.
func Size(fd int) (cols, rows int, err error) {
	return term.GetSize(fd)
}

// DecideCellWidth resolves the lane width for a graph whose highest lane is
// maxLane. Auto prefers double width and falls back to single width. An
// explicit request is only checked against its own width.
func DecideCellWidth(maxLane, cols, rows int, requested render.CellWidth) (render.CellWidth, error) {
	single := maxLane + 1 + margin
	double := 2*(maxLane+1) + margin

	switch requested {
	case render.CellWidthDouble:
		if double > cols {
			return requested, tooSmall(cols, rows, double)
		}
		return render.CellWidthDouble, nil
	case render.CellWidthSingle:
		if single > cols {
			return requested, tooSmall(cols, rows, single)
		}
		return render.CellWidthSingle, nil
	}

	if double <= cols {
		return render.CellWidthDouble, nil
	}
	if single <= cols {
		return render.CellWidthSingle, nil
	}
	return requested, tooSmall(cols, rows, single)
}

func tooSmall(cols, rows, need int) error {
	return errors.New(errors.ErrCodeTerminalTooSmall,
		"terminal too small (%dx%d characters); the graph needs at least %d columns", cols, rows, need)
}

// SingleParamsForCell returns single-width geometry whose lane matches the
// aspect ratio of a cellW x cellH pixel character cell, so nodes stay round
// when the terminal stretches the image over one column. Non-positive sizes
// return the default single geometry.
func SingleParamsForCell(cellW, cellH int) render.Params {
	p := render.SingleParams()
	if cellW <= 0 || cellH <= 0 {
		return p
	}
	width := int(math.Round(float64(p.Height) * float64(cellW) / float64(cellH)))
	width = max(4, min(width, p.Height))
	if width == p.Width {
		return p
	}

	scale := float64(width) / float64(render.SingleParams().Width)
	p.Width = width
	p.LineWidth = max(1, int(math.Round(float64(p.LineWidth)*scale)))
	p.OuterRadius = max(1, min(width/2, int(math.Round(float64(p.OuterRadius)*scale))))
	p.InnerRadius = max(1, min(p.OuterRadius, int(math.Round(float64(p.InnerRadius)*scale))))
	return p
}

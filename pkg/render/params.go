package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// CellWidth is the number of terminal columns one lane occupies.
type CellWidth int

const (
	// CellWidthAuto picks double width when the terminal is wide enough.
	CellWidthAuto CellWidth = iota
	CellWidthDouble
	CellWidthSingle
)

func (w CellWidth) String() string {
	switch w {
	case CellWidthDouble:
		return "double"
	case CellWidthSingle:
		return "single"
	default:
		return "auto"
	}
}

// Columns returns the terminal columns per lane. Auto counts as double.
func (w CellWidth) Columns() int {
	if w == CellWidthSingle {
		return 1
	}
	return 2
}

// ParseCellWidth parses "auto", "double" or "single".
func ParseCellWidth(s string) (CellWidth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CellWidthAuto, nil
	case "double", "2":
		return CellWidthDouble, nil
	case "single", "1":
		return CellWidthSingle, nil
	}
	return CellWidthAuto, fmt.Errorf("unknown graph width %q (want auto, double or single)", s)
}

// Style selects how jogs between lanes are drawn.
type Style int

const (
	StyleRounded Style = iota
	StyleAngular
)

func (s Style) String() string {
	if s == StyleAngular {
		return "angular"
	}
	return "rounded"
}

// ParseStyle parses "rounded" or "angular".
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rounded", "round":
		return StyleRounded, nil
	case "angular", "diagonal":
		return StyleAngular, nil
	}
	return StyleRounded, fmt.Errorf("unknown style %q (want rounded or angular)", s)
}

// Params is the geometry and palette of a row image. All sizes are pixels
// of a single lane cell.
type Params struct {
	Width       int
	Height      int
	LineWidth   int
	InnerRadius int // node disk
	OuterRadius int // node ring; stubs start here

	Palette    []color.NRGBA // cycled by lane
	Outline    color.NRGBA   // node ring; transparent disables it
	Background color.NRGBA   // transparent leaves the buffer clear
}

// DoubleParams returns the geometry for two terminal columns per lane.
func DoubleParams() Params {
	return Params{
		Width:       50,
		Height:      50,
		LineWidth:   5,
		InnerRadius: 10,
		OuterRadius: 14,
		Palette:     DefaultPalette(),
	}
}

// SingleParams returns the geometry for one terminal column per lane.
func SingleParams() Params {
	return Params{
		Width:       25,
		Height:      50,
		LineWidth:   3,
		InnerRadius: 6,
		OuterRadius: 8,
		Palette:     DefaultPalette(),
	}
}

// ParamsFor returns the preset of a cell width mode.
func ParamsFor(w CellWidth) Params {
	if w == CellWidthSingle {
		return SingleParams()
	}
	return DoubleParams()
}

// CornerRadius is the radius of the corner arcs.
func (p Params) CornerRadius() int { return min(p.Width, p.Height) / 2 }

// EdgeColor returns the palette color of a lane.
func (p Params) EdgeColor(lane int) color.NRGBA {
	if len(p.Palette) == 0 {
		return color.NRGBA{A: 0xff}
	}
	return p.Palette[lane%len(p.Palette)]
}

// WithColors returns a copy of p using the given palette and colors. A nil
// palette keeps the current one.
func (p Params) WithColors(palette []color.NRGBA, outline, background color.NRGBA) Params {
	if palette != nil {
		p.Palette = append([]color.NRGBA(nil), palette...)
	}
	p.Outline = outline
	p.Background = background
	return p
}

var errBadGeometry = errors.New("invalid geometry")

// Validate checks that the geometry can be drawn.
func (p Params) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("%w: cell size %dx%d", errBadGeometry, p.Width, p.Height)
	case p.LineWidth <= 0 || p.LineWidth > p.Width:
		return fmt.Errorf("%w: line width %d", errBadGeometry, p.LineWidth)
	case p.InnerRadius <= 0 || p.OuterRadius < p.InnerRadius:
		return fmt.Errorf("%w: radii %d/%d", errBadGeometry, p.InnerRadius, p.OuterRadius)
	case 2*p.OuterRadius > min(p.Width, p.Height):
		return fmt.Errorf("%w: outer radius %d does not fit a %dx%d cell", errBadGeometry, p.OuterRadius, p.Width, p.Height)
	case len(p.Palette) == 0:
		return fmt.Errorf("%w: empty palette", errBadGeometry)
	}
	return nil
}

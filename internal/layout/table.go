package layout

import (
	"math"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/surface"
)

// WidthMode selects how a table's total width is decided.
type WidthMode string

const (
	// WidthAuto sizes every column to its content.
	WidthAuto WidthMode = "auto"
	// WidthFillBody stretches or shrinks columns to span the body width.
	WidthFillBody WidthMode = "fill_body"
)

// MinRowHeight is the smallest content height of a row, before padding.
const MinRowHeight = 10.0

// Border is a cell border style.
type Border struct {
	Size  float64
	Color surface.Color
}

// TableOptions represents the style and sizing options of one table
type TableOptions struct {
	Width WidthMode

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	// Border is nil for borderless tables.
	Border *Border

	Striped       bool
	StripedColors [2]surface.Color

	HeadBackground surface.Color
	HeadAlign      surface.Align
	HeadColor      surface.Color
	HeadFont       string
	HeadFontSize   float64
	HeadHeight     float64

	CellsFont     string
	CellsFontSize float64
	CellsAlign    surface.Align
	CellsColor    surface.Color
	CellsPadding  float64
	// CellsMaxWidth caps the content width a single cell asks for.
	// Zero or less disables the cap.
	CellsMaxWidth float64
}

// DefaultTableOptions returns the default table options
func DefaultTableOptions() TableOptions {
	return TableOptions{
		Width:        WidthAuto,
		MarginBottom: 5,
		Border:       &Border{Size: 0.1, Color: surface.MustParseColor("#cdcdcd")},
		StripedColors: [2]surface.Color{
			surface.MustParseColor("#fff"),
			surface.MustParseColor("#f0ecd5"),
		},

		HeadBackground: surface.MustParseColor("#abc6f0"),
		HeadAlign:      surface.AlignCenter,
		HeadColor:      surface.Black,
		HeadFont:       "Helvetica-Bold",
		HeadFontSize:   10,
		HeadHeight:     10,

		CellsFont:     "Helvetica",
		CellsFontSize: 9,
		CellsAlign:    surface.AlignCenter,
		CellsColor:    surface.Black,
		CellsPadding:  5,
		CellsMaxWidth: 120,
	}
}

// Validate reports options no table can be laid out with. An empty Width
// is treated as auto.
func (o TableOptions) Validate() error {
	switch o.Width {
	case "", WidthAuto, WidthFillBody:
	default:
		return errs.Configuration("AddTable", "unknown width mode %q", o.Width)
	}
	sizes := []struct {
		name string
		v    float64
	}{
		{"cell padding", o.CellsPadding},
		{"head height", o.HeadHeight},
		{"head font size", o.HeadFontSize},
		{"cells font size", o.CellsFontSize},
		{"left margin", o.MarginLeft},
		{"right margin", o.MarginRight},
		{"top margin", o.MarginTop},
		{"bottom margin", o.MarginBottom},
	}
	if o.Border != nil {
		sizes = append(sizes, struct {
			name string
			v    float64
		}{"border size", o.Border.Size})
	}
	for _, s := range sizes {
		if s.v < 0 || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return errs.Configuration("AddTable", "invalid %s %v", s.name, s.v)
		}
	}
	return nil
}

// HeaderBandHeight is the height of the column header row.
func (o TableOptions) HeaderBandHeight() float64 {
	return o.HeadHeight + 2*o.CellsPadding
}

func (o TableOptions) cellStyle() surface.TextStyle {
	return surface.TextStyle{Font: o.CellsFont, Size: o.CellsFontSize, Align: o.CellsAlign}
}

func (o TableOptions) headStyle() surface.TextStyle {
	return surface.TextStyle{Font: o.HeadFont, Size: o.HeadFontSize, Align: o.HeadAlign}
}

// Column defines one table column. A positive Width is a lower bound for
// the computed width.
type Column struct {
	Key   string
	Label string
	Width float64
	Align surface.Align

	// X is the column's left edge, fixed by the first header row render.
	X      float64
	placed bool
}

// Place fixes the column's horizontal offset unless it is already set.
func (c *Column) Place(x float64) {
	if c.placed {
		return
	}
	c.X = x
	c.placed = true
}

// Placed reports whether Place has been called.
func (c *Column) Placed() bool {
	return c.placed
}

// Row maps column keys to cell values.
type Row map[string]any

// RowLayout is a laid-out row: cell text per present key and the row height.
type RowLayout struct {
	Cells  map[string]string
	Height float64
}

// Cell returns the text of the cell for key and whether the row has one.
func (r *RowLayout) Cell(key string) (string, bool) {
	v, ok := r.Cells[key]
	return v, ok
}

// Table is a laid-out table.
type Table struct {
	Columns []*Column
	Rows    []*RowLayout
	Options TableOptions
}

// Width returns the sum of the column widths.
func (t *Table) Width() float64 {
	w := 0.0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

// Height returns the header band plus all row heights, without margins.
func (t *Table) Height() float64 {
	h := t.Options.HeaderBandHeight()
	for _, r := range t.Rows {
		h += r.Height
	}
	return h
}

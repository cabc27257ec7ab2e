package pagination

import (
	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/surface"
)

// renderHeaderRow draws the column label row of t with its top-left
// corner at (x, y). Column offsets are fixed by the first call.
func (e *Engine) renderHeaderRow(t *layout.Table, x, y float64) {
	o := t.Options
	s := e.surface
	band := o.HeaderBandHeight()

	s.SetFont(o.HeadFont, o.HeadFontSize)
	if o.Border != nil {
		s.SetLineWidth(o.Border.Size)
	}

	for _, c := range t.Columns {
		s.Rect(x, y, c.Width, band)
		if o.Border != nil {
			s.FillAndStroke(o.HeadBackground, o.Border.Color)
		} else {
			s.Fill(o.HeadBackground)
		}

		st := surface.TextStyle{
			Font:  o.HeadFont,
			Size:  o.HeadFontSize,
			Width: max(c.Width-2*o.CellsPadding, 0),
			Align: o.HeadAlign,
			Color: o.HeadColor,
		}
		labelHeight := s.TextHeight(c.Label, st)
		s.Text(c.Label, x+o.CellsPadding, y+(band-labelHeight)/2, st)

		c.Place(x)
		x += c.Width
	}
}

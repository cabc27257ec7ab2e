package pagination

import (
	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/surface"
	"github.com/gompdf/pdftable/internal/text"
)

// Engine places laid-out tables on pages, breaking pages as rows run
// past the bottom limit and repeating the header row on every page.
type Engine struct {
	surface  surface.Surface
	geometry *Geometry
	Logger   logrus.FieldLogger

	// page is the 0-based index of the current page, -1 before the first.
	page int
}

// NewEngine creates a new pagination engine
func NewEngine(s surface.Surface, g *Geometry) *Engine {
	return &Engine{
		surface:  s,
		geometry: g,
		Logger:   logging.Discard(),
		page:     -1,
	}
}

// Page returns the index of the current page, or -1 before the first.
func (e *Engine) Page() int {
	return e.page
}

// Geometry returns the geometry the engine lays pages out on.
func (e *Engine) Geometry() *Geometry {
	return e.geometry
}

// NewPage starts a page and draws the header and footer bands on it.
// Errors from the surface and from band renderers are returned as is.
func (e *Engine) NewPage() error {
	if err := e.surface.NewPage(); err != nil {
		return err
	}
	e.page++

	g := e.geometry
	for _, b := range []*Band{g.Header, g.Footer} {
		if b == nil {
			continue
		}
		fr := Frame{
			Surface: e.surface,
			Page:    e.page,
			X:       b.X,
			Y:       b.Y,
			Width:   g.BodyWidth(),
			Height:  b.HeightNumber,
		}
		if err := b.Renderer.Render(fr); err != nil {
			return err
		}
	}

	e.Logger.WithField("page", e.page).Debug("Started page")
	return nil
}

// limit is the lowest cursor position a row of t may end at.
func (e *Engine) limit(t *layout.Table) float64 {
	return e.geometry.BodyHeight() - e.geometry.Margins.Bottom - t.Options.MarginBottom
}

// RenderTable draws t starting at cursor (x, y) on the current page and
// returns the cursor below it, including the table's bottom margin.
func (e *Engine) RenderTable(t *layout.Table, x, y float64) (float64, error) {
	o := t.Options
	s := e.surface
	band := o.HeaderBandHeight()
	limit := e.limit(t)
	contentTop := e.geometry.ContentTop()

	start := y
	y += o.MarginTop
	if len(t.Rows) > 0 && start > contentTop && y+band+t.Rows[0].Height > limit {
		if err := e.NewPage(); err != nil {
			return y, err
		}
		y = contentTop
	}
	e.renderHeaderRow(t, x, y)
	y += band
	s.SetFont(o.CellsFont, o.CellsFontSize)

	stripe := 0
	for i, row := range t.Rows {
		if i > 0 && y+row.Height > limit {
			if err := e.NewPage(); err != nil {
				return y, err
			}
			e.Logger.WithFields(logrus.Fields{
				"page": e.page,
				"row":  i,
			}).Debug("Moved table row to next page")

			y = contentTop
			e.renderHeaderRow(t, x, y)
			y += band
			s.SetFont(o.CellsFont, o.CellsFontSize)
		}

		e.renderRow(t, row, y, stripe)
		y += row.Height
		stripe = 1 - stripe
	}

	y += o.MarginBottom
	e.Logger.WithFields(logrus.Fields{
		"page": e.page,
		"rows": len(t.Rows),
		"y":    y,
	}).Debug("Rendered table")
	return y, nil
}

func (e *Engine) renderRow(t *layout.Table, row *layout.RowLayout, y float64, stripe int) {
	o := t.Options
	s := e.surface

	for _, c := range t.Columns {
		value, ok := row.Cell(c.Key)
		if !ok {
			continue
		}

		if o.Striped || o.Border != nil {
			s.Rect(c.X, y, c.Width, row.Height)
		}
		switch {
		case o.Striped && o.Border != nil:
			s.FillAndStroke(o.StripedColors[stripe], o.Border.Color)
		case o.Striped:
			s.Fill(o.StripedColors[stripe])
		case o.Border != nil:
			s.Stroke(o.Border.Color)
		}

		align := o.CellsAlign
		if c.Align != "" {
			align = c.Align
		}
		if align == surface.AlignLeft && text.DirectionOf(value) == text.RightToLeft {
			align = surface.AlignRight
		}
		st := surface.TextStyle{
			Font:  o.CellsFont,
			Size:  o.CellsFontSize,
			Width: max(c.Width-2*o.CellsPadding, 0),
			Align: align,
			Color: o.CellsColor,
		}
		h := s.TextHeight(value, st)
		s.Text(value, c.X+o.CellsPadding, y+(row.Height-h)/2, st)
	}
}

// RenderDocument freezes the geometry, opens the first page and renders
// tables in order. It returns the cursor after each table.
func (e *Engine) RenderDocument(tables []*layout.Table) ([]float64, error) {
	e.geometry.Freeze()
	if err := e.NewPage(); err != nil {
		return nil, err
	}

	ends := make([]float64, 0, len(tables))
	y := e.geometry.ContentTop()
	for i, t := range tables {
		x := e.geometry.Margins.Left + t.Options.MarginLeft
		var err error
		y, err = e.RenderTable(t, x, y)
		if err != nil {
			return ends, err
		}
		ends = append(ends, y)
		e.Logger.WithFields(logrus.Fields{
			"table": i,
			"page":  e.page,
			"y":     y,
		}).Debug("Placed table")
	}
	return ends, nil
}

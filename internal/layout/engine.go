package layout

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/surface"
)

// Engine computes column widths and row heights
type Engine struct {
	measurer surface.Measurer
	Logger   logrus.FieldLogger
}

// NewEngine creates a new layout engine measuring text with m
func NewEngine(m surface.Measurer) *Engine {
	return &Engine{
		measurer: m,
		Logger:   logging.Discard(),
	}
}

// Validate checks the structural invariants of a table definition.
func Validate(columns []Column, rows []Row) error {
	if len(columns) == 0 {
		return errs.Configuration("AddTable", "columns are not set")
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Key == "" {
			return errs.Configuration("AddTable", "column %q has an empty key", c.Label)
		}
		if seen[c.Key] {
			return &errs.DuplicateKeyError{Key: c.Key}
		}
		seen[c.Key] = true
	}
	if len(rows) == 0 {
		return errs.Configuration("AddTable", "rows are not set")
	}
	return nil
}

// Layout validates and lays out a table. bodyWidth is the usable page
// width, used by fill_body tables.
//
// The caller's columns and rows are not modified.
func (e *Engine) Layout(columns []Column, rows []Row, opts TableOptions, bodyWidth float64) (*Table, error) {
	if err := Validate(columns, rows); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		Columns: make([]*Column, len(columns)),
		Rows:    make([]*RowLayout, len(rows)),
		Options: opts,
	}
	for i := range columns {
		c := columns[i]
		c.X, c.placed = 0, false
		t.Columns[i] = &c
	}
	for i, r := range rows {
		t.Rows[i] = &RowLayout{Cells: cellText(r, columns)}
	}

	e.measure(t)

	if opts.Width == WidthFillBody && e.FillParent(t, bodyWidth) {
		e.Logger.WithFields(logrus.Fields{
			"columns": len(t.Columns),
			"width":   t.Width(),
		}).Debug("Redistributed column widths to fill body")
	}
	e.Normalize(t)

	e.Logger.WithFields(logrus.Fields{
		"columns": len(t.Columns),
		"rows":    len(t.Rows),
		"width":   t.Width(),
		"height":  t.Height(),
	}).Debug("Laid out table")

	return t, nil
}

// cellText converts the values of keys known to columns into strings.
func cellText(r Row, columns []Column) map[string]string {
	cells := make(map[string]string, len(columns))
	for _, c := range columns {
		v, ok := r[c.Key]
		if !ok {
			continue
		}
		if v == nil {
			cells[c.Key] = ""
			continue
		}
		cells[c.Key] = fmt.Sprint(v)
	}
	return cells
}

// measure is the provisional pass: column widths grow to fit the widest
// (clipped) cell and the header label, and each row's height is measured
// at the width its cells asked for.
func (e *Engine) measure(t *Table) {
	o := t.Options
	padding := o.CellsPadding
	cellStyle := o.cellStyle()
	headStyle := o.headStyle()

	for _, c := range t.Columns {
		labelWidth := e.measurer.TextWidth(c.Label, headStyle) + 2*padding
		if c.Width < labelWidth {
			c.Width = labelWidth
		}
	}

	for _, row := range t.Rows {
		maxRowHeight := MinRowHeight
		for _, c := range t.Columns {
			value, ok := row.Cell(c.Key)
			if !ok {
				continue
			}

			content := e.measurer.TextWidth(value, cellStyle)
			if o.CellsMaxWidth > 0 && content > o.CellsMaxWidth {
				content = o.CellsMaxWidth
			}
			width := content + 2*padding

			st := cellStyle
			st.Width = content
			if c.Align != "" {
				st.Align = c.Align
			}
			maxRowHeight = max(maxRowHeight, e.measurer.TextHeight(value, st))

			if c.Width < width {
				c.Width = width
			}
		}
		row.Height = maxRowHeight + 2*padding
	}
}

// Normalize re-measures every row at the final column widths.
func (e *Engine) Normalize(t *Table) {
	o := t.Options
	padding := o.CellsPadding

	for _, row := range t.Rows {
		maxRowHeight := MinRowHeight
		for _, c := range t.Columns {
			value, ok := row.Cell(c.Key)
			if !ok {
				continue
			}
			st := o.cellStyle()
			st.Width = max(c.Width-2*padding, 0)
			if c.Align != "" {
				st.Align = c.Align
			}
			maxRowHeight = max(maxRowHeight, e.measurer.TextHeight(value, st))
		}
		row.Height = maxRowHeight + 2*padding
	}
}

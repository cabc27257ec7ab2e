package layout

import "math"

// fillTolerance is the largest width difference treated as already filled.
const fillTolerance = 1e-9

// FillParent scales the content width of every column uniformly so the
// table spans bodyWidth minus the table's side margins. Paddings are kept.
// It reports whether any width changed; rows must be normalized afterwards.
func (e *Engine) FillParent(t *Table, bodyWidth float64) bool {
	o := t.Options
	padding := o.CellsPadding

	tableWidth := 0.0
	blanks := 0.0
	for _, c := range t.Columns {
		tableWidth += c.Width - 2*padding
		blanks += 2 * padding
	}

	target := bodyWidth - blanks - o.MarginLeft - o.MarginRight
	if target <= 0 || tableWidth <= 0 {
		return false
	}
	if math.Abs(tableWidth-target) <= fillTolerance {
		return false
	}

	scale := target / tableWidth
	for _, c := range t.Columns {
		c.Width = (c.Width-2*padding)*scale + 2*padding
	}
	return true
}

package style

import (
	"strconv"
	"strings"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/parser/css"
	"github.com/gompdf/pdftable/internal/parser/html"
	"github.com/gompdf/pdftable/internal/surface"
)

// StripedClass turns on row striping when set on a <table>.
const StripedClass = "striped"

// TableStyle is the styling of an imported table.
type TableStyle struct {
	Options layout.TableOptions
	// Aligns holds the body alignment for each header column, "" when the
	// column follows the table default.
	Aligns []surface.Align
}

// TableStyle maps the computed styles of t onto base. The <table>
// element sets table-wide values and margins, the first header cell sets the head
// row, and the cells of the first body row set cell values and per
// column alignment. Values that do not parse are ignored.
func (e *StyleEngine) TableStyle(t *html.Table, base layout.TableOptions) TableStyle {
	opts := base
	if opts.Border != nil {
		b := *opts.Border
		opts.Border = &b
	}

	table := e.Compute(t.Node)
	if v := table.Get("font-size"); v != "" {
		if n, err := css.ParseLength(v, base.CellsFontSize); err == nil && n > 0 {
			opts.CellsFontSize, opts.HeadFontSize = n, n
		}
	}
	if c, ok := color(table.Get("color")); ok {
		opts.CellsColor, opts.HeadColor = c, c
	}
	if a, ok := surface.ParseAlign(table.Get("text-align")); ok {
		opts.CellsAlign = a
	}
	if strings.TrimSpace(table.Get("width")) == "100%" {
		opts.Width = layout.WidthFillBody
	}
	if v := table.Get("margin"); v != "" {
		if top, right, bottom, left, err := css.ParseBox(v, opts.CellsFontSize); err == nil {
			opts.MarginTop, opts.MarginRight, opts.MarginBottom, opts.MarginLeft = top, right, bottom, left
		}
	}
	applyBorder(&opts, table)
	if t.Node.HasClass(StripedClass) {
		opts.Striped = true
	}

	if len(t.Header) > 0 {
		head := e.Compute(t.Header[0])
		if c, ok := color(head.Get("background-color")); ok {
			opts.HeadBackground = c
		}
		if c, ok := color(head.Get("color")); ok {
			opts.HeadColor = c
		}
		if v := head.Get("font-size"); v != "" {
			if n, err := css.ParseLength(v, opts.HeadFontSize); err == nil && n > 0 {
				opts.HeadFontSize = n
			}
		}
		if a, ok := surface.ParseAlign(head.Get("text-align")); ok {
			opts.HeadAlign = a
		}
		opts.HeadFont = weighted(opts.HeadFont, head.Get("font-weight"))
	}

	ts := TableStyle{Aligns: make([]surface.Align, len(t.Header))}
	if len(t.Rows) > 0 && len(t.Rows[0]) > 0 {
		for i, cell := range t.Rows[0] {
			cs := e.Compute(cell)
			if i < len(ts.Aligns) {
				ts.Aligns[i], _ = surface.ParseAlign(cs.Get("text-align"))
			}
			if i > 0 {
				continue
			}
			if v := cs.Get("padding"); v != "" {
				// one padding applies to every side, so the largest wins
				if top, right, bottom, left, err := css.ParseBox(v, opts.CellsFontSize); err == nil {
					if n := max(top, right, bottom, left); n >= 0 {
						opts.CellsPadding = n
					}
				}
			}
			if v := cs.Get("font-size"); v != "" {
				if n, err := css.ParseLength(v, opts.CellsFontSize); err == nil && n > 0 {
					opts.CellsFontSize = n
				}
			}
			if c, ok := color(cs.Get("color")); ok {
				opts.CellsColor = c
			}
			applyBorder(&opts, cs)
		}
	}

	ts.Options = opts
	return ts
}

func color(v string) (surface.Color, bool) {
	if v == "" {
		return surface.Color{}, false
	}
	c, err := surface.ParseColor(v)
	return c, err == nil
}

// applyBorder handles the border shorthand followed by border-width and
// border-color. "none" and a zero width remove the border.
func applyBorder(opts *layout.TableOptions, cs ComputedStyle) {
	if v := strings.TrimSpace(cs.Get("border")); v != "" {
		opts.Border = parseBorder(v, opts.Border)
	}
	if v := cs.Get("border-width"); v != "" {
		if n, err := css.ParseLength(v, opts.CellsFontSize); err == nil {
			if n <= 0 {
				opts.Border = nil
			} else {
				opts.Border = withBorder(opts.Border)
				opts.Border.Size = n
			}
		}
	}
	if c, ok := color(cs.Get("border-color")); ok && opts.Border != nil {
		opts.Border.Color = c
	}
}

func parseBorder(v string, cur *layout.Border) *layout.Border {
	b := withBorder(cur)
	for _, f := range strings.Fields(v) {
		switch strings.ToLower(f) {
		case "none", "hidden", "0":
			return nil
		case "solid", "dashed", "dotted", "double":
			continue
		}
		if n, err := css.ParseLength(f, 10); err == nil {
			if n <= 0 {
				return nil
			}
			b.Size = n
			continue
		}
		if c, ok := color(f); ok {
			b.Color = c
		}
	}
	return b
}

func withBorder(cur *layout.Border) *layout.Border {
	if cur == nil {
		return &layout.Border{Size: 0.75, Color: surface.Black}
	}
	return cur
}

// weighted switches the bold variant of a base-14 font name on or off.
func weighted(font, weight string) string {
	weight = strings.ToLower(strings.TrimSpace(weight))
	var bold bool
	switch weight {
	case "":
		return font
	case "bold", "bolder":
		bold = true
	case "normal", "lighter":
	default:
		n, err := strconv.Atoi(weight)
		if err != nil {
			return font
		}
		bold = n >= 600
	}

	plain := strings.TrimSuffix(font, "-Bold")
	if bold {
		return plain + "-Bold"
	}
	return plain
}

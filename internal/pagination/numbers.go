package pagination

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/surface"
)

// Position says where page numbers are drawn.
type Position struct {
	Top   bool
	Left  bool
	Right bool
}

// ParsePosition parses space separated tokens out of top, bottom, left
// and right. An empty string is bottom center.
func ParsePosition(s string) (Position, error) {
	var p Position
	var top, bottom bool
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		switch tok {
		case "top":
			top = true
		case "bottom":
			bottom = true
		case "left":
			p.Left = true
		case "right":
			p.Right = true
		default:
			return Position{}, errs.Configuration("SetPageNumbers", "unknown position %q", tok)
		}
	}
	if top && bottom {
		return Position{}, errs.Configuration("SetPageNumbers", "position %q is both top and bottom", s)
	}
	if p.Left && p.Right {
		return Position{}, errs.Configuration("SetPageNumbers", "position %q is both left and right", s)
	}
	p.Top = top
	return p, nil
}

func (p Position) String() string {
	v := "bottom"
	if p.Top {
		v = "top"
	}
	switch {
	case p.Left:
		v += " left"
	case p.Right:
		v += " right"
	}
	return v
}

// PageTemplate formats the page number of the current page.
type PageTemplate func(current, total int) string

// DefaultPageTemplate renders "1 of 3".
func DefaultPageTemplate(current, total int) string {
	return fmt.Sprintf("%d of %d", current, total)
}

// DefaultPageNumberStyle is Helvetica 10 in black.
func DefaultPageNumberStyle() surface.TextStyle {
	return surface.TextStyle{Font: "Helvetica", Size: 10, Color: surface.Black}
}

// PageNumbers describes a page numbering pass.
type PageNumbers struct {
	Template PageTemplate
	Position Position
	Style    surface.TextStyle
}

// StampPageNumbers draws a page number on every buffered page and
// returns to the last page.
func (e *Engine) StampPageNumbers(pn PageNumbers) error {
	tmpl := pn.Template
	if tmpl == nil {
		tmpl = DefaultPageTemplate
	}
	st := pn.Style
	if st.Font == "" {
		st.Font = "Helvetica"
	}
	if st.Size <= 0 {
		st.Size = 10
	}
	st.Width = 0
	st.Align = surface.AlignLeft

	s := e.surface
	r, err := s.BufferedPageRange()
	if err != nil {
		return fmt.Errorf("failed to read buffered page range: %w", err)
	}

	g := e.geometry
	y := g.Page.Height - g.Margins.Bottom
	if pn.Position.Top {
		y = g.Margins.Top / 2
	}

	for i := r.Start; i < r.Start+r.Count; i++ {
		str := tmpl(i+1, r.Count)
		if err := s.SwitchToPage(i); err != nil {
			return fmt.Errorf("failed to switch to page %d: %w", i, err)
		}
		s.SetFont(st.Font, st.Size)

		var x float64
		switch {
		case pn.Position.Left:
			x = g.Margins.Left
		case pn.Position.Right:
			x = g.Page.Width - g.Margins.Right - s.TextWidth(str, st)
		default:
			x = g.Page.Width/2 - s.TextWidth(str, st)/2
		}
		s.Text(str, x, y, st)
	}

	if r.Count > 0 {
		last := r.Start + r.Count - 1
		if err := s.SwitchToPage(last); err != nil {
			return fmt.Errorf("failed to switch to page %d: %w", last, err)
		}
		e.page = last
	}

	e.Logger.WithFields(logrus.Fields{
		"pages":    r.Count,
		"position": pn.Position.String(),
	}).Debug("Stamped page numbers")
	return nil
}

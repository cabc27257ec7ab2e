package api

import (
	"strconv"
	"strings"

	"github.com/gompdf/pdftable/internal/pagination"
	"github.com/gompdf/pdftable/internal/surface"
)

// Points returns an absolute band height
func Points(v float64) Height { return pagination.Points(v) }

// Percent returns a band height relative to the page height
func Percent(v float64) Height { return pagination.Percent(v) }

// ParseHeight parses "30" as points and "10%" as a percentage of the
// page height
func ParseHeight(s string) (Height, error) { return pagination.ParseHeight(s) }

// TextBand is a Renderer drawing one line of text, vertically centered in
// the band. "{page}" in Text is replaced with the 1-based page number.
type TextBand struct {
	Text  string
	Style TextStyle
	// Background, when set, fills the band before the text is drawn
	Background *Color
	// Rule, when set, draws a line of this color along the band edge
	// closest to the body
	Rule   *Color
	Footer bool
}

// Render draws the band into fr
func (b TextBand) Render(fr Frame) error {
	s := fr.Surface
	if b.Background != nil {
		s.Rect(fr.X, fr.Y, fr.Width, fr.Height)
		s.Fill(*b.Background)
	}
	if b.Rule != nil {
		y := fr.Y + fr.Height
		if b.Footer {
			y = fr.Y
		}
		s.SetLineWidth(0.5)
		s.Rect(fr.X, y, fr.Width, 0)
		s.Stroke(*b.Rule)
	}

	st := b.Style
	if st.Font == "" {
		st.Font = "Helvetica"
	}
	if st.Size <= 0 {
		st.Size = 10
	}
	if st.Align == "" {
		st.Align = surface.AlignLeft
	}
	st.Width = fr.Width

	text := strings.ReplaceAll(b.Text, "{page}", strconv.Itoa(fr.Page+1))
	s.SetFont(st.Font, st.Size)
	h := s.TextHeight(text, st)
	s.Text(text, fr.X, fr.Y+(fr.Height-h)/2, st)
	return nil
}

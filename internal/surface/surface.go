// Package surface defines the drawing capability the layout and
// pagination engines draw against.
package surface

import "strings"

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ParseAlign maps "left", "center"/"centre", "right" (any case, also the
// single letters L, C, R) to an Align. Unknown values yield "" and false.
func ParseAlign(s string) (Align, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "start":
		return AlignLeft, true
	case "center", "centre", "c", "middle":
		return AlignCenter, true
	case "right", "r", "end":
		return AlignRight, true
	}
	return "", false
}

// TextStyle describes how a string is measured or drawn.
// Width is the wrapping width; zero disables wrapping.
type TextStyle struct {
	Font  string
	Size  float64
	Width float64
	Align Align
	Color Color
}

// PageRange is the set of pages still addressable with SwitchToPage.
type PageRange struct {
	Start int
	Count int
}

// Measurer measures text.
type Measurer interface {
	TextWidth(text string, style TextStyle) float64
	TextHeight(text string, style TextStyle) float64
}

// Surface is a stateful cursor over one output document.
//
// Rect only records a path; the next Fill, Stroke or FillAndStroke paints
// it. Text draws wrapped text whose first line box starts at (x, y).
type Surface interface {
	Measurer

	SetFont(name string, size float64)
	SetFillColor(c Color)
	SetLineWidth(w float64)
	Rect(x, y, w, h float64)
	Fill(c Color)
	Stroke(c Color)
	FillAndStroke(fill, stroke Color)
	Text(text string, x, y float64, style TextStyle)

	NewPage() error
	PageSize() (width, height float64)

	// BufferedPageRange and SwitchToPage fail when pages are not kept
	// in memory after creation.
	BufferedPageRange() (PageRange, error)
	SwitchToPage(index int) error
}

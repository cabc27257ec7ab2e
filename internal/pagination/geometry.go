package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/surface"
)

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA0     = PageSize{Width: 2383.94, Height: 3370.39, Name: "A0"}
	PageSizeA1     = PageSize{Width: 1683.78, Height: 2383.94, Name: "A1"}
	PageSizeA2     = PageSize{Width: 1190.55, Height: 1683.78, Name: "A2"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
	PageSizeA6     = PageSize{Width: 297.64, Height: 419.53, Name: "A6"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
)

var pageSizes = map[string]PageSize{
	"a0":     PageSizeA0,
	"a1":     PageSizeA1,
	"a2":     PageSizeA2,
	"a3":     PageSizeA3,
	"a4":     PageSizeA4,
	"a5":     PageSizeA5,
	"a6":     PageSizeA6,
	"letter": PageSizeLetter,
	"legal":  PageSizeLegal,
}

// LookupPageSize returns the standard page size with the given name,
// ignoring case.
func LookupPageSize(name string) (PageSize, bool) {
	ps, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	return ps, ok
}

// Landscape returns the page size with the longer side horizontal.
func (p PageSize) Landscape() PageSize {
	if p.Width < p.Height {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// Portrait returns the page size with the longer side vertical.
func (p PageSize) Portrait() PageSize {
	if p.Width > p.Height {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Height is a band height, either in points or as a percentage of the
// page height.
type Height struct {
	Value   float64
	Percent bool
}

// Points returns an absolute height.
func Points(v float64) Height {
	return Height{Value: v}
}

// Percent returns a height relative to the page height.
func Percent(v float64) Height {
	return Height{Value: v, Percent: true}
}

// ParseHeight parses "12.5" as points and "10%" as a percentage.
func ParseHeight(s string) (Height, error) {
	raw := strings.TrimSpace(s)
	percent := strings.HasSuffix(raw, "%")
	if percent {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validHeight(v) {
		return Height{}, errs.Configuration("ParseHeight", "invalid height %q", s)
	}
	return Height{Value: v, Percent: percent}, nil
}

// validHeight rejects negative and non-finite values.
func validHeight(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Resolve converts h to points on a page of the given height.
func (h Height) Resolve(pageHeight float64) float64 {
	if h.Percent {
		return h.Value / 100 * pageHeight
	}
	return h.Value
}

func (h Height) String() string {
	v := strconv.FormatFloat(h.Value, 'f', -1, 64)
	if h.Percent {
		return v + "%"
	}
	return v
}

// Frame is the area handed to a band renderer.
type Frame struct {
	Surface surface.Surface
	// Page is the 0-based index of the page being drawn.
	Page          int
	X, Y          float64
	Width, Height float64
}

// Renderer draws the content of a header or footer band.
type Renderer interface {
	Render(Frame) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Frame) error

// Render calls f(fr).
func (f RendererFunc) Render(fr Frame) error {
	return f(fr)
}

// Band is a registered header or footer.
type Band struct {
	Height Height
	// HeightNumber is Height resolved against the page height.
	HeightNumber float64
	X, Y         float64
	Renderer     Renderer
}

// Geometry holds the page size, margins and bands a document is laid out
// on. It can be changed until Freeze is called.
type Geometry struct {
	Page    PageSize
	Margins Margins
	Header  *Band
	Footer  *Band

	frozen bool
}

// NewGeometry creates a geometry without bands.
func NewGeometry(page PageSize, margins Margins) *Geometry {
	return &Geometry{Page: page, Margins: margins}
}

// SetHeader registers the header band, replacing a previous one.
func (g *Geometry) SetHeader(h Height, r Renderer) error {
	b, err := g.band("RegisterHeader", h, r)
	if err != nil {
		return err
	}
	b.X, b.Y = g.Margins.Left, g.Margins.Top
	g.Header = b
	return nil
}

// SetFooter registers the footer band, replacing a previous one.
func (g *Geometry) SetFooter(h Height, r Renderer) error {
	b, err := g.band("RegisterFooter", h, r)
	if err != nil {
		return err
	}
	b.X, b.Y = g.Margins.Left, g.Page.Height-b.HeightNumber
	g.Footer = b
	return nil
}

func (g *Geometry) band(op string, h Height, r Renderer) (*Band, error) {
	if g.frozen {
		return nil, errs.Configuration(op, "page geometry is frozen once rendering has started")
	}
	if r == nil {
		return nil, errs.Configuration(op, "renderer is nil")
	}
	if !validHeight(h.Value) {
		return nil, errs.Configuration(op, "invalid height %s", h)
	}
	return &Band{Height: h, HeightNumber: h.Resolve(g.Page.Height), Renderer: r}, nil
}

// Freeze fixes the geometry. Later band registrations fail.
func (g *Geometry) Freeze() {
	g.frozen = true
}

// Frozen reports whether Freeze has been called.
func (g *Geometry) Frozen() bool {
	return g.frozen
}

// BodyWidth is the page width between the side margins.
func (g *Geometry) BodyWidth() float64 {
	return g.Page.Width - g.Margins.Left - g.Margins.Right
}

// BodyHeight is the page height minus the vertical margins and the footer.
func (g *Geometry) BodyHeight() float64 {
	h := g.Page.Height - g.Margins.Top - g.Margins.Bottom
	if g.Footer != nil {
		h -= g.Footer.HeightNumber
	}
	return h
}

// ContentTop is where content starts on every page.
func (g *Geometry) ContentTop() float64 {
	if g.Header != nil {
		return g.Margins.Top + g.Header.HeightNumber
	}
	return g.Margins.Top
}

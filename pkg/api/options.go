package api

import (
	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/surface"
)

// Options represents the page and document options of a Document
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// BufferPages keeps pages revisitable; page numbering requires it
	BufferPages bool
	// LineHeight is the line advance of the PDF surface as a multiple of
	// the font size
	LineHeight float64

	// Debug raises the default logger to debug level
	Debug bool
	// Logger receives layout and pagination events
	Logger logrus.FieldLogger

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		// Default to A4 paper size (595.28 x 841.89 points)
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		// Default margins (1 inch = 72 points)
		MarginTop:    72,
		MarginRight:  72,
		MarginBottom: 72,
		MarginLeft:   72,

		LineHeight: 1.2,
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithMargin sets all four page margins to m
func WithMargin(m float64) Option {
	return WithMargins(m, m, m, m)
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithBufferPages enables revisiting written pages
func WithBufferPages(buffer bool) Option {
	return func(o *Options) {
		o.BufferPages = buffer
	}
}

// WithLineHeight sets the line height factor of the PDF surface
func WithLineHeight(factor float64) Option {
	return func(o *Options) {
		o.LineHeight = factor
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// Standard page sizes in points (1/72 inch)
const (
	// A series
	PageSizeA0Width  = 2383.94
	PageSizeA0Height = 3370.39
	PageSizeA1Width  = 1683.78
	PageSizeA1Height = 2383.94
	PageSizeA2Width  = 1190.55
	PageSizeA2Height = 1683.78
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28
	PageSizeA6Width  = 297.64
	PageSizeA6Height = 419.53

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}

// TableOptions holds the style and sizing of one table
type TableOptions = layout.TableOptions

// TableOption is a function that modifies TableOptions
type TableOption func(*TableOptions)

// DefaultTableOptions returns the default table options
func DefaultTableOptions() TableOptions {
	return layout.DefaultTableOptions()
}

// WithTableOptions replaces all table options with opts
func WithTableOptions(opts TableOptions) TableOption {
	return func(o *TableOptions) {
		*o = opts
	}
}

// WithFillBody stretches or shrinks the table to span the body width
func WithFillBody() TableOption {
	return func(o *TableOptions) {
		o.Width = layout.WidthFillBody
	}
}

// WithTableMargins sets the space around a table
func WithTableMargins(top, right, bottom, left float64) TableOption {
	return func(o *TableOptions) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithBorder draws cell borders of the given width and color
func WithBorder(size float64, color surface.Color) TableOption {
	return func(o *TableOptions) {
		o.Border = &layout.Border{Size: size, Color: color}
	}
}

// WithoutBorder disables cell borders
func WithoutBorder() TableOption {
	return func(o *TableOptions) {
		o.Border = nil
	}
}

// WithStriped alternates row backgrounds. Without colors the default
// stripe colors are used.
func WithStriped(colors ...surface.Color) TableOption {
	return func(o *TableOptions) {
		o.Striped = true
		if len(colors) >= 2 {
			o.StripedColors = [2]surface.Color{colors[0], colors[1]}
		}
	}
}

// WithHeadStyle sets the header row font, size and colors
func WithHeadStyle(font string, size float64, color, background surface.Color) TableOption {
	return func(o *TableOptions) {
		o.HeadFont = font
		o.HeadFontSize = size
		o.HeadColor = color
		o.HeadBackground = background
	}
}

// WithHeadAlign sets the alignment of column labels
func WithHeadAlign(align surface.Align) TableOption {
	return func(o *TableOptions) {
		o.HeadAlign = align
	}
}

// WithHeadHeight sets the content height of the header row
func WithHeadHeight(height float64) TableOption {
	return func(o *TableOptions) {
		o.HeadHeight = height
	}
}

// WithCellsStyle sets the body cell font, size and color
func WithCellsStyle(font string, size float64, color surface.Color) TableOption {
	return func(o *TableOptions) {
		o.CellsFont = font
		o.CellsFontSize = size
		o.CellsColor = color
	}
}

// WithCellsAlign sets the default alignment of body cells
func WithCellsAlign(align surface.Align) TableOption {
	return func(o *TableOptions) {
		o.CellsAlign = align
	}
}

// WithCellsPadding sets the padding inside every cell
func WithCellsPadding(padding float64) TableOption {
	return func(o *TableOptions) {
		o.CellsPadding = padding
	}
}

// WithCellsMaxWidth caps the content width a cell asks for
func WithCellsMaxWidth(width float64) TableOption {
	return func(o *TableOptions) {
		o.CellsMaxWidth = width
	}
}

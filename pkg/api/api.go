package api

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/pagination"
	"github.com/gompdf/pdftable/internal/render/pdf"
	"github.com/gompdf/pdftable/internal/surface"
)

// Types shared with the internal packages
type (
	Surface      = surface.Surface
	TextStyle    = surface.TextStyle
	Color        = surface.Color
	Align        = surface.Align
	Column       = layout.Column
	Row          = layout.Row
	Height       = pagination.Height
	Frame        = pagination.Frame
	Renderer     = pagination.Renderer
	RendererFunc = pagination.RendererFunc
	PageTemplate = pagination.PageTemplate
)

// BandOptions configures a header or footer band
type BandOptions struct {
	Height Height
}

// Document lays out tables and paginates them onto a drawing surface.
// A Document is not safe for concurrent use.
type Document struct {
	options   Options
	surface   surface.Surface
	pdf       *pdf.Surface
	logger    logrus.FieldLogger
	geometry  *pagination.Geometry
	layout    *layout.Engine
	paginator *pagination.Engine

	tables   []*layout.Table
	numbers  *pagination.PageNumbers
	ends     []float64
	rendered bool
}

// New creates a document drawing on s. The page size is taken from s.
func New(s surface.Surface, opts ...Option) *Document {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return newDocument(s, options)
}

// NewPDF creates a document drawing on a new PDF surface
func NewPDF(opts ...Option) (*Document, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	logger := newLogger(options)

	// fpdf swaps the sides of a landscape page itself, so both
	// orientations start from portrait dimensions.
	width, height := options.PageWidth, options.PageHeight
	if width > height {
		width, height = height, width
	}
	orientation := "P"
	switch options.PageOrientation {
	case PageOrientationLandscape:
		orientation = "L"
	case PageOrientationPortrait, "":
	default:
		return nil, errs.Configuration("NewPDF", "unknown page orientation %q", options.PageOrientation)
	}

	s, err := pdf.New(pdf.Options{
		PageWidth:   width,
		PageHeight:  height,
		Orientation: orientation,
		BufferPages: options.BufferPages,
		LineHeight:  options.LineHeight,
		Title:       options.Title,
		Author:      options.Author,
		Subject:     options.Subject,
		Keywords:    options.Keywords,
		Creator:     "pdftable",
		Producer:    "pdftable",
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF surface: %w", err)
	}

	options.Logger = logger
	d := newDocument(s, options)
	d.pdf = s
	return d, nil
}

func newLogger(options Options) logrus.FieldLogger {
	if options.Logger != nil {
		return options.Logger
	}
	logger := logging.Discard()
	if options.Debug {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newDocument(s surface.Surface, options Options) *Document {
	logger := newLogger(options)

	width, height := s.PageSize()
	geometry := pagination.NewGeometry(
		pagination.PageSize{Width: width, Height: height, Name: "Custom"},
		pagination.Margins{
			Top:    options.MarginTop,
			Right:  options.MarginRight,
			Bottom: options.MarginBottom,
			Left:   options.MarginLeft,
		},
	)

	layoutEngine := layout.NewEngine(s)
	layoutEngine.Logger = logger
	paginator := pagination.NewEngine(s, geometry)
	paginator.Logger = logger

	return &Document{
		options:   options,
		surface:   s,
		logger:    logger,
		geometry:  geometry,
		layout:    layoutEngine,
		paginator: paginator,
	}
}

// Options returns the options the document was created with
func (d *Document) Options() Options {
	return d.options
}

// Surface returns the drawing surface
func (d *Document) Surface() surface.Surface {
	return d.surface
}

// BodyWidth is the page width between the margins
func (d *Document) BodyWidth() float64 {
	return d.geometry.BodyWidth()
}

// BodyHeight is the page height between the margins, minus the footer
func (d *Document) BodyHeight() float64 {
	return d.geometry.BodyHeight()
}

// ContentTop is where tables start on every page
func (d *Document) ContentTop() float64 {
	return d.geometry.ContentTop()
}

// RegisterHeader sets the band drawn at the top of every page.
// Registering again before Render replaces the band.
func (d *Document) RegisterHeader(opts BandOptions, r Renderer) error {
	if err := d.geometry.SetHeader(opts.Height, r); err != nil {
		return err
	}
	d.logger.WithField("height", d.geometry.Header.HeightNumber).Debug("Registered header band")
	return nil
}

// RegisterFooter sets the band drawn at the bottom of every page.
// Registering again before Render replaces the band.
func (d *Document) RegisterFooter(opts BandOptions, r Renderer) error {
	if err := d.geometry.SetFooter(opts.Height, r); err != nil {
		return err
	}
	d.logger.WithField("height", d.geometry.Footer.HeightNumber).Debug("Registered footer band")
	return nil
}

// AddTable lays out a table and appends it to the document. Widths and
// heights are computed immediately; nothing is drawn until Render.
func (d *Document) AddTable(columns []Column, rows []Row, opts ...TableOption) error {
	if d.rendered {
		return errs.Configuration("AddTable", "document is already rendered")
	}

	options := DefaultTableOptions()
	for _, opt := range opts {
		opt(&options)
	}

	t, err := d.layout.Layout(columns, rows, options, d.geometry.BodyWidth())
	if err != nil {
		return err
	}
	d.tables = append(d.tables, t)
	d.logger.WithField("table", len(d.tables)-1).Debug("Added table")
	return nil
}

// Tables returns the laid-out tables in append order
func (d *Document) Tables() []*layout.Table {
	return d.tables
}

// Render draws every table. It can be called once; page numbers requested
// earlier are stamped at the end.
func (d *Document) Render() error {
	if d.rendered {
		return errs.Configuration("Render", "document is already rendered")
	}
	d.rendered = true

	ends, err := d.paginator.RenderDocument(d.tables)
	d.ends = ends
	if err != nil {
		return err
	}

	if d.numbers != nil {
		if err := d.paginator.StampPageNumbers(*d.numbers); err != nil {
			return err
		}
	}

	d.logger.WithFields(logrus.Fields{
		"tables": len(d.tables),
		"pages":  d.paginator.Page() + 1,
	}).Debug("Rendered document")
	return nil
}

// Rendered reports whether Render has been called
func (d *Document) Rendered() bool {
	return d.rendered
}

// TableEnds returns the cursor position after each rendered table
func (d *Document) TableEnds() []float64 {
	return d.ends
}

// PageCount returns the number of pages written
func (d *Document) PageCount() int {
	return d.paginator.Page() + 1
}

// SetPageNumbers stamps a page number on every page. Before Render the
// request is validated and kept until rendering finishes. A nil template
// renders "current of total"; a zero style is Helvetica 10 in black.
func (d *Document) SetPageNumbers(template PageTemplate, position string, style TextStyle) error {
	if !d.options.BufferPages {
		return errs.Configuration("SetPageNumbers", "page buffering is disabled; enable it with WithBufferPages(true)")
	}
	pos, err := pagination.ParsePosition(position)
	if err != nil {
		return err
	}
	if template == nil {
		template = pagination.DefaultPageTemplate
	}
	if style == (TextStyle{}) {
		style = pagination.DefaultPageNumberStyle()
	}

	pn := pagination.PageNumbers{Template: template, Position: pos, Style: style}
	if !d.rendered {
		d.numbers = &pn
		return nil
	}
	return d.paginator.StampPageNumbers(pn)
}

func (d *Document) pdfSurface(op string) (*pdf.Surface, error) {
	if d.pdf == nil {
		return nil, errs.Configuration(op, "document does not draw on a PDF surface")
	}
	if !d.rendered {
		if err := d.Render(); err != nil {
			return nil, err
		}
	}
	return d.pdf, nil
}

// Output writes the PDF to w, rendering first if needed
func (d *Document) Output(w io.Writer) error {
	s, err := d.pdfSurface("Output")
	if err != nil {
		return err
	}
	return s.Output(w)
}

// OutputFile writes the PDF to outputPath, rendering first if needed
func (d *Document) OutputFile(outputPath string) error {
	s, err := d.pdfSurface("OutputFile")
	if err != nil {
		return err
	}
	return s.OutputFile(outputPath)
}

package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/surface"
	"github.com/gompdf/pdftable/internal/text"
)

// DefaultWidthCacheSize is the number of measured strings kept per surface.
const DefaultWidthCacheSize = 4096

// Options contains options for the PDF surface
type Options struct {
	// Page size in points
	PageWidth  float64
	PageHeight float64
	// Orientation is "P" for portrait or "L" for landscape
	Orientation string

	// BufferPages keeps written pages revisitable for page numbering
	BufferPages bool
	// LineHeight is the line advance as a multiple of the font size
	LineHeight float64
	// WidthCacheSize bounds the string width cache; 0 selects the default
	WidthCacheSize int

	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	Logger logrus.FieldLogger
}

type widthKey struct {
	family string
	style  string
	size   float64
	text   string
}

type rect struct {
	x, y, w, h float64
}

// Surface draws on an fpdf document. All coordinates are in points with
// the origin at the top-left corner of the page.
type Surface struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	widths     *lru.Cache[widthKey, float64]
	lineHeight float64
	buffered   bool
	logger     logrus.FieldLogger

	family  string
	style   string
	size    float64
	pending *rect
}

// New creates a PDF surface
func New(opts Options) (*Surface, error) {
	orient := opts.Orientation
	if orient == "" {
		orient = "P"
	}
	width, height := opts.PageWidth, opts.PageHeight
	if width <= 0 || height <= 0 {
		width, height = 595.28, 841.89
	}

	cacheSize := opts.WidthCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultWidthCacheSize
	}
	widths, err := lru.New[widthKey, float64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create width cache: %w", err)
	}

	lineHeight := opts.LineHeight
	if lineHeight <= 0 {
		lineHeight = text.DefaultLineHeight
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor(opts.Author, true)
	pdf.SetSubject(opts.Subject, true)
	pdf.SetKeywords(opts.Keywords, true)
	pdf.SetCreator(opts.Creator, true)
	pdf.SetProducer(opts.Producer, true)

	s := &Surface{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		widths:     widths,
		lineHeight: lineHeight,
		buffered:   opts.BufferPages,
		logger:     logger,
	}
	s.SetFont("Helvetica", 12)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to initialize PDF: %w", err)
	}
	return s, nil
}

// Fpdf exposes the underlying document.
func (s *Surface) Fpdf() *fpdf.Fpdf {
	return s.pdf
}

// parseFontName maps a PostScript style name such as "Helvetica-Bold" or
// "Times-BoldItalic" onto an fpdf core family and style string.
func parseFontName(name string) (family, style string) {
	base, variant, _ := strings.Cut(strings.TrimSpace(name), "-")

	switch strings.ToLower(base) {
	case "arial", "helvetica", "sans-serif", "":
		family = "Helvetica"
	case "times", "times new roman", "serif":
		family = "Times"
	case "courier", "courier new", "monospace":
		family = "Courier"
	case "symbol":
		return "Symbol", ""
	case "zapfdingbats":
		return "ZapfDingbats", ""
	default:
		family = "Helvetica"
	}

	v := strings.ToLower(variant)
	if strings.Contains(v, "bold") {
		style += "B"
	}
	if strings.Contains(v, "italic") || strings.Contains(v, "oblique") {
		style += "I"
	}
	return family, style
}

func (s *Surface) useFont(name string, size float64) {
	family, style := s.family, s.style
	if name != "" {
		family, style = parseFontName(name)
	}
	if size <= 0 {
		size = s.size
	}
	if family == s.family && style == s.style && size == s.size {
		return
	}
	s.pdf.SetFont(family, style, size)
	s.family, s.style, s.size = family, style, size
}

// stringWidth measures a single line, already encoded with s.tr, in the
// current font.
func (s *Surface) stringWidth(line string) float64 {
	key := widthKey{family: s.family, style: s.style, size: s.size, text: line}
	if w, ok := s.widths.Get(key); ok {
		return w
	}
	w := s.pdf.GetStringWidth(line)
	s.widths.Add(key, w)
	return w
}

// withFont runs fn with the font of style selected and restores the
// current font afterwards.
func (s *Surface) withFont(style surface.TextStyle, fn func()) {
	family, fstyle, size := s.family, s.style, s.size
	s.useFont(style.Font, style.Size)
	fn()
	if s.family != family || s.style != fstyle || s.size != size {
		s.pdf.SetFont(family, fstyle, size)
		s.family, s.style, s.size = family, fstyle, size
	}
}

// TextWidth returns the unwrapped width of the widest line.
func (s *Surface) TextWidth(str string, style surface.TextStyle) float64 {
	var w float64
	s.withFont(style, func() {
		for _, line := range strings.Split(str, "\n") {
			w = max(w, s.stringWidth(s.tr(line)))
		}
	})
	return w
}

// lines splits str the way Text lays it out and returns the lines encoded
// with s.tr, so measuring and wrapping see the same bytes. The current
// font must already be the one of the text.
func (s *Surface) lines(str string, width float64) []string {
	if str == "" {
		return nil
	}
	var out []string
	for _, para := range strings.Split(str, "\n") {
		para = s.tr(para)
		if width <= 0 || para == "" || s.stringWidth(para) <= width {
			out = append(out, para)
			continue
		}
		for _, line := range s.pdf.SplitText(widen(para), width) {
			out = append(out, narrow(line))
		}
	}
	return out
}

// widen maps every byte of an encoded string to the rune of the same
// value. SplitText indexes glyph widths by rune, so this keeps its widths
// equal to GetStringWidth on the encoded bytes.
func widen(encoded string) string {
	r := make([]rune, len(encoded))
	for i := 0; i < len(encoded); i++ {
		r[i] = rune(encoded[i])
	}
	return string(r)
}

// narrow is the inverse of widen.
func narrow(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return string(b)
}

// TextHeight returns the height of str wrapped at style.Width.
func (s *Surface) TextHeight(str string, style surface.TextStyle) float64 {
	var h float64
	s.withFont(style, func() {
		h = float64(len(s.lines(str, style.Width))) * s.size * s.lineHeight
	})
	return h
}

func (s *Surface) SetFont(name string, size float64) {
	s.useFont(name, size)
}

func (s *Surface) SetFillColor(c surface.Color) {
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (s *Surface) SetLineWidth(w float64) {
	s.pdf.SetLineWidth(w)
}

func (s *Surface) Rect(x, y, w, h float64) {
	s.pending = &rect{x: x, y: y, w: w, h: h}
}

func (s *Surface) paint(op string) {
	if s.pending == nil {
		return
	}
	r := s.pending
	s.pending = nil
	s.pdf.SetLineJoinStyle("miter")
	s.pdf.Rect(r.x, r.y, r.w, r.h, op)
}

func (s *Surface) Fill(c surface.Color) {
	s.SetFillColor(c)
	s.paint("F")
}

func (s *Surface) Stroke(c surface.Color) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.paint("D")
}

func (s *Surface) FillAndStroke(fill, stroke surface.Color) {
	s.SetFillColor(fill)
	s.pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	s.paint("FD")
}

// Text draws str with its top-left corner at (x, y). A positive
// style.Width wraps the text and aligns each line inside that width.
func (s *Surface) Text(str string, x, y float64, style surface.TextStyle) {
	s.useFont(style.Font, style.Size)
	c := style.Color
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))

	lineH := s.size * s.lineHeight
	// Approximate ascent of the core fonts, centered in the line box.
	ascent := (lineH-s.size)/2 + 0.8*s.size

	for i, line := range s.lines(str, style.Width) {
		lx := x
		if style.Width > 0 {
			switch style.Align {
			case surface.AlignCenter:
				lx = x + (style.Width-s.stringWidth(line))/2
			case surface.AlignRight:
				lx = x + style.Width - s.stringWidth(line)
			}
		}
		s.pdf.Text(lx, y+float64(i)*lineH+ascent, line)
	}
}

func (s *Surface) NewPage() error {
	s.pending = nil
	s.pdf.AddPage()
	if err := s.pdf.Error(); err != nil {
		return fmt.Errorf("failed to add page: %w", err)
	}
	s.logger.WithField("page", s.pdf.PageCount()).Debug("Added PDF page")
	return nil
}

func (s *Surface) PageSize() (float64, float64) {
	return s.pdf.GetPageSize()
}

func (s *Surface) BufferedPageRange() (surface.PageRange, error) {
	if !s.buffered {
		return surface.PageRange{}, surface.ErrNotBuffered
	}
	return surface.PageRange{Start: 0, Count: s.pdf.PageCount()}, nil
}

func (s *Surface) SwitchToPage(index int) error {
	if !s.buffered {
		return surface.ErrNotBuffered
	}
	if index < 0 || index >= s.pdf.PageCount() {
		return fmt.Errorf("page %d out of range [0, %d)", index, s.pdf.PageCount())
	}
	s.pdf.SetPage(index + 1)
	return nil
}

// PageCount returns the number of pages written so far.
func (s *Surface) PageCount() int {
	return s.pdf.PageCount()
}

// Output writes the document to w.
func (s *Surface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"pages":         s.pdf.PageCount(),
		"cached_widths": s.widths.Len(),
	}).Debug("Wrote PDF")
	return nil
}

// OutputFile writes the document to outputPath, creating parent
// directories as needed.
func (s *Surface) OutputFile(outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := s.pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write PDF file: %w", err)
	}
	return nil
}

var _ surface.Surface = (*Surface)(nil)

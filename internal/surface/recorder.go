package surface

import (
	"errors"
	"fmt"

	"github.com/gompdf/pdftable/internal/text"
)

// OpKind names a recorded drawing call.
type OpKind string

const (
	OpNewPage       OpKind = "newPage"
	OpSwitchPage    OpKind = "switchPage"
	OpSetFont       OpKind = "setFont"
	OpSetFillColor  OpKind = "setFillColor"
	OpSetLineWidth  OpKind = "setLineWidth"
	OpRect          OpKind = "rect"
	OpFill          OpKind = "fill"
	OpStroke        OpKind = "stroke"
	OpFillAndStroke OpKind = "fillAndStroke"
	OpText          OpKind = "text"
)

// Op is one recorded call. Paint operations carry the geometry of the
// rectangle they paint.
type Op struct {
	Kind   OpKind
	Page   int
	X, Y   float64
	W, H   float64
	Text   string
	Font   string
	Size   float64
	Align  Align
	Fill   Color
	Stroke Color
}

// ErrNotBuffered is returned by page revisiting calls on an unbuffered Recorder.
var ErrNotBuffered = errors.New("surface: pages are not buffered")

// Recorder is an in-memory Surface that measures with text.TextShaper
// metrics and records every call. Pages are numbered from 0.
type Recorder struct {
	Width, Height float64
	// LineHeight is the line advance as a multiple of the font size.
	LineHeight float64
	// Unbuffered makes BufferedPageRange and SwitchToPage fail.
	Unbuffered bool
	// NewPageErr, when set, is returned by NewPage.
	NewPageErr error

	Ops []Op

	shaper  *text.TextShaper
	font    string
	size    float64
	pages   int
	current int
	pending *Op
}

// NewRecorder creates a Recorder with the given page size in points.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		Width:      width,
		Height:     height,
		LineHeight: text.DefaultLineHeight,
		shaper:     text.NewTextShaper(),
		font:       "Helvetica",
		size:       12,
		current:    -1,
	}
}

func (r *Recorder) fontFor(style TextStyle) *text.Font {
	size := style.Size
	if size <= 0 {
		size = r.size
	}
	return &text.Font{Family: style.Font, Size: size, LineHeight: r.LineHeight}
}

// TextWidth returns the unwrapped width of the widest line.
func (r *Recorder) TextWidth(s string, style TextStyle) float64 {
	w, _ := r.shaper.MeasureText(s, r.fontFor(style))
	return w
}

// TextHeight returns the height of s wrapped at style.Width.
func (r *Recorder) TextHeight(s string, style TextStyle) float64 {
	return r.shaper.WrappedHeight(s, r.fontFor(style), style.Width)
}

// Lines returns s split the way Text would lay it out.
func (r *Recorder) Lines(s string, style TextStyle) []string {
	return r.shaper.SplitTextToLines(s, r.fontFor(style), style.Width)
}

func (r *Recorder) record(op Op) {
	op.Page = r.current
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) SetFont(name string, size float64) {
	r.font, r.size = name, size
	r.record(Op{Kind: OpSetFont, Font: name, Size: size})
}

func (r *Recorder) SetFillColor(c Color) {
	r.record(Op{Kind: OpSetFillColor, Fill: c})
}

func (r *Recorder) SetLineWidth(w float64) {
	r.record(Op{Kind: OpSetLineWidth, W: w})
}

func (r *Recorder) Rect(x, y, w, h float64) {
	op := Op{Kind: OpRect, X: x, Y: y, W: w, H: h}
	r.pending = &op
	r.record(op)
}

func (r *Recorder) paint(kind OpKind, fill, stroke Color) {
	op := Op{Kind: kind, Fill: fill, Stroke: stroke}
	if r.pending != nil {
		op.X, op.Y, op.W, op.H = r.pending.X, r.pending.Y, r.pending.W, r.pending.H
		r.pending = nil
	}
	r.record(op)
}

func (r *Recorder) Fill(c Color)                     { r.paint(OpFill, c, Color{}) }
func (r *Recorder) Stroke(c Color)                   { r.paint(OpStroke, Color{}, c) }
func (r *Recorder) FillAndStroke(fill, stroke Color) { r.paint(OpFillAndStroke, fill, stroke) }

func (r *Recorder) Text(s string, x, y float64, style TextStyle) {
	font := style.Font
	if font == "" {
		font = r.font
	}
	r.record(Op{
		Kind:  OpText,
		X:     x,
		Y:     y,
		W:     style.Width,
		Text:  s,
		Font:  font,
		Size:  r.fontFor(style).Size,
		Align: style.Align,
		Fill:  style.Color,
	})
}

func (r *Recorder) NewPage() error {
	if r.NewPageErr != nil {
		return r.NewPageErr
	}
	r.current = r.pages
	r.pages++
	r.pending = nil
	r.record(Op{Kind: OpNewPage})
	return nil
}

func (r *Recorder) PageSize() (float64, float64) {
	return r.Width, r.Height
}

func (r *Recorder) BufferedPageRange() (PageRange, error) {
	if r.Unbuffered {
		return PageRange{}, ErrNotBuffered
	}
	return PageRange{Start: 0, Count: r.pages}, nil
}

func (r *Recorder) SwitchToPage(index int) error {
	if r.Unbuffered {
		return ErrNotBuffered
	}
	if index < 0 || index >= r.pages {
		return fmt.Errorf("surface: page %d out of range [0, %d)", index, r.pages)
	}
	r.current = index
	r.record(Op{Kind: OpSwitchPage})
	return nil
}

// PageCount returns the number of pages created so far.
func (r *Recorder) PageCount() int {
	return r.pages
}

// OpsOfKind returns the recorded operations of the given kinds, in order.
func (r *Recorder) OpsOfKind(kinds ...OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		for _, k := range kinds {
			if op.Kind == k {
				out = append(out, op)
				break
			}
		}
	}
	return out
}

// TextsOnPage returns the strings drawn on page, in order.
func (r *Recorder) TextsOnPage(page int) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText && op.Page == page {
			out = append(out, op.Text)
		}
	}
	return out
}

var _ Surface = (*Recorder)(nil)

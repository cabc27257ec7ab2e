package job

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/importer"
	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/pagination"
	"github.com/gompdf/pdftable/internal/res"
	"github.com/gompdf/pdftable/internal/surface"
	"github.com/gompdf/pdftable/pkg/api"
)

// Builder turns jobs into documents. Relative sources are resolved by
// the loader.
type Builder struct {
	Loader *res.Loader
	Logger logrus.FieldLogger
}

// NewBuilder creates a builder reading sources through loader
func NewBuilder(loader *res.Loader) *Builder {
	return &Builder{Loader: loader, Logger: logging.Discard()}
}

// PageSize returns the oriented page size of j in points.
func (j *Job) PageSize() (float64, float64, error) {
	p := j.Page
	size := pagination.PageSizeA4
	switch {
	case p.Width > 0 && p.Height > 0:
		size = pagination.PageSize{Width: p.Width, Height: p.Height}
	case p.Width != 0 || p.Height != 0:
		return 0, 0, errs.Configuration("PageSize", "page width and height must both be positive")
	case p.Size != "":
		var ok bool
		if size, ok = pagination.LookupPageSize(p.Size); !ok {
			return 0, 0, errs.Configuration("PageSize", "unknown page size %q", p.Size)
		}
	}
	if strings.EqualFold(p.Orientation, "landscape") {
		size = size.Landscape()
	}
	return size.Width, size.Height, nil
}

// Options returns the document options of j.
func (j *Job) Options() ([]api.Option, error) {
	w, h, err := j.PageSize()
	if err != nil {
		return nil, err
	}
	opts := []api.Option{
		api.WithPageSize(w, h),
		api.WithTitle(j.Metadata.Title),
		api.WithAuthor(j.Metadata.Author),
		api.WithSubject(j.Metadata.Subject),
		api.WithKeywords(j.Metadata.Keywords),
	}
	if strings.EqualFold(j.Page.Orientation, "landscape") {
		opts = append(opts, api.WithPageOrientation(api.PageOrientationLandscape))
	}
	if j.Page.LineHeight > 0 {
		opts = append(opts, api.WithLineHeight(j.Page.LineHeight))
	}

	buffer := j.PageNumbers != nil
	if j.Page.BufferPages != nil {
		buffer = *j.Page.BufferPages
	}
	opts = append(opts, api.WithBufferPages(buffer))

	if m := j.Margins; m != nil {
		d := api.DefaultOptions()
		top, right, bottom, left := d.MarginTop, d.MarginRight, d.MarginBottom, d.MarginLeft
		m.apply(&top, &right, &bottom, &left)
		opts = append(opts, api.WithMargins(top, right, bottom, left))
	}
	return opts, nil
}

func (m *MarginsSpec) apply(top, right, bottom, left *float64) {
	if m.All != nil {
		*top, *right, *bottom, *left = *m.All, *m.All, *m.All, *m.All
	}
	for _, s := range []struct {
		v   *float64
		dst *float64
	}{{m.Top, top}, {m.Right, right}, {m.Bottom, bottom}, {m.Left, left}} {
		if s.v != nil {
			*s.dst = *s.v
		}
	}
}

// OutputPath returns Output resolved against the job file, or the job
// path with a .pdf extension.
func (j *Job) OutputPath() string {
	if j.Output == "" {
		if j.Path == "" {
			return "out.pdf"
		}
		return strings.TrimSuffix(j.Path, filepath.Ext(j.Path)) + ".pdf"
	}
	if filepath.IsAbs(j.Output) || j.Path == "" {
		return j.Output
	}
	return filepath.Join(filepath.Dir(j.Path), j.Output)
}

// PDF builds j onto a new PDF surface.
func (b *Builder) PDF(j *Job, extra ...api.Option) (*api.Document, error) {
	opts, err := j.Options()
	if err != nil {
		return nil, err
	}
	d, err := api.NewPDF(append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	if err := b.Apply(j, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Recorder builds j onto a recording surface of the job's page size.
func (b *Builder) Recorder(j *Job, extra ...api.Option) (*api.Document, *surface.Recorder, error) {
	opts, err := j.Options()
	if err != nil {
		return nil, nil, err
	}
	w, h, _ := j.PageSize()
	rec := surface.NewRecorder(w, h)
	d := api.New(rec, append(opts, extra...)...)
	if err := b.Apply(j, d); err != nil {
		return nil, nil, err
	}
	return d, rec, nil
}

// Apply registers the bands, tables and page numbers of j on d.
func (b *Builder) Apply(j *Job, d *api.Document) error {
	if j.Header != nil {
		if err := registerBand(d.RegisterHeader, j.Header, false); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	if j.Footer != nil {
		if err := registerBand(d.RegisterFooter, j.Footer, true); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}

	for i := range j.Tables {
		if err := b.addTables(d, &j.Tables[i]); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
	}

	if pn := j.PageNumbers; pn != nil {
		style, err := pn.TextSpec.style(pagination.DefaultPageNumberStyle())
		if err != nil {
			return fmt.Errorf("page_numbers: %w", err)
		}
		if err := d.SetPageNumbers(pageTemplate(pn.Template), pn.Position, style); err != nil {
			return err
		}
	}
	return nil
}

func registerBand(register func(api.BandOptions, api.Renderer) error, spec *BandSpec, footer bool) error {
	h, err := api.ParseHeight(spec.Height)
	if err != nil {
		return err
	}
	style, err := spec.TextSpec.style(surface.TextStyle{Font: "Helvetica", Size: 10, Align: surface.AlignCenter})
	if err != nil {
		return err
	}
	band := api.TextBand{Text: spec.Text, Style: style, Footer: footer}
	if band.Background, err = optionalColor(spec.Background); err != nil {
		return err
	}
	if band.Rule, err = optionalColor(spec.Rule); err != nil {
		return err
	}
	return register(api.BandOptions{Height: h}, band)
}

// pageTemplate replaces {page} and {pages}; an empty template keeps the
// default.
func pageTemplate(tmpl string) api.PageTemplate {
	if tmpl == "" {
		return nil
	}
	return func(current, total int) string {
		return strings.NewReplacer(
			"{page}", strconv.Itoa(current),
			"{pages}", strconv.Itoa(total),
		).Replace(tmpl)
	}
}

func (b *Builder) addTables(d *api.Document, spec *TableSpec) error {
	if spec.HTML != "" {
		return b.addHTMLTables(d, spec)
	}

	var (
		rows []layout.Row
		keys []string
		err  error
	)
	if spec.Source != "" {
		rows, keys, err = loadRows(b.Loader, spec.Source)
	} else {
		rows, keys, err = decodeRows(&spec.Rows)
	}
	if err != nil {
		return err
	}

	opts := api.DefaultTableOptions()
	if err := spec.Options.apply(&opts); err != nil {
		return err
	}
	columns, err := spec.columns(keys)
	if err != nil {
		return err
	}
	return d.AddTable(columns, rows, api.WithTableOptions(opts))
}

func (b *Builder) addHTMLTables(d *api.Document, spec *TableSpec) error {
	loader, err := b.Loader.WithBase(spec.HTML)
	if err != nil {
		return err
	}
	im := importer.New(loader)
	im.Logger = b.Logger
	tables, err := im.ImportURL(loader.BaseURL)
	if err != nil {
		return err
	}
	if spec.Index != nil {
		i := *spec.Index
		if i < 0 || i >= len(tables) {
			return errs.Configuration("AddTable", "%s has %d tables, index %d is out of range", spec.HTML, len(tables), i)
		}
		tables = tables[i : i+1]
	}
	if len(tables) == 0 {
		return errs.Configuration("AddTable", "%s has no tables with rows", spec.HTML)
	}

	for _, t := range tables {
		opts := t.Options
		if err := spec.Options.apply(&opts); err != nil {
			return err
		}
		if err := d.AddTable(t.Columns, t.Rows, api.WithTableOptions(opts)); err != nil {
			return err
		}
	}
	return nil
}

// columns converts the column list, or derives one column per row key
// labeled with the key.
func (t *TableSpec) columns(keys []string) ([]layout.Column, error) {
	if len(t.Columns) == 0 {
		out := make([]layout.Column, len(keys))
		for i, k := range keys {
			out[i] = layout.Column{Key: k, Label: k}
		}
		return out, nil
	}

	out := make([]layout.Column, len(t.Columns))
	for i, c := range t.Columns {
		label := c.Label
		if label == "" {
			label = c.Key
		}
		col := layout.Column{Key: c.Key, Label: label, Width: c.Width}
		if c.Align != "" {
			a, ok := surface.ParseAlign(c.Align)
			if !ok {
				return nil, errs.Configuration("AddTable", "column %q: unknown alignment %q", c.Key, c.Align)
			}
			col.Align = a
		}
		out[i] = col
	}
	return out, nil
}

func (o *OptionsSpec) apply(opts *layout.TableOptions) error {
	if o == nil {
		return nil
	}
	switch layout.WidthMode(o.Width) {
	case "":
	case layout.WidthAuto, layout.WidthFillBody:
		opts.Width = layout.WidthMode(o.Width)
	default:
		return errs.Configuration("AddTable", "unknown width mode %q", o.Width)
	}
	if o.Margins != nil {
		o.Margins.apply(&opts.MarginTop, &opts.MarginRight, &opts.MarginBottom, &opts.MarginLeft)
	}
	if b := o.Border; b != nil {
		if b.None {
			opts.Border = nil
		} else {
			border := layout.Border{Size: 0.1, Color: surface.Black}
			if opts.Border != nil {
				border = *opts.Border
			}
			if b.Size > 0 {
				border.Size = b.Size
			}
			if b.Color != "" {
				c, err := parseColor(b.Color)
				if err != nil {
					return err
				}
				border.Color = c
			}
			opts.Border = &border
		}
	}
	if o.Striped != nil {
		opts.Striped = *o.Striped
	}
	if len(o.StripedColors) > 0 {
		if len(o.StripedColors) != 2 {
			return errs.Configuration("AddTable", "striped_colors needs two colors, got %d", len(o.StripedColors))
		}
		for i, s := range o.StripedColors {
			c, err := parseColor(s)
			if err != nil {
				return err
			}
			opts.StripedColors[i] = c
		}
	}
	if h := o.Head; h != nil {
		if err := h.apply(opts); err != nil {
			return err
		}
	}
	if c := o.Cells; c != nil {
		if err := c.apply(opts); err != nil {
			return err
		}
	}
	return nil
}

func (h *HeadSpec) apply(opts *layout.TableOptions) error {
	st, err := h.TextSpec.style(surface.TextStyle{
		Font: opts.HeadFont, Size: opts.HeadFontSize, Color: opts.HeadColor, Align: opts.HeadAlign,
	})
	if err != nil {
		return err
	}
	opts.HeadFont, opts.HeadFontSize, opts.HeadColor, opts.HeadAlign = st.Font, st.Size, st.Color, st.Align
	if h.Background != "" {
		if opts.HeadBackground, err = parseColor(h.Background); err != nil {
			return err
		}
	}
	if h.Height > 0 {
		opts.HeadHeight = h.Height
	}
	return nil
}

func (c *CellsSpec) apply(opts *layout.TableOptions) error {
	st, err := c.TextSpec.style(surface.TextStyle{
		Font: opts.CellsFont, Size: opts.CellsFontSize, Color: opts.CellsColor, Align: opts.CellsAlign,
	})
	if err != nil {
		return err
	}
	opts.CellsFont, opts.CellsFontSize, opts.CellsColor, opts.CellsAlign = st.Font, st.Size, st.Color, st.Align
	if c.Padding != nil {
		if *c.Padding < 0 {
			return errs.Configuration("AddTable", "cell padding must not be negative")
		}
		opts.CellsPadding = *c.Padding
	}
	if c.MaxWidth != nil {
		opts.CellsMaxWidth = *c.MaxWidth
	}
	return nil
}

// style overlays the set fields of s on def.
func (s TextSpec) style(def surface.TextStyle) (surface.TextStyle, error) {
	st := def
	if s.Font != "" {
		st.Font = s.Font
	}
	if s.Size > 0 {
		st.Size = s.Size
	}
	if s.Color != "" {
		c, err := parseColor(s.Color)
		if err != nil {
			return st, err
		}
		st.Color = c
	}
	if s.Align != "" {
		a, ok := surface.ParseAlign(s.Align)
		if !ok {
			return st, errs.Configuration("Parse", "unknown alignment %q", s.Align)
		}
		st.Align = a
	}
	return st, nil
}

func parseColor(s string) (surface.Color, error) {
	c, err := surface.ParseColor(s)
	if err != nil {
		return c, errs.Configuration("Parse", "%v", err)
	}
	return c, nil
}

func optionalColor(s string) (*surface.Color, error) {
	if s == "" {
		return nil, nil
	}
	c, err := parseColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Package importer turns the tables of an HTML document into table
// definitions, styled by the document's stylesheets and inline styles.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/logging"
	"github.com/gompdf/pdftable/internal/parser/css"
	"github.com/gompdf/pdftable/internal/parser/html"
	"github.com/gompdf/pdftable/internal/res"
	"github.com/gompdf/pdftable/internal/style"
	"github.com/gompdf/pdftable/internal/surface"
)

// KeyAttr overrides the generated column key of a header cell.
const KeyAttr = "data-key"

// Table is one imported table.
type Table struct {
	Caption string
	Columns []layout.Column
	Rows    []layout.Row
	Options layout.TableOptions
}

// Importer converts HTML tables.
type Importer struct {
	// Base are the options styles are applied on top of.
	Base   layout.TableOptions
	Logger logrus.FieldLogger

	loader *res.Loader
}

// New creates an importer resolving linked stylesheets with loader. A nil
// loader skips linked stylesheets.
func New(loader *res.Loader) *Importer {
	return &Importer{
		Base:   layout.DefaultTableOptions(),
		Logger: logging.Discard(),
		loader: loader,
	}
}

// ImportURL loads an HTML document through the loader and imports it.
func (im *Importer) ImportURL(src string) ([]Table, error) {
	if im.loader == nil {
		return nil, fmt.Errorf("failed to load %s: no resource loader", src)
	}
	r, err := im.loader.LoadHTML(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML: %w", err)
	}
	return im.ImportString(r.GetString())
}

// ImportString parses and imports an HTML document.
func (im *Importer) ImportString(content string) ([]Table, error) {
	doc, err := html.NewParser().ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return im.Import(doc), nil
}

// Import converts every table of doc that has at least one body row.
func (im *Importer) Import(doc *html.Document) []Table {
	engine := style.NewStyleEngine()
	for _, sheet := range im.stylesheets(doc) {
		engine.AddStylesheet(sheet)
	}

	var out []Table
	for i, t := range doc.Tables() {
		if len(t.Rows) == 0 {
			im.Logger.WithField("table", i).Warn("Skipping table without body rows")
			continue
		}
		ts := engine.TableStyle(t, im.Base)
		columns := buildColumns(t, ts.Aligns)
		out = append(out, Table{
			Caption: t.Caption,
			Columns: columns,
			Rows:    buildRows(t, columns),
			Options: ts.Options,
		})
		im.Logger.WithFields(logging.Fields{
			"table":   i,
			"columns": len(columns),
			"rows":    len(t.Rows),
		}).Debug("Imported table")
	}
	return out
}

// stylesheets parses the document's stylesheets in source order. Links
// that fail to load are logged and skipped.
func (im *Importer) stylesheets(doc *html.Document) []*css.Stylesheet {
	parser := css.NewParser()
	var sheets []*css.Stylesheet
	for _, s := range doc.Stylesheets() {
		text := s.CSS
		if s.Link != "" {
			if im.loader == nil {
				continue
			}
			r, err := im.loader.LoadCSS(s.Link)
			if err != nil {
				im.Logger.WithError(err).WithField("href", s.Link).Warn("Failed to load stylesheet")
				continue
			}
			text = r.GetString()
		}
		sheet, err := parser.ParseString(text)
		if err != nil {
			im.Logger.WithError(err).Warn("Failed to parse stylesheet")
			continue
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

// buildColumns uses the header cells, or one unlabeled column per cell of
// the widest row for tables without a header. Keys come from data-key or
// are generated from the label and made unique with a numeric suffix.
func buildColumns(t *html.Table, aligns []surface.Align) []layout.Column {
	count := len(t.Header)
	if count == 0 {
		for _, r := range t.Rows {
			count = max(count, len(r))
		}
	}

	explicit := make(map[string]bool)
	for _, th := range t.Header {
		if k := strings.TrimSpace(th.AttrValue(KeyAttr)); k != "" {
			explicit[k] = true
		}
	}

	used := make(map[string]bool)
	columns := make([]layout.Column, count)
	for i := range columns {
		var label, key string
		if i < len(t.Header) {
			label = t.Header[i].Text()
			key = strings.TrimSpace(t.Header[i].AttrValue(KeyAttr))
		}
		if key == "" {
			key = unique(Slug(label, i), used, explicit)
		}
		used[key] = true

		columns[i] = layout.Column{Key: key, Label: label}
		if i < len(aligns) {
			columns[i].Align = aligns[i]
		}
	}
	return columns
}

func unique(key string, used, reserved map[string]bool) string {
	if !used[key] && !reserved[key] {
		return key
	}
	for n := 2; ; n++ {
		k := key + "_" + strconv.Itoa(n)
		if !used[k] && !reserved[k] {
			return k
		}
	}
}

// buildRows maps cells to column keys by position. Cells beyond the last
// column are dropped and short rows leave the remaining keys unset.
func buildRows(t *html.Table, columns []layout.Column) []layout.Row {
	rows := make([]layout.Row, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := make(layout.Row, len(cells))
		for i, cell := range cells {
			if i >= len(columns) {
				break
			}
			row[columns[i].Key] = cell.Text()
		}
		rows = append(rows, row)
	}
	return rows
}

// Slug derives a column key from a label: lower-cased letters and digits,
// other runs collapsed to one underscore. An empty result becomes col<i+1>.
func Slug(label string, i int) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	if b.Len() == 0 {
		return "col" + strconv.Itoa(i+1)
	}
	return b.String()
}

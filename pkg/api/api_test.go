package api

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gompdf/pdftable/internal/surface"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

var columns = []Column{
	{Key: "id", Label: "A"},
	{Key: "name", Label: "Name"},
	{Key: "qty", Label: "Qty"},
}

func rows(n int) []Row {
	out := make([]Row, n)
	for i := range out {
		out[i] = Row{"id": i, "name": fmt.Sprintf("item %d", i), "qty": i * 3}
	}
	return out
}

func newDoc(opts ...Option) (*Document, *surface.Recorder) {
	rec := surface.NewRecorder(600, 800)
	opts = append([]Option{WithMargin(20)}, opts...)
	return New(rec, opts...), rec
}

func TestRenderEndToEnd(t *testing.T) {
	d, rec := newDoc()
	if err := d.AddTable(columns, rows(2)); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if err := d.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// top + header band + two single-line rows + bottom margin
	want := []float64{20 + 20 + 20.8 + 20.8 + 5}
	if diff := cmp.Diff(want, d.TableEnds(), approx); diff != "" {
		t.Errorf("table ends (-want +got):\n%s", diff)
	}
	if rec.PageCount() != 1 || d.PageCount() != 1 {
		t.Errorf("got %d pages (document says %d), want 1", rec.PageCount(), d.PageCount())
	}
}

func TestRenderTwice(t *testing.T) {
	d, _ := newDoc()
	if err := d.AddTable(columns, rows(1)); err != nil {
		t.Fatal(err)
	}
	if err := d.Render(); err != nil {
		t.Fatal(err)
	}

	noop := RendererFunc(func(Frame) error { return nil })
	checks := map[string]error{
		"Render":         d.Render(),
		"AddTable":       d.AddTable(columns, rows(1)),
		"RegisterHeader": d.RegisterHeader(BandOptions{Height: Points(10)}, noop),
		"RegisterFooter": d.RegisterFooter(BandOptions{Height: Points(10)}, noop),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s after Render = %v, want a configuration error", name, err)
		}
	}
}

func TestAddTableValidation(t *testing.T) {
	d, _ := newDoc()
	if err := d.AddTable(columns, rows(1)); err != nil {
		t.Fatal(err)
	}

	err := d.AddTable([]Column{{Key: "a"}, {Key: "a"}}, rows(1))
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Key != "a" {
		t.Errorf("duplicate keys: got %v, want DuplicateKeyError", err)
	}
	if err := d.AddTable(columns, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("no rows: got %v, want a configuration error", err)
	}
	bad := WithTableOptions(TableOptions{Width: "fill", CellsFontSize: 9, HeadFontSize: 10})
	if err := d.AddTable(columns, rows(1), bad); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown width mode: got %v, want a configuration error", err)
	}
	if err := d.AddTable(columns, rows(1), WithCellsPadding(-1)); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative padding: got %v, want a configuration error", err)
	}
	if got := len(d.Tables()); got != 1 {
		t.Errorf("got %d tables after failed appends, want 1", got)
	}
}

func TestTableOptions(t *testing.T) {
	d, _ := newDoc()
	red := surface.MustParseColor("red")
	err := d.AddTable(columns, rows(3),
		WithFillBody(),
		WithTableMargins(4, 10, 8, 10),
		WithStriped(),
		WithBorder(1, red),
		WithCellsAlign(surface.AlignLeft),
		WithCellsPadding(4),
	)
	if err != nil {
		t.Fatal(err)
	}

	tbl := d.Tables()[0]
	if diff := cmp.Diff(d.BodyWidth()-20, tbl.Width(), approx); diff != "" {
		t.Errorf("fill_body width (-want +got):\n%s", diff)
	}
	o := tbl.Options
	if !o.Striped || o.Border == nil || o.Border.Color != red || o.CellsAlign != surface.AlignLeft {
		t.Errorf("options not applied: %+v", o)
	}

	if err := d.AddTable(columns, rows(1), WithoutBorder(), WithTableOptions(DefaultTableOptions())); err != nil {
		t.Fatal(err)
	}
	if d.Tables()[1].Options.Border == nil {
		t.Error("WithTableOptions did not replace earlier options")
	}
}

func TestBandsAndGeometry(t *testing.T) {
	d, rec := newDoc()
	header := TextBand{Text: "Report page {page}", Style: TextStyle{Size: 12}}
	footer := TextBand{Text: "Confidential", Footer: true}

	if err := d.RegisterHeader(BandOptions{Height: Percent(10)}, header); err != nil {
		t.Fatal(err)
	}
	if err := d.RegisterFooter(BandOptions{Height: Points(30)}, footer); err != nil {
		t.Fatal(err)
	}
	if got := d.ContentTop(); got != 100 {
		t.Errorf("ContentTop = %v, want 100", got)
	}
	if got := d.BodyHeight(); got != 730 {
		t.Errorf("BodyHeight = %v, want 730", got)
	}

	if err := d.AddTable(columns, rows(40)); err != nil {
		t.Fatal(err)
	}
	if err := d.Render(); err != nil {
		t.Fatal(err)
	}
	if rec.PageCount() < 2 {
		t.Fatalf("got %d pages, want several", rec.PageCount())
	}
	for page := 0; page < rec.PageCount(); page++ {
		texts := rec.TextsOnPage(page)
		want := []string{fmt.Sprintf("Report page %d", page+1), "Confidential", "A", "Name", "Qty"}
		if diff := cmp.Diff(want, texts[:5]); diff != "" {
			t.Errorf("page %d starts with (-want +got):\n%s", page, diff)
		}
	}
}

func TestSetPageNumbers(t *testing.T) {
	t.Run("unbuffered", func(t *testing.T) {
		d, _ := newDoc()
		err := d.SetPageNumbers(nil, "bottom", TextStyle{})
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("got %v, want a configuration error", err)
		}
	})

	t.Run("bad position", func(t *testing.T) {
		d, _ := newDoc(WithBufferPages(true))
		err := d.SetPageNumbers(nil, "top bottom", TextStyle{})
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("got %v, want a configuration error", err)
		}
	})

	for _, deferred := range []bool{true, false} {
		t.Run(fmt.Sprintf("deferred=%v", deferred), func(t *testing.T) {
			d, rec := newDoc(WithBufferPages(true))
			if err := d.AddTable(columns, rows(60)); err != nil {
				t.Fatal(err)
			}
			tmpl := func(current, total int) string { return fmt.Sprintf("Page %d/%d", current, total) }
			if deferred {
				if err := d.SetPageNumbers(tmpl, "bottom right", TextStyle{}); err != nil {
					t.Fatal(err)
				}
			}
			if err := d.Render(); err != nil {
				t.Fatal(err)
			}
			if !deferred {
				if err := d.SetPageNumbers(tmpl, "bottom right", TextStyle{}); err != nil {
					t.Fatal(err)
				}
			}

			total := rec.PageCount()
			for page := 0; page < total; page++ {
				texts := rec.TextsOnPage(page)
				want := fmt.Sprintf("Page %d/%d", page+1, total)
				if got := texts[len(texts)-1]; got != want {
					t.Errorf("page %d: last text %q, want %q", page, got, want)
				}
			}
		})
	}
}

func TestOutputRequiresPDFSurface(t *testing.T) {
	d, _ := newDoc()
	if err := d.Output(&bytes.Buffer{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Output on a recorder document = %v, want a configuration error", err)
	}
}

func TestNewPDF(t *testing.T) {
	d, err := NewPDF(
		WithPageSizeLetter(),
		WithPageOrientation(PageOrientationLandscape),
		WithMargin(36),
		WithBufferPages(true),
		WithTitle("Inventory"),
	)
	if err != nil {
		t.Fatal(err)
	}
	w, h := d.Surface().PageSize()
	if w != PageSizeLetterHeight || h != PageSizeLetterWidth {
		t.Errorf("page size = %v x %v, want landscape letter", w, h)
	}

	if err := d.AddTable(columns, rows(80), WithStriped()); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPageNumbers(nil, "", TextStyle{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF-") {
		t.Error("output is not a PDF")
	}
	if d.PageCount() < 2 {
		t.Errorf("got %d pages, want several", d.PageCount())
	}
}

func TestNewPDFOrientation(t *testing.T) {
	if _, err := NewPDF(WithPageOrientation("sideways")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v, want a configuration error", err)
	}
}

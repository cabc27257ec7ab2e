package pagination

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/surface"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

var testColumns = []layout.Column{
	{Key: "id", Label: "A"},
	{Key: "name", Label: "Name"},
	{Key: "qty", Label: "Qty"},
}

func numberedRows(n int) []layout.Row {
	rows := make([]layout.Row, n)
	for i := range rows {
		rows[i] = layout.Row{"id": i, "name": fmt.Sprintf("row %d", i), "qty": i}
	}
	return rows
}

// Every row of numberedRows is a single line: 10.8 + 2×5 = 20.8pt tall.
func layoutTable(t *testing.T, rec *surface.Recorder, rows []layout.Row, mutate ...func(*layout.TableOptions)) *layout.Table {
	t.Helper()
	opts := layout.DefaultTableOptions()
	for _, m := range mutate {
		m(&opts)
	}
	tbl, err := layout.NewEngine(rec).Layout(testColumns, rows, opts, rec.Width-40)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return tbl
}

func newTestEngine(w, h float64) (*Engine, *surface.Recorder) {
	rec := surface.NewRecorder(w, h)
	g := NewGeometry(PageSize{Width: w, Height: h}, Margins{Top: 20, Right: 20, Bottom: 20, Left: 20})
	return NewEngine(rec, g), rec
}

func TestRenderSinglePage(t *testing.T) {
	e, rec := newTestEngine(600, 800)
	e.geometry.Margins.Top = 30
	tbl := layoutTable(t, rec, numberedRows(2))

	ends, err := e.RenderDocument([]*layout.Table{tbl})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	// top + header band + two rows + table bottom margin
	want := 30 + 20 + 20.8 + 20.8 + 5
	if diff := cmp.Diff([]float64{want}, ends, approx); diff != "" {
		t.Errorf("end cursor (-want +got):\n%s", diff)
	}
	if got := rec.PageCount(); got != 1 {
		t.Errorf("got %d pages, want 1", got)
	}
	wantTexts := []string{"A", "Name", "Qty", "0", "row 0", "0", "1", "row 1", "1"}
	if diff := cmp.Diff(wantTexts, rec.TextsOnPage(0)); diff != "" {
		t.Errorf("texts (-want +got):\n%s", diff)
	}
	if !e.geometry.Frozen() {
		t.Error("RenderDocument did not freeze the geometry")
	}
}

func TestRenderBreaksPages(t *testing.T) {
	e, rec := newTestEngine(600, 300)
	tbl := layoutTable(t, rec, numberedRows(12))

	ends, err := e.RenderDocument([]*layout.Table{tbl})
	if err != nil {
		t.Fatal(err)
	}
	// limit = (300-40) - 20 - 5 = 235; rows start at 40, so row 9 is the
	// first one whose bottom would pass it.
	if got := rec.PageCount(); got != 2 {
		t.Fatalf("got %d pages, want 2", got)
	}

	page1 := rec.TextsOnPage(1)
	if diff := cmp.Diff([]string{"A", "Name", "Qty", "9", "row 9", "9"}, page1[:6]); diff != "" {
		t.Errorf("page 1 does not start with a header row and row 9 (-want +got):\n%s", diff)
	}
	for _, s := range rec.TextsOnPage(0) {
		if s == "row 9" {
			t.Error("row 9 drawn on page 0")
		}
	}

	var firstText surface.Op
	for _, op := range rec.OpsOfKind(surface.OpText) {
		if op.Page == 1 {
			firstText = op
			break
		}
	}
	// Header row redrawn at the content top: 20 + (20 - 12)/2.
	if diff := cmp.Diff(24.0, firstText.Y, approx); diff != "" {
		t.Errorf("header label y on page 1 (-want +got):\n%s", diff)
	}

	want := 20 + 20 + 3*20.8 + 5
	if diff := cmp.Diff([]float64{want}, ends, approx); diff != "" {
		t.Errorf("end cursor (-want +got):\n%s", diff)
	}

	for _, op := range rec.OpsOfKind(surface.OpStroke) {
		if op.Y+op.H > e.limit(tbl)+1e-9 {
			t.Errorf("row rect on page %d ends at %v, past the limit", op.Page, op.Y+op.H)
		}
	}
}

func TestRenderBreaksBeforeHeaderRow(t *testing.T) {
	e, rec := newTestEngine(600, 300)
	first := layoutTable(t, rec, numberedRows(9))
	second := layoutTable(t, rec, numberedRows(2))

	ends, err := e.RenderDocument([]*layout.Table{first, second})
	if err != nil {
		t.Fatal(err)
	}
	// The first table ends at 232.2; the second one's header and first row
	// do not fit below it.
	want := []float64{40 + 9*20.8 + 5, 20 + 20 + 2*20.8 + 5}
	if diff := cmp.Diff(want, ends, approx); diff != "" {
		t.Errorf("end cursors (-want +got):\n%s", diff)
	}
	if got := rec.PageCount(); got != 2 {
		t.Errorf("got %d pages, want 2", got)
	}
}

func TestRenderOversizedRow(t *testing.T) {
	e, rec := newTestEngine(600, 120)
	rows := []layout.Row{
		{"id": 1, "name": "a\nb\nc\nd\ne\nf\ng\nh\ni\nj"},
		{"id": 2, "name": "a\nb\nc\nd\ne\nf\ng\nh\ni\nj"},
	}
	tbl := layoutTable(t, rec, rows)

	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}
	if got := rec.PageCount(); got != 2 {
		t.Errorf("got %d pages, want one per oversized row", got)
	}
}

func TestRenderOversizedFirstRowWithTopMargin(t *testing.T) {
	e, rec := newTestEngine(600, 120)
	rows := []layout.Row{{"id": 1, "name": "a\nb\nc\nd\ne\nf\ng\nh\ni\nj", "qty": 1}}
	tbl := layoutTable(t, rec, rows, func(o *layout.TableOptions) { o.MarginTop = 5 })

	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}
	if got := rec.PageCount(); got != 1 {
		t.Fatalf("got %d pages, want 1", got)
	}
	if got := rec.TextsOnPage(0); len(got) == 0 || got[0] != "A" {
		t.Errorf("page 0 texts = %q, want the header row first", got)
	}
}

func TestColumnOffsets(t *testing.T) {
	e, rec := newTestEngine(600, 300)
	tbl := layoutTable(t, rec, numberedRows(30), func(o *layout.TableOptions) {
		o.MarginLeft = 15
	})
	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}

	if got := tbl.Columns[0].X; got != 35 {
		t.Errorf("first column X = %v, want 35", got)
	}
	for i := 1; i < len(tbl.Columns); i++ {
		prev, cur := tbl.Columns[i-1], tbl.Columns[i]
		if diff := cmp.Diff(prev.X+prev.Width, cur.X, approx); diff != "" {
			t.Errorf("column %d X (-want +got):\n%s", i, diff)
		}
	}
}

func TestRowPainting(t *testing.T) {
	light, dark := surface.MustParseColor("#fff"), surface.MustParseColor("#f0ecd5")
	border := surface.MustParseColor("#cdcdcd")

	tests := []struct {
		name    string
		striped bool
		border  bool
		want    []surface.Op
	}{
		{
			name:    "striped",
			striped: true,
			want: []surface.Op{
				{Kind: surface.OpFill, Fill: light},
				{Kind: surface.OpFill, Fill: dark},
			},
		},
		{
			name:   "bordered",
			border: true,
			want: []surface.Op{
				{Kind: surface.OpStroke, Stroke: border},
				{Kind: surface.OpStroke, Stroke: border},
			},
		},
		{
			name:    "striped and bordered",
			striped: true,
			border:  true,
			want: []surface.Op{
				{Kind: surface.OpFillAndStroke, Fill: light, Stroke: border},
				{Kind: surface.OpFillAndStroke, Fill: dark, Stroke: border},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(600, 800)
			cols := []layout.Column{{Key: "v", Label: "V"}}
			opts := layout.DefaultTableOptions()
			opts.Striped = tt.striped
			if !tt.border {
				opts.Border = nil
			}
			tbl, err := layout.NewEngine(rec).Layout(cols, []layout.Row{{"v": 1}, {"v": 2}}, opts, 560)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
				t.Fatal(err)
			}

			paints := rec.OpsOfKind(surface.OpFill, surface.OpStroke, surface.OpFillAndStroke)
			// The first paint is the header cell.
			got := paints[1:]
			opt := cmpopts.IgnoreFields(surface.Op{}, "Page", "X", "Y", "W", "H")
			if diff := cmp.Diff(tt.want, got, opt); diff != "" {
				t.Errorf("row paints (-want +got):\n%s", diff)
			}

			head := paints[0]
			wantHead := surface.OpFill
			if tt.border {
				wantHead = surface.OpFillAndStroke
			}
			if head.Kind != wantHead || head.Fill != opts.HeadBackground {
				t.Errorf("header paint = %v %v, want %v %v", head.Kind, head.Fill, wantHead, opts.HeadBackground)
			}
		})
	}
}

func TestRenderPlainTableDrawsNoRects(t *testing.T) {
	e, rec := newTestEngine(600, 800)
	tbl := layoutTable(t, rec, numberedRows(3), func(o *layout.TableOptions) {
		o.Border = nil
	})
	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}
	// Only the three header cells.
	if got := len(rec.OpsOfKind(surface.OpRect)); got != 3 {
		t.Errorf("got %d rects, want 3", got)
	}
}

func TestRenderCellText(t *testing.T) {
	e, rec := newTestEngine(600, 800)
	cols := []layout.Column{
		{Key: "he", Label: "Hebrew", Align: surface.AlignLeft},
		{Key: "en", Label: "English", Align: surface.AlignLeft},
		{Key: "gone", Label: "Missing"},
	}
	rows := []layout.Row{{"he": "שלום", "en": "hello"}}
	tbl, err := layout.NewEngine(rec).Layout(cols, rows, layout.DefaultTableOptions(), 560)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}

	texts := rec.OpsOfKind(surface.OpText)
	// Three header labels, then two cells; the missing key is skipped.
	if len(texts) != 5 {
		t.Fatalf("got %d text ops, want 5", len(texts))
	}
	he, en := texts[3], texts[4]
	if he.Align != surface.AlignRight {
		t.Errorf("right-to-left cell aligned %q, want right", he.Align)
	}
	if en.Align != surface.AlignLeft {
		t.Errorf("cell aligned %q, want left", en.Align)
	}

	c := tbl.Columns[1]
	if diff := cmp.Diff(c.X+5, en.X, approx); diff != "" {
		t.Errorf("cell x (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.Width-10, en.W, approx); diff != "" {
		t.Errorf("cell width (-want +got):\n%s", diff)
	}
	// Row starts at 40 and is 20.8 tall; one 10.8pt line is centered.
	if diff := cmp.Diff(45.0, en.Y, approx); diff != "" {
		t.Errorf("cell y (-want +got):\n%s", diff)
	}
}

func TestBandsOnEveryPage(t *testing.T) {
	e, rec := newTestEngine(600, 300)

	var frames []Frame
	record := RendererFunc(func(fr Frame) error {
		frames = append(frames, fr)
		return nil
	})
	if err := e.geometry.SetHeader(Percent(10), record); err != nil {
		t.Fatal(err)
	}
	if err := e.geometry.SetFooter(Points(15), record); err != nil {
		t.Fatal(err)
	}

	tbl := layoutTable(t, rec, numberedRows(12))
	if _, err := e.RenderDocument([]*layout.Table{tbl}); err != nil {
		t.Fatal(err)
	}

	pages := rec.PageCount()
	if pages < 2 {
		t.Fatalf("got %d pages, want at least 2", pages)
	}
	if len(frames) != 2*pages {
		t.Fatalf("got %d band renders, want %d", len(frames), 2*pages)
	}

	want := []Frame{
		{Surface: rec, Page: 0, X: 20, Y: 20, Width: 560, Height: 30},
		{Surface: rec, Page: 0, X: 20, Y: 285, Width: 560, Height: 15},
		{Surface: rec, Page: 1, X: 20, Y: 20, Width: 560, Height: 30},
		{Surface: rec, Page: 1, X: 20, Y: 285, Width: 560, Height: 15},
	}
	opt := cmp.Comparer(func(a, b surface.Surface) bool { return a == b })
	if diff := cmp.Diff(want, frames[:4], opt, approx); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}

	// The header row on page 1 starts below the header band.
	for _, op := range rec.OpsOfKind(surface.OpRect) {
		if op.Page == 1 {
			if op.Y != 50 {
				t.Errorf("first rect on page 1 at y=%v, want 50", op.Y)
			}
			break
		}
	}
}

func TestRenderErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")

	t.Run("band", func(t *testing.T) {
		e, rec := newTestEngine(600, 800)
		_ = e.geometry.SetFooter(Points(10), RendererFunc(func(Frame) error { return boom }))
		_, err := e.RenderDocument([]*layout.Table{layoutTable(t, rec, numberedRows(1))})
		if err != boom {
			t.Fatalf("got %v, want %v", err, boom)
		}
	})

	t.Run("surface", func(t *testing.T) {
		e, rec := newTestEngine(600, 800)
		rec.NewPageErr = boom
		_, err := e.RenderDocument([]*layout.Table{layoutTable(t, rec, numberedRows(1))})
		if err != boom {
			t.Fatalf("got %v, want %v", err, boom)
		}
	})

	t.Run("page break", func(t *testing.T) {
		e, rec := newTestEngine(600, 300)
		calls := 0
		_ = e.geometry.SetHeader(Points(5), RendererFunc(func(Frame) error {
			calls++
			if calls > 1 {
				return boom
			}
			return nil
		}))
		_, err := e.RenderDocument([]*layout.Table{layoutTable(t, rec, numberedRows(40))})
		if err != boom {
			t.Fatalf("got %v, want %v", err, boom)
		}
	})
}

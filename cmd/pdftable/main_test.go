package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/gompdf/pdftable/internal/logging"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeJob(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const sampleJob = `
output: report.pdf
tables:
  - columns: [{key: id, label: A}, {key: name, label: Name}]
    rows:
      - {id: 1, name: Widget}
      - {id: 2, name: Gadget}
`

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Version: dev\n") {
		t.Fatalf("got %q", out)
	}
}

func TestRenderDryRun(t *testing.T) {
	dir := writeJob(t, map[string]string{"job.yaml": sampleJob})

	out, _, err := execute(t, "render", "--dry-run", filepath.Join(dir, "job.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want := "pages: 1\ntable 1: 2 rows, ends at y=138.60\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.pdf")); !os.IsNotExist(err) {
		t.Fatal("dry run wrote a PDF")
	}
}

func TestRenderDryRunFromEnvironment(t *testing.T) {
	dir := writeJob(t, map[string]string{"job.yaml": sampleJob})
	t.Setenv("PDFTABLE_RENDER_DRY_RUN", "true")

	out, _, err := execute(t, "render", filepath.Join(dir, "job.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "pages: 1\n") {
		t.Fatalf("got %q", out)
	}
}

func TestRenderWritesPDF(t *testing.T) {
	dir := writeJob(t, map[string]string{"job.yaml": sampleJob})

	_, logs, err := execute(t, "render", "--log-format", "json", filepath.Join(dir, "job.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
	if !strings.Contains(logs, `"msg":"Wrote PDF"`) {
		t.Errorf("missing json log line in %q", logs)
	}

	custom := filepath.Join(dir, "out", "custom.pdf")
	if _, _, err := execute(t, "render", "-o", custom, filepath.Join(dir, "job.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Fatalf("custom output: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := writeJob(t, map[string]string{"bad.yaml": "tables: []"})

	tests := [][]string{
		{"render"},
		{"render", filepath.Join(dir, "missing.yaml")},
		{"render", filepath.Join(dir, "bad.yaml")},
		{"--log-level", "loud", "version"},
	}
	for _, args := range tests {
		if _, _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestHTMLDryRun(t *testing.T) {
	dir := writeJob(t, map[string]string{
		"page.html": `<table><thead><tr><th>City</th><th>Country</th></tr></thead>
			<tbody><tr><td>Oslo</td><td>Norway</td></tr></tbody></table>
			<table><tr><th>Empty</th></tr></table>`,
	})

	out, _, err := execute(t, "html", "--dry-run", "--page-numbers", "bottom", filepath.Join(dir, "page.html"))
	if err != nil {
		t.Fatal(err)
	}
	want := "pages: 1\ntable 1: 1 rows, ends at y=81.80\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := execute(t, "html", "--page-size", "B5", filepath.Join(dir, "page.html")); err == nil {
		t.Fatal("unknown page size accepted")
	}
}

func TestHTMLWritesPDF(t *testing.T) {
	dir := writeJob(t, map[string]string{
		"page.html": `<table><tr><th>a</th></tr><tr><td>1</td></tr></table>`,
	})
	if _, _, err := execute(t, "html", "--landscape", "--fill", filepath.Join(dir, "page.html")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "page.pdf")); err != nil {
		t.Fatalf("default output: %v", err)
	}
}

func TestOutputFor(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"reports/q1.html", filepath.Join("reports", "q1.pdf")},
		{"page.htm", "page.pdf"},
		{"https://example.com/stats/table.html?x=1", "table.pdf"},
		{"https://example.com/", "tables.pdf"},
		{"https://example.com", "tables.pdf"},
	}
	for _, tt := range tests {
		if got := outputFor(tt.src); got != tt.want {
			t.Errorf("outputFor(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{dir}, isJobInput, 20*time.Millisecond, logging.Discard(), func() {
			calls.Add(1)
		})
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "job.yaml"), []byte("tables: []"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "out.pdf"), []byte("%PDF-"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("onChange was not called")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watchFiles: %v", err)
	}
}

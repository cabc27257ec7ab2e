package res

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDataURL(t *testing.T) {
	tests := []struct {
		url      string
		data     string
		mimeType string
		typ      ResourceType
	}{
		{"data:text/csv;base64,aWQsbmFtZQoxLGE=", "id,name\n1,a", "text/csv", ResourceTypeCSV},
		{"data:application/json,%5B%7B%22a%22%3A1%7D%5D", `[{"a":1}]`, "application/json", ResourceTypeJSON},
		{"data:,hello", "hello", "text/plain", ResourceTypeUnknown},
	}
	l := NewLoader("")
	for _, tt := range tests {
		res, err := l.Load(tt.url)
		if err != nil {
			t.Fatalf("Load(%q): %v", tt.url, err)
		}
		if res.GetString() != tt.data || res.MimeType != tt.mimeType || res.Type != tt.typ {
			t.Errorf("Load(%q) = %q %s %s, want %q %s %s", tt.url, res.GetString(), res.MimeType, res.Type, tt.data, tt.mimeType, tt.typ)
		}
	}

	if _, err := l.Load("data:text/csv;base64,!!!"); err == nil {
		t.Error("invalid base64 accepted")
	}
	if _, err := l.Load("data:text/csv"); err == nil {
		t.Error("data URL without a comma accepted")
	}
}

func TestLocalFiles(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "jobs", "report.yaml")
	writeFile(t, job, "tables: []")
	writeFile(t, filepath.Join(dir, "jobs", "rows.csv"), "id\n1\n")
	writeFile(t, filepath.Join(dir, "shared", "style.css"), "td { color: red }")

	l := NewLoader(job)
	l.AddSearchPath(filepath.Join(dir, "shared"))

	res, err := l.LoadData("rows.csv")
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != ResourceTypeCSV || res.GetString() != "id\n1\n" {
		t.Errorf("rows.csv = %s %q", res.Type, res.GetString())
	}

	css, err := l.LoadCSS("style.css")
	if err != nil {
		t.Fatalf("search path lookup: %v", err)
	}
	if css.URL != filepath.Join(dir, "shared", "style.css") {
		t.Errorf("style.css resolved to %s", css.URL)
	}

	if _, err := l.LoadHTML("rows.csv"); err == nil {
		t.Error("LoadHTML accepted a CSV file")
	}
	if _, err := l.Load("missing.yaml"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: got %v, want %v", err, ErrNotFound)
	}
}

func TestCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	writeFile(t, path, "[]")

	l := NewLoader("")
	if _, err := l.Load(path); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, `[{"a": 1}]`)

	res, err := l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.GetString() != "[]" {
		t.Errorf("cached resource = %q, want the first read", res.GetString())
	}

	l.Invalidate()
	res, err = l.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.GetString() != `[{"a": 1}]` {
		t.Errorf("after Invalidate = %q, want the new content", res.GetString())
	}
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/rows.csv":
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			_, _ = w.Write([]byte("id\n1\n"))
		case "/data/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<table></table>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL + "/data/page.html")
	l.SetHTTPClient(srv.Client())

	res, err := l.LoadData("rows.csv")
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != ResourceTypeCSV || res.MimeType != "text/csv" {
		t.Errorf("rows.csv = %s %s, want csv text/csv", res.Type, res.MimeType)
	}
	if res.URL != srv.URL+"/data/rows.csv" {
		t.Errorf("resolved URL = %s", res.URL)
	}

	if _, err := l.LoadHTML(srv.URL + "/data/page.html"); err != nil {
		t.Errorf("LoadHTML: %v", err)
	}
	if _, err := l.Load("missing.csv"); err == nil {
		t.Error("404 accepted")
	}
}

func TestWithBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pages", "report.html"), "<table></table>")
	writeFile(t, filepath.Join(dir, "pages", "report.css"), "td { color: red }")
	writeFile(t, filepath.Join(dir, "shared", "base.css"), "th { color: blue }")

	l := NewLoader(filepath.Join(dir, "job.yaml"))
	l.AddSearchPath(filepath.Join(dir, "shared"))

	page, err := l.WithBase("pages/report.html")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := page.LoadCSS("report.css"); err != nil {
		t.Errorf("relative to the page: %v", err)
	}
	if _, err := page.LoadCSS("base.css"); err != nil {
		t.Errorf("search paths are shared: %v", err)
	}
	if _, err := l.LoadCSS("report.css"); !errors.Is(err, ErrNotFound) {
		t.Errorf("parent loader resolved report.css: %v", err)
	}
}

package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gompdf/pdftable/internal/logging"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeHTML is an HTML document with tables to import
	ResourceTypeHTML
	// ResourceTypeCSS is a stylesheet referenced by an HTML document
	ResourceTypeCSS
	// ResourceTypeYAML is a YAML job or row file
	ResourceTypeYAML
	// ResourceTypeJSON is a JSON row file
	ResourceTypeJSON
	// ResourceTypeCSV is a CSV row file with a header line
	ResourceTypeCSV
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeHTML:
		return "html"
	case ResourceTypeCSS:
		return "css"
	case ResourceTypeYAML:
		return "yaml"
	case ResourceTypeJSON:
		return "json"
	case ResourceTypeCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ErrNotFound is returned when a local resource exists in neither its
// resolved location nor any search path.
var ErrNotFound = errors.New("resource not found")

// DefaultTimeout bounds remote requests.
const DefaultTimeout = 30 * time.Second

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader handles loading resources
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string
	Logger  logrus.FieldLogger

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL:     baseURL,
		Logger:      logging.Discard(),
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{Timeout: DefaultTimeout},
	}
}

// SetHTTPClient replaces the client used for remote resources
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// WithBase returns a loader resolving relative paths against urlStr,
// itself resolved against l. Local bases are made absolute, so the new
// loader can load its own base by BaseURL. Search paths, client and logger are shared;
// the cache is not.
func (l *Loader) WithBase(urlStr string) (*Loader, error) {
	base, err := l.resolveURL(urlStr)
	if err != nil {
		return nil, err
	}
	if !isRemote(base) && !strings.HasPrefix(base, "data:") {
		if base, err = filepath.Abs(base); err != nil {
			return nil, err
		}
	}
	child := NewLoader(base)
	child.Logger = l.Logger
	child.client = l.client
	child.searchPaths = append(child.searchPaths, l.searchPaths...)
	return child, nil
}

// Invalidate drops every cached resource. Watch mode calls it before
// re-reading changed files.
func (l *Loader) Invalidate() {
	l.cacheLock.Lock()
	l.cache = make(map[string]*Resource)
	l.cacheLock.Unlock()
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(urlStr string) (*Resource, error) {
	return l.LoadContext(context.Background(), urlStr)
}

// LoadContext loads a resource, using ctx for remote requests
func (l *Loader) LoadContext(ctx context.Context, urlStr string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[urlStr]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var (
		res *Resource
		err error
	)
	switch {
	case strings.HasPrefix(urlStr, "data:"):
		res, err = parseDataURL(urlStr)
	default:
		var resolved string
		resolved, err = l.resolveURL(urlStr)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", urlStr, err)
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.Logger.WithFields(logrus.Fields{
		"url":   res.URL,
		"type":  res.Type.String(),
		"bytes": len(res.Data),
	}).Debug("Loaded resource")

	l.cacheLock.Lock()
	l.cache[urlStr] = res
	l.cacheLock.Unlock()

	return res, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:text/csv;base64,<base64>
//	data:application/json,%5B%5D
func parseDataURL(u string) (*Resource, error) {
	s, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mimeType := "text/plain"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mimeType = strings.ToLower(comps[0])
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		d, err := base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	return &Resource{
		URL:      u,
		Data:     data,
		MimeType: mimeType,
		Type:     determineResourceType(mimeType, ""),
	}, nil
}

// resolveURL resolves a URL relative to the base URL
func (l *Loader) resolveURL(urlStr string) (string, error) {
	if isRemote(urlStr) || filepath.IsAbs(urlStr) {
		return urlStr, nil
	}

	if !isRemote(l.BaseURL) {
		if l.BaseURL == "" {
			return urlStr, nil
		}
		return filepath.Join(filepath.Dir(l.BaseURL), urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP error: %s", urlStr, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", urlStr, err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	return &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: mimeType,
		Type:     determineResourceType(mimeType, urlStr),
	}, nil
}

// loadLocal loads a resource from a local file, falling back to the
// search paths
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return localResource(path, data), nil
}

func localResource(path string, data []byte) *Resource {
	mimeType := determineMimeType(path)
	return &Resource{
		URL:      path,
		Data:     data,
		MimeType: mimeType,
		Type:     determineResourceType(mimeType, path),
	}
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	base := filepath.Base(filename)
	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, base)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return localResource(path, data), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// determineMimeType determines the MIME type of a file
func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType, path string) ResourceType {
	switch mimeType {
	case "text/html", "application/xhtml+xml":
		return ResourceTypeHTML
	case "text/css":
		return ResourceTypeCSS
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return ResourceTypeYAML
	case "application/json", "text/json":
		return ResourceTypeJSON
	case "text/csv":
		return ResourceTypeCSV
	}

	if path != "" {
		if t := determineResourceType(determineMimeType(path), ""); t != ResourceTypeUnknown {
			return t
		}
	}
	return ResourceTypeUnknown
}

func (l *Loader) loadTyped(urlStr string, types ...ResourceType) (*Resource, error) {
	res, err := l.Load(urlStr)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if res.Type == t {
			return res, nil
		}
	}
	return nil, fmt.Errorf("resource %s is %s, not %s", urlStr, res.Type, types[0])
}

// LoadHTML loads an HTML resource
func (l *Loader) LoadHTML(urlStr string) (*Resource, error) {
	return l.loadTyped(urlStr, ResourceTypeHTML)
}

// LoadCSS loads a CSS resource
func (l *Loader) LoadCSS(urlStr string) (*Resource, error) {
	return l.loadTyped(urlStr, ResourceTypeCSS)
}

// LoadData loads a YAML, JSON or CSV row file
func (l *Loader) LoadData(urlStr string) (*Resource, error) {
	return l.loadTyped(urlStr, ResourceTypeYAML, ResourceTypeJSON, ResourceTypeCSV)
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}

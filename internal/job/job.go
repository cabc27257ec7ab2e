// Package job reads YAML job files describing a document: page setup,
// header and footer bands, page numbers and the tables to render.
package job

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/pdftable/internal/errs"
	"github.com/gompdf/pdftable/internal/res"
)

// Job is a parsed job file.
type Job struct {
	// Output is the PDF path, relative to the job file.
	Output string `yaml:"output"`

	Page        PageSpec     `yaml:"page"`
	Margins     *MarginsSpec `yaml:"margins"`
	Metadata    MetadataSpec `yaml:"metadata"`
	Header      *BandSpec    `yaml:"header"`
	Footer      *BandSpec    `yaml:"footer"`
	PageNumbers *NumbersSpec `yaml:"page_numbers"`
	Tables      []TableSpec  `yaml:"tables"`

	// Path is the location the job was loaded from.
	Path string `yaml:"-"`
}

// PageSpec selects the paper. Size names a standard sheet; Width and
// Height in points take precedence when both are set.
type PageSpec struct {
	Size        string  `yaml:"size"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Orientation string  `yaml:"orientation"`
	BufferPages *bool   `yaml:"buffer_pages"`
	LineHeight  float64 `yaml:"line_height"`
}

// MarginsSpec holds page margins in points. All sets every side not given
// explicitly.
type MarginsSpec struct {
	All    *float64 `yaml:"all"`
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// MetadataSpec is written to the PDF info dictionary.
type MetadataSpec struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Subject  string `yaml:"subject"`
	Keywords string `yaml:"keywords"`
}

// TextSpec is a font, size and color triple; empty fields keep defaults.
type TextSpec struct {
	Font  string  `yaml:"font"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
	Align string  `yaml:"align"`
}

// BandSpec is a header or footer drawn as a line of text.
type BandSpec struct {
	Height     string `yaml:"height"`
	Text       string `yaml:"text"`
	Background string `yaml:"background"`
	Rule       string `yaml:"rule"`
	TextSpec   `yaml:",inline"`
}

// NumbersSpec enables page numbering. Template may use {page} and
// {pages}.
type NumbersSpec struct {
	Template string `yaml:"template"`
	Position string `yaml:"position"`
	TextSpec `yaml:",inline"`
}

// ColumnSpec is one table column.
type ColumnSpec struct {
	Key   string  `yaml:"key"`
	Label string  `yaml:"label"`
	Width float64 `yaml:"width"`
	Align string  `yaml:"align"`
}

// TableSpec is one table, or with HTML set, the tables of an HTML page.
type TableSpec struct {
	Columns []ColumnSpec `yaml:"columns"`
	// Rows is a sequence of mappings. Mapping key order provides the
	// column order when Columns is empty.
	Rows yaml.Node `yaml:"rows"`
	// Source is a YAML, JSON or CSV row file, used when Rows is empty.
	Source string `yaml:"source"`
	// HTML imports tables from an HTML page instead. Index selects one of
	// them; without it every table is imported.
	HTML  string `yaml:"html"`
	Index *int   `yaml:"index"`

	Options *OptionsSpec `yaml:"options"`
}

// OptionsSpec overrides table styling.
type OptionsSpec struct {
	Width         string       `yaml:"width"`
	Margins       *MarginsSpec `yaml:"margins"`
	Border        *BorderSpec  `yaml:"border"`
	Striped       *bool        `yaml:"striped"`
	StripedColors []string     `yaml:"striped_colors"`
	Head          *HeadSpec    `yaml:"head"`
	Cells         *CellsSpec   `yaml:"cells"`
}

// BorderSpec sets the cell border; None removes it.
type BorderSpec struct {
	None  bool    `yaml:"none"`
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
}

// HeadSpec styles the header row.
type HeadSpec struct {
	TextSpec   `yaml:",inline"`
	Background string  `yaml:"background"`
	Height     float64 `yaml:"height"`
}

// CellsSpec styles body cells.
type CellsSpec struct {
	TextSpec `yaml:",inline"`
	Padding  *float64 `yaml:"padding"`
	MaxWidth *float64 `yaml:"max_width"`
}

// Parse decodes a job. Unknown fields are rejected.
func Parse(r io.Reader) (*Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var j Job
	if err := dec.Decode(&j); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Configuration("Parse", "job is empty")
		}
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

// Load reads and parses the job at path through loader.
func Load(loader *res.Loader, path string) (*Job, error) {
	r, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	j, err := Parse(bytes.NewReader(r.Data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	j.Path = path
	return j, nil
}

// Validate checks the parts of a job that can be checked without loading
// any table sources.
func (j *Job) Validate() error {
	if len(j.Tables) == 0 {
		return errs.Configuration("Parse", "job has no tables")
	}
	for i, t := range j.Tables {
		sources := 0
		if t.Rows.Kind != 0 {
			sources++
		}
		if t.Source != "" {
			sources++
		}
		if t.HTML != "" {
			sources++
		}
		switch {
		case sources == 0:
			return errs.Configuration("Parse", "table %d has no rows, source or html", i)
		case sources > 1:
			return errs.Configuration("Parse", "table %d sets more than one of rows, source and html", i)
		}
		if t.HTML != "" && len(t.Columns) > 0 {
			return errs.Configuration("Parse", "table %d: columns come from the HTML page", i)
		}
		if t.Rows.Kind != 0 && t.Rows.Kind != yaml.SequenceNode {
			return errs.Configuration("Parse", "table %d: rows must be a list", i)
		}
	}
	switch strings.ToLower(j.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return errs.Configuration("Parse", "unknown page orientation %q", j.Page.Orientation)
	}
	return nil
}

package job

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gompdf/pdftable/internal/layout"
	"github.com/gompdf/pdftable/internal/res"
)

// decodeRows reads a sequence of mappings. keys lists every mapping key
// in first-seen order.
func decodeRows(node *yaml.Node) (rows []layout.Row, keys []string, err error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.SequenceNode {
		return nil, nil, fmt.Errorf("line %d: rows must be a list", node.Line)
	}

	seen := make(map[string]bool)
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, nil, fmt.Errorf("line %d: row must be a mapping", item.Line)
		}
		for i := 0; i+1 < len(item.Content); i += 2 {
			if k := item.Content[i].Value; !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}

		var row map[string]any
		if err := item.Decode(&row); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		rows = append(rows, layout.Row(row))
	}
	return rows, keys, nil
}

// loadRows reads a row file. YAML and JSON files hold a list of mappings;
// CSV files have a header line naming the keys.
func loadRows(loader *res.Loader, src string) ([]layout.Row, []string, error) {
	r, err := loader.LoadData(src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load rows: %w", err)
	}

	if r.Type == res.ResourceTypeCSV {
		rows, keys, err := decodeCSV(r.GetReader())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", src, err)
		}
		return rows, keys, nil
	}

	// JSON is read as YAML flow syntax.
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(r.Data)).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	rows, keys, err := decodeRows(&doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", src, err)
	}
	return rows, keys, nil
}

func decodeCSV(r io.Reader) ([]layout.Row, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var rows []layout.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make(layout.Row, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

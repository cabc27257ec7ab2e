// Package css parses the small CSS subset used to style imported tables:
// rule sets with comma separated compound selectors, plain declarations
// and !important.
package css

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser represents a CSS parser
type Parser struct{}

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []*Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []*Rule
}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content string) (*Stylesheet, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses CSS from an io.Reader. Malformed rules and at-rules are
// skipped.
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sheet := &Stylesheet{}
	for _, block := range splitBlocks(stripComments(string(content))) {
		if strings.HasPrefix(block.prelude, "@") {
			continue
		}
		selectors := splitList(block.prelude, ',')
		if len(selectors) == 0 {
			continue
		}
		sheet.Rules = append(sheet.Rules, &Rule{
			Selectors:    selectors,
			Declarations: ParseDeclarations(block.body),
		})
	}
	return sheet, nil
}

// ParseDeclarations parses a declaration list such as the value of a
// style attribute. Property names are lower-cased.
func ParseDeclarations(s string) []*Declaration {
	var out []*Declaration
	for _, item := range splitList(stripComments(s), ';') {
		name, value, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}

		d := &Declaration{Property: name, Value: value}
		if i := strings.LastIndex(value, "!"); i >= 0 &&
			strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
			d.Important = true
			d.Value = strings.TrimSpace(value[:i])
		}
		out = append(out, d)
	}
	return out
}

// Lookup returns the value of the last declaration for property, which
// wins unless an earlier one is !important.
func Lookup(decls []*Declaration, property string) (string, bool) {
	var found *Declaration
	for _, d := range decls {
		if d.Property != property {
			continue
		}
		if found != nil && found.Important && !d.Important {
			continue
		}
		found = d
	}
	if found == nil {
		return "", false
	}
	return found.Value, true
}

// ParseLength converts a CSS length to points. Bare numbers are points;
// px are 0.75pt; em and rem are relative to fontSize.
func ParseLength(value string, fontSize float64) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	factor := 1.0
	for _, u := range []struct {
		suffix string
		factor float64
	}{
		{"rem", fontSize},
		{"em", fontSize},
		{"px", 0.75},
		{"pt", 1},
		{"mm", 72 / 25.4},
		{"cm", 72 / 2.54},
		{"in", 72},
	} {
		if strings.HasSuffix(v, u.suffix) {
			v = strings.TrimSuffix(v, u.suffix)
			factor = u.factor
			break
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", value)
	}
	return n * factor, nil
}

// ParseBox parses a one to four value box shorthand such as padding or
// margin into top, right, bottom and left, following the CSS expansion
// rules.
func ParseBox(value string, fontSize float64) (top, right, bottom, left float64, err error) {
	parts := strings.Fields(value)
	if len(parts) == 0 || len(parts) > 4 {
		return 0, 0, 0, 0, fmt.Errorf("invalid box value %q", value)
	}
	v := make([]float64, len(parts))
	for i, p := range parts {
		if p == "auto" {
			continue
		}
		if v[i], err = ParseLength(p, fontSize); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	switch len(v) {
	case 1:
		return v[0], v[0], v[0], v[0], nil
	case 2:
		return v[0], v[1], v[0], v[1], nil
	case 3:
		return v[0], v[1], v[2], v[1], nil
	}
	return v[0], v[1], v[2], v[3], nil
}

type block struct {
	prelude string
	body    string
}

// splitBlocks cuts content into top-level "prelude { body }" pairs.
// Nested braces stay inside the body.
func splitBlocks(content string) []block {
	var blocks []block
	depth, start, open := 0, 0, 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth == 0 {
				start = i + 1
				continue
			}
			depth--
			if depth == 0 {
				blocks = append(blocks, block{
					prelude: strings.TrimSpace(content[start:open]),
					body:    content[open+1 : i],
				})
				start = i + 1
			}
		case ';':
			// statement at-rules such as @import end at top level
			if depth == 0 {
				start = i + 1
			}
		}
	}
	return blocks
}

func splitList(s string, sep byte) []string {
	var out []string
	for _, part := range strings.Split(s, string(sep)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func stripComments(content string) string {
	var b strings.Builder
	for {
		i := strings.Index(content, "/*")
		if i < 0 {
			b.WriteString(content)
			break
		}
		b.WriteString(content[:i])
		j := strings.Index(content[i+2:], "*/")
		if j < 0 {
			break
		}
		content = content[i+2+j+2:]
	}
	return b.String()
}

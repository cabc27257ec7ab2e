package style

import (
	"strings"

	"github.com/gompdf/pdftable/internal/parser/css"
	"github.com/gompdf/pdftable/internal/parser/html"
)

// Specificity represents the specificity of a CSS selector
type Specificity struct {
	ID      int
	Class   int
	Element int
}

// Less reports whether s ranks below o.
func (s Specificity) Less(o Specificity) bool {
	if s.ID != o.ID {
		return s.ID < o.ID
	}
	if s.Class != o.Class {
		return s.Class < o.Class
	}
	return s.Element < o.Element
}

// Source represents the origin of a style property
type Source int

const (
	SourceUserAgent Source = iota
	SourceAuthor
	SourceInline
)

// StyleProperty represents a computed style property
type StyleProperty struct {
	Value       string
	Important   bool
	Source      Source
	Specificity Specificity
}

// ComputedStyle represents the computed style for an element
type ComputedStyle map[string]StyleProperty

// Get returns the value of property, or "".
func (cs ComputedStyle) Get(property string) string {
	return cs[property].Value
}

// StyleEngine handles the CSS cascade for table elements
type StyleEngine struct {
	userAgent *css.Stylesheet
	author    []*css.Stylesheet
}

// NewStyleEngine creates a new style engine
func NewStyleEngine() *StyleEngine {
	return &StyleEngine{userAgent: userAgentStyles()}
}

// AddStylesheet adds an author stylesheet. Later sheets win ties.
func (e *StyleEngine) AddStylesheet(sheet *css.Stylesheet) {
	if sheet != nil {
		e.author = append(e.author, sheet)
	}
}

// Compute returns the cascaded style of one element.
func (e *StyleEngine) Compute(node *html.Node) ComputedStyle {
	style := make(ComputedStyle)
	if !node.IsElement() {
		return style
	}

	e.applyStylesheet(style, node, e.userAgent, SourceUserAgent)
	for _, sheet := range e.author {
		e.applyStylesheet(style, node, sheet, SourceAuthor)
	}
	if inline := node.AttrValue("style"); inline != "" {
		apply(style, css.ParseDeclarations(inline), Specificity{ID: 1}, SourceInline)
	}
	return style
}

func (e *StyleEngine) applyStylesheet(style ComputedStyle, node *html.Node, sheet *css.Stylesheet, source Source) {
	for _, rule := range sheet.Rules {
		for _, selector := range rule.Selectors {
			if selectorMatches(node, selector) {
				apply(style, rule.Declarations, calculateSpecificity(selector), source)
			}
		}
	}
}

// apply merges decls into style. A declaration replaces the current one
// when it is important and the current one is not, or at equal importance
// when it comes from a stronger source or the same source with at least
// the same specificity.
func apply(style ComputedStyle, decls []*css.Declaration, spec Specificity, source Source) {
	for _, d := range decls {
		cur, ok := style[d.Property]
		if ok {
			if cur.Important && !d.Important {
				continue
			}
			if cur.Important == d.Important {
				if source < cur.Source || (source == cur.Source && spec.Less(cur.Specificity)) {
					continue
				}
			}
		}
		style[d.Property] = StyleProperty{
			Value:       d.Value,
			Important:   d.Important,
			Source:      source,
			Specificity: spec,
		}
	}
}

// selectorMatches matches descendant selectors made of compound parts.
func selectorMatches(node *html.Node, selector string) bool {
	parts := strings.Fields(selector)
	if len(parts) == 0 || !matchCompound(node, parts[len(parts)-1]) {
		return false
	}

	current := node.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		for current != nil && !matchCompound(current, parts[i]) {
			current = current.Parent
		}
		if current == nil {
			return false
		}
		current = current.Parent
	}
	return true
}

// matchCompound matches tag, #id and .class parts such as td.num or
// table#users.striped. Attribute selectors and pseudo-classes never match.
func matchCompound(node *html.Node, sel string) bool {
	if !node.IsElement() || sel == "" {
		return false
	}

	tag, rest := sel, ""
	if i := strings.IndexAny(sel, ".#"); i >= 0 {
		tag, rest = sel[:i], sel[i:]
	}
	if tag != "" && tag != "*" && !strings.EqualFold(tag, node.Data) {
		return false
	}

	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		name := rest
		if i := strings.IndexAny(rest, ".#"); i >= 0 {
			name, rest = rest[:i], rest[i:]
		} else {
			rest = ""
		}
		if name == "" || strings.ContainsAny(name, "[:") {
			return false
		}
		switch kind {
		case '#':
			if node.AttrValue("id") != name {
				return false
			}
		case '.':
			if !node.HasClass(name) {
				return false
			}
		}
	}
	return true
}

func calculateSpecificity(selector string) Specificity {
	var s Specificity
	for _, part := range strings.Fields(selector) {
		tag := part
		if i := strings.IndexAny(part, ".#"); i >= 0 {
			tag = part[:i]
		}
		if tag != "" && tag != "*" {
			s.Element++
		}
		s.ID += strings.Count(part, "#")
		s.Class += strings.Count(part, ".")
	}
	return s
}

func userAgentStyles() *css.Stylesheet {
	sheet, _ := css.NewParser().ParseString(`
		th { font-weight: bold; }
		caption { text-align: center; }
	`)
	return sheet
}

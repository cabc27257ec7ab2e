package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser represents an HTML parser
type Parser struct{}

// Node represents an HTML node in the document tree
type Node struct {
	Type        html.NodeType
	Data        string
	DataAtom    atom.Atom
	Attr        []html.Attribute
	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Document represents a parsed HTML document
type Document struct {
	Root *Node
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses HTML from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{Root: convertNode(node, nil)}, nil
}

// convertNode converts an html.Node to our Node structure
func convertNode(n *html.Node, parent *Node) *Node {
	node := &Node{
		Type:     n.Type,
		Data:     n.Data,
		DataAtom: n.DataAtom,
		Attr:     n.Attr,
		Parent:   parent,
	}

	var lastChild *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child := convertNode(c, node)
		if node.FirstChild == nil {
			node.FirstChild = child
		}
		if lastChild != nil {
			lastChild.NextSibling = child
			child.PrevSibling = lastChild
		}
		lastChild = child
	}
	node.LastChild = lastChild

	return node
}

// IsElement reports whether n is an element with one of the given tags.
// Without tags any element matches.
func (n *Node) IsElement(tags ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.DataAtom == t {
			return true
		}
	}
	return false
}

// AttrValue returns the value of the attribute key, or "".
func (n *Node) AttrValue(key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether the class attribute lists class.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.AttrValue("class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Text returns the text content of n with runs of whitespace collapsed.
// <br> elements become line breaks.
func (n *Node) Text() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(cur *Node) {
		switch {
		case cur.Type == html.TextNode:
			b.WriteString(cur.Data)
		case cur.IsElement(atom.Br):
			b.WriteString("\n")
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// Walk calls fn for n and its descendants in document order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(fn)
	}
}

// Table is one <table> element split into header and body cells.
type Table struct {
	Node    *Node
	Caption string
	// Header holds the column header cells; it is empty when the table
	// has no <thead> and no leading row of <th> cells.
	Header []*Node
	// Rows holds the <td>/<th> cells of every body row.
	Rows [][]*Node
}

// Tables returns every table of the document in document order. Rows of
// nested tables belong to the nested table only.
func (d *Document) Tables() []*Table {
	var tables []*Table
	d.Root.Walk(func(n *Node) bool {
		if n.IsElement(atom.Table) {
			tables = append(tables, extractTable(n))
		}
		return true
	})
	return tables
}

func extractTable(table *Node) *Table {
	t := &Table{Node: table}

	var rows []*Node
	var headRow *Node
	var collect func(*Node, bool)
	collect = func(n *Node, inHead bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.IsElement(atom.Caption):
				t.Caption = c.Text()
			case c.IsElement(atom.Thead):
				collect(c, true)
			case c.IsElement(atom.Tbody, atom.Tfoot):
				collect(c, false)
			case c.IsElement(atom.Tr):
				if inHead && headRow == nil {
					headRow = c
					continue
				}
				if !inHead {
					rows = append(rows, c)
				}
			}
		}
	}
	collect(table, false)

	if headRow == nil && len(rows) > 0 && allHeaderCells(rows[0]) {
		headRow, rows = rows[0], rows[1:]
	}
	if headRow != nil {
		t.Header = cells(headRow)
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, cells(r))
	}
	return t
}

func cells(tr *Node) []*Node {
	var out []*Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement(atom.Td, atom.Th) {
			out = append(out, c)
		}
	}
	return out
}

func allHeaderCells(tr *Node) bool {
	cs := cells(tr)
	if len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if !c.IsElement(atom.Th) {
			return false
		}
	}
	return true
}

// Stylesheets returns the author stylesheets of the document in source
// order: the text of every <style> element and the href of every
// <link rel="stylesheet">, tagged by Link.
func (d *Document) Stylesheets() []Stylesheet {
	var sheets []Stylesheet
	d.Root.Walk(func(n *Node) bool {
		switch {
		case n.IsElement(atom.Link):
			href := n.AttrValue("href")
			if href != "" && strings.Contains(strings.ToLower(n.AttrValue("rel")), "stylesheet") {
				sheets = append(sheets, Stylesheet{Link: href})
			}
		case n.IsElement(atom.Style):
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
					b.WriteString("\n")
				}
			}
			if css := strings.TrimSpace(b.String()); css != "" {
				sheets = append(sheets, Stylesheet{CSS: css})
			}
		}
		return true
	})
	return sheets
}

// Stylesheet is an inline stylesheet or a link to an external one.
type Stylesheet struct {
	CSS  string
	Link string
}

package html

import (
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a document tree from r.
func Parse(r io.Reader) (*xhtml.Node, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html: parse: %w", err)
	}
	return doc, nil
}

// FirstTable returns the first <table> element in document order, or nil.
func FirstTable(doc *xhtml.Node) *xhtml.Node {
	if doc == nil {
		return nil
	}
	if isElement(doc, atom.Table) {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if t := FirstTable(c); t != nil {
			return t
		}
	}
	return nil
}

// BodyRows returns the <td> cells of every <tr> in the table's first <tbody>,
// in document order. Header cells (<th>) are not returned, so a header row
// yields an empty slice. Nested tables are not descended into.
//
// The x/net parser inserts an implicit <tbody> for rows written directly
// under <table>, so such tables are handled too.
func BodyRows(table *xhtml.Node) [][]*xhtml.Node {
	if table == nil {
		return nil
	}
	var tbody *xhtml.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, atom.Tbody) {
			tbody = c
			break
		}
	}
	if tbody == nil {
		return nil
	}

	var rows [][]*xhtml.Node
	for tr := tbody.FirstChild; tr != nil; tr = tr.NextSibling {
		if !isElement(tr, atom.Tr) {
			continue
		}
		var cells []*xhtml.Node
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if isElement(td, atom.Td) {
				cells = append(cells, td)
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

// CellText returns the concatenated text content of n and its descendants.
// Markup is dropped; whitespace is preserved as written.
func CellText(n *xhtml.Node) string {
	var b strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

func isElement(n *xhtml.Node, a atom.Atom) bool {
	return n.Type == xhtml.ElementNode && n.DataAtom == a
}

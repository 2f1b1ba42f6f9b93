package reference

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"index-dashboard/src/helpers"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RawTable is a header row plus data rows, all cells as trimmed text.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// -----------------------------------------------------------------------------

// ParseFirstTable returns the first <table> of an HTML document, using its
// first row as the header. Nested tables are not descended into.
func ParseFirstTable(r io.Reader) (*RawTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", helpers.ErrNoTable, err)
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, helpers.ErrNoTable
	}

	var rows [][]string
	for _, tr := range tableRows(table) {
		if cells := rowCells(tr); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: first table has no rows", helpers.ErrNoTable)
	}

	raw := &RawTable{Header: rows[0]}
	width := len(raw.Header)
	for _, cells := range rows[1:] {
		// Align ragged rows to the header width
		if len(cells) < width {
			cells = append(cells, make([]string, width-len(cells))...)
		}
		raw.Rows = append(raw.Rows, cells[:width])
	}
	return raw, nil
}

// -----------------------------------------------------------------------------

// ColumnIndex finds a header by exact name, then case-insensitively.
func (t *RawTable) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %v)", helpers.ErrMissingColumn, name, t.Header)
}

// -----------------------------------------------------------------------------

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// tableRows collects <tr> elements that belong to table itself, through
// thead/tbody/tfoot but not through nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return rows
}

// -----------------------------------------------------------------------------

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		text := cellText(c)
		span := 1
		for _, attr := range c.Attr {
			if attr.Key == "colspan" {
				if n, err := strconv.Atoi(attr.Val); err == nil && n > 1 {
					span = n
				}
			}
		}
		for i := 0; i < span; i++ {
			cells = append(cells, text)
		}
	}
	return cells
}

// -----------------------------------------------------------------------------

// cellText flattens a cell to its visible text, dropping footnote markers.
func cellText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Sup, atom.Style, atom.Script:
				return
			case atom.Br:
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

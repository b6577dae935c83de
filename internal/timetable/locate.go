package timetable

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/timetable/internal/markup"
)

// Selection says which tables of a document are timetables and for which
// grades. Tables are counted in document order; when Attr is set only tables
// carrying that attribute (and, if Value is set, that value or class token)
// are counted. The tables First, First+1, ... belong to Grades[0], Grades[1], ...
type Selection struct {
	First  int
	Grades []int
	Attr   string
	Value  string
}

// GradeTable is a timetable table paired with the grade it was configured for.
type GradeTable struct {
	Grade int
	Table markup.Element
}

// Locate picks the configured run of timetable tables out of root.
func Locate(root markup.Element, sel Selection) ([]GradeTable, error) {
	if sel.First < 0 {
		return nil, fmt.Errorf("negative first table index %d", sel.First)
	}
	var tables []markup.Element
	for _, t := range root.FindAll("table") {
		if sel.Attr == "" || attrMatches(t, sel.Attr, sel.Value) {
			tables = append(tables, t)
		}
	}
	end := sel.First + len(sel.Grades)
	if end > len(tables) {
		return nil, fmt.Errorf("%w: need %d, found %d", ErrTooFewTables, end, len(tables))
	}
	out := make([]GradeTable, 0, len(sel.Grades))
	for i, g := range sel.Grades {
		out = append(out, GradeTable{Grade: g, Table: tables[sel.First+i]})
	}
	return out, nil
}

func attrMatches(e markup.Element, key, want string) bool {
	v, ok := e.Attr(key)
	if !ok {
		return false
	}
	if want == "" || v == want {
		return true
	}
	for _, tok := range strings.Fields(v) {
		if tok == want {
			return true
		}
	}
	return false
}

// rows returns the table's rows in document order, looking through
// thead/tbody/tfoot but not into nested tables.
func rows(table markup.Element) []markup.Element {
	var out []markup.Element
	for _, c := range table.Children("tr", "thead", "tbody", "tfoot") {
		if c.Tag() == "tr" {
			out = append(out, c)
			continue
		}
		out = append(out, c.Children("tr")...)
	}
	return out
}

func cells(row markup.Element) []markup.Element {
	return row.Children("td", "th")
}

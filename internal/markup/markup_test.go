package markup

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParse_TablesRowsAndCells(t *testing.T) {
	src := `<!doctype html>
<html><body>
  <table id="first"><tr><td>a</td></tr></table>
  <div>
    <table class="grid">
      <tr><th> Day </th><td>1</td></tr>
      <tr><td>Math&nbsp;&nbsp; <b>adv</b></td><td rowspan="2">101</td></tr>
    </table>
  </div>
</body></html>`
	root, err := Parse([]byte(src), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tables := root.FindAll("table")
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if v, ok := tables[1].Attr("class"); !ok || v != "grid" {
		t.Fatalf("expected class=grid, got %q %v", v, ok)
	}
	// The parser inserts <tbody>; rows are not direct children of <table>.
	if got := len(tables[1].Children("tr")); got != 0 {
		t.Fatalf("expected no direct tr children, got %d", got)
	}
	bodies := tables[1].Children("tbody")
	if len(bodies) != 1 {
		t.Fatalf("expected implicit tbody, got %d", len(bodies))
	}
	rows := bodies[0].Children("tr")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	cells := rows[0].Children("td", "th")
	if len(cells) != 2 || cells[0].Tag() != "th" || cells[0].Text() != "Day" {
		t.Fatalf("unexpected first row cells: %d", len(cells))
	}
	second := rows[1].Children("td")
	if got := second[0].Text(); got != "Math adv" {
		t.Fatalf("expected collapsed text %q, got %q", "Math adv", got)
	}
	if v, _ := second[1].Attr("ROWSPAN"); v != "2" {
		t.Fatalf("attribute lookup should be case-insensitive, got %q", v)
	}
}

func TestText_LineBreaksBecomeSpaces(t *testing.T) {
	root, err := Parse([]byte(`<table><tr><td>Алгебра<br>геометрия</td></tr></table>`), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	td := root.FindAll("td")
	if len(td) != 1 {
		t.Fatalf("expected one cell")
	}
	if got := td[0].Text(); got != "Алгебра геометрия" {
		t.Fatalf("got %q", got)
	}
}

func TestText_NormalizesToNFC(t *testing.T) {
	root, err := Parse([]byte("<p>\u0438\u0306</p>"), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := root.FindAll("p")[0].Text(); got != "\u0439" {
		t.Fatalf("expected composed form, got %q", got)
	}
}

func TestParse_ExplicitEncoding(t *testing.T) {
	enc, err := charmap.Windows1251.NewEncoder().String("<table><tr><td>Понедельник</td></tr></table>")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	root, err := Parse([]byte(enc), "windows-1251")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := root.FindAll("td")[0].Text(); got != "Понедельник" {
		t.Fatalf("got %q", got)
	}
}

func TestParse_SniffsMetaCharset(t *testing.T) {
	body, err := charmap.Windows1251.NewEncoder().String(`<html><head><meta charset="windows-1251"></head><body><p>Среда</p></body></html>`)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	root, err := Parse([]byte(body), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := root.FindAll("p")[0].Text(); got != "Среда" {
		t.Fatalf("got %q", got)
	}
}

func TestParse_LateUTF8AfterASCIIHead(t *testing.T) {
	head := "<html><head><title>" + strings.Repeat("x", 2048) + "</title></head>"
	root, err := Parse([]byte(head+"<body><p>Четверг</p></body></html>"), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := root.FindAll("p")[0].Text(); got != "Четверг" {
		t.Fatalf("got %q", got)
	}
}

func TestParse_UnknownEncoding(t *testing.T) {
	if _, err := Parse([]byte("<p>x</p>"), "no-such-charset"); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

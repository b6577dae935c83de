package timetable

import (
	"errors"
	"testing"
)

func TestParseDay(t *testing.T) {
	cases := []struct {
		in   string
		want Day
		ok   bool
	}{
		{"Понедельник", Monday, true},
		{"Дүйсенбі", Monday, true},
		{"ДҮЙСЕНБІ", Monday, true},
		{"Сейсенбі / Вторник", Tuesday, true},
		{"Сәрсенбі", Wednesday, true},
		{"Бейсенбі", Thursday, true},
		{"четверг", Thursday, true},
		{"Жұма", Friday, true},
		{"Сенбі", Saturday, true},
		{"Суббота", Saturday, true},
		{"1", "", false},
		{"", "", false},
		{"Sunday", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDay(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseDay(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestLocate_TooFewTables(t *testing.T) {
	root := parseTables(t, tableHTML([]string{"a"}), tableHTML([]string{"b"}))
	_, err := Locate(root, Selection{First: 1, Grades: []int{7, 8}})
	if !errors.Is(err, ErrTooFewTables) {
		t.Fatalf("expected ErrTooFewTables, got %v", err)
	}
	if _, err := Locate(root, Selection{First: -1, Grades: []int{7}}); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestLocate_AttributeFilter(t *testing.T) {
	src := `<table><tr><td>menu</td></tr></table>
<table class="MsoNormalTable schedule"><tr><td>first</td></tr></table>
<table class="MsoNormalTable"><tr><td>other</td></tr></table>
<table class="schedule"><tr><td>second</td></tr></table>`
	root := parseTables(t, src)
	tables, err := Locate(root, Selection{Grades: []int{7, 8}, Attr: "class", Value: "schedule"})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if got := cells(rows(tables[0].Table)[0])[0].Text(); got != "first" {
		t.Fatalf("unexpected first table %q", got)
	}
	if got := cells(rows(tables[1].Table)[0])[0].Text(); got != "second" {
		t.Fatalf("unexpected second table %q", got)
	}
	if tables[1].Grade != 8 {
		t.Fatalf("unexpected grade %d", tables[1].Grade)
	}
}

func TestCheckGrades(t *testing.T) {
	t7 := tableHTML([]string{"", "", "", "7A", "кабинет", "7B", "кабинет"})
	t8 := tableHTML([]string{"", "", "", "9A", "кабинет", "8B", "кабинет"})
	root := parseTables(t, t7, t8)
	tables, err := Locate(root, Selection{Grades: []int{7, 8}})
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	got := CheckGrades(tables)
	if len(got) != 1 {
		t.Fatalf("expected one mismatch, got %v", got)
	}
	if got[0].Class != "9A" || got[0].Grade != 8 || got[0].Prefix != 9 {
		t.Fatalf("unexpected mismatch %+v", got[0])
	}
}

func TestLetterOf(t *testing.T) {
	cases := []struct {
		name  string
		grade int
		want  string
	}{
		{"7A", 7, "A"},
		{"10Б", 10, "Б"},
		{"11KL", 11, "KL"},
		{"8A", 7, "8A"},
		{"1A", 11, "1A"},
	}
	for _, tc := range cases {
		if got := letterOf(tc.name, tc.grade); got != tc.want {
			t.Fatalf("letterOf(%q, %d) = %q; want %q", tc.name, tc.grade, got, tc.want)
		}
	}
}

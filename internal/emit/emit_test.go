package emit

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"regexp"
	"strings"
	"testing"

	"github.com/hyperifyio/timetable/internal/timetable"
)

func sampleSchedules() timetable.Schedules {
	return timetable.Schedules{
		"10A": {
			ClassName: "10A", Grade: 10, Letter: "A",
			Schedule: map[timetable.Day][]timetable.LessonSlot{
				timetable.Friday: {{LessonNumber: 1, Time: "08.00-08.45", Subject: "информатика", Room: "Lab 2"}},
			},
		},
		"7B": {
			ClassName: "7B", Grade: 7, Letter: "B",
			Schedule: map[timetable.Day][]timetable.LessonSlot{
				timetable.Tuesday: {
					{LessonNumber: 3, Time: "09.00", Subject: "x", Room: ""},
					{LessonNumber: 1, Time: " 08.00 - 08.45 ", Subject: "o'clock $5 \"q\"", Room: `C:\1`},
				},
				timetable.Monday: {{LessonNumber: 2, Time: "08.50-09.35", Subject: "history", Room: "102"}},
			},
		},
		"7A": {
			ClassName: "7A", Grade: 7, Letter: "A",
			Schedule:  map[timetable.Day][]timetable.LessonSlot{},
		},
	}
}

func renderString(t *testing.T, target Target) string {
	t.Helper()
	out, err := Render(sampleSchedules(), Options{Target: target, Package: "data", DartImport: "package:app/models.dart", Letters: DefaultLetters()})
	if err != nil {
		t.Fatalf("render %s: %v", target, err)
	}
	return string(out)
}

func TestRender_Deterministic(t *testing.T) {
	for _, target := range []Target{Go, Dart} {
		a, err := Render(sampleSchedules(), Options{Target: target, Letters: DefaultLetters()})
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		for i := 0; i < 5; i++ {
			b, err := Render(sampleSchedules(), Options{Target: target, Letters: DefaultLetters()})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.Equal(a, b) {
				t.Fatalf("%s: output differs between runs", target)
			}
		}
	}
}

func TestRender_GoModuleParsesAndOrders(t *testing.T) {
	src := renderString(t, Go)
	if _, err := parser.ParseFile(token.NewFileSet(), "schedule_data.go", src, 0); err != nil {
		t.Fatalf("generated go does not parse: %v\n%s", err, src)
	}
	if !strings.HasPrefix(src, "// Code generated by timetable emit; DO NOT EDIT.") {
		t.Fatalf("missing generated header")
	}
	if !strings.Contains(src, "package data") {
		t.Fatalf("package name not applied")
	}
	// Grades ascend numerically and classes sort by name.
	i7a, i7b, i10 := strings.Index(src, `"7A"`), strings.Index(src, `"7B"`), strings.Index(src, `"10A"`)
	if i7a < 0 || i7b < 0 || i10 < 0 || !(i7a < i7b && i7b < i10) {
		t.Fatalf("unexpected class order 7A=%d 7B=%d 10A=%d", i7a, i7b, i10)
	}
	// Days follow the calendar, lessons keep their recorded order.
	mon, tue := strings.Index(src, `DayName: "Monday"`), strings.Index(src, `DayName: "Tuesday"`)
	if mon < 0 || tue < 0 || mon > tue {
		t.Fatalf("days out of order")
	}
	first := strings.Index(src, `LessonNumber: 3}`)
	second := strings.Index(src, `LessonNumber: 1}`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("lessons were re-sorted")
	}
	for _, want := range []string{
		`{Subject: "X", Teacher: "", Room: "", Start: "00.00", End: "00.00", LessonNumber: 3}`,
		`{Subject: "O'clock $5 \"q\"", Teacher: "", Room: "C:\\1", Start: "08.00", End: "08.45", LessonNumber: 1}`,
		`{Subject: "History", Teacher: "", Room: "102", Start: "08.50", End: "09.35", LessonNumber: 2}`,
		`{Subject: "Информатика", Teacher: "", Room: "Lab 2", Start: "08.00", End: "08.45", LessonNumber: 1}`,
		`{Grade: 7, Letters: []string{"A", "B", "C", "D", "E", "F", "G", "K", "L"}},`,
		`func ScheduleFor(grade int, letter string) *ClassSchedule`,
		`func AvailableClasses() []string`,
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected %s in:\n%s", want, src)
		}
	}
	if !regexp.MustCompile(`GradeLetter:\s+"B"`).MatchString(src) {
		t.Fatalf("missing grade letter field")
	}
}

func TestRender_DartModule(t *testing.T) {
	src := renderString(t, Dart)
	for _, want := range []string{
		"import 'package:app/models.dart';",
		"case 10:\n        return _grade10Schedule(gradeLetter);",
		"static ClassSchedule? _grade7Schedule(String letter) {",
		"subject: 'O\\'clock \\$5 \"q\"',",
		"room: 'C:\\\\1',",
		"timeSlot: TimeSlot(startTime: '00.00', endTime: '00.00', lessonNumber: 3),",
		"teacher: '',",
		"static const List<int> _grades = [7, 8, 9, 10, 11];",
		"return ['A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'K', 'L'];",
		"classes.add('$grade$letter');",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected %q in:\n%s", want, src)
		}
	}
	if strings.Index(src, "_grade7Schedule(String") > strings.Index(src, "_grade10Schedule(String") {
		t.Fatalf("grades not in numeric order")
	}
}

func TestRender_UnknownTarget(t *testing.T) {
	if _, err := Render(sampleSchedules(), Options{Target: "kotlin"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSplitTime(t *testing.T) {
	cases := []struct{ in, start, end string }{
		{"08.00-08.45", "08.00", "08.45"},
		{"09.00", "00.00", "00.00"},
		{"", "00.00", "00.00"},
		{" 10.00 - 10.45 ", "10.00", "10.45"},
		{"10.00-", "10.00", ""},
		{"10.00-10.45-11.00", "10.00", "10.45"},
	}
	for _, c := range cases {
		s, e := SplitTime(c.in)
		if s != c.start || e != c.end {
			t.Fatalf("SplitTime(%q) = %q,%q; want %q,%q", c.in, s, e, c.start, c.end)
		}
	}
}

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"math":        "Math",
		"  алгебра ":  "Алгебра",
		"x":           "X",
		"ß":           "SS",
		"English lit": "English lit",
		"iPhone dev":  "IPhone dev",
		"":            "",
	}
	for in, want := range cases {
		if got := CapitalizeFirst(in); got != want {
			t.Fatalf("CapitalizeFirst(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCheckLetters(t *testing.T) {
	s := timetable.Schedules{
		"7A": {ClassName: "7A", Grade: 7, Letter: "A"},
		"7M": {ClassName: "7M", Grade: 7, Letter: "M"},
	}
	got := CheckLetters(s, LetterTable{7: {"A", "B"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 mismatches, got %+v", got)
	}
	if got[0].Letter != "B" || !got[0].Configured || got[0].Extracted {
		t.Fatalf("unexpected first mismatch %+v", got[0])
	}
	if got[1].Letter != "M" || !got[1].Extracted || got[1].Configured {
		t.Fatalf("unexpected second mismatch %+v", got[1])
	}
	if len(CheckLetters(s, LetterTable{7: {"A", "M"}})) != 0 {
		t.Fatalf("expected no mismatches")
	}
}

func TestRender_DuplicateLetterInGrade(t *testing.T) {
	s := timetable.Schedules{
		"7A":  {ClassName: "7A", Grade: 7, Letter: "A", Schedule: map[timetable.Day][]timetable.LessonSlot{}},
		"7 A": {ClassName: "7 A", Grade: 7, Letter: "A", Schedule: map[timetable.Day][]timetable.LessonSlot{}},
		"8A":  {ClassName: "8A", Grade: 8, Letter: "A", Schedule: map[timetable.Day][]timetable.LessonSlot{}},
	}
	for _, target := range []Target{Go, Dart} {
		_, err := Render(s, Options{Target: target, Letters: DefaultLetters()})
		if !errors.Is(err, ErrDuplicateLetter) {
			t.Fatalf("%s: want ErrDuplicateLetter, got %v", target, err)
		}
	}
	delete(s, "7 A")
	if _, err := Render(s, Options{Target: Go, Letters: DefaultLetters()}); err != nil {
		t.Fatalf("same letter in different grades must render: %v", err)
	}
}

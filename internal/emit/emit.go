// Package emit renders the normalized schedules into a source module with the
// schedule data as static records.
package emit

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyperifyio/timetable/internal/timetable"
)

// Target names the language of the generated module.
type Target string

const (
	Go   Target = "go"
	Dart Target = "dart"
)

// ErrDuplicateLetter is returned by Render when two classes of one grade share
// a letter, which would give the generated lookup table two equal keys.
var ErrDuplicateLetter = errors.New("duplicate class letter")

// noTime is used for both ends of a lesson whose time has no "-" separator.
const noTime = "00.00"

// Options controls rendering.
type Options struct {
	Target Target
	// Package is the Go package name of the generated file.
	Package string
	// DartImport is the import URI of the Dart schedule models.
	DartImport string
	Letters    LetterTable
}

//go:embed templates/*.tmpl
var templateFS embed.FS

type lessonView struct {
	Number  int
	Subject string
	Room    string
	Start   string
	End     string
}

type dayView struct {
	Day     string
	Lessons []lessonView
}

type classView struct {
	ClassName string
	Letter    string
	Grade     int
	Days      []dayView
}

type gradeView struct {
	Grade   int
	Classes []classView
}

type letterView struct {
	Grade   int
	Letters []string
}

type view struct {
	Package    string
	DartImport string
	Grades     []gradeView
	Letters    []letterView
}

// Render produces the generated module. The output depends only on the
// content of s and opts, so equal inputs give byte-identical results.
func Render(s timetable.Schedules, opts Options) ([]byte, error) {
	var quote func(string) string
	switch opts.Target {
	case Go:
		quote = strconv.Quote
	case Dart:
		quote = dartQuote
	default:
		return nil, fmt.Errorf("unknown target %q", opts.Target)
	}
	tmpl, err := template.New(string(opts.Target)+".tmpl").
		Funcs(template.FuncMap{"quote": quote}).
		ParseFS(templateFS, "templates/"+string(opts.Target)+".tmpl")
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	var buf bytes.Buffer
	v, err := buildView(s, opts)
	if err != nil {
		return nil, err
	}
	if err := tmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Target, err)
	}
	if opts.Target != Go {
		return buf.Bytes(), nil
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated go: %w", err)
	}
	return out, nil
}

func buildView(s timetable.Schedules, opts Options) (view, error) {
	v := view{Package: opts.Package, DartImport: opts.DartImport}
	if v.Package == "" {
		v.Package = "scheduledata"
	}
	for _, g := range s.ByGrade() {
		gv := gradeView{Grade: g.Grade}
		owner := make(map[string]string, len(g.Classes))
		for _, c := range g.Classes {
			if prev, dup := owner[c.Letter]; dup {
				return view{}, fmt.Errorf("%w: grade %d letter %q used by %s and %s", ErrDuplicateLetter, g.Grade, c.Letter, prev, c.ClassName)
			}
			owner[c.Letter] = c.ClassName
			cv := classView{ClassName: c.ClassName, Letter: c.Letter, Grade: c.Grade}
			for _, d := range c.Days() {
				dv := dayView{Day: string(d)}
				for _, l := range c.Schedule[d] {
					start, end := SplitTime(l.Time)
					dv.Lessons = append(dv.Lessons, lessonView{
						Number:  l.LessonNumber,
						Subject: CapitalizeFirst(l.Subject),
						Room:    l.Room,
						Start:   start,
						End:     end,
					})
				}
				cv.Days = append(cv.Days, dv)
			}
			gv.Classes = append(gv.Classes, cv)
		}
		v.Grades = append(v.Grades, gv)
	}
	for _, g := range opts.Letters.Grades() {
		v.Letters = append(v.Letters, letterView{Grade: g, Letters: opts.Letters[g]})
	}
	return v, nil
}

// CapitalizeFirst trims s and upper-cases its first character, leaving the
// rest untouched.
func CapitalizeFirst(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

// SplitTime splits a "start-end" range. Without a separator both ends are
// "00.00".
func SplitTime(t string) (start, end string) {
	if !strings.Contains(t, "-") {
		return noTime, noTime
	}
	parts := strings.Split(t, "-")
	start = strings.TrimSpace(parts[0])
	end = noTime
	if len(parts) > 1 {
		end = strings.TrimSpace(parts[1])
	}
	return start, end
}

// dartQuote renders s as a single-quoted Dart string literal.
func dartQuote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

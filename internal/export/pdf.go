package export

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/hyperifyio/timetable/internal/document"
	"github.com/hyperifyio/timetable/internal/timetable"
)

// PDFOptions controls the printable rendering.
type PDFOptions struct {
	// FontPath is a UTF-8 TrueType font. Without it the core Helvetica font is
	// used, which can only show Latin-1 text.
	FontPath string
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Day", 30}, {"#", 10}, {"Time", 30}, {"Subject", 120}, {"Room", 40},
}

// NeedsUnicodeFont reports whether some text in s cannot be shown by the core
// fonts, which only cover windows-1252. It returns the first such text.
func NeedsUnicodeFont(s timetable.Schedules) (string, bool) {
	enc := charmap.Windows1252.NewEncoder()
	for _, g := range s.ByGrade() {
		for _, c := range g.Classes {
			texts := []string{c.ClassName}
			for _, d := range c.Days() {
				for _, l := range c.Schedule[d] {
					texts = append(texts, l.Time, l.Subject, l.Room)
				}
			}
			for _, t := range texts {
				if _, err := enc.String(t); err != nil {
					return t, true
				}
			}
		}
	}
	return "", false
}

// WritePDF writes one page per class, grades ascending.
func WritePDF(s timetable.Schedules, path string, opts PDFOptions) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		pdf.AddUTF8Font("body", "", opts.FontPath)
		pdf.AddUTF8Font("body", "B", opts.FontPath)
		family = "body"
		tr = func(s string) string { return s }
	}

	for _, g := range s.ByGrade() {
		for _, c := range g.Classes {
			pdf.AddPage()
			pdf.SetFont(family, "B", 16)
			pdf.CellFormat(0, 10, tr(c.ClassName), "", 1, "L", false, 0, "")
			pdf.Ln(2)

			pdf.SetFont(family, "B", 10)
			for _, col := range pdfColumns {
				pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)

			pdf.SetFont(family, "", 10)
			for _, d := range c.Days() {
				for i, l := range c.Schedule[d] {
					day := ""
					if i == 0 {
						day = string(d)
					}
					cellsText := []string{day, strconv.Itoa(l.LessonNumber), l.Time, l.Subject, l.Room}
					for j, col := range pdfColumns {
						pdf.CellFormat(col.width, 6, tr(cellsText[j]), "1", 0, "L", false, 0, "")
					}
					pdf.Ln(-1)
				}
			}
		}
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("encode pdf: %w", err)
	}
	return document.WriteFile(path, buf.Bytes())
}

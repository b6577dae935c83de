// Package export renders the normalized schedules into human-facing formats.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hyperifyio/timetable/internal/document"
	"github.com/hyperifyio/timetable/internal/emit"
	"github.com/hyperifyio/timetable/internal/timetable"
)

var workbookHeader = []interface{}{"Class", "Day", "Lesson", "Start", "End", "Subject", "Room"}

// SheetName returns the worksheet name used for a grade.
func SheetName(grade int) string { return fmt.Sprintf("Grade %d", grade) }

// WriteWorkbook writes one worksheet per grade, one row per lesson, in the
// same order the emitter uses.
func WriteWorkbook(s timetable.Schedules, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	groups := s.ByGrade()
	for i, g := range groups {
		sheet := SheetName(g.Grade)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, "A1", &workbookHeader); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
		row := 2
		for _, c := range g.Classes {
			for _, d := range c.Days() {
				for _, l := range c.Schedule[d] {
					cell, err := excelize.CoordinatesToCellName(1, row)
					if err != nil {
						return err
					}
					start, end := emit.SplitTime(l.Time)
					values := []interface{}{c.ClassName, string(d), l.LessonNumber, start, end, l.Subject, l.Room}
					if err := f.SetSheetRow(sheet, cell, &values); err != nil {
						return err
					}
					row++
				}
			}
		}
		if err := f.SetColWidth(sheet, "F", "F", 32); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return document.WriteFile(path, buf.Bytes())
}

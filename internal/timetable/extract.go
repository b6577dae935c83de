package timetable

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/timetable/internal/markup"
)

const (
	// headerOffset is the index of the first class-name cell in the header row.
	headerOffset = 3
	// dayRowLead is the number of leading cells (day, lesson number, time) of a
	// day-opening row.
	dayRowLead = 3
	// continuationLead is the number of leading cells (lesson number, time) of a
	// row whose day cell is row-spanned from above.
	continuationLead = 2
)

var classNamePattern = regexp.MustCompile(`^[0-9]+[\p{Latin}\p{Cyrillic}]+`)

// Result is the outcome of one extraction pass.
type Result struct {
	Schedules Schedules
	Report    Report
}

// Extract builds the schedule of every class found in the header rows of the
// given tables. Malformed rows and cells are skipped and recorded in the
// report; they never fail the extraction.
func Extract(tables []GradeTable) Result {
	res := Result{Schedules: make(Schedules)}
	for _, gt := range tables {
		extractTable(gt, res.Schedules, &res.Report)
	}
	return res
}

// tableState is the accumulator folded over the rows of one table.
type tableState struct {
	grade   int
	day     Day
	classes []string
	out     Schedules
	report  *Report
}

func extractTable(gt GradeTable, out Schedules, report *Report) {
	all := rows(gt.Table)
	if len(all) == 0 {
		return
	}
	st := tableState{grade: gt.Grade, out: out, report: report}
	for _, name := range headerClasses(all[0]) {
		if _, dup := out[name]; dup {
			report.add(gt.Grade, 0, name, ErrDuplicateClass)
		} else {
			out[name] = &ClassSchedule{
				ClassName: name,
				Grade:     gt.Grade,
				Letter:    letterOf(name, gt.Grade),
				Schedule:  make(map[Day][]LessonSlot),
			}
		}
		st.classes = append(st.classes, name)
	}
	for i, row := range all[1:] {
		st = st.step(i+1, cells(row))
	}
}

// step consumes one lesson row and returns the state for the next row.
func (st tableState) step(idx int, row []markup.Element) tableState {
	if len(row) == 0 {
		return st
	}
	lead := continuationLead
	if day, ok := ParseDay(row[0].Text()); ok {
		st.day = day
		lead = dayRowLead
	}
	if len(row) < lead {
		st.report.add(st.grade, idx, "", ErrMalformedRow)
		return st
	}
	if st.day == "" {
		st.report.add(st.grade, idx, "", ErrNoCurrentDay)
		return st
	}

	number, err := strconv.Atoi(row[lead-2].Text())
	switch {
	case err != nil || number < 0:
		st.report.add(st.grade, idx, "", ErrUnparsableLessonNumber)
		return st
	case number == 0:
		st.report.add(st.grade, idx, "", ErrZeroLesson)
		return st
	}
	timeRange := row[lead-1].Text()

	lessons := row[lead:]
	for i, name := range st.classes {
		at := 2 * i
		if at >= len(lessons) {
			continue
		}
		subject := strings.TrimSpace(lessons[at].Text())
		if subject == "" {
			continue
		}
		room := ""
		if at+1 < len(lessons) {
			room = lessons[at+1].Text()
		} else {
			st.report.add(st.grade, idx, name, ErrMissingRoomCell)
		}
		cs := st.out[name]
		cs.Schedule[st.day] = append(cs.Schedule[st.day], LessonSlot{
			LessonNumber: number,
			Time:         timeRange,
			Subject:      subject,
			Room:         room,
		})
	}
	return st
}

// headerClasses returns the class names of a header row: every second cell
// from headerOffset on, keeping only cells that look like "7A" or "10Б".
func headerClasses(header markup.Element) []string {
	hc := cells(header)
	var names []string
	for i := headerOffset; i < len(hc); i += 2 {
		text := hc[i].Text()
		if classNamePattern.MatchString(text) {
			names = append(names, text)
		}
	}
	return names
}

// letterOf removes the table's grade from the front of a class name. A class
// whose prefix is another grade keeps its digits, so "8A" in a grade 7 table
// stays distinct from "7A".
func letterOf(name string, grade int) string {
	return strings.TrimPrefix(name, strconv.Itoa(grade))
}

// gradePrefix returns the leading number of a class name.
func gradePrefix(name string) (int, bool) {
	digits := name[:len(name)-len(strings.TrimLeft(name, "0123456789"))]
	n, err := strconv.Atoi(digits)
	return n, err == nil
}

package timetable

import (
	"errors"
	"fmt"
)

// Local anomalies found while reading a timetable table. None of them stops
// extraction; each only drops the smallest affected unit.
var (
	// ErrMalformedRow marks a row with fewer leading cells than its shape needs.
	ErrMalformedRow = errors.New("malformed row")
	// ErrUnparsableLessonNumber marks a row whose lesson-number cell is not a
	// positive integer.
	ErrUnparsableLessonNumber = errors.New("unparsable lesson number")
	// ErrZeroLesson marks a lesson-number 0 row, which is not a taught period.
	ErrZeroLesson = errors.New("lesson number zero")
	// ErrMissingRoomCell marks a lesson whose room cell is out of range.
	ErrMissingRoomCell = errors.New("missing room cell")
	// ErrNoCurrentDay marks a continuation row seen before any day label.
	ErrNoCurrentDay = errors.New("no current day")
	// ErrDuplicateClass marks a class name already seeded by an earlier table.
	ErrDuplicateClass = errors.New("duplicate class name")
)

// ErrTooFewTables is returned by Locate when the document holds fewer tables
// than the selection asks for.
var ErrTooFewTables = errors.New("too few tables in document")

// Anomaly is one local problem and where it was found. Row is the 0-based row
// index inside the table; Class is set for class-level anomalies.
type Anomaly struct {
	Grade int
	Row   int
	Class string
	Err   error
}

func (a Anomaly) Error() string {
	if a.Class != "" {
		return fmt.Sprintf("grade %d row %d class %s: %v", a.Grade, a.Row, a.Class, a.Err)
	}
	return fmt.Sprintf("grade %d row %d: %v", a.Grade, a.Row, a.Err)
}

func (a Anomaly) Unwrap() error { return a.Err }

// Report collects the anomalies of one extraction pass.
type Report struct {
	Anomalies []Anomaly
}

func (r *Report) add(grade, row int, class string, err error) {
	r.Anomalies = append(r.Anomalies, Anomaly{Grade: grade, Row: row, Class: class, Err: err})
}

// Count returns how many anomalies match target.
func (r Report) Count(target error) int {
	n := 0
	for _, a := range r.Anomalies {
		if errors.Is(a, target) {
			n++
		}
	}
	return n
}

// Summary returns anomaly counts keyed by anomaly kind.
func (r Report) Summary() map[string]int {
	out := make(map[string]int)
	for _, a := range r.Anomalies {
		out[a.Err.Error()]++
	}
	return out
}

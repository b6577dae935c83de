// Package timetable recovers per-class weekly schedules from a school's
// published timetable tables.
package timetable

import "sort"

// Day is a canonical, language-independent weekday name used as a schedule key.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Weekdays lists the canonical days in calendar order.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// LessonSlot is one taught period of one class on one day.
type LessonSlot struct {
	LessonNumber int    `json:"lesson_number" yaml:"lesson_number"`
	Time         string `json:"time" yaml:"time"`
	Subject      string `json:"subject" yaml:"subject"`
	Room         string `json:"room" yaml:"room"`
}

// ClassSchedule is the weekly schedule of a single class such as "7A".
// Schedule only holds days with at least one lesson; lessons keep the order
// in which their rows appeared in the source table.
type ClassSchedule struct {
	ClassName string               `json:"class_name" yaml:"class_name"`
	Grade     int                  `json:"grade" yaml:"grade"`
	Letter    string               `json:"letter" yaml:"letter"`
	Schedule  map[Day][]LessonSlot `json:"schedule" yaml:"schedule"`
}

// Days returns the days present in the schedule in calendar order.
func (c *ClassSchedule) Days() []Day {
	out := make([]Day, 0, len(c.Schedule))
	for _, d := range Weekdays {
		if _, ok := c.Schedule[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// LessonCount returns the number of recorded lessons across the week.
func (c *ClassSchedule) LessonCount() int {
	n := 0
	for _, lessons := range c.Schedule {
		n += len(lessons)
	}
	return n
}

// Schedules maps class_name to its schedule.
type Schedules map[string]*ClassSchedule

// GradeGroup is every class of one grade, ordered by class name.
type GradeGroup struct {
	Grade   int
	Classes []*ClassSchedule
}

// ByGrade groups the schedules by grade in ascending grade order, with the
// classes of each grade sorted lexicographically by class name.
func (s Schedules) ByGrade() []GradeGroup {
	byGrade := make(map[int][]*ClassSchedule)
	for _, c := range s {
		byGrade[c.Grade] = append(byGrade[c.Grade], c)
	}
	grades := make([]int, 0, len(byGrade))
	for g := range byGrade {
		grades = append(grades, g)
	}
	sort.Ints(grades)
	out := make([]GradeGroup, 0, len(grades))
	for _, g := range grades {
		classes := byGrade[g]
		sort.Slice(classes, func(i, j int) bool { return classes[i].ClassName < classes[j].ClassName })
		out = append(out, GradeGroup{Grade: g, Classes: classes})
	}
	return out
}

package timetable

import "fmt"

// GradeMismatch is a header class whose numeric prefix disagrees with the
// grade its table was configured for.
type GradeMismatch struct {
	Grade  int
	Class  string
	Prefix int
}

func (m GradeMismatch) String() string {
	return fmt.Sprintf("class %s found in table configured as grade %d", m.Class, m.Grade)
}

// CheckGrades cross-checks the configured table-to-grade mapping against the
// class names in each table's header row. It reports, never corrects.
func CheckGrades(tables []GradeTable) []GradeMismatch {
	var out []GradeMismatch
	for _, gt := range tables {
		all := rows(gt.Table)
		if len(all) == 0 {
			continue
		}
		for _, name := range headerClasses(all[0]) {
			if p, ok := gradePrefix(name); ok && p != gt.Grade {
				out = append(out, GradeMismatch{Grade: gt.Grade, Class: name, Prefix: p})
			}
		}
	}
	return out
}

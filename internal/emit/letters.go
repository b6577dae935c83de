package emit

import (
	"sort"

	"github.com/hyperifyio/timetable/internal/timetable"
)

// LetterTable lists the valid section letters per grade. It is hand-kept
// configuration and is written verbatim into the generated module.
type LetterTable map[int][]string

// DefaultLetters returns the section letters published by the school.
func DefaultLetters() LetterTable {
	upper := []string{"A", "B", "C", "D", "E", "F", "G", "H", "K"}
	return LetterTable{
		7:  {"A", "B", "C", "D", "E", "F", "G", "K", "L"},
		8:  {"A", "B", "C", "D", "E", "F", "G", "H", "K", "L"},
		9:  append([]string(nil), upper...),
		10: append([]string(nil), upper...),
		11: append([]string(nil), upper...),
	}
}

// Grades returns the configured grades in ascending order.
func (t LetterTable) Grades() []int {
	out := make([]int, 0, len(t))
	for g := range t {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

func (t LetterTable) has(grade int, letter string) bool {
	for _, l := range t[grade] {
		if l == letter {
			return true
		}
	}
	return false
}

// LetterMismatch is a (grade, letter) pair known to only one of the letter
// table and the extracted data.
type LetterMismatch struct {
	Grade      int
	Letter     string
	Configured bool
	Extracted  bool
}

// CheckLetters compares the letter table with the classes actually present
// in s. Results are ordered by grade, then letter.
func CheckLetters(s timetable.Schedules, letters LetterTable) []LetterMismatch {
	var out []LetterMismatch
	seen := make(map[int]map[string]bool)
	for _, c := range s {
		if seen[c.Grade] == nil {
			seen[c.Grade] = make(map[string]bool)
		}
		seen[c.Grade][c.Letter] = true
		if !letters.has(c.Grade, c.Letter) {
			out = append(out, LetterMismatch{Grade: c.Grade, Letter: c.Letter, Extracted: true})
		}
	}
	for g, ls := range letters {
		for _, l := range ls {
			if !seen[g][l] {
				out = append(out, LetterMismatch{Grade: g, Letter: l, Configured: true})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Grade != out[j].Grade {
			return out[i].Grade < out[j].Grade
		}
		return out[i].Letter < out[j].Letter
	})
	return out
}

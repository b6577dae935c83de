package timetable

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// dayNames maps the weekday names used by the published timetable, in Kazakh
// and Russian, to canonical days.
var dayNames = map[string]Day{
	"Дүйсенбі": Monday,
	"Сейсенбі": Tuesday,
	"Сәрсенбі": Wednesday,
	"Бейсенбі": Thursday,
	"Жұма":     Friday,
	"Сенбі":    Saturday,

	"Понедельник": Monday,
	"Вторник":     Tuesday,
	"Среда":       Wednesday,
	"Четверг":     Thursday,
	"Пятница":     Friday,
	"Суббота":     Saturday,
}

type dayName struct {
	lower string
	day   Day
}

// dayMatchOrder holds the lower-cased names longest first, so that "Сенбі"
// is only tried after the longer names that contain it.
var dayMatchOrder = func() []dayName {
	out := make([]dayName, 0, len(dayNames))
	for name, d := range dayNames {
		out = append(out, dayName{lower: strings.ToLower(norm.NFC.String(name)), day: d})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i].lower), utf8.RuneCountInString(out[j].lower)
		if li != lj {
			return li > lj
		}
		return out[i].lower < out[j].lower
	})
	return out
}()

// ParseDay reports the canonical day named anywhere in text, e.g.
// "Понедельник / Дүйсенбі" or "ДҮЙСЕНБІ". Matching ignores case.
func ParseDay(text string) (Day, bool) {
	lower := strings.ToLower(norm.NFC.String(text))
	if lower == "" {
		return "", false
	}
	for _, dn := range dayMatchOrder {
		if strings.Contains(lower, dn.lower) {
			return dn.day, true
		}
	}
	return "", false
}

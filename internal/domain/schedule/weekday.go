package schedule

import (
	"strings"
	"time"
)

// Weekday is the canonical weekday identifier used in storage and payloads.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// weekdaySynonyms maps every accepted day key, lowercased, to its canonical
// weekday. It covers the canonical identifiers plus Portuguese day names
// with and without diacritics and with the optional -feira suffix. Built
// once at startup and never mutated.
var weekdaySynonyms = buildWeekdaySynonyms()

func buildWeekdaySynonyms() map[string]Weekday {
	m := make(map[string]Weekday)
	add := func(w Weekday, names ...string) {
		for _, n := range names {
			m[n] = w
		}
	}
	add(Monday, "monday", "segunda", "segunda-feira")
	add(Tuesday, "tuesday", "terca", "terça", "terca-feira", "terça-feira")
	add(Wednesday, "wednesday", "quarta", "quarta-feira")
	add(Thursday, "thursday", "quinta", "quinta-feira")
	add(Friday, "friday", "sexta", "sexta-feira")
	add(Saturday, "saturday", "sabado", "sábado")
	add(Sunday, "sunday", "domingo")
	return m
}

// ParseWeekday normalizes key case-insensitively against the synonym table.
// The second result is false for unrecognized keys.
func ParseWeekday(key string) (Weekday, bool) {
	w, ok := weekdaySynonyms[strings.ToLower(strings.TrimSpace(key))]
	return w, ok
}

// WeekdayOf maps a calendar date to its canonical weekday.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// portugueseNames renders weekdays for patient-facing day labels.
var portugueseNames = map[Weekday]string{
	Monday:    "segunda-feira",
	Tuesday:   "terça-feira",
	Wednesday: "quarta-feira",
	Thursday:  "quinta-feira",
	Friday:    "sexta-feira",
	Saturday:  "sábado",
	Sunday:    "domingo",
}

// Label returns the Portuguese display name of the weekday.
func (w Weekday) Label() string {
	return portugueseNames[w]
}

// Valid reports whether w is one of the seven canonical identifiers.
func (w Weekday) Valid() bool {
	_, ok := portugueseNames[w]
	return ok
}

package schedule

import (
	"fmt"
	"regexp"
)

// clockPattern accepts exactly HH:mm with a 24-hour clock.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock converts a strict HH:mm string to minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	var h, min int
	fmt.Sscanf(s, "%02d:%02d", &h, &min)
	return h*60 + min, nil
}

// ValidClock reports whether s matches the strict HH:mm pattern.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// FormatClock renders minutes since midnight as HH:mm.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

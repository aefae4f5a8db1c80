// Package timeutil provides school-calendar helpers: trimester date windows
// and the school year. The Bolivian school year runs February through
// November, split into three trimesters.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// Trimester window boundaries (month/day) within the school year. The
// windows are inclusive; December and January fall outside of all three and
// default to the third trimester for reporting purposes.
var trimesterStarts = []struct {
	month time.Month
	day   int
}{
	{time.February, 1},  // T1
	{time.May, 15},      // T2
	{time.September, 1}, // T3
}

// SchoolYear returns the school year a date belongs to. January counts
// toward the previous calendar year's school year (summer break).
func SchoolYear(t time.Time) int {
	if t.Month() == time.January {
		return t.Year() - 1
	}
	return t.Year()
}

// CurrentTrimester returns the 1-based trimester number (1..3) a date falls
// in. Dates before the first window or after the school year report the
// nearest trimester.
func CurrentTrimester(t time.Time) int {
	year := t.Year()
	if t.Month() == time.January {
		return 3
	}
	current := 1
	for i, w := range trimesterStarts {
		start := time.Date(year, w.month, w.day, 0, 0, 0, 0, t.Location())
		if !t.Before(start) {
			current = i + 1
		}
	}
	return current
}

// TrimesterWindow returns the inclusive start and exclusive end of a
// trimester within a school year, in the given location.
func TrimesterWindow(schoolYear, trimester int, loc *time.Location) (start, end time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	if trimester < 1 {
		trimester = 1
	}
	if trimester > 3 {
		trimester = 3
	}

	w := trimesterStarts[trimester-1]
	start = time.Date(schoolYear, w.month, w.day, 0, 0, 0, 0, loc)

	if trimester == 3 {
		// the third trimester closes with the school year
		end = time.Date(schoolYear, time.December, 1, 0, 0, 0, 0, loc)
	} else {
		n := trimesterStarts[trimester]
		end = time.Date(schoolYear, n.month, n.day, 0, 0, 0, 0, loc)
	}
	return start, end
}

package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestSchoolYear(t *testing.T) {
	assert.Equal(t, 2026, SchoolYear(date(2026, time.March, 10)))
	assert.Equal(t, 2026, SchoolYear(date(2026, time.December, 20)))
	// January belongs to the previous school year
	assert.Equal(t, 2025, SchoolYear(date(2026, time.January, 15)))
}

func TestCurrentTrimester(t *testing.T) {
	assert.Equal(t, 1, CurrentTrimester(date(2026, time.February, 1)))
	assert.Equal(t, 1, CurrentTrimester(date(2026, time.April, 30)))
	assert.Equal(t, 2, CurrentTrimester(date(2026, time.May, 15)))
	assert.Equal(t, 2, CurrentTrimester(date(2026, time.August, 31)))
	assert.Equal(t, 3, CurrentTrimester(date(2026, time.September, 1)))
	assert.Equal(t, 3, CurrentTrimester(date(2026, time.November, 20)))
	assert.Equal(t, 3, CurrentTrimester(date(2027, time.January, 10)))
}

func TestTrimesterWindow(t *testing.T) {
	start, end := TrimesterWindow(2026, 2, time.UTC)
	assert.Equal(t, time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = TrimesterWindow(2026, 3, time.UTC)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), end)
}

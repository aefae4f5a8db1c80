// Package ranking orders students by computed average within a scope
// (course or educational level) and assigns 1-based positions.
package ranking

import (
	"sort"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
)

// Entry is one ranked student. Entries are derived per invocation and never
// persisted.
type Entry struct {
	// Student is the ranked student.
	Student student.Student

	// Average is the computed average that produced the position.
	Average float64

	// Position is the 1-based rank within the scope. Positions are
	// consecutive; tied averages receive consecutive positions in input
	// order, not a shared rank.
	Position int

	// ScopeLabel is the scope key the entry was ranked within.
	ScopeLabel string
}

// ScopeKeyFunc extracts the grouping key a student is ranked within.
type ScopeKeyFunc func(student.Student) string

// ByCourse scopes ranking to the student's course.
func ByCourse(s student.Student) string { return s.CourseCode }

// Rank groups students by scope key and orders each group descending by
// average. Students whose average is absent or zero are excluded: no grades
// means no rank, never a rank with score zero. When topN > 0 each group is
// truncated to its first topN entries after sorting, so the returned slice
// is always a prefix of the full sorted order.
func Rank(students []student.Student, averages map[string]float64, scopeKey ScopeKeyFunc, topN int) map[string][]Entry {
	scopes := make(map[string][]Entry)
	for _, s := range students {
		avg, ok := averages[s.ID]
		if !ok || avg <= 0 {
			continue
		}
		key := scopeKey(s)
		scopes[key] = append(scopes[key], Entry{
			Student:    s,
			Average:    avg,
			ScopeLabel: key,
		})
	}

	for key, entries := range scopes {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Average > entries[j].Average
		})
		if topN > 0 && len(entries) > topN {
			entries = entries[:topN]
		}
		for i := range entries {
			entries[i].Position = i + 1
		}
		scopes[key] = entries
	}
	return scopes
}

// BestOfLevel ranks the single best student of each course against the
// other course winners of the same educational level. This is a two-stage
// reduction: first one winner per course, then a fresh ranking of the
// winners grouped by level. It is not a flat ranking of every student in
// the level.
func BestOfLevel(students []student.Student, averages map[string]float64, levelOf func(courseCode string) string) map[string][]Entry {
	perCourse := Rank(students, averages, ByCourse, 1)

	var winners []student.Student
	for _, entries := range perCourse {
		if len(entries) > 0 {
			winners = append(winners, entries[0].Student)
		}
	}
	// Deterministic winner order before the second stage: course code.
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].CourseCode < winners[j].CourseCode
	})

	return Rank(winners, averages, func(s student.Student) string {
		return levelOf(s.CourseCode)
	}, 0)
}

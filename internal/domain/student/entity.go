// Package student contains the student and course domain model. Students
// are read-only inputs here: enrollment CRUD belongs to the surrounding
// application and is out of scope for the report engine.
package student

import (
	"fmt"
	"strings"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
)

// Level is the educational level a course belongs to.
type Level string

const (
	LevelInitial   Level = "inicial"
	LevelPrimary   Level = "primaria"
	LevelSecondary Level = "secundaria"
)

// IsValid reports whether the level is one of the known values.
func (l Level) IsValid() bool {
	switch l {
	case LevelInitial, LevelPrimary, LevelSecondary:
		return true
	}
	return false
}

// DisplayName returns the capitalized Spanish form used in report headers.
func (l Level) DisplayName() string {
	switch l {
	case LevelInitial:
		return "Inicial"
	case LevelPrimary:
		return "Primaria"
	case LevelSecondary:
		return "Secundaria"
	default:
		return string(l)
	}
}

// ParseLevel parses a level from its textual form, case-insensitively.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", shared.NewDomainError("student", "ParseLevel", shared.ErrInvalidInput,
			fmt.Sprintf("unknown level %q", s))
	}
	return l, nil
}

// Student is an enrolled student as read from the store.
type Student struct {
	// ID is the store identifier.
	ID string

	// GivenNames are the student's first names.
	GivenNames string

	// Surname is the family name, used for display and sibling clustering.
	Surname string

	// CourseCode is the code of the course the student is enrolled in.
	CourseCode string

	// Active marks current enrollment. Inactive students are excluded from
	// every aggregation, ranking and report.
	Active bool
}

// FullName returns "Surname GivenNames", the display order used in tables.
func (s Student) FullName() string {
	return strings.TrimSpace(s.Surname + " " + s.GivenNames)
}

// Course is a course (grade-section) as read from the store.
type Course struct {
	// Code is the store identifier, also used in output file names.
	Code string

	// DisplayName is the human-readable course name.
	DisplayName string

	// Level is the educational level the course belongs to.
	Level Level
}

// ActiveOnly filters a student list down to active students, preserving
// order.
func ActiveOnly(students []Student) []Student {
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

package grade

import (
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
)

// Score bounds enforced by the store at write time. Reads assume stored
// scores already satisfy them; Clamp exists for defensive call sites.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Record is a single stored grade: one score for one student in one subject
// during one trimester. Records are immutable once read from the store. The
// store contract guarantees at most one record per (student, subject, period).
type Record struct {
	// StudentID identifies the graded student.
	StudentID string

	// SubjectCode identifies the graded subject.
	SubjectCode string

	// Period is the trimester the score belongs to (never PeriodAnnual).
	Period Period

	// Score is the grade on the 0.00-100.00 scale, two-decimal precision.
	Score float64
}

// Validate checks record invariants.
func (r Record) Validate() error {
	if r.StudentID == "" {
		return shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "student id is empty")
	}
	if r.SubjectCode == "" {
		return shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "subject code is empty")
	}
	if !r.Period.IsTrimester() {
		return shared.NewDomainError("grade", "Validate", shared.ErrInvalidPeriod,
			fmt.Sprintf("record period must be a trimester, got %d", int(r.Period)))
	}
	if r.Score < MinScore || r.Score > MaxScore {
		return shared.NewDomainError("grade", "Validate", shared.ErrValueOutOfRange,
			fmt.Sprintf("score %.2f outside [%.0f, %.0f]", r.Score, MinScore, MaxScore))
	}
	return nil
}

// Clamp forces a score into the valid range.
func Clamp(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

package grade

import "context"

// Repository reads grade records from the grade store. Implementations must
// range-paginate under the store's per-request row ceiling and concatenate,
// so callers always see complete result sets. PeriodAnnual selects records
// from all three trimesters.
type Repository interface {
	// ListByStudent returns a student's records for the period.
	ListByStudent(ctx context.Context, studentID string, period Period) ([]Record, error)

	// ListByCourse returns the records of every student enrolled in the
	// course for the period.
	ListByCourse(ctx context.Context, courseCode string, period Period) ([]Record, error)

	// ListByStudents returns records for an explicit student id set for
	// the period, batching the id set as needed.
	ListByStudents(ctx context.Context, studentIDs []string, period Period) ([]Record, error)
}

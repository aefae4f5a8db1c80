package postgres

import (
	"context"
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
)

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

// gradeColumns is the scan order shared by every grade query.
const gradeColumns = "student_id, subject_code, period, score"

// ListByStudent returns a student's records for the period.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID string, period grade.Period) ([]grade.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM grades
		WHERE student_id = $1 %s
		ORDER BY subject_code, period
		LIMIT $2 OFFSET $3
	`, gradeColumns, periodFilter(period, 4))

	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]grade.Record, error) {
		args := []any{studentID, limit, offset}
		args = appendPeriodArg(args, period)
		return r.queryRecords(ctx, query, args...)
	})
}

// ListByCourse returns the records of every student enrolled in the course
// for the period.
func (r *GradeRepository) ListByCourse(ctx context.Context, courseCode string, period grade.Period) ([]grade.Record, error) {
	query := fmt.Sprintf(`
		SELECT g.student_id, g.subject_code, g.period, g.score
		FROM grades g
		JOIN students s ON s.id = g.student_id
		WHERE s.course_code = $1 %s
		ORDER BY g.student_id, g.subject_code, g.period
		LIMIT $2 OFFSET $3
	`, periodFilterQualified(period, 4))

	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]grade.Record, error) {
		args := []any{courseCode, limit, offset}
		args = appendPeriodArg(args, period)
		return r.queryRecords(ctx, query, args...)
	})
}

// ListByStudents returns records for an explicit student id set.
func (r *GradeRepository) ListByStudents(ctx context.Context, studentIDs []string, period grade.Period) ([]grade.Record, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM grades
		WHERE student_id = ANY($1) %s
		ORDER BY student_id, subject_code, period
		LIMIT $2 OFFSET $3
	`, gradeColumns, periodFilter(period, 4))

	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]grade.Record, error) {
		args := []any{studentIDs, limit, offset}
		args = appendPeriodArg(args, period)
		return r.queryRecords(ctx, query, args...)
	})
}

// queryRecords runs a grade query and scans the page.
func (r *GradeRepository) queryRecords(ctx context.Context, query string, args ...any) ([]grade.Record, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	defer rows.Close()

	var records []grade.Record
	for rows.Next() {
		var rec grade.Record
		var period int
		if err := rows.Scan(&rec.StudentID, &rec.SubjectCode, &period, &rec.Score); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		rec.Period = grade.Period(period)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grades: %w", err)
	}
	return records, nil
}

// periodFilter renders the optional period predicate for an unqualified
// grades query. PeriodAnnual selects all trimesters.
func periodFilter(period grade.Period, argPos int) string {
	if !period.IsTrimester() {
		return ""
	}
	return fmt.Sprintf("AND period = $%d", argPos)
}

func periodFilterQualified(period grade.Period, argPos int) string {
	if !period.IsTrimester() {
		return ""
	}
	return fmt.Sprintf("AND g.period = $%d", argPos)
}

// appendPeriodArg appends the period argument when the filter is active.
func appendPeriodArg(args []any, period grade.Period) []any {
	if period.IsTrimester() {
		args = append(args, int(period))
	}
	return args
}

package postgres

import (
	"context"
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/subject"
)

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// ListByCourse returns the students of a course ordered by surname then
// given names, active and inactive alike.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseCode string) ([]student.Student, error) {
	const query = `
		SELECT id, given_names, surname, course_code, active
		FROM students
		WHERE course_code = $1
		ORDER BY surname, given_names, id
		LIMIT $2 OFFSET $3
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]student.Student, error) {
		return r.queryStudents(ctx, query, courseCode, limit, offset)
	})
}

// ListActive returns every active student across all courses.
func (r *StudentRepository) ListActive(ctx context.Context) ([]student.Student, error) {
	const query = `
		SELECT id, given_names, surname, course_code, active
		FROM students
		WHERE active
		ORDER BY surname, given_names, id
		LIMIT $1 OFFSET $2
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]student.Student, error) {
		return r.queryStudents(ctx, query, limit, offset)
	})
}

// GetByID returns a single student.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	const query = `
		SELECT id, given_names, surname, course_code, active
		FROM students
		WHERE id = $1
	`
	var s student.Student
	err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.GivenNames, &s.Surname, &s.CourseCode, &s.Active)
	if IsNoRows(err) {
		return student.Student{}, shared.NewDomainError("student", "GetByID", shared.ErrNotFound,
			fmt.Sprintf("student %q not found", id))
	}
	if err != nil {
		return student.Student{}, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, query string, args ...any) ([]student.Student, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var students []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.GivenNames, &s.Surname, &s.CourseCode, &s.Active); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// CourseRepository implements student.CourseRepository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// List returns all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]student.Course, error) {
	const query = `
		SELECT code, display_name, level
		FROM courses
		ORDER BY code
		LIMIT $1 OFFSET $2
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]student.Course, error) {
		rows, err := r.conn.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("query courses: %w", err)
		}
		defer rows.Close()

		var courses []student.Course
		for rows.Next() {
			var c student.Course
			var level string
			if err := rows.Scan(&c.Code, &c.DisplayName, &level); err != nil {
				return nil, fmt.Errorf("scan course: %w", err)
			}
			c.Level = student.Level(level)
			courses = append(courses, c)
		}
		return courses, rows.Err()
	})
}

// GetByCode returns a single course.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (student.Course, error) {
	const query = `SELECT code, display_name, level FROM courses WHERE code = $1`

	var c student.Course
	var level string
	err := r.conn.QueryRow(ctx, query, code).Scan(&c.Code, &c.DisplayName, &level)
	if IsNoRows(err) {
		return student.Course{}, shared.NewDomainError("student", "GetByCode", shared.ErrNotFound,
			fmt.Sprintf("course %q not found", code))
	}
	if err != nil {
		return student.Course{}, fmt.Errorf("get course: %w", err)
	}
	c.Level = student.Level(level)
	return c, nil
}

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn *Connection
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn *Connection) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

// ListByCourse returns the subjects of a course, display order first
// (nulls last) then code.
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseCode string) ([]subject.Subject, error) {
	const query = `
		SELECT code, short_name, display_name, course_code, area_id, display_order
		FROM subjects
		WHERE course_code = $1
		ORDER BY display_order NULLS LAST, code
		LIMIT $2 OFFSET $3
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]subject.Subject, error) {
		rows, err := r.conn.Query(ctx, query, courseCode, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("query subjects: %w", err)
		}
		defer rows.Close()

		var subjects []subject.Subject
		for rows.Next() {
			var s subject.Subject
			if err := rows.Scan(&s.Code, &s.ShortName, &s.DisplayName, &s.CourseCode, &s.AreaID, &s.DisplayOrder); err != nil {
				return nil, fmt.Errorf("scan subject: %w", err)
			}
			subjects = append(subjects, s)
		}
		return subjects, rows.Err()
	})
}

// ListAreas returns all regulatory areas.
func (r *SubjectRepository) ListAreas(ctx context.Context) ([]subject.Area, error) {
	const query = `
		SELECT id, name FROM areas
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]subject.Area, error) {
		rows, err := r.conn.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("query areas: %w", err)
		}
		defer rows.Close()

		var areas []subject.Area
		for rows.Next() {
			var a subject.Area
			if err := rows.Scan(&a.ID, &a.Name); err != nil {
				return nil, fmt.Errorf("scan area: %w", err)
			}
			areas = append(areas, a)
		}
		return areas, rows.Err()
	})
}

// ListGroupingRules returns all grouping rules.
func (r *SubjectRepository) ListGroupingRules(ctx context.Context) ([]subject.GroupingRule, error) {
	const query = `
		SELECT area_id, group_name, display_label, member_subject_codes
		FROM grouping_rules
		ORDER BY area_id, group_name
		LIMIT $1 OFFSET $2
	`
	return listPaged(ctx, r.conn.PageSize(), func(ctx context.Context, limit, offset int) ([]subject.GroupingRule, error) {
		rows, err := r.conn.Query(ctx, query, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("query grouping rules: %w", err)
		}
		defer rows.Close()

		var rules []subject.GroupingRule
		for rows.Next() {
			var rule subject.GroupingRule
			if err := rows.Scan(&rule.AreaID, &rule.GroupName, &rule.DisplayLabel, &rule.MemberSubjectCodes); err != nil {
				return nil, fmt.Errorf("scan grouping rule: %w", err)
			}
			rules = append(rules, rule)
		}
		return rules, rows.Err()
	})
}

package student

import "context"

// Repository reads students and courses from the grade store. All reads are
// filtered and range-paginated by the implementation; callers always receive
// complete result sets regardless of the store's per-request row ceiling.
type Repository interface {
	// ListByCourse returns the students enrolled in a course, ordered by
	// surname then given names. Inactive students are included; callers
	// filter with ActiveOnly where aggregation rules require it.
	ListByCourse(ctx context.Context, courseCode string) ([]Student, error)

	// ListActive returns every active student across all courses, ordered
	// by surname then given names.
	ListActive(ctx context.Context) ([]Student, error)

	// GetByID returns a single student.
	GetByID(ctx context.Context, id string) (Student, error)
}

// CourseRepository reads courses from the grade store.
type CourseRepository interface {
	// List returns all courses ordered by code.
	List(ctx context.Context) ([]Course, error)

	// GetByCode returns a single course.
	GetByCode(ctx context.Context, code string) (Course, error)
}

// Package report contains the report builders: use cases that pull grade
// rows from the store, run the domain aggregations, and hand the results to
// the document renderer. Each build call is a one-shot, user-triggered
// operation that owns its in-memory maps and discards them on completion.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/subject"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// AverageCache caches computed per-course average maps. Implementations may
// fail freely: every cache error is treated as a miss and logged, never
// surfaced.
type AverageCache interface {
	GetCourseAverages(ctx context.Context, courseCode string, period grade.Period) (map[string]float64, error)
	SetCourseAverages(ctx context.Context, courseCode string, period grade.Period, averages map[string]float64) error
}

// Document is a generated report file.
type Document struct {
	// ID identifies the generation run.
	ID uuid.UUID

	// Filename encodes report type, scope and period.
	Filename string

	// Data is the PDF payload.
	Data []byte

	// Warnings lists non-fatal problems (skipped courses in best-effort
	// multi-course loops). They are resurfaced to the caller instead of
	// being swallowed.
	Warnings []string

	// GeneratedAt is the generation timestamp.
	GeneratedAt time.Time
}

// Options tunes the builders.
type Options struct {
	// TopN truncates each ranking scope (0 keeps everyone).
	TopN int

	// MinFamilySize is the minimum sibling cluster size shown.
	MinFamilySize int
}

// Deps wires the service.
type Deps struct {
	Grades   grade.Repository
	Students student.Repository
	Courses  student.CourseRepository
	Subjects subject.Repository
	Cache    AverageCache // optional
	Renderer *pdf.Renderer
	Log      *logger.Logger
	Options  Options
}

// Service builds the printable documents.
type Service struct {
	grades   grade.Repository
	students student.Repository
	courses  student.CourseRepository
	subjects subject.Repository
	cache    AverageCache
	renderer *pdf.Renderer
	log      *logger.Logger
	opts     Options
}

// NewService creates the report service.
func NewService(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Default()
	}
	opts := deps.Options
	if opts.MinFamilySize <= 0 {
		opts.MinFamilySize = 3
	}
	return &Service{
		grades:   deps.Grades,
		students: deps.Students,
		courses:  deps.Courses,
		subjects: deps.Subjects,
		cache:    deps.Cache,
		renderer: deps.Renderer,
		log:      log,
		opts:     opts,
	}
}

// newDocument stamps a generated file.
func newDocument(filename string, data []byte, warnings []string) *Document {
	return &Document{
		ID:          uuid.New(),
		Filename:    filename,
		Data:        data,
		Warnings:    warnings,
		GeneratedAt: time.Now().UTC(),
	}
}

// courseAverages computes the student-id to average map for a course and
// period, consulting the cache first. The map only contains students with
// at least one qualifying grade row.
func (s *Service) courseAverages(ctx context.Context, courseCode string, period grade.Period) (map[string]float64, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCourseAverages(ctx, courseCode, period); err == nil {
			return cached, nil
		}
	}

	records, err := s.grades.ListByCourse(ctx, courseCode, period)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]grade.Record)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	averages := make(map[string]float64, len(byStudent))
	for id, recs := range byStudent {
		if avg := grade.Average(recs, period); avg > 0 {
			averages[id] = avg
		}
	}

	if s.cache != nil {
		if err := s.cache.SetCourseAverages(ctx, courseCode, period, averages); err != nil {
			s.log.Warn("average cache write failed",
				logger.CourseCode(courseCode), logger.Err(err))
		}
	}
	return averages, nil
}

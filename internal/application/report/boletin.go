package report

import (
	"context"
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/subject"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// BuildBoletin generates one student's report card.
func (s *Service) BuildBoletin(ctx context.Context, courseCode, studentID string, period grade.Period) (*Document, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletin", shared.ErrNotFound,
			"no se encontró al estudiante", err)
	}
	course, err := s.courses.GetByCode(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletin", shared.ErrNotFound,
			"no se encontró el curso", err)
	}

	catalog, err := s.courseCatalog(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	// A failed grade fetch aborts the report; there is no partial boletín.
	records, err := s.grades.ListByStudent(ctx, studentID, grade.PeriodAnnual)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletin", shared.ErrStoreUnavailable,
			"no se pudieron leer las calificaciones", err)
	}

	rep := buildBoletinReport(st, course, catalog, records, period)
	data, err := s.renderer.RenderBoletines([]pdf.BoletinReport{rep})
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletin", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	s.log.Info("boletín generated",
		logger.StudentID(studentID), logger.CourseCode(courseCode), logger.Period(period))
	return newDocument(boletinFilename(courseCode, studentID, period), data, nil), nil
}

// BuildBoletinBatch generates every active student's report card for a
// course in one document, with a forced page break between students.
func (s *Service) BuildBoletinBatch(ctx context.Context, courseCode string, period grade.Period) (*Document, error) {
	course, err := s.courses.GetByCode(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletinBatch", shared.ErrNotFound,
			"no se encontró el curso", err)
	}

	students, err := s.students.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletinBatch", shared.ErrStoreUnavailable,
			"no se pudieron leer los estudiantes", err)
	}
	active := student.ActiveOnly(students)
	if len(active) == 0 {
		return nil, shared.NewDomainError("report", "BuildBoletinBatch", shared.ErrNoGrades,
			fmt.Sprintf("el curso %s no tiene estudiantes activos", courseCode))
	}

	catalog, err := s.courseCatalog(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	// One batched fetch for the whole course instead of a query per
	// student; the repository pages under the store ceiling.
	records, err := s.grades.ListByCourse(ctx, courseCode, grade.PeriodAnnual)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletinBatch", shared.ErrStoreUnavailable,
			"no se pudieron leer las calificaciones", err)
	}
	byStudent := make(map[string][]grade.Record)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	reports := make([]pdf.BoletinReport, 0, len(active))
	for _, st := range active {
		reports = append(reports, buildBoletinReport(st, course, catalog, byStudent[st.ID], period))
	}

	data, err := s.renderer.RenderBoletines(reports)
	if err != nil {
		return nil, shared.WrapError("report", "BuildBoletinBatch", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	s.log.Info("boletín batch generated",
		logger.CourseCode(courseCode), logger.Period(period), logger.RowCount(len(reports)))
	return newDocument(boletinBatchFilename(courseCode, period), data, nil), nil
}

// courseCatalog loads the subject list, the grouping rules and the area
// lookup for a course.
type catalog struct {
	subjects []subject.Subject
	rules    []subject.GroupingRule
	lookup   *subject.Lookup
}

func (s *Service) courseCatalog(ctx context.Context, courseCode string) (*catalog, error) {
	subjects, err := s.subjects.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "courseCatalog", shared.ErrStoreUnavailable,
			"no se pudieron leer las materias", err)
	}
	areas, err := s.subjects.ListAreas(ctx)
	if err != nil {
		return nil, shared.WrapError("report", "courseCatalog", shared.ErrStoreUnavailable,
			"no se pudieron leer las áreas", err)
	}
	rules, err := s.subjects.ListGroupingRules(ctx)
	if err != nil {
		return nil, shared.WrapError("report", "courseCatalog", shared.ErrStoreUnavailable,
			"no se pudieron leer las agrupaciones", err)
	}
	return &catalog{
		subjects: subjects,
		rules:    rules,
		lookup:   subject.BuildLookup(subjects, areas, rules),
	}, nil
}

// buildBoletinReport assembles one report card from a student's records.
func buildBoletinReport(st student.Student, course student.Course, cat *catalog, records []grade.Record, period grade.Period) pdf.BoletinReport {
	bySubject := make(map[string][]grade.Record)
	for _, r := range records {
		bySubject[r.SubjectCode] = append(bySubject[r.SubjectCode], r)
	}

	rows := make([]pdf.BoletinRow, 0, len(cat.subjects))
	for _, subj := range cat.subjects {
		recs := bySubject[subj.Code]

		var row pdf.BoletinRow
		row.SubjectName = subj.DisplayName
		if subj.AreaID != nil {
			row.AreaName = cat.lookup.AreaName(*subj.AreaID)
		}
		for i, p := range grade.Trimesters {
			row.Trimesters[i] = grade.Average(recs, p)
		}
		row.Average = grade.AverageOfValues(row.Trimesters[:])
		rows = append(rows, row)
	}

	var general [4]float64
	for i, p := range grade.Trimesters {
		general[i] = grade.Average(records, p)
	}
	general[3] = grade.Average(records, grade.PeriodAnnual)

	return pdf.BoletinReport{
		StudentName:     st.FullName(),
		CourseName:      course.DisplayName,
		Period:          period,
		Rows:            rows,
		GeneralAverages: general,
	}
}

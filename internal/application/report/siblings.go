package report

import (
	"context"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/family"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// BuildSiblings generates the sibling report: active students clustered by
// normalized surname across the whole school, with each member's average for
// the period. Grades are fetched only for the students that made it into a
// cluster.
func (s *Service) BuildSiblings(ctx context.Context, period grade.Period) (*Document, error) {
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, shared.WrapError("report", "BuildSiblings", shared.ErrStoreUnavailable,
			"no se pudieron leer los estudiantes", err)
	}

	groups := family.Cluster(students, s.opts.MinFamilySize)
	if len(groups) == 0 {
		return nil, shared.NewDomainError("report", "BuildSiblings", shared.ErrNoGrades,
			"no hay familias con suficientes hermanos inscritos")
	}

	records, err := s.grades.ListByStudents(ctx, family.MemberIDs(groups), period)
	if err != nil {
		return nil, shared.WrapError("report", "BuildSiblings", shared.ErrStoreUnavailable,
			"no se pudieron leer las calificaciones", err)
	}
	byStudent := make(map[string][]grade.Record)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}
	averages := make(map[string]float64, len(byStudent))
	for id, recs := range byStudent {
		averages[id] = grade.Average(recs, period)
	}
	family.Enrich(groups, averages)

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, shared.WrapError("report", "BuildSiblings", shared.ErrStoreUnavailable,
			"no se pudieron leer los cursos", err)
	}
	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		courseNames[c.Code] = c.DisplayName
	}

	rep := pdf.SiblingReport{Period: period}
	for _, g := range groups {
		sg := pdf.SiblingGroup{Surname: g.Surname}
		for _, m := range g.Members {
			name, ok := courseNames[m.Student.CourseCode]
			if !ok {
				name = m.Student.CourseCode
			}
			sg.Members = append(sg.Members, pdf.SiblingMember{
				FullName:   m.Student.FullName(),
				CourseName: name,
				Average:    m.Average,
			})
		}
		rep.Groups = append(rep.Groups, sg)
	}

	data, err := s.renderer.RenderSiblings(rep)
	if err != nil {
		return nil, shared.WrapError("report", "BuildSiblings", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	s.log.Info("sibling report generated",
		logger.Period(period), logger.RowCount(len(groups)))
	return newDocument(siblingsFilename(period), data, nil), nil
}

package report

import (
	"context"
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/ranking"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/subject"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// BuildCentralizer generates the single-course grade sheet. With regulatory
// set, subjects covered by a grouping rule collapse into one averaged column
// and every value follows the whole-point policy; otherwise every subject is
// its own column with two-decimal values.
func (s *Service) BuildCentralizer(ctx context.Context, courseCode string, period grade.Period, regulatory bool) (*Document, error) {
	course, err := s.courses.GetByCode(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCentralizer", shared.ErrNotFound,
			"no se encontró el curso", err)
	}

	students, err := s.students.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCentralizer", shared.ErrStoreUnavailable,
			"no se pudieron leer los estudiantes", err)
	}
	active := student.ActiveOnly(students)
	if len(active) == 0 {
		return nil, shared.NewDomainError("report", "BuildCentralizer", shared.ErrNoGrades,
			fmt.Sprintf("el curso %s no tiene estudiantes activos", courseCode))
	}

	cat, err := s.courseCatalog(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	var elements []subject.OrderedElement
	if regulatory {
		elements = subject.Resolve(cat.subjects, cat.rules)
	} else {
		// The internal sheet never merges columns; an empty rule set
		// degenerates Resolve into plain subject ordering.
		elements = subject.Resolve(cat.subjects, nil)
	}

	records, err := s.grades.ListByCourse(ctx, courseCode, period)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCentralizer", shared.ErrStoreUnavailable,
			"no se pudieron leer las calificaciones", err)
	}
	scores := subjectScores(records, period)

	averages, err := s.courseAverages(ctx, courseCode, period)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCentralizer", shared.ErrStoreUnavailable,
			"no se pudieron calcular los promedios", err)
	}
	medals := medalPositions(active, averages)

	labels := make([]string, len(elements))
	for i, el := range elements {
		labels[i] = el.Label
	}

	rows := make([]pdf.CentralizerRow, 0, len(active))
	for _, st := range active {
		row := pdf.CentralizerRow{
			Surname:    st.Surname,
			GivenNames: st.GivenNames,
			Average:    averages[st.ID],
			Medal:      medals[st.ID],
			Scores:     make([]pdf.CellScore, 0, len(elements)),
		}
		for _, el := range elements {
			row.Scores = append(row.Scores, elementScore(el, scores[st.ID]))
		}
		rows = append(rows, row)
	}

	rep := pdf.CentralizerReport{
		CourseName:   course.DisplayName,
		Period:       period,
		ColumnLabels: labels,
		Rows:         rows,
		Regulatory:   regulatory,
	}
	data, err := s.renderer.RenderCentralizer(rep)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCentralizer", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	s.log.Info("centralizer generated",
		logger.CourseCode(courseCode), logger.Period(period),
		logger.RowCount(len(rows)), logger.Bool("regulatory", regulatory))
	return newDocument(centralizerFilename(courseCode, period, regulatory), data, nil), nil
}

// subjectScores computes the per-student, per-subject value for the period.
// Missing combinations are simply absent from the inner map.
func subjectScores(records []grade.Record, period grade.Period) map[string]map[string]float64 {
	grouped := make(map[string]map[string][]grade.Record)
	for _, r := range records {
		bySubject, ok := grouped[r.StudentID]
		if !ok {
			bySubject = make(map[string][]grade.Record)
			grouped[r.StudentID] = bySubject
		}
		bySubject[r.SubjectCode] = append(bySubject[r.SubjectCode], r)
	}

	out := make(map[string]map[string]float64, len(grouped))
	for studentID, bySubject := range grouped {
		scores := make(map[string]float64, len(bySubject))
		for code, recs := range bySubject {
			if v := grade.Average(recs, period); v > 0 {
				scores[code] = v
			}
		}
		out[studentID] = scores
	}
	return out
}

// elementScore resolves one column value for a student.
func elementScore(el subject.OrderedElement, scores map[string]float64) pdf.CellScore {
	if el.Kind == subject.ElementSubject {
		v, ok := scores[el.SubjectCode]
		return pdf.CellScore{Value: v, Present: ok}
	}
	members := make([]float64, 0, len(el.MemberCodes))
	for _, code := range el.MemberCodes {
		members = append(members, scores[code])
	}
	v, ok := subject.GroupScore(members)
	return pdf.CellScore{Value: v, Present: ok}
}

// medalPositions maps the course's top three students to their positions.
func medalPositions(students []student.Student, averages map[string]float64) map[string]int {
	ranked := ranking.Rank(students, averages, ranking.ByCourse, 3)
	medals := make(map[string]int)
	for _, entries := range ranked {
		for _, e := range entries {
			medals[e.Student.ID] = e.Position
		}
	}
	return medals
}

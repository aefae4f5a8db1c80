package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/ranking"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// BuildCourseRanking generates the per-course ranking document. With no
// course codes it covers every course. Courses whose data cannot be read are
// skipped and reported through Document.Warnings; the build only fails when
// nothing at all could be ranked.
func (s *Service) BuildCourseRanking(ctx context.Context, courseCodes []string, period grade.Period) (*Document, error) {
	courses, err := s.resolveCourses(ctx, courseCodes)
	if err != nil {
		return nil, err
	}

	var (
		reports  []pdf.RankingReport
		warnings []string
	)
	for _, course := range courses {
		students, averages, err := s.courseStanding(ctx, course.Code, period)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("curso %s omitido: %v", course.Code, err))
			s.log.Warn("course skipped in ranking",
				logger.CourseCode(course.Code), logger.Err(err))
			continue
		}

		ranked := ranking.Rank(students, averages, ranking.ByCourse, s.opts.TopN)
		entries := ranked[course.Code]
		if len(entries) == 0 {
			continue
		}

		reports = append(reports, pdf.RankingReport{
			Title:      "Ranking de Curso",
			ScopeLabel: course.DisplayName,
			Period:     period,
			Rows:       rankingRows(entries, map[string]string{course.Code: course.DisplayName}),
		})
	}

	if len(reports) == 0 {
		return nil, shared.NewDomainError("report", "BuildCourseRanking", shared.ErrNoGrades,
			"ningún curso tiene estudiantes con calificaciones")
	}

	data, err := s.renderer.RenderRankings(reports)
	if err != nil {
		return nil, shared.WrapError("report", "BuildCourseRanking", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	scope := "Cursos"
	if len(courses) == 1 {
		scope = courses[0].Code
	}
	s.log.Info("course ranking generated",
		logger.Period(period), logger.RowCount(len(reports)), logger.Int("warnings", len(warnings)))
	return newDocument(rankingFilename(scope, period), data, warnings), nil
}

// BuildLevelBestRanking generates the best-of-level document: the single top
// student of each course, ranked against the other course winners of the
// same educational level.
func (s *Service) BuildLevelBestRanking(ctx context.Context, period grade.Period) (*Document, error) {
	courses, err := s.resolveCourses(ctx, nil)
	if err != nil {
		return nil, err
	}

	courseNames := make(map[string]string, len(courses))
	levelByCourse := make(map[string]student.Level, len(courses))
	for _, c := range courses {
		courseNames[c.Code] = c.DisplayName
		levelByCourse[c.Code] = c.Level
	}

	var (
		allStudents []student.Student
		averages    = make(map[string]float64)
		warnings    []string
	)
	for _, course := range courses {
		students, courseAvgs, err := s.courseStanding(ctx, course.Code, period)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("curso %s omitido: %v", course.Code, err))
			s.log.Warn("course skipped in level ranking",
				logger.CourseCode(course.Code), logger.Err(err))
			continue
		}
		allStudents = append(allStudents, students...)
		for id, avg := range courseAvgs {
			averages[id] = avg
		}
	}

	byLevel := ranking.BestOfLevel(allStudents, averages, func(courseCode string) string {
		return string(levelByCourse[courseCode])
	})
	if len(byLevel) == 0 {
		return nil, shared.NewDomainError("report", "BuildLevelBestRanking", shared.ErrNoGrades,
			"ningún nivel tiene estudiantes con calificaciones")
	}

	levels := make([]string, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	reports := make([]pdf.RankingReport, 0, len(levels))
	for _, level := range levels {
		reports = append(reports, pdf.RankingReport{
			Title:      "Mejores por Nivel",
			ScopeLabel: student.Level(level).DisplayName(),
			Period:     period,
			Rows:       rankingRows(byLevel[level], courseNames),
		})
	}

	data, err := s.renderer.RenderRankings(reports)
	if err != nil {
		return nil, shared.WrapError("report", "BuildLevelBestRanking", shared.ErrInvalidEntity,
			"no se pudo generar el documento", err)
	}

	s.log.Info("level ranking generated",
		logger.Period(period), logger.RowCount(len(reports)), logger.Int("warnings", len(warnings)))
	return newDocument(rankingFilename("Niveles", period), data, warnings), nil
}

// resolveCourses loads the requested courses, or every course when codes is
// empty. An unknown code fails the whole build rather than silently shrinking
// the scope the caller asked for.
func (s *Service) resolveCourses(ctx context.Context, codes []string) ([]student.Course, error) {
	all, err := s.courses.List(ctx)
	if err != nil {
		return nil, shared.WrapError("report", "resolveCourses", shared.ErrStoreUnavailable,
			"no se pudieron leer los cursos", err)
	}
	if len(codes) == 0 {
		return all, nil
	}

	byCode := make(map[string]student.Course, len(all))
	for _, c := range all {
		byCode[c.Code] = c
	}
	out := make([]student.Course, 0, len(codes))
	for _, code := range codes {
		c, ok := byCode[code]
		if !ok {
			return nil, shared.NewDomainError("report", "resolveCourses", shared.ErrNotFound,
				fmt.Sprintf("no se encontró el curso %s", code))
		}
		out = append(out, c)
	}
	return out, nil
}

// courseStanding loads a course's active students and their averages.
func (s *Service) courseStanding(ctx context.Context, courseCode string, period grade.Period) ([]student.Student, map[string]float64, error) {
	students, err := s.students.ListByCourse(ctx, courseCode)
	if err != nil {
		return nil, nil, err
	}
	averages, err := s.courseAverages(ctx, courseCode, period)
	if err != nil {
		return nil, nil, err
	}
	return student.ActiveOnly(students), averages, nil
}

// rankingRows converts ranked entries to render rows.
func rankingRows(entries []ranking.Entry, courseNames map[string]string) []pdf.RankingRow {
	rows := make([]pdf.RankingRow, 0, len(entries))
	for _, e := range entries {
		name, ok := courseNames[e.Student.CourseCode]
		if !ok {
			name = e.Student.CourseCode
		}
		rows = append(rows, pdf.RankingRow{
			Position:   e.Position,
			Surname:    e.Student.Surname,
			GivenNames: e.Student.GivenNames,
			CourseName: name,
			Average:    e.Average,
		})
	}
	return rows
}

package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
)

func requirePDF(t *testing.T, doc *Document) {
	t.Helper()
	require.NotNil(t, doc)
	require.True(t, len(doc.Data) > 4)
	assert.Equal(t, "%PDF", string(doc.Data[:4]))
	assert.NotEqual(t, "", doc.ID.String())
	assert.False(t, doc.GeneratedAt.IsZero())
}

func TestBuildBoletin(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildBoletin(context.Background(), "5A", "s1", grade.PeriodAnnual)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Boletin_5A_s1_Anual.pdf", doc.Filename)
	assert.Empty(t, doc.Warnings)
}

func TestBuildBoletin_UnknownStudent(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	_, err := svc.BuildBoletin(context.Background(), "5A", "nope", grade.PeriodT1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBuildBoletinBatch(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildBoletinBatch(context.Background(), "5A", grade.PeriodT1)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Boletines_5A_T1.pdf", doc.Filename)
}

func TestBuildBoletinBatch_UnknownCourse(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	_, err := svc.BuildBoletinBatch(context.Background(), "9Z", grade.PeriodT1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBuildCentralizer(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildCentralizer(context.Background(), "5A", grade.PeriodT1, false)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Centralizador_5A_T1.pdf", doc.Filename)
}

func TestBuildCentralizer_Regulatory(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildCentralizer(context.Background(), "5A", grade.PeriodT1, true)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Centralizador_MINEDU_5A_T1.pdf", doc.Filename)
}

func TestBuildCentralizer_StoreDown(t *testing.T) {
	svc, grades, _ := newTestService(t, Options{})
	grades.errByCourse = map[string]error{"5A": errors.New("store down")}

	_, err := svc.BuildCentralizer(context.Background(), "5A", grade.PeriodT1, false)
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestBuildCourseRanking_AllCourses(t *testing.T) {
	svc, _, _ := newTestService(t, Options{TopN: 10})

	doc, err := svc.BuildCourseRanking(context.Background(), nil, grade.PeriodT1)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Ranking_Cursos_T1.pdf", doc.Filename)
	assert.Empty(t, doc.Warnings)
}

func TestBuildCourseRanking_SingleCourse(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildCourseRanking(context.Background(), []string{"5A"}, grade.PeriodT1)
	require.NoError(t, err)
	assert.Equal(t, "Ranking_5A_T1.pdf", doc.Filename)
}

func TestBuildCourseRanking_SkipsFailedCourseWithWarning(t *testing.T) {
	svc, grades, _ := newTestService(t, Options{})
	grades.errByCourse = map[string]error{"6A": errors.New("store down")}

	doc, err := svc.BuildCourseRanking(context.Background(), nil, grade.PeriodT1)
	require.NoError(t, err)
	requirePDF(t, doc)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "6A")
}

func TestBuildCourseRanking_AllCoursesFail(t *testing.T) {
	svc, grades, _ := newTestService(t, Options{})
	grades.errByCourse = map[string]error{
		"1S": errors.New("down"),
		"5A": errors.New("down"),
		"6A": errors.New("down"),
	}

	_, err := svc.BuildCourseRanking(context.Background(), nil, grade.PeriodT1)
	assert.ErrorIs(t, err, shared.ErrNoGrades)
}

func TestBuildCourseRanking_UnknownCourse(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	_, err := svc.BuildCourseRanking(context.Background(), []string{"9Z"}, grade.PeriodT1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBuildLevelBestRanking(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	doc, err := svc.BuildLevelBestRanking(context.Background(), grade.PeriodT1)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Ranking_Niveles_T1.pdf", doc.Filename)
}

func TestBuildSiblings(t *testing.T) {
	// the three Mamani students span 6A and 1S and share a normalized
	// surname key despite the "MAMANI" casing
	svc, _, _ := newTestService(t, Options{MinFamilySize: 3})

	doc, err := svc.BuildSiblings(context.Background(), grade.PeriodT1)
	require.NoError(t, err)
	requirePDF(t, doc)
	assert.Equal(t, "Hermanos_T1.pdf", doc.Filename)
}

func TestBuildSiblings_NoClusters(t *testing.T) {
	svc, _, _ := newTestService(t, Options{MinFamilySize: 4})

	_, err := svc.BuildSiblings(context.Background(), grade.PeriodT1)
	assert.ErrorIs(t, err, shared.ErrNoGrades)
}

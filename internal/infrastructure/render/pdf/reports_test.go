package pdf

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func testBranding(t *testing.T) Branding {
	return Branding{
		InstitutionName:     "Unidad Educativa San Martín",
		Logo:                testPNG(t, 96, 96),
		FooterImage:         testPNG(t, 300, 80),
		FooterImageHeightPx: 60,
		FooterFit:           FitProportional,
	}
}

func TestRenderBoletines(t *testing.T) {
	r := NewRenderer(testBranding(t), quietLogger())

	reports := []BoletinReport{
		{
			StudentName: "Peña Flores, María",
			CourseName:  "5to A Primaria",
			Period:      grade.PeriodAnnual,
			Rows: []BoletinRow{
				{AreaName: "Ciencias", SubjectName: "Matemática", Trimesters: [3]float64{70, 80, 90}, Average: 80},
				{AreaName: "Lenguaje", SubjectName: "Lengua Castellana", Trimesters: [3]float64{45, 0, 52}, Average: 48.5},
			},
			GeneralAverages: [4]float64{57.5, 80, 71, 64.25},
		},
		{
			StudentName: "Quispe Mamani, Juan",
			CourseName:  "5to A Primaria",
			Period:      grade.PeriodAnnual,
			Rows: []BoletinRow{
				{AreaName: "Ciencias", SubjectName: "Matemática", Trimesters: [3]float64{50, 50, 50}, Average: 50},
			},
			GeneralAverages: [4]float64{50, 50, 50, 50},
		},
	}

	data, err := r.RenderBoletines(reports)
	require.NoError(t, err)
	assert.True(t, len(data) > 1000)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderBoletines_PageBreakBetweenStudents(t *testing.T) {
	r := NewRenderer(Branding{InstitutionName: "UE Test"}, quietLogger())

	var reports []BoletinReport
	for i := 0; i < 3; i++ {
		reports = append(reports, BoletinReport{
			StudentName: fmt.Sprintf("Estudiante %d", i),
			CourseName:  "5A",
			Period:      grade.PeriodT1,
			Rows:        []BoletinRow{{SubjectName: "Matemática", Trimesters: [3]float64{60, 0, 0}, Average: 60}},
		})
	}

	data, err := r.RenderBoletines(reports)
	require.NoError(t, err)
	// each student forces a fresh page
	assert.GreaterOrEqual(t, countPages(data), 3)
}

func TestRenderCentralizer(t *testing.T) {
	r := NewRenderer(testBranding(t), quietLogger())

	rep := CentralizerReport{
		CourseName:   "5to A Primaria",
		Period:       grade.PeriodT2,
		ColumnLabels: []string{"MAT", "LEN", "Física-Química"},
		Rows: []CentralizerRow{
			{Surname: "Peña", GivenNames: "María",
				Scores:  []CellScore{{70, true}, {80, true}, {75, true}},
				Average: 75, Medal: 1},
			{Surname: "Quispe", GivenNames: "Juan",
				Scores:  []CellScore{{40, true}, {50, true}, {}},
				Average: 45, Medal: 2},
		},
	}

	data, err := r.RenderCentralizer(rep)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	rep.Regulatory = true
	data, err = r.RenderCentralizer(rep)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderCentralizer_ManyRowsPaginates(t *testing.T) {
	r := NewRenderer(Branding{InstitutionName: "UE Test"}, quietLogger())

	rep := CentralizerReport{
		CourseName:   "5A",
		Period:       grade.PeriodT1,
		ColumnLabels: []string{"MAT"},
	}
	for i := 0; i < 60; i++ {
		rep.Rows = append(rep.Rows, CentralizerRow{
			Surname: fmt.Sprintf("Apellido%02d", i), GivenNames: "Nombre",
			Scores: []CellScore{{60, true}}, Average: 60,
		})
	}

	data, err := r.RenderCentralizer(rep)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, countPages(data), 2)
}

func TestRenderRankings(t *testing.T) {
	r := NewRenderer(Branding{InstitutionName: "UE Test"}, quietLogger())

	data, err := r.RenderRankings([]RankingReport{
		{
			Title: "Ranking de Curso", ScopeLabel: "5A", Period: grade.PeriodAnnual,
			Rows: []RankingRow{
				{Position: 1, Surname: "Peña", GivenNames: "María", CourseName: "5A", Average: 91.5},
				{Position: 2, Surname: "Quispe", GivenNames: "Juan", CourseName: "5A", Average: 84},
			},
		},
		{
			Title: "Mejores por Nivel", ScopeLabel: "Primaria", Period: grade.PeriodAnnual,
			Rows: []RankingRow{
				{Position: 1, Surname: "Peña", GivenNames: "María", CourseName: "5A", Average: 91.5},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.GreaterOrEqual(t, countPages(data), 2)
}

func TestRenderSiblings(t *testing.T) {
	r := NewRenderer(Branding{InstitutionName: "UE Test"}, quietLogger())

	data, err := r.RenderSiblings(SiblingReport{
		Period: grade.PeriodT1,
		Groups: []SiblingGroup{
			{Surname: "Mamani", Members: []SiblingMember{
				{FullName: "Mamani Ana", CourseName: "3A", Average: 71},
				{FullName: "Mamani Luis", CourseName: "5A", Average: 0}, // no grades
				{FullName: "Mamani Rosa", CourseName: "6B", Average: 88.25},
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderer_BadImagesDegrade(t *testing.T) {
	r := NewRenderer(Branding{
		InstitutionName:     "UE Test",
		Logo:                []byte("corrupted"),
		FooterImage:         []byte("also corrupted"),
		FooterImageHeightPx: 60,
		FooterFit:           FitFixedHeight,
	}, quietLogger())

	data, err := r.RenderBoletines([]BoletinReport{{
		StudentName: "X", CourseName: "5A", Period: grade.PeriodT1,
		Rows: []BoletinRow{{SubjectName: "Matemática", Trimesters: [3]float64{60, 0, 0}, Average: 60}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestScoreCell_Banding(t *testing.T) {
	cont := grade.ContinuousScorePolicy{}

	assert.Equal(t, colorRed, scoreCell(cont, 49.00, 0).Style.TextColor)
	assert.Equal(t, colorAmber, scoreCell(cont, 50.00, 0).Style.TextColor)
	assert.Equal(t, colorText, scoreCell(cont, 51.00, 0).Style.TextColor)
	assert.Equal(t, "-", scoreCell(cont, 0, 0).Text)

	reg := grade.RegulatoryIntegerScorePolicy{}
	assert.Equal(t, colorRed, scoreCell(reg, 49, 0).Style.TextColor)
	assert.Equal(t, colorAmber, scoreCell(reg, 50, 0).Style.TextColor)
	assert.Equal(t, colorText, scoreCell(reg, 51, 0).Style.TextColor)

	// medal fill composes with band color
	c := scoreCell(cont, 45, 1)
	assert.Equal(t, colorRed, c.Style.TextColor)
	require.NotNil(t, c.Style.FillColor)
	assert.Equal(t, colorGold, *c.Style.FillColor)
}

// countPages counts page objects in the raw PDF.
func countPages(data []byte) int {
	pages := bytes.Count(data, []byte("/Type /Page"))
	pageTree := bytes.Count(data, []byte("/Type /Pages"))
	return pages - pageTree
}

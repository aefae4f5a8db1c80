package pdf

import (
	"fmt"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// Renderer builds the paginated documents. One Renderer is safe to reuse
// across reports; each Render call builds an independent document.
type Renderer struct {
	branding Branding
	log      *logger.Logger
}

// NewRenderer creates a renderer with the institution branding.
func NewRenderer(branding Branding, log *logger.Logger) *Renderer {
	return &Renderer{branding: branding, log: log}
}

// ─────────────────────────────────────────────────────────────────────────────
// BOLETÍN (report card): portrait letter, one report per student
// ─────────────────────────────────────────────────────────────────────────────

// BoletinRow is one subject line of a report card.
type BoletinRow struct {
	// AreaName is the regulatory area the subject belongs to ("" = none).
	AreaName string

	// SubjectName is the full subject display name.
	SubjectName string

	// Trimesters holds the per-trimester subject values; 0 marks a
	// trimester without grades, rendered as "-".
	Trimesters [3]float64

	// Average is the subject's annual value (mean of present trimesters).
	Average float64
}

// BoletinReport is one student's report card.
type BoletinReport struct {
	StudentName string
	CourseName  string
	Period      grade.Period
	Rows        []BoletinRow

	// GeneralAverages holds the per-trimester general averages plus the
	// annual general average for the closing row.
	GeneralAverages [4]float64
}

// RenderBoletines renders one or more report cards into a single document,
// one page (or more) per student, with a forced break between students.
func (r *Renderer) RenderBoletines(reports []BoletinReport) ([]byte, error) {
	doc := NewDocument("P", "Letter", r.branding, r.log)
	policy := grade.ContinuousScorePolicy{}

	for _, rep := range reports {
		doc.AddReportPage("Boletín de Calificaciones",
			fmt.Sprintf("%s - %s", rep.CourseName, rep.Period.DisplayName()), true)

		doc.pdf.SetFont("Helvetica", "B", 10)
		doc.pdf.CellFormat(0, 6, doc.tr("Estudiante: "+rep.StudentName), "", 1, "L", false, 0, "")
		doc.pdf.Ln(2)

		table := NewTable(doc, []Column{
			{Header: "Área", Width: 40, Align: "L"},
			{Header: "Materia", Width: 62, Align: "L"},
			{Header: "T1", Width: 0},
			{Header: "T2", Width: 0},
			{Header: "T3", Width: 0},
			{Header: "Promedio", Width: 0, Bold: true},
		})

		rows := make([][]Cell, 0, len(rep.Rows)+1)
		for _, row := range rep.Rows {
			cells := []Cell{
				{Text: row.AreaName},
				{Text: row.SubjectName},
			}
			for _, v := range row.Trimesters {
				cells = append(cells, scoreCell(policy, v, 0))
			}
			cells = append(cells, scoreCell(policy, row.Average, 0))
			rows = append(rows, cells)
		}

		closing := []Cell{
			{Text: ""},
			{Text: "PROMEDIO GENERAL", Style: CellStyle{Bold: true}},
		}
		for _, v := range rep.GeneralAverages {
			c := scoreCell(policy, v, 0)
			c.Style.Bold = true
			closing = append(closing, c)
		}
		rows = append(rows, closing)

		table.Render(rows)
		doc.SignatureBlock("Director(a)", "Profesor(a) de Curso")
	}

	return doc.Output()
}

// ─────────────────────────────────────────────────────────────────────────────
// CENTRALIZER: landscape letter, one course per document
// ─────────────────────────────────────────────────────────────────────────────

// CellScore is a column score; Present=false renders "-" ("no data" is
// never a zero grade).
type CellScore struct {
	Value   float64
	Present bool
}

// CentralizerRow is one student line of a centralizer.
type CentralizerRow struct {
	Surname    string
	GivenNames string

	// Scores holds one entry per column, in column order.
	Scores []CellScore

	// Average is the trailing average column value.
	Average float64

	// Medal is the 1-based course position for the top 3, 0 otherwise.
	Medal int
}

// CentralizerReport is a single-course multi-subject grade sheet.
type CentralizerReport struct {
	CourseName string
	Period     grade.Period

	// ColumnLabels are the resolved subject/group column headers.
	ColumnLabels []string

	Rows []CentralizerRow

	// Regulatory selects the MINEDU integer policy and its banding
	// variant; false renders the internal two-decimal format.
	Regulatory bool
}

// RenderCentralizer renders a centralizer sheet.
func (r *Renderer) RenderCentralizer(rep CentralizerReport) ([]byte, error) {
	doc := NewDocument("L", "Letter", r.branding, r.log)

	var policy grade.ScorePolicy = grade.ContinuousScorePolicy{}
	title := "Centralizador Interno"
	if rep.Regulatory {
		policy = grade.RegulatoryIntegerScorePolicy{}
		title = "Centralizador MINEDU"
	}

	doc.AddReportPage(title,
		fmt.Sprintf("%s - %s", rep.CourseName, rep.Period.DisplayName()), false)

	cols := []Column{
		{Header: "#", Width: 8},
		{Header: "Apellidos", Width: 42, Align: "L"},
		{Header: "Nombres", Width: 42, Align: "L"},
	}
	for _, label := range rep.ColumnLabels {
		cols = append(cols, Column{Header: label})
	}
	cols = append(cols, Column{Header: "Promedio", Bold: true})

	table := NewTable(doc, cols)
	rows := make([][]Cell, 0, len(rep.Rows))
	for i, row := range rep.Rows {
		medal := row.Medal
		cells := []Cell{
			{Text: fmt.Sprintf("%d", i+1), Style: CellStyle{TextColor: colorText, FillColor: medalColor(medal)}},
			{Text: row.Surname, Style: CellStyle{TextColor: colorText, FillColor: medalColor(medal)}},
			{Text: row.GivenNames, Style: CellStyle{TextColor: colorText, FillColor: medalColor(medal)}},
		}
		for _, s := range row.Scores {
			if !s.Present {
				cells = append(cells, Cell{Text: "-", Style: CellStyle{TextColor: colorText, FillColor: medalColor(medal)}})
				continue
			}
			c := scoreCell(policy, s.Value, medal)
			cells = append(cells, c)
		}
		avg := scoreCell(policy, row.Average, medal)
		avg.Style.Bold = true
		cells = append(cells, avg)
		rows = append(rows, cells)
	}
	table.Render(rows)

	return doc.Output()
}

// ─────────────────────────────────────────────────────────────────────────────
// RANKING LIST: portrait A4
// ─────────────────────────────────────────────────────────────────────────────

// RankingRow is one ranked line.
type RankingRow struct {
	Position   int
	Surname    string
	GivenNames string
	CourseName string
	Average    float64
}

// RankingReport is a ranked list for one scope (course or level).
type RankingReport struct {
	Title      string
	ScopeLabel string
	Period     grade.Period
	Rows       []RankingRow
}

// RenderRankings renders one or more ranking scopes into a single document,
// one scope per page.
func (r *Renderer) RenderRankings(reports []RankingReport) ([]byte, error) {
	doc := NewDocument("P", "A4", r.branding, r.log)
	policy := grade.ContinuousScorePolicy{}

	for _, rep := range reports {
		doc.AddReportPage(rep.Title,
			fmt.Sprintf("%s - %s", rep.ScopeLabel, rep.Period.DisplayName()), true)

		table := NewTable(doc, []Column{
			{Header: "Puesto", Width: 18},
			{Header: "Apellidos", Width: 55, Align: "L"},
			{Header: "Nombres", Width: 55, Align: "L"},
			{Header: "Curso", Width: 0, Align: "L"},
			{Header: "Promedio", Width: 0, Bold: true},
		})

		rows := make([][]Cell, 0, len(rep.Rows))
		for _, row := range rep.Rows {
			cells := []Cell{
				{Text: fmt.Sprintf("%d", row.Position), Style: CellStyle{FillColor: medalColor(row.Position)}},
				{Text: row.Surname, Style: CellStyle{FillColor: medalColor(row.Position)}},
				{Text: row.GivenNames, Style: CellStyle{FillColor: medalColor(row.Position)}},
				{Text: row.CourseName, Style: CellStyle{FillColor: medalColor(row.Position)}},
			}
			avg := scoreCell(policy, row.Average, row.Position)
			avg.Style.Bold = true
			cells = append(cells, avg)
			rows = append(rows, cells)
		}
		table.Render(rows)
	}

	return doc.Output()
}

// ─────────────────────────────────────────────────────────────────────────────
// SIBLING REPORT: portrait A4, one section per family
// ─────────────────────────────────────────────────────────────────────────────

// SiblingMember is one student of a family group.
type SiblingMember struct {
	FullName   string
	CourseName string
	Average    float64
}

// SiblingGroup is a family section.
type SiblingGroup struct {
	Surname string
	Members []SiblingMember
}

// SiblingReport is the family clusters list.
type SiblingReport struct {
	Period grade.Period
	Groups []SiblingGroup
}

// RenderSiblings renders the sibling report.
func (r *Renderer) RenderSiblings(rep SiblingReport) ([]byte, error) {
	doc := NewDocument("P", "A4", r.branding, r.log)
	policy := grade.ContinuousScorePolicy{}

	doc.AddReportPage("Listado de Hermanos", rep.Period.DisplayName(), true)

	table := NewTable(doc, []Column{
		{Header: "Familia", Width: 45, Align: "L"},
		{Header: "Estudiante", Width: 75, Align: "L"},
		{Header: "Curso", Width: 0, Align: "L"},
		{Header: "Promedio", Width: 0, Bold: true},
	})

	var rows [][]Cell
	for _, g := range rep.Groups {
		for i, m := range g.Members {
			family := ""
			if i == 0 {
				family = g.Surname
			}
			cells := []Cell{
				{Text: family, Style: CellStyle{Bold: i == 0}},
				{Text: m.FullName},
				{Text: m.CourseName},
			}
			if m.Average > 0 {
				cells = append(cells, scoreCell(policy, m.Average, 0))
			} else {
				cells = append(cells, Cell{Text: "-"})
			}
			rows = append(rows, cells)
		}
	}
	table.Render(rows)

	return doc.Output()
}

// scoreCell renders a score with policy formatting, band text color and an
// optional medal fill.
func scoreCell(policy grade.ScorePolicy, score float64, medal int) Cell {
	if score <= 0 {
		return Cell{Text: "-", Style: CellStyle{TextColor: colorText, FillColor: medalColor(medal)}}
	}
	// round per policy before banding so the color always matches the
	// printed value
	v := policy.Round(score)
	return Cell{
		Text:  policy.Format(v),
		Style: scoreStyle(policy, v, medal),
	}
}

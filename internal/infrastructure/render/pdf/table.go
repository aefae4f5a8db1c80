package pdf

// Column describes one table column.
type Column struct {
	// Header is the column title.
	Header string

	// Width is the column width in mm. Zero widths share the space the
	// fixed columns leave over.
	Width float64

	// Align is the cell alignment ("L", "C", "R").
	Align string

	// Bold renders the column's body cells bold (the trailing average
	// column).
	Bold bool
}

// CellStyle is per-cell display styling.
type CellStyle struct {
	TextColor RGB
	FillColor *RGB
	Bold      bool
}

// Cell is one body cell.
type Cell struct {
	Text  string
	Style CellStyle
}

// Table lays out a header row plus body rows, breaking to a new page and
// repeating the header when a row would cross into the footer reserve.
// This is the single table primitive every report type goes through.
type Table struct {
	doc  *Document
	cols []Column

	headerH float64
	rowH    float64
}

// NewTable builds a table on the document. Columns with zero width share
// the remaining content width equally.
func NewTable(doc *Document, cols []Column) *Table {
	total := doc.contentWidth()
	var fixed float64
	var flexible int
	for _, c := range cols {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flexible++
		}
	}
	if flexible > 0 {
		share := (total - fixed) / float64(flexible)
		if share < 8 {
			share = 8
		}
		for i := range cols {
			if cols[i].Width == 0 {
				cols[i].Width = share
			}
		}
	}

	return &Table{doc: doc, cols: cols, headerH: 7, rowH: 6}
}

// renderHeader draws the header row.
func (t *Table) renderHeader() {
	f := t.doc.pdf
	f.SetFont("Helvetica", "B", 8)
	f.SetFillColor(colorHeader.R, colorHeader.G, colorHeader.B)
	f.SetTextColor(0, 0, 0)
	for _, c := range t.cols {
		align := c.Align
		if align == "" {
			align = "C"
		}
		f.CellFormat(c.Width, t.headerH, t.doc.tr(c.Header), "1", 0, align, true, 0, "")
	}
	f.Ln(t.headerH)
}

// AddRow draws one body row, breaking the page first when the row would
// not fit above the footer reserve.
func (t *Table) AddRow(cells []Cell) {
	f := t.doc.pdf

	_, pageH := f.GetPageSize()
	_, _, _, bottom := f.GetMargins()
	if f.GetY()+t.rowH > pageH-bottom-footerReserveMM {
		f.AddPage()
		t.renderHeader()
	}

	for i, c := range t.cols {
		var cell Cell
		if i < len(cells) {
			cell = cells[i]
		}

		style := "Helvetica"
		variant := ""
		if c.Bold || cell.Style.Bold {
			variant = "B"
		}
		f.SetFont(style, variant, 8)
		f.SetTextColor(cell.Style.TextColor.R, cell.Style.TextColor.G, cell.Style.TextColor.B)

		fill := false
		if fc := cell.Style.FillColor; fc != nil {
			f.SetFillColor(fc.R, fc.G, fc.B)
			fill = true
		}

		align := c.Align
		if align == "" {
			align = "C"
		}
		f.CellFormat(c.Width, t.rowH, t.doc.tr(cell.Text), "1", 0, align, fill, 0, "")
	}
	f.Ln(t.rowH)
	f.SetTextColor(0, 0, 0)
}

// Render draws the header and all rows.
func (t *Table) Render(rows [][]Cell) {
	t.renderHeader()
	for _, row := range rows {
		t.AddRow(row)
	}
}

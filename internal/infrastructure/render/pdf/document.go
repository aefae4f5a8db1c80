// Package pdf implements the document renderer: paginated PDF output for
// boletines, centralizers, ranking lists and the sibling report. Layout
// primitives (tables, headers, footers) live here; the data they render is
// assembled by the application layer.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

// Branding carries the institution's display configuration. All fields are
// read-only inputs owned by the surrounding application; nil images simply
// render nothing.
type Branding struct {
	// InstitutionName is printed in every report header.
	InstitutionName string

	// Logo is the decoded-on-demand logo image, or nil.
	Logo []byte

	// FooterImage is the footer/signature-area image, or nil.
	FooterImage []byte

	// FooterImageHeightPx is the configured footer image height in pixels
	// (30-200).
	FooterImageHeightPx float64

	// FooterFit selects the footer image scaling mode.
	FooterFit FitMode
}

// logoWidthMM is the fixed header logo width; height follows aspect ratio.
const logoWidthMM = 24.0

// footerReserveMM keeps the page-number line clear of table rows.
const footerReserveMM = 15.0

// Document wraps a gofpdf instance with the engine's layout conventions.
type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	log *logger.Logger

	branding Branding

	logoName  string
	logoRatio float64 // intrinsic h/w, 0 when no usable logo

	footerName  string
	footerSize  [2]float64 // intrinsic size in mm at 96 dpi
	footerReady bool
}

// NewDocument creates a document with the given orientation ("P"/"L") and
// page size ("Letter"/"A4"). Images that fail to decode are logged and
// dropped; the document still renders.
func NewDocument(orientation, size string, branding Branding, log *logger.Logger) *Document {
	f := gofpdf.New(orientation, "mm", size, "")
	f.SetMargins(12, 14, 12)
	f.SetAutoPageBreak(true, footerReserveMM)
	f.AliasNbPages("")

	d := &Document{
		pdf:      f,
		tr:       f.UnicodeTranslatorFromDescriptor(""),
		log:      log,
		branding: branding,
	}

	f.SetFooterFunc(func() {
		f.SetY(-12)
		f.SetFont("Helvetica", "I", 8)
		f.SetTextColor(100, 100, 100)
		f.CellFormat(0, 6, d.tr(fmt.Sprintf("Página %d de {nb}", f.PageNo())), "", 0, "C", false, 0, "")
	})

	d.registerImages()
	return d
}

// registerImages validates and registers the branding images. Failures
// degrade to "no image" instead of failing the document.
func (d *Document) registerImages() {
	if len(d.branding.Logo) > 0 {
		typ, w, h, err := decodeImage(d.branding.Logo)
		if err != nil {
			d.log.Warn("logo image unusable, rendering without it", logger.Err(err))
		} else {
			d.logoName = "branding_logo"
			d.logoRatio = float64(h) / float64(w)
			d.pdf.RegisterImageOptionsReader(d.logoName,
				gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(d.branding.Logo))
		}
	}

	if len(d.branding.FooterImage) > 0 {
		typ, w, h, err := decodeImage(d.branding.FooterImage)
		if err != nil {
			d.log.Warn("footer image unusable, rendering without it", logger.Err(err))
		} else {
			d.footerName = "branding_footer"
			d.footerSize = [2]float64{float64(w) * pxToMM, float64(h) * pxToMM}
			d.footerReady = true
			d.pdf.RegisterImageOptionsReader(d.footerName,
				gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(d.branding.FooterImage))
		}
	}
}

// contentWidth returns the printable width between margins.
func (d *Document) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

// AddReportPage starts a new page with the standard header: logo top-left
// when available, institution name and title block top-right, or centered
// when centered is true.
func (d *Document) AddReportPage(title, subtitle string, centered bool) {
	d.pdf.AddPage()

	left, top, _, _ := d.pdf.GetMargins()
	headerBottom := top

	if d.logoName != "" {
		logoH := logoWidthMM * d.logoRatio
		d.pdf.ImageOptions(d.logoName, left, top, logoWidthMM, logoH, false,
			gofpdf.ImageOptions{}, 0, "")
		headerBottom = top + logoH
	}

	align := "R"
	if centered {
		align = "C"
	}

	d.pdf.SetY(top)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(0, 7, d.tr(d.branding.InstitutionName), "", 1, align, false, 0, "")
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(0, 6, d.tr(title), "", 1, align, false, 0, "")
	if subtitle != "" {
		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.CellFormat(0, 5, d.tr(subtitle), "", 1, align, false, 0, "")
	}

	if y := d.pdf.GetY(); y > headerBottom {
		headerBottom = y
	}
	d.pdf.SetY(headerBottom + 4)
}

// SignatureBlock draws the footer image (per the configured fit mode) and
// two signature lines with centered labels. It is placed after a report's
// body, not on every page.
func (d *Document) SignatureBlock(leftLabel, rightLabel string) {
	d.pdf.Ln(6)

	if d.footerReady {
		availW := d.contentWidth()
		targetH := d.branding.FooterImageHeightPx * pxToMM
		w, h := fitImage(d.branding.FooterFit, d.footerSize[0], d.footerSize[1], availW, targetH)
		if w > 0 && h > 0 {
			left, _, _, _ := d.pdf.GetMargins()
			x := left + (availW-w)/2
			d.pdf.ImageOptions(d.footerName, x, d.pdf.GetY(), w, h, false,
				gofpdf.ImageOptions{}, 0, "")
			d.pdf.SetY(d.pdf.GetY() + h + 4)
		}
	}

	// Two centered signature lines with labels beneath.
	availW := d.contentWidth()
	lineW := availW * 0.35
	gap := availW - 2*lineW

	d.pdf.Ln(12)
	y := d.pdf.GetY()
	left, _, _, _ := d.pdf.GetMargins()

	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.Line(left, y, left+lineW, y)
	d.pdf.Line(left+lineW+gap, y, left+2*lineW+gap, y)

	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetXY(left, y+1)
	d.pdf.CellFormat(lineW, 5, d.tr(leftLabel), "", 0, "C", false, 0, "")
	d.pdf.SetXY(left+lineW+gap, y+1)
	d.pdf.CellFormat(lineW, 5, d.tr(rightLabel), "", 1, "C", false, 0, "")
}

// Output finalizes the document and returns the PDF bytes.
func (d *Document) Output() ([]byte, error) {
	if d.pdf.Err() {
		return nil, fmt.Errorf("pdf: %w", d.pdf.Error())
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages emitted so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

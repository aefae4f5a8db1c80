package pdf

import "github.com/escolar-hub/escolar-report-engine/internal/domain/grade"

// RGB is a 0-255 color triple.
type RGB struct {
	R, G, B int
}

var (
	colorText   = RGB{0, 0, 0}
	colorRed    = RGB{192, 0, 0}   // Reprobado
	colorAmber  = RGB{204, 136, 0} // No Concluyente
	colorHeader = RGB{230, 230, 230}

	// Medal row tints for the course top 3 in centralizers. The tint is a
	// background fill, independent of the pass/fail text color: both apply
	// to the same cell.
	colorGold   = RGB{255, 243, 191}
	colorSilver = RGB{224, 224, 224}
	colorBronze = RGB{233, 209, 177}
)

// bandColor maps a score band to its text color. The same mapping serves
// every report type; only the banding policy differs.
func bandColor(b grade.Band) RGB {
	switch b {
	case grade.BandFailing:
		return colorRed
	case grade.BandInconclusive:
		return colorAmber
	default:
		return colorText
	}
}

// medalColor returns the background tint for a 1-based course position,
// or nil for positions outside the top 3.
func medalColor(position int) *RGB {
	switch position {
	case 1:
		return &colorGold
	case 2:
		return &colorSilver
	case 3:
		return &colorBronze
	default:
		return nil
	}
}

// scoreStyle combines the band text color with an optional medal fill.
func scoreStyle(policy grade.ScorePolicy, score float64, medal int) CellStyle {
	return CellStyle{
		TextColor: bandColor(policy.Band(score)),
		FillColor: medalColor(medal),
	}
}

package grade

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Band classifies a score for display coloring. The thresholds follow the
// regulatory 0-100 scale where 51 passes, 50 is inconclusive and 49 fails.
type Band int

const (
	// BandFailing marks a failing score ("Reprobado", red).
	BandFailing Band = iota

	// BandInconclusive marks a borderline score ("No Concluyente", amber).
	BandInconclusive

	// BandPassing marks a passing score ("Aprobado", default text color).
	BandPassing
)

// String returns the regulatory label for the band.
func (b Band) String() string {
	switch b {
	case BandFailing:
		return "Reprobado"
	case BandInconclusive:
		return "No Concluyente"
	default:
		return "Aprobado"
	}
}

// ScorePolicy is a named rounding/banding convention. Two coexist: the
// continuous two-decimal convention used by boletines and internal
// centralizers, and the integer convention used by MINEDU-format outputs.
// The policy for a report is always selected explicitly by report type,
// never inferred from the shape of the data.
type ScorePolicy interface {
	// Round applies the policy's rounding (half away from zero) to a score.
	Round(score float64) float64

	// Band classifies an already-rounded score.
	Band(score float64) Band

	// Format renders a score for display.
	Format(score float64) string
}

// ContinuousScorePolicy keeps two decimal places. Band boundaries:
// s <= 49.00 failing, 49.01 <= s <= 50.99 inconclusive, s >= 51.00 passing.
type ContinuousScorePolicy struct{}

func (ContinuousScorePolicy) Round(score float64) float64 {
	return roundHalfAway(score, 2)
}

func (ContinuousScorePolicy) Band(score float64) Band {
	switch {
	case score <= 49.00:
		return BandFailing
	case score <= 50.99:
		return BandInconclusive
	default:
		return BandPassing
	}
}

func (ContinuousScorePolicy) Format(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// RegulatoryIntegerScorePolicy rounds to whole points as MINEDU formats
// require. Because scores are integers here, 50 is exactly the inconclusive
// midpoint: s <= 49 failing, s == 50 inconclusive, s >= 51 passing.
type RegulatoryIntegerScorePolicy struct{}

func (RegulatoryIntegerScorePolicy) Round(score float64) float64 {
	return roundHalfAway(score, 0)
}

func (RegulatoryIntegerScorePolicy) Band(score float64) Band {
	switch {
	case score <= 49:
		return BandFailing
	case score < 51:
		return BandInconclusive
	default:
		return BandPassing
	}
}

func (RegulatoryIntegerScorePolicy) Format(score float64) string {
	return fmt.Sprintf("%.0f", score)
}

// roundHalfAway rounds half away from zero to the given number of decimal
// places. stats.Round implements exactly that convention; it only errors on
// NaN, which no clamped score can produce.
func roundHalfAway(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return 0
	}
	return r
}

// Package grade contains the grade domain model: grade records, grading
// periods, scoring policies and the averaging rules shared by every report
// type. All functions here are pure; persistence lives in infrastructure.
package grade

import (
	"fmt"
	"strings"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/shared"
)

// Period identifies a grading period: one of the three trimesters, or the
// synthetic annual period representing their combination.
type Period int

const (
	// PeriodAnnual combines all three trimesters.
	PeriodAnnual Period = 0

	// PeriodT1 is the first trimester.
	PeriodT1 Period = 1

	// PeriodT2 is the second trimester.
	PeriodT2 Period = 2

	// PeriodT3 is the third trimester.
	PeriodT3 Period = 3
)

// Trimesters lists the three real grading periods in order.
var Trimesters = []Period{PeriodT1, PeriodT2, PeriodT3}

// IsValid reports whether the period is one of the known values.
func (p Period) IsValid() bool {
	return p >= PeriodAnnual && p <= PeriodT3
}

// IsTrimester reports whether the period is a single trimester.
func (p Period) IsTrimester() bool {
	return p >= PeriodT1 && p <= PeriodT3
}

// String returns the short display form used in file names and headers.
func (p Period) String() string {
	if p == PeriodAnnual {
		return "Anual"
	}
	return fmt.Sprintf("T%d", int(p))
}

// DisplayName returns the long Spanish display form used in report titles.
func (p Period) DisplayName() string {
	switch p {
	case PeriodT1:
		return "Primer Trimestre"
	case PeriodT2:
		return "Segundo Trimestre"
	case PeriodT3:
		return "Tercer Trimestre"
	case PeriodAnnual:
		return "Promedio Anual"
	default:
		return "Periodo Desconocido"
	}
}

// ParsePeriod parses a period from its textual form ("1".."3", "T1".."T3",
// "anual", "annual"). Matching is case-insensitive.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t1":
		return PeriodT1, nil
	case "2", "t2":
		return PeriodT2, nil
	case "3", "t3":
		return PeriodT3, nil
	case "0", "anual", "annual":
		return PeriodAnnual, nil
	default:
		return 0, shared.NewDomainError("grade", "ParsePeriod", shared.ErrInvalidPeriod,
			fmt.Sprintf("unknown grading period %q", s))
	}
}

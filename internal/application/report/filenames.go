package report

import (
	"fmt"
	"strings"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
)

// slug makes an identifier safe for a file name.
func slug(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "sin_nombre"
	}
	return b.String()
}

// periodSuffix renders the period part of a file name: T<n> or Anual.
func periodSuffix(p grade.Period) string {
	return p.String()
}

func boletinFilename(courseCode, studentID string, p grade.Period) string {
	return fmt.Sprintf("Boletin_%s_%s_%s.pdf", slug(courseCode), slug(studentID), periodSuffix(p))
}

func boletinBatchFilename(courseCode string, p grade.Period) string {
	return fmt.Sprintf("Boletines_%s_%s.pdf", slug(courseCode), periodSuffix(p))
}

func centralizerFilename(courseCode string, p grade.Period, regulatory bool) string {
	if regulatory {
		return fmt.Sprintf("Centralizador_MINEDU_%s_%s.pdf", slug(courseCode), periodSuffix(p))
	}
	return fmt.Sprintf("Centralizador_%s_%s.pdf", slug(courseCode), periodSuffix(p))
}

func rankingFilename(scope string, p grade.Period) string {
	return fmt.Sprintf("Ranking_%s_%s.pdf", slug(scope), periodSuffix(p))
}

func siblingsFilename(p grade.Period) string {
	return fmt.Sprintf("Hermanos_%s.pdf", periodSuffix(p))
}

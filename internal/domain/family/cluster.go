// Package family clusters active students into sibling groups by a
// normalized family-name key for the sibling report.
package family

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
)

// DefaultMinSize is the minimum cluster size shown on the sibling report.
const DefaultMinSize = 3

// Member is one student in a family group, with the average attached by
// the enrichment pass (0 until enriched, or when the student has no grades).
type Member struct {
	Student student.Student
	Average float64
}

// Group is a cluster of students sharing a normalized surname key.
type Group struct {
	// Key is the normalized surname the cluster was built from.
	Key string

	// Surname is a representative display surname (the first member's).
	Surname string

	// Members are the clustered students in input order.
	Members []Member
}

// normalizer lowercases indirectly via NormalizeSurname; the transform chain
// decomposes to NFD and strips combining marks, so "Peña" and "PENA" land on
// the same key.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSurname produces the clustering key for a surname: lowercase,
// diacritics stripped, anything outside [a-z0-9 ] dropped, whitespace
// collapsed and trimmed. The transform is idempotent.
func NormalizeSurname(surname string) string {
	s := strings.ToLower(surname)
	if out, _, err := transform.String(normalizer, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Cluster groups active students by normalized surname and keeps clusters
// with at least minSize members (minSize <= 0 falls back to DefaultMinSize).
// Clustering needs no grade data at all; averages are attached afterwards
// with Enrich, once the member id set is known, so grades are only fetched
// for students that actually appear on the report.
func Cluster(students []student.Student, minSize int) []Group {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}

	byKey := make(map[string]*Group)
	order := make([]string, 0)
	for _, s := range students {
		if !s.Active {
			continue
		}
		key := NormalizeSurname(s.Surname)
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Surname: s.Surname}
			byKey[key] = g
			order = append(order, key)
		}
		g.Members = append(g.Members, Member{Student: s})
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		if len(g.Members) >= minSize {
			groups = append(groups, *g)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// MemberIDs collects the student ids across all groups, for the enrichment
// grade fetch.
func MemberIDs(groups []Group) []string {
	var ids []string
	for _, g := range groups {
		for _, m := range g.Members {
			ids = append(ids, m.Student.ID)
		}
	}
	return ids
}

// Enrich attaches each member's computed average for the selected scope.
// Members without an average keep 0, the "no grades" sentinel.
func Enrich(groups []Group, averages map[string]float64) {
	for gi := range groups {
		for mi := range groups[gi].Members {
			groups[gi].Members[mi].Average = averages[groups[gi].Members[mi].Student.ID]
		}
	}
}

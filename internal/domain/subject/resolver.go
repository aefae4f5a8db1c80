package subject

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// ElementKind tags an OrderedElement.
type ElementKind int

const (
	// ElementSubject is a subject displayed as its own column.
	ElementSubject ElementKind = iota

	// ElementGroup is a regulatory group collapsing several subjects into
	// one averaged column.
	ElementGroup
)

// OrderedElement is one display column of a centralizer: either a single
// subject or a regulatory group. Elements come out of Resolve already in
// display order.
type OrderedElement struct {
	// Kind tags the union.
	Kind ElementKind

	// Label is the column header (subject short name or group label).
	Label string

	// SubjectCode is set for subject elements.
	SubjectCode string

	// Key and MemberCodes are set for group elements. MemberCodes only
	// lists members actually present in the course's subject list; a rule
	// member absent from the course contributes nothing.
	Key         GroupKey
	MemberCodes []string

	// Order is the resolved sort key.
	Order int
}

// Resolve maps a flat subject list into the ordered display columns of a
// regulatory centralizer. Subjects covered by a grouping rule collapse into
// one Group element per distinct (area, group name) pair; uncovered subjects
// become individual Subject elements. A group's order is the minimum display
// order among its present members (absent orders count as +inf, an orderless
// group defaults to 1000). The combined list is sorted ascending by order
// with a stable sort, so ties keep their relative input order.
func Resolve(subjects []Subject, rules []GroupingRule) []OrderedElement {
	// First coverage wins when a subject appears in more than one rule.
	covered := make(map[string]GroupKey)
	for _, r := range rules {
		key := GroupKey{AreaID: r.AreaID, GroupName: r.GroupName}
		for _, code := range r.MemberSubjectCodes {
			if _, ok := covered[code]; !ok {
				covered[code] = key
			}
		}
	}

	type groupAcc struct {
		label   string
		members []string
		order   int
	}

	groups := make(map[GroupKey]*groupAcc)
	groupOrder := make([]GroupKey, 0, len(rules))
	for _, r := range rules {
		key := GroupKey{AreaID: r.AreaID, GroupName: r.GroupName}
		if _, ok := groups[key]; ok {
			continue
		}
		groups[key] = &groupAcc{label: r.DisplayLabel, order: defaultOrder}
		groupOrder = append(groupOrder, key)
	}

	var elements []OrderedElement
	for _, s := range subjects {
		key, ok := covered[s.Code]
		if !ok {
			order := defaultOrder
			if s.DisplayOrder != nil {
				order = *s.DisplayOrder
			}
			elements = append(elements, OrderedElement{
				Kind:        ElementSubject,
				Label:       s.ShortName,
				SubjectCode: s.Code,
				Order:       order,
			})
			continue
		}
		g := groups[key]
		g.members = append(g.members, s.Code)
		if s.DisplayOrder != nil && *s.DisplayOrder < g.order {
			g.order = *s.DisplayOrder
		}
	}

	for _, key := range groupOrder {
		g := groups[key]
		elements = append(elements, OrderedElement{
			Kind:        ElementGroup,
			Label:       g.label,
			Key:         key,
			MemberCodes: g.members,
			Order:       g.order,
		})
	}

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Order < elements[j].Order
	})
	return elements
}

// GroupScore averages the member scores that contribute to a group column
// and rounds to a whole point, the convention for this regulatory output.
// Zero contributing scores means "no data", reported via ok=false rather
// than as a zero grade.
func GroupScore(memberScores []float64) (score float64, ok bool) {
	var present []float64
	for _, v := range memberScores {
		if v > 0 {
			present = append(present, v)
		}
	}
	m, err := stats.Mean(present)
	if err != nil {
		return 0, false
	}
	r, err := stats.Round(m, 0)
	if err != nil {
		return 0, false
	}
	return r, true
}

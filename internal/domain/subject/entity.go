// Package subject contains the subject catalog model and the grouping
// resolver that collapses subjects into regulatory display groups for
// MINEDU-format centralizers.
package subject

import "context"

// defaultOrder is the sort key assigned to subjects and groups that carry
// no explicit display order; it sorts them after every ordered element.
const defaultOrder = 1000

// Subject is a taught subject as read from the store.
type Subject struct {
	// Code is the store identifier.
	Code string

	// ShortName is the abbreviated form used as a column header.
	ShortName string

	// DisplayName is the full subject name used in boletín rows.
	DisplayName string

	// CourseCode is the course the subject belongs to.
	CourseCode string

	// AreaID links to the regulatory Area used for boletín grouping,
	// or nil when the subject has no area.
	AreaID *string

	// DisplayOrder controls column/row ordering; nil sorts last.
	DisplayOrder *int
}

// Area is a regulatory subject category used only for boletín grouping,
// independent of GroupingRule.
type Area struct {
	ID   string
	Name string
}

// GroupingRule collapses several subjects into one displayed column for
// ministry-format centralizers. A subject not covered by any rule is
// displayed individually.
type GroupingRule struct {
	// AreaID and GroupName together identify the group.
	AreaID    string
	GroupName string

	// DisplayLabel is the column header for the group.
	DisplayLabel string

	// MemberSubjectCodes are the codes of the collapsed subjects.
	MemberSubjectCodes []string
}

// Repository reads the subject catalog from the grade store.
type Repository interface {
	// ListByCourse returns the subjects of a course ordered by display
	// order (nulls last) then code.
	ListByCourse(ctx context.Context, courseCode string) ([]Subject, error)

	// ListAreas returns all regulatory areas.
	ListAreas(ctx context.Context) ([]Area, error)

	// ListGroupingRules returns all grouping rules.
	ListGroupingRules(ctx context.Context) ([]GroupingRule, error)
}

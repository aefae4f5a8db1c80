package subject

// Lookup holds the precomputed indexes the resolver and the renderer need.
// It is built once per report invocation and passed explicitly, replacing
// repeated linear scans over the catalog slices.
type Lookup struct {
	// AreaNames maps area id to area name.
	AreaNames map[string]string

	// SubjectGroup maps subject code to the key of the group that covers
	// it. Subjects absent from the map are displayed individually.
	SubjectGroup map[string]GroupKey

	// SubjectByCode maps subject code to the subject itself.
	SubjectByCode map[string]Subject
}

// GroupKey identifies a grouping rule's group.
type GroupKey struct {
	AreaID    string
	GroupName string
}

// BuildLookup builds the per-invocation indexes from the raw catalog.
func BuildLookup(subjects []Subject, areas []Area, rules []GroupingRule) *Lookup {
	l := &Lookup{
		AreaNames:     make(map[string]string, len(areas)),
		SubjectGroup:  make(map[string]GroupKey),
		SubjectByCode: make(map[string]Subject, len(subjects)),
	}
	for _, a := range areas {
		l.AreaNames[a.ID] = a.Name
	}
	for _, r := range rules {
		key := GroupKey{AreaID: r.AreaID, GroupName: r.GroupName}
		for _, code := range r.MemberSubjectCodes {
			l.SubjectGroup[code] = key
		}
	}
	for _, s := range subjects {
		l.SubjectByCode[s.Code] = s
	}
	return l
}

// AreaName returns the display name for an area id, falling back to the id
// itself when the area is unknown.
func (l *Lookup) AreaName(id string) string {
	if name, ok := l.AreaNames[id]; ok {
		return name
	}
	return id
}

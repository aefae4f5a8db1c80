package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func subj(code, short string, order *int) Subject {
	return Subject{Code: code, ShortName: short, DisplayName: short, CourseCode: "5A", DisplayOrder: order}
}

func TestResolve_PartitionsSubjects(t *testing.T) {
	subjects := []Subject{
		subj("MAT", "Matemática", intp(10)),
		subj("FIS", "Física", intp(40)),
		subj("QUI", "Química", intp(50)),
		subj("LEN", "Lenguaje", intp(20)),
	}
	rules := []GroupingRule{
		{AreaID: "cn", GroupName: "fisqui", DisplayLabel: "Física-Química",
			MemberSubjectCodes: []string{"FIS", "QUI"}},
	}

	elements := Resolve(subjects, rules)

	// one group + two ungrouped subjects
	require.Len(t, elements, 3)

	// every input subject appears in exactly one element
	seen := map[string]int{}
	for _, el := range elements {
		if el.Kind == ElementSubject {
			seen[el.SubjectCode]++
		} else {
			for _, code := range el.MemberCodes {
				seen[code]++
			}
		}
	}
	for _, s := range subjects {
		assert.Equal(t, 1, seen[s.Code], s.Code)
	}
}

func TestResolve_OrderingAndGroupOrder(t *testing.T) {
	subjects := []Subject{
		subj("FIS", "Física", intp(40)),
		subj("QUI", "Química", intp(50)),
		subj("MAT", "Matemática", intp(10)),
		subj("REL", "Religión", nil), // null order sorts last
	}
	rules := []GroupingRule{
		{AreaID: "cn", GroupName: "fisqui", DisplayLabel: "Física-Química",
			MemberSubjectCodes: []string{"FIS", "QUI"}},
	}

	elements := Resolve(subjects, rules)
	require.Len(t, elements, 3)

	// group order = min(member orders) = 40, so MAT(10) < group(40) < REL(1000)
	assert.Equal(t, "Matemática", elements[0].Label)
	assert.Equal(t, ElementGroup, elements[1].Kind)
	assert.Equal(t, "Física-Química", elements[1].Label)
	assert.Equal(t, 40, elements[1].Order)
	assert.Equal(t, "Religión", elements[2].Label)
	assert.Equal(t, 1000, elements[2].Order)
}

func TestResolve_RuleReferencingAbsentSubject(t *testing.T) {
	subjects := []Subject{
		subj("FIS", "Física", intp(40)),
	}
	rules := []GroupingRule{
		{AreaID: "cn", GroupName: "fisqui", DisplayLabel: "Física-Química",
			MemberSubjectCodes: []string{"FIS", "QUI"}}, // QUI not in course
	}

	elements := Resolve(subjects, rules)
	require.Len(t, elements, 1)
	assert.Equal(t, ElementGroup, elements[0].Kind)
	assert.Equal(t, []string{"FIS"}, elements[0].MemberCodes)
}

func TestResolve_NoRules(t *testing.T) {
	subjects := []Subject{
		subj("MAT", "Matemática", intp(2)),
		subj("LEN", "Lenguaje", intp(1)),
	}

	elements := Resolve(subjects, nil)
	require.Len(t, elements, 2)
	assert.Equal(t, "Lenguaje", elements[0].Label)
	assert.Equal(t, "Matemática", elements[1].Label)
}

func TestResolve_StableTieOrder(t *testing.T) {
	subjects := []Subject{
		subj("A", "A", intp(5)),
		subj("B", "B", intp(5)),
		subj("C", "C", intp(5)),
	}

	elements := Resolve(subjects, nil)
	require.Len(t, elements, 3)
	assert.Equal(t, "A", elements[0].Label)
	assert.Equal(t, "B", elements[1].Label)
	assert.Equal(t, "C", elements[2].Label)
}

func TestGroupScore(t *testing.T) {
	score, ok := GroupScore([]float64{60.4, 70.2})
	require.True(t, ok)
	assert.Equal(t, 65.0, score) // mean 65.3 -> 65

	score, ok = GroupScore([]float64{60.5, 70.6})
	require.True(t, ok)
	assert.Equal(t, 66.0, score) // mean 65.55 -> 66

	// zeros are missing data, not grades
	score, ok = GroupScore([]float64{80, 0})
	require.True(t, ok)
	assert.Equal(t, 80.0, score)

	_, ok = GroupScore(nil)
	assert.False(t, ok)

	_, ok = GroupScore([]float64{0, 0})
	assert.False(t, ok)
}

func TestBuildLookup(t *testing.T) {
	subjects := []Subject{subj("FIS", "Física", nil)}
	areas := []Area{{ID: "cn", Name: "Ciencias Naturales"}}
	rules := []GroupingRule{
		{AreaID: "cn", GroupName: "fisqui", DisplayLabel: "Física-Química",
			MemberSubjectCodes: []string{"FIS", "QUI"}},
	}

	l := BuildLookup(subjects, areas, rules)

	assert.Equal(t, "Ciencias Naturales", l.AreaName("cn"))
	assert.Equal(t, "xx", l.AreaName("xx")) // unknown falls back to id
	assert.Equal(t, GroupKey{AreaID: "cn", GroupName: "fisqui"}, l.SubjectGroup["FIS"])
	assert.Equal(t, "Física", l.SubjectByCode["FIS"].ShortName)
}

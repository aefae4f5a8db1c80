package grade

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(student, subject string, period Period, score float64) Record {
	return Record{StudentID: student, SubjectCode: subject, Period: period, Score: score}
}

func TestAverage_EmptyInput(t *testing.T) {
	for _, p := range []Period{PeriodT1, PeriodT2, PeriodT3, PeriodAnnual} {
		assert.Equal(t, 0.0, Average(nil, p), "period %s", p)
		assert.Equal(t, 0.0, Average([]Record{}, p), "period %s", p)
	}
}

func TestAverage_SingleTrimester(t *testing.T) {
	records := []Record{
		rec("s1", "MAT", PeriodT1, 70),
		rec("s1", "LEN", PeriodT1, 90),
		rec("s1", "MAT", PeriodT2, 40), // other period, ignored
	}

	assert.Equal(t, 80.0, Average(records, PeriodT1))
	assert.Equal(t, 40.0, Average(records, PeriodT2))
	assert.Equal(t, 0.0, Average(records, PeriodT3))
}

func TestAverage_TrimesterRounding(t *testing.T) {
	// mean(71, 72, 74) = 72.333... -> 72.33
	records := []Record{
		rec("s1", "MAT", PeriodT1, 71),
		rec("s1", "LEN", PeriodT1, 72),
		rec("s1", "CSO", PeriodT1, 74),
	}
	assert.Equal(t, 72.33, Average(records, PeriodT1))

	// mean(70, 71) = 70.5; half away from zero keeps 70.5 exactly
	records = []Record{
		rec("s1", "MAT", PeriodT2, 70),
		rec("s1", "LEN", PeriodT2, 71),
	}
	assert.Equal(t, 70.5, Average(records, PeriodT2))
}

func TestAverage_AnnualSingleSubjectAcrossPeriods(t *testing.T) {
	// One subject with [40, 60, 80] across the three trimesters: the subject
	// mean is 60.00 and, being the only subject, so is the annual average.
	records := []Record{
		rec("s1", "MAT", PeriodT1, 40),
		rec("s1", "MAT", PeriodT2, 60),
		rec("s1", "MAT", PeriodT3, 80),
	}
	assert.Equal(t, 60.0, Average(records, PeriodAnnual))
}

func TestAverage_AnnualMissingPeriodsNotZeroPadded(t *testing.T) {
	// Grades only in T1 for two subjects. Each subject's mean is its single
	// T1 score; the annual average is their mean, not dragged down by the
	// absent T2/T3.
	records := []Record{
		rec("s1", "MAT", PeriodT1, 70),
		rec("s1", "LEN", PeriodT1, 90),
	}
	assert.Equal(t, 0.0, Average(records, PeriodT2))
	assert.Equal(t, 0.0, Average(records, PeriodT3))
	assert.Equal(t, 80.0, Average(records, PeriodAnnual))
}

func TestAverage_AnnualRoundsOnlyFinalMean(t *testing.T) {
	// MAT: mean(70, 71) = 70.5 (kept unrounded); LEN: 80.
	// Annual = mean(70.5, 80) = 75.25.
	records := []Record{
		rec("s1", "MAT", PeriodT1, 70),
		rec("s1", "MAT", PeriodT2, 71),
		rec("s1", "LEN", PeriodT1, 80),
	}
	assert.Equal(t, 75.25, Average(records, PeriodAnnual))
}

func TestAverage_AnnualOrderIndependent(t *testing.T) {
	records := []Record{
		rec("s1", "MAT", PeriodT1, 55.5),
		rec("s1", "MAT", PeriodT2, 61.25),
		rec("s1", "LEN", PeriodT1, 88),
		rec("s1", "LEN", PeriodT3, 91.75),
		rec("s1", "CSO", PeriodT2, 47),
	}
	want := Average(records, PeriodAnnual)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Average(shuffled, PeriodAnnual))
	}
}

func TestAverage_ResultBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	subjects := []string{"MAT", "LEN", "CSO", "CNA"}

	for i := 0; i < 50; i++ {
		var records []Record
		for _, subj := range subjects {
			for _, p := range Trimesters {
				if rng.Intn(3) == 0 {
					continue
				}
				records = append(records, rec("s1", subj, p, float64(rng.Intn(10001))/100))
			}
		}
		for _, p := range []Period{PeriodT1, PeriodT2, PeriodT3, PeriodAnnual} {
			avg := Average(records, p)
			assert.GreaterOrEqual(t, avg, 0.0)
			assert.LessOrEqual(t, avg, 100.0)
			// two-decimal precision
			assert.Equal(t, ContinuousScorePolicy{}.Round(avg), avg)
		}
	}
}

func TestAverageOfValues(t *testing.T) {
	assert.Equal(t, 0.0, AverageOfValues(nil))
	assert.Equal(t, 80.0, AverageOfValues([]float64{70, 90}))
	// zeros are "no average" sentinels, not grades
	assert.Equal(t, 80.0, AverageOfValues([]float64{70, 0, 90, 0}))
	assert.Equal(t, 33.33, AverageOfValues([]float64{50, 25, 25}))
}

func TestRecord_Validate(t *testing.T) {
	require.NoError(t, rec("s1", "MAT", PeriodT1, 55).Validate())

	assert.Error(t, rec("", "MAT", PeriodT1, 55).Validate())
	assert.Error(t, rec("s1", "", PeriodT1, 55).Validate())
	assert.Error(t, rec("s1", "MAT", PeriodAnnual, 55).Validate())
	assert.Error(t, rec("s1", "MAT", PeriodT1, -1).Validate())
	assert.Error(t, rec("s1", "MAT", PeriodT1, 100.01).Validate())
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]Period{
		"1": PeriodT1, "T2": PeriodT2, "t3": PeriodT3,
		"anual": PeriodAnnual, "ANNUAL": PeriodAnnual,
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePeriod("T4")
	assert.Error(t, err)
}

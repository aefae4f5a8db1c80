package grade

import (
	"github.com/montanaflynn/stats"
)

// Average computes the official average for a set of grade records in a
// grading period. This is the single authoritative averaging routine: every
// consumer (rankings, boletines, sibling reports) selects a period and a
// record subset and calls it, never reimplementing the mean/rounding rule.
//
// For a single trimester the result is the mean of that trimester's scores,
// rounded to two decimals half away from zero. For the annual period the
// records are first grouped by subject; each subject contributes the
// unrounded mean of whatever trimester scores it has (a trimester with no
// record is simply absent, never zero-padded), and the result is the mean of
// those per-subject means, rounded once at the end.
//
// An empty qualifying set yields 0, the "no average" sentinel: a student
// with no grades never appears in averages or rankings.
func Average(records []Record, period Period) float64 {
	if period.IsTrimester() {
		var scores []float64
		for _, r := range records {
			if r.Period == period {
				scores = append(scores, r.Score)
			}
		}
		return meanRounded(scores)
	}
	return annualAverage(records)
}

// annualAverage implements the two-level annual rule: per-subject unrounded
// means first, then one rounded mean over subjects.
func annualAverage(records []Record) float64 {
	bySubject := make(map[string][]float64)
	for _, r := range records {
		bySubject[r.SubjectCode] = append(bySubject[r.SubjectCode], r.Score)
	}
	if len(bySubject) == 0 {
		return 0
	}

	means := make([]float64, 0, len(bySubject))
	for _, scores := range bySubject {
		m, err := stats.Mean(scores)
		if err != nil {
			continue
		}
		means = append(means, m)
	}
	return meanRounded(means)
}

// AverageOfValues averages already-computed per-subject values (for example
// the per-subject trimester scores a boletín table has on hand) and rounds
// to two decimals. Zero-valued entries are skipped: a zero is the "no
// average" sentinel, not a grade.
func AverageOfValues(values []float64) float64 {
	var present []float64
	for _, v := range values {
		if v > 0 {
			present = append(present, v)
		}
	}
	return meanRounded(present)
}

// meanRounded is mean + two-decimal rounding, with 0 for an empty input.
func meanRounded(scores []float64) float64 {
	m, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	return ContinuousScorePolicy{}.Round(m)
}

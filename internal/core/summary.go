package core

import (
	"math"

	"github.com/montanaflynn/stats"
)

// CGPAStats summarizes the CGPA distribution of one uploaded table.
type CGPAStats struct {
	Valid   int     `json:"valid"`
	Invalid int     `json:"invalid"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// RunSummary is the at-a-glance result of an allocation run, rendered on the
// upload page and in API responses.
type RunSummary struct {
	Students        int       `json:"students"`
	PreferenceRanks int       `json:"preference_ranks"`
	FacultyCount    int       `json:"faculty_count"`
	CGPA            CGPAStats `json:"cgpa"`
}

// SummarizeCGPA computes distribution statistics over CGPA sort keys. NaN
// keys count as invalid and are excluded; with no valid keys the statistics
// stay zero.
func SummarizeCGPA(keys []float64) CGPAStats {
	var s CGPAStats

	valid := make(stats.Float64Data, 0, len(keys))
	for _, k := range keys {
		if math.IsNaN(k) {
			s.Invalid++
			continue
		}
		valid = append(valid, k)
	}
	s.Valid = len(valid)
	if s.Valid == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(valid)
	s.Median, _ = stats.Median(valid)
	s.StdDev, _ = stats.StandardDeviation(valid)
	s.Min, _ = stats.Min(valid)
	s.Max, _ = stats.Max(valid)
	return s
}

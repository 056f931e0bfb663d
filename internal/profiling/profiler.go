// Package profiling computes read-only per-column metadata: missingness,
// cardinality and summary statistics for numeric columns.
package profiling

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"edanalyzer/domain/tabular"
)

// Profiler derives ColumnProfiles from a dataset
type Profiler struct {
	sampleValues int
}

// NewProfiler creates a profiler keeping up to sampleValues example cells
// per column
func NewProfiler(sampleValues int) *Profiler {
	if sampleValues <= 0 {
		sampleValues = 5
	}
	return &Profiler{sampleValues: sampleValues}
}

// Profile computes profiles for every column, in column order
func (p *Profiler) Profile(ds *tabular.Dataset) []tabular.ColumnProfile {
	profiles := make([]tabular.ColumnProfile, 0, len(ds.Columns))
	for i := range ds.Columns {
		profiles = append(profiles, p.ProfileColumn(&ds.Columns[i]))
	}
	return profiles
}

// ProfileColumn computes the profile of a single column
func (p *Profiler) ProfileColumn(col *tabular.Column) tabular.ColumnProfile {
	profile := tabular.ColumnProfile{
		Name:         col.Name,
		Type:         col.Type,
		MissingCount: col.MissingCount(),
		MissingRate:  col.MissingRate(),
		Cardinality:  col.Cardinality(),
		SampleValues: sampleValues(col, p.sampleValues),
	}

	if col.Type == tabular.TypeNumeric {
		if summary, ok := Summarize(col.NumericValues()); ok {
			profile.Stats = summary
			profile.Skewness = skewness(col.NumericValues())
		}
	}
	return profile
}

// Summarize computes robust summary statistics over a numeric slice.
// Returns false when there is nothing to summarize.
func Summarize(data []float64) (*tabular.SummaryStats, bool) {
	if len(data) == 0 {
		return nil, false
	}

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	return &tabular.SummaryStats{
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
		Q25:    q25,
		Q75:    q75,
	}, true
}

// Quartiles returns (q1, q3) for outlier detection. A degenerate column
// (fewer than 4 values) reports q1 == q3 == median so no value is flagged.
func Quartiles(data []float64) (float64, float64) {
	if len(data) < 4 {
		median, _ := stats.Median(data)
		return median, median
	}
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)
	return q25, q75
}

func skewness(data []float64) float64 {
	if len(data) < 3 {
		return 0
	}
	return stat.Skew(data, nil)
}

func sampleValues(col *tabular.Column, limit int) []string {
	samples := make([]string, 0, limit)
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		samples = append(samples, v.Display())
		if len(samples) == limit {
			break
		}
	}
	return samples
}

// Mode returns the most frequent non-missing value of a column and its
// count. Ties resolve to the value seen first, keeping imputation
// deterministic.
func Mode(col *tabular.Column) (tabular.Value, int) {
	counts := make(map[string]int)
	first := make(map[string]int) // value key -> first row index
	values := make(map[string]tabular.Value)

	for i, v := range col.Values {
		if v.IsMissing {
			continue
		}
		key := v.String()
		counts[key]++
		if _, ok := first[key]; !ok {
			first[key] = i
			values[key] = v
		}
	}

	bestKey := ""
	bestCount := 0
	for key, n := range counts {
		if n > bestCount || (n == bestCount && first[key] < first[bestKey]) {
			bestKey, bestCount = key, n
		}
	}
	if bestCount == 0 {
		return tabular.NewMissingValue(), 0
	}
	return values[bestKey], bestCount
}

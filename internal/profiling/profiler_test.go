package profiling

import (
	"math"
	"testing"

	"edanalyzer/domain/tabular"
)

func TestSummarize(t *testing.T) {
	summary, ok := Summarize([]float64{1, 2, 3, 4, 5})
	if !ok {
		t.Fatal("expected summary for non-empty data")
	}
	if summary.Mean != 3 {
		t.Errorf("Mean = %f, want 3", summary.Mean)
	}
	if summary.Median != 3 {
		t.Errorf("Median = %f, want 3", summary.Median)
	}
	if summary.Min != 1 || summary.Max != 5 {
		t.Errorf("Min/Max = %f/%f, want 1/5", summary.Min, summary.Max)
	}
	if summary.Q25 >= summary.Median || summary.Q75 <= summary.Median {
		t.Errorf("quartiles out of order: q25=%f median=%f q75=%f", summary.Q25, summary.Median, summary.Q75)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, ok := Summarize(nil); ok {
		t.Error("expected no summary for empty data")
	}
}

func TestQuartiles_DegenerateColumn(t *testing.T) {
	// Fewer than 4 values: q1 == q3 so the IQR rule flags nothing
	q1, q3 := Quartiles([]float64{10, 20, 30})
	if q1 != q3 {
		t.Errorf("q1=%f q3=%f, want equal for degenerate input", q1, q3)
	}
	if q1 != 20 {
		t.Errorf("q1 = %f, want median 20", q1)
	}
}

func TestQuartiles_Ordering(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	q1, q3 := Quartiles(data)
	if !(q1 < q3) {
		t.Errorf("q1=%f should be below q3=%f", q1, q3)
	}
}

func TestProfileColumn_Numeric(t *testing.T) {
	col := tabular.Column{Name: "age", Type: tabular.TypeNumeric, Values: []tabular.Value{
		tabular.NewNumericValue(25),
		tabular.NewNumericValue(30),
		tabular.NewNumericValue(35),
		tabular.NewMissingValue(),
	}}
	profile := NewProfiler(5).ProfileColumn(&col)

	if profile.Name != "age" || profile.Type != tabular.TypeNumeric {
		t.Errorf("unexpected identity: %+v", profile)
	}
	if profile.MissingCount != 1 || profile.MissingRate != 0.25 {
		t.Errorf("missingness = %d / %f", profile.MissingCount, profile.MissingRate)
	}
	if profile.Stats == nil {
		t.Fatal("numeric column must carry stats")
	}
	if profile.Stats.Mean != 30 {
		t.Errorf("Mean = %f, want 30", profile.Stats.Mean)
	}
	if len(profile.SampleValues) != 3 {
		t.Errorf("SampleValues = %v, want 3 entries", profile.SampleValues)
	}
}

func TestProfileColumn_CategoricalHasNoStats(t *testing.T) {
	col := tabular.Column{Name: "city", Type: tabular.TypeCategorical, Values: []tabular.Value{
		tabular.NewStringValue("Oslo"),
		tabular.NewStringValue("Bergen"),
	}}
	profile := NewProfiler(5).ProfileColumn(&col)
	if profile.Stats != nil {
		t.Error("categorical column must not carry numeric stats")
	}
	if profile.Cardinality != 2 {
		t.Errorf("Cardinality = %d, want 2", profile.Cardinality)
	}
}

func TestProfileColumn_SkewnessOfSymmetricData(t *testing.T) {
	col := tabular.Column{Name: "v", Type: tabular.TypeNumeric, Values: []tabular.Value{
		tabular.NewNumericValue(1),
		tabular.NewNumericValue(2),
		tabular.NewNumericValue(3),
	}}
	profile := NewProfiler(5).ProfileColumn(&col)
	if math.Abs(profile.Skewness) > 1e-9 {
		t.Errorf("Skewness = %f, want ~0 for symmetric data", profile.Skewness)
	}
}

func TestMode_FirstSeenTieBreak(t *testing.T) {
	col := tabular.Column{Name: "c", Type: tabular.TypeCategorical, Values: []tabular.Value{
		tabular.NewStringValue("b"),
		tabular.NewStringValue("a"),
		tabular.NewStringValue("a"),
		tabular.NewStringValue("b"),
		tabular.NewMissingValue(),
	}}
	mode, count := Mode(&col)
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if mode.String() != "b" {
		t.Errorf("mode = %q, want first-seen value b", mode.String())
	}
}

func TestMode_AllMissing(t *testing.T) {
	col := tabular.Column{Name: "c", Type: tabular.TypeCategorical, Values: []tabular.Value{
		tabular.NewMissingValue(),
		tabular.NewMissingValue(),
	}}
	mode, count := Mode(&col)
	if count != 0 || !mode.IsMissing {
		t.Errorf("Mode over missing column = %v, %d; want missing, 0", mode, count)
	}
}

package ai

import (
	"strings"
	"testing"

	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
)

func insightTestDataset(t *testing.T) *tabular.Dataset {
	t.Helper()
	ds, err := tabular.NewDataset([]tabular.Column{
		{Name: "age", Type: tabular.TypeNumeric, Values: []tabular.Value{
			tabular.NewNumericValue(20), tabular.NewNumericValue(30), tabular.NewNumericValue(40),
		}},
		{Name: "income", Type: tabular.TypeNumeric, Values: []tabular.Value{
			tabular.NewNumericValue(100), tabular.NewNumericValue(200), tabular.NewNumericValue(300),
		}},
		{Name: "city", Type: tabular.TypeCategorical, Values: []tabular.Value{
			tabular.NewStringValue("Oslo"), tabular.NewStringValue("Bergen"), tabular.NewStringValue("Oslo"),
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestValidateBundle_DropsMalformedRecommendationsOnly(t *testing.T) {
	ds := insightTestDataset(t)
	bundle := analysis.InsightBundle{
		KeyInsights: []string{"ages cluster in two bands"},
		RecommendedPlots: []analysis.PlotRecommendation{
			{PlotType: "scatter", Columns: []string{"age", "income"}, Title: "good", Priority: "high"},
			{PlotType: "pie", Columns: []string{"city"}, Title: "unknown type", Priority: "high"},
			{PlotType: "bar", Columns: []string{"ghost"}, Title: "unknown column", Priority: "low"},
			{PlotType: "bar", Columns: nil, Title: "no columns", Priority: "low"},
			{PlotType: "distribution", Columns: []string{"income"}, Title: "bad priority", Priority: "urgent"},
		},
	}

	out := ValidateBundle(bundle, ds)
	if len(out.RecommendedPlots) != 2 {
		t.Fatalf("kept %d recommendations, want 2: %+v", len(out.RecommendedPlots), out.RecommendedPlots)
	}
	if out.RecommendedPlots[0].Title != "good" {
		t.Errorf("first kept = %q, want good", out.RecommendedPlots[0].Title)
	}
	// invalid priority normalizes to medium instead of dropping the plot
	if out.RecommendedPlots[1].Priority != string(analysis.PriorityMedium) {
		t.Errorf("priority = %q, want medium", out.RecommendedPlots[1].Priority)
	}
	if len(out.KeyInsights) != 1 {
		t.Errorf("insights lost in validation: %v", out.KeyInsights)
	}
}

func TestValidateBundle_CorrelationMayOmitColumns(t *testing.T) {
	ds := insightTestDataset(t)
	bundle := analysis.InsightBundle{
		RecommendedPlots: []analysis.PlotRecommendation{
			{PlotType: "correlation", Title: "all numeric", Priority: "high"},
			{PlotType: "heatmap", Title: "same", Priority: "medium"},
		},
	}
	out := ValidateBundle(bundle, ds)
	if len(out.RecommendedPlots) != 2 {
		t.Errorf("kept %d, want 2: correlation plots may omit columns", len(out.RecommendedPlots))
	}
}

func TestFallbackBundle(t *testing.T) {
	ds := insightTestDataset(t)
	bundle := FallbackBundle(ds)

	if len(bundle.KeyInsights) == 0 {
		t.Error("fallback bundle must carry generic insights")
	}
	if len(bundle.RecommendedPlots) != 1 {
		t.Fatalf("recommendations = %+v, want one correlation", bundle.RecommendedPlots)
	}
	rec := bundle.RecommendedPlots[0]
	if rec.PlotType != string(analysis.PlotCorrelation) || rec.Priority != string(analysis.PriorityHigh) {
		t.Errorf("unexpected recommendation: %+v", rec)
	}
	if len(rec.Columns) != 2 {
		t.Errorf("columns = %v, want both numeric columns", rec.Columns)
	}
}

func TestFallbackBundle_TooFewNumericColumns(t *testing.T) {
	ds, _ := tabular.NewDataset([]tabular.Column{
		{Name: "only", Type: tabular.TypeNumeric, Values: []tabular.Value{tabular.NewNumericValue(1)}},
	})
	bundle := FallbackBundle(ds)
	if len(bundle.RecommendedPlots) != 0 {
		t.Errorf("recommendations = %+v, want none with a single numeric column", bundle.RecommendedPlots)
	}
}

func TestBuildDatasetContext(t *testing.T) {
	ds := insightTestDataset(t)
	profile := []tabular.ColumnProfile{
		{Name: "age", Type: tabular.TypeNumeric, Cardinality: 3, SampleValues: []string{"20", "30"}},
		{Name: "income", Type: tabular.TypeNumeric, Cardinality: 3},
		{Name: "city", Type: tabular.TypeCategorical, Cardinality: 2},
	}

	ctx := BuildDatasetContext(ds, profile, 2)
	for _, want := range []string{`"shape"`, `"age"`, `"city"`, `"sample_rows"`, "Oslo"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %s:\n%s", want, ctx)
		}
	}
	// bounded to two sample rows
	if got := strings.Count(ctx, `"age": "`); got != 2 {
		t.Errorf("found %d sample rows, want 2", got)
	}
}

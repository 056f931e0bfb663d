package app

import (
	"context"
	"strings"
	"testing"

	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/cleaning"
	"edanalyzer/internal/config"
	"edanalyzer/internal/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		Cleaning: config.DefaultCleaningConfig(),
		Ingest:   config.DefaultIngestConfig(),
		Plots:    config.DefaultPlotConfig(),
	}
}

// testCSV has a duplicate row and a missing cell so the cleaning report has
// something to say
func testCSV() []byte {
	return []byte(strings.Join([]string{
		"age,income,city",
		"25,50000,Oslo",
		"30,60000,Bergen",
		"30,60000,Bergen",
		"35,,Oslo",
		"40,80000,Bergen",
		"45,90000,Oslo",
	}, "\n"))
}

type stubAdvisor struct {
	strategy *cleaning.Strategy
	ok       bool
}

func (s stubAdvisor) Advise(context.Context, *tabular.Dataset, []tabular.ColumnProfile, string) (*cleaning.Strategy, bool) {
	return s.strategy, s.ok
}

type stubScout struct {
	bundle analysis.InsightBundle
	ok     bool
}

func (s stubScout) Explore(context.Context, *tabular.Dataset, []tabular.ColumnProfile, string) (analysis.InsightBundle, bool) {
	return s.bundle, s.ok
}

func TestAnalyze_WithoutAI(t *testing.T) {
	pipeline := NewPipeline(testConfig())
	result, err := pipeline.Analyze(context.Background(), Request{Data: testCSV(), Filename: "people.csv"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Message != MessageWithoutAI {
		t.Errorf("message = %q, want %q", result.Message, MessageWithoutAI)
	}
	if result.AIUsed || result.AIDetails.CleaningAIUsed || result.AIDetails.VisualizationAIUsed {
		t.Errorf("AI flags set without an AI backend: %+v", result.AIDetails)
	}

	if result.OriginalShape.Rows != 6 || result.OriginalShape.Cols != 3 {
		t.Errorf("original shape = %+v, want 6x3", result.OriginalShape)
	}
	if result.CleanedShape.Rows != 5 {
		t.Errorf("cleaned rows = %d, want 5 after deduplication", result.CleanedShape.Rows)
	}

	if result.CleaningReport.Len() == 0 {
		t.Fatal("cleaning report is empty")
	}
	if outcome, _ := result.CleaningReport.Get("duplicates"); !strings.Contains(outcome, "1") {
		t.Errorf("duplicates = %q, want one removed", outcome)
	}
	if outcome, _ := result.CleaningReport.Get("missing_values"); !strings.Contains(outcome, "income") {
		t.Errorf("missing_values = %q, want income imputed", outcome)
	}

	if len(result.Plots) == 0 {
		t.Error("no plots rendered")
	}
	if _, ok := result.Plots["data_overview"]; !ok {
		t.Errorf("data_overview plot missing, got %v", plotKeys(result))
	}

	// the fallback bundle still gives the client something to show
	if len(result.AIInsights.KeyInsights) == 0 {
		t.Error("fallback insights missing")
	}
	// fallback recommendations are advisory only, never rendered
	for key := range result.Plots {
		if strings.HasPrefix(key, "ai_") {
			t.Errorf("fallback recommendation was rendered as %q", key)
		}
	}

	if result.Summary.Shape != result.CleanedShape {
		t.Errorf("summary shape %+v != cleaned shape %+v", result.Summary.Shape, result.CleanedShape)
	}
}

func TestAnalyze_WithAIStages(t *testing.T) {
	scoutBundle := analysis.InsightBundle{
		KeyInsights: []string{"income rises with age"},
		RecommendedPlots: []analysis.PlotRecommendation{
			{PlotType: "scatter", Columns: []string{"age", "income"}, Title: "Age vs Income", Priority: "high"},
			{PlotType: "sunburst", Columns: []string{"city"}, Title: "Bogus", Priority: "high"},
		},
	}
	pipeline := NewPipeline(testConfig()).WithAI(
		stubAdvisor{strategy: &cleaning.Strategy{}, ok: true},
		stubScout{bundle: scoutBundle, ok: true},
	)

	result, err := pipeline.Analyze(context.Background(), Request{Data: testCSV(), Filename: "people.csv"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Message != MessageWithAI {
		t.Errorf("message = %q, want %q", result.Message, MessageWithAI)
	}
	if !result.AIUsed || !result.AIDetails.CleaningAIUsed || !result.AIDetails.VisualizationAIUsed {
		t.Errorf("AI flags = %+v, want all set", result.AIDetails)
	}

	if _, ok := result.Plots["ai_age_vs_income"]; !ok {
		t.Errorf("recommended plot missing, got %v", plotKeys(result))
	}
	// one bad recommendation never blocks the rest
	for key := range result.Plots {
		if strings.Contains(key, "bogus") {
			t.Errorf("invalid recommendation rendered as %q", key)
		}
	}
	if len(result.AIInsights.KeyInsights) != 1 {
		t.Errorf("insights = %v", result.AIInsights.KeyInsights)
	}
}

func TestAnalyze_AIFailureDegrades(t *testing.T) {
	pipeline := NewPipeline(testConfig()).WithAI(
		stubAdvisor{ok: false},
		stubScout{bundle: analysis.EmptyInsightBundle(), ok: false},
	)
	result, err := pipeline.Analyze(context.Background(), Request{Data: testCSV(), Filename: "people.csv"})
	if err != nil {
		t.Fatal(err)
	}

	if result.AIUsed {
		t.Error("AIUsed set although both stages failed")
	}
	if result.Message != MessageWithoutAI {
		t.Errorf("message = %q, want %q", result.Message, MessageWithoutAI)
	}
	if result.CleaningReport.Len() == 0 || len(result.Plots) == 0 {
		t.Error("degraded run must still clean and plot")
	}
	if len(result.AIInsights.KeyInsights) == 0 {
		t.Error("degraded run must fall back to generic insights")
	}
}

func TestAnalyze_IngestionFailureIsFatal(t *testing.T) {
	pipeline := NewPipeline(testConfig())
	_, err := pipeline.Analyze(context.Background(), Request{Data: []byte("only,a,header\n"), Filename: "empty.csv"})
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !errors.IsFatal(err) {
		t.Errorf("err = %v, want a fatal ingestion-class error", err)
	}
}

func TestAnalyze_FormatOverride(t *testing.T) {
	pipeline := NewPipeline(testConfig())
	// misleading filename, explicit format wins
	result, err := pipeline.Analyze(context.Background(), Request{
		Data:     testCSV(),
		Filename: "export.bin",
		Format:   "csv",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.OriginalShape.Cols != 3 {
		t.Errorf("cols = %d, want 3", result.OriginalShape.Cols)
	}
}

func plotKeys(result *analysis.AnalysisResult) []string {
	keys := make([]string, 0, len(result.Plots))
	for k := range result.Plots {
		keys = append(keys, k)
	}
	return keys
}

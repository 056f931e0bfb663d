package analysis

import (
	"strings"

	"edanalyzer/domain/tabular"
)

// PlotType enumerates the chart kinds the visualizer can render
type PlotType string

const (
	PlotCorrelation  PlotType = "correlation"
	PlotDistribution PlotType = "distribution"
	PlotScatter      PlotType = "scatter"
	PlotBox          PlotType = "box"
	PlotBar          PlotType = "bar"
	PlotLine         PlotType = "line"
	PlotHeatmap      PlotType = "heatmap"
)

// KnownPlotTypes lists every plot type the visualizer understands
var KnownPlotTypes = []PlotType{
	PlotCorrelation, PlotDistribution, PlotScatter,
	PlotBox, PlotBar, PlotLine, PlotHeatmap,
}

// ParsePlotType resolves a free-form plot type string. AI responses are
// untrusted, so matching is case-insensitive with a couple of common aliases.
func ParsePlotType(s string) (PlotType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correlation":
		return PlotCorrelation, true
	case "distribution", "histogram", "hist":
		return PlotDistribution, true
	case "scatter", "scatterplot":
		return PlotScatter, true
	case "box", "boxplot":
		return PlotBox, true
	case "bar", "barchart":
		return PlotBar, true
	case "line":
		return PlotLine, true
	case "heatmap":
		return PlotHeatmap, true
	}
	return "", false
}

// Priority ranks a plot recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PlotRecommendation is an AI-suggested visualization. It is transient:
// consumed once to drive the recommended-plot renderer, never persisted.
type PlotRecommendation struct {
	PlotType    string   `json:"plot_type"`
	Columns     []string `json:"columns"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
}

// InsightBundle is the structured payload returned by the AI insight layer
type InsightBundle struct {
	KeyInsights        []string             `json:"key_insights_to_explore"`
	SuggestedGroupings []string             `json:"suggested_groupings"`
	RecommendedPlots   []PlotRecommendation `json:"recommended_plots"`
}

// EmptyInsightBundle returns a bundle with non-nil slices so the serialized
// response always carries arrays, never nulls
func EmptyInsightBundle() InsightBundle {
	return InsightBundle{
		KeyInsights:        []string{},
		SuggestedGroupings: []string{},
		RecommendedPlots:   []PlotRecommendation{},
	}
}

// AIDetails reports which AI-assisted stages actually ran. Either stage can
// succeed independently of the other.
type AIDetails struct {
	CleaningAIUsed      bool `json:"cleaning_ai_used"`
	VisualizationAIUsed bool `json:"visualization_ai_used"`
}

// AnalysisResult is the terminal aggregate returned for every successful run
type AnalysisResult struct {
	Message        string                 `json:"message"`
	OriginalShape  tabular.Shape          `json:"original_shape"`
	CleanedShape   tabular.Shape          `json:"cleaned_shape"`
	CleaningReport CleaningReport         `json:"cleaning_report"`
	Summary        tabular.DatasetSummary `json:"summary"`
	Plots          map[string]string      `json:"plots"`
	AIInsights     InsightBundle          `json:"ai_insights"`
	AIUsed         bool                   `json:"ai_analysis_used"`
	AIDetails      AIDetails              `json:"ai_details"`
}

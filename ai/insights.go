package ai

import (
	"context"

	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
)

// InsightScout asks the AI backend for dataset insights and plot
// recommendations. The backend is untrusted: every recommendation is
// schema-validated against the cleaned dataset before use, and invalid
// entries are dropped individually.
type InsightScout struct {
	client *StructuredClient[analysis.InsightBundle]
	cfg    config.AIConfig
	log    *logging.Logger
}

// NewInsightScout creates the scout
func NewInsightScout(cfg config.AIConfig) *InsightScout {
	return &InsightScout{
		client: NewStructuredClient[analysis.InsightBundle](cfg),
		cfg:    cfg,
		log:    logging.New("InsightScout"),
	}
}

// Explore requests insights for the cleaned dataset. Returns the validated
// bundle and true on success, or an empty bundle and false when the backend
// is unavailable. It never fails the pipeline.
func (s *InsightScout) Explore(ctx context.Context, cleaned *tabular.Dataset, profiles []tabular.ColumnProfile, userContext string) (analysis.InsightBundle, bool) {
	prompt := InsightsPrompt(BuildDatasetContext(cleaned, profiles, s.cfg.SampleRows), userContext)

	bundle, err := s.client.GetJSONResponse(ctx, prompt)
	if err != nil {
		s.log.Warnf("insights unavailable: %v", err)
		return analysis.EmptyInsightBundle(), false
	}

	validated := ValidateBundle(*bundle, cleaned)
	s.log.Infof("received %d insights, %d plot recommendations (%d valid)",
		len(validated.KeyInsights), len(bundle.RecommendedPlots), len(validated.RecommendedPlots))
	return validated, true
}

// ValidateBundle filters a raw insight bundle: recommendations must name a
// known plot type and reference only columns present in the dataset.
// Correlation plots may omit columns (they default to all numeric columns).
func ValidateBundle(bundle analysis.InsightBundle, ds *tabular.Dataset) analysis.InsightBundle {
	out := analysis.EmptyInsightBundle()
	out.KeyInsights = append(out.KeyInsights, bundle.KeyInsights...)
	out.SuggestedGroupings = append(out.SuggestedGroupings, bundle.SuggestedGroupings...)

	for _, rec := range bundle.RecommendedPlots {
		plotType, known := analysis.ParsePlotType(rec.PlotType)
		if !known {
			continue
		}
		if len(rec.Columns) == 0 && plotType != analysis.PlotCorrelation && plotType != analysis.PlotHeatmap {
			continue
		}
		valid := true
		for _, name := range rec.Columns {
			if _, ok := ds.Column(name); !ok {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		if rec.Priority != string(analysis.PriorityHigh) &&
			rec.Priority != string(analysis.PriorityMedium) &&
			rec.Priority != string(analysis.PriorityLow) {
			rec.Priority = string(analysis.PriorityMedium)
		}
		out.RecommendedPlots = append(out.RecommendedPlots, rec)
	}
	return out
}

// FallbackBundle is the non-AI insight content: a single correlation
// recommendation over the numeric columns plus generic pointers.
func FallbackBundle(ds *tabular.Dataset) analysis.InsightBundle {
	bundle := analysis.EmptyInsightBundle()
	bundle.KeyInsights = []string{
		"Basic data patterns",
		"Distribution analysis",
		"Correlation insights",
	}

	numeric := ds.NumericColumns()
	if len(numeric) >= 2 {
		names := make([]string, len(numeric))
		for i, c := range numeric {
			names[i] = c.Name
		}
		bundle.RecommendedPlots = append(bundle.RecommendedPlots, analysis.PlotRecommendation{
			PlotType:    string(analysis.PlotCorrelation),
			Columns:     names,
			Title:       "Correlation Analysis",
			Description: "Relationships between numerical variables",
			Priority:    string(analysis.PriorityHigh),
		})
	}
	return bundle
}

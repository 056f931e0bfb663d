// Package app orchestrates the dataset analysis pipeline: ingest, clean,
// profile, render the static plot battery, and layer best-effort AI insights
// and AI-recommended plots on top.
package app

import (
	"context"
	"time"

	"edanalyzer/adapters/ingest"
	"edanalyzer/adapters/plot"
	"edanalyzer/ai"
	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/cleaning"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
	"edanalyzer/internal/profiling"
)

// Result messages, depending on whether AI contributed to the analysis
const (
	MessageWithAI    = "Analysis complete with AI-guided insights! 🤖📊"
	MessageWithoutAI = "Analysis complete with comprehensive insights! 📊"
)

// Request is one dataset analysis request
type Request struct {
	Data     []byte
	Filename string
	// Format overrides filename-based detection when set
	Format ingest.Format
	// AnalysisRequest is optional free text forwarded to the AI layer
	AnalysisRequest string
}

// CleaningAdvisor supplies optional AI cleaning advice
type CleaningAdvisor interface {
	Advise(ctx context.Context, ds *tabular.Dataset, profiles []tabular.ColumnProfile, userContext string) (*cleaning.Strategy, bool)
}

// InsightProvider supplies optional AI insights and plot recommendations
type InsightProvider interface {
	Explore(ctx context.Context, cleaned *tabular.Dataset, profiles []tabular.ColumnProfile, userContext string) (analysis.InsightBundle, bool)
}

// Pipeline runs one analysis start to finish. It holds no per-request state;
// one instance serves all requests.
type Pipeline struct {
	cfg         *config.Config
	reader      *ingest.Reader
	engine      *cleaning.Engine
	profiler    *profiling.Profiler
	battery     *plot.Battery
	recommended *plot.RecommendedGenerator
	advisor     CleaningAdvisor
	scout       InsightProvider
	log         *logging.Logger
}

// NewPipeline wires the pipeline from configuration. The AI stages are only
// attached when AI is enabled; a nil stage simply never runs.
func NewPipeline(cfg *config.Config) *Pipeline {
	p := &Pipeline{
		cfg:         cfg,
		reader:      ingest.NewReader(cfg.Ingest),
		engine:      cleaning.NewEngine(cfg.Cleaning),
		profiler:    profiling.NewProfiler(cfg.Ingest.SampleValues),
		battery:     plot.NewBattery(cfg.Plots),
		recommended: plot.NewRecommendedGenerator(plot.NewRegistry(cfg.Plots)),
		log:         logging.New("Pipeline"),
	}
	if cfg.AI.Enabled {
		p.advisor = ai.NewCleaningAdvisor(cfg.AI)
		p.scout = ai.NewInsightScout(cfg.AI)
	}
	return p
}

// WithAI replaces the AI stages, primarily for tests
func (p *Pipeline) WithAI(advisor CleaningAdvisor, scout InsightProvider) *Pipeline {
	p.advisor = advisor
	p.scout = scout
	return p
}

// Analyze runs the full pipeline for one uploaded file. Only ingestion
// failures return an error; everything downstream degrades in place and the
// caller still receives a best-effort result.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*analysis.AnalysisResult, error) {
	started := time.Now()

	format := req.Format
	if format == ingest.FormatAuto {
		format = ingest.FormatFromFilename(req.Filename)
	}

	original, err := p.reader.Parse(req.Data, format)
	if err != nil {
		return nil, err
	}
	originalProfiles := p.profiler.Profile(original)

	var strategy *cleaning.Strategy
	cleaningAI := false
	if p.advisor != nil {
		strategy, cleaningAI = p.advisor.Advise(ctx, original, originalProfiles, req.AnalysisRequest)
	}

	cleaned, report := p.engine.Clean(original, strategy)
	cleanedProfiles := p.profiler.Profile(cleaned)

	artifacts := p.battery.Generate(original, cleaned)

	insights := ai.FallbackBundle(cleaned)
	visualizationAI := false
	if p.scout != nil {
		if bundle, ok := p.scout.Explore(ctx, cleaned, cleanedProfiles, req.AnalysisRequest); ok {
			insights = bundle
			visualizationAI = true
		}
	}
	if visualizationAI {
		// Fallback recommendations are advisory output only; rendering them
		// would duplicate the static battery
		p.recommended.Generate(cleaned, insights.RecommendedPlots, artifacts)
	}

	aiUsed := cleaningAI || visualizationAI
	message := MessageWithoutAI
	if aiUsed {
		message = MessageWithAI
	}

	result := &analysis.AnalysisResult{
		Message:        message,
		OriginalShape:  original.Shape(),
		CleanedShape:   cleaned.Shape(),
		CleaningReport: *report,
		Summary:        tabular.Summarize(cleaned),
		Plots:          artifacts,
		AIInsights:     insights,
		AIUsed:         aiUsed,
		AIDetails: analysis.AIDetails{
			CleaningAIUsed:      cleaningAI,
			VisualizationAIUsed: visualizationAI,
		},
	}

	p.log.Infof("analysis finished in %v: %dx%d -> %dx%d, %d plots, ai=%t",
		time.Since(started).Round(time.Millisecond),
		result.OriginalShape.Rows, result.OriginalShape.Cols,
		result.CleanedShape.Rows, result.CleanedShape.Cols,
		len(result.Plots), aiUsed)
	return result, nil
}

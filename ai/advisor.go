package ai

import (
	"context"

	"edanalyzer/domain/tabular"
	"edanalyzer/internal/cleaning"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
)

// CleaningAdvisor asks the AI backend for a per-column cleaning strategy.
// Its advice is advisory only: the cleaning engine keeps its fixed step
// order and falls back to deterministic defaults wherever the advice is
// missing or unusable.
type CleaningAdvisor struct {
	client *StructuredClient[cleaning.Strategy]
	cfg    config.AIConfig
	log    *logging.Logger
}

// NewCleaningAdvisor creates the advisor
func NewCleaningAdvisor(cfg config.AIConfig) *CleaningAdvisor {
	return &CleaningAdvisor{
		client: NewStructuredClient[cleaning.Strategy](cfg),
		cfg:    cfg,
		log:    logging.New("CleaningAdvisor"),
	}
}

// Advise requests a cleaning strategy for the dataset. Returns (nil, false)
// when the backend is unavailable or the reply is unusable; the pipeline
// then cleans deterministically.
func (a *CleaningAdvisor) Advise(ctx context.Context, ds *tabular.Dataset, profiles []tabular.ColumnProfile, userContext string) (*cleaning.Strategy, bool) {
	prompt := CleaningPrompt(BuildDatasetContext(ds, profiles, a.cfg.SampleRows), userContext)

	strategy, err := a.client.GetJSONResponse(ctx, prompt)
	if err != nil {
		a.log.Warnf("cleaning advice unavailable: %v", err)
		return nil, false
	}

	validateStrategy(strategy, ds)
	return strategy, true
}

// validateStrategy drops advice entries that reference unknown columns.
// Unknown actions are left in place; the engine ignores them per column.
func validateStrategy(s *cleaning.Strategy, ds *tabular.Dataset) {
	for column := range s.MissingData {
		if _, ok := ds.Column(column); !ok {
			delete(s.MissingData, column)
		}
	}
	for column := range s.Outliers {
		if _, ok := ds.Column(column); !ok {
			delete(s.Outliers, column)
		}
	}
	for column := range s.TypeConversions {
		if _, ok := ds.Column(column); !ok {
			delete(s.TypeConversions, column)
		}
	}
}

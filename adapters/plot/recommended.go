package plot

import (
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/logging"
)

// RecommendedGenerator renders AI plot recommendations through the strategy
// registry. Incompatible or failing recommendations are skipped silently;
// they count as ignored advice, not errors.
type RecommendedGenerator struct {
	registry *Registry
	log      *logging.Logger
}

// NewRecommendedGenerator creates the AI-directed plot generator
func NewRecommendedGenerator(registry *Registry) *RecommendedGenerator {
	return &RecommendedGenerator{registry: registry, log: logging.New("RecommendedPlots")}
}

// Generate renders each recommendation against the cleaned dataset and
// merges successes into artifacts, avoiding key collisions with existing
// entries. Returns the number of plots added.
func (g *RecommendedGenerator) Generate(cleaned *tabular.Dataset, recs []analysis.PlotRecommendation, artifacts map[string]string) int {
	type rendered struct {
		key   string
		image string
	}

	results := make([]*rendered, len(recs))
	var group errgroup.Group
	group.SetLimit(g.registry.cfg.Workers)
	var mu sync.Mutex

	for i, rec := range recs {
		i, rec := i, rec
		group.Go(func() error {
			plotType, ok := analysis.ParsePlotType(rec.PlotType)
			if !ok {
				g.log.Warnf("ignoring recommendation with unknown plot type %q", rec.PlotType)
				return nil
			}
			image, err := g.registry.Render(cleaned, plotType, rec.Columns, rec.Title)
			if err != nil {
				g.log.Warnf("ignoring recommendation %q: %v", rec.Title, err)
				return nil
			}
			mu.Lock()
			results[i] = &rendered{key: artifactKey(rec, plotType), image: image}
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	// Merge in recommendation order so key collision suffixes stay stable
	added := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		artifacts[UniqueKey(artifacts, r.key)] = r.image
		added++
	}
	g.log.Infof("rendered %d of %d recommended plots", added, len(recs))
	return added
}

// artifactKey derives a stable artifact key from a recommendation
func artifactKey(rec analysis.PlotRecommendation, plotType analysis.PlotType) string {
	base := rec.Title
	if base == "" {
		base = string(plotType)
		if len(rec.Columns) > 0 {
			base += "_" + rec.Columns[0]
		}
	}
	key := strings.ToLower(strings.TrimSpace(base))
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, key)
	key = strings.Trim(key, "_")
	if key == "" {
		key = string(plotType)
	}
	return "ai_" + key
}

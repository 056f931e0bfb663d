package plot

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
)

// Static plot keys
const (
	KeyDataOverview = "data_overview"
	KeyMissingData  = "missing_data"
	KeyCorrelation  = "correlation"
)

// missingBands caps the vertical resolution of the missing-data heatmap so
// row count never blows up the image
const missingBands = 60

// Battery renders the fixed set of plots every analysis produces. Each plot
// is isolated: one failure logs and omits that key only.
type Battery struct {
	cfg config.PlotConfig
	log *logging.Logger
}

// NewBattery creates the static plot generator
func NewBattery(cfg config.PlotConfig) *Battery {
	return &Battery{cfg: cfg, log: logging.New("PlotBattery")}
}

// Generate renders the static battery over the original and cleaned
// datasets. Individual plots render concurrently; both datasets are treated
// as read-only.
func (b *Battery) Generate(original, cleaned *tabular.Dataset) map[string]string {
	type job struct {
		key    string
		render func() (string, error)
	}

	jobs := []job{
		{KeyDataOverview, func() (string, error) { return b.renderOverview(original, cleaned) }},
	}
	if original.MissingCellCount() > 0 {
		jobs = append(jobs, job{KeyMissingData, func() (string, error) { return b.renderMissingPattern(original) }})
	}
	if len(cleaned.NumericColumns()) >= 2 {
		jobs = append(jobs, job{KeyCorrelation, func() (string, error) {
			return correlationRenderer{}.Render(cleaned, nil, "Correlation Matrix")
		}})
	}
	for _, col := range pickColumns(cleaned.NumericColumns(), b.cfg.MaxPlotColumns) {
		name := col.Name
		jobs = append(jobs, job{"dist_" + name, func() (string, error) {
			return histogramRenderer{}.Render(cleaned, []string{name}, "Distribution of "+name)
		}})
	}
	for _, col := range pickColumns(cleaned.CategoricalColumns(), b.cfg.MaxPlotColumns) {
		name := col.Name
		jobs = append(jobs, job{"cat_" + name, func() (string, error) {
			return barRenderer{maxCategories: b.cfg.MaxCategories}.Render(cleaned, []string{name}, "Top Categories in "+name)
		}})
	}

	artifacts := make(map[string]string, len(jobs))
	var mu sync.Mutex

	var group errgroup.Group
	group.SetLimit(b.cfg.Workers)
	for _, j := range jobs {
		j := j
		group.Go(func() error {
			image, err := j.render()
			if err != nil {
				b.log.Warnf("skipping plot %q: %v", j.key, err)
				return nil
			}
			mu.Lock()
			artifacts[j.key] = image
			mu.Unlock()
			return nil
		})
	}
	// Renderer failures never propagate; they only omit their key
	_ = group.Wait()

	b.log.Infof("rendered %d of %d static plots", len(artifacts), len(jobs))
	return artifacts
}

// renderOverview compares the original and cleaned datasets: row count,
// column count and missing cells, side by side
func (b *Battery) renderOverview(original, cleaned *tabular.Dataset) (string, error) {
	p := plot.New()
	p.Title.Text = "Data Cleaning Overview"
	p.Y.Label.Text = "Count"

	origShape := original.Shape()
	cleanShape := cleaned.Shape()
	before := plotter.Values{float64(origShape.Rows), float64(origShape.Cols), float64(original.MissingCellCount())}
	after := plotter.Values{float64(cleanShape.Rows), float64(cleanShape.Cols), float64(cleaned.MissingCellCount())}

	width := vg.Points(24)
	beforeBars, err := plotter.NewBarChart(before, width)
	if err != nil {
		return "", err
	}
	beforeBars.Color = plotutil.Color(0)
	beforeBars.Offset = -width / 2

	afterBars, err := plotter.NewBarChart(after, width)
	if err != nil {
		return "", err
	}
	afterBars.Color = plotutil.Color(1)
	afterBars.Offset = width / 2

	p.Add(beforeBars, afterBars)
	p.Legend.Add("Original", beforeBars)
	p.Legend.Add("Cleaned", afterBars)
	p.Legend.Top = true
	p.NominalX("Rows", "Columns", "Missing cells")

	return encodePNG(p)
}

// renderMissingPattern draws a heatmap of missingness: columns across,
// banded row ranges down, cell intensity the missing fraction in that band
func (b *Battery) renderMissingPattern(ds *tabular.Dataset) (string, error) {
	rows := ds.RowCount()
	cols := len(ds.Columns)
	if rows == 0 || cols == 0 {
		return "", fmt.Errorf("nothing to draw")
	}

	bands := missingBands
	if rows < bands {
		bands = rows
	}
	grid := newDenseGrid(cols, bands)
	for c := range ds.Columns {
		for band := 0; band < bands; band++ {
			start := band * rows / bands
			end := (band + 1) * rows / bands
			if end == start {
				end = start + 1
			}
			missing := 0
			for i := start; i < end && i < rows; i++ {
				if ds.Columns[c].Values[i].IsMissing {
					missing++
				}
			}
			grid.set(c, band, float64(missing)/float64(end-start))
		}
	}

	p := plot.New()
	p.Title.Text = "Missing Data Pattern"
	p.Y.Label.Text = "Row band"

	heatmap := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	heatmap.Min, heatmap.Max = 0, 1
	p.Add(heatmap)
	p.NominalX(ds.ColumnNames()...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return encodePNG(p)
}

// pickColumns selects up to max columns, preferring informative ones:
// higher cardinality first, original order on ties
func pickColumns(cols []tabular.Column, max int) []tabular.Column {
	if max <= 0 || len(cols) <= max {
		return cols
	}
	indexed := make([]int, len(cols))
	for i := range cols {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		return cols[indexed[a]].Cardinality() > cols[indexed[b]].Cardinality()
	})
	indexed = indexed[:max]
	sort.Ints(indexed)

	out := make([]tabular.Column, 0, max)
	for _, i := range indexed {
		out = append(out, cols[i])
	}
	return out
}

package plot

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
	"edanalyzer/internal/errors"
)

// Renderer produces one chart kind from a set of dataset columns. Renderers
// validate column count and type compatibility themselves; an incompatible
// request is an error, which callers treat as "skip this plot".
type Renderer interface {
	Render(ds *tabular.Dataset, columns []string, title string) (string, error)
}

// Registry dispatches plot types to renderers. Unknown types resolve to "no
// strategy found" rather than a runtime branch explosion.
type Registry struct {
	cfg       config.PlotConfig
	renderers map[analysis.PlotType]Renderer
}

// NewRegistry builds the registry with every supported plot strategy
func NewRegistry(cfg config.PlotConfig) *Registry {
	r := &Registry{cfg: cfg}
	r.renderers = map[analysis.PlotType]Renderer{
		analysis.PlotDistribution: histogramRenderer{},
		analysis.PlotBar:          barRenderer{maxCategories: cfg.MaxCategories},
		analysis.PlotScatter:      scatterRenderer{},
		analysis.PlotBox:          boxRenderer{},
		analysis.PlotLine:         lineRenderer{},
		analysis.PlotHeatmap:      correlationRenderer{},
		analysis.PlotCorrelation:  correlationRenderer{},
	}
	return r
}

// Lookup returns the renderer for a plot type
func (r *Registry) Lookup(t analysis.PlotType) (Renderer, bool) {
	renderer, ok := r.renderers[t]
	return renderer, ok
}

// Render dispatches one plot request through the registry
func (r *Registry) Render(ds *tabular.Dataset, t analysis.PlotType, columns []string, title string) (string, error) {
	renderer, ok := r.Lookup(t)
	if !ok {
		return "", errors.PlotGeneration(fmt.Sprintf("no strategy for plot type %q", t))
	}
	return renderer.Render(ds, columns, title)
}

// resolveColumns maps names to dataset columns, failing on unknown names
func resolveColumns(ds *tabular.Dataset, names []string) ([]*tabular.Column, error) {
	cols := make([]*tabular.Column, 0, len(names))
	for _, name := range names {
		col, ok := ds.Column(name)
		if !ok {
			return nil, errors.PlotGeneration(fmt.Sprintf("column %q not found", name))
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// numericOnly filters to numeric columns, failing when fewer than min remain
func numericOnly(cols []*tabular.Column, min int) ([]*tabular.Column, error) {
	out := make([]*tabular.Column, 0, len(cols))
	for _, c := range cols {
		if c.Type == tabular.TypeNumeric {
			out = append(out, c)
		}
	}
	if len(out) < min {
		return nil, errors.PlotGeneration(fmt.Sprintf("need at least %d numeric columns, got %d", min, len(out)))
	}
	return out, nil
}

// histogramRenderer draws the value distribution of one numeric column
type histogramRenderer struct{}

func (histogramRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	cols, err := resolveColumns(ds, columns)
	if err != nil {
		return "", err
	}
	numeric, err := numericOnly(cols, 1)
	if err != nil {
		return "", err
	}
	col := numeric[0]

	values := col.NumericValues()
	if len(values) == 0 {
		return "", errors.PlotGeneration(fmt.Sprintf("column %q has no numeric values", col.Name))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = col.Name
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(plotter.Values(values), 16)
	if err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to build histogram"), err.Error())
	}
	hist.FillColor = plotutil.Color(0)
	p.Add(hist)

	return encodePNG(p)
}

// barRenderer draws category frequencies for one categorical column
type barRenderer struct {
	maxCategories int
}

func (r barRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	cols, err := resolveColumns(ds, columns)
	if err != nil {
		return "", err
	}
	var col *tabular.Column
	for _, c := range cols {
		if c.Type == tabular.TypeCategorical || c.Type == tabular.TypeText || c.Type == tabular.TypeBoolean {
			col = c
			break
		}
	}
	if col == nil {
		return "", errors.PlotGeneration("bar chart needs a categorical column")
	}

	labels, counts := topCategories(col, r.maxCategories)
	if len(labels) == 0 {
		return "", errors.PlotGeneration(fmt.Sprintf("column %q has no values to count", col.Name))
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(24))
	if err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to build bar chart"), err.Error())
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return encodePNG(p)
}

// scatterRenderer draws exactly two numeric columns against each other
type scatterRenderer struct{}

func (scatterRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	cols, err := resolveColumns(ds, columns)
	if err != nil {
		return "", err
	}
	numeric, err := numericOnly(cols, 2)
	if err != nil {
		return "", err
	}
	x, y := numeric[0], numeric[1]

	pts := make(plotter.XYs, 0, len(x.Values))
	for i := range x.Values {
		if i >= len(y.Values) {
			break
		}
		if !x.Values[i].IsNumeric() || !y.Values[i].IsNumeric() {
			continue
		}
		pts = append(pts, plotter.XY{X: x.Values[i].AsFloat64(), Y: y.Values[i].AsFloat64()})
	}
	if len(pts) == 0 {
		return "", errors.PlotGeneration("no paired numeric values to scatter")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x.Name
	p.Y.Label.Text = y.Name

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to build scatter"), err.Error())
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	scatter.GlyphStyle.Color = plotutil.Color(2)
	p.Add(scatter)

	return encodePNG(p)
}

// boxRenderer draws side-by-side box plots for the named numeric columns
type boxRenderer struct{}

func (boxRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	cols, err := resolveColumns(ds, columns)
	if err != nil {
		return "", err
	}
	numeric, err := numericOnly(cols, 1)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Value"

	names := make([]string, 0, len(numeric))
	for _, col := range numeric {
		values := col.NumericValues()
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(len(names)), plotter.Values(values))
		if err != nil {
			return "", errors.Wrap(errors.PlotGeneration(fmt.Sprintf("failed to build box plot for %q", col.Name)), err.Error())
		}
		p.Add(box)
		names = append(names, col.Name)
	}
	if len(names) == 0 {
		return "", errors.PlotGeneration("no numeric values to box")
	}
	p.NominalX(names...)

	return encodePNG(p)
}

// lineRenderer draws one or two numeric columns as series over row index,
// or column two against column one when both are numeric
type lineRenderer struct{}

func (lineRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	cols, err := resolveColumns(ds, columns)
	if err != nil {
		return "", err
	}
	numeric, err := numericOnly(cols, 1)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = title

	if len(numeric) >= 2 {
		x, y := numeric[0], numeric[1]
		pts := pairedXYs(x, y)
		if len(pts) == 0 {
			return "", errors.PlotGeneration("no paired numeric values to plot")
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", errors.Wrap(errors.PlotGeneration("failed to build line"), err.Error())
		}
		line.Color = plotutil.Color(3)
		p.Add(line)
		p.X.Label.Text = x.Name
		p.Y.Label.Text = y.Name
		return encodePNG(p)
	}

	col := numeric[0]
	pts := make(plotter.XYs, 0, len(col.Values))
	for i, v := range col.Values {
		if v.IsNumeric() {
			pts = append(pts, plotter.XY{X: float64(i), Y: v.AsFloat64()})
		}
	}
	if len(pts) == 0 {
		return "", errors.PlotGeneration(fmt.Sprintf("column %q has no numeric values", col.Name))
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", errors.Wrap(errors.PlotGeneration("failed to build line"), err.Error())
	}
	line.Color = plotutil.Color(3)
	p.Add(line)
	p.X.Label.Text = "Row"
	p.Y.Label.Text = col.Name

	return encodePNG(p)
}

// correlationRenderer draws a correlation-matrix heatmap over numeric
// columns. With no explicit columns it uses every numeric column.
type correlationRenderer struct{}

func (correlationRenderer) Render(ds *tabular.Dataset, columns []string, title string) (string, error) {
	var numeric []*tabular.Column
	if len(columns) == 0 {
		for i := range ds.Columns {
			if ds.Columns[i].Type == tabular.TypeNumeric {
				numeric = append(numeric, &ds.Columns[i])
			}
		}
	} else {
		cols, err := resolveColumns(ds, columns)
		if err != nil {
			return "", err
		}
		numeric, err = numericOnly(cols, 2)
		if err != nil {
			return "", err
		}
	}
	if len(numeric) < 2 {
		return "", errors.PlotGeneration("correlation needs at least 2 numeric columns")
	}

	names := make([]string, len(numeric))
	grid := newDenseGrid(len(numeric), len(numeric))
	for i, a := range numeric {
		names[i] = a.Name
		for j, b := range numeric {
			grid.set(i, j, pairwiseCorrelation(a, b))
		}
	}

	p := plot.New()
	p.Title.Text = title

	heatmap := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	heatmap.Min, heatmap.Max = -1, 1
	p.Add(heatmap)
	p.NominalX(names...)
	p.NominalY(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return encodePNG(p)
}

// pairwiseCorrelation computes Pearson correlation over rows where both
// columns hold numbers
func pairwiseCorrelation(a, b *tabular.Column) float64 {
	n := len(a.Values)
	if len(b.Values) < n {
		n = len(b.Values)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.Values[i].IsNumeric() && b.Values[i].IsNumeric() {
			xs = append(xs, a.Values[i].AsFloat64())
			ys = append(ys, b.Values[i].AsFloat64())
		}
	}
	if len(xs) < 2 {
		return 0
	}
	return stat.Correlation(xs, ys, nil)
}

func pairedXYs(x, y *tabular.Column) plotter.XYs {
	n := len(x.Values)
	if len(y.Values) < n {
		n = len(y.Values)
	}
	pts := make(plotter.XYs, 0, n)
	for i := 0; i < n; i++ {
		if x.Values[i].IsNumeric() && y.Values[i].IsNumeric() {
			pts = append(pts, plotter.XY{X: x.Values[i].AsFloat64(), Y: y.Values[i].AsFloat64()})
		}
	}
	return pts
}

// topCategories returns the most frequent values of a column, capped
func topCategories(col *tabular.Column, max int) ([]string, []float64) {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i, v := range col.Values {
		if v.IsMissing {
			continue
		}
		key := v.String()
		counts[key]++
		if _, seen := order[key]; !seen {
			order[key] = i
		}
	}

	type freq struct {
		label string
		count int
	}
	all := make([]freq, 0, len(counts))
	for label, count := range counts {
		all = append(all, freq{label, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return order[all[i].label] < order[all[j].label]
	})
	if max > 0 && len(all) > max {
		all = all[:max]
	}

	labels := make([]string, len(all))
	values := make([]float64, len(all))
	for i, f := range all {
		labels[i] = f.label
		values[i] = float64(f.count)
	}
	return labels, values
}

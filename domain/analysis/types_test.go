package analysis

import "testing"

func TestParsePlotType(t *testing.T) {
	cases := []struct {
		input string
		want  PlotType
		ok    bool
	}{
		{"correlation", PlotCorrelation, true},
		{"distribution", PlotDistribution, true},
		{"histogram", PlotDistribution, true},
		{"hist", PlotDistribution, true},
		{"scatter", PlotScatter, true},
		{"scatterplot", PlotScatter, true},
		{"box", PlotBox, true},
		{"boxplot", PlotBox, true},
		{"bar", PlotBar, true},
		{"barchart", PlotBar, true},
		{"line", PlotLine, true},
		{"heatmap", PlotHeatmap, true},
		{" Heatmap ", PlotHeatmap, true},
		{"SCATTER", PlotScatter, true},
		{"pie", "", false},
		{"violin", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParsePlotType(c.input)
		if got != c.want || ok != c.ok {
			t.Errorf("ParsePlotType(%q) = %q, %t; want %q, %t", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestEmptyInsightBundle_NonNilSlices(t *testing.T) {
	b := EmptyInsightBundle()
	if b.KeyInsights == nil || b.SuggestedGroupings == nil || b.RecommendedPlots == nil {
		t.Error("empty bundle must carry empty slices, not nils")
	}
}

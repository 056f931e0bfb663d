package ai

import (
	"encoding/json"

	"edanalyzer/domain/tabular"
)

// columnContext is the per-column schema block sent to the backend
type columnContext struct {
	Type         string                `json:"type"`
	MissingCount int                   `json:"missing_count"`
	MissingPct   float64               `json:"missing_percentage"`
	UniqueCount  int                   `json:"unique_count"`
	SampleValues []string              `json:"sample_values"`
	Stats        *tabular.SummaryStats `json:"stats,omitempty"`
}

// datasetContext is the compact dataset description embedded in prompts
type datasetContext struct {
	Shape      tabular.Shape            `json:"shape"`
	Columns    map[string]columnContext `json:"columns"`
	SampleRows []map[string]string      `json:"sample_rows"`
}

// BuildDatasetContext serializes a bounded description of the dataset:
// schema, per-column profiles and a handful of head rows. Bounding the
// payload keeps the prompt inside sane token limits regardless of input
// size.
func BuildDatasetContext(ds *tabular.Dataset, profiles []tabular.ColumnProfile, sampleRows int) string {
	dc := datasetContext{
		Shape:   ds.Shape(),
		Columns: make(map[string]columnContext, len(profiles)),
	}

	for _, p := range profiles {
		missingPct := p.MissingRate * 100
		dc.Columns[p.Name] = columnContext{
			Type:         string(p.Type),
			MissingCount: p.MissingCount,
			MissingPct:   missingPct,
			UniqueCount:  p.Cardinality,
			SampleValues: p.SampleValues,
			Stats:        p.Stats,
		}
	}

	rows := ds.RowCount()
	if rows > sampleRows {
		rows = sampleRows
	}
	for i := 0; i < rows; i++ {
		row := make(map[string]string, len(ds.Columns))
		for j := range ds.Columns {
			row[ds.Columns[j].Name] = ds.Columns[j].Values[i].Display()
		}
		dc.SampleRows = append(dc.SampleRows, row)
	}

	out, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

package tabular

// SummaryStats are robust summary statistics for a numeric column
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// ColumnProfile is derived, read-only metadata about one column
type ColumnProfile struct {
	Name         string        `json:"name"`
	Type         ColumnType    `json:"type"`
	MissingCount int           `json:"missing_count"`
	MissingRate  float64       `json:"missing_rate"`
	Cardinality  int           `json:"cardinality"`
	SampleValues []string      `json:"sample_values"`
	Stats        *SummaryStats `json:"stats,omitempty"`
	Skewness     float64       `json:"skewness,omitempty"`
}

// DatasetSummary is the compact schema block returned with every analysis
type DatasetSummary struct {
	Shape         Shape             `json:"shape"`
	Columns       []string          `json:"columns"`
	DataTypes     map[string]string `json:"data_types"`
	MissingValues map[string]int    `json:"missing_values"`
}

// Summarize builds the response summary block from a dataset
func Summarize(d *Dataset) DatasetSummary {
	summary := DatasetSummary{
		Shape:         d.Shape(),
		Columns:       d.ColumnNames(),
		DataTypes:     make(map[string]string, len(d.Columns)),
		MissingValues: make(map[string]int, len(d.Columns)),
	}
	for i := range d.Columns {
		col := &d.Columns[i]
		summary.DataTypes[col.Name] = string(col.Type)
		summary.MissingValues[col.Name] = col.MissingCount()
	}
	return summary
}

package cleaning

// Strategy is optional per-column cleaning advice, typically produced by the
// AI advisor. A nil strategy means the deterministic defaults apply
// everywhere. Advice is only ever consulted for columns it names; unknown
// columns and unknown actions fall back to the defaults.
type Strategy struct {
	MissingData            map[string]ColumnAdvice `json:"missing_data_strategy"`
	Outliers               map[string]ColumnAdvice `json:"outlier_strategy"`
	TypeConversions        map[string]TypeAdvice   `json:"type_conversions"`
	GeneralRecommendations []string                `json:"general_recommendations"`
}

// ColumnAdvice names one cleaning action for one column
type ColumnAdvice struct {
	Action      string `json:"action"`
	Reasoning   string `json:"reasoning"`
	CustomValue string `json:"custom_value,omitempty"`
}

// TypeAdvice requests a column type conversion
type TypeAdvice struct {
	TargetType string `json:"target_type"`
	Reasoning  string `json:"reasoning"`
}

// Missing-data actions the engine accepts from advice
const (
	ActionFillMedian = "fill_with_median"
	ActionFillMean   = "fill_with_mean"
	ActionFillMode   = "fill_with_mode"
	ActionCustom     = "custom_value"
	ActionLeaveEmpty = "leave_empty"
	ActionDropColumn = "drop_column"
)

// Outlier actions the engine accepts from advice
const (
	OutlierCap    = "cap"
	OutlierRemove = "remove"
	OutlierKeep   = "keep"
)

// missingAdvice returns the advised missing-data action for a column, or ""
func (s *Strategy) missingAdvice(column string) (ColumnAdvice, bool) {
	if s == nil {
		return ColumnAdvice{}, false
	}
	advice, ok := s.MissingData[column]
	return advice, ok
}

// outlierAdvice returns the advised outlier action for a column, or ""
func (s *Strategy) outlierAdvice(column string) (ColumnAdvice, bool) {
	if s == nil {
		return ColumnAdvice{}, false
	}
	advice, ok := s.Outliers[column]
	return advice, ok
}

// conversionAdvice returns the advised type conversion for a column, or ""
func (s *Strategy) conversionAdvice(column string) (TypeAdvice, bool) {
	if s == nil {
		return TypeAdvice{}, false
	}
	advice, ok := s.TypeConversions[column]
	return advice, ok
}

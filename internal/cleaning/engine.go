// Package cleaning implements the deterministic data cleaning engine. Steps
// run in a fixed order, each step records an outcome even when it finds
// nothing to do, and a per-column failure is reported as a skip instead of
// aborting the pass.
package cleaning

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"edanalyzer/adapters/ingest"
	"edanalyzer/domain/analysis"
	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
	"edanalyzer/internal/logging"
	"edanalyzer/internal/profiling"
)

// Report action keys, in the order steps run
const (
	ActionDuplicates      = "duplicates"
	ActionDroppedColumns  = "dropped_columns"
	ActionMissingValues   = "missing_values"
	ActionOutliers        = "outliers"
	ActionTypeConversions = "type_conversions"
)

// Engine transforms an original dataset into a cleaned one, recording every
// transformation in a CleaningReport.
type Engine struct {
	cfg config.CleaningConfig
	log *logging.Logger
}

// NewEngine creates a cleaning engine with the given thresholds
func NewEngine(cfg config.CleaningConfig) *Engine {
	return &Engine{cfg: cfg, log: logging.New("Cleaning")}
}

// Clean runs every cleaning step in order and returns the cleaned dataset
// plus the report. The input dataset is never mutated. Strategy may be nil.
func (e *Engine) Clean(original *tabular.Dataset, strategy *Strategy) (*tabular.Dataset, *analysis.CleaningReport) {
	report := &analysis.CleaningReport{}
	ds := original.Clone()

	ds = e.dropDuplicateRows(ds, report)
	ds = e.dropSparseColumns(ds, strategy, report)
	e.imputeMissing(ds, strategy, report)
	e.handleOutliers(ds, strategy, report)
	e.normalizeTypes(ds, strategy, report)

	if strategy != nil && len(strategy.GeneralRecommendations) > 0 {
		report.Add("recommendations", strings.Join(strategy.GeneralRecommendations, "; "))
	}
	return ds, report
}

// dropDuplicateRows removes exact-duplicate rows, keeping first occurrences
func (e *Engine) dropDuplicateRows(ds *tabular.Dataset, report *analysis.CleaningReport) *tabular.Dataset {
	rows := ds.RowCount()
	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)

	for i := 0; i < rows; i++ {
		parts := make([]string, len(ds.Columns))
		for j := range ds.Columns {
			parts[j] = ds.Columns[j].Values[i].String()
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	removed := rows - len(keep)
	if removed == 0 {
		report.Add(ActionDuplicates, analysis.OutcomeNoneFound)
		return ds
	}
	report.Add(ActionDuplicates, fmt.Sprintf("removed %d duplicate rows", removed))
	e.log.Infof("removed %d duplicate rows", removed)
	return ds.SelectRows(keep)
}

// dropSparseColumns drops columns whose missing fraction exceeds the
// threshold, plus any column the strategy explicitly advises dropping
func (e *Engine) dropSparseColumns(ds *tabular.Dataset, strategy *Strategy, report *analysis.CleaningReport) *tabular.Dataset {
	var dropped []string
	for _, name := range ds.ColumnNames() {
		col, _ := ds.Column(name)
		advice, advised := strategy.missingAdvice(name)
		switch {
		case col.MissingRate() > e.cfg.MissingDropThreshold:
			dropped = append(dropped, fmt.Sprintf("%s (%.0f%% missing)", name, col.MissingRate()*100))
			ds = ds.DropColumn(name)
		case advised && advice.Action == ActionDropColumn && col.MissingCount() > 0:
			dropped = append(dropped, fmt.Sprintf("%s (advised: %s)", name, advice.Reasoning))
			ds = ds.DropColumn(name)
		}
	}

	if len(dropped) == 0 {
		report.Add(ActionDroppedColumns, analysis.OutcomeNoneFound)
		return ds
	}
	report.Add(ActionDroppedColumns, "dropped "+strings.Join(dropped, "; "))
	e.log.Infof("dropped %d sparse columns", len(dropped))
	return ds
}

// imputeMissing fills remaining missing values per column: median for
// numeric columns, mode (or "Unknown") for categorical ones. Strategy advice
// can pick a different fill per column.
func (e *Engine) imputeMissing(ds *tabular.Dataset, strategy *Strategy, report *analysis.CleaningReport) {
	var details []string
	for i := range ds.Columns {
		col := &ds.Columns[i]
		missing := col.MissingCount()
		if missing == 0 {
			continue
		}
		detail := e.imputeColumn(col, missing, strategy)
		if detail != "" {
			details = append(details, detail)
		}
	}

	if len(details) == 0 {
		report.Add(ActionMissingValues, analysis.OutcomeNoneFound)
		return
	}
	report.Add(ActionMissingValues, strings.Join(details, "; "))
}

// imputeColumn fills one column and returns its report detail
func (e *Engine) imputeColumn(col *tabular.Column, missing int, strategy *Strategy) string {
	advice, advised := strategy.missingAdvice(col.Name)

	if advised {
		switch advice.Action {
		case ActionLeaveEmpty:
			return fmt.Sprintf("%s: left %d missing values as-is (advised)", col.Name, missing)
		case ActionDropColumn:
			// Handled during the sparse-column step
			return ""
		case ActionFillMean:
			if col.Type == tabular.TypeNumeric {
				values := col.NumericValues()
				if len(values) == 0 {
					return fmt.Sprintf("%s: skipped: no observed values to impute from", col.Name)
				}
				mean, _ := stats.Mean(values)
				fillNumeric(col, mean)
				return fmt.Sprintf("%s: filled %d missing values with mean (%.2f)", col.Name, missing, mean)
			}
		case ActionCustom:
			if advice.CustomValue != "" && col.Type != tabular.TypeNumeric && col.Type != tabular.TypeDatetime {
				fillValue(col, tabular.NewStringValue(advice.CustomValue))
				return fmt.Sprintf("%s: filled %d missing values with %q", col.Name, missing, advice.CustomValue)
			}
		}
		// Unusable advice falls through to the defaults
	}

	switch col.Type {
	case tabular.TypeNumeric:
		values := col.NumericValues()
		if len(values) == 0 {
			return fmt.Sprintf("%s: skipped: no observed values to impute from", col.Name)
		}
		median, err := stats.Median(values)
		if err != nil {
			return fmt.Sprintf("%s: skipped: %v", col.Name, err)
		}
		fillNumeric(col, median)
		return fmt.Sprintf("%s: filled %d missing values with median (%.2f)", col.Name, missing, median)

	case tabular.TypeDatetime:
		mode, count := profiling.Mode(col)
		if count < 2 {
			return fmt.Sprintf("%s: skipped: no dominant timestamp to impute with", col.Name)
		}
		fillValue(col, mode)
		return fmt.Sprintf("%s: filled %d missing values with most frequent timestamp (%s)", col.Name, missing, mode.String())

	case tabular.TypeBoolean:
		mode, count := profiling.Mode(col)
		if count == 0 {
			return fmt.Sprintf("%s: skipped: no observed values to impute from", col.Name)
		}
		fillValue(col, mode)
		return fmt.Sprintf("%s: filled %d missing values with mode (%s)", col.Name, missing, mode.String())

	default:
		mode, count := profiling.Mode(col)
		if count < 2 {
			fillValue(col, tabular.NewStringValue("Unknown"))
			return fmt.Sprintf("%s: filled %d missing values with \"Unknown\" (no dominant value)", col.Name, missing)
		}
		fillValue(col, mode)
		return fmt.Sprintf("%s: filled %d missing values with mode (%s)", col.Name, missing, mode.String())
	}
}

// handleOutliers treats numeric outliers using the IQR rule. The default
// caps values to the nearest bound so row count is preserved; advice may
// keep them or remove the offending rows instead.
func (e *Engine) handleOutliers(ds *tabular.Dataset, strategy *Strategy, report *analysis.CleaningReport) {
	var details []string
	var removeRows map[int]struct{}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		if col.Type != tabular.TypeNumeric {
			continue
		}
		values := col.NumericValues()
		if len(values) == 0 {
			continue
		}

		q1, q3 := profiling.Quartiles(values)
		iqr := q3 - q1
		lower := q1 - e.cfg.OutlierIQRFactor*iqr
		upper := q3 + e.cfg.OutlierIQRFactor*iqr

		advice, advised := strategy.outlierAdvice(col.Name)
		action := OutlierCap
		if advised && (advice.Action == OutlierKeep || advice.Action == OutlierRemove) {
			action = advice.Action
		}

		affected := 0
		for j := range col.Values {
			v := col.Values[j]
			if !v.IsNumeric() {
				continue
			}
			x := *v.NumericVal
			if x >= lower && x <= upper {
				continue
			}
			affected++
			switch action {
			case OutlierKeep:
				// counted but untouched
			case OutlierRemove:
				if removeRows == nil {
					removeRows = make(map[int]struct{})
				}
				removeRows[j] = struct{}{}
			default:
				capped := lower
				if x > upper {
					capped = upper
				}
				col.Values[j] = tabular.NewNumericValue(capped)
			}
		}

		if affected > 0 {
			switch action {
			case OutlierKeep:
				details = append(details, fmt.Sprintf("%s: kept %d outliers (advised)", col.Name, affected))
			case OutlierRemove:
				details = append(details, fmt.Sprintf("%s: removed %d outlier rows (advised)", col.Name, affected))
			default:
				details = append(details, fmt.Sprintf("%s: capped %d outliers to [%.2f, %.2f]", col.Name, affected, lower, upper))
			}
		}
	}

	if len(removeRows) > 0 {
		keep := make([]int, 0, ds.RowCount())
		for i := 0; i < ds.RowCount(); i++ {
			if _, drop := removeRows[i]; !drop {
				keep = append(keep, i)
			}
		}
		*ds = *ds.SelectRows(keep)
	}

	if len(details) == 0 {
		report.Add(ActionOutliers, analysis.OutcomeNoneFound)
		return
	}
	report.Add(ActionOutliers, strings.Join(details, "; "))
}

// normalizeTypes converts text columns that are numeric in disguise. A
// column converts when at least CoercionSuccessRate of its values parse;
// stragglers are replaced with the median of the parsed values so the
// cleaned dataset never reintroduces missing cells.
func (e *Engine) normalizeTypes(ds *tabular.Dataset, strategy *Strategy, report *analysis.CleaningReport) {
	var details []string
	for i := range ds.Columns {
		col := &ds.Columns[i]
		if col.Type != tabular.TypeCategorical && col.Type != tabular.TypeText {
			continue
		}

		target := tabular.TypeNumeric
		if advice, advised := strategy.conversionAdvice(col.Name); advised {
			switch advice.TargetType {
			case "datetime":
				target = tabular.TypeDatetime
			case "categorical":
				if col.Type == tabular.TypeText {
					col.Type = tabular.TypeCategorical
					details = append(details, fmt.Sprintf("%s: converted to categorical (advised)", col.Name))
				}
				continue
			}
		}

		detail := e.coerceColumn(col, target)
		if detail != "" {
			details = append(details, detail)
		}
	}

	if len(details) == 0 {
		report.Add(ActionTypeConversions, analysis.OutcomeNoneFound)
		return
	}
	report.Add(ActionTypeConversions, strings.Join(details, "; "))
}

// coerceColumn converts a string column to the target type when enough of
// its values parse cleanly
func (e *Engine) coerceColumn(col *tabular.Column, target tabular.ColumnType) string {
	total := 0
	parsedNumeric := make([]float64, 0, len(col.Values))
	converted := make([]tabular.Value, len(col.Values))
	failed := make([]int, 0)

	for j, v := range col.Values {
		if v.IsMissing || v.StringVal == nil {
			converted[j] = v
			continue
		}
		total++
		switch target {
		case tabular.TypeNumeric:
			if n, ok := ingest.ParseNumeric(*v.StringVal); ok {
				parsedNumeric = append(parsedNumeric, n)
				converted[j] = tabular.NewNumericValue(n)
			} else {
				failed = append(failed, j)
			}
		case tabular.TypeDatetime:
			if t, ok := ingest.ParseTimestamp(*v.StringVal); ok {
				converted[j] = tabular.NewTimestampValue(t)
			} else {
				failed = append(failed, j)
			}
		}
	}

	if total == 0 {
		return ""
	}
	successRate := float64(total-len(failed)) / float64(total)
	if successRate < e.cfg.CoercionSuccessRate || successRate == 0 {
		return ""
	}

	if target == tabular.TypeNumeric {
		median, err := stats.Median(parsedNumeric)
		if err != nil {
			return fmt.Sprintf("%s: skipped: %v", col.Name, err)
		}
		for _, j := range failed {
			converted[j] = tabular.NewNumericValue(median)
		}
		col.Type = tabular.TypeNumeric
		col.Values = converted
		return fmt.Sprintf("%s: converted to numeric (%.0f%% of values parsed)", col.Name, successRate*100)
	}

	// Datetime conversions only apply cleanly parseable cells; the rest stay
	// as their original strings, so a partial conversion is rejected.
	if len(failed) > 0 {
		return fmt.Sprintf("%s: skipped: %d values did not parse as datetime", col.Name, len(failed))
	}
	col.Type = tabular.TypeDatetime
	col.Values = converted
	return fmt.Sprintf("%s: converted to datetime", col.Name)
}

func fillNumeric(col *tabular.Column, fill float64) {
	for j := range col.Values {
		if col.Values[j].IsMissing {
			col.Values[j] = tabular.NewNumericValue(fill)
		}
	}
}

func fillValue(col *tabular.Column, fill tabular.Value) {
	for j := range col.Values {
		if col.Values[j].IsMissing {
			col.Values[j] = fill
		}
	}
}

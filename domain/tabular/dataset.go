// Package tabular holds the in-memory dataset model shared by the whole
// analysis pipeline. Columns carry an explicit semantic type tag with typed
// cell storage, so downstream stages never do per-cell type sniffing.
package tabular

import (
	"encoding/json"
	"fmt"
)

// ColumnType is the inferred semantic type of a column
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
	TypeText        ColumnType = "text"
)

// Column is a named, typed sequence of cell values
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []Value    `json:"values"`
}

// MissingCount returns the number of missing cells in the column
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing {
			n++
		}
	}
	return n
}

// MissingRate returns the fraction of missing cells, 0 for empty columns
func (c *Column) MissingRate() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(len(c.Values))
}

// Cardinality returns the number of distinct non-missing values
func (c *Column) Cardinality() int {
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if v.IsMissing {
			continue
		}
		seen[v.String()] = struct{}{}
	}
	return len(seen)
}

// NumericValues returns all non-missing numeric cell values in row order
func (c *Column) NumericValues() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsNumeric() {
			out = append(out, *v.NumericVal)
		}
	}
	return out
}

// Clone returns a deep copy of the column
func (c *Column) Clone() Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return Column{Name: c.Name, Type: c.Type, Values: values}
}

// Shape is a (rows, columns) pair serialized as a two-element array to match
// the wire contract of the analyze endpoint.
type Shape struct {
	Rows int
	Cols int
}

// MarshalJSON encodes the shape as [rows, cols]
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Rows, s.Cols})
}

// UnmarshalJSON decodes a [rows, cols] array
func (s *Shape) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	s.Rows, s.Cols = pair[0], pair[1]
	return nil
}

// Dataset is an ordered sequence of equally sized columns
type Dataset struct {
	Columns []Column
}

// NewDataset builds a dataset and validates the uniform row count invariant
func NewDataset(columns []Column) (*Dataset, error) {
	if len(columns) > 1 {
		rows := len(columns[0].Values)
		for _, col := range columns[1:] {
			if len(col.Values) != rows {
				return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
			}
		}
	}
	return &Dataset{Columns: columns}, nil
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// Shape returns the (rows, columns) shape
func (d *Dataset) Shape() Shape {
	return Shape{Rows: d.RowCount(), Cols: d.ColumnCount()}
}

// Column finds a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnsOfType returns all columns with the given semantic type, in order
func (d *Dataset) ColumnsOfType(t ColumnType) []Column {
	var out []Column
	for _, c := range d.Columns {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// NumericColumns returns numeric columns in order
func (d *Dataset) NumericColumns() []Column {
	return d.ColumnsOfType(TypeNumeric)
}

// CategoricalColumns returns categorical and text columns in order. Text
// columns participate in frequency analysis the same way categoricals do.
func (d *Dataset) CategoricalColumns() []Column {
	var out []Column
	for _, c := range d.Columns {
		if c.Type == TypeCategorical || c.Type == TypeText {
			out = append(out, c)
		}
	}
	return out
}

// MissingCellCount returns the total number of missing cells in the dataset
func (d *Dataset) MissingCellCount() int {
	total := 0
	for i := range d.Columns {
		total += d.Columns[i].MissingCount()
	}
	return total
}

// Row returns the values of row i across all columns
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.Columns))
	for j := range d.Columns {
		row[j] = d.Columns[j].Values[i]
	}
	return row
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() *Dataset {
	columns := make([]Column, len(d.Columns))
	for i := range d.Columns {
		columns[i] = d.Columns[i].Clone()
	}
	return &Dataset{Columns: columns}
}

// SelectRows returns a new dataset containing only the rows whose indices
// are in keep, preserving order
func (d *Dataset) SelectRows(keep []int) *Dataset {
	columns := make([]Column, len(d.Columns))
	for i := range d.Columns {
		values := make([]Value, 0, len(keep))
		for _, idx := range keep {
			values = append(values, d.Columns[i].Values[idx])
		}
		columns[i] = Column{Name: d.Columns[i].Name, Type: d.Columns[i].Type, Values: values}
	}
	return &Dataset{Columns: columns}
}

// DropColumn returns a new dataset without the named column
func (d *Dataset) DropColumn(name string) *Dataset {
	columns := make([]Column, 0, len(d.Columns))
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			continue
		}
		columns = append(columns, d.Columns[i])
	}
	return &Dataset{Columns: columns}
}

package tabular

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDataset_RowCountInvariant(t *testing.T) {
	_, err := NewDataset([]Column{
		{Name: "a", Type: TypeNumeric, Values: []Value{NewNumericValue(1), NewNumericValue(2)}},
		{Name: "b", Type: TypeNumeric, Values: []Value{NewNumericValue(1)}},
	})
	if err == nil {
		t.Fatal("expected error for ragged columns")
	}
}

func TestShape_JSONRoundtrip(t *testing.T) {
	data, err := json.Marshal(Shape{Rows: 950, Cols: 9})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[950,9]" {
		t.Errorf("shape encoded as %s, want [950,9]", data)
	}

	var s Shape
	if err := json.Unmarshal([]byte("[7,3]"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Rows != 7 || s.Cols != 3 {
		t.Errorf("got %+v, want {7 3}", s)
	}
}

func TestValue_Constructors(t *testing.T) {
	if v := NewStringValue(""); !v.IsMissing {
		t.Error("empty string should become a missing value")
	}
	if v := NewStringValue("x"); v.IsMissing || *v.StringVal != "x" {
		t.Errorf("unexpected string value: %+v", v)
	}
	if v := NewNumericValue(3.5); !v.IsNumeric() || v.AsFloat64() != 3.5 {
		t.Errorf("unexpected numeric value: %+v", v)
	}
	if v := NewMissingValue(); v.String() != "<missing>" || v.Display() != "" {
		t.Errorf("unexpected missing value forms: %q / %q", v.String(), v.Display())
	}
}

func TestValue_StringIsDeterministic(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		value Value
		want  string
	}{
		{NewNumericValue(1.5), "1.5"},
		{NewNumericValue(100), "100"},
		{NewBooleanValue(true), "true"},
		{NewTimestampValue(ts), "2024-03-01T12:00:00Z"},
		{NewStringValue("hello"), "hello"},
	}
	for _, c := range cases {
		if got := c.value.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestColumn_MissingAndCardinality(t *testing.T) {
	col := Column{Name: "c", Type: TypeCategorical, Values: []Value{
		NewStringValue("a"), NewStringValue("b"), NewStringValue("a"), NewMissingValue(),
	}}
	if got := col.MissingCount(); got != 1 {
		t.Errorf("MissingCount = %d, want 1", got)
	}
	if got := col.MissingRate(); got != 0.25 {
		t.Errorf("MissingRate = %f, want 0.25", got)
	}
	if got := col.Cardinality(); got != 2 {
		t.Errorf("Cardinality = %d, want 2", got)
	}
}

func TestDataset_SelectRowsAndDropColumn(t *testing.T) {
	ds, err := NewDataset([]Column{
		{Name: "id", Type: TypeNumeric, Values: []Value{NewNumericValue(1), NewNumericValue(2), NewNumericValue(3)}},
		{Name: "label", Type: TypeCategorical, Values: []Value{NewStringValue("x"), NewStringValue("y"), NewStringValue("z")}},
	})
	if err != nil {
		t.Fatal(err)
	}

	subset := ds.SelectRows([]int{0, 2})
	if subset.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", subset.RowCount())
	}
	if got := subset.Columns[1].Values[1].String(); got != "z" {
		t.Errorf("row 1 label = %q, want z", got)
	}
	// the source dataset is untouched
	if ds.RowCount() != 3 {
		t.Errorf("source dataset mutated, RowCount = %d", ds.RowCount())
	}

	dropped := ds.DropColumn("label")
	if dropped.ColumnCount() != 1 || dropped.Columns[0].Name != "id" {
		t.Errorf("unexpected columns after drop: %v", dropped.ColumnNames())
	}
}

func TestDataset_CloneIsDeep(t *testing.T) {
	ds, _ := NewDataset([]Column{
		{Name: "n", Type: TypeNumeric, Values: []Value{NewNumericValue(1)}},
	})
	clone := ds.Clone()
	clone.Columns[0].Values[0] = NewNumericValue(99)
	if ds.Columns[0].Values[0].AsFloat64() != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestCategoricalColumns_IncludesText(t *testing.T) {
	ds, _ := NewDataset([]Column{
		{Name: "cat", Type: TypeCategorical, Values: []Value{NewStringValue("a")}},
		{Name: "txt", Type: TypeText, Values: []Value{NewStringValue("free text")}},
		{Name: "num", Type: TypeNumeric, Values: []Value{NewNumericValue(1)}},
	})
	got := ds.CategoricalColumns()
	if len(got) != 2 || got[0].Name != "cat" || got[1].Name != "txt" {
		t.Errorf("unexpected categorical columns: %v", got)
	}
}

// Package ingest parses raw CSV and Excel buffers into typed datasets.
// Parsing has no side effects beyond reading the supplied buffer.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"edanalyzer/domain/tabular"
	"edanalyzer/internal/config"
	"edanalyzer/internal/errors"
	"edanalyzer/internal/logging"
)

// Format identifies the declared or inferred file format
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// FormatFromFilename infers the format from a filename extension
func FormatFromFilename(name string) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return FormatXLSX
	case strings.HasSuffix(lower, ".xls"):
		return FormatXLS
	}
	return FormatAuto
}

// Reader parses raw file buffers into datasets
type Reader struct {
	coercer *Coercer
	log     *logging.Logger
}

// NewReader creates a reader with the given inference thresholds
func NewReader(cfg config.IngestConfig) *Reader {
	return &Reader{
		coercer: NewCoercer(cfg),
		log:     logging.New("Ingest"),
	}
}

// Parse converts a raw buffer into a typed dataset. Unreadable input fails
// with an ingestion error; a parsed table with no rows or no columns fails
// with an empty-dataset error. Both abort the pipeline.
func (r *Reader) Parse(data []byte, format Format) (*tabular.Dataset, error) {
	if len(data) == 0 {
		return nil, errors.IngestionError("empty file buffer")
	}

	if format == FormatAuto {
		format = sniffFormat(data)
	}

	var rows [][]string
	var err error
	switch format {
	case FormatCSV:
		rows, err = readCSV(data)
	case FormatXLSX, FormatXLS:
		rows, err = readExcel(data)
	default:
		return nil, errors.IngestionError(fmt.Sprintf("unsupported file format %q", format))
	}
	if err != nil {
		return nil, err
	}

	ds, err := r.buildDataset(rows)
	if err != nil {
		return nil, err
	}

	shape := ds.Shape()
	r.log.Infof("parsed %s buffer into %d rows x %d columns", format, shape.Rows, shape.Cols)
	return ds, nil
}

// sniffFormat detects xlsx buffers by their zip magic; everything else is
// treated as CSV text.
func sniffFormat(data []byte) Format {
	if len(data) >= 4 && bytes.Equal(data[:4], []byte{0x50, 0x4b, 0x03, 0x04}) {
		return FormatXLSX
	}
	return FormatCSV
}

// readCSV parses CSV bytes with a delimiter fallback: comma first, then
// semicolon and tab when the header suggests them.
func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf}) // UTF-8 BOM

	rows, err := parseCSVWith(data, ',')
	if err == nil && len(rows) > 0 && len(rows[0]) == 1 {
		// Single-column result usually means the wrong delimiter
		header := rows[0][0]
		for _, alt := range []rune{';', '\t'} {
			if strings.ContainsRune(header, alt) {
				if altRows, altErr := parseCSVWith(data, alt); altErr == nil {
					return altRows, nil
				}
			}
		}
	}
	if err != nil {
		return nil, errors.Wrap(errors.IngestionError("failed to parse CSV"), err.Error())
	}
	return rows, nil
}

func parseCSVWith(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// readExcel parses the first sheet of an xlsx buffer
func readExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.IngestionError("failed to open Excel buffer"), err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.IngestionError("Excel workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.IngestionError(fmt.Sprintf("failed to read sheet %q", sheets[0])), err.Error())
	}
	return rows, nil
}

// buildDataset turns raw string rows into typed columns: normalized headers,
// per-column inferred types, coerced cell values.
func (r *Reader) buildDataset(rows [][]string) (*tabular.Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.EmptyDataset("file contains no rows")
	}

	headers := NormalizeHeaders(rows[0])
	if len(headers) == 0 {
		return nil, errors.EmptyDataset("file contains no columns")
	}
	dataRows := rows[1:]
	if len(dataRows) == 0 {
		return nil, errors.EmptyDataset("file contains a header but no data rows")
	}

	columns := make([]tabular.Column, len(headers))
	for j, name := range headers {
		raw := make([]string, len(dataRows))
		for i, row := range dataRows {
			if j < len(row) {
				raw[i] = row[j]
			}
		}

		counts := r.coercer.Analyze(raw)
		colType := r.coercer.InferType(counts)

		values := make([]tabular.Value, len(raw))
		for i, cell := range raw {
			values[i] = r.coercer.Coerce(cell, colType)
		}
		columns[j] = tabular.Column{Name: name, Type: colType, Values: values}
	}

	return tabular.NewDataset(columns)
}

// NormalizeHeaders trims whitespace, names blank headers and resolves
// duplicates deterministically by numeric suffixing.
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, 0, len(raw))
	taken := make(map[string]struct{}, len(raw))

	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for suffix := 2; ; suffix++ {
			if _, dup := taken[name]; !dup {
				break
			}
			name = fmt.Sprintf("%s_%d", base, suffix)
		}
		taken[name] = struct{}{}
		headers = append(headers, name)
	}
	return headers
}

// Package parser turns uploaded CSV and spreadsheet files into a header row
// plus an ordered sequence of string-keyed records, ready for column mapping.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wasely/courier-admin/internal/domain/orderimport/sniffer"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type: expected .csv, .xlsx or .xls")
	ErrNoRows          = errors.New("file contains no rows")
	ErrEmptyWorkbook   = errors.New("workbook contains no sheets")
)

// RawRecord holds one physical row keyed by the file's original headers.
type RawRecord map[string]string

// Table is the parsed form of an uploaded file. Headers preserves the file's
// column order; every record carries the same key set.
type Table struct {
	Headers []string
	Records []RawRecord
}

// ParseFile dispatches on the file extension. Any failure here is fatal for
// the whole import; no partial results are produced.
//
// .xls is dispatched on content, not extension alone: plenty of files named
// .xls in the wild are really zip-based workbooks saved under the old
// extension, and those open fine with the .xlsx reader.
func ParseFile(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(data)
	case ".xlsx":
		return ParseWorkbook(data)
	case ".xls":
		if isZipContainer(data) {
			return ParseWorkbook(data)
		}
		return ParseLegacyWorkbook(data)
	default:
		return nil, ErrUnsupportedFile
	}
}

// ParseCSV decodes the buffer with the detected encoding and reads it as
// delimited text, first row as headers. Blank lines are skipped.
func ParseCSV(data []byte) (*Table, error) {
	text, err := sniffer.DecodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if isBlank(record) {
			continue
		}
		table.Records = append(table.Records, makeRecord(headers, record))
	}
	return table, nil
}

func makeRecord(headers []string, cells []string) RawRecord {
	rec := make(RawRecord, len(headers))
	for i, h := range headers {
		if i < len(cells) {
			rec[h] = cells[i]
		} else {
			rec[h] = ""
		}
	}
	return rec
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

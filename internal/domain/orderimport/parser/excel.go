package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Container magic numbers: zip for .xlsx-family workbooks, OLE compound file
// for legacy BIFF .xls.
var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func isZipContainer(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// phoneHeaderHints identify columns whose numeric cells need the leading zero
// restored. Egyptian local numbers are 11 digits starting with 0, and
// spreadsheet auto-numeric conversion strips that zero.
var phoneHeaderHints = []string{"phone", "mobile", "هاتف", "موبايل", "تليفون", "جوال"}

// ParseWorkbook reads the first sheet of a zip-based (.xlsx family) workbook.
// Cells are read with their raw stored values so numeric phone columns can be
// special-cased before stringification.
func ParseWorkbook(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	phoneCols := make(map[int]bool, len(headers))
	for i, h := range headers {
		if isPhoneHeader(h) {
			phoneCols[i] = true
		}
	}

	table := &Table{Headers: headers}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(headers))
		for i := range headers {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if phoneCols[i] {
				v = restoreLeadingZero(v)
			}
			cells[i] = v
		}
		table.Records = append(table.Records, makeRecord(headers, cells))
	}
	return table, nil
}

// ParseLegacyWorkbook reads the first sheet of a BIFF-format .xls workbook.
// Same contract as ParseWorkbook, including the phone-column leading-zero
// restore.
func ParseLegacyWorkbook(data []byte) (*Table, error) {
	if !bytes.HasPrefix(data, oleMagic) {
		return nil, fmt.Errorf("failed to open legacy workbook: not an OLE compound file")
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyWorkbook
	}

	headerRow := sheet.Row(0)
	if headerRow == nil {
		return nil, ErrNoRows
	}
	headers := make([]string, headerRow.LastCol())
	for i := range headers {
		headers[i] = strings.TrimSpace(headerRow.Col(i))
	}

	phoneCols := make(map[int]bool, len(headers))
	for i, h := range headers {
		if isPhoneHeader(h) {
			phoneCols[i] = true
		}
	}

	table := &Table{Headers: headers}
	for r := 1; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			continue
		}
		cells := make([]string, len(headers))
		for i := range headers {
			v := strings.TrimSpace(row.Col(i))
			if phoneCols[i] {
				v = restoreLeadingZero(v)
			}
			cells[i] = v
		}
		if isBlank(cells) {
			continue
		}
		table.Records = append(table.Records, makeRecord(headers, cells))
	}
	return table, nil
}

func isPhoneHeader(header string) bool {
	h := strings.ToLower(header)
	for _, hint := range phoneHeaderHints {
		if strings.Contains(h, hint) {
			return true
		}
	}
	return false
}

// restoreLeadingZero re-prefixes the zero Excel dropped from a numeric phone
// cell: exactly 10 digits not starting with 0 becomes an 11-digit local
// number. Anything else passes through untouched.
func restoreLeadingZero(v string) string {
	if len(v) != 10 || v[0] == '0' {
		return v
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return v
		}
	}
	return "0" + v
}

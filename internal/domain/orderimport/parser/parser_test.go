package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wasely/courier-admin/internal/domain/orderimport/sniffer"
)

func TestParseFile(t *testing.T) {
	t.Run("rejects unsupported extensions", func(t *testing.T) {
		_, err := ParseFile("orders.pdf", []byte("whatever"))
		assert.ErrorIs(t, err, ErrUnsupportedFile)
	})

	t.Run("dispatches csv by extension", func(t *testing.T) {
		table, err := ParseFile("Orders.CSV", []byte("name,qty\nAhmed,2"))
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "qty"}, table.Headers)
	})

	t.Run("xls named file with zip content opens as a modern workbook", func(t *testing.T) {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		headers := []interface{}{"Customer Name", "Quantity"}
		require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
		row := []interface{}{"Ahmed", 2}
		require.NoError(t, f.SetSheetRow(sheet, "A2", &row))
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		table, err := ParseFile("orders.xls", buf.Bytes())
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "Ahmed", table.Records[0]["Customer Name"])
	})

	t.Run("xls named file without a workbook container is a clear error", func(t *testing.T) {
		_, err := ParseFile("orders.xls", []byte("name,qty\nAhmed,2"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "legacy workbook")
	})
}

func TestParseCSV(t *testing.T) {
	t.Run("first row becomes headers", func(t *testing.T) {
		table, err := ParseCSV([]byte("name,mobile,qty\nAhmed,01012345678,2\nMona,01198765432,1"))
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "mobile", "qty"}, table.Headers)
		require.Len(t, table.Records, 2)
		assert.Equal(t, "Ahmed", table.Records[0]["name"])
		assert.Equal(t, "01198765432", table.Records[1]["mobile"])
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		table, err := ParseCSV([]byte("name,qty\nAhmed,2\n\n,,\nMona,1\n"))
		require.NoError(t, err)
		require.Len(t, table.Records, 2)
	})

	t.Run("short rows are padded to the header set", func(t *testing.T) {
		table, err := ParseCSV([]byte("name,mobile,notes\nAhmed,01012345678"))
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "", table.Records[0]["notes"])
	})

	t.Run("windows-1256 content decodes to Arabic", func(t *testing.T) {
		// header "name,city" then a row with القاهرة in Windows-1256
		data := append([]byte("name,city\nAhmed,"), 0xC7, 0xE1, 0xDE, 0xC7, 0xE5, 0xD1, 0xC9)
		table, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "القاهرة", table.Records[0]["city"])
	})

	t.Run("empty buffer is fatal", func(t *testing.T) {
		_, err := ParseCSV(nil)
		assert.Error(t, err)
	})

	t.Run("header-only file yields no records", func(t *testing.T) {
		table, err := ParseCSV([]byte("name,qty\n"))
		require.NoError(t, err)
		assert.Empty(t, table.Records)
	})
}

func TestParseWorkbook(t *testing.T) {
	build := func(t *testing.T, headers []interface{}, rows ...[]interface{}) []byte {
		t.Helper()
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return buf.Bytes()
	}

	t.Run("reads first sheet into records", func(t *testing.T) {
		data := build(t,
			[]interface{}{"Customer Name", "Quantity"},
			[]interface{}{"Ahmed", 2},
		)
		table, err := ParseWorkbook(data)
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "Ahmed", table.Records[0]["Customer Name"])
		assert.Equal(t, "2", table.Records[0]["Quantity"])
	})

	t.Run("restores stripped leading zero on phone columns", func(t *testing.T) {
		data := build(t,
			[]interface{}{"Customer Name", "Mobile"},
			[]interface{}{"Ahmed", 1012345678},
		)
		table, err := ParseWorkbook(data)
		require.NoError(t, err)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "01012345678", table.Records[0]["Mobile"])
	})

	t.Run("leaves non-phone numeric columns alone", func(t *testing.T) {
		data := build(t,
			[]interface{}{"Customer Name", "Order Total"},
			[]interface{}{"Ahmed", 1012345678},
		)
		table, err := ParseWorkbook(data)
		require.NoError(t, err)
		assert.Equal(t, "1012345678", table.Records[0]["Order Total"])
	})

	t.Run("arabic phone headers are recognized", func(t *testing.T) {
		data := build(t,
			[]interface{}{"الاسم", "رقم الموبايل"},
			[]interface{}{"أحمد", 1012345678},
		)
		table, err := ParseWorkbook(data)
		require.NoError(t, err)
		assert.Equal(t, "01012345678", table.Records[0]["رقم الموبايل"])
	})

	t.Run("garbage bytes are a fatal error", func(t *testing.T) {
		_, err := ParseWorkbook([]byte("not a zip archive"))
		assert.Error(t, err)
	})
}

func TestRestoreLeadingZero(t *testing.T) {
	cases := map[string]string{
		"1012345678":  "01012345678", // 10 digits, zero stripped
		"01012345678": "01012345678", // already 11 digits
		"0101234567":  "0101234567",  // starts with zero, leave it
		"12345":       "12345",       // too short
		"10123456a8":  "10123456a8",  // not numeric
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, restoreLeadingZero(in), in)
	}
}

func TestTemplates(t *testing.T) {
	t.Run("CSV template is BOM-prefixed and exactly two lines", func(t *testing.T) {
		data, err := TemplateCSV()
		require.NoError(t, err)

		assert.True(t, bytes.HasPrefix(data, sniffer.BOM))

		body := bytes.TrimSuffix(bytes.TrimPrefix(data, sniffer.BOM), []byte("\n"))
		lines := bytes.Split(body, []byte("\n"))
		assert.Len(t, lines, 2)
	})

	t.Run("CSV template round-trips through the parser", func(t *testing.T) {
		data, err := TemplateCSV()
		require.NoError(t, err)

		table, err := ParseCSV(data)
		require.NoError(t, err)
		assert.Equal(t, TemplateHeaders(), table.Headers)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "01012345678", table.Records[0]["Mobile"])
	})

	t.Run("XLSX template round-trips through the parser", func(t *testing.T) {
		data, err := TemplateXLSX()
		require.NoError(t, err)

		table, err := ParseWorkbook(data)
		require.NoError(t, err)
		assert.Equal(t, TemplateHeaders(), table.Headers)
		require.Len(t, table.Records, 1)
		assert.Equal(t, "Ahmed Hassan", table.Records[0]["Customer Name"])
	})
}

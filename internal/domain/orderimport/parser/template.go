package parser

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/wasely/courier-admin/internal/domain/orderimport/sniffer"
)

// templateRow is the downloadable starter file shape. Tags double as the
// header row, which the column mapper recognizes via its synonym table.
type templateRow struct {
	CustomerName  string `csv:"Customer Name"`
	Mobile        string `csv:"Mobile"`
	Address       string `csv:"Address"`
	Governorate   string `csv:"Governorate"`
	City          string `csv:"City"`
	ProductName   string `csv:"Product Name"`
	Quantity      int    `csv:"Quantity"`
	UnitPrice     string `csv:"Unit Price"`
	PaymentMethod string `csv:"Payment Method"`
	Notes         string `csv:"Notes"`
}

func sampleRow() templateRow {
	return templateRow{
		CustomerName:  "Ahmed Hassan",
		Mobile:        "01012345678",
		Address:       "12 El Nasr St, Nasr City",
		Governorate:   "Cairo",
		City:          "Nasr City",
		ProductName:   "Leather wallet",
		Quantity:      2,
		UnitPrice:     "350",
		PaymentMethod: "cash",
		Notes:         "Call before delivery",
	}
}

// TemplateHeaders returns the starter file's column names in order.
func TemplateHeaders() []string {
	return []string{
		"Customer Name", "Mobile", "Address", "Governorate", "City",
		"Product Name", "Quantity", "Unit Price", "Payment Method", "Notes",
	}
}

// TemplateCSV builds the blank starter file: header row plus one sample row,
// prefixed with a UTF-8 BOM so Arabic content round-trips through Excel.
func TemplateCSV() ([]byte, error) {
	body, err := gocsv.MarshalString(&[]templateRow{sampleRow()})
	if err != nil {
		return nil, fmt.Errorf("failed to build CSV template: %w", err)
	}
	var buf bytes.Buffer
	buf.Write(sniffer.BOM)
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// TemplateXLSX builds the workbook variant of the starter file.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := make([]interface{}, 0, len(TemplateHeaders()))
	for _, h := range TemplateHeaders() {
		headers = append(headers, h)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write template headers: %w", err)
	}

	s := sampleRow()
	// Mobile stays a string cell so the leading zero survives a round-trip.
	row := []interface{}{
		s.CustomerName, s.Mobile, s.Address, s.Governorate, s.City,
		s.ProductName, s.Quantity, s.UnitPrice, s.PaymentMethod, s.Notes,
	}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		return nil, fmt.Errorf("failed to write template sample row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

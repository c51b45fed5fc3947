// Package order holds the canonical imported-order row model and the rules
// that turn raw spreadsheet records into validated rows.
package order

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wasely/courier-admin/internal/domain/orderimport/mapper"
)

// ErrorCode is a symbolic, locale-independent validation code. Rendering it
// for humans is the dashboard's translate() concern, never ours.
type ErrorCode string

const (
	CodeNameRequired    ErrorCode = "customer_name_required"
	CodeNameDigitsOnly  ErrorCode = "customer_name_digits_only"
	CodeMobileRequired  ErrorCode = "mobile_required"
	CodeMobileInvalid   ErrorCode = "mobile_invalid"
	CodeAddressRequired ErrorCode = "address_required"
	CodeProductRequired ErrorCode = "product_name_required"
	CodeQuantityInvalid ErrorCode = "quantity_invalid"
	CodePriceInvalid    ErrorCode = "unit_price_invalid"
)

// Row is one order candidate in the preview grid. All ten canonical fields
// are always populated; errors are replaced wholesale by each validation.
type Row struct {
	ID       uuid.UUID `json:"id"`
	OrderRef string    `json:"order_ref,omitempty"`

	CustomerName  string          `json:"customer_name"`
	Mobile        string          `json:"mobile"`
	Address       string          `json:"address"`
	Governorate   string          `json:"governorate"`
	City          string          `json:"city"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`

	GovernorateID *int64 `json:"governorate_id,omitempty"`
	CityID        *int64 `json:"city_id,omitempty"`

	Errors map[mapper.Field]ErrorCode `json:"errors,omitempty"`
}

// NewRow returns a row with every canonical field at its default.
func NewRow() *Row {
	return &Row{
		ID:            uuid.New(),
		Quantity:      1,
		UnitPrice:     decimal.Zero,
		PaymentMethod: "cash",
	}
}

// Set assigns a raw cell value to one of the ten canonical fields. It is the
// only write path the materializer uses, so nothing outside the closed field
// set can ever be a mapping target.
func (r *Row) Set(field mapper.Field, raw string) {
	v := strings.TrimSpace(raw)
	switch field {
	case mapper.FieldCustomerName:
		r.CustomerName = v
	case mapper.FieldMobile:
		r.Mobile = v
	case mapper.FieldAddress:
		r.Address = v
	case mapper.FieldGovernorate:
		r.Governorate = v
	case mapper.FieldCity:
		r.City = v
	case mapper.FieldProductName:
		r.ProductName = v
	case mapper.FieldQuantity:
		r.Quantity = parseQuantity(v)
	case mapper.FieldUnitPrice:
		r.UnitPrice = parsePrice(v)
	case mapper.FieldPaymentMethod:
		r.PaymentMethod = strings.ToLower(v)
	case mapper.FieldNotes:
		r.Notes = v
	}
}

// parseQuantity falls back to 1 on anything unparsable; NaN never enters the
// data model.
func parseQuantity(v string) int {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 1
}

// parsePrice falls back to 0 on anything unparsable.
func parsePrice(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "EGP "))
	if err != nil {
		return decimal.Zero
	}
	return d
}

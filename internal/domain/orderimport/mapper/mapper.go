// Package mapper maps arbitrary, possibly localized source headers onto the
// fixed set of canonical order fields. Matching is exact or synonym-table
// only; an ambiguous header stays unmapped so the dashboard can ask the
// operator instead of guessing.
package mapper

import "strings"

// Field is a canonical order attribute. Every imported column either lands on
// one of these or stays unmapped.
type Field string

const (
	FieldCustomerName  Field = "customer_name"
	FieldMobile        Field = "mobile"
	FieldAddress       Field = "address"
	FieldGovernorate   Field = "governorate"
	FieldCity          Field = "city"
	FieldProductName   Field = "product_name"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unit_price"
	FieldPaymentMethod Field = "payment_method"
	FieldNotes         Field = "notes"
)

// Fields returns the canonical fields in display order.
func Fields() []Field {
	return []Field{
		FieldCustomerName, FieldMobile, FieldAddress,
		FieldGovernorate, FieldCity, FieldProductName,
		FieldQuantity, FieldUnitPrice, FieldPaymentMethod, FieldNotes,
	}
}

// synonyms maps normalized header names to canonical fields, covering the
// hand-built templates (English and Arabic) and Shopify export vocabulary.
var synonyms = map[string]Field{
	// Customer name
	"customer name": FieldCustomerName,
	"customer":      FieldCustomerName,
	"name":          FieldCustomerName,
	"client name":   FieldCustomerName,
	"shipping name": FieldCustomerName,
	"billing name":  FieldCustomerName,
	"اسم العميل":    FieldCustomerName,
	"الاسم":         FieldCustomerName,
	"اسم":           FieldCustomerName,

	// Mobile
	"mobile":          FieldMobile,
	"mobile number":   FieldMobile,
	"phone":           FieldMobile,
	"phone number":    FieldMobile,
	"telephone":       FieldMobile,
	"customer mobile": FieldMobile,
	"shipping phone":  FieldMobile,
	"billing phone":   FieldMobile,
	"رقم الهاتف":      FieldMobile,
	"الهاتف":          FieldMobile,
	"الموبايل":        FieldMobile,
	"رقم الموبايل":    FieldMobile,
	"تليفون":         FieldMobile,

	// Address
	"address":           FieldAddress,
	"customer address":  FieldAddress,
	"shipping address1": FieldAddress,
	"shipping street":   FieldAddress,
	"العنوان":           FieldAddress,
	"عنوان العميل":      FieldAddress,

	// Governorate
	"governorate":            FieldGovernorate,
	"gov":                    FieldGovernorate,
	"state":                  FieldGovernorate,
	"province":               FieldGovernorate,
	"shipping province":      FieldGovernorate,
	"shipping province name": FieldGovernorate,
	"المحافظة":               FieldGovernorate,
	"محافظة":                 FieldGovernorate,

	// City
	"city":          FieldCity,
	"town":          FieldCity,
	"shipping city": FieldCity,
	"المدينة":       FieldCity,
	"مدينة":         FieldCity,

	// Product name
	"product":       FieldProductName,
	"product name":  FieldProductName,
	"item":          FieldProductName,
	"item name":     FieldProductName,
	"lineitem name": FieldProductName,
	"اسم المنتج":    FieldProductName,
	"المنتج":        FieldProductName,

	// Quantity
	"quantity":          FieldQuantity,
	"qty":               FieldQuantity,
	"lineitem quantity": FieldQuantity,
	"الكمية":            FieldQuantity,
	"كمية":              FieldQuantity,
	"عدد":               FieldQuantity,

	// Unit price
	"price":          FieldUnitPrice,
	"unit price":     FieldUnitPrice,
	"lineitem price": FieldUnitPrice,
	"السعر":          FieldUnitPrice,
	"سعر":            FieldUnitPrice,
	"سعر الوحدة":     FieldUnitPrice,

	// Payment method
	"payment":          FieldPaymentMethod,
	"payment method":   FieldPaymentMethod,
	"financial status": FieldPaymentMethod,
	"طريقة الدفع":      FieldPaymentMethod,
	"الدفع":            FieldPaymentMethod,

	// Notes
	"notes":        FieldNotes,
	"note":         FieldNotes,
	"comment":      FieldNotes,
	"comments":     FieldNotes,
	"vendor notes": FieldNotes,
	"ملاحظات":      FieldNotes,
	"ملحوظات":      FieldNotes,
}

var canonical = func() map[string]Field {
	m := make(map[string]Field, len(Fields()))
	for _, f := range Fields() {
		m[string(f)] = f
	}
	return m
}()

// Column pairs a header as written in the file with its mapped field.
// Field is empty for unmapped columns.
type Column struct {
	Header string `json:"header"`
	Field  Field  `json:"field,omitempty"`
}

// Mapping is the header-to-field assignment for one import, computed once and
// reused across every record of the file.
type Mapping struct {
	columns  []Column
	byHeader map[string]Field
}

// MapColumns resolves each header against the canonical field identifiers and
// the synonym table. Comparison is case-insensitive and whitespace-trimmed.
func MapColumns(headers []string) Mapping {
	m := Mapping{
		columns:  make([]Column, 0, len(headers)),
		byHeader: make(map[string]Field, len(headers)),
	}
	for _, h := range headers {
		key := normalizeHeader(h)
		var field Field
		if f, ok := canonical[key]; ok {
			field = f
		} else if f, ok := synonyms[key]; ok {
			field = f
		}
		m.columns = append(m.columns, Column{Header: h, Field: field})
		if field != "" {
			m.byHeader[key] = field
		}
	}
	return m
}

// Columns returns every source header, in file order, with its assignment.
func (m Mapping) Columns() []Column {
	return m.columns
}

// Mapped returns only the columns that resolved to a canonical field,
// preserving file order so duplicate-target handling stays deterministic.
func (m Mapping) Mapped() []Column {
	mapped := make([]Column, 0, len(m.columns))
	for _, c := range m.columns {
		if c.Field != "" {
			mapped = append(mapped, c)
		}
	}
	return mapped
}

// FieldFor looks up the field a header mapped to.
func (m Mapping) FieldFor(header string) (Field, bool) {
	f, ok := m.byHeader[normalizeHeader(header)]
	return f, ok
}

// Unmapped returns the headers that resolved to no canonical field.
func (m Mapping) Unmapped() []string {
	var out []string
	for _, c := range m.columns {
		if c.Field == "" {
			out = append(out, c.Header)
		}
	}
	return out
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

package order

import (
	"strings"

	"github.com/wasely/courier-admin/internal/domain/orderimport/mapper"
	"github.com/wasely/courier-admin/internal/domain/orderimport/parser"
)

// Materialize applies the column mapping to every record, producing canonical
// rows. When several headers map to the same field (Shopify exports carry
// "Billing Phone", "Shipping Phone" and "Phone" at once), the first non-empty
// value in header order wins and later blanks never overwrite it. The rule is
// universal, not Shopify-specific, so duplicate targets stay deterministic
// for any source.
//
// orderRefColumn, when non-empty, names the source column whose value groups
// several rows into one logical order.
func Materialize(t *parser.Table, m mapper.Mapping, orderRefColumn string) []*Row {
	mapped := m.Mapped()
	rows := make([]*Row, 0, len(t.Records))

	for _, rec := range t.Records {
		row := NewRow()
		filled := make(map[mapper.Field]bool, len(mapped))

		for _, col := range mapped {
			// The grouping column is consumed as the order reference below;
			// Shopify's "Name" holds an order number, not a customer name.
			if col.Header == orderRefColumn {
				continue
			}
			raw := strings.TrimSpace(rec[col.Header])
			if raw == "" || filled[col.Field] {
				continue
			}
			row.Set(col.Field, raw)
			filled[col.Field] = true
		}

		if orderRefColumn != "" {
			row.OrderRef = strings.TrimSpace(rec[orderRefColumn])
		}
		rows = append(rows, row)
	}
	return rows
}

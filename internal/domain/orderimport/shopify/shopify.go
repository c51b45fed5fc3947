// Package shopify detects Shopify order exports and reshapes their
// one-row-per-line-item structure into records the column mapper can treat
// like any other file.
package shopify

import (
	"strings"

	"github.com/wasely/courier-admin/internal/domain/orderimport/parser"
)

// OrderRefColumn is Shopify's order identifier column; it groups line items
// back into orders.
const OrderRefColumn = "Name"

const (
	colAddress1        = "Shipping Address1"
	colAddress2        = "Shipping Address2"
	colPaymentMethod   = "Payment Method"
	colFinancialStatus = "Financial Status"
)

// markerHeaders are distinctive enough that two of them together identify a
// Shopify export. A single hit is too weak: generic files coincidentally
// carry headers like "Shipping Name".
var markerHeaders = []string{
	"Lineitem name",
	"Lineitem quantity",
	"Shipping Name",
	"Financial Status",
}

// orderLevelColumns appear only on the first row of each order in a Shopify
// export; every later line-item row leaves them blank.
var orderLevelColumns = []string{
	"Shipping Name", "Billing Name", "Email",
	"Phone", "Shipping Phone", "Billing Phone",
	"Shipping Address1", "Shipping Address2",
	"Shipping City", "Shipping Province", "Shipping Province Name",
	"Shipping Zip", "Shipping Country",
	"Payment Method", "Financial Status", "Notes",
}

// IsExport reports whether the header list looks like a Shopify export:
// at least two marker headers present verbatim.
func IsExport(headers []string) bool {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	hits := 0
	for _, marker := range markerHeaders {
		if present[marker] {
			hits++
		}
	}
	return hits >= 2
}

// Normalize rewrites a Shopify export's records in place: forward-fills
// order-level fields across line-item rows, concatenates the two shipping
// address columns, and normalizes payment gateway vocabulary. Safe to run
// more than once on the same table.
func Normalize(t *parser.Table) {
	forwardFill(t)
	for _, rec := range t.Records {
		concatAddress(rec)
		normalizePayment(rec)
	}
}

// forwardFill walks rows in file order. A row with a non-blank order
// identifier starts a new group and caches its non-blank order-level values;
// each following blank-identifier row inherits the cached values and the
// identifier itself, so grouping survives mapping.
func forwardFill(t *parser.Table) {
	var currentRef string
	group := map[string]string{}

	for _, rec := range t.Records {
		ref := strings.TrimSpace(rec[OrderRefColumn])
		if ref != "" {
			currentRef = ref
			group = make(map[string]string, len(orderLevelColumns))
			for _, col := range orderLevelColumns {
				if v := strings.TrimSpace(rec[col]); v != "" {
					group[col] = v
				}
			}
			continue
		}
		if currentRef == "" {
			continue
		}
		rec[OrderRefColumn] = currentRef
		for col, v := range group {
			if strings.TrimSpace(rec[col]) == "" {
				rec[col] = v
			}
		}
	}
}

func concatAddress(rec parser.RawRecord) {
	a1 := strings.TrimSpace(rec[colAddress1])
	a2 := strings.TrimSpace(rec[colAddress2])
	if a1 == "" || a2 == "" {
		return
	}
	// Guard keeps a second Normalize pass from appending the suffix again.
	if strings.HasSuffix(a1, ", "+a2) {
		return
	}
	rec[colAddress1] = a1 + ", " + a2
}

// cardTokens are the gateway names Shopify reports for card-like payments.
var cardTokens = map[string]bool{
	"shopify payments": true,
	"stripe":           true,
	"klarna":           true,
	"paypal":           true,
	"apple pay":        true,
	"paid":             true,
}

// normalizePayment maps gateway vocabulary onto the platform's cash/card
// enum. Unknown values stay raw for manual correction in the preview grid.
func normalizePayment(rec parser.RawRecord) {
	raw := strings.TrimSpace(rec[colPaymentMethod])
	target := colPaymentMethod
	if raw == "" {
		raw = strings.TrimSpace(rec[colFinancialStatus])
		target = colFinancialStatus
	}
	if raw == "" {
		return
	}
	switch v := strings.ToLower(raw); {
	case cardTokens[v]:
		rec[target] = "card"
	case v == "cash" || v == "cod":
		rec[target] = "cash"
	}
}

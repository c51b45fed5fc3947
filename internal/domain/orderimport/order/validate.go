package order

import (
	"regexp"
	"strings"

	"github.com/wasely/courier-admin/internal/domain/orderimport/mapper"
)

// Egyptian local mobile: leading "01" plus exactly nine more digits.
var mobilePattern = regexp.MustCompile(`^01[0-9]{9}$`)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Validate recomputes the row's error map from scratch. It is a pure function
// of the row's field values, so re-running it after every manual edit in the
// preview grid is safe and never accumulates stale codes.
func Validate(r *Row) {
	errs := make(map[mapper.Field]ErrorCode)

	name := strings.TrimSpace(r.CustomerName)
	switch {
	case name == "":
		errs[mapper.FieldCustomerName] = CodeNameRequired
	case digitsOnly.MatchString(name):
		// A phone number pasted into the name column.
		errs[mapper.FieldCustomerName] = CodeNameDigitsOnly
	}

	mobile := strings.TrimSpace(r.Mobile)
	if mobile == "" {
		errs[mapper.FieldMobile] = CodeMobileRequired
	} else if !mobilePattern.MatchString(mobile) {
		errs[mapper.FieldMobile] = CodeMobileInvalid
	}

	if strings.TrimSpace(r.Address) == "" {
		errs[mapper.FieldAddress] = CodeAddressRequired
	}
	if strings.TrimSpace(r.ProductName) == "" {
		errs[mapper.FieldProductName] = CodeProductRequired
	}
	if r.Quantity < 1 {
		errs[mapper.FieldQuantity] = CodeQuantityInvalid
	}
	if r.UnitPrice.IsNegative() {
		errs[mapper.FieldUnitPrice] = CodePriceInvalid
	}

	if len(errs) == 0 {
		r.Errors = nil
		return
	}
	r.Errors = errs
}

// ValidateAll validates every row and returns the number of rows left with a
// non-empty error map. The count is recomputed freshly on every pass.
func ValidateAll(rows []*Row) int {
	invalid := 0
	for _, r := range rows {
		Validate(r)
		if len(r.Errors) > 0 {
			invalid++
		}
	}
	return invalid
}

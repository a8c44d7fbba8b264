package forms

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is the raw text of a decimal form field. It is checked with the
// "number" rule and parsed once the form is valid.
type Decimal string

// Value returns the parsed decimal, or nil when the field was left blank or
// does not hold a number.
func (d Decimal) Value() *decimal.Decimal {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &v
}

// convertCheckbox treats any of the usual "checked" values as true and
// everything else as false.
func convertCheckbox(value string) reflect.Value {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return reflect.ValueOf(true)
	}
	return reflect.ValueOf(false)
}

// digits returns the number of digits of d and how many of them follow the
// decimal point.
func digits(d decimal.Decimal) (total, places int) {
	coef := d.Coefficient()
	coef.Abs(coef)
	total = len(coef.String())
	if exp := d.Exponent(); exp < 0 {
		places = int(-exp)
		if places > total {
			total = places
		}
	} else if coef.Sign() != 0 {
		total += int(exp)
	}
	return total, places
}

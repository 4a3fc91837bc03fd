package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to two decimal places with half-up semantics.
// Every derived total is passed through Round2 before display or
// submission so floating-point drift cannot accumulate across repeated
// additions.
func Round2(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// FormatVND renders an amount the way the storefront displays prices:
// whole dong, dot-separated thousands, trailing currency sign
// (e.g. 12000000 -> "12.000.000 ₫"). Display-only, never used in
// computation.
func FormatVND(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)

	s := d.String()
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + " ₫"
	if negative {
		return "-" + out
	}
	return out
}

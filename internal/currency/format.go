package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber prints d in its shortest form keeping at least one
// fractional digit: 90.5 -> "90.5", 10 -> "10.0".
func FormatNumber(d decimal.Decimal) string {
	s := d.String()
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatFixed2 prints d with exactly two fractional digits (half-to-even), as in the rate list.
func FormatFixed2(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}

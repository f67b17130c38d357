// Package currency holds the currency-to-ruble domain: codes, rates,
// parsing of user input and the number formats used in replies.
package currency

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// CodeLength is the number of letters in a currency code.
const CodeLength = 3

// Code is an upper-case three-letter currency code such as "USD".
type Code string

func (c Code) String() string { return string(c) }

// Record is one stored currency with its rate in rubles.
type Record struct {
	Code Code            `db:"currency_name"`
	Rate decimal.Decimal `db:"rate"`
}

// NormalizeCode trims and upper-cases raw input without validating it.
func NormalizeCode(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}

// ParseCode normalizes raw input and checks it is exactly three letters.
func ParseCode(raw string) (Code, error) {
	code := NormalizeCode(raw)
	if utf8.RuneCountInString(string(code)) != CodeLength {
		return code, ErrInvalidCode
	}
	for _, r := range string(code) {
		if !unicode.IsLetter(r) {
			return code, ErrInvalidCode
		}
	}
	return code, nil
}

// ParseNumber parses a rate or amount typed by the user.
// The value must be a finite 64-bit float; positivity is not checked.
func ParseNumber(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return decimal.Zero, ErrInvalidNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrInvalidNumber
	}
	return decimal.NewFromFloat(f), nil
}

// Convert returns amount expressed in rubles, rounded half-to-even to two decimals.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).RoundBank(2)
}

package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is the storefront display locale.
var DefaultLocale = language.MustParse("es-CO")

// Format renders an amount as zero-decimal Colombian pesos, e.g. "$ 120.000".
func Format(a Amount) string {
	return FormatLocale(a, DefaultLocale, "$")
}

// FormatLocale renders an amount with the grouping rules of the given locale.
func FormatLocale(a Amount, tag language.Tag, symbol string) string {
	p := message.NewPrinter(tag)
	digits := p.Sprint(number.Decimal(int64(a), number.Scale(0)))
	if symbol == "" {
		return digits
	}
	return symbol + " " + digits
}

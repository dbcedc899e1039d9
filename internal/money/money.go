// Package money formats and extracts decimal amounts.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is appended by Format when no symbol is configured.
const DefaultSymbol = "zł"

var (
	currencyAmount = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,2})?)\s*(?:PLN|złotych|zlotych|zł|zl)`)
	bareAmount     = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)
)

// Format renders d with two decimals, a space as thousands separator, a
// decimal comma and a trailing currency symbol: 1234.5 -> "1 234,50 zł".
func Format(d decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}

	fixed := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	b.WriteByte(' ')
	b.WriteString(symbol)
	return b.String()
}

// FormatFloat is Format for analytics values.
func FormatFloat(f float64, symbol string) string {
	return Format(decimal.NewFromFloat(f), symbol)
}

// ParseAmount extracts the first amount written in text. An amount followed
// by a currency word (PLN, zł, złotych, zl, zlotych) wins over a bare
// number. Either a dot or a comma may separate the decimals.
func ParseAmount(text string) (decimal.Decimal, bool) {
	for _, re := range []*regexp.Regexp{currencyAmount, bareAmount} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
		if err != nil {
			continue
		}
		return d, true
	}
	return decimal.Zero, false
}

package forms

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SplitList turns "S, M ,, L" into ["S", "M", "L"]: split on commas, trimmed, blanks dropped.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList is the draft form of a list.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// ParsePrice reads a price field. Blank, unparsable or negative input yields an invalid
// (absent) price rather than an error.
func ParsePrice(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FormatPrice is the draft form of a price.
func FormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.String()
}

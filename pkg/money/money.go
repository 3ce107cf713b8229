// Package money converts between major currency units (dollars, as validated
// from form input) and integer minor units (cents, as stored). Stored amounts
// are always integer cents so that financial sums never accumulate binary
// floating-point error.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// MinorUnits converts a major-unit amount to integer minor units, truncating
// toward zero past cent precision. The conversion walks the shortest decimal
// representation of the value rather than multiplying the float, so any input
// with at most two fractional digits converts exactly (49.99 -> 4999).
func MinorUnits(major float64) int64 {
	s := strconv.FormatFloat(major, 'f', -1, 64)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Magnitude beyond int64 cents; upstream validation bounds amounts
		// well below this, so saturate rather than panic.
		units = (1<<63 - 1) / 100
	}
	cents, _ := strconv.ParseInt(fracPart, 10, 64)

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total
}

// MajorUnits converts integer minor units back to a major-unit amount.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// FormatUSD renders minor units as a human-readable dollar amount.
func FormatUSD(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}

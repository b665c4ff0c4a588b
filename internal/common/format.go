package common

import (
	"fmt"
	"strconv"
	"strings"
)

// NotAvailable is the display sentinel for fields the provider or the
// indicator pipeline could not produce.
const NotAvailable = "N/A"

// FormatMoney formats a dollar amount with 2 decimal places.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatSignedPct formats a percentage with an explicit sign.
func FormatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatPct formats a percentage with 2 decimal places.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatMarketCap formats a market cap in billions, e.g. "1234.56B".
// Values under a billion fall back to millions.
func FormatMarketCap(v float64) string {
	if v <= 0 {
		return NotAvailable
	}
	if v < 1e9 {
		return fmt.Sprintf("%.2fM", v/1e6)
	}
	return fmt.Sprintf("%.2fB", v/1e9)
}

// FormatVolume formats a share volume with thousands separators.
func FormatVolume(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// FormatOptionalMoney renders a dollar amount, or N/A when the value is
// invalid (missing provider field or insufficient history).
func FormatOptionalMoney(v float64, valid bool) string {
	if !valid {
		return NotAvailable
	}
	return FormatMoney(v)
}

// FormatOptionalFloat renders a plain number to 2 decimal places, or N/A.
func FormatOptionalFloat(v float64, valid bool) string {
	if !valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatOptionalPct renders a percentage, or N/A.
func FormatOptionalPct(v float64, valid bool) string {
	if !valid {
		return NotAvailable
	}
	return FormatPct(v)
}

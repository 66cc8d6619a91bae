package audit

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// clockLayout is the 24-hour rendering used for execution rows and anomaly timestamps.
const clockLayout = "15:04:05"

// formatClock renders t as 24-hour HH:MM:SS.
func formatClock(t time.Time) string {
	return t.Format(clockLayout)
}

// formatPrice renders a price with thousands grouping and exactly two
// fractional digits, e.g. 2641.5 -> "2,641.50", 999.999 -> "1,000.00".
// Grouping is applied after rounding, so values that round up across the
// thousand boundary are still grouped.
func formatPrice(p float64) string {
	return groupDecimal(p)
}

// formatMoney renders a signed dollar amount, e.g. "+$12,345.67", "-$425.50".
// Zero renders with a plus sign.
func formatMoney(v float64) string {
	s := groupDecimal(v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "+$" + s
}

// formatRatio renders a leverage value as "1:<n>" using the shortest decimal
// form, e.g. 1.5 -> "1:1.5", 50 -> "1:50".
func formatRatio(v float64) string {
	return "1:" + strconv.FormatFloat(v, 'f', -1, 64)
}

// groupDecimal renders v with two fractional digits and comma-grouped
// integer digits.
func groupDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
		if len(intPart) > lead {
			sb.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		sb.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			sb.WriteByte(',')
		}
	}
	sb.WriteString(frac)
	return sb.String()
}

// round1 rounds to one decimal place, half away from zero.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// parseSize parses a numeric-as-string quantity. Fills are logged with the
// size exactly as entered upstream; anything unparsable counts as zero
// rather than failing the whole computation.
func parseSize(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// minorUnitFreeCurrencies have no fractional unit in everyday use, so
// amounts are floored to whole units for display.
var minorUnitFreeCurrencies = map[string]string{
	"KRW": "원",
	"JPY": "엔",
}

// formatCurrency renders an amount for display.
// KRW: 정수 처리 + 3자리 쉼표 + '원' / 그 외: 달러 기호 + 소수점 2자리
func formatCurrency(value float64, currency string) string {
	if unit, ok := minorUnitFreeCurrencies[currency]; ok {
		return groupDigits(strconv.FormatInt(int64(math.Floor(value)), 10)) + unit
	}
	return "$" + groupDigits(fmt.Sprintf("%.2f", value))
}

// formatPercent renders a ratio already expressed in percent units
func formatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// formatSignedCurrency prefixes an explicit sign for change values
func formatSignedCurrency(value float64, currency string) string {
	if value >= 0 {
		return "+" + formatCurrency(value, currency)
	}
	return "-" + formatCurrency(-value, currency)
}

func formatSignedPercent(value float64) string {
	if value >= 0 {
		return "+" + formatPercent(value)
	}
	return formatPercent(value)
}

// formatRatio renders dimensionless ratios (PER, PBR, beta)
func formatRatio(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// formatMarketCap renders market cap as a whole-unit grouped figure
func formatMarketCap(value float64) string {
	return groupDigits(strconv.FormatInt(int64(value), 10))
}

// groupDigits inserts thousands separators into a plain decimal string,
// preserving any leading sign and fractional part.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i:]
	}

	n := len(intPart)
	if n <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return sign + b.String() + fracPart
}

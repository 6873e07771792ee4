package strategy

import (
	"regexp"
	"strconv"
)

// DefaultRiskFraction is the share of equity risked per trade when the risk
// notes carry no usable percentage.
const DefaultRiskFraction = 0.1

var percentPattern = regexp.MustCompile(`\d+(\.\d+)?%`)

// ParseRiskFraction returns the first percentage in text as a fraction of
// equity. Values outside (0, 100] fall back to DefaultRiskFraction.
func ParseRiskFraction(text string) float64 {
	m := percentPattern.FindString(text)
	if m == "" {
		return DefaultRiskFraction
	}
	v, err := strconv.ParseFloat(m[:len(m)-1], 64)
	if err != nil || v <= 0 || v > 100 {
		return DefaultRiskFraction
	}
	return v / 100
}

package signals

import (
	"regexp"
	"strconv"
	"strings"
)

var moneyPattern = regexp.MustCompile(`(?i)^\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*([kmb])?$`)

var moneyExponent = map[string]string{
	"":  "",
	"k": "e3",
	"m": "e6",
	"b": "e9",
}

// ParseMoney parses amounts like "$5M", "500K", "$1.2B" or "250,000" into
// USD. ok is false for anything else.
func ParseMoney(s string) (usd float64, ok bool) {
	m := moneyPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	num := strings.ReplaceAll(m[1], ",", "")
	// Scaling through the exponent keeps "1.2B" exact.
	v, err := strconv.ParseFloat(num+moneyExponent[strings.ToLower(m[2])], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Price-field patterns. Each tolerates thousands separators; market cap
// additionally accepts k/m/b suffixes.
var (
	pricePattern = regexp.MustCompile(
		`(?i)\$\s*([\d,]+\.?\d*)\b|([\d,]+\.?\d*)\s*(?:usd|usdt|busd)\b`)
	entryPattern = regexp.MustCompile(
		`(?i)(?:entry|buy\s*(?:at|zone|price)?|enter\s*at|current\s*price|@)[:\s]*\$?([\d,]+\.?\d*)`)
	targetPattern = regexp.MustCompile(
		`(?i)(?:tp\d?|target\d?|take\s*profit)[:\s]*\$?([\d,]+\.?\d*)`)
	stopLossPattern = regexp.MustCompile(
		`(?i)(?:sl|stop\s*loss|stop)[:\s]*\$?([\d,]+\.?\d*)`)
	marketCapPattern = regexp.MustCompile(
		`(?i)(?:mc|market\s*cap|mcap)[:\s]*\$?([\d,.]+)\s*([kmb])?`)
)

// Plausibility bounds for the entry-price fallback.
const (
	minPlausiblePrice = 1e-7
	maxPlausiblePrice = 1e7
)

func extractEntryPrice(text string) *float64 {
	return firstSubmatchPrice(entryPattern, text)
}

func extractTargetPrice(text string) *float64 {
	return firstSubmatchPrice(targetPattern, text)
}

func extractStopLoss(text string) *float64 {
	return firstSubmatchPrice(stopLossPattern, text)
}

func extractMarketCap(text string) *float64 {
	m := marketCapPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	val, err := parseNumber(m[1])
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "k":
		val *= 1_000
	case "m":
		val *= 1_000_000
	case "b":
		val *= 1_000_000_000
	}
	return &val
}

// extractAllPrices returns every bounded price-looking token ($-prefixed or
// USD/USDT/BUSD-suffixed) in order of appearance.
func extractAllPrices(text string) []float64 {
	var prices []float64
	for _, m := range pricePattern.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		val, err := parseNumber(raw)
		if err != nil {
			continue
		}
		if val >= minPlausiblePrice && val <= maxPlausiblePrice {
			prices = append(prices, val)
		}
	}
	return prices
}

func firstSubmatchPrice(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	val, err := parseNumber(m[1])
	if err != nil {
		return nil
	}
	return &val
}

func parseNumber(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}

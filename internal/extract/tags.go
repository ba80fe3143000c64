package extract

import "strings"

// maxTags caps topic tags attached to a detection (the signal type is
// appended on top of these).
const maxTags = 6

// tagTable maps topic tags to their trigger keywords. Ordered so tag output
// is deterministic.
var tagTable = []struct {
	tag      string
	keywords []string
}{
	{"breakout", []string{"breakout", "breaking out", "broke out"}},
	{"accumulation", []string{"accumulate", "accumulation", "accumulating"}},
	{"whale_alert", []string{"whale", "whales", "big buy", "big order"}},
	{"technical", []string{"chart", "ta ", "technical", "pattern", "indicator"}},
	{"fundamental", []string{"news", "announcement", "partnership", "listing"}},
	{"high_risk", []string{"high risk", "risky", "degen", "yolo", "gamble"}},
	{"low_risk", []string{"safe", "low risk", "conservative"}},
	{"swing_trade", []string{"swing", "swing trade"}},
	{"scalp", []string{"scalp", "quick flip", "fast trade"}},
	{"dip_buy", []string{"dip", "buying the dip", "discount", "cheap"}},
	{"momentum", []string{"momentum", "strength"}},
	{"reversal", []string{"reversal", "reverse", "bounce"}},
	{"new_launch", []string{"launch", "stealth", "fair launch", "just launched"}},
	{"airdrop", []string{"airdrop", "drop", "claim"}},
}

// extractTags returns up to maxTags topic tags triggered by the text.
func extractTags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, entry := range tagTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, entry.tag)
				break
			}
		}
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

package extract

import (
	"strings"

	"signal-pipeline/internal/domain"
)

// Sentiment keyword and emoji lists. Keywords score 1, emojis 0.5.
var (
	bullishKeywords = []string{
		"buy", "long", "bullish", "moon", "pump", "rocket", "breakout",
		"accumulate", "accumulation", "gem", "alpha", "ape", "send it",
		"dip", "oversold", "undervalued", "strong", "bullrun", "bull run",
		"bag", "load up", "early", "easy", "100x", "1000x", "lowcap",
		"low cap", "micro cap", "next", "call", "launch", "stealth",
		"aping", "safu", "moonshot", "hidden gem",
	}
	bearishKeywords = []string{
		"sell", "short", "bearish", "dump", "crash", "distribution",
		"overbought", "overvalued", "weak", "exit", "take profit",
		"warning", "caution", "risk", "bear", "drop", "falling",
		"rug", "rugpull", "scam", "honeypot", "avoid", "stay away",
	}
	bullishEmojis = []string{"🚀", "📈", "💎", "🔥", "⚡", "💰", "🌙", "✨", "💪", "🎯", "🟢", "✅"}
	bearishEmojis = []string{"📉", "🔴", "⚠️", "🐻", "💀", "🆘", "❌", "⬇️", "🩸", "☠️"}
)

// analyzeSentiment scores bullish against bearish cues. A tie or an empty
// score is NEUTRAL with confidence 0.5; otherwise confidence grows with the
// margin, capped at 0.95.
func analyzeSentiment(text string) (domain.Sentiment, float64) {
	lower := strings.ToLower(text)

	var bull, bear float64
	for _, kw := range bullishKeywords {
		if strings.Contains(lower, kw) {
			bull++
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(lower, kw) {
			bear++
		}
	}
	for _, e := range bullishEmojis {
		if strings.Contains(text, e) {
			bull += 0.5
		}
	}
	for _, e := range bearishEmojis {
		if strings.Contains(text, e) {
			bear += 0.5
		}
	}

	switch {
	case bull+bear == 0:
		return domain.SentimentNeutral, 0.5
	case bull > bear:
		return domain.SentimentBullish, min(0.95, 0.5+(bull-bear)/10)
	case bear > bull:
		return domain.SentimentBearish, min(0.95, 0.5+(bear-bull)/10)
	default:
		return domain.SentimentNeutral, 0.5
	}
}

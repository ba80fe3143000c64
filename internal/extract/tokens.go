package extract

import (
	"regexp"
	"strings"
)

// cashtagPattern matches explicit $SYMBOL / #SYMBOL tags.
var cashtagPattern = regexp.MustCompile(`[\$#]([A-Za-z]{2,12})\b`)

// bareTokenPattern matches bare uppercase ticker candidates.
var bareTokenPattern = regexp.MustCompile(`\b([A-Z]{2,10})\b`)

// knownTokens is the allow-list of recognized ticker symbols.
var knownTokens = makeSet(
	"BTC", "ETH", "SOL", "DOGE", "PEPE", "SHIB", "LINK", "MATIC",
	"AVAX", "DOT", "ADA", "XRP", "BNB", "ATOM", "UNI", "AAVE",
	"LTC", "FTM", "NEAR", "APT", "ARB", "OP", "INJ", "SUI",
	"WIF", "BONK", "JUP", "WLD", "TIA", "SEI", "PYTH", "JTO",
	"ONDO", "STRK", "DYM", "MANTA", "PIXEL", "AI", "RNDR",
	"FET", "AGIX", "OCEAN", "TAO", "RENDER", "GRT", "FIL",
	"IMX", "BLUR", "MEME", "FLOKI", "LUNC", "ORDI", "SATS",
	"RUNE", "STX", "PENDLE", "GMX", "RDNT", "CAKE", "DYDX",
	"TON", "NOT", "DOGS", "HMSTR", "CATI", "BOME", "MEW",
	"POPCAT", "MYRO", "SAMO", "RAY", "ORCA", "DRIFT", "TENSOR",
	"TRUMP", "MELANIA", "SPX", "MOG", "BRETT", "TOSHI", "DEGEN",
)

// noiseWords blocks common English words and generic crypto jargon that
// would otherwise look like tickers.
var noiseWords = makeSet(
	"THE", "AND", "FOR", "WITH", "THIS", "THAT", "FROM", "ARE",
	"WAS", "BUT", "HAS", "HAD", "NOT", "ALL", "CAN", "HER",
	"WHO", "OIL", "DID", "GET", "LET", "SAY", "SHE", "TOO",
	"USE", "WAY", "MAY", "DAY", "ANY", "NEW", "NOW", "OLD",
	"SEE", "TIME", "VERY", "WHEN", "COME", "MAKE", "LIKE",
	"JUST", "KNOW", "TAKE", "TEAM", "GOOD", "BEEN", "CALL",
	"FIRST", "LONG", "DOWN", "FIND", "HERE", "THING", "MANY",
	"WELL", "ONLY", "TELL", "ONE", "OUR", "OUT", "ALSO",
	"BACK", "AFTER", "YEAR", "THAN", "MOST", "THEM", "KEEP",
	"EVEN", "LEFT", "BEST", "NEXT", "WILL", "STILL", "OWN",
	"LOOK", "SAME", "BEING", "WORLD", "INTO", "DOES", "DONT",
	"PART", "HEAD", "LIVE", "HIGH", "MUST", "HOME", "BIG",
	"ABOUT", "EACH", "SOME", "THEY", "WHAT", "YOUR", "OVER",
	"MUCH", "THEN", "THESE", "TWO", "HOW",
	"PRICE", "BUY", "SELL", "HOLD", "UPDATE", "JOIN", "FREE",
	"NFT", "DEX", "CEX", "APE", "GEM", "CHART", "PUMP", "DIP",
	"ENTRY", "EXIT", "STOP", "LOSS", "PROFIT", "COIN",
	"TOKEN", "TRADE", "TOP", "LOW",
	"USD", "USDT", "USDC", "BUSD", "DAI",
	"URL", "COM", "ORG", "NET", "HTTP", "HTTPS", "WWW",
	"PIN", "BOT", "VIA", "MSG", "DM", "CHAT", "ADMIN", "MOD",
)

// extractTokens returns token symbols in strict priority: explicit
// cashtags, then bare known tickers, then plausible bare uppercase tokens
// of length 3-6. Deduplicated case-insensitively, first-seen order.
func extractTokens(text string) []string {
	seen := make(map[string]struct{})
	var tokens []string

	add := func(sym string) {
		upper := strings.ToUpper(sym)
		if _, noise := noiseWords[upper]; noise {
			return
		}
		if _, dup := seen[upper]; dup {
			return
		}
		seen[upper] = struct{}{}
		tokens = append(tokens, upper)
	}

	for _, m := range cashtagPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}

	bare := bareTokenPattern.FindAllStringSubmatch(text, -1)
	for _, m := range bare {
		if _, known := knownTokens[m[1]]; known {
			add(m[1])
		}
	}
	for _, m := range bare {
		if n := len(m[1]); n >= 3 && n <= 6 {
			add(m[1])
		}
	}

	return tokens
}

func makeSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

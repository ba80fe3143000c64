package domain

import "strings"

// tokenNames maps well-known ticker symbols to display names.
var tokenNames = map[string]string{
	"BTC": "Bitcoin", "ETH": "Ethereum", "SOL": "Solana",
	"DOGE": "Dogecoin", "PEPE": "Pepe", "SHIB": "Shiba Inu",
	"LINK": "Chainlink", "MATIC": "Polygon", "AVAX": "Avalanche",
	"DOT": "Polkadot", "ADA": "Cardano", "XRP": "Ripple",
	"BNB": "Binance Coin", "ATOM": "Cosmos", "UNI": "Uniswap",
	"AAVE": "Aave", "LTC": "Litecoin", "FTM": "Fantom",
	"NEAR": "NEAR Protocol", "APT": "Aptos", "ARB": "Arbitrum",
	"OP": "Optimism", "INJ": "Injective", "SUI": "Sui",
	"WIF": "dogwifhat", "BONK": "Bonk", "JUP": "Jupiter",
	"WLD": "Worldcoin", "TIA": "Celestia", "SEI": "Sei",
	"PYTH": "Pyth Network", "ONDO": "Ondo Finance",
	"RNDR": "Render", "RENDER": "Render", "FET": "Fetch.ai",
	"TAO": "Bittensor", "TON": "Toncoin", "TRUMP": "TRUMP",
	"BRETT": "Brett", "MOG": "Mog Coin", "POPCAT": "Popcat",
}

// TokenName resolves a ticker symbol to its display name.
// Unknown symbols resolve to themselves; an empty symbol to "Unknown".
func TokenName(symbol string) string {
	if symbol == "" {
		return "Unknown"
	}
	if name, ok := tokenNames[strings.ToUpper(symbol)]; ok {
		return name
	}
	return symbol
}

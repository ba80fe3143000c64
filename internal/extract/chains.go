package extract

import (
	"regexp"
	"strings"
)

// chainPattern matches explicit chain mentions.
var chainPattern = regexp.MustCompile(
	`(?i)\b(ethereum|eth\s+chain|bsc|bnb\s*chain|polygon|matic|arbitrum|arb|` +
		`optimism|op\s+chain|avalanche|avax|base\s+chain|base|solana|sol\s+chain|` +
		`fantom|ftm|cronos|cro|gnosis|linea|zksync|scroll|blast|mantle|` +
		`sui\s+chain|aptos|ton|tron)\b`)

// chainAliases normalizes chain keywords to canonical chain tags.
var chainAliases = map[string]string{
	"ethereum": "eth", "eth chain": "eth", "eth": "eth",
	"bsc": "bsc", "bnb chain": "bsc", "bnbchain": "bsc",
	"polygon": "polygon", "matic": "polygon",
	"arbitrum": "arbitrum", "arb": "arbitrum",
	"optimism": "optimism", "op chain": "optimism",
	"avalanche": "avalanche", "avax": "avalanche",
	"base chain": "base", "base": "base",
	"solana": "solana", "sol chain": "solana",
	"fantom": "fantom", "ftm": "fantom",
	"cronos": "cronos", "cro": "cronos",
	"gnosis": "gnosis", "linea": "linea",
	"zksync": "zksync", "scroll": "scroll",
	"blast": "blast", "mantle": "mantle",
	"sui chain": "sui", "aptos": "aptos",
	"ton": "ton", "tron": "tron",
}

// explorerChains maps explorer/aggregator domain fragments to chains.
// Checked in order so inference stays deterministic.
var explorerChains = []struct {
	fragment string
	chain    string
}{
	{"solscan.io", "solana"},
	{"birdeye.so", "solana"},
	{"pump.fun", "solana"},
	{"basescan.org", "base"},
	{"arbiscan.io", "arbitrum"},
	{"bscscan.com", "bsc"},
	{"polygonscan.com", "polygon"},
}

// spaceRun collapses whitespace runs inside multi-word chain keywords.
var spaceRun = regexp.MustCompile(`\s+`)

// detectChain resolves the chain a message refers to. Explicit keyword
// mentions win; then explorer domains; then a hex contract address defaults
// to the generic EVM chain. Returns "" when nothing identifies a chain.
func detectChain(text string) string {
	if m := chainPattern.FindStringSubmatch(text); m != nil {
		raw := spaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(m[1])), " ")
		if chain, ok := chainAliases[raw]; ok {
			return chain
		}
		return raw
	}

	lower := strings.ToLower(text)
	for _, e := range explorerChains {
		if strings.Contains(lower, e.fragment) {
			return e.chain
		}
	}

	if evmAddressPattern.MatchString(text) {
		return "eth"
	}

	return ""
}

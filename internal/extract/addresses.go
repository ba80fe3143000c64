package extract

import (
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// evmAddressPattern matches EVM contract addresses: 0x + 40 hex chars.
var evmAddressPattern = regexp.MustCompile(`\b(0x[a-fA-F0-9]{40})\b`)

// base58AddressPattern matches base58 strings of pubkey-like length
// (32-44 chars, no 0/O/I/l). Further filtered by isBase58Address.
var base58AddressPattern = regexp.MustCompile(`\b([1-9A-HJ-NP-Za-km-z]{32,44})\b`)

// dexURLPattern matches DEX / explorer URLs that embed a contract address.
var dexURLPattern = regexp.MustCompile(
	`(?i)(?:dexscreener\.com|dextools\.io|birdeye\.so|geckoterminal\.com|` +
		`defined\.fi|pump\.fun|raydium\.io|solscan\.io|etherscan\.io|bscscan\.com|` +
		`basescan\.org|arbiscan\.io|polygonscan\.com)` +
		`[/\w\-]*?/?(0x[a-fA-F0-9]{40}|[1-9A-HJ-NP-Za-km-z]{32,44})`)

// extractContractAddresses returns EVM and base58 contract addresses found
// in the text, first-seen order, hex addresses lowercased.
func extractContractAddresses(text string) []string {
	var addrs []string

	for _, m := range evmAddressPattern.FindAllStringSubmatch(text, -1) {
		addrs = appendUnique(addrs, strings.ToLower(m[1]))
	}

	for _, m := range base58AddressPattern.FindAllStringSubmatch(text, -1) {
		if isBase58Address(m[1]) {
			addrs = appendUnique(addrs, m[1])
		}
	}

	return addrs
}

// extractDEXURLAddresses returns contract addresses embedded inside DEX and
// explorer URLs.
func extractDEXURLAddresses(text string) []string {
	var addrs []string
	for _, m := range dexURLPattern.FindAllStringSubmatch(text, -1) {
		addr := m[1]
		if strings.HasPrefix(addr, "0x") {
			addr = strings.ToLower(addr)
		}
		addrs = appendUnique(addrs, addr)
	}
	return addrs
}

// isBase58Address filters base58-pattern matches down to plausible contract
// addresses: not purely alphabetic (English words and usernames are), no
// path separators, and decoding to a 32-byte pubkey.
func isBase58Address(s string) bool {
	if len(s) < 32 {
		return false
	}
	if strings.ContainsAny(s, `/\.`) {
		return false
	}
	alphaOnly := true
	for _, r := range s {
		if r >= '0' && r <= '9' {
			alphaOnly = false
			break
		}
	}
	if alphaOnly {
		return false
	}
	raw, err := base58.Decode(s)
	return err == nil && len(raw) == 32
}

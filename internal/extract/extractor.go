// Package extract implements the message-scanning engine that turns raw chat
// text into structured detections. Extraction is pure and deterministic:
// no I/O, no shared state, safe to call from any number of workers.
package extract

import (
	"fmt"

	"signal-pipeline/internal/domain"
)

// minMessageLen is the shortest text worth scanning.
const minMessageLen = 5

// maxContracts caps the contract-address list on a detection.
const maxContracts = 5

// Extract scans text for trading-relevant content.
// It returns nil when no token symbol and no contract address is found;
// price data alone never produces a detection.
func Extract(text, channelName string) *domain.Detection {
	if len(text) < minMessageLen {
		return nil
	}

	contracts := extractContractAddresses(text)
	for _, addr := range extractDEXURLAddresses(text) {
		contracts = appendUnique(contracts, addr)
	}
	if len(contracts) > maxContracts {
		contracts = contracts[:maxContracts]
	}
	chain := detectChain(text)
	tokens := extractTokens(text)

	if len(tokens) == 0 && len(contracts) == 0 {
		return nil
	}

	entry := extractEntryPrice(text)
	if entry == nil {
		// No explicit entry marker: fall back to the first plausible
		// bounded price-looking token.
		if prices := extractAllPrices(text); len(prices) > 0 {
			entry = &prices[0]
		}
	}
	target := extractTargetPrice(text)
	stop := extractStopLoss(text)
	mcap := extractMarketCap(text)

	sentiment, confidence := analyzeSentiment(text)
	if len(contracts) > 0 {
		confidence = min(0.99, confidence+0.15)
	}
	if entry != nil {
		confidence = min(0.99, confidence+0.10)
	}

	signalType := classify(entry, contracts, tokens)

	primary := ""
	if len(tokens) > 0 {
		primary = tokens[0]
	} else if len(contracts) > 0 {
		primary = syntheticSymbol(contracts[0])
	}

	tags := extractTags(text)
	tags = append(tags, string(signalType))

	return &domain.Detection{
		TokenSymbol:       primary,
		TokenName:         domain.TokenName(primary),
		ContractAddresses: contracts,
		Chain:             chain,
		AllTokens:         tokens,
		EntryPrice:        entry,
		TargetPrice:       target,
		StopLoss:          stop,
		MarketCap:         mcap,
		Sentiment:         sentiment,
		Confidence:        confidence,
		SignalType:        signalType,
		Tags:              tags,
		SourceText:        text,
		ChannelName:       channelName,
	}
}

// classify picks the signal type. A full signal requires a positive price
// plus a token or contract; otherwise a contract wins over a bare mention.
func classify(entry *float64, contracts, tokens []string) domain.SignalType {
	hasPrice := entry != nil && *entry > 0
	if hasPrice && (len(tokens) > 0 || len(contracts) > 0) {
		return domain.SignalTypeFull
	}
	if len(contracts) > 0 {
		return domain.SignalTypeContract
	}
	return domain.SignalTypeMention
}

// syntheticSymbol derives a display label from a contract address when no
// token symbol was found, e.g. "CA:0x1234…5678".
func syntheticSymbol(addr string) string {
	if len(addr) < 10 {
		return "CA:" + addr
	}
	return fmt.Sprintf("CA:%s…%s", addr[:6], addr[len(addr)-4:])
}

// IsValid reports whether a detection carries a contract address or a token
// symbol. Extract never returns a detection that fails this, but callers use
// it as an explicit guard before persisting or dispatching.
func IsValid(d *domain.Detection) bool {
	if d == nil {
		return false
	}
	return len(d.ContractAddresses) > 0 || d.TokenSymbol != ""
}

// IsFullSignal reports whether a detection is valid and carries a positive
// entry price.
func IsFullSignal(d *domain.Detection) bool {
	return IsValid(d) && d.HasPrice()
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

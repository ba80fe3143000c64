package domain

// Sentiment classifies the tone of a detected message.
type Sentiment string

// Sentiment values.
const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// SignalType classifies the quality of a detection.
type SignalType string

// Signal type values, strongest first.
const (
	// SignalTypeFull requires a positive price and a token or contract.
	SignalTypeFull SignalType = "full_signal"
	// SignalTypeContract means a contract address was found but no price.
	SignalTypeContract SignalType = "contract_detection"
	// SignalTypeMention means only token symbols were found.
	SignalTypeMention SignalType = "token_mention"
)

// Detection is the structured result of scanning one message for
// trading-relevant content. A Detection exists only if at least one token
// symbol or contract address was found.
type Detection struct {
	TokenSymbol       string     // primary symbol, synthetic CA label when only contracts found
	TokenName         string     // resolved name, "Unknown" when not resolvable
	ContractAddresses []string   // ordered, deduplicated, max 5; hex addresses lowercased
	Chain             string     // normalized chain tag ("eth", "solana", ...), empty when unknown
	AllTokens         []string   // every symbol mentioned, first-seen order
	EntryPrice        *float64   // suggested entry, nil when absent
	TargetPrice       *float64   // take-profit target, nil when absent
	StopLoss          *float64   // stop loss, nil when absent
	MarketCap         *float64   // market cap in USD, nil when absent
	Sentiment         Sentiment  // BULLISH, BEARISH or NEUTRAL
	Confidence        float64    // 0..1
	SignalType        SignalType // full_signal, contract_detection or token_mention
	Tags              []string   // topic tags, max 6, plus the signal type
	SourceText        string     // original message text
	ChannelName       string     // channel the message came from
}

// HasContract reports whether the detection carries a contract address.
func (d *Detection) HasContract() bool {
	return d != nil && len(d.ContractAddresses) > 0
}

// HasPrice reports whether the detection carries a positive entry price.
func (d *Detection) HasPrice() bool {
	return d != nil && d.EntryPrice != nil && *d.EntryPrice > 0
}

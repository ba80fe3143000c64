package extract

import (
	"reflect"
	"sync"
	"testing"

	"signal-pipeline/internal/domain"
)

func TestExtract_NoDetection(t *testing.T) {
	cases := []string{
		"just vibing, nothing to see here",
		"gm",
		"",
		"what a lovely morning everyone, have a great day",
	}
	for _, text := range cases {
		if det := Extract(text, "TestChannel"); det != nil {
			t.Errorf("Extract(%q) = %+v, want nil", text, det)
		}
	}
}

func TestExtract_FullSignal(t *testing.T) {
	det := Extract("🚀 BTC pumping! Entry at $45000", "CryptoWhales")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.TokenSymbol != "BTC" {
		t.Errorf("TokenSymbol = %q, want BTC", det.TokenSymbol)
	}
	if det.TokenName != "Bitcoin" {
		t.Errorf("TokenName = %q, want Bitcoin", det.TokenName)
	}
	if det.EntryPrice == nil || *det.EntryPrice != 45000 {
		t.Errorf("EntryPrice = %v, want 45000", det.EntryPrice)
	}
	if det.Sentiment != domain.SentimentBullish {
		t.Errorf("Sentiment = %q, want BULLISH", det.Sentiment)
	}
	if det.SignalType != domain.SignalTypeFull {
		t.Errorf("SignalType = %q, want full_signal", det.SignalType)
	}
	if !IsFullSignal(det) {
		t.Error("IsFullSignal = false, want true")
	}
}

func TestExtract_ContractOnly(t *testing.T) {
	det := Extract("check this out 0x1234567890AbCdEf1234567890abcdef12345678", "GemHunters")
	if det == nil {
		t.Fatal("expected detection")
	}
	want := []string{"0x1234567890abcdef1234567890abcdef12345678"}
	if !reflect.DeepEqual(det.ContractAddresses, want) {
		t.Errorf("ContractAddresses = %v, want %v", det.ContractAddresses, want)
	}
	if det.SignalType != domain.SignalTypeContract {
		t.Errorf("SignalType = %q, want contract_detection", det.SignalType)
	}
	// Hex address with no other signal defaults to the generic EVM chain.
	if det.Chain != "eth" {
		t.Errorf("Chain = %q, want eth", det.Chain)
	}
	if det.TokenSymbol != "CA:0x1234…5678" {
		t.Errorf("TokenSymbol = %q, want synthetic CA label", det.TokenSymbol)
	}
	if !IsValid(det) {
		t.Error("IsValid = false, want true")
	}
}

func TestExtract_SentimentTie(t *testing.T) {
	// One bullish keyword (moon) and one bearish keyword (dump), no emoji.
	det := Extract("$ABCD moon dump", "TestChannel")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.Sentiment != domain.SentimentNeutral {
		t.Errorf("Sentiment = %q, want NEUTRAL", det.Sentiment)
	}
	if det.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", det.Confidence)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	const text = "💎 $PEPE gem on Base chain! Entry: $0.000012 TP1: $0.00002 SL: $0.000008 MC: $2.5m " +
		"0xAbCd567890abcdef1234567890abcdef12345678"

	first := Extract(text, "AlphaCalls")
	if first == nil {
		t.Fatal("expected detection")
	}

	// Repeated and concurrent calls must produce identical output.
	var wg sync.WaitGroup
	results := make([]*domain.Detection, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Extract(text, "AlphaCalls")
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(first, got) {
			t.Fatalf("call %d diverged:\nfirst: %+v\ngot:   %+v", i, first, got)
		}
	}
}

func TestExtract_PriceFields(t *testing.T) {
	det := Extract("$ARB setup. Entry: $1.20, TP: $2.00, SL: $1.00, MC: $900m", "Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.EntryPrice == nil || *det.EntryPrice != 1.20 {
		t.Errorf("EntryPrice = %v, want 1.20", det.EntryPrice)
	}
	if det.TargetPrice == nil || *det.TargetPrice != 2.00 {
		t.Errorf("TargetPrice = %v, want 2.00", det.TargetPrice)
	}
	if det.StopLoss == nil || *det.StopLoss != 1.00 {
		t.Errorf("StopLoss = %v, want 1.00", det.StopLoss)
	}
	if det.MarketCap == nil || *det.MarketCap != 900_000_000 {
		t.Errorf("MarketCap = %v, want 900000000", det.MarketCap)
	}
}

func TestExtract_PriceFallbackBounds(t *testing.T) {
	// No entry marker: first plausible $-price wins; out-of-bounds ignored.
	det := Extract("$SOL trading around $180 after the $99,000,000,000 fund news", "Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.EntryPrice == nil || *det.EntryPrice != 180 {
		t.Errorf("EntryPrice = %v, want 180", det.EntryPrice)
	}
}

func TestExtract_TokenPriority(t *testing.T) {
	det := Extract("$PEPE could flip DOGE and BTC someday", "Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	want := []string{"PEPE", "DOGE", "BTC"}
	if !reflect.DeepEqual(det.AllTokens, want) {
		t.Errorf("AllTokens = %v, want %v", det.AllTokens, want)
	}
	if det.TokenSymbol != "PEPE" {
		t.Errorf("TokenSymbol = %q, want PEPE", det.TokenSymbol)
	}
}

func TestExtract_NoiseWordsFiltered(t *testing.T) {
	if det := Extract("THE BEST TIME TO JOIN OUR CHAT", "Spam"); det != nil {
		t.Errorf("noise-only text produced detection: %+v", det)
	}
}

func TestExtract_DEXURLMerge(t *testing.T) {
	det := Extract(
		"https://dexscreener.com/ethereum/0xdeadbeef90abcdef1234567890abcdef12345678 printing",
		"Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	want := []string{"0xdeadbeef90abcdef1234567890abcdef12345678"}
	if !reflect.DeepEqual(det.ContractAddresses, want) {
		t.Errorf("ContractAddresses = %v, want %v", det.ContractAddresses, want)
	}
	if det.Chain != "eth" {
		t.Errorf("Chain = %q, want eth (keyword in URL path)", det.Chain)
	}
}

func TestExtract_Base58Contract(t *testing.T) {
	det := Extract("ape in: GJtJpWbescxcmaVdKkKp6AABoDikdNkNeSwgtzcrgkzs on pump.fun", "Degen")
	if det == nil {
		t.Fatal("expected detection")
	}
	if len(det.ContractAddresses) != 1 ||
		det.ContractAddresses[0] != "GJtJpWbescxcmaVdKkKp6AABoDikdNkNeSwgtzcrgkzs" {
		t.Errorf("ContractAddresses = %v, want the base58 mint", det.ContractAddresses)
	}
	if det.Chain != "solana" {
		t.Errorf("Chain = %q, want solana (pump.fun domain)", det.Chain)
	}
}

func TestExtract_RejectsBase58NotDecodingToPubkey(t *testing.T) {
	// Base58 alphabet and pattern length, but too short to decode to a
	// 32-byte key.
	det := Extract("total scam, avoid abc123abc123abc123abc123abc123abc123", "Degen")
	if det != nil {
		t.Errorf("detected %+v from a base58 string that is no pubkey", det)
	}

	if isBase58Address("abc123abc123abc123abc123abc123abc123") {
		t.Error("accepted a base58 string decoding to fewer than 32 bytes")
	}
	if !isBase58Address("GJtJpWbescxcmaVdKkKp6AABoDikdNkNeSwgtzcrgkzs") {
		t.Error("rejected a 32-byte mint address")
	}
}

func TestExtract_ConfidenceBoosts(t *testing.T) {
	// Neutral text, contract only: 0.5 + 0.15.
	det := Extract("0x1234567890abcdef1234567890abcdef12345678", "Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.Confidence != 0.65 {
		t.Errorf("Confidence = %v, want 0.65", det.Confidence)
	}

	// Contract + price: 0.5 + 0.15 + 0.10.
	det = Extract("0x1234567890abcdef1234567890abcdef12345678 at $0.005", "Signals")
	if det == nil {
		t.Fatal("expected detection")
	}
	if det.Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", det.Confidence)
	}
}

func TestExtract_TagsIncludeSignalType(t *testing.T) {
	det := Extract("$WIF breakout forming, whale accumulation on the chart", "TA")
	if det == nil {
		t.Fatal("expected detection")
	}
	if len(det.Tags) == 0 || det.Tags[len(det.Tags)-1] != string(det.SignalType) {
		t.Errorf("Tags = %v, want signal type appended last", det.Tags)
	}
	found := map[string]bool{}
	for _, tag := range det.Tags {
		found[tag] = true
	}
	for _, want := range []string{"breakout", "accumulation", "whale_alert", "technical"} {
		if !found[want] {
			t.Errorf("Tags = %v, missing %q", det.Tags, want)
		}
	}
}

func TestDetectChain_Keywords(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"launching on Arbitrum today", "arbitrum"},
		{"MATIC ecosystem play", "polygon"},
		{"this is on bsc", "bsc"},
		{"solscan.io/token/abc", "solana"},
		{"no chain mentioned at all", ""},
	}
	for _, tc := range cases {
		if got := detectChain(tc.text); got != tc.want {
			t.Errorf("detectChain(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

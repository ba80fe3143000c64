package dispatch

import (
	"fmt"
	"html"
	"strings"

	"signal-pipeline/internal/domain"
)

func sentimentEmoji(s domain.Sentiment) string {
	switch s {
	case domain.SentimentBullish:
		return "🚀"
	case domain.SentimentBearish:
		return "🔻"
	default:
		return "📊"
	}
}

// notificationTitle builds the short headline shown in the in-app list,
// e.g. "🚀 Signal: PEPE (ETH)".
func notificationTitle(det *domain.Detection) string {
	if det.Chain != "" {
		return fmt.Sprintf("%s Signal: %s (%s)", sentimentEmoji(det.Sentiment), det.TokenSymbol, strings.ToUpper(det.Chain))
	}
	return fmt.Sprintf("%s Signal: %s", sentimentEmoji(det.Sentiment), det.TokenSymbol)
}

// notificationBody builds the one-line notification body.
func notificationBody(det *domain.Detection) string {
	return fmt.Sprintf("%s %s in %s · confidence %.0f%%",
		det.Sentiment, strings.ReplaceAll(string(det.SignalType), "_", " "),
		det.ChannelName, det.Confidence*100)
}

// notificationData builds the structured payload persisted with the
// notification and pushed to realtime clients.
func notificationData(det *domain.Detection) map[string]any {
	data := map[string]any{
		"token_symbol": det.TokenSymbol,
		"token_name":   det.TokenName,
		"chain":        det.Chain,
		"sentiment":    string(det.Sentiment),
		"confidence":   det.Confidence,
		"signal_type":  string(det.SignalType),
		"channel_name": det.ChannelName,
	}
	if len(det.ContractAddresses) > 0 {
		data["contract_addresses"] = det.ContractAddresses
	}
	if len(det.Tags) > 0 {
		data["tags"] = det.Tags
	}
	if det.EntryPrice != nil {
		data["entry_price"] = *det.EntryPrice
	}
	if det.TargetPrice != nil {
		data["target_price"] = *det.TargetPrice
	}
	if det.StopLoss != nil {
		data["stop_loss"] = *det.StopLoss
	}
	if det.MarketCap != nil {
		data["market_cap"] = *det.MarketCap
	}
	return data
}

// echoHTML renders the chat self-echo message. Values derived from message
// text are escaped; the markup itself is trusted.
func echoHTML(det *domain.Detection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s %s</b>", sentimentEmoji(det.Sentiment), html.EscapeString(det.TokenSymbol))
	if det.Chain != "" {
		fmt.Fprintf(&b, " · %s", html.EscapeString(strings.ToUpper(det.Chain)))
	}
	fmt.Fprintf(&b, "\n%s · confidence %.0f%%", det.Sentiment, det.Confidence*100)

	for _, addr := range det.ContractAddresses {
		fmt.Fprintf(&b, "\n<code>%s</code>", html.EscapeString(addr))
	}
	if det.EntryPrice != nil {
		fmt.Fprintf(&b, "\nEntry: $%g", *det.EntryPrice)
	}
	if det.TargetPrice != nil {
		fmt.Fprintf(&b, "\nTarget: $%g", *det.TargetPrice)
	}
	if det.StopLoss != nil {
		fmt.Fprintf(&b, "\nStop: $%g", *det.StopLoss)
	}
	fmt.Fprintf(&b, "\n\nFrom: %s", html.EscapeString(det.ChannelName))

	return b.String()
}

// emailSubject and emailBody render the email path.
func emailSubject(det *domain.Detection) string {
	return notificationTitle(det)
}

func emailBody(det *domain.Detection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(notificationTitle(det)))
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(notificationBody(det)))
	for _, addr := range det.ContractAddresses {
		fmt.Fprintf(&b, "<p><code>%s</code></p>", html.EscapeString(addr))
	}
	fmt.Fprintf(&b, "<p><i>%s</i></p>", html.EscapeString(truncateText(det.SourceText, 500)))

	return b.String()
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func firstContract(det *domain.Detection) string {
	if len(det.ContractAddresses) > 0 {
		return det.ContractAddresses[0]
	}
	return ""
}

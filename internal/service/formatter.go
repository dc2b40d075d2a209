package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"
)

// FormatAlert renders a classified pair into the Telegram HTML alert body.
// It is a pure function of its inputs: no clock, no network, no mutable
// state. The full base token address is always included verbatim; the
// listing profile only supplies a fallback display name when the pair data
// carries none.
func FormatAlert(pair entity.Pair, listing entity.TokenProfile) entity.AlertMessage {
	tokenName := pair.BaseToken.Name
	if tokenName == "" {
		tokenName = listing.Description
	}
	if tokenName == "" {
		tokenName = "Unknown"
	}

	tokenSymbol := pair.BaseToken.Symbol
	if tokenSymbol == "" {
		tokenSymbol = "???"
	}

	dexID := capitalize(pair.DexID)
	if dexID == "" {
		dexID = "Unknown DEX"
	}

	priceUSD := pair.PriceUsd
	if priceUSD == "" {
		priceUSD = "N/A"
	}

	chartURL := pair.URL
	if chartURL == "" {
		chartURL = fmt.Sprintf("https://dexscreener.com/%s/%s", pair.ChainID, pair.PairAddress)
	}

	var b strings.Builder
	b.WriteString("🚨 <b>New Liquidity Added on Solana!</b>\n\n")
	fmt.Fprintf(&b, "🪙 <b>Token:</b> %s ($%s)\n", html.EscapeString(tokenName), html.EscapeString(tokenSymbol))
	fmt.Fprintf(&b, "📋 <b>Address:</b> <code>%s</code>\n", html.EscapeString(pair.BaseToken.Address))
	fmt.Fprintf(&b, "🏦 <b>DEX:</b> %s\n", html.EscapeString(dexID))
	fmt.Fprintf(&b, "💧 <b>Liquidity:</b> %s\n", FormatUSD(pair.LiquidityUSD()))
	fmt.Fprintf(&b, "💰 <b>Price:</b> $%s\n", html.EscapeString(priceUSD))
	fmt.Fprintf(&b, "🔗 <b>Chart:</b> <a href='%s'>DexScreener</a>", chartURL)

	return entity.AlertMessage{Text: b.String()}
}

// FormatUSD abbreviates a dollar figure for display: millions as "M" with
// two decimals, thousands as "K" with one, everything else as plain cents.
func FormatUSD(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("$%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fK", value/1_000)
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package service

import (
	"testing"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"

	"github.com/stretchr/testify/assert"
)

func samplePair() entity.Pair {
	return entity.Pair{
		ChainID:     "solana",
		DexID:       "raydium",
		PairAddress: "8HoQnePLqPj4M7PUDzfw8e3YupzTmTrPcUKmzzznRcvB",
		BaseToken: entity.Token{
			Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			Name:    "Radar Coin",
			Symbol:  "RDR",
		},
		PriceUsd:  "0.0042",
		Liquidity: &entity.Liquidity{Usd: 12500},
	}
}

func TestFormatAlert_RendersAllContractFields(t *testing.T) {
	msg := FormatAlert(samplePair(), entity.TokenProfile{})

	assert.Contains(t, msg.Text, "Radar Coin ($RDR)")
	assert.Contains(t, msg.Text, "Raydium")
	assert.Contains(t, msg.Text, "$12.5K")
	assert.Contains(t, msg.Text, "$0.0042")
	// The full base token address appears verbatim.
	assert.Contains(t, msg.Text, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	assert.Contains(t, msg.Text, "https://dexscreener.com/solana/8HoQnePLqPj4M7PUDzfw8e3YupzTmTrPcUKmzzznRcvB")
}

func TestFormatAlert_IsDeterministic(t *testing.T) {
	pair := samplePair()
	listing := entity.TokenProfile{Description: "Radar Coin"}

	first := FormatAlert(pair, listing)
	second := FormatAlert(pair, listing)
	assert.Equal(t, first, second)
}

func TestFormatAlert_Fallbacks(t *testing.T) {
	pair := samplePair()
	pair.BaseToken.Name = ""
	pair.BaseToken.Symbol = ""
	pair.PriceUsd = ""
	pair.DexID = ""

	msg := FormatAlert(pair, entity.TokenProfile{Description: "Listed Token"})
	assert.Contains(t, msg.Text, "Listed Token ($???)")
	assert.Contains(t, msg.Text, "Unknown DEX")
	assert.Contains(t, msg.Text, "$N/A")

	msg = FormatAlert(pair, entity.TokenProfile{})
	assert.Contains(t, msg.Text, "Unknown ($???)")
}

func TestFormatAlert_PrefersPairURL(t *testing.T) {
	pair := samplePair()
	pair.URL = "https://dexscreener.com/solana/custom"

	msg := FormatAlert(pair, entity.TokenProfile{})
	assert.Contains(t, msg.Text, "href='https://dexscreener.com/solana/custom'")
}

func TestFormatAlert_EscapesHTMLInTokenFields(t *testing.T) {
	pair := samplePair()
	pair.BaseToken.Name = "<b>Sneaky & Co</b>"

	msg := FormatAlert(pair, entity.TokenProfile{})
	assert.Contains(t, msg.Text, "&lt;b&gt;Sneaky &amp; Co&lt;/b&gt;")
	assert.NotContains(t, msg.Text, "<b>Sneaky")
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{12500, "$12.5K"},
		{1_234_000, "$1.23M"},
		{999.99, "$999.99"},
		{1000, "$1.0K"},
		{0, "$0.00"},
		{2_500_000, "$2.50M"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatUSD(tc.value), "value %f", tc.value)
	}
}

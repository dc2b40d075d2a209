package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTokenProfiles(t *testing.T) {
	body := []byte(`[
		{
			"url": "https://dexscreener.com/solana/abc",
			"chainId": "solana",
			"tokenAddress": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
			"description": "A token",
			"links": [{"type": "twitter", "url": "https://x.com/a"}]
		},
		{
			"chainId": "ethereum",
			"tokenAddress": "0xabc"
		}
	]`)

	profiles, err := decodeTokenProfiles(body)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "solana", profiles[0].ChainID)
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", profiles[0].TokenAddress)
	assert.Equal(t, "A token", profiles[0].Description)
	require.Len(t, profiles[0].Links, 1)
	assert.Equal(t, "twitter", profiles[0].Links[0].Type)
	assert.Equal(t, "ethereum", profiles[1].ChainID)
}

func TestDecodeTokenProfiles_Malformed(t *testing.T) {
	_, err := decodeTokenProfiles([]byte(`{"oops": true}`))
	assert.Error(t, err)
}

func TestDecodePairs_WrappedResponse(t *testing.T) {
	body := []byte(`{
		"schemaVersion": "1.0.0",
		"pairs": [
			{
				"chainId": "solana",
				"dexId": "raydium",
				"pairAddress": "P1",
				"baseToken": {"address": "T1", "name": "Token", "symbol": "TKN"},
				"priceUsd": "0.0123",
				"liquidity": {"usd": 12500.5, "base": 10, "quote": 20}
			}
		]
	}`)

	pairs, err := decodePairs(body)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "raydium", pairs[0].DexID)
	assert.Equal(t, "P1", pairs[0].PairAddress)
	assert.Equal(t, "TKN", pairs[0].BaseToken.Symbol)
	assert.InDelta(t, 12500.5, pairs[0].LiquidityUSD(), 0.001)
}

func TestDecodePairs_NullPairs(t *testing.T) {
	// Tokens with no pairs yet come back as an explicit null.
	pairs, err := decodePairs([]byte(`{"schemaVersion": "1.0.0", "pairs": null}`))
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestDecodePairs_DirectArray(t *testing.T) {
	body := []byte(`[
		{"chainId": "solana", "dexId": "orca", "pairAddress": "P2"},
		{"chainId": "solana", "dexId": "meteora", "pairAddress": "P3"}
	]`)

	pairs, err := decodePairs(body)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "orca", pairs[0].DexID)
	assert.Equal(t, "meteora", pairs[1].DexID)
}

func TestDecodePairs_MissingLiquidityIsZero(t *testing.T) {
	body := []byte(`{"schemaVersion": "1.0.0", "pairs": [{"pairAddress": "P1"}]}`)

	pairs, err := decodePairs(body)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].Liquidity)
	assert.Zero(t, pairs[0].LiquidityUSD())
}

func TestDecodePairs_Malformed(t *testing.T) {
	_, err := decodePairs([]byte(`not json`))
	assert.Error(t, err)
}

package entity

// TokenProfile is a candidate token surfaced by the DexScreener
// token-profiles feed. Profiles are fetched fresh every poll cycle and are
// never stored.
type TokenProfile struct {
	URL          string        `json:"url"`
	ChainID      string        `json:"chainId"`
	TokenAddress string        `json:"tokenAddress"`
	Icon         string        `json:"icon"`
	Header       string        `json:"header"`
	Description  string        `json:"description"`
	Links        []ProfileLink `json:"links"`
}

// ProfileLink is an external link attached to a token profile.
type ProfileLink struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// Pair contains detailed information about a trading pair as returned by
// the DexScreener pairs endpoints. PairAddress is the natural key: two
// fetches of the same underlying pair always carry the same address.
type Pair struct {
	ChainID       string          `json:"chainId"`
	DexID         string          `json:"dexId"`
	URL           string          `json:"url"`
	PairAddress   string          `json:"pairAddress"`
	BaseToken     Token           `json:"baseToken"`
	QuoteToken    Token           `json:"quoteToken"`
	PriceNative   string          `json:"priceNative"`
	PriceUsd      string          `json:"priceUsd"`
	Txns          PairTxns        `json:"txns"`
	Volume        PairVolume      `json:"volume"`
	PriceChange   PairPriceChange `json:"priceChange"`
	Liquidity     *Liquidity      `json:"liquidity"` // Pointer to handle potential nulls
	Fdv           float64         `json:"fdv"`
	MarketCap     float64         `json:"marketCap"`
	PairCreatedAt int64           `json:"pairCreatedAt"`
}

// LiquidityUSD returns the pair's USD liquidity, treating an absent
// liquidity object as zero.
func (p Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.Usd
}

// Token represents one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity represents the liquidity information for a pair.
type Liquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// PairTxns represents transaction counts for a pair.
type PairTxns struct {
	M5  TxnSummary `json:"m5"`
	H1  TxnSummary `json:"h1"`
	H6  TxnSummary `json:"h6"`
	H24 TxnSummary `json:"h24"`
}

// TxnSummary contains buy and sell counts.
type TxnSummary struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairVolume represents trading volume over different periods.
type PairVolume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// PairPriceChange represents price change percentage over different periods.
type PairPriceChange struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

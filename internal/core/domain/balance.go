package domain

import (
	"math/big"
	"time"
)

// AssetBalance is a single asset holding, computed fresh on each query.
type AssetBalance struct {
	Symbol    string
	Token     string // contract address or mint, empty for native
	Raw       *big.Int
	Decimals  uint8
	Formatted float64
}

// FormatUnits converts a raw integer amount to a human-readable float.
func FormatUnits(raw *big.Int, decimals uint8) float64 {
	if raw == nil {
		return 0
	}
	f := new(big.Float).SetInt(raw)
	div := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(f, div).Float64()
	return out
}

// PriceQuote is a cached USD quote for one symbol.
type PriceQuote struct {
	Symbol    string
	PriceUSD  float64
	Change24h float64
	FetchedAt time.Time
}

// TokenValue is a non-zero token position priced in USD.
type TokenValue struct {
	Symbol   string  `json:"symbol"`
	Token    string  `json:"token"`
	Amount   float64 `json:"amount"`
	PriceUSD float64 `json:"priceUsd"`
	ValueUSD float64 `json:"valueUsd"`
}

// WalletPortfolio is the priced view of one wallet. Recomputed per request,
// never persisted.
type WalletPortfolio struct {
	Address        string       `json:"address"`
	Chain          Chain        `json:"chain"`
	NativeSymbol   string       `json:"nativeSymbol"`
	NativeBalance  float64      `json:"nativeBalance"`
	NativeValueUSD float64      `json:"nativeValueUsd"`
	Tokens         []TokenValue `json:"tokens"`
	TotalValueUSD  float64      `json:"totalValueUsd"`
}

// WalletFailure records a wallet whose aggregation failed. Siblings in the
// same summary still carry complete results.
type WalletFailure struct {
	Address string `json:"address"`
	Chain   Chain  `json:"chain"`
	Reason  string `json:"reason"`
}

// PortfolioSummary combines per-wallet portfolios across chains.
type PortfolioSummary struct {
	Wallets       []WalletPortfolio `json:"wallets"`
	Failed        []WalletFailure   `json:"failed,omitempty"`
	TotalValueUSD float64           `json:"totalValueUsd"`
	GeneratedAt   time.Time         `json:"generatedAt"`
}

package domain

// Significance tier thresholds in USD. Fixed constants, not configurable
// per call.
const (
	SignificanceHighUSD   = 10_000_000
	SignificanceMediumUSD = 1_000_000
)

type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// SignificanceFor maps a USD value to its tier.
func SignificanceFor(valueUSD float64) Significance {
	switch {
	case valueUSD >= SignificanceHighUSD:
		return SignificanceHigh
	case valueUSD >= SignificanceMediumUSD:
		return SignificanceMedium
	default:
		return SignificanceLow
	}
}

// WhaleAlert wraps a transaction that met the caller's USD threshold.
// WalletLabel is set when a counterparty is in the known-wallet registry.
type WhaleAlert struct {
	Tx           TransactionRecord `json:"tx"`
	TokenSymbol  string            `json:"tokenSymbol,omitempty"`
	Amount       float64           `json:"amount"`
	ValueUSD     float64           `json:"valueUsd"`
	WalletLabel  string            `json:"walletLabel,omitempty"`
	Significance Significance      `json:"significance"`
}

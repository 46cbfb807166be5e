package domain

import "time"

// GasQuote is computed fresh on each poll; never cached across polls.
type GasQuote struct {
	Chain           Chain     `json:"chain"`
	BaseFeeGwei     float64   `json:"baseFeeGwei"`
	PriorityFeeGwei float64   `json:"priorityFeeGwei"`
	TotalGwei       float64   `json:"totalGwei"`
	TransferCostUSD float64   `json:"transferCostUsd"`
	FetchedAt       time.Time `json:"fetchedAt"`
}

type GasAlertType string

const (
	GasAlertLow  GasAlertType = "low"
	GasAlertHigh GasAlertType = "high"
)

// GasAlert is emitted when the observed gwei crosses a caller threshold.
type GasAlert struct {
	Type      GasAlertType `json:"type"`
	Chain     Chain        `json:"chain"`
	Quote     GasQuote     `json:"quote"`
	Threshold float64      `json:"threshold"`
}

package domain

import "time"

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignUpcoming  CampaignStatus = "upcoming"
	CampaignCompleted CampaignStatus = "completed"
	CampaignClaiming  CampaignStatus = "claiming"
)

type RequirementType string

const (
	RequirementTxCount    RequirementType = "tx_count"
	RequirementBridge     RequirementType = "bridge_usage"
	RequirementSwapVolume RequirementType = "swap_volume"
	RequirementLiquidity  RequirementType = "liquidity"
	RequirementNFT        RequirementType = "nft_holding"
	RequirementGovernance RequirementType = "governance"
)

// Requirement is a single eligibility criterion. Threshold is meaningful
// only for numeric requirement types (0 = unthresholded).
type Requirement struct {
	Type        RequirementType
	Description string
	Threshold   float64
}

// ClaimWindow bounds when an eligible wallet may claim.
type ClaimWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AirdropCampaign is one entry in the static campaign catalog.
type AirdropCampaign struct {
	Protocol          string
	Chain             Chain
	Status            CampaignStatus
	Requirements      []Requirement
	EstimatedValueUSD float64
	TokenSymbol       string
	ClaimWindow       *ClaimWindow
}

type AirdropStatus string

const (
	AirdropEligible    AirdropStatus = "eligible"
	AirdropNotEligible AirdropStatus = "not_eligible"
	AirdropClaimed     AirdropStatus = "claimed"
	AirdropPending     AirdropStatus = "pending"
	AirdropUnknown     AirdropStatus = "unknown"
)

// AirdropInfo is the per-campaign outcome of an eligibility evaluation.
// The eligibility heuristics are best-effort: only on-chain activity can be
// verified, so statuses lean toward unknown rather than not_eligible.
type AirdropInfo struct {
	Protocol              string        `json:"protocol"`
	Chain                 Chain         `json:"chain"`
	Status                AirdropStatus `json:"status"`
	CompletedRequirements []string      `json:"completedRequirements,omitempty"`
	EstimatedValueUSD     float64       `json:"estimatedValueUsd,omitempty"`
	TokenSymbol           string        `json:"tokenSymbol,omitempty"`
	ClaimWindow           *ClaimWindow  `json:"claimWindow,omitempty"`
}

// EligibilityResult is the full evaluation for one wallet. Cached results are
// returned verbatim, including the original LastChecked timestamp.
type EligibilityResult struct {
	Wallet                 string        `json:"wallet"`
	Airdrops               []AirdropInfo `json:"airdrops"`
	TotalPotentialValueUSD float64       `json:"totalPotentialValueUsd"`
	LastChecked            time.Time     `json:"lastChecked"`
}

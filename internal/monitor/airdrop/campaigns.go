package airdrop

import (
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// DefaultCampaigns is the static campaign catalog. Extending it means
// redeploying; there is no runtime registration path.
func DefaultCampaigns() []domain.AirdropCampaign {
	return []domain.AirdropCampaign{
		{
			Protocol: "zkSync",
			Chain:    domain.ChainEthereum,
			Status:   domain.CampaignClaiming,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "10+ transactions on mainnet", Threshold: 10},
				{Type: domain.RequirementBridge, Description: "Bridged assets to zkSync Era"},
			},
			EstimatedValueUSD: 1200,
			TokenSymbol:       "ZK",
			ClaimWindow: &domain.ClaimWindow{
				Start: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			Protocol: "LayerZero",
			Chain:    domain.ChainEthereum,
			Status:   domain.CampaignCompleted,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "25+ cross-chain messages", Threshold: 25},
				{Type: domain.RequirementBridge, Description: "Used Stargate bridge"},
			},
			EstimatedValueUSD: 800,
			TokenSymbol:       "ZRO",
		},
		{
			Protocol: "Scroll",
			Chain:    domain.ChainEthereum,
			Status:   domain.CampaignClaiming,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "5+ transactions on Scroll", Threshold: 5},
				{Type: domain.RequirementLiquidity, Description: "Provided liquidity on Scroll"},
			},
			EstimatedValueUSD: 450,
			TokenSymbol:       "SCR",
		},
		{
			Protocol: "EigenLayer",
			Chain:    domain.ChainEthereum,
			Status:   domain.CampaignActive,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "Active mainnet wallet", Threshold: 20},
				{Type: domain.RequirementLiquidity, Description: "Restaked ETH"},
				{Type: domain.RequirementGovernance, Description: "Delegated to an operator"},
			},
			EstimatedValueUSD: 1500,
			TokenSymbol:       "EIGEN",
		},
		{
			Protocol: "Arbitrum Odyssey",
			Chain:    domain.ChainArbitrum,
			Status:   domain.CampaignActive,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "15+ transactions on Arbitrum", Threshold: 15},
				{Type: domain.RequirementSwapVolume, Description: "Swapped on an Arbitrum DEX"},
			},
			EstimatedValueUSD: 600,
			TokenSymbol:       "ARB",
		},
		{
			Protocol: "Base Onchain Summer",
			Chain:    domain.ChainBase,
			Status:   domain.CampaignUpcoming,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "5+ transactions on Base", Threshold: 5},
				{Type: domain.RequirementNFT, Description: "Minted a Base NFT"},
			},
			EstimatedValueUSD: 250,
		},
		{
			Protocol: "Jupiter",
			Chain:    domain.ChainSolana,
			Status:   domain.CampaignCompleted,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementSwapVolume, Description: "Swapped on Jupiter before snapshot"},
			},
			EstimatedValueUSD: 700,
			TokenSymbol:       "JUP",
		},
		{
			Protocol: "Kamino",
			Chain:    domain.ChainSolana,
			Status:   domain.CampaignClaiming,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "Active Solana wallet", Threshold: 50},
				{Type: domain.RequirementLiquidity, Description: "Deposited into a Kamino vault"},
			},
			EstimatedValueUSD: 350,
			TokenSymbol:       "KMNO",
		},
		{
			Protocol: "Monad",
			Chain:    domain.ChainEthereum,
			Status:   domain.CampaignUpcoming,
			Requirements: []domain.Requirement{
				{Type: domain.RequirementTxCount, Description: "Active mainnet wallet", Threshold: 30},
				{Type: domain.RequirementGovernance, Description: "Community participation"},
			},
		},
	}
}

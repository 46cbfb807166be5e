// Package airdrop evaluates wallet eligibility against a static campaign
// catalog. Evaluation is a heuristic: only on-chain transaction counts can
// be verified, so statuses degrade to unknown rather than asserting
// ineligibility.
package airdrop

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
)

// CacheTTL is how long an eligibility result is memoized per
// (wallet, chain-filter, protocol-filter) key.
const CacheTTL = 5 * time.Minute

// activityChains is the fixed whitelist of chains where the on-chain
// activity check (transaction count) runs.
var activityChains = map[domain.Chain]bool{
	domain.ChainEthereum: true,
	domain.ChainPolygon:  true,
	domain.ChainArbitrum: true,
	domain.ChainOptimism: true,
	domain.ChainBase:     true,
}

type Engine struct {
	clients   map[domain.Chain]chain.Client
	campaigns []domain.AirdropCampaign
	ttl       time.Duration
	log       *logger.Logger

	mu    sync.RWMutex
	cache map[string]cachedResult
}

type cachedResult struct {
	result   *domain.EligibilityResult
	cachedAt time.Time
}

func NewEngine(clients map[domain.Chain]chain.Client, campaigns []domain.AirdropCampaign) *Engine {
	if campaigns == nil {
		campaigns = DefaultCampaigns()
	}
	return &Engine{
		clients:   clients,
		campaigns: campaigns,
		ttl:       CacheTTL,
		cache:     make(map[string]cachedResult),
		log:       logger.Default().With("component", "airdrop"),
	}
}

// Check evaluates a wallet against the catalog, optionally filtered by
// protocol names and chain. Results are memoized for 5 minutes; a cache
// hit returns the prior result verbatim, original LastChecked included,
// and re-runs no activity checks. The returned result is a read-only view.
func (e *Engine) Check(ctx context.Context, wallet string, protocols []string, chainFilter domain.Chain) (*domain.EligibilityResult, error) {
	key := cacheKey(wallet, protocols, chainFilter)

	e.mu.RLock()
	if entry, ok := e.cache[key]; ok && time.Since(entry.cachedAt) < e.ttl {
		e.mu.RUnlock()
		return entry.result, nil
	}
	e.mu.RUnlock()

	result := &domain.EligibilityResult{
		Wallet:      wallet,
		Airdrops:    []domain.AirdropInfo{},
		LastChecked: time.Now().UTC(),
	}

	// transaction counts are shared between campaigns on the same chain
	txCounts := make(map[domain.Chain]uint64)
	txErrors := make(map[domain.Chain]bool)

	for _, campaign := range e.campaigns {
		if !matches(campaign, protocols, chainFilter) {
			continue
		}

		supported := activityChains[campaign.Chain] && e.clients[campaign.Chain] != nil
		var txCount uint64
		checkFailed := false
		if supported {
			if txErrors[campaign.Chain] {
				checkFailed = true
			} else if n, ok := txCounts[campaign.Chain]; ok {
				txCount = n
			} else {
				addr := domain.NormalizeAddress(campaign.Chain, wallet)
				n, err := e.clients[campaign.Chain].GetTransactionCount(ctx, addr)
				if err != nil {
					// degrade this campaign only; siblings keep evaluating
					e.log.Warn("activity check failed", "chain", campaign.Chain, "error", err)
					txErrors[campaign.Chain] = true
					checkFailed = true
				} else {
					txCounts[campaign.Chain] = n
					txCount = n
				}
			}
		}

		info := evaluate(campaign, supported && !checkFailed, txCount)
		if checkFailed {
			info.Status = domain.AirdropUnknown
			info.CompletedRequirements = nil
		}
		if info.Status == domain.AirdropEligible {
			result.TotalPotentialValueUSD += campaign.EstimatedValueUSD
		}
		result.Airdrops = append(result.Airdrops, info)
	}

	e.mu.Lock()
	e.cache[key] = cachedResult{result: result, cachedAt: time.Now()}
	e.mu.Unlock()

	return result, nil
}

// ClearCache drops all memoized results.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	e.cache = make(map[string]cachedResult)
	e.mu.Unlock()
}

func evaluate(campaign domain.AirdropCampaign, checked bool, txCount uint64) domain.AirdropInfo {
	info := domain.AirdropInfo{
		Protocol:          campaign.Protocol,
		Chain:             campaign.Chain,
		EstimatedValueUSD: campaign.EstimatedValueUSD,
		TokenSymbol:       campaign.TokenSymbol,
		ClaimWindow:       campaign.ClaimWindow,
	}

	if campaign.Status == domain.CampaignCompleted {
		info.Status = domain.AirdropClaimed
		return info
	}

	satisfied := 0
	txReqMet := false
	for _, req := range campaign.Requirements {
		if req.Type != domain.RequirementTxCount || !checked {
			// only transaction counts are verifiable on-chain
			continue
		}
		if float64(txCount) >= req.Threshold {
			satisfied++
			txReqMet = true
			info.CompletedRequirements = append(info.CompletedRequirements, req.Description)
		}
	}

	switch {
	case campaign.Status == domain.CampaignClaiming:
		if satisfied > 0 {
			info.Status = domain.AirdropEligible
		} else {
			info.Status = domain.AirdropUnknown
		}
	case txReqMet || satisfied >= 2:
		info.Status = domain.AirdropEligible
	case satisfied >= 1:
		info.Status = domain.AirdropPending
	default:
		info.Status = domain.AirdropUnknown
	}

	return info
}

func matches(campaign domain.AirdropCampaign, protocols []string, chainFilter domain.Chain) bool {
	if chainFilter != "" && campaign.Chain != chainFilter {
		return false
	}
	if len(protocols) == 0 {
		return true
	}
	for _, p := range protocols {
		if strings.EqualFold(p, campaign.Protocol) {
			return true
		}
	}
	return false
}

func cacheKey(wallet string, protocols []string, chainFilter domain.Chain) string {
	sorted := make([]string, len(protocols))
	for i, p := range protocols {
		sorted[i] = strings.ToLower(p)
	}
	sort.Strings(sorted)
	return wallet + "|" + string(chainFilter) + "|" + strings.Join(sorted, ",")
}

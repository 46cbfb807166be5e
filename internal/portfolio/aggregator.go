// Package portfolio combines native and token balances with cached prices
// into USD-denominated portfolios.
package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger "log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// walletConcurrency bounds the fan-out across wallets in one summary.
const walletConcurrency = 5

type Aggregator struct {
	clients map[domain.Chain]chain.Client
	prices  *price.Cache
	tokens  *registry.TokenRegistry
	log     *logger.Logger
}

func NewAggregator(clients map[domain.Chain]chain.Client, prices *price.Cache, tokens *registry.TokenRegistry) *Aggregator {
	return &Aggregator{
		clients: clients,
		prices:  prices,
		tokens:  tokens,
		log:     logger.Default().With("component", "portfolio"),
	}
}

// WalletPortfolio prices one wallet: native balance plus every non-zero
// registry token. Tokens whose balance lookup fails are skipped entirely,
// never reported as zero.
func (a *Aggregator) WalletPortfolio(ctx context.Context, w domain.WalletAddress) (*domain.WalletPortfolio, error) {
	client, ok := a.clients[w.Chain]
	if !ok {
		return nil, fmt.Errorf("no client configured for chain %s", w.Chain)
	}

	native, err := client.GetNativeBalance(ctx, w.Address)
	if err != nil {
		return nil, fmt.Errorf("native balance: %w", err)
	}

	catalog := a.tokens.TokensFor(w.Chain)

	// one batched price lookup for the native asset and the whole catalog
	symbols := make([]string, 0, len(catalog)+1)
	symbols = append(symbols, w.Chain.NativeSymbol())
	for _, t := range catalog {
		symbols = append(symbols, t.Symbol)
	}
	prices := a.prices.GetPrices(ctx, symbols)

	p := &domain.WalletPortfolio{
		Address:       w.Address,
		Chain:         w.Chain,
		NativeSymbol:  native.Symbol,
		NativeBalance: native.Formatted,
		Tokens:        []domain.TokenValue{},
	}
	p.NativeValueUSD = native.Formatted * prices[w.Chain.NativeSymbol()]
	p.TotalValueUSD = p.NativeValueUSD

	for _, t := range catalog {
		balance, err := client.GetTokenBalance(ctx, w.Address, t.Address)
		if err != nil {
			// a failed lookup is not a zero balance; omit the token
			a.log.Debug("token balance lookup failed, skipping",
				"chain", w.Chain, "token", t.Symbol, "error", err)
			continue
		}
		if balance.Raw == nil || balance.Raw.Sign() == 0 {
			continue
		}

		unit := prices[t.Symbol]
		value := balance.Formatted * unit
		p.Tokens = append(p.Tokens, domain.TokenValue{
			Symbol:   t.Symbol,
			Token:    t.Address,
			Amount:   balance.Formatted,
			PriceUSD: unit,
			ValueUSD: value,
		})
		p.TotalValueUSD += value
	}

	return p, nil
}

// Summary aggregates many wallets concurrently. Wallets are independent:
// one chain's failure is recorded under Failed and never blocks or nulls
// out sibling results. Results are combined only after every wallet settles.
func (a *Aggregator) Summary(ctx context.Context, wallets []domain.WalletAddress) (*domain.PortfolioSummary, error) {
	summary := &domain.PortfolioSummary{
		Wallets:     []domain.WalletPortfolio{},
		GeneratedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(walletConcurrency)

	for _, w := range wallets {
		w := w
		g.Go(func() error {
			p, err := a.WalletPortfolio(ctx, w)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed = append(summary.Failed, domain.WalletFailure{
					Address: w.Address,
					Chain:   w.Chain,
					Reason:  err.Error(),
				})
				return nil
			}
			summary.Wallets = append(summary.Wallets, *p)
			summary.TotalValueUSD += p.TotalValueUSD
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Package gas polls per-chain fee data on an interval and alerts when the
// observed gwei crosses caller-supplied thresholds.
package gas

import (
	"context"
	"fmt"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/price"
)

// transferGas is the gas used by a standard native transfer.
const transferGas = 21000

// DefaultInterval is the polling cadence when the caller supplies none.
const DefaultInterval = 60 * time.Second

type Monitor struct {
	clients map[domain.Chain]chain.Client
	prices  *price.Cache
	log     *logger.Logger
}

func NewMonitor(clients map[domain.Chain]chain.Client, prices *price.Cache) *Monitor {
	return &Monitor{
		clients: clients,
		prices:  prices,
		log:     logger.Default().With("component", "gas"),
	}
}

// Thresholds are the caller's alerting bounds in gwei.
type Thresholds struct {
	LowGwei  float64
	HighGwei float64
}

// Quote fetches a fresh fee observation for one chain and prices a
// standard transfer in USD.
func (m *Monitor) Quote(ctx context.Context, chainID domain.Chain) (domain.GasQuote, error) {
	client, ok := m.clients[chainID]
	if !ok {
		return domain.GasQuote{}, fmt.Errorf("no client configured for chain %s", chainID)
	}

	fees, err := client.GetFeeData(ctx)
	if err != nil {
		return domain.GasQuote{}, fmt.Errorf("fee data: %w", err)
	}

	total := fees.BaseFeeGwei + fees.PriorityFeeGwei
	nativePrice := m.prices.GetNativeTokenPrice(ctx, chainID)

	return domain.GasQuote{
		Chain:           chainID,
		BaseFeeGwei:     fees.BaseFeeGwei,
		PriorityFeeGwei: fees.PriorityFeeGwei,
		TotalGwei:       total,
		TransferCostUSD: total * 1e-9 * transferGas * nativePrice,
		FetchedAt:       time.Now().UTC(),
	}, nil
}

// Monitor polls the given chains on the interval and invokes onAlert when
// a quote crosses a threshold. An initial check runs immediately before
// the interval begins. A chain's failed poll is logged and skipped; the
// loop keeps running for the others.
func (m *Monitor) Monitor(ctx context.Context, t Thresholds, chains []domain.Chain, interval time.Duration, onAlert func(domain.GasAlert)) chain.CancelFunc {
	if interval <= 0 {
		interval = DefaultInterval
	}

	stop := make(chan struct{})
	cancel := chain.Once(func() { close(stop) })

	go func() {
		check := func() {
			for _, chainID := range chains {
				quote, err := m.Quote(ctx, chainID)
				if err != nil {
					m.log.Warn("gas poll failed", "chain", chainID, "error", err)
					continue
				}

				alert, ok := classify(quote, t)
				if !ok {
					continue
				}
				select {
				case <-stop:
					return
				case <-ctx.Done():
					return
				default:
					onAlert(alert)
				}
			}
		}

		check()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()

	return cancel
}

// classify emits at most one alert per quote: low wins below the low
// threshold, high above the high threshold.
func classify(quote domain.GasQuote, t Thresholds) (domain.GasAlert, bool) {
	switch {
	case t.LowGwei > 0 && quote.TotalGwei < t.LowGwei:
		return domain.GasAlert{
			Type:      domain.GasAlertLow,
			Chain:     quote.Chain,
			Quote:     quote,
			Threshold: t.LowGwei,
		}, true
	case t.HighGwei > 0 && quote.TotalGwei > t.HighGwei:
		return domain.GasAlert{
			Type:      domain.GasAlertHigh,
			Chain:     quote.Chain,
			Quote:     quote,
			Threshold: t.HighGwei,
		}, true
	default:
		return domain.GasAlert{}, false
	}
}

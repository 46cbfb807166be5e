package gas

import (
	"context"
	"testing"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/price"
)

// =============================================================================
// Mocks
// =============================================================================

type mockClient struct {
	chainName domain.Chain
	fees      chain.FeeData
	feeErr    error
}

func (m *mockClient) Chain() domain.Chain            { return m.chainName }
func (m *mockClient) Ping(ctx context.Context) error { return nil }
func (m *mockClient) GetNativeBalance(ctx context.Context, address string) (domain.AssetBalance, error) {
	return domain.AssetBalance{}, nil
}
func (m *mockClient) GetTokenBalance(ctx context.Context, wallet, token string) (domain.AssetBalance, error) {
	return domain.AssetBalance{}, nil
}
func (m *mockClient) GetRecentTransactions(ctx context.Context, address string, limit int) ([]domain.TransactionRecord, error) {
	return nil, nil
}
func (m *mockClient) GetTransactionCount(ctx context.Context, address string) (uint64, error) {
	return 0, nil
}
func (m *mockClient) GetFeeData(ctx context.Context) (chain.FeeData, error) {
	return m.fees, m.feeErr
}
func (m *mockClient) WatchLogs(ctx context.Context, addresses []string, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	return func() {}, nil
}

type staticProvider struct {
	quotes map[string]price.Quote
}

func (p staticProvider) FetchQuotes(ctx context.Context, ids []string) (map[string]price.Quote, error) {
	out := make(map[string]price.Quote)
	for _, id := range ids {
		if q, ok := p.quotes[id]; ok {
			out[id] = q
		}
	}
	return out, nil
}

func newMonitor(client *mockClient, quotes map[string]price.Quote) *Monitor {
	return NewMonitor(
		map[domain.Chain]chain.Client{client.chainName: client},
		price.NewCache(staticProvider{quotes: quotes}, time.Minute),
	)
}

// =============================================================================
// Tests
// =============================================================================

func TestQuote_TransferCostUSD(t *testing.T) {
	client := &mockClient{
		chainName: domain.ChainEthereum,
		fees:      chain.FeeData{BaseFeeGwei: 20, PriorityFeeGwei: 2},
	}
	m := newMonitor(client, map[string]price.Quote{"ethereum": {PriceUSD: 2500}})

	quote, err := m.Quote(context.Background(), domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}

	if quote.TotalGwei != 22 {
		t.Errorf("expected total 22 gwei, got %v", quote.TotalGwei)
	}
	// 22 gwei * 21000 gas * 1e-9 * $2500 = $1.155
	want := 22.0 * 1e-9 * 21000 * 2500
	if diff := quote.TransferCostUSD - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected transfer cost %v, got %v", want, quote.TransferCostUSD)
	}
}

func TestQuote_UnconfiguredChain(t *testing.T) {
	m := newMonitor(&mockClient{chainName: domain.ChainEthereum}, nil)

	if _, err := m.Quote(context.Background(), domain.ChainPolygon); err == nil {
		t.Fatal("expected error for unconfigured chain")
	}
}

func TestClassify_LowThreshold(t *testing.T) {
	quote := domain.GasQuote{Chain: domain.ChainEthereum, TotalGwei: 12}

	alert, ok := classify(quote, Thresholds{LowGwei: 15, HighGwei: 100})
	if !ok {
		t.Fatal("expected an alert for 12 gwei under low threshold 15")
	}
	if alert.Type != domain.GasAlertLow {
		t.Errorf("expected low alert, got %s", alert.Type)
	}
	if alert.Threshold != 15 {
		t.Errorf("expected threshold 15, got %v", alert.Threshold)
	}
}

func TestClassify_HighThreshold(t *testing.T) {
	quote := domain.GasQuote{Chain: domain.ChainEthereum, TotalGwei: 150}

	alert, ok := classify(quote, Thresholds{LowGwei: 15, HighGwei: 100})
	if !ok {
		t.Fatal("expected an alert for 150 gwei over high threshold 100")
	}
	if alert.Type != domain.GasAlertHigh {
		t.Errorf("expected high alert, got %s", alert.Type)
	}
}

func TestClassify_InBandEmitsNothing(t *testing.T) {
	quote := domain.GasQuote{Chain: domain.ChainEthereum, TotalGwei: 50}

	if _, ok := classify(quote, Thresholds{LowGwei: 15, HighGwei: 100}); ok {
		t.Error("expected no alert for in-band gwei")
	}
}

func TestClassify_ZeroThresholdsDisabled(t *testing.T) {
	quote := domain.GasQuote{Chain: domain.ChainEthereum, TotalGwei: 5}

	if _, ok := classify(quote, Thresholds{}); ok {
		t.Error("zero thresholds must disable alerting")
	}
}

func TestMonitor_InitialCheckEmitsOneAlert(t *testing.T) {
	client := &mockClient{
		chainName: domain.ChainEthereum,
		fees:      chain.FeeData{BaseFeeGwei: 11, PriorityFeeGwei: 1},
	}
	m := newMonitor(client, map[string]price.Quote{"ethereum": {PriceUSD: 2500}})

	alerts := make(chan domain.GasAlert, 10)
	cancel := m.Monitor(context.Background(), Thresholds{LowGwei: 15}, []domain.Chain{domain.ChainEthereum}, time.Hour, func(a domain.GasAlert) {
		alerts <- a
	})
	defer cancel()

	select {
	case a := <-alerts:
		if a.Type != domain.GasAlertLow {
			t.Errorf("expected low alert, got %s", a.Type)
		}
		if a.Quote.TotalGwei != 12 {
			t.Errorf("expected 12 gwei observed, got %v", a.Quote.TotalGwei)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate initial check")
	}

	// One chain, one quote: exactly one alert before the next tick.
	select {
	case a := <-alerts:
		t.Fatalf("unexpected second alert: %+v", a)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMonitor_FailedPollSkipsChain(t *testing.T) {
	client := &mockClient{chainName: domain.ChainEthereum, feeErr: chain.ErrChainUnavailable}
	m := newMonitor(client, nil)

	called := make(chan struct{}, 1)
	cancel := m.Monitor(context.Background(), Thresholds{LowGwei: 1000}, []domain.Chain{domain.ChainEthereum}, time.Hour, func(domain.GasAlert) {
		called <- struct{}{}
	})
	defer cancel()

	select {
	case <-called:
		t.Fatal("expected no alert from a failing chain")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMonitor_CancelIdempotent(t *testing.T) {
	client := &mockClient{chainName: domain.ChainEthereum}
	m := newMonitor(client, nil)

	cancel := m.Monitor(context.Background(), Thresholds{}, nil, time.Hour, nil)
	cancel()
	cancel() // second call must be a no-op
}

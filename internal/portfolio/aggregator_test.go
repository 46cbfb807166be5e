package portfolio

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// =============================================================================
// Mocks
// =============================================================================

type mockClient struct {
	chainName domain.Chain
	native    domain.AssetBalance
	nativeErr error
	// tokens maps token address to balance; missing entries error out
	tokens map[string]domain.AssetBalance
}

func (m *mockClient) Chain() domain.Chain            { return m.chainName }
func (m *mockClient) Ping(ctx context.Context) error { return nil }
func (m *mockClient) GetNativeBalance(ctx context.Context, address string) (domain.AssetBalance, error) {
	return m.native, m.nativeErr
}
func (m *mockClient) GetTokenBalance(ctx context.Context, wallet, token string) (domain.AssetBalance, error) {
	if b, ok := m.tokens[token]; ok {
		return b, nil
	}
	return domain.AssetBalance{}, chain.ErrChainUnavailable
}
func (m *mockClient) GetRecentTransactions(ctx context.Context, address string, limit int) ([]domain.TransactionRecord, error) {
	return nil, nil
}
func (m *mockClient) GetTransactionCount(ctx context.Context, address string) (uint64, error) {
	return 0, nil
}
func (m *mockClient) GetFeeData(ctx context.Context) (chain.FeeData, error) {
	return chain.FeeData{}, chain.ErrUnsupported
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

func newAggregator(clients map[domain.Chain]chain.Client, quotes map[string]price.Quote) *Aggregator {
	cache := price.NewCache(staticProvider{quotes: quotes}, time.Minute)
	return NewAggregator(clients, cache, registry.NewTokenRegistry())
}

// =============================================================================
// Tests
// =============================================================================

func TestWalletPortfolio_NativeOnly(t *testing.T) {
	client := &mockClient{
		chainName: domain.ChainEthereum,
		native: domain.AssetBalance{
			Symbol:    "ETH",
			Raw:       big.NewInt(2_000_000_000_000_000_000),
			Decimals:  18,
			Formatted: 2.0,
		},
	}
	agg := newAggregator(
		map[domain.Chain]chain.Client{domain.ChainEthereum: client},
		map[string]price.Quote{"ethereum": {PriceUSD: 2500}},
	)

	p, err := agg.WalletPortfolio(context.Background(), domain.NewWalletAddress(domain.ChainEthereum, "0xABC0000000000000000000000000000000000001"))
	if err != nil {
		t.Fatalf("WalletPortfolio failed: %v", err)
	}

	if p.NativeValueUSD != 5000 {
		t.Errorf("expected native value 5000, got %v", p.NativeValueUSD)
	}
	// Every token lookup failed, so tokens are omitted and total equals native.
	if len(p.Tokens) != 0 {
		t.Errorf("expected no token rows, got %d", len(p.Tokens))
	}
	if p.TotalValueUSD != 5000 {
		t.Errorf("expected total 5000, got %v", p.TotalValueUSD)
	}
}

func TestWalletPortfolio_SkipsZeroBalances(t *testing.T) {
	usdc := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	dai := "0x6b175474e89094c44da98b954eedeac495271d0f"
	client := &mockClient{
		chainName: domain.ChainEthereum,
		native: domain.AssetBalance{
			Symbol:    "ETH",
			Raw:       big.NewInt(1_000_000_000_000_000_000),
			Decimals:  18,
			Formatted: 1.0,
		},
		tokens: map[string]domain.AssetBalance{
			usdc: {Symbol: "USDC", Raw: big.NewInt(1_000_000_000), Decimals: 6, Formatted: 1000},
			dai:  {Symbol: "DAI", Raw: big.NewInt(0), Decimals: 18, Formatted: 0},
		},
	}
	agg := newAggregator(
		map[domain.Chain]chain.Client{domain.ChainEthereum: client},
		map[string]price.Quote{
			"ethereum": {PriceUSD: 2500},
			"usd-coin": {PriceUSD: 1},
		},
	)

	p, err := agg.WalletPortfolio(context.Background(), domain.NewWalletAddress(domain.ChainEthereum, "0xABC0000000000000000000000000000000000001"))
	if err != nil {
		t.Fatalf("WalletPortfolio failed: %v", err)
	}

	if len(p.Tokens) != 1 {
		t.Fatalf("expected 1 token row (zero DAI omitted), got %d", len(p.Tokens))
	}
	if p.Tokens[0].Symbol != "USDC" || p.Tokens[0].ValueUSD != 1000 {
		t.Errorf("unexpected token row: %+v", p.Tokens[0])
	}
	if p.TotalValueUSD != 3500 {
		t.Errorf("expected total 3500, got %v", p.TotalValueUSD)
	}
}

func TestWalletPortfolio_NativeFailureErrors(t *testing.T) {
	client := &mockClient{
		chainName: domain.ChainEthereum,
		nativeErr: chain.ErrChainUnavailable,
	}
	agg := newAggregator(
		map[domain.Chain]chain.Client{domain.ChainEthereum: client},
		nil,
	)

	_, err := agg.WalletPortfolio(context.Background(), domain.NewWalletAddress(domain.ChainEthereum, "0xABC0000000000000000000000000000000000001"))
	if err == nil {
		t.Fatal("expected error when native balance is unavailable")
	}
}

func TestSummary_FailureIsolation(t *testing.T) {
	healthy := &mockClient{
		chainName: domain.ChainEthereum,
		native: domain.AssetBalance{
			Symbol:    "ETH",
			Raw:       big.NewInt(1_000_000_000_000_000_000),
			Decimals:  18,
			Formatted: 1.0,
		},
	}
	broken := &mockClient{
		chainName: domain.ChainPolygon,
		nativeErr: chain.ErrChainUnavailable,
	}
	agg := newAggregator(
		map[domain.Chain]chain.Client{
			domain.ChainEthereum: healthy,
			domain.ChainPolygon:  broken,
		},
		map[string]price.Quote{"ethereum": {PriceUSD: 2500}},
	)

	summary, err := agg.Summary(context.Background(), []domain.WalletAddress{
		domain.NewWalletAddress(domain.ChainEthereum, "0xABC0000000000000000000000000000000000001"),
		domain.NewWalletAddress(domain.ChainPolygon, "0xABC0000000000000000000000000000000000002"),
	})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if len(summary.Wallets) != 1 {
		t.Fatalf("expected 1 aggregated wallet, got %d", len(summary.Wallets))
	}
	if len(summary.Failed) != 1 {
		t.Fatalf("expected 1 failed wallet, got %d", len(summary.Failed))
	}
	if summary.Failed[0].Chain != domain.ChainPolygon {
		t.Errorf("expected polygon failure, got %s", summary.Failed[0].Chain)
	}
	if summary.TotalValueUSD != 2500 {
		t.Errorf("expected total 2500, got %v", summary.TotalValueUSD)
	}
}

package whale

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/monitor/events"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// =============================================================================
// Mocks
// =============================================================================

type mockClient struct {
	chainName domain.Chain
	onLog     func(chain.Log)
	txs       map[string][]domain.TransactionRecord
	txErrs    map[string]error
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
	if err, ok := m.txErrs[address]; ok {
		return nil, err
	}
	return m.txs[address], nil
}
func (m *mockClient) GetTransactionCount(ctx context.Context, address string) (uint64, error) {
	return 0, nil
}
func (m *mockClient) GetFeeData(ctx context.Context) (chain.FeeData, error) {
	return chain.FeeData{}, chain.ErrUnsupported
}
func (m *mockClient) WatchLogs(ctx context.Context, addresses []string, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	m.onLog = onLog
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

func newClassifier(client *mockClient, quotes map[string]price.Quote) *Classifier {
	return NewClassifier(
		map[domain.Chain]chain.Client{client.chainName: client},
		price.NewCache(staticProvider{quotes: quotes}, time.Minute),
		registry.NewTokenRegistry(),
		registry.NewKnownWalletRegistry(),
	)
}

func padTopic(addr string) string {
	return "0x000000000000000000000000" + strings.TrimPrefix(strings.ToLower(addr), "0x")
}

func transferLog(token, from, to string, value *big.Int) chain.Log {
	return chain.Log{
		Chain:   domain.ChainEthereum,
		Address: token,
		Topics:  []string{events.TopicTransfer, padTopic(from), padTopic(to)},
		Data:    fmt.Sprintf("0x%064x", value),
		TxHash:  "0xdeadbeef",
	}
}

const (
	usdcAddr    = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	binance14   = "0x28c6c06298d514db089934071355e5743bf21d60"
	wormhole    = "0x3ee18b2214aff97000d974cf647e7c347e8fa585"
	uniRouter   = "0xe592427a0aece92de3edee1f18e0157c05861564"
	randomAddr  = "0x1234567890123456789012345678901234567890"
	randomAddr2 = "0x0987654321098765432109876543210987654321"
)

// =============================================================================
// Tests
// =============================================================================

func TestWatch_ThresholdFiltering(t *testing.T) {
	client := &mockClient{chainName: domain.ChainEthereum}
	c := newClassifier(client, map[string]price.Quote{"usd-coin": {PriceUSD: 1}})

	var alerts []domain.WhaleAlert
	cancel, err := c.Watch(context.Background(), WatchConfig{
		Chain:       domain.ChainEthereum,
		Tokens:      []string{usdcAddr},
		MinValueUSD: 1_000_000,
	}, func(a domain.WhaleAlert) { alerts = append(alerts, a) })
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer cancel()

	// 500k USDC: below threshold, dropped.
	client.onLog(transferLog(usdcAddr, randomAddr, randomAddr2, big.NewInt(500_000_000_000)))
	// 2M USDC: above threshold.
	client.onLog(transferLog(usdcAddr, randomAddr, randomAddr2, big.NewInt(2_000_000_000_000)))

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.ValueUSD != 2_000_000 {
		t.Errorf("expected value 2000000, got %v", a.ValueUSD)
	}
	if a.Significance != domain.SignificanceMedium {
		t.Errorf("expected medium significance, got %s", a.Significance)
	}
	if a.TokenSymbol != "USDC" {
		t.Errorf("expected USDC, got %s", a.TokenSymbol)
	}
}

func TestWatch_UnregisteredTokenSkipped(t *testing.T) {
	client := &mockClient{chainName: domain.ChainEthereum}
	c := newClassifier(client, map[string]price.Quote{"usd-coin": {PriceUSD: 1}})

	var alerts []domain.WhaleAlert
	cancel, err := c.Watch(context.Background(), WatchConfig{
		Chain:       domain.ChainEthereum,
		Tokens:      []string{randomAddr},
		MinValueUSD: 1,
	}, func(a domain.WhaleAlert) { alerts = append(alerts, a) })
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer cancel()

	// Token not in the registry: decimals unknown, transfer dropped.
	client.onLog(transferLog(randomAddr, binance14, randomAddr2, big.NewInt(1_000_000)))

	if len(alerts) != 0 {
		t.Errorf("expected no alerts for unregistered token, got %d", len(alerts))
	}
}

func TestWatch_RequiresTokens(t *testing.T) {
	c := newClassifier(&mockClient{chainName: domain.ChainEthereum}, nil)

	if _, err := c.Watch(context.Background(), WatchConfig{Chain: domain.ChainEthereum}, nil); err == nil {
		t.Fatal("expected error for empty token list")
	}
}

func TestScanRecent_NativeThreshold(t *testing.T) {
	// 5 ETH at $2500 = $12,500: over a 10k threshold, low significance.
	client := &mockClient{
		chainName: domain.ChainEthereum,
		txs: map[string][]domain.TransactionRecord{
			binance14: {
				{Hash: "0x1", From: binance14, To: randomAddr, Value: "5000000000000000000", Chain: domain.ChainEthereum},
				{Hash: "0x2", From: binance14, To: randomAddr, Value: "1000000000000000", Chain: domain.ChainEthereum},
			},
		},
	}
	c := newClassifier(client, map[string]price.Quote{"ethereum": {PriceUSD: 2500}})

	alerts, err := c.ScanRecent(context.Background(), domain.ChainEthereum, 10_000)
	if err != nil {
		t.Fatalf("ScanRecent failed: %v", err)
	}

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.ValueUSD != 12_500 {
		t.Errorf("expected value 12500, got %v", a.ValueUSD)
	}
	if a.Significance != domain.SignificanceLow {
		t.Errorf("expected low significance, got %s", a.Significance)
	}
	if a.WalletLabel != "Binance 14" {
		t.Errorf("expected Binance 14 label, got %q", a.WalletLabel)
	}
}

func TestScanRecent_WalletFailureSkipped(t *testing.T) {
	client := &mockClient{
		chainName: domain.ChainEthereum,
		txErrs:    map[string]error{binance14: chain.ErrChainUnavailable},
		txs: map[string][]domain.TransactionRecord{
			"0x21a31ee1afc51d94c2efccaa2092ad1028285549": {
				{Hash: "0x1", From: randomAddr, To: randomAddr2, Value: "10000000000000000000", Chain: domain.ChainEthereum},
			},
		},
	}
	c := newClassifier(client, map[string]price.Quote{"ethereum": {PriceUSD: 2500}})

	alerts, err := c.ScanRecent(context.Background(), domain.ChainEthereum, 10_000)
	if err != nil {
		t.Fatalf("ScanRecent failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("expected failing wallet to be skipped, got %d alerts", len(alerts))
	}
}

func TestClassify(t *testing.T) {
	c := newClassifier(&mockClient{chainName: domain.ChainEthereum}, nil)

	tests := []struct {
		name      string
		from, to  string
		wantType  domain.TxType
		wantLabel string
	}{
		{"bridge counterparty", randomAddr, wormhole, domain.TxTypeBridge, "Wormhole Bridge"},
		{"dex router", randomAddr, uniRouter, domain.TxTypeSwap, "Uniswap V3 Router"},
		{"exchange transfer", binance14, randomAddr, domain.TxTypeTransfer, "Binance 14"},
		{"unknown parties", randomAddr, randomAddr2, domain.TxTypeTransfer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txType, label := c.Classify(domain.ChainEthereum, tt.from, tt.to)
			if txType != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, txType)
			}
			if label != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, label)
			}
		})
	}
}

// Package engine wires every monitoring component behind a single facade.
// An Engine instance owns its caches, registries and subscription table;
// nothing in this package is shared process-wide.
package engine

import (
	"context"
	logger "log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SolTwizzy/chainpulse/internal/alert"
	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
	"github.com/SolTwizzy/chainpulse/internal/monitor/airdrop"
	"github.com/SolTwizzy/chainpulse/internal/monitor/events"
	"github.com/SolTwizzy/chainpulse/internal/monitor/gas"
	"github.com/SolTwizzy/chainpulse/internal/monitor/whale"
	"github.com/SolTwizzy/chainpulse/internal/portfolio"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// SubscriptionKind labels what a live subscription is watching.
type SubscriptionKind string

const (
	SubWhale  SubscriptionKind = "whale"
	SubEvents SubscriptionKind = "events"
	SubGas    SubscriptionKind = "gas"
)

// Subscription describes one live watch registered on the engine.
type Subscription struct {
	ID        string           `json:"id"`
	Kind      SubscriptionKind `json:"kind"`
	Chain     domain.Chain     `json:"chain"`
	Target    string           `json:"target,omitempty"`
	CreatedAt time.Time        `json:"created_at"`

	cancel chain.CancelFunc
}

// Engine is the single entry point to all monitoring operations.
type Engine struct {
	clients    map[domain.Chain]chain.Client
	prices     *price.Cache
	tokens     *registry.TokenRegistry
	wallets    *registry.KnownWalletRegistry
	portfolio  *portfolio.Aggregator
	whales     *whale.Classifier
	airdrops   *airdrop.Engine
	events     *events.Watcher
	gas        *gas.Monitor
	dispatcher *alert.Dispatcher
	channels   []alert.ChannelConfig

	subMu sync.Mutex
	subs  map[string]*Subscription

	log *logger.Logger
}

// New builds an engine over the given chain clients and price cache.
// Alert channels may be empty; SendAlert is then a no-op.
func New(clients map[domain.Chain]chain.Client, prices *price.Cache, channels []alert.ChannelConfig) *Engine {
	tokens := registry.NewTokenRegistry()
	wallets := registry.NewKnownWalletRegistry()

	return &Engine{
		clients:    clients,
		prices:     prices,
		tokens:     tokens,
		wallets:    wallets,
		portfolio:  portfolio.NewAggregator(clients, prices, tokens),
		whales:     whale.NewClassifier(clients, prices, tokens, wallets),
		airdrops:   airdrop.NewEngine(clients, airdrop.DefaultCampaigns()),
		events:     events.NewWatcher(clients, tokens),
		gas:        gas.NewMonitor(clients, prices),
		dispatcher: alert.NewDispatcher(),
		channels:   channels,
		subs:       make(map[string]*Subscription),
		log:        logger.Default().With("component", "engine"),
	}
}

// Tokens exposes the token registry for callers that resolve metadata.
func (e *Engine) Tokens() *registry.TokenRegistry { return e.tokens }

// Wallets exposes the known-wallet registry.
func (e *Engine) Wallets() *registry.KnownWalletRegistry { return e.wallets }

// Prices exposes the shared price cache.
func (e *Engine) Prices() *price.Cache { return e.prices }

// GetWalletPortfolio aggregates one wallet's holdings valued in USD.
func (e *Engine) GetWalletPortfolio(ctx context.Context, w domain.WalletAddress) (*domain.WalletPortfolio, error) {
	return e.portfolio.WalletPortfolio(ctx, w)
}

// GetPortfolioSummary aggregates a set of wallets concurrently. Wallets whose
// chain is unreachable are reported in the summary's Failed list rather than
// failing the whole call.
func (e *Engine) GetPortfolioSummary(ctx context.Context, wallets []domain.WalletAddress) (*domain.PortfolioSummary, error) {
	return e.portfolio.Summary(ctx, wallets)
}

// MonitorWhaleTransactions starts a live transfer watch and returns the
// subscription ID. The watch runs until cancelled via the subscription.
func (e *Engine) MonitorWhaleTransactions(ctx context.Context, cfg whale.WatchConfig, onAlert func(domain.WhaleAlert)) (string, error) {
	cancel, err := e.whales.Watch(ctx, cfg, onAlert)
	if err != nil {
		return "", err
	}
	return e.register(SubWhale, cfg.Chain, "", cancel), nil
}

// ScanWhaleActivity checks recent transactions of tracked known wallets
// for transfers at or above minValueUSD.
func (e *Engine) ScanWhaleActivity(ctx context.Context, chainID domain.Chain, minValueUSD float64) ([]domain.WhaleAlert, error) {
	return e.whales.ScanRecent(ctx, chainID, minValueUSD)
}

// CheckAirdropEligibility evaluates a wallet against tracked campaigns.
func (e *Engine) CheckAirdropEligibility(ctx context.Context, wallet string, protocols []string, chainFilter domain.Chain) (*domain.EligibilityResult, error) {
	return e.airdrops.Check(ctx, wallet, protocols, chainFilter)
}

// WatchContractEvents starts a decoded event watch on one contract and
// returns the subscription ID.
func (e *Engine) WatchContractEvents(ctx context.Context, cfg domain.ContractConfig, onEvent func(domain.ContractEvent)) (string, error) {
	cancel, err := e.events.Watch(ctx, cfg, onEvent)
	if err != nil {
		return "", err
	}
	return e.register(SubEvents, cfg.Chain, cfg.Address, cancel), nil
}

// GetContractEvents returns up to limit buffered events for a watched
// contract, most recent last.
func (e *Engine) GetContractEvents(chainID domain.Chain, address string, limit int) []domain.ContractEvent {
	return e.events.Events(chainID, address, limit)
}

// GetEventSummary returns the top event names by count over the window.
func (e *Engine) GetEventSummary(chainID domain.Chain, address string, window time.Duration) []events.EventCount {
	return e.events.EventSummary(chainID, address, window)
}

// GetGasQuote fetches a fresh gas observation for one chain.
func (e *Engine) GetGasQuote(ctx context.Context, chainID domain.Chain) (domain.GasQuote, error) {
	return e.gas.Quote(ctx, chainID)
}

// MonitorGasPrices starts threshold-based gas polling across chains and
// returns the subscription ID.
func (e *Engine) MonitorGasPrices(ctx context.Context, t gas.Thresholds, chains []domain.Chain, interval time.Duration, onAlert func(domain.GasAlert)) string {
	cancel := e.gas.Monitor(ctx, t, chains, interval, onAlert)
	return e.register(SubGas, "", "", cancel)
}

// SendAlert delivers an alert to every configured channel. A missing ID is
// filled in. Per-channel results are returned in channel order.
func (e *Engine) SendAlert(ctx context.Context, a domain.Alert) []alert.Result {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	results := make([]alert.Result, 0, len(e.channels))
	for _, ch := range e.channels {
		results = append(results, e.dispatcher.Send(ctx, a, ch))
	}
	return results
}

// ListSubscriptions returns a snapshot of live subscriptions.
func (e *Engine) ListSubscriptions() []Subscription {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	out := make([]Subscription, 0, len(e.subs))
	for _, s := range e.subs {
		out = append(out, *s)
	}
	return out
}

// CancelSubscription stops one subscription. It reports whether the ID
// was live.
func (e *Engine) CancelSubscription(id string) bool {
	e.subMu.Lock()
	sub, ok := e.subs[id]
	if ok {
		delete(e.subs, id)
	}
	e.subMu.Unlock()

	if !ok {
		return false
	}
	sub.cancel()
	metrics.ActiveSubscriptions.WithLabelValues(string(sub.Kind)).Dec()
	return true
}

// CancelAll stops every live subscription. Used on shutdown.
func (e *Engine) CancelAll() {
	e.subMu.Lock()
	subs := make([]*Subscription, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	e.subs = make(map[string]*Subscription)
	e.subMu.Unlock()

	for _, s := range subs {
		s.cancel()
		metrics.ActiveSubscriptions.WithLabelValues(string(s.Kind)).Dec()
	}
	if len(subs) > 0 {
		e.log.Info("cancelled subscriptions", "count", len(subs))
	}
}

func (e *Engine) register(kind SubscriptionKind, chainID domain.Chain, target string, cancel chain.CancelFunc) string {
	sub := &Subscription{
		ID:        uuid.NewString(),
		Kind:      kind,
		Chain:     chainID,
		Target:    target,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	e.subMu.Lock()
	e.subs[sub.ID] = sub
	e.subMu.Unlock()

	metrics.ActiveSubscriptions.WithLabelValues(string(kind)).Inc()
	return sub.ID
}

// Package events watches smart-contract event streams, decodes raw logs
// into typed events, and keeps a bounded per-contract history.
package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

type Watcher struct {
	clients map[domain.Chain]chain.Client
	decoder *Decoder
	store   *Store
	log     *logger.Logger
}

func NewWatcher(clients map[domain.Chain]chain.Client, tokens *registry.TokenRegistry) *Watcher {
	return &Watcher{
		clients: clients,
		decoder: NewDecoder(tokens),
		store:   NewStore(RingCapacity),
		log:     logger.Default().With("component", "event-watcher"),
	}
}

// Watch subscribes to a contract's event stream. An explicit signature set
// on the config wins; otherwise the resolved contract type selects one.
// A malformed config is a hard failure; everything downstream degrades.
func (w *Watcher) Watch(ctx context.Context, cfg domain.ContractConfig, onEvent func(domain.ContractEvent)) (chain.CancelFunc, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("contract config: address is required")
	}
	if !cfg.Chain.IsSupported() {
		return nil, fmt.Errorf("contract config: unsupported chain %q", cfg.Chain)
	}
	client, ok := w.clients[cfg.Chain]
	if !ok {
		return nil, fmt.Errorf("no client configured for chain %s", cfg.Chain)
	}

	signatures := cfg.EventSignatures
	if len(signatures) == 0 {
		signatures = SignaturesFor(cfg.Type)
	}

	var topics []string
	if cfg.Chain.IsEVM() {
		topics = TopicsFor(signatures)
	}

	address := domain.NormalizeAddress(cfg.Chain, cfg.Address)
	return client.WatchLogs(ctx, []string{address}, topics, func(l chain.Log) {
		ev := w.decoder.Decode(l)
		w.store.Append(ev)
		if onEvent != nil {
			onEvent(ev)
		}
	})
}

// Events returns a contract's buffered history, oldest first, capped at
// the ring capacity.
func (w *Watcher) Events(chainID domain.Chain, address string, limit int) []domain.ContractEvent {
	events := w.store.Events(chainID, address)
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events
}

// EventCount is one row of an event summary.
type EventCount struct {
	EventName string `json:"eventName"`
	Count     int    `json:"count"`
}

// EventSummary counts events per name over the lookback window and returns
// the top 5 most frequent.
func (w *Watcher) EventSummary(chainID domain.Chain, address string, window time.Duration) []EventCount {
	cutoff := time.Now().Add(-window)

	counts := make(map[string]int)
	for _, ev := range w.store.Events(chainID, address) {
		if ev.ReceivedAt.Before(cutoff) {
			continue
		}
		counts[ev.EventName]++
	}

	summary := make([]EventCount, 0, len(counts))
	for name, n := range counts {
		summary = append(summary, EventCount{EventName: name, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].EventName < summary[j].EventName
	})

	if len(summary) > 5 {
		summary = summary[:5]
	}
	return summary
}

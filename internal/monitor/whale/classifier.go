// Package whale watches token transfers and flags the ones large enough
// to matter. Counterparty labeling and transaction typing are heuristics
// built on the known-wallet registry, not ground truth.
package whale

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/metrics"
	"github.com/SolTwizzy/chainpulse/internal/monitor/events"
	"github.com/SolTwizzy/chainpulse/internal/price"
	"github.com/SolTwizzy/chainpulse/internal/registry"
)

// scanWalletLimit bounds the historical scan to the first entries of the
// known-wallet registry, in registry order.
const scanWalletLimit = 10

type Classifier struct {
	clients map[domain.Chain]chain.Client
	prices  *price.Cache
	tokens  *registry.TokenRegistry
	wallets *registry.KnownWalletRegistry
	decoder *events.Decoder
	log     *logger.Logger
}

func NewClassifier(
	clients map[domain.Chain]chain.Client,
	prices *price.Cache,
	tokens *registry.TokenRegistry,
	wallets *registry.KnownWalletRegistry,
) *Classifier {
	return &Classifier{
		clients: clients,
		prices:  prices,
		tokens:  tokens,
		wallets: wallets,
		decoder: events.NewDecoder(tokens),
		log:     logger.Default().With("component", "whale"),
	}
}

// WatchConfig configures a live transfer watch.
type WatchConfig struct {
	Chain       domain.Chain
	Tokens      []string // token contract addresses to watch
	MinValueUSD float64
}

// Watch registers a transfer-event listener on the given token contracts
// and emits a WhaleAlert for every transfer at or above MinValueUSD.
func (c *Classifier) Watch(ctx context.Context, cfg WatchConfig, onAlert func(domain.WhaleAlert)) (chain.CancelFunc, error) {
	if len(cfg.Tokens) == 0 {
		return nil, fmt.Errorf("no token contracts to watch")
	}
	client, ok := c.clients[cfg.Chain]
	if !ok {
		return nil, fmt.Errorf("no client configured for chain %s", cfg.Chain)
	}

	return client.WatchLogs(ctx, cfg.Tokens, []string{events.TopicTransfer}, func(l chain.Log) {
		alert, ok := c.evaluateTransfer(ctx, l, cfg.MinValueUSD)
		if !ok {
			return
		}
		metrics.WhaleAlerts.WithLabelValues(string(cfg.Chain), string(alert.Significance)).Inc()
		onAlert(alert)
	})
}

// evaluateTransfer prices a raw transfer log and applies the threshold.
func (c *Classifier) evaluateTransfer(ctx context.Context, l chain.Log, minValueUSD float64) (domain.WhaleAlert, bool) {
	if len(l.Topics) < 3 {
		return domain.WhaleAlert{}, false
	}

	token, ok := c.tokens.Lookup(l.Chain, l.Address)
	if !ok {
		// decimals unresolvable without the registry entry
		c.log.Debug("transfer on unregistered token, skipping", "chain", l.Chain, "token", l.Address)
		return domain.WhaleAlert{}, false
	}

	decoded, isTransfer := c.decoder.Decode(l).Decoded.(domain.TransferData)
	if !isTransfer || decoded.Value == nil {
		return domain.WhaleAlert{}, false
	}

	amount := domain.FormatUnits(decoded.Value, token.Decimals)
	valueUSD := amount * c.prices.GetPrice(ctx, token.Symbol)
	if valueUSD < minValueUSD {
		return domain.WhaleAlert{}, false
	}

	txType, label := c.Classify(l.Chain, decoded.From, decoded.To)
	return domain.WhaleAlert{
		Tx: domain.TransactionRecord{
			Hash:      l.TxHash,
			From:      decoded.From,
			To:        decoded.To,
			Value:     decoded.Value.String(),
			Chain:     l.Chain,
			Timestamp: time.Now().UTC(),
			Type:      txType,
		},
		TokenSymbol:  token.Symbol,
		Amount:       amount,
		ValueUSD:     valueUSD,
		WalletLabel:  label,
		Significance: domain.SignificanceFor(valueUSD),
	}, true
}

// ScanRecent polls recent transactions from the first registry wallets and
// applies the same USD threshold against the chain's native asset price.
func (c *Classifier) ScanRecent(ctx context.Context, chainID domain.Chain, minValueUSD float64) ([]domain.WhaleAlert, error) {
	client, ok := c.clients[chainID]
	if !ok {
		return nil, fmt.Errorf("no client configured for chain %s", chainID)
	}

	nativePrice := c.prices.GetNativeTokenPrice(ctx, chainID)
	decimals := chainID.NativeDecimals()

	alerts := []domain.WhaleAlert{}
	for _, w := range c.wallets.First(chainID, scanWalletLimit) {
		txs, err := client.GetRecentTransactions(ctx, w.Address, 20)
		if err != nil {
			// one wallet's failure never aborts the scan
			c.log.Warn("recent transaction scan failed", "wallet", w.Label, "error", err)
			continue
		}

		for _, tx := range txs {
			raw, ok := parseValue(tx.Value)
			if !ok {
				continue
			}
			amount := domain.FormatUnits(raw, decimals)
			valueUSD := amount * nativePrice
			if valueUSD < minValueUSD {
				continue
			}

			txType, label := c.Classify(chainID, tx.From, tx.To)
			tx.Type = txType
			alerts = append(alerts, domain.WhaleAlert{
				Tx:           tx,
				TokenSymbol:  chainID.NativeSymbol(),
				Amount:       amount,
				ValueUSD:     valueUSD,
				WalletLabel:  label,
				Significance: domain.SignificanceFor(valueUSD),
			})
		}
	}

	return alerts, nil
}

func parseValue(v string) (*big.Int, bool) {
	if v == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(v, 10)
	if !ok || n.Sign() == 0 {
		return nil, false
	}
	return n, true
}

// Classify types a transaction by its counterparties. Best-effort: a
// protocol label containing a bridge marker means bridge, a DEX marker
// means swap, anything else is a plain transfer. The label of the first
// known counterparty is returned for display.
func (c *Classifier) Classify(chainID domain.Chain, from, to string) (domain.TxType, string) {
	label := ""
	txType := domain.TxTypeTransfer

	for _, addr := range []string{from, to} {
		if addr == "" {
			continue
		}
		w, ok := c.wallets.Lookup(chainID, addr)
		if !ok {
			continue
		}
		if label == "" {
			label = w.Label
		}
		if w.Category != domain.CategoryProtocol {
			continue
		}

		lower := strings.ToLower(w.Label)
		if strings.Contains(lower, "bridge") {
			return domain.TxTypeBridge, label
		}
		if strings.Contains(lower, "swap") || strings.Contains(lower, "dex") {
			txType = domain.TxTypeSwap
		}
	}

	return txType, label
}

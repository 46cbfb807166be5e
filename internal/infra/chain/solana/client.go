package solana

import (
	"context"
	"fmt"
	"math/big"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/infra/rpc"
)

// Client implements chain.Client for Solana over JSON-RPC. Addresses are
// base58 and case-sensitive; no normalization happens here.
type Client struct {
	rpc          *rpc.Client
	pollInterval time.Duration
	symbolFor    func(mint string) string
	log          *logger.Logger
}

type Config struct {
	RPCURL       string
	PollInterval time.Duration
	Timeout      time.Duration
	// SymbolResolver maps a mint address to a ticker. SPL token metadata is
	// not part of the token program, so the caller supplies the lookup.
	SymbolResolver func(mint string) string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Second
	}
	resolver := cfg.SymbolResolver
	if resolver == nil {
		resolver = func(string) string { return "SPL" }
	}
	return &Client{
		rpc:          rpc.NewClient(string(domain.ChainSolana), cfg.RPCURL, cfg.Timeout),
		pollInterval: cfg.PollInterval,
		symbolFor:    resolver,
		log:          logger.Default().With("chain", domain.ChainSolana),
	}
}

func (c *Client) Chain() domain.Chain {
	return domain.ChainSolana
}

func (c *Client) Ping(ctx context.Context) error {
	result, err := c.rpc.Call(ctx, "getHealth", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", chain.ErrChainUnavailable, err)
	}
	if s, _ := result.(string); s != "ok" {
		return fmt.Errorf("%w: node health %v", chain.ErrChainUnavailable, result)
	}
	return nil
}

func (c *Client) GetNativeBalance(ctx context.Context, address string) (domain.AssetBalance, error) {
	result, err := c.rpc.Call(ctx, "getBalance", []any{address})
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: getBalance: %v", chain.ErrChainUnavailable, err)
	}

	lamports, ok := contextValue(result).(float64)
	if !ok {
		return domain.AssetBalance{}, fmt.Errorf("%w: getBalance: unexpected response", chain.ErrChainUnavailable)
	}

	raw := new(big.Int).SetUint64(uint64(lamports))
	return domain.AssetBalance{
		Symbol:    "SOL",
		Raw:       raw,
		Decimals:  9,
		Formatted: domain.FormatUnits(raw, 9),
	}, nil
}

func (c *Client) GetTokenBalance(ctx context.Context, wallet, mint string) (domain.AssetBalance, error) {
	result, err := c.rpc.Call(ctx, "getTokenAccountsByOwner", []any{
		wallet,
		map[string]any{"mint": mint},
		map[string]any{"encoding": "jsonParsed"},
	})
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: getTokenAccountsByOwner: %v", chain.ErrChainUnavailable, err)
	}

	balance := domain.AssetBalance{
		Symbol: c.symbolFor(mint),
		Token:  mint,
		Raw:    big.NewInt(0),
	}

	accounts, _ := contextValue(result).([]any)
	for _, rawAccount := range accounts {
		info := dig(rawAccount, "account", "data", "parsed", "info")
		amount := dig(info, "tokenAmount")
		if amount == nil {
			continue
		}
		m, _ := amount.(map[string]any)

		if dec, ok := m["decimals"].(float64); ok {
			balance.Decimals = uint8(dec)
		}
		if amt, ok := m["amount"].(string); ok {
			if n, ok := new(big.Int).SetString(amt, 10); ok {
				balance.Raw = new(big.Int).Add(balance.Raw, n)
			}
		}
	}

	balance.Formatted = domain.FormatUnits(balance.Raw, balance.Decimals)
	return balance, nil
}

func (c *Client) GetRecentTransactions(ctx context.Context, address string, limit int) ([]domain.TransactionRecord, error) {
	sigs, err := c.signatures(ctx, address, limit, "")
	if err != nil {
		return nil, err
	}

	txs := make([]domain.TransactionRecord, 0, len(sigs))
	for _, sig := range sigs {
		txs = append(txs, domain.TransactionRecord{
			Hash:      sig.signature,
			From:      address,
			Value:     "0",
			Chain:     domain.ChainSolana,
			Timestamp: sig.blockTime,
			Type:      domain.TxTypeUnknown,
		})
	}
	return txs, nil
}

// GetTransactionCount returns the observed signature count for an address,
// capped at the provider's single-page limit of 1000.
func (c *Client) GetTransactionCount(ctx context.Context, address string) (uint64, error) {
	sigs, err := c.signatures(ctx, address, 1000, "")
	if err != nil {
		return 0, err
	}
	return uint64(len(sigs)), nil
}

// GetFeeData is not meaningful for Solana's fee model; the gas monitor
// targets EVM chains only.
func (c *Client) GetFeeData(ctx context.Context) (chain.FeeData, error) {
	return chain.FeeData{}, chain.ErrUnsupported
}

type signatureInfo struct {
	signature string
	blockTime time.Time
}

func (c *Client) signatures(ctx context.Context, address string, limit int, until string) ([]signatureInfo, error) {
	opts := map[string]any{"limit": limit}
	if until != "" {
		opts["until"] = until
	}
	result, err := c.rpc.Call(ctx, "getSignaturesForAddress", []any{address, opts})
	if err != nil {
		return nil, fmt.Errorf("%w: getSignaturesForAddress: %v", chain.ErrChainUnavailable, err)
	}

	raw, _ := result.([]any)
	sigs := make([]signatureInfo, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		sig, _ := m["signature"].(string)
		if sig == "" {
			continue
		}
		var blockTime time.Time
		if bt, ok := m["blockTime"].(float64); ok {
			blockTime = time.Unix(int64(bt), 0).UTC()
		}
		sigs = append(sigs, signatureInfo{signature: sig, blockTime: blockTime})
	}
	return sigs, nil
}

// WatchLogs polls for new signatures on the watched addresses and emits one
// raw log per signature. Solana has no EVM-style topics, so Topics is empty
// and downstream decoding classifies these as "other".
func (c *Client) WatchLogs(ctx context.Context, addresses []string, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no addresses to watch")
	}

	stop := make(chan struct{})
	cancel := chain.Once(func() { close(stop) })

	lastSeen := make(map[string]string, len(addresses))
	for _, addr := range addresses {
		if sigs, err := c.signatures(ctx, addr, 1, ""); err == nil && len(sigs) > 0 {
			lastSeen[addr] = sigs[0].signature
		}
	}

	go func() {
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			for _, addr := range addresses {
				sigs, err := c.signatures(ctx, addr, 50, lastSeen[addr])
				if err != nil {
					c.log.Warn("signature poll failed", "address", addr, "error", err)
					continue
				}
				if len(sigs) == 0 {
					continue
				}
				lastSeen[addr] = sigs[0].signature

				// emit in chain order, oldest first
				for i := len(sigs) - 1; i >= 0; i-- {
					select {
					case <-stop:
						return
					case <-ctx.Done():
						return
					default:
						onLog(chain.Log{
							Chain:   domain.ChainSolana,
							Address: addr,
							TxHash:  sigs[i].signature,
						})
					}
				}
			}
		}
	}()

	return cancel, nil
}

// contextValue unwraps Solana's {"context": ..., "value": ...} envelope.
func contextValue(result any) any {
	m, ok := result.(map[string]any)
	if !ok {
		return nil
	}
	return m["value"]
}

func dig(v any, keys ...string) any {
	for _, key := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

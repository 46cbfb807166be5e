package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	logger "log/slog"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
	"github.com/SolTwizzy/chainpulse/internal/infra/rpc"
)

const (
	selBalanceOf = "0x70a08231" // balanceOf(address)
	selDecimals  = "0x313ce567" // decimals()
	selSymbol    = "0x95d89b41" // symbol()

	// recentBlockScan bounds how many blocks GetRecentTransactions inspects.
	recentBlockScan = 10
)

// Client implements chain.Client for one EVM network over JSON-RPC.
type Client struct {
	chainID      domain.Chain
	rpc          *rpc.Client
	wsURL        string
	pollInterval time.Duration
	log          *logger.Logger

	// token metadata never changes on-chain, so cache it per contract
	metaMu sync.RWMutex
	meta   map[string]tokenMeta
}

type tokenMeta struct {
	symbol   string
	decimals uint8
}

// Config holds per-network connection settings.
type Config struct {
	Chain        domain.Chain
	RPCURL       string
	WSURL        string
	PollInterval time.Duration
	Timeout      time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 12 * time.Second
	}
	return &Client{
		chainID:      cfg.Chain,
		rpc:          rpc.NewClient(string(cfg.Chain), cfg.RPCURL, cfg.Timeout),
		wsURL:        cfg.WSURL,
		pollInterval: cfg.PollInterval,
		meta:         make(map[string]tokenMeta),
		log:          logger.Default().With("chain", cfg.Chain),
	}
}

func (c *Client) Chain() domain.Chain {
	return c.chainID
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rpc.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", chain.ErrChainUnavailable, err)
	}
	return nil
}

func (c *Client) GetNativeBalance(ctx context.Context, address string) (domain.AssetBalance, error) {
	addr := strings.ToLower(address)
	result, err := c.rpc.Call(ctx, "eth_getBalance", []any{addr, "latest"})
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: eth_getBalance: %v", chain.ErrChainUnavailable, err)
	}

	raw, err := parseHexBig(getString(result))
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: eth_getBalance: %v", chain.ErrChainUnavailable, err)
	}

	return domain.AssetBalance{
		Symbol:    c.chainID.NativeSymbol(),
		Raw:       raw,
		Decimals:  18,
		Formatted: domain.FormatUnits(raw, 18),
	}, nil
}

func (c *Client) GetTokenBalance(ctx context.Context, wallet, token string) (domain.AssetBalance, error) {
	wallet = strings.ToLower(wallet)
	token = strings.ToLower(token)

	meta, err := c.tokenMeta(ctx, token)
	if err != nil {
		return domain.AssetBalance{}, err
	}

	data := selBalanceOf + padAddress(wallet)
	result, err := c.ethCall(ctx, token, data)
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: balanceOf %s: %v", chain.ErrChainUnavailable, token, err)
	}

	raw, err := parseHexBig(result)
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("%w: balanceOf %s: %v", chain.ErrChainUnavailable, token, err)
	}

	return domain.AssetBalance{
		Symbol:    meta.symbol,
		Token:     token,
		Raw:       raw,
		Decimals:  meta.decimals,
		Formatted: domain.FormatUnits(raw, meta.decimals),
	}, nil
}

// tokenMeta resolves symbol and decimals for a token contract, cached for
// the lifetime of the client.
func (c *Client) tokenMeta(ctx context.Context, token string) (tokenMeta, error) {
	c.metaMu.RLock()
	m, ok := c.meta[token]
	c.metaMu.RUnlock()
	if ok {
		return m, nil
	}

	decHex, err := c.ethCall(ctx, token, selDecimals)
	if err != nil {
		return tokenMeta{}, fmt.Errorf("%w: decimals %s: %v", chain.ErrChainUnavailable, token, err)
	}
	dec, err := parseHexUint64(decHex)
	if err != nil {
		return tokenMeta{}, fmt.Errorf("%w: decimals %s: %v", chain.ErrChainUnavailable, token, err)
	}

	symbol := "UNKNOWN"
	if symHex, err := c.ethCall(ctx, token, selSymbol); err == nil {
		if s := decodeABIString(symHex); s != "" {
			symbol = s
		}
	}

	m = tokenMeta{symbol: symbol, decimals: uint8(dec)}
	c.metaMu.Lock()
	c.meta[token] = m
	c.metaMu.Unlock()
	return m, nil
}

func (c *Client) ethCall(ctx context.Context, to, data string) (string, error) {
	result, err := c.rpc.Call(ctx, "eth_call", []any{
		map[string]any{"to": to, "data": data},
		"latest",
	})
	if err != nil {
		return "", err
	}
	return getString(result), nil
}

// GetRecentTransactions scans the most recent blocks for transactions
// touching the address, newest first.
func (c *Client) GetRecentTransactions(ctx context.Context, address string, limit int) ([]domain.TransactionRecord, error) {
	addr := strings.ToLower(address)

	headResult, err := c.rpc.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: eth_blockNumber: %v", chain.ErrChainUnavailable, err)
	}
	head, err := parseHexUint64(getString(headResult))
	if err != nil {
		return nil, fmt.Errorf("%w: eth_blockNumber: %v", chain.ErrChainUnavailable, err)
	}

	txs := make([]domain.TransactionRecord, 0, limit)
	for i := uint64(0); i < recentBlockScan && len(txs) < limit; i++ {
		if head < i {
			break
		}
		blockHex := fmt.Sprintf("0x%x", head-i)
		result, err := c.rpc.Call(ctx, "eth_getBlockByNumber", []any{blockHex, true})
		if err != nil {
			return nil, fmt.Errorf("%w: eth_getBlockByNumber: %v", chain.ErrChainUnavailable, err)
		}
		block, ok := result.(map[string]any)
		if !ok {
			continue
		}

		timestamp, _ := parseHexUint64(getString(block["timestamp"]))
		rawTxs, _ := block["transactions"].([]any)
		for _, rawTx := range rawTxs {
			tx, ok := rawTx.(map[string]any)
			if !ok {
				continue
			}
			from := strings.ToLower(getString(tx["from"]))
			to := strings.ToLower(getString(tx["to"]))
			if from != addr && to != addr {
				continue
			}

			value := "0"
			if v, err := parseHexBig(getString(tx["value"])); err == nil {
				value = v.String()
			}

			txs = append(txs, domain.TransactionRecord{
				Hash:      getString(tx["hash"]),
				From:      from,
				To:        to,
				Value:     value,
				Chain:     c.chainID,
				Timestamp: time.Unix(int64(timestamp), 0).UTC(),
				Type:      domain.TxTypeUnknown,
			})
			if len(txs) >= limit {
				break
			}
		}
	}

	return txs, nil
}

func (c *Client) GetTransactionCount(ctx context.Context, address string) (uint64, error) {
	result, err := c.rpc.Call(ctx, "eth_getTransactionCount", []any{strings.ToLower(address), "latest"})
	if err != nil {
		return 0, fmt.Errorf("%w: eth_getTransactionCount: %v", chain.ErrChainUnavailable, err)
	}
	count, err := parseHexUint64(getString(result))
	if err != nil {
		return 0, fmt.Errorf("%w: eth_getTransactionCount: %v", chain.ErrChainUnavailable, err)
	}
	return count, nil
}

func (c *Client) GetFeeData(ctx context.Context) (chain.FeeData, error) {
	result, err := c.rpc.Call(ctx, "eth_getBlockByNumber", []any{"latest", false})
	if err != nil {
		return chain.FeeData{}, fmt.Errorf("%w: eth_getBlockByNumber: %v", chain.ErrChainUnavailable, err)
	}
	block, ok := result.(map[string]any)
	if !ok {
		return chain.FeeData{}, fmt.Errorf("%w: invalid block format", chain.ErrChainUnavailable)
	}

	var baseFee *big.Int
	if bf, err := parseHexBig(getString(block["baseFeePerGas"])); err == nil {
		baseFee = bf
	} else {
		baseFee = big.NewInt(0)
	}

	priority := big.NewInt(0)
	if result, err := c.rpc.Call(ctx, "eth_maxPriorityFeePerGas", nil); err == nil {
		if p, err := parseHexBig(getString(result)); err == nil {
			priority = p
		}
	} else if result, err := c.rpc.Call(ctx, "eth_gasPrice", nil); err == nil {
		// legacy nodes: derive the tip from gas price
		if gp, err := parseHexBig(getString(result)); err == nil {
			priority = new(big.Int).Sub(gp, baseFee)
			if priority.Sign() < 0 {
				priority = big.NewInt(0)
			}
		}
	}

	return chain.FeeData{
		BaseFeeGwei:     weiToGwei(baseFee),
		PriorityFeeGwei: weiToGwei(priority),
	}, nil
}

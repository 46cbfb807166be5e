// Package chain defines the uniform client contract each chain family
// (EVM, Solana) implements independently. Chain clients are the sole
// gateway to network state for all higher-level components.
package chain

import (
	"context"
	"errors"
	"sync"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// ErrChainUnavailable marks a failed or timed-out RPC call. Clients must
// surface it from balance and token lookups instead of faking a zero
// balance; any zero fallback belongs to the calling component.
var ErrChainUnavailable = errors.New("chain unavailable")

// ErrUnsupported marks an operation a chain family does not provide.
var ErrUnsupported = errors.New("operation not supported on this chain")

// CancelFunc stops delivery to a watch callback. Implementations are
// idempotent: repeated calls are no-ops.
type CancelFunc func()

// Once wraps a cancel function so repeated invocation is safe.
func Once(cancel func()) CancelFunc {
	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

// Log is a raw event emitted by a contract, before decoding. For Solana the
// Topics slice is empty and TxHash carries the signature.
type Log struct {
	Chain       domain.Chain
	Address     string
	Topics      []string
	Data        string
	TxHash      string
	BlockNumber uint64
}

// FeeData is the raw per-chain fee observation used by the gas monitor.
type FeeData struct {
	BaseFeeGwei     float64
	PriorityFeeGwei float64
}

// Client is the per-chain access contract.
type Client interface {
	Chain() domain.Chain

	// Ping verifies the RPC endpoint is reachable.
	Ping(ctx context.Context) error

	// GetNativeBalance returns the native asset balance of an address.
	GetNativeBalance(ctx context.Context, address string) (domain.AssetBalance, error)

	// GetTokenBalance returns a fungible token balance with symbol and decimals.
	GetTokenBalance(ctx context.Context, wallet, token string) (domain.AssetBalance, error)

	// GetRecentTransactions returns up to limit transactions ordered by recency.
	GetRecentTransactions(ctx context.Context, address string, limit int) ([]domain.TransactionRecord, error)

	// GetTransactionCount returns the observed transaction count for an address.
	GetTransactionCount(ctx context.Context, address string) (uint64, error)

	// GetFeeData returns the current fee observation.
	GetFeeData(ctx context.Context) (FeeData, error)

	// WatchLogs delivers raw logs matching the address/topic filter to onLog
	// in node emission order until the returned handle is cancelled. In-flight
	// fetches at cancellation time are discarded, not aborted.
	WatchLogs(ctx context.Context, addresses []string, topics []string, onLog func(Log)) (CancelFunc, error)
}

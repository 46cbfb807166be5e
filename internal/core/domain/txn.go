package domain

import "time"

// TransactionRecord is a normalized transaction across chain families.
// Value is the raw integer amount as a decimal string; Solana signatures go
// in Hash like EVM transaction hashes.
type TransactionRecord struct {
	Hash      string    `json:"hash"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Value     string    `json:"value"`
	Chain     Chain     `json:"chain"`
	Timestamp time.Time `json:"timestamp"`
	Type      TxType    `json:"type"`
}

type TxType string

const (
	TxTypeTransfer TxType = "transfer"
	TxTypeSwap     TxType = "swap"
	TxTypeBridge   TxType = "bridge"
	TxTypeUnknown  TxType = "unknown"
)

// KnownWallet is a labeled address from the static registry.
type KnownWallet struct {
	Address  string
	Label    string
	Category WalletCategory
}

type WalletCategory string

const (
	CategoryExchange   WalletCategory = "exchange"
	CategoryFund       WalletCategory = "fund"
	CategoryProtocol   WalletCategory = "protocol"
	CategoryIndividual WalletCategory = "individual"
)

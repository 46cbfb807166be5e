package domain

import (
	"math/big"
	"time"
)

type ContractType string

const (
	ContractERC20   ContractType = "erc20"
	ContractERC721  ContractType = "erc721"
	ContractERC1155 ContractType = "erc1155"
	ContractAMMPool ContractType = "amm_pool"
	ContractLending ContractType = "lending_pool"
	ContractCustom  ContractType = "custom"
)

// ContractConfig describes a contract to watch. When EventSignatures is
// empty, the resolved Type selects the signature set.
type ContractConfig struct {
	Address         string
	Chain           Chain
	Type            ContractType
	EventSignatures []string
}

type EventKind string

const (
	EventTransfer   EventKind = "transfer"
	EventApproval   EventKind = "approval"
	EventSwap       EventKind = "swap"
	EventMint       EventKind = "mint"
	EventBurn       EventKind = "burn"
	EventDeposit    EventKind = "deposit"
	EventWithdrawal EventKind = "withdrawal"
	EventOther      EventKind = "other"
)

// DecodedEventData is the tagged union of known event shapes. Unmatched
// events fall back to OtherData's generic key/value map.
type DecodedEventData interface {
	Kind() EventKind
}

type TransferData struct {
	From  string
	To    string
	Value *big.Int
}

func (TransferData) Kind() EventKind { return EventTransfer }

type ApprovalData struct {
	Owner   string
	Spender string
	Value   *big.Int
}

func (ApprovalData) Kind() EventKind { return EventApproval }

type SwapData struct {
	Sender    string
	Recipient string
	AmountIn  *big.Int
	AmountOut *big.Int
}

func (SwapData) Kind() EventKind { return EventSwap }

type MintData struct {
	To    string
	Value *big.Int
}

func (MintData) Kind() EventKind { return EventMint }

type BurnData struct {
	From  string
	Value *big.Int
}

func (BurnData) Kind() EventKind { return EventBurn }

type DepositData struct {
	Account string
	Value   *big.Int
}

func (DepositData) Kind() EventKind { return EventDeposit }

type WithdrawalData struct {
	Account string
	Value   *big.Int
}

func (WithdrawalData) Kind() EventKind { return EventWithdrawal }

type OtherData struct {
	Args map[string]string
}

func (OtherData) Kind() EventKind { return EventOther }

// ContractEvent is one decoded event from a watched contract, stored in the
// per-(chain, contract) ring buffer.
type ContractEvent struct {
	Contract     string
	ContractName string
	EventName    string
	Decoded      DecodedEventData
	TxHash       string
	BlockNumber  uint64
	Chain        Chain
	ReceivedAt   time.Time
}

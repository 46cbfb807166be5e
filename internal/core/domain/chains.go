package domain

import "strings"

type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainPolygon  Chain = "polygon"
	ChainArbitrum Chain = "arbitrum"
	ChainOptimism Chain = "optimism"
	ChainBase     Chain = "base"
	ChainSolana   Chain = "solana"
)

// EVMChains lists the supported EVM-compatible networks in resolution order.
var EVMChains = []Chain{
	ChainEthereum,
	ChainPolygon,
	ChainArbitrum,
	ChainOptimism,
	ChainBase,
}

// nativeSymbols maps each chain to its native asset ticker.
var nativeSymbols = map[Chain]string{
	ChainEthereum: "ETH",
	ChainPolygon:  "MATIC",
	ChainArbitrum: "ETH",
	ChainOptimism: "ETH",
	ChainBase:     "ETH",
	ChainSolana:   "SOL",
}

func (c Chain) IsEVM() bool {
	return c != ChainSolana && nativeSymbols[c] != ""
}

func (c Chain) NativeSymbol() string {
	return nativeSymbols[c]
}

// NativeDecimals returns the decimal exponent of the chain's native asset.
func (c Chain) NativeDecimals() uint8 {
	if c == ChainSolana {
		return 9 // lamports
	}
	return 18 // wei
}

// IsSupported reports whether the chain is part of the engine's catalog.
func (c Chain) IsSupported() bool {
	return nativeSymbols[c] != ""
}

// WalletAddress is a (chain, address) pair. EVM addresses are normalized to
// lowercase at construction; Solana addresses are case-sensitive and kept as-is.
type WalletAddress struct {
	Chain   Chain
	Address string
}

func NewWalletAddress(chain Chain, address string) WalletAddress {
	return WalletAddress{Chain: chain, Address: NormalizeAddress(chain, address)}
}

// NormalizeAddress lowercases EVM addresses and leaves Solana addresses intact.
func NormalizeAddress(chain Chain, address string) string {
	if chain.IsEVM() {
		return strings.ToLower(address)
	}
	return address
}

// Key returns a map key unique across chains.
func (w WalletAddress) Key() string {
	return string(w.Chain) + ":" + w.Address
}

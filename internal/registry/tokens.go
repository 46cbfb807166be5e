// Package registry holds the static per-chain token catalog and the
// labeled known-wallet table. Both are read-only after construction and
// safe for concurrent use without locking.
package registry

import (
	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// Token is one entry in the static fungible-token catalog.
type Token struct {
	Symbol   string
	Address  string // contract address or mint
	Decimals uint8
	Name     string
}

// TokenRegistry is the per-chain catalog of known fungible tokens.
type TokenRegistry struct {
	byChain   map[domain.Chain][]Token
	byAddress map[string]Token // keyed by chain:normalized-address
}

func NewTokenRegistry() *TokenRegistry {
	r := &TokenRegistry{
		byChain:   make(map[domain.Chain][]Token),
		byAddress: make(map[string]Token),
	}
	for chain, tokens := range defaultTokens {
		for _, t := range tokens {
			r.add(chain, t)
		}
	}
	return r
}

func (r *TokenRegistry) add(chain domain.Chain, t Token) {
	t.Address = domain.NormalizeAddress(chain, t.Address)
	r.byChain[chain] = append(r.byChain[chain], t)
	r.byAddress[string(chain)+":"+t.Address] = t
}

// TokensFor returns the catalog for a chain in declaration order.
func (r *TokenRegistry) TokensFor(chain domain.Chain) []Token {
	return r.byChain[chain]
}

// Lookup finds a token by contract address or mint. Chain-aware: the same
// address string on a different chain is a different (or no) token.
func (r *TokenRegistry) Lookup(chain domain.Chain, address string) (Token, bool) {
	t, ok := r.byAddress[string(chain)+":"+domain.NormalizeAddress(chain, address)]
	return t, ok
}

var defaultTokens = map[domain.Chain][]Token{
	domain.ChainEthereum: {
		{Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Decimals: 6, Name: "Tether USD"},
		{Symbol: "DAI", Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Decimals: 18, Name: "Dai Stablecoin"},
		{Symbol: "WBTC", Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Decimals: 8, Name: "Wrapped BTC"},
		{Symbol: "LINK", Address: "0x514910771af9ca656af840dff83e8264ecf986ca", Decimals: 18, Name: "Chainlink"},
		{Symbol: "UNI", Address: "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", Decimals: 18, Name: "Uniswap"},
		{Symbol: "AAVE", Address: "0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9", Decimals: 18, Name: "Aave"},
	},
	domain.ChainPolygon: {
		{Symbol: "USDC", Address: "0x2791bca1f2de4661ed88a30c99a7a9449aa84174", Decimals: 6, Name: "USD Coin (PoS)"},
		{Symbol: "USDT", Address: "0xc2132d05d31c914a87c6611c10748aeb04b58e8f", Decimals: 6, Name: "Tether USD (PoS)"},
		{Symbol: "WETH", Address: "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619", Decimals: 18, Name: "Wrapped Ether"},
	},
	domain.ChainArbitrum: {
		{Symbol: "USDC", Address: "0xaf88d065e77c8cc2239327c5edb3a432268e5831", Decimals: 6, Name: "USD Coin"},
		{Symbol: "USDT", Address: "0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", Decimals: 6, Name: "Tether USD"},
		{Symbol: "ARB", Address: "0x912ce59144191c1204e64559fe8253a0e49e6548", Decimals: 18, Name: "Arbitrum"},
	},
	domain.ChainOptimism: {
		{Symbol: "OP", Address: "0x4200000000000000000000000000000000000042", Decimals: 18, Name: "Optimism"},
		{Symbol: "USDC", Address: "0x0b2c639c533813f4aa9d7837caf62653d097ff85", Decimals: 6, Name: "USD Coin"},
	},
	domain.ChainBase: {
		{Symbol: "USDC", Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Decimals: 6, Name: "USD Coin"},
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18, Name: "Wrapped Ether"},
	},
	domain.ChainSolana: {
		{Symbol: "USDC", Address: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6, Name: "USD Coin"},
		{Symbol: "BONK", Address: "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263", Decimals: 5, Name: "Bonk"},
		{Symbol: "JUP", Address: "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN", Decimals: 6, Name: "Jupiter"},
		{Symbol: "RAY", Address: "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R", Decimals: 6, Name: "Raydium"},
	},
}

package registry

import (
	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

// KnownWalletRegistry is the static address → label/category table for
// exchanges, funds, protocols, and notable individuals. Lookups are
// chain-aware: address formats only collide across networks by accident.
type KnownWalletRegistry struct {
	ordered map[domain.Chain][]domain.KnownWallet
	index   map[string]domain.KnownWallet
}

func NewKnownWalletRegistry() *KnownWalletRegistry {
	r := &KnownWalletRegistry{
		ordered: make(map[domain.Chain][]domain.KnownWallet),
		index:   make(map[string]domain.KnownWallet),
	}
	for chain, wallets := range defaultKnownWallets {
		for _, w := range wallets {
			w.Address = domain.NormalizeAddress(chain, w.Address)
			r.ordered[chain] = append(r.ordered[chain], w)
			r.index[string(chain)+":"+w.Address] = w
		}
	}
	return r
}

// Lookup finds a known wallet by chain and address. EVM lookups are
// case-insensitive; Solana lookups are case-sensitive.
func (r *KnownWalletRegistry) Lookup(chain domain.Chain, address string) (domain.KnownWallet, bool) {
	w, ok := r.index[string(chain)+":"+domain.NormalizeAddress(chain, address)]
	return w, ok
}

// All returns the registry entries for a chain in declaration order.
func (r *KnownWalletRegistry) All(chain domain.Chain) []domain.KnownWallet {
	return r.ordered[chain]
}

// First returns up to n entries for a chain in declaration order.
func (r *KnownWalletRegistry) First(chain domain.Chain, n int) []domain.KnownWallet {
	wallets := r.ordered[chain]
	if len(wallets) > n {
		wallets = wallets[:n]
	}
	return wallets
}

var defaultKnownWallets = map[domain.Chain][]domain.KnownWallet{
	domain.ChainEthereum: {
		{Address: "0x28c6c06298d514db089934071355e5743bf21d60", Label: "Binance 14", Category: domain.CategoryExchange},
		{Address: "0x21a31ee1afc51d94c2efccaa2092ad1028285549", Label: "Binance 15", Category: domain.CategoryExchange},
		{Address: "0x71660c4005ba85c37ccec55d0c4493e66fe775d3", Label: "Coinbase 1", Category: domain.CategoryExchange},
		{Address: "0x2910543af39aba0cd09dbb2d50200b3e800a63d2", Label: "Kraken 1", Category: domain.CategoryExchange},
		{Address: "0xdbf5e9c5206d0db70a90108bf936da60221dc080", Label: "Wintermute", Category: domain.CategoryFund},
		{Address: "0x9bf4001d307dfd62b26a2f1307ee0c0307632d59", Label: "Jump Trading", Category: domain.CategoryFund},
		{Address: "0xe592427a0aece92de3edee1f18e0157c05861564", Label: "Uniswap V3 Router", Category: domain.CategoryProtocol},
		{Address: "0x1111111254eeb25477b68fb85ed929f73a960582", Label: "1inch Swap Router", Category: domain.CategoryProtocol},
		{Address: "0x3ee18b2214aff97000d974cf647e7c347e8fa585", Label: "Wormhole Bridge", Category: domain.CategoryProtocol},
		{Address: "0x8731d54e9d02c286767d56ac03e8037c07e01e98", Label: "Stargate Bridge", Category: domain.CategoryProtocol},
		{Address: "0x5c7bcd6e7de5423a257d81b442095a1a6ced35c5", Label: "Across Bridge", Category: domain.CategoryProtocol},
		{Address: "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", Label: "vitalik.eth", Category: domain.CategoryIndividual},
	},
	domain.ChainPolygon: {
		{Address: "0xf977814e90da44bfa03b6295a0616a897441acec", Label: "Binance 8", Category: domain.CategoryExchange},
		{Address: "0xe592427a0aece92de3edee1f18e0157c05861564", Label: "Uniswap V3 Router", Category: domain.CategoryProtocol},
	},
	domain.ChainArbitrum: {
		{Address: "0xb38e8c17e38363af6ebdcb3dae12e0243582891d", Label: "Binance 54", Category: domain.CategoryExchange},
		{Address: "0x5c7bcd6e7de5423a257d81b442095a1a6ced35c5", Label: "Across Bridge", Category: domain.CategoryProtocol},
	},
	domain.ChainSolana: {
		{Address: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", Label: "Binance (Solana)", Category: domain.CategoryExchange},
		{Address: "5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9", Label: "Coinbase (Solana)", Category: domain.CategoryExchange},
		{Address: "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", Label: "Raydium AMM (DEX)", Category: domain.CategoryProtocol},
		{Address: "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth", Label: "Wormhole Bridge", Category: domain.CategoryProtocol},
	},
}

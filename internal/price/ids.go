package price

// providerIDs maps a ticker symbol to its provider asset identifier.
// Symbols without a mapping resolve to price 0 rather than erroring, so
// an unpriced token never blocks balance display.
var providerIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"WETH":  "weth",
	"SOL":   "solana",
	"MATIC": "matic-network",
	"ARB":   "arbitrum",
	"OP":    "optimism",
	"USDC":  "usd-coin",
	"USDT":  "tether",
	"DAI":   "dai",
	"WBTC":  "wrapped-bitcoin",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"AAVE":  "aave",
	"JUP":   "jupiter-exchange-solana",
	"BONK":  "bonk",
	"RAY":   "raydium",
}

package registry

import (
	"testing"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
)

func TestTokenRegistry_LookupCaseInsensitiveEVM(t *testing.T) {
	r := NewTokenRegistry()

	// Mixed-case checksummed form must resolve on EVM chains.
	tok, ok := r.Lookup(domain.ChainEthereum, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if !ok {
		t.Fatal("expected USDC lookup to succeed")
	}
	if tok.Symbol != "USDC" || tok.Decimals != 6 {
		t.Errorf("unexpected token: %+v", tok)
	}
}

func TestTokenRegistry_LookupChainAware(t *testing.T) {
	r := NewTokenRegistry()

	// Ethereum USDC address is not a token on Polygon.
	if _, ok := r.Lookup(domain.ChainPolygon, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"); ok {
		t.Error("expected ethereum USDC address to miss on polygon")
	}
}

func TestTokenRegistry_SolanaCaseSensitive(t *testing.T) {
	r := NewTokenRegistry()

	mint := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	if _, ok := r.Lookup(domain.ChainSolana, mint); !ok {
		t.Fatal("expected USDC mint lookup to succeed")
	}

	// Lowercasing a base58 mint changes the address.
	if _, ok := r.Lookup(domain.ChainSolana, "epjfwdd5aufqssqem2qn1xzybapc8g4weggkzwytdt1v"); ok {
		t.Error("expected lowercased mint to miss")
	}
}

func TestTokenRegistry_TokensFor(t *testing.T) {
	r := NewTokenRegistry()

	if got := len(r.TokensFor(domain.ChainEthereum)); got == 0 {
		t.Error("expected non-empty ethereum catalog")
	}
	if got := r.TokensFor("dogechain"); got != nil {
		t.Errorf("expected nil catalog for unknown chain, got %v", got)
	}
}

func TestKnownWalletRegistry_Lookup(t *testing.T) {
	r := NewKnownWalletRegistry()

	w, ok := r.Lookup(domain.ChainEthereum, "0x28C6c06298d514Db089934071355E5743bf21d60")
	if !ok {
		t.Fatal("expected Binance 14 lookup to succeed")
	}
	if w.Category != domain.CategoryExchange {
		t.Errorf("expected exchange category, got %s", w.Category)
	}

	if _, ok := r.Lookup(domain.ChainEthereum, "0x0000000000000000000000000000000000000001"); ok {
		t.Error("expected unknown address to miss")
	}
}

func TestKnownWalletRegistry_First(t *testing.T) {
	r := NewKnownWalletRegistry()

	all := r.All(domain.ChainEthereum)
	first := r.First(domain.ChainEthereum, 3)
	if len(first) != 3 {
		t.Fatalf("expected 3 wallets, got %d", len(first))
	}
	if first[0] != all[0] {
		t.Error("First must preserve declaration order")
	}

	// n larger than the table returns everything.
	if got := r.First(domain.ChainEthereum, 1000); len(got) != len(all) {
		t.Errorf("expected %d wallets, got %d", len(all), len(got))
	}
}

package evm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SolTwizzy/chainpulse/internal/core/domain"
	chainpkg "github.com/SolTwizzy/chainpulse/internal/infra/chain"
)

// rpcServer fakes a JSON-RPC node, dispatching on method name.
func rpcServer(t *testing.T, handlers map[string]func(params []any) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}

		handler, ok := handlers[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}

		result, err := json.Marshal(handler(req.Params))
		if err != nil {
			t.Fatalf("marshal result: %v", err)
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}))
}

func newTestClient(url string) *Client {
	return NewClient(Config{Chain: domain.ChainEthereum, RPCURL: url})
}

func TestGetNativeBalance(t *testing.T) {
	server := rpcServer(t, map[string]func([]any) any{
		"eth_getBalance": func(params []any) any {
			if params[0] != "0xd8da6bf26964af9d7eed9e03e53415d37aa96045" {
				t.Errorf("expected lowercased address, got %v", params[0])
			}
			return "0x1bc16d674ec80000" // 2 ETH
		},
	})
	defer server.Close()

	balance, err := newTestClient(server.URL).GetNativeBalance(context.Background(), "0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	if err != nil {
		t.Fatalf("GetNativeBalance failed: %v", err)
	}

	if balance.Symbol != "ETH" {
		t.Errorf("expected ETH, got %s", balance.Symbol)
	}
	if balance.Formatted != 2.0 {
		t.Errorf("expected 2.0, got %v", balance.Formatted)
	}
	if balance.Raw.Cmp(big.NewInt(2_000_000_000_000_000_000)) != 0 {
		t.Errorf("unexpected raw balance %s", balance.Raw)
	}
}

func TestGetNativeBalance_Unavailable(t *testing.T) {
	server := rpcServer(t, nil) // every method errors
	defer server.Close()

	_, err := newTestClient(server.URL).GetNativeBalance(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	if !errors.Is(err, chainpkg.ErrChainUnavailable) {
		t.Fatalf("expected ErrChainUnavailable, got %v", err)
	}
}

func TestGetTokenBalance_MetadataCached(t *testing.T) {
	const token = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	metaCalls := 0
	server := rpcServer(t, map[string]func([]any) any{
		"eth_call": func(params []any) any {
			call := params[0].(map[string]any)
			switch call["data"] {
			case selDecimals:
				metaCalls++
				return "0x0000000000000000000000000000000000000000000000000000000000000006"
			case selSymbol:
				// ABI: offset 32, length 4, "USDC"
				return "0x" +
					"0000000000000000000000000000000000000000000000000000000000000020" +
					"0000000000000000000000000000000000000000000000000000000000000004" +
					"5553444300000000000000000000000000000000000000000000000000000000"
			default:
				// balanceOf: 1000 USDC
				return "0x000000000000000000000000000000000000000000000000000000003b9aca00"
			}
		},
	})
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()
	wallet := "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"

	balance, err := client.GetTokenBalance(ctx, wallet, token)
	if err != nil {
		t.Fatalf("GetTokenBalance failed: %v", err)
	}
	if balance.Symbol != "USDC" {
		t.Errorf("expected USDC, got %s", balance.Symbol)
	}
	if balance.Decimals != 6 || balance.Formatted != 1000 {
		t.Errorf("expected 1000 with 6 decimals, got %v (%d)", balance.Formatted, balance.Decimals)
	}

	// second call reuses the cached symbol/decimals
	if _, err := client.GetTokenBalance(ctx, wallet, token); err != nil {
		t.Fatalf("second GetTokenBalance failed: %v", err)
	}
	if metaCalls != 1 {
		t.Errorf("expected 1 decimals() call, got %d", metaCalls)
	}
}

func TestGetTransactionCount(t *testing.T) {
	server := rpcServer(t, map[string]func([]any) any{
		"eth_getTransactionCount": func(params []any) any { return "0x2a" },
	})
	defer server.Close()

	count, err := newTestClient(server.URL).GetTransactionCount(context.Background(), "0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	if err != nil {
		t.Fatalf("GetTransactionCount failed: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestGetFeeData(t *testing.T) {
	server := rpcServer(t, map[string]func([]any) any{
		"eth_getBlockByNumber": func(params []any) any {
			return map[string]any{"baseFeePerGas": "0x4a817c800"} // 20 gwei
		},
		"eth_maxPriorityFeePerGas": func(params []any) any {
			return "0x77359400" // 2 gwei
		},
	})
	defer server.Close()

	fees, err := newTestClient(server.URL).GetFeeData(context.Background())
	if err != nil {
		t.Fatalf("GetFeeData failed: %v", err)
	}
	if fees.BaseFeeGwei != 20 {
		t.Errorf("expected base fee 20 gwei, got %v", fees.BaseFeeGwei)
	}
	if fees.PriorityFeeGwei != 2 {
		t.Errorf("expected priority fee 2 gwei, got %v", fees.PriorityFeeGwei)
	}
}

func TestGetRecentTransactions_FiltersAddress(t *testing.T) {
	const wallet = "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"
	server := rpcServer(t, map[string]func([]any) any{
		"eth_blockNumber": func(params []any) any { return "0x64" },
		"eth_getBlockByNumber": func(params []any) any {
			return map[string]any{
				"timestamp": "0x68b00000",
				"transactions": []any{
					map[string]any{"hash": "0x1", "from": wallet, "to": "0xabc", "value": "0xde0b6b3a7640000"},
					map[string]any{"hash": "0x2", "from": "0xabc", "to": "0xdef", "value": "0x0"},
				},
			}
		},
	})
	defer server.Close()

	txs, err := newTestClient(server.URL).GetRecentTransactions(context.Background(), wallet, 5)
	if err != nil {
		t.Fatalf("GetRecentTransactions failed: %v", err)
	}

	if len(txs) != 5 {
		t.Fatalf("expected 5 matching transactions over the block scan, got %d", len(txs))
	}
	if txs[0].Hash != "0x1" {
		t.Errorf("expected matching hash 0x1, got %s", txs[0].Hash)
	}
	if txs[0].Value != "1000000000000000000" {
		t.Errorf("expected decimal wei value, got %s", txs[0].Value)
	}
}

// =============================================================================
// Hex helper tests
// =============================================================================

func TestParseHexBig(t *testing.T) {
	n, err := parseHexBig("0xde0b6b3a7640000")
	if err != nil {
		t.Fatalf("parseHexBig failed: %v", err)
	}
	if n.String() != "1000000000000000000" {
		t.Errorf("expected 1e18, got %s", n)
	}

	if n, _ := parseHexBig("0x"); n.Sign() != 0 {
		t.Errorf("expected 0 for empty hex, got %s", n)
	}
	if _, err := parseHexBig("0xzz"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestPadAddress(t *testing.T) {
	got := padAddress("0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	want := "000000000000000000000000d8da6bf26964af9d7eed9e03e53415d37aa96045"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDecodeABIString(t *testing.T) {
	encoded := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5553444300000000000000000000000000000000000000000000000000000000"
	if got := decodeABIString(encoded); got != "USDC" {
		t.Errorf("expected USDC, got %q", got)
	}
	if got := decodeABIString("0x"); got != "" {
		t.Errorf("expected empty for short input, got %q", got)
	}
}

func TestWeiToGwei(t *testing.T) {
	if got := weiToGwei(big.NewInt(20_000_000_000)); got != 20 {
		t.Errorf("expected 20 gwei, got %v", got)
	}
	if got := weiToGwei(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %v", got)
	}
}

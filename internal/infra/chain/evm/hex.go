package evm

import (
	"fmt"
	"math/big"
	"strings"
)

func parseHexBig(hexStr string) (*big.Int, error) {
	if hexStr == "" || hexStr == "0x" {
		return big.NewInt(0), nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(strings.TrimPrefix(hexStr, "0x"), 16); !ok {
		return nil, fmt.Errorf("invalid hex: %s", hexStr)
	}
	return n, nil
}

func parseHexUint64(hexStr string) (uint64, error) {
	n, err := parseHexBig(hexStr)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func getString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// padAddress left-pads an address to a 32-byte ABI word.
func padAddress(addr string) string {
	clean := strings.TrimPrefix(strings.ToLower(addr), "0x")
	return strings.Repeat("0", 64-len(clean)) + clean
}

// topicAddress extracts the address from a 32-byte indexed topic.
func topicAddress(topic string) string {
	if len(topic) >= 42 {
		return strings.ToLower("0x" + topic[len(topic)-40:])
	}
	return ""
}

// decodeABIString decodes a solidity `string` return value
// (offset word, length word, then packed bytes).
func decodeABIString(hexStr string) string {
	data := strings.TrimPrefix(hexStr, "0x")
	if len(data) < 128 {
		return ""
	}
	length, err := parseHexUint64(data[64:128])
	if err != nil || length == 0 || 128+length*2 > uint64(len(data)) {
		return ""
	}
	raw := data[128 : 128+length*2]
	out := make([]byte, 0, length)
	for i := 0; i+1 < len(raw); i += 2 {
		var b uint64
		if _, err := fmt.Sscanf(raw[i:i+2], "%02x", &b); err != nil {
			return ""
		}
		out = append(out, byte(b))
	}
	return strings.TrimRight(string(out), "\x00")
}

func weiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	return f
}

package evm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SolTwizzy/chainpulse/internal/infra/chain"
)

// WatchLogs subscribes to contract logs. When a WebSocket endpoint is
// configured it uses eth_subscribe; otherwise it falls back to polling
// eth_getLogs on the client's poll interval.
func (c *Client) WatchLogs(ctx context.Context, addresses []string, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	lowered := make([]string, len(addresses))
	for i, a := range addresses {
		lowered[i] = strings.ToLower(a)
	}

	if c.wsURL != "" {
		return c.watchWS(ctx, lowered, topics, onLog)
	}
	return c.watchPoll(ctx, lowered, topics, onLog)
}

func logFilter(addresses, topics []string) map[string]any {
	filter := map[string]any{"address": addresses}
	if len(topics) > 0 {
		// single position, OR across the given topic hashes
		filter["topics"] = []any{topics}
	}
	return filter
}

func (c *Client) watchWS(ctx context.Context, addresses, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ws dial: %v", chain.ErrChainUnavailable, err)
	}

	subReq := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "eth_subscribe",
		"params":  []any{"logs", logFilter(addresses, topics)},
	}
	if err := conn.WriteJSON(subReq); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: eth_subscribe: %v", chain.ErrChainUnavailable, err)
	}

	stop := make(chan struct{})
	cancel := chain.Once(func() {
		close(stop)
		conn.Close()
	})

	go func() {
		for {
			var msg struct {
				Result string `json:"result"` // subscription ack
				Method string `json:"method"`
				Params struct {
					Result map[string]any `json:"result"`
				} `json:"params"`
			}
			if err := conn.ReadJSON(&msg); err != nil {
				select {
				case <-stop:
				case <-ctx.Done():
				default:
					c.log.Warn("log subscription closed", "error", err)
				}
				return
			}
			if msg.Method != "eth_subscription" || msg.Params.Result == nil {
				continue
			}

			log := c.parseLog(msg.Params.Result)

			// delivery stops immediately on cancel; the read we just
			// completed is discarded
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
				onLog(log)
			}
		}
	}()

	return cancel, nil
}

func (c *Client) watchPoll(ctx context.Context, addresses, topics []string, onLog func(chain.Log)) (chain.CancelFunc, error) {
	headResult, err := c.rpc.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: eth_blockNumber: %v", chain.ErrChainUnavailable, err)
	}
	head, err := parseHexUint64(getString(headResult))
	if err != nil {
		return nil, fmt.Errorf("%w: eth_blockNumber: %v", chain.ErrChainUnavailable, err)
	}

	stop := make(chan struct{})
	cancel := chain.Once(func() { close(stop) })

	go func() {
		cursor := head + 1
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			headResult, err := c.rpc.Call(ctx, "eth_blockNumber", nil)
			if err != nil {
				c.log.Warn("log poll: head fetch failed", "error", err)
				continue
			}
			head, err := parseHexUint64(getString(headResult))
			if err != nil || head < cursor {
				continue
			}

			filter := logFilter(addresses, topics)
			filter["fromBlock"] = fmt.Sprintf("0x%x", cursor)
			filter["toBlock"] = fmt.Sprintf("0x%x", head)

			result, err := c.rpc.Call(ctx, "eth_getLogs", []any{filter})
			if err != nil {
				c.log.Warn("log poll: eth_getLogs failed", "error", err)
				continue
			}

			rawLogs, _ := result.([]any)
			for _, rawLog := range rawLogs {
				entry, ok := rawLog.(map[string]any)
				if !ok {
					continue
				}
				log := c.parseLog(entry)
				select {
				case <-stop:
					return
				case <-ctx.Done():
					return
				default:
					onLog(log)
				}
			}
			cursor = head + 1
		}
	}()

	return cancel, nil
}

func (c *Client) parseLog(raw map[string]any) chain.Log {
	var topics []string
	if rawTopics, ok := raw["topics"].([]any); ok {
		topics = make([]string, 0, len(rawTopics))
		for _, t := range rawTopics {
			topics = append(topics, getString(t))
		}
	}
	blockNumber, _ := parseHexUint64(getString(raw["blockNumber"]))

	return chain.Log{
		Chain:       c.chainID,
		Address:     strings.ToLower(getString(raw["address"])),
		Topics:      topics,
		Data:        getString(raw["data"]),
		TxHash:      getString(raw["transactionHash"]),
		BlockNumber: blockNumber,
	}
}

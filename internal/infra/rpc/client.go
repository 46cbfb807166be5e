package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SolTwizzy/chainpulse/internal/metrics"
)

// Client is a JSON-RPC 2.0 client over HTTP with retry and backoff.
// One client serves one endpoint; chain packages own one client per network.
type Client struct {
	chain      string
	endpoint   string
	httpClient *http.Client
	retry      RetryConfig
}

// NewClient creates a client for a single JSON-RPC endpoint.
func NewClient(chain, endpoint string, timeout time.Duration) *Client {
	return &Client{
		chain:    chain,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: DefaultRetryConfig,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call makes a JSON-RPC call with exponential backoff on transient failures.
func (c *Client) Call(ctx context.Context, method string, params []any) (any, error) {
	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		result, err := c.call(ctx, method, params)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if ClassifyError(err) == ActionFatal {
			return nil, err
		}
		if attempt == c.retry.MaxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, c.retry)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

func (c *Client) call(ctx context.Context, method string, params []any) (any, error) {
	metrics.RPCCallsTotal.WithLabelValues(c.chain, method).Inc()

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(c.chain, method).Inc()
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(c.chain, method).Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RPCErrorsTotal.WithLabelValues(c.chain, method).Inc()
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result any `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(c.chain, method).Inc()
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		metrics.RPCErrorsTotal.WithLabelValues(c.chain, method).Inc()
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

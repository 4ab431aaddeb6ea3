// Package client calls the gateway's POST /chat endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tahadhari/tahadhari/pkg/llm"
)

// DefaultTimeout bounds one exchange round trip.
const DefaultTimeout = 90 * time.Second

// Client sends exchange requests to a gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the round trip timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the gateway at baseURL (e.g., "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete posts req and returns the assistant text. Transport failures wrap
// llm.ErrGatewayUnavailable; any answer other than a 2xx with a "response"
// field wraps llm.ErrProviderFailure.
func (c *Client) Complete(ctx context.Context, req llm.ExchangeRequest) (string, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", llm.ErrGatewayUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrGatewayUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", llm.ErrGatewayUnavailable, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errResp llm.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("%w: gateway returned %d: %s", llm.ErrProviderFailure, httpResp.StatusCode, errResp.Error)
		}
		return "", fmt.Errorf("%w: gateway returned %d", llm.ErrProviderFailure, httpResp.StatusCode)
	}

	var resp struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %w", llm.ErrProviderFailure, err)
	}
	if resp.Response == nil {
		return "", fmt.Errorf("%w: response field missing", llm.ErrProviderFailure)
	}
	return *resp.Response, nil
}

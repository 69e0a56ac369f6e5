// Package httpclient holds the JSON-over-HTTP plumbing shared by the
// embedding and LLM provider adapters.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Body)
}

// Unwrap maps quota rejections onto domain.ErrRateLimited.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return nil
}

// Client sends JSON requests on behalf of one provider.
type Client struct {
	provider string
	http     *http.Client
	headers  map[string]string
}

// New creates a client. headers are sent with every request.
func New(provider string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		provider: provider,
		http:     &http.Client{Timeout: timeout},
		headers:  headers,
	}
}

// PostJSON encodes in, posts it to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// Get issues a GET and discards the body. Used for connectivity checks.
func (c *Client) Get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", c.provider, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: ping failed: %w", c.provider, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return &StatusError{Provider: c.provider, Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ToFloat32 converts a decoded JSON number slice to float32.
func ToFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}

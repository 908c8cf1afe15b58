// Package api implements the HTTP boundary to the game server: one
// snapshot fetch and one action submission per tick, with rate limiting
// and retry on transient failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/aedjoel/discordia-go/internal/domain/action"
	"github.com/aedjoel/discordia-go/internal/domain/shared"
	"github.com/aedjoel/discordia-go/internal/domain/world"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// DiscordiaClient talks to the game server over its polling HTTP API.
// It implements the tick.GameClient port.
type DiscordiaClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	apiKey      string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewDiscordiaClient creates a client with default settings.
// Rate limit: 2 requests per second with burst of 2 (one fetch plus one
// submit per two-second tick).
func NewDiscordiaClient(baseURL, apiKey string) *DiscordiaClient {
	return NewDiscordiaClientWithConfig(baseURL, apiKey, defaultMaxRetries, defaultBackoffBase, nil)
}

// NewDiscordiaClientWithConfig creates a client with custom retry and clock
// configuration. If clock is nil, uses RealClock for production.
func NewDiscordiaClientWithConfig(
	baseURL, apiKey string,
	maxRetries int,
	backoffBase time.Duration,
	clock shared.Clock,
) *DiscordiaClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DiscordiaClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 2),
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

// FetchState retrieves the current fog-of-war snapshot
func (c *DiscordiaClient) FetchState(ctx context.Context) (*world.Snapshot, error) {
	var response struct {
		Success bool            `json:"success"`
		Data    *world.Snapshot `json:"data"`
		Error   string          `json:"error,omitempty"`
	}

	if err := c.request(ctx, "GET", "/game/state", nil, &response); err != nil {
		return nil, shared.NewTransportError("fetch_state", err.Error())
	}
	if !response.Success || response.Data == nil {
		return nil, shared.NewTransportError("fetch_state", fmt.Sprintf("server rejected request: %s", response.Error))
	}
	return response.Data, nil
}

// SubmitActions posts the tick's action batch. The batch is fire-and-forget:
// the server acknowledges receipt but reports no per-action results.
func (c *DiscordiaClient) SubmitActions(ctx context.Context, batch *action.Batch) error {
	if batch.Len() == 0 {
		return nil
	}

	body := struct {
		Actions []action.Action `json:"actions"`
	}{Actions: batch.Actions}

	var response struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}

	if err := c.request(ctx, "POST", "/actions", body, &response); err != nil {
		return shared.NewTransportError("submit_actions", err.Error())
	}
	if !response.Success {
		return shared.NewTransportError("submit_actions", fmt.Sprintf("server rejected batch: %s", response.Error))
	}
	return nil
}

// retryableError marks failures worth another attempt
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

// addJitter adds random jitter to a duration to avoid thundering herd
// when multiple agents retry simultaneously
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP request with rate limiting and exponential backoff
// retries. Only network errors, 429 and 5xx are retried; any other non-2xx
// status fails immediately.
func (c *DiscordiaClient) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("failed to read response: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			var retryAfterDuration time.Duration
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					retryAfterDuration = time.Duration(seconds) * time.Second
				}
			}

			lastErr = &retryableError{
				message:    fmt.Sprintf("server error (%d)", resp.StatusCode),
				retryAfter: retryAfterDuration,
			}
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			backoffDelay := addJitter(c.backoffBase * time.Duration(1<<attempt))
			if retryAfterDuration > 0 {
				// Server-provided Retry-After wins, without jitter
				backoffDelay = retryAfterDuration
			}
			c.clock.Sleep(backoffDelay)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

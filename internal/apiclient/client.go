package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// API is the request surface every service talks through. All BidStock
// traffic funnels through one implementation of this interface.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// TokenSource supplies the bearer token attached to every request. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the configured HTTP client wrapping the BidStock base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	timeout time.Duration
}

// Options tune a Client beyond its base URL.
type Options struct {
	// Timeout bounds each request, connect to last body byte. Zero means
	// DefaultTimeout.
	Timeout time.Duration
	// RateLimit, RateBurst throttle outgoing requests. Zero RateLimit
	// disables throttling.
	RateLimit float64
	RateBurst int
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// New creates a Client for the given base URL. tokens may be nil for a
// client that never authenticates.
func New(baseURL string, tokens TokenSource, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		tokens:  tokens,
		limiter: limiter,
		timeout: timeout,
	}
}

// Get issues a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("apiclient: rate limit wait for %s %s: %w", method, path, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	utils.Debug("API request", map[string]any{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start).String(),
	})

	env, err := utils.DecodeEnvelope(resp.Body)
	if err != nil {
		if resp.StatusCode >= 400 {
			return c.statusError(method, path, resp.StatusCode, "")
		}
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp.StatusCode, env.Message)
	}

	if out != nil {
		if err := env.DataInto(out); err != nil {
			return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
		}
	}
	return nil
}

// statusError maps a failed response to the client error taxonomy, keeping
// the server's message for the caller to surface verbatim.
func (c *Client) statusError(method, path string, status int, message string) error {
	apiErr := &clienterrors.APIError{Status: status, Message: message}

	utils.Warn("API request failed", map[string]any{
		"method":  method,
		"path":    path,
		"status":  status,
		"message": message,
	})

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("apiclient: %s %s: %w: %w", method, path, clienterrors.ErrUnauthorized, apiErr)
	case http.StatusNotFound:
		return fmt.Errorf("apiclient: %s %s: %w: %w", method, path, clienterrors.ErrNotFound, apiErr)
	default:
		return fmt.Errorf("apiclient: %s %s: %w", method, path, apiErr)
	}
}

package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cinematch/cinematch-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 30 * time.Second
	defaultRPS     = 10.0
	defaultBurst   = 20

	// Error bodies are truncated to this many bytes in error messages.
	maxErrorBody = 256
)

// Observer receives one callback per completed HTTP exchange.
// outcome is "ok" or the name of the failure class.
type Observer interface {
	ObserveProviderCall(op, outcome string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveProviderCall(string, string, time.Duration) {}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string // v3 key, sent as api_key
	AccessToken string // v4 read token, sent as a bearer token
	Language    string
	Timeout     time.Duration
	RPS         float64 // negative disables client-side limiting
	Burst       int

	// BreakerFailures is the number of consecutive failures that open the
	// circuit. Negative disables the breaker.
	BreakerFailures int
	// BreakerTimeout is how long the circuit stays open before a trial request.
	BreakerTimeout time.Duration

	// HTTPClient overrides the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client is a rate-limited TMDB API client.
type Client struct {
	http     *http.Client
	limiter  *ratelimit.KeyedRateLimiter
	breaker  *gobreaker.CircuitBreaker[[]byte] // nil when disabled
	baseURL  string
	apiKey   string
	token    string
	language string
	observer Observer
	logger   *slog.Logger
}

// New creates a new TMDB client.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RPS == 0 {
		opts.RPS = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}

	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = defaultBreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = defaultBreakerTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var breaker *gobreaker.CircuitBreaker[[]byte]
	if opts.BreakerFailures > 0 {
		breaker = newBreaker(uint32(opts.BreakerFailures), opts.BreakerTimeout, logger) //#nosec G115 -- positive int checked above
	}

	return &Client{
		http:     httpClient,
		limiter:  ratelimit.New(opts.RPS, opts.Burst),
		breaker:  breaker,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		token:    opts.AccessToken,
		language: opts.Language,
		observer: noopObserver{},
		logger:   logger,
	}
}

// SetObserver installs an observer for request outcomes.
func (c *Client) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	c.observer = o
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// doRequest executes a GET against the API behind the circuit breaker and
// rate limiter, and maps the response status to the package's sentinel errors.
func (c *Client) doRequest(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	if c.breaker == nil {
		return c.limitedRequest(ctx, op, path, query)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.limitedRequest(ctx, op, path, query)
	})
	if breakerRejected(err) {
		c.observer.ObserveProviderCall(op, "circuit_open", 0)
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return body, err
}

func (c *Client) limitedRequest(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, op); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		query.Set("language", c.language)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Cinematch/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("tmdb request",
		"op", op,
		"path", path,
	)

	start := time.Now()
	body, err := c.execute(req)
	c.observer.ObserveProviderCall(op, outcome(err), time.Since(start))
	return body, err
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, statusMessage(body))
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, statusMessage(body))
	}
}

// statusMessage extracts TMDB's status_message from an error body, falling
// back to the raw (truncated) body.
func statusMessage(body []byte) string {
	var status rawStatus
	if err := json.Unmarshal(body, &status); err == nil && status.StatusMessage != "" {
		return status.StatusMessage
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isErr(err, ErrNotFound):
		return "not_found"
	case isErr(err, ErrUnauthorized):
		return "unauthorized"
	case isErr(err, ErrRateLimited):
		return "rate_limited"
	case isErr(err, ErrBadRequest):
		return "bad_request"
	case isErr(err, ErrServer):
		return "server_error"
	default:
		return "transport_error"
	}
}

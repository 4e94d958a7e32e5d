package api

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/sahayi/internal/models"
)

// HTTPDoer is the slice of tls_client.HttpClient the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type idleCloser interface {
	CloseIdleConnections()
}

// Client is a stateless wrapper around the assistant service's three
// operations. Every call is exactly one round trip; nothing is retried.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	timeout    time.Duration
	logger     zerolog.Logger
	requestID  func() string
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the service base URL (scheme and host, optional path prefix)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the transport timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the TLS transport (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		c.requestID = fn
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:   models.DefaultBaseURL,
		timeout:   300 * time.Second,
		logger:    zerolog.Nop(),
		requestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := validateBaseURL(client.baseURL); err != nil {
		return nil, err
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		if client.timeout > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(timeoutSeconds(client.timeout)))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return nil
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Calls made after Close fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if ic, ok := c.httpClient.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// timeoutSeconds rounds up so a sub-second timeout never becomes 0 (no timeout).
func timeoutSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

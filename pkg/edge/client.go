// Package edge provides the HTTP transport, response decoders and entity
// controllers for the management API. Listing is delegated to
// pagination.Traverser.
package edge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/maxviazov/edge-client/pkg/pagination"
)

// DefaultEndpoint is the public management API base URI.
const DefaultEndpoint = "https://api.enterprise.apigee.com/v1"

const (
	defaultTimeout = 30 * time.Second
	// defaultMaxResponseSize caps a single page body.
	defaultMaxResponseSize = 64 << 20
)

// Client performs GET requests against one organization of the management API.
// It implements pagination.Transport.
type Client struct {
	endpoint *url.URL
	org      string
	http     *http.Client
	timeout  time.Duration
	maxBody  int64
	headers  http.Header
	limiter  *rate.Limiter
	pageSize int
	log      zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented http.Client. The client is
// used as is; WithTimeout does not apply to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxResponseSize caps the size of a response body. Larger bodies fail
// the request with a TransportError.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHeader adds a header sent with every request, e.g. Authorization.
func WithHeader(name, value string) Option {
	return func(c *Client) { c.headers.Add(name, value) }
}

// WithRateLimit caps outgoing requests at rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithPageSize sets the count requested per page during full traversals.
// 0 leaves the page size to the server.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = max(n, 0) }
}

// WithLogger sets the logger used by the client and its controllers.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a client for organization at endpoint (DefaultEndpoint if empty).
func NewClient(endpoint, organization string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URI", endpoint)
	}
	if strings.TrimSpace(organization) == "" {
		return nil, errors.New("organization is required")
	}

	c := &Client{
		endpoint: u,
		org:      organization,
		timeout:  defaultTimeout,
		maxBody:  defaultMaxResponseSize,
		headers:  make(http.Header),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	c.log = c.log.With().Str("module", "edge").Str("org", organization).Logger()
	return c, nil
}

// Organization returns the organization the client talks to.
func (c *Client) Organization() string { return c.org }

// collectionURI returns the endpoint of an organization-scoped collection.
func (c *Client) collectionURI(collection string) *url.URL {
	return c.endpoint.JoinPath("organizations", c.org, collection)
}

// fault is the error body returned by the management API.
type fault struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Get executes a GET against uri. Network failures and non-2xx responses are
// returned as *pagination.TransportError.
func (c *Client) Get(ctx context.Context, uri string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &pagination.TransportError{URI: uri, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &pagination.TransportError{URI: uri, Err: err}
	}
	req.Header = c.headers.Clone()
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("uri", uri).Msg("request failed")
		return nil, &pagination.TransportError{URI: uri, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &pagination.TransportError{URI: uri, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > c.maxBody {
		c.log.Error().Str("uri", uri).Int64("limit", c.maxBody).Msg("response too large")
		return nil, &pagination.TransportError{
			URI:        uri,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body exceeds %d bytes", c.maxBody),
		}
	}
	c.log.Debug().Str("uri", uri).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("GET")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &pagination.TransportError{URI: uri, StatusCode: resp.StatusCode}
		var f fault
		if json.Unmarshal(body, &f) == nil {
			te.Code, te.Message = f.Code, f.Message
		}
		c.log.Warn().Str("uri", uri).Int("status", resp.StatusCode).Str("code", te.Code).Msg("request rejected")
		return nil, te
	}
	return body, nil
}

package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"marketdash/internal/market"
	"marketdash/internal/ratelimit"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the CoinGecko API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient performs the actual requests.
	httpClient HTTPClient
	// header contains additional headers sent with each request.
	header http.Header
	// limiter paces calls to stay inside the upstream request budget.
	limiter *ratelimit.TokenBucket
	logger  *logrus.Entry
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLimiter sets the request pacing limiter.
func WithLimiter(tb *ratelimit.TokenBucket) Option {
	return func(c *Client) { c.limiter = tb }
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger.WithField("component", "coingecko") }
}

// New creates a new CoinGecko API client. An empty key is allowed; the demo
// key header is only sent when one is configured.
func New(key string, options ...Option) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		logger:     logger.WithField("component", "coingecko"),
	}
	if key != "" {
		// Demo-tier API key header, see https://docs.coingecko.com/
		c.header.Set("x-cg-demo-api-key", key)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// get performs one paced GET and decodes the JSON body into out.
// Timeouts, connection errors, non-200 statuses and undecodable bodies all
// collapse into market.ErrUnavailable; a 404 becomes market.ErrNotFound.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Warn("request failed")
		return fmt.Errorf("%w: %v", market.ErrUnavailable, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return market.ErrNotFound
	case http.StatusTooManyRequests:
		c.logger.WithField("endpoint", endpoint).Warn("rate limit exceeded")
		return fmt.Errorf("%w: rate limited", market.ErrUnavailable)
	default:
		c.logger.WithFields(logrus.Fields{"endpoint": endpoint, "status": res.StatusCode}).Warn("unexpected status")
		return fmt.Errorf("%w: status %d", market.ErrUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", market.ErrUnavailable, endpoint, err)
	}
	return nil
}

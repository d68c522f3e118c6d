package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"marketdash/internal/httpx"
	"marketdash/internal/market"
)

type Config struct {
	// BaseURL is the Yahoo Finance query host.
	BaseURL string
}

// Client is a client for the Yahoo Finance JSON API.
type Client struct {
	cfg    Config
	client *httpx.Client
	logger *logrus.Entry
}

func New(cfg Config, hc *httpx.Client, logger *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{cfg: cfg, client: hc, logger: logger.WithField("component", "yahoo")}
}

// Value is Yahoo's {raw, fmt} number wrapper. Optional fields decode into a
// nil *Value, which the accessors treat as absent.
type Value struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

// Float returns the raw value and whether it was present.
func (v *Value) Float() (float64, bool) {
	if v == nil {
		return 0, false
	}
	return v.Raw, true
}

// Or returns the raw value, or def when absent.
func (v *Value) Or(def float64) float64 {
	if v == nil {
		return def
	}
	return v.Raw
}

// Int64 returns the raw value truncated to int64, 0 when absent.
func (v *Value) Int64() int64 {
	if v == nil {
		return 0
	}
	return int64(v.Raw)
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// get performs one GET and decodes the JSON body into out. The error mapping
// mirrors the rest of the upstream clients: 404 is ErrNotFound, everything
// else that is not a clean 200 is ErrUnavailable.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.cfg.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(ctx, req)
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

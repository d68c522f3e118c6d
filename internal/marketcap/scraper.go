package marketcap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"marketdash/internal/httpx"
	"marketdash/internal/market"
)

// symbolSelector matches the ticker cell on the market-cap ranking page.
const symbolSelector = ".company-code"

type Config struct {
	// URL of the companies-by-market-cap ranking page.
	URL string
}

// Scraper extracts the top ticker symbols, in rank order, from the
// market-cap ranking page.
type Scraper struct {
	cfg    Config
	client *httpx.Client
	logger *logrus.Entry
}

func New(cfg Config, hc *httpx.Client, logger *logrus.Logger) *Scraper {
	if cfg.URL == "" {
		cfg.URL = "https://companiesmarketcap.com/"
	}
	return &Scraper{cfg: cfg, client: hc, logger: logger.WithField("component", "marketcap")}
}

// TopSymbols returns up to limit ticker symbols ordered by market cap.
// Zero selector matches is a failure, not an empty result: it means the page
// changed shape and the scrape target is gone.
func (s *Scraper) TopSymbols(ctx context.Context, limit int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		s.logger.WithError(err).Warn("ranking page request failed")
		return nil, fmt.Errorf("%w: %v", market.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.WithField("status", resp.StatusCode).Warn("ranking page returned non-200")
		return nil, fmt.Errorf("%w: ranking page status %d", market.ErrUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse ranking page: %v", market.ErrUnavailable, err)
	}

	sel := doc.Find(symbolSelector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q matched nothing", market.ErrUnavailable, symbolSelector)
	}

	symbols := make([]string, 0, limit)
	sel.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		sym := strings.ToUpper(strings.TrimSpace(el.Text()))
		if sym != "" {
			symbols = append(symbols, sym)
		}
		return len(symbols) < limit
	})

	s.logger.WithField("count", len(symbols)).Debug("scraped ranking page")
	return symbols, nil
}

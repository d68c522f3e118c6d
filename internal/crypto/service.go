package crypto

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"marketdash/internal/coingecko"
	"marketdash/internal/config"
	"marketdash/internal/market"
	"marketdash/internal/popcache"
)

// Service implements the cryptocurrency operations on top of the CoinGecko
// client. The popular listing is cached with a short TTL chosen to respect
// the free-tier request budget; there is no static fallback, only the stale
// entry.
type Service struct {
	cfg    config.Crypto
	client *coingecko.Client
	top    *popcache.List[market.Crypto]
	logger *logrus.Entry
	now    func() time.Time
}

func New(cfg config.Crypto, client *coingecko.Client, logger *logrus.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		top:    popcache.New[market.Crypto](time.Duration(cfg.CacheTTLSeconds) * time.Second),
		logger: logger.WithField("component", "crypto"),
		now:    time.Now,
	}
}

// Top returns the top-n coins by market cap as listing records, served from
// the cache where possible.
func (s *Service) Top(ctx context.Context, n int) ([]market.Crypto, error) {
	if n < 1 {
		n = 1
	}
	if n > s.cfg.MaxTop {
		n = s.cfg.MaxTop
	}
	return s.top.GetOrFetch(ctx, n, s.fetchTop)
}

func (s *Service) fetchTop(ctx context.Context, n int) ([]market.Crypto, error) {
	coins, err := s.client.Markets(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]market.Crypto, 0, len(coins))
	for _, coin := range coins {
		out = append(out, normalizeListing(coin))
	}
	return out, nil
}

// ResetCache clears the popular-coins cache.
func (s *Service) ResetCache() {
	s.top.Reset()
}

// Coin returns one coin by its upstream id. full adds the supply, all-time
// extremes and descriptive detail block; the basic record is the fixed
// listing subset.
func (s *Service) Coin(ctx context.Context, id string, full bool) (*market.Crypto, error) {
	coin, err := s.client.CoinDetail(ctx, strings.ToLower(id))
	if err != nil {
		return nil, err
	}
	return normalizeDetail(coin, full)
}

// Search returns up to 10 coins matching the query, upstream relevance order.
func (s *Service) Search(ctx context.Context, query string) ([]market.SearchResult, error) {
	coins, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]market.SearchResult, 0, 10)
	for _, coin := range coins {
		results = append(results, market.SearchResult{
			ID:     coin.ID,
			Symbol: strings.ToUpper(coin.Symbol),
			Name:   coin.Name,
			Image:  coin.Large,
			Rank:   coin.MarketCapRank,
		})
		if len(results) == 10 {
			break
		}
	}
	return results, nil
}

// BySymbol resolves a ticker symbol to a coin record. The search results are
// scanned for an exact case-insensitive symbol match; when none exists the
// first search result is used as a best-effort match. That fuzzy fallback is
// deliberate: tickers are not unique upstream and the top-ranked hit is the
// most useful answer.
func (s *Service) BySymbol(ctx context.Context, symbol string) (*market.Crypto, error) {
	results, err := s.Search(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, market.ErrNotFound
	}

	id := results[0].ID
	for _, result := range results {
		if strings.EqualFold(result.Symbol, symbol) {
			id = result.ID
			break
		}
	}
	return s.Coin(ctx, id, false)
}

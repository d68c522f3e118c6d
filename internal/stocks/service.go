package stocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketdash/internal/config"
	"marketdash/internal/market"
	"marketdash/internal/marketcap"
	"marketdash/internal/popcache"
	"marketdash/internal/yahoo"
)

// popularFanout bounds concurrent per-symbol hydration requests.
const popularFanout = 5

// Service implements the equity operations on top of the market-cap scraper
// and the Yahoo Finance client.
type Service struct {
	cfg     config.Stocks
	yahoo   *yahoo.Client
	scraper *marketcap.Scraper
	popular *popcache.List[string]
	logger  *logrus.Entry
	now     func() time.Time
}

func New(cfg config.Stocks, yc *yahoo.Client, scraper *marketcap.Scraper, logger *logrus.Logger) *Service {
	popular := popcache.New[string](
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		popcache.WithFallback(cfg.FallbackSymbols),
	)
	return &Service{
		cfg:     cfg,
		yahoo:   yc,
		scraper: scraper,
		popular: popular,
		logger:  logger.WithField("component", "stocks"),
		now:     time.Now,
	}
}

// PopularSymbols returns the top-n ticker symbols by market cap, served from
// the cache where possible.
func (s *Service) PopularSymbols(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		n = 1
	}
	if n > s.cfg.MaxTop {
		n = s.cfg.MaxTop
	}
	return s.popular.GetOrFetch(ctx, n, s.scraper.TopSymbols)
}

// PopularRow is one row of the popular listing. A symbol whose hydration
// failed keeps its rank position with an error message instead of being
// dropped, so the list length always matches the symbol list.
type PopularRow struct {
	Stock *market.Stock
	Err   string
}

func (r PopularRow) MarshalJSON() ([]byte, error) {
	if r.Stock != nil {
		return json.Marshal(r.Stock)
	}
	return json.Marshal(map[string]string{"error": r.Err})
}

// Popular returns basic records for the top-n symbols, hydrated concurrently.
func (s *Service) Popular(ctx context.Context, n int) ([]PopularRow, error) {
	symbols, err := s.PopularSymbols(ctx, n)
	if err != nil {
		return nil, err
	}

	rows := make([]PopularRow, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(popularFanout)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			stock, err := s.Stock(gctx, symbol, false)
			if err != nil {
				s.logger.WithError(err).WithField("symbol", symbol).Warn("popular hydration failed")
				rows[i] = PopularRow{Err: "No data available for " + symbol}
				return nil
			}
			rows[i] = PopularRow{Stock: stock}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListEntry is one dropdown row of the popular list.
type ListEntry struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// PopularList returns the top-n symbols with name and price attached.
// Symbols that fail to hydrate are skipped.
func (s *Service) PopularList(ctx context.Context, n int) ([]ListEntry, error) {
	symbols, err := s.PopularSymbols(ctx, n)
	if err != nil {
		return nil, err
	}

	entries := make([]ListEntry, len(symbols))
	found := make([]bool, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(popularFanout)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			stock, err := s.Stock(gctx, symbol, false)
			if err != nil {
				return nil
			}
			entries[i] = ListEntry{Symbol: symbol, Name: stock.Name, Price: stock.Price}
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]ListEntry, 0, len(entries))
	for i, entry := range entries {
		if found[i] {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ResetCache clears the popular-symbols cache.
func (s *Service) ResetCache() {
	s.popular.Reset()
}

func (s *Service) loadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

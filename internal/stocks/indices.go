package stocks

import (
	"context"
	"strings"
	"time"

	"marketdash/internal/market"
	"marketdash/internal/yahoo"
)

// indexEntry names one tracked market index. The slice keeps a stable fetch
// order; the response is keyed by name.
type indexEntry struct {
	name   string
	symbol string
}

var trackedIndices = []indexEntry{
	{"sp500", "^GSPC"},
	{"dow", "^DJI"},
	{"nasdaq", "^IXIC"},
	{"russell2000", "^RUT"},
	{"vix", "^VIX"},
	{"ftse", "^FTSE"},
	{"dax", "^GDAXI"},
	{"nikkei", "^N225"},
	{"shanghai", "000001.SS"},
	{"cac40", "^FCHI"},
}

// Indices returns snapshots of the tracked market indices plus a coarse
// up/down summary. An index whose fetch fails is skipped, not an error; the
// whole operation fails only when no index could be fetched.
func (s *Service) Indices(ctx context.Context) (*market.Indices, error) {
	out := &market.Indices{
		Indices:     make(map[string]market.Index),
		LastUpdated: s.now().Format(time.RFC3339),
	}

	for _, entry := range trackedIndices {
		qs, err := s.yahoo.QuoteSummary(ctx, entry.symbol, yahoo.ModulePrice)
		if err != nil {
			s.logger.WithError(err).WithField("index", entry.name).Warn("index fetch failed")
			continue
		}
		price := qs.Price
		if price == nil {
			continue
		}
		current, ok := price.RegularMarketPrice.Float()
		if !ok || current == 0 {
			continue
		}

		previous := price.RegularMarketPreviousClose.Or(current)
		change := current - previous
		out.Indices[entry.name] = market.Index{
			Symbol:        entry.symbol,
			Name:          defaultString(price.LongName, strings.ToUpper(entry.name)),
			Price:         market.Round2(current),
			Change:        market.Round2(change),
			ChangePercent: market.Round2(market.PercentChange(change, previous)),
			DayHigh:       market.Round2(price.RegularMarketDayHigh.Or(0)),
			DayLow:        market.Round2(price.RegularMarketDayLow.Or(0)),
			Volume:        price.RegularMarketVolume.Int64(),
			Currency:      defaultString(price.Currency, "USD"),
			Exchange:      defaultString(price.Exchange, market.NA),
			MarketState:   defaultString(price.MarketState, "UNKNOWN"),
		}
	}
	if len(out.Indices) == 0 {
		return nil, market.ErrNotFound
	}

	out.MarketSummary = summarize(out.Indices)
	return out, nil
}

func summarize(indices map[string]market.Index) market.MarketSummary {
	summary := market.MarketSummary{TotalIndices: len(indices)}
	for _, idx := range indices {
		switch {
		case idx.Change > 0:
			summary.MarketsUp++
		case idx.Change < 0:
			summary.MarketsDown++
		default:
			summary.MarketsUnchanged++
		}
	}
	switch {
	case summary.MarketsUp > summary.MarketsDown:
		summary.MarketSentiment = "bullish"
	case summary.MarketsDown > summary.MarketsUp:
		summary.MarketSentiment = "bearish"
	default:
		summary.MarketSentiment = "neutral"
	}
	return summary
}
